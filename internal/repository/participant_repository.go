package repository

import (
    "context"
    "fmt"

    "github.com/iliyamo/event-rides/internal/model"
)

const participantColumns = `id, event_id, user_id, status, ride_mode, seats_offered,
    pickup_area, notes, created_at, updated_at`

func scanParticipant(s rowScanner) (*model.Participant, error) {
    var p model.Participant
    err := s.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.RideMode, &p.SeatsOffered,
        &p.PickupArea, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
    if err != nil {
        return nil, notFound(err)
    }
    return &p, nil
}

// LockParticipant reads a participant by id and holds its row lock.
func (t *sqlTx) LockParticipant(ctx context.Context, id string) (*model.Participant, error) {
    row := t.tx.QueryRowContext(ctx,
        `SELECT `+participantColumns+` FROM event_participants WHERE id = ? FOR UPDATE`, id)
    return scanParticipant(row)
}

// LockParticipantByUser reads the (event, user) participant and holds its
// row lock.  When no row exists the unique index gap stays locked, so a
// concurrent insert for the same pair waits for this transaction.
func (t *sqlTx) LockParticipantByUser(ctx context.Context, eventID, userID string) (*model.Participant, error) {
    row := t.tx.QueryRowContext(ctx,
        `SELECT `+participantColumns+` FROM event_participants
         WHERE event_id = ? AND user_id = ? FOR UPDATE`, eventID, userID)
    return scanParticipant(row)
}

// LockOldestPending locks the earliest created PENDING participant.
func (t *sqlTx) LockOldestPending(ctx context.Context, eventID string) (*model.Participant, error) {
    row := t.tx.QueryRowContext(ctx,
        `SELECT `+participantColumns+` FROM event_participants
         WHERE event_id = ? AND status = ?
         ORDER BY created_at ASC, id ASC LIMIT 1 FOR UPDATE`, eventID, model.ParticipantPending)
    return scanParticipant(row)
}

func (t *sqlTx) InsertParticipant(ctx context.Context, p *model.Participant) error {
    _, err := t.tx.ExecContext(ctx,
        `INSERT INTO event_participants (`+participantColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?)`,
        p.ID, p.EventID, p.UserID, p.Status, p.RideMode, p.SeatsOffered,
        p.PickupArea, p.Notes, p.CreatedAt, p.UpdatedAt)
    if isDuplicate(err) {
        return fmt.Errorf("%w: participant for event %s and user %s", ErrConflict, p.EventID, p.UserID)
    }
    return err
}

// UpdateParticipant writes every mutable column of p.  created_at is never
// touched, which keeps a rejoining participant in their original queue slot.
func (t *sqlTx) UpdateParticipant(ctx context.Context, p *model.Participant) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE event_participants
         SET status = ?, ride_mode = ?, seats_offered = ?, pickup_area = ?, notes = ?, updated_at = ?
         WHERE id = ?`,
        p.Status, p.RideMode, p.SeatsOffered, p.PickupArea, p.Notes, p.UpdatedAt, p.ID)
    return err
}

func (t *sqlTx) CountParticipantsByStatus(ctx context.Context, eventID string, status model.ParticipationStatus) (int, error) {
    var n int
    err := t.tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM event_participants WHERE event_id = ? AND status = ?`,
        eventID, status).Scan(&n)
    return n, err
}

func (t *sqlTx) ListParticipants(ctx context.Context, eventID string) ([]model.Participant, error) {
    rows, err := t.tx.QueryContext(ctx,
        `SELECT `+participantColumns+` FROM event_participants
         WHERE event_id = ? ORDER BY created_at ASC, id ASC`, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Participant
    for rows.Next() {
        p, err := scanParticipant(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *p)
    }
    return out, rows.Err()
}
