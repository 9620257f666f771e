package repository

import (
    "context"
    "time"

    "github.com/iliyamo/event-rides/internal/model"
)

const matchColumns = `id, event_id, driver_participant_id, rider_participant_id, status,
    created_by, created_at, updated_at`

func scanMatch(s rowScanner) (*model.RideMatch, error) {
    var m model.RideMatch
    err := s.Scan(&m.ID, &m.EventID, &m.DriverParticipantID, &m.RiderParticipantID,
        &m.Status, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
    if err != nil {
        return nil, notFound(err)
    }
    return &m, nil
}

// GetMatch reads a match without locking it.
func (t *sqlTx) GetMatch(ctx context.Context, id string) (*model.RideMatch, error) {
    row := t.tx.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM ride_matches WHERE id = ?`, id)
    return scanMatch(row)
}

func (t *sqlTx) LockMatch(ctx context.Context, id string) (*model.RideMatch, error) {
    row := t.tx.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM ride_matches WHERE id = ? FOR UPDATE`, id)
    return scanMatch(row)
}

func (t *sqlTx) InsertMatch(ctx context.Context, m *model.RideMatch) error {
    _, err := t.tx.ExecContext(ctx,
        `INSERT INTO ride_matches (`+matchColumns+`) VALUES (?,?,?,?,?,?,?,?)`,
        m.ID, m.EventID, m.DriverParticipantID, m.RiderParticipantID, m.Status,
        m.CreatedBy, m.CreatedAt, m.UpdatedAt)
    return err
}

func (t *sqlTx) UpdateMatchStatus(ctx context.Context, id string, status model.MatchStatus, at time.Time) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE ride_matches SET status = ?, updated_at = ? WHERE id = ?`, status, at, id)
    return err
}

// cancelWhere locks the active matches selected by cond, cancels them and
// returns their ids.
func (t *sqlTx) cancelWhere(ctx context.Context, cond string, at time.Time, args ...any) ([]string, error) {
    q := `SELECT id FROM ride_matches WHERE (` + cond + `) AND status IN (?, ?) FOR UPDATE`
    rows, err := t.tx.QueryContext(ctx, q, append(args, model.MatchProposed, model.MatchAccepted)...)
    if err != nil {
        return nil, err
    }
    ids, err := collectIDs(rows)
    if err != nil || len(ids) == 0 {
        return ids, err
    }
    ph, idArgs := inClause(ids)
    _, err = t.tx.ExecContext(ctx,
        `UPDATE ride_matches SET status = ?, updated_at = ? WHERE id IN (`+ph+`)`,
        append([]any{model.MatchCanceled, at}, idArgs...)...)
    if err != nil {
        return nil, err
    }
    return ids, nil
}

func (t *sqlTx) CancelActiveMatchesForParticipant(ctx context.Context, participantID string, at time.Time) ([]string, error) {
    return t.cancelWhere(ctx, `driver_participant_id = ? OR rider_participant_id = ?`, at, participantID, participantID)
}

func (t *sqlTx) CancelActiveMatchesForEvent(ctx context.Context, eventID string, at time.Time) ([]string, error) {
    return t.cancelWhere(ctx, `event_id = ?`, at, eventID)
}

func (t *sqlTx) CountAcceptedForDriver(ctx context.Context, driverParticipantID string) (int, error) {
    var n int
    err := t.tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM ride_matches WHERE driver_participant_id = ? AND status = ?`,
        driverParticipantID, model.MatchAccepted).Scan(&n)
    return n, err
}

func (t *sqlTx) ListMatches(ctx context.Context, eventID string) ([]model.RideMatch, error) {
    rows, err := t.tx.QueryContext(ctx,
        `SELECT `+matchColumns+` FROM ride_matches WHERE event_id = ? ORDER BY created_at DESC, id DESC`, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.RideMatch
    for rows.Next() {
        m, err := scanMatch(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *m)
    }
    return out, rows.Err()
}
