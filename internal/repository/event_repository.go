package repository

import (
    "context"
    "time"

    "github.com/iliyamo/event-rides/internal/model"
)

const eventColumns = `id, created_by, title, description, start_at, end_at, location_name,
    location_lat, location_lng, capacity, join_policy, status, created_at, updated_at`

func scanEvent(s rowScanner) (*model.Event, error) {
    var e model.Event
    err := s.Scan(&e.ID, &e.CreatedBy, &e.Title, &e.Description, &e.StartAt, &e.EndAt,
        &e.LocationName, &e.LocationLat, &e.LocationLng, &e.Capacity, &e.JoinPolicy,
        &e.Status, &e.CreatedAt, &e.UpdatedAt)
    if err != nil {
        return nil, notFound(err)
    }
    return &e, nil
}

// InsertEvent inserts a new events row.  ID and timestamps must be set.
func (t *sqlTx) InsertEvent(ctx context.Context, e *model.Event) error {
    _, err := t.tx.ExecContext(ctx,
        `INSERT INTO events (`+eventColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
        e.ID, e.CreatedBy, e.Title, e.Description, e.StartAt, e.EndAt, e.LocationName,
        e.LocationLat, e.LocationLng, e.Capacity, e.JoinPolicy, e.Status, e.CreatedAt, e.UpdatedAt)
    return err
}

// GetEvent reads an event without locking it.
func (t *sqlTx) GetEvent(ctx context.Context, id string) (*model.Event, error) {
    row := t.tx.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
    return scanEvent(row)
}

// LockEvent reads an event and holds an exclusive lock on its row.
func (t *sqlTx) LockEvent(ctx context.Context, id string) (*model.Event, error) {
    row := t.tx.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ? FOR UPDATE`, id)
    return scanEvent(row)
}

func (t *sqlTx) UpdateEventStatus(ctx context.Context, id string, status model.EventStatus, at time.Time) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE events SET status = ?, updated_at = ? WHERE id = ?`, status, at, id)
    return err
}

// ListEvents returns all events ordered by start time.
func (t *sqlTx) ListEvents(ctx context.Context) ([]model.Event, error) {
    rows, err := t.tx.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_at ASC, id ASC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Event
    for rows.Next() {
        e, err := scanEvent(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *e)
    }
    return out, rows.Err()
}
