// Package memstore is an in-memory implementation of the repository
// contracts.  Transactions are serialized by a single mutex and work on a
// private copy of the state that replaces the shared one only on commit, so
// a failed transaction leaves nothing behind.  It backs the test suites and
// the STORE_DRIVER=memory mode.
package memstore

import (
    "context"
    "errors"
    "sort"
    "sync"
    "time"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/repository"
)

var errReadOnly = errors.New("memstore: write in read-only transaction")

type state struct {
    events       map[string]model.Event
    participants map[string]model.Participant
    matches      map[string]model.RideMatch
    // seq records insertion order and breaks created_at ties.
    seq  map[string]uint64
    next uint64
}

func newState() *state {
    return &state{
        events:       map[string]model.Event{},
        participants: map[string]model.Participant{},
        matches:      map[string]model.RideMatch{},
        seq:          map[string]uint64{},
    }
}

func (s *state) clone() *state {
    c := &state{
        events:       make(map[string]model.Event, len(s.events)),
        participants: make(map[string]model.Participant, len(s.participants)),
        matches:      make(map[string]model.RideMatch, len(s.matches)),
        seq:          make(map[string]uint64, len(s.seq)),
        next:         s.next,
    }
    for k, v := range s.events {
        c.events[k] = v
    }
    for k, v := range s.participants {
        c.participants[k] = v
    }
    for k, v := range s.matches {
        c.matches[k] = v
    }
    for k, v := range s.seq {
        c.seq[k] = v
    }
    return c
}

func (s *state) stamp(id string) {
    s.next++
    s.seq[id] = s.next
}

// Store implements repository.Store.
type Store struct {
    mu sync.RWMutex
    st *state
}

func New() *Store { return &Store{st: newState()} }

func (s *Store) InTx(ctx context.Context, fn func(repository.Tx) error) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    work := s.st.clone()
    if err := fn(&tx{st: work}); err != nil {
        return err
    }
    s.st = work
    return nil
}

func (s *Store) ReadTx(ctx context.Context, fn func(repository.Tx) error) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    return fn(&tx{st: s.st, readOnly: true})
}

// tx holds the transaction's view of the state.  Every write transaction
// already runs exclusively, so the Lock* methods are plain reads.
type tx struct {
    st       *state
    readOnly bool
}

func (t *tx) writable() error {
    if t.readOnly {
        return errReadOnly
    }
    return nil
}

func (t *tx) InsertEvent(_ context.Context, e *model.Event) error {
    if err := t.writable(); err != nil {
        return err
    }
    t.st.events[e.ID] = *e
    t.st.stamp(e.ID)
    return nil
}

func (t *tx) GetEvent(_ context.Context, id string) (*model.Event, error) {
    e, ok := t.st.events[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    return &e, nil
}

func (t *tx) LockEvent(ctx context.Context, id string) (*model.Event, error) {
    return t.GetEvent(ctx, id)
}

func (t *tx) UpdateEventStatus(_ context.Context, id string, status model.EventStatus, at time.Time) error {
    if err := t.writable(); err != nil {
        return err
    }
    e, ok := t.st.events[id]
    if !ok {
        return repository.ErrNotFound
    }
    e.Status = status
    e.UpdatedAt = at
    t.st.events[id] = e
    return nil
}

func (t *tx) ListEvents(_ context.Context) ([]model.Event, error) {
    out := make([]model.Event, 0, len(t.st.events))
    for _, e := range t.st.events {
        out = append(out, e)
    }
    sort.Slice(out, func(i, j int) bool {
        if !out[i].StartAt.Equal(out[j].StartAt) {
            return out[i].StartAt.Before(out[j].StartAt)
        }
        return t.st.seq[out[i].ID] < t.st.seq[out[j].ID]
    })
    return out, nil
}

func (t *tx) LockParticipant(_ context.Context, id string) (*model.Participant, error) {
    p, ok := t.st.participants[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    return &p, nil
}

func (t *tx) LockParticipantByUser(_ context.Context, eventID, userID string) (*model.Participant, error) {
    for _, p := range t.st.participants {
        if p.EventID == eventID && p.UserID == userID {
            return &p, nil
        }
    }
    return nil, repository.ErrNotFound
}

func (t *tx) LockOldestPending(ctx context.Context, eventID string) (*model.Participant, error) {
    all, _ := t.ListParticipants(ctx, eventID)
    for _, p := range all {
        if p.Status == model.ParticipantPending {
            return &p, nil
        }
    }
    return nil, repository.ErrNotFound
}

func (t *tx) InsertParticipant(_ context.Context, p *model.Participant) error {
    if err := t.writable(); err != nil {
        return err
    }
    for _, q := range t.st.participants {
        if q.EventID == p.EventID && q.UserID == p.UserID {
            return repository.ErrConflict
        }
    }
    t.st.participants[p.ID] = *p
    t.st.stamp(p.ID)
    return nil
}

func (t *tx) UpdateParticipant(_ context.Context, p *model.Participant) error {
    if err := t.writable(); err != nil {
        return err
    }
    cur, ok := t.st.participants[p.ID]
    if !ok {
        return repository.ErrNotFound
    }
    cur.Status = p.Status
    cur.RideMode = p.RideMode
    cur.SeatsOffered = p.SeatsOffered
    cur.PickupArea = p.PickupArea
    cur.Notes = p.Notes
    cur.UpdatedAt = p.UpdatedAt
    t.st.participants[p.ID] = cur
    return nil
}

func (t *tx) CountParticipantsByStatus(_ context.Context, eventID string, status model.ParticipationStatus) (int, error) {
    n := 0
    for _, p := range t.st.participants {
        if p.EventID == eventID && p.Status == status {
            n++
        }
    }
    return n, nil
}

func (t *tx) ListParticipants(_ context.Context, eventID string) ([]model.Participant, error) {
    var out []model.Participant
    for _, p := range t.st.participants {
        if p.EventID == eventID {
            out = append(out, p)
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
            return out[i].CreatedAt.Before(out[j].CreatedAt)
        }
        return t.st.seq[out[i].ID] < t.st.seq[out[j].ID]
    })
    return out, nil
}

func (t *tx) GetMatch(_ context.Context, id string) (*model.RideMatch, error) {
    m, ok := t.st.matches[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    return &m, nil
}

func (t *tx) LockMatch(ctx context.Context, id string) (*model.RideMatch, error) {
    return t.GetMatch(ctx, id)
}

func (t *tx) InsertMatch(_ context.Context, m *model.RideMatch) error {
    if err := t.writable(); err != nil {
        return err
    }
    t.st.matches[m.ID] = *m
    t.st.stamp(m.ID)
    return nil
}

func (t *tx) UpdateMatchStatus(_ context.Context, id string, status model.MatchStatus, at time.Time) error {
    if err := t.writable(); err != nil {
        return err
    }
    m, ok := t.st.matches[id]
    if !ok {
        return repository.ErrNotFound
    }
    m.Status = status
    m.UpdatedAt = at
    t.st.matches[id] = m
    return nil
}

func (t *tx) cancelMatching(keep func(model.RideMatch) bool, at time.Time) ([]string, error) {
    if err := t.writable(); err != nil {
        return nil, err
    }
    var ids []string
    for id, m := range t.st.matches {
        if m.Active() && keep(m) {
            m.Status = model.MatchCanceled
            m.UpdatedAt = at
            t.st.matches[id] = m
            ids = append(ids, id)
        }
    }
    sort.Strings(ids)
    return ids, nil
}

func (t *tx) CancelActiveMatchesForParticipant(_ context.Context, participantID string, at time.Time) ([]string, error) {
    return t.cancelMatching(func(m model.RideMatch) bool { return m.Involves(participantID) }, at)
}

func (t *tx) CancelActiveMatchesForEvent(_ context.Context, eventID string, at time.Time) ([]string, error) {
    return t.cancelMatching(func(m model.RideMatch) bool { return m.EventID == eventID }, at)
}

func (t *tx) CountAcceptedForDriver(_ context.Context, driverParticipantID string) (int, error) {
    n := 0
    for _, m := range t.st.matches {
        if m.DriverParticipantID == driverParticipantID && m.Status == model.MatchAccepted {
            n++
        }
    }
    return n, nil
}

func (t *tx) ListMatches(_ context.Context, eventID string) ([]model.RideMatch, error) {
    var out []model.RideMatch
    for _, m := range t.st.matches {
        if m.EventID == eventID {
            out = append(out, m)
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
            return out[i].CreatedAt.After(out[j].CreatedAt)
        }
        return t.st.seq[out[i].ID] > t.st.seq[out[j].ID]
    })
    return out, nil
}
