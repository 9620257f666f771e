package repository

import (
    "context"
    "time"

    "github.com/iliyamo/event-rides/internal/model"
)

// Store runs units of work against persistent state.  InTx commits when fn
// returns nil and rolls back otherwise; no partial writes survive an error.
// ReadTx runs fn against a consistent read-only snapshot.
type Store interface {
    InTx(ctx context.Context, fn func(Tx) error) error
    ReadTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the set of reads and writes available inside one transaction.
//
// Lock* methods take an exclusive lock on the returned row that is held until
// the transaction ends.  Callers acquire locks in the order event, then
// participants, then matches.  Lookups of a single row return ErrNotFound
// when it does not exist.
type Tx interface {
    InsertEvent(ctx context.Context, e *model.Event) error
    GetEvent(ctx context.Context, id string) (*model.Event, error)
    LockEvent(ctx context.Context, id string) (*model.Event, error)
    UpdateEventStatus(ctx context.Context, id string, status model.EventStatus, at time.Time) error
    ListEvents(ctx context.Context) ([]model.Event, error)

    LockParticipant(ctx context.Context, id string) (*model.Participant, error)
    LockParticipantByUser(ctx context.Context, eventID, userID string) (*model.Participant, error)
    LockOldestPending(ctx context.Context, eventID string) (*model.Participant, error)
    InsertParticipant(ctx context.Context, p *model.Participant) error
    UpdateParticipant(ctx context.Context, p *model.Participant) error
    CountParticipantsByStatus(ctx context.Context, eventID string, status model.ParticipationStatus) (int, error)
    // ListParticipants returns every participant of the event, oldest first.
    ListParticipants(ctx context.Context, eventID string) ([]model.Participant, error)

    GetMatch(ctx context.Context, id string) (*model.RideMatch, error)
    LockMatch(ctx context.Context, id string) (*model.RideMatch, error)
    InsertMatch(ctx context.Context, m *model.RideMatch) error
    UpdateMatchStatus(ctx context.Context, id string, status model.MatchStatus, at time.Time) error
    // CancelActiveMatchesForParticipant moves every PROPOSED or ACCEPTED match
    // in which the participant is driver or rider to CANCELED and returns the
    // ids of the matches it changed.
    CancelActiveMatchesForParticipant(ctx context.Context, participantID string, at time.Time) ([]string, error)
    CancelActiveMatchesForEvent(ctx context.Context, eventID string, at time.Time) ([]string, error)
    CountAcceptedForDriver(ctx context.Context, driverParticipantID string) (int, error)
    // ListMatches returns every match of the event, newest first.
    ListMatches(ctx context.Context, eventID string) ([]model.RideMatch, error)
}

// UserStore persists application users.
type UserStore interface {
    Create(ctx context.Context, fullName, email string, phone *string, password string, cost int) (*model.User, error)
    GetByEmail(ctx context.Context, email string) (*model.User, error)
    GetByID(ctx context.Context, id string) (*model.User, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
    StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
    // ValidateRefresh returns the owner of a non-revoked, non-expired token
    // or ErrNotFound.
    ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, userID string) error
}
