package service

import (
    "context"
    "slices"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/queue"
    "github.com/iliyamo/event-rides/internal/repository"
)

// lockPair locks the driver and rider rows in ascending id order and
// verifies both belong to eventID.  When both ids are equal the row is
// locked once and returned twice.
func lockPair(ctx context.Context, tx repository.Tx, eventID, driverID, riderID string) (driver, rider *model.Participant, err error) {
    ids := []string{driverID, riderID}
    slices.Sort(ids)
    ids = slices.Compact(ids)
    locked := make(map[string]*model.Participant, len(ids))
    for _, id := range ids {
        p, err := tx.LockParticipant(ctx, id)
        if err != nil {
            return nil, nil, lookup(err, "participant")
        }
        if p.EventID != eventID {
            return nil, nil, fail(ErrNotFound, "participant not found")
        }
        locked[id] = p
    }
    return locked[driverID], locked[riderID], nil
}

// checkPair validates a locked driver/rider pair and the driver's seat
// budget.  The accepted count is read after the driver row is locked.
func checkPair(ctx context.Context, tx repository.Tx, driver, rider *model.Participant) error {
    if driver.ID == rider.ID {
        return fail(ErrValidation, "driver and rider must be different participants")
    }
    if driver.Status != model.ParticipantApproved || rider.Status != model.ParticipantApproved {
        return fail(ErrInvalidState, "driver and rider must both be approved")
    }
    if driver.RideMode != model.RideOffer {
        return fail(ErrInvalidState, "driver is not offering a ride")
    }
    if rider.RideMode != model.RideNeed {
        return fail(ErrInvalidState, "rider does not need a ride")
    }
    accepted, err := tx.CountAcceptedForDriver(ctx, driver.ID)
    if err != nil {
        return err
    }
    if accepted >= driver.SeatsOffered {
        return fail(ErrCapacity, "driver has no seats left")
    }
    return nil
}

// CreateMatch proposes a driver/rider pairing.  A proposal does not reserve
// a seat; capacity is checked again on acceptance.
func (s *Service) CreateMatch(ctx context.Context, eventID, proposerID, driverID, riderID string) (*model.RideMatch, error) {
    if driverID == "" || riderID == "" {
        return nil, fail(ErrValidation, "driver_participant_id and rider_participant_id are required")
    }
    var m *model.RideMatch
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        ev, err := tx.LockEvent(ctx, eventID)
        if err != nil {
            return lookup(err, "event")
        }
        if ev.Status != model.EventPublished {
            return fail(ErrInvalidState, "event is not published")
        }
        driver, rider, err := lockPair(ctx, tx, eventID, driverID, riderID)
        if err != nil {
            return err
        }
        if err := checkPair(ctx, tx, driver, rider); err != nil {
            return err
        }
        now := s.now()
        m = &model.RideMatch{
            ID:                  s.newID(),
            EventID:             eventID,
            DriverParticipantID: driver.ID,
            RiderParticipantID:  rider.ID,
            Status:              model.MatchProposed,
            CreatedBy:           proposerID,
            CreatedAt:           now,
            UpdatedAt:           now,
        }
        return tx.InsertMatch(ctx, m)
    })
    if err != nil {
        return nil, err
    }
    s.emit(queue.ActivityEvent{Kind: queue.KindMatchProposed, EventID: eventID, ActorID: proposerID, MatchIDs: []string{m.ID}, Status: string(m.Status)})
    return m, nil
}

// UpdateMatchStatus moves a match to next on behalf of actor, who must be
// the proposer, the driver or the rider.  Any current status may move to
// any target; acceptance re-runs the full pair check and is the point where
// a seat is actually taken.  It does not touch competing proposals.
func (s *Service) UpdateMatchStatus(ctx context.Context, matchID, actorID string, next model.MatchStatus) (*model.RideMatch, error) {
    switch next {
    case model.MatchAccepted, model.MatchRejected, model.MatchCanceled:
    default:
        return nil, fail(ErrValidation, "status must be ACCEPTED, REJECTED or CANCELED")
    }
    var m *model.RideMatch
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        // The unlocked read only finds the event and participants so they can
        // be locked ahead of the match row.  Those ids never change.
        peek, err := tx.GetMatch(ctx, matchID)
        if err != nil {
            return lookup(err, "match")
        }
        ev, err := tx.LockEvent(ctx, peek.EventID)
        if err != nil {
            return lookup(err, "event")
        }
        driver, rider, err := lockPair(ctx, tx, peek.EventID, peek.DriverParticipantID, peek.RiderParticipantID)
        if err != nil {
            return err
        }
        m, err = tx.LockMatch(ctx, matchID)
        if err != nil {
            return lookup(err, "match")
        }
        if actorID != m.CreatedBy && actorID != driver.UserID && actorID != rider.UserID {
            return fail(ErrForbidden, "only the proposer, driver or rider can update this match")
        }
        if next == model.MatchAccepted {
            if ev.Status != model.EventPublished {
                return fail(ErrInvalidState, "event is not published")
            }
            if err := checkPair(ctx, tx, driver, rider); err != nil {
                return err
            }
        }
        now := s.now()
        if err := tx.UpdateMatchStatus(ctx, m.ID, next, now); err != nil {
            return err
        }
        m.Status = next
        m.UpdatedAt = now
        return nil
    })
    if err != nil {
        return nil, err
    }
    s.emit(queue.ActivityEvent{Kind: queue.KindMatchStatusChanged, EventID: m.EventID, ActorID: actorID, MatchIDs: []string{m.ID}, Status: string(next)})
    return m, nil
}

// ListMatches returns the event's matches, newest first.
func (s *Service) ListMatches(ctx context.Context, eventID string) ([]model.RideMatch, error) {
    var out []model.RideMatch
    err := s.store.ReadTx(ctx, func(tx repository.Tx) error {
        if _, err := tx.GetEvent(ctx, eventID); err != nil {
            return lookup(err, "event")
        }
        var err error
        out, err = tx.ListMatches(ctx, eventID)
        return err
    })
    return out, err
}
