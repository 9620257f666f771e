package service

import (
    "context"
    "errors"
    "strings"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/queue"
    "github.com/iliyamo/event-rides/internal/repository"
)

// JoinInput is a join request.  Nil pointers mean "not supplied".
type JoinInput struct {
    EventID      string
    UserID       string
    RideMode     model.RideMode
    SeatsOffered *int
    PickupArea   *string
    Notes        *string
}

// UpdateInput is a self-service change to an existing participation.  Nil
// pointers leave the current value unchanged, so switching to OFFER or away
// from it needs SeatsOffered set explicitly.
type UpdateInput struct {
    EventID      string
    UserID       string
    RideMode     *model.RideMode
    SeatsOffered *int
    PickupArea   *string
    Notes        *string
}

// normalizeRide enforces seats ≥ 1 for OFFER and seats = 0 otherwise.  A
// nil seats value counts as 0.
func normalizeRide(mode model.RideMode, seats *int) (int, error) {
    if _, err := model.ParseRideMode(string(mode)); err != nil {
        return 0, fail(ErrValidation, "ride_mode must be one of NONE, NEED, OFFER")
    }
    n := 0
    if seats != nil {
        n = *seats
    }
    if mode == model.RideOffer {
        if n < 1 {
            return 0, fail(ErrValidation, "seats_offered must be at least 1 when ride_mode is OFFER")
        }
        return n, nil
    }
    if n != 0 {
        return 0, fail(ErrValidation, "seats_offered must be 0 unless ride_mode is OFFER")
    }
    return 0, nil
}

// cleanText trims v.  A blank value becomes nil.
func cleanText(v *string) *string {
    if v == nil {
        return nil
    }
    t := strings.TrimSpace(*v)
    if t == "" {
        return nil
    }
    return &t
}

// setText applies an optional text field: nil leaves *dst alone, a blank
// value clears it and anything else replaces it trimmed.
func setText(dst **string, v *string) {
    if v != nil {
        *dst = cleanText(v)
    }
}

// resolveJoinStatus applies the event's join policy.
func resolveJoinStatus(ev *model.Event, approved int) (model.ParticipationStatus, error) {
    full := ev.IsFull(approved)
    switch ev.JoinPolicy {
    case model.PolicyOpen:
        if full {
            return "", fail(ErrCapacity, "event is full")
        }
        return model.ParticipantApproved, nil
    case model.PolicyApproval:
        return model.ParticipantPending, nil
    case model.PolicyOpenUntilCapacity:
        if full {
            return model.ParticipantPending, nil
        }
        return model.ParticipantApproved, nil
    }
    return "", fail(ErrInvalidState, "event has unknown join policy %q", ev.JoinPolicy)
}

// Join adds the user to a published event, or reactivates their existing
// participation in place.
func (s *Service) Join(ctx context.Context, in JoinInput) (*model.Participant, error) {
    var (
        out  *model.Participant
        acts []queue.ActivityEvent
    )
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        ev, err := tx.LockEvent(ctx, in.EventID)
        if err != nil {
            return lookup(err, "event")
        }
        if ev.Status == model.EventCanceled {
            return fail(ErrInvalidState, "event is canceled")
        }
        if ev.Status != model.EventPublished {
            return fail(ErrInvalidState, "event is not published")
        }
        seats, err := normalizeRide(in.RideMode, in.SeatsOffered)
        if err != nil {
            return err
        }

        existing, err := tx.LockParticipantByUser(ctx, ev.ID, in.UserID)
        if err != nil && !errors.Is(err, repository.ErrNotFound) {
            return err
        }
        approved, err := approvedCount(ctx, tx, ev.ID)
        if err != nil {
            return err
        }
        status, err := resolveJoinStatus(ev, approved)
        if err != nil {
            return err
        }

        now := s.now()
        if existing == nil {
            p := &model.Participant{
                ID:           s.newID(),
                EventID:      ev.ID,
                UserID:       in.UserID,
                Status:       status,
                RideMode:     in.RideMode,
                SeatsOffered: seats,
                PickupArea:   cleanText(in.PickupArea),
                Notes:        cleanText(in.Notes),
                CreatedAt:    now,
                UpdatedAt:    now,
            }
            if err := tx.InsertParticipant(ctx, p); err != nil {
                return err
            }
            out = p
        } else {
            p := *existing
            p.Status = status
            p.RideMode = in.RideMode
            p.SeatsOffered = seats
            setText(&p.PickupArea, in.PickupArea)
            setText(&p.Notes, in.Notes)
            p.UpdatedAt = now
            if err := tx.UpdateParticipant(ctx, &p); err != nil {
                return err
            }
            out = &p
        }
        acts = append(acts, queue.ActivityEvent{
            Kind: queue.KindParticipantJoined, EventID: ev.ID, ActorID: in.UserID,
            ParticipantID: out.ID, Status: string(out.Status),
        })
        return nil
    })
    if err != nil {
        return nil, err
    }
    s.emit(acts...)
    return out, nil
}

// Leave cancels the user's participation, frees their ride matches and, when
// the policy allows it, promotes the oldest pending participant.
func (s *Service) Leave(ctx context.Context, eventID, userID string) (*model.Participant, error) {
    var (
        out  *model.Participant
        acts []queue.ActivityEvent
    )
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        ev, err := tx.LockEvent(ctx, eventID)
        if err != nil {
            return lookup(err, "event")
        }
        p, err := tx.LockParticipantByUser(ctx, eventID, userID)
        if err != nil {
            if errors.Is(err, repository.ErrNotFound) {
                return fail(ErrNotFound, "not joined")
            }
            return err
        }

        now := s.now()
        p.Status = model.ParticipantCanceled
        p.RideMode = model.RideNone
        p.SeatsOffered = 0
        p.UpdatedAt = now
        if err := tx.UpdateParticipant(ctx, p); err != nil {
            return err
        }
        acts = append(acts, queue.ActivityEvent{Kind: queue.KindParticipantLeft, EventID: eventID, ActorID: userID, ParticipantID: p.ID})

        promoted, err := s.promoteOldestPending(ctx, tx, ev)
        if err != nil {
            return err
        }
        if promoted != nil {
            acts = append(acts, queue.ActivityEvent{Kind: queue.KindParticipantPromoted, EventID: eventID, ParticipantID: promoted.ID, Status: string(promoted.Status)})
        }

        ids, err := tx.CancelActiveMatchesForParticipant(ctx, p.ID, now)
        if err != nil {
            return err
        }
        if len(ids) > 0 {
            acts = append(acts, queue.ActivityEvent{Kind: queue.KindMatchCascadeCanceled, EventID: eventID, ParticipantID: p.ID, MatchIDs: ids})
        }
        out = p
        return nil
    })
    if err != nil {
        return nil, err
    }
    s.emit(acts...)
    return out, nil
}

// promoteOldestPending approves the earliest pending participant when the
// event fills up to capacity and then queues, and a seat is free.  It
// promotes at most one participant.  The event row must already be locked.
func (s *Service) promoteOldestPending(ctx context.Context, tx repository.Tx, ev *model.Event) (*model.Participant, error) {
    if ev.JoinPolicy != model.PolicyOpenUntilCapacity || ev.Capacity == nil {
        return nil, nil
    }
    approved, err := approvedCount(ctx, tx, ev.ID)
    if err != nil {
        return nil, err
    }
    if approved >= *ev.Capacity {
        return nil, nil
    }
    next, err := tx.LockOldestPending(ctx, ev.ID)
    if errors.Is(err, repository.ErrNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    next.Status = model.ParticipantApproved
    next.UpdatedAt = s.now()
    if err := tx.UpdateParticipant(ctx, next); err != nil {
        return nil, err
    }
    return next, nil
}

// UpdateMyParticipation changes the caller's ride details.  Changing the
// ride mode cancels the participant's open matches; changing seats alone
// does not.
func (s *Service) UpdateMyParticipation(ctx context.Context, in UpdateInput) (*model.Participant, error) {
    var (
        out  *model.Participant
        acts []queue.ActivityEvent
    )
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        p, err := tx.LockParticipantByUser(ctx, in.EventID, in.UserID)
        if err != nil {
            if errors.Is(err, repository.ErrNotFound) {
                return fail(ErrNotFound, "not joined")
            }
            return err
        }
        if !p.Active() {
            return fail(ErrInvalidState, "participation is %s", p.Status)
        }

        mode := p.RideMode
        if in.RideMode != nil {
            mode = *in.RideMode
        }
        seats := in.SeatsOffered
        if seats == nil {
            seats = &p.SeatsOffered
        }
        n, err := normalizeRide(mode, seats)
        if err != nil {
            return err
        }

        now := s.now()
        modeChanged := mode != p.RideMode
        p.RideMode = mode
        p.SeatsOffered = n
        setText(&p.PickupArea, in.PickupArea)
        setText(&p.Notes, in.Notes)
        p.UpdatedAt = now
        if err := tx.UpdateParticipant(ctx, p); err != nil {
            return err
        }
        acts = append(acts, queue.ActivityEvent{Kind: queue.KindParticipantUpdated, EventID: in.EventID, ActorID: in.UserID, ParticipantID: p.ID})

        if modeChanged {
            ids, err := tx.CancelActiveMatchesForParticipant(ctx, p.ID, now)
            if err != nil {
                return err
            }
            if len(ids) > 0 {
                acts = append(acts, queue.ActivityEvent{Kind: queue.KindMatchCascadeCanceled, EventID: in.EventID, ParticipantID: p.ID, MatchIDs: ids})
            }
        }
        out = p
        return nil
    })
    if err != nil {
        return nil, err
    }
    s.emit(acts...)
    return out, nil
}
