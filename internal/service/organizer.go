package service

import (
    "context"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/queue"
    "github.com/iliyamo/event-rides/internal/repository"
)

// SetParticipantStatus lets the organizer approve or reject a participant.
// Approval re-checks capacity while the event row is locked, which is what
// keeps concurrent approvals from overfilling the event.
func (s *Service) SetParticipantStatus(ctx context.Context, eventID, organizerID, participantID string, target model.ParticipationStatus) (*model.Participant, error) {
    if target != model.ParticipantApproved && target != model.ParticipantRejected {
        return nil, fail(ErrValidation, "status must be APPROVED or REJECTED")
    }
    var (
        out  *model.Participant
        acts []queue.ActivityEvent
    )
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        ev, err := tx.LockEvent(ctx, eventID)
        if err != nil {
            return lookup(err, "event")
        }
        if ev.CreatedBy != organizerID {
            return fail(ErrForbidden, "only the organizer can change participant status")
        }
        if ev.Status != model.EventPublished {
            return fail(ErrInvalidState, "event is not published")
        }
        p, err := tx.LockParticipant(ctx, participantID)
        if err != nil {
            return lookup(err, "participant")
        }
        if p.EventID != eventID {
            return fail(ErrNotFound, "participant not found")
        }
        if p.Status == model.ParticipantCanceled {
            return fail(ErrInvalidState, "participant has left the event")
        }

        if target == model.ParticipantApproved && ev.Capacity != nil && p.Status != model.ParticipantApproved {
            approved, err := approvedCount(ctx, tx, eventID)
            if err != nil {
                return err
            }
            if approved >= *ev.Capacity {
                return fail(ErrCapacity, "cannot approve: event is full")
            }
        }

        now := s.now()
        wasApproved := p.Status == model.ParticipantApproved
        p.Status = target
        p.UpdatedAt = now
        if err := tx.UpdateParticipant(ctx, p); err != nil {
            return err
        }
        kind := queue.KindParticipantApproved
        if target == model.ParticipantRejected {
            kind = queue.KindParticipantRejected
        }
        acts = append(acts, queue.ActivityEvent{Kind: kind, EventID: eventID, ActorID: organizerID, ParticipantID: p.ID, Status: string(target)})

        // A rejected participant can no longer drive or ride.
        if wasApproved && target == model.ParticipantRejected {
            ids, err := tx.CancelActiveMatchesForParticipant(ctx, p.ID, now)
            if err != nil {
                return err
            }
            if len(ids) > 0 {
                acts = append(acts, queue.ActivityEvent{Kind: queue.KindMatchCascadeCanceled, EventID: eventID, ParticipantID: p.ID, MatchIDs: ids})
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

// ListParticipants returns the event's participants, oldest first.  Only
// the organizer may list them.  A non-empty status narrows the result.
func (s *Service) ListParticipants(ctx context.Context, eventID, organizerID string, status model.ParticipationStatus) ([]model.Participant, error) {
    var out []model.Participant
    err := s.store.ReadTx(ctx, func(tx repository.Tx) error {
        ev, err := tx.GetEvent(ctx, eventID)
        if err != nil {
            return lookup(err, "event")
        }
        if ev.CreatedBy != organizerID {
            return fail(ErrForbidden, "only the organizer can list participants")
        }
        all, err := tx.ListParticipants(ctx, eventID)
        if err != nil {
            return err
        }
        out = make([]model.Participant, 0, len(all))
        for _, p := range all {
            if status == "" || p.Status == status {
                out = append(out, p)
            }
        }
        return nil
    })
    return out, err
}
