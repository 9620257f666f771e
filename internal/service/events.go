package service

import (
    "context"
    "strings"
    "time"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/queue"
    "github.com/iliyamo/event-rides/internal/repository"
)

// CreateEventInput carries the organizer-supplied fields of a new event.
type CreateEventInput struct {
    Title        string
    Description  *string
    StartAt      time.Time
    EndAt        *time.Time
    LocationName string
    LocationLat  *float64
    LocationLng  *float64
    Capacity     *int
    JoinPolicy   model.JoinPolicy
}

func (in *CreateEventInput) validate() error {
    in.Title = strings.TrimSpace(in.Title)
    in.LocationName = strings.TrimSpace(in.LocationName)
    switch {
    case in.Title == "":
        return fail(ErrValidation, "title is required")
    case in.LocationName == "":
        return fail(ErrValidation, "location_name is required")
    case in.StartAt.IsZero():
        return fail(ErrValidation, "start_at is required")
    case in.EndAt != nil && in.EndAt.Before(in.StartAt):
        return fail(ErrValidation, "end_at must not be before start_at")
    case in.Capacity != nil && *in.Capacity < 1:
        return fail(ErrValidation, "capacity must be at least 1")
    }
    if _, err := model.ParseJoinPolicy(string(in.JoinPolicy)); err != nil {
        return fail(ErrValidation, "join_policy must be one of OPEN, APPROVAL, OPEN_UNTIL_CAPACITY_THEN_APPROVAL")
    }
    return nil
}

// CreateEvent stores a new DRAFT event owned by organizerID.
func (s *Service) CreateEvent(ctx context.Context, organizerID string, in CreateEventInput) (*model.Event, error) {
    if err := in.validate(); err != nil {
        return nil, err
    }
    now := s.now()
    ev := &model.Event{
        ID:           s.newID(),
        CreatedBy:    organizerID,
        Title:        in.Title,
        Description:  in.Description,
        StartAt:      in.StartAt.UTC(),
        EndAt:        in.EndAt,
        LocationName: in.LocationName,
        LocationLat:  in.LocationLat,
        LocationLng:  in.LocationLng,
        Capacity:     in.Capacity,
        JoinPolicy:   in.JoinPolicy,
        Status:       model.EventDraft,
        CreatedAt:    now,
        UpdatedAt:    now,
    }
    if err := s.store.InTx(ctx, func(tx repository.Tx) error { return tx.InsertEvent(ctx, ev) }); err != nil {
        return nil, err
    }
    return ev, nil
}

// PublishEvent opens a draft event for participation.  Publishing an
// already published event is a no-op.
func (s *Service) PublishEvent(ctx context.Context, eventID, organizerID string) (*model.Event, error) {
    return s.setEventStatus(ctx, eventID, organizerID, model.EventPublished)
}

// CancelEvent cancels the event and every open match in it.  Participants
// keep their rows.
func (s *Service) CancelEvent(ctx context.Context, eventID, organizerID string) (*model.Event, error) {
    return s.setEventStatus(ctx, eventID, organizerID, model.EventCanceled)
}

func (s *Service) setEventStatus(ctx context.Context, eventID, organizerID string, target model.EventStatus) (*model.Event, error) {
    var (
        ev   *model.Event
        acts []queue.ActivityEvent
    )
    err := s.store.InTx(ctx, func(tx repository.Tx) error {
        var err error
        ev, err = tx.LockEvent(ctx, eventID)
        if err != nil {
            return lookup(err, "event")
        }
        if ev.CreatedBy != organizerID {
            return fail(ErrForbidden, "only the organizer can change the event")
        }
        if ev.Status == target {
            return nil
        }
        if ev.Status == model.EventCanceled {
            return fail(ErrInvalidState, "event is canceled")
        }
        now := s.now()
        if err := tx.UpdateEventStatus(ctx, eventID, target, now); err != nil {
            return err
        }
        ev.Status = target
        ev.UpdatedAt = now

        act := queue.ActivityEvent{Kind: queue.KindEventPublished, EventID: eventID, ActorID: organizerID}
        if target == model.EventCanceled {
            act.Kind = queue.KindEventCanceled
            act.MatchIDs, err = tx.CancelActiveMatchesForEvent(ctx, eventID, now)
            if err != nil {
                return err
            }
        }
        acts = append(acts, act)
        return nil
    })
    if err != nil {
        return nil, err
    }
    s.emit(acts...)
    return ev, nil
}

// GetEvent returns one event.
func (s *Service) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
    var ev *model.Event
    err := s.store.ReadTx(ctx, func(tx repository.Tx) error {
        var err error
        ev, err = tx.GetEvent(ctx, eventID)
        return lookup(err, "event")
    })
    return ev, err
}

// ListEvents returns all events ordered by start time.
func (s *Service) ListEvents(ctx context.Context) ([]model.Event, error) {
    var out []model.Event
    err := s.store.ReadTx(ctx, func(tx repository.Tx) error {
        var err error
        out, err = tx.ListEvents(ctx)
        return err
    })
    return out, err
}
