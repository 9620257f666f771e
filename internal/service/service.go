// Package service holds the participation state machine and the ride
// matching engine.  Every mutating operation runs in exactly one store
// transaction: it locks the rows it depends on (event, then participants,
// then matches), recomputes the counts it needs under those locks, decides,
// and writes.  Activity messages are published only after commit.
package service

import (
    "context"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/event-rides/internal/queue"
    "github.com/iliyamo/event-rides/internal/repository"
)

// ActivityPublisher receives committed state changes.  queue.Publisher is
// the production implementation.
type ActivityPublisher interface {
    Publish(ctx context.Context, event queue.ActivityEvent) error
}

type Service struct {
    store repository.Store
    pub   ActivityPublisher

    now   func() time.Time
    newID func() string
}

// New returns a Service over store.  pub may be nil, in which case no
// activity is published.
func New(store repository.Store, pub ActivityPublisher) *Service {
    if store == nil {
        panic("nil store passed to service.New")
    }
    return &Service{
        store: store,
        pub:   pub,
        now:   func() time.Time { return time.Now().UTC() },
        newID: uuid.NewString,
    }
}

// emit publishes acts in the background.  Failures are logged and never
// reach the caller; the state change has already committed.
func (s *Service) emit(acts ...queue.ActivityEvent) {
    if s.pub == nil || len(acts) == 0 {
        return
    }
    at := s.now().UTC().Format(time.RFC3339Nano)
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        for _, a := range acts {
            if a.OccurredAt == "" {
                a.OccurredAt = at
            }
            if err := s.pub.Publish(ctx, a); err != nil {
                log.Printf("activity: publish %s for event %s failed: %v", a.Kind, a.EventID, err)
            }
        }
    }()
}
