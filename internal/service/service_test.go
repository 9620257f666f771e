package service

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/queue"
    "github.com/iliyamo/event-rides/internal/repository/memstore"
)

// recorder is an ActivityPublisher that keeps what it receives.
type recorder struct {
    mu   sync.Mutex
    acts []queue.ActivityEvent
    got  chan struct{}
}

func newRecorder() *recorder { return &recorder{got: make(chan struct{}, 256)} }

func (r *recorder) Publish(_ context.Context, ev queue.ActivityEvent) error {
    r.mu.Lock()
    r.acts = append(r.acts, ev)
    r.mu.Unlock()
    select {
    case r.got <- struct{}{}:
    default:
    }
    return nil
}

// waitKind blocks until an activity of the given kind arrives.
func (r *recorder) waitKind(t *testing.T, kind string) queue.ActivityEvent {
    t.Helper()
    deadline := time.After(2 * time.Second)
    for {
        r.mu.Lock()
        for _, a := range r.acts {
            if a.Kind == kind {
                r.mu.Unlock()
                return a
            }
        }
        r.mu.Unlock()
        select {
        case <-r.got:
        case <-deadline:
            t.Fatalf("no %s activity published", kind)
        }
    }
}

// newTestService returns a Service on a fresh memory store with a clock
// that advances one second per call, so creation order is strict.
func newTestService(t *testing.T) (*Service, *recorder) {
    t.Helper()
    rec := newRecorder()
    svc := New(memstore.New(), rec)
    var (
        mu   sync.Mutex
        tick = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
        n    int
    )
    svc.now = func() time.Time {
        mu.Lock()
        defer mu.Unlock()
        tick = tick.Add(time.Second)
        return tick
    }
    svc.newID = func() string {
        mu.Lock()
        defer mu.Unlock()
        n++
        return fmt.Sprintf("id-%04d", n)
    }
    return svc, rec
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

// publishedEvent creates and publishes an event owned by "org".
func publishedEvent(t *testing.T, svc *Service, policy model.JoinPolicy, capacity *int) *model.Event {
    t.Helper()
    ctx := context.Background()
    ev, err := svc.CreateEvent(ctx, "org", CreateEventInput{
        Title:        "Lake trip",
        StartAt:      time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
        LocationName: "North shore",
        Capacity:     capacity,
        JoinPolicy:   policy,
    })
    if err != nil {
        t.Fatalf("CreateEvent: %v", err)
    }
    ev, err = svc.PublishEvent(ctx, ev.ID, "org")
    if err != nil {
        t.Fatalf("PublishEvent: %v", err)
    }
    return ev
}

func join(t *testing.T, svc *Service, eventID, userID string, mode model.RideMode, seats int) *model.Participant {
    t.Helper()
    p, err := svc.Join(context.Background(), JoinInput{EventID: eventID, UserID: userID, RideMode: mode, SeatsOffered: intPtr(seats)})
    if err != nil {
        t.Fatalf("Join(%s): %v", userID, err)
    }
    return p
}

func assertKind(t *testing.T, err, kind error) {
    t.Helper()
    if !errors.Is(err, kind) {
        t.Fatalf("err = %v, want %v", err, kind)
    }
}

func participantByID(t *testing.T, svc *Service, eventID, id string) model.Participant {
    t.Helper()
    ps, err := svc.ListParticipants(context.Background(), eventID, "org", "")
    if err != nil {
        t.Fatalf("ListParticipants: %v", err)
    }
    for _, p := range ps {
        if p.ID == id {
            return p
        }
    }
    t.Fatalf("participant %s not found", id)
    return model.Participant{}
}

func matchByID(t *testing.T, svc *Service, eventID, id string) model.RideMatch {
    t.Helper()
    ms, err := svc.ListMatches(context.Background(), eventID)
    if err != nil {
        t.Fatalf("ListMatches: %v", err)
    }
    for _, m := range ms {
        if m.ID == id {
            return m
        }
    }
    t.Fatalf("match %s not found", id)
    return model.RideMatch{}
}
