package service

import (
    "context"
    "reflect"
    "testing"

    "github.com/iliyamo/event-rides/internal/model"
)

func pairs(s []model.RideSuggestion) [][2]string {
    out := make([][2]string, len(s))
    for i, p := range s {
        out[i] = [2]string{p.DriverParticipantID, p.RiderParticipantID}
    }
    return out
}

func TestPlanRides(t *testing.T) {
    drivers := []model.Participant{
        {ID: "D1", SeatsOffered: 1},
        {ID: "D2", SeatsOffered: 2},
    }
    riders := []model.Participant{{ID: "R1"}, {ID: "R2"}, {ID: "R3"}}

    tests := []struct {
        name     string
        riders   []model.Participant
        accepted map[string]int
        want     [][2]string
    }{
        {"fills in join order", riders, nil, [][2]string{{"D1", "R1"}, {"D2", "R2"}, {"D2", "R3"}}},
        {"skips full drivers", riders, map[string]int{"D1": 1}, [][2]string{{"D2", "R1"}, {"D2", "R2"}}},
        {"stops when riders run out", riders[:1], nil, [][2]string{{"D1", "R1"}}},
        {"no riders", nil, nil, [][2]string{}},
        {"over-accepted driver", riders, map[string]int{"D1": 3}, [][2]string{{"D2", "R1"}, {"D2", "R2"}}},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            got := pairs(PlanRides(drivers, tt.riders, tt.accepted))
            if !reflect.DeepEqual(got, tt.want) {
                t.Fatalf("got %v, want %v", got, tt.want)
            }
        })
    }
}

func TestSuggestionsUseApprovedSnapshot(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    ctx := context.Background()
    d1 := join(t, svc, ev.ID, "d1", model.RideOffer, 1)
    r1 := join(t, svc, ev.ID, "r1", model.RideNeed, 0)
    d2 := join(t, svc, ev.ID, "d2", model.RideOffer, 2)
    r2 := join(t, svc, ev.ID, "r2", model.RideNeed, 0)
    r3 := join(t, svc, ev.ID, "r3", model.RideNeed, 0)
    join(t, svc, ev.ID, "left", model.RideNeed, 0)
    if _, err := svc.Leave(ctx, ev.ID, "left"); err != nil {
        t.Fatal(err)
    }

    got, err := svc.Suggestions(ctx, ev.ID)
    if err != nil {
        t.Fatal(err)
    }
    want := [][2]string{{d1.ID, r1.ID}, {d2.ID, r2.ID}, {d2.ID, r3.ID}}
    if !reflect.DeepEqual(pairs(got), want) {
        t.Fatalf("got %v, want %v", pairs(got), want)
    }

    // Suggestions never create matches.
    ms, err := svc.ListMatches(ctx, ev.ID)
    if err != nil {
        t.Fatal(err)
    }
    if len(ms) != 0 {
        t.Fatalf("matches = %d, want 0", len(ms))
    }
}
