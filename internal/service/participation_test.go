package service

import (
    "context"
    "sync"
    "testing"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/queue"
)

func TestJoinOpenPolicyRespectsCapacity(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, intPtr(2))

    for _, u := range []string{"u1", "u2"} {
        p := join(t, svc, ev.ID, u, model.RideNone, 0)
        if p.Status != model.ParticipantApproved {
            t.Fatalf("%s status = %s, want APPROVED", u, p.Status)
        }
    }
    _, err := svc.Join(context.Background(), JoinInput{EventID: ev.ID, UserID: "u3", RideMode: model.RideNone})
    assertKind(t, err, ErrCapacity)
}

func TestJoinApprovalPolicyAlwaysPending(t *testing.T) {
    svc, _ := newTestService(t)
    for _, capacity := range []*int{nil, intPtr(1)} {
        ev := publishedEvent(t, svc, model.PolicyApproval, capacity)
        for _, u := range []string{"u1", "u2", "u3"} {
            if p := join(t, svc, ev.ID, u, model.RideNeed, 0); p.Status != model.ParticipantPending {
                t.Fatalf("%s status = %s, want PENDING", u, p.Status)
            }
        }
    }
}

func TestJoinOpenUntilCapacityQueuesWhenFull(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpenUntilCapacity, intPtr(1))
    if p := join(t, svc, ev.ID, "u1", model.RideNone, 0); p.Status != model.ParticipantApproved {
        t.Fatalf("first status = %s", p.Status)
    }
    if p := join(t, svc, ev.ID, "u2", model.RideNone, 0); p.Status != model.ParticipantPending {
        t.Fatalf("second status = %s", p.Status)
    }
}

func TestJoinRequiresPublishedEvent(t *testing.T) {
    svc, _ := newTestService(t)
    ctx := context.Background()

    _, err := svc.Join(ctx, JoinInput{EventID: "missing", UserID: "u1", RideMode: model.RideNone})
    assertKind(t, err, ErrNotFound)

    draft, err := svc.CreateEvent(ctx, "org", CreateEventInput{
        Title: "Draft", StartAt: publishedEvent(t, svc, model.PolicyOpen, nil).StartAt,
        LocationName: "x", JoinPolicy: model.PolicyOpen,
    })
    if err != nil {
        t.Fatal(err)
    }
    _, err = svc.Join(ctx, JoinInput{EventID: draft.ID, UserID: "u1", RideMode: model.RideNone})
    assertKind(t, err, ErrInvalidState)

    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    if _, err := svc.CancelEvent(ctx, ev.ID, "org"); err != nil {
        t.Fatal(err)
    }
    _, err = svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "u1", RideMode: model.RideNone})
    assertKind(t, err, ErrInvalidState)
}

func TestJoinNormalizesRideFields(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    ctx := context.Background()

    tests := []struct {
        name  string
        mode  model.RideMode
        seats *int
        ok    bool
    }{
        {"offer without seats", model.RideOffer, nil, false},
        {"offer with zero seats", model.RideOffer, intPtr(0), false},
        {"need with seats", model.RideNeed, intPtr(2), false},
        {"unknown mode", model.RideMode("BIKE"), nil, false},
        {"need without seats", model.RideNeed, nil, true},
        {"offer with seats", model.RideOffer, intPtr(3), true},
    }
    for i, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            p, err := svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "user-" + string(rune('a'+i)), RideMode: tt.mode, SeatsOffered: tt.seats})
            if !tt.ok {
                assertKind(t, err, ErrValidation)
                return
            }
            if err != nil {
                t.Fatal(err)
            }
            if tt.mode != model.RideOffer && p.SeatsOffered != 0 {
                t.Fatalf("seats = %d, want 0", p.SeatsOffered)
            }
        })
    }
}

func TestRejoinReusesParticipant(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    ctx := context.Background()

    first, err := svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "u1", RideMode: model.RideNone, PickupArea: strPtr("Station"), Notes: strPtr("hi")})
    if err != nil {
        t.Fatal(err)
    }
    if _, err := svc.Leave(ctx, ev.ID, "u1"); err != nil {
        t.Fatal(err)
    }
    again, err := svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "u1", RideMode: model.RideOffer, SeatsOffered: intPtr(2), Notes: strPtr("back")})
    if err != nil {
        t.Fatal(err)
    }
    if again.ID != first.ID {
        t.Fatalf("rejoin id = %s, want %s", again.ID, first.ID)
    }
    if again.Status != model.ParticipantApproved || again.RideMode != model.RideOffer || again.SeatsOffered != 2 {
        t.Fatalf("rejoin = %+v", again)
    }
    if again.PickupArea == nil || *again.PickupArea != "Station" {
        t.Fatal("pickup area should be kept when not supplied")
    }
    if again.Notes == nil || *again.Notes != "back" {
        t.Fatal("notes should be overwritten when supplied")
    }
    ps, _ := svc.ListParticipants(ctx, ev.ID, "org", "")
    if len(ps) != 1 {
        t.Fatalf("participants = %d, want 1", len(ps))
    }
}

func TestRejoinWhileApprovedCountsOwnSeat(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, intPtr(1))
    ctx := context.Background()
    p := join(t, svc, ev.ID, "u1", model.RideNone, 0)

    _, err := svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "u1", RideMode: model.RideNeed})
    assertKind(t, err, ErrCapacity)
    if got := participantByID(t, svc, ev.ID, p.ID); got.Status != model.ParticipantApproved || got.RideMode != model.RideNone {
        t.Fatalf("participant changed: %+v", got)
    }
}

func TestRejoinKeepsMatches(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    ctx := context.Background()
    d := join(t, svc, ev.ID, "d", model.RideOffer, 2)
    r := join(t, svc, ev.ID, "r", model.RideNeed, 0)
    m, err := svc.CreateMatch(ctx, ev.ID, "d", d.ID, r.ID)
    if err != nil {
        t.Fatal(err)
    }

    again, err := svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "r", RideMode: model.RideNone})
    if err != nil {
        t.Fatal(err)
    }
    if again.ID != r.ID || again.RideMode != model.RideNone {
        t.Fatalf("rejoin = %+v", again)
    }
    if mm := matchByID(t, svc, ev.ID, m.ID); mm.Status != model.MatchProposed {
        t.Fatalf("match status = %s, want PROPOSED", mm.Status)
    }
    // The stale match fails its re-check on acceptance.
    _, err = svc.UpdateMatchStatus(ctx, m.ID, "d", model.MatchAccepted)
    assertKind(t, err, ErrInvalidState)
}

func TestTextFieldsTrimAndClear(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    ctx := context.Background()

    p, err := svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "u1", RideMode: model.RideNone, PickupArea: strPtr("  Station "), Notes: strPtr("   ")})
    if err != nil {
        t.Fatal(err)
    }
    if p.PickupArea == nil || *p.PickupArea != "Station" || p.Notes != nil {
        t.Fatalf("join pickup = %v notes = %v", p.PickupArea, p.Notes)
    }

    // Rejoin: blank clears, nil keeps.
    p, err = svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "u1", RideMode: model.RideNone, PickupArea: strPtr(""), Notes: strPtr(" hi ")})
    if err != nil {
        t.Fatal(err)
    }
    if p.PickupArea != nil || p.Notes == nil || *p.Notes != "hi" {
        t.Fatalf("rejoin pickup = %v notes = %v", p.PickupArea, p.Notes)
    }

    // Update follows the same rule.
    p, err = svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "u1", PickupArea: strPtr(" Park "), Notes: strPtr("  ")})
    if err != nil {
        t.Fatal(err)
    }
    if p.PickupArea == nil || *p.PickupArea != "Park" || p.Notes != nil {
        t.Fatalf("update pickup = %v notes = %v", p.PickupArea, p.Notes)
    }
    p, err = svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "u1"})
    if err != nil {
        t.Fatal(err)
    }
    if p.PickupArea == nil || *p.PickupArea != "Park" {
        t.Fatalf("nil pickup should keep value, got %v", p.PickupArea)
    }
}

func TestLeaveCascadesMatches(t *testing.T) {
    svc, rec := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    ctx := context.Background()
    d := join(t, svc, ev.ID, "driver", model.RideOffer, 2)
    r1 := join(t, svc, ev.ID, "r1", model.RideNeed, 0)
    r2 := join(t, svc, ev.ID, "r2", model.RideNeed, 0)

    accepted, err := svc.CreateMatch(ctx, ev.ID, "driver", d.ID, r1.ID)
    if err != nil {
        t.Fatal(err)
    }
    if _, err := svc.UpdateMatchStatus(ctx, accepted.ID, "r1", model.MatchAccepted); err != nil {
        t.Fatal(err)
    }
    proposed, err := svc.CreateMatch(ctx, ev.ID, "r2", d.ID, r2.ID)
    if err != nil {
        t.Fatal(err)
    }

    left, err := svc.Leave(ctx, ev.ID, "driver")
    if err != nil {
        t.Fatal(err)
    }
    if left.Status != model.ParticipantCanceled || left.RideMode != model.RideNone || left.SeatsOffered != 0 {
        t.Fatalf("left = %+v", left)
    }
    for _, id := range []string{accepted.ID, proposed.ID} {
        if m := matchByID(t, svc, ev.ID, id); m.Status != model.MatchCanceled {
            t.Fatalf("match %s status = %s, want CANCELED", id, m.Status)
        }
    }
    act := rec.waitKind(t, queue.KindMatchCascadeCanceled)
    if len(act.MatchIDs) != 2 {
        t.Fatalf("cascade activity = %+v", act)
    }
}

func TestLeaveNotJoined(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    _, err := svc.Leave(context.Background(), ev.ID, "stranger")
    assertKind(t, err, ErrNotFound)
}

func TestLeavePromotesOldestPending(t *testing.T) {
    svc, rec := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpenUntilCapacity, intPtr(1))
    join(t, svc, ev.ID, "a", model.RideNone, 0)
    p1 := join(t, svc, ev.ID, "b", model.RideNone, 0)
    p2 := join(t, svc, ev.ID, "c", model.RideNone, 0)
    if p1.Status != model.ParticipantPending || p2.Status != model.ParticipantPending {
        t.Fatalf("expected both queued, got %s and %s", p1.Status, p2.Status)
    }

    if _, err := svc.Leave(context.Background(), ev.ID, "a"); err != nil {
        t.Fatal(err)
    }
    if got := participantByID(t, svc, ev.ID, p1.ID).Status; got != model.ParticipantApproved {
        t.Fatalf("oldest pending status = %s, want APPROVED", got)
    }
    if got := participantByID(t, svc, ev.ID, p2.ID).Status; got != model.ParticipantPending {
        t.Fatalf("later pending status = %s, want PENDING", got)
    }
    if act := rec.waitKind(t, queue.KindParticipantPromoted); act.ParticipantID != p1.ID {
        t.Fatalf("promoted activity = %+v", act)
    }
}

func TestLeaveDoesNotPromoteUnderOtherPolicies(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyApproval, intPtr(1))
    a := join(t, svc, ev.ID, "a", model.RideNone, 0)
    b := join(t, svc, ev.ID, "b", model.RideNone, 0)
    if _, err := svc.SetParticipantStatus(context.Background(), ev.ID, "org", a.ID, model.ParticipantApproved); err != nil {
        t.Fatal(err)
    }
    if _, err := svc.Leave(context.Background(), ev.ID, "a"); err != nil {
        t.Fatal(err)
    }
    if got := participantByID(t, svc, ev.ID, b.ID).Status; got != model.ParticipantPending {
        t.Fatalf("status = %s, want PENDING", got)
    }
}

func TestUpdateMyParticipation(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    ctx := context.Background()
    d := join(t, svc, ev.ID, "driver", model.RideOffer, 2)
    r := join(t, svc, ev.ID, "rider", model.RideNeed, 0)
    m, err := svc.CreateMatch(ctx, ev.ID, "driver", d.ID, r.ID)
    if err != nil {
        t.Fatal(err)
    }

    // Seats alone: matches stay.
    got, err := svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "driver", SeatsOffered: intPtr(3), Notes: strPtr("van")})
    if err != nil {
        t.Fatal(err)
    }
    if got.SeatsOffered != 3 || got.RideMode != model.RideOffer || *got.Notes != "van" {
        t.Fatalf("got %+v", got)
    }
    if mm := matchByID(t, svc, ev.ID, m.ID); mm.Status != model.MatchProposed {
        t.Fatalf("match status = %s, want PROPOSED", mm.Status)
    }

    // OFFER -> NEED keeps the current seats when none are sent, which is
    // invalid for NEED.
    need := model.RideNeed
    _, err = svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "driver", RideMode: &need})
    assertKind(t, err, ErrValidation)
    if p := participantByID(t, svc, ev.ID, d.ID); p.RideMode != model.RideOffer || p.SeatsOffered != 3 {
        t.Fatalf("failed update changed participant: %+v", p)
    }
    if mm := matchByID(t, svc, ev.ID, m.ID); mm.Status != model.MatchProposed {
        t.Fatalf("match status = %s, want PROPOSED", mm.Status)
    }

    // With seats cleared the switch goes through and cancels matches.
    got, err = svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "driver", RideMode: &need, SeatsOffered: intPtr(0)})
    if err != nil {
        t.Fatal(err)
    }
    if got.SeatsOffered != 0 {
        t.Fatalf("seats = %d, want 0", got.SeatsOffered)
    }
    if mm := matchByID(t, svc, ev.ID, m.ID); mm.Status != model.MatchCanceled {
        t.Fatalf("match status = %s, want CANCELED", mm.Status)
    }

    // NEED with seats is invalid.
    _, err = svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "driver", SeatsOffered: intPtr(1)})
    assertKind(t, err, ErrValidation)

    // Switching to OFFER needs seats.
    offer := model.RideOffer
    _, err = svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "driver", RideMode: &offer})
    assertKind(t, err, ErrValidation)
}

func TestUpdateMyParticipationRequiresActiveStatus(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, nil)
    ctx := context.Background()
    join(t, svc, ev.ID, "u1", model.RideNone, 0)
    if _, err := svc.Leave(ctx, ev.ID, "u1"); err != nil {
        t.Fatal(err)
    }
    _, err := svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "u1", Notes: strPtr("x")})
    assertKind(t, err, ErrInvalidState)

    _, err = svc.UpdateMyParticipation(ctx, UpdateInput{EventID: ev.ID, UserID: "nobody"})
    assertKind(t, err, ErrNotFound)
}

func TestConcurrentJoinsNeverExceedCapacity(t *testing.T) {
    svc, _ := newTestService(t)
    ev := publishedEvent(t, svc, model.PolicyOpen, intPtr(3))
    ctx := context.Background()

    var wg sync.WaitGroup
    for i := 0; i < 20; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, _ = svc.Join(ctx, JoinInput{EventID: ev.ID, UserID: "u" + string(rune('A'+i)), RideMode: model.RideNone})
        }(i)
    }
    wg.Wait()

    st, err := svc.Stats(ctx, ev.ID)
    if err != nil {
        t.Fatal(err)
    }
    if st.ApprovedCount != 3 {
        t.Fatalf("approved = %d, want 3", st.ApprovedCount)
    }
}
