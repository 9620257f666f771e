package model

import (
    "encoding/json"
    "testing"
)

func TestParseJoinPolicy(t *testing.T) {
    tests := []struct {
        in      string
        want    JoinPolicy
        wantErr bool
    }{
        {"OPEN", PolicyOpen, false},
        {" approval ", PolicyApproval, false},
        {"open_until_capacity_then_approval", PolicyOpenUntilCapacity, false},
        {"FIRST_COME", "", true},
        {"", "", true},
    }
    for _, tt := range tests {
        got, err := ParseJoinPolicy(tt.in)
        if (err != nil) != tt.wantErr {
            t.Fatalf("ParseJoinPolicy(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
        }
        if got != tt.want {
            t.Fatalf("ParseJoinPolicy(%q) = %q, want %q", tt.in, got, tt.want)
        }
    }
}

func TestRideModeUnmarshalRejectsUnknown(t *testing.T) {
    var body struct {
        Mode RideMode `json:"ride_mode"`
    }
    if err := json.Unmarshal([]byte(`{"ride_mode":"offer"}`), &body); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if body.Mode != RideOffer {
        t.Fatalf("got %q, want OFFER", body.Mode)
    }
    if err := json.Unmarshal([]byte(`{"ride_mode":"HITCHHIKE"}`), &body); err == nil {
        t.Fatal("expected error for unknown ride mode")
    }
    if err := json.Unmarshal([]byte(`{"ride_mode":3}`), &body); err == nil {
        t.Fatal("expected error for non-string ride mode")
    }
}

func TestMatchStatusUnmarshal(t *testing.T) {
    var s MatchStatus
    if err := json.Unmarshal([]byte(`"ACCEPTED"`), &s); err != nil || s != MatchAccepted {
        t.Fatalf("got %q, %v", s, err)
    }
    if err := json.Unmarshal([]byte(`"DONE"`), &s); err == nil {
        t.Fatal("expected error")
    }
}

func TestEventIsFull(t *testing.T) {
    e := Event{}
    if e.IsFull(1000) {
        t.Fatal("unbounded event reported full")
    }
    c := 2
    e.Capacity = &c
    if e.IsFull(1) {
        t.Fatal("1 of 2 reported full")
    }
    if !e.IsFull(2) {
        t.Fatal("2 of 2 not reported full")
    }
}
