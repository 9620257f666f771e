package model

import (
    "encoding/json"
    "fmt"
    "strings"
)

// The status and mode columns are closed sets.  Each type below only admits
// the constants declared next to it; anything else is rejected when it is
// parsed from a request body or a query parameter, so business logic never
// sees an unknown value.

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
    EventDraft     EventStatus = "DRAFT"
    EventPublished EventStatus = "PUBLISHED"
    EventCanceled  EventStatus = "CANCELED"
)

// JoinPolicy decides what happens to a join request.
type JoinPolicy string

const (
    // PolicyOpen approves joins until capacity is reached, then refuses them.
    PolicyOpen JoinPolicy = "OPEN"
    // PolicyApproval queues every join for the organizer.
    PolicyApproval JoinPolicy = "APPROVAL"
    // PolicyOpenUntilCapacity approves joins until capacity is reached and
    // queues the rest.  Leaves may promote the oldest queued participant.
    PolicyOpenUntilCapacity JoinPolicy = "OPEN_UNTIL_CAPACITY_THEN_APPROVAL"
)

// ParticipationStatus is the approval state of a participant.
type ParticipationStatus string

const (
    ParticipantPending  ParticipationStatus = "PENDING"
    ParticipantApproved ParticipationStatus = "APPROVED"
    ParticipantRejected ParticipationStatus = "REJECTED"
    ParticipantCanceled ParticipationStatus = "CANCELED"
)

// RideMode is a participant's ride sharing intent.
type RideMode string

const (
    RideNone  RideMode = "NONE"
    RideNeed  RideMode = "NEED"
    RideOffer RideMode = "OFFER"
)

// MatchStatus is the state of a driver/rider pairing.
type MatchStatus string

const (
    MatchProposed MatchStatus = "PROPOSED"
    MatchAccepted MatchStatus = "ACCEPTED"
    MatchRejected MatchStatus = "REJECTED"
    MatchCanceled MatchStatus = "CANCELED"
)

var (
    eventStatuses        = []EventStatus{EventDraft, EventPublished, EventCanceled}
    joinPolicies         = []JoinPolicy{PolicyOpen, PolicyApproval, PolicyOpenUntilCapacity}
    participationStatuses = []ParticipationStatus{ParticipantPending, ParticipantApproved, ParticipantRejected, ParticipantCanceled}
    rideModes            = []RideMode{RideNone, RideNeed, RideOffer}
    matchStatuses        = []MatchStatus{MatchProposed, MatchAccepted, MatchRejected, MatchCanceled}
)

// parseEnum matches s (case-insensitive, surrounding space ignored) against
// the allowed values.
func parseEnum[T ~string](kind, s string, allowed []T) (T, error) {
    v := strings.ToUpper(strings.TrimSpace(s))
    for _, a := range allowed {
        if string(a) == v {
            return a, nil
        }
    }
    var zero T
    return zero, fmt.Errorf("unknown %s %q", kind, s)
}

func unmarshalEnum[T ~string](kind string, data []byte, allowed []T, dst *T) error {
    var s string
    if err := json.Unmarshal(data, &s); err != nil {
        return fmt.Errorf("%s must be a string", kind)
    }
    v, err := parseEnum(kind, s, allowed)
    if err != nil {
        return err
    }
    *dst = v
    return nil
}

func ParseEventStatus(s string) (EventStatus, error) {
    return parseEnum("event status", s, eventStatuses)
}

func ParseJoinPolicy(s string) (JoinPolicy, error) {
    return parseEnum("join policy", s, joinPolicies)
}

func ParseParticipationStatus(s string) (ParticipationStatus, error) {
    return parseEnum("participation status", s, participationStatuses)
}

func ParseRideMode(s string) (RideMode, error) {
    return parseEnum("ride mode", s, rideModes)
}

func ParseMatchStatus(s string) (MatchStatus, error) {
    return parseEnum("match status", s, matchStatuses)
}

func (s *EventStatus) UnmarshalJSON(b []byte) error {
    return unmarshalEnum("event status", b, eventStatuses, s)
}

func (p *JoinPolicy) UnmarshalJSON(b []byte) error {
    return unmarshalEnum("join policy", b, joinPolicies, p)
}

func (s *ParticipationStatus) UnmarshalJSON(b []byte) error {
    return unmarshalEnum("participation status", b, participationStatuses, s)
}

func (m *RideMode) UnmarshalJSON(b []byte) error {
    return unmarshalEnum("ride mode", b, rideModes, m)
}

func (s *MatchStatus) UnmarshalJSON(b []byte) error {
    return unmarshalEnum("match status", b, matchStatuses, s)
}
