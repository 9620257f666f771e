package model

import "time"

// RideMatch represents a row in the `ride_matches` table.  It pairs a driver
// (an OFFER participant) with a rider (a NEED participant) of the same event.
// A PROPOSED match holds no seat; only ACCEPTED matches count against the
// driver's SeatsOffered.
type RideMatch struct {
    ID                  string      `json:"id"`
    EventID             string      `json:"event_id"`
    DriverParticipantID string      `json:"driver_participant_id"`
    RiderParticipantID  string      `json:"rider_participant_id"`
    Status              MatchStatus `json:"status"`
    CreatedBy           string      `json:"created_by"`
    CreatedAt           time.Time   `json:"created_at"`
    UpdatedAt           time.Time   `json:"updated_at"`
}

// Involves reports whether the participant is either side of the match.
func (m *RideMatch) Involves(participantID string) bool {
    return m.DriverParticipantID == participantID || m.RiderParticipantID == participantID
}

// Active reports whether the match is still PROPOSED or ACCEPTED.
func (m *RideMatch) Active() bool {
    return m.Status == MatchProposed || m.Status == MatchAccepted
}

// RideSuggestion is an advisory driver/rider pairing.  It is never stored.
type RideSuggestion struct {
    DriverParticipantID string `json:"driver_participant_id"`
    RiderParticipantID  string `json:"rider_participant_id"`
}
