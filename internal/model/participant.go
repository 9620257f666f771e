package model

import "time"

// Participant represents a row in the `event_participants` table: one user's
// membership of one event.  The (EventID, UserID) pair is unique.  Rows are
// never deleted; leaving sets Status to CANCELED and rejoining reuses the
// same row.
type Participant struct {
    ID           string              `json:"id"`
    EventID      string              `json:"event_id"`
    UserID       string              `json:"user_id"`
    Status       ParticipationStatus `json:"status"`
    RideMode     RideMode            `json:"ride_mode"`
    SeatsOffered int                 `json:"seats_offered"` // ≥1 iff RideMode is OFFER, else 0
    PickupArea   *string             `json:"pickup_area,omitempty"`
    Notes        *string             `json:"notes,omitempty"`
    CreatedAt    time.Time           `json:"created_at"`
    UpdatedAt    time.Time           `json:"updated_at"`
}

// Active reports whether the participant may still change their own ride
// details.
func (p *Participant) Active() bool {
    return p.Status == ParticipantApproved || p.Status == ParticipantPending
}
