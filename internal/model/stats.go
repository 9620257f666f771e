package model

// EventStats is the derived view of an event's participation and seat
// accounting.  None of these numbers are stored; they are recomputed from
// the participant and match rows on every read.
type EventStats struct {
    EventID string `json:"event_id"`

    ApprovedCount int `json:"approved_count"`
    PendingCount  int `json:"pending_count"`
    RejectedCount int `json:"rejected_count"`
    CanceledCount int `json:"canceled_count"`

    NeedRideCount  int `json:"need_ride_count"`
    OfferRideCount int `json:"offer_ride_count"`

    SeatsOfferedTotal   int `json:"seats_offered_total"`
    SeatsAcceptedTotal  int `json:"seats_accepted_total"`
    SeatsRemainingTotal int `json:"seats_remaining_total"`

    UnmatchedRidersCount int `json:"unmatched_riders_count"`
}
