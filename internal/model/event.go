package model

import "time"

// Event represents a row in the `events` table.  An event is owned by the
// user who created it (the organizer) and admits participants according to
// its JoinPolicy.
//
// Fields:
//  ID           – UUID primary key.
//  CreatedBy    – user id of the organizer.
//  Capacity     – upper bound on APPROVED participants; nil means unbounded.
//  JoinPolicy   – how join requests are resolved.
//  Status       – DRAFT, PUBLISHED or CANCELED.  Only PUBLISHED events accept
//                 participation changes.
type Event struct {
    ID           string      `json:"id"`
    CreatedBy    string      `json:"created_by"`
    Title        string      `json:"title"`
    Description  *string     `json:"description,omitempty"`
    StartAt      time.Time   `json:"start_at"`
    EndAt        *time.Time  `json:"end_at,omitempty"`
    LocationName string      `json:"location_name"`
    LocationLat  *float64    `json:"location_lat,omitempty"`
    LocationLng  *float64    `json:"location_lng,omitempty"`
    Capacity     *int        `json:"capacity,omitempty"`
    JoinPolicy   JoinPolicy  `json:"join_policy"`
    Status       EventStatus `json:"status"`
    CreatedAt    time.Time   `json:"created_at"`
    UpdatedAt    time.Time   `json:"updated_at"`
}

// IsFull reports whether approved participants have reached capacity.
func (e *Event) IsFull(approved int) bool {
    return e.Capacity != nil && approved >= *e.Capacity
}
