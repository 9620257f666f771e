// Package queue defines the activity feed exchanged over the message broker,
// together with its publisher and the background consumer that records it.
package queue

// ActivityQueue is the durable queue every activity message goes to.
const ActivityQueue = "event.activity"

// Activity kinds.
const (
    KindEventPublished       = "event.published"
    KindEventCanceled        = "event.canceled"
    KindParticipantJoined    = "participant.joined"
    KindParticipantLeft      = "participant.left"
    KindParticipantPromoted  = "participant.promoted"
    KindParticipantUpdated   = "participant.updated"
    KindParticipantApproved  = "participant.approved"
    KindParticipantRejected  = "participant.rejected"
    KindMatchProposed        = "match.proposed"
    KindMatchStatusChanged   = "match.status_changed"
    KindMatchCascadeCanceled = "match.cascade_canceled"
)

// ActivityEvent is published after a participation or ride change commits.
// It carries ids only; consumers that need more read the primary store.
type ActivityEvent struct {
    Kind          string   `json:"kind"`
    EventID       string   `json:"event_id"`
    ActorID       string   `json:"actor_id,omitempty"`
    ParticipantID string   `json:"participant_id,omitempty"`
    MatchIDs      []string `json:"match_ids,omitempty"`
    Status        string   `json:"status,omitempty"`
    OccurredAt    string   `json:"occurred_at"`
}
