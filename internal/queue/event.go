// Package queue defines message payloads exchanged over the message broker.
package queue

// ReviewQueueName is the durable queue carrying review events.
const ReviewQueueName = "review.events"

// Event types.
const (
	ReviewCreated = "review.created"
	ReviewDeleted = "review.deleted"
)

// ReviewEvent is published after a review is stored or removed.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type ReviewEvent struct {
	Type         string `json:"type"`
	ReviewID     int64  `json:"review_id"`
	MovieID      int64  `json:"movie_id"`
	MovieTitle   string `json:"movie_title,omitempty"`
	ReviewerName string `json:"reviewer_name,omitempty"`
	Rating       int    `json:"rating,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}
