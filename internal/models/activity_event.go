package models

import "time"

// Activity event types, one per successful write.
const (
	EventUserRegistered = "USER_REGISTERED"
	EventPostCreated    = "POST_CREATED"
	EventPostUpdated    = "POST_UPDATED"
	EventPostDeleted    = "POST_DELETED"
	EventFutureCreated  = "FUTURE_CREATED"
	EventFutureUpdated  = "FUTURE_UPDATED"
	EventFutureDeleted  = "FUTURE_DELETED"
)

// ActivityEvent is a single entry of the activity log.
type ActivityEvent struct {
	EventID     string    `json:"eventId"`
	OccurredAt  time.Time `json:"occurredAt"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
