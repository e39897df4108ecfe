// Package queue carries activity events over RabbitMQ.  Services publish
// them after a successful write; a background consumer appends them to an
// activity log without touching the primary database.
package queue

import "time"

// Activity event types.
const (
	TypeRecordCreated          = "record.created"
	TypeRecordUpdated          = "record.updated"
	TypeQuestionnaireSubmitted = "questionnaire.submitted"
)

// ActivityEvent describes one completed write.  Only ids are carried;
// clinical content never leaves the database.
type ActivityEvent struct {
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	ReportID   string `json:"report_id,omitempty"`
	DLQID      string `json:"dlq_id,omitempty"`
	Count      int    `json:"count,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewActivityEvent stamps an event with the given time in RFC3339 UTC.
func NewActivityEvent(typ string, userID uint64, at time.Time) ActivityEvent {
	return ActivityEvent{Type: typ, UserID: userID, OccurredAt: at.UTC().Format(time.RFC3339)}
}
