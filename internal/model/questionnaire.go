package model

import "time"

// QuestionnaireResponse mirrors a row in `questionnaire_responses`.  Rows
// sharing a DLQID form one submitted batch; ID preserves insertion order.
type QuestionnaireResponse struct {
	ID          uint64
	UserID      uint64
	DLQID       string
	Section     string
	Question    string
	Response    string
	SubmittedAt time.Time
}
