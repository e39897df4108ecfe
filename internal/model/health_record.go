package model

import "time"

// HealthRecord mirrors a row in `health_records`.  ReportID is the short
// human-readable handle clients use; it is indexed but not unique.
type HealthRecord struct {
	ID        uint64    // health_records.id
	UserID    uint64    // health_records.user_id
	ReportID  string    // health_records.report_id
	Condition string    // health_records.condition
	DOB       time.Time // health_records.dob (date only, UTC midnight)
	Gender    string    // health_records.gender
	UpdatedAt time.Time // health_records.updated_at
}

// RecordView is a health record joined with its owner's name.
type RecordView struct {
	Name      string
	Condition string
	DOB       time.Time
	Gender    string
	ReportID  string
	UpdatedAt time.Time
}
