package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/health-tracker/internal/model"
	"github.com/iliyamo/health-tracker/internal/queue"
	"github.com/iliyamo/health-tracker/internal/repository"
)

// DateLayout is the wire format of a date of birth.
const DateLayout = "2006-01-02"

// RecordInput carries the mutable fields of a health record as received.
type RecordInput struct {
	Condition string
	DOB       string
	Gender    string
}

// RecordService manages health records.  Reads are public; writes are
// attributed to the authenticated caller.
type RecordService struct {
	users   UserStore
	records RecordStore
	events  EventPublisher
	log     zerolog.Logger
	now     func() time.Time
	digit   func() int
}

func NewRecordService(users UserStore, records RecordStore, events EventPublisher, log zerolog.Logger) *RecordService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &RecordService{
		users:   users,
		records: records,
		events:  events,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
		digit:   func() int { return rand.IntN(10) },
	}
}

type validRecord struct {
	condition string
	dob       time.Time
	gender    string
}

func (s *RecordService) validate(in RecordInput) (validRecord, error) {
	v := validRecord{
		condition: strings.TrimSpace(in.Condition),
		gender:    strings.TrimSpace(in.Gender),
	}
	raw := strings.TrimSpace(in.DOB)
	if v.condition == "" || raw == "" || v.gender == "" {
		return validRecord{}, NewValidationError("condition, dob and gender are required")
	}
	dob, err := ParseDOB(raw)
	if err != nil {
		return validRecord{}, NewValidationError("dob must be a date in YYYY-MM-DD format")
	}
	// compare the instant as sent; only the stored value is cut to the date
	if dob.After(s.now()) {
		return validRecord{}, NewValidationError("dob cannot be in the future")
	}
	v.dob = dateOf(dob)
	return v, nil
}

// ParseDOB accepts YYYY-MM-DD (UTC midnight) or an RFC3339 timestamp and
// returns the instant it names.
func ParseDOB(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateRecord stores a record owned by userID and returns its report id.
func (s *RecordService) CreateRecord(ctx context.Context, userID uint64, in RecordInput) (string, error) {
	v, err := s.validate(in)
	if err != nil {
		return "", err
	}
	owner, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NewAuthError("unknown user")
	}
	if err != nil {
		return "", err
	}

	now := s.now()
	reportID := ReportID(owner.Name, v.condition, now, s.digit())
	if _, err := s.records.Create(ctx, model.HealthRecord{
		UserID:    userID,
		ReportID:  reportID,
		Condition: v.condition,
		DOB:       v.dob,
		Gender:    v.gender,
		UpdatedAt: now,
	}); err != nil {
		return "", err
	}

	ev := queue.NewActivityEvent(queue.TypeRecordCreated, userID, now)
	ev.ReportID = reportID
	s.publish(ctx, ev)
	return reportID, nil
}

// GetRecord returns the record with its owner's name.
func (s *RecordService) GetRecord(ctx context.Context, reportID string) (model.RecordView, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return model.RecordView{}, NewNotFoundError("record not found")
	}
	v, err := s.records.GetByReportID(ctx, reportID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.RecordView{}, NewNotFoundError("record not found")
	}
	if err != nil {
		return model.RecordView{}, err
	}
	return v, nil
}

// UpdateRecord overwrites a record's fields.  Any authenticated caller may
// update any record; actorID is only recorded in the activity event.
func (s *RecordService) UpdateRecord(ctx context.Context, actorID uint64, reportID string, in RecordInput) error {
	v, err := s.validate(in)
	if err != nil {
		return err
	}
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return NewNotFoundError("record not found")
	}

	now := s.now()
	err = s.records.UpdateByReportID(ctx, model.HealthRecord{
		ReportID:  reportID,
		Condition: v.condition,
		DOB:       v.dob,
		Gender:    v.gender,
		UpdatedAt: now,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return NewNotFoundError("record not found")
	}
	if err != nil {
		return err
	}

	ev := queue.NewActivityEvent(queue.TypeRecordUpdated, actorID, now)
	ev.ReportID = reportID
	s.publish(ctx, ev)
	return nil
}

func (s *RecordService) publish(ctx context.Context, ev queue.ActivityEvent) {
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("type", ev.Type).Str("report_id", ev.ReportID).Msg("activity event dropped")
	}
}

// FormatDOB renders a stored date of birth for clients.
func FormatDOB(t time.Time) string { return t.UTC().Format(DateLayout) }
