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

// ResponseInput is one submitted answer.  Response is nil when the client
// sent null or omitted it; such entries are dropped.
type ResponseInput struct {
	Section  string
	Question string
	Response *string
}

// Answer is one stored answer of a batch.
type Answer struct {
	Section  string
	Question string
	Response string
}

// Batch is a questionnaire submission in insertion order.
type Batch struct {
	DLQID     string
	Responses []Answer
}

// QuestionnaireService accepts and returns questionnaire batches.
type QuestionnaireService struct {
	users     UserStore
	responses QuestionnaireStore
	events    EventPublisher
	log       zerolog.Logger
	now       func() time.Time
	batchNum  func() int
}

func NewQuestionnaireService(users UserStore, responses QuestionnaireStore, events EventPublisher, log zerolog.Logger) *QuestionnaireService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &QuestionnaireService{
		users:     users,
		responses: responses,
		events:    events,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		batchNum:  func() int { return 1000 + rand.IntN(9000) },
	}
}

// Clean trims every entry and drops the ones without a section, a question
// or a response.
func Clean(in []ResponseInput) []Answer {
	out := make([]Answer, 0, len(in))
	for _, r := range in {
		section := strings.TrimSpace(r.Section)
		question := strings.TrimSpace(r.Question)
		if section == "" || question == "" || r.Response == nil {
			continue
		}
		out = append(out, Answer{Section: section, Question: question, Response: strings.TrimSpace(*r.Response)})
	}
	return out
}

// Submit stores the usable entries of in as one batch and returns its id.
func (s *QuestionnaireService) Submit(ctx context.Context, userID uint64, in []ResponseInput) (string, error) {
	if len(in) == 0 {
		return "", NewValidationError("responses must be a non-empty array")
	}
	answers := Clean(in)
	if len(answers) == 0 {
		return "", NewValidationError("no valid responses: each needs section, question and response")
	}

	owner, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NewAuthError("unknown user")
	}
	if err != nil {
		return "", err
	}

	now := s.now()
	dlqID := DLQID(owner.Name, s.batchNum())
	rows := make([]model.QuestionnaireResponse, len(answers))
	for i, a := range answers {
		rows[i] = model.QuestionnaireResponse{
			UserID:      userID,
			DLQID:       dlqID,
			Section:     a.Section,
			Question:    a.Question,
			Response:    a.Response,
			SubmittedAt: now,
		}
	}
	if err := s.responses.CreateBatch(ctx, rows); err != nil {
		return "", err
	}

	ev := queue.NewActivityEvent(queue.TypeQuestionnaireSubmitted, userID, now)
	ev.DLQID = dlqID
	ev.Count = len(rows)
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("dlq_id", dlqID).Msg("activity event dropped")
	}
	return dlqID, nil
}

// GetByBatchID returns a batch in submission order.
func (s *QuestionnaireService) GetByBatchID(ctx context.Context, dlqID string) (Batch, error) {
	dlqID = strings.TrimSpace(dlqID)
	if dlqID == "" {
		return Batch{}, NewNotFoundError("questionnaire not found")
	}
	rows, err := s.responses.ListByDLQID(ctx, dlqID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && len(rows) == 0) {
		return Batch{}, NewNotFoundError("questionnaire not found")
	}
	if err != nil {
		return Batch{}, err
	}
	b := Batch{DLQID: dlqID, Responses: make([]Answer, len(rows))}
	for i, r := range rows {
		b.Responses[i] = Answer{Section: r.Section, Question: r.Question, Response: r.Response}
	}
	return b, nil
}
