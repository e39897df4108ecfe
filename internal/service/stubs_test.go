package service

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/health-tracker/internal/model"
	"github.com/iliyamo/health-tracker/internal/queue"
	"github.com/iliyamo/health-tracker/internal/repository"
)

var errStore = errors.New("store unavailable")

type stubUsers struct {
	mu     sync.Mutex
	byID   map[uint64]model.User
	nextID uint64
	// raceOnCreate simulates a concurrent insert winning the unique key
	raceOnCreate bool
	failLookup   bool
}

func newStubUsers() *stubUsers {
	return &stubUsers{byID: map[uint64]model.User{}, nextID: 1}
}

func (s *stubUsers) Create(_ context.Context, name, email, hash string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raceOnCreate {
		return 0, repository.ErrEmailExists
	}
	id := s.nextID
	s.nextID++
	s.byID[id] = model.User{ID: id, Name: name, Email: email, PasswordHash: hash}
	return id, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLookup {
		return model.User{}, errStore
	}
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *stubUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failLookup {
		return model.User{}, errStore
	}
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) add(name string) uint64 {
	id, _ := s.Create(context.Background(), name, name+"@example.com", "x")
	return id
}

type stubRecords struct {
	rows  []model.HealthRecord
	users *stubUsers
	fail  bool
}

func (s *stubRecords) Create(_ context.Context, rec model.HealthRecord) (uint64, error) {
	if s.fail {
		return 0, errStore
	}
	rec.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, rec)
	return rec.ID, nil
}

func (s *stubRecords) GetByReportID(ctx context.Context, reportID string) (model.RecordView, error) {
	for i := len(s.rows) - 1; i >= 0; i-- {
		r := s.rows[i]
		if r.ReportID == reportID {
			u, _ := s.users.GetByID(ctx, r.UserID)
			return model.RecordView{Name: u.Name, Condition: r.Condition, DOB: r.DOB, Gender: r.Gender, ReportID: r.ReportID, UpdatedAt: r.UpdatedAt}, nil
		}
	}
	return model.RecordView{}, repository.ErrNotFound
}

func (s *stubRecords) UpdateByReportID(_ context.Context, rec model.HealthRecord) error {
	n := 0
	for i := range s.rows {
		if s.rows[i].ReportID == rec.ReportID {
			s.rows[i].Condition = rec.Condition
			s.rows[i].DOB = rec.DOB
			s.rows[i].Gender = rec.Gender
			s.rows[i].UpdatedAt = rec.UpdatedAt
			n++
		}
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type stubResponses struct {
	batches [][]model.QuestionnaireResponse
	fail    bool
}

func (s *stubResponses) CreateBatch(_ context.Context, rows []model.QuestionnaireResponse) error {
	if s.fail {
		return errStore
	}
	s.batches = append(s.batches, rows)
	return nil
}

func (s *stubResponses) ListByDLQID(_ context.Context, dlqID string) ([]model.QuestionnaireResponse, error) {
	var out []model.QuestionnaireResponse
	for _, b := range s.batches {
		for _, r := range b {
			if r.DLQID == dlqID {
				out = append(out, r)
			}
		}
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

type recordingPublisher struct {
	events []queue.ActivityEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.events = append(p.events, ev)
	return p.err
}
