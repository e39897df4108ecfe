package service

import (
	"context"

	"github.com/iliyamo/health-tracker/internal/model"
	"github.com/iliyamo/health-tracker/internal/queue"
)

// UserStore is satisfied by *repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RecordStore is satisfied by *repository.RecordRepo.
type RecordStore interface {
	Create(ctx context.Context, rec model.HealthRecord) (uint64, error)
	GetByReportID(ctx context.Context, reportID string) (model.RecordView, error)
	UpdateByReportID(ctx context.Context, rec model.HealthRecord) error
}

// QuestionnaireStore is satisfied by *repository.QuestionnaireRepo.
type QuestionnaireStore interface {
	CreateBatch(ctx context.Context, rows []model.QuestionnaireResponse) error
	ListByDLQID(ctx context.Context, dlqID string) ([]model.QuestionnaireResponse, error)
}

// EventPublisher is satisfied by *queue.Publisher and queue.NopPublisher.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}
