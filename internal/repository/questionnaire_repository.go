package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/health-tracker/internal/model"
)

// QuestionnaireRepo stores questionnaire responses.  A batch is written in
// a single multi-row INSERT, so it either lands whole or not at all.
type QuestionnaireRepo struct{ DB *sql.DB }

func NewQuestionnaireRepo(db *sql.DB) *QuestionnaireRepo { return &QuestionnaireRepo{DB: db} }

// CreateBatch inserts all rows.  Passing an empty slice has no effect.
func (r *QuestionnaireRepo) CreateBatch(ctx context.Context, rows []model.QuestionnaireResponse) error {
	if len(rows) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("INSERT INTO questionnaire_responses (user_id, dlq_id, section, question, response, submitted_at) VALUES ")
	args := make([]interface{}, 0, len(rows)*6)
	for i, row := range rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?, ?, ?)")
		args = append(args, row.UserID, row.DLQID, row.Section, row.Question, row.Response, row.SubmittedAt.UTC())
	}
	if _, err := r.DB.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("insert questionnaire batch: %w", err)
	}
	return nil
}

// ListByDLQID returns a batch ordered by insertion.  It returns ErrNotFound
// when the batch id is unknown.
func (r *QuestionnaireRepo) ListByDLQID(ctx context.Context, dlqID string) ([]model.QuestionnaireResponse, error) {
	const q = `SELECT id, user_id, dlq_id, section, question, response, submitted_at
        FROM questionnaire_responses WHERE dlq_id = ? ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, q, dlqID)
	if err != nil {
		return nil, fmt.Errorf("list questionnaire batch: %w", err)
	}
	defer rows.Close()

	var out []model.QuestionnaireResponse
	for rows.Next() {
		var qr model.QuestionnaireResponse
		if err := rows.Scan(&qr.ID, &qr.UserID, &qr.DLQID, &qr.Section, &qr.Question, &qr.Response, &qr.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan questionnaire response: %w", err)
		}
		out = append(out, qr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questionnaire batch: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}
