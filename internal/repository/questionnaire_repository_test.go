package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/health-tracker/internal/model"
)

func TestQuestionnaireRepo_CreateBatch_SingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewQuestionnaireRepo(db)

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := []model.QuestionnaireResponse{
		{UserID: 1, DLQID: "DLQ_AL1234", Section: "Sleep", Question: "Hours?", Response: "7", SubmittedAt: at},
		{UserID: 1, DLQID: "DLQ_AL1234", Section: "Diet", Question: "Meals?", Response: "3", SubmittedAt: at},
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questionnaire_responses (user_id, dlq_id, section, question, response, submitted_at) VALUES (?, ?, ?, ?, ?, ?),(?, ?, ?, ?, ?, ?)")).
		WithArgs(uint64(1), "DLQ_AL1234", "Sleep", "Hours?", "7", at,
			uint64(1), "DLQ_AL1234", "Diet", "Meals?", "3", at).
		WillReturnResult(sqlmock.NewResult(1, 2))

	require.NoError(t, repo.CreateBatch(context.Background(), rows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionnaireRepo_CreateBatch_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, NewQuestionnaireRepo(db).CreateBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionnaireRepo_ListByDLQID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewQuestionnaireRepo(db)

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	cols := []string{"id", "user_id", "dlq_id", "section", "question", "response", "submitted_at"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE dlq_id = ? ORDER BY id ASC")).
		WithArgs("DLQ_AL1234").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(5, 1, "DLQ_AL1234", "Sleep", "Hours?", "7", at).
			AddRow(6, 1, "DLQ_AL1234", "Diet", "Meals?", "3", at))

	got, err := repo.ListByDLQID(context.Background(), "DLQ_AL1234")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Sleep", got[0].Section)
	assert.Equal(t, "Diet", got[1].Section)

	mock.ExpectQuery("FROM questionnaire_responses").WillReturnRows(sqlmock.NewRows(cols))
	_, err = repo.ListByDLQID(context.Background(), "DLQ_XX0000")
	assert.ErrorIs(t, err, ErrNotFound)
}
