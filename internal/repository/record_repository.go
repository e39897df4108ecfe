package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/health-tracker/internal/model"
)

// RecordRepo persists health records.  `condition` is a reserved word in
// MySQL and must stay back-quoted in every statement.
type RecordRepo struct{ DB *sql.DB }

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{DB: db} }

// dateLayout is how DOB values are bound; the column is a DATE.
const dateLayout = "2006-01-02"

// Create inserts a record and returns the new row id.  Duplicate report ids
// are accepted.
func (r *RecordRepo) Create(ctx context.Context, rec model.HealthRecord) (uint64, error) {
	const q = "INSERT INTO health_records (user_id, report_id, `condition`, dob, gender, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	res, err := r.DB.ExecContext(ctx, q,
		rec.UserID, rec.ReportID, rec.Condition, rec.DOB.UTC().Format(dateLayout), rec.Gender, rec.UpdatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert health record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert health record: %w", err)
	}
	return uint64(id), nil
}

// GetByReportID returns the record joined with its owner's name.  When
// several rows share the report id, the most recently updated one wins.
func (r *RecordRepo) GetByReportID(ctx context.Context, reportID string) (model.RecordView, error) {
	const q = "SELECT u.name, hr.`condition`, hr.dob, hr.gender, hr.report_id, hr.updated_at " +
		"FROM health_records hr JOIN users u ON u.id = hr.user_id " +
		"WHERE hr.report_id = ? ORDER BY hr.updated_at DESC, hr.id DESC LIMIT 1"
	var v model.RecordView
	err := r.DB.QueryRowContext(ctx, q, reportID).
		Scan(&v.Name, &v.Condition, &v.DOB, &v.Gender, &v.ReportID, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RecordView{}, ErrNotFound
	}
	if err != nil {
		return model.RecordView{}, fmt.Errorf("get health record: %w", err)
	}
	return v, nil
}

// UpdateByReportID overwrites the mutable fields of every row carrying the
// report id.  It returns ErrNotFound when nothing matched.
func (r *RecordRepo) UpdateByReportID(ctx context.Context, rec model.HealthRecord) error {
	const q = "UPDATE health_records SET `condition` = ?, dob = ?, gender = ?, updated_at = ? WHERE report_id = ?"
	res, err := r.DB.ExecContext(ctx, q,
		rec.Condition, rec.DOB.UTC().Format(dateLayout), rec.Gender, rec.UpdatedAt.UTC(), rec.ReportID)
	if err != nil {
		return fmt.Errorf("update health record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update health record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
