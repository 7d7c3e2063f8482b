package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
)

type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

const reportColumns = `id, reporter_id, reported_user_id, listing_type,
	listing_id, report_type, description, status, created_at, updated_at`

func scanReport(scan func(...any) error) (*model.Report, error) {
	var rp model.Report
	err := scan(&rp.ID, &rp.ReporterID, &rp.ReportedUserID, &rp.ListingType,
		&rp.ListingID, &rp.ReportType, &rp.Description, &rp.Status,
		&rp.CreatedAt, &rp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rp, nil
}

// Create files a report with status pending.
func (r *ReportRepo) Create(ctx context.Context, rp *model.Report) error {
	rp.ID = uuid.NewString()
	rp.Status = model.ReportPending
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO reports
		 (id, reporter_id, reported_user_id, listing_type, listing_id,
		  report_type, description, status)
		 VALUES (?,?,?,?,?,?,?,?)`,
		rp.ID, rp.ReporterID, rp.ReportedUserID, rp.ListingType, rp.ListingID,
		rp.ReportType, rp.Description, rp.Status)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM reports WHERE id=?", rp.ID).
		Scan(&rp.CreatedAt, &rp.UpdatedAt)
}

// GetByID fetches one report.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE id=?", id)
	return scanReport(row.Scan)
}

// ListByReporter returns reports a user has filed, newest first.
func (r *ReportRepo) ListByReporter(ctx context.Context, reporterID string) ([]*model.Report, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE reporter_id=? ORDER BY created_at DESC",
		reporterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

// ListAll returns reports for the moderation queue, optionally filtered by
// status, newest first.
func (r *ReportRepo) ListAll(ctx context.Context, status string) ([]*model.Report, error) {
	q := "SELECT " + reportColumns + " FROM reports"
	var args []any
	if status != "" {
		q += " WHERE status=?"
		args = append(args, status)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

func collectReports(rows *sql.Rows) ([]*model.Report, error) {
	var out []*model.Report
	for rows.Next() {
		rp, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

// SetStatus moves a report through its resolution states.
func (r *ReportRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reports SET status=?, updated_at=NOW() WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns how many reports sit in one status, for admin stats.
func (r *ReportRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE status=?", status).Scan(&n)
	return n, err
}
