package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
)

type VerificationRepo struct{ DB *sql.DB }

func NewVerificationRepo(db *sql.DB) *VerificationRepo { return &VerificationRepo{DB: db} }

// Create opens a pending request. A second pending request of the same type
// for the same user is a conflict.
func (r *VerificationRepo) Create(ctx context.Context, vr *model.VerificationRequest) error {
	var existing int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM verification_requests
		 WHERE user_id=? AND request_type=? AND status=?`,
		vr.UserID, vr.RequestType, model.VerificationPending).Scan(&existing)
	if err != nil {
		return err
	}
	if existing > 0 {
		return ErrConflict
	}
	vr.ID = uuid.NewString()
	vr.Status = model.VerificationPending
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO verification_requests (id, user_id, request_type, status)
		 VALUES (?,?,?,?)`,
		vr.ID, vr.UserID, vr.RequestType, vr.Status)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM verification_requests WHERE id=?",
		vr.ID).Scan(&vr.CreatedAt, &vr.UpdatedAt)
}

// GetByID fetches one request.
func (r *VerificationRepo) GetByID(ctx context.Context, id string) (*model.VerificationRequest, error) {
	var vr model.VerificationRequest
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, request_type, status, created_at, updated_at
		 FROM verification_requests WHERE id=?`, id).
		Scan(&vr.ID, &vr.UserID, &vr.RequestType, &vr.Status,
			&vr.CreatedAt, &vr.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vr, nil
}

// ListByUser returns a user's own requests, newest first.
func (r *VerificationRepo) ListByUser(ctx context.Context, userID string) ([]*model.VerificationRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, request_type, status, created_at, updated_at
		 FROM verification_requests WHERE user_id=? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVerifications(rows)
}

// ListPending returns the admin review queue, oldest first.
func (r *VerificationRepo) ListPending(ctx context.Context) ([]*model.VerificationRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, request_type, status, created_at, updated_at
		 FROM verification_requests WHERE status=? ORDER BY created_at ASC`,
		model.VerificationPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVerifications(rows)
}

func collectVerifications(rows *sql.Rows) ([]*model.VerificationRequest, error) {
	var out []*model.VerificationRequest
	for rows.Next() {
		var vr model.VerificationRequest
		if err := rows.Scan(&vr.ID, &vr.UserID, &vr.RequestType, &vr.Status,
			&vr.CreatedAt, &vr.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &vr)
	}
	return out, rows.Err()
}

// SetStatus resolves a request to verified or rejected.
func (r *VerificationRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE verification_requests SET status=?, updated_at=NOW() WHERE id=?",
		status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
