package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
)

type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

// Create inserts a rating. Value bounds and the no-self-rating rule are
// enforced by the service layer before this is called.
func (r *RatingRepo) Create(ctx context.Context, rt *model.Rating) error {
	rt.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO ratings
		 (id, rated_user_id, reviewer_id, value, review, listing_type, listing_id)
		 VALUES (?,?,?,?,NULLIF(?,''),?,?)`,
		rt.ID, rt.RatedUserID, rt.ReviewerID, rt.Value, rt.Review,
		rt.ListingType, rt.ListingID)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		`SELECT r.created_at, u.username
		 FROM ratings r JOIN users u ON u.id=r.reviewer_id WHERE r.id=?`, rt.ID).
		Scan(&rt.CreatedAt, &rt.ReviewerUsername)
}

// GetByID fetches one rating, for the delete path's ownership check.
func (r *RatingRepo) GetByID(ctx context.Context, id string) (*model.Rating, error) {
	var rt model.Rating
	err := r.DB.QueryRowContext(ctx,
		`SELECT r.id, r.rated_user_id, r.reviewer_id, u.username, r.value,
		        COALESCE(r.review,''), r.listing_type, r.listing_id, r.created_at
		 FROM ratings r JOIN users u ON u.id=r.reviewer_id WHERE r.id=?`, id).
		Scan(&rt.ID, &rt.RatedUserID, &rt.ReviewerID, &rt.ReviewerUsername,
			&rt.Value, &rt.Review, &rt.ListingType, &rt.ListingID, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// ListForUser returns the ratings a user has received, newest first.
func (r *RatingRepo) ListForUser(ctx context.Context, ratedUserID string) ([]*model.Rating, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.rated_user_id, r.reviewer_id, u.username, r.value,
		        COALESCE(r.review,''), r.listing_type, r.listing_id, r.created_at
		 FROM ratings r JOIN users u ON u.id=r.reviewer_id
		 WHERE r.rated_user_id=? ORDER BY r.created_at DESC`, ratedUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Rating
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(&rt.ID, &rt.RatedUserID, &rt.ReviewerID,
			&rt.ReviewerUsername, &rt.Value, &rt.Review, &rt.ListingType,
			&rt.ListingID, &rt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rt)
	}
	return out, rows.Err()
}

// Summary computes count and average score for a user.
func (r *RatingRepo) Summary(ctx context.Context, ratedUserID string) (model.RatingSummary, error) {
	var s model.RatingSummary
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(AVG(value),0) FROM ratings WHERE rated_user_id=?",
		ratedUserID).Scan(&s.Count, &s.Average)
	return s, err
}

// Delete removes a rating.
func (r *RatingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM ratings WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
