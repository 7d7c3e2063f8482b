package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment and fills in id, timestamps and the author's
// username.
func (r *CommentRepo) Create(ctx context.Context, cm *model.Comment) error {
	cm.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO comments (id, listing_type, listing_id, user_id, content)
		 VALUES (?,?,?,?,?)`,
		cm.ID, cm.ListingType, cm.ListingID, cm.UserID, cm.Content)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		`SELECT c.created_at, c.updated_at, u.username
		 FROM comments c JOIN users u ON u.id=c.user_id WHERE c.id=?`, cm.ID).
		Scan(&cm.CreatedAt, &cm.UpdatedAt, &cm.Username)
}

// GetByID fetches a single comment, for the delete path's ownership check.
func (r *CommentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var cm model.Comment
	err := r.DB.QueryRowContext(ctx,
		`SELECT c.id, c.listing_type, c.listing_id, c.user_id, u.username,
		        c.content, c.created_at, c.updated_at
		 FROM comments c JOIN users u ON u.id=c.user_id WHERE c.id=?`, id).
		Scan(&cm.ID, &cm.ListingType, &cm.ListingID, &cm.UserID, &cm.Username,
			&cm.Content, &cm.CreatedAt, &cm.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

// ListByListing returns a listing's comments oldest first.
func (r *CommentRepo) ListByListing(ctx context.Context, ref model.ListingRef) ([]*model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.id, c.listing_type, c.listing_id, c.user_id, u.username,
		        c.content, c.created_at, c.updated_at
		 FROM comments c JOIN users u ON u.id=c.user_id
		 WHERE c.listing_type=? AND c.listing_id=?
		 ORDER BY c.created_at ASC`, ref.Type, ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Comment
	for rows.Next() {
		var cm model.Comment
		if err := rows.Scan(&cm.ID, &cm.ListingType, &cm.ListingID, &cm.UserID,
			&cm.Username, &cm.Content, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &cm)
	}
	return out, rows.Err()
}

// UpdateContent edits a comment's text. Author-only; the handler checks.
func (r *CommentRepo) UpdateContent(ctx context.Context, id, content string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE comments SET content=?, updated_at=NOW() WHERE id=?", content, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
