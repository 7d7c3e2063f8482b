package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
)

type ConversationRepo struct{ DB *sql.DB }

func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

// FindByListingAndPair looks up the unique thread for a listing and an
// unordered participant pair.
func (r *ConversationRepo) FindByListingAndPair(ctx context.Context, ref model.ListingRef, a, b string) (*model.Conversation, error) {
	var c model.Conversation
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, listing_type, listing_id, participant1_id, participant2_id,
		        created_at, updated_at
		 FROM conversations
		 WHERE listing_type=? AND listing_id=? AND pair_key=?`,
		ref.Type, ref.ID, model.PairKey(a, b)).
		Scan(&c.ID, &c.ListingType, &c.ListingID, &c.Participant1,
			&c.Participant2, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new thread. A unique-key violation is reported as
// ErrDuplicate so the caller can re-fetch the row another request created
// concurrently.
func (r *ConversationRepo) Create(ctx context.Context, c *model.Conversation) error {
	c.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO conversations
		 (id, listing_type, listing_id, participant1_id, participant2_id, pair_key)
		 VALUES (?,?,?,?,?,?)`,
		c.ID, c.ListingType, c.ListingID, c.Participant1, c.Participant2,
		model.PairKey(c.Participant1, c.Participant2))
	if err != nil {
		if isDuplicateKey(err, "") {
			return ErrDuplicate
		}
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM conversations WHERE id=?", c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// Touch bumps updated_at when a new message lands in the thread.
func (r *ConversationRepo) Touch(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE conversations SET updated_at=NOW() WHERE id=?", id)
	return err
}

// CountConversations returns the total thread count for admin stats.
func (r *ConversationRepo) CountConversations(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversations").Scan(&n)
	return n, err
}
