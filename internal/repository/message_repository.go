package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
)

type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

const messageSelect = `SELECT m.id, m.conversation_id, c.listing_type,
	c.listing_id, m.sender_id, su.username, m.recipient_id, ru.username,
	m.content, m.is_read, m.created_at
	FROM messages m
	JOIN conversations c ON c.id = m.conversation_id
	JOIN users su ON su.id = m.sender_id
	JOIN users ru ON ru.id = m.recipient_id`

func scanMessage(scan func(...any) error) (*model.Message, error) {
	var m model.Message
	err := scan(&m.ID, &m.ConversationID, &m.ListingType, &m.ListingID,
		&m.SenderID, &m.SenderUsername, &m.RecipientID, &m.RecipientUsername,
		&m.Content, &m.IsRead, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Insert stores a new unread message and fills in id, created_at and the
// joined display fields.
func (r *MessageRepo) Insert(ctx context.Context, m *model.Message) error {
	m.ID = uuid.NewString()
	m.IsRead = false
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, recipient_id, content)
		 VALUES (?,?,?,?,?)`,
		m.ID, m.ConversationID, m.SenderID, m.RecipientID, m.Content)
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

// GetByID fetches one message with its conversation and display fields.
func (r *MessageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
	row := r.DB.QueryRowContext(ctx, messageSelect+" WHERE m.id=?", id)
	return scanMessage(row.Scan)
}

// ListInbox returns every message in conversations the user participates
// in, newest first. The join through conversations guarantees the user
// never sees a thread they are not part of.
func (r *MessageRepo) ListInbox(ctx context.Context, userID string) ([]*model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		messageSelect+
			` WHERE c.participant1_id=? OR c.participant2_id=?
			 ORDER BY m.created_at DESC`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// ListByListingForUser returns all of a user's messages about one listing
// across that user's threads, oldest first.
func (r *MessageRepo) ListByListingForUser(ctx context.Context, ref model.ListingRef, userID string) ([]*model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		messageSelect+
			` WHERE c.listing_type=? AND c.listing_id=?
			   AND (c.participant1_id=? OR c.participant2_id=?)
			 ORDER BY m.created_at ASC`,
		ref.Type, ref.ID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

func collectMessages(rows *sql.Rows) ([]*model.Message, error) {
	var out []*model.Message
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountUnread counts messages addressed to the user that are still unread.
func (r *MessageRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE recipient_id=? AND is_read=0",
		userID).Scan(&n)
	return n, err
}

// MarkRead flips the read flag. Re-marking an already read message affects
// zero rows, which is fine: the operation is idempotent.
func (r *MessageRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE messages SET is_read=1 WHERE id=?", id)
	return err
}

// Delete removes a message.
func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM messages WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountMessages returns the total message count for admin stats.
func (r *MessageRepo) CountMessages(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}
