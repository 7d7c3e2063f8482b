package model

import "time"

// Message belongs to exactly one conversation. Sender and recipient are
// always the thread's two participants. IsRead flips false->true only via
// MarkRead, called by the recipient.
type Message struct {
	ID                string      `json:"id"`
	ConversationID    string      `json:"conversation_id"`
	ListingType       ListingType `json:"listing_type"`
	ListingID         string      `json:"listing_id"`
	SenderID          string      `json:"sender_id"`
	SenderUsername    string      `json:"sender_username"`
	RecipientID       string      `json:"recipient_id"`
	RecipientUsername string      `json:"recipient_username"`
	Content           string      `json:"content"`
	IsRead            bool        `json:"is_read"`
	CreatedAt         time.Time   `json:"created_at"`
}
