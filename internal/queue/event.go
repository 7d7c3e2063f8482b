// Package queue defines the event payloads exchanged over the broker and
// the background consumer that processes them.
package queue

// MessageSentEvent is published after a private message is stored. It
// carries enough for downstream consumers (notification fan-out, analytics)
// to act without querying the primary database. Message content is
// intentionally omitted; consumers never see thread bodies.
type MessageSentEvent struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	ListingType    string `json:"listing_type"`
	ListingID      string `json:"listing_id"`
	SenderID       string `json:"sender_id"`
	RecipientID    string `json:"recipient_id"`
	SentAt         string `json:"sent_at"`
}
