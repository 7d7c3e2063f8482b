// Package service holds the business rules that sit between handlers and
// repositories: conversation resolution for private messaging and rating
// validation. The messaging service depends on narrow store interfaces so
// the threading logic is testable without a database.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
)

// Conflict and validation errors surfaced by Send. Handlers map the two
// conflicts to HTTP 409 and the validation failures to 400.
var (
	ErrMessagingDisabled = errors.New("listing does not allow messages")
	ErrSelfMessage       = errors.New("cannot send message to yourself")
	ErrEmptyContent      = errors.New("message content is required")
	ErrInvalidRecipient  = errors.New("recipient is not a party to this listing")
)

// ListingLookup resolves a listing reference to its owner and flags.
type ListingLookup interface {
	Lookup(ctx context.Context, ref model.ListingRef) (model.ListingInfo, error)
}

// UserDirectory answers whether a recipient account exists and is active.
type UserDirectory interface {
	UserExists(ctx context.Context, id string) (bool, error)
}

// ConversationStore is the slice of ConversationRepo the messenger needs.
type ConversationStore interface {
	FindByListingAndPair(ctx context.Context, ref model.ListingRef, a, b string) (*model.Conversation, error)
	Create(ctx context.Context, c *model.Conversation) error
	Touch(ctx context.Context, id string) error
}

// MessageStore is the slice of MessageRepo the messenger needs.
type MessageStore interface {
	Insert(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	ListInbox(ctx context.Context, userID string) ([]*model.Message, error)
	ListByListingForUser(ctx context.Context, ref model.ListingRef, userID string) ([]*model.Message, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Messenger implements the private-messaging contract: one thread per
// (listing, participant pair), recipient defaults to the listing owner,
// read flags owned by the recipient.
type Messenger struct {
	Listings      ListingLookup
	Users         UserDirectory
	Conversations ConversationStore
	Messages      MessageStore
}

func NewMessenger(l ListingLookup, u UserDirectory, c ConversationStore, m MessageStore) *Messenger {
	return &Messenger{Listings: l, Users: u, Conversations: c, Messages: m}
}

// Send appends a message to the thread between the sender and recipient for
// the given listing, creating the thread on first contact. When recipientID
// is empty the listing owner is the recipient; an explicit recipient is
// required when the owner initiates or replies. A concurrent create by the
// other party is absorbed by re-fetching after a duplicate-key error, so N
// parallel sends still land in a single conversation.
func (s *Messenger) Send(ctx context.Context, p auth.Principal, ref model.ListingRef, recipientID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	info, err := s.Listings.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	// Private listings are invisible to everyone but their owner; do not
	// reveal their existence through the messaging path either.
	if !info.IsPublic && !auth.CanModify(p, info.OwnerID) {
		return nil, repository.ErrNotFound
	}
	if !info.AllowMessages {
		return nil, ErrMessagingDisabled
	}

	recipient := recipientID
	if recipient == "" {
		recipient = info.OwnerID
	}
	if recipient == p.ID {
		return nil, ErrSelfMessage
	}
	// Every thread involves the listing owner; a message between two
	// bystanders about someone else's listing has no home here.
	if p.ID != info.OwnerID && recipient != info.OwnerID {
		return nil, ErrInvalidRecipient
	}
	if ok, err := s.Users.UserExists(ctx, recipient); err != nil {
		return nil, err
	} else if !ok {
		return nil, repository.ErrNotFound
	}

	conv, err := s.resolveConversation(ctx, ref, p.ID, recipient, info.OwnerID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: conv.ID,
		SenderID:       p.ID,
		RecipientID:    recipient,
		Content:        content,
	}
	if err := s.Messages.Insert(ctx, msg); err != nil {
		// A thread with no messages is harmless; the uniqueness invariant
		// still holds and the next send reuses it.
		return nil, err
	}
	_ = s.Conversations.Touch(ctx, conv.ID)
	return msg, nil
}

// resolveConversation is the single lookup-or-create path. The unique key
// on (listing, ordered pair) is the backstop: losing the create race means
// the winner's row is fetched and used.
func (s *Messenger) resolveConversation(ctx context.Context, ref model.ListingRef, senderID, recipientID, ownerID string) (*model.Conversation, error) {
	conv, err := s.Conversations.FindByListingAndPair(ctx, ref, senderID, recipientID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	inquirer := senderID
	if senderID == ownerID {
		inquirer = recipientID
	}
	conv = &model.Conversation{
		ListingType:  ref.Type,
		ListingID:    ref.ID,
		Participant1: inquirer,
		Participant2: ownerID,
	}
	err = s.Conversations.Create(ctx, conv)
	if errors.Is(err, repository.ErrDuplicate) {
		return s.Conversations.FindByListingAndPair(ctx, ref, senderID, recipientID)
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Inbox returns every message across the principal's threads, newest first.
func (s *Messenger) Inbox(ctx context.Context, p auth.Principal) ([]*model.Message, error) {
	return s.Messages.ListInbox(ctx, p.ID)
}

// ListingThread returns the principal's messages about one listing. The
// store query is scoped to the principal's own conversations, so messages
// from other inquirers' threads never appear.
func (s *Messenger) ListingThread(ctx context.Context, p auth.Principal, ref model.ListingRef) ([]*model.Message, error) {
	if _, err := s.Listings.Lookup(ctx, ref); err != nil {
		return nil, err
	}
	return s.Messages.ListByListingForUser(ctx, ref, p.ID)
}

// UnreadCount counts unread messages addressed to the principal.
func (s *Messenger) UnreadCount(ctx context.Context, p auth.Principal) (int, error) {
	return s.Messages.CountUnread(ctx, p.ID)
}

// MarkRead flips a message's read flag. Only the recipient may do this; the
// sender gets ErrForbidden, a non-participant gets ErrNotFound so the
// message's existence stays hidden. Re-marking a read message succeeds.
func (s *Messenger) MarkRead(ctx context.Context, p auth.Principal, messageID string) (*model.Message, error) {
	msg, err := s.Messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !s.canSee(p, msg) {
		return nil, repository.ErrNotFound
	}
	if msg.RecipientID != p.ID {
		return nil, repository.ErrForbidden
	}
	if msg.IsRead {
		return msg, nil
	}
	if err := s.Messages.MarkRead(ctx, msg.ID); err != nil {
		return nil, err
	}
	msg.IsRead = true
	return msg, nil
}

// DeleteMessage removes a message. Sender, recipient and admins may delete;
// anyone else gets ErrNotFound.
func (s *Messenger) DeleteMessage(ctx context.Context, p auth.Principal, messageID string) error {
	msg, err := s.Messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if !s.canSee(p, msg) {
		return repository.ErrNotFound
	}
	return s.Messages.Delete(ctx, msg.ID)
}

// canSee reports whether the principal may observe the message at all:
// participants and admins only.
func (s *Messenger) canSee(p auth.Principal, msg *model.Message) bool {
	return msg.SenderID == p.ID || msg.RecipientID == p.ID || p.IsAdmin()
}
