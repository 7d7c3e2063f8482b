package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/queue"
	"github.com/yardline/yardline-api/internal/service"
)

// MessageHandler exposes the private messaging endpoints on top of
// service.Messenger.
type MessageHandler struct {
	Messenger *service.Messenger
}

func NewMessageHandler(m *service.Messenger) *MessageHandler {
	return &MessageHandler{Messenger: m}
}

type sendMessageReq struct {
	Content     string `json:"content"`
	RecipientID string `json:"recipient_id"` // optional, defaults to the listing owner
}

// Send handles POST /v1/listings/:ltype/:id/messages.
func (h *MessageHandler) Send(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ref, ok := listingRef(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing reference"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msg, err := h.Messenger.Send(ctx, p, ref, req.RecipientID, req.Content)
	if err != nil {
		return fail(c, err)
	}

	// Broker publish is best-effort; the message is already stored.
	go func(event queue.MessageSentEvent) {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = service.PublishMessageSent(pubCtx, event)
	}(queue.MessageSentEvent{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		ListingType:    string(msg.ListingType),
		ListingID:      msg.ListingID,
		SenderID:       msg.SenderID,
		RecipientID:    msg.RecipientID,
		SentAt:         msg.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, msg)
}

// ListingThread handles GET /v1/listings/:ltype/:id/messages and returns
// the caller's thread on that listing, oldest first.
func (h *MessageHandler) ListingThread(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ref, ok := listingRef(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing reference"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msgs, err := h.Messenger.ListingThread(ctx, p, ref)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// Inbox handles GET /v1/me/messages, newest first across all threads.
func (h *MessageHandler) Inbox(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msgs, err := h.Messenger.Inbox(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// UnreadCount handles GET /v1/me/messages/unread-count.
func (h *MessageHandler) UnreadCount(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Messenger.UnreadCount(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread_count": n})
}

// MarkRead handles PATCH /v1/messages/:id/read. Only the recipient can
// flip the flag; repeating the call is a no-op.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	msg, err := h.Messenger.MarkRead(ctx, p, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, msg)
}

// Delete handles DELETE /v1/messages/:id.
func (h *MessageHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Messenger.DeleteMessage(ctx, p, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
