package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
	"github.com/yardline/yardline-api/internal/service"
)

// ----- in-memory fakes -----

type fakeListings map[model.ListingRef]model.ListingInfo

func (f fakeListings) Lookup(_ context.Context, ref model.ListingRef) (model.ListingInfo, error) {
	info, ok := f[ref]
	if !ok {
		return model.ListingInfo{}, repository.ErrNotFound
	}
	return info, nil
}

type fakeUsers map[string]bool

func (f fakeUsers) UserExists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

type fakeConvStore struct {
	byKey   map[string]*model.Conversation
	byID    map[string]*model.Conversation
	nextID  int
	creates int

	// When set, Create stores winner instead and reports a duplicate, as
	// if a concurrent create committed first.
	loseRaceTo *model.Conversation
}

func newFakeConvStore() *fakeConvStore {
	return &fakeConvStore{
		byKey: map[string]*model.Conversation{},
		byID:  map[string]*model.Conversation{},
	}
}

func convKey(ref model.ListingRef, a, b string) string {
	return string(ref.Type) + "|" + ref.ID + "|" + model.PairKey(a, b)
}

func (f *fakeConvStore) FindByListingAndPair(_ context.Context, ref model.ListingRef, a, b string) (*model.Conversation, error) {
	if c, ok := f.byKey[convKey(ref, a, b)]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeConvStore) Create(_ context.Context, c *model.Conversation) error {
	f.creates++
	ref := model.ListingRef{Type: c.ListingType, ID: c.ListingID}
	key := convKey(ref, c.Participant1, c.Participant2)
	if f.loseRaceTo != nil {
		f.byKey[key] = f.loseRaceTo
		f.byID[f.loseRaceTo.ID] = f.loseRaceTo
		f.loseRaceTo = nil
		return repository.ErrDuplicate
	}
	if _, exists := f.byKey[key]; exists {
		return repository.ErrDuplicate
	}
	f.nextID++
	c.ID = fmt.Sprintf("conv-%d", f.nextID)
	f.byKey[key] = c
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConvStore) Touch(_ context.Context, _ string) error { return nil }

type fakeMsgStore struct {
	convs  *fakeConvStore
	msgs   []*model.Message
	nextID int
}

func (f *fakeMsgStore) Insert(_ context.Context, m *model.Message) error {
	f.nextID++
	m.ID = fmt.Sprintf("msg-%d", f.nextID)
	if c, ok := f.convs.byID[m.ConversationID]; ok {
		m.ListingType = c.ListingType
		m.ListingID = c.ListingID
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeMsgStore) GetByID(_ context.Context, id string) (*model.Message, error) {
	for _, m := range f.msgs {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMsgStore) ListInbox(_ context.Context, userID string) ([]*model.Message, error) {
	var out []*model.Message
	for i := len(f.msgs) - 1; i >= 0; i-- {
		m := f.msgs[i]
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMsgStore) ListByListingForUser(_ context.Context, ref model.ListingRef, userID string) ([]*model.Message, error) {
	var out []*model.Message
	for _, m := range f.msgs {
		if m.ListingType == ref.Type && m.ListingID == ref.ID &&
			(m.SenderID == userID || m.RecipientID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMsgStore) CountUnread(_ context.Context, userID string) (int, error) {
	n := 0
	for _, m := range f.msgs {
		if m.RecipientID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeMsgStore) MarkRead(_ context.Context, id string) error {
	for _, m := range f.msgs {
		if m.ID == id {
			m.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeMsgStore) Delete(_ context.Context, id string) error {
	for i, m := range f.msgs {
		if m.ID == id {
			f.msgs = append(f.msgs[:i], f.msgs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ----- fixture -----

var (
	saleRef = model.ListingRef{Type: model.ListingYardSale, ID: "sale-1"}

	owner    = auth.Principal{ID: "owner-1"}
	buyer    = auth.Principal{ID: "buyer-1"}
	buyer2   = auth.Principal{ID: "buyer-2"}
	adminP   = auth.Principal{ID: "admin-1", Tier: auth.TierAdmin}
	stranger = auth.Principal{ID: "stranger-1"}
)

func newFixture() (*service.Messenger, *fakeConvStore, *fakeMsgStore) {
	listings := fakeListings{
		saleRef: {OwnerID: owner.ID, AllowMessages: true, IsPublic: true},
	}
	users := fakeUsers{owner.ID: true, buyer.ID: true, buyer2.ID: true, adminP.ID: true, stranger.ID: true}
	convs := newFakeConvStore()
	msgs := &fakeMsgStore{convs: convs}
	return service.NewMessenger(listings, users, convs, msgs), convs, msgs
}

// ----- Send -----

func TestSendCreatesThreadOnFirstContact(t *testing.T) {
	m, convs, _ := newFixture()

	msg, err := m.Send(context.Background(), buyer, saleRef, "", "is the dresser still available?")
	require.NoError(t, err)

	assert.Equal(t, buyer.ID, msg.SenderID)
	assert.Equal(t, owner.ID, msg.RecipientID, "recipient defaults to the listing owner")
	assert.False(t, msg.IsRead)
	assert.Equal(t, 1, convs.creates)

	conv := convs.byID[msg.ConversationID]
	require.NotNil(t, conv)
	assert.Equal(t, buyer.ID, conv.Participant1, "inquirer is participant1")
	assert.Equal(t, owner.ID, conv.Participant2)
}

func TestSendReusesThreadOnReply(t *testing.T) {
	m, convs, _ := newFixture()

	first, err := m.Send(context.Background(), buyer, saleRef, "", "still available?")
	require.NoError(t, err)

	// The owner replies with an explicit recipient; same thread, no second
	// create.
	reply, err := m.Send(context.Background(), owner, saleRef, buyer.ID, "yes, come by saturday")
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, reply.ConversationID)
	assert.Equal(t, 1, convs.creates)
}

func TestSendSeparateThreadsPerInquirer(t *testing.T) {
	m, _, _ := newFixture()

	a, err := m.Send(context.Background(), buyer, saleRef, "", "hi")
	require.NoError(t, err)
	b, err := m.Send(context.Background(), buyer2, saleRef, "", "hello")
	require.NoError(t, err)

	assert.NotEqual(t, a.ConversationID, b.ConversationID)
}

func TestSendTrimsAndRejectsEmptyContent(t *testing.T) {
	m, _, _ := newFixture()

	_, err := m.Send(context.Background(), buyer, saleRef, "", "   \n\t ")
	assert.ErrorIs(t, err, service.ErrEmptyContent)

	msg, err := m.Send(context.Background(), buyer, saleRef, "", "  hi  ")
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Content)
}

func TestSendSelfMessage(t *testing.T) {
	m, _, _ := newFixture()

	// Owner with no explicit recipient would message themselves.
	_, err := m.Send(context.Background(), owner, saleRef, "", "hello me")
	assert.ErrorIs(t, err, service.ErrSelfMessage)

	_, err = m.Send(context.Background(), buyer, saleRef, buyer.ID, "hello me")
	assert.ErrorIs(t, err, service.ErrSelfMessage)
}

func TestSendMessagingDisabled(t *testing.T) {
	listings := fakeListings{
		saleRef: {OwnerID: owner.ID, AllowMessages: false, IsPublic: true},
	}
	convs := newFakeConvStore()
	m := service.NewMessenger(listings, fakeUsers{owner.ID: true, buyer.ID: true}, convs, &fakeMsgStore{convs: convs})

	_, err := m.Send(context.Background(), buyer, saleRef, "", "hi")
	assert.ErrorIs(t, err, service.ErrMessagingDisabled)
}

func TestSendThreadMustInvolveOwner(t *testing.T) {
	m, _, _ := newFixture()

	_, err := m.Send(context.Background(), buyer, saleRef, buyer2.ID, "psst")
	assert.ErrorIs(t, err, service.ErrInvalidRecipient)
}

func TestSendUnknownListingAndRecipient(t *testing.T) {
	m, _, _ := newFixture()

	_, err := m.Send(context.Background(), buyer, model.ListingRef{Type: model.ListingYardSale, ID: "nope"}, "", "hi")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = m.Send(context.Background(), owner, saleRef, "ghost-user", "hi")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSendPrivateListingHidden(t *testing.T) {
	listings := fakeListings{
		saleRef: {OwnerID: owner.ID, AllowMessages: true, IsPublic: false},
	}
	users := fakeUsers{owner.ID: true, buyer.ID: true}
	convs := newFakeConvStore()
	m := service.NewMessenger(listings, users, convs, &fakeMsgStore{convs: convs})

	// A stranger cannot even learn the listing exists.
	_, err := m.Send(context.Background(), buyer, saleRef, "", "hi")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// The owner can still start a thread with an explicit recipient.
	_, err = m.Send(context.Background(), owner, saleRef, buyer.ID, "offer still stands")
	assert.NoError(t, err)
}

// Losing the create race to a concurrent send must land the message in the
// winner's conversation, never produce a second thread.
func TestSendAbsorbsDuplicateCreateRace(t *testing.T) {
	m, convs, _ := newFixture()

	winner := &model.Conversation{
		ID:           "conv-winner",
		ListingType:  saleRef.Type,
		ListingID:    saleRef.ID,
		Participant1: buyer.ID,
		Participant2: owner.ID,
	}
	convs.loseRaceTo = winner

	msg, err := m.Send(context.Background(), buyer, saleRef, "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "conv-winner", msg.ConversationID)
	assert.Len(t, convs.byID, 1)
}

// ----- read flags -----

func TestMarkReadRecipientOnly(t *testing.T) {
	m, _, _ := newFixture()

	msg, err := m.Send(context.Background(), buyer, saleRef, "", "hi")
	require.NoError(t, err)

	// Sender may see the message but not flip the flag.
	_, err = m.MarkRead(context.Background(), buyer, msg.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// A non-participant is told the message does not exist.
	_, err = m.MarkRead(context.Background(), stranger, msg.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := m.MarkRead(context.Background(), owner, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	// Marking again is a no-op, not an error.
	got, err = m.MarkRead(context.Background(), owner, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
}

func TestUnreadCount(t *testing.T) {
	m, _, _ := newFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.Send(ctx, buyer, saleRef, "", "ping")
		require.NoError(t, err)
	}
	n, err := m.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	inbox, err := m.Inbox(ctx, owner)
	require.NoError(t, err)
	require.Len(t, inbox, 3)

	_, err = m.MarkRead(ctx, owner, inbox[0].ID)
	require.NoError(t, err)

	n, err = m.UnreadCount(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// ----- thread and inbox scoping -----

func TestListingThreadScopedToCaller(t *testing.T) {
	m, _, _ := newFixture()
	ctx := context.Background()

	_, err := m.Send(ctx, buyer, saleRef, "", "from buyer one")
	require.NoError(t, err)
	_, err = m.Send(ctx, buyer2, saleRef, "", "from buyer two")
	require.NoError(t, err)

	thread, err := m.ListingThread(ctx, buyer, saleRef)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, buyer.ID, thread[0].SenderID)

	// The owner participates in both threads and sees both messages.
	ownerView, err := m.ListingThread(ctx, owner, saleRef)
	require.NoError(t, err)
	assert.Len(t, ownerView, 2)
}

func TestInboxNewestFirst(t *testing.T) {
	m, _, _ := newFixture()
	ctx := context.Background()

	first, err := m.Send(ctx, buyer, saleRef, "", "first")
	require.NoError(t, err)
	second, err := m.Send(ctx, buyer2, saleRef, "", "second")
	require.NoError(t, err)

	inbox, err := m.Inbox(ctx, owner)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, second.ID, inbox[0].ID)
	assert.Equal(t, first.ID, inbox[1].ID)
}

// ----- delete -----

func TestDeleteMessagePermissions(t *testing.T) {
	m, _, msgs := newFixture()
	ctx := context.Background()

	send := func() *model.Message {
		msg, err := m.Send(ctx, buyer, saleRef, "", "hi")
		require.NoError(t, err)
		return msg
	}

	msg := send()
	assert.ErrorIs(t, m.DeleteMessage(ctx, stranger, msg.ID), repository.ErrNotFound)

	require.NoError(t, m.DeleteMessage(ctx, buyer, msg.ID), "sender may delete")
	assert.Empty(t, msgs.msgs)

	msg = send()
	require.NoError(t, m.DeleteMessage(ctx, owner, msg.ID), "recipient may delete")

	msg = send()
	require.NoError(t, m.DeleteMessage(ctx, adminP, msg.ID), "admin may delete")

	assert.ErrorIs(t, m.DeleteMessage(ctx, buyer, "msg-gone"), repository.ErrNotFound)
}
