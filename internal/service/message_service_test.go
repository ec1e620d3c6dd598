package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/lawnpool/internal/domain"
)

type recordingNotifier struct {
	messages []*domain.Message
}

func (n *recordingNotifier) NotifyNewMessage(msg *domain.Message) {
	n.messages = append(n.messages, msg)
}

type failingMessageRepo struct{}

func (failingMessageRepo) Create(context.Context, *domain.Message) error {
	return errors.New("disk full")
}

func (failingMessageRepo) ListBetween(context.Context, uuid.UUID, uuid.UUID) ([]domain.Message, error) {
	return nil, errors.New("disk full")
}

func TestMessage_SendThenHistory(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{}
	f.messages.SetNotifier(notifier)
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	offerID := uuid.New()

	msg, err := f.messages.Send(ctx, SendMessageInput{
		FromID: a.String(), ToID: b.String(), Content: "  hi  ", OfferID: offerID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Content)
	require.NotNil(t, msg.OfferID)
	assert.Equal(t, offerID, *msg.OfferID)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, msg.ID, notifier.messages[0].ID)

	ab, err := f.messages.History(ctx, a, b)
	require.NoError(t, err)
	ba, err := f.messages.History(ctx, b, a)
	require.NoError(t, err)
	require.Len(t, ab, 1)
	assert.Equal(t, ab, ba)
	assert.Equal(t, msg.ID, ab[0].ID)

	empty, err := f.messages.History(ctx, a, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMessage_SendValidation(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{}
	f.messages.SetNotifier(notifier)
	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()

	cases := []SendMessageInput{
		{FromID: a, ToID: b, Content: "   "},
		{FromID: "", ToID: b, Content: "hi"},
		{FromID: a, ToID: "bogus", Content: "hi"},
		{FromID: a, ToID: b, Content: "hi", OfferID: "bogus"},
	}
	for _, in := range cases {
		_, err := f.messages.Send(ctx, in)
		requireKind(t, err, domain.ErrValidation)
	}
	assert.Empty(t, notifier.messages)
}

func TestMessage_PersistFailureSkipsNotify(t *testing.T) {
	svc := NewMessageService(failingMessageRepo{})
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	_, err := svc.Send(context.Background(), SendMessageInput{
		FromID: uuid.NewString(), ToID: uuid.NewString(), Content: "hi",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, notifier.messages)

	_, err = svc.History(context.Background(), uuid.New(), uuid.New())
	assert.Error(t, err)
}
