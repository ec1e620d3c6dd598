package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/pkg/validator"
)

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
}

type MessageService struct {
	messageRepo repository.MessageRepository
	notifier    Notifier
}

func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

type SendMessageInput struct {
	FromID  string `json:"fromId"`
	ToID    string `json:"toId"`
	Content string `json:"content"`
	OfferID string `json:"offerId,omitempty"`
}

// Send persists a direct message and then notifies both participants. Nothing
// is broadcast when persisting fails.
func (s *MessageService) Send(ctx context.Context, input SendMessageInput) (*domain.Message, error) {
	errs := validator.ValidateMessage(input.Content)

	fromID, err := uuid.Parse(strings.TrimSpace(input.FromID))
	if err != nil {
		errs.Add("fromId", "A valid fromId is required")
	}
	toID, err := uuid.Parse(strings.TrimSpace(input.ToID))
	if err != nil {
		errs.Add("toId", "A valid toId is required")
	}

	var offerID *uuid.UUID
	if raw := strings.TrimSpace(input.OfferID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs.Add("offerId", "offerId must be a valid id")
		} else {
			offerID = &id
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:        uuid.New(),
		FromID:    fromID,
		ToID:      toID,
		Content:   strings.TrimSpace(input.Content),
		OfferID:   offerID,
		CreatedAt: now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(msg)
	}
	return msg, nil
}

// History returns the conversation between two users, oldest first.
func (s *MessageService) History(ctx context.Context, userID, otherUserID uuid.UUID) ([]domain.Message, error) {
	messages, err := s.messageRepo.ListBetween(ctx, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}
