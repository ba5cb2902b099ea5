package service

import (
	"context"
	"errors"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageService manages chat messages and their real-time delivery.
type MessageService interface {
	Send(ctx context.Context, senderID, receiverID primitive.ObjectID, content string) (*domain.Message, error)
	Conversation(ctx context.Context, userA, userB primitive.ObjectID, page repository.Page) ([]domain.Message, int64, error)
	MarkRead(ctx context.Context, readerID, messageID primitive.ObjectID) (*domain.Message, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

// NewMessageService creates a new instance of messageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, notifier Notifier) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// Send persists a message and pushes it to the receiver's room. The push is
// best-effort; the stored record is the source of truth.
func (s *messageService) Send(ctx context.Context, senderID, receiverID primitive.ObjectID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, Invalid("Validation failed", map[string]string{"content": "content is required"})
	}
	if senderID == receiverID {
		return nil, Invalid("Validation failed", map[string]string{"receiverId": "cannot message yourself"})
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Invalid("Validation failed", map[string]string{"receiverId": "receiver does not exist"})
		}
		return nil, err
	}

	message := &domain.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	id, err := s.messageRepo.Create(ctx, message)
	if err != nil {
		return nil, err
	}
	message.ID = id

	s.notifier.Publish(receiverID.Hex(), Event{Type: EventMessageNew, Payload: message})

	return message, nil
}

// Conversation returns a page of messages between two users, newest first.
func (s *messageService) Conversation(ctx context.Context, userA, userB primitive.ObjectID, page repository.Page) ([]domain.Message, int64, error) {
	return s.messageRepo.Conversation(ctx, userA, userB, page)
}

// MarkRead flips the read flag; only the receiver may do so.
func (s *messageService) MarkRead(ctx context.Context, readerID, messageID primitive.ObjectID) (*domain.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(KindNotFound, "message not found")
		}
		return nil, err
	}
	if message.ReceiverID != readerID {
		return nil, E(KindForbidden, "only the receiver may mark a message read")
	}

	if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
		return nil, err
	}
	message.Read = true
	return message, nil
}

// UnreadCount counts unread messages addressed to the user.
func (s *messageService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}
