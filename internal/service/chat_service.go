package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// ChatService provides direct-message business logic. Delivery is
// follow-gated: a user may only message people they currently follow,
// and the check runs on every send and conversation read.
type ChatService struct {
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	userRepo    repository.UserRepository
}

// SendInput carries a message to be delivered.
type SendInput struct {
	SenderID   uint
	ReceiverID uint
	Content    string
	Type       models.MessageType

	// Optional shared-post reference, opaque to the messaging core.
	SharedPostID    string
	SharedPostTitle string
	SharedPostURL   string
}

// Contact is a followed user annotated with the caller's unread count
// for that conversation.
type Contact struct {
	User        models.User `json:"user"`
	UnreadCount int64       `json:"unread_count"`
}

// NewChatService returns a new ChatService.
func NewChatService(messageRepo repository.MessageRepository, followRepo repository.FollowRepository, userRepo repository.UserRepository) *ChatService {
	return &ChatService{messageRepo: messageRepo, followRepo: followRepo, userRepo: userRepo}
}

// Send delivers a message from sender to receiver. The sender must follow
// the receiver; otherwise no row is written and FORBIDDEN is returned.
func (s *ChatService) Send(ctx context.Context, in SendInput) (*models.Message, error) {
	content, err := validation.ValidateMessageContent(in.Content)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("You cannot message yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}

	follows, err := s.followRepo.IsFollowing(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !follows {
		return nil, models.NewForbiddenError("You can only message users you follow")
	}

	msgType := in.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}

	message := &models.Message{
		SenderID:        in.SenderID,
		ReceiverID:      in.ReceiverID,
		Content:         content,
		Type:            msgType,
		SharedPostID:    in.SharedPostID,
		SharedPostTitle: in.SharedPostTitle,
		SharedPostURL:   in.SharedPostURL,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	observability.MessagesSentTotal.WithLabelValues(string(msgType)).Inc()

	sender, err := s.userRepo.GetByID(ctx, in.SenderID)
	if err == nil {
		message.Sender = sender
	}
	return message, nil
}

// Conversation returns the full two-way history between the requester and
// the other user, oldest first. As a side effect the other user's unread
// messages to the requester are marked read; the requester's own outgoing
// messages keep their read state.
func (s *ChatService) Conversation(ctx context.Context, requesterID, otherID uint) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, err
	}

	follows, err := s.followRepo.IsFollowing(ctx, requesterID, otherID)
	if err != nil {
		return nil, err
	}
	if !follows {
		return nil, models.NewForbiddenError("You can only view conversations with users you follow")
	}

	if _, err := s.messageRepo.MarkConversationRead(ctx, requesterID, otherID); err != nil {
		return nil, err
	}

	return s.messageRepo.GetConversation(ctx, requesterID, otherID)
}

// UnreadCount returns the total number of unread messages addressed to the
// user, served cache-aside with a short TTL.
func (s *ChatService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := cache.Aside(ctx, cache.UnreadKey(userID), &count, cache.UnreadTTL, func() error {
		c, err := s.messageRepo.CountUnread(ctx, userID)
		if err != nil {
			return err
		}
		count = c
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UnreadCountsBySender returns the user's unread totals grouped by sender.
func (s *ChatService) UnreadCountsBySender(ctx context.Context, userID uint) (map[uint]int64, error) {
	return s.messageRepo.CountUnreadBySender(ctx, userID)
}

// Contacts returns the users the caller follows, each with the caller's
// unread count for that conversation. This backs the chat sidebar.
func (s *ChatService) Contacts(ctx context.Context, userID uint) ([]Contact, error) {
	following, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.messageRepo.CountUnreadBySender(ctx, userID)
	if err != nil {
		return nil, err
	}

	contacts := make([]Contact, 0, len(following))
	for _, user := range following {
		contacts = append(contacts, Contact{User: user, UnreadCount: unread[user.ID]})
	}
	return contacts, nil
}
