package repository

import (
	"context"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// GetConversation returns the full two-way message history between two
	// users, oldest first.
	GetConversation(ctx context.Context, userID, otherID uint) ([]models.Message, error)
	// MarkConversationRead flags every unread message sent by otherID to
	// userID as read and returns how many rows changed.
	MarkConversationRead(ctx context.Context, userID, otherID uint) (int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	CountUnreadBySender(ctx context.Context, userID uint) (map[uint]int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	defer observability.TrackQuery("create", "messages")()
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUnread(ctx, message.ReceiverID)
	return nil
}

func (r *messageRepository) GetConversation(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	defer observability.TrackQuery("select", "messages")()
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, userID, otherID uint) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherID, userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		observability.MessagesMarkedRead.Add(float64(res.RowsAffected))
		cache.InvalidateUnread(ctx, userID)
	}
	return res.RowsAffected, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *messageRepository) CountUnreadBySender(ctx context.Context, userID uint) (map[uint]int64, error) {
	var rows []struct {
		SenderID uint
		Count    int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Message{}).
		Select("sender_id, COUNT(*) as count").
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Group("sender_id").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID] = row.Count
	}
	return counts, nil
}
