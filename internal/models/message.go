package models

import (
	"time"

	"gorm.io/gorm"
)

// MessageType distinguishes plain text messages from shared-post references.
type MessageType string

const (
	// MessageTypeText is an ordinary chat message.
	MessageTypeText MessageType = "text"
	// MessageTypeSharedPost carries an opaque reference to a blog post.
	MessageTypeSharedPost MessageType = "shared_post"
)

// Message is a directed message between two users. Rows are immutable once
// created except for the IsRead false->true transition performed when the
// receiver views the conversation.
type Message struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	SenderID   uint        `gorm:"not null;index:idx_messages_pair,priority:1" json:"sender_id"`
	Sender     *User       `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uint        `gorm:"not null;index:idx_messages_pair,priority:2;index:idx_messages_unread,priority:1" json:"receiver_id"`
	Receiver   *User       `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	Type       MessageType `gorm:"type:varchar(20);default:'text'" json:"message_type"`

	// Opaque shared-post reference; the messaging core never dereferences it.
	SharedPostID    string `json:"shared_post_id,omitempty"`
	SharedPostTitle string `json:"shared_post_title,omitempty"`
	SharedPostURL   string `json:"shared_post_url,omitempty"`

	IsRead    bool           `gorm:"default:false;index:idx_messages_unread,priority:2" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"index:idx_messages_pair,priority:3" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
