package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetContacts handles GET /api/chat/contacts. It returns the users the
// caller follows along with their per-conversation unread counts.
func (s *Server) GetContacts(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	contacts, err := s.chatService.Contacts(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"contacts": contacts})
}

// GetConversation handles GET /api/chat/conversation/:userId. Opening a
// conversation marks the counterpart's messages to the caller as read.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	messages, err := s.chatService.Conversation(c.Context(), userID, otherID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"messages": messages})
}

// SendMessage handles POST /api/chat/send
func (s *Server) SendMessage(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req struct {
		ReceiverID      uint               `json:"receiver_id"`
		Content         string             `json:"content"`
		Type            models.MessageType `json:"message_type"`
		SharedPostID    string             `json:"shared_post_id"`
		SharedPostTitle string             `json:"shared_post_title"`
		SharedPostURL   string             `json:"shared_post_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ReceiverID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("receiver_id is required"))
	}

	message, err := s.chatService.Send(c.Context(), service.SendInput{
		SenderID:        userID,
		ReceiverID:      req.ReceiverID,
		Content:         req.Content,
		Type:            req.Type,
		SharedPostID:    req.SharedPostID,
		SharedPostTitle: req.SharedPostTitle,
		SharedPostURL:   req.SharedPostURL,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

// GetUnreadCount handles GET /api/chat/unread-count. Clients poll this to
// drive the unread badge; the per-sender breakdown feeds the sidebar.
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	total, err := s.chatService.UnreadCount(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	bySender, err := s.chatService.UnreadCountsBySender(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"unread_count":            total,
		"unread_counts_by_sender": bySender,
	})
}
