package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles POST /api/follow/:userId. Following and unfollowing
// share one endpoint; the response reports the resulting state.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	following, err := s.followService.Toggle(c.Context(), userID, targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"following": following,
	})
}

// GetFollowStatus handles GET /api/follow/status/:userId
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	following, err := s.followService.IsFollowing(c.Context(), userID, targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"following": following,
	})
}

// GetFollowing handles GET /api/follow/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	users, err := s.followService.Following(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users})
}

// GetFollowers handles GET /api/follow/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	users, err := s.followService.Followers(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users})
}
