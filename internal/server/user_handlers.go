package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := s.requireUserID(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var req struct {
		FullName        string `json:"fullname"`
		ProfileImageURL string `json:"profile_image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:          userID,
		FullName:        req.FullName,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := s.userService.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users})
}

// GetUserProfile handles GET /api/users/:id. The route sits behind the
// optional gate: signed-in viewers additionally get their follow status
// toward the profile.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.userService.GetUserByID(c.Context(), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	resp := fiber.Map{"user": user}
	if viewerID, ok := middleware.UserIDFromCtx(c); ok && viewerID != targetID {
		following, err := s.followService.IsFollowing(c.Context(), viewerID, targetID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		resp["is_following"] = following
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// PromoteToAdmin handles POST /api/users/:id/promote-admin
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.userService.SetAdmin(c.Context(), targetID, true)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}

// DemoteFromAdmin handles POST /api/users/:id/demote-admin
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	user, err := s.userService.SetAdmin(c.Context(), targetID, false)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user})
}
