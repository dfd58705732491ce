package server

import (
	"strconv"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid ID parameter")
	}
	return uint(id), nil
}

// requireUserID reads the authenticated user ID attached by the gate.
func (s *Server) requireUserID(c *fiber.Ctx) (uint, error) {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	return userID, nil
}
