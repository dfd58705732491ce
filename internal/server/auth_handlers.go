package server

import (
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		FullName string `json:"fullname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.userService.Signup(c.Context(), service.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.Cookie(s.gate.SessionCookie(token))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
	})
}

// Signin handles POST /api/auth/signin
func (s *Server) Signin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.userService.Signin(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.Cookie(s.gate.SessionCookie(token))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": user,
	})
}

// Logout handles POST /api/auth/logout. It only clears the session cookie;
// other devices stay signed in.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.gate.ClearSession(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out",
	})
}

// LogoutAll handles POST /api/auth/logout-all. Every session issued before
// now is invalidated, then the current cookie is cleared.
func (s *Server) LogoutAll(c *fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	if err := s.userService.LogoutEverywhere(c.Context(), userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.gate.ClearSession(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out everywhere",
	})
}

// ForgotPassword handles POST /api/auth/forgot-password. The response is
// identical whether or not the email is registered.
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.userService.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Token delivery (mail) happens out of band. Logged at debug level so
	// development setups can complete the flow without a mailer.
	if token != "" {
		middleware.Logger.DebugContext(c.UserContext(), "password reset token issued",
			slog.String("email", req.Email))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If that email is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/auth/reset-password/:token
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.ResetPassword(c.Context(), c.Params("token"), req.Password); err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.gate.ClearSession(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password has been reset, please sign in again",
	})
}
