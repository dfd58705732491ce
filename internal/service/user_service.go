// Package service implements business logic on top of the repository layer.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

const (
	resetTokenBytes = 32
	resetTokenTTL   = time.Hour
)

// UserService provides account lifecycle logic: signup, signin, password
// reset and profile management.
type UserService struct {
	userRepo repository.UserRepository
	codec    *auth.TokenCodec
	revoker  *auth.Revoker
}

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	FullName string
	Email    string
	Password string
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	UserID          uint
	FullName        string
	ProfileImageURL string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, codec *auth.TokenCodec, revoker *auth.Revoker) *UserService {
	return &UserService{userRepo: userRepo, codec: codec, revoker: revoker}
}

// Signup registers a new account and returns the user with a session token.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, string, error) {
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}

	salt, digest, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	user := &models.User{
		FullName:        in.FullName,
		Email:           in.Email,
		PasswordSalt:    salt,
		PasswordHash:    digest,
		ProfileImageURL: models.DefaultProfileImageURL,
		Role:            models.RoleUser,
		IsActive:        true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return user, token, nil
}

// Signin authenticates by email and password. Every failure mode returns
// the same UNAUTHORIZED error so the response never reveals whether the
// email exists, the password is wrong or the account is deactivated.
func (s *UserService) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	invalid := models.NewUnauthorizedError("Invalid credentials")

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.IsActive || !auth.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		observability.SigninAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, "", invalid
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	observability.SigninAttemptsTotal.WithLabelValues("ok").Inc()
	return user, token, nil
}

// LogoutEverywhere invalidates all outstanding sessions for the user.
func (s *UserService) LogoutEverywhere(ctx context.Context, userID uint) error {
	return s.revoker.RevokeAll(ctx, userID)
}

// RequestPasswordReset generates a reset token for the account. It is
// enumeration-safe: an unknown email yields ("", nil) and the handler
// responds identically either way. Token delivery is the caller's concern.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", nil
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", models.NewInternalError(err)
	}
	token := hex.EncodeToString(buf)

	if err := s.userRepo.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token, installs the new password and
// revokes every session issued before the change.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewValidationError("Password reset token is invalid or has expired")
	}

	salt, digest, err := auth.HashPassword(newPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, salt, digest); err != nil {
		return err
	}
	return s.revoker.RevokeAll(ctx, user.ID)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateProfile applies the non-empty fields of in to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != "" {
		if err := validation.ValidateFullName(in.FullName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.FullName = in.FullName
	}
	if in.ProfileImageURL != "" {
		user.ProfileImageURL = in.ProfileImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAdmin grants or removes the admin role on the target account.
func (s *UserService) SetAdmin(ctx context.Context, targetID uint, admin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if admin {
		user.Role = models.RoleAdmin
	} else {
		user.Role = models.RoleUser
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
