// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID uint, salt, digest string) error
	SetResetToken(ctx context.Context, userID uint, token string, expires time.Time) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the Redis representation of a user. The API model hides
// credential and reset fields from JSON, so caching models.User directly
// would return users with those fields zeroed on a cache hit. Every column
// here serializes.
type cachedUser struct {
	ID              uint        `json:"id"`
	FullName        string      `json:"full_name"`
	Email           string      `json:"email"`
	PasswordSalt    string      `json:"password_salt"`
	PasswordHash    string      `json:"password_hash"`
	ProfileImageURL string      `json:"profile_image_url"`
	Role            models.Role `json:"role"`
	IsActive        bool        `json:"is_active"`
	FollowersCount  int         `json:"followers_count"`
	FollowingCount  int         `json:"following_count"`

	ResetPasswordToken    string     `json:"reset_password_token"`
	ResetPasswordExpires  *time.Time `json:"reset_password_expires"`
	ResetPasswordAttempts int        `json:"reset_password_attempts"`
	LastPasswordChange    time.Time  `json:"last_password_change"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCachedUser(u *models.User) *cachedUser {
	return &cachedUser{
		ID:                    u.ID,
		FullName:              u.FullName,
		Email:                 u.Email,
		PasswordSalt:          u.PasswordSalt,
		PasswordHash:          u.PasswordHash,
		ProfileImageURL:       u.ProfileImageURL,
		Role:                  u.Role,
		IsActive:              u.IsActive,
		FollowersCount:        u.FollowersCount,
		FollowingCount:        u.FollowingCount,
		ResetPasswordToken:    u.ResetPasswordToken,
		ResetPasswordExpires:  u.ResetPasswordExpires,
		ResetPasswordAttempts: u.ResetPasswordAttempts,
		LastPasswordChange:    u.LastPasswordChange,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (c *cachedUser) toUser() *models.User {
	return &models.User{
		ID:                    c.ID,
		FullName:              c.FullName,
		Email:                 c.Email,
		PasswordSalt:          c.PasswordSalt,
		PasswordHash:          c.PasswordHash,
		ProfileImageURL:       c.ProfileImageURL,
		Role:                  c.Role,
		IsActive:              c.IsActive,
		FollowersCount:        c.FollowersCount,
		FollowingCount:        c.FollowingCount,
		ResetPasswordToken:    c.ResetPasswordToken,
		ResetPasswordExpires:  c.ResetPasswordExpires,
		ResetPasswordAttempts: c.ResetPasswordAttempts,
		LastPasswordChange:    c.LastPasswordChange,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var cached cachedUser
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &cached, cache.UserTTL, func() error {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		cached = *toCachedUser(&user)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return cached.toUser(), nil
}

// GetByEmail looks a user up case-insensitively. It returns (nil, nil) when
// no account matches, so callers can distinguish "unknown email" from errors.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expires > ?", token, time.Now()).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An account with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; sqlite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// Update writes the mutable profile columns only. Credential and reset
// columns change exclusively through UpdatePassword and SetResetToken, so a
// stale or partial in-memory user can never clobber them.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"full_name":         user.FullName,
			"email":             user.Email,
			"profile_image_url": user.ProfileImageURL,
			"role":              user.Role,
			"is_active":         user.IsActive,
		})
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError("Email already in use")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", user.ID)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// UpdatePassword swaps in the new salt and digest, clears any outstanding
// reset token and records the change time in a single statement.
func (r *userRepository) UpdatePassword(ctx context.Context, userID uint, salt, digest string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_salt":           salt,
			"password_hash":           digest,
			"reset_password_token":    "",
			"reset_password_expires":  nil,
			"reset_password_attempts": 0,
			"last_password_change":    time.Now(),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", userID)
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, userID uint, token string, expires time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_password_token":    token,
			"reset_password_expires":  expires,
			"reset_password_attempts": gorm.Expr("reset_password_attempts + 1"),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", userID)
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
