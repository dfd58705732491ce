// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the authorization role of a user account.
type Role string

const (
	// RoleUser is the default role for ordinary accounts.
	RoleUser Role = "USER"
	// RoleAdmin grants access to administrative endpoints.
	RoleAdmin Role = "ADMIN"
)

// DefaultProfileImageURL is assigned to accounts created without an avatar.
const DefaultProfileImageURL = "/images/default-profile.png"

// User represents a registered account in the Inkwell application.
// PasswordSalt and PasswordHash are only ever written through auth.HashPassword
// and are never serialized to API responses.
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FullName        string         `gorm:"not null" json:"fullname"`
	Email           string         `gorm:"unique;not null" json:"email"`
	PasswordSalt    string         `gorm:"not null" json:"-"`
	PasswordHash    string         `gorm:"not null" json:"-"`
	ProfileImageURL string         `gorm:"default:'/images/default-profile.png'" json:"profile_image_url"`
	Role            Role           `gorm:"type:varchar(10);default:'USER'" json:"role"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	FollowersCount  int            `gorm:"default:0" json:"followers_count"`
	FollowingCount  int            `gorm:"default:0" json:"following_count"`

	ResetPasswordToken    string     `gorm:"index" json:"-"`
	ResetPasswordExpires  *time.Time `json:"-"`
	ResetPasswordAttempts int        `gorm:"default:0" json:"-"`
	LastPasswordChange    time.Time  `gorm:"autoCreateTime" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ClearResetToken wipes the password-reset state after a successful reset
// or once the token has expired.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
	u.ResetPasswordAttempts = 0
}
