package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "inkwell-api"
	tokenAudience = "inkwell-client"
)

// ErrInvalidToken is returned for every verification failure. Callers must
// not learn whether a token was malformed, tampered with, or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is the typed session payload carried in the bearer token.
// It is decoded once at the authentication gate and passed onward as an
// immutable value.
type SessionClaims struct {
	Email           string      `json:"email"`
	ProfileImageURL string      `json:"profile_image_url"`
	Role            models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim into the numeric user ID.
func (c *SessionClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// TokenCodec signs and verifies session tokens with a server-held secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec from the injected configuration. A missing
// secret is a startup failure, never a per-request one.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("session token secret is not configured")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token validity window.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue signs a fresh session token for the user.
func (tc *TokenCodec) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
		Role:            user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify checks the signature, expiry, issuer and audience of the token and
// returns the decoded claims. Every failure collapses to ErrInvalidToken.
func (tc *TokenCodec) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tc.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
