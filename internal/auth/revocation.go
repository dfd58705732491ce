package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker invalidates outstanding session tokens for a user by recording a
// per-user watermark in Redis: any token issued before the watermark is
// rejected. Tokens already past their natural expiry need no entry, so the
// watermark key expires together with the longest-lived token it covers.
//
// The check is best-effort: when no Redis client is available the gate
// falls back to signature and expiry validation only.
type Revoker struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRevoker returns a Revoker backed by the given Redis client. ttl should
// match the session token validity window.
func NewRevoker(rdb *redis.Client, ttl time.Duration) *Revoker {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Revoker{redis: rdb, ttl: ttl}
}

func revocationKey(userID uint) string {
	return fmt.Sprintf("auth:invalid_before:%d", userID)
}

// RevokeAll invalidates every session token issued to the user before now.
// Called on password reset and explicit "log out everywhere".
func (r *Revoker) RevokeAll(ctx context.Context, userID uint) error {
	if r == nil || r.redis == nil {
		return nil
	}
	now := time.Now().Unix()
	return r.redis.Set(ctx, revocationKey(userID), strconv.FormatInt(now, 10), r.ttl).Err()
}

// IsRevoked reports whether the claims were issued before the user's
// revocation watermark.
func (r *Revoker) IsRevoked(ctx context.Context, claims *SessionClaims) bool {
	if r == nil || r.redis == nil {
		return false
	}
	userID, err := claims.UserID()
	if err != nil {
		return true
	}
	val, err := r.redis.Get(ctx, revocationKey(userID)).Result()
	if err != nil {
		// Missing key or Redis unavailable: nothing revoked that we know of.
		return false
	}
	watermark, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false
	}
	// A token without an issue time cannot be ordered against the
	// watermark, so once a watermark exists it is rejected.
	if claims.IssuedAt == nil {
		return true
	}
	return claims.IssuedAt.Unix() < watermark
}
