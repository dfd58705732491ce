package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix   = "user:%d"
	UnreadKeyPrefix = "unread:%d"
)

const (
	UserTTL = 5 * time.Minute
	// Unread counts are cached briefly; every send and conversation view
	// invalidates the receiver's entry, the TTL only bounds staleness when
	// an invalidation is lost.
	UnreadTTL = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UnreadKey(userID uint) string {
	return fmt.Sprintf(UnreadKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateUnread(ctx context.Context, userID uint) {
	Invalidate(ctx, UnreadKey(userID))
}
