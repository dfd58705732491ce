package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	// Toggle creates the follow edge if absent or removes it if present,
	// keeping both users' counters in sync. It returns true when the edge
	// exists after the call (a follow), false when it was removed.
	Toggle(ctx context.Context, followerID, followeeID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Toggle(ctx context.Context, followerID, followeeID uint) (bool, error) {
	defer observability.TrackQuery("toggle", "follows")()

	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			First(&existing).Error

		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := adjustCounters(tx, followerID, followeeID, -1); err != nil {
				return err
			}
			following = false
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
			if err := tx.Create(&edge).Error; err != nil {
				if isUniqueConstraintError(err) {
					return models.NewConflictError("Follow state changed, please retry")
				}
				return models.NewInternalError(err)
			}
			if err := adjustCounters(tx, followerID, followeeID, 1); err != nil {
				return err
			}
			following = true
			return nil

		default:
			return models.NewInternalError(err)
		}
	})
	if err != nil {
		return false, err
	}

	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followeeID)
	return following, nil
}

// adjustCounters shifts the follower's following_count and the followee's
// followers_count by delta. Decrements are floored at zero so a drifted
// counter can never go negative.
func adjustCounters(tx *gorm.DB, followerID, followeeID uint, delta int) error {
	if err := tx.Model(&models.User{}).Where("id = ?", followerID).
		Update("following_count", gorm.Expr(
			"CASE WHEN following_count + ? < 0 THEN 0 ELSE following_count + ? END", delta, delta,
		)).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", followeeID).
		Update("followers_count", gorm.Expr(
			"CASE WHEN followers_count + ? < 0 THEN 0 ELSE followers_count + ? END", delta, delta,
		)).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
