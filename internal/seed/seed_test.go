package seed

import (
	"testing"

	"inkwell/internal/auth"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Message{}))
	return db
}

func TestSeederRun(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	users, err := s.Run(Options{Users: 12, Messages: 40, FollowProbability: 0.5})
	require.NoError(t, err)
	assert.Len(t, users, 12)

	var userCount, edgeCount, messageCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&edgeCount).Error)
	require.NoError(t, db.Model(&models.Message{}).Count(&messageCount).Error)
	assert.EqualValues(t, 12, userCount)
	assert.Positive(t, edgeCount)
	assert.EqualValues(t, 40, messageCount)
}

func TestSeededUsersCanAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	users, err := s.CreateUsers(3)
	require.NoError(t, err)
	for _, u := range users {
		assert.True(t, auth.VerifyPassword(DefaultPassword, u.PasswordSalt, u.PasswordHash))
	}
}

func TestSeededMessagesRespectFollowEdges(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	users, err := s.CreateUsers(8)
	require.NoError(t, err)
	require.NoError(t, s.CreateFollowGraph(users, 0.4))
	require.NoError(t, s.CreateMessages(users, 30))

	var messages []models.Message
	require.NoError(t, db.Find(&messages).Error)
	for _, m := range messages {
		var count int64
		require.NoError(t, db.Model(&models.Follow{}).
			Where("follower_id = ? AND followee_id = ?", m.SenderID, m.ReceiverID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count, "message %d sent outside the follow graph", m.ID)
	}
}

func TestSeededCountersMatchEdges(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	users, err := s.CreateUsers(10)
	require.NoError(t, err)
	require.NoError(t, s.CreateFollowGraph(users, 0.3))

	var fresh []models.User
	require.NoError(t, db.Find(&fresh).Error)
	for _, u := range fresh {
		var followers, following int64
		require.NoError(t, db.Model(&models.Follow{}).
			Where("followee_id = ?", u.ID).Count(&followers).Error)
		require.NoError(t, db.Model(&models.Follow{}).
			Where("follower_id = ?", u.ID).Count(&following).Error)
		assert.EqualValues(t, followers, u.FollowersCount)
		assert.EqualValues(t, following, u.FollowingCount)
	}
}

func TestClearAll(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	_, err := s.Run(Options{Users: 5, Messages: 10, FollowProbability: 0.5})
	require.NoError(t, err)
	require.NoError(t, s.ClearAll())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
