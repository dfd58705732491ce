package service

import (
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Follow and chat tests run against a real in-memory database because
// their interesting behavior is transactional: counter symmetry, mark-read
// scoping and the no-row-on-forbidden guarantee.
type testRepos struct {
	db       *gorm.DB
	users    repository.UserRepository
	follows  repository.FollowRepository
	messages repository.MessageRepository
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Message{}); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return &testRepos{
		db:       db,
		users:    repository.NewUserRepository(db),
		follows:  repository.NewFollowRepository(db),
		messages: repository.NewMessageRepository(db),
	}
}

func (r *testRepos) seedUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{FullName: name, Email: email, IsActive: true}
	if err := r.db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}
	return user
}
