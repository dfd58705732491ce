// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is assigned to every seeded account.
const DefaultPassword = "password123"

// Options controls the size and shape of the generated data set.
type Options struct {
	Users    int
	Messages int
	// FollowProbability is the chance that any ordered user pair gets a
	// follow edge. Messages are only generated along existing edges.
	FollowProbability float64
}

// Seeder generates and persists demo data.
type Seeder struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes every seeded row. Messages go first to respect foreign keys.
func (s *Seeder) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM messages",
		"DELETE FROM follows",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}
	return nil
}

// Run populates the database per opts and returns the created users.
func (s *Seeder) Run(opts Options) ([]models.User, error) {
	if opts.Users <= 0 {
		opts.Users = 50
	}
	if opts.Messages <= 0 {
		opts.Messages = 200
	}
	if opts.FollowProbability <= 0 {
		opts.FollowProbability = 0.15
	}

	users, err := s.CreateUsers(opts.Users)
	if err != nil {
		return nil, err
	}
	if err := s.CreateFollowGraph(users, opts.FollowProbability); err != nil {
		return nil, err
	}
	if err := s.CreateMessages(users, opts.Messages); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUsers persists count accounts with realistic names and a shared
// known password so seeded accounts can be signed into.
func (s *Seeder) CreateUsers(count int) ([]models.User, error) {
	salt, digest, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		user := models.User{
			FullName:        name,
			Email:           fmt.Sprintf("%s%d@%s", gofakeit.Username(), gofakeit.Number(100, 999), gofakeit.DomainName()),
			PasswordSalt:    salt,
			PasswordHash:    digest,
			ProfileImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			Role:            models.RoleUser,
			IsActive:        true,
			CreatedAt:       s.pastTime(180),
		}
		users = append(users, user)
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	return users, nil
}

// CreateFollowGraph wires random follow edges between users with the given
// per-pair probability, keeping the denormalized counters consistent.
func (s *Seeder) CreateFollowGraph(users []models.User, probability float64) error {
	var edges []models.Follow
	following := make(map[uint]int)
	followers := make(map[uint]int)

	for i := range users {
		for j := range users {
			if i == j || s.rnd.Float64() >= probability {
				continue
			}
			edges = append(edges, models.Follow{
				FollowerID: users[i].ID,
				FolloweeID: users[j].ID,
				CreatedAt:  s.pastTime(90),
			})
			following[users[i].ID]++
			followers[users[j].ID]++
		}
	}
	if len(edges) == 0 {
		return nil
	}
	if err := s.db.Create(&edges).Error; err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}

	for userID, n := range following {
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).
			Update("following_count", n).Error; err != nil {
			return fmt.Errorf("seed counters: %w", err)
		}
	}
	for userID, n := range followers {
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).
			Update("followers_count", n).Error; err != nil {
			return fmt.Errorf("seed counters: %w", err)
		}
	}
	return nil
}

// CreateMessages generates count messages along existing follow edges, so
// every seeded message respects the follow-gated delivery rule. Roughly a
// third of the messages are left unread.
func (s *Seeder) CreateMessages(users []models.User, count int) error {
	var edges []models.Follow
	if err := s.db.Find(&edges).Error; err != nil {
		return fmt.Errorf("seed messages: %w", err)
	}
	if len(edges) == 0 {
		return nil
	}

	messages := make([]models.Message, 0, count)
	for i := 0; i < count; i++ {
		edge := edges[s.rnd.Intn(len(edges))]
		createdAt := s.pastTime(60)
		msg := models.Message{
			SenderID:   edge.FollowerID,
			ReceiverID: edge.FolloweeID,
			Content:    gofakeit.Sentence(s.rnd.Intn(12) + 3),
			Type:       models.MessageTypeText,
			CreatedAt:  createdAt,
		}
		if s.rnd.Float64() < 0.66 {
			readAt := createdAt.Add(time.Duration(s.rnd.Intn(120)+1) * time.Minute)
			msg.IsRead = true
			msg.ReadAt = &readAt
		}
		messages = append(messages, msg)
	}
	if err := s.db.Create(&messages).Error; err != nil {
		return fmt.Errorf("seed messages: %w", err)
	}
	return nil
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	daysBack := s.rnd.Intn(maxDays)
	return time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour).
		Add(-time.Duration(s.rnd.Intn(24)) * time.Hour).
		Add(-time.Duration(s.rnd.Intn(60)) * time.Minute)
}
