package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByResetTokenFn func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	updatePasswordFn  func(context.Context, uint, string, string) error
	setResetTokenFn   func(context.Context, uint, string, time.Time) error
	listFn            func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return s.getByResetTokenFn(ctx, token)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdatePassword(ctx context.Context, userID uint, salt, digest string) error {
	return s.updatePasswordFn(ctx, userID, salt, digest)
}
func (s *userRepoStub) SetResetToken(ctx context.Context, userID uint, token string, expires time.Time) error {
	return s.setResetTokenFn(ctx, userID, token, expires)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	codec, err := auth.NewTokenCodec("test-secret-for-service-tests", time.Hour)
	require.NoError(t, err)
	return codec
}

func activeUser(password string) *models.User {
	salt, digest, _ := auth.HashPassword(password)
	return &models.User{
		ID:           7,
		FullName:     "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordSalt: salt,
		PasswordHash: digest,
		Role:         models.RoleUser,
		IsActive:     true,
	}
}

func TestSignupValidatesInput(t *testing.T) {
	svc := NewUserService(&userRepoStub{}, newTestCodec(t), auth.NewRevoker(nil, 0))
	ctx := context.Background()

	cases := []struct {
		name string
		in   SignupInput
	}{
		{"empty name", SignupInput{FullName: " ", Email: "a@b.co", Password: "longenough"}},
		{"bad email", SignupInput{FullName: "Ada", Email: "not-an-email", Password: "longenough"}},
		{"short password", SignupInput{FullName: "Ada", Email: "a@b.co", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(ctx, tc.in)
			require.Error(t, err)

			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestSignupHashesAndIssuesToken(t *testing.T) {
	var created *models.User
	repo := &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 12
			created = u
			return nil
		},
	}
	codec := newTestCodec(t)
	svc := NewUserService(repo, codec, auth.NewRevoker(nil, 0))

	user, token, err := svc.Signup(context.Background(), SignupInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.PasswordSalt)
	assert.NotEmpty(t, created.PasswordHash)
	assert.NotEqual(t, "correct horse", created.PasswordHash)
	assert.True(t, auth.VerifyPassword("correct horse", created.PasswordSalt, created.PasswordHash))
	assert.Equal(t, models.DefaultProfileImageURL, user.ProfileImageURL)
	assert.True(t, user.IsActive)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
}

func TestSigninUniformFailures(t *testing.T) {
	known := activeUser("correct horse")
	inactive := activeUser("correct horse")
	inactive.IsActive = false

	repo := &userRepoStub{
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			switch email {
			case "ada@example.com":
				return known, nil
			case "inactive@example.com":
				return inactive, nil
			}
			return nil, nil
		},
	}
	svc := NewUserService(repo, newTestCodec(t), auth.NewRevoker(nil, 0))
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "correct horse"},
		{"wrong password", "ada@example.com", "wrong horse"},
		{"deactivated account", "inactive@example.com", "correct horse"},
	}

	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signin(ctx, tc.email, tc.password)
			require.Error(t, err)

			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "UNAUTHORIZED", appErr.Code)
			bodies = append(bodies, appErr.Message)
		})
	}

	// No failure mode reveals which check rejected the attempt
	for _, body := range bodies {
		assert.Equal(t, bodies[0], body)
	}
}

func TestSigninSuccess(t *testing.T) {
	known := activeUser("correct horse")
	repo := &userRepoStub{
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return known, nil
		},
	}
	codec := newTestCodec(t)
	svc := NewUserService(repo, codec, auth.NewRevoker(nil, 0))

	user, token, err := svc.Signin(context.Background(), "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, known.ID, user.ID)

	_, err = codec.Verify(token)
	assert.NoError(t, err)
}

func TestRequestPasswordResetEnumerationSafe(t *testing.T) {
	repo := &userRepoStub{
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, nil
		},
	}
	svc := NewUserService(repo, newTestCodec(t), auth.NewRevoker(nil, 0))

	token, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRequestPasswordResetIssuesToken(t *testing.T) {
	known := activeUser("correct horse")
	var storedToken string
	var storedExpiry time.Time
	repo := &userRepoStub{
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return known, nil
		},
		setResetTokenFn: func(_ context.Context, userID uint, token string, expires time.Time) error {
			assert.Equal(t, known.ID, userID)
			storedToken = token
			storedExpiry = expires
			return nil
		},
	}
	svc := NewUserService(repo, newTestCodec(t), auth.NewRevoker(nil, 0))

	token, err := svc.RequestPasswordReset(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Len(t, token, 64, "token is 32 random bytes hex encoded")
	assert.Equal(t, token, storedToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), storedExpiry, time.Minute)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	repo := &userRepoStub{
		getByResetTokenFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, nil
		},
	}
	svc := NewUserService(repo, newTestCodec(t), auth.NewRevoker(nil, 0))

	err := svc.ResetPassword(context.Background(), "bogus", "longenough")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestResetPasswordRehashes(t *testing.T) {
	known := activeUser("old password")
	var newSalt, newDigest string
	repo := &userRepoStub{
		getByResetTokenFn: func(_ context.Context, _ string) (*models.User, error) {
			return known, nil
		},
		updatePasswordFn: func(_ context.Context, userID uint, salt, digest string) error {
			assert.Equal(t, known.ID, userID)
			newSalt, newDigest = salt, digest
			return nil
		},
	}
	svc := NewUserService(repo, newTestCodec(t), auth.NewRevoker(nil, 0))

	err := svc.ResetPassword(context.Background(), "tok-live", "brand new password")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword("brand new password", newSalt, newDigest))
	assert.False(t, auth.VerifyPassword("old password", newSalt, newDigest))
}

func TestUpdateProfile(t *testing.T) {
	known := activeUser("pw not relevant")
	var saved *models.User
	repo := &userRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) {
			return known, nil
		},
		updateFn: func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		},
	}
	svc := NewUserService(repo, newTestCodec(t), auth.NewRevoker(nil, 0))

	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:   known.ID,
		FullName: "Ada King",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", user.FullName)
	require.NotNil(t, saved)
	assert.Equal(t, "ada@example.com", saved.Email, "untouched fields are preserved")
}

func TestSetAdmin(t *testing.T) {
	known := activeUser("pw not relevant")
	repo := &userRepoStub{
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) {
			return known, nil
		},
		updateFn: func(_ context.Context, _ *models.User) error {
			return nil
		},
	}
	svc := NewUserService(repo, newTestCodec(t), auth.NewRevoker(nil, 0))

	user, err := svc.SetAdmin(context.Background(), known.ID, true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	user, err = svc.SetAdmin(context.Background(), known.ID, false)
	require.NoError(t, err)
	assert.False(t, user.IsAdmin())
}
