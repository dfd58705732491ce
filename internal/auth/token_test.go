package auth

import (
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:              42,
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		ProfileImageURL: models.DefaultProfileImageURL,
		Role:            models.RoleAdmin,
	}
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	_, err := NewTokenCodec("", time.Hour)
	assert.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec, err := NewTokenCodec("test-secret-which-is-long-enough", time.Hour)
	require.NoError(t, err)

	token, err := codec.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID, "token should carry a jti")
}

func TestVerifyExpiredToken(t *testing.T) {
	codec, err := NewTokenCodec("test-secret-which-is-long-enough", time.Millisecond)
	require.NoError(t, err)

	token, err := codec.Issue(testUser())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	codec, err := NewTokenCodec("test-secret-which-is-long-enough", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenCodec("a-completely-different-secret!!", time.Hour)
	require.NoError(t, err)

	token, err := codec.Issue(testUser())
	require.NoError(t, err)

	// Signature mismatch, malformed input, and expiry all surface as the
	// same uniform error.
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Verify("not-even-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = codec.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
