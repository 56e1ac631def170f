package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questify/internal/auth"
	"questify/pkg/apperrors"
	"questify/pkg/events"
)

func testUser() auth.User {
	return auth.User{
		ID:     uuid.New(),
		Gmail:  "ada@gmail.com",
		Role:   events.RoleTeacher,
		Status: events.UserStatusActive,
	}
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "questify", 15*time.Minute)
	user := testUser()

	signed, jti, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Gmail, claims.Gmail)
	assert.Equal(t, events.RoleTeacher, claims.Role)
	assert.Equal(t, events.UserStatusActive, claims.Status)
	assert.Equal(t, jti, claims.JTI)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestValidateExpired(t *testing.T) {
	svc := NewService("test-signing-key", "questify", -time.Minute)

	signed, _, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotAuthorized))
}

func TestValidateWrongKey(t *testing.T) {
	svc := NewService("test-signing-key", "questify", 15*time.Minute)
	other := NewService("other-key", "questify", 15*time.Minute)

	signed, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotAuthorized))
}

func TestValidateWrongIssuer(t *testing.T) {
	svc := NewService("test-signing-key", "questify", 15*time.Minute)
	other := NewService("test-signing-key", "somewhere-else", 15*time.Minute)

	signed, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotAuthorized))
}

func TestValidateGarbage(t *testing.T) {
	svc := NewService("test-signing-key", "questify", 15*time.Minute)

	_, err := svc.ValidateToken("not-a-token")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotAuthorized))
}
