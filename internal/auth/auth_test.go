package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/readloop/readloop/internal/domain"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse battery"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.ErrorIs(t, ValidatePassword("short"), ErrWeakPassword)
}

func TestJWTManager_GenerateValidate(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	user := domain.User{ID: "user-1", Role: domain.RoleAdmin}

	token, err := mgr.Generate(user)
	require.NoError(t, err)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	mgr := NewJWTManager("test-secret", -time.Minute)
	token, err := mgr.Generate(domain.User{ID: "user-1", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsWrongKey(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate(domain.User{ID: "user-1", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	_, err := mgr.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
