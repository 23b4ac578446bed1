package utils

import (
	"testing"
	"time"

	"github.com/Govind-619/Bookstore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetJWTSecret("test-secret")

	user := &models.User{Username: "ana"}
	user.ID = 42

	token, err := GenerateToken(user, time.Hour)
	require.NoError(t, err)

	id, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	SetJWTSecret("test-secret")
	user := &models.User{Username: "ana"}
	user.ID = 1

	expired, err := GenerateToken(user, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired)
	assert.Error(t, err)

	SetJWTSecret("other-secret")
	defer SetJWTSecret("test-secret")
	_, err = ValidateToken(expired)
	assert.Error(t, err)

	_, err = ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestNewConfirmationCodeIsUnique(t *testing.T) {
	assert.NotEqual(t, NewConfirmationCode(), NewConfirmationCode())
	assert.Len(t, NewConfirmationCode(), 36)
}
