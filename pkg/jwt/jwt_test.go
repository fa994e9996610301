package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateToken("ops", RoleAdmin, "s3cret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.True(t, HasRole(token, "s3cret", RoleAdmin))
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("ops", RoleAdmin, "s3cret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other")
	assert.Error(t, err)
	assert.False(t, HasRole(token, "other", RoleAdmin))
}

func TestValidateRejectsExpired(t *testing.T) {
	token, err := GenerateToken("ops", RoleAdmin, "s3cret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "s3cret")
	assert.Error(t, err)
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := GenerateToken("ops", RoleAdmin, "", time.Hour)
	assert.Error(t, err)
}
