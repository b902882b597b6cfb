package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT("u-42", RoleAdmin, time.Minute)
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseJWTRejects(t *testing.T) {
	InitJWT("test-secret")

	expired, err := GenerateJWT("u-42", RoleCustomer, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired)
	assert.Error(t, err)

	InitJWT("other-secret")
	signed, err := GenerateJWT("u-42", RoleCustomer, time.Minute)
	require.NoError(t, err)
	InitJWT("test-secret")
	_, err = ParseJWT(signed)
	assert.Error(t, err)

	_, err = ParseJWT("not-a-token")
	assert.Error(t, err)
}
