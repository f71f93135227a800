package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret-password", DefaultBcryptCost)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret-password", hash)

	// Same password hashes to different digests (salted)
	hash2, err := HashPassword("secret-password", DefaultBcryptCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	hash, err := HashPassword("secret-password", 99)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "secret-password"))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse", DefaultBcryptCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "correct-horse"))
	assert.False(t, VerifyPassword(hash, "wrong-horse"))
	assert.False(t, VerifyPassword("not-a-hash", "correct-horse"))
}
