package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "not-it"))
}

func TestHashPasswordFallsBackOnBadCost(t *testing.T) {
	hash, err := HashPassword("s3cret", 99)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "s3cret"))
}
