package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret(t *testing.T) {
	hash, err := HashSecret("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, CheckSecret("s3cret", hash))
	assert.ErrorIs(t, CheckSecret("wrong", hash), ErrSecretMismatch)
}

func TestHashSecret_TooLong(t *testing.T) {
	_, err := HashSecret(strings.Repeat("x", 73), 4)
	assert.ErrorIs(t, err, ErrSecretTooLong)
}

func TestGenerateAPIToken(t *testing.T) {
	plain, hash, err := GenerateAPIToken()
	require.NoError(t, err)
	assert.Len(t, plain, 64)
	assert.Equal(t, HashToken(plain), hash)

	other, _, err := GenerateAPIToken()
	require.NoError(t, err)
	assert.NotEqual(t, plain, other)
}
