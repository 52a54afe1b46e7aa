package apitoken

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	token, err := Generate(DefaultLength)
	require.NoError(t, err)
	assert.Len(t, token, DefaultLength)

	for _, r := range token {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected character %q", r)
	}

	other, err := Generate(DefaultLength)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	_, err = Generate(MinLength - 1)
	require.ErrorIs(t, err, ErrTokenTooShort)
}

func TestHashAndVerify(t *testing.T) {
	token, err := Generate(MinLength)
	require.NoError(t, err)

	hash, err := Hash(token)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	v, err := NewVerifier(hash)
	require.NoError(t, err)

	assert.True(t, v.Verify(token))
	assert.False(t, v.Verify(token+"x"))
	assert.False(t, v.Verify(""))

	_, err = NewVerifier("plain-text")
	require.ErrorIs(t, err, ErrInvalidHash)
}
