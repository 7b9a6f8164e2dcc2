package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	encoded, err := hashPassword("Abcdefg1!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := verifyPassword(encoded, "Abcdefg1!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword(encoded, "Abcdefg1?")
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := hashPassword("Abcdefg1!")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "salts should differ")
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, encoded := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=19$m=x$a$b"} {
		_, err := verifyPassword(encoded, "pw")
		assert.ErrorIs(t, err, errMalformedHash, encoded)
	}
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "http://x/auth/verify?token=abc", verifyLink("http://x/", "abc"))
	assert.Equal(t, "http://x/auth/reset-password?token=abc", resetLink("http://x", "abc"))
}
