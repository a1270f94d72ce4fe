package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheapParams = Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasherWithParams(cheapParams)

	encoded, err := hasher.Hash("123456")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$v=19$m=1024,t=1,p=1$")

	ok, err := hasher.Verify("123456", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("654321", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_SaltsEveryHash(t *testing.T) {
	hasher := NewPasswordHasherWithParams(cheapParams)

	first, err := hasher.Hash("123456")
	require.NoError(t, err)
	second, err := hasher.Hash("123456")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_InvalidHash(t *testing.T) {
	hasher := NewPasswordHasher()

	_, err := hasher.Verify("123456", "$bcrypt$whatever")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = hasher.Verify("123456", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}
