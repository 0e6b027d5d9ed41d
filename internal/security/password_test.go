package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashSHA256IsDeterministic(t *testing.T) {
	for _, p := range []string{"", "secret", "pässwörd", "a much longer passphrase with spaces"} {
		assert.Equal(t, HashSHA256(p), HashSHA256(p))
		assert.Len(t, HashSHA256(p), 64)
	}
}

func TestHashSHA256KnownVector(t *testing.T) {
	// sha256("password")
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", HashSHA256("password"))
}

func TestHashSHA256DistinctInputs(t *testing.T) {
	assert.NotEqual(t, HashSHA256("secret1"), HashSHA256("secret2"))
	assert.NotEqual(t, HashSHA256("Secret"), HashSHA256("secret"))
}

func TestSHA256HasherVerify(t *testing.T) {
	h := SHA256Hasher{}

	hash, err := h.Hash("hunter2")
	require.NoError(t, err)

	assert.NoError(t, h.Verify(hash, "hunter2"))
	assert.ErrorIs(t, h.Verify(hash, "hunter3"), ErrPasswordMismatch)
}

func TestBcryptHasherVerify(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.NoError(t, h.Verify(hash, "hunter2"))
	assert.ErrorIs(t, h.Verify(hash, "nope"), ErrPasswordMismatch)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("sha256")
	require.NoError(t, err)
	assert.IsType(t, SHA256Hasher{}, h)

	h, err = NewHasher("bcrypt")
	require.NoError(t, err)
	assert.IsType(t, BcryptHasher{}, h)

	_, err = NewHasher("md5")
	assert.Error(t, err)
}
