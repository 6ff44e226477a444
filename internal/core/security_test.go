// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fastParams = HashParams{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(fastParams)
	require.NoError(t, err)
	return h
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "Secret123")

	ok, err := h.Verify("Secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("secret123", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := newTestHasher(t)

	first, err := h.Hash("Secret123")
	require.NoError(t, err)
	second, err := h.Hash("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_LegacyBcryptIsUpgraded(t *testing.T) {
	h := newTestHasher(t)

	legacy, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, newHash, err := h.VerifyWithRehash("Secret123", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(newHash, "$argon2id$"))

	ok, newHash, err = h.VerifyWithRehash("Wrong123", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestPasswordHasher_RehashOnParamChange(t *testing.T) {
	old := newTestHasher(t)
	hash, err := old.Hash("Secret123")
	require.NoError(t, err)

	stronger, err := NewPasswordHasher(HashParams{
		Time: 2, Memory: 1024, Threads: 1, KeyLen: 32,
	})
	require.NoError(t, err)

	ok, newHash, err := stronger.VerifyWithRehash("Secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, newHash, "t=2")

	ok, newHash, err = old.VerifyWithRehash("Secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, newHash)
}

func TestPasswordHasher_VerifyTimingSafe(t *testing.T) {
	h := newTestHasher(t)

	ok, _, err := h.VerifyTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	empty := ""
	ok, _, err = h.VerifyTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	ok, _, err = h.VerifyTimingSafe("Secret123", &hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := newTestHasher(t)

	_, err := h.Verify("x", "not-a-hash")
	assert.Error(t, err)

	_, err = h.Verify("x", "$scrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.Error(t, err)
}
