package captureid

import (
	"crypto/md5" //nolint:gosec // digest pinning, not password hashing
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nxshot/capturedb/pkg/errors"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f"

// testKeyDigest computes the MD5 digest for a hex key, so tests can pin
// their own keys the way production pins the real one.
func testKeyDigest(t *testing.T, hexKey string) string {
	t.Helper()
	raw, err := hex.DecodeString(hexKey)
	require.NoError(t, err)
	sum := md5.Sum(raw) //nolint:gosec // digest pinning, not password hashing
	return hex.EncodeToString(sum[:])
}

func TestParseKey(t *testing.T) {
	digest := testKeyDigest(t, testKeyHex)

	key, err := ParseKey(testKeyHex, digest)
	require.NoError(t, err)
	assert.Equal(t, digest, key.Digest())
}

func TestParseKeyUppercaseHexAndDigest(t *testing.T) {
	digest := testKeyDigest(t, testKeyHex)

	key, err := ParseKey(strings.ToUpper(testKeyHex), strings.ToUpper(digest))
	require.NoError(t, err)
	assert.Equal(t, digest, key.Digest())
}

func TestParseKeyMissing(t *testing.T) {
	_, err := ParseKey("", ExpectedKeyDigest)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrKeyMissing)
	assert.True(t, errors.IsKeyError(err))

	_, err = ParseKey("   ", ExpectedKeyDigest)
	assert.ErrorIs(t, err, errors.ErrKeyMissing)
}

func TestParseKeyMalformed(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"not hex", "zz0102030405060708090a0b0c0d0e0f"},
		{"too short", "00010203"},
		{"too long", testKeyHex + "00"},
		{"odd length", testKeyHex[:31]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKey(tt.key, ExpectedKeyDigest)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrKeyMalformed)
			assert.True(t, errors.IsKeyError(err))
		})
	}
}

func TestParseKeyUntrusted(t *testing.T) {
	// Syntactically valid hex of the right length, wrong digest.
	_, err := ParseKey(testKeyHex, "00000000000000000000000000000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrKeyUntrusted)
	assert.True(t, errors.IsKeyError(err))
}

func TestKeyFromEnv(t *testing.T) {
	t.Setenv(EnvKey, "")
	_, err := KeyFromEnv()
	assert.ErrorIs(t, err, errors.ErrKeyMissing)

	// A random test key never matches the production digest.
	t.Setenv(EnvKey, testKeyHex)
	_, err = KeyFromEnv()
	assert.ErrorIs(t, err, errors.ErrKeyUntrusted)
}
