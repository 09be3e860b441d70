// Package captureid implements the title-ID to capture-ID transform used by
// the Nintendo Switch for screenshot filenames, together with validation of
// the 16-byte AES key the transform depends on.
//
// The key itself is secret and never ships with the repository. Its MD5
// digest is pinned so a wrong key is rejected up front instead of silently
// producing garbage capture IDs.
package captureid

import (
	"crypto/md5" //nolint:gosec // digest pinning, not password hashing
	"encoding/hex"
	"os"
	"strings"

	"github.com/nxshot/capturedb/pkg/errors"
)

// EnvKey is the environment variable holding the hex-encoded key.
const EnvKey = "CAPTURE_ID_KEY"

// ExpectedKeyDigest is the MD5 digest of the production key. Validation
// against it lets the tool verify the key without the key being published.
const ExpectedKeyDigest = "24e0dc62a15c11d38b622162ea2b4383"

// KeySize is the AES-128 key size in bytes.
const KeySize = 16

// Key is the validated 16-byte AES key for the capture ID transform.
type Key [KeySize]byte

// Digest returns the lowercase hex MD5 digest of the key bytes.
func (k Key) Digest() string {
	sum := md5.Sum(k[:]) //nolint:gosec // digest pinning, not password hashing
	return hex.EncodeToString(sum[:])
}

// ParseKey decodes and validates a hex-encoded key against the expected
// digest. The expected digest is an explicit parameter so tests can pin
// their own keys; production callers pass ExpectedKeyDigest.
//
// All failures are fatal to a run: there is no partial operation without a
// validated key.
func ParseKey(hexKey, expectedDigest string) (Key, error) {
	var key Key

	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return key, errors.NewKeyError(errors.ErrKeyMissing,
			"set it with: export "+EnvKey+"=<32-char-hex-key>")
	}

	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return key, errors.NewKeyError(errors.ErrKeyMalformed, "not valid hex")
	}
	if len(raw) != KeySize {
		return key, errors.NewKeyError(errors.ErrKeyMalformed,
			"key must be 16 bytes (32 hex characters)")
	}

	copy(key[:], raw)
	if key.Digest() != strings.ToLower(expectedDigest) {
		return key, errors.NewKeyError(errors.ErrKeyUntrusted,
			"key does not match expected digest")
	}

	return key, nil
}

// KeyFromEnv reads the key from the CAPTURE_ID_KEY environment variable and
// validates it against the production digest.
func KeyFromEnv() (Key, error) {
	return ParseKey(os.Getenv(EnvKey), ExpectedKeyDigest)
}
