package captureid

import (
	"crypto/aes"
	"encoding/hex"
	"strings"

	"github.com/nxshot/capturedb/pkg/errors"
)

// TitleIDLength is the number of hex characters of a title ID that feed the
// transform. Trailing characters beyond it are ignored.
const TitleIDLength = 16

// CaptureIDLength is the length of a capture ID in hex characters.
const CaptureIDLength = 32

// ValidTitleID reports whether s is at least 16 characters long and its
// first 16 characters are valid hexadecimal.
func ValidTitleID(s string) bool {
	if len(s) < TitleIDLength {
		return false
	}
	_, err := hex.DecodeString(s[:TitleIDLength])
	return err == nil
}

// Transform computes the capture ID for a title ID.
//
// The console encrypts the first 8 bytes of the title ID, byte order
// reversed and zero-padded to a full AES block, with AES-128-ECB. The
// 32-character uppercase hex ciphertext is what appears in screenshot
// filenames.
//
// Transform is pure and deterministic. Title IDs shorter than 16 hex
// characters are invalid input and return an error; callers are expected to
// have filtered them already (see pkg/normalize).
func Transform(titleID string, key Key) (string, error) {
	if len(titleID) < TitleIDLength {
		return "", errors.NewValidationError("titleId", titleID,
			"must be at least 16 hex characters")
	}

	raw, err := hex.DecodeString(titleID[:TitleIDLength])
	if err != nil {
		return "", errors.NewValidationError("titleId", titleID, "not valid hex")
	}

	// Reverse byte order, then pad to the AES block size.
	var block [aes.BlockSize]byte
	for i, b := range raw {
		block[len(raw)-1-i] = b
	}

	encrypted, err := encryptBlock(key, block)
	if err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(encrypted[:])), nil
}

// encryptBlock encrypts a single AES block with no chaining.
func encryptBlock(key Key, plaintext [aes.BlockSize]byte) ([aes.BlockSize]byte, error) {
	var ciphertext [aes.BlockSize]byte

	cipher, err := aes.NewCipher(key[:])
	if err != nil {
		return ciphertext, errors.NewValidationError("key", nil, err.Error())
	}

	cipher.Encrypt(ciphertext[:], plaintext[:])
	return ciphertext, nil
}
