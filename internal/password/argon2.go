// Package password derives and verifies salted password digests with argon2id.
//
// Digests are deterministic for a given (password, salt, KDF parameters)
// triple, so verification recomputes the digest and compares it in constant
// time.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/taskkeeper-server/internal/model"
)

const (
	// MaxLength is the longest accepted password in bytes.
	MaxLength = 256
	// SaltLength is the number of random bytes in a generated salt.
	SaltLength = 16
)

const (
	minSaltLength = 8
	keyLength     = 32
)

// ErrInput matches every InputError.
var ErrInput = errors.New("invalid password input")

// InputError reports a password or salt that cannot be hashed.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "password: " + e.Reason
}

func (e *InputError) Is(target error) bool {
	return target == ErrInput
}

// Argon2 hashes passwords with argon2id.
type Argon2 struct {
	params model.KDFParams
	rand   io.Reader
}

// NewArgon2 creates a hasher using params for new digests.
func NewArgon2(params model.KDFParams) *Argon2 {
	return &Argon2{params: params, rand: rand.Reader}
}

// Params returns the parameters used by Hash.
func (h *Argon2) Params() model.KDFParams {
	return h.params
}

// GenerateSalt returns a fresh base64 encoded random salt.
func (h *Argon2) GenerateSalt() (string, error) {
	buf := make([]byte, SaltLength)
	if _, err := io.ReadFull(h.rand, buf); err != nil {
		return "", fmt.Errorf("failed to read random salt: %w", err)
	}

	return base64.RawStdEncoding.EncodeToString(buf), nil
}

// Hash derives the digest of plaintext with salt using the configured params.
func (h *Argon2) Hash(plaintext, salt string) (string, error) {
	return h.HashWithParams(plaintext, salt, h.params)
}

// HashWithParams derives the digest of plaintext with salt using params.
func (h *Argon2) HashWithParams(plaintext, salt string, params model.KDFParams) (string, error) {
	if err := checkPassword(plaintext); err != nil {
		return "", err
	}

	rawSalt, err := decodeSalt(salt)
	if err != nil {
		return "", err
	}

	if params.Time == 0 || params.MemKiB == 0 || params.Par == 0 {
		return "", &InputError{Reason: "kdf parameters must be non-zero"}
	}

	key := argon2.IDKey([]byte(plaintext), rawSalt, params.Time, params.MemKiB, params.Par, keyLength)

	return base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify recomputes the digest of plaintext and compares it with digest.
func (h *Argon2) Verify(plaintext, salt, digest string, params model.KDFParams) (bool, error) {
	computed, err := h.HashWithParams(plaintext, salt, params)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1, nil
}

func checkPassword(plaintext string) error {
	switch {
	case plaintext == "":
		return &InputError{Reason: "password is empty"}
	case len(plaintext) > MaxLength:
		return &InputError{Reason: fmt.Sprintf("password exceeds %d bytes", MaxLength)}
	case !utf8.ValidString(plaintext):
		return &InputError{Reason: "password is not valid UTF-8"}
	}

	return nil
}

func decodeSalt(salt string) ([]byte, error) {
	raw, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return nil, &InputError{Reason: "salt is not valid base64"}
	}

	if len(raw) < minSaltLength {
		return nil, &InputError{Reason: "salt is too short"}
	}

	return raw, nil
}
