// Package apitoken generates API tokens and checks them against argon2id hashes.
package apitoken

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

const (
	// DefaultLength gives ~238 bits of entropy with the 62 character alphabet.
	DefaultLength = 40

	// MinLength is the shortest token Generate accepts.
	MinLength = 20

	// rejectAbove keeps 248 = 4*62 byte values so the modulo is unbiased.
	rejectAbove = 255 - (256 % len(alphabet))
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var (
	// ErrTokenTooShort is returned when Generate is asked for fewer than MinLength characters.
	ErrTokenTooShort = errors.New("api token length below minimum")
	// ErrInvalidHash is returned by NewVerifier for a string that is not an argon2id hash.
	ErrInvalidHash = errors.New("invalid api token hash")
)

// Generate returns a random alphanumeric token of length characters.
func Generate(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("%w: %d < %d", ErrTokenTooShort, length, MinLength)
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length+length/4) //nolint:mnd

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}

		for _, b := range buf {
			if int(b) > rejectAbove {
				continue
			}

			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// Hash returns the argon2id hash of token for storage in the configuration.
func Hash(token string) (string, error) {
	return argon2id.CreateHash(token, argon2id.DefaultParams) //nolint:wrapcheck
}

// Verifier checks presented tokens against one argon2id hash.
type Verifier struct {
	hash string
}

// NewVerifier returns a Verifier for hash. The hash format is checked up front.
func NewVerifier(hash string) (*Verifier, error) {
	if _, _, _, err := argon2id.DecodeHash(hash); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}

	return &Verifier{hash: hash}, nil
}

// Verify reports whether token matches the hash.
func (v *Verifier) Verify(token string) bool {
	if token == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(token, v.hash)

	return err == nil && match
}
