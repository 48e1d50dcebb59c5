// Package access decides who may persist maps. Write permission travels as
// an explicit Token value instead of a process-wide flag.
package access

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredential is returned when a credential does not match the
// configured hash.
var ErrBadCredential = errors.New("access: credential does not match")

// Token is a capability. The zero value is read-only.
type Token struct {
	write   bool
	subject string
}

// ReadOnly returns a token that may read but not write.
func ReadOnly() Token {
	return Token{subject: "anonymous"}
}

// CanWrite reports whether the holder may save maps.
func (t Token) CanWrite() bool {
	return t.write
}

// Subject names the holder for logging.
func (t Token) Subject() string {
	if t.subject == "" {
		return "anonymous"
	}
	return t.subject
}

func (t Token) String() string {
	if t.write {
		return t.Subject() + " (write)"
	}
	return t.Subject() + " (read-only)"
}

// HashSecret returns the bcrypt hash to store in configuration for secret.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return string(hash), nil
}

// Grant checks secret against hash and returns a write token on a match.
// A mismatch yields a read-only token and ErrBadCredential.
func Grant(subject, hash, secret string) (Token, error) {
	if hash == "" {
		return ReadOnly(), nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ReadOnly(), ErrBadCredential
		}
		return ReadOnly(), fmt.Errorf("access: checking credential: %w", err)
	}
	if subject == "" {
		subject = "admin"
	}
	return Token{write: true, subject: subject}, nil
}

// FromCredentialFile reads a secret from path and grants against hash.
// A missing file is not an error: the caller simply stays read-only.
func FromCredentialFile(path, hash string) (Token, error) {
	if path == "" || hash == "" {
		return ReadOnly(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ReadOnly(), nil
	}
	if err != nil {
		return ReadOnly(), fmt.Errorf("reading credential file: %w", err)
	}
	return Grant(fileSubject(path), hash, strings.TrimSpace(string(data)))
}

func fileSubject(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, ".auth")
}
