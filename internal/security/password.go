package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password does not match")

// Hasher turns a plaintext password into a stored digest and checks a
// candidate against it.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

// SHA256Hasher is an unsalted, deterministic hex digest. The same password
// always yields the same digest, so equal passwords are visible across
// users in storage. Kept for compatibility with existing records; prefer
// BcryptHasher for anything real.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plain string) (string, error) {
	return HashSHA256(plain), nil
}

func (SHA256Hasher) Verify(hash, plain string) error {
	if subtle.ConstantTimeCompare([]byte(hash), []byte(HashSHA256(plain))) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// HashSHA256 returns the lowercase hex sha256 digest of plain.
func HashSHA256(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// BcryptHasher hashes with bcrypt at the given cost.
type BcryptHasher struct {
	Cost int
}

// Hash password hashes a plain text password with bcrypt.
func (b BcryptHasher) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.
func (BcryptHasher) Verify(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// NewHasher maps a config name to a Hasher.
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}
