package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned when a password does not match its hash.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher hashes new passwords with bcrypt and verifies stored hashes,
// including the unsalted SHA-256 and plaintext values older accounts carry.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher. Out-of-range costs fall back to
// bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a bcrypt hash of password at the configured cost.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify checks password against stored. needsRehash is true when the match
// came from a legacy format or from a bcrypt hash below the configured cost.
func (h *PasswordHasher) Verify(stored, password string) (needsRehash bool, err error) {
	if isBcrypt(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			return false, ErrPasswordMismatch
		}
		cost, err := bcrypt.Cost([]byte(stored))
		return err == nil && cost < h.cost, nil
	}

	if isSHA256Hex(stored) {
		sum := sha256.Sum256([]byte(password))
		if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(strings.ToLower(stored))) == 1 {
			return true, nil
		}
		return false, ErrPasswordMismatch
	}

	if stored != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1 {
		return true, nil
	}
	return false, ErrPasswordMismatch
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

func isSHA256Hex(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
