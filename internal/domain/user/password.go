// internal/domain/user/password.go
package user

import (
	"github.com/your-org/furniture-store/internal/pkg/auth"
)

// PasswordHasher decides how credentials are stored and compared
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(stored, candidate string) bool
}

// BcryptHasher stores bcrypt hashes. Stored values that are not bcrypt
// hashes are legacy plaintext records and are compared exactly.
type BcryptHasher struct {
	passwords *auth.PasswordManager
}

// NewBcryptHasher wraps a password manager
func NewBcryptHasher(pm *auth.PasswordManager) *BcryptHasher {
	return &BcryptHasher{passwords: pm}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	return h.passwords.HashPassword(password)
}

func (h *BcryptHasher) Matches(stored, candidate string) bool {
	if auth.IsHash(stored) {
		return h.passwords.VerifyPassword(candidate, stored) == nil
	}
	return stored != "" && stored == candidate
}

// PlaintextHasher keeps passwords as given. Only for deployments that must
// read and write legacy plaintext users.json files unchanged.
type PlaintextHasher struct{}

func (PlaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlaintextHasher) Matches(stored, candidate string) bool {
	return stored == candidate
}
