// internal/domain/user/entity.go
package user

import (
	"strings"

	"github.com/your-org/furniture-store/internal/pkg/apperrors"
)

// TimeLayout is the createdAt format used in users.json and orders.json
const TimeLayout = "2006-01-02 15:04:05"

// User represents a customer account
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"` // Legacy single-line address
	Addresses []Address `json:"addresses"`
	CreatedAt string    `json:"createdAt"`
}

// Address represents one entry of a user's address book
type Address struct {
	ID        string `json:"id"`
	Name      string `json:"name"` // Label such as "Home"
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"` // Street
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	IsDefault bool   `json:"isDefault"`
}

// PublicUser is the user view returned to clients
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Addresses []Address `json:"addresses"`
	CreatedAt string    `json:"createdAt"`
}

// Directory is the on-disk layout of users.json
type Directory struct {
	Users []User `json:"users"`
}

var (
	ErrUserNotFound       = apperrors.New(apperrors.KindNotFound, "user not found")
	ErrAddressNotFound    = apperrors.New(apperrors.KindNotFound, "address not found")
	ErrUsernameTaken      = apperrors.New(apperrors.KindConflict, "username already exists")
	ErrInvalidCredentials = apperrors.New(apperrors.KindUnauthorized, "invalid username or password")
	ErrUsernameRequired   = apperrors.New(apperrors.KindValidation, "username is required")
	ErrPasswordRequired   = apperrors.New(apperrors.KindValidation, "password is required")
)

// Public returns the user without credentials
func (u User) Public() PublicUser {
	addresses := append([]Address{}, u.Addresses...)
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Addresses: addresses,
		CreatedAt: u.CreatedAt,
	}
}

// clone returns a copy that shares no address storage with u
func (u User) clone() User {
	if u.Addresses != nil {
		u.Addresses = append([]Address(nil), u.Addresses...)
	}
	return u
}

// FullAddress joins street, city, state and zip, skipping empty parts
func (a Address) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Address, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	tail := strings.TrimSpace(strings.TrimSpace(a.State) + " " + strings.TrimSpace(a.ZipCode))
	if tail != "" {
		parts = append(parts, tail)
	}

	return strings.Join(parts, ", ")
}
