// internal/domain/user/address_service.go
package user

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AddressRequest represents address book input
type AddressRequest struct {
	Name      string `json:"name"`
	FullName  string `json:"fullName" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	IsDefault bool   `json:"isDefault"`
}

// ToAddress converts the request into an address without an id
func (r *AddressRequest) ToAddress() Address {
	return Address{
		Name:      strings.TrimSpace(r.Name),
		FullName:  strings.TrimSpace(r.FullName),
		Phone:     strings.TrimSpace(r.Phone),
		Address:   strings.TrimSpace(r.Address),
		City:      strings.TrimSpace(r.City),
		State:     strings.TrimSpace(r.State),
		ZipCode:   strings.TrimSpace(r.ZipCode),
		IsDefault: r.IsDefault,
	}
}

// Addresses returns the user's address book in insertion order
func (s *Service) Addresses(userID string) ([]Address, error) {
	u, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

// AddAddress appends an address. The first address always becomes the
// default; a new default clears the flag on every other address.
func (s *Service) AddAddress(userID string, addr Address) (*Address, error) {
	var added Address

	_, err := s.mutate(userID, func(u *User) error {
		if addr.ID == "" || findAddress(u.Addresses, addr.ID) >= 0 {
			addr.ID = newAddressID()
		}
		if len(u.Addresses) == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			clearDefaults(u.Addresses)
		}
		u.Addresses = append(u.Addresses, addr)
		added = addr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"address_id": added.ID,
		"is_default": added.IsDefault,
	}).Debug("Address added")

	return &added, nil
}

// UpdateAddress replaces an address in place, keeping its id
func (s *Service) UpdateAddress(userID, addressID string, addr Address) (*Address, error) {
	var updated Address

	_, err := s.mutate(userID, func(u *User) error {
		idx := findAddress(u.Addresses, addressID)
		if idx < 0 {
			return ErrAddressNotFound
		}
		addr.ID = addressID
		if addr.IsDefault {
			clearDefaults(u.Addresses)
		}
		u.Addresses[idx] = addr
		ensureDefault(u.Addresses)
		updated = u.Addresses[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// RemoveAddress deletes an address. Removing the default promotes the
// first remaining address.
func (s *Service) RemoveAddress(userID, addressID string) error {
	_, err := s.mutate(userID, func(u *User) error {
		idx := findAddress(u.Addresses, addressID)
		if idx < 0 {
			return ErrAddressNotFound
		}
		u.Addresses = append(u.Addresses[:idx], u.Addresses[idx+1:]...)
		ensureDefault(u.Addresses)
		return nil
	})
	return err
}

// SetDefaultAddress makes addressID the only default address
func (s *Service) SetDefaultAddress(userID, addressID string) error {
	_, err := s.mutate(userID, func(u *User) error {
		idx := findAddress(u.Addresses, addressID)
		if idx < 0 {
			return ErrAddressNotFound
		}
		clearDefaults(u.Addresses)
		u.Addresses[idx].IsDefault = true
		return nil
	})
	return err
}

// DefaultAddress returns the flagged default, or the first address when
// none is flagged
func (s *Service) DefaultAddress(userID string) (*Address, error) {
	addresses, err := s.Addresses(userID)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, ErrAddressNotFound
	}

	for _, a := range addresses {
		if a.IsDefault {
			return &a, nil
		}
	}
	first := addresses[0]
	return &first, nil
}

func newAddressID() string {
	return "ADDR" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func findAddress(addresses []Address, id string) int {
	for i := range addresses {
		if addresses[i].ID == id {
			return i
		}
	}
	return -1
}

func clearDefaults(addresses []Address) {
	for i := range addresses {
		addresses[i].IsDefault = false
	}
}

// normalizeDefaults keeps only the first flagged address as default, or
// flags the first address when none is
func normalizeDefaults(addresses []Address) {
	seen := false
	for i := range addresses {
		if addresses[i].IsDefault {
			addresses[i].IsDefault = !seen
			seen = true
		}
	}
	ensureDefault(addresses)
}

// ensureDefault flags the first address when a non-empty book has none
func ensureDefault(addresses []Address) {
	if len(addresses) == 0 {
		return
	}
	for _, a := range addresses {
		if a.IsDefault {
			return
		}
	}
	addresses[0].IsDefault = true
}
