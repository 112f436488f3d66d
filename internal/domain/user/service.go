// internal/domain/user/service.go
package user

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/furniture-store/internal/infrastructure/storage"
	"github.com/your-org/furniture-store/internal/pkg/apperrors"
	"github.com/your-org/furniture-store/internal/pkg/metrics"
)

// Service owns user accounts and their address books
type Service struct {
	mu        sync.RWMutex
	users     []User
	persister storage.Persister
	hasher    PasswordHasher
	logger    logrus.FieldLogger
	metrics   *metrics.Recorder
	now       func() time.Time
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the profile fields a user may change.
// Nil fields are left as they are.
type UpdateProfileRequest struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// NewService loads users through persister
func NewService(persister storage.Persister, hasher PasswordHasher, logger logrus.FieldLogger, recorder *metrics.Recorder) (*Service, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if hasher == nil {
		hasher = PlaintextHasher{}
	}

	s := &Service{
		persister: persister,
		hasher:    hasher,
		logger:    logger.WithField("store", "users"),
		metrics:   recorder,
		now:       time.Now,
	}

	var dir Directory
	found, err := persister.Load(&dir)
	if err != nil {
		return nil, err
	}
	if !found {
		dir = Directory{}
		if err := s.save(nil); err != nil {
			return nil, err
		}
	}

	s.users = dir.Users
	for i := range s.users {
		if s.users[i].Addresses == nil {
			s.users[i].Addresses = []Address{}
		}
	}
	s.logger.WithField("count", len(s.users)).Info("Users loaded")

	return s, nil
}

// Authenticate resolves a username and password to a user. Unknown users
// and wrong passwords fail the same way.
func (s *Service) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOfUsername(username)
	if idx < 0 || !s.hasher.Matches(s.users[idx].Password, password) {
		return nil, ErrInvalidCredentials
	}

	u := s.users[idx].clone()
	return &u, nil
}

// Register creates a new account
func (s *Service) Register(req *RegisterRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, err, "invalid password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfUsername(username) >= 0 {
		return nil, ErrUsernameTaken
	}

	u := User{
		ID:        s.nextID(),
		Username:  username,
		Password:  hashed,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Addresses: []Address{},
		CreatedAt: s.now().Format(TimeLayout),
	}

	next := append(cloneUsers(s.users), u)
	if err := s.save(next); err != nil {
		return nil, err
	}
	s.users = next

	s.logger.WithFields(logrus.Fields{
		"user_id":  u.ID,
		"username": u.Username,
	}).Info("User registered")

	out := u.clone()
	return &out, nil
}

// GetByID retrieves a user by id
func (s *Service) GetByID(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrUserNotFound
	}
	u := s.users[idx].clone()
	return &u, nil
}

// GetByUsername retrieves a user by username
func (s *Service) GetByUsername(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOfUsername(username)
	if idx < 0 {
		return nil, ErrUserNotFound
	}
	u := s.users[idx].clone()
	return &u, nil
}

// Update replaces the stored record with the same id
func (s *Service) Update(u *User) error {
	_, err := s.mutate(u.ID, func(current *User) error {
		if u.Username != current.Username {
			for i := range s.users {
				if s.users[i].ID != u.ID && s.users[i].Username == u.Username {
					return ErrUsernameTaken
				}
			}
		}
		*current = u.clone()
		if current.Addresses == nil {
			current.Addresses = []Address{}
		}
		normalizeDefaults(current.Addresses)
		return nil
	})
	return err
}

// UpdateProfile changes contact details
func (s *Service) UpdateProfile(userID string, req *UpdateProfileRequest) (*User, error) {
	return s.mutate(userID, func(u *User) error {
		if req.Email != nil {
			u.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			u.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.Address != nil {
			u.Address = strings.TrimSpace(*req.Address)
		}
		return nil
	})
}

// Count returns the number of registered users
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// mutate applies fn to a copy of the user, persists, then commits
func (s *Service) mutate(userID string, fn func(u *User) error) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(userID)
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	next := cloneUsers(s.users)
	if err := fn(&next[idx]); err != nil {
		return nil, err
	}

	if err := s.save(next); err != nil {
		return nil, err
	}
	s.users = next

	u := next[idx].clone()
	return &u, nil
}

// nextID continues the U%03d sequence from the highest id in use
func (s *Service) nextID() string {
	highest := 0
	for _, u := range s.users {
		if !strings.HasPrefix(u.ID, "U") {
			continue
		}
		if n, err := strconv.Atoi(u.ID[1:]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("U%03d", highest+1)
}

func (s *Service) indexOf(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) indexOfUsername(username string) int {
	for i := range s.users {
		if s.users[i].Username == username {
			return i
		}
	}
	return -1
}

func (s *Service) save(users []User) error {
	if users == nil {
		users = []User{}
	}
	if err := s.persister.Save(Directory{Users: users}); err != nil {
		s.logger.WithError(err).Error("Failed to persist users")
		s.metrics.PersistenceFailure(s.persister.Name())
		return err
	}
	return nil
}

func cloneUsers(users []User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = u.clone()
	}
	return out
}
