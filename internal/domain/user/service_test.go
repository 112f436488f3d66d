package user

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/furniture-store/internal/infrastructure/storage"
	"github.com/your-org/furniture-store/internal/pkg/apperrors"
	"github.com/your-org/furniture-store/internal/pkg/auth"
)

func newTestService(t *testing.T, hasher PasswordHasher, users ...User) (*Service, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory("users.json")
	if len(users) > 0 {
		require.NoError(t, mem.Save(Directory{Users: users}))
	}

	svc, err := NewService(mem, hasher, nil, nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 15, 0, time.UTC) }
	return svc, mem
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc, _ := newTestService(t, nil)

	u, err := svc.Register(&RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "U001", u.ID)
	assert.Equal(t, "2024-03-01 09:30:15", u.CreatedAt)
	assert.NotNil(t, u.Addresses)
	assert.Empty(t, u.Addresses)

	_, err = svc.Register(&RegisterRequest{Username: "alice", Password: "pw2"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, 1, svc.Count())
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.Register(&RegisterRequest{Username: "  ", Password: "pw"})
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register(&RegisterRequest{Username: "bob"})
	assert.ErrorIs(t, err, ErrPasswordRequired)
	assert.Equal(t, 0, svc.Count())
}

func TestRegister_IDsSkipGaps(t *testing.T) {
	svc, _ := newTestService(t, nil,
		User{ID: "U001", Username: "a"},
		User{ID: "U007", Username: "b"},
		User{ID: "admin", Username: "c"},
	)

	u, err := svc.Register(&RegisterRequest{Username: "d", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "U008", u.ID)
}

func TestAuthenticate(t *testing.T) {
	t.Run("plaintext is exact and case-sensitive", func(t *testing.T) {
		svc, _ := newTestService(t, PlaintextHasher{}, User{ID: "U001", Username: "alice", Password: "Secret"})

		u, err := svc.Authenticate("alice", "Secret")
		require.NoError(t, err)
		assert.Equal(t, "U001", u.ID)

		_, err = svc.Authenticate("alice", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Authenticate("Alice", "Secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("bcrypt hashes new passwords and accepts legacy plaintext", func(t *testing.T) {
		hasher := NewBcryptHasher(auth.NewPasswordManager(bcrypt.MinCost))
		svc, mem := newTestService(t, hasher, User{ID: "U001", Username: "legacy", Password: "123456"})

		_, err := svc.Authenticate("legacy", "123456")
		require.NoError(t, err)

		created, err := svc.Register(&RegisterRequest{Username: "bob", Password: "hunter2"})
		require.NoError(t, err)
		assert.True(t, auth.IsHash(created.Password))
		assert.NotContains(t, string(mem.Raw()), "hunter2")

		_, err = svc.Authenticate("bob", "hunter2")
		require.NoError(t, err)
		_, err = svc.Authenticate("bob", "hunter3")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t, nil,
		User{ID: "U001", Username: "alice", Email: "a@x.test"},
		User{ID: "U002", Username: "bob"},
	)

	u, err := svc.GetByID("U001")
	require.NoError(t, err)
	u.Email = "alice@x.test"
	require.NoError(t, svc.Update(u))

	got, err := svc.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.test", got.Email)

	u.Username = "bob"
	assert.ErrorIs(t, svc.Update(u), ErrUsernameTaken)

	assert.ErrorIs(t, svc.Update(&User{ID: "U999"}), ErrUserNotFound)
}

func TestUpdate_KeepsSingleDefaultAddress(t *testing.T) {
	svc, _ := newTestService(t, nil, User{ID: "U001", Username: "alice", Password: "pw"})

	u, err := svc.GetByID("U001")
	require.NoError(t, err)
	u.Addresses = []Address{
		{ID: "A1", FullName: "Alice", Address: "1 Elm St"},
		{ID: "A2", FullName: "Alice", Address: "9 Mill Rd", IsDefault: true},
		{ID: "A3", FullName: "Alice", Address: "4 Oak Ln", IsDefault: true},
	}
	require.NoError(t, svc.Update(u))

	stored, err := svc.GetByID("U001")
	require.NoError(t, err)
	defaults := []string{}
	for _, a := range stored.Addresses {
		if a.IsDefault {
			defaults = append(defaults, a.ID)
		}
	}
	assert.Equal(t, []string{"A2"}, defaults)
	assert.True(t, u.Addresses[2].IsDefault, "caller's record is not modified")

	u.Addresses = []Address{{ID: "A1"}, {ID: "A2"}}
	require.NoError(t, svc.Update(u))
	stored, err = svc.GetByID("U001")
	require.NoError(t, err)
	assert.True(t, stored.Addresses[0].IsDefault)
	assert.False(t, stored.Addresses[1].IsDefault)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t, nil, User{ID: "U001", Username: "alice", Email: "old@x.test", Phone: "1"})
	email := "new@x.test"

	u, err := svc.UpdateProfile("U001", &UpdateProfileRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@x.test", u.Email)
	assert.Equal(t, "1", u.Phone)

	_, err = svc.UpdateProfile("U404", &UpdateProfileRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t, nil, User{ID: "U001", Username: "alice"})
	_, err := svc.AddAddress("U001", Address{FullName: "Alice"})
	require.NoError(t, err)

	u, _ := svc.GetByID("U001")
	u.Addresses[0].FullName = "Mallory"

	again, _ := svc.GetByID("U001")
	assert.Equal(t, "Alice", again.Addresses[0].FullName)
}

func TestPersistenceFailureIsSurfaced(t *testing.T) {
	svc, mem := newTestService(t, nil)
	mem.FailSaves(errors.New("read-only filesystem"))

	_, err := svc.Register(&RegisterRequest{Username: "alice", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(err))
	assert.Equal(t, 0, svc.Count())
}

func TestPublic_OmitsPassword(t *testing.T) {
	u := User{ID: "U001", Username: "alice", Password: "pw"}
	pub := u.Public()
	assert.Equal(t, "alice", pub.Username)
	assert.NotNil(t, pub.Addresses)
}
