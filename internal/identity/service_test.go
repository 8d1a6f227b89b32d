package identity_test

import (
	"context"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/identity"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*identity.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*identity.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, record *identity.User) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byEmail[record.Email]; exists {
		return nil, auth.ErrDuplicateIdentity
	}
	f.byEmail[record.Email] = record
	return record, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.byEmail[email]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	return record, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := identity.NewService(newFakeUsers())
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "alice", "Str0ng!pwd")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "Str0ng!pwd", user.PasswordHash)

	got, err := svc.Authenticate(ctx, "a@x.com", "Str0ng!pwd")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.Authenticate(ctx, "a@x.com", "wrong")
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, auth.ErrInvalidCredentials))
}

func TestRegisterValidation(t *testing.T) {
	svc := identity.NewService(newFakeUsers())
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		username string
		password string
	}{
		{"Malformed email", "not-an-email", "alice", "Str0ng!pwd"},
		{"Empty email", "", "alice", "Str0ng!pwd"},
		{"Empty username", "a@x.com", "", "Str0ng!pwd"},
		{"Empty password", "a@x.com", "alice", ""},
		{"Weak password", "a@x.com", "alice", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.username, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := identity.NewService(newFakeUsers())
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "alice", "Str0ng!pwd")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "alice2", "Str0ng!pwd")
	require.Error(t, err)
	assert.True(t, goerrors.Is(err, auth.ErrDuplicateIdentity))
}

func TestAuthenticateUnknownEmailIsIndistinguishable(t *testing.T) {
	store := newFakeUsers()
	svc := identity.NewService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "alice", "Str0ng!pwd")
	require.NoError(t, err)

	_, unknownErr := svc.Authenticate(ctx, "b@x.com", "Str0ng!pwd")
	_, mismatchErr := svc.Authenticate(ctx, "a@x.com", "Wr0ng!pwd")

	require.Error(t, unknownErr)
	require.Error(t, mismatchErr)
	assert.Equal(t, unknownErr.Error(), mismatchErr.Error())
}
