package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/session"
)

type countingStore struct {
	values  map[string]string
	sets    int
	removes int
	gets    int
	failSet error
	failGet error
}

func newCountingStore() *countingStore {
	return &countingStore{values: map[string]string{}}
}

func (s *countingStore) Get(ctx context.Context, key string) (string, error) {
	s.gets++
	if s.failGet != nil {
		return "", s.failGet
	}
	return s.values[key], nil
}

func (s *countingStore) Set(ctx context.Context, key, value string) error {
	s.sets++
	if s.failSet != nil {
		return s.failSet
	}
	s.values[key] = value
	return nil
}

func (s *countingStore) Remove(ctx context.Context, key string) error {
	s.removes++
	delete(s.values, key)
	return nil
}

func TestHydrateAdoptsStoredTokenWithoutWriting(t *testing.T) {
	store := newCountingStore()
	store.values[session.SessionKey] = "stored-token"

	m := session.NewManager(context.Background(), store)

	assert.Equal(t, "stored-token", m.Token())
	assert.Equal(t, 1, store.gets)
	assert.Equal(t, 0, store.sets)
	assert.Equal(t, 0, store.removes)
}

func TestHydrateEmptyStoreStaysAnonymous(t *testing.T) {
	store := newCountingStore()

	m := session.NewManager(context.Background(), store)

	assert.Empty(t, m.Token())
	assert.Equal(t, 0, store.sets)
}

func TestHydrateReadFailureIsNonFatal(t *testing.T) {
	store := newCountingStore()
	store.failGet = errors.New("storage denied")

	m := session.NewManager(context.Background(), store)

	assert.Empty(t, m.Token())
}

func TestLoginPersistsToken(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	m := session.NewManager(ctx, store)
	m.Login(ctx, "token-one")

	assert.Equal(t, "token-one", m.Token())
	assert.Equal(t, "token-one", store.values[session.SessionKey])
	assert.Equal(t, 1, store.sets)

	// a new token replaces the held value and writes exactly once more
	m.Login(ctx, "token-two")
	assert.Equal(t, "token-two", m.Token())
	assert.Equal(t, "token-two", store.values[session.SessionKey])
	assert.Equal(t, 2, store.sets)

	// same-value login changes nothing, so no write fires
	m.Login(ctx, "token-two")
	assert.Equal(t, 2, store.sets)
}

func TestLogoutRemovesToken(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	m := session.NewManager(ctx, store)
	m.Login(ctx, "token-one")
	m.Logout(ctx)

	assert.Empty(t, m.Token())
	_, present := store.values[session.SessionKey]
	assert.False(t, present)
	assert.Equal(t, 1, store.removes)
}

func TestPersistFailureDoesNotRollBackTransition(t *testing.T) {
	store := newCountingStore()
	store.failSet = errors.New("storage denied")
	ctx := context.Background()

	m := session.NewManager(ctx, store)
	m.Login(ctx, "token-one")

	assert.Equal(t, "token-one", m.Token())
}

func TestOnChangeObservesTransitions(t *testing.T) {
	store := newCountingStore()
	ctx := context.Background()

	m := session.NewManager(ctx, store)

	var seen []string
	m.OnChange(func(ctx context.Context, token string) {
		seen = append(seen, token)
	})

	m.Login(ctx, "token-one")
	m.Logout(ctx)

	require.Equal(t, []string{"token-one", ""}, seen)
}
