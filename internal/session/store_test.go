package session_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/session"

	_ "modernc.org/sqlite"
)

func setupStoreDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:sessionstore?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := session.NewSQLiteStore(setupStoreDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	// absent key reads as empty without error
	got, err := store.Get(ctx, session.SessionKey)
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, store.Set(ctx, session.SessionKey, "token-one"))
	got, err = store.Get(ctx, session.SessionKey)
	require.NoError(t, err)
	require.Equal(t, "token-one", got)

	// overwrite
	require.NoError(t, store.Set(ctx, session.SessionKey, "token-two"))
	got, err = store.Get(ctx, session.SessionKey)
	require.NoError(t, err)
	require.Equal(t, "token-two", got)

	require.NoError(t, store.Remove(ctx, session.SessionKey))
	got, err = store.Get(ctx, session.SessionKey)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSQLiteStoreSurvivesManagerRestart(t *testing.T) {
	db := setupStoreDB(t)
	store, err := session.NewSQLiteStore(db)
	require.NoError(t, err)
	ctx := context.Background()

	first := session.NewManager(ctx, store)
	first.Login(ctx, "persisted-token")

	// a second manager over the same store hydrates the persisted session
	second := session.NewManager(ctx, store)
	require.Equal(t, "persisted-token", second.Token())
}
