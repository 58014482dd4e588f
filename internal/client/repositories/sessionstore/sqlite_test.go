package sessionstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := InitDatabase(context.Background(), "file:sessionstore_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewSQLiteRepository(db)
	require.NoError(t, repo.Clear(context.Background()))
	return repo
}

func TestGet_AbsentKeyIsEmpty(t *testing.T) {
	repo := setupRepo(t)
	v, err := repo.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSetGetOverwrite(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyToken, "tok-1"))
	v, err := repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.Equal(t, "tok-1", v)

	require.NoError(t, repo.Set(ctx, KeyToken, "tok-2"))
	v, err = repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.Equal(t, "tok-2", v)
}

func TestSaveSession_StoresBothKeys(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveSession(ctx, "tok-3", "a@x.com"))

	token, err := repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.Equal(t, "tok-3", token)

	email, err := repo.Get(ctx, KeyEmail)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", email)
}

func TestClear(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyToken, "tok-1"))
	require.NoError(t, repo.Set(ctx, KeyEmail, "a@x.com"))
	require.NoError(t, repo.Clear(ctx))

	for _, key := range []string{KeyToken, KeyEmail} {
		v, err := repo.Get(ctx, key)
		require.NoError(t, err)
		require.Empty(t, v)
	}
}
