package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *BlobRepo {
	t.Helper()

	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "nested", "arthpage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewBlobRepo(db)
}

func TestBlobRepo(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.Get(ctx, "arthpage_chats")
	assert.ErrorIs(t, err, core.ErrBlobNotFound)

	require.NoError(t, repo.Put(ctx, "arthpage_chats", []byte(`[{"id":"a"}]`)))
	got, err := repo.Get(ctx, "arthpage_chats")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	require.NoError(t, repo.Put(ctx, "arthpage_chats", []byte(`[]`)))
	got, err = repo.Get(ctx, "arthpage_chats")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestNewDB_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "arthpage.db")

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewBlobRepo(db).Put(ctx, "k", []byte("v")))
	require.NoError(t, db.Close())

	// migrations are idempotent and data survives
	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	got, err := NewBlobRepo(db).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
