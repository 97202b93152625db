package test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/chat"
	"github.com/ndk123-web/arthpage/internal/service/dispatch"
	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/ndk123-web/arthpage/internal/storage/bolt"
	"github.com/ndk123-web/arthpage/internal/storage/settings"
	"github.com/ndk123-web/arthpage/internal/storage/sqlite"
	"github.com/ndk123-web/arthpage/internal/transport/httpapi"
)

// Stack is the assembled backend the browser panel talks to.
type Stack struct {
	Handler  http.Handler
	Router   *router.Router
	Chats    *chat.Store
	Settings *settings.Store
}

// OpenBlobs opens the durable store of the given backend inside dir and closes it with the test.
func OpenBlobs(t *testing.T, backend, dir string) core.BlobStore {
	t.Helper()
	blobs, closeFn := OpenBlobsNoCleanup(t, backend, dir)
	t.Cleanup(func() { _ = closeFn() })
	return blobs
}

// OpenBlobsNoCleanup leaves closing to the caller, for tests that reopen the same files.
func OpenBlobsNoCleanup(t *testing.T, backend, dir string) (core.BlobStore, func() error) {
	t.Helper()

	switch backend {
	case config.StoreBolt:
		store, err := bolt.Open(filepath.Join(dir, "arthpage.bolt"))
		if err != nil {
			t.Fatalf("open bolt: %v", err)
		}
		return store, store.Close
	default:
		db, err := sqlite.NewDB(context.Background(), filepath.Join(dir, "arthpage.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return sqlite.NewBlobRepo(db), db.Close
	}
}

// NewStack wires settings, storage, dispatch, routing and the HTTP API the way start does.
func NewStack(t *testing.T, blobs core.BlobStore, dir string, providers config.ProvidersConfig) *Stack {
	t.Helper()
	ctx := context.Background()

	st, err := settings.Open(ctx, filepath.Join(dir, "settings.json"))
	if err != nil {
		t.Fatalf("open settings: %v", err)
	}

	chats := chat.NewStore(blobs)
	r := router.NewRouter(dispatch.NewDispatcher(st, providers), chats, st)

	return &Stack{
		Handler:  httpapi.NewServer(ctx, "127.0.0.1:0", r, chats, st).Handler(),
		Router:   r,
		Chats:    chats,
		Settings: st,
	}
}

