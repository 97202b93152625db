package core

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by BlobStore.Get when the key was never written.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the local durable key/value scope. Values are opaque bytes.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ChatRepository is the conversation store as seen by transports and the router.
type ChatRepository interface {
	Append(ctx context.Context, chatID, userText, assistantText string, meta *PageMeta) error
	AppendAsync(ctx context.Context, chatID, userText, assistantText string, meta *PageMeta) <-chan error
	Create(ctx context.Context, chatID string, meta *PageMeta) (Chat, error)
	Get(ctx context.Context, chatID string) (Chat, error)
	List(ctx context.Context) ([]Chat, error)
}
