package srv

import (
	"context"

	"github.com/ndk123-web/arthpage/pkg/log"
)

// cleanupService runs a close func on shutdown and nothing on start.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup == nil {
		return nil
	}
	log.FromCtx(ctx).Debug().Msg("running cleanup")
	return c.cleanup()
}

func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}
