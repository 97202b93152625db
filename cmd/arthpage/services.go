package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/ndk123-web/arthpage/internal/config"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/chat"
	"github.com/ndk123-web/arthpage/internal/service/command"
	"github.com/ndk123-web/arthpage/internal/service/dispatch"
	"github.com/ndk123-web/arthpage/internal/service/page"
	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/ndk123-web/arthpage/internal/storage/bolt"
	"github.com/ndk123-web/arthpage/internal/storage/settings"
	"github.com/ndk123-web/arthpage/internal/storage/sqlite"
	"github.com/ndk123-web/arthpage/internal/transport/httpapi"
	"github.com/ndk123-web/arthpage/internal/transport/telegram"
	"github.com/ndk123-web/arthpage/pkg/log"
	"github.com/ndk123-web/arthpage/pkg/srv"
)

// app holds the shared core every transport is built on.
type app struct {
	cfg      *config.AppConfig
	settings *settings.Store
	chats    *chat.Store
	router   *router.Router
	commands *command.Router
	pages    *page.Fetcher

	// storage and settings first, so they shut down last
	services []srv.Service
}

func newApp(ctx context.Context) (*app, error) {
	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	// 1. Configuration
	cfg, err := config.ParseAppConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	a := &app{cfg: cfg}

	// 2. Storage
	blobs, err := a.initStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	st, err := settings.Open(ctx, cfg.GetSettingsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	a.settings = st
	a.services = append(a.services, st)

	a.chats = chat.NewStore(blobs, chat.WithBounds(cfg.MaxChats, cfg.MaxMessagesPerChat))

	// 3. Dispatch and routing
	dispatcher := dispatch.NewDispatcher(st, cfg.Providers, dispatch.WithLimit(cfg.RequestTimeout))
	a.router = router.NewRouter(dispatcher, a.chats, st)
	a.services = append(a.services, a.router)

	a.commands = command.NewRouterWithHelp(command.NewCommands(st, cfg.Providers, a.router, a.chats))
	a.pages = page.NewFetcher(page.WithTokenBudget(cfg.PageTokenBudget))

	return a, nil
}

func (a *app) initStorage(ctx context.Context) (core.BlobStore, error) {
	logger := log.FromCtx(ctx)

	switch a.cfg.StoreBackend {
	case config.StoreBolt:
		store, err := bolt.Open(a.cfg.GetBoltPath())
		if err != nil {
			return nil, err
		}
		a.services = append(a.services, srv.NewCleanup(store.Close))
		logger.Debug().Str("path", a.cfg.GetBoltPath()).Msg("using bolt chat storage")
		return store, nil

	case config.StoreSQLite, "":
		db, err := sqlite.NewDB(ctx, a.cfg.GetDatabasePath())
		if err != nil {
			return nil, err
		}
		a.services = append(a.services, srv.NewCleanup(db.Close))
		logger.Debug().Str("path", a.cfg.GetDatabasePath()).Msg("using sqlite chat storage")
		return sqlite.NewBlobRepo(db), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q, expected %s or %s", a.cfg.StoreBackend, config.StoreSQLite, config.StoreBolt)
	}
}

func (a *app) initTransports(ctx context.Context) ([]srv.Service, error) {
	var services []srv.Service

	if a.cfg.EnableHTTP {
		services = append(services, httpapi.NewServer(ctx, a.cfg.HTTPAddr, a.router, a.chats, a.settings))
	}

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.router, a.commands, a.settings, a.pages)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("no transport enabled, set ARTHPAGE_ENABLE_HTTP or ARTHPAGE_ENABLE_TELEGRAM")
	}
	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

// runServices starts services and blocks until ctx is cancelled.
func runServices(ctx context.Context, services []srv.Service) {
	srv.StartServices(ctx, services)
	srv.ShutdownServices(ctx, services)
}

// close stops the core services for one-shot commands that never started them.
func (a *app) close(ctx context.Context) {
	logger := log.FromCtx(ctx)
	for i := len(a.services) - 1; i >= 0; i-- {
		if err := a.services[i].Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", a.services[i])
		}
	}
}
