package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/ndk123-web/arthpage/pkg/log"
)

// ChatHandler is the router as the HTTP layer sees it.
type ChatHandler interface {
	HandleChatRequest(ctx context.Context, req router.Request) router.Response
	CreateChatList(ctx context.Context, chatID string) router.StatusResponse
}

type Server struct {
	addr      string
	engine    *gin.Engine
	server    *http.Server
	handler   ChatHandler
	chats     core.ChatRepository
	selection core.SelectionStore
}

func NewServer(ctx context.Context, addr string, handler ChatHandler, chats core.ChatRepository, selection core.SelectionStore) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:      addr,
		handler:   handler,
		chats:     chats,
		selection: selection,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(ctx), cors())
	s.routes(engine)
	s.engine = engine

	s.server = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.POST("/messages", s.postMessage)
	api.GET("/chats", s.listChats)
	api.GET("/chats/:id", s.getChat)
	api.GET("/settings", s.getSettings)
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("starting http api")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("stopping http api")
	return s.server.Shutdown(ctx)
}
