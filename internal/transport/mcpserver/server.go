package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/ndk123-web/arthpage/pkg/log"
)

const serverVersion = "1.0.0"

type ChatRouter interface {
	HandleChatRequest(ctx context.Context, req router.Request) router.Response
	CreateChatList(ctx context.Context, chatID string) router.StatusResponse
}

// Server exposes the assistant as MCP tools over stdio.
type Server struct {
	mcp      *server.MCPServer
	chats    ChatRouter
	history  core.ChatRepository
	settings router.SelectionSource
	pages    router.PageFetcher

	in  io.Reader
	out io.Writer

	mu     sync.Mutex
	cancel context.CancelFunc
}

type Option func(*Server)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) {
		s.in = in
		s.out = out
	}
}

func New(
	chats ChatRouter,
	history core.ChatRepository,
	settings router.SelectionSource,
	pages router.PageFetcher,
	opts ...Option,
) *Server {
	s := &Server{
		chats:    chats,
		history:  history,
		settings: settings,
		pages:    pages,
		in:       os.Stdin,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(core.ArthName, serverVersion, server.WithToolCapabilities(false))
	s.mcp.AddTool(askTool(), s.handleAsk)
	s.mcp.AddTool(listChatsTool(), s.handleListChats)
	s.mcp.AddTool(newChatTool(), s.handleNewChat)
	return s
}

func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	log.FromCtx(ctx).Info().Msg("serving mcp over stdio")

	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, s.in, s.out); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func askTool() mcp.Tool {
	return mcp.NewTool("ask",
		mcp.WithDescription("Ask the selected model a question, optionally about a web page"),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The question. A link inside it is fetched and used as page context")),
		mcp.WithString("url", mcp.Description("Page to answer about, overrides a link in the prompt")),
		mcp.WithString("provider", mcp.Description("gemini, openai, deepseek, claude or ollama")),
		mcp.WithString("mode", mcp.Description("online or offline")),
		mcp.WithString("model", mcp.Description("Model name, provider default when empty")),
		mcp.WithString("chat_id", mcp.Description("Chat to append to, the current chat when empty")),
	)
}

func listChatsTool() mcp.Tool {
	return mcp.NewTool("list_chats",
		mcp.WithDescription("List stored chats, newest first"),
	)
}

func newChatTool() mcp.Tool {
	return mcp.NewTool("new_chat",
		mcp.WithDescription("Start a new empty chat and make it current"),
	)
}

func (s *Server) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if link := request.GetString("url", ""); link != "" {
		prompt = link + " " + prompt
	}

	req := router.FromSelectionWith(ctx, s.settings, prompt, router.Overrides{
		Provider: request.GetString("provider", ""),
		Mode:     request.GetString("mode", ""),
		Model:    request.GetString("model", ""),
		ChatID:   request.GetString("chat_id", ""),
	})
	req.RawUserText = request.GetString("prompt", "")
	req = router.AttachPage(ctx, s.pages, req)

	resp := s.chats.HandleChatRequest(ctx, req)
	if resp.ErrorKind != "" {
		return mcp.NewToolResultError(resp.Text), nil
	}
	return mcp.NewToolResultText(resp.Text), nil
}

type chatSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"createdAt"`
	Domain    string `json:"domain,omitempty"`
	Messages  int    `json:"messages"`
}

func (s *Server) handleListChats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chats, err := s.history.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]chatSummary, 0, len(chats))
	for _, c := range chats {
		out = append(out, chatSummary{
			ID:        c.ID,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			Domain:    c.Domain,
			Messages:  len(c.Messages),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleNewChat(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.chats.CreateChatList(ctx, "")
	if res.Status != router.StatusSuccess {
		return mcp.NewToolResultError(res.Message), nil
	}
	return mcp.NewToolResultText(s.settings.Selection(ctx).ChatID), nil
}
