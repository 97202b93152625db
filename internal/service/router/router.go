package router

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/chat"
	"github.com/ndk123-web/arthpage/internal/service/dispatch"
	"github.com/ndk123-web/arthpage/internal/service/page"
	"github.com/ndk123-web/arthpage/pkg/log"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	fallbackReply = "Error: the request finished without a reply"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) core.Envelope
}

// Request is an inbound chat_message.
type Request struct {
	Provider    string
	Mode        string
	Model       string
	Prompt      string
	OfflineURL  string
	ChatID      string
	RawUserText string
	PageURL     string
}

// Response always carries a string, which may itself describe an error.
type Response struct {
	Text      string         `json:"response"`
	ChatID    string         `json:"chatListId,omitempty"`
	ErrorKind core.ErrorKind `json:"-"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Router struct {
	dispatcher Dispatcher
	chats      core.ChatRepository
	selection  core.SelectionStore
	now        func() time.Time

	pending sync.WaitGroup
}

func NewRouter(d Dispatcher, chats core.ChatRepository, selection core.SelectionStore) *Router {
	return &Router{
		dispatcher: d,
		chats:      chats,
		selection:  selection,
		now:        time.Now,
	}
}

// Handle dispatches req and calls reply exactly once, whatever happens inside.
func (r *Router) Handle(ctx context.Context, req Request, reply func(Response)) {
	logger := log.FromCtx(ctx)

	var once sync.Once
	respond := func(resp Response) {
		once.Do(func() { reply(resp) })
	}

	chatID := req.ChatID

	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Str("chat_id", chatID).Msg("chat request panicked")
			respond(Response{Text: fmt.Sprintf("Error: %v", p), ChatID: chatID, ErrorKind: core.KindNetworkError})
		}
		respond(Response{Text: fallbackReply, ChatID: chatID})
	}()

	if chatID == "" {
		chatID = chat.NewChatID(r.now())
		r.rememberChat(ctx, chatID)
	}

	env := r.dispatcher.Dispatch(ctx, dispatch.Request{
		Mode:       req.Mode,
		Provider:   req.Provider,
		Model:      req.Model,
		Prompt:     req.Prompt,
		OfflineURL: req.OfflineURL,
	})

	if !env.OK() {
		respond(Response{Text: env.Message, ChatID: chatID, ErrorKind: env.ErrorKind})
		return
	}

	// Configuration errors are not conversation content
	if core.IsMissingCredentialMessage(env.Text) {
		respond(Response{Text: env.Text, ChatID: chatID, ErrorKind: core.KindMissingCredential})
		return
	}

	userText := req.RawUserText
	if userText == "" {
		userText = req.Prompt
	}
	r.persist(ctx, chatID, userText, env.Text, page.MetaFromURL(req.PageURL))

	respond(Response{Text: env.Text, ChatID: chatID})
}

// HandleChatRequest is Handle for callers that want the reply as a return value.
func (r *Router) HandleChatRequest(ctx context.Context, req Request) Response {
	var resp Response
	r.Handle(ctx, req, func(res Response) {
		resp = res
	})
	return resp
}

// CreateChatList starts an empty chat and makes it the current one.
func (r *Router) CreateChatList(ctx context.Context, chatID string) StatusResponse {
	if chatID == "" {
		chatID = chat.NewChatID(r.now())
	}

	if _, err := r.chats.Create(ctx, chatID, nil); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("chat_id", chatID).Msg("failed to create chat")
		return StatusResponse{Status: StatusError, Message: err.Error()}
	}

	r.rememberChat(ctx, chatID)
	return StatusResponse{Status: StatusSuccess}
}

func (r *Router) persist(ctx context.Context, chatID, userText, assistantText string, meta *core.PageMeta) {
	r.pending.Add(1)
	done := r.chats.AppendAsync(ctx, chatID, userText, assistantText, meta)

	go func() {
		defer r.pending.Done()
		if err := <-done; err != nil {
			log.FromCtx(ctx).Error().Err(err).Str("chat_id", chatID).Msg("failed to persist exchange")
		}
	}()
}

func (r *Router) rememberChat(ctx context.Context, chatID string) {
	if r.selection == nil {
		return
	}
	err := r.selection.UpdateSelection(ctx, func(s *core.Selection) {
		s.ChatID = chatID
	})
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("chat_id", chatID).Msg("failed to save current chat")
	}
}

// Wait blocks until every pending store write has finished.
func (r *Router) Wait() {
	r.pending.Wait()
}

func (r *Router) Start(ctx context.Context) error {
	return nil
}

// Shutdown flushes pending writes or gives up when ctx expires.
func (r *Router) Shutdown(ctx context.Context) error {
	flushed := make(chan struct{})
	go func() {
		r.Wait()
		close(flushed)
	}()

	select {
	case <-flushed:
		log.FromCtx(ctx).Debug().Msg("pending chat writes flushed")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flush pending chat writes: %w", ctx.Err())
	}
}
