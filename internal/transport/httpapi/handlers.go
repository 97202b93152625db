package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/chat"
	"github.com/ndk123-web/arthpage/internal/service/router"
	"github.com/ndk123-web/arthpage/pkg/conv"
	"github.com/ndk123-web/arthpage/pkg/log"
)

const (
	TypeChatMessage   = "chat_message"
	TypeCreateChat    = "create_new_chat_list"
	TypeWakeUp        = "BACKGROUND_SCRIPT_WAKE_UP"
	wakeUpStatus      = "Background script is awake!"
	formatHTML        = "html"
	unknownTypeReason = "unknown message type"
)

// inboundMessage is the union of every message the panel sends.
type inboundMessage struct {
	Type string `json:"type"`

	Provider          string `json:"provider"`
	Mode              string `json:"mode"`
	Model             string `json:"model"`
	Prompt            string `json:"prompt"`
	OllamaURL         string `json:"ollamaUrl"`
	CurrentChatListID string `json:"currentChatListId"`
	ActualUserPrompt  string `json:"actualUserPrompt"`
	PageURL           string `json:"pageUrl"`

	ChatListID string `json:"chatListId"`
}

type chatReply struct {
	Response   string `json:"response"`
	ChatListID string `json:"chatListId,omitempty"`
	HTML       string `json:"html,omitempty"`
}

func (s *Server) postMessage(c *gin.Context) {
	var msg inboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, router.StatusResponse{Status: router.StatusError, Message: err.Error()})
		return
	}

	ctx := c.Request.Context()

	switch msg.Type {
	case TypeChatMessage:
		resp := s.handler.HandleChatRequest(ctx, router.Request{
			Provider:    msg.Provider,
			Mode:        msg.Mode,
			Model:       msg.Model,
			Prompt:      msg.Prompt,
			OfflineURL:  msg.OllamaURL,
			ChatID:      msg.CurrentChatListID,
			RawUserText: msg.ActualUserPrompt,
			PageURL:     msg.PageURL,
		})

		out := chatReply{Response: resp.Text, ChatListID: resp.ChatID}
		if c.Query("format") == formatHTML {
			out.HTML = conv.MarkdownToHTML([]byte(resp.Text))
		}
		c.JSON(http.StatusOK, out)

	case TypeCreateChat:
		c.JSON(http.StatusOK, s.handler.CreateChatList(ctx, msg.ChatListID))

	case TypeWakeUp:
		c.JSON(http.StatusOK, gin.H{"status": wakeUpStatus})

	default:
		log.FromCtx(ctx).Warn().Str("type", msg.Type).Msg(unknownTypeReason)
		c.JSON(http.StatusBadRequest, router.StatusResponse{Status: router.StatusError, Message: unknownTypeReason + ": " + msg.Type})
	}
}

func (s *Server) listChats(c *gin.Context) {
	chats, err := s.chats.List(c.Request.Context())
	if err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (s *Server) getChat(c *gin.Context) {
	ch, err := s.chats.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, chat.ErrChatNotFound) {
		c.JSON(http.StatusNotFound, router.StatusResponse{Status: router.StatusError, Message: err.Error()})
		return
	}
	if err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.selection.Selection(c.Request.Context()))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) storageError(c *gin.Context, err error) {
	log.FromCtx(c.Request.Context()).Error().Err(err).Msg("chat storage failed")

	status := http.StatusInternalServerError
	if core.IsKind(err, core.KindStorageUnavailable) {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, router.StatusResponse{Status: router.StatusError, Message: err.Error()})
}
