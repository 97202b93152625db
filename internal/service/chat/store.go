package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/pkg/log"
)

const (
	BlobKey = "arthpage_chats"

	DefaultTitle       = "New Chat"
	DefaultMaxChats    = 50
	DefaultMaxMessages = 300

	maxTitleRunes = 60
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrEmptyChatID  = errors.New("chat id is required")
)

// Store keeps every chat as one JSON array under BlobKey. Each call is a serialized
// read-modify-write, so a single exchange is never interleaved with another.
type Store struct {
	mu          sync.Mutex
	blobs       core.BlobStore
	maxChats    int
	maxMessages int
	now         func() time.Time
}

type Option func(*Store)

func WithBounds(maxChats, maxMessages int) Option {
	return func(s *Store) {
		if maxChats > 0 {
			s.maxChats = maxChats
		}
		if maxMessages > 0 {
			s.maxMessages = maxMessages
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(blobs core.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:       blobs,
		maxChats:    DefaultMaxChats,
		maxMessages: DefaultMaxMessages,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append records one exchange: the user message followed by the assistant reply.
// The chat is created when absent.
func (s *Store) Append(ctx context.Context, chatID, userText, assistantText string, meta *core.PageMeta) error {
	if chatID == "" {
		return ErrEmptyChatID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load(ctx)
	if err != nil {
		return err
	}

	now := s.now().UnixMilli()

	idx := indexOf(chats, chatID)
	if idx < 0 {
		chats = append(chats, core.Chat{
			ID:        chatID,
			Title:     TitleFrom(userText),
			CreatedAt: now,
			Messages:  []core.ChatMessage{},
		})
		idx = len(chats) - 1
	}

	c := &chats[idx]
	if c.Title == DefaultTitle && len(c.Messages) == 0 {
		c.Title = TitleFrom(userText)
	}
	if meta != nil && c.PageURL == "" {
		c.PageURL = meta.URL
		c.Domain = meta.Domain
	}

	ts := max(now, c.LastTimestamp()+1)
	c.Messages = append(c.Messages,
		core.ChatMessage{ID: newMessageID(), Role: core.RoleUser, Content: userText, Timestamp: ts},
		core.ChatMessage{ID: newMessageID(), Role: core.RoleAssistant, Content: assistantText, Timestamp: ts + 1},
	)
	c.CreatedAt = ts + 1

	if over := len(c.Messages) - s.maxMessages; over > 0 {
		c.Messages = append([]core.ChatMessage(nil), c.Messages[over:]...)
	}

	chats = s.evict(ctx, chats, chatID)

	if err := s.save(ctx, chats); err != nil {
		return err
	}

	log.FromCtx(ctx).Debug().
		Str("chat_id", chatID).
		Int("messages", len(chats[indexOf(chats, chatID)].Messages)).
		Msg("exchange appended")

	return nil
}

// AppendAsync runs Append detached from ctx cancellation and reports the outcome on
// the returned channel, which receives exactly one value.
func (s *Store) AppendAsync(ctx context.Context, chatID, userText, assistantText string, meta *core.PageMeta) <-chan error {
	done := make(chan error, 1)
	ctx = context.WithoutCancel(ctx)

	go func() {
		done <- s.Append(ctx, chatID, userText, assistantText, meta)
	}()

	return done
}

// Create returns the chat with chatID, creating an empty one when absent.
func (s *Store) Create(ctx context.Context, chatID string, meta *core.PageMeta) (core.Chat, error) {
	if chatID == "" {
		return core.Chat{}, ErrEmptyChatID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load(ctx)
	if err != nil {
		return core.Chat{}, err
	}

	if idx := indexOf(chats, chatID); idx >= 0 {
		return chats[idx], nil
	}

	c := core.Chat{
		ID:        chatID,
		Title:     DefaultTitle,
		CreatedAt: s.now().UnixMilli(),
		Messages:  []core.ChatMessage{},
	}
	if meta != nil {
		c.PageURL = meta.URL
		c.Domain = meta.Domain
	}

	chats = s.evict(ctx, append(chats, c), chatID)
	if err := s.save(ctx, chats); err != nil {
		return core.Chat{}, err
	}
	return c, nil
}

func (s *Store) Get(ctx context.Context, chatID string) (core.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load(ctx)
	if err != nil {
		return core.Chat{}, err
	}

	idx := indexOf(chats, chatID)
	if idx < 0 {
		return core.Chat{}, fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}
	return chats[idx], nil
}

// List returns every chat, most recently active first.
func (s *Store) List(ctx context.Context) ([]core.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(chats, func(i, j int) bool {
		if chats[i].CreatedAt != chats[j].CreatedAt {
			return chats[i].CreatedAt > chats[j].CreatedAt
		}
		return chats[i].ID < chats[j].ID
	})
	return chats, nil
}

// evict drops least recently active chats until the bound holds. keep is never evicted.
func (s *Store) evict(ctx context.Context, chats []core.Chat, keep string) []core.Chat {
	for len(chats) > s.maxChats {
		victim := -1
		for i := range chats {
			if chats[i].ID == keep {
				continue
			}
			if victim < 0 || chats[i].CreatedAt < chats[victim].CreatedAt {
				victim = i
			}
		}
		if victim < 0 {
			break
		}

		log.FromCtx(ctx).Info().
			Str("chat_id", chats[victim].ID).
			Int("max_chats", s.maxChats).
			Msg("evicting least recently active chat")

		chats = append(chats[:victim], chats[victim+1:]...)
	}
	return chats
}

func (s *Store) load(ctx context.Context) ([]core.Chat, error) {
	data, err := s.blobs.Get(ctx, BlobKey)
	if errors.Is(err, core.ErrBlobNotFound) {
		return []core.Chat{}, nil
	}
	if err != nil {
		return nil, core.NewError(core.KindStorageUnavailable, "", fmt.Errorf("read chats: %w", err))
	}
	if len(data) == 0 {
		return []core.Chat{}, nil
	}

	var chats []core.Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		return nil, core.NewError(core.KindStorageUnavailable, "", fmt.Errorf("decode chats: %w", err))
	}
	return chats, nil
}

func (s *Store) save(ctx context.Context, chats []core.Chat) error {
	data, err := json.Marshal(chats)
	if err != nil {
		return core.NewError(core.KindStorageUnavailable, "", fmt.Errorf("encode chats: %w", err))
	}
	if err := s.blobs.Put(ctx, BlobKey, data); err != nil {
		return core.NewError(core.KindStorageUnavailable, "", fmt.Errorf("write chats: %w", err))
	}
	return nil
}

func indexOf(chats []core.Chat, id string) int {
	for i := range chats {
		if chats[i].ID == id {
			return i
		}
	}
	return -1
}

func newMessageID() string {
	return "msg-" + uuid.NewString()
}

// NewChatID mints an id for a session that has none yet.
func NewChatID(now time.Time) string {
	return fmt.Sprintf("chat-%d-%s", now.UnixMilli(), strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// TitleFrom derives a chat title from the first line of the user's text.
func TitleFrom(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return DefaultTitle
	}
	if utf8.RuneCountInString(line) <= maxTitleRunes {
		return line
	}
	return strings.TrimSpace(string([]rune(line)[:maxTitleRunes])) + "…"
}
