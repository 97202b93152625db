package core

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is immutable once appended to a Chat.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Chat is a single persisted conversation thread.
// CreatedAt is refreshed on every append and doubles as the activity timestamp.
type Chat struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt int64         `json:"createdAt"`
	PageURL   string        `json:"pageUrl,omitempty"`
	Domain    string        `json:"domain,omitempty"`
	Messages  []ChatMessage `json:"messages"`
}

// LastTimestamp returns the timestamp of the newest message, or 0.
func (c Chat) LastTimestamp() int64 {
	if len(c.Messages) == 0 {
		return 0
	}
	return c.Messages[len(c.Messages)-1].Timestamp
}

// PageMeta describes the page a chat was started from.
type PageMeta struct {
	URL    string
	Domain string
}

// PageContent is what the page collaborator extracts from a document.
type PageContent struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Domain  string `json:"domain"`
	Content string `json:"content"`
}
