package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
)

const previewRunes = 200

// ResponseFormatter renders command replies as Markdown. Telegram and the REPL
// both receive the same text; Telegram converts it to HTML before sending.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("📄 **%s**\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

func (f *ResponseFormatter) Error(err error) string {
	return fmt.Sprintf("❌ Error: %v", err)
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

func (f *ResponseFormatter) Usage(command string) string {
	return fmt.Sprintf("**Usage**: `%s`\n", command)
}

func (f *ResponseFormatter) Examples(examples []string) string {
	quoted := make([]string, len(examples))
	for i, ex := range examples {
		quoted[i] = "`" + ex + "`"
	}
	return "**Examples**: " + strings.Join(quoted, ", ") + "\n"
}

func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("› ")
		sb.WriteString(item)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}

// ChatLine is one entry of the /chats listing.
func (f *ResponseFormatter) ChatLine(ch core.Chat, current bool) string {
	line := fmt.Sprintf("**%s** `%s` (%d msgs, %s)", ch.Title, ch.ID, len(ch.Messages),
		time.UnixMilli(ch.CreatedAt).Format("2006-01-02 15:04"))
	if ch.Domain != "" {
		line += " " + ch.Domain
	}
	if current {
		line += " ← current"
	}
	return line
}

// Message shows a stored message collapsed to a single line.
func (f *ResponseFormatter) Message(m core.ChatMessage) string {
	s := strings.Join(strings.Fields(m.Content), " ")
	if r := []rune(s); len(r) > previewRunes {
		s = string(r[:previewRunes]) + "…"
	}
	return fmt.Sprintf("**%s**: %s\n", m.Role, s)
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}
