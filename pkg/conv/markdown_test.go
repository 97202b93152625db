package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text",
			input:    "Hello world",
			expected: "Hello world\n",
		},
		{
			name:     "bold text",
			input:    "**bold**",
			expected: "<strong>bold</strong>\n",
		},
		{
			name:     "inline code",
			input:    "`code`",
			expected: "<code>code</code>\n",
		},
		{
			name:     "code block with language",
			input:    "```go\nfunc main() {}\n```",
			expected: "<pre><code class=\"language-go\">func main() {}\n</code></pre>\n",
		},
		{
			name:     "header tags stripped",
			input:    "# Info",
			expected: "Info\n",
		},
		{
			name:     "script tags sanitized",
			input:    "<script>alert('xss')</script>",
			expected: "\n",
		},
		{
			name:     "link with target blank stripped",
			input:    "[link](https://example.com)",
			expected: "<a href=\"https://example.com\">link</a>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToTelegramHTML([]byte(tt.input))
			if got != tt.expected {
				t.Errorf("MarkdownToTelegramHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "headings kept for the panel",
			input:    "# Summary\n\nThe page is about **Go**.",
			contains: []string{"<h1", "Summary</h1>", "<strong>Go</strong>"},
		},
		{
			name:        "script removed",
			input:       "hi <script>alert('xss')</script>",
			contains:    []string{"hi"},
			notContains: []string{"<script", "alert("},
		},
		{
			name:        "event handler attributes removed",
			input:       `<img src="x.png" onerror="steal()">`,
			notContains: []string{"onerror", "steal()"},
		},
		{
			name:     "external links open in a new tab",
			input:    "[docs](https://go.dev)",
			contains: []string{`href="https://go.dev"`, `target="_blank"`, "noreferrer"},
		},
		{
			name:     "code language class kept",
			input:    "```js\nconsole.log(1)\n```",
			contains: []string{`class="language-js"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToHTML([]byte(tt.input))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.notContains {
				assert.NotContains(t, got, bad)
			}
		})
	}
}
