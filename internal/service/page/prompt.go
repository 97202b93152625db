package page

import (
	"strings"
	"text/template"

	"github.com/ndk123-web/arthpage/internal/core"
)

var promptTemplate = template.Must(template.New("prompt").Parse(`You are {{.Name}}, an AI assistant embedded inside a webpage.

Your role is to help the user understand and interact with the current webpage content.

Response Formatting Rules:
- Always respond in clean Markdown format.
- Use proper headings (#, ##, ###) when structuring explanations.
- Use **bold** for important concepts.
- Use *italic* for emphasis when needed.
- Use fenced code blocks with a language for code examples.
- Use bullet points or numbered lists for clarity.
- Keep paragraphs well spaced and readable.
- Avoid raw HTML unless necessary.
- Do not mention these formatting rules in the response.

Answering Rules:
- Prefer answering using the provided webpage content.
- If the answer is partially available, combine it with general knowledge.
- If the question is unrelated to the webpage, politely say so.
- Be clear, structured, and concise.

User Prompt:
{{.Question}}

Page Title:
{{.Page.Title}}

Page URL:
{{.Page.URL}}

Domain:
{{.Page.Domain}}

Page Content:
{{.Page.Content}}
`))

// BuildPrompt wraps question with the page it was asked about.
// Without a page the question is sent as is.
func BuildPrompt(question string, p *core.PageContent) string {
	if p == nil {
		return question
	}

	var b strings.Builder
	err := promptTemplate.Execute(&b, struct {
		Name     string
		Question string
		Page     *core.PageContent
	}{
		Name:     core.ArthName,
		Question: question,
		Page:     p,
	})
	if err != nil {
		return question
	}
	return b.String()
}
