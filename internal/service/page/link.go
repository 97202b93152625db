package page

import (
	"regexp"
	"strings"
)

// DefaultQuestion is asked when a message carries only a link.
const DefaultQuestion = "Summarize this page."

var linkRe = regexp.MustCompile(`https?://[^\s<>"]+`)

// SplitLink pulls the first http(s) link out of text. The rest of the text is the
// question; a bare link becomes DefaultQuestion.
func SplitLink(text string) (link, question string) {
	loc := linkRe.FindStringIndex(text)
	if loc == nil {
		return "", strings.TrimSpace(text)
	}

	link = strings.TrimRight(text[loc[0]:loc[1]], ".,;:!?)]}'")
	question = strings.TrimSpace(text[:loc[0]] + " " + text[loc[1]:])
	question = strings.Join(strings.Fields(question), " ")
	if question == "" {
		question = DefaultQuestion
	}
	return link, question
}
