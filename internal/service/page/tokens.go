package page

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// approxRunesPerToken is used when the cl100k vocabulary cannot be loaded.
const approxRunesPerToken = 4

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}

// Truncate cuts text to at most budget cl100k tokens.
func Truncate(text string, budget int) string {
	if budget <= 0 || text == "" {
		return text
	}

	enc, err := getTokenizer()
	if err != nil {
		runes := []rune(text)
		if limit := budget * approxRunesPerToken; len(runes) > limit {
			return strings.TrimSpace(string(runes[:limit]))
		}
		return text
	}

	ids := enc.Encode(text, nil, nil)
	if len(ids) <= budget {
		return text
	}
	return strings.TrimSpace(enc.Decode(ids[:budget]))
}
