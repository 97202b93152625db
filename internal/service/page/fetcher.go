package page

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/inbucket/html2text"
	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/pkg/log"
	"github.com/ndk123-web/arthpage/pkg/retry"
)

const (
	maxResponseSize     = 1 << 20 // 1MB limit
	defaultFetchTimeout = 15 * time.Second
	DefaultTokenBudget  = 6000
	emptyPageContent    = "No text found."
)

var (
	ErrInvalidURL = errors.New("page url must be absolute http(s)")
	titleRe       = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	spaceRe       = regexp.MustCompile(`\s+`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

// Fetcher extracts {title, url, domain, content} from a page, the server-side
// counterpart of reading the DOM of the open tab.
type Fetcher struct {
	client  *resty.Client
	retrier *retry.Retrier
	budget  int
}

type FetcherOption func(*Fetcher)

func WithTokenBudget(budget int) FetcherOption {
	return func(f *Fetcher) {
		if budget > 0 {
			f.budget = budget
		}
	}
}

func WithRetry(cfg *retry.Config) FetcherOption {
	return func(f *Fetcher) {
		if cfg != nil {
			f.retrier = retry.NewRetrier(cfg)
		}
	}
}

func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.SetTimeout(timeout)
		}
	}
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: resty.New().
			SetTimeout(defaultFetchTimeout).
			SetHeader("User-Agent", core.ArthUserAgent).
			SetHeader("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5"),
		retrier: retry.NewDefaultRetrier(),
		budget:  DefaultTokenBudget,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (core.PageContent, error) {
	domain := Domain(rawURL)
	if domain == "" || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(rawURL)), "http") {
		return core.PageContent{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	var resp *resty.Response
	err := f.retrier.Do(ctx, func() error {
		var err error
		resp, err = f.client.R().SetContext(ctx).Get(rawURL)
		if err != nil {
			return fmt.Errorf("failed to fetch url: %w", err)
		}

		status := resp.StatusCode()
		switch {
		case status >= http.StatusInternalServerError || status == http.StatusTooManyRequests:
			return fmt.Errorf("HTTP %d: %s", status, resp.Status())
		case status >= http.StatusBadRequest:
			return retry.Permanent(fmt.Errorf("HTTP %d: %s", status, resp.Status()))
		}
		return nil
	})
	if err != nil {
		return core.PageContent{}, err
	}

	body := resp.Body()
	if len(body) > maxResponseSize {
		body = body[:maxResponseSize]
	}

	page := core.PageContent{
		URL:    strings.TrimSpace(rawURL),
		Domain: domain,
	}

	if isHTML(resp.Header().Get("Content-Type"), body) {
		page.Title = extractTitle(body)
		text, err := html2text.FromString(string(body), html2text.Options{
			OmitLinks:    true,
			PrettyTables: true,
		})
		if err != nil {
			return core.PageContent{}, fmt.Errorf("failed to read body: %w", err)
		}
		page.Content = text
	} else {
		page.Content = string(body)
	}

	page.Content = strings.TrimSpace(blankLinesRe.ReplaceAllString(page.Content, "\n\n"))
	if page.Content == "" {
		page.Content = emptyPageContent
	}
	page.Content = Truncate(page.Content, f.budget)

	log.FromCtx(ctx).Debug().
		Str("url", page.URL).
		Str("title", page.Title).
		Int("content_len", len(page.Content)).
		Msg("page fetched")

	return page, nil
}

func isHTML(contentType string, body []byte) bool {
	if contentType != "" {
		return strings.Contains(strings.ToLower(contentType), "html")
	}
	return strings.Contains(http.DetectContentType(body), "html")
}

func extractTitle(body []byte) string {
	m := titleRe.FindSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(html.UnescapeString(string(m[1])), " "))
}
