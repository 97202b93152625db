package page

import (
	"net/url"
	"strings"

	"github.com/ndk123-web/arthpage/internal/core"
)

// Domain returns the host of rawURL without a leading "www.", or "" when rawURL is not absolute.
func Domain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// MetaFromURL returns nil when there is no usable page URL.
func MetaFromURL(rawURL string) *core.PageMeta {
	rawURL = strings.TrimSpace(rawURL)
	domain := Domain(rawURL)
	if domain == "" {
		return nil
	}
	return &core.PageMeta{URL: rawURL, Domain: domain}
}
