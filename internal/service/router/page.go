package router

import (
	"context"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/ndk123-web/arthpage/internal/service/page"
	"github.com/ndk123-web/arthpage/pkg/log"
)

type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (core.PageContent, error)
}

// AttachPage rewrites req around the first link in its prompt. The stored user text
// stays what was typed. When the page cannot be fetched the question goes out alone.
func AttachPage(ctx context.Context, f PageFetcher, req Request) Request {
	if f == nil {
		return req
	}

	link, question := page.SplitLink(req.Prompt)
	if link == "" {
		return req
	}

	req.PageURL = link
	content, err := f.Fetch(ctx, link)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("url", link).Msg("page fetch failed, asking without page content")
		req.Prompt = question
		return req
	}

	req.Prompt = page.BuildPrompt(question, &content)
	return req
}
