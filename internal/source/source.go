// Package source fetches raw messages from an announcement channel.
// Two implementations exist: the MTProto client (full history, needs API
// credentials) and the public web preview scraper (no credentials, only
// the most recent messages).
package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"outage-reminder/internal/model"
)

// Source fetches recent messages from a channel.
type Source interface {
	// Name returns the human-readable name of this source.
	Name() string

	// Fetch retrieves up to limit recent messages from the channel.
	Fetch(ctx context.Context, channel string, limit int) ([]model.RawMessage, error)
}

// fetchDocument fetches a URL and parses it as an HTML document.
func fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return doc, nil
}

// normalizeChannel strips "@" and t.me URL prefixes so both "@dtek_kyiv"
// and "https://t.me/dtek_kyiv" resolve to the bare username.
func normalizeChannel(channel string) string {
	channel = strings.TrimSpace(channel)
	channel = strings.TrimPrefix(channel, "https://t.me/s/")
	channel = strings.TrimPrefix(channel, "https://t.me/")
	channel = strings.TrimPrefix(channel, "t.me/")
	channel = strings.TrimPrefix(channel, "@")
	return strings.TrimSuffix(channel, "/")
}
