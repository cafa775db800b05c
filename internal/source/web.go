package source

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"outage-reminder/internal/model"
)

const webPreviewBase = "https://t.me/s/"

// WebSource scrapes the public t.me/s/<channel> preview page. It needs
// no credentials but only sees the most recent messages of a public
// channel. Messages are returned oldest-first, as laid out on the page.
type WebSource struct {
	baseURL string
}

// NewWeb creates a web preview source. baseURL overrides the t.me
// endpoint, mainly for tests.
func NewWeb(baseURL string) *WebSource {
	if baseURL == "" {
		baseURL = webPreviewBase
	}
	return &WebSource{baseURL: baseURL}
}

func (s *WebSource) Name() string {
	return "web"
}

func (s *WebSource) Fetch(ctx context.Context, channel string, limit int) ([]model.RawMessage, error) {
	url := s.baseURL + normalizeChannel(channel)
	doc, err := fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching channel preview: %w", err)
	}

	messages := ParsePreview(doc)
	if len(messages) > limit {
		// The newest messages are at the bottom of the page.
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

var (
	brPattern  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagPattern = regexp.MustCompile(`<[^>]+>`)
)

// ParsePreview extracts messages from a t.me/s preview document.
func ParsePreview(doc *goquery.Document) []model.RawMessage {
	var messages []model.RawMessage

	doc.Find("div.tgme_widget_message").Each(func(i int, sel *goquery.Selection) {
		post := sel.AttrOr("data-post", "")
		id := messageIDFromPost(post)
		if id == 0 {
			return
		}

		textSel := sel.Find("div.tgme_widget_message_text")
		if textSel.Length() == 0 {
			return
		}
		text := flattenText(textSel)
		if text == "" {
			return
		}

		datetime := sel.Find("a.tgme_widget_message_date time").AttrOr("datetime", "")
		ts, err := time.Parse(time.RFC3339, datetime)
		if err != nil {
			return
		}

		messages = append(messages, model.RawMessage{
			ID:        id,
			Timestamp: ts,
			Text:      text,
		})
	})

	return messages
}

// flattenText converts the message markup to plain text, keeping <br>
// as newlines so line-terminated fragments still parse.
func flattenText(sel *goquery.Selection) string {
	raw, err := sel.Html()
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	raw = brPattern.ReplaceAllString(raw, "\n")
	raw = tagPattern.ReplaceAllString(raw, "")
	return strings.TrimSpace(html.UnescapeString(raw))
}

// messageIDFromPost parses the numeric id out of a "channel/123"
// data-post attribute.
func messageIDFromPost(post string) int {
	idx := strings.LastIndex(post, "/")
	if idx < 0 {
		return 0
	}
	id, err := strconv.Atoi(post[idx+1:])
	if err != nil {
		return 0
	}
	return id
}
