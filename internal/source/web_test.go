package source

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const previewFixture = `<!DOCTYPE html>
<html><body>
<div class="tgme_widget_message" data-post="dtek_kyiv/101">
  <div class="tgme_widget_message_text">Відключення світла 10.11<br>Група 1: 08:00-12:00</div>
  <a class="tgme_widget_message_date" href="https://t.me/dtek_kyiv/101">
    <time datetime="2025-11-10T07:15:00+00:00">07:15</time>
  </a>
</div>
<div class="tgme_widget_message" data-post="dtek_kyiv/102">
  <a class="tgme_widget_message_date" href="https://t.me/dtek_kyiv/102">
    <time datetime="2025-11-10T08:00:00+00:00">08:00</time>
  </a>
</div>
<div class="tgme_widget_message" data-post="dtek_kyiv/103">
  <div class="tgme_widget_message_text">Планові роботи &laquo;ДТЕК&raquo; з 14:30 до 18:00</div>
  <a class="tgme_widget_message_date" href="https://t.me/dtek_kyiv/103">
    <time datetime="2025-11-10T09:30:00+00:00">09:30</time>
  </a>
</div>
</body></html>`

func TestParsePreview(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(previewFixture))
	require.NoError(t, err)

	messages := ParsePreview(doc)
	require.Len(t, messages, 2, "photo-only message must be skipped")

	require.Equal(t, 101, messages[0].ID)
	require.Equal(t, time.Date(2025, time.November, 10, 7, 15, 0, 0, time.UTC), messages[0].Timestamp.UTC())
	require.Contains(t, messages[0].Text, "Відключення світла 10.11\nГрупа 1: 08:00-12:00")

	require.Equal(t, 103, messages[1].ID)
	require.Contains(t, messages[1].Text, "«ДТЕК»", "HTML entities must be decoded")
}

func TestNormalizeChannel(t *testing.T) {
	cases := map[string]string{
		"@dtek_kyiv":                "dtek_kyiv",
		"dtek_kyiv":                 "dtek_kyiv",
		"https://t.me/dtek_kyiv":    "dtek_kyiv",
		"https://t.me/s/dtek_kyiv/": "dtek_kyiv",
		"t.me/dtek_kyiv":            "dtek_kyiv",
	}
	for in, want := range cases {
		if got := normalizeChannel(in); got != want {
			t.Errorf("normalizeChannel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMessageIDFromPost(t *testing.T) {
	require.Equal(t, 123, messageIDFromPost("dtek_kyiv/123"))
	require.Equal(t, 0, messageIDFromPost("dtek_kyiv/abc"))
	require.Equal(t, 0, messageIDFromPost("no-slash"))
}
