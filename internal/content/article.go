package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

// ArticleFetcher returns the readable text of a web page.
type ArticleFetcher interface {
	Article(ctx context.Context, url string) (string, error)
}

const (
	maxArticleChars = 20000
	maxArticleBytes = 1 << 20
)

// HTTPArticleFetcher downloads a page and strips it down to its readable text.
type HTTPArticleFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPArticleFetcher(timeout time.Duration) *HTTPArticleFetcher {
	return &HTTPArticleFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: "Knowji/1.0 (article reader)",
	}
}

func (f *HTTPArticleFetcher) Article(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Transport, "fetch article", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.New(apperr.Transport, "fetch article", fmt.Sprintf("HTTP %d from %s", resp.StatusCode, url))
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return "", apperr.Wrap(apperr.Transport, "parse article", err)
	}

	text := readableText(doc)
	if text == "" {
		return "", apperr.New(apperr.EmptyContent, "fetch article", "no readable text at "+url)
	}
	return text, nil
}

// readableText prefers <article>/<main> paragraphs and falls back to every paragraph, then the body.
func readableText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, footer, header, aside, iframe, form").Remove()

	var sb strings.Builder
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		sb.WriteString(title + "\n\n")
	}

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("main").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var blocks int
	root.Find("h1, h2, h3, p, li, blockquote").Each(func(_ int, s *goquery.Selection) {
		if t := collapseWhitespace(s.Text()); t != "" {
			sb.WriteString(t + "\n")
			blocks++
		}
	})
	if blocks == 0 {
		if t := collapseWhitespace(root.Text()); t != "" {
			sb.WriteString(t)
		}
	}

	return truncateRunes(strings.TrimSpace(sb.String()), maxArticleChars)
}

// truncateRunes cuts s to at most n runes without splitting a multi-byte character.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
