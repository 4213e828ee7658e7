// Package webpage downloads a page and reduces it to readable text for the
// article pipeline.
package webpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	DefaultMaxBytes = 2 << 20
	DefaultTimeout  = 30 * time.Second

	userAgent = "Mozilla/5.0 (compatible; postcraft/1.0)"
)

var (
	ErrFetchFailed = errors.New("failed to fetch page")
)

var (
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]{2,}`)
	spaceBeforeNewline  = regexp.MustCompile(` *\n *`)
)

// Fetcher retrieves pages over HTTP.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
	Logger   *zap.Logger
}

// NewFetcher returns a Fetcher with a bounded timeout and body size.
func NewFetcher(logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: DefaultTimeout},
		MaxBytes: DefaultMaxBytes,
		Logger:   logger,
	}
}

// Fetch downloads url with a default Fetcher.
func Fetch(ctx context.Context, url string) (string, error) {
	return NewFetcher(nil).Fetch(ctx, url)
}

// Fetch downloads url. Plain text and markdown bodies are returned unchanged;
// anything else is parsed as HTML and flattened to text. Bodies beyond
// MaxBytes are cut off.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("%w: url is required", ErrFetchFailed)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	logger.Debug("Fetching page", zap.String("url", url))

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %w", ErrFetchFailed, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/plain") || strings.Contains(contentType, "text/markdown") {
		return string(body), nil
	}

	text, err := HTMLToText(string(body))
	if err != nil {
		return "", fmt.Errorf("%w: parsing html: %w", ErrFetchFailed, err)
	}

	logger.Debug("Fetched page", zap.String("url", url), zap.Int("bytes", len(body)), zap.Int("chars", len(text)))
	return text, nil
}

// HTMLToText returns the visible text of an HTML document, one block per
// line. Scripts, styles and page chrome are dropped.
func HTMLToText(document string) (string, error) {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	writeText(doc, &sb, 0)

	s := sb.String()
	s = multiSpacePattern.ReplaceAllString(s, " ")
	s = spaceBeforeNewline.ReplaceAllString(s, "\n")
	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s), nil
}

func writeText(n *html.Node, sb *strings.Builder, depth int) {
	if depth > 100 {
		return
	}

	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "nav", "footer", "template":
			return
		case "br":
			sb.WriteString("\n")
		case "p", "div", "section", "article", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr", "title", "blockquote", "pre":
			sb.WriteString("\n\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, sb, depth+1)
	}
}
