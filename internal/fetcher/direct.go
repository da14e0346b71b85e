package fetcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
)

// Tags whose subtrees never carry listing content
var strippedTags = []string{
	"script", "style", "noscript", "iframe", "object", "embed",
	"form", "input", "button", "select", "textarea",
	"nav", "header", "footer", "aside", "menu",
	"svg", "meta", "link", "title", "base",
}

// Structural selectors tried in order for a main-content region. Common
// patterns for job listing pages.
var mainContentSelectors = []string{
	"main", "[role='main']", "article",
	".job-description", ".job-posting", ".job-detail", ".job",
	".posting", ".position", ".vacancy", ".opportunity",
	"#main", ".main", ".content", ".description",
	"[data-testid*='job']", "[data-test*='job']",
}

// DirectStrategy issues a plain HTTP GET with a browser-like user agent and
// extracts listing text from the returned HTML.
type DirectStrategy struct {
	config *config.Config
	client *http.Client
	logger types.Logger
}

// NewDirectStrategy creates the primary fetch strategy
func NewDirectStrategy(cfg *config.Config) *DirectStrategy {
	return &DirectStrategy{
		config: cfg,
		client: &http.Client{
			// The per-attempt deadline comes from the caller's context;
			// this is a backstop for clients reused outside the fetcher.
			Timeout: cfg.Fetcher.RequestTimeout,
		},
		logger: logging.GetGlobalLogger(),
	}
}

// Name identifies the strategy in logs and responses
func (s *DirectStrategy) Name() string {
	return "direct"
}

// Fetch retrieves the page and returns its main-content text
func (s *DirectStrategy) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.Fetcher.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("direct fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("direct fetch returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	text := s.extractContent(doc)

	s.logger.Debug("Direct fetch extracted content", map[string]interface{}{
		"url":            url,
		"content_length": len(text),
	})

	return text, nil
}

// extractContent prefers a structural main-content region over the full body
// when that region carries enough text on its own.
func (s *DirectStrategy) extractContent(doc *goquery.Document) string {
	for _, tag := range strippedTags {
		doc.Find(tag).Remove()
	}

	for _, selector := range mainContentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := normalizeWhitespace(sel.Text())
		if len(text) >= s.config.Fetcher.MinMainLen {
			return text
		}
	}

	// No region was substantial enough; fall back to the whole body
	return normalizeWhitespace(doc.Find("body").Text())
}

var _ Strategy = (*DirectStrategy)(nil)
