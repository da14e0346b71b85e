package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mendableai/firecrawl-go"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
)

// ReaderStrategy delegates to the Firecrawl reader proxy, which renders
// JS-heavy pages and returns a markdown representation. It is the fallback
// when a direct GET is blocked or under-delivers.
type ReaderStrategy struct {
	config *config.Config
	app    *firecrawl.FirecrawlApp
	logger types.Logger
}

// NewReaderStrategy creates the fallback fetch strategy. Returns an error if
// the Firecrawl client cannot be initialized.
func NewReaderStrategy(cfg *config.Config) (*ReaderStrategy, error) {
	app, err := firecrawl.NewFirecrawlApp(cfg.Firecrawl.APIKey, cfg.Firecrawl.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firecrawl: %w", err)
	}

	return &ReaderStrategy{
		config: cfg,
		app:    app,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// Name identifies the strategy in logs and responses
func (s *ReaderStrategy) Name() string {
	return "reader"
}

// Fetch scrapes the URL through the reader proxy and returns plain text
func (s *ReaderStrategy) Fetch(ctx context.Context, url string) (string, error) {
	scrapeParams := &firecrawl.ScrapeParams{
		Formats: s.config.Firecrawl.Formats,
	}

	var doc *firecrawl.FirecrawlDocument
	var err error

	for attempt := 1; attempt <= s.config.Firecrawl.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		// Note: the Firecrawl Go SDK doesn't accept a context; timeout
		// control is handled internally by the SDK.
		doc, err = s.app.ScrapeURL(url, scrapeParams)
		if err == nil {
			break
		}

		s.logger.Warn("Reader proxy attempt failed", map[string]interface{}{
			"attempt":     attempt,
			"max_retries": s.config.Firecrawl.MaxRetries,
			"url":         url,
			"error":       err.Error(),
		})

		if attempt < s.config.Firecrawl.MaxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	if err != nil {
		return "", fmt.Errorf("reader proxy failed after %d attempts: %w", s.config.Firecrawl.MaxRetries, err)
	}

	if doc == nil {
		return "", fmt.Errorf("no result returned from reader proxy")
	}

	var content string
	if doc.Markdown != "" {
		content = stripMarkdown(doc.Markdown)
	} else if doc.HTML != "" {
		content, err = htmlToText(doc.HTML)
		if err != nil {
			return "", fmt.Errorf("failed to parse reader proxy HTML: %w", err)
		}
	} else {
		return "", fmt.Errorf("no content found in reader proxy response")
	}

	s.logger.Debug("Reader proxy returned content", map[string]interface{}{
		"url":            url,
		"content_length": len(content),
	})

	return content, nil
}

// htmlToText strips markup from a rendered document the same way the direct
// strategy treats pages it fetches itself.
func htmlToText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	for _, tag := range strippedTags {
		doc.Find(tag).Remove()
	}
	return doc.Text(), nil
}

var _ Strategy = (*ReaderStrategy)(nil)
