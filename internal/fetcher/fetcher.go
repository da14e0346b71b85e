package fetcher

import (
	"context"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/logging"
	"aijobs-utils/internal/logging/types"
	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

// Fetcher retrieves raw page text for a URL by trying an ordered list of
// strategies against a shared acceptance gate. Strategies run sequentially,
// never raced: the fallback is only attempted after the primary definitively
// fails or under-delivers, since the reader proxy costs money per call.
type Fetcher struct {
	config     *config.Config
	strategies []Strategy
	logger     types.Logger
}

// New creates a Fetcher with the given strategy order
func New(cfg *config.Config, strategies ...Strategy) *Fetcher {
	return &Fetcher{
		config:     cfg,
		strategies: strategies,
		logger:     logging.GetGlobalLogger(),
	}
}

// NewDefault wires the production strategy order: direct GET first, reader
// proxy second.
func NewDefault(cfg *config.Config) (*Fetcher, error) {
	reader, err := NewReaderStrategy(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, NewDirectStrategy(cfg), reader), nil
}

// Fetch tries each strategy in order and returns the first accepted result,
// normalized and capped. Returns a terminal FetchError when every strategy
// fails or under-delivers; no partial result is ever returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*models.RawContent, string, error) {
	for _, strategy := range f.strategies {
		attemptCtx, cancel := context.WithTimeout(ctx, f.config.Fetcher.RequestTimeout)
		text, err := strategy.Fetch(attemptCtx, url)
		cancel()

		if err != nil {
			f.logger.Warn("Fetch strategy failed", map[string]interface{}{
				"strategy": strategy.Name(),
				"url":      url,
				"error":    err.Error(),
			})
			continue
		}

		text = normalizeWhitespace(text)
		if !f.accept(text) {
			f.logger.Warn("Fetch strategy under-delivered", map[string]interface{}{
				"strategy":       strategy.Name(),
				"url":            url,
				"content_length": len(text),
				"min_required":   f.config.Fetcher.MinContentLen,
			})
			continue
		}

		capped, wasCapped := capLength(text, f.config.Fetcher.MaxContentLen)

		f.logger.Info("Fetched listing content", map[string]interface{}{
			"strategy":       strategy.Name(),
			"url":            url,
			"content_length": len(capped),
			"length_capped":  wasCapped,
		})

		return &models.RawContent{
			Text:         capped,
			SourceURL:    url,
			LengthCapped: wasCapped,
		}, strategy.Name(), nil
	}

	return nil, "", utils.NewFetchError(url)
}

// accept is the shared gate every strategy result must pass
func (f *Fetcher) accept(normalized string) bool {
	return len(normalized) >= f.config.Fetcher.MinContentLen
}
