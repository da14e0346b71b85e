package fetcher

import "context"

// Strategy fetches raw page text for a URL. Implementations are tried in
// order by the Fetcher; a strategy either returns usable text or an error,
// and the shared acceptance gate decides whether the next one runs.
type Strategy interface {
	// Name identifies the strategy in logs and responses
	Name() string

	// Fetch retrieves the page text. The context carries the deadline; a
	// hung upstream must not hang the caller indefinitely.
	Fetch(ctx context.Context, url string) (string, error)
}
