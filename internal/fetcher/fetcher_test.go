package fetcher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-utils/internal/config"
	"aijobs-utils/pkg/utils"
)

// stubStrategy returns canned text or an error and counts invocations
type stubStrategy struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func fetcherConfig() *config.Config {
	return config.DefaultConfig()
}

func longText() string {
	return strings.Repeat("Machine learning engineer role with strong production focus. ", 5)
}

func TestFetchPrimarySufficientSkipsFallback(t *testing.T) {
	primary := &stubStrategy{name: "direct", text: longText()}
	fallback := &stubStrategy{name: "reader", text: longText()}
	f := New(fetcherConfig(), primary, fallback)

	content, strategy, err := f.Fetch(context.Background(), "https://example.com/job")
	require.NoError(t, err)

	assert.Equal(t, "direct", strategy)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
	assert.GreaterOrEqual(t, len(content.Text), 50)
}

func TestFetchFallsBackOnShortPrimary(t *testing.T) {
	primary := &stubStrategy{name: "direct", text: "too short"}
	fallback := &stubStrategy{name: "reader", text: longText()}
	f := New(fetcherConfig(), primary, fallback)

	content, strategy, err := f.Fetch(context.Background(), "https://example.com/job")
	require.NoError(t, err)

	assert.Equal(t, "reader", strategy)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
	assert.NotNil(t, content)
}

func TestFetchFallsBackOnPrimaryError(t *testing.T) {
	primary := &stubStrategy{name: "direct", err: errors.New("connection refused")}
	fallback := &stubStrategy{name: "reader", text: longText()}
	f := New(fetcherConfig(), primary, fallback)

	_, strategy, err := f.Fetch(context.Background(), "https://example.com/job")
	require.NoError(t, err)
	assert.Equal(t, "reader", strategy)
}

func TestFetchAllStrategiesUnderDeliverIsTerminal(t *testing.T) {
	primary := &stubStrategy{name: "direct", text: "tiny"}
	fallback := &stubStrategy{name: "reader", text: "also tiny"}
	f := New(fetcherConfig(), primary, fallback)

	content, _, err := f.Fetch(context.Background(), "https://example.com/job")
	require.Error(t, err)
	assert.Nil(t, content)

	var customErr *utils.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, 422, customErr.Code)
}

func TestFetchNormalizesBeforeGate(t *testing.T) {
	// 60 bytes of whitespace padding around 10 real characters must not pass
	padded := "   abcdefghij" + strings.Repeat(" \n\t", 20)
	primary := &stubStrategy{name: "direct", text: padded}
	f := New(fetcherConfig(), primary)

	_, _, err := f.Fetch(context.Background(), "https://example.com/job")
	require.Error(t, err)
}

func TestFetchCapsLength(t *testing.T) {
	cfg := fetcherConfig()
	cfg.Fetcher.MaxContentLen = 100
	primary := &stubStrategy{name: "direct", text: longText()}
	f := New(cfg, primary)

	content, _, err := f.Fetch(context.Background(), "https://example.com/job")
	require.NoError(t, err)

	assert.Len(t, content.Text, 100)
	assert.True(t, content.LengthCapped)
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", normalizeWhitespace("  a\n\n b\t\tc  "))
	assert.Equal(t, "", normalizeWhitespace(" \n\t "))
}

func TestStripMarkdown(t *testing.T) {
	input := `# Senior ML Engineer

**Remote** position at [Acme](https://acme.example).

- Build pipelines
- Ship models

> Apply below
`
	out := normalizeWhitespace(stripMarkdown(input))

	assert.NotContains(t, out, "#")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "](")
	assert.Contains(t, out, "Senior ML Engineer")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Build pipelines")
}

func TestCapLength(t *testing.T) {
	capped, wasCapped := capLength("abcdef", 4)
	assert.Equal(t, "abcd", capped)
	assert.True(t, wasCapped)

	uncapped, wasCapped := capLength("abc", 4)
	assert.Equal(t, "abc", uncapped)
	assert.False(t, wasCapped)
}

func TestCapLengthKeepsRunesIntact(t *testing.T) {
	// "é" is two bytes; a cap of 3 lands mid-rune
	capped, wasCapped := capLength("aéé", 3)
	assert.Equal(t, "aé", capped)
	assert.True(t, wasCapped)
	assert.True(t, utf8.ValidString(capped))

	capped, wasCapped = capLength("日本語", 4)
	assert.Equal(t, "日", capped)
	assert.True(t, wasCapped)
	assert.True(t, utf8.ValidString(capped))
}

func TestHTMLToText(t *testing.T) {
	markup := `<html><head><script>tracker()</script><style>p{}</style></head>
<body><nav>Menu</nav><p>Machine Learning Engineer at <strong>Acme</strong></p></body></html>`

	text, err := htmlToText(markup)
	require.NoError(t, err)

	out := normalizeWhitespace(text)
	assert.Contains(t, out, "Machine Learning Engineer at Acme")
	assert.NotContains(t, out, "tracker")
	assert.NotContains(t, out, "<p>")
	assert.NotContains(t, out, "Menu")
}
