package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/fetcher"
	"aijobs-utils/internal/llm/processors"
	"aijobs-utils/pkg/models"
)

// fakeProvider deserializes nothing; it routes canned payloads through the
// real sanitization pass so results match what the wire path produces.
type fakeProvider struct {
	payload *processors.RawJobPayload
}

func (p *fakeProvider) ExtractJobRecord(_ context.Context, content *models.RawContent) (*models.ExtractedJobRecord, error) {
	return processors.SanitizeJobRecord(p.payload, content.SourceURL)
}

func (p *fakeProvider) ClassifyJob(_ context.Context, _ models.ClassificationInput) (*models.ClassificationRaw, error) {
	return &models.ClassificationRaw{Text: `{"category": "machine-learning", "rationale": "Core ML role.", "confidence": "high"}`}, nil
}

func (p *fakeProvider) IsHealthy(_ context.Context) error { return nil }
func (p *fakeProvider) GetProviderName() string           { return "fake" }

type stubStrategy struct {
	name  string
	text  string
	calls int
}

func (s *stubStrategy) Name() string { return s.name }
func (s *stubStrategy) Fetch(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, nil
}

func TestManagerRejectsCallsBeforeStart(t *testing.T) {
	m := NewManager(config.DefaultConfig())

	_, err := m.ExtractJobRecord(context.Background(), &models.RawContent{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
	assert.False(t, m.IsHealthy())
}

func TestManagerDelegatesToProvider(t *testing.T) {
	m := NewManager(config.DefaultConfig())
	m.provider = &fakeProvider{payload: &processors.RawJobPayload{JobTitle: "Engineer"}}
	m.healthy = true

	record, err := m.ExtractJobRecord(context.Background(), &models.RawContent{Text: "listing", SourceURL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Engineer", record.JobTitle)
	assert.True(t, m.IsHealthy())

	raw, err := m.ClassifyJob(context.Background(), models.ClassificationInput{Title: "Engineer"})
	require.NoError(t, err)
	assert.Contains(t, raw.Text, "machine-learning")
}

// Full pipeline: a page whose direct fetch under-delivers falls through to
// the reader, and the extracted record lands with a valid taxonomy category.
func TestPipelineFallbackThenExtraction(t *testing.T) {
	cfg := config.DefaultConfig()

	direct := &stubStrategy{name: "direct", text: "ten chars."}
	reader := &stubStrategy{
		name: "reader",
		text: strings.Repeat("Machine Learning Engineer building production training pipelines. ", 4),
	}
	f := fetcher.New(cfg, direct, reader)

	content, strategy, err := f.Fetch(context.Background(), "https://example.com/ml-job")
	require.NoError(t, err)
	assert.Equal(t, "reader", strategy)
	assert.Equal(t, 1, direct.calls)
	assert.GreaterOrEqual(t, len(content.Text), cfg.Fetcher.MinContentLen)

	m := NewManager(cfg)
	m.provider = &fakeProvider{payload: &processors.RawJobPayload{
		JobTitle: "Machine Learning Engineer",
		Category: "ml",
	}}
	m.healthy = true

	record, err := m.ExtractJobRecord(context.Background(), content)
	require.NoError(t, err)

	assert.Equal(t, "Machine Learning Engineer", record.JobTitle)
	assert.True(t, models.IsValidCategory(record.Category))
	assert.Equal(t, "https://example.com/ml-job", record.SourceURL)
}
