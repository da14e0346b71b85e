package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-utils/pkg/models"
)

func TestParseCleanJSON(t *testing.T) {
	result, err := Parse(`{"category": "machine-learning", "rationale": "Core ML role.", "confidence": "high"}`)
	require.NoError(t, err)

	assert.Equal(t, "machine-learning", result.Category)
	assert.Equal(t, "Core ML role.", result.Rationale)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
}

func TestParseProseWrappedJSON(t *testing.T) {
	text := `Sure, here is the classification:
{"category": "data-engineering", "rationale": "Pipeline and warehouse work.", "confidence": "medium"}
Let me know if you need anything else.`

	result, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "data-engineering", result.Category)
}

func TestParseRepairsSmartQuotesAndTrailingComma(t *testing.T) {
	text := "{“category”: “research”, “rationale”: “Publishes papers.”, “confidence”: “low”,}"

	result, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "research", result.Category)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
}

func TestParseTruncatedFallsBackToFields(t *testing.T) {
	text := `{"category": "computer-vision", "rationale": "Builds detection mod`

	result, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, "computer-vision", result.Category)
	assert.Empty(t, result.Rationale)
}

func TestParseGarbageFails(t *testing.T) {
	_, err := Parse("I could not determine a category for this posting.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable")
}
