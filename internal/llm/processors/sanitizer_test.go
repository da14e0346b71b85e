package processors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aijobs-utils/pkg/models"
)

func TestSanitizeJobRecordMissingTitle(t *testing.T) {
	raw := &RawJobPayload{JobTitle: "   "}

	_, err := SanitizeJobRecord(raw, "https://example.com/job")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing title")
}

func TestSanitizeJobRecordDefaultsUnknownEnums(t *testing.T) {
	raw := &RawJobPayload{
		JobTitle:          "ML Engineer",
		LocationType:      "on-site",
		JobTypes:          []string{"permanent", "full-time", "full-time"},
		ApplicationMethod: "portal",
		ApplicationLink:   "https://example.com/apply",
		Category:          "quantum-stuff",
		PayAmount:         125000.0,
		PayPeriod:         "fortnight",
	}

	record, err := SanitizeJobRecord(raw, "https://example.com/job")
	require.NoError(t, err)

	assert.Equal(t, models.DefaultLocationType, record.LocationType)
	assert.Equal(t, []models.JobType{models.JobTypeFullTime}, record.JobTypes)
	assert.Equal(t, models.DefaultApplicationMethod, record.ApplicationMethod)
	assert.Equal(t, models.DefaultCategory, record.Category)
	require.NotNil(t, record.PayPeriod)
	assert.Equal(t, models.DefaultPayPeriod, *record.PayPeriod)
	assert.False(t, record.SalaryIsEstimated)
}

func TestSanitizeJobRecordCategoryAlias(t *testing.T) {
	raw := &RawJobPayload{JobTitle: "SRE", Category: "devops"}

	record, err := SanitizeJobRecord(raw, "")
	require.NoError(t, err)
	assert.Equal(t, "infrastructure", record.Category)
}

func TestSanitizeJobRecordSalaryFallback(t *testing.T) {
	raw := &RawJobPayload{JobTitle: "Research Scientist"}

	record, err := SanitizeJobRecord(raw, "")
	require.NoError(t, err)

	assert.True(t, record.SalaryIsEstimated)
	require.NotNil(t, record.PayType)
	assert.Equal(t, models.PayTypeRange, *record.PayType)
	require.NotNil(t, record.PayRangeMin)
	require.NotNil(t, record.PayRangeMax)
	assert.Equal(t, float64(models.FallbackSalaryMin), *record.PayRangeMin)
	assert.Equal(t, float64(models.FallbackSalaryMax), *record.PayRangeMax)
	require.NotNil(t, record.PayPeriod)
	assert.Equal(t, models.PayPeriodYear, *record.PayPeriod)
}

func TestSanitizePayNumericStrings(t *testing.T) {
	raw := &RawJobPayload{
		JobTitle:    "Data Engineer",
		PayType:     "range",
		PayRangeMin: "120,000",
		PayRangeMax: "$150000",
		PayPeriod:   "year",
	}

	record, err := SanitizeJobRecord(raw, "")
	require.NoError(t, err)

	require.NotNil(t, record.PayRangeMin)
	require.NotNil(t, record.PayRangeMax)
	assert.Equal(t, 120000.0, *record.PayRangeMin)
	assert.Equal(t, 150000.0, *record.PayRangeMax)
	assert.False(t, record.SalaryIsEstimated)
}

func TestSanitizePaySwapsInvertedRange(t *testing.T) {
	raw := &RawJobPayload{
		JobTitle:    "Engineer",
		PayType:     "range",
		PayRangeMin: 150000.0,
		PayRangeMax: 120000.0,
	}

	record, err := SanitizeJobRecord(raw, "")
	require.NoError(t, err)

	assert.Equal(t, 120000.0, *record.PayRangeMin)
	assert.Equal(t, 150000.0, *record.PayRangeMax)
}

func TestSanitizePayTypeMismatchDegrades(t *testing.T) {
	raw := &RawJobPayload{
		JobTitle:  "Engineer",
		PayType:   "range",
		PayAmount: 95000.0,
	}

	record, err := SanitizeJobRecord(raw, "")
	require.NoError(t, err)

	require.NotNil(t, record.PayType)
	assert.Equal(t, models.PayTypeExact, *record.PayType)
	require.NotNil(t, record.PayAmount)
	assert.Equal(t, 95000.0, *record.PayAmount)
}

func TestSanitizeHighlightStripsEmojiAndCaps(t *testing.T) {
	highlight := sanitizeHighlight("🚀 Work on frontier models — fully remote")
	assert.Equal(t, "Work on frontier models - fully remote", highlight)

	long := strings.Repeat("a", 120)
	capped := sanitizeHighlight(long)
	assert.Len(t, capped, models.MaxHighlightLength)
}

func TestSanitizeApplicationPrefersPresentChannel(t *testing.T) {
	raw := &RawJobPayload{
		JobTitle:          "Engineer",
		ApplicationMethod: "link",
		ApplicationEmail:  "jobs@example.com",
	}

	record, err := SanitizeJobRecord(raw, "")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationMethodEmail, record.ApplicationMethod)
}

func TestSanitizeHTMLFragment(t *testing.T) {
	input := `<div class="x"><p onclick="evil()">Build <strong>ML</strong> systems</p><script>alert(1)</script><ul><li>Go</li></ul></div>`

	out := SanitizeHTMLFragment(input)

	assert.Equal(t, "<p>Build <strong>ML</strong> systems</p><ul><li>Go</li></ul>", out)
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
}

func TestSanitizeHTMLFragmentEmpty(t *testing.T) {
	assert.Equal(t, "", SanitizeHTMLFragment("   "))
}

func TestCoerceAIFocusClamps(t *testing.T) {
	assert.Equal(t, 100, coerceAIFocus(140.0))
	assert.Equal(t, 0, coerceAIFocus(-5.0))
	assert.Equal(t, 85, coerceAIFocus("85"))
	assert.Equal(t, 0, coerceAIFocus(nil))
}
