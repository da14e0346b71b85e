package classifier

import (
	"encoding/json"
	"regexp"
	"strings"

	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

// The classifier model mostly emits clean tool arguments, but under load it
// occasionally produces near-JSON: smart quotes, trailing commas, prose
// around the object. Parse is a two-tier defense: repair-then-unmarshal
// first, per-field regex extraction second. Callers never learn which tier
// succeeded.

var (
	braceRegex = regexp.MustCompile(`(?s)\{.*\}`)

	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)

	categoryFieldRegex   = regexp.MustCompile(`"?category"?\s*[:=]\s*"([^"]+)"`)
	rationaleFieldRegex  = regexp.MustCompile(`"?rationale"?\s*[:=]\s*"([^"]*)"`)
	confidenceFieldRegex = regexp.MustCompile(`"?confidence"?\s*[:=]\s*"([^"]+)"`)

	smartQuoteReplacer = strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)
)

// Parse extracts a ClassificationResult from raw model output. The result is
// unvalidated; taxonomy membership and rationale quality are the classifier's
// concern, not the parser's.
func Parse(text string) (*models.ClassificationResult, error) {
	if result, ok := parseStrict(text); ok {
		return result, nil
	}
	if result, ok := parseFields(text); ok {
		return result, nil
	}
	return nil, utils.NewClassificationParseError(snippet(text))
}

func parseStrict(text string) (*models.ClassificationResult, bool) {
	candidate := braceRegex.FindString(text)
	if candidate == "" {
		return nil, false
	}

	candidate = smartQuoteReplacer.Replace(candidate)
	candidate = trailingCommaRegex.ReplaceAllString(candidate, "$1")

	var parsed struct {
		Category   string `json:"category"`
		Rationale  string `json:"rationale"`
		Confidence string `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	if strings.TrimSpace(parsed.Category) == "" {
		return nil, false
	}

	return &models.ClassificationResult{
		Category:   strings.TrimSpace(parsed.Category),
		Rationale:  strings.TrimSpace(parsed.Rationale),
		Confidence: models.Confidence(strings.TrimSpace(parsed.Confidence)),
	}, true
}

// parseFields scavenges individual fields from text that never forms a valid
// object, typically truncated output. Category is the only mandatory find.
func parseFields(text string) (*models.ClassificationResult, bool) {
	normalized := smartQuoteReplacer.Replace(text)

	categoryMatch := categoryFieldRegex.FindStringSubmatch(normalized)
	if categoryMatch == nil {
		return nil, false
	}

	result := &models.ClassificationResult{
		Category: strings.TrimSpace(categoryMatch[1]),
	}
	if m := rationaleFieldRegex.FindStringSubmatch(normalized); m != nil {
		result.Rationale = strings.TrimSpace(m[1])
	}
	if m := confidenceFieldRegex.FindStringSubmatch(normalized); m != nil {
		result.Confidence = models.Confidence(strings.TrimSpace(m[1]))
	}
	return result, true
}

func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > 120 {
		text = text[:120] + "..."
	}
	return text
}
