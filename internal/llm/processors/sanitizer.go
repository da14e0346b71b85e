package processors

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"aijobs-utils/pkg/models"
	"aijobs-utils/pkg/utils"
)

// RawJobPayload mirrors the extraction tool's argument object with loose
// types. The model occasionally sends numbers as strings and unknown enum
// values; deserialization here must never fail on those, sanitization decides
// what survives.
type RawJobPayload struct {
	JobTitle string `json:"jobTitle"`

	Address      string `json:"address"`
	LocationType string `json:"locationType"`

	JobTypes []string `json:"jobTypes"`

	PayType     string      `json:"payType"`
	PayRangeMin interface{} `json:"payRangeMin"`
	PayRangeMax interface{} `json:"payRangeMax"`
	PayAmount   interface{} `json:"payAmount"`
	PayPeriod   string      `json:"payPeriod"`

	HighlightOne   string `json:"highlightOne"`
	HighlightTwo   string `json:"highlightTwo"`
	HighlightThree string `json:"highlightThree"`

	Description  string `json:"description"`
	Requirements string `json:"requirements"`

	ApplicationMethod string `json:"applicationMethod"`
	ApplicationLink   string `json:"applicationLink"`
	ApplicationEmail  string `json:"applicationEmail"`

	CompanyName    string `json:"companyName"`
	CompanyWebsite string `json:"companyWebsite"`

	Category          string      `json:"category"`
	AIFocusPercentage interface{} `json:"aiFocusPercentage"`
}

// allowedFragmentTags is the closed set of tags that survive HTML
// sanitization of description and requirements fragments.
var allowedFragmentTags = map[string]bool{
	"p":      true,
	"ul":     true,
	"ol":     true,
	"li":     true,
	"strong": true,
	"em":     true,
	"b":      true,
	"i":      true,
	"br":     true,
}

// SanitizeJobRecord validates and coerces a raw tool payload into a typed
// record. Unknown enum values fall back to documented defaults, malformed
// numbers are dropped, and a listing with no salary signal at all gets the
// estimated fallback band. Only a missing title is fatal.
func SanitizeJobRecord(raw *RawJobPayload, sourceURL string) (*models.ExtractedJobRecord, error) {
	title := strings.TrimSpace(raw.JobTitle)
	if title == "" {
		return nil, utils.NewMissingTitleError()
	}

	record := &models.ExtractedJobRecord{
		JobTitle:  title,
		Address:   strings.TrimSpace(raw.Address),
		SourceURL: sourceURL,
	}

	record.LocationType = coerceLocationType(raw.LocationType)
	record.JobTypes = coerceJobTypes(raw.JobTypes)

	sanitizePay(raw, record)

	record.HighlightOne = sanitizeHighlight(raw.HighlightOne)
	record.HighlightTwo = sanitizeHighlight(raw.HighlightTwo)
	record.HighlightThree = sanitizeHighlight(raw.HighlightThree)

	record.Description = SanitizeHTMLFragment(raw.Description)
	record.Requirements = SanitizeHTMLFragment(raw.Requirements)

	sanitizeApplication(raw, record)

	record.CompanyName = strings.TrimSpace(raw.CompanyName)
	record.CompanyWebsite = strings.TrimSpace(raw.CompanyWebsite)

	record.Category = coerceCategory(raw.Category)
	record.AIFocusPercentage = coerceAIFocus(raw.AIFocusPercentage)

	return record, nil
}

func coerceLocationType(value string) models.LocationType {
	candidate := models.LocationType(strings.ToLower(strings.TrimSpace(value)))
	for _, valid := range models.ValidLocationTypes {
		if candidate == valid {
			return candidate
		}
	}
	return models.DefaultLocationType
}

func coerceJobTypes(values []string) []models.JobType {
	var result []models.JobType
	seen := make(map[models.JobType]bool)
	for _, value := range values {
		candidate := models.JobType(strings.ToLower(strings.TrimSpace(value)))
		for _, valid := range models.ValidJobTypes {
			if candidate == valid && !seen[candidate] {
				seen[candidate] = true
				result = append(result, candidate)
			}
		}
	}
	if len(result) == 0 {
		result = []models.JobType{models.JobTypeFullTime}
	}
	return result
}

// sanitizePay resolves the compensation fields as a unit. An inconsistent
// combination degrades to whatever figures are usable, and a listing with no
// figure at all gets the estimated fallback band.
func sanitizePay(raw *RawJobPayload, record *models.ExtractedJobRecord) {
	min := coerceFloat(raw.PayRangeMin)
	max := coerceFloat(raw.PayRangeMax)
	amount := coerceFloat(raw.PayAmount)

	if min != nil && max != nil && *min > *max {
		min, max = max, min
	}

	payType := models.PayType(strings.ToLower(strings.TrimSpace(raw.PayType)))
	switch payType {
	case models.PayTypeRange:
		if min == nil && max == nil {
			if amount != nil {
				payType = models.PayTypeExact
			} else {
				payType = ""
			}
		}
	case models.PayTypeExact:
		if amount == nil {
			if min != nil || max != nil {
				payType = models.PayTypeRange
			} else {
				payType = ""
			}
		}
	default:
		switch {
		case min != nil || max != nil:
			payType = models.PayTypeRange
		case amount != nil:
			payType = models.PayTypeExact
		default:
			payType = ""
		}
	}

	if payType == "" {
		estimatedMin := float64(models.FallbackSalaryMin)
		estimatedMax := float64(models.FallbackSalaryMax)
		period := models.PayPeriodYear
		rangeType := models.PayTypeRange

		record.PayType = &rangeType
		record.PayRangeMin = &estimatedMin
		record.PayRangeMax = &estimatedMax
		record.PayPeriod = &period
		record.SalaryIsEstimated = true
		return
	}

	record.PayType = &payType
	if payType == models.PayTypeRange {
		record.PayRangeMin = min
		record.PayRangeMax = max
	} else {
		record.PayAmount = amount
	}

	period := coercePayPeriod(raw.PayPeriod)
	record.PayPeriod = &period
}

func coercePayPeriod(value string) models.PayPeriod {
	candidate := models.PayPeriod(strings.ToLower(strings.TrimSpace(value)))
	for _, valid := range models.ValidPayPeriods {
		if candidate == valid {
			return candidate
		}
	}
	return models.DefaultPayPeriod
}

// coerceFloat accepts JSON numbers and numeric strings. Negative and
// unparseable values are dropped.
func coerceFloat(value interface{}) *float64 {
	var parsed float64
	switch v := value.(type) {
	case float64:
		parsed = v
	case int:
		parsed = float64(v)
	case string:
		cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(v))
		if cleaned == "" {
			return nil
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		parsed = f
	default:
		return nil
	}
	if parsed < 0 {
		return nil
	}
	return &parsed
}

func coerceAIFocus(value interface{}) int {
	f := coerceFloat(value)
	if f == nil {
		return 0
	}
	focus := int(*f)
	if focus > 100 {
		return 100
	}
	return focus
}

// sanitizeHighlight trims, strips emoji and em-dashes, and caps the result at
// the highlight length limit on a rune boundary.
func sanitizeHighlight(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF:
			return -1
		case r >= 0x2600 && r <= 0x27BF:
			return -1
		case r == 0xFE0F || r == 0x200D:
			return -1
		case r == '—':
			return '-'
		}
		return r
	}, value)

	cleaned = strings.Join(strings.Fields(cleaned), " ")

	runes := []rune(cleaned)
	if len(runes) > models.MaxHighlightLength {
		cleaned = strings.TrimSpace(string(runes[:models.MaxHighlightLength]))
	}
	return cleaned
}

func coerceCategory(value string) string {
	candidate := strings.ToLower(strings.TrimSpace(value))
	if models.IsValidCategory(candidate) {
		return candidate
	}
	if mapped, ok := models.DefaultCategoryAliases()[candidate]; ok {
		return mapped
	}
	return models.DefaultCategory
}

func sanitizeApplication(raw *RawJobPayload, record *models.ExtractedJobRecord) {
	link := strings.TrimSpace(raw.ApplicationLink)
	email := strings.TrimSpace(raw.ApplicationEmail)

	method := models.ApplicationMethod(strings.ToLower(strings.TrimSpace(raw.ApplicationMethod)))
	switch method {
	case models.ApplicationMethodLink:
		if link == "" && email != "" {
			method = models.ApplicationMethodEmail
		}
	case models.ApplicationMethodEmail:
		if email == "" && link != "" {
			method = models.ApplicationMethodLink
		}
	default:
		if email != "" && link == "" {
			method = models.ApplicationMethodEmail
		} else {
			method = models.DefaultApplicationMethod
		}
	}

	record.ApplicationMethod = method
	record.ApplicationLink = link
	record.ApplicationEmail = email
}

// SanitizeHTMLFragment reduces an HTML fragment to a small allowlist of
// structural tags. Disallowed elements are unwrapped, their text kept;
// attributes are dropped entirely.
func SanitizeHTMLFragment(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return html.EscapeString(stripAllTags(fragment))
	}

	var sb strings.Builder
	for _, node := range nodes {
		renderSanitized(&sb, node)
	}
	return strings.TrimSpace(sb.String())
}

func renderSanitized(sb *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		sb.WriteString(html.EscapeString(node.Data))
		return
	case html.ElementNode:
		if node.Data == "script" || node.Data == "style" {
			return
		}
		if allowedFragmentTags[node.Data] {
			fmt.Fprintf(sb, "<%s>", node.Data)
			for child := node.FirstChild; child != nil; child = child.NextSibling {
				renderSanitized(sb, child)
			}
			if node.Data != "br" {
				fmt.Fprintf(sb, "</%s>", node.Data)
			}
			return
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		renderSanitized(sb, child)
	}
}

func stripAllTags(value string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range value {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
