package models

// LocationType describes how a role is situated geographically
type LocationType string

const (
	LocationTypeInPerson LocationType = "in-person"
	LocationTypeRemote   LocationType = "remote"
	LocationTypeHybrid   LocationType = "hybrid"
)

// DefaultLocationType is substituted when extraction yields an unknown value
const DefaultLocationType = LocationTypeInPerson

// ValidLocationTypes is the closed set accepted by sanitization
var ValidLocationTypes = []LocationType{
	LocationTypeInPerson,
	LocationTypeRemote,
	LocationTypeHybrid,
}

// JobType describes the employment terms of a role
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// ValidJobTypes is the closed set accepted by sanitization
var ValidJobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeContract,
	JobTypeInternship,
}

// PayType describes how compensation is expressed on a listing
type PayType string

const (
	PayTypeRange PayType = "range"
	PayTypeExact PayType = "exact"
)

// ValidPayTypes is the closed set accepted by sanitization
var ValidPayTypes = []PayType{PayTypeRange, PayTypeExact}

// PayPeriod is the unit a pay figure is quoted in
type PayPeriod string

const (
	PayPeriodHour  PayPeriod = "hour"
	PayPeriodDay   PayPeriod = "day"
	PayPeriodWeek  PayPeriod = "week"
	PayPeriodMonth PayPeriod = "month"
	PayPeriodYear  PayPeriod = "year"
)

// DefaultPayPeriod is substituted when extraction yields an unknown value
const DefaultPayPeriod = PayPeriodYear

// ValidPayPeriods is the closed set accepted by sanitization
var ValidPayPeriods = []PayPeriod{
	PayPeriodHour,
	PayPeriodDay,
	PayPeriodWeek,
	PayPeriodMonth,
	PayPeriodYear,
}

// ApplicationMethod describes how a candidate applies to a listing
type ApplicationMethod string

const (
	ApplicationMethodLink  ApplicationMethod = "link"
	ApplicationMethodEmail ApplicationMethod = "email"
)

// DefaultApplicationMethod is substituted when extraction yields an unknown value
const DefaultApplicationMethod = ApplicationMethodLink

// ValidApplicationMethods is the closed set accepted by sanitization
var ValidApplicationMethods = []ApplicationMethod{
	ApplicationMethodLink,
	ApplicationMethodEmail,
}

// Fallback compensation injected when a listing carries no salary signal at all
const (
	FallbackSalaryMin = 60000
	FallbackSalaryMax = 90000
)

// MaxHighlightLength bounds each of the three highlight strings
const MaxHighlightLength = 80

// RawContent is the normalized page text produced by the fetcher. It is
// consumed by the extractor and discarded afterwards.
type RawContent struct {
	Text         string `json:"text"`
	SourceURL    string `json:"source_url"`
	LengthCapped bool   `json:"length_capped"`
}

// ExtractedJobRecord is the typed, sanitized result of a structured
// extraction run over a job listing page. Every field has been validated and
// coerced; compensation is guaranteed to carry at least one non-nil figure.
type ExtractedJobRecord struct {
	JobTitle string `json:"jobTitle"`

	Address      string       `json:"address"`
	LocationType LocationType `json:"locationType"`

	JobTypes []JobType `json:"jobTypes"`

	PayType           *PayType   `json:"payType"`
	PayRangeMin       *float64   `json:"payRangeMin"`
	PayRangeMax       *float64   `json:"payRangeMax"`
	PayAmount         *float64   `json:"payAmount"`
	PayPeriod         *PayPeriod `json:"payPeriod"`
	SalaryIsEstimated bool       `json:"salaryIsEstimated"`

	HighlightOne   string `json:"highlightOne"`
	HighlightTwo   string `json:"highlightTwo"`
	HighlightThree string `json:"highlightThree"`

	Description  string `json:"description"`
	Requirements string `json:"requirements"`

	ApplicationMethod ApplicationMethod `json:"applicationMethod"`
	ApplicationLink   string            `json:"applicationLink"`
	ApplicationEmail  string            `json:"applicationEmail"`

	CompanyName    string `json:"companyName"`
	CompanyWebsite string `json:"companyWebsite"`

	Category          string `json:"category"`
	AIFocusPercentage int    `json:"aiFocusPercentage"`

	SourceURL string `json:"sourceUrl,omitempty"`
}

// HasSalarySignal reports whether any compensation figure survived
// sanitization.
func (r *ExtractedJobRecord) HasSalarySignal() bool {
	return r.PayAmount != nil || r.PayRangeMin != nil || r.PayRangeMax != nil
}
