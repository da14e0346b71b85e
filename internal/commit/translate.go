package commit

import (
	"strings"

	"aijobs-utils/internal/store/model"
	"aijobs-utils/pkg/models"
)

// TranslationTables map the free-form values a submission form produces onto
// the persisted schema's enums, plus the per-period multipliers that
// normalize every pay figure to an annual amount. They are injected so the
// mappings can be versioned and tested apart from the commit flow.
type TranslationTables struct {
	LocationTypes     map[string]models.LocationType
	JobTypes          map[string]models.JobType
	PayPeriods        map[string]models.PayPeriod
	AnnualMultipliers map[models.PayPeriod]float64
}

// DefaultTranslationTables returns the production mappings
func DefaultTranslationTables() TranslationTables {
	return TranslationTables{
		LocationTypes: map[string]models.LocationType{
			"fully-remote": models.LocationTypeRemote,
			"remote-first": models.LocationTypeRemote,
			"wfh":          models.LocationTypeRemote,
			"on-site":      models.LocationTypeInPerson,
			"onsite":       models.LocationTypeInPerson,
			"office":       models.LocationTypeInPerson,
			"flexible":     models.LocationTypeHybrid,
			"partial":      models.LocationTypeHybrid,
		},
		JobTypes: map[string]models.JobType{
			"fixed-term": models.JobTypeContract,
			"contractor": models.JobTypeContract,
			"freelance":  models.JobTypeContract,
			"temporary":  models.JobTypeContract,
			"permanent":  models.JobTypeFullTime,
			"fulltime":   models.JobTypeFullTime,
			"parttime":   models.JobTypePartTime,
			"intern":     models.JobTypeInternship,
		},
		PayPeriods: map[string]models.PayPeriod{
			"hourly":   models.PayPeriodHour,
			"daily":    models.PayPeriodDay,
			"weekly":   models.PayPeriodWeek,
			"monthly":  models.PayPeriodMonth,
			"annually": models.PayPeriodYear,
			"annual":   models.PayPeriodYear,
			"yearly":   models.PayPeriodYear,
		},
		AnnualMultipliers: map[models.PayPeriod]float64{
			models.PayPeriodHour:  2080,
			models.PayPeriodDay:   260,
			models.PayPeriodWeek:  52,
			models.PayPeriodMonth: 12,
			models.PayPeriodYear:  1,
		},
	}
}

// translateRecord maps a submitted payload onto a storable job row. Enum
// values pass through the translation tables first, then fall back to the
// sanitization defaults; pay figures come out annualized.
func (t TranslationTables) translateRecord(payload *models.ExtractedJobRecord) *model.Job {
	job := &model.Job{
		Title:             strings.TrimSpace(payload.JobTitle),
		Address:           payload.Address,
		LocationType:      string(t.locationType(payload.LocationType)),
		SalaryIsEstimated: payload.SalaryIsEstimated,
		HighlightOne:      payload.HighlightOne,
		HighlightTwo:      payload.HighlightTwo,
		HighlightThree:    payload.HighlightThree,
		Description:       payload.Description,
		Requirements:      payload.Requirements,
		ApplicationMethod: string(payload.ApplicationMethod),
		ApplicationLink:   payload.ApplicationLink,
		ApplicationEmail:  payload.ApplicationEmail,
		Category:          payload.Category,
		AIFocusPercentage: payload.AIFocusPercentage,
		SourceURL:         payload.SourceURL,
	}

	if !models.IsValidCategory(job.Category) {
		job.Category = models.DefaultCategory
	}

	jobTypes := make([]string, 0, len(payload.JobTypes))
	for _, jt := range payload.JobTypes {
		jobTypes = append(jobTypes, string(t.jobType(jt)))
	}
	if len(jobTypes) == 0 {
		jobTypes = []string{string(models.JobTypeFullTime)}
	}
	job.SetJobTypes(jobTypes)

	job.SalaryMinAnnual, job.SalaryMaxAnnual = t.annualize(payload)

	return job
}

func (t TranslationTables) locationType(value models.LocationType) models.LocationType {
	key := strings.ToLower(strings.TrimSpace(string(value)))
	if mapped, ok := t.LocationTypes[key]; ok {
		return mapped
	}
	for _, valid := range models.ValidLocationTypes {
		if models.LocationType(key) == valid {
			return valid
		}
	}
	return models.DefaultLocationType
}

func (t TranslationTables) jobType(value models.JobType) models.JobType {
	key := strings.ToLower(strings.TrimSpace(string(value)))
	if mapped, ok := t.JobTypes[key]; ok {
		return mapped
	}
	for _, valid := range models.ValidJobTypes {
		if models.JobType(key) == valid {
			return valid
		}
	}
	return models.JobTypeFullTime
}

func (t TranslationTables) payPeriod(value *models.PayPeriod) models.PayPeriod {
	if value == nil {
		return models.DefaultPayPeriod
	}
	key := strings.ToLower(strings.TrimSpace(string(*value)))
	if mapped, ok := t.PayPeriods[key]; ok {
		return mapped
	}
	for _, valid := range models.ValidPayPeriods {
		if models.PayPeriod(key) == valid {
			return valid
		}
	}
	return models.DefaultPayPeriod
}

// annualize converts whatever pay figures the payload carries into an annual
// min/max pair. An exact figure yields min == max; a one-sided range is
// closed with the figure it has.
func (t TranslationTables) annualize(payload *models.ExtractedJobRecord) (float64, float64) {
	period := t.payPeriod(payload.PayPeriod)
	multiplier, ok := t.AnnualMultipliers[period]
	if !ok {
		multiplier = 1
	}

	var min, max float64
	switch {
	case payload.PayAmount != nil:
		min, max = *payload.PayAmount, *payload.PayAmount
	case payload.PayRangeMin != nil && payload.PayRangeMax != nil:
		min, max = *payload.PayRangeMin, *payload.PayRangeMax
	case payload.PayRangeMin != nil:
		min, max = *payload.PayRangeMin, *payload.PayRangeMin
	case payload.PayRangeMax != nil:
		min, max = *payload.PayRangeMax, *payload.PayRangeMax
	default:
		min, max = models.FallbackSalaryMin, models.FallbackSalaryMax
		multiplier = 1
	}

	return min * multiplier, max * multiplier
}
