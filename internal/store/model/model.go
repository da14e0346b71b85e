package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company is a deduplicated employer record. Dedup is exact-name only;
// "Acme" and "Acme Inc" are deliberately distinct rows.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"index;not null"`
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Job is a committed listing. PaymentID carries a unique index so a webhook
// redelivery racing the existence check degrades into a constraint violation
// instead of a duplicate row.
type Job struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PaymentID string    `gorm:"uniqueIndex;not null"`

	Title        string `gorm:"not null"`
	Address      string
	LocationType string
	JobTypes     string

	SalaryMinAnnual   float64
	SalaryMaxAnnual   float64
	SalaryIsEstimated bool

	HighlightOne   string
	HighlightTwo   string
	HighlightThree string

	Description  string
	Requirements string

	ApplicationMethod string
	ApplicationLink   string
	ApplicationEmail  string

	Category          string `gorm:"index"`
	AIFocusPercentage int
	SourceURL         string

	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
	Company   *Company

	CreatedAt time.Time
	UpdatedAt time.Time
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// SetJobTypes stores the slice as a comma-joined column value
func (j *Job) SetJobTypes(types []string) {
	j.JobTypes = strings.Join(types, ",")
}

// GetJobTypes splits the stored column value back into a slice
func (j *Job) GetJobTypes() []string {
	if j.JobTypes == "" {
		return nil
	}
	return strings.Split(j.JobTypes, ",")
}
