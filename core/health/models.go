package health

import (
	"time"

	"github.com/dartalib/backend/core"
)

// Severity levels
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// DateLayout is the ISO day format used for visit dates.
const DateLayout = "2006-01-02"

// Record is a single infirmary visit. At most one record per
// (StudentID, Date) pair is treated as the same visit during import.
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Date      string    `json:"date"` // ISO day, e.g. 2026-01-15
	Condition string    `json:"condition"`
	Severity  string    `json:"severity"`
	Treatment string    `json:"treatment"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewRecord contains information needed to log a new infirmary visit.
type NewRecord struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"omitempty,isodate"`
	Condition string `json:"condition" validate:"required"`
	Severity  string `json:"severity" validate:"required,oneof=low medium high"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes"`
}

func (nr *NewRecord) Validate() error {
	nr.Condition = core.CleanString(nr.Condition)
	// imported sheets often omit severity; an unstated visit is a low one
	if nr.Severity = core.CleanString(nr.Severity, true /* lower */); nr.Severity == "" {
		nr.Severity = SeverityLow
	}
	if nr.Date == "" {
		nr.Date = time.Now().UTC().Format(DateLayout)
	}
	return core.Validate.Struct(nr)
}

// UpdateRecord defines what information may be provided to modify an existing Record.
type UpdateRecord struct {
	Date      string `json:"date" validate:"omitempty,isodate"`
	Condition string `json:"condition"`
	Severity  string `json:"severity" validate:"omitempty,oneof=low medium high"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes"`
}

func (ur *UpdateRecord) Validate(orig Record) error {
	if ur.Date == "" {
		ur.Date = orig.Date
	}
	if ur.Condition = core.CleanString(ur.Condition); ur.Condition == "" {
		ur.Condition = orig.Condition
	}
	if ur.Severity = core.CleanString(ur.Severity, true); ur.Severity == "" {
		ur.Severity = orig.Severity
	}
	if ur.Treatment == "" {
		ur.Treatment = orig.Treatment
	}
	if ur.Notes == "" {
		ur.Notes = orig.Notes
	}
	return core.Validate.Struct(ur)
}
