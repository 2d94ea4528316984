package academic

import (
	"time"

	"github.com/dartalib/backend/core"
)

// Semesters
const (
	SemesterS1 = "S1"
	SemesterS2 = "S2"
)

// Teacher decisions (end-of-year council).
const (
	DecisionPass   = "ينتقل"
	DecisionRepeat = "يكرر"
)

// Appreciation tiers keyed by general-average thresholds.
const (
	AppreciationExcellent = "ممتاز"
	AppreciationVeryGood  = "حسن جدا"
	AppreciationGood      = "حسن"
	AppreciationFair      = "مستحسن"
	AppreciationWeak      = "ضعيف"
)

// Subject is one graded subject line on a report card.
type Subject struct {
	Name        string  `json:"name"`
	Grade       float64 `json:"grade"`
	Coefficient float64 `json:"coefficient"`
	Observation string  `json:"observation"`
}

// Record is a semester report card. Natural key: (StudentID, Semester)
// within a school-year scope.
type Record struct {
	ID                 string    `json:"id"`
	StudentID          string    `json:"student_id"`
	Semester           string    `json:"semester"`
	SchoolYear         string    `json:"school_year"`
	GeneralAverage     float64   `json:"general_average"`
	Rank               *int      `json:"rank,omitempty"`
	UnifiedExamAverage *float64  `json:"unified_exam_average,omitempty"`
	TeacherDecision    string    `json:"teacher_decision"`
	Appreciation       string    `json:"appreciation"`
	Subjects           []Subject `json:"subjects"`
	CreatedAt          time.Time `json:"created_at"` // UTC
	UpdatedAt          time.Time `json:"updated_at"` // UTC
}

// DecisionFor returns the default council decision for a general average.
func DecisionFor(avg float64) string {
	if avg >= 10 {
		return DecisionPass
	}
	return DecisionRepeat
}

// AppreciationFor returns the appreciation tier for a general average.
func AppreciationFor(avg float64) string {
	switch {
	case avg >= 16:
		return AppreciationExcellent
	case avg >= 14:
		return AppreciationVeryGood
	case avg >= 12:
		return AppreciationGood
	case avg >= 10:
		return AppreciationFair
	default:
		return AppreciationWeak
	}
}

// WeightedAverage computes the coefficient-weighted general average of the
// given subjects; mirrors the manual-entry form's calculator.
func WeightedAverage(subjects []Subject) float64 {
	var sum, coeffs float64
	for _, s := range subjects {
		coeff := s.Coefficient
		if coeff == 0 {
			coeff = 1
		}
		sum += s.Grade * coeff
		coeffs += coeff
	}
	if coeffs == 0 {
		return 0
	}
	return sum / coeffs
}

// NewRecord contains information needed to file a new report card.
type NewRecord struct {
	StudentID          string    `json:"student_id" validate:"required"`
	Semester           string    `json:"semester" validate:"required,oneof=S1 S2"`
	SchoolYear         string    `json:"school_year" validate:"omitempty,schoolyear"`
	GeneralAverage     float64   `json:"general_average" validate:"gte=0,lte=20"`
	Rank               *int      `json:"rank,omitempty"`
	UnifiedExamAverage *float64  `json:"unified_exam_average,omitempty"`
	TeacherDecision    string    `json:"teacher_decision"`
	Appreciation       string    `json:"appreciation"`
	Subjects           []Subject `json:"subjects"`
}

func (nr *NewRecord) Validate() error {
	nr.Semester = core.CleanString(nr.Semester)
	if nr.Semester == "" {
		nr.Semester = SemesterS1
	}
	if nr.GeneralAverage == 0 && len(nr.Subjects) > 0 {
		nr.GeneralAverage = WeightedAverage(nr.Subjects)
	}
	if nr.TeacherDecision == "" {
		nr.TeacherDecision = DecisionFor(nr.GeneralAverage)
	}
	if nr.Appreciation == "" {
		nr.Appreciation = AppreciationFor(nr.GeneralAverage)
	}
	return core.Validate.Struct(nr)
}

// UpdateRecord defines what information may be provided to modify an existing Record.
type UpdateRecord struct {
	Semester           string    `json:"semester" validate:"omitempty,oneof=S1 S2"`
	SchoolYear         string    `json:"school_year" validate:"omitempty,schoolyear"`
	GeneralAverage     *float64  `json:"general_average,omitempty" validate:"omitempty,gte=0,lte=20"`
	Rank               *int      `json:"rank,omitempty"`
	UnifiedExamAverage *float64  `json:"unified_exam_average,omitempty"`
	TeacherDecision    string    `json:"teacher_decision"`
	Appreciation       string    `json:"appreciation"`
	Subjects           []Subject `json:"subjects"`
}

func (ur *UpdateRecord) Validate(orig Record) error {
	if ur.Semester == "" {
		ur.Semester = orig.Semester
	}
	if ur.SchoolYear == "" {
		ur.SchoolYear = orig.SchoolYear
	}
	if ur.GeneralAverage == nil {
		ur.GeneralAverage = &orig.GeneralAverage
	}
	if ur.Rank == nil {
		ur.Rank = orig.Rank
	}
	if ur.UnifiedExamAverage == nil {
		ur.UnifiedExamAverage = orig.UnifiedExamAverage
	}
	if ur.TeacherDecision == "" {
		ur.TeacherDecision = DecisionFor(*ur.GeneralAverage)
	}
	if ur.Appreciation == "" {
		ur.Appreciation = AppreciationFor(*ur.GeneralAverage)
	}
	if ur.Subjects == nil {
		ur.Subjects = orig.Subjects
	}
	return core.Validate.Struct(ur)
}
