package student

import (
	"time"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/arabtext"
)

type Student struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	AcademicID string    `json:"academic_id"` // external ministry id (Massar code); near-unique, not enforced
	GuardianID string    `json:"guardian_id"` // guardian national id, used for parent auto-linking
	Grade      string    `json:"grade"`
	RoomNumber string    `json:"room_number"`
	SchoolYear string    `json:"school_year"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NameMatches reports whether the given name refers to this student once both
// sides are normalized (equality or containment either way).
func (s Student) NameMatches(name string) bool {
	return arabtext.Match(s.FullName, name)
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	FullName   string `json:"full_name" validate:"required"`
	AcademicID string `json:"academic_id"`
	GuardianID string `json:"guardian_id"`
	Grade      string `json:"grade" validate:"required"`
	RoomNumber string `json:"room_number"`
	SchoolYear string `json:"school_year" validate:"omitempty,schoolyear"`
}

func (ns *NewStudent) Validate() error {
	ns.FullName = core.CleanString(ns.FullName)
	ns.AcademicID = core.CleanString(ns.AcademicID)
	ns.GuardianID = core.CleanString(ns.GuardianID)
	ns.Grade = core.CleanString(ns.Grade)
	ns.RoomNumber = core.CleanString(ns.RoomNumber)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	FullName   string `json:"full_name"`
	AcademicID string `json:"academic_id"`
	GuardianID string `json:"guardian_id"`
	Grade      string `json:"grade"`
	RoomNumber string `json:"room_number"`
	SchoolYear string `json:"school_year" validate:"omitempty,schoolyear"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	if name := core.CleanString(us.FullName); name != "" {
		us.FullName = name
	} else {
		us.FullName = orig.FullName
	}
	if us.AcademicID = core.CleanString(us.AcademicID); us.AcademicID == "" {
		us.AcademicID = orig.AcademicID
	}
	if us.GuardianID = core.CleanString(us.GuardianID); us.GuardianID == "" {
		us.GuardianID = orig.GuardianID
	}
	if us.Grade = core.CleanString(us.Grade); us.Grade == "" {
		us.Grade = orig.Grade
	}
	if us.RoomNumber = core.CleanString(us.RoomNumber); us.RoomNumber == "" {
		us.RoomNumber = orig.RoomNumber
	}
	if us.SchoolYear == "" {
		us.SchoolYear = orig.SchoolYear
	}
	return core.Validate.Struct(us)
}

type QueryFilter struct {
	Search     string `query:"search"` // matched against normalized full name or academic id
	Grade      string `query:"grade"`
	SchoolYear string `query:"school_year"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Grade == "" && qf.SchoolYear == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Grade = core.CleanString(qf.Grade)
	qf.SchoolYear = core.CleanString(qf.SchoolYear)
}
