package attendance

import (
	"time"

	"github.com/dartalib/backend/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

// DateLayout is the ISO day format used for attendance dates.
const DateLayout = "2006-01-02"

// Record holds one attendance status per student per calendar day.
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Date      string    `json:"date"` // ISO day
	Status    string    `json:"status"`
	Remark    string    `json:"remark"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// MarkDay contains information needed to mark a student's day.
// A second mark for the same (student, day) overwrites the status in place.
type MarkDay struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"omitempty,isodate"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
	Remark    string `json:"remark"`
}

func (md *MarkDay) Validate() error {
	md.Status = core.CleanString(md.Status, true /* lower */)
	md.Remark = core.CleanString(md.Remark)
	if md.Date == "" {
		md.Date = time.Now().UTC().Format(DateLayout)
	}
	return core.Validate.Struct(md)
}

type QueryFilter struct {
	StudentID string `query:"student_id"`
	Date      string `query:"date"`
	Status    string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.Date == "" && qf.Status == ""
}
