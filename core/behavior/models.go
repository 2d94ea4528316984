package behavior

import (
	"time"

	"github.com/dartalib/backend/core"
)

// Kinds of behavior entries.
const (
	KindMerit    = "merit"
	KindWarning  = "warning"
	KindIncident = "incident"
)

type Record struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	Date        string    `json:"date"` // ISO day
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Points      int       `json:"points"` // positive for merits, negative for sanctions
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewRecord struct {
	StudentID   string `json:"student_id" validate:"required"`
	Date        string `json:"date" validate:"omitempty,isodate"`
	Kind        string `json:"kind" validate:"required,oneof=merit warning incident"`
	Description string `json:"description" validate:"required"`
	Points      int    `json:"points"`
}

func (nr *NewRecord) Validate() error {
	nr.Kind = core.CleanString(nr.Kind, true /* lower */)
	nr.Description = core.CleanString(nr.Description)
	if nr.Date == "" {
		nr.Date = time.Now().UTC().Format("2006-01-02")
	}
	return core.Validate.Struct(nr)
}

type UpdateRecord struct {
	Date        string `json:"date" validate:"omitempty,isodate"`
	Kind        string `json:"kind" validate:"omitempty,oneof=merit warning incident"`
	Description string `json:"description"`
	Points      *int   `json:"points,omitempty"`
}

func (ur *UpdateRecord) Validate(orig Record) error {
	if ur.Date == "" {
		ur.Date = orig.Date
	}
	if ur.Kind = core.CleanString(ur.Kind, true); ur.Kind == "" {
		ur.Kind = orig.Kind
	}
	if ur.Description = core.CleanString(ur.Description); ur.Description == "" {
		ur.Description = orig.Description
	}
	if ur.Points == nil {
		ur.Points = &orig.Points
	}
	return core.Validate.Struct(ur)
}
