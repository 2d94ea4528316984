package maintenance

import (
	"time"

	"github.com/dartalib/backend/core"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Statuses
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

type Request struct {
	ID          string    `json:"id"`
	RoomNumber  string    `json:"room_number"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	ReportedBy  string    `json:"reported_by"` // user id
	CreatedAt   time.Time `json:"created_at"`  // UTC
	UpdatedAt   time.Time `json:"updated_at"`  // UTC
}

type NewRequest struct {
	RoomNumber  string `json:"room_number" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority" validate:"required,oneof=low medium high"`
}

func (nr *NewRequest) Validate() error {
	nr.RoomNumber = core.CleanString(nr.RoomNumber)
	nr.Description = core.CleanString(nr.Description)
	nr.Priority = core.CleanString(nr.Priority, true /* lower */)
	return core.Validate.Struct(nr)
}

type UpdateRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=open in_progress resolved"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

func (ur *UpdateRequest) Validate(orig Request) error {
	if ur.Status = core.CleanString(ur.Status, true); ur.Status == "" {
		ur.Status = orig.Status
	}
	if ur.Priority = core.CleanString(ur.Priority, true); ur.Priority == "" {
		ur.Priority = orig.Priority
	}
	return core.Validate.Struct(ur)
}
