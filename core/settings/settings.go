package settings

import (
	"errors"
	"time"

	"github.com/dartalib/backend/core"
)

var ErrNotFound = errors.New("settings not found")

// SingletonID is the fixed identifier of the one settings record; the mirror
// write for it is an upsert-by-id.
const SingletonID = "settings"

type Settings struct {
	ID           string    `json:"id"`
	SchoolName   string    `json:"school_name"`
	DirectorName string    `json:"director_name"`
	SchoolYear   string    `json:"school_year"` // currently-selected scope, e.g. 2025-2026
	Capacity     int       `json:"capacity"`
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

type UpdateSettings struct {
	SchoolName   string `json:"school_name"`
	DirectorName string `json:"director_name"`
	SchoolYear   string `json:"school_year" validate:"omitempty,schoolyear"`
	Capacity     *int   `json:"capacity,omitempty" validate:"omitempty,gte=0"`
}

func (us *UpdateSettings) Validate() error {
	us.SchoolName = core.CleanString(us.SchoolName)
	us.DirectorName = core.CleanString(us.DirectorName)
	return core.Validate.Struct(us)
}

type (
	Repository interface {
		GetSettings() (Settings, error)
		// UpsertSettings stores the singleton record, creating it on first write.
		UpsertSettings(s Settings) (Settings, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get() (Settings, error) {
	return svc.repo.GetSettings()
}

// SchoolYear returns the currently-selected school-year scope.
func (svc *Service) SchoolYear() string {
	s, err := svc.repo.GetSettings()
	if err != nil {
		return ""
	}
	return s.SchoolYear
}

func (svc *Service) Update(us UpdateSettings) (Settings, error) {
	s, err := svc.repo.GetSettings()
	if err != nil {
		s = Settings{ID: SingletonID}
	}
	if us.SchoolName != "" {
		s.SchoolName = us.SchoolName
	}
	if us.DirectorName != "" {
		s.DirectorName = us.DirectorName
	}
	if us.SchoolYear != "" {
		s.SchoolYear = us.SchoolYear
	}
	if us.Capacity != nil {
		s.Capacity = *us.Capacity
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpsertSettings(s)
}
