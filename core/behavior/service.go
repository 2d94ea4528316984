package behavior

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("behavior record not found")

type (
	Repository interface {
		CreateRecord(rec Record) (Record, error)
		QueryAllRecords() ([]Record, error)
		GetRecordByID(id string) (Record, error)
		QueryRecordsByStudent(studentID string) ([]Record, error)
		UpdateRecord(rec Record) (Record, error)
		DeleteRecordsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nr NewRecord) (Record, error) {
	now := time.Now().UTC()
	rec := Record{
		StudentID:   nr.StudentID,
		Date:        nr.Date,
		Kind:        nr.Kind,
		Description: nr.Description,
		Points:      nr.Points,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateRecord(rec)
}

func (svc *Service) QueryAll() ([]Record, error) {
	return svc.repo.QueryAllRecords()
}

func (svc *Service) GetByID(id string) (Record, error) {
	return svc.repo.GetRecordByID(id)
}

func (svc *Service) QueryByStudent(studentID string) ([]Record, error) {
	return svc.repo.QueryRecordsByStudent(studentID)
}

// PointsTally sums a student's behavior points.
func (svc *Service) PointsTally(studentID string) (int, error) {
	recs, err := svc.repo.QueryRecordsByStudent(studentID)
	if err != nil {
		return 0, err
	}
	var total int
	for _, rec := range recs {
		total += rec.Points
	}
	return total, nil
}

func (svc *Service) Update(id string, ur UpdateRecord) (Record, error) {
	orig, err := svc.repo.GetRecordByID(id)
	if err != nil {
		return Record{}, err
	}
	if err := ur.Validate(orig); err != nil {
		return Record{}, err
	}
	orig.Date = ur.Date
	orig.Kind = ur.Kind
	orig.Description = ur.Description
	orig.Points = *ur.Points
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(orig)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteRecordsByID(ids...)
}
