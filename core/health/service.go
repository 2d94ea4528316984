package health

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("health record not found")

type (
	Repository interface {
		CreateRecord(rec Record) (Record, error)
		QueryAllRecords() ([]Record, error)
		GetRecordByID(id string) (Record, error)
		// GetRecordByStudentDate looks a record up by its natural key.
		GetRecordByStudentDate(studentID, date string) (Record, error)
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
		StudentID: nr.StudentID,
		Date:      nr.Date,
		Condition: nr.Condition,
		Severity:  nr.Severity,
		Treatment: nr.Treatment,
		Notes:     nr.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateRecord(rec)
}

func (svc *Service) QueryAll() ([]Record, error) {
	return svc.repo.QueryAllRecords()
}

func (svc *Service) GetByID(id string) (Record, error) {
	return svc.repo.GetRecordByID(id)
}

func (svc *Service) GetByStudentDate(studentID, date string) (Record, error) {
	return svc.repo.GetRecordByStudentDate(studentID, date)
}

func (svc *Service) QueryByStudent(studentID string) ([]Record, error) {
	return svc.repo.QueryRecordsByStudent(studentID)
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
	orig.Condition = ur.Condition
	orig.Severity = ur.Severity
	orig.Treatment = ur.Treatment
	orig.Notes = ur.Notes
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(orig)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteRecordsByID(ids...)
}
