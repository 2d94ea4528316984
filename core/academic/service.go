package academic

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("academic record not found")

type (
	Repository interface {
		CreateRecord(rec Record) (Record, error)
		QueryAllRecords() ([]Record, error)
		GetRecordByID(id string) (Record, error)
		// GetRecordByStudentSemester looks a record up by its natural key.
		GetRecordByStudentSemester(studentID, semester string) (Record, error)
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

func (svc *Service) Create(nr NewRecord, schoolYear string) (Record, error) {
	now := time.Now().UTC()
	year := nr.SchoolYear
	if year == "" {
		year = schoolYear
	}
	rec := Record{
		StudentID:          nr.StudentID,
		Semester:           nr.Semester,
		SchoolYear:         year,
		GeneralAverage:     nr.GeneralAverage,
		Rank:               nr.Rank,
		UnifiedExamAverage: nr.UnifiedExamAverage,
		TeacherDecision:    nr.TeacherDecision,
		Appreciation:       nr.Appreciation,
		Subjects:           nr.Subjects,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return svc.repo.CreateRecord(rec)
}

func (svc *Service) QueryAll() ([]Record, error) {
	return svc.repo.QueryAllRecords()
}

func (svc *Service) GetByID(id string) (Record, error) {
	return svc.repo.GetRecordByID(id)
}

func (svc *Service) GetByStudentSemester(studentID, semester string) (Record, error) {
	return svc.repo.GetRecordByStudentSemester(studentID, semester)
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
	orig.Semester = ur.Semester
	orig.SchoolYear = ur.SchoolYear
	orig.GeneralAverage = *ur.GeneralAverage
	orig.Rank = ur.Rank
	orig.UnifiedExamAverage = ur.UnifiedExamAverage
	orig.TeacherDecision = ur.TeacherDecision
	orig.Appreciation = ur.Appreciation
	orig.Subjects = ur.Subjects
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(orig)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteRecordsByID(ids...)
}
