package student

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		CreateStudent(st Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		GetStudentByAcademicID(academicID string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		FilterStudents(filter QueryFilter) ([]Student, error)
		UpdateStudent(st Student) (Student, error)
		DeleteStudentsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ns NewStudent, schoolYear string) (Student, error) {
	now := time.Now().UTC()
	year := ns.SchoolYear
	if year == "" {
		year = schoolYear
	}
	st := Student{
		FullName:   ns.FullName,
		AcademicID: ns.AcademicID,
		GuardianID: ns.GuardianID,
		Grade:      ns.Grade,
		RoomNumber: ns.RoomNumber,
		SchoolYear: year,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateStudent(st)
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) GetByAcademicID(academicID string) (Student, error) {
	return svc.repo.GetStudentByAcademicID(academicID)
}

// GetByName returns the first student whose normalized name equals, contains
// or is contained by the given name.
func (svc *Service) GetByName(name string) (Student, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return Student{}, err
	}
	for _, st := range students {
		if st.NameMatches(name) {
			return st, nil
		}
	}
	return Student{}, ErrNotFound
}

func (svc *Service) Filter(filter QueryFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.FilterStudents(filter)
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if err := us.Validate(orig); err != nil {
		return Student{}, err
	}
	orig.FullName = us.FullName
	orig.AcademicID = us.AcademicID
	orig.GuardianID = us.GuardianID
	orig.Grade = us.Grade
	orig.RoomNumber = us.RoomNumber
	orig.SchoolYear = us.SchoolYear
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(orig)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteStudentsByID(ids...)
}
