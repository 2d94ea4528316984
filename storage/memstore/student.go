package memstore

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dartalib/backend/core/arabtext"
	"github.com/dartalib/backend/core/student"
)

type studentRepository struct {
	db *table[student.Student]
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	st.ID = uuid.NewString()
	repo.db.insert(st.ID, st)
	return st, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	return repo.db.all(), nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	if st, ok := repo.db.get(id); ok {
		return st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByAcademicID(academicID string) (student.Student, error) {
	academicID = strings.TrimSpace(academicID)
	if academicID == "" {
		return student.Student{}, student.ErrNotFound
	}
	for _, st := range repo.db.all() {
		if strings.TrimSpace(st.AcademicID) == academicID {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	students := repo.db.all()

	if filter.Search != "" {
		var filtered []student.Student
		for _, st := range students {
			if st.NameMatches(filter.Search) ||
				strings.Contains(strings.ToLower(st.AcademicID), strings.ToLower(filter.Search)) {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	if students != nil && filter.Grade != "" {
		var filtered []student.Student
		for _, st := range students {
			if arabtext.Equal(st.Grade, filter.Grade) {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	if students != nil && filter.SchoolYear != "" {
		var filtered []student.Student
		for _, st := range students {
			if st.SchoolYear == filter.SchoolYear {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}

	return students, nil
}

func (repo *studentRepository) UpdateStudent(st student.Student) (student.Student, error) {
	if !repo.db.update(st.ID, st) {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	repo.db.delete(ids...)
	return nil
}
