package memstore

import (
	"github.com/google/uuid"

	"github.com/dartalib/backend/core/academic"
)

type academicRepository struct {
	db *table[academic.Record]
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{db: db.academics}
}

func (repo *academicRepository) CreateRecord(rec academic.Record) (academic.Record, error) {
	rec.ID = uuid.NewString()
	repo.db.insert(rec.ID, rec)
	return rec, nil
}

func (repo *academicRepository) QueryAllRecords() ([]academic.Record, error) {
	return repo.db.all(), nil
}

func (repo *academicRepository) GetRecordByID(id string) (academic.Record, error) {
	if rec, ok := repo.db.get(id); ok {
		return rec, nil
	}
	return academic.Record{}, academic.ErrNotFound
}

func (repo *academicRepository) GetRecordByStudentSemester(studentID, semester string) (academic.Record, error) {
	for _, rec := range repo.db.all() {
		if rec.StudentID == studentID && rec.Semester == semester {
			return rec, nil
		}
	}
	return academic.Record{}, academic.ErrNotFound
}

func (repo *academicRepository) QueryRecordsByStudent(studentID string) ([]academic.Record, error) {
	var recs []academic.Record
	for _, rec := range repo.db.all() {
		if rec.StudentID == studentID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (repo *academicRepository) UpdateRecord(rec academic.Record) (academic.Record, error) {
	if !repo.db.update(rec.ID, rec) {
		return academic.Record{}, academic.ErrNotFound
	}
	return rec, nil
}

func (repo *academicRepository) DeleteRecordsByID(ids ...string) error {
	repo.db.delete(ids...)
	return nil
}
