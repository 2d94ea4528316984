package memstore

import (
	"github.com/google/uuid"

	"github.com/dartalib/backend/core/attendance"
)

type attendanceRepository struct {
	db *table[attendance.Record]
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateRecord(rec attendance.Record) (attendance.Record, error) {
	rec.ID = uuid.NewString()
	repo.db.insert(rec.ID, rec)
	return rec, nil
}

func (repo *attendanceRepository) QueryAllRecords() ([]attendance.Record, error) {
	return repo.db.all(), nil
}

func (repo *attendanceRepository) GetRecordByID(id string) (attendance.Record, error) {
	if rec, ok := repo.db.get(id); ok {
		return rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) GetRecordByStudentDate(studentID, date string) (attendance.Record, error) {
	for _, rec := range repo.db.all() {
		if rec.StudentID == studentID && rec.Date == date {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) FilterRecords(filter attendance.QueryFilter) ([]attendance.Record, error) {
	recs := repo.db.all()

	if filter.StudentID != "" {
		var filtered []attendance.Record
		for _, rec := range recs {
			if rec.StudentID == filter.StudentID {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}
	if recs != nil && filter.Date != "" {
		var filtered []attendance.Record
		for _, rec := range recs {
			if rec.Date == filter.Date {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}
	if recs != nil && filter.Status != "" {
		var filtered []attendance.Record
		for _, rec := range recs {
			if rec.Status == filter.Status {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}

	return recs, nil
}

func (repo *attendanceRepository) UpdateRecord(rec attendance.Record) (attendance.Record, error) {
	if !repo.db.update(rec.ID, rec) {
		return attendance.Record{}, attendance.ErrNotFound
	}
	return rec, nil
}

func (repo *attendanceRepository) DeleteRecordsByID(ids ...string) error {
	repo.db.delete(ids...)
	return nil
}
