package memstore

import (
	"github.com/google/uuid"

	"github.com/dartalib/backend/core/health"
)

type healthRepository struct {
	db *table[health.Record]
}

var _ health.Repository = (*healthRepository)(nil) // interface compliance check

func NewHealthRepository(db *DB) health.Repository {
	return &healthRepository{db: db.health}
}

func (repo *healthRepository) CreateRecord(rec health.Record) (health.Record, error) {
	rec.ID = uuid.NewString()
	repo.db.insert(rec.ID, rec)
	return rec, nil
}

func (repo *healthRepository) QueryAllRecords() ([]health.Record, error) {
	return repo.db.all(), nil
}

func (repo *healthRepository) GetRecordByID(id string) (health.Record, error) {
	if rec, ok := repo.db.get(id); ok {
		return rec, nil
	}
	return health.Record{}, health.ErrNotFound
}

func (repo *healthRepository) GetRecordByStudentDate(studentID, date string) (health.Record, error) {
	for _, rec := range repo.db.all() {
		if rec.StudentID == studentID && rec.Date == date {
			return rec, nil
		}
	}
	return health.Record{}, health.ErrNotFound
}

func (repo *healthRepository) QueryRecordsByStudent(studentID string) ([]health.Record, error) {
	var recs []health.Record
	for _, rec := range repo.db.all() {
		if rec.StudentID == studentID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (repo *healthRepository) UpdateRecord(rec health.Record) (health.Record, error) {
	if !repo.db.update(rec.ID, rec) {
		return health.Record{}, health.ErrNotFound
	}
	return rec, nil
}

func (repo *healthRepository) DeleteRecordsByID(ids ...string) error {
	repo.db.delete(ids...)
	return nil
}
