package memstore

import (
	"github.com/google/uuid"

	"github.com/dartalib/backend/core/behavior"
)

type behaviorRepository struct {
	db *table[behavior.Record]
}

var _ behavior.Repository = (*behaviorRepository)(nil) // interface compliance check

func NewBehaviorRepository(db *DB) behavior.Repository {
	return &behaviorRepository{db: db.behavior}
}

func (repo *behaviorRepository) CreateRecord(rec behavior.Record) (behavior.Record, error) {
	rec.ID = uuid.NewString()
	repo.db.insert(rec.ID, rec)
	return rec, nil
}

func (repo *behaviorRepository) QueryAllRecords() ([]behavior.Record, error) {
	return repo.db.all(), nil
}

func (repo *behaviorRepository) GetRecordByID(id string) (behavior.Record, error) {
	if rec, ok := repo.db.get(id); ok {
		return rec, nil
	}
	return behavior.Record{}, behavior.ErrNotFound
}

func (repo *behaviorRepository) QueryRecordsByStudent(studentID string) ([]behavior.Record, error) {
	var recs []behavior.Record
	for _, rec := range repo.db.all() {
		if rec.StudentID == studentID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (repo *behaviorRepository) UpdateRecord(rec behavior.Record) (behavior.Record, error) {
	if !repo.db.update(rec.ID, rec) {
		return behavior.Record{}, behavior.ErrNotFound
	}
	return rec, nil
}

func (repo *behaviorRepository) DeleteRecordsByID(ids ...string) error {
	repo.db.delete(ids...)
	return nil
}
