package memstore

import (
	"github.com/google/uuid"

	"github.com/dartalib/backend/core/maintenance"
)

type maintenanceRepository struct {
	db *table[maintenance.Request]
}

var _ maintenance.Repository = (*maintenanceRepository)(nil) // interface compliance check

func NewMaintenanceRepository(db *DB) maintenance.Repository {
	return &maintenanceRepository{db: db.maintenance}
}

func (repo *maintenanceRepository) CreateRequest(req maintenance.Request) (maintenance.Request, error) {
	req.ID = uuid.NewString()
	repo.db.insert(req.ID, req)
	return req, nil
}

func (repo *maintenanceRepository) QueryAllRequests() ([]maintenance.Request, error) {
	return repo.db.all(), nil
}

func (repo *maintenanceRepository) GetRequestByID(id string) (maintenance.Request, error) {
	if req, ok := repo.db.get(id); ok {
		return req, nil
	}
	return maintenance.Request{}, maintenance.ErrNotFound
}

func (repo *maintenanceRepository) QueryRequestsByStatus(status string) ([]maintenance.Request, error) {
	var reqs []maintenance.Request
	for _, req := range repo.db.all() {
		if req.Status == status {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func (repo *maintenanceRepository) UpdateRequest(req maintenance.Request) (maintenance.Request, error) {
	if !repo.db.update(req.ID, req) {
		return maintenance.Request{}, maintenance.ErrNotFound
	}
	return req, nil
}

func (repo *maintenanceRepository) DeleteRequestsByID(ids ...string) error {
	repo.db.delete(ids...)
	return nil
}
