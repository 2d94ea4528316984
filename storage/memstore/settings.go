package memstore

import (
	"github.com/dartalib/backend/core/settings"
)

type settingsRepository struct {
	db *table[settings.Settings]
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) GetSettings() (settings.Settings, error) {
	if s, ok := repo.db.get(settings.SingletonID); ok {
		return s, nil
	}
	return settings.Settings{}, settings.ErrNotFound
}

func (repo *settingsRepository) UpsertSettings(s settings.Settings) (settings.Settings, error) {
	s.ID = settings.SingletonID
	repo.db.upsert(s.ID, s)
	return s, nil
}
