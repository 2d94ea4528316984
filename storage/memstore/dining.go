package memstore

import (
	"github.com/google/uuid"

	"github.com/dartalib/backend/core/dining"
)

type diningRepository struct {
	db *table[dining.Menu]
}

var _ dining.Repository = (*diningRepository)(nil) // interface compliance check

func NewDiningRepository(db *DB) dining.Repository {
	return &diningRepository{db: db.dining}
}

func (repo *diningRepository) CreateMenu(menu dining.Menu) (dining.Menu, error) {
	menu.ID = uuid.NewString()
	repo.db.insert(menu.ID, menu)
	return menu, nil
}

func (repo *diningRepository) QueryAllMenus() ([]dining.Menu, error) {
	return repo.db.all(), nil
}

func (repo *diningRepository) GetMenuByID(id string) (dining.Menu, error) {
	if menu, ok := repo.db.get(id); ok {
		return menu, nil
	}
	return dining.Menu{}, dining.ErrNotFound
}

func (repo *diningRepository) GetMenuByDayMeal(day, meal string) (dining.Menu, error) {
	for _, menu := range repo.db.all() {
		if menu.Day == day && menu.Meal == meal {
			return menu, nil
		}
	}
	return dining.Menu{}, dining.ErrNotFound
}

func (repo *diningRepository) UpdateMenu(menu dining.Menu) (dining.Menu, error) {
	if !repo.db.update(menu.ID, menu) {
		return dining.Menu{}, dining.ErrNotFound
	}
	return menu, nil
}

func (repo *diningRepository) DeleteMenusByID(ids ...string) error {
	repo.db.delete(ids...)
	return nil
}
