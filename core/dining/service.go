package dining

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("dining menu not found")

type (
	Repository interface {
		CreateMenu(menu Menu) (Menu, error)
		QueryAllMenus() ([]Menu, error)
		GetMenuByID(id string) (Menu, error)
		GetMenuByDayMeal(day, meal string) (Menu, error)
		UpdateMenu(menu Menu) (Menu, error)
		DeleteMenusByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Set upserts the menu for a (day, meal) slot.
func (svc *Service) Set(sm SetMenu) (Menu, error) {
	now := time.Now().UTC()
	if menu, err := svc.repo.GetMenuByDayMeal(sm.Day, sm.Meal); err == nil {
		menu.Items = sm.Items
		menu.UpdatedAt = now
		return svc.repo.UpdateMenu(menu)
	} else if err != ErrNotFound {
		return Menu{}, err
	}
	menu := Menu{
		Day:       sm.Day,
		Meal:      sm.Meal,
		Items:     sm.Items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateMenu(menu)
}

func (svc *Service) QueryAll() ([]Menu, error) {
	return svc.repo.QueryAllMenus()
}

func (svc *Service) GetByDayMeal(day, meal string) (Menu, error) {
	return svc.repo.GetMenuByDayMeal(day, meal)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteMenusByID(ids...)
}
