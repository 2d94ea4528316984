package dining

import (
	"time"

	"github.com/dartalib/backend/core"
)

// Meals
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// Menu is the dish list for one (weekday, meal) slot. One menu per slot;
// writes are upserts.
type Menu struct {
	ID        string    `json:"id"`
	Day       string    `json:"day"` // monday .. sunday
	Meal      string    `json:"meal"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type SetMenu struct {
	Day   string   `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Meal  string   `json:"meal" validate:"required,oneof=breakfast lunch dinner"`
	Items []string `json:"items" validate:"required,min=1,dive,required"`
}

func (sm *SetMenu) Validate() error {
	sm.Day = core.CleanString(sm.Day, true /* lower */)
	sm.Meal = core.CleanString(sm.Meal, true /* lower */)
	for i, item := range sm.Items {
		sm.Items[i] = core.CleanString(item)
	}
	return core.Validate.Struct(sm)
}
