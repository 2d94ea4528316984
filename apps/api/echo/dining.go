package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core/dining"
)

type diningApi struct {
	svc *dining.Service
}

func registerDiningAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := diningApi{svc: deps.DiningSvc}

	dg := g.Group("/dining", jwt)
	dg.GET("", api.query)
	dg.PUT("", api.set, staffMiddleware())
	dg.DELETE("", api.destroyMultiple, adminMiddleware(), confirmMiddleware())
}

func (api *diningApi) query(ctx echo.Context) error {
	if day, meal := ctx.QueryParam("day"), ctx.QueryParam("meal"); day != "" && meal != "" {
		menu, err := api.svc.GetByDayMeal(day, meal)
		if err != nil {
			if errors.Cause(err) == dining.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding dining menu")
		}
		return ctx.JSON(http.StatusOK, menu)
	}

	menus, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying dining menus")
	}
	if menus == nil {
		menus = []dining.Menu{}
	}
	return ctx.JSON(http.StatusOK, menus)
}

// set upserts the menu for one (weekday, meal) slot.
func (api *diningApi) set(ctx echo.Context) error {
	var data dining.SetMenu
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetMenu")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	menu, err := api.svc.Set(data)
	if err != nil {
		return errors.Wrap(err, "setting dining menu")
	}
	return ctx.JSON(http.StatusOK, menu)
}

func (api *diningApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting dining menus")
	}
	return ctx.NoContent(http.StatusNoContent)
}
