package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/user"
)

type healthApi struct {
	svc *health.Service
}

func registerHealthAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := healthApi{svc: deps.HealthSvc}

	hg := g.Group("/health", jwt)
	hg.GET("", api.query)
	hg.POST("", api.create, staffMiddleware(user.RoleNurse, user.RoleSupervisor))
	hg.GET("/:id", api.retrieve)
	hg.PUT("/:id", api.update, staffMiddleware(user.RoleNurse, user.RoleSupervisor))
	hg.DELETE("/:id", api.destroy, adminMiddleware(), confirmMiddleware())
}

func (api *healthApi) query(ctx echo.Context) error {
	var recs []health.Record
	var err error
	if studentID := ctx.QueryParam("student_id"); studentID != "" {
		recs, err = api.svc.QueryByStudent(studentID)
	} else {
		recs, err = api.svc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying health records")
	}
	if recs == nil {
		recs = []health.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *healthApi) create(ctx echo.Context) error {
	var data health.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating health record")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *healthApi) retrieve(ctx echo.Context) error {
	rec, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == health.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding health record by ID")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *healthApi) update(ctx echo.Context) error {
	var data health.UpdateRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}

	rec, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == health.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating health record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *healthApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == health.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding health record by ID")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting health record")
	}
	return ctx.NoContent(http.StatusNoContent)
}
