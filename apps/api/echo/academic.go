package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/settings"
	"github.com/dartalib/backend/core/user"
)

type academicApi struct {
	svc         *academic.Service
	settingsSvc *settings.Service
}

func registerAcademicAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := academicApi{svc: deps.AcademicSvc, settingsSvc: deps.SettingsSvc}

	ag := g.Group("/academics", jwt)
	ag.GET("", api.query)
	ag.POST("", api.create, staffMiddleware(user.RoleTeacher, user.RoleSupervisor))
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, staffMiddleware(user.RoleTeacher, user.RoleSupervisor))
	ag.DELETE("/:id", api.destroy, adminMiddleware(), confirmMiddleware())
}

func (api *academicApi) query(ctx echo.Context) error {
	var recs []academic.Record
	var err error
	if studentID := ctx.QueryParam("student_id"); studentID != "" {
		recs, err = api.svc.QueryByStudent(studentID)
	} else {
		recs, err = api.svc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying academic records")
	}
	if recs == nil {
		recs = []academic.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *academicApi) create(ctx echo.Context) error {
	var data academic.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.Create(data, api.settingsSvc.SchoolYear())
	if err != nil {
		return errors.Wrap(err, "creating academic record")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *academicApi) retrieve(ctx echo.Context) error {
	rec, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == academic.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding academic record by ID")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *academicApi) update(ctx echo.Context) error {
	var data academic.UpdateRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}

	rec, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == academic.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating academic record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *academicApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == academic.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding academic record by ID")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting academic record")
	}
	return ctx.NoContent(http.StatusNoContent)
}
