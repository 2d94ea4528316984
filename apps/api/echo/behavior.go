package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core/behavior"
)

type behaviorApi struct {
	svc *behavior.Service
}

func registerBehaviorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := behaviorApi{svc: deps.BehaviorSvc}

	bg := g.Group("/behavior", jwt)
	bg.GET("", api.query)
	bg.POST("", api.create, staffMiddleware())
	bg.GET("/:id", api.retrieve)
	bg.PUT("/:id", api.update, staffMiddleware())
	bg.DELETE("/:id", api.destroy, adminMiddleware(), confirmMiddleware())
}

func (api *behaviorApi) query(ctx echo.Context) error {
	var recs []behavior.Record
	var err error
	if studentID := ctx.QueryParam("student_id"); studentID != "" {
		recs, err = api.svc.QueryByStudent(studentID)
	} else {
		recs, err = api.svc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying behavior records")
	}
	if recs == nil {
		recs = []behavior.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *behaviorApi) create(ctx echo.Context) error {
	var data behavior.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating behavior record")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *behaviorApi) retrieve(ctx echo.Context) error {
	rec, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == behavior.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding behavior record by ID")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *behaviorApi) update(ctx echo.Context) error {
	var data behavior.UpdateRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRecord")
	}

	rec, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == behavior.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating behavior record")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *behaviorApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == behavior.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding behavior record by ID")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting behavior record")
	}
	return ctx.NoContent(http.StatusNoContent)
}
