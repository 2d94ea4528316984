package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{svc: deps.AttendanceSvc}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.query)
	ag.POST("/mark", api.mark, staffMiddleware())
	ag.GET("/:id", api.retrieve)
	ag.DELETE("/:id", api.destroy, adminMiddleware(), confirmMiddleware())
}

func (api *attendanceApi) query(ctx echo.Context) error {
	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attendance.Record{})
	}

	var recs []attendance.Record
	var err error
	if filter.IsEmpty() {
		recs, err = api.svc.QueryAll()
	} else {
		recs, err = api.svc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

// mark upserts the (student, day) status; marking the same day again
// overwrites the status in place rather than duplicating the record.
func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.MarkDay
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkDay")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.Mark(data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	rec, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding attendance record by ID")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding attendance record by ID")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	return ctx.NoContent(http.StatusNoContent)
}
