package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/behavior"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/student"
)

type studentApi struct {
	svc           *student.Service
	healthSvc     *health.Service
	attendanceSvc *attendance.Service
	academicSvc   *academic.Service
	behaviorSvc   *behavior.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:           deps.StudentSvc,
		healthSvc:     deps.HealthSvc,
		attendanceSvc: deps.AttendanceSvc,
		academicSvc:   deps.AcademicSvc,
		behaviorSvc:   deps.BehaviorSvc,
	}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query)
	sg.POST("", api.create, staffMiddleware())
	sg.DELETE("", api.destroyMultiple, adminMiddleware(), confirmMiddleware())
	sg.GET("/:id", api.retrieve)
	sg.GET("/:id/summary", api.summary)
	sg.PUT("/:id", api.update, staffMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware(), confirmMiddleware())
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}

	var students []student.Student
	var err error
	if filter.IsEmpty() {
		students, err = api.svc.QueryAll()
	} else {
		students, err = api.svc.Filter(*filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	st, err := api.svc.Create(data, "")
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, st)
}

// StudentSummary is the aggregated detail view: the student plus every record
// collection attached to them and the running behavior points tally.
type StudentSummary struct {
	Student        student.Student     `json:"student"`
	Health         []health.Record     `json:"health"`
	Attendance     []attendance.Record `json:"attendance"`
	Academics      []academic.Record   `json:"academics"`
	Behavior       []behavior.Record   `json:"behavior"`
	BehaviorPoints int                 `json:"behavior_points"`
}

func (api *studentApi) summary(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}

	sum := StudentSummary{Student: st}
	if sum.Health, err = api.healthSvc.QueryByStudent(st.ID); err != nil {
		return errors.Wrap(err, "querying health records")
	}
	if sum.Attendance, err = api.attendanceSvc.Filter(attendance.QueryFilter{StudentID: st.ID}); err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	if sum.Academics, err = api.academicSvc.QueryByStudent(st.ID); err != nil {
		return errors.Wrap(err, "querying academic records")
	}
	if sum.Behavior, err = api.behaviorSvc.QueryByStudent(st.ID); err != nil {
		return errors.Wrap(err, "querying behavior records")
	}
	if sum.BehaviorPoints, err = api.behaviorSvc.PointsTally(st.ID); err != nil {
		return errors.Wrap(err, "tallying behavior points")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}

	st, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}
