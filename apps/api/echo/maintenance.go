package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core/maintenance"
	"github.com/dartalib/backend/core/user"
)

type maintenanceApi struct {
	svc     *maintenance.Service
	userSvc *user.Service
}

func registerMaintenanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := maintenanceApi{svc: deps.MaintenanceSvc, userSvc: deps.UserSvc}

	mg := g.Group("/maintenance", jwt)
	mg.GET("", api.query)
	mg.POST("", api.create) // any authenticated user may report
	mg.GET("/:id", api.retrieve)
	mg.PUT("/:id", api.update, staffMiddleware())
	mg.DELETE("/:id", api.destroy, adminMiddleware(), confirmMiddleware())
}

func (api *maintenanceApi) query(ctx echo.Context) error {
	var reqs []maintenance.Request
	var err error
	if status := ctx.QueryParam("status"); status != "" {
		reqs, err = api.svc.QueryByStatus(status)
	} else {
		reqs, err = api.svc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying maintenance requests")
	}
	if reqs == nil {
		reqs = []maintenance.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *maintenanceApi) create(ctx echo.Context) error {
	var data maintenance.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	req, err := api.svc.Create(data, ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "creating maintenance request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *maintenanceApi) retrieve(ctx echo.Context) error {
	req, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == maintenance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding maintenance request by ID")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *maintenanceApi) update(ctx echo.Context) error {
	var data maintenance.UpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRequest")
	}

	req, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == maintenance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating maintenance request")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *maintenanceApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == maintenance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding maintenance request by ID")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting maintenance request")
	}
	return ctx.NoContent(http.StatusNoContent)
}
