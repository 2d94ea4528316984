package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/importer"
	"github.com/dartalib/backend/core/settings"
	"github.com/dartalib/backend/core/student"
	extractsvc "github.com/dartalib/backend/services/extraction"
)

type importApi struct {
	extraction  *extractsvc.Service
	reconciler  *importer.Reconciler
	studentSvc  *student.Service
	healthSvc   *health.Service
	academicSvc *academic.Service
	settingsSvc *settings.Service
}

func registerImportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := importApi{
		extraction:  deps.ExtractionSvc,
		reconciler:  deps.Reconciler,
		studentSvc:  deps.StudentSvc,
		healthSvc:   deps.HealthSvc,
		academicSvc: deps.AcademicSvc,
		settingsSvc: deps.SettingsSvc,
	}

	ig := g.Group("/import", jwt, staffMiddleware())
	ig.POST("/extract", api.extract)
	ig.POST("/commit", api.commit)
}

type (
	ExtractResponse struct {
		Domain     importer.Domain       `json:"domain"`
		Candidates []*importer.Candidate `json:"candidates"`
	}

	CommitRequest struct {
		Policy     importer.CommitPolicy `json:"policy"`
		Candidates []*importer.Candidate `json:"candidates" validate:"required,min=1"`
	}
)

func (cr *CommitRequest) Validate() error {
	if cr.Policy != "" && !cr.Policy.Valid() {
		return core.NewValidationError(nil,
			core.FieldError{Field: "policy", Error: "policy must be one of: overwrite, skip"})
	}
	return core.Validate.Struct(cr)
}

// extract parses one uploaded file into matched preview candidates. Nothing
// is persisted here: candidates live only in the response until the operator
// commits or cancels.
func (api *importApi) extract(ctx echo.Context) error {
	domain := importer.Domain(ctx.FormValue("domain"))
	if !domain.Valid() {
		return core.NewValidationError(nil,
			core.FieldError{Field: "domain", Error: "domain must be one of: students, health, attendance, academics"})
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	cands, err := api.extraction.Extract(ctx.Request().Context(), fh.Filename, content, domain)
	if err != nil {
		return errors.Wrap(err, "extracting rows")
	}

	snap, err := api.snapshot()
	if err != nil {
		return errors.Wrap(err, "snapshotting collections")
	}
	importer.NewMatcher(snap).MatchAll(cands)

	if cands == nil {
		cands = []*importer.Candidate{}
	}
	return ctx.JSON(http.StatusOK, ExtractResponse{Domain: domain, Candidates: cands})
}

// commit writes the operator-approved candidates. Row failures are reported
// per row; the batch itself always completes.
func (api *importApi) commit(ctx echo.Context) error {
	var data CommitRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CommitRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res := api.reconciler.Commit(data.Candidates, importer.CommitConfig{
		Policy:     data.Policy,
		SchoolYear: api.settingsSvc.SchoolYear(),
	})
	return ctx.JSON(http.StatusOK, res)
}

func (api *importApi) snapshot() (importer.Snapshot, error) {
	var snap importer.Snapshot
	var err error
	if snap.Students, err = api.studentSvc.QueryAll(); err != nil {
		return snap, err
	}
	if snap.Health, err = api.healthSvc.QueryAll(); err != nil {
		return snap, err
	}
	if snap.Academics, err = api.academicSvc.QueryAll(); err != nil {
		return snap, err
	}
	return snap, nil
}
