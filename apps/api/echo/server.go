package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/behavior"
	"github.com/dartalib/backend/core/dining"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/importer"
	"github.com/dartalib/backend/core/maintenance"
	"github.com/dartalib/backend/core/settings"
	"github.com/dartalib/backend/core/student"
	"github.com/dartalib/backend/core/user"
	extractsvc "github.com/dartalib/backend/services/extraction"
)

type (
	// ServerDeps holds the Server dependencies.
	ServerDeps struct {
		Conf   *core.Config
		Logger core.Logger

		UserSvc        *user.Service
		StudentSvc     *student.Service
		HealthSvc      *health.Service
		AttendanceSvc  *attendance.Service
		AcademicSvc    *academic.Service
		BehaviorSvc    *behavior.Service
		DiningSvc      *dining.Service
		MaintenanceSvc *maintenance.Service
		SettingsSvc    *settings.Service

		ExtractionSvc *extractsvc.Service
		Reconciler    *importer.Reconciler
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := configureAuth(conf)

	registerUserAPI(v1, jwt, s.deps.UserSvc)
	registerStudentAPI(v1, jwt, s.deps)
	registerHealthAPI(v1, jwt, s.deps)
	registerAttendanceAPI(v1, jwt, s.deps)
	registerAcademicAPI(v1, jwt, s.deps)
	registerBehaviorAPI(v1, jwt, s.deps)
	registerDiningAPI(v1, jwt, s.deps)
	registerMaintenanceAPI(v1, jwt, s.deps)
	registerSettingsAPI(v1, jwt, s.deps)
	registerImportAPI(v1, jwt, s.deps)
}

func (s *Server) Start() {
	s.errs <- s.app.Start(s.deps.Conf.Server.APIAddr)
}

// Errors reports fatal server errors; receiving one means the server is down.
func (s *Server) Errors() <-chan error { return s.errs }

// ShutdownSignal relays SIGINT/SIGTERM; the error handler also feeds it when
// an unrecoverable error asks for a graceful stop.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Dar Attalib API!")
}
