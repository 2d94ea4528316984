package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	echoapi "github.com/dartalib/backend/apps/api/echo"
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
	emailsvc "github.com/dartalib/backend/services/email"
	extractsvc "github.com/dartalib/backend/services/extraction"
	logsvc "github.com/dartalib/backend/services/logger"
	"github.com/dartalib/backend/storage/database"
	"github.com/dartalib/backend/storage/memstore"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up the record store; the Postgres mirror is optional and the app
	// falls back to mock mode (memory only) when it cannot be reached
	store, closeStore := setUpStore(conf, dbLogger)
	defer closeStore()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(memstore.NewUserRepository(store), mailSvc)
	studentSvc := student.NewService(memstore.NewStudentRepository(store))
	healthSvc := health.NewService(memstore.NewHealthRepository(store))
	attendanceSvc := attendance.NewService(memstore.NewAttendanceRepository(store))
	academicSvc := academic.NewService(memstore.NewAcademicRepository(store))
	behaviorSvc := behavior.NewService(memstore.NewBehaviorRepository(store))
	diningSvc := dining.NewService(memstore.NewDiningRepository(store))
	maintenanceSvc := maintenance.NewService(memstore.NewMaintenanceRepository(store), mailSvc)
	settingsSvc := settings.NewService(memstore.NewSettingsRepository(store))

	extractionSvc := extractsvc.NewService(conf, logger)
	reconciler := importer.NewReconciler(studentSvc, usrSvc, healthSvc, attendanceSvc, academicSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidation()
	user.InitValidators(core.Validate, core.Translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.Publish("store_dirty", expvar.Func(func() interface{} { return store.Dirty() }))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:           conf,
			Logger:         logger,
			UserSvc:        usrSvc,
			StudentSvc:     studentSvc,
			HealthSvc:      healthSvc,
			AttendanceSvc:  attendanceSvc,
			AcademicSvc:    academicSvc,
			BehaviorSvc:    behaviorSvc,
			DiningSvc:      diningSvc,
			MaintenanceSvc: maintenanceSvc,
			SettingsSvc:    settingsSvc,
			ExtractionSvc:  extractionSvc,
			Reconciler:     reconciler,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStore opens the in-memory record store, wiring the Postgres mirror
// behind it when one is reachable. The mirror is best effort: open or ping
// failures demote the app to mock mode instead of aborting startup.
func setUpStore(conf *core.Config, dbLogger core.Logger) (*memstore.DB, func()) {
	closeFn := func() {}
	var mirror memstore.Mirror = memstore.NoopMirror{}

	db, err := database.Open(conf)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err = database.StatusCheck(ctx, db); err == nil {
			err = database.InitTables(db)
		}
	}
	if err != nil {
		dbLogger.Warn(fmt.Sprintf("mirror unavailable, running in mock mode: %v", err))
		if db != nil {
			_ = db.Close()
		}
	} else {
		mirror = database.NewMirror(db)
		closeFn = func() {
			if cerr := db.Close(); cerr != nil {
				dbLogger.Error(fmt.Sprintf("closing mirror: %v", cerr), cerr)
			}
		}
	}

	store := memstore.Open(mirror, dbLogger)
	if err := store.Seed(); err != nil {
		dbLogger.Error(fmt.Sprintf("seeding store from mirror: %v", err), err)
	}
	return store, closeFn
}
