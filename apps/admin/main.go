package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/user"
	emailsvc "github.com/dartalib/backend/services/email"
	logsvc "github.com/dartalib/backend/services/logger"
	"github.com/dartalib/backend/storage/database"
	"github.com/dartalib/backend/storage/memstore"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	core.InitValidation()
	user.InitValidators(core.Validate, core.Translator)

	storeLogger := logsvc.NewRollbarLogger(logger, conf)
	storeLogger.Enable(false)

	// the mirror is optional for user commands but required for initdb
	cli := commandLine{}
	var mirror memstore.Mirror = memstore.NoopMirror{}
	if db, err := database.Open(conf); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err = database.StatusCheck(ctx, db); err == nil {
			cli.db = db
			mirror = database.NewMirror(db)
			defer db.Close()
		} else {
			logger.Printf("mirror unavailable, running in mock mode: %v", err)
			_ = db.Close()
		}
		cancel()
	}

	cli.store = memstore.Open(mirror, storeLogger)
	if cli.db != nil {
		if err := cli.store.Seed(); err != nil {
			logger.Printf("seeding store from mirror: %v", err)
		}
	}
	cli.usrSvc = user.NewService(memstore.NewUserRepository(cli.store), emailsvc.NewConsoleServiceMock())

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		cli.store.Wait()
		os.Exit(1)
	}

	// let in-flight mirror writes land before exiting
	cli.store.Wait()
}
