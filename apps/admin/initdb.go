package main

import (
	"errors"

	"github.com/dartalib/backend/storage/database"
)

// initDB creates the mirror tables; with drop, existing tables are removed
// first and their data is lost.
func (cli *commandLine) initDB(drop bool) error {
	if cli.db == nil {
		return errors.New("initdb requires a reachable database mirror")
	}
	if drop {
		if err := database.DropTables(cli.db); err != nil {
			return err
		}
	}
	return database.InitTables(cli.db)
}
