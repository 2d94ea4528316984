// Package database is the Postgres mirror behind the in-memory store. Every
// entity collection maps to a keyed table `(id text primary key, data jsonb)`;
// the application never queries inside the jsonb payload.
package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/storage/memstore"
)

var mirrorTables = []string{
	memstore.TableStudents,
	memstore.TableUsers,
	memstore.TableHealth,
	memstore.TableAttendance,
	memstore.TableAcademics,
	memstore.TableBehavior,
	memstore.TableDining,
	memstore.TableMaintenance,
	memstore.TableSettings,
}

func Open(conf *core.Config) (*sqlx.DB, error) {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Host,
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return sqlx.Open("postgres", u.String())
}

// StatusCheck waits for the database to be ready, backing off 100ms longer
// between attempts, then runs a round-trip query.
func StatusCheck(ctx context.Context, db *sqlx.DB) error {
	var pingError error
	for attempts := 1; ; attempts++ {
		pingError = db.Ping()
		if pingError == nil {
			break
		}
		select {
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		case <-ctx.Done():
			return errors.Wrap(pingError, "DB ping timeout")
		}
	}

	var ok bool
	return db.QueryRowContext(ctx, "SELECT true").Scan(&ok)
}

// InitTables creates the mirror tables if missing. Safe to run repeatedly.
func InitTables(db *sqlx.DB) error {
	for _, table := range mirrorTables {
		q := fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (id text PRIMARY KEY, data jsonb NOT NULL)",
			pq.QuoteIdentifier(table),
		)
		if _, err := db.Exec(q); err != nil {
			return errors.Wrapf(err, "creating table %s", table)
		}
	}
	return nil
}

// DropTables removes the mirror tables. Used by tests and the admin CLI.
func DropTables(db *sqlx.DB) error {
	for _, table := range mirrorTables {
		q := fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(table))
		if _, err := db.Exec(q); err != nil {
			return errors.Wrapf(err, "dropping table %s", table)
		}
	}
	return nil
}
