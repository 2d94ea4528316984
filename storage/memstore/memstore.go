// Package memstore holds the authoritative in-memory collections behind every
// domain repository. All reads and writes hit memory; writes are mirrored
// asynchronously to a persistence backend and a mirror failure never fails
// the request. On startup the collections are seeded from the mirror.
package memstore

import (
	"sync"
	"sync/atomic"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/behavior"
	"github.com/dartalib/backend/core/dining"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/maintenance"
	"github.com/dartalib/backend/core/settings"
	"github.com/dartalib/backend/core/student"
	"github.com/dartalib/backend/core/user"
)

// Mirror table names.
const (
	TableStudents    = "students"
	TableUsers       = "users"
	TableHealth      = "health_records"
	TableAttendance  = "attendance_records"
	TableAcademics   = "academic_records"
	TableBehavior    = "behavior_records"
	TableDining      = "dining_menus"
	TableMaintenance = "maintenance_requests"
	TableSettings    = "app_settings"
)

// MirrorRow is one persisted row as the mirror returns it.
type MirrorRow struct {
	ID   string
	Data []byte
}

// Mirror is the persistence backend the in-memory store shadows its writes
// to. Implementations must be safe for concurrent use; callers treat every
// operation as best-effort.
type Mirror interface {
	Insert(table, id string, v interface{}) error
	Update(table, id string, v interface{}) error
	Upsert(table, id string, v interface{}) error
	Delete(table, id string) error
	SelectAll(table string) ([]MirrorRow, error)
}

// NoopMirror discards every write and returns no rows. It backs mock mode,
// where the application runs fully in memory.
type NoopMirror struct{}

var _ Mirror = (*NoopMirror)(nil)

func (NoopMirror) Insert(string, string, interface{}) error { return nil }
func (NoopMirror) Update(string, string, interface{}) error { return nil }
func (NoopMirror) Upsert(string, string, interface{}) error { return nil }
func (NoopMirror) Delete(string, string) error              { return nil }
func (NoopMirror) SelectAll(string) ([]MirrorRow, error)    { return nil, nil }

// DB bundles the per-collection tables.
type DB struct {
	students    *table[student.Student]
	users       *table[user.User]
	health      *table[health.Record]
	attendance  *table[attendance.Record]
	academics   *table[academic.Record]
	behavior    *table[behavior.Record]
	dining      *table[dining.Menu]
	maintenance *table[maintenance.Request]
	settings    *table[settings.Settings]

	pending sync.WaitGroup
	dirty   int64
}

func Open(mirror Mirror, logger core.Logger) *DB {
	if mirror == nil {
		mirror = NoopMirror{}
	}
	db := &DB{}
	db.students = newTable[student.Student](TableStudents, mirror, logger, &db.pending, &db.dirty)
	db.users = newTable[user.User](TableUsers, mirror, logger, &db.pending, &db.dirty)
	db.health = newTable[health.Record](TableHealth, mirror, logger, &db.pending, &db.dirty)
	db.attendance = newTable[attendance.Record](TableAttendance, mirror, logger, &db.pending, &db.dirty)
	db.academics = newTable[academic.Record](TableAcademics, mirror, logger, &db.pending, &db.dirty)
	db.behavior = newTable[behavior.Record](TableBehavior, mirror, logger, &db.pending, &db.dirty)
	db.dining = newTable[dining.Menu](TableDining, mirror, logger, &db.pending, &db.dirty)
	db.maintenance = newTable[maintenance.Request](TableMaintenance, mirror, logger, &db.pending, &db.dirty)
	db.settings = newTable[settings.Settings](TableSettings, mirror, logger, &db.pending, &db.dirty)
	return db
}

// Wait blocks until all in-flight mirror writes have completed. Short-lived
// callers (the admin CLI) wait before exiting so writes are not lost.
func (db *DB) Wait() {
	db.pending.Wait()
}

// Dirty returns how many mirror writes have failed since startup. Informational
// only; the in-memory copy stays authoritative regardless.
func (db *DB) Dirty() int64 {
	return atomic.LoadInt64(&db.dirty)
}

// Seed loads every collection from the mirror. Called once at startup,
// before the server accepts traffic.
func (db *DB) Seed() error {
	if err := seedTable(db.students); err != nil {
		return err
	}
	if err := seedTable(db.users); err != nil {
		return err
	}
	if err := seedTable(db.health); err != nil {
		return err
	}
	if err := seedTable(db.attendance); err != nil {
		return err
	}
	if err := seedTable(db.academics); err != nil {
		return err
	}
	if err := seedTable(db.behavior); err != nil {
		return err
	}
	if err := seedTable(db.dining); err != nil {
		return err
	}
	if err := seedTable(db.maintenance); err != nil {
		return err
	}
	return seedTable(db.settings)
}

func seedTable[T any](t *table[T]) error {
	rows, err := t.mirror.SelectAll(t.name)
	if err != nil {
		return err
	}
	return t.seed(rows)
}
