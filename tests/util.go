package testutil

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/student"
	"github.com/dartalib/backend/core/user"
)

// NewLogger returns a plain stdlib-backed core.Logger for tests.
func NewLogger() core.Logger {
	return &stdLogger{std: log.New(os.Stdout, "test ", log.LstdFlags)}
}

type stdLogger struct {
	std *log.Logger
}

var _ core.Logger = (*stdLogger)(nil)

func (l stdLogger) Enable(bool) {}

func (l stdLogger) log(level, msg string, args []interface{}) {
	l.std.Println(level, msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l stdLogger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l stdLogger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l stdLogger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l stdLogger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l stdLogger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, natID, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:       name,
		Username:   uname,
		Email:      email,
		NationalID: natID,
		Roles:      roles,
		IsActive:   isActive,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	fullName, academicID, guardianID, grade, schoolYear string,
) student.Student {
	t.Helper()

	now := time.Now().UTC()
	st, err := repo.CreateStudent(student.Student{
		FullName:   fullName,
		AcademicID: academicID,
		GuardianID: guardianID,
		Grade:      grade,
		SchoolYear: schoolYear,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return st
}
