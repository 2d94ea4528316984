package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/student"
	"github.com/dartalib/backend/core/user"
	"github.com/dartalib/backend/storage/memstore"
	testutil "github.com/dartalib/backend/tests"
)

type testEnv struct {
	students     *student.Service
	users        *user.Service
	health       *health.Service
	attendance   *attendance.Service
	academics    *academic.Service
	studentRepo  student.Repository
	userRepo     user.Repository
	healthRepo   health.Repository
	academicRepo academic.Repository
	attendRepo   attendance.Repository
	reconciler   *Reconciler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := testutil.NewLogger()
	db := memstore.Open(memstore.NoopMirror{}, logger)

	env := &testEnv{
		studentRepo:  memstore.NewStudentRepository(db),
		userRepo:     memstore.NewUserRepository(db),
		healthRepo:   memstore.NewHealthRepository(db),
		attendRepo:   memstore.NewAttendanceRepository(db),
		academicRepo: memstore.NewAcademicRepository(db),
	}
	env.students = student.NewService(env.studentRepo)
	env.users = user.NewService(env.userRepo, nil)
	env.health = health.NewService(env.healthRepo)
	env.attendance = attendance.NewService(env.attendRepo)
	env.academics = academic.NewService(env.academicRepo)
	env.reconciler = NewReconciler(env.students, env.users, env.health, env.attendance, env.academics, logger)
	return env
}

func TestCommitStudentsCreateWithGuardianLink(t *testing.T) {
	env := newTestEnv(t)
	parent := testutil.CreateUser(t, env.userRepo,
		"Hassan Alami", "hassan1", "hassan@test.com", "ab123456", "pwd", []string{user.RoleParent}, true)

	c := newCandidate(DomainStudents)
	c.StudentName = "يوسف العمراني"
	c.Student = &student.NewStudent{
		FullName:   "يوسف العمراني",
		AcademicID: "K1300254",
		GuardianID: "ab123456",
		Grade:      "2APIC",
	}

	res := env.reconciler.Commit([]*Candidate{c}, CommitConfig{Policy: PolicyOverwrite, SchoolYear: "2025-2026"})
	require.Equal(t, 1, res.Created)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "created", res.Rows[0].Action)

	st, err := env.students.GetByID(res.Rows[0].RecordID)
	require.NoError(t, err)
	assert.Equal(t, "2025-2026", st.SchoolYear)

	parent, err = env.users.GetByID(parent.ID)
	require.NoError(t, err)
	assert.True(t, parent.IsLinkedTo(st.ID), "parent should be auto-linked to the imported student")
}

func TestCommitGuardianLinkIsAdditive(t *testing.T) {
	env := newTestEnv(t)
	parent := testutil.CreateUser(t, env.userRepo,
		"Hassan Alami", "hassan1", "hassan@test.com", "ab123456", "pwd", []string{user.RoleParent}, true)

	older, err := env.students.Create(student.NewStudent{FullName: "سعيد الناجي", Grade: "1APIC"}, "2025-2026")
	require.NoError(t, err)
	parent, err = env.users.LinkStudent(parent, older.ID)
	require.NoError(t, err)

	c := newCandidate(DomainStudents)
	c.Student = &student.NewStudent{FullName: "يوسف العمراني", GuardianID: "ab123456", Grade: "2APIC"}

	res := env.reconciler.Commit([]*Candidate{c}, CommitConfig{Policy: PolicyOverwrite})
	require.Equal(t, 1, res.Created)

	parent, err = env.users.GetByID(parent.ID)
	require.NoError(t, err)
	assert.True(t, parent.IsLinkedTo(older.ID), "existing link must survive the import")
	assert.True(t, parent.IsLinkedTo(res.Rows[0].RecordID))
}

func TestCommitSkipPolicy(t *testing.T) {
	env := newTestEnv(t)
	st, err := env.students.Create(student.NewStudent{FullName: "يوسف العمراني", Grade: "2APIC"}, "2025-2026")
	require.NoError(t, err)

	c := newCandidate(DomainStudents)
	c.Status = StatusUpdate
	c.ExistingID = st.ID
	c.Student = &student.NewStudent{FullName: "يوسف العمراني المعدل", Grade: "3APIC"}

	res := env.reconciler.Commit([]*Candidate{c}, CommitConfig{Policy: PolicySkip})
	require.Equal(t, 1, res.Skipped)
	assert.Equal(t, "skipped", res.Rows[0].Action)

	st, err = env.students.GetByID(st.ID)
	require.NoError(t, err)
	assert.Equal(t, "يوسف العمراني", st.FullName, "skipped rows must leave the record untouched")
}

func TestCommitOverwriteUpdatesStudent(t *testing.T) {
	env := newTestEnv(t)
	st, err := env.students.Create(student.NewStudent{FullName: "يوسف العمراني", Grade: "2APIC"}, "2025-2026")
	require.NoError(t, err)

	c := newCandidate(DomainStudents)
	c.Status = StatusUpdate
	c.ExistingID = st.ID
	c.Student = &student.NewStudent{FullName: "يوسف العمراني", Grade: "3APIC", RoomNumber: "14"}

	res := env.reconciler.Commit([]*Candidate{c}, CommitConfig{Policy: PolicyOverwrite})
	require.Equal(t, 1, res.Updated)

	st, err = env.students.GetByID(st.ID)
	require.NoError(t, err)
	assert.Equal(t, "3APIC", st.Grade)
	assert.Equal(t, "14", st.RoomNumber)
}

func TestCommitAttendanceUpsertsByDay(t *testing.T) {
	env := newTestEnv(t)
	st, err := env.students.Create(student.NewStudent{FullName: "أمينة بنعلي", Grade: "2APIC"}, "2025-2026")
	require.NoError(t, err)

	mark := func(status string) *Candidate {
		c := newCandidate(DomainAttendance)
		c.StudentID = st.ID
		c.Attendance = &attendance.MarkDay{Date: "2026-01-12", Status: status}
		return c
	}

	res := env.reconciler.Commit([]*Candidate{mark("absent"), mark("present")}, CommitConfig{Policy: PolicyOverwrite})
	require.Equal(t, 1, res.Created)
	require.Equal(t, 1, res.Updated)
	assert.Equal(t, "created", res.Rows[0].Action)
	assert.Equal(t, "updated", res.Rows[1].Action, "a second mark for the same day is an overwrite and must be reported as one")

	recs, err := env.attendance.QueryAll()
	require.NoError(t, err)
	require.Len(t, recs, 1, "second mark for the same day must overwrite, not append")
	assert.Equal(t, attendance.StatusPresent, recs[0].Status)
}

func TestCommitHealthDropsUnresolvedStudent(t *testing.T) {
	env := newTestEnv(t)

	c := newCandidate(DomainHealth)
	c.StudentName = "مجهول تماما"
	c.Health = &health.NewRecord{Condition: "حمى"}

	res := env.reconciler.Commit([]*Candidate{c}, CommitConfig{Policy: PolicyOverwrite})
	require.Equal(t, 1, res.Dropped)
	assert.Equal(t, "dropped", res.Rows[0].Action)

	recs, err := env.health.QueryAll()
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCommitHealthResolvesByNameAtCommitTime(t *testing.T) {
	env := newTestEnv(t)
	st, err := env.students.Create(student.NewStudent{FullName: "أمينة بنعلي", Grade: "2APIC"}, "2025-2026")
	require.NoError(t, err)

	c := newCandidate(DomainHealth)
	c.StudentName = "أمينة" // left unresolved by the matcher
	c.Health = &health.NewRecord{Date: "2026-01-10", Condition: "زكام"}

	res := env.reconciler.Commit([]*Candidate{c}, CommitConfig{Policy: PolicyOverwrite})
	require.Equal(t, 1, res.Created)

	recs, err := env.health.QueryByStudent(st.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "زكام", recs[0].Condition)
}

func TestCommitAcademicsAutoCreatesStudent(t *testing.T) {
	env := newTestEnv(t)

	c := newCandidate(DomainAcademics)
	c.StudentName = "سعيد الناجي"
	c.Academic = &academic.NewRecord{
		Semester: academic.SemesterS1,
		Subjects: []academic.Subject{{Name: "الرياضيات", Grade: 15, Coefficient: 4}},
	}

	res := env.reconciler.Commit([]*Candidate{c}, CommitConfig{Policy: PolicyOverwrite, SchoolYear: "2025-2026"})
	require.Equal(t, 1, res.Created)
	require.Zero(t, res.Failed)

	students, err := env.students.QueryAll()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "سعيد الناجي", students[0].FullName)
	assert.Equal(t, "Unknown", students[0].Grade)
	assert.Equal(t, "2025-2026", students[0].SchoolYear)

	recs, err := env.academics.QueryByStudent(students[0].ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 15.0, recs[0].GeneralAverage, 0.0001)
}

func TestCommitAcademicsSameBatchDuplicateAutoCreates(t *testing.T) {
	env := newTestEnv(t)

	row := func(sem string) *Candidate {
		c := newCandidate(DomainAcademics)
		c.StudentName = "سعيد الناجي"
		c.Academic = &academic.NewRecord{
			Semester: sem,
			Subjects: []academic.Subject{{Name: "الرياضيات", Grade: 12, Coefficient: 1}},
		}
		return c
	}

	res := env.reconciler.Commit(
		[]*Candidate{row(academic.SemesterS1), row(academic.SemesterS2)},
		CommitConfig{Policy: PolicyOverwrite, SchoolYear: "2025-2026"},
	)
	require.Equal(t, 2, res.Created)

	// resolution runs against the batch-start snapshot, so the second row
	// does not see the student auto-created by the first and creates its own
	students, err := env.students.QueryAll()
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestCommitAcademicsResolvesAgainstSnapshot(t *testing.T) {
	env := newTestEnv(t)
	st, err := env.students.Create(student.NewStudent{FullName: "يوسف العمراني", AcademicID: "K1300254", Grade: "2APIC"}, "2025-2026")
	require.NoError(t, err)

	c := newCandidate(DomainAcademics)
	c.StudentName = "العمراني" // containment resolves the existing student
	c.Academic = &academic.NewRecord{
		Semester: academic.SemesterS1,
		Subjects: []academic.Subject{{Name: "الرياضيات", Grade: 14, Coefficient: 2}},
	}

	res := env.reconciler.Commit([]*Candidate{c}, CommitConfig{Policy: PolicyOverwrite, SchoolYear: "2025-2026"})
	require.Equal(t, 1, res.Created)

	recs, err := env.academics.QueryByStudent(st.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	students, _ := env.students.QueryAll()
	assert.Len(t, students, 1, "no auto-create when the snapshot resolves the student")
}

func TestCommitRecoversFromRowFailure(t *testing.T) {
	env := newTestEnv(t)

	bad := newCandidate(DomainStudents) // no payload
	good := newCandidate(DomainStudents)
	good.Student = &student.NewStudent{FullName: "أمينة بنعلي", Grade: "2APIC"}

	res := env.reconciler.Commit([]*Candidate{bad, good}, CommitConfig{Policy: PolicyOverwrite})
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Created)
	assert.NotEmpty(t, res.Rows[0].Error)
}
