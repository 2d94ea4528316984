package memstore

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dartalib/backend/core/settings"
	"github.com/dartalib/backend/core/student"
	testutil "github.com/dartalib/backend/tests"
)

type mirrorOp struct {
	op    string
	table string
	id    string
}

// recordingMirror captures the asynchronous mirror writes for inspection.
type recordingMirror struct {
	mu   sync.Mutex
	ops  []mirrorOp
	seed map[string][]MirrorRow
}

var _ Mirror = (*recordingMirror)(nil)

func (m *recordingMirror) record(op, table, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, mirrorOp{op: op, table: table, id: id})
	return nil
}

func (m *recordingMirror) Insert(table, id string, _ interface{}) error {
	return m.record("insert", table, id)
}
func (m *recordingMirror) Update(table, id string, _ interface{}) error {
	return m.record("update", table, id)
}
func (m *recordingMirror) Upsert(table, id string, _ interface{}) error {
	return m.record("upsert", table, id)
}
func (m *recordingMirror) Delete(table, id string) error {
	return m.record("delete", table, id)
}
func (m *recordingMirror) SelectAll(table string) ([]MirrorRow, error) {
	return m.seed[table], nil
}

func (m *recordingMirror) has(op, table, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.ops {
		if o == (mirrorOp{op: op, table: table, id: id}) {
			return true
		}
	}
	return false
}

func TestStudentRepositoryKeepsInsertionOrder(t *testing.T) {
	db := Open(NoopMirror{}, testutil.NewLogger())
	repo := NewStudentRepository(db)

	a := testutil.CreateStudent(t, repo, "يوسف العمراني", "K1", "", "2APIC", "2025-2026")
	b := testutil.CreateStudent(t, repo, "أمينة بنعلي", "K2", "", "2APIC", "2025-2026")
	c := testutil.CreateStudent(t, repo, "سعيد الناجي", "K3", "", "1APIC", "2025-2026")

	students, err := repo.QueryAllStudents()
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, []string{a.ID, b.ID, c.ID},
		[]string{students[0].ID, students[1].ID, students[2].ID})

	require.NoError(t, repo.DeleteStudentsByID(b.ID))
	students, err = repo.QueryAllStudents()
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, a.ID, students[0].ID)
	assert.Equal(t, c.ID, students[1].ID)
}

func TestStudentFilter(t *testing.T) {
	db := Open(NoopMirror{}, testutil.NewLogger())
	repo := NewStudentRepository(db)

	testutil.CreateStudent(t, repo, "يوسف العمراني", "K1300254", "", "2APIC", "2025-2026")
	testutil.CreateStudent(t, repo, "أمينة بنعلي", "K1300255", "", "1APIC", "2024-2025")

	// normalized name search tolerates hamza variants
	got, err := repo.FilterStudents(student.QueryFilter{Search: "امينة"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "K1300255", got[0].AcademicID)

	got, err = repo.FilterStudents(student.QueryFilter{Search: "k1300254"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.FilterStudents(student.QueryFilter{Grade: "2APIC", SchoolYear: "2025-2026"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "يوسف العمراني", got[0].FullName)
}

func TestWritesAreMirrored(t *testing.T) {
	mirror := &recordingMirror{}
	db := Open(mirror, testutil.NewLogger())
	repo := NewStudentRepository(db)

	st := testutil.CreateStudent(t, repo, "يوسف العمراني", "K1", "", "2APIC", "2025-2026")
	st.Grade = "3APIC"
	_, err := repo.UpdateStudent(st)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteStudentsByID(st.ID))

	// mirror writes are asynchronous
	assert.Eventually(t, func() bool {
		return mirror.has("insert", TableStudents, st.ID) &&
			mirror.has("update", TableStudents, st.ID) &&
			mirror.has("delete", TableStudents, st.ID)
	}, time.Second, 10*time.Millisecond)
}

type failingMirror struct {
	NoopMirror
}

func (failingMirror) Insert(string, string, interface{}) error {
	return assert.AnError
}

func TestDirtyCountsMirrorFailures(t *testing.T) {
	db := Open(failingMirror{}, testutil.NewLogger())
	repo := NewStudentRepository(db)

	a := testutil.CreateStudent(t, repo, "يوسف العمراني", "K1", "", "2APIC", "2025-2026")
	testutil.CreateStudent(t, repo, "أمينة بنعلي", "K2", "", "2APIC", "2025-2026")
	db.Wait()

	assert.EqualValues(t, 2, db.Dirty())

	// memory stays authoritative even when the mirror rejects the write
	st, err := repo.GetStudentByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "يوسف العمراني", st.FullName)
}

func TestSeedFromMirror(t *testing.T) {
	seeded := student.Student{ID: "s1", FullName: "يوسف العمراني", AcademicID: "K1300254"}
	data, err := json.Marshal(seeded)
	require.NoError(t, err)

	mirror := &recordingMirror{seed: map[string][]MirrorRow{
		TableStudents: {{ID: seeded.ID, Data: data}},
	}}
	db := Open(mirror, testutil.NewLogger())
	require.NoError(t, db.Seed())

	repo := NewStudentRepository(db)
	st, err := repo.GetStudentByID("s1")
	require.NoError(t, err)
	assert.Equal(t, "يوسف العمراني", st.FullName)
}

func TestSettingsSingletonUpsert(t *testing.T) {
	db := Open(NoopMirror{}, testutil.NewLogger())
	repo := NewSettingsRepository(db)

	_, err := repo.GetSettings()
	assert.Equal(t, settings.ErrNotFound, err)

	s, err := repo.UpsertSettings(settings.Settings{SchoolName: "Dar Attalib", SchoolYear: "2025-2026"})
	require.NoError(t, err)
	assert.Equal(t, settings.SingletonID, s.ID)

	s.SchoolYear = "2026-2027"
	_, err = repo.UpsertSettings(s)
	require.NoError(t, err)

	got, err := repo.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "2026-2027", got.SchoolYear)
}
