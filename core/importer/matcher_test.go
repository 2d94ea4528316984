package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/student"
)

func studentCandidate(name, academicID string) *Candidate {
	c := newCandidate(DomainStudents)
	c.StudentName = name
	c.Student = &student.NewStudent{FullName: name, AcademicID: academicID, Grade: "2APIC"}
	return c
}

func TestMatchStudents(t *testing.T) {
	snap := Snapshot{
		Students: []student.Student{
			{ID: "s1", FullName: "يوسف العمراني", AcademicID: "K1300254"},
			{ID: "s2", FullName: "أمينة بنعلي", AcademicID: "K1300255"},
		},
	}
	m := NewMatcher(snap)

	t.Run("academic id match", func(t *testing.T) {
		c := studentCandidate("يوسف العمراني المنقول", "K1300254")
		m.Match(c)
		assert.Equal(t, StatusUpdate, c.Status)
		assert.Equal(t, "s1", c.ExistingID)
		assert.Equal(t, "academic_id", c.MatchedBy)
	})

	t.Run("id match wins over another student's name", func(t *testing.T) {
		// the row carries s2's name but s1's identifier: identifiers are
		// more trustworthy than names
		c := studentCandidate("أمينة بنعلي", "K1300254")
		m.Match(c)
		assert.Equal(t, "s1", c.ExistingID)
		assert.Equal(t, "academic_id", c.MatchedBy)
	})

	t.Run("normalized name equality", func(t *testing.T) {
		// hamza variant and diacritics fold away
		c := studentCandidate("أمِينة بنعلي", "")
		m.Match(c)
		assert.Equal(t, StatusUpdate, c.Status)
		assert.Equal(t, "s2", c.ExistingID)
		assert.Equal(t, "name_equal", c.MatchedBy)
	})

	t.Run("no match stays new", func(t *testing.T) {
		c := studentCandidate("سعيد الناجي", "Z9999999")
		m.Match(c)
		assert.Equal(t, StatusNew, c.Status)
		assert.Empty(t, c.ExistingID)
		assert.Empty(t, c.MatchedBy)
	})
}

func TestMatchHealth(t *testing.T) {
	snap := Snapshot{
		Students: []student.Student{
			{ID: "s1", FullName: "أمينة بنعلي", AcademicID: "K1300255"},
		},
		Health: []health.Record{
			{ID: "h1", StudentID: "s1", Date: "2026-01-10"},
		},
	}
	m := NewMatcher(snap)

	t.Run("same day visit becomes an update", func(t *testing.T) {
		c := newCandidate(DomainHealth)
		c.StudentName = "أمينة" // substring resolves the student
		c.Health = &health.NewRecord{Date: "2026-01-10", Condition: "زكام"}
		m.Match(c)
		assert.Equal(t, "s1", c.StudentID)
		assert.Equal(t, StatusUpdate, c.Status)
		assert.Equal(t, "h1", c.ExistingID)
		assert.Equal(t, "name_contains", c.MatchedBy)
	})

	t.Run("other day stays new", func(t *testing.T) {
		c := newCandidate(DomainHealth)
		c.StudentName = "أمينة بنعلي"
		c.Health = &health.NewRecord{Date: "2026-01-11", Condition: "صداع"}
		m.Match(c)
		assert.Equal(t, "s1", c.StudentID)
		assert.Equal(t, StatusNew, c.Status)
		assert.Empty(t, c.ExistingID)
	})

	t.Run("unknown student stays unresolved", func(t *testing.T) {
		c := newCandidate(DomainHealth)
		c.StudentName = "مجهول تماما"
		c.Health = &health.NewRecord{Condition: "حمى"}
		m.Match(c)
		assert.Empty(t, c.StudentID)
		assert.Equal(t, StatusNew, c.Status)
	})
}

func TestMatchAcademics(t *testing.T) {
	snap := Snapshot{
		Students: []student.Student{
			{ID: "s1", FullName: "يوسف العمراني", AcademicID: "K1300254"},
			{ID: "s2", FullName: "أمينة بنعلي", AcademicID: "K1300255"},
		},
		Academics: []academic.Record{
			{ID: "a1", StudentID: "s1", Semester: academic.SemesterS1},
		},
	}
	m := NewMatcher(snap)

	t.Run("id then semester record lookup", func(t *testing.T) {
		c := newCandidate(DomainAcademics)
		c.AcademicID = "K1300254"
		c.Academic = &academic.NewRecord{Semester: academic.SemesterS1}
		m.Match(c)
		assert.Equal(t, "s1", c.StudentID)
		assert.Equal(t, StatusUpdate, c.Status)
		assert.Equal(t, "a1", c.ExistingID)
		assert.Equal(t, "academic_id", c.MatchedBy)
	})

	t.Run("other semester stays new", func(t *testing.T) {
		c := newCandidate(DomainAcademics)
		c.AcademicID = "K1300254"
		c.Academic = &academic.NewRecord{Semester: academic.SemesterS2}
		m.Match(c)
		assert.Equal(t, "s1", c.StudentID)
		assert.Equal(t, StatusNew, c.Status)
	})

	t.Run("name containment fallback", func(t *testing.T) {
		c := newCandidate(DomainAcademics)
		c.StudentName = "بنعلي"
		c.Academic = &academic.NewRecord{Semester: academic.SemesterS1}
		m.Match(c)
		assert.Equal(t, "s2", c.StudentID)
		assert.Equal(t, "name_contains", c.MatchedBy)
	})
}

func TestMatchAllFlagsAmbiguousNames(t *testing.T) {
	snap := Snapshot{}
	m := NewMatcher(snap)

	c1 := studentCandidate("محمد أمين", "")
	c2 := studentCandidate("محمد امين", "") // same name, hamza variant
	c3 := studentCandidate("سعيد الناجي", "")
	m.MatchAll([]*Candidate{c1, c2, c3})

	assert.True(t, c1.Ambiguous)
	assert.True(t, c2.Ambiguous)
	assert.False(t, c3.Ambiguous)
}
