package importer

import (
	"strings"
	"time"

	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/arabtext"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/student"
)

// Snapshot is the state of the persisted collections as they stood when the
// import batch started. Matching never observes writes made by earlier rows
// of the same batch.
type Snapshot struct {
	Students  []student.Student
	Health    []health.Record
	Academics []academic.Record
}

// Matcher classifies candidates as new or update against a snapshot. Each
// domain runs an explicit ordered list of resolver strategies; the first hit
// wins and its name is recorded on the candidate for auditing.
type Matcher struct {
	snap Snapshot
}

func NewMatcher(snap Snapshot) *Matcher {
	return &Matcher{snap: snap}
}

// resolver is a single short-circuited matching strategy.
type resolver struct {
	name string
	fn   func(c *Candidate) bool
}

func (m *Matcher) runFirst(c *Candidate, resolvers []resolver) {
	for _, r := range resolvers {
		if r.fn(c) {
			c.MatchedBy = r.name
			return
		}
	}
}

// MatchAll classifies every candidate in batch order, then flags candidates
// sharing an identical normalized full name so an operator disambiguates
// before commit.
func (m *Matcher) MatchAll(cands []*Candidate) {
	for _, c := range cands {
		m.Match(c)
	}
	flagAmbiguousNames(cands)
}

func (m *Matcher) Match(c *Candidate) {
	switch c.Domain {
	case DomainStudents:
		m.matchStudent(c)
	case DomainHealth:
		m.matchHealth(c)
	case DomainAttendance:
		m.matchAttendance(c)
	case DomainAcademics:
		m.matchAcademic(c)
	}
}

// Students: exact academic-id match first, then normalized-name equality.
func (m *Matcher) matchStudent(c *Candidate) {
	m.runFirst(c, []resolver{
		{name: "academic_id", fn: func(c *Candidate) bool {
			if c.Student == nil || c.Student.AcademicID == "" {
				return false
			}
			st, ok := m.studentByAcademicID(c.Student.AcademicID)
			if !ok {
				return false
			}
			c.Status = StatusUpdate
			c.ExistingID = st.ID
			c.StudentID = st.ID
			return true
		}},
		{name: "name_equal", fn: func(c *Candidate) bool {
			if c.Student == nil {
				return false
			}
			st, ok := m.studentByNameEqual(c.Student.FullName)
			if !ok {
				return false
			}
			c.Status = StatusUpdate
			c.ExistingID = st.ID
			c.StudentID = st.ID
			return true
		}},
	})
}

// Health: resolve the student by name containment, then look the visit up by
// its (student, date) natural key.
func (m *Matcher) matchHealth(c *Candidate) {
	m.runFirst(c, []resolver{
		{name: "name_contains", fn: func(c *Candidate) bool {
			st, ok := m.studentByNameContains(c.StudentName)
			if !ok {
				return false
			}
			c.StudentID = st.ID
			date := ""
			if c.Health != nil {
				date = c.Health.Date
			}
			if date == "" {
				date = time.Now().UTC().Format(health.DateLayout)
			}
			if rec, ok := m.healthByStudentDate(st.ID, date); ok {
				c.Status = StatusUpdate
				c.ExistingID = rec.ID
			}
			return true
		}},
	})
}

// Attendance: resolve the student only; writes always route through the
// upsert-by-day operation, so no record-level match is performed.
func (m *Matcher) matchAttendance(c *Candidate) {
	m.runFirst(c, []resolver{
		{name: "name_contains", fn: func(c *Candidate) bool {
			st, ok := m.studentByNameContains(c.StudentName)
			if !ok {
				return false
			}
			c.StudentID = st.ID
			return true
		}},
	})
}

// Academics: identifier match first, then name equality, then containment;
// each successful student resolution is followed by a (student, semester)
// record lookup.
func (m *Matcher) matchAcademic(c *Candidate) {
	recordLookup := func(c *Candidate, st student.Student) {
		c.StudentID = st.ID
		semester := academic.SemesterS1
		if c.Academic != nil && c.Academic.Semester != "" {
			semester = c.Academic.Semester
		}
		if rec, ok := m.academicByStudentSemester(st.ID, semester); ok {
			c.Status = StatusUpdate
			c.ExistingID = rec.ID
		}
	}

	m.runFirst(c, []resolver{
		{name: "academic_id", fn: func(c *Candidate) bool {
			if c.AcademicID == "" {
				return false
			}
			st, ok := m.studentByAcademicID(c.AcademicID)
			if !ok {
				return false
			}
			recordLookup(c, st)
			return true
		}},
		{name: "name_equal", fn: func(c *Candidate) bool {
			st, ok := m.studentByNameEqual(c.StudentName)
			if !ok {
				return false
			}
			recordLookup(c, st)
			return true
		}},
		{name: "name_contains", fn: func(c *Candidate) bool {
			st, ok := m.studentByNameContains(c.StudentName)
			if !ok {
				return false
			}
			recordLookup(c, st)
			return true
		}},
	})
}

// snapshot lookups

func (m *Matcher) studentByAcademicID(academicID string) (student.Student, bool) {
	academicID = strings.TrimSpace(academicID)
	if academicID == "" {
		return student.Student{}, false
	}
	for _, st := range m.snap.Students {
		if strings.TrimSpace(st.AcademicID) == academicID {
			return st, true
		}
	}
	return student.Student{}, false
}

func (m *Matcher) studentByNameEqual(name string) (student.Student, bool) {
	if arabtext.Normalize(name) == "" {
		return student.Student{}, false
	}
	for _, st := range m.snap.Students {
		if arabtext.Equal(st.FullName, name) {
			return st, true
		}
	}
	return student.Student{}, false
}

func (m *Matcher) studentByNameContains(name string) (student.Student, bool) {
	for _, st := range m.snap.Students {
		if arabtext.Match(st.FullName, name) {
			return st, true
		}
	}
	return student.Student{}, false
}

func (m *Matcher) healthByStudentDate(studentID, date string) (health.Record, bool) {
	for _, rec := range m.snap.Health {
		if rec.StudentID == studentID && rec.Date == date {
			return rec, true
		}
	}
	return health.Record{}, false
}

func (m *Matcher) academicByStudentSemester(studentID, semester string) (academic.Record, bool) {
	for _, rec := range m.snap.Academics {
		if rec.StudentID == studentID && rec.Semester == semester {
			return rec, true
		}
	}
	return academic.Record{}, false
}

// flagAmbiguousNames marks candidates whose normalized full names collide
// within the batch. The system never guesses which same-named student a row
// belongs to beyond the matching rules; a human decides.
func flagAmbiguousNames(cands []*Candidate) {
	byName := make(map[string][]*Candidate, len(cands))
	for _, c := range cands {
		name := c.StudentName
		if name == "" && c.Student != nil {
			name = c.Student.FullName
		}
		norm := arabtext.Normalize(name)
		if norm == "" {
			continue
		}
		byName[norm] = append(byName[norm], c)
	}
	for _, group := range byName {
		if len(group) > 1 {
			for _, c := range group {
				c.Ambiguous = true
			}
		}
	}
}
