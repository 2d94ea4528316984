package importer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/arabtext"
	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/student"
	"github.com/dartalib/backend/core/user"
)

// CommitConfig carries the batch-wide settings threaded into a commit run.
type CommitConfig struct {
	Policy     CommitPolicy
	SchoolYear string // currently-selected scope, stamped on created students and report cards
}

// Reconciler commits operator-approved candidates as creates or overwrites,
// handling cross-entity effects (guardian auto-link, missing-student
// auto-create). Row failures are recovered, logged and never abort a batch.
type Reconciler struct {
	students   *student.Service
	users      *user.Service
	health     *health.Service
	attendance *attendance.Service
	academics  *academic.Service
	logger     core.Logger
}

func NewReconciler(
	students *student.Service,
	users *user.Service,
	healthSvc *health.Service,
	attendanceSvc *attendance.Service,
	academics *academic.Service,
	logger core.Logger,
) *Reconciler {
	return &Reconciler{
		students:   students,
		users:      users,
		health:     healthSvc,
		attendance: attendanceSvc,
		academics:  academics,
		logger:     logger,
	}
}

// Commit processes candidates in source order. Once started it runs to
// completion over all rows; there is no mid-batch cancellation.
func (r *Reconciler) Commit(cands []*Candidate, cfg CommitConfig) Result {
	if !cfg.Policy.Valid() {
		cfg.Policy = PolicyOverwrite
	}

	// academics rows resolve against the collections as they stood when the
	// batch started: auto-created students from earlier rows of the same
	// batch are intentionally not observed (same-batch duplicates are an
	// accepted, documented gap).
	batchStudents, err := r.students.QueryAll()
	if err != nil {
		r.logger.Error(fmt.Sprintf("import: snapshotting students: %v", err), err)
	}

	var res Result
	for _, c := range cands {
		rr := r.commitOne(c, cfg, batchStudents)
		if rr.Error != "" {
			r.logger.Warn(fmt.Sprintf("import: row %s %s: %s", c.ID, rr.Action, rr.Error))
		}
		res.add(rr)
	}
	return res
}

func (r *Reconciler) commitOne(c *Candidate, cfg CommitConfig, batchStudents []student.Student) (rr RowResult) {
	rr.CandidateID = c.ID

	defer func() {
		if rec := recover(); rec != nil {
			rr.Action = "failed"
			rr.Error = fmt.Sprintf("panic: %v", rec)
		}
	}()

	if c.Status == StatusUpdate && cfg.Policy == PolicySkip {
		rr.Action = "skipped"
		return rr
	}

	var err error
	switch c.Domain {
	case DomainStudents:
		rr, err = r.commitStudent(c, cfg)
	case DomainHealth:
		rr, err = r.commitHealth(c, cfg)
	case DomainAttendance:
		rr, err = r.commitAttendance(c)
	case DomainAcademics:
		rr, err = r.commitAcademic(c, cfg, batchStudents)
	default:
		err = errors.Errorf("unknown domain %q", c.Domain)
	}
	rr.CandidateID = c.ID
	if err != nil {
		rr.Action = "failed"
		rr.Error = err.Error()
	}
	return rr
}

func (r *Reconciler) commitStudent(c *Candidate, cfg CommitConfig) (RowResult, error) {
	if c.Student == nil {
		return RowResult{}, errors.New("student candidate has no payload")
	}

	var st student.Student
	var err error
	action := "created"
	if c.Status == StatusUpdate && c.ExistingID != "" {
		st, err = r.students.Update(c.ExistingID, student.UpdateStudent{
			FullName:   c.Student.FullName,
			AcademicID: c.Student.AcademicID,
			GuardianID: c.Student.GuardianID,
			Grade:      c.Student.Grade,
			RoomNumber: c.Student.RoomNumber,
		})
		action = "updated"
	} else {
		if err = c.Student.Validate(); err != nil {
			return RowResult{}, err
		}
		st, err = r.students.Create(*c.Student, cfg.SchoolYear)
	}
	if err != nil {
		return RowResult{}, err
	}

	r.autoLinkGuardian(st)
	return RowResult{Action: action, RecordID: st.ID}, nil
}

// autoLinkGuardian appends the student to the matching parent account's
// linked set. Additive only: existing links are never removed. When several
// parents share a national id the first found by creation order wins.
func (r *Reconciler) autoLinkGuardian(st student.Student) {
	if st.GuardianID == "" {
		return
	}
	parent, err := r.users.FindParentByNationalID(st.GuardianID)
	if err != nil {
		if err != user.ErrNotFound {
			r.logger.Warn(fmt.Sprintf("import: guardian lookup for student %s: %v", st.ID, err))
		}
		return
	}
	if parent.IsLinkedTo(st.ID) {
		return
	}
	if _, err := r.users.LinkStudent(parent, st.ID); err != nil {
		r.logger.Warn(fmt.Sprintf("import: linking student %s to parent %s: %v", st.ID, parent.ID, err))
	}
}

func (r *Reconciler) commitHealth(c *Candidate, cfg CommitConfig) (RowResult, error) {
	if c.Health == nil {
		return RowResult{}, errors.New("health candidate has no payload")
	}

	studentID := c.StudentID
	if studentID == "" {
		// commit-time fallback: name-substring search
		st, err := r.students.GetByName(c.StudentName)
		if err != nil {
			// no resolvable student: the row is dropped, not a hard failure
			r.logger.Info(fmt.Sprintf("import: health row for %q dropped: no matching student", c.StudentName))
			return RowResult{Action: "dropped"}, nil
		}
		studentID = st.ID
	}
	c.Health.StudentID = studentID
	if err := c.Health.Validate(); err != nil {
		return RowResult{}, err
	}

	if c.Status == StatusUpdate && c.ExistingID != "" {
		rec, err := r.health.Update(c.ExistingID, health.UpdateRecord{
			Date:      c.Health.Date,
			Condition: c.Health.Condition,
			Severity:  c.Health.Severity,
			Treatment: c.Health.Treatment,
			Notes:     c.Health.Notes,
		})
		if err != nil {
			return RowResult{}, err
		}
		return RowResult{Action: "updated", RecordID: rec.ID}, nil
	}

	rec, err := r.health.Create(*c.Health)
	if err != nil {
		return RowResult{}, err
	}
	return RowResult{Action: "created", RecordID: rec.ID}, nil
}

func (r *Reconciler) commitAttendance(c *Candidate) (RowResult, error) {
	if c.Attendance == nil {
		return RowResult{}, errors.New("attendance candidate has no payload")
	}

	studentID := c.StudentID
	if studentID == "" {
		st, err := r.students.GetByName(c.StudentName)
		if err != nil {
			r.logger.Info(fmt.Sprintf("import: attendance row for %q dropped: no matching student", c.StudentName))
			return RowResult{Action: "dropped"}, nil
		}
		studentID = st.ID
	}
	c.Attendance.StudentID = studentID
	if err := c.Attendance.Validate(); err != nil {
		return RowResult{}, err
	}

	// one record per student per calendar day; second write overwrites
	action := "created"
	if _, err := r.attendance.GetByStudentDate(studentID, c.Attendance.Date); err == nil {
		action = "updated"
	}
	rec, err := r.attendance.Mark(*c.Attendance)
	if err != nil {
		return RowResult{}, err
	}
	return RowResult{Action: action, RecordID: rec.ID}, nil
}

func (r *Reconciler) commitAcademic(c *Candidate, cfg CommitConfig, batchStudents []student.Student) (RowResult, error) {
	if c.Academic == nil {
		return RowResult{}, errors.New("academic candidate has no payload")
	}

	studentID := c.StudentID
	if studentID == "" {
		studentID = resolveAcademicStudent(c, batchStudents)
	}
	if studentID == "" {
		// academics is the one domain that fabricates missing students
		// rather than losing grade data.
		st, err := r.autoCreateStudent(c, cfg)
		if err != nil {
			return RowResult{}, errors.Wrap(err, "auto-creating student")
		}
		studentID = st.ID
	}

	c.Academic.StudentID = studentID
	if err := c.Academic.Validate(); err != nil {
		return RowResult{}, err
	}

	if c.Status == StatusUpdate && c.ExistingID != "" {
		rec, err := r.academics.Update(c.ExistingID, academic.UpdateRecord{
			Semester:           c.Academic.Semester,
			SchoolYear:         c.Academic.SchoolYear,
			GeneralAverage:     &c.Academic.GeneralAverage,
			Rank:               c.Academic.Rank,
			UnifiedExamAverage: c.Academic.UnifiedExamAverage,
			TeacherDecision:    c.Academic.TeacherDecision,
			Appreciation:       c.Academic.Appreciation,
			Subjects:           c.Academic.Subjects,
		})
		if err != nil {
			return RowResult{}, err
		}
		return RowResult{Action: "updated", RecordID: rec.ID}, nil
	}

	rec, err := r.academics.Create(*c.Academic, cfg.SchoolYear)
	if err != nil {
		return RowResult{}, err
	}
	return RowResult{Action: "created", RecordID: rec.ID}, nil
}

// resolveAcademicStudent resolves against the batch-start snapshot, in
// order: normalized-name equality, substring containment, identifier match.
func resolveAcademicStudent(c *Candidate, batchStudents []student.Student) string {
	if c.StudentName != "" {
		for _, st := range batchStudents {
			if arabtext.Equal(st.FullName, c.StudentName) {
				return st.ID
			}
		}
		for _, st := range batchStudents {
			if arabtext.Match(st.FullName, c.StudentName) {
				return st.ID
			}
		}
	}
	if c.AcademicID != "" {
		for _, st := range batchStudents {
			if st.AcademicID == c.AcademicID {
				return st.ID
			}
		}
	}
	return ""
}

func (r *Reconciler) autoCreateStudent(c *Candidate, cfg CommitConfig) (student.Student, error) {
	name := c.StudentName
	if name == "" {
		name = "Unknown " + c.AcademicID
	}
	academicID := c.AcademicID
	if academicID == "" {
		academicID = "TMP-" + uuid.NewString()[:8]
	}
	ns := student.NewStudent{
		FullName:   name,
		AcademicID: academicID,
		Grade:      "Unknown",
	}
	if err := ns.Validate(); err != nil {
		return student.Student{}, err
	}
	st, err := r.students.Create(ns, cfg.SchoolYear)
	if err != nil {
		return student.Student{}, err
	}
	r.logger.Info(fmt.Sprintf("import: auto-created student %q (%s) for academics row", name, st.ID))
	return st, nil
}
