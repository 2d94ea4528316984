// Package importer implements the smart import pipeline: raw spreadsheet or
// document-extraction rows are normalized into candidate records, matched
// against existing collections, reviewed by an operator, then reconciled into
// authoritative writes.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/student"
)

// Domain tags the target collection of an import batch.
type Domain string

const (
	DomainStudents   Domain = "students"
	DomainHealth     Domain = "health"
	DomainAttendance Domain = "attendance"
	DomainAcademics  Domain = "academics"
)

func (d Domain) Valid() bool {
	switch d {
	case DomainStudents, DomainHealth, DomainAttendance, DomainAcademics:
		return true
	}
	return false
}

// Row is one extracted row: a loosely-typed, string-keyed cell map. Rows come
// from spreadsheet parsing or from the document-understanding service; both
// may carry missing fields, extra fields and type-inconsistent values.
type Row map[string]interface{}

// Cell returns the trimmed string form of a cell value; numbers are rendered
// locale-agnostically, nil and absent cells come back empty.
func (r Row) Cell(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// Candidate statuses.
const (
	StatusNew    = "new"
	StatusUpdate = "update"
)

// CommitPolicy is the batch-wide conflict policy applied to `update`
// candidates; `new` candidates are always written.
type CommitPolicy string

const (
	PolicyOverwrite CommitPolicy = "overwrite"
	PolicySkip      CommitPolicy = "skip"
)

func (p CommitPolicy) Valid() bool { return p == PolicyOverwrite || p == PolicySkip }

// Candidate is an ephemeral, not-yet-committed record produced by import.
// It exists only in the preview list: created on extraction, edited by the
// operator, discarded on cancel or on successful commit.
type Candidate struct {
	ID     string `json:"id"` // transient preview id
	Domain Domain `json:"domain"`
	Status string `json:"status"` // new | update

	// ExistingID is set when Status == update: the id of the record the
	// commit will overwrite rather than duplicate.
	ExistingID string `json:"existing_id,omitempty"`

	// StudentID is the resolved student for non-student domains, attached by
	// the matcher so later stages can link without re-resolving.
	StudentID string `json:"student_id,omitempty"`

	// StudentName is the per-row name token used for matching.
	StudentName string `json:"student_name,omitempty"`

	// AcademicID is the per-row external identifier (Massar code), when the
	// source carried one; identifier matches take priority over name matches.
	AcademicID string `json:"academic_id,omitempty"`

	// MatchedBy names the resolver strategy that classified this row,
	// making "why did this row match" auditable.
	MatchedBy string `json:"matched_by,omitempty"`

	// Ambiguous flags candidates sharing an identical full name within one
	// batch; a human disambiguates before commit, the system never guesses.
	Ambiguous bool `json:"ambiguous,omitempty"`

	Student    *student.NewStudent   `json:"student,omitempty"`
	Health     *health.NewRecord     `json:"health,omitempty"`
	Attendance *attendance.MarkDay   `json:"attendance,omitempty"`
	Academic   *academic.NewRecord   `json:"academic,omitempty"`
}

func newCandidate(domain Domain) *Candidate {
	return &Candidate{
		ID:     uuid.NewString(),
		Domain: domain,
		Status: StatusNew,
	}
}

// RowResult reports the outcome of committing a single candidate.
type RowResult struct {
	CandidateID string `json:"candidate_id"`
	Action      string `json:"action"` // created | updated | skipped | dropped | failed
	RecordID    string `json:"record_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Result summarizes a committed batch. Partial success is expected: row
// failures never abort the batch.
type Result struct {
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Skipped int         `json:"skipped"`
	Dropped int         `json:"dropped"`
	Failed  int         `json:"failed"`
	Rows    []RowResult `json:"rows"`
}

func (res *Result) add(rr RowResult) {
	switch rr.Action {
	case "created":
		res.Created++
	case "updated":
		res.Updated++
	case "skipped":
		res.Skipped++
	case "dropped":
		res.Dropped++
	case "failed":
		res.Failed++
	}
	res.Rows = append(res.Rows, rr)
}
