package importer

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dartalib/backend/core/academic"
	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/student"
)

// ErrUnrecognizedLayout signals that the deterministic header-driven path
// cannot make sense of the file; the caller falls back to the
// document-understanding path instead.
var ErrUnrecognizedLayout = errors.New("unrecognized file layout")

// Column-header aliases per logical field, ordered: the first alias that
// resolves against the actual headers wins and no further aliases are tried
// for that field. Headers come in Arabic, French or English depending on who
// exported the file.
var (
	nameAliases       = []string{"الاسم الكامل", "اسم التلميذ", "الاسم", "Nom complet", "Nom et prénom", "Élève", "Full Name", "Student Name", "Name"}
	academicIDAliases = []string{"رقم مسار", "Code Massar", "CNE", "Academic ID", "Code élève", "Massar"}
	guardianIDAliases = []string{"رقم بطاقة الولي", "بطاقة الولي", "CIN du tuteur", "CIN tuteur", "Guardian ID", "Guardian CIN"}
	gradeAliases      = []string{"المستوى الدراسي", "المستوى", "القسم", "Niveau", "Classe", "Grade", "Level"}
	roomAliases       = []string{"رقم الغرفة", "الغرفة", "Chambre", "Room"}
	dateAliases       = []string{"التاريخ", "Date"}
	conditionAliases  = []string{"الحالة الصحية", "المرض", "الحالة", "Condition", "Maladie", "Diagnostic"}
	severityAliases   = []string{"الخطورة", "درجة الخطورة", "Gravité", "Severity"}
	treatmentAliases  = []string{"العلاج", "Traitement", "Treatment"}
	notesAliases      = []string{"ملاحظات", "Notes", "Remarques"}
	statusAliases     = []string{"الحضور", "الغياب", "الحالة", "Statut", "Status", "Présence"}
	remarkAliases     = []string{"السبب", "ملاحظة", "Motif", "Remark"}
	semesterAliases   = []string{"الدورة", "الأسدس", "Semestre", "Semester", "Session"}
	averageAliases    = []string{"المعدل العام", "Moyenne générale", "Moyenne Générale", "General Average", "المعدل"}
	rankAliases       = []string{"الرتبة", "الترتيب", "Rang", "Rank"}
	unifiedAliases    = []string{"الامتحان الموحد", "معدل الموحد", "Examen unifié", "Unified Exam"}
	decisionAliases   = []string{"قرار المجلس", "القرار", "Décision", "Decision"}
	appreciationAliases = []string{"الميزة", "التقدير", "Mention", "Appréciation", "Appreciation"}
)

// subjectCatalog is the fixed list of standardized subject names recognized
// in academics headers (substring containment, case-sensitive as authored).
var subjectCatalog = []string{
	"الرياضيات",
	"اللغة العربية",
	"اللغة الفرنسية",
	"اللغة الإنجليزية",
	"علوم الحياة والأرض",
	"الفيزياء والكيمياء",
	"الاجتماعيات",
	"التربية الإسلامية",
	"الفلسفة",
	"المعلوميات",
	"التربية البدنية",
	"Mathématiques",
	"Arabe",
	"Français",
	"Anglais",
	"SVT",
	"Physique-Chimie",
	"Histoire-Géographie",
	"Éducation Islamique",
	"Philosophie",
	"Informatique",
	"EPS",
}

// coefficient and observation column markers.
var (
	coeffMarkers = []string{"Coeff", "معامل"}
	obsMarkers   = []string{"ملاحظ", "Observation", "Remarque"}
)

// resolveColumn finds the actual column key for a logical field: per alias,
// exact trimmed match first, then substring containment in either direction.
// The first alias that resolves wins.
func resolveColumn(headers []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for _, h := range headers {
			if strings.TrimSpace(h) == alias {
				return h, true
			}
		}
		for _, h := range headers {
			ht := strings.TrimSpace(h)
			if ht == "" {
				continue
			}
			if strings.Contains(ht, alias) || strings.Contains(alias, ht) {
				return h, true
			}
		}
	}
	return "", false
}

func headersOf(row Row) []string {
	headers := make([]string, 0, len(row))
	for k := range row {
		headers = append(headers, k)
	}
	return headers
}

// Numeric coercion: locale-agnostic (accepts comma decimal separators).

// coerceFloat parses a numeric cell; non-numeric or empty input coerces to 0.
func coerceFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0
	}
	return f
}

// optionalFloat parses an optional numeric cell; blank or invalid input
// omits the field.
func optionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &f
}

func optionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// NormalizeRows shapes extracted rows into candidate records for one target
// domain. Rows judged unrecognizable are skipped; for academics a file whose
// headers resolve neither an identifier nor a name column is rejected
// outright with ErrUnrecognizedLayout.
func NormalizeRows(rows []Row, domain Domain) ([]*Candidate, error) {
	if !domain.Valid() {
		return nil, errors.Errorf("unknown import domain %q", domain)
	}

	if domain == DomainAcademics {
		return normalizeAcademics(rows)
	}

	cands := make([]*Candidate, 0, len(rows))
	for _, row := range rows {
		var c *Candidate
		switch domain {
		case DomainStudents:
			c = normalizeStudent(row)
		case DomainHealth:
			c = normalizeHealth(row)
		case DomainAttendance:
			c = normalizeAttendance(row)
		}
		if c != nil {
			cands = append(cands, c)
		}
	}
	return cands, nil
}

func normalizeStudent(row Row) *Candidate {
	headers := headersOf(row)
	nameCol, ok := resolveColumn(headers, nameAliases)
	if !ok {
		return nil
	}
	name := row.Cell(nameCol)
	if name == "" {
		return nil
	}

	ns := &student.NewStudent{FullName: name, Grade: "Unknown"}
	if col, ok := resolveColumn(headers, academicIDAliases); ok {
		ns.AcademicID = row.Cell(col)
	}
	if col, ok := resolveColumn(headers, guardianIDAliases); ok {
		ns.GuardianID = row.Cell(col)
	}
	if col, ok := resolveColumn(headers, gradeAliases); ok {
		if grade := row.Cell(col); grade != "" {
			ns.Grade = grade
		}
	}
	if col, ok := resolveColumn(headers, roomAliases); ok {
		ns.RoomNumber = row.Cell(col)
	}

	c := newCandidate(DomainStudents)
	c.Student = ns
	c.StudentName = name
	return c
}

func normalizeHealth(row Row) *Candidate {
	headers := headersOf(row)
	nameCol, ok := resolveColumn(headers, nameAliases)
	if !ok {
		return nil
	}
	name := row.Cell(nameCol)
	if name == "" {
		return nil
	}

	nr := &health.NewRecord{Severity: health.SeverityLow}
	if col, ok := resolveColumn(headers, dateAliases); ok {
		nr.Date = row.Cell(col)
	}
	if col, ok := resolveColumn(headers, conditionAliases); ok {
		nr.Condition = row.Cell(col)
	}
	if col, ok := resolveColumn(headers, severityAliases); ok {
		nr.Severity = mapSeverity(row.Cell(col))
	}
	if col, ok := resolveColumn(headers, treatmentAliases); ok {
		nr.Treatment = row.Cell(col)
	}
	if col, ok := resolveColumn(headers, notesAliases); ok {
		nr.Notes = row.Cell(col)
	}

	c := newCandidate(DomainHealth)
	c.Health = nr
	c.StudentName = name
	return c
}

func normalizeAttendance(row Row) *Candidate {
	headers := headersOf(row)
	nameCol, ok := resolveColumn(headers, nameAliases)
	if !ok {
		return nil
	}
	name := row.Cell(nameCol)
	if name == "" {
		return nil
	}

	md := &attendance.MarkDay{Status: attendance.StatusAbsent}
	if col, ok := resolveColumn(headers, dateAliases); ok {
		md.Date = row.Cell(col)
	}
	if col, ok := resolveColumn(headers, statusAliases); ok {
		md.Status = mapAttendanceStatus(row.Cell(col))
	}
	if col, ok := resolveColumn(headers, remarkAliases); ok {
		md.Remark = row.Cell(col)
	}

	c := newCandidate(DomainAttendance)
	c.Attendance = md
	c.StudentName = name
	return c
}

func normalizeAcademics(rows []Row) ([]*Candidate, error) {
	// a file with neither a resolvable identifier column nor a resolvable
	// name column anywhere in the header set is rejected: the caller falls
	// back to the document-understanding path.
	var headers []string
	for _, row := range rows {
		if len(row) > 0 {
			headers = headersOf(row)
			break
		}
	}
	idCol, hasID := resolveColumn(headers, academicIDAliases)
	nameCol, hasName := resolveColumn(headers, nameAliases)
	if !hasID && !hasName {
		return nil, ErrUnrecognizedLayout
	}

	semCol, hasSem := resolveColumn(headers, semesterAliases)
	avgCol, hasAvg := resolveColumn(headers, averageAliases)
	rankCol, hasRank := resolveColumn(headers, rankAliases)
	unifiedCol, hasUnified := resolveColumn(headers, unifiedAliases)
	decisionCol, hasDecision := resolveColumn(headers, decisionAliases)
	appreciationCol, hasAppreciation := resolveColumn(headers, appreciationAliases)
	subjectCols := classifySubjectColumns(headers)

	cands := make([]*Candidate, 0, len(rows))
	for _, row := range rows {
		var name, id string
		if hasName {
			name = row.Cell(nameCol)
		}
		if hasID {
			id = row.Cell(idCol)
		}
		if name == "" && id == "" {
			continue
		}

		nr := &academic.NewRecord{Semester: academic.SemesterS1}
		if hasSem {
			nr.Semester = mapSemester(row.Cell(semCol))
		}
		if hasAvg {
			nr.GeneralAverage = coerceFloat(row.Cell(avgCol))
		}
		if hasRank {
			nr.Rank = optionalInt(row.Cell(rankCol))
		}
		if hasUnified {
			nr.UnifiedExamAverage = optionalFloat(row.Cell(unifiedCol))
		}
		if hasDecision {
			nr.TeacherDecision = row.Cell(decisionCol)
		}
		if hasAppreciation {
			nr.Appreciation = row.Cell(appreciationCol)
		}
		nr.Subjects = subjectCols.extract(row)
		if nr.GeneralAverage == 0 && len(nr.Subjects) > 0 {
			nr.GeneralAverage = academic.WeightedAverage(nr.Subjects)
		}

		c := newCandidate(DomainAcademics)
		c.Academic = nr
		c.StudentName = name
		c.AcademicID = id
		cands = append(cands, c)
	}
	return cands, nil
}

// subjectColumns pairs grade and coefficient columns by subject name.
type subjectColumns struct {
	order []string          // subjects in column order
	grade map[string]string // subject -> grade column
	coeff map[string]string // subject -> coefficient column
}

// classifySubjectColumns recognizes subject columns by substring containment
// against the catalog. A column whose header carries a coefficient marker is
// the subject's coefficient column; otherwise, unless it is an observation
// column, it is the subject's grade column. Subjects are emitted in catalog
// order.
func classifySubjectColumns(headers []string) subjectColumns {
	sc := subjectColumns{
		grade: make(map[string]string),
		coeff: make(map[string]string),
	}
	for _, h := range headers {
		ht := strings.TrimSpace(h)
		if ht == "" {
			continue
		}
		subject, ok := matchSubject(ht)
		if !ok {
			continue
		}
		if containsAny(ht, coeffMarkers) {
			sc.coeff[subject] = h
			continue
		}
		if containsAny(ht, obsMarkers) {
			continue
		}
		sc.grade[subject] = h
	}
	for _, subj := range subjectCatalog {
		if _, ok := sc.grade[subj]; ok {
			sc.order = append(sc.order, subj)
		}
	}
	return sc
}

func matchSubject(header string) (string, bool) {
	for _, subj := range subjectCatalog {
		if strings.Contains(header, subj) || strings.Contains(subj, header) {
			return subj, true
		}
	}
	return "", false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// extract builds the subject lines for one row; a coefficient defaults to 1
// when no paired coefficient column exists or its cell is empty.
func (sc subjectColumns) extract(row Row) []academic.Subject {
	if len(sc.order) == 0 {
		return nil
	}
	subjects := make([]academic.Subject, 0, len(sc.order))
	for _, subj := range sc.order {
		s := academic.Subject{
			Name:        subj,
			Grade:       coerceFloat(row.Cell(sc.grade[subj])),
			Coefficient: 1,
		}
		if col, ok := sc.coeff[subj]; ok {
			if cell := row.Cell(col); cell != "" {
				if coeff := coerceFloat(cell); coeff > 0 {
					s.Coefficient = coeff
				}
			}
		}
		subjects = append(subjects, s)
	}
	return subjects
}

func mapSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case health.SeverityHigh, "élevée", "elevee", "خطيرة", "عالية":
		return health.SeverityHigh
	case health.SeverityMedium, "moyenne", "متوسطة":
		return health.SeverityMedium
	default:
		return health.SeverityLow
	}
}

func mapAttendanceStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case attendance.StatusPresent, "présent", "حاضر":
		return attendance.StatusPresent
	case attendance.StatusLate, "retard", "en retard", "متأخر":
		return attendance.StatusLate
	default:
		return attendance.StatusAbsent
	}
}

func mapSemester(s string) string {
	if strings.Contains(s, "2") {
		return academic.SemesterS2
	}
	return academic.SemesterS1
}
