package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/health"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		aliases []string
		want    string
		wantOK  bool
	}{
		{
			name:    "exact match beats containment for the same alias",
			headers: []string{"الاسم", "الاسم الكامل"},
			aliases: nameAliases,
			want:    "الاسم الكامل",
			wantOK:  true,
		},
		{
			name:    "containment fallback",
			headers: []string{"الاسم الكامل للتلميذ"},
			aliases: nameAliases,
			want:    "الاسم الكامل للتلميذ",
			wantOK:  true,
		},
		{
			name:    "header contained in alias",
			headers: []string{"Massar"},
			aliases: academicIDAliases,
			want:    "Massar",
			wantOK:  true,
		},
		{
			name:    "no match",
			headers: []string{"ملاحظات"},
			aliases: academicIDAliases,
			wantOK:  false,
		},
		{
			name:    "blank headers are never matched",
			headers: []string{"", "  "},
			aliases: nameAliases,
			wantOK:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolveColumn(tt.headers, tt.aliases)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"15,75", 15.75},
		{"12.5", 12.5},
		{" 8 ", 8},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coerceFloat(tt.in), "coerceFloat(%q)", tt.in)
	}
}

func TestNormalizeRowsStudents(t *testing.T) {
	rows := []Row{
		{
			"Nom complet":   "يوسف العمراني",
			"Code Massar":   "K1300254",
			"CIN du tuteur": "AB123456",
			"Niveau":        "2APIC",
			"Chambre":       "12",
		},
		{
			"Nom complet": "أمينة بنعلي",
			"Code Massar": "K1300255",
		},
		{
			// no name: skipped
			"Nom complet": "",
			"Code Massar": "K1300256",
		},
	}

	cands, err := NormalizeRows(rows, DomainStudents)
	require.NoError(t, err)
	require.Len(t, cands, 2)

	c := cands[0]
	assert.Equal(t, DomainStudents, c.Domain)
	assert.Equal(t, StatusNew, c.Status)
	assert.NotEmpty(t, c.ID)
	require.NotNil(t, c.Student)
	assert.Equal(t, "يوسف العمراني", c.Student.FullName)
	assert.Equal(t, "K1300254", c.Student.AcademicID)
	assert.Equal(t, "AB123456", c.Student.GuardianID)
	assert.Equal(t, "2APIC", c.Student.Grade)
	assert.Equal(t, "12", c.Student.RoomNumber)

	// missing grade falls back to the Unknown bucket
	assert.Equal(t, "Unknown", cands[1].Student.Grade)
}

func TestNormalizeRowsHealth(t *testing.T) {
	rows := []Row{
		{
			"اسم التلميذ":    "أمينة بنعلي",
			"التاريخ":        "2026-01-10",
			"الحالة الصحية":  "زكام",
			"الخطورة":        "متوسطة",
			"العلاج":         "راحة",
		},
		{
			"اسم التلميذ":   "يوسف العمراني",
			"الحالة الصحية": "صداع",
		},
	}

	cands, err := NormalizeRows(rows, DomainHealth)
	require.NoError(t, err)
	require.Len(t, cands, 2)

	require.NotNil(t, cands[0].Health)
	assert.Equal(t, "أمينة بنعلي", cands[0].StudentName)
	assert.Equal(t, "2026-01-10", cands[0].Health.Date)
	assert.Equal(t, "زكام", cands[0].Health.Condition)
	assert.Equal(t, health.SeverityMedium, cands[0].Health.Severity)
	assert.Equal(t, "راحة", cands[0].Health.Treatment)

	// severity defaults to low when the column is absent
	assert.Equal(t, health.SeverityLow, cands[1].Health.Severity)
}

func TestNormalizeRowsAttendance(t *testing.T) {
	rows := []Row{
		{"الاسم الكامل": "يوسف العمراني", "التاريخ": "2026-01-12", "الحضور": "حاضر"},
		{"الاسم الكامل": "أمينة بنعلي", "التاريخ": "2026-01-12", "الحضور": "Retard", "السبب": "تأخر الحافلة"},
		{"الاسم الكامل": "سعيد الناجي", "التاريخ": "2026-01-12", "الحضور": ""},
	}

	cands, err := NormalizeRows(rows, DomainAttendance)
	require.NoError(t, err)
	require.Len(t, cands, 3)

	assert.Equal(t, attendance.StatusPresent, cands[0].Attendance.Status)
	assert.Equal(t, attendance.StatusLate, cands[1].Attendance.Status)
	assert.Equal(t, "تأخر الحافلة", cands[1].Attendance.Remark)
	// anything unrecognized, including blank, marks absent
	assert.Equal(t, attendance.StatusAbsent, cands[2].Attendance.Status)
}

func TestNormalizeRowsAcademics(t *testing.T) {
	rows := []Row{
		{
			"رقم مسار":        "K1300254",
			"الاسم الكامل":    "يوسف العمراني",
			"الدورة":          "S1",
			"الرياضيات":       "15,5",
			"الرياضيات معامل": "4",
			"اللغة العربية":   "12",
			"الرتبة":          "3",
		},
		{
			"رقم مسار":        "",
			"الاسم الكامل":    "",
			"الرياضيات":       "10",
			"الرياضيات معامل": "4",
		},
	}

	cands, err := NormalizeRows(rows, DomainAcademics)
	require.NoError(t, err)
	// the identity-less second row is skipped
	require.Len(t, cands, 1)

	c := cands[0]
	assert.Equal(t, "K1300254", c.AcademicID)
	assert.Equal(t, "يوسف العمراني", c.StudentName)
	require.NotNil(t, c.Academic)
	assert.Equal(t, "S1", c.Academic.Semester)
	require.NotNil(t, c.Academic.Rank)
	assert.Equal(t, 3, *c.Academic.Rank)

	require.Len(t, c.Academic.Subjects, 2)
	maths := c.Academic.Subjects[0]
	assert.Equal(t, "الرياضيات", maths.Name)
	assert.Equal(t, 15.5, maths.Grade)
	assert.Equal(t, 4.0, maths.Coefficient)
	arabic := c.Academic.Subjects[1]
	assert.Equal(t, "اللغة العربية", arabic.Name)
	assert.Equal(t, 12.0, arabic.Grade)
	// no paired coefficient column: defaults to 1
	assert.Equal(t, 1.0, arabic.Coefficient)

	// no general-average column: computed from the subject lines
	assert.InDelta(t, (15.5*4+12)/5, c.Academic.GeneralAverage, 0.0001)
}

func TestNormalizeRowsAcademicsRejectsUnknownLayout(t *testing.T) {
	rows := []Row{
		{"colonne1": "a", "colonne2": "b"},
	}
	_, err := NormalizeRows(rows, DomainAcademics)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnrecognizedLayout)
}

func TestNormalizeRowsUnknownDomain(t *testing.T) {
	_, err := NormalizeRows(nil, Domain("houses"))
	assert.Error(t, err)
}
