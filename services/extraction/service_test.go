package extractsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dartalib/backend/core"
	"github.com/dartalib/backend/core/importer"
	testutil "github.com/dartalib/backend/tests"
)

func newTestService(t *testing.T, docServiceURL string) *Service {
	t.Helper()
	conf := &core.Config{}
	conf.Extraction.URL = docServiceURL
	conf.Extraction.ApiKey = "test-key"
	conf.Extraction.Timeout = 5 * time.Second
	return NewService(conf, testutil.NewLogger())
}

func TestParseSpreadsheetCSV(t *testing.T) {
	svc := newTestService(t, "")

	content := []byte("الاسم الكامل,رقم مسار,المستوى\n" +
		"يوسف العمراني,K1300254,2APIC\n" +
		"أمينة بنعلي,K1300255,1APIC\n" +
		",,\n")

	rows, err := svc.ParseSpreadsheet("students.csv", content)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "يوسف العمراني", rows[0].Cell("الاسم الكامل"))
	assert.Equal(t, "K1300254", rows[0].Cell("رقم مسار"))
	assert.Equal(t, "1APIC", rows[1].Cell("المستوى"))
}

func TestParseSpreadsheetXLSX(t *testing.T) {
	svc := newTestService(t, "")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"الاسم الكامل", "رقم مسار"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"يوسف العمراني", "K1300254"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := svc.ParseSpreadsheet("students.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "يوسف العمراني", rows[0].Cell("الاسم الكامل"))
}

func TestParseSpreadsheetSkipsLeadingBlankRows(t *testing.T) {
	svc := newTestService(t, "")

	content := []byte(",,\nالاسم الكامل,المستوى\nأمينة بنعلي,1APIC\n")
	rows, err := svc.ParseSpreadsheet("students.csv", content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "أمينة بنعلي", rows[0].Cell("الاسم الكامل"))
}

func TestExtractSpreadsheetPath(t *testing.T) {
	// no document service configured: the deterministic path must carry it
	svc := newTestService(t, "")

	content := []byte("الاسم الكامل,رقم مسار\nيوسف العمراني,K1300254\n")
	cands, err := svc.Extract(context.Background(), "students.csv", content, importer.DomainStudents)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "يوسف العمراني", cands[0].Student.FullName)
}

func TestExtractDelegatesNonSpreadsheet(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/v1/extract", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "students", r.FormValue("domain"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"الاسم الكامل": "يوسف العمراني", "رقم مسار": "K1300254"}]}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	cands, err := svc.Extract(context.Background(), "list.pdf", []byte("%PDF-"), importer.DomainStudents)
	require.NoError(t, err)
	assert.True(t, called)
	require.Len(t, cands, 1)
	assert.Equal(t, "K1300254", cands[0].Student.AcademicID)
}

func TestExtractFallsBackOnUnrecognizedLayout(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"الاسم الكامل": "أمينة بنعلي", "المعدل العام": "14,5"}]}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	// academics file whose headers resolve nothing: spreadsheet path rejects it
	content := []byte("colonne1,colonne2\na,b\n")
	cands, err := svc.Extract(context.Background(), "notes.csv", content, importer.DomainAcademics)
	require.NoError(t, err)
	assert.True(t, called)
	require.Len(t, cands, 1)
	assert.InDelta(t, 14.5, cands[0].Academic.GeneralAverage, 0.0001)
}

func TestExtractDocumentServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)
	_, err := svc.Extract(context.Background(), "list.pdf", []byte("%PDF-"), importer.DomainStudents)
	assert.Error(t, err)
}
