package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dartalib/backend/core/attendance"
	"github.com/dartalib/backend/core/dining"
	"github.com/dartalib/backend/core/health"
	"github.com/dartalib/backend/core/settings"
	"github.com/dartalib/backend/core/user"
	testutil "github.com/dartalib/backend/tests"
)

func TestHealthCreateRoleGated(t *testing.T) {
	app := newTestApp(t)
	st := testutil.CreateStudent(t, app.studentRepo, "يوسف العمراني", "K1300254", "", "TC-1", "2025-2026")

	nurse := testutil.CreateUser(t, app.usrRepo, "Nurse", "nurse1", "nurse@test.ma", "", "s3cret!", []string{user.RoleNurse}, true)
	teacher := testutil.CreateUser(t, app.usrRepo, "Teacher", "teach1", "teach@test.ma", "", "s3cret!", []string{user.RoleTeacher}, true)

	body := marshalObj(t, health.NewRecord{
		StudentID: st.ID,
		Condition: "asthma",
		Severity:  health.SeverityMedium,
		Treatment: "inhaler",
	})

	// a teacher is staff but not medical staff
	req, rec := newAuthRequest(http.MethodPost, "/v1/health", getToken(t, teacher), body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/health", getToken(t, nurse), body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created health.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, st.ID, created.StudentID)
	assert.NotEmpty(t, created.Date)

	// readable by any authenticated user
	req, rec = newAuthRequest(http.MethodGet, "/v1/health?student_id="+st.ID, getToken(t, teacher))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var recs []health.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	assert.Len(t, recs, 1)
}

func TestAttendanceMarkUpsertsDay(t *testing.T) {
	app := newTestApp(t)
	_, token := app.staff(t)
	st := testutil.CreateStudent(t, app.studentRepo, "يوسف العمراني", "K1300254", "", "TC-1", "2025-2026")

	mark := func(status, remark string) attendance.Record {
		t.Helper()
		body := marshalObj(t, attendance.MarkDay{
			StudentID: st.ID, Date: "2026-01-15", Status: status, Remark: remark,
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", token, body)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var rec2 attendance.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rec2))
		return rec2
	}

	first := mark(attendance.StatusAbsent, "")
	second := mark(attendance.StatusLate, "arrived 22:30")

	// same (student, day): overwritten in place, not duplicated
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, attendance.StatusLate, second.Status)

	recs, err := app.attendanceSvc.QueryAll()
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	// invalid status
	body := marshalObj(t, attendance.MarkDay{StudentID: st.ID, Status: "vanished"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", token, body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiningSetAndQuery(t *testing.T) {
	app := newTestApp(t)
	_, token := app.staff(t)

	body := marshalObj(t, dining.SetMenu{Day: "monday", Meal: "lunch", Items: []string{"couscous", "fruit"}})
	req, rec := newAuthRequest(http.MethodPut, "/v1/dining", token, body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// setting the same slot again replaces it
	body = marshalObj(t, dining.SetMenu{Day: "monday", Meal: "lunch", Items: []string{"tagine"}})
	req, rec = newAuthRequest(http.MethodPut, "/v1/dining", token, body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/v1/dining?day=monday&meal=lunch", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var menu dining.Menu
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &menu))
	assert.Equal(t, []string{"tagine"}, menu.Items)

	req, rec = newAuthRequest(http.MethodGet, "/v1/dining?day=tuesday&meal=dinner", token)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsRetrieveAndUpdate(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.admin(t)
	_, staffToken := app.staff(t)

	// unconfigured settings read as the empty singleton, not a 404
	req, rec := newAuthRequest(http.MethodGet, "/v1/settings", staffToken)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var s settings.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, settings.SingletonID, s.ID)
	assert.Empty(t, s.SchoolYear)

	body := marshalObj(t, settings.UpdateSettings{SchoolName: "Dar Attalib", SchoolYear: "2025-2026"})
	req, rec = newAuthRequest(http.MethodPut, "/v1/settings", staffToken, body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPut, "/v1/settings", adminToken, body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "2025-2026", s.SchoolYear)
	assert.Equal(t, "2025-2026", app.settingsSvc.SchoolYear())
}
