package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dartalib/backend/core/behavior"
	"github.com/dartalib/backend/core/student"
	testutil "github.com/dartalib/backend/tests"
)

func TestStudentQueryRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	req, rec := newRequest(http.MethodGet, "/v1/students")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStudentQuery(t *testing.T) {
	app := newTestApp(t)
	_, token := app.staff(t)

	testutil.CreateStudent(t, app.studentRepo, "يوسف العمراني", "K1300254", "", "TC-1", "2025-2026")
	testutil.CreateStudent(t, app.studentRepo, "أمين التازي", "K1300255", "", "1BAC-2", "2025-2026")

	req, rec := newAuthRequest(http.MethodGet, "/v1/students", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var students []student.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
	assert.Len(t, students, 2)

	// filtered by grade
	req, rec = newAuthRequest(http.MethodGet, "/v1/students?grade=TC-1", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
	require.Len(t, students, 1)
	assert.Equal(t, "K1300254", students[0].AcademicID)
}

func TestStudentCreate(t *testing.T) {
	app := newTestApp(t)
	_, staffToken := app.staff(t)
	_, parentToken := app.parent(t, "ab123456")

	body := marshalObj(t, student.NewStudent{
		FullName:   "يوسف العمراني",
		AcademicID: "K1300254",
		Grade:      "TC-1",
		SchoolYear: "2025-2026",
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/students", parentToken, body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodPost, "/v1/students", staffToken, body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var st student.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, "K1300254", st.AcademicID)

	// missing grade is rejected
	req, rec = newAuthRequest(http.MethodPost, "/v1/students", staffToken,
		marshalObj(t, student.NewStudent{FullName: "بدون مستوى"}))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentUpdate(t *testing.T) {
	app := newTestApp(t)
	_, token := app.staff(t)

	st := testutil.CreateStudent(t, app.studentRepo, "يوسف العمراني", "K1300254", "", "TC-1", "2025-2026")

	body := marshalObj(t, student.UpdateStudent{RoomNumber: "B-12"})
	req, rec := newAuthRequest(http.MethodPut, "/v1/students/"+st.ID, token, body)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated student.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "B-12", updated.RoomNumber)
	// untouched fields survive a partial update
	assert.Equal(t, st.FullName, updated.FullName)
	assert.Equal(t, st.Grade, updated.Grade)

	req, rec = newAuthRequest(http.MethodPut, "/v1/students/nope", token, body)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentSummary(t *testing.T) {
	app := newTestApp(t)
	_, token := app.staff(t)

	st := testutil.CreateStudent(t, app.studentRepo, "يوسف العمراني", "K1300254", "", "TC-1", "2025-2026")

	for _, nr := range []behavior.NewRecord{
		{StudentID: st.ID, Kind: behavior.KindMerit, Description: "helped in the dorm", Points: 5},
		{StudentID: st.ID, Kind: behavior.KindWarning, Description: "late for curfew", Points: -2},
	} {
		if err := nr.Validate(); err != nil {
			t.Fatalf("Validate() failed: %v", err)
		}
		if _, err := app.behaviorSvc.Create(nr); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+st.ID+"/summary", token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sum StudentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, st.ID, sum.Student.ID)
	assert.Len(t, sum.Behavior, 2)
	assert.Equal(t, 3, sum.BehaviorPoints)
	assert.Empty(t, sum.Health)
	assert.Empty(t, sum.Academics)
}

func TestStudentDestroy(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.admin(t)
	_, staffToken := app.staff(t)

	st := testutil.CreateStudent(t, app.studentRepo, "يوسف العمراني", "K1300254", "", "TC-1", "2025-2026")

	// staff cannot delete
	req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+st.ID+"?confirm=true", staffToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin without the confirm flag
	req, rec = newAuthRequest(http.MethodDelete, "/v1/students/"+st.ID, adminToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/students/"+st.ID+"?confirm=true", adminToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := app.studentSvc.GetByID(st.ID)
	assert.Equal(t, student.ErrNotFound, err)
}
