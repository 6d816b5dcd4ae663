package echoapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/tuition/apps/api/echo"
	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/attendance"
	"github.com/trezcool/tuition/core/fee"
	"github.com/trezcool/tuition/core/reschedule"
	"github.com/trezcool/tuition/core/schedule"
	"github.com/trezcool/tuition/core/session"
	"github.com/trezcool/tuition/core/student"
	logsvc "github.com/trezcool/tuition/services/logger"
	"github.com/trezcool/tuition/storage/blob"
	"github.com/trezcool/tuition/tests"
)

type httpErr struct {
	Error string `json:"error"`
}

func setup(t *testing.T, store *blob.Mem) (echoapi.Server, *session.Session) {
	core.NowFunc = func() time.Time { return time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC) } // a Tuesday
	t.Cleanup(func() { core.NowFunc = time.Now })

	var sess *session.Session
	if store != nil {
		sess = testutil.NewSession(t, store)
	} else {
		sess = testutil.NewSession(t, nil)
	}
	srv := echoapi.NewServer(&echoapi.Options{
		AppName:        "Tuition",
		TestMode:       true,
		DisableReqLogs: true,
		Location:       time.UTC,
		Session:        sess,
		Logger:         logsvc.NewDiscardLogger(),
	})
	return srv, sess
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func do(t *testing.T, srv echoapi.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			t.Fatalf("marshalling body failed: %v", err)
		}
	}
	req, rec := newRequest(method, path, data)
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q failed: %v", rec.Body.String(), err)
	}
}

func ashaBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Asha",
		"grade":       "8",
		"subject":     "Maths",
		"schedule":    map[string]string{"Tuesday": "5-6pm"},
		"monthly_fee": 1000,
	}
}

func TestHome(t *testing.T) {
	srv, _ := setup(t, nil)
	rec := do(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Tuition API!", rec.Body.String())
}

func TestStudentAPI(t *testing.T) {
	srv, _ := setup(t, nil)

	t.Run("create: invalid", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/v1/students", map[string]interface{}{
			"name":     "Asha",
			"schedule": map[string]string{"Funday": "5-6pm"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var fields map[string]string
		decode(t, rec, &fields)
		assert.Equal(t, "this field cannot be blank", fields["grade"])
		assert.Equal(t, "this field cannot be blank", fields["subject"])
		assert.Contains(t, fields, "monthly_fee")
		assert.Contains(t, fields, "schedule[Funday]")
	})

	t.Run("create: bad json", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/students", []byte(`{"name":`))
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	var asha student.Student
	t.Run("create", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/v1/students", ashaBody())
		require.Equal(t, http.StatusCreated, rec.Code)
		decode(t, rec, &asha)
		assert.Equal(t, 1, asha.ID)
		assert.Equal(t, student.Schedule{core.Tuesday: "5-6pm"}, asha.Schedule)
		assert.True(t, decimal.NewFromInt(1000).Equal(asha.MonthlyFee))
		assert.Empty(t, asha.FeesPaid)
		assert.Empty(t, rec.Header().Get("Warning"))
	})

	t.Run("query", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/v1/students?search=ASH", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var students []student.Student
		decode(t, rec, &students)
		require.Len(t, students, 1)
		assert.Equal(t, "Asha", students[0].Name)

		rec = do(t, srv, http.MethodGet, "/v1/students?search=zed", nil)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantErr  string
	}{
		{name: "retrieve", method: http.MethodGet, path: "/v1/students/1", wantCode: http.StatusOK},
		{name: "retrieve: bad id", method: http.MethodGet, path: "/v1/students/lol", wantCode: http.StatusBadRequest},
		{name: "retrieve: not found", method: http.MethodGet, path: "/v1/students/42", wantCode: http.StatusNotFound, wantErr: "student 42 not found"},
		{name: "destroy: not found", method: http.MethodDelete, path: "/v1/students/42", wantCode: http.StatusNotFound, wantErr: "student 42 not found"},
		{name: "destroy", method: http.MethodDelete, path: "/v1/students/1", wantCode: http.StatusNoContent},
		{name: "retrieve: deleted", method: http.MethodGet, path: "/v1/students/1", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, nil)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				var he httpErr
				decode(t, rec, &he)
				assert.Equal(t, tt.wantErr, he.Error)
			}
		})
	}

	t.Run("ids are not reused", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/v1/students", ashaBody())
		require.Equal(t, http.StatusCreated, rec.Code)
		var std student.Student
		decode(t, rec, &std)
		assert.Equal(t, 2, std.ID)
	})
}

func TestScheduleAPI(t *testing.T) {
	srv, sess := setup(t, nil)
	asha := testutil.CreateStudent(t, sess, "Asha", student.Schedule{core.Tuesday: "5-6pm"}, 1000)

	entriesOf := func(t *testing.T, path string) []schedule.Entry {
		rec := do(t, srv, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var entries []schedule.Entry
		decode(t, rec, &entries)
		return entries
	}

	entries := entriesOf(t, "/v1/schedule")
	require.Len(t, entries, 1)
	assert.Equal(t, "5-6pm", entries[0].Time)

	rec := do(t, srv, http.MethodGet, "/v1/schedule?day=someday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, srv, http.MethodGet, "/v1/schedule?date=04-06-2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/v1/reschedules", map[string]interface{}{
		"student_id":    asha.ID,
		"original_date": "2024-06-04",
		"new_date":      "2024-06-05",
		"reason":        "exam",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res reschedule.Reschedule
	decode(t, rec, &res)
	assert.Equal(t, 1, res.ID)
	assert.Equal(t, "5-6pm", res.NewTime)
	assert.Equal(t, reschedule.Active, res.Status)

	assert.Empty(t, entriesOf(t, "/v1/schedule?date=2024-06-04"))
	entries = entriesOf(t, "/v1/schedule?date=2024-06-05")
	require.Len(t, entries, 1)
	assert.Equal(t, asha.ID, entries[0].Student.ID)
	assert.Equal(t, "5-6pm", entries[0].Time)
	require.NotNil(t, entries[0].Reschedule)
	assert.Len(t, entriesOf(t, "/v1/schedule?day=tue"), 1)

	rec = do(t, srv, http.MethodGet, "/v1/reschedules?date=2024-06-05", nil)
	var list []reschedule.Reschedule
	decode(t, rec, &list)
	assert.Len(t, list, 1)

	rec = do(t, srv, http.MethodPost, "/v1/reschedules", map[string]interface{}{"student_id": 42, "original_date": "2024-06-04", "new_date": "2024-06-05"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, srv, http.MethodPost, "/v1/reschedules", map[string]interface{}{"student_id": asha.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// reschedule outlives its student
	rec = do(t, srv, http.MethodDelete, "/v1/students/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodGet, "/v1/schedule?date=2024-06-05", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var he httpErr
	decode(t, rec, &he)
	assert.Equal(t, "reschedule 1 references missing student 1", he.Error)
}

func TestAttendanceAPI(t *testing.T) {
	srv, sess := setup(t, nil)
	asha := testutil.CreateStudent(t, sess, "Asha", student.Schedule{core.Tuesday: "5-6pm"}, 1000)

	statusOf := func(t *testing.T) attendance.Status {
		rec := do(t, srv, http.MethodGet, "/v1/attendance?student=1&date=2024-06-04", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp echoapi.AttendanceStatusResponse
		decode(t, rec, &resp)
		return resp.Status
	}
	assert.Equal(t, attendance.Unmarked, statusOf(t))

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode int
	}{
		{name: "bad status", body: map[string]interface{}{"student_id": asha.ID, "date": "2024-06-04", "status": "late"}, wantCode: http.StatusBadRequest},
		{name: "no date", body: map[string]interface{}{"student_id": asha.ID, "status": "present"}, wantCode: http.StatusBadRequest},
		{name: "unknown student", body: map[string]interface{}{"student_id": 42, "date": "2024-06-04", "status": "present"}, wantCode: http.StatusNotFound},
		{name: "present", body: map[string]interface{}{"student_id": asha.ID, "date": "2024-06-04", "status": "present"}, wantCode: http.StatusOK},
		{name: "absent", body: map[string]interface{}{"student_id": asha.ID, "date": "2024-06-04", "status": "ABSENT"}, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPut, "/v1/attendance", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, attendance.Absent, statusOf(t))

	rec := do(t, srv, http.MethodGet, "/v1/attendance/report?from=2024-06-01&to=2024-06-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rep echoapi.AttendanceReportResponse
	decode(t, rec, &rep)
	require.Len(t, rep.Records, 1)
	assert.Equal(t, attendance.Summary{Present: 0, Absent: 1}, rep.Summary)

	rec = do(t, srv, http.MethodGet, "/v1/attendance/report?from=2024-06-30&to=2024-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, srv, http.MethodGet, "/v1/attendance", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeeAPI(t *testing.T) {
	srv, sess := setup(t, nil)
	asha := testutil.CreateStudent(t, sess, "Asha", student.Schedule{core.Tuesday: "5-6pm"}, 1000)
	testutil.CreateStudent(t, sess, "Ravi", student.Schedule{core.Monday: "4-5pm"}, 500)

	pay := func(t *testing.T, month int) *httptest.ResponseRecorder {
		return do(t, srv, http.MethodPost, "/v1/fees/pay", map[string]interface{}{"student_id": asha.ID, "month": month, "year": 2024})
	}
	require.Equal(t, http.StatusCreated, pay(t, 6).Code)
	require.Equal(t, http.StatusCreated, pay(t, 6).Code) // duplicates are kept
	assert.Equal(t, http.StatusBadRequest, pay(t, 13).Code)

	rec := do(t, srv, http.MethodGet, "/v1/fees?month=6&year=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp echoapi.FeeStatusResponse
	decode(t, rec, &resp)
	assert.True(t, decimal.NewFromInt(1500).Equal(resp.Totals.Expected))
	assert.True(t, decimal.NewFromInt(1000).Equal(resp.Totals.Received))
	assert.True(t, decimal.NewFromInt(500).Equal(resp.Totals.Pending))
	require.Len(t, resp.Students, 2)
	assert.True(t, resp.Students[0].Paid)
	assert.False(t, resp.Students[1].Paid)

	rec = do(t, srv, http.MethodGet, "/v1/fees?month=7&year=2024&search=asha", nil)
	decode(t, rec, &resp)
	require.Len(t, resp.Students, 1)
	assert.False(t, resp.Students[0].Paid)

	rec = do(t, srv, http.MethodGet, "/v1/fees?month=lol", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/v1/fees/report", nil)
	var rep fee.Report
	decode(t, rec, &rep)
	assert.Len(t, rep.Rows, 2)
	assert.Equal(t, "June", rep.Rows[0].Month)
	assert.True(t, decimal.NewFromInt(2000).Equal(rep.Total))

	rec = do(t, srv, http.MethodGet, "/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dash session.Dashboard
	decode(t, rec, &dash)
	assert.Equal(t, 2, dash.TotalStudents)
	assert.True(t, decimal.NewFromInt(1000).Equal(dash.Received))
	assert.Len(t, dash.Today, 1)
}

func TestSaveWarning(t *testing.T) {
	store := blob.NewMem()
	store.Fail["students"] = errors.New("disk full")
	srv, _ := setup(t, store)

	rec := do(t, srv, http.MethodPost, "/v1/students", ashaBody())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `199 - "unsaved changes: students: disk full"`, rec.Header().Get("Warning"))

	rec = do(t, srv, http.MethodGet, "/v1/students", nil)
	var students []student.Student
	decode(t, rec, &students)
	assert.Len(t, students, 1)
}
