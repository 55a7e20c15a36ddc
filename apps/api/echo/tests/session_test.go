package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/kwanza/kocha/core/session"
	"github.com/kwanza/kocha/core/user"
	testutil "github.com/kwanza/kocha/tests"
)

func Test_sessionApi_generate(t *testing.T) {
	server := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@kocha.cd", "", user.AdminRoles, true)
	coach := testutil.CreateUser(t, usrRepo, "Coach", "coach1", "coach@kocha.cd", "", user.CoachRoles, true)
	adminToken := getToken(t, admin)
	coachToken := getToken(t, coach)

	cl := testutil.CreateClass(t, classRepo, "academy1", "coach1", "court1", "Juniors", time.Wednesday, "16:00", "17:00")
	st := testutil.CreateStudent(t, studentRepo, "academy1", "Awa", "awa@test.cd", "")
	testutil.Enroll(t, classRepo, cl, st)

	genBody := marchallObj(t, map[string]interface{}{
		"class_id":    cl.ID,
		"weeks_ahead": 2,
		"from":        "2021-03-01",
	})

	tests := []httpTest{
		{name: "no token", method: http.MethodPost, path: "/v1/sessions/generate", body: genBody, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "coach forbidden", method: http.MethodPost, path: "/v1/sessions/generate", token: coachToken, body: genBody, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})},
		{name: "weeks out of range", method: http.MethodPost, path: "/v1/sessions/generate", token: adminToken, body: marchallObj(t, map[string]interface{}{"weeks_ahead": 53}), wantCode: http.StatusBadRequest},
		{name: "bad from date", method: http.MethodPost, path: "/v1/sessions/generate", token: adminToken, body: marchallObj(t, map[string]interface{}{"from": "03/01/2021"}), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"from": "invalid date, expected YYYY-MM-DD"})},
		{name: "unknown class", method: http.MethodPost, path: "/v1/sessions/generate", token: adminToken, body: marchallObj(t, map[string]interface{}{"class_id": "nope"}), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// materialize two weeks
	req, rec := newAuthRequest(http.MethodPost, "/v1/sessions/generate", adminToken, genBody)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var res session.GenerateResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling GenerateResult failed: %v", err)
	}
	if res.GeneratedCount != 2 {
		t.Fatalf("generated_count = %d, want 2", res.GeneratedCount)
	}

	// a rerun skips both: attendance was seeded from the roster
	req, rec = newAuthRequest(http.MethodPost, "/v1/sessions/generate", adminToken, genBody)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling GenerateResult failed: %v", err)
	}
	if res.GeneratedCount != 0 || len(res.SkippedSessions) != 2 {
		t.Errorf("rerun = %+v, want 0 generated / 2 skipped", res)
	}
	for _, skipped := range res.SkippedSessions {
		if skipped.Reason != session.ReasonAttendanceExists {
			t.Errorf("skip reason = %s, want %s", skipped.Reason, session.ReasonAttendanceExists)
		}
	}

	// the generated sessions are queryable by range
	req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/sessions?class_id=%s&from=2021-03-01&to=2021-03-14", cl.ID), coachToken)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var sessions []session.SessionWithAttendance
	if err := json.Unmarshal(rec.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("unmarshalling sessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("query returned %d sessions, want 2", len(sessions))
	}
	if len(sessions[0].Attendance) != 1 {
		t.Errorf("attendance rows = %d, want 1", len(sessions[0].Attendance))
	}

	// and by week (week 10 of 2021 holds the first Wednesday)
	req, rec = newAuthRequest(http.MethodGet, "/v1/sessions/week?year=2021&week=10", coachToken)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var weekRes struct {
		Year     int                             `json:"year"`
		Week     int                             `json:"week"`
		Sessions []session.SessionWithAttendance `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &weekRes); err != nil {
		t.Fatalf("unmarshalling week response failed: %v", err)
	}
	if len(weekRes.Sessions) != 1 {
		t.Errorf("week sessions = %d, want 1", len(weekRes.Sessions))
	}
}

func Test_sessionApi_attendance(t *testing.T) {
	server := setup(t)

	coach := testutil.CreateUser(t, usrRepo, "Coach", "coach1", "coach@kocha.cd", "", user.CoachRoles, true)
	coachToken := getToken(t, coach)

	cl := testutil.CreateClass(t, classRepo, "academy1", "coach1", "court1", "Juniors", time.Wednesday, "16:00", "17:00")
	st := testutil.CreateStudent(t, studentRepo, "academy1", "Awa", "awa@test.cd", "+243810000001")
	enr := testutil.Enroll(t, classRepo, cl, st)

	date := time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC)
	s, err := sessionRepo.CreateSession(session.Session{
		ClassID:   cl.ID,
		Date:      date,
		StartTime: cl.StartTime.Combine(date),
		EndTime:   cl.EndTime.Combine(date),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	base := fmt.Sprintf("/v1/sessions/%s", s.ID)

	// seed the roster
	req, rec := newAuthRequest(http.MethodPost, base+"/attendance/generate", coachToken)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var seed session.AttendanceSeedResult
	if err := json.Unmarshal(rec.Body.Bytes(), &seed); err != nil {
		t.Fatalf("unmarshalling seed result failed: %v", err)
	}
	if seed.GeneratedCount != 1 {
		t.Fatalf("generated_count = %d, want 1", seed.GeneratedCount)
	}

	// reseeding reports the existing rows
	req, rec = newAuthRequest(http.MethodPost, base+"/attendance/generate", coachToken)
	server.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &seed); err != nil {
		t.Fatalf("unmarshalling seed result failed: %v", err)
	}
	if !seed.AlreadyExists || seed.ExistingCount != 1 {
		t.Errorf("reseed = %+v, want AlreadyExists with 1 existing", seed)
	}

	tests := []httpTest{
		{name: "unknown session", method: http.MethodPost, path: "/v1/sessions/nope/attendance", token: coachToken, body: marchallObj(t, map[string]interface{}{"entries": []map[string]string{{"student_id": st.ID, "status": "PRESENT"}}}), wantCode: http.StatusNotFound},
		{name: "no entries", method: http.MethodPost, path: base + "/attendance", token: coachToken, body: marchallObj(t, map[string]interface{}{"entries": []map[string]string{}}), wantCode: http.StatusBadRequest},
		{name: "bad status", method: http.MethodPost, path: base + "/attendance", token: coachToken, body: marchallObj(t, map[string]interface{}{"entries": []map[string]string{{"student_id": st.ID, "status": "EXCUSED"}}}), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"status": "unsupported attendance status: EXCUSED"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// mark the student absent; the seeded row is updated and attributed to the coach
	markBody := marchallObj(t, map[string]interface{}{
		"entries": []map[string]string{
			{"student_id": st.ID, "enrollment_id": enr.ID, "status": "ABSENT", "remarks": "sick"},
		},
	})
	req, rec = newAuthRequest(http.MethodPost, base+"/attendance", coachToken, markBody)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var mark session.MarkResult
	if err := json.Unmarshal(rec.Body.Bytes(), &mark); err != nil {
		t.Fatalf("unmarshalling mark result failed: %v", err)
	}
	if mark.RecordsProcessed != 1 || mark.AbsentCount != 1 {
		t.Errorf("mark = %+v, want 1 processed / 1 absent", mark)
	}
	// email + SMS to the guardian phone
	if len(mark.Notifications) != 2 {
		t.Errorf("notifications = %d, want 2", len(mark.Notifications))
	}

	req, rec = newAuthRequest(http.MethodGet, base, coachToken)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var swa session.SessionWithAttendance
	if err := json.Unmarshal(rec.Body.Bytes(), &swa); err != nil {
		t.Fatalf("unmarshalling session failed: %v", err)
	}
	if len(swa.Attendance) != 1 {
		t.Fatalf("attendance rows = %d, want 1", len(swa.Attendance))
	}
	rec0 := swa.Attendance[0]
	if rec0.Status != session.StatusAbsent || rec0.MarkedBy != coach.Username {
		t.Errorf("record = %+v, want ABSENT marked by %s", rec0, coach.Username)
	}
	if !rec0.NotificationSent {
		t.Error("expected the record to be flagged as notified")
	}
}
