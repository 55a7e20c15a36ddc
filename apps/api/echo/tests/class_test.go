package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/user"
	testutil "github.com/kwanza/kocha/tests"
)

func Test_classApi(t *testing.T) {
	server := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@kocha.cd", "", user.AdminRoles, true)
	coach := testutil.CreateUser(t, usrRepo, "Coach", "coach1", "coach@kocha.cd", "", user.CoachRoles, true)
	noRole := testutil.CreateUser(t, usrRepo, "Rando", "rando", "rando@kocha.cd", "", nil, true)
	adminToken := getToken(t, admin)
	coachToken := getToken(t, coach)
	noRoleToken := getToken(t, noRole)

	newClassBody := func(coachID, courtID, name, start, end string) []byte {
		return marchallObj(t, map[string]interface{}{
			"academy_id":  "academy1",
			"coach_id":    coachID,
			"court_id":    courtID,
			"name":        name,
			"day_of_week": int(time.Monday),
			"start_time":  start,
			"end_time":    end,
		})
	}

	tests := []httpTest{
		{name: "query: no token", method: http.MethodGet, path: "/v1/classes", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "query: no staff role", method: http.MethodGet, path: "/v1/classes", token: noRoleToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})},
		{name: "query: empty", method: http.MethodGet, path: "/v1/classes", token: coachToken, wantCode: http.StatusOK, wantData: []byte("[]")},
		{name: "create: coach forbidden", method: http.MethodPost, path: "/v1/classes", token: coachToken, body: newClassBody("coach1", "court1", "Juniors", "16:00", "17:00"), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})},
		{name: "create: missing fields", method: http.MethodPost, path: "/v1/classes", token: adminToken, body: marchallObj(t, map[string]interface{}{"academy_id": "academy1"}), wantCode: http.StatusBadRequest},
		{name: "create: bad time format", method: http.MethodPost, path: "/v1/classes", token: adminToken, body: newClassBody("coach1", "court1", "Juniors", "4pm", "5pm"), wantCode: http.StatusBadRequest},
		{name: "create: end before start", method: http.MethodPost, path: "/v1/classes", token: adminToken, body: newClassBody("coach1", "court1", "Juniors", "17:00", "16:00"), wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"end_time": "end time must be after start time"})},
		{name: "create: ok", method: http.MethodPost, path: "/v1/classes", token: adminToken, body: newClassBody("coach1", "court1", "Juniors", "16:00", "17:00"), wantCode: http.StatusCreated},
		{name: "create: coach conflict", method: http.MethodPost, path: "/v1/classes", token: adminToken, body: newClassBody("coach1", "court2", "Seniors", "16:30", "17:30"), wantCode: http.StatusConflict},
		{name: "create: back to back ok", method: http.MethodPost, path: "/v1/classes", token: adminToken, body: newClassBody("coach1", "court1", "Seniors", "17:00", "18:00"), wantCode: http.StatusCreated},
		{name: "retrieve: not found", method: http.MethodGet, path: "/v1/classes/nope", token: coachToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_classApi_conflictBody(t *testing.T) {
	server := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin", "admin@kocha.cd", "", user.AdminRoles, true)
	adminToken := getToken(t, admin)
	existing := testutil.CreateClass(t, classRepo, "academy1", "coach1", "court1", "Juniors", time.Monday, "16:00", "17:00")

	body := marchallObj(t, map[string]interface{}{
		"academy_id":  "academy1",
		"coach_id":    "coach1",
		"court_id":    "court2",
		"name":        "Seniors",
		"day_of_week": int(time.Monday),
		"start_time":  "16:30",
		"end_time":    "17:30",
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/classes", adminToken, body)
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Error     string           `json:"error"`
		CoachID   string           `json:"coach_id"`
		Conflicts []class.TimeSlot `json:"conflicts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling conflict body failed: %v", err)
	}
	if resp.CoachID != "coach1" {
		t.Errorf("coach_id = %s, want coach1", resp.CoachID)
	}
	if len(resp.Conflicts) != 1 || resp.Conflicts[0].ClassID != existing.ID {
		t.Errorf("conflicts = %+v, want the existing class", resp.Conflicts)
	}
}

func Test_classApi_roster(t *testing.T) {
	server := setup(t)

	frontDesk := testutil.CreateUser(t, usrRepo, "Desk", "frontdesk1", "desk@kocha.cd", "", user.FrontDeskRoles, true)
	token := getToken(t, frontDesk)
	cl := testutil.CreateClass(t, classRepo, "academy1", "coach1", "court1", "Juniors", time.Monday, "16:00", "17:00")
	st := testutil.CreateStudent(t, studentRepo, "academy1", "Awa", "awa@test.cd", "")

	enrollBody := marchallObj(t, map[string]string{"student_id": st.ID})
	base := fmt.Sprintf("/v1/classes/%s", cl.ID)

	tests := []httpTest{
		{name: "roster: empty", method: http.MethodGet, path: base + "/roster", token: token, wantCode: http.StatusOK, wantData: []byte("[]")},
		{name: "enroll: missing student_id", method: http.MethodPost, path: base + "/enroll", token: token, body: marchallObj(t, map[string]string{}), wantCode: http.StatusBadRequest},
		{name: "enroll: unknown class", method: http.MethodPost, path: "/v1/classes/nope/enroll", token: token, body: enrollBody, wantCode: http.StatusNotFound},
		{name: "enroll: ok", method: http.MethodPost, path: base + "/enroll", token: token, body: enrollBody, wantCode: http.StatusCreated},
		{name: "enroll: duplicate", method: http.MethodPost, path: base + "/enroll", token: token, body: enrollBody, wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"student_id": "student is already enrolled in this class"})},
		{name: "unenroll: ok", method: http.MethodPost, path: base + "/unenroll", token: token, body: enrollBody, wantCode: http.StatusNoContent},
		{name: "unenroll: gone", method: http.MethodPost, path: base + "/unenroll", token: token, body: enrollBody, wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the retrieve shape nests the roster
	testutil.Enroll(t, classRepo, cl, st)
	req, rec := newAuthRequest(http.MethodGet, base, token)
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var cwr class.ClassWithRoster
	if err := json.Unmarshal(rec.Body.Bytes(), &cwr); err != nil {
		t.Fatalf("unmarshalling class failed: %v", err)
	}
	if cwr.ID != cl.ID || len(cwr.Roster) != 1 || cwr.Roster[0].ID != st.ID {
		t.Errorf("retrieve = %+v, want class with 1 enrolled student", cwr)
	}
}
