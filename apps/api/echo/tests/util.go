package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/kwanza/kocha/apps/api/echo"
	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/academy"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/coach"
	"github.com/kwanza/kocha/core/court"
	"github.com/kwanza/kocha/core/report"
	"github.com/kwanza/kocha/core/session"
	"github.com/kwanza/kocha/core/student"
	"github.com/kwanza/kocha/core/user"
	emailsvc "github.com/kwanza/kocha/services/email"
	notifsvc "github.com/kwanza/kocha/services/notification"
	dummydb "github.com/kwanza/kocha/storage/database/dummy"
)

var (
	usrRepo     user.Repository
	studentRepo student.Repository
	classRepo   class.Repository
	sessionRepo session.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) Server {
	t.Helper()

	// error responses must keep their production shape
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	studentRepo = dummydb.NewStudentRepository(db)
	classRepo = dummydb.NewClassRepository(db)
	sessionRepo = dummydb.NewSessionRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	notifSvc := notifsvc.NewService(mailSvc, nopLogger{})
	validate, translator := core.NewValidator()
	sessionSvc := session.NewService(sessionRepo, classRepo, studentRepo, notifSvc, nopLogger{})

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			UserSvc:        user.NewService(usrRepo, mailSvc, validate, translator),
			AcademySvc:     academy.NewService(dummydb.NewAcademyRepository(db)),
			StudentSvc:     student.NewService(studentRepo),
			CoachSvc:       coach.NewService(dummydb.NewCoachRepository(db)),
			CourtSvc:       court.NewService(dummydb.NewCourtRepository(db)),
			ClassSvc:       class.NewService(classRepo),
			SessionSvc:     sessionSvc,
			ReportSvc:      report.NewService(sessionRepo),
			Validate:       validate,
			Translator:     translator,
			Logger:         nopLogger{},
			Shutdown:       func() {},
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
