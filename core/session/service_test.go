package session_test

import (
	"testing"
	"time"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/session"
	"github.com/kwanza/kocha/core/student"
	emailsvc "github.com/kwanza/kocha/services/email"
	notifsvc "github.com/kwanza/kocha/services/notification"
	dummydb "github.com/kwanza/kocha/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fixture struct {
	svc         *session.Service
	repo        session.Repository
	classRepo   class.Repository
	studentRepo student.Repository
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	sessionRepo := dummydb.NewSessionRepository(db)
	classRepo := dummydb.NewClassRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)

	notifSvc := notifsvc.NewService(emailsvc.NewConsoleServiceMock(), nopLogger{})
	return &fixture{
		svc:         session.NewService(sessionRepo, classRepo, studentRepo, notifSvc, nopLogger{}),
		repo:        sessionRepo,
		classRepo:   classRepo,
		studentRepo: studentRepo,
	}
}

func mustTOD(t *testing.T, s string) core.TimeOfDay {
	t.Helper()
	tod, err := core.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) failed, %v", s, err)
	}
	return tod
}

func (f *fixture) createClass(t *testing.T, day time.Weekday, start, end string, recurring bool) class.Class {
	t.Helper()
	now := time.Now().UTC()
	cl, err := f.classRepo.CreateClass(class.Class{
		AcademyID:   "academy1",
		CoachID:     "coach1",
		CourtID:     "court1",
		Name:        "Juniors",
		DayOfWeek:   day,
		StartTime:   mustTOD(t, start),
		EndTime:     mustTOD(t, end),
		Capacity:    12,
		IsRecurring: recurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed, %v", err)
	}
	return cl
}

func (f *fixture) createStudent(t *testing.T, name, email, guardianPhone string) student.Student {
	t.Helper()
	now := time.Now().UTC()
	st, err := f.studentRepo.CreateStudent(student.Student{
		AcademyID:     "academy1",
		Name:          name,
		Email:         email,
		GuardianPhone: guardianPhone,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed, %v", err)
	}
	return st
}

func (f *fixture) enroll(t *testing.T, cl class.Class, st student.Student) class.Enrollment {
	t.Helper()
	enr, err := f.classRepo.CreateEnrollment(class.Enrollment{
		ClassID:    cl.ID,
		StudentID:  st.ID,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed, %v", err)
	}
	return enr
}

func TestService_Generate(t *testing.T) {
	f := setup(t)

	// anchor generation on a known Monday
	from := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC) // Monday
	cl := f.createClass(t, time.Wednesday, "16:00", "17:00", true)
	st1 := f.createStudent(t, "Awa", "awa@test.cd", "")
	st2 := f.createStudent(t, "Ben", "ben@test.cd", "")
	f.enroll(t, cl, st1)
	f.enroll(t, cl, st2)

	res, err := f.svc.Generate(session.GenerateOptions{WeeksAhead: 2, From: from})
	if err != nil {
		t.Fatalf("Generate() failed, %v", err)
	}
	if res.GeneratedCount != 2 {
		t.Fatalf("GeneratedCount = %d, want 2", res.GeneratedCount)
	}
	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", res.Failures)
	}

	wantDates := []time.Time{
		time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	for i, s := range res.GeneratedSessions {
		if !s.Date.Equal(wantDates[i]) {
			t.Errorf("session[%d].Date = %v, want %v", i, s.Date, wantDates[i])
		}
		if s.StartTime.Hour() != 16 || s.EndTime.Hour() != 17 {
			t.Errorf("session[%d] times = %v - %v, want 16:00 - 17:00", i, s.StartTime, s.EndTime)
		}
		if s.Date.Weekday() != time.Wednesday {
			t.Errorf("session[%d] generated on %v, want Wednesday", i, s.Date.Weekday())
		}

		// attendance is seeded from the roster
		swa, err := f.repo.GetSessionWithAttendance(s.ID)
		if err != nil {
			t.Fatalf("GetSessionWithAttendance() failed, %v", err)
		}
		if len(swa.Attendance) != 2 {
			t.Fatalf("session[%d] has %d attendance rows, want 2", i, len(swa.Attendance))
		}
		for _, rec := range swa.Attendance {
			if rec.Status != session.StatusPresent {
				t.Errorf("seeded status = %s, want PRESENT", rec.Status)
			}
			if rec.MarkedBy != session.SystemMarkedBy {
				t.Errorf("seeded MarkedBy = %s, want %s", rec.MarkedBy, session.SystemMarkedBy)
			}
		}
	}
}

func TestService_Generate_PreservesAttendance(t *testing.T) {
	f := setup(t)

	from := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	cl := f.createClass(t, time.Wednesday, "16:00", "17:00", true)
	st := f.createStudent(t, "Awa", "awa@test.cd", "")
	f.enroll(t, cl, st)

	res, err := f.svc.Generate(session.GenerateOptions{WeeksAhead: 1, From: from})
	if err != nil {
		t.Fatalf("Generate() failed, %v", err)
	}
	if res.GeneratedCount != 1 {
		t.Fatalf("GeneratedCount = %d, want 1", res.GeneratedCount)
	}
	orig := res.GeneratedSessions[0]

	// rerun: the session carries attendance and must survive untouched
	res2, err := f.svc.Generate(session.GenerateOptions{WeeksAhead: 1, From: from})
	if err != nil {
		t.Fatalf("Generate() failed, %v", err)
	}
	if res2.GeneratedCount != 0 {
		t.Errorf("GeneratedCount = %d, want 0", res2.GeneratedCount)
	}
	if len(res2.SkippedSessions) != 1 {
		t.Fatalf("SkippedSessions = %d, want 1", len(res2.SkippedSessions))
	}
	skipped := res2.SkippedSessions[0]
	if skipped.SessionID != orig.ID {
		t.Errorf("skipped SessionID = %s, want %s", skipped.SessionID, orig.ID)
	}
	if skipped.Reason != session.ReasonAttendanceExists {
		t.Errorf("skip reason = %s, want %s", skipped.Reason, session.ReasonAttendanceExists)
	}
	if _, err := f.repo.GetSessionByID(orig.ID); err != nil {
		t.Errorf("original session is gone: %v", err)
	}
}

func TestService_Generate_ReplacesStalePlaceholders(t *testing.T) {
	f := setup(t)

	from := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	// no enrollments: generated sessions have no attendance rows
	cl := f.createClass(t, time.Wednesday, "16:00", "17:00", true)

	res, err := f.svc.Generate(session.GenerateOptions{WeeksAhead: 1, From: from})
	if err != nil {
		t.Fatalf("Generate() failed, %v", err)
	}
	orig := res.GeneratedSessions[0]
	if orig.StartTime.Hour() != 16 {
		t.Fatalf("StartTime hour = %d, want 16", orig.StartTime.Hour())
	}

	// the schedule changes; regeneration propagates the new times
	cl.StartTime = mustTOD(t, "18:00")
	cl.EndTime = mustTOD(t, "19:00")
	if _, err := f.classRepo.UpdateClass(cl, nil); err != nil {
		t.Fatalf("UpdateClass() failed, %v", err)
	}

	res2, err := f.svc.Generate(session.GenerateOptions{WeeksAhead: 1, From: from})
	if err != nil {
		t.Fatalf("Generate() failed, %v", err)
	}
	if res2.GeneratedCount != 1 {
		t.Fatalf("GeneratedCount = %d, want 1", res2.GeneratedCount)
	}
	replacement := res2.GeneratedSessions[0]
	if replacement.ID == orig.ID {
		t.Error("expected the placeholder to be recreated with a new ID")
	}
	if !replacement.Date.Equal(orig.Date) {
		t.Errorf("replacement Date = %v, want %v", replacement.Date, orig.Date)
	}
	if replacement.StartTime.Hour() != 18 {
		t.Errorf("replacement StartTime hour = %d, want 18", replacement.StartTime.Hour())
	}
	if _, err := f.repo.GetSessionByID(orig.ID); err != session.ErrNotFound {
		t.Errorf("GetSessionByID(orig) error = %v, want ErrNotFound", err)
	}
}

func TestService_Generate_ScopesAndErrors(t *testing.T) {
	f := setup(t)

	from := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	recurring := f.createClass(t, time.Monday, "08:00", "09:00", true)
	f.createClass(t, time.Tuesday, "08:00", "09:00", false) // one-off

	// unknown class
	if _, err := f.svc.Generate(session.GenerateOptions{ClassID: "nope", WeeksAhead: 1, From: from}); err != class.ErrNotFound {
		t.Errorf("Generate() error = %v, want class.ErrNotFound", err)
	}

	// empty ClassID targets recurring classes only
	res, err := f.svc.Generate(session.GenerateOptions{WeeksAhead: 1, From: from})
	if err != nil {
		t.Fatalf("Generate() failed, %v", err)
	}
	if res.GeneratedCount != 1 {
		t.Fatalf("GeneratedCount = %d, want 1", res.GeneratedCount)
	}
	if res.GeneratedSessions[0].ClassID != recurring.ID {
		t.Errorf("generated for %s, want recurring class %s", res.GeneratedSessions[0].ClassID, recurring.ID)
	}
}

func TestService_QueryRange(t *testing.T) {
	f := setup(t)

	from := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	cl := f.createClass(t, time.Wednesday, "16:00", "17:00", true)

	if _, err := f.svc.Generate(session.GenerateOptions{WeeksAhead: 3, From: from}); err != nil {
		t.Fatalf("Generate() failed, %v", err)
	}

	// only the first two Wednesdays fall in the queried range
	sessions, err := f.svc.QueryRange(cl.ID, from, from.AddDate(0, 0, 13))
	if err != nil {
		t.Fatalf("QueryRange() failed, %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("QueryRange() returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].Date.After(sessions[1].Date) {
		t.Error("expected sessions ordered by date")
	}
}
