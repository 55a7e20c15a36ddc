package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/session"
	"github.com/kwanza/kocha/core/student"
)

func (f *fixture) createSession(t *testing.T, cl class.Class, date time.Time) session.Session {
	t.Helper()
	now := time.Now().UTC()
	s, err := f.repo.CreateSession(session.Session{
		ClassID:   cl.ID,
		Date:      core.StartOfDay(date),
		StartTime: cl.StartTime.Combine(date),
		EndTime:   cl.EndTime.Combine(date),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSession() failed, %v", err)
	}
	return s
}

func TestService_GenerateAttendance(t *testing.T) {
	f := setup(t)

	cl := f.createClass(t, time.Wednesday, "16:00", "17:00", true)
	st1 := f.createStudent(t, "Awa", "awa@test.cd", "")
	st2 := f.createStudent(t, "Ben", "ben@test.cd", "")
	st3 := f.createStudent(t, "Cora", "cora@test.cd", "")
	for _, st := range []student.Student{st1, st2, st3} {
		f.enroll(t, cl, st)
	}
	s := f.createSession(t, cl, time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC))

	res, err := f.svc.GenerateAttendance(s.ID)
	if err != nil {
		t.Fatalf("GenerateAttendance() failed, %v", err)
	}
	if res.GeneratedCount != 3 {
		t.Fatalf("GeneratedCount = %d, want 3", res.GeneratedCount)
	}
	recs, err := f.repo.QueryAttendanceBySession(s.ID)
	if err != nil {
		t.Fatalf("QueryAttendanceBySession() failed, %v", err)
	}
	for _, rec := range recs {
		if rec.Status != session.StatusPresent {
			t.Errorf("seeded status = %s, want PRESENT", rec.Status)
		}
		if rec.EnrollmentID == "" {
			t.Error("seeded record must reference its enrollment")
		}
	}

	// idempotent: a second call reports existing records and writes nothing
	res2, err := f.svc.GenerateAttendance(s.ID)
	if err != nil {
		t.Fatalf("GenerateAttendance() failed, %v", err)
	}
	if !res2.AlreadyExists || res2.ExistingCount != 3 || res2.GeneratedCount != 0 {
		t.Errorf("GenerateAttendance() = %+v, want AlreadyExists with 3 existing", res2)
	}

	// unknown session
	if _, err := f.svc.GenerateAttendance("nope"); err != session.ErrNotFound {
		t.Errorf("GenerateAttendance() error = %v, want ErrNotFound", err)
	}
}

func TestService_MarkAttendance(t *testing.T) {
	f := setup(t)

	cl := f.createClass(t, time.Wednesday, "16:00", "17:00", true)
	st := f.createStudent(t, "Awa", "awa@test.cd", "+243810000001")
	enr := f.enroll(t, cl, st)
	s := f.createSession(t, cl, time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC))

	if _, err := f.svc.GenerateAttendance(s.ID); err != nil {
		t.Fatalf("GenerateAttendance() failed, %v", err)
	}

	// marking the enrolled student absent updates the seeded row in place
	res, err := f.svc.MarkAttendance(s.ID, []session.AttendanceEntry{
		{StudentID: st.ID, EnrollmentID: enr.ID, Status: session.StatusAbsent, Remarks: "sick"},
	}, "coach1")
	if err != nil {
		t.Fatalf("MarkAttendance() failed, %v", err)
	}
	if res.RecordsProcessed != 1 || res.AbsentCount != 1 {
		t.Errorf("MarkAttendance() = %+v, want 1 processed / 1 absent", res)
	}
	// email + SMS: the student has an address and a guardian phone on file
	if len(res.Notifications) != 2 {
		t.Fatalf("Notifications = %d, want 2", len(res.Notifications))
	}
	channels := map[string]bool{}
	for _, n := range res.Notifications {
		if !n.Success {
			t.Errorf("notification over %s failed", n.Channel)
		}
		channels[n.Channel] = true
	}
	if !channels[core.ChannelEmail] || !channels[core.ChannelSMS] {
		t.Errorf("notified channels = %v, want EMAIL and SMS", channels)
	}

	recs, _ := f.repo.QueryAttendanceBySession(s.ID)
	if len(recs) != 1 {
		t.Fatalf("expected the seeded row to be updated, not duplicated; got %d rows", len(recs))
	}
	rec := recs[0]
	if rec.Status != session.StatusAbsent || rec.Remarks != "sick" || rec.MarkedBy != "coach1" {
		t.Errorf("updated record = %+v", rec)
	}
	if !rec.NotificationSent {
		t.Error("expected the record to be flagged as notified")
	}

	// marking absent again does not re-notify
	res2, err := f.svc.MarkAttendance(s.ID, []session.AttendanceEntry{
		{StudentID: st.ID, EnrollmentID: enr.ID, Status: session.StatusAbsent},
	}, "coach1")
	if err != nil {
		t.Fatalf("MarkAttendance() failed, %v", err)
	}
	if len(res2.Notifications) != 0 {
		t.Errorf("Notifications = %d, want 0 on re-mark", len(res2.Notifications))
	}
}

func TestService_MarkAttendance_Adhoc(t *testing.T) {
	f := setup(t)

	cl := f.createClass(t, time.Wednesday, "16:00", "17:00", true)
	walkIn := f.createStudent(t, "Dado", "dado@test.cd", "")
	s := f.createSession(t, cl, time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC))

	res, err := f.svc.MarkAttendance(s.ID, []session.AttendanceEntry{
		{StudentID: walkIn.ID, Status: session.StatusLate},
	}, "coach1")
	if err != nil {
		t.Fatalf("MarkAttendance() failed, %v", err)
	}
	if res.RecordsProcessed != 1 || res.AbsentCount != 0 {
		t.Errorf("MarkAttendance() = %+v, want 1 processed / 0 absent", res)
	}

	recs, _ := f.repo.QueryAttendanceBySession(s.ID)
	if len(recs) != 1 {
		t.Fatalf("expected 1 ad-hoc record, got %d", len(recs))
	}
	if !recs[0].IsAdhoc() {
		t.Error("expected an ad-hoc record (no enrollment)")
	}
	if recs[0].Status != session.StatusLate {
		t.Errorf("Status = %s, want LATE", recs[0].Status)
	}
}

func TestService_MarkAttendance_Validation(t *testing.T) {
	f := setup(t)

	cl := f.createClass(t, time.Wednesday, "16:00", "17:00", true)
	s := f.createSession(t, cl, time.Date(2021, 3, 3, 0, 0, 0, 0, time.UTC))

	// unknown session
	if _, err := f.svc.MarkAttendance("nope", nil, "coach1"); err != session.ErrNotFound {
		t.Errorf("MarkAttendance() error = %v, want ErrNotFound", err)
	}

	// unsupported status; nothing may be written
	_, err := f.svc.MarkAttendance(s.ID, []session.AttendanceEntry{
		{StudentID: "student1", Status: "EXCUSED"},
	}, "coach1")
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("MarkAttendance() error = %v, want ValidationError", err)
	}
	if recs, _ := f.repo.QueryAttendanceBySession(s.ID); len(recs) != 0 {
		t.Errorf("expected no records written, got %d", len(recs))
	}
}
