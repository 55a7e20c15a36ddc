package class_test

import (
	"errors"
	"testing"
	"time"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/class"
	dummydb "github.com/kwanza/kocha/storage/database/dummy"
)

func mustTOD(t *testing.T, s string) core.TimeOfDay {
	t.Helper()
	tod, err := core.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q) failed, %v", s, err)
	}
	return tod
}

func createClass(t *testing.T, repo class.Repository, coachID string, day time.Weekday, start, end string) class.Class {
	t.Helper()
	now := time.Now().UTC()
	cl, err := repo.CreateClass(class.Class{
		AcademyID:   "academy1",
		CoachID:     coachID,
		CourtID:     "court1",
		Name:        "Juniors",
		Level:       "beginner",
		DayOfWeek:   day,
		StartTime:   mustTOD(t, start),
		EndTime:     mustTOD(t, end),
		Capacity:    12,
		IsRecurring: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed, %v", err)
	}
	return cl
}

func TestService_HasConflict(t *testing.T) {
	db, _ := dummydb.Open()
	repo := dummydb.NewClassRepository(db)
	svc := class.NewService(repo)

	existing := createClass(t, repo, "coach1", time.Monday, "16:00", "17:00")

	tests := []struct {
		name         string
		coachID      string
		day          time.Weekday
		start, end   string
		exclude      string
		wantConflict bool
	}{
		{name: "overlapping slot", coachID: "coach1", day: time.Monday, start: "16:30", end: "17:30", wantConflict: true},
		{name: "enclosing slot", coachID: "coach1", day: time.Monday, start: "15:00", end: "18:00", wantConflict: true},
		{name: "identical slot", coachID: "coach1", day: time.Monday, start: "16:00", end: "17:00", wantConflict: true},
		{name: "back to back after", coachID: "coach1", day: time.Monday, start: "17:00", end: "18:00"},
		{name: "back to back before", coachID: "coach1", day: time.Monday, start: "15:00", end: "16:00"},
		{name: "other day", coachID: "coach1", day: time.Tuesday, start: "16:00", end: "17:00"},
		{name: "other coach", coachID: "coach2", day: time.Monday, start: "16:00", end: "17:00"},
		{name: "excluded self", coachID: "coach1", day: time.Monday, start: "16:00", end: "17:00", exclude: existing.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict, slots, err := svc.HasConflict(tt.coachID, tt.day, mustTOD(t, tt.start), mustTOD(t, tt.end), tt.exclude)
			if err != nil {
				t.Fatalf("HasConflict() failed, %v", err)
			}
			if conflict != tt.wantConflict {
				t.Errorf("HasConflict() = %v, want %v", conflict, tt.wantConflict)
			}
			if tt.wantConflict && len(slots) == 0 {
				t.Error("expected conflicting slots to be reported")
			}
		})
	}
}

func TestService_Create(t *testing.T) {
	db, _ := dummydb.Open()
	repo := dummydb.NewClassRepository(db)
	svc := class.NewService(repo)
	validate, _ := core.NewValidator()

	nc := class.NewClass{
		AcademyID: "academy1",
		CoachID:   "coach1",
		CourtID:   "court1",
		Name:      "Juniors",
		DayOfWeek: int(time.Monday),
		StartTime: "16:00",
		EndTime:   "17:00",
	}
	if err := nc.Validate(validate); err != nil {
		t.Fatalf("Validate() failed, %v", err)
	}
	cl, err := svc.Create(nc)
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	if cl.ID == "" {
		t.Error("expected a generated ID")
	}
	if cl.Capacity != 12 {
		t.Errorf("Capacity = %d, want default 12", cl.Capacity)
	}
	if !cl.IsRecurring {
		t.Error("expected class to default to recurring")
	}

	// same coach, overlapping slot
	nc2 := class.NewClass{
		AcademyID: "academy1",
		CoachID:   "coach1",
		CourtID:   "court2",
		Name:      "Seniors",
		DayOfWeek: int(time.Monday),
		StartTime: "16:30",
		EndTime:   "17:30",
	}
	if err := nc2.Validate(validate); err != nil {
		t.Fatalf("Validate() failed, %v", err)
	}
	_, err = svc.Create(nc2)
	var confErr *class.ConflictError
	if !errors.As(err, &confErr) {
		t.Fatalf("Create() error = %v, want ConflictError", err)
	}
	if confErr.CoachID != "coach1" {
		t.Errorf("ConflictError.CoachID = %s, want coach1", confErr.CoachID)
	}
	if len(confErr.Conflicts) != 1 || confErr.Conflicts[0].ClassID != cl.ID {
		t.Errorf("ConflictError.Conflicts = %+v, want the existing class", confErr.Conflicts)
	}
}

func TestService_Update_ExcludesSelf(t *testing.T) {
	db, _ := dummydb.Open()
	repo := dummydb.NewClassRepository(db)
	svc := class.NewService(repo)
	validate, _ := core.NewValidator()

	cl := createClass(t, repo, "coach1", time.Monday, "16:00", "17:00")

	// shifting a class within its own slot must not conflict with itself
	uc := class.UpdateClass{StartTime: "16:15", EndTime: "17:15"}
	if err := uc.Validate(cl, validate); err != nil {
		t.Fatalf("Validate() failed, %v", err)
	}
	updated, err := svc.Update(cl.ID, uc)
	if err != nil {
		t.Fatalf("Update() failed, %v", err)
	}
	if updated.StartTime.String() != "16:15" {
		t.Errorf("StartTime = %s, want 16:15", updated.StartTime)
	}

	// but it still conflicts with another class of the same coach
	other := createClass(t, repo, "coach1", time.Monday, "18:00", "19:00")
	uc2 := class.UpdateClass{StartTime: "18:30", EndTime: "19:30"}
	if err := uc2.Validate(cl, validate); err != nil {
		t.Fatalf("Validate() failed, %v", err)
	}
	_, err = svc.Update(cl.ID, uc2)
	var confErr *class.ConflictError
	if !errors.As(err, &confErr) {
		t.Fatalf("Update() error = %v, want ConflictError", err)
	}
	if len(confErr.Conflicts) != 1 || confErr.Conflicts[0].ClassID != other.ID {
		t.Errorf("ConflictError.Conflicts = %+v, want the other class", confErr.Conflicts)
	}
}

func TestService_EnrollUnenroll(t *testing.T) {
	db, _ := dummydb.Open()
	repo := dummydb.NewClassRepository(db)
	svc := class.NewService(repo)

	cl := createClass(t, repo, "coach1", time.Wednesday, "10:00", "11:00")

	enr, err := svc.Enroll(cl.ID, "student1")
	if err != nil {
		t.Fatalf("Enroll() failed, %v", err)
	}
	if enr.ClassID != cl.ID || enr.StudentID != "student1" {
		t.Errorf("Enroll() = %+v, want class %s / student1", enr, cl.ID)
	}

	// enrolling twice is rejected
	_, err = svc.Enroll(cl.ID, "student1")
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Enroll() error = %v, want ValidationError", err)
	}

	// unknown class
	if _, err = svc.Enroll("nope", "student1"); err != class.ErrNotFound {
		t.Errorf("Enroll() error = %v, want ErrNotFound", err)
	}

	roster, err := svc.Roster(cl.ID)
	if err != nil {
		t.Fatalf("Roster() failed, %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("Roster() returned %d enrollments, want 1", len(roster))
	}

	if err := svc.Unenroll(cl.ID, "student1"); err != nil {
		t.Fatalf("Unenroll() failed, %v", err)
	}
	if err := svc.Unenroll(cl.ID, "student1"); err != class.ErrEnrollmentNotFound {
		t.Errorf("Unenroll() error = %v, want ErrEnrollmentNotFound", err)
	}
}
