package testutil

import (
	"testing"
	"time"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/student"
	"github.com/kwanza/kocha/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	academyID, name, email, guardianPhone string,
) student.Student {
	t.Helper()

	now := time.Now().UTC()
	st, err := repo.CreateStudent(student.Student{
		AcademyID:     academyID,
		Name:          name,
		Email:         email,
		GuardianPhone: guardianPhone,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateClass(
	t *testing.T,
	repo class.Repository,
	academyID, coachID, courtID, name string,
	day time.Weekday,
	start, end string,
) class.Class {
	t.Helper()

	startTOD, err := core.ParseTimeOfDay(start)
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	endTOD, err := core.ParseTimeOfDay(end)
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	now := time.Now().UTC()
	cl, err := repo.CreateClass(class.Class{
		AcademyID:   academyID,
		CoachID:     coachID,
		CourtID:     courtID,
		Name:        name,
		DayOfWeek:   day,
		StartTime:   startTOD,
		EndTime:     endTOD,
		Capacity:    12,
		IsRecurring: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cl
}

func Enroll(t *testing.T, repo class.Repository, cl class.Class, st student.Student) class.Enrollment {
	t.Helper()

	enr, err := repo.CreateEnrollment(class.Enrollment{
		ClassID:    cl.ID,
		StudentID:  st.ID,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return enr
}
