package class

import (
	"errors"
	"time"

	"github.com/kwanza/kocha/core"
)

var (
	// errors
	ErrNotFound           = errors.New("class not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("student is already enrolled in this class")

	errEndBeforeStart = errors.New("end time must be after start time")
)

// ConflictError reports a coach double-booking: the candidate slot overlaps
// one or more existing classes assigned to the same coach.
type ConflictError struct {
	CoachID   string     `json:"coach_id"`
	Conflicts []TimeSlot `json:"conflicts"`
}

func (e *ConflictError) Error() string {
	return "coach is already booked in this time slot"
}

type (
	Repository interface {
		CreateClass(cl Class) (Class, error)
		GetClassByID(id string) (Class, error)
		// GetClassWithRoster returns the class and its enrolled students in
		// one fixed shape.
		GetClassWithRoster(id string) (ClassWithRoster, error)
		FilterClasses(filter QueryFilter) ([]Class, error)
		// QueryClassesByCoachDay returns all classes of a coach on a given
		// weekday, regardless of academy.
		QueryClassesByCoachDay(coachID string, day time.Weekday) ([]Class, error)
		QueryRecurringClasses() ([]Class, error)
		UpdateClass(cl Class, isRecurring *bool) (Class, error)
		DeleteClassesByID(ids ...string) error

		CreateEnrollment(enr Enrollment) (Enrollment, error)
		GetEnrollment(classID, studentID string) (Enrollment, error)
		QueryEnrollmentsByClass(classID string) ([]Enrollment, error)
		DeleteEnrollmentsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// HasConflict reports whether the candidate slot [start, end) overlaps an
// existing class of the same coach on the same weekday. Intervals are
// half-open: a class ending exactly when another starts does not conflict.
// excludeClassID omits the class being edited from its own check.
func (svc *Service) HasConflict(coachID string, day time.Weekday, start, end core.TimeOfDay, excludeClassID string) (bool, []TimeSlot, error) {
	existing, err := svc.repo.QueryClassesByCoachDay(coachID, day)
	if err != nil {
		return false, nil, err
	}

	var conflicts []TimeSlot
	for _, cl := range existing {
		if cl.ID == excludeClassID {
			continue
		}
		if cl.StartTime.Minutes() < end.Minutes() && cl.EndTime.Minutes() > start.Minutes() {
			conflicts = append(conflicts, TimeSlot{
				ClassID:   cl.ID,
				ClassName: cl.Name,
				DayOfWeek: cl.DayOfWeek,
				StartTime: cl.StartTime,
				EndTime:   cl.EndTime,
			})
		}
	}
	return len(conflicts) > 0, conflicts, nil
}

func (svc *Service) checkConflict(coachID string, day time.Weekday, start, end core.TimeOfDay, excludeClassID string) error {
	conflict, slots, err := svc.HasConflict(coachID, day, start, end, excludeClassID)
	if err != nil {
		return err
	}
	if conflict {
		return &ConflictError{CoachID: coachID, Conflicts: slots}
	}
	return nil
}

func (svc *Service) Create(nc NewClass) (Class, error) {
	day := time.Weekday(nc.DayOfWeek)
	if err := svc.checkConflict(nc.CoachID, day, nc.start, nc.end, ""); err != nil {
		return Class{}, err
	}

	recurring := true
	if nc.IsRecurring != nil {
		recurring = *nc.IsRecurring
	}
	capacity := nc.Capacity
	if capacity == 0 {
		capacity = 12
	}
	now := time.Now().UTC()
	cl := Class{
		AcademyID:   nc.AcademyID,
		CoachID:     nc.CoachID,
		CourtID:     nc.CourtID,
		Name:        nc.Name,
		Level:       nc.Level,
		DayOfWeek:   day,
		StartTime:   nc.start,
		EndTime:     nc.end,
		Capacity:    capacity,
		IsRecurring: recurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateClass(cl)
}

func (svc *Service) GetByID(id string) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *Service) GetWithRoster(id string) (ClassWithRoster, error) {
	return svc.repo.GetClassWithRoster(id)
}

func (svc *Service) Filter(filter QueryFilter) ([]Class, error) {
	return svc.repo.FilterClasses(filter)
}

func (svc *Service) Update(id string, uc UpdateClass) (Class, error) {
	if err := svc.checkConflict(uc.CoachID, uc.day, uc.start, uc.end, id); err != nil {
		return Class{}, err
	}

	cl := Class{
		ID:        id,
		CoachID:   uc.CoachID,
		CourtID:   uc.CourtID,
		Name:      uc.Name,
		Level:     uc.Level,
		DayOfWeek: uc.day,
		StartTime: uc.start,
		EndTime:   uc.end,
		Capacity:  uc.Capacity,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateClass(cl, uc.IsRecurring)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteClassesByID(ids...)
}

// Enroll adds a student to the class roster.
func (svc *Service) Enroll(classID, studentID string) (Enrollment, error) {
	if _, err := svc.repo.GetClassByID(classID); err != nil {
		return Enrollment{}, err
	}
	if _, err := svc.repo.GetEnrollment(classID, studentID); err == nil {
		return Enrollment{}, core.NewValidationError(
			ErrAlreadyEnrolled,
			core.FieldError{Field: "student_id", Error: ErrAlreadyEnrolled.Error()},
		)
	} else if err != ErrEnrollmentNotFound {
		return Enrollment{}, err
	}

	enr := Enrollment{
		ClassID:    classID,
		StudentID:  studentID,
		EnrolledAt: time.Now().UTC(),
	}
	return svc.repo.CreateEnrollment(enr)
}

// Unenroll removes a student from the class roster. Past attendance records
// are kept; they reference the session directly.
func (svc *Service) Unenroll(classID, studentID string) error {
	enr, err := svc.repo.GetEnrollment(classID, studentID)
	if err != nil {
		return err
	}
	return svc.repo.DeleteEnrollmentsByID(enr.ID)
}

func (svc *Service) Roster(classID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByClass(classID)
}
