package class

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/student"
)

// Class is a weekly-recurring class template: a day of week plus a time-of-day
// range, owned by one coach on one court. Dated occurrences are materialized
// separately as sessions.
type Class struct {
	ID          string         `json:"id"`
	AcademyID   string         `json:"academy_id"`
	CoachID     string         `json:"coach_id"`
	CourtID     string         `json:"court_id"`
	Name        string         `json:"name"`
	Level       string         `json:"level"`
	DayOfWeek   time.Weekday   `json:"day_of_week"` // Sunday=0
	StartTime   core.TimeOfDay `json:"start_time"`
	EndTime     core.TimeOfDay `json:"end_time"`
	Capacity    int            `json:"capacity"`
	IsRecurring bool           `json:"is_recurring"`
	CreatedAt   time.Time      `json:"created_at"` // UTC
	UpdatedAt   time.Time      `json:"updated_at"` // UTC
}

// Enrollment is a standing student-to-class membership, distinct from session
// attendance.
type Enrollment struct {
	ID         string    `json:"id"`
	ClassID    string    `json:"class_id"`
	StudentID  string    `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"` // UTC
}

// ClassWithRoster is a Class together with its enrolled students; the nested
// shape is fixed so handlers never build ad-hoc include trees.
type ClassWithRoster struct {
	Class
	Roster []student.Student `json:"roster"`
}

// TimeSlot describes an existing class occupying a conflicting slot.
type TimeSlot struct {
	ClassID   string         `json:"class_id"`
	ClassName string         `json:"class_name"`
	DayOfWeek time.Weekday   `json:"day_of_week"`
	StartTime core.TimeOfDay `json:"start_time"`
	EndTime   core.TimeOfDay `json:"end_time"`
}

// NewClass contains information needed to create a new Class.
// Times are "HH:MM" 24-hour strings.
type NewClass struct {
	AcademyID   string `json:"academy_id" validate:"required"`
	CoachID     string `json:"coach_id" validate:"required"`
	CourtID     string `json:"court_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Level       string `json:"level"`
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required,timeofday"`
	EndTime     string `json:"end_time" validate:"required,timeofday"`
	Capacity    int    `json:"capacity" validate:"omitempty,min=1"`
	IsRecurring *bool  `json:"is_recurring"`

	start, end core.TimeOfDay
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Level = core.CleanString(nc.Level, true /* lower */)

	if err := validate.Struct(nc); err != nil {
		return err
	}

	// tags guarantee both parse
	nc.start, _ = core.ParseTimeOfDay(nc.StartTime)
	nc.end, _ = core.ParseTimeOfDay(nc.EndTime)
	return validateTimeOrder(nc.start, nc.end)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	CoachID     string `json:"coach_id"`
	CourtID     string `json:"court_id"`
	Name        string `json:"name"`
	Level       string `json:"level"`
	DayOfWeek   *int   `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	StartTime   string `json:"start_time" validate:"omitempty,timeofday"`
	EndTime     string `json:"end_time" validate:"omitempty,timeofday"`
	Capacity    int    `json:"capacity" validate:"omitempty,min=1"`
	IsRecurring *bool  `json:"is_recurring"`

	day        time.Weekday
	start, end core.TimeOfDay
}

func (uc *UpdateClass) Validate(orig Class, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if level := core.CleanString(uc.Level, true /* lower */); level != "" {
		uc.Level = level
	} else {
		uc.Level = orig.Level
	}
	if uc.CoachID == "" {
		uc.CoachID = orig.CoachID
	}
	if uc.CourtID == "" {
		uc.CourtID = orig.CourtID
	}
	if uc.Capacity == 0 {
		uc.Capacity = orig.Capacity
	}

	if err := validate.Struct(uc); err != nil {
		return err
	}

	uc.day = orig.DayOfWeek
	if uc.DayOfWeek != nil {
		uc.day = time.Weekday(*uc.DayOfWeek)
	}
	uc.start, uc.end = orig.StartTime, orig.EndTime
	if uc.StartTime != "" {
		uc.start, _ = core.ParseTimeOfDay(uc.StartTime)
	}
	if uc.EndTime != "" {
		uc.end, _ = core.ParseTimeOfDay(uc.EndTime)
	}
	return validateTimeOrder(uc.start, uc.end)
}

func validateTimeOrder(start, end core.TimeOfDay) error {
	if !end.After(start) {
		return core.NewValidationError(
			errEndBeforeStart,
			core.FieldError{Field: "end_time", Error: errEndBeforeStart.Error()},
		)
	}
	return nil
}

type QueryFilter struct {
	Search    string `query:"search"`
	AcademyID string `query:"academy_id"`
	CoachID   string `query:"coach_id"`
	CourtID   string `query:"court_id"`
	DayOfWeek *int   `query:"day_of_week"`
	Level     string `query:"level"`
	Recurring *bool  `query:"recurring"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.AcademyID == "" && qf.CoachID == "" && qf.CourtID == "" &&
		qf.DayOfWeek == nil && qf.Level == "" && qf.Recurring == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Level = core.CleanString(qf.Level, true /* lower */)
}
