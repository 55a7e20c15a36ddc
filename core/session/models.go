package session

import (
	"time"
)

// Attendance statuses.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusLate    AttendanceStatus = "LATE"
	StatusAbsent  AttendanceStatus = "ABSENT"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	default:
		return false
	}
}

// SystemMarkedBy identifies attendance rows seeded by the materializer rather
// than a coach.
const SystemMarkedBy = "system"

// Session is one concrete dated occurrence of a recurring class. At most one
// session exists per (class, calendar date).
type Session struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	Date      time.Time `json:"date"`       // calendar day, midnight UTC
	StartTime time.Time `json:"start_time"` // date + class start time-of-day
	EndTime   time.Time `json:"end_time"`   // date + class end time-of-day
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// AttendanceRecord is one row per (session, enrolled student), or per
// (session, ad-hoc student) when EnrollmentID is empty.
type AttendanceRecord struct {
	ID               string           `json:"id"`
	SessionID        string           `json:"session_id"`
	EnrollmentID     string           `json:"enrollment_id,omitempty"` // empty = ad-hoc attendee
	StudentID        string           `json:"student_id"`
	Status           AttendanceStatus `json:"status"`
	Remarks          string           `json:"remarks,omitempty"`
	MarkedBy         string           `json:"marked_by"`
	NotificationSent bool             `json:"notification_sent"`
	CreatedAt        time.Time        `json:"created_at"` // UTC
	UpdatedAt        time.Time        `json:"updated_at"` // UTC
}

// IsAdhoc reports whether the record belongs to a student attending without
// an enrollment.
func (r AttendanceRecord) IsAdhoc() bool { return r.EnrollmentID == "" }

// SessionWithAttendance is a Session and its attendance rows in one fixed
// shape; handlers never build ad-hoc include trees.
type SessionWithAttendance struct {
	Session
	Attendance []AttendanceRecord `json:"attendance"`
}

// HasAttendance reports whether any attendance has been recorded; such
// sessions are never overwritten by re-materialization.
func (s SessionWithAttendance) HasAttendance() bool { return len(s.Attendance) > 0 }
