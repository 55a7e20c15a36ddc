package report

import (
	"time"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/session"
)

// Stats accumulates attendance counts for one student.
type Stats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
}

// Rate is the share of sessions the student showed up to (late included).
func (s Stats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Present+s.Late) / float64(s.Total)
}

func (s Stats) add(status session.AttendanceStatus) Stats {
	s.Total++
	switch status {
	case session.StatusPresent:
		s.Present++
	case session.StatusLate:
		s.Late++
	case session.StatusAbsent:
		s.Absent++
	}
	return s
}

// Aggregate folds attendance records into per-student stats. Merge rule:
// every record increments the student's Total and exactly one status bucket;
// records with an unknown status only count toward Total. Ad-hoc records
// (no enrollment) count like any other.
func Aggregate(records []session.AttendanceRecord) map[string]Stats {
	stats := make(map[string]Stats)
	for _, rec := range records {
		stats[rec.StudentID] = stats[rec.StudentID].add(rec.Status)
	}
	return stats
}

type (
	WeekReport struct {
		Year         int              `json:"year"`
		Week         int              `json:"week"`
		StartDate    time.Time        `json:"start_date"`
		EndDate      time.Time        `json:"end_date"`
		SessionCount int              `json:"session_count"`
		Students     map[string]Stats `json:"students"`
	}

	Service struct {
		sessionRepo session.Repository
	}
)

func NewService(sessionRepo session.Repository) *Service {
	return &Service{sessionRepo: sessionRepo}
}

// Weekly aggregates attendance for one ISO-ish week, optionally scoped to a
// single class (empty classID = all classes).
func (svc *Service) Weekly(classID string, year, week int) (WeekReport, error) {
	start, end, err := core.WeekRange(year, week)
	if err != nil {
		return WeekReport{}, core.NewValidationError(err, core.FieldError{Field: "week", Error: err.Error()})
	}

	sessions, err := svc.sessionRepo.QuerySessionsInRange(classID, start, end)
	if err != nil {
		return WeekReport{}, err
	}

	var records []session.AttendanceRecord
	for _, s := range sessions {
		records = append(records, s.Attendance...)
	}

	return WeekReport{
		Year:         year,
		Week:         week,
		StartDate:    start,
		EndDate:      end,
		SessionCount: len(sessions),
		Students:     Aggregate(records),
	}, nil
}
