package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/student"
)

var (
	// errors
	ErrNotFound           = errors.New("session not found")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// Skip reasons reported by Generate.
const ReasonAttendanceExists = "attendance_exists"

const dateKeyLayout = "2006-01-02"

type (
	Repository interface {
		CreateSession(s Session) (Session, error)
		GetSessionByID(id string) (Session, error)
		// GetSessionWithAttendance returns the session and its attendance
		// rows in one fixed shape.
		GetSessionWithAttendance(id string) (SessionWithAttendance, error)
		// QuerySessionsInRange returns sessions of a class whose date falls
		// in [from, to], each with its attendance rows, ordered by date.
		// An empty classID matches all classes.
		QuerySessionsInRange(classID string, from, to time.Time) ([]SessionWithAttendance, error)
		DeleteSessionsByID(ids ...string) error

		CreateAttendance(rec AttendanceRecord) (AttendanceRecord, error)
		UpdateAttendance(rec AttendanceRecord) (AttendanceRecord, error)
		// GetAttendanceByEnrollment finds the record for a
		// (session, enrollment) pair.
		GetAttendanceByEnrollment(sessionID, enrollmentID string) (AttendanceRecord, error)
		QueryAttendanceBySession(sessionID string) ([]AttendanceRecord, error)
		CountAttendanceBySession(sessionID string) (int, error)
		// MarkNotificationSent flips the record's notification_sent flag;
		// it transitions false->true exactly once.
		MarkNotificationSent(recordID string) error
	}

	Service struct {
		repo        Repository
		classRepo   class.Repository
		studentRepo student.Repository
		notifSvc    core.NotificationService
		log         core.Logger
	}
)

func NewService(
	repo Repository,
	classRepo class.Repository,
	studentRepo student.Repository,
	notifSvc core.NotificationService,
	log core.Logger,
) *Service {
	return &Service{
		repo:        repo,
		classRepo:   classRepo,
		studentRepo: studentRepo,
		notifSvc:    notifSvc,
		log:         log,
	}
}

type (
	// GenerateOptions drives one materialization run. An empty ClassID
	// targets all recurring classes. WeeksAhead <= 0 falls back to the
	// configured default window; From defaults to now.
	GenerateOptions struct {
		ClassID    string
		WeeksAhead int
		From       time.Time
	}

	SkippedSession struct {
		ClassID   string    `json:"class_id"`
		SessionID string    `json:"session_id"`
		Date      time.Time `json:"date"`
		Reason    string    `json:"reason"`
	}

	GenerationFailure struct {
		ClassID string `json:"class_id"`
		Error   string `json:"error"`
	}

	GenerateResult struct {
		GeneratedCount    int                 `json:"generated_count"`
		GeneratedSessions []Session           `json:"generated_sessions"`
		SkippedSessions   []SkippedSession    `json:"skipped_sessions"`
		Failures          []GenerationFailure `json:"failures,omitempty"`
	}
)

// Generate materializes dated sessions for recurring classes over a rolling
// window. Per candidate date: a session carrying attendance is left untouched
// and reported as skipped; an attendance-less session is deleted and
// recreated so schedule edits propagate; a missing session is created. Newly
// created sessions get their attendance seeded from the current roster.
//
// A failure aborts the current class only; results for other classes are
// still returned and the failure is logged and reported.
//
// The delete-then-recreate step is not wrapped in a transaction: two
// concurrent runs over the same class can race. Known gap.
func (svc *Service) Generate(opts GenerateOptions) (GenerateResult, error) {
	from := opts.From
	if from.IsZero() {
		from = time.Now().UTC()
	}
	weeks := opts.WeeksAhead
	if weeks <= 0 {
		weeks = core.Conf.SessionWeeksAhead
	}
	windowStart := core.StartOfDay(from)
	windowEnd := core.EndOfDay(windowStart.AddDate(0, 0, weeks*7-1))

	var classes []class.Class
	if opts.ClassID != "" {
		cl, err := svc.classRepo.GetClassByID(opts.ClassID)
		if err != nil {
			return GenerateResult{}, err
		}
		classes = append(classes, cl)
	} else {
		var err error
		classes, err = svc.classRepo.QueryRecurringClasses()
		if err != nil {
			return GenerateResult{}, err
		}
	}

	var res GenerateResult
	for _, cl := range classes {
		if err := svc.generateForClass(cl, windowStart, windowEnd, &res); err != nil {
			svc.log.Error("generating sessions failed", err, map[string]interface{}{"classID": cl.ID})
			res.Failures = append(res.Failures, GenerationFailure{ClassID: cl.ID, Error: err.Error()})
		}
	}
	return res, nil
}

// generateForClass walks candidate dates chronologically in 7-day strides,
// starting at the first occurrence of the class's weekday on or after
// windowStart.
func (svc *Service) generateForClass(cl class.Class, windowStart, windowEnd time.Time, res *GenerateResult) error {
	existing, err := svc.repo.QuerySessionsInRange(cl.ID, windowStart, windowEnd)
	if err != nil {
		return err
	}
	byDate := make(map[string]SessionWithAttendance, len(existing))
	for _, s := range existing {
		byDate[s.Date.Format(dateKeyLayout)] = s
	}

	cursor := windowStart.AddDate(0, 0, core.DaysUntilWeekday(windowStart, cl.DayOfWeek))
	for ; !cursor.After(windowEnd); cursor = cursor.AddDate(0, 0, 7) {
		date := core.StartOfDay(cursor)

		if prev, ok := byDate[date.Format(dateKeyLayout)]; ok {
			if prev.HasAttendance() {
				// attendance data is never silently discarded
				res.SkippedSessions = append(res.SkippedSessions, SkippedSession{
					ClassID:   cl.ID,
					SessionID: prev.ID,
					Date:      date,
					Reason:    ReasonAttendanceExists,
				})
				continue
			}
			// stale placeholder: replace so schedule edits propagate
			if err := svc.repo.DeleteSessionsByID(prev.ID); err != nil {
				return err
			}
		}

		created, err := svc.repo.CreateSession(Session{
			ClassID:   cl.ID,
			Date:      date,
			StartTime: cl.StartTime.Combine(date),
			EndTime:   cl.EndTime.Combine(date),
			Notes:     fmt.Sprintf("Auto-generated session for %s", date.Format("Mon, 02 Jan 2006")),
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if _, err := svc.GenerateAttendance(created.ID); err != nil {
			return err
		}

		res.GeneratedCount++
		res.GeneratedSessions = append(res.GeneratedSessions, created)
	}
	return nil
}

func (svc *Service) GetByID(id string) (Session, error) {
	return svc.repo.GetSessionByID(id)
}

func (svc *Service) GetWithAttendance(id string) (SessionWithAttendance, error) {
	return svc.repo.GetSessionWithAttendance(id)
}

// QueryRange lists sessions with nested attendance for a class (or all
// classes when classID is empty) between two dates, inclusive.
func (svc *Service) QueryRange(classID string, from, to time.Time) ([]SessionWithAttendance, error) {
	return svc.repo.QuerySessionsInRange(classID, core.StartOfDay(from), core.EndOfDay(to))
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteSessionsByID(ids...)
}
