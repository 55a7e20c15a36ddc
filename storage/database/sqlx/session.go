package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kwanza/kocha/core/session"
)

type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *sqlx.DB) session.Repository {
	return &sessionRepository{db: db}
}

type sessionRow struct {
	ID        string      `db:"id"`
	ClassID   string      `db:"class_id"`
	Date      time.Time   `db:"date"`
	StartTime time.Time   `db:"start_time"`
	EndTime   time.Time   `db:"end_time"`
	Notes     null.String `db:"notes"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

type attendanceRow struct {
	ID               string      `db:"id"`
	SessionID        string      `db:"session_id"`
	EnrollmentID     null.String `db:"enrollment_id"`
	StudentID        string      `db:"student_id"`
	Status           string      `db:"status"`
	Remarks          null.String `db:"remarks"`
	MarkedBy         null.String `db:"marked_by"`
	NotificationSent null.Bool   `db:"notification_sent"`
	CreatedAt        null.Time   `db:"created_at"`
	UpdatedAt        null.Time   `db:"updated_at"`
}

func (repo sessionRepository) row(s session.Session) sessionRow {
	return sessionRow{
		ID:        s.ID,
		ClassID:   s.ClassID,
		Date:      s.Date.UTC(),
		StartTime: s.StartTime.UTC(),
		EndTime:   s.EndTime.UTC(),
		Notes:     null.NewString(s.Notes, s.Notes != ""),
		CreatedAt: null.NewTime(s.CreatedAt.UTC(), !s.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(s.UpdatedAt.UTC(), !s.UpdatedAt.IsZero()),
	}
}

func (repo sessionRepository) unrow(row sessionRow) session.Session {
	return session.Session{
		ID:        row.ID,
		ClassID:   row.ClassID,
		Date:      row.Date.UTC(),
		StartTime: row.StartTime.UTC(),
		EndTime:   row.EndTime.UTC(),
		Notes:     row.Notes.String,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func (repo sessionRepository) attRow(rec session.AttendanceRecord) attendanceRow {
	return attendanceRow{
		ID:               rec.ID,
		SessionID:        rec.SessionID,
		EnrollmentID:     null.NewString(rec.EnrollmentID, rec.EnrollmentID != ""),
		StudentID:        rec.StudentID,
		Status:           string(rec.Status),
		Remarks:          null.NewString(rec.Remarks, rec.Remarks != ""),
		MarkedBy:         null.NewString(rec.MarkedBy, rec.MarkedBy != ""),
		NotificationSent: null.BoolFrom(rec.NotificationSent),
		CreatedAt:        null.NewTime(rec.CreatedAt.UTC(), !rec.CreatedAt.IsZero()),
		UpdatedAt:        null.NewTime(rec.UpdatedAt.UTC(), !rec.UpdatedAt.IsZero()),
	}
}

func (repo sessionRepository) unrowAtt(row attendanceRow) session.AttendanceRecord {
	return session.AttendanceRecord{
		ID:               row.ID,
		SessionID:        row.SessionID,
		EnrollmentID:     row.EnrollmentID.String,
		StudentID:        row.StudentID,
		Status:           session.AttendanceStatus(row.Status),
		Remarks:          row.Remarks.String,
		MarkedBy:         row.MarkedBy.String,
		NotificationSent: row.NotificationSent.Bool,
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}

func (repo sessionRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return session.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *sessionRepository) CreateSession(s session.Session) (session.Session, error) {
	s.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO session (id, class_id, date, start_time, end_time, notes, created_at, updated_at)
		VALUES (:id, :class_id, :date, :start_time, :end_time, :notes, :created_at, :updated_at)`,
		repo.row(s),
	)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "inserting session")
	}
	return s, nil
}

func (repo *sessionRepository) GetSessionByID(id string) (session.Session, error) {
	var row sessionRow
	if err := repo.db.Get(&row, `SELECT * FROM session WHERE id = $1`, id); err != nil {
		return session.Session{}, repo.trapNoRowsErr(err, "getting session by id")
	}
	return repo.unrow(row), nil
}

func (repo *sessionRepository) GetSessionWithAttendance(id string) (session.SessionWithAttendance, error) {
	s, err := repo.GetSessionByID(id)
	if err != nil {
		return session.SessionWithAttendance{}, err
	}
	records, err := repo.QueryAttendanceBySession(id)
	if err != nil {
		return session.SessionWithAttendance{}, err
	}
	return session.SessionWithAttendance{Session: s, Attendance: records}, nil
}

func (repo *sessionRepository) QuerySessionsInRange(classID string, from, to time.Time) ([]session.SessionWithAttendance, error) {
	query := `SELECT * FROM session WHERE date >= $1 AND date <= $2`
	args := []interface{}{from.UTC(), to.UTC()}
	if classID != "" {
		query += ` AND class_id = $3`
		args = append(args, classID)
	}
	query += ` ORDER BY date`

	var rows []sessionRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying sessions in range")
	}

	sessions := make([]session.SessionWithAttendance, 0, len(rows))
	for _, row := range rows {
		s := repo.unrow(row)
		records, err := repo.QueryAttendanceBySession(s.ID)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session.SessionWithAttendance{Session: s, Attendance: records})
	}
	return sessions, nil
}

func (repo *sessionRepository) DeleteSessionsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM session WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err := repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting sessions")
	}
	return nil
}

func (repo *sessionRepository) CreateAttendance(rec session.AttendanceRecord) (session.AttendanceRecord, error) {
	rec.ID = uuid.New().String()
	_, err := repo.db.NamedExec(`
		INSERT INTO attendance (id, session_id, enrollment_id, student_id, status, remarks, marked_by, notification_sent, created_at, updated_at)
		VALUES (:id, :session_id, :enrollment_id, :student_id, :status, :remarks, :marked_by, :notification_sent, :created_at, :updated_at)`,
		repo.attRow(rec),
	)
	if err != nil {
		return session.AttendanceRecord{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo *sessionRepository) UpdateAttendance(rec session.AttendanceRecord) (session.AttendanceRecord, error) {
	res, err := repo.db.Exec(`
		UPDATE attendance SET status = $1, remarks = $2, marked_by = $3, updated_at = $4
		WHERE id = $5`,
		string(rec.Status), rec.Remarks, rec.MarkedBy, rec.UpdatedAt.UTC(), rec.ID,
	)
	if err != nil {
		return session.AttendanceRecord{}, errors.Wrap(err, "updating attendance record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.AttendanceRecord{}, session.ErrAttendanceNotFound
	}

	var row attendanceRow
	if err := repo.db.Get(&row, `SELECT * FROM attendance WHERE id = $1`, rec.ID); err != nil {
		return session.AttendanceRecord{}, errors.Wrap(err, "getting attendance record")
	}
	return repo.unrowAtt(row), nil
}

func (repo *sessionRepository) GetAttendanceByEnrollment(sessionID, enrollmentID string) (session.AttendanceRecord, error) {
	var row attendanceRow
	err := repo.db.Get(&row, `SELECT * FROM attendance WHERE session_id = $1 AND enrollment_id = $2`, sessionID, enrollmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return session.AttendanceRecord{}, session.ErrAttendanceNotFound
		}
		return session.AttendanceRecord{}, errors.Wrap(err, "getting attendance by enrollment")
	}
	return repo.unrowAtt(row), nil
}

func (repo *sessionRepository) QueryAttendanceBySession(sessionID string) ([]session.AttendanceRecord, error) {
	var rows []attendanceRow
	err := repo.db.Select(&rows, `SELECT * FROM attendance WHERE session_id = $1 ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "querying session attendance")
	}
	records := make([]session.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, repo.unrowAtt(row))
	}
	return records, nil
}

func (repo *sessionRepository) CountAttendanceBySession(sessionID string) (int, error) {
	var count int
	err := repo.db.Get(&count, `SELECT COUNT(*) FROM attendance WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, errors.Wrap(err, "counting session attendance")
	}
	return count, nil
}

func (repo *sessionRepository) MarkNotificationSent(recordID string) error {
	res, err := repo.db.Exec(`UPDATE attendance SET notification_sent = TRUE WHERE id = $1`, recordID)
	if err != nil {
		return errors.Wrap(err, "marking notification sent")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.ErrAttendanceNotFound
	}
	return nil
}
