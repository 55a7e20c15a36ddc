package dummydb

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kwanza/kocha/core/session"
)

type sessionRepository struct {
	db *DB
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) CreateSession(s session.Session) (session.Session, error) {
	repo.db.session.Lock()
	defer repo.db.session.Unlock()

	s.ID = uuid.New().String()
	repo.db.session.table[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) GetSessionByID(id string) (session.Session, error) {
	repo.db.session.RLock()
	defer repo.db.session.RUnlock()

	if s, ok := repo.db.session.table[id]; ok {
		return *s, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) GetSessionWithAttendance(id string) (session.SessionWithAttendance, error) {
	repo.db.session.RLock()
	defer repo.db.session.RUnlock()

	s, ok := repo.db.session.table[id]
	if !ok {
		return session.SessionWithAttendance{}, session.ErrNotFound
	}
	return session.SessionWithAttendance{
		Session:    *s,
		Attendance: repo.attendanceOf(id),
	}, nil
}

func (repo *sessionRepository) QuerySessionsInRange(classID string, from, to time.Time) ([]session.SessionWithAttendance, error) {
	repo.db.session.RLock()
	defer repo.db.session.RUnlock()

	var sessions []session.SessionWithAttendance
	for _, s := range repo.db.session.table {
		if classID != "" && s.ClassID != classID {
			continue
		}
		if s.Date.Before(from) || s.Date.After(to) {
			continue
		}
		sessions = append(sessions, session.SessionWithAttendance{
			Session:    *s,
			Attendance: repo.attendanceOf(s.ID),
		})
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})
	return sessions, nil
}

func (repo *sessionRepository) DeleteSessionsByID(ids ...string) error {
	repo.db.session.Lock()
	defer repo.db.session.Unlock()

	for _, id := range ids {
		delete(repo.db.session.table, id)
		for rid, rec := range repo.db.session.attendance {
			if rec.SessionID == id {
				delete(repo.db.session.attendance, rid)
			}
		}
	}
	return nil
}

func (repo *sessionRepository) CreateAttendance(rec session.AttendanceRecord) (session.AttendanceRecord, error) {
	repo.db.session.Lock()
	defer repo.db.session.Unlock()

	rec.ID = uuid.New().String()
	repo.db.session.attendance[rec.ID] = &rec
	return rec, nil
}

func (repo *sessionRepository) UpdateAttendance(rec session.AttendanceRecord) (session.AttendanceRecord, error) {
	repo.db.session.Lock()
	defer repo.db.session.Unlock()

	orig, ok := repo.db.session.attendance[rec.ID]
	if !ok {
		return session.AttendanceRecord{}, session.ErrAttendanceNotFound
	}
	orig.Status = rec.Status
	orig.Remarks = rec.Remarks
	orig.MarkedBy = rec.MarkedBy
	orig.UpdatedAt = rec.UpdatedAt
	return *orig, nil
}

func (repo *sessionRepository) GetAttendanceByEnrollment(sessionID, enrollmentID string) (session.AttendanceRecord, error) {
	repo.db.session.RLock()
	defer repo.db.session.RUnlock()

	for _, rec := range repo.db.session.attendance {
		if rec.SessionID == sessionID && rec.EnrollmentID == enrollmentID {
			return *rec, nil
		}
	}
	return session.AttendanceRecord{}, session.ErrAttendanceNotFound
}

func (repo *sessionRepository) QueryAttendanceBySession(sessionID string) ([]session.AttendanceRecord, error) {
	repo.db.session.RLock()
	defer repo.db.session.RUnlock()

	return repo.attendanceOf(sessionID), nil
}

func (repo *sessionRepository) CountAttendanceBySession(sessionID string) (int, error) {
	repo.db.session.RLock()
	defer repo.db.session.RUnlock()

	var count int
	for _, rec := range repo.db.session.attendance {
		if rec.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (repo *sessionRepository) MarkNotificationSent(recordID string) error {
	repo.db.session.Lock()
	defer repo.db.session.Unlock()

	rec, ok := repo.db.session.attendance[recordID]
	if !ok {
		return session.ErrAttendanceNotFound
	}
	rec.NotificationSent = true
	return nil
}

// attendanceOf expects the caller to hold the session table lock.
func (repo *sessionRepository) attendanceOf(sessionID string) []session.AttendanceRecord {
	var records []session.AttendanceRecord
	for _, rec := range repo.db.session.attendance {
		if rec.SessionID == sessionID {
			records = append(records, *rec)
		}
	}
	return records
}
