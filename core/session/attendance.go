package session

import (
	"time"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/student"
)

type (
	// AttendanceSeedResult reports what GenerateAttendance did. When the
	// session already had records, AlreadyExists is true and ExistingCount
	// holds how many; nothing is written.
	AttendanceSeedResult struct {
		GeneratedCount int  `json:"generated_count"`
		AlreadyExists  bool `json:"already_exists,omitempty"`
		ExistingCount  int  `json:"existing_count,omitempty"`
	}

	// AttendanceEntry is one student's attendance as submitted by a coach.
	// An empty EnrollmentID marks an ad-hoc attendee: the record carries a
	// direct student reference and no enrollment.
	AttendanceEntry struct {
		StudentID    string           `json:"student_id" validate:"required"`
		EnrollmentID string           `json:"enrollment_id"`
		Status       AttendanceStatus `json:"status" validate:"required"`
		Remarks      string           `json:"remarks"`
	}

	NotificationOutcome struct {
		RecordID  string `json:"record_id"`
		StudentID string `json:"student_id"`
		Channel   string `json:"channel"`
		Success   bool   `json:"success"`
		MessageID string `json:"message_id,omitempty"`
	}

	MarkResult struct {
		RecordsProcessed int                   `json:"records_processed"`
		AbsentCount      int                   `json:"absent_count"`
		Notifications    []NotificationOutcome `json:"notifications"`
	}
)

// GenerateAttendance seeds one PRESENT placeholder per currently enrolled
// student of the session's class. Idempotent by construction: a session that
// already has any attendance is reported as-is and left untouched.
func (svc *Service) GenerateAttendance(sessionID string) (AttendanceSeedResult, error) {
	s, err := svc.repo.GetSessionByID(sessionID)
	if err != nil {
		return AttendanceSeedResult{}, err
	}

	count, err := svc.repo.CountAttendanceBySession(s.ID)
	if err != nil {
		return AttendanceSeedResult{}, err
	}
	if count > 0 {
		return AttendanceSeedResult{AlreadyExists: true, ExistingCount: count}, nil
	}

	enrollments, err := svc.classRepo.QueryEnrollmentsByClass(s.ClassID)
	if err != nil {
		return AttendanceSeedResult{}, err
	}

	var generated int
	now := time.Now().UTC()
	for _, enr := range enrollments {
		if _, err := svc.repo.CreateAttendance(AttendanceRecord{
			SessionID:    s.ID,
			EnrollmentID: enr.ID,
			StudentID:    enr.StudentID,
			Status:       StatusPresent,
			MarkedBy:     SystemMarkedBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return AttendanceSeedResult{}, err
		}
		generated++
	}
	return AttendanceSeedResult{GeneratedCount: generated}, nil
}

// MarkAttendance upserts one record per entry: records for a known
// (session, enrollment) pair are updated in place, everything else is
// inserted. Afterwards every ABSENT record that has not been notified yet
// triggers a best-effort EMAIL and SMS dispatch; delivery failures are logged
// and never fail the marking call, and the record is flagged as notified
// either way.
func (svc *Service) MarkAttendance(sessionID string, entries []AttendanceEntry, markedBy string) (MarkResult, error) {
	if _, err := svc.repo.GetSessionByID(sessionID); err != nil {
		return MarkResult{}, err
	}
	for _, e := range entries {
		if !e.Status.Valid() {
			return MarkResult{}, core.NewValidationError(
				nil,
				core.FieldError{Field: "status", Error: "unsupported attendance status: " + string(e.Status)},
			)
		}
	}

	var res MarkResult
	var absentees []AttendanceRecord
	now := time.Now().UTC()

	for _, e := range entries {
		rec, err := svc.upsertEntry(sessionID, e, markedBy, now)
		if err != nil {
			return MarkResult{}, err
		}
		res.RecordsProcessed++
		if rec.Status == StatusAbsent {
			res.AbsentCount++
			if !rec.NotificationSent {
				absentees = append(absentees, rec)
			}
		}
	}

	for _, rec := range absentees {
		res.Notifications = append(res.Notifications, svc.notifyAbsence(rec)...)
	}
	return res, nil
}

func (svc *Service) upsertEntry(sessionID string, e AttendanceEntry, markedBy string, now time.Time) (AttendanceRecord, error) {
	if e.EnrollmentID != "" {
		existing, err := svc.repo.GetAttendanceByEnrollment(sessionID, e.EnrollmentID)
		switch err {
		case nil:
			existing.Status = e.Status
			existing.Remarks = e.Remarks
			existing.MarkedBy = markedBy
			existing.UpdatedAt = now
			return svc.repo.UpdateAttendance(existing)
		case ErrAttendanceNotFound:
			// fall through to insert
		default:
			return AttendanceRecord{}, err
		}
	}
	return svc.repo.CreateAttendance(AttendanceRecord{
		SessionID:    sessionID,
		EnrollmentID: e.EnrollmentID,
		StudentID:    e.StudentID,
		Status:       e.Status,
		Remarks:      e.Remarks,
		MarkedBy:     markedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// notifyAbsence dispatches the absence notice over every channel the student
// has a usable address for, then flips the record's notification flag
// regardless of per-channel success.
func (svc *Service) notifyAbsence(rec AttendanceRecord) []NotificationOutcome {
	var outcomes []NotificationOutcome

	st, err := svc.studentRepo.GetStudentByID(rec.StudentID)
	if err != nil {
		svc.log.Error("loading student for absence notification", err, map[string]interface{}{"recordID": rec.ID})
		return outcomes
	}

	data := absenceTemplateData(st, rec)
	if st.Email != "" {
		outcomes = append(outcomes, svc.dispatch(rec, st, core.ChannelEmail, st.Email, data))
	}
	if phone := notifyPhone(st); phone != "" {
		outcomes = append(outcomes, svc.dispatch(rec, st, core.ChannelSMS, phone, data))
	}

	if err := svc.repo.MarkNotificationSent(rec.ID); err != nil {
		svc.log.Error("marking notification sent", err, map[string]interface{}{"recordID": rec.ID})
	}
	return outcomes
}

func (svc *Service) dispatch(rec AttendanceRecord, st student.Student, channel, recipient string, data interface{}) NotificationOutcome {
	result := svc.notifSvc.Notify(core.Notification{
		Channel:      channel,
		Recipient:    recipient,
		TemplateName: "attendance-absent",
		TemplateData: data,
	})
	if result.Err != nil {
		svc.log.Warn("absence notification failed", result.Err, map[string]interface{}{
			"recordID": rec.ID,
			"channel":  channel,
		})
	}
	return NotificationOutcome{
		RecordID:  rec.ID,
		StudentID: st.ID,
		Channel:   channel,
		Success:   result.Success,
		MessageID: result.MessageID,
	}
}

// guardians get the SMS when a guardian phone is on file
func notifyPhone(st student.Student) string {
	if st.GuardianPhone != "" {
		return st.GuardianPhone
	}
	return st.Phone
}

func absenceTemplateData(st student.Student, rec AttendanceRecord) interface{} {
	return struct {
		StudentName string
		SessionID   string
		Remarks     string
	}{st.Name, rec.SessionID, rec.Remarks}
}
