package report_test

import (
	"testing"
	"time"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/report"
	"github.com/kwanza/kocha/core/session"
	dummydb "github.com/kwanza/kocha/storage/database/dummy"
)

func TestAggregate(t *testing.T) {
	records := []session.AttendanceRecord{
		{StudentID: "s1", Status: session.StatusPresent},
		{StudentID: "s1", Status: session.StatusLate},
		{StudentID: "s1", Status: session.StatusAbsent},
		{StudentID: "s2", Status: session.StatusPresent},
		{StudentID: "s2", Status: session.StatusPresent},
		{StudentID: "s3", Status: "EXCUSED"}, // unknown status counts toward Total only
	}

	stats := report.Aggregate(records)

	if len(stats) != 3 {
		t.Fatalf("Aggregate() produced %d students, want 3", len(stats))
	}
	if s1 := stats["s1"]; s1 != (report.Stats{Total: 3, Present: 1, Late: 1, Absent: 1}) {
		t.Errorf("s1 = %+v", s1)
	}
	if s2 := stats["s2"]; s2 != (report.Stats{Total: 2, Present: 2}) {
		t.Errorf("s2 = %+v", s2)
	}
	if s3 := stats["s3"]; s3 != (report.Stats{Total: 1}) {
		t.Errorf("s3 = %+v", s3)
	}
}

func TestStats_Rate(t *testing.T) {
	tests := []struct {
		name  string
		stats report.Stats
		want  float64
	}{
		{name: "empty", stats: report.Stats{}, want: 0},
		{name: "all present", stats: report.Stats{Total: 4, Present: 4}, want: 1},
		{name: "late counts as shown up", stats: report.Stats{Total: 4, Present: 2, Late: 1, Absent: 1}, want: 0.75},
		{name: "all absent", stats: report.Stats{Total: 2, Absent: 2}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Rate(); got != tt.want {
				t.Errorf("Rate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_Weekly(t *testing.T) {
	db, _ := dummydb.Open()
	repo := dummydb.NewSessionRepository(db)
	svc := report.NewService(repo)

	createSession := func(classID string, date time.Time, recs ...session.AttendanceRecord) {
		t.Helper()
		s, err := repo.CreateSession(session.Session{
			ClassID:   classID,
			Date:      core.StartOfDay(date),
			StartTime: date,
			EndTime:   date.Add(time.Hour),
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("CreateSession() failed, %v", err)
		}
		for _, rec := range recs {
			rec.SessionID = s.ID
			if _, err := repo.CreateAttendance(rec); err != nil {
				t.Fatalf("CreateAttendance() failed, %v", err)
			}
		}
	}

	// week 10 of 2021 runs Mon Mar 1 - Sun Mar 7
	inWeek := time.Date(2021, 3, 3, 16, 0, 0, 0, time.UTC)
	createSession("class1", inWeek,
		session.AttendanceRecord{StudentID: "s1", Status: session.StatusPresent},
		session.AttendanceRecord{StudentID: "s2", Status: session.StatusAbsent},
	)
	createSession("class1", inWeek.AddDate(0, 0, 2),
		session.AttendanceRecord{StudentID: "s1", Status: session.StatusLate},
		session.AttendanceRecord{StudentID: "s3", Status: session.StatusPresent}, // ad-hoc
	)
	createSession("class2", inWeek,
		session.AttendanceRecord{StudentID: "s1", Status: session.StatusPresent},
	)
	// outside the requested week
	createSession("class1", inWeek.AddDate(0, 0, 7),
		session.AttendanceRecord{StudentID: "s1", Status: session.StatusAbsent},
	)

	// scoped to class1
	rep, err := svc.Weekly("class1", 2021, 10)
	if err != nil {
		t.Fatalf("Weekly() failed, %v", err)
	}
	if rep.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2", rep.SessionCount)
	}
	if s1 := rep.Students["s1"]; s1 != (report.Stats{Total: 2, Present: 1, Late: 1}) {
		t.Errorf("s1 = %+v", s1)
	}
	if s3 := rep.Students["s3"]; s3 != (report.Stats{Total: 1, Present: 1}) {
		t.Errorf("ad-hoc s3 = %+v", s3)
	}

	// all classes
	rep, err = svc.Weekly("", 2021, 10)
	if err != nil {
		t.Fatalf("Weekly() failed, %v", err)
	}
	if rep.SessionCount != 3 {
		t.Errorf("SessionCount = %d, want 3", rep.SessionCount)
	}
	if s1 := rep.Students["s1"]; s1.Total != 3 {
		t.Errorf("s1.Total = %d, want 3", s1.Total)
	}

	// invalid week number
	if _, err = svc.Weekly("", 2021, 0); err == nil {
		t.Error("Weekly() expected an error for week 0")
	}
}
