package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "morning", in: "09:30", want: TimeOfDay{9, 30}},
		{name: "afternoon", in: "16:00", want: TimeOfDay{16, 0}},
		{name: "midnight", in: "00:00", want: TimeOfDay{0, 0}},
		{name: "last minute", in: "23:59", want: TimeOfDay{23, 59}},
		{name: "hour out of range", in: "24:00", wantErr: true},
		{name: "minute out of range", in: "12:60", wantErr: true},
		{name: "negative", in: "-1:00", wantErr: true},
		{name: "garbage", in: "noonish", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayCombine(t *testing.T) {
	tod := TimeOfDay{Hour: 16, Minute: 30}
	got := tod.Combine(date(2021, time.March, 15))
	want := time.Date(2021, time.March, 15, 16, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Combine() = %v, want %v", got, want)
	}

	// wall clock of a non-midnight timestamp is ignored, only the day is kept
	got = tod.Combine(time.Date(2021, time.March, 15, 8, 45, 12, 0, time.UTC))
	if !got.Equal(want) {
		t.Errorf("Combine() = %v, want %v", got, want)
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	early, late := TimeOfDay{9, 0}, TimeOfDay{9, 1}
	if !early.Before(late) || late.Before(early) {
		t.Error("Before() broken")
	}
	if !late.After(early) || early.After(late) {
		t.Error("After() broken")
	}
	if early.String() != "09:00" {
		t.Errorf("String() = %q", early.String())
	}
}

func TestDaysUntilWeekday(t *testing.T) {
	monday := date(2021, time.March, 15)
	tests := []struct {
		name string
		from time.Time
		day  time.Weekday
		want int
	}{
		{name: "same day", from: monday, day: time.Monday, want: 0},
		{name: "next day", from: monday, day: time.Tuesday, want: 1},
		{name: "wraps past sunday", from: monday, day: time.Sunday, want: 6},
		{name: "from saturday to monday", from: date(2021, time.March, 20), day: time.Monday, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilWeekday(tt.from, tt.day); got != tt.want {
				t.Errorf("DaysUntilWeekday() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		week      int
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			// Jan 1 2021 is a Friday; week 1 runs from the prior Monday.
			name:      "2021 week 1",
			year:      2021,
			week:      1,
			wantStart: date(2020, time.December, 28),
			wantEnd:   time.Date(2021, time.January, 3, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "2021 week 12",
			year:      2021,
			week:      12,
			wantStart: date(2021, time.March, 15),
			wantEnd:   time.Date(2021, time.March, 21, 23, 59, 59, 0, time.UTC),
		},
		{
			// Jan 1 2018 is a Monday; no back-adjustment needed.
			name:      "2018 week 1",
			year:      2018,
			week:      1,
			wantStart: date(2018, time.January, 1),
			wantEnd:   time.Date(2018, time.January, 7, 23, 59, 59, 0, time.UTC),
		},
		{name: "week 0", year: 2021, week: 0, wantErr: true},
		{name: "week 54", year: 2021, week: 54, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := WeekRange(tt.year, tt.week)
			if (err != nil) != tt.wantErr {
				t.Fatalf("WeekRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("WeekRange() start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("WeekRange() end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestWeekNumberRoundTrip(t *testing.T) {
	for week := 1; week <= 52; week++ {
		start, _, err := WeekRange(2021, week)
		if err != nil {
			t.Fatalf("WeekRange() failed: %v", err)
		}
		midweek := start.AddDate(0, 0, 3)
		if midweek.Year() != 2021 {
			continue // week 1 may start in the previous year
		}
		if _, got := WeekNumber(midweek); got != week {
			t.Errorf("WeekNumber(%v) = %d, want %d", midweek, got, week)
		}
	}
}
