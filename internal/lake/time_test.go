package lake

import (
	"errors"
	"testing"
	"time"

	"github.com/yungbote/playlake/internal/records"
)

func TestDeriveTimeDecomposition(t *testing.T) {
	row, err := DeriveTime(1541121934796)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	want := time.Date(2018, time.November, 2, 1, 25, 34, 796*int(time.Millisecond), time.UTC)
	if !row.StartTime.Equal(want) {
		t.Fatalf("start_time: want=%v got=%v", want, row.StartTime)
	}
	if row.Hour != 1 {
		t.Fatalf("hour: want=1 got=%d", row.Hour)
	}
	if row.DayOfMonth != 2 {
		t.Fatalf("day_of_month: want=2 got=%d", row.DayOfMonth)
	}
	if row.WeekOfYear != 44 {
		t.Fatalf("week_of_year: want=44 got=%d", row.WeekOfYear)
	}
	if row.Month != 11 {
		t.Fatalf("month: want=11 got=%d", row.Month)
	}
	if row.Year != 2018 {
		t.Fatalf("year: want=2018 got=%d", row.Year)
	}
	if row.DayOfWeek != "Fri" {
		t.Fatalf("day_of_week: want=%q got=%q", "Fri", row.DayOfWeek)
	}
}

func TestDeriveTimeEpochZero(t *testing.T) {
	row, err := DeriveTime(0)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if row.Year != 1970 || row.Month != 1 || row.DayOfMonth != 1 || row.Hour != 0 {
		t.Fatalf("epoch zero decomposition wrong: %+v", row)
	}
	if row.DayOfWeek != "Thu" {
		t.Fatalf("day_of_week: want=%q got=%q", "Thu", row.DayOfWeek)
	}
}

func TestDeriveTimeNegativeEpochRejected(t *testing.T) {
	_, err := DeriveTime(-1)
	var re *records.RecordError
	if !errors.As(err, &re) {
		t.Fatalf("expected RecordError, got=%T", err)
	}
	if re.Code != records.ErrInvalidTimestamp {
		t.Fatalf("code: want=%q got=%q", records.ErrInvalidTimestamp, re.Code)
	}
}

func TestDeriveTimeISOWeekAtYearBoundary(t *testing.T) {
	// 2018-12-31 falls in ISO week 1 of 2019.
	ms := time.Date(2018, time.December, 31, 12, 0, 0, 0, time.UTC).UnixMilli()
	row, err := DeriveTime(ms)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if row.WeekOfYear != 1 {
		t.Fatalf("week_of_year: want=1 got=%d", row.WeekOfYear)
	}
	if row.Year != 2018 {
		t.Fatalf("year stays calendar year: want=2018 got=%d", row.Year)
	}
}

func TestBuildTimeTableOneRowPerTimestamp(t *testing.T) {
	a, _ := DeriveTime(1541121934796)
	b, _ := DeriveTime(1541121934900)
	events := []FilteredEvent{
		{StartTime: a.StartTime},
		{StartTime: b.StartTime},
		{StartTime: a.StartTime},
	}
	rows := BuildTimeTable(events)
	if len(rows) != 2 {
		t.Fatalf("time rows: want=2 got=%d", len(rows))
	}
}
