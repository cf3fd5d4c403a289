package lake

import (
	"fmt"
	"time"

	"github.com/yungbote/playlake/internal/domain"
	"github.com/yungbote/playlake/internal/records"
)

// DeriveTime decomposes an epoch-millisecond timestamp into the calendar
// fields of the time dimension. Timestamps are treated as UTC so reruns are
// reproducible regardless of host timezone.
func DeriveTime(epochMS int64) (domain.TimeRow, error) {
	if epochMS < 0 {
		return domain.TimeRow{}, &records.RecordError{
			Code:  records.ErrInvalidTimestamp,
			Field: "ts",
			Cause: fmt.Errorf("negative epoch value %d", epochMS),
		}
	}
	t := time.UnixMilli(epochMS).UTC()
	_, week := t.ISOWeek()
	return domain.TimeRow{
		StartTime:  t,
		Hour:       t.Hour(),
		DayOfMonth: t.Day(),
		WeekOfYear: week,
		Month:      int(t.Month()),
		Year:       t.Year(),
		DayOfWeek:  t.Format("Mon"),
	}, nil
}

// BuildTimeTable emits one TimeRow per distinct start_time across the
// filtered events.
func BuildTimeTable(events []FilteredEvent) []domain.TimeRow {
	rows := make([]domain.TimeRow, 0, len(events))
	for _, ev := range events {
		row, err := DeriveTime(ev.StartTime.UnixMilli())
		if err != nil {
			// StartTime came from DeriveTime already; a failure here would
			// mean the event escaped extraction unvalidated.
			continue
		}
		rows = append(rows, row)
	}
	return DedupBy(rows, func(r domain.TimeRow) int64 { return r.StartTime.UnixMilli() })
}
