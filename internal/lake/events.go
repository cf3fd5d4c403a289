package lake

import (
	"time"

	"github.com/yungbote/playlake/internal/domain"
	"github.com/yungbote/playlake/internal/platform/logger"
	"github.com/yungbote/playlake/internal/records"
)

// PageNextSong is the sentinel page value marking a song-play action; every
// other page (navigation, auth, ...) is filtered, not an error.
const PageNextSong = "NextSong"

// FilteredEvent is a retained play event augmented with its derived
// start_time. Once produced the slice is read-only: the time table and the
// songplay correlation both consume it.
type FilteredEvent struct {
	StartTime time.Time
	Song      string
	Artist    string
	Length    float64
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
	SessionID int64
	Location  string
	UserAgent string
}

// ExtractEvents filters the raw event stream down to play events and
// projects the deduplicated user dimension alongside. A user whose level
// changed mid-log keeps one row per level.
func ExtractEvents(log *logger.Logger, stats *Stats, recs []records.Raw) ([]domain.UserRow, []FilteredEvent) {
	stats.AddRead(int64(len(recs)))

	users := make([]domain.UserRow, 0, len(recs))
	events := make([]FilteredEvent, 0, len(recs))
	for _, rec := range recs {
		page, err := rec.OptionalString("page")
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Skipping event with unreadable page", err)
			continue
		}
		if page != PageNextSong {
			stats.IncFiltered()
			continue
		}
		ev, err := eventFromRecord(rec)
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Skipping play event", err)
			continue
		}
		events = append(events, ev)
		users = append(users, domain.UserRow{
			UserID:    ev.UserID,
			FirstName: ev.FirstName,
			LastName:  ev.LastName,
			Gender:    ev.Gender,
			Level:     ev.Level,
		})
	}
	return Dedup(users), events
}

func eventFromRecord(rec records.Raw) (FilteredEvent, error) {
	if _, ok := rec["ts"]; !ok {
		return FilteredEvent{}, &records.RecordError{Code: records.ErrMissingTimestamp, Field: "ts"}
	}
	ts, err := rec.Int64("ts")
	if err != nil {
		return FilteredEvent{}, err
	}
	derived, err := DeriveTime(ts)
	if err != nil {
		return FilteredEvent{}, err
	}
	userID, err := rec.String("userId")
	if err != nil {
		return FilteredEvent{}, err
	}
	level, err := rec.String("level")
	if err != nil {
		return FilteredEvent{}, err
	}
	sessionID, err := rec.Int64("sessionId")
	if err != nil {
		return FilteredEvent{}, err
	}
	// The join triple and the descriptive fields tolerate absence; a missing
	// song title just means the correlation cannot match.
	song, err := rec.OptionalString("song")
	if err != nil {
		return FilteredEvent{}, err
	}
	artist, err := rec.OptionalString("artist")
	if err != nil {
		return FilteredEvent{}, err
	}
	length, err := rec.OptionalFloat("length")
	if err != nil {
		return FilteredEvent{}, err
	}
	firstName, err := rec.OptionalString("firstName")
	if err != nil {
		return FilteredEvent{}, err
	}
	lastName, err := rec.OptionalString("lastName")
	if err != nil {
		return FilteredEvent{}, err
	}
	gender, err := rec.OptionalString("gender")
	if err != nil {
		return FilteredEvent{}, err
	}
	location, err := rec.OptionalString("location")
	if err != nil {
		return FilteredEvent{}, err
	}
	userAgent, err := rec.OptionalString("userAgent")
	if err != nil {
		return FilteredEvent{}, err
	}

	ev := FilteredEvent{
		StartTime: derived.StartTime,
		Song:      song,
		Artist:    artist,
		UserID:    userID,
		FirstName: firstName,
		LastName:  lastName,
		Gender:    gender,
		Level:     level,
		SessionID: sessionID,
		Location:  location,
		UserAgent: userAgent,
	}
	if length != nil {
		ev.Length = *length
	}
	return ev, nil
}
