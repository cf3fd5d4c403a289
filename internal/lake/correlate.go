package lake

import (
	"sort"

	"github.com/yungbote/playlake/internal/domain"
	"github.com/yungbote/playlake/internal/platform/logger"
	"github.com/yungbote/playlake/internal/records"
)

// tripleKey is the heuristic join key between a play event and the catalog:
// exact title, artist name, and duration equality. Near-misses (case,
// rounding) intentionally do not join; the event then carries null IDs.
type tripleKey struct {
	Title  string
	Artist string
	Length float64
}

type songRef struct {
	SongID   string
	ArtistID string
}

// SongIndex resolves a join triple to the catalog identity it refers to.
type SongIndex map[tripleKey]songRef

// BuildSongIndex indexes raw catalog records by join triple. When several
// catalog entries share a triple, the entry with the smallest song_id wins
// (then smallest artist_id), so the pick is deterministic under any record
// order.
func BuildSongIndex(log *logger.Logger, stats *Stats, recs []records.Raw) SongIndex {
	idx := make(SongIndex, len(recs))
	for _, rec := range recs {
		title, err := rec.String("title")
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Skipping unindexable catalog record", err)
			continue
		}
		artistName, err := rec.String("artist_name")
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Skipping unindexable catalog record", err)
			continue
		}
		duration, err := rec.Float("duration")
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Skipping unindexable catalog record", err)
			continue
		}
		songID, err := rec.String("song_id")
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Skipping unindexable catalog record", err)
			continue
		}
		artistID, err := rec.String("artist_id")
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Skipping unindexable catalog record", err)
			continue
		}

		key := tripleKey{Title: title, Artist: artistName, Length: duration}
		ref := songRef{SongID: songID, ArtistID: artistID}
		if existing, ok := idx[key]; ok && !lessRef(ref, existing) {
			continue
		}
		idx[key] = ref
	}
	return idx
}

func lessRef(a, b songRef) bool {
	if a.SongID != b.SongID {
		return a.SongID < b.SongID
	}
	return a.ArtistID < b.ArtistID
}

// Correlate left-joins the filtered events against the song index and
// builds the songplay fact rows. Value-dedup runs on the ID-free key
// projection first; surrogate IDs are assigned afterwards over a
// deterministic ordering, so identical events collapse to one row no matter
// how IDs would have been handed out.
func Correlate(log *logger.Logger, stats *Stats, events []FilteredEvent, idx SongIndex) []domain.SongplayRow {
	rows := make([]domain.SongplayRow, 0, len(events))
	for _, ev := range events {
		row := domain.SongplayRow{
			StartTime: ev.StartTime,
			UserID:    ev.UserID,
			Level:     ev.Level,
			SessionID: ev.SessionID,
			Location:  ev.Location,
			UserAgent: ev.UserAgent,
			// month/year come from the event's own start_time, never from
			// raw source fields.
			Month: int(ev.StartTime.Month()),
			Year:  ev.StartTime.Year(),
		}
		if ref, ok := idx[tripleKey{Title: ev.Song, Artist: ev.Artist, Length: ev.Length}]; ok {
			songID := ref.SongID
			artistID := ref.ArtistID
			row.SongID = &songID
			row.ArtistID = &artistID
			stats.IncMatched()
		} else {
			stats.IncUnmatched()
		}
		rows = append(rows, row)
	}

	rows = DedupBy(rows, domain.SongplayRow.Key)
	sort.Slice(rows, func(i, j int) bool { return lessSongplay(rows[i], rows[j]) })
	for i := range rows {
		rows[i].SongplayID = int64(i)
	}
	return rows
}

func lessSongplay(a, b domain.SongplayRow) bool {
	ka, kb := a.Key(), b.Key()
	if ka.StartTimeMS != kb.StartTimeMS {
		return ka.StartTimeMS < kb.StartTimeMS
	}
	if ka.UserID != kb.UserID {
		return ka.UserID < kb.UserID
	}
	if ka.SessionID != kb.SessionID {
		return ka.SessionID < kb.SessionID
	}
	if ka.SongID != kb.SongID {
		return ka.SongID < kb.SongID
	}
	if ka.Level != kb.Level {
		return ka.Level < kb.Level
	}
	if ka.Location != kb.Location {
		return ka.Location < kb.Location
	}
	return ka.UserAgent < kb.UserAgent
}
