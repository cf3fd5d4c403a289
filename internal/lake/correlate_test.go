package lake

import (
	"testing"
	"time"

	"github.com/yungbote/playlake/internal/records"
)

func testCatalogRecords() []records.Raw {
	return []records.Raw{
		songRecord("S1", "Test Song", "A1", 2004, 210.5, "Test Artist"),
	}
}

func testEvent(ts int64) FilteredEvent {
	derived, _ := DeriveTime(ts)
	return FilteredEvent{
		StartTime: derived.StartTime,
		Song:      "Test Song",
		Artist:    "Test Artist",
		Length:    210.5,
		UserID:    "U1",
		Level:     "paid",
		SessionID: 583,
		Location:  "San Jose, CA",
		UserAgent: "Mozilla/5.0",
	}
}

func TestCorrelateExactTripleMatch(t *testing.T) {
	log := newTestLogger(t)
	stats := &Stats{}

	idx := BuildSongIndex(log, stats, testCatalogRecords())
	rows := Correlate(log, stats, []FilteredEvent{testEvent(1541121934796)}, idx)

	if len(rows) != 1 {
		t.Fatalf("songplays: want=1 got=%d", len(rows))
	}
	row := rows[0]
	if row.SongID == nil || *row.SongID != "S1" {
		t.Fatalf("song_id: want=S1 got=%v", row.SongID)
	}
	if row.ArtistID == nil || *row.ArtistID != "A1" {
		t.Fatalf("artist_id: want=A1 got=%v", row.ArtistID)
	}
	if stats.Matched() != 1 {
		t.Fatalf("matched counter: want=1 got=%d", stats.Matched())
	}
}

func TestCorrelateLengthMismatchYieldsNulls(t *testing.T) {
	log := newTestLogger(t)
	stats := &Stats{}

	idx := BuildSongIndex(log, stats, testCatalogRecords())
	ev := testEvent(1541121934796)
	ev.Length = 210.6
	rows := Correlate(log, stats, []FilteredEvent{ev}, idx)

	if len(rows) != 1 {
		t.Fatalf("songplays: want=1 got=%d", len(rows))
	}
	if rows[0].SongID != nil || rows[0].ArtistID != nil {
		t.Fatalf("want null IDs on length mismatch, got song=%v artist=%v", rows[0].SongID, rows[0].ArtistID)
	}
	if stats.Unmatched() != 1 {
		t.Fatalf("unmatched counter: want=1 got=%d", stats.Unmatched())
	}
}

func TestCorrelateCaseDifferenceDoesNotJoin(t *testing.T) {
	log := newTestLogger(t)
	stats := &Stats{}

	idx := BuildSongIndex(log, stats, testCatalogRecords())
	ev := testEvent(1541121934796)
	ev.Song = "test song"
	rows := Correlate(log, stats, []FilteredEvent{ev}, idx)
	if rows[0].SongID != nil {
		t.Fatalf("case-insensitive match must not join: got song=%v", rows[0].SongID)
	}
}

func TestCorrelateAmbiguousTripleTieBreak(t *testing.T) {
	log := newTestLogger(t)
	stats := &Stats{}

	// two catalog entries with identical triples; the smaller song_id wins
	// regardless of record order
	forward := []records.Raw{
		songRecord("S1", "Test Song", "A1", 2004, 210.5, "Test Artist"),
		songRecord("S0", "Test Song", "A0", 2004, 210.5, "Test Artist"),
	}
	reverse := []records.Raw{forward[1], forward[0]}

	for _, recs := range [][]records.Raw{forward, reverse} {
		idx := BuildSongIndex(log, stats, recs)
		rows := Correlate(log, stats, []FilteredEvent{testEvent(1541121934796)}, idx)
		if rows[0].SongID == nil || *rows[0].SongID != "S0" {
			t.Fatalf("tie-break: want=S0 got=%v", rows[0].SongID)
		}
		if rows[0].ArtistID == nil || *rows[0].ArtistID != "A0" {
			t.Fatalf("tie-break artist: want=A0 got=%v", rows[0].ArtistID)
		}
	}
}

func TestCorrelateDedupExcludesSurrogateID(t *testing.T) {
	log := newTestLogger(t)
	stats := &Stats{}

	idx := BuildSongIndex(log, stats, testCatalogRecords())
	ev := testEvent(1541121934796)
	rows := Correlate(log, stats, []FilteredEvent{ev, ev, ev}, idx)

	if len(rows) != 1 {
		t.Fatalf("identical events must collapse: want=1 got=%d", len(rows))
	}
	if rows[0].SongplayID != 0 {
		t.Fatalf("surrogate IDs start at 0: got=%d", rows[0].SongplayID)
	}
}

func TestCorrelateSurrogateIDsUniqueWithinRun(t *testing.T) {
	log := newTestLogger(t)
	stats := &Stats{}

	idx := BuildSongIndex(log, stats, testCatalogRecords())
	a := testEvent(1541121934796)
	b := testEvent(1541125000000)
	rows := Correlate(log, stats, []FilteredEvent{a, b}, idx)

	if len(rows) != 2 {
		t.Fatalf("songplays: want=2 got=%d", len(rows))
	}
	if rows[0].SongplayID == rows[1].SongplayID {
		t.Fatalf("surrogate IDs must be unique within a run")
	}
}

func TestCorrelateMonthYearFromOwnStartTime(t *testing.T) {
	log := newTestLogger(t)
	stats := &Stats{}

	ms := time.Date(2018, time.November, 2, 0, 45, 34, 0, time.UTC).UnixMilli()
	idx := BuildSongIndex(log, stats, testCatalogRecords())
	rows := Correlate(log, stats, []FilteredEvent{testEvent(ms)}, idx)

	if rows[0].Month != 11 || rows[0].Year != 2018 {
		t.Fatalf("month/year: want=11/2018 got=%d/%d", rows[0].Month, rows[0].Year)
	}
}

func TestCorrelateRerunStability(t *testing.T) {
	log := newTestLogger(t)

	events := []FilteredEvent{testEvent(1541121934796), testEvent(1541125000000)}
	shuffled := []FilteredEvent{events[1], events[0]}

	idxA := BuildSongIndex(log, &Stats{}, testCatalogRecords())
	idxB := BuildSongIndex(log, &Stats{}, testCatalogRecords())
	first := Correlate(log, &Stats{}, events, idxA)
	second := Correlate(log, &Stats{}, shuffled, idxB)

	if len(first) != len(second) {
		t.Fatalf("row counts differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Fatalf("row %d differs by value across runs:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}
