package lake

import (
	"errors"

	"github.com/yungbote/playlake/internal/domain"
	"github.com/yungbote/playlake/internal/platform/logger"
	"github.com/yungbote/playlake/internal/records"
)

// Catalog is the pair of dimension sets projected from the song catalog.
type Catalog struct {
	Songs   []domain.SongRow
	Artists []domain.ArtistRow
}

// ExtractCatalog projects raw catalog records into deduplicated song and
// artist rows. The two projections fail independently: a record with a bad
// song year can still contribute its artist. Malformed projections are
// logged and counted, never fatal.
func ExtractCatalog(log *logger.Logger, stats *Stats, recs []records.Raw) Catalog {
	stats.AddRead(int64(len(recs)))

	songs := make([]domain.SongRow, 0, len(recs))
	artists := make([]domain.ArtistRow, 0, len(recs))
	for _, rec := range recs {
		song, err := songFromRecord(rec)
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Rejecting malformed song projection", err)
		} else {
			songs = append(songs, song)
		}

		artist, err := artistFromRecord(rec)
		if err != nil {
			stats.IncMalformed()
			logRecordError(log, "Rejecting malformed artist projection", err)
		} else {
			artists = append(artists, artist)
		}
	}

	return Catalog{
		Songs:   Dedup(songs),
		Artists: DedupBy(artists, domain.ArtistRow.Key),
	}
}

func songFromRecord(rec records.Raw) (domain.SongRow, error) {
	songID, err := rec.String("song_id")
	if err != nil {
		return domain.SongRow{}, err
	}
	title, err := rec.String("title")
	if err != nil {
		return domain.SongRow{}, err
	}
	artistID, err := rec.String("artist_id")
	if err != nil {
		return domain.SongRow{}, err
	}
	// year and artist_id are the songs partition key; a record that cannot
	// produce them is rejected here rather than surfacing later as an
	// unwritable partition.
	year, err := rec.Int("year")
	if err != nil {
		return domain.SongRow{}, err
	}
	duration, err := rec.Float("duration")
	if err != nil {
		return domain.SongRow{}, err
	}
	return domain.SongRow{
		SongID:   songID,
		Title:    title,
		ArtistID: artistID,
		Year:     year,
		Duration: duration,
	}, nil
}

func artistFromRecord(rec records.Raw) (domain.ArtistRow, error) {
	artistID, err := rec.String("artist_id")
	if err != nil {
		return domain.ArtistRow{}, err
	}
	name, err := rec.String("artist_name")
	if err != nil {
		return domain.ArtistRow{}, err
	}
	location, err := rec.OptionalString("artist_location")
	if err != nil {
		return domain.ArtistRow{}, err
	}
	lat, err := rec.OptionalFloat("artist_latitude")
	if err != nil {
		return domain.ArtistRow{}, err
	}
	lon, err := rec.OptionalFloat("artist_longitude")
	if err != nil {
		return domain.ArtistRow{}, err
	}
	return domain.ArtistRow{
		ArtistID:  artistID,
		Name:      name,
		Location:  location,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

func logRecordError(log *logger.Logger, msg string, err error) {
	var re *records.RecordError
	if errors.As(err, &re) {
		log.Warn(msg, "code", string(re.Code), "field", re.Field, "error", err.Error())
		return
	}
	log.Warn(msg, "error", err.Error())
}
