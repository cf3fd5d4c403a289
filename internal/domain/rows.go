package domain

import (
	"time"
)

// Dimension and fact rows of the star schema. Dedup is full-row value
// equality, so every row type exposes a comparable key projection; the
// songplay key deliberately excludes the run-local surrogate ID.

type SongRow struct {
	SongID   string  `gorm:"column:song_id" json:"song_id"`
	Title    string  `gorm:"column:title" json:"title"`
	ArtistID string  `gorm:"column:artist_id" json:"artist_id"`
	Year     int     `gorm:"column:year" json:"year"`
	Duration float64 `gorm:"column:duration" json:"duration"`
}

func (SongRow) TableName() string { return "songs" }

func SongColumns() []string {
	return []string{"song_id", "title", "artist_id", "year", "duration"}
}

func SongPartitionBy() []string { return []string{"year", "artist_id"} }

func (r SongRow) Record() map[string]any {
	return map[string]any{
		"song_id":   r.SongID,
		"title":     r.Title,
		"artist_id": r.ArtistID,
		"year":      r.Year,
		"duration":  r.Duration,
	}
}

type ArtistRow struct {
	ArtistID  string   `gorm:"column:artist_id" json:"artist_id"`
	Name      string   `gorm:"column:name" json:"name"`
	Location  string   `gorm:"column:location" json:"location"`
	Latitude  *float64 `gorm:"column:latitude" json:"latitude"`
	Longitude *float64 `gorm:"column:longitude" json:"longitude"`
}

func (ArtistRow) TableName() string { return "artists" }

func ArtistColumns() []string {
	return []string{"artist_id", "name", "location", "latitude", "longitude"}
}

func (r ArtistRow) Record() map[string]any {
	return map[string]any{
		"artist_id": r.ArtistID,
		"name":      r.Name,
		"location":  r.Location,
		"latitude":  r.Latitude,
		"longitude": r.Longitude,
	}
}

// ArtistKey flattens the nullable coordinates so the row can act as a map
// key during dedup.
type ArtistKey struct {
	ArtistID  string
	Name      string
	Location  string
	Latitude  float64
	HasLat    bool
	Longitude float64
	HasLon    bool
}

func (r ArtistRow) Key() ArtistKey {
	k := ArtistKey{ArtistID: r.ArtistID, Name: r.Name, Location: r.Location}
	if r.Latitude != nil {
		k.Latitude, k.HasLat = *r.Latitude, true
	}
	if r.Longitude != nil {
		k.Longitude, k.HasLon = *r.Longitude, true
	}
	return k
}

type UserRow struct {
	UserID    string `gorm:"column:user_id" json:"user_id"`
	FirstName string `gorm:"column:first_name" json:"first_name"`
	LastName  string `gorm:"column:last_name" json:"last_name"`
	Gender    string `gorm:"column:gender" json:"gender"`
	Level     string `gorm:"column:level" json:"level"`
}

func (UserRow) TableName() string { return "users" }

func UserColumns() []string {
	return []string{"user_id", "first_name", "last_name", "gender", "level"}
}

func (r UserRow) Record() map[string]any {
	return map[string]any{
		"user_id":    r.UserID,
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"gender":     r.Gender,
		"level":      r.Level,
	}
}

type TimeRow struct {
	StartTime  time.Time `gorm:"column:start_time" json:"start_time"`
	Hour       int       `gorm:"column:hour" json:"hour"`
	DayOfMonth int       `gorm:"column:day_of_month" json:"day_of_month"`
	WeekOfYear int       `gorm:"column:week_of_year" json:"week_of_year"`
	Month      int       `gorm:"column:month" json:"month"`
	Year       int       `gorm:"column:year" json:"year"`
	DayOfWeek  string    `gorm:"column:day_of_week" json:"day_of_week"`
}

func (TimeRow) TableName() string { return "time" }

func TimeColumns() []string {
	return []string{"start_time", "hour", "day_of_month", "week_of_year", "month", "year", "day_of_week"}
}

func TimePartitionBy() []string { return []string{"year", "month"} }

func (r TimeRow) Record() map[string]any {
	return map[string]any{
		"start_time":   r.StartTime.Format(timestampLayout),
		"hour":         r.Hour,
		"day_of_month": r.DayOfMonth,
		"week_of_year": r.WeekOfYear,
		"month":        r.Month,
		"year":         r.Year,
		"day_of_week":  r.DayOfWeek,
	}
}

type SongplayRow struct {
	SongplayID int64     `gorm:"column:songplay_id;primaryKey;autoIncrement:false" json:"songplay_id"`
	StartTime  time.Time `gorm:"column:start_time" json:"start_time"`
	UserID     string    `gorm:"column:user_id" json:"user_id"`
	Level      string    `gorm:"column:level" json:"level"`
	SongID     *string   `gorm:"column:song_id" json:"song_id"`
	ArtistID   *string   `gorm:"column:artist_id" json:"artist_id"`
	SessionID  int64     `gorm:"column:session_id" json:"session_id"`
	Location   string    `gorm:"column:location" json:"location"`
	UserAgent  string    `gorm:"column:user_agent" json:"user_agent"`
	Month      int       `gorm:"column:month" json:"month"`
	Year       int       `gorm:"column:year" json:"year"`
}

func (SongplayRow) TableName() string { return "songplays" }

func SongplayColumns() []string {
	return []string{
		"songplay_id", "start_time", "user_id", "level", "song_id",
		"artist_id", "session_id", "location", "user_agent", "month", "year",
	}
}

func SongplayPartitionBy() []string { return []string{"year", "month"} }

func (r SongplayRow) Record() map[string]any {
	return map[string]any{
		"songplay_id": r.SongplayID,
		"start_time":  r.StartTime.Format(timestampLayout),
		"user_id":     r.UserID,
		"level":       r.Level,
		"song_id":     r.SongID,
		"artist_id":   r.ArtistID,
		"session_id":  r.SessionID,
		"location":    r.Location,
		"user_agent":  r.UserAgent,
		"month":       r.Month,
		"year":        r.Year,
	}
}

// SongplayKey is the ID-free projection dedup runs on; surrogate IDs are
// assigned only after value-dedup so ID order can never split rows.
type SongplayKey struct {
	StartTimeMS int64
	UserID      string
	Level       string
	SongID      string
	HasSong     bool
	ArtistID    string
	HasArtist   bool
	SessionID   int64
	Location    string
	UserAgent   string
	Month       int
	Year        int
}

func (r SongplayRow) Key() SongplayKey {
	k := SongplayKey{
		StartTimeMS: r.StartTime.UnixMilli(),
		UserID:      r.UserID,
		Level:       r.Level,
		SessionID:   r.SessionID,
		Location:    r.Location,
		UserAgent:   r.UserAgent,
		Month:       r.Month,
		Year:        r.Year,
	}
	if r.SongID != nil {
		k.SongID, k.HasSong = *r.SongID, true
	}
	if r.ArtistID != nil {
		k.ArtistID, k.HasArtist = *r.ArtistID, true
	}
	return k
}

// timestampLayout matches the millisecond-resolution wall-clock form the
// source timestamps carry.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"
