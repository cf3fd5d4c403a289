package warehouse

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/playlake/internal/domain"
	"github.com/yungbote/playlake/internal/platform/logger"
)

// Service mirrors the finished star schema into a relational warehouse for
// SQL-side analytics. Loads follow the same replace-per-run contract as the
// object-store writer: each table is truncated and refilled, so a rerun
// converges to the same state.
type Service struct {
	log *logger.Logger
	db  *gorm.DB
}

func New(log *logger.Logger, dsn string) (*Service, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	return NewWithDB(log, db)
}

// NewWithDB wires an existing gorm handle; tests use this with sqlite.
func NewWithDB(log *logger.Logger, db *gorm.DB) (*Service, error) {
	if err := db.AutoMigrate(
		&domain.SongRow{},
		&domain.ArtistRow{},
		&domain.UserRow{},
		&domain.TimeRow{},
		&domain.SongplayRow{},
	); err != nil {
		return nil, fmt.Errorf("warehouse automigrate: %w", err)
	}
	return &Service{
		log: log.With("service", "Warehouse"),
		db:  db,
	}, nil
}

// LoadCatalog replaces the songs and artists dimensions inside one
// transaction so a failed load never leaves a half-replaced catalog behind.
func (s *Service) LoadCatalog(ctx context.Context, songs []domain.SongRow, artists []domain.ArtistRow) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, &domain.SongRow{}, songs); err != nil {
			return err
		}
		return replaceAll(tx, &domain.ArtistRow{}, artists)
	})
	if err != nil {
		return fmt.Errorf("warehouse catalog load: %w", err)
	}
	s.log.Info("Warehouse catalog loaded", "songs", len(songs), "artists", len(artists))
	return nil
}

// LoadEvents replaces the event-derived tables, same contract as
// LoadCatalog.
func (s *Service) LoadEvents(ctx context.Context, users []domain.UserRow, times []domain.TimeRow, songplays []domain.SongplayRow) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, &domain.UserRow{}, users); err != nil {
			return err
		}
		if err := replaceAll(tx, &domain.TimeRow{}, times); err != nil {
			return err
		}
		return replaceAll(tx, &domain.SongplayRow{}, songplays)
	})
	if err != nil {
		return fmt.Errorf("warehouse events load: %w", err)
	}
	s.log.Info("Warehouse events loaded", "users", len(users), "time", len(times), "songplays", len(songplays))
	return nil
}

// LoadRun replaces the full star schema.
func (s *Service) LoadRun(
	ctx context.Context,
	songs []domain.SongRow,
	artists []domain.ArtistRow,
	users []domain.UserRow,
	times []domain.TimeRow,
	songplays []domain.SongplayRow,
) error {
	if err := s.LoadCatalog(ctx, songs, artists); err != nil {
		return err
	}
	return s.LoadEvents(ctx, users, times, songplays)
}

func replaceAll[T any](tx *gorm.DB, model *T, rows []T) error {
	if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 500).Error
}
