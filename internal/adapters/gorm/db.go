package gorm

import (
	"context"
	"fmt"

	"ethonode/internal/core/devices"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlog "gorm.io/gorm/logger"
)

// Store keeps the last-known device records in Postgres so a restart starts
// from the previous view instead of an empty one.
type Store struct {
	db *gorm.DB
	lg zerolog.Logger
}

// New opens the database and runs migrations.
func New(dsn string, lg zerolog.Logger) (*Store, error) {
	// Configure GORM's logger to use Zerolog
	gormLogger := gormlog.New(
		&lg,
		gormlog.Config{
			SlowThreshold: 0,
			LogLevel:      gormlog.Warn,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	if err := db.AutoMigrate(&devices.Device{}); err != nil {
		return nil, fmt.Errorf("gorm migrate: %w", err)
	}
	lg.Info().Msg("database migration successful")
	return &Store{db: db, lg: lg.With().Str("adapter", "gorm").Logger()}, nil
}

// PutDevice implements devices.Sink as an upsert keyed by id.
func (s *Store) PutDevice(ctx context.Context, d devices.Device) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&d).Error
	if err != nil {
		return fmt.Errorf("upsert device %s: %w", d.ID, err)
	}
	return nil
}

// Load returns every stored record.
func (s *Store) Load(ctx context.Context) ([]devices.Device, error) {
	var out []devices.Device
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load devices: %w", err)
	}
	s.lg.Debug().Int("devices", len(out)).Msg("loaded stored records")
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
