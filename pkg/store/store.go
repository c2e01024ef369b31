// Package store persists players, monsters, encounters and hits in a local
// sqlite file.
package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"retrotracker/models"
)

// DefaultPath is the database file kept next to the binary.
const DefaultPath = "stats.db"

// ErrNotFound is returned when a named player or monster does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps the gorm handle with a monster-name memo so the hot path
// (one lookup per damage line) rarely touches the database.
type Store struct {
	db  *gorm.DB
	log *zap.Logger

	monsters map[string]uint
}

// Open connects to the sqlite file at path, creating it if absent.
func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Store{
		db:       db,
		log:      log,
		monsters: make(map[string]uint),
	}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the schema.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.Player{},
		&models.Monster{},
		&models.PlayerHit{},
		&models.MonsterHit{},
		&models.Encounter{},
		&models.EncounterPlayer{},
		&models.EncounterMonster{},
		&models.EncounterItem{},
	)
}
