package store

import (
	"fmt"

	"retrotracker/models"
)

// RecordPlayerHit stores one player-to-monster damage line.
func (s *Store) RecordPlayerHit(hit *models.PlayerHit) error {
	if err := s.db.Create(hit).Error; err != nil {
		return fmt.Errorf("record player hit: %w", err)
	}
	return nil
}

// RecordMonsterHit stores one monster-to-player damage line.
func (s *Store) RecordMonsterHit(hit *models.MonsterHit) error {
	if err := s.db.Create(hit).Error; err != nil {
		return fmt.Errorf("record monster hit: %w", err)
	}
	return nil
}
