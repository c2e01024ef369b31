package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"retrotracker/models"
)

// LoadPlayer fetches a player build by name.
func (s *Store) LoadPlayer(name string) (*models.Player, error) {
	var p models.Player
	err := s.db.Where("name = ?", name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("player %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load player %q: %w", name, err)
	}
	return &p, nil
}

// PlayerExists reports whether a player name is taken.
func (s *Store) PlayerExists(name string) (bool, error) {
	var n int64
	if err := s.db.Model(&models.Player{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertPlayer stores a new player build.
func (s *Store) InsertPlayer(p *models.Player) error {
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("insert player %q: %w", p.Name, err)
	}
	return nil
}

// RenamePlayer changes a player's name in place.
func (s *Store) RenamePlayer(from, to string) error {
	res := s.db.Model(&models.Player{}).Where("name = ?", from).Update("name", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("player %q: %w", from, ErrNotFound)
	}
	return nil
}

// MergePlayers re-points all hits from one player onto another, then deletes
// the source player. Irreversible.
func (s *Store) MergePlayers(from, to string) error {
	src, err := s.LoadPlayer(from)
	if err != nil {
		return err
	}
	dst, err := s.LoadPlayer(to)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PlayerHit{}).
			Where("player_id = ?", src.ID).
			Update("player_id", dst.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.MonsterHit{}).
			Where("player_id = ?", src.ID).
			Update("player_id", dst.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Player{}, src.ID).Error
	})
}

// DeletePlayer removes a player and every hit recorded for it. Irreversible.
func (s *Store) DeletePlayer(name string) error {
	p, err := s.LoadPlayer(name)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", p.ID).Delete(&models.PlayerHit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", p.ID).Delete(&models.MonsterHit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Player{}, p.ID).Error
	})
}

// ListPlayers returns all players, or just the named one when name != "".
func (s *Store) ListPlayers(name string) ([]models.Player, error) {
	q := s.db.Order("name")
	if name != "" {
		q = q.Where("name = ?", name)
	}
	var players []models.Player
	if err := q.Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}
