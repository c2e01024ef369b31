package store

import (
	"fmt"

	"gorm.io/gorm"

	"retrotracker/models"
)

// WarmMonsterCache loads every known monster name into the memo so the
// tracker can also feed them to the OCR corrector.
func (s *Store) WarmMonsterCache() ([]string, error) {
	var monsters []models.Monster
	if err := s.db.Find(&monsters).Error; err != nil {
		return nil, fmt.Errorf("warm monster cache: %w", err)
	}
	names := make([]string, 0, len(monsters))
	for _, m := range monsters {
		s.monsters[m.Name] = m.ID
		names = append(names, m.Name)
	}
	return names, nil
}

// MonsterID resolves a monster name to its row id, inserting the name on
// first sight. Results are memoized.
func (s *Store) MonsterID(name string) (uint, error) {
	if id, ok := s.monsters[name]; ok {
		return id, nil
	}
	m := models.Monster{Name: name}
	if err := s.db.Where("name = ?", name).FirstOrCreate(&m).Error; err != nil {
		return 0, fmt.Errorf("monster %q: %w", name, err)
	}
	s.monsters[name] = m.ID
	return m.ID, nil
}

// MonsterExists reports whether a monster name is known.
func (s *Store) MonsterExists(name string) (bool, error) {
	var n int64
	if err := s.db.Model(&models.Monster{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListMonsters returns all monster names in alphabetical order.
func (s *Store) ListMonsters() ([]string, error) {
	var monsters []models.Monster
	if err := s.db.Order("name").Find(&monsters).Error; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(monsters))
	for _, m := range monsters {
		names = append(names, m.Name)
	}
	return names, nil
}

// RenameMonster changes a monster's name in place.
func (s *Store) RenameMonster(from, to string) error {
	res := s.db.Model(&models.Monster{}).Where("name = ?", from).Update("name", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("monster %q: %w", from, ErrNotFound)
	}
	delete(s.monsters, from)
	return nil
}

// MergeMonsters re-points all hits from one monster onto another, then
// deletes the source. Used to fold OCR misreads that slipped past the
// corrector into the real name. Irreversible.
func (s *Store) MergeMonsters(from, to string) error {
	srcID, err := s.lookupMonster(from)
	if err != nil {
		return err
	}
	dstID, err := s.lookupMonster(to)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PlayerHit{}).
			Where("monster_id = ?", srcID).
			Update("monster_id", dstID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.MonsterHit{}).
			Where("monster_id = ?", srcID).
			Update("monster_id", dstID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Monster{}, srcID).Error
	})
	if err != nil {
		return err
	}
	delete(s.monsters, from)
	return nil
}

// DeleteMonster removes a monster and every hit involving it. Irreversible.
func (s *Store) DeleteMonster(name string) error {
	id, err := s.lookupMonster(name)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("monster_id = ?", id).Delete(&models.PlayerHit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("monster_id = ?", id).Delete(&models.MonsterHit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Monster{}, id).Error
	})
	if err != nil {
		return err
	}
	delete(s.monsters, name)
	return nil
}

// lookupMonster resolves a name without inserting.
func (s *Store) lookupMonster(name string) (uint, error) {
	var m models.Monster
	res := s.db.Where("name = ?", name).Limit(1).Find(&m)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("monster %q: %w", name, ErrNotFound)
	}
	return m.ID, nil
}
