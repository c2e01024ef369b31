package store

import (
	"fmt"
	"time"

	"retrotracker/models"
)

// BeginEncounter opens an encounter row and attaches the given players
// under their usernames.
func (s *Store) BeginEncounter(players map[string]*models.Player) (uint, error) {
	enc := models.Encounter{Start: time.Now()}
	if err := s.db.Create(&enc).Error; err != nil {
		return 0, fmt.Errorf("begin encounter: %w", err)
	}
	for username, p := range players {
		link := models.EncounterPlayer{
			EncounterID: enc.ID,
			Username:    username,
			PlayerID:    p.ID,
		}
		if err := s.db.Create(&link).Error; err != nil {
			return 0, fmt.Errorf("attach player %q: %w", username, err)
		}
	}
	return enc.ID, nil
}

// EndEncounter stamps the encounter's end time.
func (s *Store) EndEncounter(id uint) error {
	now := time.Now()
	return s.db.Model(&models.Encounter{}).Where("id = ?", id).Update("end", &now).Error
}

// SetEncounterGold records the gold reward line.
func (s *Store) SetEncounterGold(id uint, gold int) error {
	return s.db.Model(&models.Encounter{}).Where("id = ?", id).Update("gold", gold).Error
}

// SetEncounterExp records the experience reward line.
func (s *Store) SetEncounterExp(id uint, exp int) error {
	return s.db.Model(&models.Encounter{}).Where("id = ?", id).Update("exp", exp).Error
}

// AddEncounterMonsters attaches identified monsters to an encounter.
func (s *Store) AddEncounterMonsters(id uint, names []string) error {
	for _, name := range names {
		mid, err := s.MonsterID(name)
		if err != nil {
			return err
		}
		link := models.EncounterMonster{EncounterID: id, MonsterID: mid}
		if err := s.db.Create(&link).Error; err != nil {
			return fmt.Errorf("attach monster %q: %w", name, err)
		}
	}
	return nil
}

// AddEncounterItem records an item drop.
func (s *Store) AddEncounterItem(id uint, item string) error {
	return s.db.Create(&models.EncounterItem{EncounterID: id, Item: item}).Error
}
