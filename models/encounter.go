package models

import "time"

// Encounter is one battle from "enemies approach" to "the enemy is defeated".
// Gold/Exp stay NULL until the reward lines are seen; End stays NULL for
// battles that were still open when tracking stopped.
type Encounter struct {
	ID    uint      `gorm:"primaryKey"`
	Start time.Time `gorm:"autoCreateTime"`
	End   *time.Time
	Exp   *int
	Gold  *int
}

// EncounterPlayer links a participating character to an encounter under the
// in-game username it fought as.
type EncounterPlayer struct {
	EncounterID uint   `gorm:"index;not null"`
	Username    string `gorm:"size:64;not null"`
	PlayerID    uint   `gorm:"index;not null"`
}

// EncounterMonster links an identified monster to an encounter.
type EncounterMonster struct {
	EncounterID uint `gorm:"index;not null"`
	MonsterID   uint `gorm:"index;not null"`
}

// EncounterItem records an item drop.
type EncounterItem struct {
	EncounterID uint   `gorm:"index;not null"`
	Item        string `gorm:"size:64;not null"`
}
