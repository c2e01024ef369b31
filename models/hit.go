package models

// PlayerHit is one damage line dealt by a player to a monster.
// MonsterIndex distinguishes "goblin grunt-2" style duplicates within a
// battle; 0 when there was no suffix.
type PlayerHit struct {
	ID           uint   `gorm:"primaryKey"`
	PlayerID     uint   `gorm:"index;not null"`
	EncounterID  uint   `gorm:"index"`
	MonsterID    uint   `gorm:"index;not null"`
	Ability      string `gorm:"size:64"`
	Damage       int    `gorm:"not null"`
	MonsterIndex int
}

// MonsterHit is one damage line dealt by a monster to a player.
type MonsterHit struct {
	ID          uint   `gorm:"primaryKey"`
	PlayerID    uint   `gorm:"index;not null"`
	EncounterID uint   `gorm:"index"`
	MonsterID   uint   `gorm:"index;not null"`
	Ability     string `gorm:"size:64"`
	Damage      int    `gorm:"not null"`
}
