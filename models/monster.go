package models

// Monster is a creature name observed in battle text. Rows are created
// lazily the first time a name shows up in a damage line.
type Monster struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:64;not null"`
}
