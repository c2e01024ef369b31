package models

import "fmt"

// Stats holds the eight combat stats RetroMMO tracks for a character.
// The zero value is a valid "no bonus" block.
type Stats struct {
	HP           int
	MP           int
	Strength     int
	Defense      int
	Agility      int
	Intelligence int
	Wisdom       int
	Luck         int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.HP += o.HP
	s.MP += o.MP
	s.Strength += o.Strength
	s.Defense += o.Defense
	s.Agility += o.Agility
	s.Intelligence += o.Intelligence
	s.Wisdom += o.Wisdom
	s.Luck += o.Luck
}

// Fields returns the stats in canonical column order
// (hp, mp, str, def, agi, int, wis, lck).
func (s Stats) Fields() [8]int {
	return [8]int{
		s.HP, s.MP,
		s.Strength, s.Defense, s.Agility,
		s.Intelligence, s.Wisdom, s.Luck,
	}
}

// StatsFromFields is the inverse of Fields.
func StatsFromFields(f [8]int) Stats {
	return Stats{
		HP: f[0], MP: f[1],
		Strength: f[2], Defense: f[3], Agility: f[4],
		Intelligence: f[5], Wisdom: f[6], Luck: f[7],
	}
}

// Class is a RetroMMO player class.
type Class string

const (
	ClassWarrior Class = "warrior"
	ClassWizard  Class = "wizard"
	ClassCleric  Class = "cleric"
)

// Classes lists the selectable classes in display order.
var Classes = []Class{ClassWarrior, ClassWizard, ClassCleric}

// ParseClass validates a class name.
func ParseClass(s string) (Class, error) {
	switch Class(s) {
	case ClassWarrior, ClassWizard, ClassCleric:
		return Class(s), nil
	}
	return "", fmt.Errorf("unknown class %q", s)
}

// MaxLevel is the level cap covered by the base stat tables.
const MaxLevel = 10

// Per-class base stats indexed by level (index 0 unused).
var baseStats = map[Class]map[string][MaxLevel + 1]int{
	ClassWarrior: {
		"hp":  {0, 20, 26, 33, 40, 46, 53, 59, 66, 73, 79},
		"mp":  {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		"str": {0, 14, 17, 20, 23, 26, 28, 31, 34, 37, 40},
		"def": {0, 11, 13, 18, 16, 20, 22, 24, 27, 29, 31},
		"agi": {0, 8, 10, 11, 13, 14, 16, 18, 19, 21, 22},
		"int": {0, 6, 7, 8, 9, 10, 11, 12, 14, 15, 16},
		"wis": {0, 7, 9, 10, 12, 13, 14, 16, 17, 19, 20},
		"lck": {0, 8, 10, 12, 14, 15, 17, 19, 20, 22, 24},
	},
	ClassWizard: {
		"hp":  {0, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48},
		"mp":  {0, 19, 25, 31, 38, 44, 50, 56, 63, 69, 75},
		"str": {0, 6, 7, 9, 10, 11, 12, 13, 15, 16, 17},
		"def": {0, 8, 9, 11, 12, 14, 16, 17, 19, 20, 22},
		"agi": {0, 11, 13, 16, 18, 20, 22, 24, 27, 29, 31},
		"int": {0, 15, 18, 21, 24, 27, 30, 33, 36, 39, 42},
		"wis": {0, 13, 15, 18, 20, 23, 26, 28, 31, 33, 36},
		"lck": {0, 10, 12, 14, 16, 18, 20, 22, 23, 25, 27},
	},
	ClassCleric: {
		"hp":  {0, 17, 23, 29, 35, 40, 46, 52, 58, 63, 69},
		"mp":  {0, 11, 15, 19, 23, 26, 30, 34, 38, 41, 45},
		"str": {0, 8, 9, 11, 12, 14, 16, 17, 19, 20, 22},
		"def": {0, 9, 11, 12, 14, 16, 18, 20, 21, 23, 25},
		"agi": {0, 10, 12, 14, 16, 18, 20, 22, 23, 25, 27},
		"int": {0, 12, 15, 17, 20, 22, 25, 27, 30, 32, 35},
		"wis": {0, 12, 14, 16, 19, 21, 23, 26, 28, 30, 33},
		"lck": {0, 11, 13, 16, 18, 20, 22, 24, 27, 29, 31},
	},
}

// BaseStats returns the unmodified stats for a class at a given level.
func BaseStats(class Class, level int) (Stats, error) {
	tables, ok := baseStats[class]
	if !ok {
		return Stats{}, fmt.Errorf("unknown class %q", class)
	}
	if level < 1 || level > MaxLevel {
		return Stats{}, fmt.Errorf("level %d out of range 1-%d", level, MaxLevel)
	}
	return Stats{
		HP:           tables["hp"][level],
		MP:           tables["mp"][level],
		Strength:     tables["str"][level],
		Defense:      tables["def"][level],
		Agility:      tables["agi"][level],
		Intelligence: tables["int"][level],
		Wisdom:       tables["wis"][level],
		Luck:         tables["lck"][level],
	}, nil
}
