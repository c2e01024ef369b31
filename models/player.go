package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Player is a stored character build. The eight stat columns hold the
// effective stats (base + gear + boosts) so queries never need to re-derive
// them; Boosts keeps the raw allocation as a space-separated string the way
// the store has always recorded it.
type Player struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"uniqueIndex;size:64;not null"`
	Level  int
	Class  Class  `gorm:"size:16"`
	HGear  string `gorm:"size:32"`
	BGear  string `gorm:"size:32"`
	MGear  string `gorm:"size:32"`
	OGear  string `gorm:"size:32"`
	Boosts string `gorm:"size:64"`

	HP           int `gorm:"not null"`
	MP           int `gorm:"not null"`
	Strength     int `gorm:"not null"`
	Defense      int `gorm:"not null"`
	Agility      int `gorm:"not null"`
	Intelligence int `gorm:"not null"`
	Wisdom       int `gorm:"not null"`
	Luck         int `gorm:"not null"`
}

// NewPlayer assembles a player record and computes its effective stats.
func NewPlayer(name string, class Class, level int, hgear, bgear, mgear, ogear string, boosts Stats) (*Player, error) {
	stats, err := BaseStats(class, level)
	if err != nil {
		return nil, err
	}
	for _, g := range []struct {
		slot GearSlot
		name string
	}{
		{SlotHead, hgear},
		{SlotBody, bgear},
		{SlotMainhand, mgear},
		{SlotOffhand, ogear},
	} {
		bonus, err := GearStats(g.slot, g.name)
		if err != nil {
			return nil, err
		}
		stats.Add(bonus)
	}
	stats.Add(boosts)
	return &Player{
		Name:   name,
		Level:  level,
		Class:  class,
		HGear:  hgear,
		BGear:  bgear,
		MGear:  mgear,
		OGear:  ogear,
		Boosts: EncodeBoosts(boosts),

		HP:           stats.HP,
		MP:           stats.MP,
		Strength:     stats.Strength,
		Defense:      stats.Defense,
		Agility:      stats.Agility,
		Intelligence: stats.Intelligence,
		Wisdom:       stats.Wisdom,
		Luck:         stats.Luck,
	}, nil
}

// Stats returns the player's effective stats as a block.
func (p *Player) Stats() Stats {
	return Stats{
		HP:           p.HP,
		MP:           p.MP,
		Strength:     p.Strength,
		Defense:      p.Defense,
		Agility:      p.Agility,
		Intelligence: p.Intelligence,
		Wisdom:       p.Wisdom,
		Luck:         p.Luck,
	}
}

// EncodeBoosts renders a boost block in the stored column format
// ("hp mp str def agi int wis lck").
func EncodeBoosts(s Stats) string {
	f := s.Fields()
	parts := make([]string, len(f))
	for i, v := range f {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// DecodeBoosts parses the stored boost column.
func DecodeBoosts(s string) (Stats, error) {
	parts := strings.Fields(s)
	if len(parts) != 8 {
		return Stats{}, fmt.Errorf("boosts %q: want 8 fields, got %d", s, len(parts))
	}
	var f [8]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Stats{}, fmt.Errorf("boosts %q: %w", s, err)
		}
		f[i] = v
	}
	return StatsFromFields(f), nil
}
