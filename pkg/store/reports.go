package store

import (
	"fmt"
	"math"
	"sort"

	"retrotracker/models"
)

// AbilityStats aggregates the damage samples recorded for one ability.
type AbilityStats struct {
	Ability string
	N       int
	Avg     float64
	Std     float64
	Damages []int
}

type abilityDamage struct {
	Ability string
	Damage  int
}

// PlayerHitStats summarizes damage a player dealt to a monster, per ability.
func (s *Store) PlayerHitStats(player, monster string) ([]AbilityStats, error) {
	var rows []abilityDamage
	err := s.db.Model(&models.PlayerHit{}).
		Select("player_hits.ability, player_hits.damage").
		Joins("JOIN players ON player_hits.player_id = players.id").
		Joins("JOIN monsters ON player_hits.monster_id = monsters.id").
		Where("players.name = ? AND monsters.name = ?", player, monster).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("player hit stats: %w", err)
	}
	return aggregate(rows), nil
}

// MonsterHitStats summarizes damage a monster dealt to a player, per ability.
func (s *Store) MonsterHitStats(player, monster string) ([]AbilityStats, error) {
	var rows []abilityDamage
	err := s.db.Model(&models.MonsterHit{}).
		Select("monster_hits.ability, monster_hits.damage").
		Joins("JOIN players ON monster_hits.player_id = players.id").
		Joins("JOIN monsters ON monster_hits.monster_id = monsters.id").
		Where("players.name = ? AND monsters.name = ?", player, monster).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monster hit stats: %w", err)
	}
	return aggregate(rows), nil
}

func aggregate(rows []abilityDamage) []AbilityStats {
	byAbility := make(map[string][]int)
	for _, r := range rows {
		byAbility[r.Ability] = append(byAbility[r.Ability], r.Damage)
	}
	out := make([]AbilityStats, 0, len(byAbility))
	for ability, damages := range byAbility {
		out = append(out, AbilityStats{
			Ability: ability,
			N:       len(damages),
			Avg:     mean(damages),
			Std:     stddev(damages),
			Damages: damages,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ability < out[j].Ability })
	return out
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// stddev is the population standard deviation.
func stddev(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var acc float64
	for _, x := range xs {
		d := float64(x) - m
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(xs)))
}

// EncounterSummary is one row of the encounter listing.
type EncounterSummary struct {
	ID       uint
	Exp      int
	Gold     int
	Items    int
	Monsters int
	Players  int
}

// EncounterSummaries lists every encounter with participant counts.
func (s *Store) EncounterSummaries() ([]EncounterSummary, error) {
	var encounters []models.Encounter
	if err := s.db.Order("id").Find(&encounters).Error; err != nil {
		return nil, err
	}
	out := make([]EncounterSummary, 0, len(encounters))
	for _, enc := range encounters {
		sum := EncounterSummary{ID: enc.ID}
		if enc.Exp != nil {
			sum.Exp = *enc.Exp
		}
		if enc.Gold != nil {
			sum.Gold = *enc.Gold
		}
		var n int64
		if err := s.db.Model(&models.EncounterItem{}).Where("encounter_id = ?", enc.ID).Count(&n).Error; err != nil {
			return nil, err
		}
		sum.Items = int(n)
		if err := s.db.Model(&models.EncounterMonster{}).Where("encounter_id = ?", enc.ID).Count(&n).Error; err != nil {
			return nil, err
		}
		sum.Monsters = int(n)
		if err := s.db.Model(&models.EncounterPlayer{}).Where("encounter_id = ?", enc.ID).Count(&n).Error; err != nil {
			return nil, err
		}
		sum.Players = int(n)
		out = append(out, sum)
	}
	return out, nil
}

// EncounterParticipant is a per-player damage breakdown inside one encounter.
type EncounterParticipant struct {
	Username   string
	PlayerName string
	Dealt      int
	Taken      int
}

// EncounterDetail is the full report for one encounter.
type EncounterDetail struct {
	ID           uint
	Exp          int
	Gold         int
	Monsters     []string
	Participants []EncounterParticipant
}

// Encounter builds the detailed report for one encounter id.
func (s *Store) Encounter(id uint) (*EncounterDetail, error) {
	var enc models.Encounter
	res := s.db.Where("id = ?", id).Limit(1).Find(&enc)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("encounter %d: %w", id, ErrNotFound)
	}

	detail := &EncounterDetail{ID: enc.ID}
	if enc.Exp != nil {
		detail.Exp = *enc.Exp
	}
	if enc.Gold != nil {
		detail.Gold = *enc.Gold
	}

	err := s.db.Model(&models.EncounterMonster{}).
		Select("monsters.name").
		Joins("JOIN monsters ON encounter_monsters.monster_id = monsters.id").
		Where("encounter_monsters.encounter_id = ?", id).
		Scan(&detail.Monsters).Error
	if err != nil {
		return nil, err
	}

	var links []struct {
		Username string
		Name     string
		PlayerID uint
	}
	err = s.db.Model(&models.EncounterPlayer{}).
		Select("encounter_players.username, players.name, encounter_players.player_id").
		Joins("JOIN players ON encounter_players.player_id = players.id").
		Where("encounter_players.encounter_id = ?", id).
		Scan(&links).Error
	if err != nil {
		return nil, err
	}

	for _, link := range links {
		p := EncounterParticipant{Username: link.Username, PlayerName: link.Name}
		row := s.db.Model(&models.PlayerHit{}).
			Where("encounter_id = ? AND player_id = ?", id, link.PlayerID).
			Select("COALESCE(SUM(damage), 0)")
		if err := row.Scan(&p.Dealt).Error; err != nil {
			return nil, err
		}
		row = s.db.Model(&models.MonsterHit{}).
			Where("encounter_id = ? AND player_id = ?", id, link.PlayerID).
			Select("COALESCE(SUM(damage), 0)")
		if err := row.Scan(&p.Taken).Error; err != nil {
			return nil, err
		}
		detail.Participants = append(detail.Participants, p)
	}
	return detail, nil
}
