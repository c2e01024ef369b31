package models

import (
	"fmt"
	"sort"
)

// GearSlot identifies one of the four equipment slots.
type GearSlot string

const (
	SlotHead     GearSlot = "head"
	SlotBody     GearSlot = "body"
	SlotMainhand GearSlot = "mainhand"
	SlotOffhand  GearSlot = "offhand"
)

// Gear catalogs the known items per slot with their stat bonuses.
// Stat order in the literals is hp, mp, str, def, agi, int, wis, lck.
var Gear = map[GearSlot]map[string]Stats{
	SlotHead: {
		"dented_helm": StatsFromFields([8]int{0, 0, 0, 3, 0, 0, 0, 0}),
		"mage_hat":    StatsFromFields([8]int{0, 0, 0, 1, 0, 1, 2, 0}),
	},
	SlotBody: {
		"leather_armor":  StatsFromFields([8]int{0, 0, 0, 3, 0, 0, 0, 0}),
		"tattered_cloak": StatsFromFields([8]int{0, 0, 0, 1, 0, 0, 1, 0}),
	},
	SlotMainhand: {
		"tenderizer":   StatsFromFields([8]int{0, 0, 8, 0, 0, 0, 0, 0}),
		"crooked_wand": StatsFromFields([8]int{0, 0, 1, 0, 0, 5, 0, 0}),
	},
	SlotOffhand: {
		"studded_shield": StatsFromFields([8]int{0, 0, 0, 3, 0, 0, 1, 0}),
		"bone_bracelet":  StatsFromFields([8]int{0, 0, 1, 1, 1, 1, 1, 1}),
	},
}

// GearStats looks up an item's stat bonus by slot and name.
func GearStats(slot GearSlot, name string) (Stats, error) {
	items, ok := Gear[slot]
	if !ok {
		return Stats{}, fmt.Errorf("unknown gear slot %q", slot)
	}
	stats, ok := items[name]
	if !ok {
		return Stats{}, fmt.Errorf("unknown %s gear %q", slot, name)
	}
	return stats, nil
}

// GearNames lists the known item names for a slot in stable order.
func GearNames(slot GearSlot) []string {
	items := Gear[slot]
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	// map order is random; keep listings deterministic for the CLI
	sort.Strings(names)
	return names
}
