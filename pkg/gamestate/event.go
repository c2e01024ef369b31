package gamestate

import "fmt"

// EventType tags the battle events the tracker reports.
type EventType int

const (
	EventPlayerHit EventType = iota
	EventMonsterHit
	EventFindGold
	EventFindItem
	EventGainExp
	EventRecoverMP
	EventRecoverHP
	EventEnemiesApproach
	EventEnemyDefeated
)

// Event is one parsed battle occurrence, ready for display or the live
// stats feed. Fields are populated per type; String knows which matter.
type Event struct {
	Type    EventType
	Source  string
	Target  string
	Ability string
	Item    string
	Amount  int
	Total   int
}

func (e *Event) String() string {
	switch e.Type {
	case EventPlayerHit, EventMonsterHit:
		return fmt.Sprintf("%s used %s on %s (%d damage)", e.Source, e.Ability, e.Target, e.Amount)
	case EventFindGold:
		return fmt.Sprintf("you found %d gold", e.Amount)
	case EventGainExp:
		return fmt.Sprintf("you gained %d experience", e.Amount)
	case EventFindItem:
		return fmt.Sprintf("you found an item: %s", e.Item)
	case EventRecoverMP:
		return fmt.Sprintf("%s used %s on %s (%d mp)", e.Source, e.Ability, e.Target, e.Amount)
	case EventRecoverHP:
		return fmt.Sprintf("%s used %s on %s (%d hp)", e.Source, e.Ability, e.Target, e.Amount)
	case EventEnemiesApproach:
		return "enemies approach"
	case EventEnemyDefeated:
		return "the enemy is defeated"
	}
	return "invalid event"
}
