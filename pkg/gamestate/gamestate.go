// Package gamestate turns battle-text lines into recorded damage, gold and
// experience. A small state machine tracks whose turn produced each damage
// line, since the game prints "X takes N damage." without naming the
// attacker.
package gamestate

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"retrotracker/models"
	"retrotracker/pkg/ocr"
)

// Recorder is the slice of the store the state machine writes through.
type Recorder interface {
	MonsterID(name string) (uint, error)
	BeginEncounter(players map[string]*models.Player) (uint, error)
	EndEncounter(id uint) error
	SetEncounterGold(id uint, gold int) error
	SetEncounterExp(id uint, exp int) error
	AddEncounterItem(id uint, item string) error
	RecordPlayerHit(hit *models.PlayerHit) error
	RecordMonsterHit(hit *models.MonsterHit) error
}

// First group matches a monster or player name (anything but dash). The
// optional dash suffix is the -1/-2 numbering the game appends when several
// of the same monster are up.
const namePat = `([^-]+)(?:-+.+)?`

// Several patterns use .  or .+ where \d would be correct because the OCR
// output is not perfect; ParseInt cleans the digits up afterwards.
var (
	reEnemyApproaches = regexp.MustCompile(`^(an enemy|enemies) approach(es)?.`)
	reSelectAction    = regexp.MustCompile(`^select an action.`)

	reUsesAttack  = regexp.MustCompile(`^` + namePat + ` uses (.+) on ` + namePat + `\.`)
	reUsesMulti   = regexp.MustCompile(`^` + namePat + ` uses (.+)\.`)
	reTakesDamage = regexp.MustCompile(`^([^-]+)(?:-+(.+))? takes (.+) damage.`)

	reRecoversMP = regexp.MustCompile(`^` + namePat + ` recovers (.+) mp\.`)
	reRecoversHP = regexp.MustCompile(`^` + namePat + ` recovers (.+) hp\.`)

	reNameDefeated  = regexp.MustCompile(`^` + namePat + ` is defeated\.`)
	reEnemyDefeated = regexp.MustCompile(`^the enemy is defeated!`)
	reFindGold      = regexp.MustCompile(`^.ou find (.+) gold.`)
	reFindItem      = regexp.MustCompile(`^.ou find an? (.+)\.`)
	reGainExp       = regexp.MustCompile(`^.ou gain (.+) experience.`)
)

// Damage readings above this are assumed to have a garbled leading digit.
const damagePlausible = 110

// State is the battle phase implied by the lines seen so far.
type State int

const (
	StateNotInBattle State = iota
	StateSelectingAction
	StatePlayerAttacking
	StatePlayerAttackingMulti
	StatePlayerUsingItem
	StateMonsterAttacking
	StateMonsterAttackingMulti
	StateMultiAttack
)

var stateNames = map[State]string{
	StateNotInBattle:           "not in battle",
	StateSelectingAction:       "selecting action",
	StatePlayerAttacking:       "player attacking",
	StatePlayerAttackingMulti:  "player attacking multi",
	StatePlayerUsingItem:       "player using item",
	StateMonsterAttacking:      "monster attacking",
	StateMonsterAttackingMulti: "monster attacking multi",
	StateMultiAttack:           "multi attack",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// is reports whether the state's name contains the keyword. Phase checks
// are keyword based so "attacking" covers both player and monster turns.
func (s State) is(keyword string) bool {
	return strings.Contains(s.String(), keyword)
}

type handlerFunc func(line string) (matched bool, ev *Event, err error)

// Game consumes battle lines and records stats through a Recorder.
// Not safe for concurrent use.
type Game struct {
	rec   Recorder
	log   *zap.Logger
	nouns *Corrector

	players map[string]*models.Player

	state       State
	source      string
	target      string
	targetIndex int
	ability     string

	encounter uint
	gold      int
	exp       int

	handlers []handlerFunc
}

func New(rec Recorder, log *zap.Logger) *Game {
	g := &Game{
		rec:     rec,
		log:     log,
		nouns:   NewCorrector(log),
		players: make(map[string]*models.Player),
		state:   StateNotInBattle,
	}
	// Order matters when one line could match several patterns:
	// "x uses y on z." must be tried before the looser "x uses y.".
	g.handlers = []handlerFunc{
		g.handleEnemyApproaches,
		g.handleSelectAction,

		g.handleUsesAttack,
		g.handleUsesMulti,
		g.handleTakesDamage,

		g.handleRecoversMP,
		g.handleRecoversHP,

		g.handleNameDefeated,
		g.handleEnemyDefeated,

		g.handleFindGold,
		g.handleFindItem,
		g.handleGainExp,
	}
	return g
}

// AddPlayer registers a character under its in-game username so damage
// lines naming it are attributed.
func (g *Game) AddPlayer(username string, p *models.Player) {
	username = strings.ToLower(username)
	g.players[username] = p
	g.nouns.Add(username)
}

// AddNouns feeds the corrector vocabulary (monster names and the like).
func (g *Game) AddNouns(nouns ...string) {
	g.nouns.Add(nouns...)
}

// Gold returns the session gold total.
func (g *Game) Gold() int { return g.gold }

// Exp returns the session experience total.
func (g *Game) Exp() int { return g.exp }

// Encounter returns the id of the encounter currently being recorded, or 0.
func (g *Game) Encounter() uint { return g.encounter }

// State returns the current battle phase.
func (g *Game) State() State { return g.state }

// HandleLine feeds one battle line through the handlers. The returned event
// is nil for lines that only advance state. A non-nil error never means the
// machine is stuck; the caller can log it and keep feeding lines.
func (g *Game) HandleLine(line string) (*Event, error) {
	for _, h := range g.handlers {
		matched, ev, err := h(line)
		if matched {
			return ev, err
		}
	}
	return nil, nil
}

func (g *Game) setState(s State) {
	g.log.Debug("state change",
		zap.Stringer("from", g.state),
		zap.Stringer("to", s),
	)
	g.state = s
}

func (g *Game) clearState(s State) {
	g.source = ""
	g.target = ""
	g.targetIndex = 0
	g.ability = ""
	g.setState(s)
}

// expectState resets to not-in-battle when the current state matches none of
// the keywords. OCR drops lines, so surprises are logged, not fatal.
func (g *Game) expectState(debug string, keywords ...string) {
	for _, kw := range keywords {
		if g.state.is(kw) {
			return
		}
	}
	g.log.Debug("unexpected state",
		zap.String("at", debug),
		zap.Stringer("state", g.state),
	)
	g.clearState(StateNotInBattle)
}

// correctDamage folds implausibly large readings: a damage over 110 means
// tesseract glued a stray digit onto the front.
func (g *Game) correctDamage(damage int) int {
	if damage > damagePlausible {
		folded := damage - (damage/100)*100
		g.log.Debug("implausible damage folded",
			zap.Int("read", damage),
			zap.Int("folded", folded),
		)
		return folded
	}
	return damage
}

//
// handlers
//

func (g *Game) handleEnemyApproaches(line string) (bool, *Event, error) {
	if !reEnemyApproaches.MatchString(line) {
		return false, nil, nil
	}
	g.expectState("enemy_approaches", "not in battle")
	g.setState(StateSelectingAction)

	eid, err := g.rec.BeginEncounter(g.players)
	if err != nil {
		g.encounter = 0
		return true, &Event{Type: EventEnemiesApproach}, err
	}
	g.encounter = eid
	return true, &Event{Type: EventEnemiesApproach}, nil
}

func (g *Game) handleSelectAction(line string) (bool, *Event, error) {
	if !reSelectAction.MatchString(line) {
		return false, nil, nil
	}
	g.expectState("select_action", "selecting action", "attacking")
	g.setState(StateSelectingAction)
	return true, nil, nil
}

func (g *Game) handleUsesAttack(line string) (bool, *Event, error) {
	m := reUsesAttack.FindStringSubmatch(line)
	if m == nil {
		return false, nil, nil
	}
	g.expectState("uses_attack", "selecting action", "attacking")
	g.source = g.nouns.Correct(m[1])
	g.ability = m[2]
	g.target = g.nouns.Correct(m[3])
	if _, ok := g.players[g.source]; ok {
		g.setState(StatePlayerAttacking)
	} else if _, ok := g.players[g.target]; ok {
		g.setState(StateMonsterAttacking)
	} else {
		g.log.Debug("unknown source and target", zap.String("line", line))
		g.clearState(StateNotInBattle)
	}
	return true, nil, nil
}

func (g *Game) handleUsesMulti(line string) (bool, *Event, error) {
	m := reUsesMulti.FindStringSubmatch(line)
	if m == nil {
		return false, nil, nil
	}
	g.expectState("uses_multi", "selecting action", "attacking", "multi attack")
	g.source = g.nouns.Correct(m[1])
	g.ability = m[2]
	if _, ok := g.players[g.source]; ok {
		g.setState(StateMultiAttack)
	} else {
		// TODO: attribute monster multi attacks; for now their damage
		// lines arrive without a usable source
		g.clearState(StateNotInBattle)
	}
	return true, nil, nil
}

func (g *Game) handleTakesDamage(line string) (bool, *Event, error) {
	m := reTakesDamage.FindStringSubmatch(line)
	if m == nil {
		return false, nil, nil
	}
	g.expectState("takes_damage", "attacking", "multi attack")
	g.target = g.nouns.Correct(m[1])
	g.targetIndex = 0
	if m[2] != "" {
		if idx, err := ocr.ParseInt(m[2]); err == nil {
			g.targetIndex = idx
		}
	}
	damage, err := ocr.ParseInt(m[3])
	if err != nil {
		return true, nil, err
	}
	damage = g.correctDamage(damage)

	if g.source == "" || g.target == "" || g.ability == "" {
		g.log.Debug("damage line without attack context",
			zap.String("source", g.source),
			zap.String("target", g.target),
			zap.String("ability", g.ability),
		)
		g.clearState(StateSelectingAction)
		return true, nil, nil
	}

	if g.state == StateMultiAttack {
		// A multi-target attack reveals its victims one damage line at a
		// time, so the attacker side is resolved here.
		if _, ok := g.players[g.source]; ok {
			g.setState(StatePlayerAttackingMulti)
		} else {
			g.setState(StateMonsterAttackingMulti)
		}
	}

	var ev *Event
	var recErr error
	switch {
	case g.state.is("player attacking"):
		recErr = g.recordPlayerHit(damage)
		ev = &Event{
			Type:    EventPlayerHit,
			Source:  g.source,
			Target:  g.target,
			Ability: g.ability,
			Amount:  damage,
		}
	case g.state.is("monster attacking"):
		recErr = g.recordMonsterHit(damage)
		ev = &Event{
			Type:    EventMonsterHit,
			Source:  g.source,
			Target:  g.target,
			Ability: g.ability,
			Amount:  damage,
		}
	default:
		g.log.Debug("no attacker for damage line", zap.Stringer("state", g.state))
		g.clearState(StateNotInBattle)
	}

	if !g.state.is("multi") {
		// keep the source while a multi attack is still landing
		g.clearState(StateSelectingAction)
	}
	return true, ev, recErr
}

func (g *Game) recordPlayerHit(damage int) error {
	player := g.players[g.source]
	if player == nil {
		g.log.Debug("hit by unregistered player", zap.String("source", g.source))
		return nil
	}
	mid, err := g.rec.MonsterID(g.target)
	if err != nil {
		return err
	}
	return g.rec.RecordPlayerHit(&models.PlayerHit{
		PlayerID:     player.ID,
		EncounterID:  g.encounter,
		MonsterID:    mid,
		Ability:      g.ability,
		Damage:       damage,
		MonsterIndex: g.targetIndex,
	})
}

func (g *Game) recordMonsterHit(damage int) error {
	player := g.players[g.target]
	if player == nil {
		g.log.Debug("damage to unregistered player", zap.String("target", g.target))
		return nil
	}
	mid, err := g.rec.MonsterID(g.source)
	if err != nil {
		return err
	}
	return g.rec.RecordMonsterHit(&models.MonsterHit{
		PlayerID:    player.ID,
		EncounterID: g.encounter,
		MonsterID:   mid,
		Ability:     g.ability,
		Damage:      damage,
	})
}

func (g *Game) handleRecoversMP(line string) (bool, *Event, error) {
	m := reRecoversMP.FindStringSubmatch(line)
	if m == nil {
		return false, nil, nil
	}
	g.expectState("recovers_mp", "player attacking")
	target := g.nouns.Correct(m[1])
	amount, err := ocr.ParseInt(m[2])
	if err != nil {
		return true, nil, err
	}
	ev := &Event{
		Type:    EventRecoverMP,
		Source:  g.source,
		Ability: g.ability,
		Target:  target,
		Amount:  amount,
	}
	g.clearState(StateSelectingAction)
	return true, ev, nil
}

func (g *Game) handleRecoversHP(line string) (bool, *Event, error) {
	m := reRecoversHP.FindStringSubmatch(line)
	if m == nil {
		return false, nil, nil
	}
	g.expectState("recovers_hp", "player attacking")
	target := g.nouns.Correct(m[1])
	amount, err := ocr.ParseInt(m[2])
	if err != nil {
		return true, nil, err
	}
	ev := &Event{
		Type:    EventRecoverHP,
		Source:  g.source,
		Ability: g.ability,
		Target:  target,
		Amount:  amount,
	}
	g.clearState(StateSelectingAction)
	return true, ev, nil
}

func (g *Game) handleNameDefeated(line string) (bool, *Event, error) {
	if !reNameDefeated.MatchString(line) {
		return false, nil, nil
	}
	// individual monster deaths carry no stats; the battle end line does
	return true, nil, nil
}

func (g *Game) handleEnemyDefeated(line string) (bool, *Event, error) {
	if !reEnemyDefeated.MatchString(line) {
		return false, nil, nil
	}
	g.setState(StateNotInBattle)
	if g.encounter == 0 {
		return true, &Event{Type: EventEnemyDefeated}, nil
	}
	// keep the id around: the gold and exp lines print after this one
	err := g.rec.EndEncounter(g.encounter)
	return true, &Event{Type: EventEnemyDefeated}, err
}

func (g *Game) handleFindGold(line string) (bool, *Event, error) {
	m := reFindGold.FindStringSubmatch(line)
	if m == nil {
		return false, nil, nil
	}
	amount, err := ocr.ParseInt(m[1])
	if err != nil {
		return true, nil, err
	}
	g.gold += amount
	ev := &Event{Type: EventFindGold, Amount: amount, Total: g.gold}
	if g.encounter != 0 {
		err = g.rec.SetEncounterGold(g.encounter, amount)
	}
	return true, ev, err
}

func (g *Game) handleFindItem(line string) (bool, *Event, error) {
	m := reFindItem.FindStringSubmatch(line)
	if m == nil {
		return false, nil, nil
	}
	item := m[1]
	ev := &Event{Type: EventFindItem, Item: item}
	var err error
	if g.encounter != 0 {
		err = g.rec.AddEncounterItem(g.encounter, item)
	}
	return true, ev, err
}

func (g *Game) handleGainExp(line string) (bool, *Event, error) {
	m := reGainExp.FindStringSubmatch(line)
	if m == nil {
		return false, nil, nil
	}
	amount, err := ocr.ParseInt(m[1])
	if err != nil {
		return true, nil, err
	}
	g.exp += amount
	ev := &Event{Type: EventGainExp, Amount: amount, Total: g.exp}
	if g.encounter != 0 {
		err = g.rec.SetEncounterExp(g.encounter, amount)
		// exp is the last reward line of a battle; a reward line seen after
		// this is an OCR re-read and belongs to no encounter
		g.encounter = 0
	}
	return true, ev, err
}
