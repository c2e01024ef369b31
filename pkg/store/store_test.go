package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retrotracker/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustPlayer(t *testing.T, s *Store, name string) *models.Player {
	t.Helper()
	p, err := models.NewPlayer(name, models.ClassWarrior, 10,
		"dented_helm", "leather_armor", "tenderizer", "studded_shield",
		models.Stats{Strength: 6})
	require.NoError(t, err)
	require.NoError(t, s.InsertPlayer(p))
	return p
}

func TestInsertAndLoadPlayer(t *testing.T) {
	s := newTestStore(t)
	mustPlayer(t, s, "wr.str")

	p, err := s.LoadPlayer("wr.str")
	require.NoError(t, err)
	assert.Equal(t, models.ClassWarrior, p.Class)
	assert.Equal(t, 10, p.Level)
	// base 40 str + tenderizer 8 + 6 boosts
	assert.Equal(t, 54, p.Strength)
	assert.Equal(t, "0 0 6 0 0 0 0 0", p.Boosts)

	_, err = s.LoadPlayer("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := s.PlayerExists("wr.str")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMonsterIDMemoizes(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.MonsterID("lizard")
	require.NoError(t, err)
	id2, err := s.MonsterID("lizard")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	names, err := s.ListMonsters()
	require.NoError(t, err)
	assert.Equal(t, []string{"lizard"}, names)
}

func TestWarmMonsterCache(t *testing.T) {
	s := newTestStore(t)
	_, err := s.MonsterID("lizard")
	require.NoError(t, err)
	_, err = s.MonsterID("cave bat")
	require.NoError(t, err)

	names, err := s.WarmMonsterCache()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lizard", "cave bat"}, names)
}

func TestRenameAndMergePlayers(t *testing.T) {
	s := newTestStore(t)
	a := mustPlayer(t, s, "wr.old")
	b := mustPlayer(t, s, "wr.new")
	mid, err := s.MonsterID("lizard")
	require.NoError(t, err)
	require.NoError(t, s.RecordPlayerHit(&models.PlayerHit{
		PlayerID: a.ID, MonsterID: mid, Ability: "attack", Damage: 10,
	}))

	require.NoError(t, s.RenamePlayer("wr.old", "wr.renamed"))
	_, err = s.LoadPlayer("wr.renamed")
	require.NoError(t, err)
	assert.ErrorIs(t, s.RenamePlayer("ghost", "x"), ErrNotFound)

	require.NoError(t, s.MergePlayers("wr.renamed", "wr.new"))
	_, err = s.LoadPlayer("wr.renamed")
	assert.ErrorIs(t, err, ErrNotFound)

	stats, err := s.PlayerHitStats("wr.new", "lizard")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].N)
	_ = b
}

func TestDeleteMonsterRemovesHits(t *testing.T) {
	s := newTestStore(t)
	p := mustPlayer(t, s, "wr.str")
	mid, err := s.MonsterID("lizard")
	require.NoError(t, err)
	require.NoError(t, s.RecordPlayerHit(&models.PlayerHit{
		PlayerID: p.ID, MonsterID: mid, Ability: "attack", Damage: 12,
	}))

	require.NoError(t, s.DeleteMonster("lizard"))
	names, err := s.ListMonsters()
	require.NoError(t, err)
	assert.Empty(t, names)
	stats, err := s.PlayerHitStats("wr.str", "lizard")
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestHitStatsAggregation(t *testing.T) {
	s := newTestStore(t)
	p := mustPlayer(t, s, "wr.str")
	mid, err := s.MonsterID("goblin grunt")
	require.NoError(t, err)
	for _, dmg := range []int{10, 14, 18} {
		require.NoError(t, s.RecordPlayerHit(&models.PlayerHit{
			PlayerID: p.ID, MonsterID: mid, Ability: "attack", Damage: dmg,
		}))
	}
	require.NoError(t, s.RecordPlayerHit(&models.PlayerHit{
		PlayerID: p.ID, MonsterID: mid, Ability: "power strike", Damage: 30,
	}))

	stats, err := s.PlayerHitStats("wr.str", "goblin grunt")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "attack", stats[0].Ability)
	assert.Equal(t, 3, stats[0].N)
	assert.InDelta(t, 14.0, stats[0].Avg, 1e-9)
	assert.InDelta(t, 3.265986, stats[0].Std, 1e-5)
	assert.Equal(t, "power strike", stats[1].Ability)
}

func TestEncounterLifecycle(t *testing.T) {
	s := newTestStore(t)
	p := mustPlayer(t, s, "wr.str")

	eid, err := s.BeginEncounter(map[string]*models.Player{"alice": p})
	require.NoError(t, err)
	require.NotZero(t, eid)

	require.NoError(t, s.AddEncounterMonsters(eid, []string{"lizard", "cave bat"}))
	require.NoError(t, s.AddEncounterItem(eid, "herb"))

	mid, err := s.MonsterID("lizard")
	require.NoError(t, err)
	require.NoError(t, s.RecordPlayerHit(&models.PlayerHit{
		PlayerID: p.ID, EncounterID: eid, MonsterID: mid, Ability: "attack", Damage: 11,
	}))
	require.NoError(t, s.RecordMonsterHit(&models.MonsterHit{
		PlayerID: p.ID, EncounterID: eid, MonsterID: mid, Ability: "bite", Damage: 4,
	}))

	require.NoError(t, s.SetEncounterGold(eid, 25))
	require.NoError(t, s.SetEncounterExp(eid, 12))
	require.NoError(t, s.EndEncounter(eid))

	sums, err := s.EncounterSummaries()
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 25, sums[0].Gold)
	assert.Equal(t, 12, sums[0].Exp)
	assert.Equal(t, 2, sums[0].Monsters)
	assert.Equal(t, 1, sums[0].Players)
	assert.Equal(t, 1, sums[0].Items)

	detail, err := s.Encounter(eid)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"lizard", "cave bat"}, detail.Monsters)
	require.Len(t, detail.Participants, 1)
	assert.Equal(t, "alice", detail.Participants[0].Username)
	assert.Equal(t, "wr.str", detail.Participants[0].PlayerName)
	assert.Equal(t, 11, detail.Participants[0].Dealt)
	assert.Equal(t, 4, detail.Participants[0].Taken)

	_, err = s.Encounter(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
