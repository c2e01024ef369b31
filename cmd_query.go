package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"retrotracker/pkg/store"
)

// monsterMaxHP is used to estimate one-shot chances. Filled in by hand for
// the monsters encountered so far.
var monsterMaxHP = map[string]int{
	"lizard":         15,
	"goblin archer":  32,
	"goblin grunt":   35,
	"goblin warrior": 39,
	"cave bat":       28,
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Report recorded statistics",
}

var queryPlayerName string

func init() {
	playersCmd := &cobra.Command{
		Use:   "players",
		Short: "Show player builds and their stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				return queryPlayers(st, queryPlayerName)
			})
		},
	}
	playersCmd.Flags().StringVar(&queryPlayerName, "name", "", "only this player")

	queryCmd.AddCommand(
		playersCmd,
		&cobra.Command{
			Use:   "player-hits <player> <monster>",
			Short: "Damage a player dealt to a monster, per ability",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					return queryPlayerHits(st, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "monsters",
			Short: "List known monsters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(queryMonsters)
			},
		},
		&cobra.Command{
			Use:   "monster-hits <monster> <player>",
			Short: "Damage a monster dealt to a player, per ability",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					return queryMonsterHits(st, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "encounters [id]",
			Short: "List encounters, or detail one",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					if len(args) == 0 {
						return queryEncounters(st)
					}
					id, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("encounter id %q: %w", args[0], err)
					}
					return queryEncounter(st, uint(id))
				})
			},
		},
	)
}

func queryPlayers(st *store.Store, name string) error {
	players, err := st.ListPlayers(name)
	if err != nil {
		return err
	}
	for _, p := range players {
		fmt.Printf("-- %s Lv %d %s --\n", p.Name, p.Level, p.Class)
		fmt.Printf("   str: %d\n", p.Strength)
		fmt.Printf("   def: %d\n", p.Defense)
		fmt.Printf("   agi: %d\n", p.Agility)
		fmt.Printf("   int: %d\n", p.Intelligence)
		fmt.Printf("   wis: %d\n", p.Wisdom)
		fmt.Printf("   lck: %d\n", p.Luck)
	}
	return nil
}

func queryPlayerHits(st *store.Store, player, monster string) error {
	stats, err := st.PlayerHitStats(player, monster)
	if err != nil {
		return err
	}
	maxHP, hasHP := monsterMaxHP[monster]
	for _, ab := range stats {
		oneshot := ""
		if hasHP {
			n := 0
			for _, dmg := range ab.Damages {
				if dmg >= maxHP {
					n++
				}
			}
			chance := float64(n) / float64(ab.N) * 100
			oneshot = fmt.Sprintf(" (%0.2f%% one-shot)", chance)
		}
		fmt.Printf("%s - n=%d avg=%0.2f std=%0.2f%s\n", ab.Ability, ab.N, ab.Avg, ab.Std, oneshot)
	}
	return nil
}

func queryMonsters(st *store.Store) error {
	names, err := st.ListMonsters()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func queryMonsterHits(st *store.Store, monster, player string) error {
	stats, err := st.MonsterHitStats(player, monster)
	if err != nil {
		return err
	}
	for _, ab := range stats {
		fmt.Printf("%s - n=%d avg=%0.2f std=%0.2f\n", ab.Ability, ab.N, ab.Avg, ab.Std)
	}
	return nil
}

func queryEncounters(st *store.Store) error {
	sums, err := st.EncounterSummaries()
	if err != nil {
		return err
	}
	for _, s := range sums {
		fmt.Printf("%3d - %dv%d %d exp, %d gold\n", s.ID, s.Players, s.Monsters, s.Exp, s.Gold)
	}
	return nil
}

func queryEncounter(st *store.Store, id uint) error {
	detail, err := st.Encounter(id)
	if err != nil {
		return err
	}
	fmt.Printf("encounter %d -- %dv%d\n", detail.ID, len(detail.Participants), len(detail.Monsters))
	fmt.Printf("monsters: %s\n", joinOr(detail.Monsters, "none identified"))
	fmt.Println("        player        damage dealt    damage taken")
	fmt.Println("        ------        ------------    ------------")
	for _, p := range detail.Participants {
		name := fmt.Sprintf("%s (%s)", p.Username, p.PlayerName)
		fmt.Printf("%-22s %12d    %12d\n", name, p.Dealt, p.Taken)
	}
	return nil
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
