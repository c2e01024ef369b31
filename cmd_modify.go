package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"retrotracker/models"
	"retrotracker/pkg/store"
)

var modifyCmd = &cobra.Command{
	Use:   "modify",
	Short: "Edit players and monsters in the database",
}

func init() {
	modifyCmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create the database schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					return st.Migrate()
				})
			},
		},
		&cobra.Command{
			Use:   "create-presets",
			Short: "Insert the preset player builds",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(createPresets)
			},
		},
		&cobra.Command{
			Use:   "add-player",
			Short: "Add a player build interactively",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(addPlayer)
			},
		},
		&cobra.Command{
			Use:   "rename-player <current> <new>",
			Short: "Rename a player",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					return renamePlayer(st, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "merge-players <from> <into>",
			Short: "Move all hits from one player onto another, then delete it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					return mergePlayers(st, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "delete-player <name>",
			Short: "Delete a player and its hits",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					if !confirm(fmt.Sprintf("confirm deleting player %s (cannot be undone)", args[0])) {
						return nil
					}
					return st.DeletePlayer(args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "rename-monster <current> <new>",
			Short: "Rename a monster",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					return renameMonster(st, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "merge-monsters <from> <into>",
			Short: "Move all hits from one monster onto another, then delete it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					return mergeMonsters(st, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "delete-monster <name>",
			Short: "Delete a monster and its hits",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(func(st *store.Store) error {
					if !confirm(fmt.Sprintf("confirm deleting monster %s (cannot be undone)", args[0])) {
						return nil
					}
					return st.DeleteMonster(args[0])
				})
			},
		},
	)
}

// withStore opens the configured database around one CLI action.
func withStore(fn func(*store.Store) error) error {
	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// presetPlayers are max-level reference builds for quick comparisons.
var presetPlayers = []struct {
	name   string
	class  models.Class
	gear   [4]string
	boosts models.Stats
}{
	{"wr.str", models.ClassWarrior,
		[4]string{"dented_helm", "leather_armor", "tenderizer", "studded_shield"},
		models.Stats{Strength: 6}},
	{"wr.def", models.ClassWarrior,
		[4]string{"dented_helm", "leather_armor", "tenderizer", "studded_shield"},
		models.Stats{Defense: 6}},
	{"wz.int", models.ClassWizard,
		[4]string{"mage_hat", "tattered_cloak", "crooked_wand", "bone_bracelet"},
		models.Stats{Intelligence: 6}},
}

func createPresets(st *store.Store) error {
	for _, preset := range presetPlayers {
		exists, err := st.PlayerExists(preset.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		p, err := models.NewPlayer(preset.name, preset.class, models.MaxLevel,
			preset.gear[0], preset.gear[1], preset.gear[2], preset.gear[3],
			preset.boosts)
		if err != nil {
			return err
		}
		if err := st.InsertPlayer(p); err != nil {
			return err
		}
		fmt.Printf("created %s\n", preset.name)
	}
	return nil
}

// maxBoosts is the total stat boost budget a character can allocate.
const maxBoosts = 6

func addPlayer(st *store.Store) error {
	in := bufio.NewReader(os.Stdin)

	name := prompt(in, "player alias/name (e.g. wr.str): ")
	exists, err := st.PlayerExists(name)
	if err != nil {
		return err
	}
	if exists {
		fmt.Println("alias already exists")
		return nil
	}

	fmt.Println("--- available classes ---")
	for _, c := range models.Classes {
		fmt.Printf("  %s\n", c)
	}
	class, err := models.ParseClass(prompt(in, "class: "))
	if err != nil {
		return err
	}
	level, err := strconv.Atoi(prompt(in, fmt.Sprintf("level (1-%d): ", models.MaxLevel)))
	if err != nil {
		return err
	}

	var gear [4]string
	for i, slot := range []models.GearSlot{
		models.SlotHead, models.SlotBody, models.SlotMainhand, models.SlotOffhand,
	} {
		fmt.Printf("--- %s gear options ---\n", slot)
		for _, name := range models.GearNames(slot) {
			fmt.Printf("  %s\n", name)
		}
		gear[i] = prompt(in, fmt.Sprintf("%s: ", slot))
	}

	var boosts models.Stats
	for {
		var fields [8]int
		total := 0
		for i, stat := range []string{"str", "def", "agi", "int", "wis", "lck"} {
			n, err := strconv.Atoi(prompt(in, fmt.Sprintf("%s boosts (0-%d): ", stat, maxBoosts)))
			if err != nil {
				return err
			}
			fields[2+i] = n
			total += n
		}
		if total > maxBoosts {
			fmt.Println("thats too many boosts!")
			continue
		}
		boosts = models.StatsFromFields(fields)
		break
	}

	p, err := models.NewPlayer(name, class, level, gear[0], gear[1], gear[2], gear[3], boosts)
	if err != nil {
		return err
	}
	if err := st.InsertPlayer(p); err != nil {
		return err
	}
	fmt.Printf("created %s\n", name)
	return nil
}

func renamePlayer(st *store.Store, from, to string) error {
	if exists, err := st.PlayerExists(to); err != nil {
		return err
	} else if exists {
		fmt.Printf("player %q already exists, did you mean merge-players?\n", to)
		return nil
	}
	if !confirm(fmt.Sprintf("confirm renaming %s to %s", from, to)) {
		return nil
	}
	return st.RenamePlayer(from, to)
}

func mergePlayers(st *store.Store, from, to string) error {
	if !confirm(fmt.Sprintf("confirm merging player %s into %s (cannot be undone)", from, to)) {
		return nil
	}
	return st.MergePlayers(from, to)
}

func renameMonster(st *store.Store, from, to string) error {
	if exists, err := st.MonsterExists(to); err != nil {
		return err
	} else if exists {
		fmt.Printf("monster %q already exists, did you mean merge-monsters?\n", to)
		return nil
	}
	if !confirm(fmt.Sprintf("confirm renaming %q to %q", from, to)) {
		return nil
	}
	return st.RenameMonster(from, to)
}

func mergeMonsters(st *store.Store, from, to string) error {
	if !confirm(fmt.Sprintf("confirm merging monster %q into %q (cannot be undone)", from, to)) {
		return nil
	}
	return st.MergeMonsters(from, to)
}

func prompt(in *bufio.Reader, msg string) string {
	fmt.Print(msg)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func confirm(msg string) bool {
	in := bufio.NewReader(os.Stdin)
	answer := strings.ToLower(prompt(in, msg+" (y/N): "))
	return strings.HasPrefix(answer, "y")
}
