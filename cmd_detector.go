package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"retrotracker/pkg/detector"
)

var detectorCmd = &cobra.Command{
	Use:   "detector",
	Short: "Manage the monster sprite dataset",
}

var (
	detectorBaselineDir string
	detectorDumpDir     string
)

// baselines maps the shipped reference screenshots onto monster names.
// "cursor" is the battle UI arrow; it matches like any sprite but must not
// be reported as a monster.
var baselines = []struct {
	file   string
	name   string
	ignore bool
}{
	{"caveBat.png", "cave bat", false},
	{"bigGobble.png", "big gobble", false},
	{"cursedCandle.png", "cursed candle", false},
	{"dimitri.png", "dimitri", false},
	{"doomShroom.png", "doom shroom", false},
	{"evilStump.png", "evil stump", false},
	{"goblinGrunt.png", "goblin grunt", false},
	{"goblinArcher.png", "goblin archer", false},
	{"goblinJester.png", "goblin jester", false},
	{"goblinJuggler.png", "goblin juggler", false},
	{"goblinMage.png", "goblin mage", false},
	{"goblinStrongman.png", "goblin strongman", false},
	{"goblinWarrior.png", "goblin warrior", false},
	{"killerWasp.png", "killer wasp", false},
	{"lizard.png", "lizard", false},
	{"madTurkey.png", "mad turkey", false},
	{"magicMoth.png", "magic moth", false},
	{"medamaude.png", "medamaude", false},
	{"phantomKnight.png", "phantom knight", false},
	{"skullBat.png", "skull bat", false},
	{"sludge.png", "sludge", false},
	{"spider.png", "spider", false},
	{"watcher.png", "watcher", false},
	{"cursor.png", "cursor", true},
}

func init() {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild the dataset from baseline screenshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildDataset(detectorBaselineDir)
		},
	}
	buildCmd.Flags().StringVar(&detectorBaselineDir, "baselines", "res/retrommo", "directory with baseline screenshots")

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Write every dataset sprite as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			det, err := detector.Load(cfg.Dataset, logger)
			if err != nil {
				return err
			}
			return det.Dump(detectorDumpDir)
		},
	}
	dumpCmd.Flags().StringVar(&detectorDumpDir, "out", "res/outputs", "output directory")

	detectorCmd.AddCommand(
		buildCmd,
		dumpCmd,
		&cobra.Command{
			Use:   "identify <screenshot>",
			Short: "Identify monsters in a screenshot with a black background",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				det, err := detector.Load(cfg.Dataset, logger)
				if err != nil {
					return err
				}
				img, err := imaging.Open(args[0])
				if err != nil {
					return err
				}
				for _, name := range det.Identify(img) {
					fmt.Println(name)
				}
				return nil
			},
		},
	)
}

func buildDataset(dir string) error {
	// rebuild from scratch so stale entries don't linger
	if err := os.Remove(cfg.Dataset); err != nil && !os.IsNotExist(err) {
		return err
	}
	det := detector.New(cfg.Dataset, logger)
	for _, b := range baselines {
		path := filepath.Join(dir, b.file)
		if err := det.AddBaseline(path, b.name, b.ignore); err != nil {
			return err
		}
	}
	if err := det.Save(); err != nil {
		return err
	}
	fmt.Printf("built %s with %d baselines\n", cfg.Dataset, len(baselines))
	return nil
}
