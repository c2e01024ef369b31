package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"retrotracker/pkg/detector"
	"retrotracker/pkg/gamestate"
	"retrotracker/pkg/ocr"
	"retrotracker/pkg/store"
)

var (
	trackPosition bool
	trackServe    string
)

var trackCmd = &cobra.Command{
	Use:   "track <username> <player>",
	Short: "Watch the battle text box and record stats",
	Long: `Polls the configured screen region, parses battle lines, and records
hits under the given player build. <username> is the in-game name that
appears in battle text; <player> is a build name created with
"retrotracker modify add-player".`,
	Args: cobra.ExactArgs(2),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().BoolVar(&trackPosition, "position", false, "set the capture region with the mouse before starting")
	trackCmd.Flags().StringVar(&trackServe, "serve", "", "serve live session stats on this address (e.g. localhost:8089)")
}

func runTrack(cmd *cobra.Command, args []string) error {
	username := strings.ToLower(args[0])
	playerName := args[1]

	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(); err != nil {
		return err
	}

	monsterNames, err := st.WarmMonsterCache()
	if err != nil {
		return err
	}
	player, err := st.LoadPlayer(playerName)
	if err != nil {
		return err
	}

	game := gamestate.New(st, logger)
	game.AddPlayer(username, player)
	game.AddNouns(monsterNames...)

	reader, err := ocr.NewReader(cfg.Box, logger)
	if err != nil {
		return err
	}
	defer reader.Close()
	if trackPosition {
		box, err := positionBox()
		if err != nil {
			return err
		}
		reader.SetBox(box)
		fmt.Printf("bbox: %+v\n", reader.Box())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The sprite detector is optional: it needs a dataset and a configured
	// monster region to attach identified monsters to encounters.
	var det *detector.Detector
	if cfg.MonsterBox != nil {
		det, err = detector.Load(cfg.Dataset, logger)
		if err != nil {
			return err
		}
		if len(det.Names()) == 0 {
			logger.Warn("monster box configured but dataset is empty", zap.String("dataset", cfg.Dataset))
			det = nil
		} else if err := det.Watch(ctx); err != nil {
			return err
		}
	}

	serveAddr := trackServe
	if serveAddr == "" {
		serveAddr = cfg.Serve
	}
	live := newLiveStats()
	if serveAddr != "" {
		go func() {
			if err := serveStats(serveAddr, live); err != nil {
				logger.Error("stats server stopped", zap.Error(err))
			}
		}()
	}

	start := time.Now()
	ticker := time.NewTicker(time.Duration(cfg.IntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("  exiting")
			printSessionStats(game, time.Since(start))
			return nil
		case <-ticker.C:
		}

		lines, err := reader.Lines()
		if err != nil {
			logger.Warn("capture failed", zap.Error(err))
			continue
		}
		for _, line := range lines {
			event, err := game.HandleLine(line)
			if err != nil {
				logger.Warn("line not recorded", zap.String("line", line), zap.Error(err))
			}
			if event == nil {
				continue
			}
			fmt.Println(event)
			live.record(event, game, time.Since(start))
			if event.Type == gamestate.EventEnemiesApproach && det != nil {
				identifyMonsters(st, game, det)
			}
		}
	}
}

// identifyMonsters captures the monster region, matches sprites, and
// attaches the result to the open encounter.
func identifyMonsters(st *store.Store, game *gamestate.Game, det *detector.Detector) {
	img, err := ocr.Capture(*cfg.MonsterBox)
	if err != nil {
		logger.Warn("monster capture failed", zap.Error(err))
		return
	}
	monsters := det.Identify(img)
	if len(monsters) == 0 {
		return
	}
	logger.Debug("monsters identified", zap.Strings("monsters", monsters))
	game.AddNouns(monsters...)
	if eid := game.Encounter(); eid != 0 {
		if err := st.AddEncounterMonsters(eid, monsters); err != nil {
			logger.Warn("attach monsters failed", zap.Error(err))
		}
	}
}

func printSessionStats(game *gamestate.Game, elapsed time.Duration) {
	hours := elapsed.Hours()
	if hours <= 0 {
		return
	}
	fmt.Printf("exp/hr - %d\n", int(float64(game.Exp())/hours))
	fmt.Printf("gld/hr - %d\n", int(float64(game.Gold())/hours))
}

// positionBox reads the capture rectangle from two mouse positions.
func positionBox() (ocr.Box, error) {
	in := bufio.NewReader(os.Stdin)
	fmt.Println("position mouse at top-left of text box, then press enter")
	if _, err := in.ReadString('\n'); err != nil {
		return ocr.Box{}, err
	}
	x, y := robotgo.Location()
	fmt.Println("now do bottom right")
	if _, err := in.ReadString('\n'); err != nil {
		return ocr.Box{}, err
	}
	x2, y2 := robotgo.Location()
	if x2 <= x || y2 <= y {
		return ocr.Box{}, fmt.Errorf("bottom right (%d,%d) is not below top left (%d,%d)", x2, y2, x, y)
	}
	return ocr.Box{X: x, Y: y, W: x2 - x, H: y2 - y}, nil
}
