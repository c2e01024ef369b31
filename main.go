// Command retrotracker watches the RetroMMO battle text box with OCR and
// records damage, gold and experience per player build in a local sqlite
// database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	dbPath     string

	cfg    Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "retrotracker",
	Short: "OCR battle tracker for RetroMMO",
	Long: `retrotracker reads the battle text box off the screen, parses damage,
gold and experience lines, and records them per player build so damage
spreads can be compared across gear and stat allocations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database = dbPath
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default retrotracker.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "database", "", "sqlite database file (default stats.db)")

	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(detectorCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
