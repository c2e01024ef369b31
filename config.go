package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"retrotracker/pkg/detector"
	"retrotracker/pkg/ocr"
	"retrotracker/pkg/store"
)

const defaultConfigPath = "retrotracker.yaml"

// Config is the optional yaml config file. Flags override anything set here.
type Config struct {
	// Box is the battle text region.
	Box ocr.Box `yaml:"box"`
	// MonsterBox is the region monsters render in, used by the sprite
	// detector when set.
	MonsterBox *ocr.Box `yaml:"monster_box"`
	Database   string   `yaml:"database"`
	Dataset    string   `yaml:"dataset"`
	IntervalMS int      `yaml:"interval_ms"`
	Serve      string   `yaml:"serve"`
}

func defaultConfig() Config {
	return Config{
		Box:        ocr.Box{X: 180, Y: 690, W: 620, H: 130},
		Database:   store.DefaultPath,
		Dataset:    detector.DefaultDataset,
		IntervalMS: 250,
	}
}

// loadConfig reads the config file. The default path is allowed to be
// absent; an explicitly requested file is not.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.IntervalMS <= 0 {
		cfg.IntervalMS = 250
	}
	return cfg, nil
}
