package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config controls runtime behavior. Environment variables override the
// defaults; flags override both at the CLI boundary.
type Config struct {
	DataDir   string `env:"PROCTRACK_DATA_DIR"`
	BanksDir  string `env:"PROCTRACK_BANKS_DIR"`
	LogPath   string `env:"PROCTRACK_LOG_PATH"`
	ASCIIOnly bool   `env:"PROCTRACK_ASCII_ONLY"`
	Study     StudyConfig
}

type StudyConfig struct {
	Mode          string `env:"PROCTRACK_STUDY_MODE"`
	MaxQuestions  int    `env:"PROCTRACK_MAX_QUESTIONS"`
	MaxNew        int    `env:"PROCTRACK_MAX_NEW"`
	FuzzyDistance int    `env:"PROCTRACK_FUZZY_DISTANCE"`
}

func DefaultConfig() Config {
	return Config{
		BanksDir: "banks",
		Study: StudyConfig{
			Mode:          string(ModeDue),
			MaxQuestions:  20,
			MaxNew:        10,
			FuzzyDistance: 2,
		},
	}
}

// FromEnv layers PROCTRACK_* variables over the defaults.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch StudyMode(c.Study.Mode) {
	case "", ModeDue, ModeNew, ModeMarked, ModeStruggling, ModeAll:
	default:
		return fmt.Errorf("invalid study mode %q", c.Study.Mode)
	}
	if c.Study.Mode == "" {
		c.Study.Mode = string(ModeDue)
	}
	if c.Study.MaxQuestions <= 0 {
		c.Study.MaxQuestions = 20
	}
	if c.Study.MaxNew <= 0 {
		c.Study.MaxNew = 10
	}
	if c.Study.FuzzyDistance <= 0 {
		c.Study.FuzzyDistance = 2
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "proctrack")
	}

	return nil
}
