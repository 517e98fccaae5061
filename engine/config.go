package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid engine config")

// LMRConfig controls late move reductions.
type LMRConfig struct {
	// Remaining depth from which reductions apply.
	MinDepth int `yaml:"min_depth"`
	// Zero-based index in the ordered move list from which a quiet move is reduced.
	MoveIndex int `yaml:"move_index"`
	Reduction int `yaml:"reduction"`
}

type Config struct {
	Threads     int       `yaml:"threads"`
	HashMB      int       `yaml:"hash_mb"`
	MaxDepth    int       `yaml:"max_depth"`
	KillerSlots int       `yaml:"killer_slots"`
	LMR         LMRConfig `yaml:"lmr"`
	LogLevel    string    `yaml:"log_level"`
	Weights     Weights   `yaml:"weights"`
}

func DefaultConfig() Config {
	return Config{
		Threads:     runtime.NumCPU(),
		HashMB:      64,
		MaxDepth:    64,
		KillerSlots: 2,
		LMR: LMRConfig{
			MinDepth:  3,
			MoveIndex: 4,
			Reduction: 1,
		},
		LogLevel: "info",
		Weights:  DefaultWeights(),
	}
}

// LoadConfig reads a YAML config on top of DefaultConfig. Unknown keys are
// rejected. Empty input yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Threads < 1:
		return fmt.Errorf("%w: threads must be at least 1, got %d", ErrInvalidConfig, c.Threads)
	case c.HashMB < 1:
		return fmt.Errorf("%w: hash_mb must be at least 1, got %d", ErrInvalidConfig, c.HashMB)
	case c.MaxDepth < 1 || c.MaxDepth >= MaxPly:
		return fmt.Errorf("%w: max_depth must be in [1, %d), got %d", ErrInvalidConfig, MaxPly, c.MaxDepth)
	case c.KillerSlots < 1:
		return fmt.Errorf("%w: killer_slots must be at least 1, got %d", ErrInvalidConfig, c.KillerSlots)
	case c.LMR.MinDepth < 1 || c.LMR.MoveIndex < 1 || c.LMR.Reduction < 0:
		return fmt.Errorf("%w: lmr settings out of range: %+v", ErrInvalidConfig, c.LMR)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel; an empty value means info.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	return lvl, nil
}
