package config

import (
	"time"

	"github.com/ziadkadry99/magic8ball/internal/oracle"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".magic8ball.yml"

// DefaultSymbols are the glyphs the shaking animation draws from.
var DefaultSymbols = []string{"●", "○", "◎", "◇", "☆"}

// DefaultAnimation returns the built-in animation settings.
func DefaultAnimation() AnimationConfig {
	return AnimationConfig{
		Enabled:     true,
		Symbols:     append([]string(nil), DefaultSymbols...),
		Delay:       300 * time.Millisecond,
		RevealDelay: 500 * time.Millisecond,
		Cycles:      5,
		Width:       10,
	}
}

// DefaultConfig returns a Config with the built-in catalog and weights.
func DefaultConfig() *Config {
	return &Config{
		Weights:     oracle.DefaultWeights().Map(),
		Responses:   oracle.DefaultCatalog().Map(),
		Animation:   DefaultAnimation(),
		SessionDir:  ".",
		ArchivePath: ".magic8ball/archive.db",
		Color:       true,
	}
}
