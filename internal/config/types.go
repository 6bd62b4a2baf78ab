package config

import "time"

// Config is the top-level magic8ball configuration, corresponding to .magic8ball.yml.
type Config struct {
	Weights       map[string]float64  `yaml:"weights" koanf:"weights"`
	Responses     map[string][]string `yaml:"responses" koanf:"responses"`
	ResponsesFile string              `yaml:"responses_file,omitempty" koanf:"responses_file"`
	Animation     AnimationConfig     `yaml:"animation" koanf:"animation"`
	SessionDir    string              `yaml:"session_dir" koanf:"session_dir"`
	ArchivePath   string              `yaml:"archive_path" koanf:"archive_path"`
	Color         bool                `yaml:"color" koanf:"color"`
}

// AnimationConfig controls the shaking animation shown before each answer.
type AnimationConfig struct {
	Enabled     bool          `yaml:"enabled" koanf:"enabled"`
	Symbols     []string      `yaml:"symbols" koanf:"symbols"`
	Delay       time.Duration `yaml:"delay" koanf:"delay"`
	RevealDelay time.Duration `yaml:"reveal_delay" koanf:"reveal_delay"`
	Cycles      int           `yaml:"cycles" koanf:"cycles"`
	Width       int           `yaml:"width" koanf:"width"`
}
