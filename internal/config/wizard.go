package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/magic8ball/internal/oracle"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to the Magic 8 Ball! Let's tune the oracle.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Category weights.
	weights := map[string]float64{}
	for _, cat := range oracle.Categories {
		weightPrompt := promptui.Prompt{
			Label:    fmt.Sprintf("Weight for %s answers", cat),
			Default:  strconv.FormatFloat(cfg.Weights[string(cat)], 'f', -1, 64),
			Validate: validateWeight,
		}
		raw, err := weightPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("%s weight: %w", cat, err)
		}
		v, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		weights[string(cat)] = v
	}
	if err := toWeights(weights).Validate(); err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	cfg.Weights = weights

	// 2. Animation.
	animationPrompt := promptui.Select{
		Label: "Shake animation",
		Items: []string{
			"on:  shake the ball before every answer",
			"off: answer immediately",
		},
	}
	animationIdx, _, err := animationPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("animation selection: %w", err)
	}
	cfg.Animation.Enabled = animationIdx == 0

	// 3. Session directory.
	dirPrompt := promptui.Prompt{
		Label:   "Directory for session transcripts",
		Default: cfg.SessionDir,
	}
	dir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("session dir: %w", err)
	}
	cfg.SessionDir = dir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// validateWeight accepts non-negative decimal numbers.
func validateWeight(input string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a number")
	}
	if v < 0 {
		return fmt.Errorf("must be non-negative")
	}
	return nil
}

func toWeights(m map[string]float64) oracle.Weights {
	w := oracle.Weights{}
	for name, v := range m {
		w[oracle.Category(name)] = v
	}
	return w
}
