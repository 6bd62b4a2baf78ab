package oracle

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrConfiguration marks a catalog or weight table that cannot serve an answer.
var ErrConfiguration = errors.New("oracle configuration error")

// Catalog maps each category to its ordered phrases.
type Catalog map[Category][]string

// Weights holds the relative likelihood of each category. Weights need not
// sum to 1.
type Weights map[Category]float64

// Validate checks that c can serve every category with a positive weight in w.
func (c Catalog) Validate(w Weights) error {
	for _, cat := range Categories {
		if w[cat] <= 0 {
			continue
		}
		phrases := c[cat]
		if len(phrases) == 0 {
			return fmt.Errorf("%w: no phrases for category %q", ErrConfiguration, cat)
		}
		for i, p := range phrases {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: empty phrase %d in category %q", ErrConfiguration, i, cat)
			}
		}
	}
	return nil
}

// Validate checks that every weight is finite and non-negative, that at least
// one is positive, and that their sum is finite.
func (w Weights) Validate() error {
	var total float64
	for cat, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weight %v for category %q is not a finite number", ErrConfiguration, v, cat)
		}
		if v < 0 {
			return fmt.Errorf("%w: negative weight %v for category %q", ErrConfiguration, v, cat)
		}
		total += v
	}
	if total <= 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrConfiguration)
	}
	if math.IsInf(total, 0) {
		return fmt.Errorf("%w: weights overflow when summed", ErrConfiguration)
	}
	return nil
}

// DefaultCatalog returns the built-in responses.
func DefaultCatalog() Catalog {
	return Catalog{
		Positive: {
			"Yes - Definitely.", "It is decidedly so.", "Without a doubt.",
			"Yes, absolutely.", "You may rely on it.", "As I see it, yes.",
			"Most likely.", "Outlook good.", "Yes.", "Signs point to yes.",
		},
		Neutral: {
			"Reply hazy, try again.", "Ask again later.",
			"Better not tell you now.", "Cannot predict now.",
			"Concentrate and ask again.",
		},
		Negative: {
			"Don't count on it.", "My reply is no.", "My sources say no.",
			"Outlook not so good.", "Very doubtful.",
		},
	}
}

// DefaultWeights returns the built-in weight table.
func DefaultWeights() Weights {
	return Weights{Positive: 0.4, Neutral: 0.3, Negative: 0.3}
}

// Resolve converts raw configuration maps into a usable catalog and weight
// table. Unknown categories are dropped. If the weights are invalid the
// built-in weights are used; if the catalog cannot serve the weights the
// built-in catalog is used. Every substitution is reported in warnings.
func Resolve(responses map[string][]string, weights map[string]float64) (Catalog, Weights, []error) {
	var warnings []error

	w := Weights{}
	for name, v := range weights {
		cat, err := ParseCategory(name)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("weights: %w", err))
			continue
		}
		w[cat] = v
	}
	if err := w.Validate(); err != nil {
		warnings = append(warnings, fmt.Errorf("weights: %w; using built-in weights", err))
		w = DefaultWeights()
	}

	c := Catalog{}
	for name, phrases := range responses {
		cat, err := ParseCategory(name)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("responses: %w", err))
			continue
		}
		c[cat] = append([]string(nil), phrases...)
	}
	if err := c.Validate(w); err != nil {
		warnings = append(warnings, fmt.Errorf("responses: %w; using built-in responses", err))
		c = DefaultCatalog()
	}

	return c, w, warnings
}

// Map returns c keyed by plain category names.
func (c Catalog) Map() map[string][]string {
	out := make(map[string][]string, len(c))
	for cat, phrases := range c {
		out[string(cat)] = append([]string(nil), phrases...)
	}
	return out
}

// Map returns w keyed by plain category names.
func (w Weights) Map() map[string]float64 {
	out := make(map[string]float64, len(w))
	for cat, v := range w {
		out[string(cat)] = v
	}
	return out
}
