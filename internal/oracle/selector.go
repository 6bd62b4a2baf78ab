package oracle

import (
	"fmt"
	"sort"
)

// Rand is the random source used for selection. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Selector draws categories from a cumulative weight table with a single
// uniform draw in [0, total).
type Selector struct {
	cats  []Category
	cum   []float64
	total float64
}

// NewSelector builds a Selector over w. Categories with zero or absent weight
// are never drawn.
func NewSelector(w Weights) (*Selector, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	s := &Selector{}
	for _, cat := range Categories {
		v := w[cat]
		if v <= 0 {
			continue
		}
		s.total += v
		s.cats = append(s.cats, cat)
		s.cum = append(s.cum, s.total)
	}
	return s, nil
}

// Pick returns a category with probability proportional to its weight.
func (s *Selector) Pick(rng Rand) Category {
	r := rng.Float64() * s.total
	i := sort.Search(len(s.cum), func(i int) bool { return s.cum[i] > r })
	if i == len(s.cum) {
		// r == total can only come from float rounding.
		i = len(s.cum) - 1
	}
	return s.cats[i]
}

// Phrase picks a phrase uniformly from the catalog entry for cat.
func (c Catalog) Phrase(cat Category, rng Rand) (string, error) {
	phrases, ok := c[cat]
	if !ok || len(phrases) == 0 {
		return "", fmt.Errorf("%w: no phrases for category %q", ErrConfiguration, cat)
	}
	return phrases[rng.IntN(len(phrases))], nil
}
