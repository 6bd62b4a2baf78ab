package oracle

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
	"time"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5eed))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAnswerDistribution(t *testing.T) {
	s := NewSession(DefaultCatalog(), DefaultWeights(), WithRand(seeded(42)))

	const draws = 10000
	for i := 0; i < draws; i++ {
		if _, err := s.Answer("test"); err != nil {
			t.Fatalf("Answer: %v", err)
		}
	}

	pos := float64(s.Stats()[Positive]) / draws
	if pos < 0.35 || pos > 0.45 {
		t.Errorf("positive frequency = %.3f, want within [0.35, 0.45]", pos)
	}
}

func TestAnswerPositiveOnly(t *testing.T) {
	catalog := DefaultCatalog()
	weights := Weights{Positive: 1, Neutral: 0, Negative: 0}
	s := NewSession(catalog, weights, WithRand(seeded(7)))

	for i := 0; i < 100; i++ {
		answer, err := s.Answer("will it work?")
		if err != nil {
			t.Fatalf("Answer: %v", err)
		}
		if !slices.Contains(catalog[Positive], answer) {
			t.Fatalf("draw %d: %q is not a positive phrase", i, answer)
		}
	}

	stats := s.Stats()
	if stats[Neutral] != 0 || stats[Negative] != 0 {
		t.Errorf("stats = %v, want only positive answers", stats)
	}
}

func TestCountersMatchLedger(t *testing.T) {
	s := NewSession(DefaultCatalog(), DefaultWeights(), WithRand(seeded(1)))

	const n = 37
	for i := 0; i < n; i++ {
		if _, err := s.Answer("q"); err != nil {
			t.Fatalf("Answer: %v", err)
		}
	}

	if got := s.Stats().Total(); got != n {
		t.Errorf("stats total = %d, want %d", got, n)
	}
	if got := s.Len(); got != n {
		t.Errorf("ledger length = %d, want %d", got, n)
	}
	if got := len(s.History()); got != n {
		t.Errorf("History() length = %d, want %d", got, n)
	}
}

func TestAnswerRecordsEntry(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	s := NewSession(DefaultCatalog(), DefaultWeights(), WithRand(seeded(3)), WithClock(fixedClock(start)))

	if s.ID != "20240309_140506" {
		t.Errorf("ID = %q, want %q", s.ID, "20240309_140506")
	}

	answer, err := s.Answer("Is it Saturday?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	h := s.History()
	if len(h) != 1 {
		t.Fatalf("history length = %d, want 1", len(h))
	}
	if h[0].Question != "Is it Saturday?" {
		t.Errorf("Question = %q", h[0].Question)
	}
	if h[0].Answer != answer {
		t.Errorf("Answer = %q, want %q", h[0].Answer, answer)
	}
	if !h[0].Timestamp.Equal(start) {
		t.Errorf("Timestamp = %v, want %v", h[0].Timestamp, start)
	}
}

func TestAnswerMissingCategory(t *testing.T) {
	catalog := Catalog{Neutral: {"Ask again later."}}
	s := NewSession(catalog, Weights{Positive: 1}, WithRand(seeded(9)))

	_, err := s.Answer("anything?")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if s.Len() != 0 {
		t.Errorf("ledger length = %d, want 0 after failed answer", s.Len())
	}
	if s.Stats().Total() != 0 {
		t.Errorf("stats total = %d, want 0 after failed answer", s.Stats().Total())
	}
}

func TestAnswerInvalidWeights(t *testing.T) {
	s := NewSession(DefaultCatalog(), Weights{Positive: 0, Neutral: 0})
	if _, err := s.Answer("q"); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestSelectorNeverPicksZeroWeight(t *testing.T) {
	sel, err := NewSelector(Weights{Positive: 0, Neutral: 2, Negative: 0})
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	rng := seeded(11)
	for i := 0; i < 500; i++ {
		if got := sel.Pick(rng); got != Neutral {
			t.Fatalf("Pick = %q, want %q", got, Neutral)
		}
	}
}

type stubRand struct{ f float64 }

func (r stubRand) Float64() float64 { return r.f }
func (r stubRand) IntN(int) int     { return 0 }

func TestSelectorBoundaries(t *testing.T) {
	sel, err := NewSelector(Weights{Positive: 1, Neutral: 1, Negative: 2})
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	tests := []struct {
		draw float64
		want Category
	}{
		{0, Positive},
		{0.2499, Positive},
		{0.25, Neutral},
		{0.4999, Neutral},
		{0.5, Negative},
		{0.9999, Negative},
	}
	for _, tt := range tests {
		if got := sel.Pick(stubRand{tt.draw}); got != tt.want {
			t.Errorf("Pick(%v) = %q, want %q", tt.draw, got, tt.want)
		}
	}
}

func TestNewSelectorRejectsInvalid(t *testing.T) {
	if _, err := NewSelector(Weights{}); err == nil {
		t.Error("expected error for empty weights")
	}
	if _, err := NewSelector(Weights{Positive: -1, Neutral: 2}); err == nil {
		t.Error("expected error for negative weight")
	}
	for name, w := range map[string]Weights{
		"nan":      {Positive: math.NaN(), Negative: 1},
		"+inf":     {Positive: math.Inf(1), Negative: 1},
		"overflow": {Positive: math.MaxFloat64, Negative: math.MaxFloat64},
	} {
		if _, err := NewSelector(w); !errors.Is(err, ErrConfiguration) {
			t.Errorf("%s: expected configuration error, got %v", name, err)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, got, err)
		}
	}
	if _, err := ParseCategory("Positive"); err == nil {
		t.Error("expected error for wrong case")
	}
	if _, err := ParseCategory("maybe"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestResolveValid(t *testing.T) {
	responses := map[string][]string{
		"positive": {"Sure."},
		"neutral":  {"Hmm."},
		"negative": {"Nope."},
	}
	weights := map[string]float64{"positive": 2, "neutral": 1, "negative": 1}

	c, w, warnings := Resolve(responses, weights)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if w[Positive] != 2 {
		t.Errorf("positive weight = %v, want 2", w[Positive])
	}
	if len(c[Negative]) != 1 || c[Negative][0] != "Nope." {
		t.Errorf("negative phrases = %v", c[Negative])
	}
}

func TestResolveFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		responses    map[string][]string
		weights      map[string]float64
		wantWarnings int
		wantCatalog  bool // built-in catalog expected
		wantWeights  bool // built-in weights expected
	}{
		{
			name:         "all zero weights",
			responses:    DefaultCatalog().Map(),
			weights:      map[string]float64{"positive": 0},
			wantWarnings: 1,
			wantWeights:  true,
		},
		{
			name:         "missing category phrases",
			responses:    map[string][]string{"positive": {"Yes."}},
			weights:      map[string]float64{"positive": 1, "negative": 1},
			wantWarnings: 1,
			wantCatalog:  true,
		},
		{
			name:         "empty phrase",
			responses:    map[string][]string{"positive": {"  "}},
			weights:      map[string]float64{"positive": 1},
			wantWarnings: 1,
			wantCatalog:  true,
		},
		{
			name:         "unknown category dropped",
			responses:    DefaultCatalog().Map(),
			weights:      map[string]float64{"positive": 1, "maybe": 3},
			wantWarnings: 1,
		},
		{
			name:         "nan weight",
			responses:    DefaultCatalog().Map(),
			weights:      map[string]float64{"positive": math.NaN(), "negative": 1},
			wantWarnings: 1,
			wantWeights:  true,
		},
		{
			name:         "infinite weight",
			responses:    DefaultCatalog().Map(),
			weights:      map[string]float64{"positive": math.Inf(1), "negative": 1},
			wantWarnings: 1,
			wantWeights:  true,
		},
		{
			name:         "weights overflow",
			responses:    DefaultCatalog().Map(),
			weights:      map[string]float64{"positive": math.MaxFloat64, "neutral": math.MaxFloat64},
			wantWarnings: 1,
			wantWeights:  true,
		},
		{
			name:         "nothing configured",
			wantWarnings: 2,
			wantCatalog:  true,
			wantWeights:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w, warnings := Resolve(tt.responses, tt.weights)
			if len(warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", warnings, tt.wantWarnings)
			}
			if err := c.Validate(w); err != nil {
				t.Errorf("resolved catalog does not serve weights: %v", err)
			}
			if tt.wantWeights && w[Positive] != 0.4 {
				t.Errorf("expected built-in weights, got %v", w)
			}
			if tt.wantCatalog && len(c[Positive]) != len(DefaultCatalog()[Positive]) {
				t.Errorf("expected built-in catalog, got %v", c)
			}
		})
	}
}
