package oracle

import (
	"math/rand/v2"
	"time"
)

// SessionIDLayout formats a session start time into its identifier.
const SessionIDLayout = "20060102_150405"

// Entry is one answered question. Entries are never modified after creation.
type Entry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats counts answers per category.
type Stats map[Category]int

// Total returns the sum of all counters.
func (s Stats) Total() int {
	var n int
	for _, v := range s {
		n += v
	}
	return n
}

// Session owns the ledger and counters of one run.
type Session struct {
	ID        string
	StartedAt time.Time

	catalog     Catalog
	selector    *Selector
	selectorErr error
	rng         Rand
	now         func() time.Time

	history []Entry
	stats   Stats
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession starts a session answering from catalog with the given weights.
// A weight table that cannot drive selection is not rejected here; Answer
// reports it as ErrConfiguration on every call.
func NewSession(catalog Catalog, weights Weights, opts ...Option) *Session {
	s := &Session{
		catalog: catalog,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x8ba11)),
		now:     time.Now,
		stats:   Stats{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.selector, s.selectorErr = NewSelector(weights)
	for _, cat := range Categories {
		s.stats[cat] = 0
	}
	s.StartedAt = s.now()
	s.ID = s.StartedAt.Format(SessionIDLayout)
	return s
}

// Answer picks a response for question and records it. On error the ledger
// and counters are left untouched.
func (s *Session) Answer(question string) (string, error) {
	if s.selectorErr != nil {
		return "", s.selectorErr
	}
	cat := s.selector.Pick(s.rng)
	phrase, err := s.catalog.Phrase(cat, s.rng)
	if err != nil {
		return "", err
	}

	s.stats[cat]++
	s.history = append(s.history, Entry{
		Question:  question,
		Answer:    phrase,
		Timestamp: s.now(),
	})
	return phrase, nil
}

// History returns a copy of the ledger in answer order.
func (s *Session) History() []Entry {
	return append([]Entry(nil), s.history...)
}

// Stats returns a snapshot of the counters. Every category is present.
func (s *Session) Stats() Stats {
	out := make(Stats, len(s.stats))
	for k, v := range s.stats {
		out[k] = v
	}
	return out
}

// Len returns the number of answered questions.
func (s *Session) Len() int { return len(s.history) }

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.now() }
