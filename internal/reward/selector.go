package reward

import (
	"math/rand/v2"
	"sort"

	"github.com/osse101/luckydraw/internal/domain"
)

// RandomSource yields uniform values in [0, 1)
type RandomSource interface {
	Float64() float64
}

// RandomSourceFunc adapts a function to RandomSource
type RandomSourceFunc func() float64

func (f RandomSourceFunc) Float64() float64 { return f() }

// NewPCGSource returns a PRNG seeded from the runtime's random state.
// Not suitable for anything security related.
func NewPCGSource() RandomSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // game randomness
}

// Selection is the outcome of one draw. On a loss Multiplier and GoldenHour
// describe the strongest boost any candidate carried during the draw.
type Selection struct {
	Reward     *domain.Reward
	Multiplier float64
	GoldenHour bool
}

// Won reports whether the draw landed on a reward
func (s Selection) Won() bool { return s.Reward != nil }

// Selector performs the weighted draw for a single spin
type Selector struct {
	newSource func() RandomSource
}

// Option configures a Selector
type Option func(*Selector)

// WithSource makes every draw read from src. Used by tests to fix the draw
// sequence.
func WithSource(src RandomSource) Option {
	return func(s *Selector) {
		s.newSource = func() RandomSource { return src }
	}
}

// NewSelector creates a selector that seeds a fresh PCG source per draw
func NewSelector(opts ...Option) *Selector {
	s := &Selector{newSource: NewPCGSource}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select draws at most one reward from candidates. Each candidate's
// effective weight is probability × multipliers[id] (1.0 when absent) and the
// draw is uniform over the summed weights, so nothing is won only when that
// sum is zero. Candidates are walked in ID order so a fixed draw is
// reproducible.
func (s *Selector) Select(candidates []domain.Reward, multipliers map[int64]float64) Selection {
	if len(candidates) == 0 {
		return Selection{Multiplier: domain.NeutralMultiplier}
	}

	ordered := make([]domain.Reward, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	weights := make([]float64, len(ordered))
	total := 0.0
	for i, r := range ordered {
		w := r.Probability * multiplierFor(multipliers, r.ID)
		if w < 0 {
			w = 0
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return lost(ordered, multipliers)
	}

	roll := s.newSource().Float64() * total

	cumulative := 0.0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return selected(ordered[i], multipliers)
		}
	}
	// rounding can leave roll at the very top of the range
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return selected(ordered[i], multipliers)
		}
	}
	return lost(ordered, multipliers)
}

func selected(r domain.Reward, multipliers map[int64]float64) Selection {
	m := multiplierFor(multipliers, r.ID)
	return Selection{Reward: &r, Multiplier: m, GoldenHour: m > domain.NeutralMultiplier}
}

func lost(candidates []domain.Reward, multipliers map[int64]float64) Selection {
	peak := domain.NeutralMultiplier
	for _, r := range candidates {
		if m := multiplierFor(multipliers, r.ID); m > peak {
			peak = m
		}
	}
	return Selection{Multiplier: peak, GoldenHour: peak > domain.NeutralMultiplier}
}

func multiplierFor(multipliers map[int64]float64, id int64) float64 {
	if m, ok := multipliers[id]; ok && m > 0 {
		return m
	}
	return domain.NeutralMultiplier
}
