package generator

import (
	"math/rand/v2"
	"sync"
)

// Random is the source of every random choice the generator makes.
type Random interface {
	// IntN returns a uniform integer in [0, n). n is always > 0.
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// NewRandom returns a goroutine-safe source backed by the runtime's global generator.
func NewRandom() Random {
	return globalRandom{}
}

type seededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *seededRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// NewSeededRandom returns a deterministic, goroutine-safe source. The same seed
// yields the same sequence of choices.
func NewSeededRandom(seed uint64) Random {
	return &seededRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// uniformInclusive draws from [min, max].
func uniformInclusive(r Random, min, max int) int {
	return min + r.IntN(max-min+1)
}
