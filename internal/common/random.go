package common

import (
	"math/rand"
	"sync"
	"time"
)

// Random is the source of randomness for simulations and synthetic data.
// *rand.Rand satisfies it; tests substitute scripted sequences.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// LockedRand is a Random safe for concurrent use.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom returns a LockedRand seeded with seed, or with the current time
// when seed is zero.
func NewRandom(seed int64) *LockedRand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *LockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}
