package digits

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"
)

// Source supplies uniform random integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it, which is how tests inject
// deterministic answers.
type Source interface {
	IntN(n int) int
}

// lockedSource makes a *rand.Rand safe for concurrent callers.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSource returns a goroutine-safe ChaCha8 source seeded from crypto/rand.
func NewSource() Source {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return &lockedSource{r: rand.New(rand.NewChaCha8(seed))}
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
