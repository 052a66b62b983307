package replay

import (
	"math/rand"
	"sync"
)

// occupancy is the balancer's view of segment fill. Reads are best-effort:
// a length observed here may already be stale when the caller acts on it,
// because the subsequent append happens under a different lock
// acquisition. That staleness is the documented trade for never taking a
// global lock on the selection path.
type occupancy interface {
	segmentLen(index int) (n int, written bool)
}

// balancer picks the segment that receives a worker's next sample. In
// deterministic mode worker p always writes to segment p. In probabilistic
// mode segments are chosen with probability proportional to 1/(len+1), so
// emptier segments fill faster; a worker whose own segment has never been
// written claims its own index with full weight, which bootstraps every
// segment before weighted selection takes over.
type balancer struct {
	random bool
	n      int

	mu      sync.Mutex
	weights []float64 // 0 means never written, untouched by selection
	rng     *rand.Rand
}

func newBalancer(n int, random bool, seed int64) *balancer {
	return &balancer{
		random:  random,
		n:       n,
		weights: make([]float64, n),
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// next returns the target segment index for worker p.
func (b *balancer) next(p int, view occupancy) int {
	if !b.random {
		return p
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, written := view.segmentLen(p); !written {
		b.weights[p] = 1
		return p
	}

	index := p
	total := 0.0
	for _, w := range b.weights {
		total += w
	}
	if total > 0 {
		target := b.rng.Float64() * total
		sum := 0.0
		for j, w := range b.weights {
			if w == 0 {
				continue
			}
			sum += w
			if sum >= target {
				index = j
				break
			}
		}
	}

	// Refresh the chosen segment's weight so the next selection sees the
	// just-written occupancy.
	n, _ := view.segmentLen(index)
	b.weights[index] = 1 / float64(n+1)
	return index
}
