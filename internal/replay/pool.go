package replay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrSegmentUnset is returned by GetPool when a segment has never been
// written; aggregating an unset segment is a precondition violation.
var ErrSegmentUnset = errors.New("segment has never been written")

// Options configure a Pool.
type Options struct {
	// Processes is the number of rollout workers, and therefore segments.
	Processes int

	// PoolSize is the soft total capacity across all segments; each
	// segment's soft cap is ceil(PoolSize/Processes).
	PoolSize int

	// WindowSize is the number of oldest entries dropped when a segment
	// exceeds its soft cap. Zero drops exactly one entry.
	WindowSize int

	// ClearingFreq, when positive, drops ClearWindow oldest entries from a
	// segment every ClearingFreq appends, independent of capacity.
	ClearingFreq int
	ClearWindow  int

	// Random selects probabilistic inverse-occupancy load balancing;
	// false pins worker p to segment p.
	Random bool

	// Seed seeds the balancer's rng. Zero seeds from the clock.
	Seed int64

	// Logger receives eviction events at debug level. Nil disables logging.
	Logger *zerolog.Logger
}

// Pool is a bounded experience-replay buffer written concurrently by
// parallel rollout workers. Each worker-indexed segment has its own lock;
// at most one writer mutates a segment at any instant, while stores to
// different segments proceed fully in parallel.
type Pool struct {
	processes int
	eviction  evictionPolicy
	balancer  *balancer

	slots  []slot
	logger zerolog.Logger
}

// slot pairs a segment with its lock. The mutex guards every field of the
// embedded segment.
type slot struct {
	mu sync.Mutex
	segment
}

// Flat is the pool's contents concatenated across segments in
// worker-index order, one flat sequence per sample field.
type Flat struct {
	States     [][]float32
	Actions    [][]float32
	NextStates [][]float32
	Rewards    []float32
	Dones      []bool
}

// Stats describes pool occupancy at a point in time.
type Stats struct {
	SegmentLens  []int
	TotalSamples int
	TotalAppends uint64
	TotalEvicted uint64
}

// New validates opts and creates an empty pool. Every segment starts
// unset; segments persist for the pool's lifetime and are only ever
// truncated, never destroyed.
func New(opts Options) (*Pool, error) {
	if opts.Processes <= 0 {
		return nil, fmt.Errorf("processes must be positive, got %d", opts.Processes)
	}
	if opts.PoolSize <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", opts.PoolSize)
	}
	if opts.WindowSize < 0 {
		return nil, fmt.Errorf("window size must not be negative, got %d", opts.WindowSize)
	}
	if opts.ClearingFreq < 0 {
		return nil, fmt.Errorf("clearing frequency must not be negative, got %d", opts.ClearingFreq)
	}
	if opts.ClearingFreq > 0 && opts.ClearWindow <= 0 {
		return nil, fmt.Errorf("periodic clearing requires a positive clear window, got %d", opts.ClearWindow)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "replay_pool").Logger()
	}

	softCap := (opts.PoolSize + opts.Processes - 1) / opts.Processes

	return &Pool{
		processes: opts.Processes,
		eviction: evictionPolicy{
			softCap:      softCap,
			windowSize:   opts.WindowSize,
			clearingFreq: opts.ClearingFreq,
			clearWindow:  opts.ClearWindow,
		},
		balancer: newBalancer(opts.Processes, opts.Random, seed),
		slots:    make([]slot, opts.Processes),
		logger:   logger,
	}, nil
}

// Processes returns the number of segments.
func (p *Pool) Processes() int {
	return p.processes
}

// SoftCap returns the per-segment soft capacity.
func (p *Pool) SoftCap() int {
	return p.eviction.softCap
}

// NextIndex returns the segment that should receive worker's next sample,
// per the configured load-balancing mode.
func (p *Pool) NextIndex(worker int) (int, error) {
	if worker < 0 || worker >= p.processes {
		return 0, fmt.Errorf("worker index %d out of range [0, %d)", worker, p.processes)
	}
	return p.balancer.next(worker, p), nil
}

// segmentLen implements occupancy. The lock is held only for the read, so
// the returned length is a snapshot that may be stale by the time the
// balancer acts on it.
func (p *Pool) segmentLen(index int) (int, bool) {
	s := &p.slots[index]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.len(), s.set
}

// Store appends sample to the segment at index and applies the eviction
// policy, all under that segment's lock.
func (p *Pool) Store(sample Sample, index int) error {
	if index < 0 || index >= p.processes {
		return fmt.Errorf("segment index %d out of range [0, %d)", index, p.processes)
	}

	s := &p.slots[index]
	s.mu.Lock()
	defer s.mu.Unlock()

	s.append(sample)
	if dropped := p.eviction.apply(&s.segment); dropped > 0 {
		s.evicted += uint64(dropped)
		p.logger.Debug().
			Int("segment", index).
			Int("dropped", dropped).
			Int("len", s.len()).
			Msg("evicted oldest samples")
	}
	return nil
}

// GetPool snapshots the pool into five flat sequences, concatenating the
// segments in worker-index order. It fails with ErrSegmentUnset if any
// segment has never been written. Appends may continue after aggregation;
// the snapshot is unaffected.
func (p *Pool) GetPool() (Flat, error) {
	var flat Flat
	for i := range p.slots {
		s := &p.slots[i]
		s.mu.Lock()
		if !s.set {
			s.mu.Unlock()
			return Flat{}, fmt.Errorf("segment %d: %w", i, ErrSegmentUnset)
		}
		if !s.consistent() {
			s.mu.Unlock()
			return Flat{}, fmt.Errorf("segment %d has mismatched field lengths", i)
		}
		flat.States = append(flat.States, s.states...)
		flat.Actions = append(flat.Actions, s.actions...)
		flat.NextStates = append(flat.NextStates, s.nextStates...)
		flat.Rewards = append(flat.Rewards, s.rewards...)
		flat.Dones = append(flat.Dones, s.dones...)
		s.mu.Unlock()
	}
	return flat, nil
}

// Stats reads every segment under its lock and sums the counters.
func (p *Pool) Stats() Stats {
	stats := Stats{SegmentLens: make([]int, p.processes)}
	for i := range p.slots {
		s := &p.slots[i]
		s.mu.Lock()
		stats.SegmentLens[i] = s.len()
		stats.TotalSamples += s.len()
		stats.TotalAppends += s.appends
		stats.TotalEvicted += s.evicted
		s.mu.Unlock()
	}
	return stats
}
