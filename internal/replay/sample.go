// Package replay implements a bounded experience-replay pool that is
// written concurrently by parallel rollout workers. The pool is split into
// one segment per worker, each guarded by its own lock, so writers to
// different segments never contend. A load balancer decides which segment
// receives the next sample, and an eviction policy keeps every segment
// near its soft capacity.
package replay

// Sample is a single environment transition. Samples are immutable once
// created; the pool stores the field slices as-is and never mutates them.
type Sample struct {
	State     []float32
	Action    []float32
	NextState []float32
	Reward    float32
	Done      bool
}
