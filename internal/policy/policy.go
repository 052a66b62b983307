// Package policy provides action selection strategies for rollout workers
package policy

// Policy interface for action selection
type Policy interface {
	// SelectAction chooses an action given the current state vector.
	// Implementations are shared across all workers and must be safe
	// for concurrent use.
	SelectAction(state []float32) ([]float32, error)
}
