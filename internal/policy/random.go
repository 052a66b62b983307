package policy

import (
	"fmt"
	"math/rand"
	"sync"
)

// RandomPolicy selects random valid actions
type RandomPolicy struct {
	mu         sync.Mutex
	rng        *rand.Rand
	actionType ActionSpaceType

	// Action space parameters
	discreteN      int
	continuousLow  []float32
	continuousHigh []float32
}

type ActionSpaceType int

const (
	ActionSpaceDiscrete ActionSpaceType = iota
	ActionSpaceContinuous
)

// NewRandomDiscrete creates a random policy over a discrete action space
// with n actions. Actions are emitted as a single-element vector holding
// the chosen action index.
func NewRandomDiscrete(n int, seed int64) (*RandomPolicy, error) {
	if n <= 0 {
		return nil, fmt.Errorf("discrete action space needs at least one action, got %d", n)
	}
	return &RandomPolicy{
		rng:        rand.New(rand.NewSource(seed)),
		actionType: ActionSpaceDiscrete,
		discreteN:  n,
	}, nil
}

// NewRandomContinuous creates a random policy over a box action space with
// per-dimension [low, high] bounds.
func NewRandomContinuous(low, high []float32, seed int64) (*RandomPolicy, error) {
	if len(low) == 0 || len(low) != len(high) {
		return nil, fmt.Errorf("continuous action space bounds mismatch: %d low vs %d high", len(low), len(high))
	}
	for i := range low {
		if low[i] > high[i] {
			return nil, fmt.Errorf("continuous bound %d inverted: %f > %f", i, low[i], high[i])
		}
	}
	return &RandomPolicy{
		rng:            rand.New(rand.NewSource(seed)),
		actionType:     ActionSpaceContinuous,
		continuousLow:  low,
		continuousHigh: high,
	}, nil
}

// SelectAction implements Policy interface
func (p *RandomPolicy) SelectAction(state []float32) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.actionType {
	case ActionSpaceDiscrete:
		return []float32{float32(p.rng.Intn(p.discreteN))}, nil
	case ActionSpaceContinuous:
		action := make([]float32, len(p.continuousLow))
		for i := range action {
			low := p.continuousLow[i]
			high := p.continuousHigh[i]
			action[i] = low + p.rng.Float32()*(high-low)
		}
		return action, nil
	default:
		return nil, fmt.Errorf("unknown action space type %d", p.actionType)
	}
}
