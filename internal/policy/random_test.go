package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomDiscrete_ActionInRange(t *testing.T) {
	pol, err := NewRandomDiscrete(9, 1)
	require.NoError(t, err)

	state := make([]float32, 4)
	for i := 0; i < 100; i++ {
		action, err := pol.SelectAction(state)
		require.NoError(t, err)
		require.Len(t, action, 1)

		assert.GreaterOrEqual(t, action[0], float32(0))
		assert.Less(t, action[0], float32(9))
		assert.Equal(t, action[0], float32(int(action[0])), "discrete action must be integral")
	}
}

func TestRandomDiscrete_MultipleSelections(t *testing.T) {
	pol, err := NewRandomDiscrete(9, 1)
	require.NoError(t, err)

	state := make([]float32, 4)
	actionSet := make(map[float32]bool)
	for i := 0; i < 100; i++ {
		action, err := pol.SelectAction(state)
		require.NoError(t, err)
		actionSet[action[0]] = true
	}

	// Should have at least 2 different actions (highly probable).
	assert.GreaterOrEqual(t, len(actionSet), 2)
}

func TestRandomContinuous_ActionWithinBounds(t *testing.T) {
	low := []float32{-1.0, -2.0}
	high := []float32{1.0, 2.0}
	pol, err := NewRandomContinuous(low, high, 1)
	require.NoError(t, err)

	state := make([]float32, 4)
	for i := 0; i < 100; i++ {
		action, err := pol.SelectAction(state)
		require.NoError(t, err)
		require.Len(t, action, 2)
		for d := range action {
			assert.GreaterOrEqual(t, action[d], low[d])
			assert.LessOrEqual(t, action[d], high[d])
		}
	}
}

func TestRandom_InvalidActionSpaces(t *testing.T) {
	_, err := NewRandomDiscrete(0, 1)
	assert.Error(t, err)

	_, err = NewRandomContinuous(nil, nil, 1)
	assert.Error(t, err)

	_, err = NewRandomContinuous([]float32{0, 0}, []float32{1}, 1)
	assert.Error(t, err)

	_, err = NewRandomContinuous([]float32{2}, []float32{1}, 1)
	assert.Error(t, err)
}
