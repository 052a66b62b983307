package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOccupancy is a fixed view of segment fill for balancer tests.
type fakeOccupancy struct {
	lens    []int
	written []bool
}

func (f *fakeOccupancy) segmentLen(index int) (int, bool) {
	return f.lens[index], f.written[index]
}

func TestBalancer_DeterministicMode(t *testing.T) {
	b := newBalancer(4, false, 1)
	view := &fakeOccupancy{lens: []int{5, 0, 3, 1}, written: []bool{true, true, true, true}}

	for p := 0; p < 4; p++ {
		for i := 0; i < 20; i++ {
			assert.Equal(t, p, b.next(p, view))
		}
	}
}

func TestBalancer_BootstrapClaimsOwnSegment(t *testing.T) {
	b := newBalancer(3, true, 1)
	view := &fakeOccupancy{lens: []int{0, 0, 0}, written: []bool{false, false, false}}

	// A worker whose own segment is unwritten always claims its own index
	// with full weight.
	for p := 0; p < 3; p++ {
		assert.Equal(t, p, b.next(p, view))
		assert.Equal(t, 1.0, b.weights[p])
	}
}

func TestBalancer_RefreshesChosenWeight(t *testing.T) {
	b := newBalancer(2, true, 1)
	view := &fakeOccupancy{lens: []int{4, 7}, written: []bool{true, true}}

	index := b.next(0, view)
	require.Contains(t, []int{0, 1}, index)
	assert.Equal(t, 1/float64(view.lens[index]+1), b.weights[index])
}

func TestBalancer_NeverPicksUnwrittenSegment(t *testing.T) {
	b := newBalancer(3, true, 1)
	view := &fakeOccupancy{lens: []int{2, 0, 5}, written: []bool{true, false, true}}

	// Segments 0 and 2 have been bootstrapped; 1 has not, its weight is
	// zero and selection must skip it.
	b.weights[0] = 1.0 / 3
	b.weights[2] = 1.0 / 6

	for i := 0; i < 500; i++ {
		index := b.next(0, view)
		assert.NotEqual(t, 1, index)
	}
}

func TestBalancer_FavorsEmptierSegments(t *testing.T) {
	b := newBalancer(3, true, 42)
	view := &fakeOccupancy{lens: []int{0, 4, 9}, written: []bool{true, true, true}}

	// Prime weights through the refresh path.
	b.weights[0] = 1.0 / 1
	b.weights[1] = 1.0 / 5
	b.weights[2] = 1.0 / 10

	iterations := 10000
	counts := make([]int, 3)
	for i := 0; i < iterations; i++ {
		counts[b.next(0, view)]++
	}

	// Empirical frequencies follow the 1/(len+1) weighting: emptier
	// segments are selected more often.
	assert.Greater(t, counts[0], counts[1])
	assert.Greater(t, counts[1], counts[2])

	total := 1.0 + 1.0/5 + 1.0/10
	tolerance := float64(iterations) * 0.05
	expected := []float64{1.0 / total, (1.0 / 5) / total, (1.0 / 10) / total}
	for i := range counts {
		assert.InDeltaf(t, expected[i]*float64(iterations), float64(counts[i]), tolerance,
			"unexpected selection frequency for segment %d", i)
	}
}
