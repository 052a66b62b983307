package replay

// segment is one worker's private slice of the pool: five parallel
// sequences kept at equal length at all times. A segment that has never
// been written (set == false) is distinct from one emptied by eviction;
// the load balancer needs the difference to bootstrap itself.
type segment struct {
	states     [][]float32
	actions    [][]float32
	nextStates [][]float32
	rewards    []float32
	dones      []bool

	set     bool
	appends uint64 // total appends since creation, drives periodic clearing
	evicted uint64
}

func (s *segment) len() int {
	return len(s.rewards)
}

// append adds one sample at the tail of every field. All five fields move
// together, so partial application is impossible. The first append
// transitions the segment out of the unset state.
func (s *segment) append(sample Sample) {
	if !s.set {
		s.states = [][]float32{sample.State}
		s.actions = [][]float32{sample.Action}
		s.nextStates = [][]float32{sample.NextState}
		s.rewards = []float32{sample.Reward}
		s.dones = []bool{sample.Done}
		s.set = true
	} else {
		s.states = append(s.states, sample.State)
		s.actions = append(s.actions, sample.Action)
		s.nextStates = append(s.nextStates, sample.NextState)
		s.rewards = append(s.rewards, sample.Reward)
		s.dones = append(s.dones, sample.Done)
	}
	s.appends++
}

// dropOldest removes the n oldest entries from every field, clamped to the
// current length. Dropping more entries than exist empties the segment but
// does not re-enter the unset state.
func (s *segment) dropOldest(n int) int {
	if n > s.len() {
		n = s.len()
	}
	if n <= 0 {
		return 0
	}
	s.states = s.states[n:]
	s.actions = s.actions[n:]
	s.nextStates = s.nextStates[n:]
	s.rewards = s.rewards[n:]
	s.dones = s.dones[n:]
	return n
}

// consistent reports whether every field holds the same number of entries.
func (s *segment) consistent() bool {
	n := len(s.rewards)
	return len(s.states) == n && len(s.actions) == n &&
		len(s.nextStates) == n && len(s.dones) == n
}
