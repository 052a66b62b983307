package replay

// evictionPolicy bounds a segment after each append. Two truncations run
// in order: periodic clearing every clearingFreq appends, then a single
// capacity check against the per-segment soft cap. Both drop the oldest
// entries first and keep all five fields in lock-step.
type evictionPolicy struct {
	softCap      int // ceil(poolSize / processes)
	windowSize   int // entries dropped on capacity overflow; 0 drops exactly one
	clearingFreq int // appends between periodic clears; 0 disables clearing
	clearWindow  int // entries dropped on each periodic clear
}

// apply runs both truncations on seg and returns the number of entries
// dropped. The capacity check runs once per append, never in a loop, so a
// burst can leave a segment over the soft cap by up to windowSize-1
// entries until later appends drain it.
func (e evictionPolicy) apply(seg *segment) int {
	dropped := 0
	if e.clearingFreq > 0 && seg.appends%uint64(e.clearingFreq) == 0 {
		dropped += seg.dropOldest(e.clearWindow)
	}
	if seg.len() > e.softCap {
		if e.windowSize > 0 {
			dropped += seg.dropOldest(e.windowSize)
		} else {
			dropped += seg.dropOldest(1)
		}
	}
	return dropped
}
