package jitter

// SequenceUnwrapper extends 16-bit RTP sequence numbers into a 64-bit space
// that does not wrap. Reordered packets from just before a rollover map
// below the highest sequence seen instead of 65536 slots ahead.
type SequenceUnwrapper struct {
	started bool
	highest uint64
}

// Unwrap returns the extended sequence for seq.
func (u *SequenceUnwrapper) Unwrap(seq uint16) uint64 {
	if !u.started {
		u.started = true
		// start one cycle in so packets older than the first one stay positive
		u.highest = 1<<16 + uint64(seq)
		return u.highest
	}

	delta := int16(seq - uint16(u.highest))
	ext := uint64(int64(u.highest) + int64(delta))
	if ext > u.highest {
		u.highest = ext
	}
	return ext
}

// Highest returns the highest extended sequence seen so far.
func (u *SequenceUnwrapper) Highest() uint64 {
	return u.highest
}

func (u *SequenceUnwrapper) Reset() {
	u.started = false
	u.highest = 0
}
