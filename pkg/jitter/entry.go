package jitter

import "time"

// entry is a buffered value with its sequence number and release deadline.
// The deadline only gates eligibility; ordering is by sequence.
type entry[T any] struct {
	value    T
	sequence uint64
	deadline time.Time
}

func newEntry[T any](value T, sequence uint64, deadline time.Time) *entry[T] {
	return &entry[T]{value: value, sequence: sequence, deadline: deadline}
}

func (e *entry[T]) eligible(now time.Time) bool {
	return !now.Before(e.deadline)
}

// remaining is the time left until the entry becomes eligible, never negative.
func (e *entry[T]) remaining(now time.Time) time.Duration {
	if d := e.deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// deadlineOf computes anchorTime + interval*(seq+depth-anchorSeq).
// seq is never below anchorSeq inside an epoch because the cursor starts at
// anchorSeq and only moves forward.
func deadlineOf(anchorTime time.Time, anchorSeq, seq uint64, depth int, interval time.Duration) time.Time {
	slots := int64(seq-anchorSeq) + int64(depth)
	return anchorTime.Add(time.Duration(slots) * interval)
}
