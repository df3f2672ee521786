package jitter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDepth is returned by New when depth is not positive.
	ErrInvalidDepth = errors.New("jitter: depth must be positive")
	// ErrInvalidInterval is returned by New when interval is not positive.
	ErrInvalidInterval = errors.New("jitter: interval must be positive")
	// ErrSlotLost is returned by Next when no eligible entry showed up in time.
	ErrSlotLost = errors.New("jitter: slot lost")
	// ErrWaitTimeout is returned by Queue.Wait when the wait deadline passes.
	ErrWaitTimeout = errors.New("jitter: wait timeout")
)

// Verdict is the outcome of an offer.
type Verdict uint8

const (
	Accepted Verdict = iota
	// RejectedStale: sequence is behind the dequeue cursor.
	RejectedStale
	// RejectedDuplicate: sequence is already buffered.
	RejectedDuplicate
	// RejectedOverflow: buffer is at capacity.
	RejectedOverflow
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedStale:
		return "stale"
	case RejectedDuplicate:
		return "duplicate"
	case RejectedOverflow:
		return "overflow"
	}
	return fmt.Sprintf("verdict(%d)", uint8(v))
}

// Stats are cumulative counters for the life of a Buffer.
type Stats struct {
	Accepted  uint64
	Stale     uint64
	Duplicate uint64
	Overflow  uint64
	Late      uint64 // accepted with a deadline already in the past
	Released  uint64
	Lost      uint64
	Cancelled uint64
	Resets    uint64

	Buffered  int
	Cursor    uint64
	AnchorSeq uint64
	Awaiting  bool
}

func (s *Stats) count(v Verdict) {
	switch v {
	case Accepted:
		s.Accepted++
	case RejectedStale:
		s.Stale++
	case RejectedDuplicate:
		s.Duplicate++
	case RejectedOverflow:
		s.Overflow++
	}
}
