package jitter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Buffer reorders sequence-numbered values and releases them in ascending
// sequence order, one slot per interval, after an initial delay of
// depth*interval. It absorbs arrival jitter up to depth*interval.
//
// Any number of goroutines may call Offer. Poll and Next calls are
// serialized; each call consumes exactly one slot.
type Buffer[T any] struct {
	mu    sync.Mutex
	drain sync.Mutex
	queue *queue[T]

	depth    int
	interval time.Duration
	capacity int

	anchorTime    time.Time
	anchorSeq     uint64
	cursor        uint64
	awaitingFirst bool
	epoch         uint64

	// highest sequence released in the current epoch
	released    uint64
	hasReleased bool

	stats    Stats
	listener Listener
	logger   *slog.Logger
}

// New creates a Buffer with depth slots of slack, releasing one slot every
// interval.
func New[T any](depth int, interval time.Duration, opts ...Option) (*Buffer[T], error) {
	if depth <= 0 {
		return nil, ErrInvalidDepth
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	o := buildOptions(opts)
	b := &Buffer[T]{
		queue:         newQueue[T](bySequence),
		depth:         depth,
		interval:      interval,
		capacity:      o.capacity,
		awaitingFirst: true,
		listener:      o.listener,
		logger:        o.logger,
	}
	return b, nil
}

// MustNew is like New but panics on invalid arguments.
func MustNew[T any](depth int, interval time.Duration, opts ...Option) *Buffer[T] {
	b, err := New[T](depth, interval, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Buffer[T]) Depth() int {
	return b.depth
}

func (b *Buffer[T]) Interval() time.Duration {
	return b.interval
}

// Offer adds value at position seq. It returns false, leaving the buffer
// untouched, if seq is behind the dequeue cursor or already buffered.
// Sequences at or below the last released sequence of the epoch are also
// rejected, even when they are not behind DequeueSequence.
func (b *Buffer[T]) Offer(value T, seq uint64) bool {
	return b.OfferVerdict(value, seq) == Accepted
}

// OfferVerdict is Offer reporting why an offer was rejected.
func (b *Buffer[T]) OfferVerdict(value T, seq uint64) Verdict {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := b.admit(value, seq)
	b.stats.count(v)
	b.listener.OnOffer(seq, v)
	if v != Accepted {
		b.logger.Debug("jitter: reject offer",
			"sequence", seq,
			"reason", v.String(),
			"cursor", b.cursor,
		)
	}
	return v
}

func (b *Buffer[T]) admit(value T, seq uint64) Verdict {
	now := time.Now()

	if b.awaitingFirst {
		b.anchorTime = now
		b.anchorSeq = seq
		b.cursor = seq
		b.awaitingFirst = false
		// a poll already waiting belongs to no epoch and must not move this cursor
		b.epoch++
		b.queue.Push(newEntry(value, seq, b.deadline(seq)))
		return Accepted
	}

	if seq < b.cursor || (b.hasReleased && seq <= b.released) {
		return RejectedStale
	}
	if b.queue.Contains(seq) {
		return RejectedDuplicate
	}
	if b.capacity > 0 && b.queue.Len() >= b.capacity {
		return RejectedOverflow
	}

	e := newEntry(value, seq, b.deadline(seq))
	if e.eligible(now) {
		b.stats.Late++
	}
	b.queue.Push(e)
	return Accepted
}

func (b *Buffer[T]) deadline(seq uint64) time.Time {
	return deadlineOf(b.anchorTime, b.anchorSeq, seq, b.depth, b.interval)
}

// timeout is depth*interval until the first slot of the epoch is consumed,
// interval afterwards.
func (b *Buffer[T]) timeout() time.Duration {
	return lo.Ternary(b.cursor == b.anchorSeq, time.Duration(b.depth)*b.interval, b.interval)
}

// Poll waits for the next slot and returns its value, or false if nothing
// was released in time or ctx was cancelled. The dequeue cursor advances by
// one either way.
func (b *Buffer[T]) Poll(ctx context.Context) (T, bool) {
	v, err := b.Next(ctx)
	return v, err == nil
}

// Next is Poll reporting why a slot came up empty: ErrSlotLost when nothing
// became eligible before the slot timed out, ctx.Err() when the wait was
// cancelled.
func (b *Buffer[T]) Next(ctx context.Context) (T, error) {
	b.drain.Lock()
	defer b.drain.Unlock()

	b.mu.Lock()
	epoch := b.epoch
	until := time.Now().Add(b.timeout())
	b.mu.Unlock()

	for {
		err := b.queue.Wait(ctx, until)

		b.mu.Lock()
		if err == nil {
			e, ok := b.queue.PopEligible(time.Now())
			if !ok {
				// reset emptied the queue after the wait returned
				b.mu.Unlock()
				continue
			}
			b.release(e)
			b.mu.Unlock()
			return e.value, nil
		}

		b.skip(epoch, err)
		b.mu.Unlock()

		var zero T
		if errors.Is(err, ErrWaitTimeout) {
			return zero, ErrSlotLost
		}
		return zero, err
	}
}

func (b *Buffer[T]) release(e *entry[T]) {
	b.cursor++
	b.released = e.sequence
	b.hasReleased = true
	b.stats.Released++
	b.listener.OnRelease(e.sequence, b.cursor)
}

// skip consumes an empty slot. A slot that straddled a Reset or the first
// Offer of an epoch leaves the new cursor alone.
func (b *Buffer[T]) skip(epoch uint64, err error) {
	slot := b.cursor
	if epoch == b.epoch {
		b.cursor++
	}

	if errors.Is(err, ErrWaitTimeout) {
		b.stats.Lost++
		b.listener.OnLoss(slot)
		b.logger.Debug("jitter: slot lost", "cursor", slot)
		return
	}

	b.stats.Cancelled++
	b.logger.Debug("jitter: poll cancelled", "cursor", slot, "error", err)
}

// Reset discards every buffered entry. The next accepted Offer starts a new
// epoch with a fresh anchor and cursor.
func (b *Buffer[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue.Clear()
	b.awaitingFirst = true
	b.hasReleased = false
	b.released = 0
	b.epoch++
	b.stats.Resets++
	b.listener.OnReset()
}

// DequeueSequence returns the dequeue cursor.
func (b *Buffer[T]) DequeueSequence() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cursor
}

// Len returns the number of buffered entries.
func (b *Buffer[T]) Len() int {
	return b.queue.Len()
}

func (b *Buffer[T]) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.stats
	s.Buffered = b.queue.Len()
	s.Cursor = b.cursor
	s.AnchorSeq = b.anchorSeq
	s.Awaiting = b.awaitingFirst
	return s
}
