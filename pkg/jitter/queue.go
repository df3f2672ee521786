package jitter

import (
	"context"
	"sync"
	"time"

	"github.com/huandu/skiplist"
	"github.com/samber/lo"
)

// bySequence orders entries by raw sequence number.
var bySequence skiplist.Comparable = skiplist.Uint64

// queue is a thread-safe container of entries ordered by sequence, holding
// at most one entry per sequence. A waiter can block until the head entry
// reaches its deadline.
type queue[T any] struct {
	sync.Mutex

	list *skiplist.SkipList

	// closed and replaced on every change so waiters re-check the head.
	wake chan struct{}
}

func newQueue[T any](order skiplist.Comparable) *queue[T] {
	return &queue[T]{
		list: skiplist.New(order),
		wake: make(chan struct{}),
	}
}

func (q *queue[T]) broadcast() {
	close(q.wake)
	q.wake = make(chan struct{})
}

func (q *queue[T]) front() *entry[T] {
	el := q.list.Front()
	if el == nil {
		return nil
	}
	return el.Value.(*entry[T])
}

// Push inserts e. It returns false if an entry with the same sequence is
// already present.
func (q *queue[T]) Push(e *entry[T]) bool {
	q.Lock()
	defer q.Unlock()

	if q.list.Get(e.sequence) != nil {
		return false
	}

	q.list.Set(e.sequence, e)
	q.broadcast()
	return true
}

func (q *queue[T]) Contains(seq uint64) bool {
	q.Lock()
	defer q.Unlock()

	return q.list.Get(seq) != nil
}

// PopEligible removes and returns the head entry if its deadline is not after now.
func (q *queue[T]) PopEligible(now time.Time) (*entry[T], bool) {
	q.Lock()
	defer q.Unlock()

	e := q.front()
	if e == nil || !e.eligible(now) {
		return nil, false
	}

	q.list.RemoveFront()
	return e, true
}

func (q *queue[T]) Clear() {
	q.Lock()
	defer q.Unlock()

	q.list.Init()
	q.broadcast()
}

func (q *queue[T]) Len() int {
	q.Lock()
	defer q.Unlock()

	return q.list.Len()
}

// Wait blocks until the head entry is eligible, until passes or ctx is done.
// It returns nil, ErrWaitTimeout or ctx.Err() respectively. An eligible head
// wins over an expired wait.
func (q *queue[T]) Wait(ctx context.Context, until time.Time) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		q.Lock()
		now := time.Now()
		head := q.front()
		if head != nil && head.eligible(now) {
			q.Unlock()
			return nil
		}
		if !now.Before(until) {
			q.Unlock()
			return ErrWaitTimeout
		}

		wait := until.Sub(now)
		if head != nil {
			wait = lo.Min([]time.Duration{wait, head.remaining(now)})
		}
		wake := q.wake
		q.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-wake:
		case <-timer.C:
		}
		timer.Stop()
	}
}
