package jitter

import (
	"errors"
	"testing"
	"time"

	"github.com/huandu/go-assert"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("depth: 10\ninterval: 30ms\ncapacity: 256\n"))
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg, Config{Depth: 10, Interval: 30 * time.Millisecond, Capacity: 256})
	assert.Equal(t, cfg.Latency(), 300*time.Millisecond)
}

func TestParseConfig_defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("interval: 40ms\n"))
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.Depth, DefaultConfig().Depth)
	assert.Equal(t, cfg.Interval, 40*time.Millisecond)
	assert.Equal(t, cfg.Capacity, 0)
}

func TestParseConfig_invalid(t *testing.T) {
	_, err := ParseConfig([]byte("depth: -2\n"))
	assert.Assert(t, errors.Is(err, ErrInvalidDepth))

	_, err = ParseConfig([]byte("interval: -5ms\n"))
	assert.Assert(t, errors.Is(err, ErrInvalidInterval))

	_, err = ParseConfig([]byte("interval: soon\n"))
	assert.NotEqual(t, err, nil)

	_, err = ParseConfig([]byte("depth: [1, 2\n"))
	assert.NotEqual(t, err, nil)
}

func TestFactory(t *testing.T) {
	_, err := NewFactory[int](Config{Depth: 0, Interval: time.Millisecond})
	assert.Assert(t, errors.Is(err, ErrInvalidDepth))

	f, err := NewFactory[int](Config{Depth: 4, Interval: 10 * time.Millisecond, Capacity: 1})
	assert.Equal(t, err, nil)

	b1 := f.CreateBuffer()
	b2 := f.CreateBuffer()
	assert.Equal(t, b1.Depth(), 4)
	assert.Equal(t, b1.Interval(), 10*time.Millisecond)

	assert.Assert(t, b1.Offer(1, 1))
	assert.Equal(t, b1.OfferVerdict(2, 2), RejectedOverflow)

	// buffers are independent
	assert.Assert(t, b2.Offer(1, 100))
	assert.Equal(t, b1.DequeueSequence(), uint64(1))
	assert.Equal(t, b2.DequeueSequence(), uint64(100))
}
