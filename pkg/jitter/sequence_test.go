package jitter

import (
	"testing"

	"github.com/huandu/go-assert"
)

func TestSequenceUnwrapper(t *testing.T) {
	var u SequenceUnwrapper

	first := u.Unwrap(65534)
	assert.Equal(t, u.Unwrap(65535), first+1)
	assert.Equal(t, u.Unwrap(0), first+2)
	assert.Equal(t, u.Unwrap(1), first+3)

	// reordered from before the rollover
	assert.Equal(t, u.Unwrap(65535), first+1)
	assert.Equal(t, u.Highest(), first+3)

	u.Reset()
	assert.Equal(t, u.Highest(), uint64(0))
	assert.Equal(t, u.Unwrap(10), uint64(1<<16+10))
}

func TestSequenceUnwrapper_olderThanFirst(t *testing.T) {
	var u SequenceUnwrapper

	first := u.Unwrap(0)
	assert.Equal(t, u.Unwrap(65535), first-1)
	assert.Equal(t, u.Highest(), first)
}
