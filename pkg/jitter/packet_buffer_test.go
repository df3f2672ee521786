package jitter

import (
	"context"
	"testing"
	"time"

	"github.com/huandu/go-assert"
	"github.com/pion/rtp"
)

func newTestPacketBuffer(t *testing.T) *PacketBuffer {
	t.Helper()

	factory, err := NewFactory[*rtp.Packet](Config{Depth: 2, Interval: 5 * time.Millisecond})
	assert.Equal(t, err, nil)
	return NewPacketBuffer(factory)
}

func rtpPacket(ssrc uint32, seq uint16, payload byte) *rtp.Packet {
	return &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    111,
			SequenceNumber: seq,
			Timestamp:      uint32(seq) * 960,
			SSRC:           ssrc,
		},
		Payload: []byte{payload},
	}
}

func TestOverflow(t *testing.T) {
	packetBuffer := newTestPacketBuffer(t)

	assert.Assert(t, packetBuffer.Put(rtpPacket(1, 1<<16-1, 1)))
	first := packetBuffer.LastSequence()

	assert.Assert(t, packetBuffer.Put(rtpPacket(1, 0, 2)))
	assert.Equal(t, packetBuffer.LastSequence(), first+1)

	assert.Assert(t, packetBuffer.Put(rtpPacket(1, 1, 3)))
	assert.Equal(t, packetBuffer.LastSequence(), first+2)

	var got []byte
	for i := 0; i < 3; i++ {
		p, ok := packetBuffer.Get(context.Background())
		assert.Assert(t, ok)
		got = append(got, p.Payload[0])
	}
	assert.Equal(t, got, []byte{1, 2, 3})
}

func TestPacketBuffer_reorder(t *testing.T) {
	packetBuffer := newTestPacketBuffer(t)

	assert.Assert(t, packetBuffer.Put(rtpPacket(7, 100, 1)))
	assert.Assert(t, packetBuffer.Put(rtpPacket(7, 102, 3)))
	assert.Assert(t, packetBuffer.Put(rtpPacket(7, 101, 2)))
	assert.Equal(t, packetBuffer.Put(rtpPacket(7, 101, 2)), false)

	for _, want := range []uint16{100, 101, 102} {
		p, ok := packetBuffer.Get(context.Background())
		assert.Assert(t, ok)
		assert.Equal(t, p.SequenceNumber, want)
	}
}

func TestPacketBuffer_ssrcChange(t *testing.T) {
	l := &recordingListener{}
	factory, err := NewFactory[*rtp.Packet](Config{Depth: 2, Interval: 5 * time.Millisecond})
	assert.Equal(t, err, nil)
	packetBuffer := NewPacketBuffer(factory, WithListener(l))

	assert.Assert(t, packetBuffer.Put(rtpPacket(1, 500, 1)))
	assert.Assert(t, packetBuffer.Put(rtpPacket(1, 501, 2)))
	assert.Equal(t, packetBuffer.Buffer().Len(), 2)

	// the first stream needs no reset
	assert.Equal(t, packetBuffer.Buffer().Stats().Resets, uint64(0))
	assert.Equal(t, l.resets, 0)

	// a new stream starts over with its own numbering
	assert.Assert(t, packetBuffer.Put(rtpPacket(2, 9, 9)))
	assert.Equal(t, packetBuffer.SSRC(), uint32(2))
	assert.Equal(t, packetBuffer.Buffer().Len(), 1)
	assert.Equal(t, packetBuffer.Buffer().Stats().Resets, uint64(1))
	assert.Equal(t, l.resets, 1)
	assert.Equal(t, packetBuffer.LastSequence(), uint64(1<<16+9))

	p, ok := packetBuffer.Get(context.Background())
	assert.Assert(t, ok)
	assert.Equal(t, p.SSRC, uint32(2))
	assert.Equal(t, p.Payload, []byte{9})
}

func TestPacketBuffer_putRaw(t *testing.T) {
	packetBuffer := newTestPacketBuffer(t)

	raw, err := rtpPacket(3, 42, 7).Marshal()
	assert.Equal(t, err, nil)

	ok, err := packetBuffer.PutRaw(raw)
	assert.Equal(t, err, nil)
	assert.Assert(t, ok)

	// the buffer keeps its own copy
	raw[len(raw)-1] = 0

	p, ok := packetBuffer.Get(context.Background())
	assert.Assert(t, ok)
	assert.Equal(t, p.SequenceNumber, uint16(42))
	assert.Equal(t, p.Payload, []byte{7})

	_, err = packetBuffer.PutRaw([]byte{0x80})
	assert.NotEqual(t, err, nil)
}
