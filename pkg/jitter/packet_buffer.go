package jitter

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/rtp"
)

// PacketBuffer is a Buffer for one RTP stream. A packet from a new SSRC
// resets the buffer and starts a new epoch.
type PacketBuffer struct {
	mu sync.Mutex

	buffer *Buffer[*rtp.Packet]
	seqs   SequenceUnwrapper
	ssrc   uint32
	marked bool
}

func NewPacketBuffer(factory *Factory[*rtp.Packet], opts ...Option) *PacketBuffer {
	return &PacketBuffer{
		buffer: factory.CreateBuffer(opts...),
	}
}

func (p *PacketBuffer) init(packet *rtp.Packet) {
	if p.marked {
		p.buffer.Reset()
		p.seqs.Reset()
	}
	p.ssrc = packet.SSRC
	p.marked = true
}

// Put offers packet, keyed by its extended sequence number.
func (p *PacketBuffer) Put(packet *rtp.Packet) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.marked || p.ssrc != packet.SSRC {
		p.init(packet)
	}

	return p.buffer.Offer(packet, p.seqs.Unwrap(packet.SequenceNumber))
}

// PutRaw decodes an RTP packet from raw and offers it. raw is copied.
func (p *PacketBuffer) PutRaw(raw []byte) (bool, error) {
	packet := &rtp.Packet{}
	if err := packet.Unmarshal(append([]byte(nil), raw...)); err != nil {
		return false, fmt.Errorf("jitter: unmarshal rtp: %w", err)
	}
	return p.Put(packet), nil
}

// Get returns the next packet in sequence order, or false if its slot was lost.
func (p *PacketBuffer) Get(ctx context.Context) (*rtp.Packet, bool) {
	return p.buffer.Poll(ctx)
}

func (p *PacketBuffer) Buffer() *Buffer[*rtp.Packet] {
	return p.buffer
}

func (p *PacketBuffer) SSRC() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ssrc
}

// LastSequence returns the highest extended sequence put for the current SSRC.
func (p *PacketBuffer) LastSequence() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.seqs.Highest()
}
