// Package sim runs a simulated lossy, reordering RTP stream through a
// jitter.PacketBuffer and reports what a single consumer received.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pion/rtp"
	"github.com/samber/lo"

	"github.com/channel-io/go-seqjitter/pkg/jitter"
)

type Options struct {
	Buffer jitter.Config

	Count    int           // packets produced, one per interval
	MaxDelay time.Duration // network delay is uniform in [0, MaxDelay]
	Loss     float64       // probability a packet is never delivered
	Dup      float64       // probability a packet is delivered twice
	FirstSeq uint16
	SSRC     uint32
	Seed     int64

	Logger *slog.Logger
}

type Report struct {
	Sent       int
	Dropped    int // never delivered by the network
	Duplicated int // extra copies delivered
	MaxDelay   time.Duration

	Released int
	Lost     int
	InOrder  bool
	LastSeq  uint64 // highest extended sequence put into the buffer

	Stats jitter.Stats
}

func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sent=%d dropped=%d duplicated=%d max-delay=%s\n", r.Sent, r.Dropped, r.Duplicated, r.MaxDelay)
	fmt.Fprintf(&sb, "released=%d lost=%d in-order=%t last-seq=%d\n", r.Released, r.Lost, r.InOrder, r.LastSeq)
	fmt.Fprintf(&sb, "rejected: stale=%d duplicate=%d overflow=%d late=%d",
		r.Stats.Stale, r.Stats.Duplicate, r.Stats.Overflow, r.Stats.Late)
	return sb.String()
}

type delivery struct {
	at  time.Duration
	raw []byte
}

func (o Options) plan(rng *rand.Rand, report *Report) ([]delivery, error) {
	var (
		out    []delivery
		delays []time.Duration
	)

	for i := 0; i < o.Count; i++ {
		report.Sent++
		if rng.Float64() < o.Loss {
			report.Dropped++
			continue
		}

		packet := &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				PayloadType:    111,
				SequenceNumber: o.FirstSeq + uint16(i),
				Timestamp:      uint32(i) * 960,
				SSRC:           o.SSRC,
			},
			Payload: []byte{byte(i)},
		}
		raw, err := packet.Marshal()
		if err != nil {
			return nil, fmt.Errorf("sim: marshal packet %d: %w", i, err)
		}

		copies := 1
		if rng.Float64() < o.Dup {
			copies = 2
			report.Duplicated++
		}
		for c := 0; c < copies; c++ {
			var delay time.Duration
			if o.MaxDelay > 0 {
				delay = time.Duration(rng.Int63n(int64(o.MaxDelay) + 1))
			}
			delays = append(delays, delay)
			out = append(out, delivery{
				at:  time.Duration(i)*o.Buffer.Interval + delay,
				raw: raw,
			})
		}
	}

	if len(delays) > 0 {
		report.MaxDelay = lo.Max(delays)
	}
	return out, nil
}

// Run plays the stream in real time and drains the buffer for Count slots.
// It returns early with ctx.Err() when ctx is done.
func Run(ctx context.Context, o Options) (Report, error) {
	report := Report{InOrder: true}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	factory, err := jitter.NewFactory[*rtp.Packet](o.Buffer, jitter.WithLogger(o.Logger))
	if err != nil {
		return report, err
	}
	buffer := jitter.NewPacketBuffer(factory)

	deliveries, err := o.plan(rand.New(rand.NewSource(o.Seed)), &report)
	if err != nil {
		return report, err
	}

	var (
		wg      sync.WaitGroup
		once    sync.Once
		arrived = make(chan struct{})
		timers  = make([]*time.Timer, 0, len(deliveries))
	)
	if len(deliveries) == 0 {
		close(arrived)
	}
	for _, d := range deliveries {
		raw := d.raw
		wg.Add(1)
		timers = append(timers, time.AfterFunc(d.at, func() {
			defer wg.Done()
			if _, err := buffer.PutRaw(raw); err != nil {
				o.Logger.Warn("sim: put packet", "error", err)
			}
			once.Do(func() { close(arrived) })
		}))
	}
	defer func() {
		for _, t := range timers {
			if t.Stop() {
				wg.Done()
			}
		}
		wg.Wait()
	}()

	// the playback clock starts with the first packet
	select {
	case <-arrived:
	case <-ctx.Done():
		return report, ctx.Err()
	}

	var seqs jitter.SequenceUnwrapper
	last := uint64(0)
	for slot := 0; slot < o.Count; slot++ {
		packet, ok := buffer.Get(ctx)
		if err := ctx.Err(); err != nil {
			report.Stats = buffer.Buffer().Stats()
			report.LastSeq = buffer.LastSequence()
			return report, err
		}
		if !ok {
			report.Lost++
			continue
		}

		report.Released++
		seq := seqs.Unwrap(packet.SequenceNumber)
		if report.Released > 1 && seq <= last {
			report.InOrder = false
			o.Logger.Warn("sim: out of order release", "sequence", packet.SequenceNumber)
		}
		last = seq
	}

	report.Stats = buffer.Buffer().Stats()
	report.LastSeq = buffer.LastSequence()
	return report, nil
}
