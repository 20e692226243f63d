// Package transfertest provides test-only transport fakes for exercising
// transfer.Engine retry and timeout logic without real sockets or real
// wall-clock sleeps.
package transfertest

import (
	"io"
	"math/rand"
	"time"
)

// LossyChannel wraps an upstream io.ReadWriteCloser, holding writes until a
// virtual clock (advanced explicitly by the test via Advance) reaches each
// write's scheduled send time, and dropping a configurable fraction of
// writes entirely to exercise an engine's retransmission path.
//
// Adapted from the predecessor's RingDelayer, which used a background
// goroutine, a condition variable, and real time.Sleep to delay writes by a
// fixed duration for interactive predictive-echo testing. That shape is
// kept (an upstream wrapper that holds writes until a send time arrives),
// but the delivery mechanism is replaced with an explicit virtual clock
// tests advance synchronously, and a packet-loss probability is added,
// since deterministic, goroutine-free tests are what a protocol-retry test
// suite needs.
type LossyChannel struct {
	upstream io.ReadWriteCloser
	delay    time.Duration
	lossProb float64
	rng      *rand.Rand

	now     time.Time
	pending []scheduledWrite
}

type scheduledWrite struct {
	sendAt time.Time
	data   []byte
	drop   bool
}

// NewLossyChannel returns a LossyChannel delaying every write by delay and
// dropping writes with probability lossProb (0.0-1.0), seeded for
// reproducible test runs.
func NewLossyChannel(upstream io.ReadWriteCloser, delay time.Duration, lossProb float64, seed int64) *LossyChannel {
	return &LossyChannel{
		upstream: upstream,
		delay:    delay,
		lossProb: lossProb,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Read passes straight through to upstream: only writes are delayed/dropped.
func (l *LossyChannel) Read(p []byte) (int, error) {
	return l.upstream.Read(p)
}

// Write schedules p for delivery at now+delay (as tracked by Advance),
// possibly marking it for drop. It never blocks.
func (l *LossyChannel) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	drop := l.rng.Float64() < l.lossProb
	l.pending = append(l.pending, scheduledWrite{
		sendAt: l.now.Add(l.delay),
		data:   buf,
		drop:   drop,
	})
	return len(p), nil
}

// Advance moves the virtual clock forward by d, flushing to upstream any
// pending writes whose scheduled send time has arrived (dropped writes are
// discarded silently, as a real lossy link would).
func (l *LossyChannel) Advance(d time.Duration) error {
	l.now = l.now.Add(d)
	remaining := l.pending[:0]
	for _, w := range l.pending {
		if w.sendAt.After(l.now) {
			remaining = append(remaining, w)
			continue
		}
		if w.drop {
			continue
		}
		if _, err := l.upstream.Write(w.data); err != nil {
			return err
		}
	}
	l.pending = remaining
	return nil
}

// Pending reports how many writes are still in flight (used by tests to
// assert a retry actually produced a second write).
func (l *LossyChannel) Pending() int { return len(l.pending) }

func (l *LossyChannel) Close() error { return l.upstream.Close() }
