// Package transfer implements the file-transfer protocol engines the
// dispatcher can route a connection's byte stream through: ZMODEM, Kermit,
// XMODEM/YMODEM, and plain ASCII. Every engine is driven the same way —
// OnBytes pumped by the caller — so none of them ever block waiting on I/O;
// all protocol timing is measured by the caller against wall-clock ticks and
// handed to the engine as an elapsed duration.
package transfer

import "time"

// Status reports an Engine's progress after an OnBytes call.
type Status int

const (
	// StatusRunning means the engine consumed what it could and may have
	// more to send; the caller should flush Outbound and call again.
	StatusRunning Status = iota
	// StatusComplete means the transfer (or batch) finished successfully.
	StatusComplete
	// StatusFailed means the transfer aborted.
	StatusFailed
	// StatusAwaitingTimeout means the engine is waiting on a protocol
	// timer (an ACK, a retry window) rather than on more inbound bytes.
	StatusAwaitingTimeout
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	case StatusAwaitingTimeout:
		return "awaiting-timeout"
	default:
		return "unknown"
	}
}

// Direction distinguishes which side of a transfer this engine instance
// plays: receiving into local storage, or sending from it.
type Direction int

const (
	DirectionReceive Direction = iota
	DirectionSend
)

// FileSource supplies files to a sending engine and accepts files offered by
// a receiving engine, mirroring the callback shape most transfer protocol
// implementations use so the protocol code never touches the filesystem
// directly.
type FileSource interface {
	// NextUpload returns the next file to send, or ok=false when the batch
	// is exhausted.
	NextUpload() (name string, size int64, modTime time.Time, data ReadSeekCloser, ok bool)
	// AcceptDownload is asked whether to accept an incoming file and at
	// what offset to resume (0 for a fresh transfer). Returning accept=false
	// skips the file without failing the whole batch.
	AcceptDownload(name string, size int64, modTime time.Time) (dest WriteCloserAt, resumeOffset int64, accept bool)
	// Progress reports bytes transferred so far for the file currently in
	// flight; Complete marks it finished (err non-nil on failure).
	Progress(name string, transferred int64)
	Complete(name string, transferred int64, err error)
}

// ReadSeekCloser is what an upload source needs: resumable reads.
type ReadSeekCloser interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

// WriteCloserAt is what a download destination needs: the ability to resume
// a write at a known offset without re-reading the file it is appending to.
type WriteCloserAt interface {
	Write(p []byte) (int, error)
	Close() error
}

// Engine is the uniform shape every transfer protocol implementation
// exposes to the dispatcher. OnBytes never blocks: it consumes as many
// leading bytes of inbound as it can make sense of right now, appends any
// bytes it wants to send to the wire, and reports status. The dispatcher
// keeps unconsumed bytes buffered and calls OnBytes again with them (an
// empty slice when none remain, to let a pending send continue) until a
// call consumes nothing and returns nothing, or reports a terminal status
// or StatusAwaitingTimeout; it then flushes the queued outbound bytes.
type Engine interface {
	// OnBytes processes inbound (already off the wire), returning how many
	// leading bytes were consumed, any bytes to write back, and the
	// resulting status. elapsed is the wall-clock time since the dispatcher
	// last wrote bytes to the transport, for protocol timers (ACK timeout,
	// retry backoff).
	OnBytes(inbound []byte, elapsed time.Duration) (consumed int, outbound []byte, status Status)
	// Abort cancels an in-flight transfer, producing the protocol's own
	// cancel sequence as outbound bytes.
	Abort() []byte
	// Name identifies the protocol for status-line/log purposes.
	Name() string
}
