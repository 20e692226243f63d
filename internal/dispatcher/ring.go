// Package dispatcher implements the single-threaded cooperative event loop
// that drives one transport, one emulator, an optional transfer engine, and
// an optional capture sink without ever spawning a worker goroutine of its
// own. Everything here runs on the caller's goroutine; only the transport
// layer beneath it may own background goroutines where the underlying
// library leaves no other choice (SSH channel reads).
package dispatcher

// Ring is a bounded byte queue used to stage bytes between pipeline stages
// (raw bytes read from the transport waiting to be routed, outbound bytes
// waiting to be written) without blocking the caller.
//
// Grounded on the buffer+index shape of the predecessor's Asynk sink, with
// its background goroutine and sync.Cond removed: a cooperative event loop
// drains the ring itself on every iteration, so there is never a second
// writer to coordinate with.
type Ring struct {
	buf   []byte
	start int
	end   int
}

// NewRing returns an empty ring with the given capacity.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// Len reports the number of bytes currently queued.
func (r *Ring) Len() int { return r.end - r.start }

// Cap reports the ring's total capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Free reports how many more bytes can be queued before Push starts
// dropping the oldest data.
func (r *Ring) Free() int { return len(r.buf) - r.Len() }

// Push appends p, compacting the buffer first if there's no room at the
// tail, and dropping the oldest queued bytes if p still doesn't fit (used
// as a last resort so one runaway producer can never deadlock the loop).
// If p by itself exceeds the ring's capacity, only its last Cap() bytes
// are kept.
func (r *Ring) Push(p []byte) {
	if len(p) > len(r.buf) {
		p = p[len(p)-len(r.buf):]
	}
	if r.end+len(p) > len(r.buf) {
		copy(r.buf, r.buf[r.start:r.end])
		r.end -= r.start
		r.start = 0
	}
	if over := r.end + len(p) - len(r.buf); over > 0 {
		r.start += over
		if r.start > r.end {
			r.start = r.end
		}
		copy(r.buf, r.buf[r.start:r.end])
		r.end -= r.start
		r.start = 0
	}
	r.end += copy(r.buf[r.end:], p)
}

// Peek returns the queued bytes without consuming them. The returned slice
// aliases the ring's storage and is only valid until the next Push/Drain.
func (r *Ring) Peek() []byte { return r.buf[r.start:r.end] }

// Drain consumes and returns up to max bytes, resetting the ring to empty
// once fully drained so subsequent Pushes don't need to compact.
func (r *Ring) Drain(max int) []byte {
	n := r.Len()
	if n > max {
		n = max
	}
	out := make([]byte, n)
	copy(out, r.buf[r.start:r.start+n])
	r.start += n
	if r.start == r.end {
		r.start, r.end = 0, 0
	}
	return out
}

// Reset discards all queued bytes.
func (r *Ring) Reset() { r.start, r.end = 0, 0 }
