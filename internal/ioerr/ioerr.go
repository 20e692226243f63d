// Package ioerr defines the sentinel error kinds shared by the transport and
// dispatcher layers. Transient kinds are retried by the caller and never
// surfaced past the dispatcher; terminal kinds collapse to session close.
package ioerr

import "errors"

var (
	// ErrWouldBlock indicates a non-blocking operation has no data/room right now.
	// Expected during handshakes; never surfaced as a session-level error.
	ErrWouldBlock = errors.New("ioerr: would block")

	// ErrConnReset indicates the peer reset the connection.
	ErrConnReset = errors.New("ioerr: connection reset")

	// ErrEOF indicates the peer performed an orderly close.
	ErrEOF = errors.New("ioerr: eof")

	// ErrOther wraps any transport failure that isn't one of the above kinds.
	ErrOther = errors.New("ioerr: other")
)

// Kind classifies an error returned by a Transport for dispatcher decision making.
type Kind int

const (
	KindNone Kind = iota
	KindWouldBlock
	KindConnReset
	KindEOF
	KindOther
)

// Classify maps an error to its Kind, defaulting to KindOther for unrecognized errors.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrWouldBlock):
		return KindWouldBlock
	case errors.Is(err, ErrConnReset):
		return KindConnReset
	case errors.Is(err, ErrEOF):
		return KindEOF
	default:
		return KindOther
	}
}

// Transient reports whether an error kind should be retried silently by the
// caller, per the dispatcher's "never surface a transient failure" policy.
func Transient(err error) bool {
	return Classify(err) == KindWouldBlock
}
