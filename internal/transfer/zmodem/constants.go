// Package zmodem implements the ZMODEM file transfer protocol as a
// transfer.Engine: header framing (hex, binary CRC-16, binary CRC-32), ZDLE
// control escaping, and the ZRQINIT/ZRINIT/ZFILE/ZDATA/ZEOF/ZFIN state
// machine, driven by OnBytes rather than blocking reads.
//
// Frame-type constants, the ZDLE escape scheme, and the Config knobs are
// grounded on the retrieved xx25-go-zmodem reference (constants.go,
// zmodem.go): this package keeps that reference's naming and frame-type
// values, but restructures the session as a non-blocking state machine
// instead of blocking Send/Receive calls over an io.ReadWriter, to fit
// qodem's single-threaded dispatcher.
package zmodem

// Frame encoding lead-in bytes.
const (
	ZPAD  = 0x2a // '*' — pad character, begins frames
	ZDLE  = 0x18 // Ctrl-X — data link escape
	ZDLEE = 0x58 // escaped ZDLE (ZDLE XOR 0x40)
	ZBIN  = 0x41 // 'A' — binary frame (CRC-16)
	ZHEX  = 0x42 // 'B' — hex frame (CRC-16)

	ZBIN32 = 0x43 // 'C' — binary frame (CRC-32)
)

// RLE escape character (defined only; this engine neither emits nor decodes it).
const ZRESC = 0x7e

// Frame types.
const (
	ZRQINIT    = 0x00
	ZRINIT     = 0x01
	ZSINIT     = 0x02
	ZACK       = 0x03
	ZFILE      = 0x04
	ZSKIP      = 0x05
	ZNAK       = 0x06
	ZABORT     = 0x07
	ZFIN       = 0x08
	ZRPOS      = 0x09
	ZDATA      = 0x0a
	ZEOF       = 0x0b
	ZFERR      = 0x0c
	ZCRC       = 0x0d
	ZCHALLENGE = 0x0e
	ZCOMPL     = 0x0f
	ZCAN       = 0x10
)

// Data subpacket end types (follow a ZDLE inside a data subpacket).
const (
	ZCRCE = 0x68 // CRC next, frame ends, header follows
	ZCRCG = 0x69 // CRC next, frame continues, no ack expected
	ZCRCQ = 0x6a // CRC next, frame continues, ZACK expected
	ZCRCW = 0x6b // CRC next, ZACK expected, end of frame
)

// Receiver capability flags (ZRINIT ZF0).
const (
	CANFDX  = 0x01
	CANOVIO = 0x02
	CANBRK  = 0x04
	CANFC32 = 0x20
	ESCCTL  = 0x40
	ESC8    = 0x80
)

// ZFILE management options (ZF1, masked by ZMMASK).
const (
	ZMMASK = 0x1f
	ZMCRC  = 2
	ZMAPND = 3
	ZMCLOB = 4
)

// CAN is the cancel character; 5 consecutive CANs abort a session.
const CAN = 0x18

// AutostartSignature is the byte sequence a console route watches for in an
// otherwise-ordinary byte stream to auto-enter receive mode: the literal
// "rz\r" invocation hint a remote rz/sz pair prints, immediately followed by
// the lead-in of a ZRQINIT hex header. Everything from the "**" onward is
// itself a valid (if truncated) hex header prefix, so a detector only needs
// to strip the three "rz\r" bytes before handing the rest to a Receiver.
var AutostartSignature = []byte{'r', 'z', '\r', ZPAD, ZPAD, ZDLE, ZHEX, '0', '0'}

// AutostartPrefixLen is the number of leading bytes of AutostartSignature
// that are human-readable invocation text, not part of the wire protocol,
// and so must be dropped before the remaining bytes are handed to a
// Receiver's OnBytes.
const AutostartPrefixLen = 3

// abortSequence is 8x CAN + 10x BS, the standard ZMODEM cancel string.
var abortSequence = []byte{
	0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18,
	0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08,
}

// EscapeMode controls which bytes are ZDLE-escaped on the wire.
type EscapeMode int

const (
	EscapeStandard EscapeMode = iota // escape ZDLE, XON, XOFF, DLE, and every CR
	EscapeAll                        // escape all control characters
	EscapeMinimal                    // escape only ZDLE (DirZap)
)

// Config controls the behavior of a Sender or Receiver.
type Config struct {
	// MaxBlockSize is the data subpacket size (default 1024, max 8192).
	MaxBlockSize int
	// EscapeMode controls ZDLE escaping.
	EscapeMode EscapeMode
	// Use32BitCRC prefers CRC-32 data subpackets when both ends allow it.
	Use32BitCRC bool
	// MaxRetries is defaulted to 10 but not consulted: the engine does not
	// retransmit.
	MaxRetries int
	// GarbageThreshold is the max garbage-byte count before aborting.
	GarbageThreshold int
}

func (c *Config) defaults() {
	if c.MaxBlockSize <= 0 {
		c.MaxBlockSize = 1024
	}
	if c.MaxBlockSize > 8192 {
		c.MaxBlockSize = 8192
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 10
	}
	if c.GarbageThreshold <= 0 {
		c.GarbageThreshold = 1200
	}
}
