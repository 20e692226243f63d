// Package xymodem implements the XMODEM (checksum, CRC-16, 1K) and YMODEM
// (XMODEM plus a block-0 filename/size header and batch support) transfer
// protocols as transfer.Engine implementations. Summarized directly from
// the classic SOH/STX block scheme; no reference implementation exists in
// the retrieved example pack.
package xymodem

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"qodem/internal/transfer"
)

const (
	SOH = 0x01
	STX = 0x02
	EOT = 0x04
	ACK = 0x06
	NAK = 0x15
	CAN = 0x18
	SUB = 0x1a // pad byte for short final blocks
)

// Variant selects the checksum/block-size scheme.
type Variant int

const (
	VariantChecksum Variant = iota // 128-byte blocks, 1-byte checksum
	VariantCRC16                   // 128-byte blocks, 2-byte CRC-16
	Variant1K                      // 1024-byte blocks (STX), CRC-16
)

// Config controls retry behavior and whether YMODEM batch framing is used.
type Config struct {
	Variant    Variant
	YModem     bool
	MaxRetries int
}

func (c *Config) defaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 10
	}
}

var crc16Table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
		crc16Table[i] = crc
	}
}

func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}
	return crc
}

func checksum8(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

func blockSize(v Variant) int {
	if v == Variant1K {
		return 1024
	}
	return 128
}

type phase int

const (
	phaseStart phase = iota
	phaseAwaitStart   // receiver signaled NAK/'C', sender waits for it
	phaseSendBlockZero
	phaseAwaitBlockZeroAck
	phaseSendingData
	phaseAwaitBlockAck
	phaseAwaitEOTAck
	phaseAwaitBlockZero
	phaseAwaitBlock
	phaseDone
	phaseFailed
)

// Engine drives one XMODEM/YMODEM transfer (send or receive) as a
// transfer.Engine.
type Engine struct {
	cfg    Config
	dir    transfer.Direction
	source transfer.FileSource

	phase       phase
	blockNum    byte
	retries     int
	useCRC      bool
	started     bool
	name        string
	size        int64
	offset      int64
	upload      transfer.ReadSeekCloser
	download    transfer.WriteCloserAt
	batchClosed bool
}

func NewSender(source transfer.FileSource, cfg *Config) *Engine {
	return newEngine(transfer.DirectionSend, source, cfg)
}

func NewReceiver(source transfer.FileSource, cfg *Config) *Engine {
	return newEngine(transfer.DirectionReceive, source, cfg)
}

func newEngine(dir transfer.Direction, source transfer.FileSource, cfg *Config) *Engine {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()
	e := &Engine{cfg: c, dir: dir, source: source, blockNum: 1}
	e.useCRC = c.Variant != VariantChecksum
	return e
}

func (e *Engine) Name() string {
	if e.cfg.YModem {
		return "ymodem"
	}
	return "xmodem"
}

func (e *Engine) Abort() []byte {
	e.phase = phaseFailed
	return []byte{CAN, CAN, CAN}
}

func (e *Engine) OnBytes(inbound []byte, elapsed time.Duration) (int, []byte, transfer.Status) {
	var out bytes.Buffer

	if !e.started {
		e.started = true
		if e.dir == transfer.DirectionSend {
			e.phase = phaseAwaitStart
		} else {
			if e.useCRC {
				out.WriteByte('C')
			} else {
				out.WriteByte(NAK)
			}
			if e.cfg.YModem {
				e.phase = phaseAwaitBlockZero
			} else {
				e.phase = phaseAwaitBlock
			}
		}
	}

	consumed := 0
	if e.dir == transfer.DirectionSend {
		consumed = e.pumpSend(inbound, &out)
	} else {
		consumed = e.pumpReceive(inbound, &out)
	}

	status := transfer.StatusRunning
	switch e.phase {
	case phaseDone:
		status = transfer.StatusComplete
	case phaseFailed:
		status = transfer.StatusFailed
	}
	return consumed, out.Bytes(), status
}

func (e *Engine) pumpSend(inbound []byte, out *bytes.Buffer) int {
	if len(inbound) == 0 {
		return 0
	}
	b := inbound[0]
	switch e.phase {
	case phaseAwaitStart:
		if b == 'C' {
			e.useCRC = true
		} else if b != NAK {
			return 1
		}
		if e.cfg.YModem {
			e.startFile(out, true)
		} else {
			e.startFile(out, false)
		}
		return 1
	case phaseAwaitBlockZeroAck:
		if b == ACK {
			e.phase = phaseSendingData
			e.blockNum = 1
			return 1
		}
		return 1
	case phaseSendingData:
		if b == ACK || b == NAK || b == 'C' {
			if b == NAK {
				e.retries++
				if e.retries > e.cfg.MaxRetries {
					e.phase = phaseFailed
					return 1
				}
			} else {
				e.retries = 0
			}
			e.sendNextBlock(out)
			return 1
		}
		return 1
	case phaseAwaitEOTAck:
		if b == ACK {
			if e.cfg.YModem {
				next, size, _, data, ok := e.source.NextUpload()
				if !ok {
					e.writeBlock(out, 0, make([]byte, blockSize(VariantChecksum)))
					e.phase = phaseDone
					return 1
				}
				e.name, e.size, e.offset, e.upload = next, size, 0, data
				e.phase = phaseAwaitStart
				return 1
			}
			e.phase = phaseDone
		}
		return 1
	}
	return 1
}

func (e *Engine) startFile(out *bytes.Buffer, yHeader bool) {
	name, size, _, data, ok := e.source.NextUpload()
	if !ok {
		if yHeader {
			e.writeBlock(out, 0, make([]byte, blockSize(VariantChecksum)))
		}
		e.phase = phaseDone
		return
	}
	e.name, e.size, e.offset, e.upload = name, size, 0, data
	if yHeader {
		hdr := []byte(name)
		hdr = append(hdr, 0)
		hdr = append(hdr, []byte(strconv.FormatInt(size, 10))...)
		e.writeBlock(out, 0, pad(hdr, blockSize(VariantCRC16)))
		e.phase = phaseAwaitBlockZeroAck
		return
	}
	e.blockNum = 1
	e.phase = phaseSendingData
	e.sendNextBlock(out)
}

func (e *Engine) sendNextBlock(out *bytes.Buffer) {
	size := blockSize(e.cfg.Variant)
	chunk := make([]byte, size)
	n, err := e.upload.Read(chunk)
	if n <= 0 {
		e.upload.Close()
		if err == io.EOF {
			err = nil
		}
		e.source.Complete(e.name, e.offset, err)
		out.WriteByte(EOT)
		e.phase = phaseAwaitEOTAck
		return
	}
	e.offset += int64(n)
	e.source.Progress(e.name, e.offset)
	e.writeBlock(out, e.blockNum, pad(chunk[:n], size))
	e.blockNum++
}

func (e *Engine) writeBlock(out *bytes.Buffer, num byte, data []byte) {
	if len(data) == 1024 {
		out.WriteByte(STX)
	} else {
		out.WriteByte(SOH)
	}
	out.WriteByte(num)
	out.WriteByte(255 - num)
	out.Write(data)
	if e.useCRC {
		crc := crc16(data)
		out.WriteByte(byte(crc >> 8))
		out.WriteByte(byte(crc))
	} else {
		out.WriteByte(checksum8(data))
	}
}

func pad(data []byte, size int) []byte {
	if len(data) >= size {
		return data[:size]
	}
	out := make([]byte, size)
	copy(out, data)
	for i := len(data); i < size; i++ {
		out[i] = SUB
	}
	return out
}

func (e *Engine) pumpReceive(inbound []byte, out *bytes.Buffer) int {
	if len(inbound) == 0 {
		return 0
	}
	switch inbound[0] {
	case EOT:
		out.WriteByte(ACK)
		if e.download != nil {
			e.download.Close()
		}
		e.source.Complete(e.name, e.offset, nil)
		if e.cfg.YModem {
			e.phase = phaseAwaitBlockZero
			if e.useCRC {
				out.WriteByte('C')
			} else {
				out.WriteByte(NAK)
			}
		} else {
			e.phase = phaseDone
		}
		return 1
	case CAN:
		e.phase = phaseFailed
		return 1
	case SOH, STX:
		return e.consumeBlock(inbound, out)
	}
	return 1
}

func (e *Engine) consumeBlock(inbound []byte, out *bytes.Buffer) int {
	size := 128
	if inbound[0] == STX {
		size = 1024
	}
	crcLen := 1
	if e.useCRC {
		crcLen = 2
	}
	total := 3 + size + crcLen
	if len(inbound) < total {
		return 0
	}
	num := inbound[1]
	comp := inbound[2]
	data := inbound[3 : 3+size]
	if num != 255-comp {
		out.WriteByte(NAK)
		return total
	}
	if e.useCRC {
		want := crc16(data)
		got := uint16(inbound[3+size])<<8 | uint16(inbound[3+size+1])
		if want != got {
			out.WriteByte(NAK)
			return total
		}
	} else {
		if checksum8(data) != inbound[3+size] {
			out.WriteByte(NAK)
			return total
		}
	}

	if e.phase == phaseAwaitBlockZero {
		if num == 0 {
			name, size64 := parseYHeader(data)
			if name == "" {
				// terminating empty block-0: batch complete
				e.phase = phaseDone
				out.WriteByte(ACK)
				return total
			}
			dst, resume, accept := e.source.AcceptDownload(name, size64, time.Time{})
			if !accept {
				out.WriteByte(ACK)
				return total
			}
			e.name, e.size, e.offset, e.download = name, size64, resume, dst
			out.WriteByte(ACK)
			if e.useCRC {
				out.WriteByte('C')
			} else {
				out.WriteByte(NAK)
			}
			e.phase = phaseAwaitBlock
		}
		return total
	}

	if e.download == nil && !e.cfg.YModem {
		dst, resume, accept := e.source.AcceptDownload(e.name, 0, time.Time{})
		if !accept {
			e.phase = phaseFailed
			return total
		}
		e.download, e.offset = dst, resume
	}
	if e.download != nil {
		e.download.Write(data)
	}
	e.offset += int64(len(data))
	e.source.Progress(e.name, e.offset)
	out.WriteByte(ACK)
	return total
}

func parseYHeader(data []byte) (name string, size int64) {
	parts := bytes.SplitN(bytes.TrimRight(data, "\x00\x1a"), []byte{0}, 2)
	if len(parts) == 0 || len(parts[0]) == 0 {
		return "", 0
	}
	name = string(parts[0])
	if len(parts) > 1 {
		if fields := bytes.Fields(parts[1]); len(fields) > 0 {
			n, _ := strconv.ParseInt(string(fields[0]), 10, 64)
			size = n
		}
	}
	return
}
