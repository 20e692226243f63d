package zmodem

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"qodem/internal/transfer"
)

type phase int

const (
	phaseStart phase = iota
	phaseAwaitRinit
	phaseAwaitFile
	phaseAwaitFileData
	phaseAwaitRpos
	phaseSendingData
	phaseAwaitDataAck
	phaseAwaitData
	phaseReceivingData
	phaseAwaitNextRinit
	phaseDone
	phaseFailed
)

// Engine drives one ZMODEM batch transfer, either sending or receiving, as a
// transfer.Engine. It never blocks: OnBytes consumes what it can from
// inbound, queues reply bytes, and reports status for the dispatcher to pump.
type Engine struct {
	cfg    Config
	dir    transfer.Direction
	source transfer.FileSource

	phase   phase
	garbage int

	// current file in flight
	name   string
	size   int64
	offset int64

	uploadData  transfer.ReadSeekCloser
	downloadDst transfer.WriteCloserAt

	initialOutboundSent bool
	use32               bool
}

// NewSender returns an Engine that offers files from source to the remote
// receiver.
func NewSender(source transfer.FileSource, cfg *Config) *Engine {
	return newEngine(transfer.DirectionSend, source, cfg)
}

// NewReceiver returns an Engine that accepts files into source from the
// remote sender.
func NewReceiver(source transfer.FileSource, cfg *Config) *Engine {
	return newEngine(transfer.DirectionReceive, source, cfg)
}

func newEngine(dir transfer.Direction, source transfer.FileSource, cfg *Config) *Engine {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()
	return &Engine{cfg: c, dir: dir, source: source}
}

func (e *Engine) Name() string { return "zmodem" }

func (e *Engine) Abort() []byte {
	e.phase = phaseFailed
	return append([]byte{}, abortSequence...)
}

// OnBytes implements transfer.Engine.
func (e *Engine) OnBytes(inbound []byte, elapsed time.Duration) (int, []byte, transfer.Status) {
	var out bytes.Buffer

	if !e.initialOutboundSent {
		e.initialOutboundSent = true
		if e.dir == transfer.DirectionSend {
			out.Write(encodeHexHeader(headerWithUint32(ZRQINIT, 0)))
			e.phase = phaseAwaitRinit
		} else {
			out.Write(encodeHexHeader(headerWithUint32(ZRINIT, CANFDX|CANOVIO|CANFC32)))
			e.phase = phaseAwaitFile
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

func (e *Engine) pumpReceive(inbound []byte, out *bytes.Buffer) int {
	switch e.phase {
	case phaseAwaitFile:
		if h, n, ok := decodeHexHeader(inbound); ok {
			switch h.Type {
			case ZFILE:
				e.phase = phaseAwaitFileData
				return n
			case ZFIN:
				out.Write(encodeHexHeader(headerWithUint32(ZFIN, 0)))
				e.phase = phaseDone
				return n
			}
			return n
		}
	case phaseAwaitFileData:
		if payload, _, n, ok := decodeDataSubpacket(inbound, e.use32); ok {
			name, size := parseFileInfo(payload)
			dst, resume, accept := e.source.AcceptDownload(name, size, time.Time{})
			if !accept {
				out.Write(encodeHexHeader(headerWithUint32(ZSKIP, 0)))
				e.phase = phaseAwaitFile
				return n
			}
			e.name, e.size, e.offset, e.downloadDst = name, size, resume, dst
			out.Write(encodeHexHeader(headerWithUint32(ZRPOS, uint32(resume))))
			e.phase = phaseAwaitData
			return n
		}
	case phaseAwaitData:
		if h, n, ok := decodeHexHeader(inbound); ok && h.Type == ZDATA {
			e.phase = phaseReceivingData
			return n
		}
	case phaseReceivingData:
		if payload, endType, n, ok := decodeDataSubpacket(inbound, e.use32); ok {
			if e.downloadDst != nil {
				e.downloadDst.Write(payload)
			}
			e.offset += int64(len(payload))
			e.source.Progress(e.name, e.offset)
			switch endType {
			case ZCRCW:
				out.Write(encodeHexHeader(headerWithUint32(ZACK, uint32(e.offset))))
			case ZCRCE:
				e.phase = phaseAwaitFile
			}
			return n
		}
		if h, n, ok := decodeHexHeader(inbound); ok && h.Type == ZEOF {
			if e.downloadDst != nil {
				e.downloadDst.Close()
			}
			e.source.Complete(e.name, e.offset, nil)
			out.Write(encodeHexHeader(headerWithUint32(ZRINIT, CANFDX|CANOVIO|CANFC32)))
			e.phase = phaseAwaitFile
			return n
		}
	}
	return e.handleGarbage(inbound)
}

func (e *Engine) pumpSend(inbound []byte, out *bytes.Buffer) int {
	switch e.phase {
	case phaseAwaitRinit:
		if h, n, ok := decodeHexHeader(inbound); ok && h.Type == ZRINIT {
			e.use32 = h.Uint32()&CANFC32 != 0 && e.cfg.Use32BitCRC
			return e.advanceToNextFile(out) + n
		}
	case phaseAwaitRpos:
		if h, n, ok := decodeHexHeader(inbound); ok && (h.Type == ZRPOS || h.Type == ZACK) {
			e.offset = int64(h.Uint32())
			e.uploadData.Seek(e.offset, io.SeekStart)
			out.Write(encodeHexHeader(headerWithUint32(ZDATA, uint32(e.offset))))
			e.phase = phaseSendingData
			return n
		}
	case phaseSendingData:
		e.sendNextChunk(out)
		return 0
	case phaseAwaitDataAck:
		if h, n, ok := decodeHexHeader(inbound); ok && h.Type == ZACK {
			e.phase = phaseSendingData
			return n
		}
	case phaseAwaitNextRinit:
		if h, n, ok := decodeHexHeader(inbound); ok && h.Type == ZRINIT {
			return e.advanceToNextFile(out) + n
		}
	}
	return e.handleGarbage(inbound)
}

func (e *Engine) advanceToNextFile(out *bytes.Buffer) int {
	name, size, modTime, data, ok := e.source.NextUpload()
	if !ok {
		out.Write(encodeHexHeader(headerWithUint32(ZFIN, 0)))
		e.phase = phaseDone
		return 0
	}
	e.name, e.size, e.offset, e.uploadData = name, size, 0, data
	_ = modTime
	info := encodeFileInfo(name, size)
	out.Write(encodeHexHeader(headerWithUint32(ZFILE, 0)))
	out.Write(encodeDataSubpacket(info, ZCRCW, e.use32, e.cfg.EscapeMode))
	e.phase = phaseAwaitRpos
	return 0
}

func (e *Engine) sendNextChunk(out *bytes.Buffer) {
	chunk := make([]byte, e.cfg.MaxBlockSize)
	n, err := e.uploadData.Read(chunk)
	if n > 0 {
		chunk = chunk[:n]
		e.offset += int64(n)
		e.source.Progress(e.name, e.offset)
		endType := byte(ZCRCW)
		if e.offset < e.size {
			endType = ZCRCG
		}
		out.Write(encodeDataSubpacket(chunk, endType, e.use32, e.cfg.EscapeMode))
		if endType == ZCRCW {
			e.phase = phaseAwaitDataAck
		}
		return
	}
	e.uploadData.Close()
	if err == io.EOF {
		err = nil
	}
	e.source.Complete(e.name, e.offset, err)
	out.Write(encodeHexHeader(headerWithUint32(ZEOF, uint32(e.offset))))
	e.phase = phaseAwaitNextRinit
}

// handleGarbage discards one byte of unrecognized input, tracking how much
// garbage has accumulated before giving up on the session entirely.
func (e *Engine) handleGarbage(inbound []byte) int {
	if len(inbound) == 0 {
		return 0
	}
	e.garbage++
	if e.garbage > e.cfg.GarbageThreshold {
		e.phase = phaseFailed
	}
	return 1
}

func parseFileInfo(payload []byte) (name string, size int64) {
	parts := bytes.SplitN(payload, []byte{0}, 3)
	if len(parts) > 0 {
		name = string(parts[0])
	}
	if len(parts) > 1 {
		var s int64
		for _, c := range parts[1] {
			if c < '0' || c > '9' {
				break
			}
			s = s*10 + int64(c-'0')
		}
		size = s
	}
	return
}

func encodeFileInfo(name string, size int64) []byte {
	buf := []byte(name)
	buf = append(buf, 0)
	buf = append(buf, []byte(strconv.FormatInt(size, 10))...)
	buf = append(buf, 0)
	return buf
}
