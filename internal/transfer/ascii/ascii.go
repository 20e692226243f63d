// Package ascii implements plain ASCII file transfer: no framing or
// checksums at all, just line-ending remap through the configured policy,
// applied to whatever bytes are already flowing across the connection. The
// engine does not apply the output translate table to the bytes it sends.
package ascii

import (
	"io"
	"time"

	"qodem/internal/transfer"
)

// Policy controls how a line terminator is rewritten crossing the wire.
type Policy int

const (
	PolicyNone  Policy = iota // pass through unchanged
	PolicyStrip               // remove the terminator
	PolicyAdd                 // insert the terminator if missing
)

// Config controls the upload/download CR and LF policies independently, per
// configuration surface.
type Config struct {
	UploadCR   Policy
	UploadLF   Policy
	DownloadCR Policy
	DownloadLF Policy
}

type phase int

const (
	phaseRunning phase = iota
	phaseDone
)

// Engine streams file bytes verbatim (save for the CR/LF remap), with no
// handshake of its own. A sender completes once its upload reader returns
// no more bytes; a receiver keeps running until it is aborted.
type Engine struct {
	cfg    Config
	dir    transfer.Direction
	source transfer.FileSource

	name   string
	size   int64
	offset int64
	upload transfer.ReadSeekCloser
	dst    transfer.WriteCloserAt
	phase  phase
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
	e := &Engine{cfg: c, dir: dir, source: source}
	if dir == transfer.DirectionSend {
		if name, size, _, data, ok := source.NextUpload(); ok {
			e.name, e.size, e.upload = name, size, data
		} else {
			e.phase = phaseDone
		}
	}
	return e
}

func (e *Engine) Name() string { return "ascii" }

func (e *Engine) Abort() []byte {
	e.phase = phaseDone
	if e.upload != nil {
		e.upload.Close()
	}
	if e.dst != nil {
		e.dst.Close()
	}
	return nil
}

func (e *Engine) OnBytes(inbound []byte, elapsed time.Duration) (int, []byte, transfer.Status) {
	if e.phase == phaseDone {
		return 0, nil, transfer.StatusComplete
	}

	if e.dir == transfer.DirectionReceive {
		if e.dst == nil {
			dst, _, accept := e.source.AcceptDownload(e.name, 0, time.Time{})
			if !accept {
				e.phase = phaseDone
				return 0, nil, transfer.StatusFailed
			}
			e.dst = dst
		}
		out := remap(inbound, e.cfg.DownloadCR, e.cfg.DownloadLF)
		if len(inbound) > 0 {
			e.dst.Write(out)
			e.offset += int64(len(inbound))
			e.source.Progress(e.name, e.offset)
		}
		return len(inbound), nil, transfer.StatusRunning
	}

	chunk := make([]byte, 4096)
	n, err := e.upload.Read(chunk)
	if n <= 0 {
		e.upload.Close()
		if err == io.EOF {
			err = nil
		}
		e.source.Complete(e.name, e.offset, err)
		e.phase = phaseDone
		return 0, nil, transfer.StatusComplete
	}
	e.offset += int64(n)
	e.source.Progress(e.name, e.offset)
	out := remap(chunk[:n], e.cfg.UploadCR, e.cfg.UploadLF)
	return 0, out, transfer.StatusRunning
}

func remap(data []byte, crPolicy, lfPolicy Policy) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		switch b {
		case '\r':
			switch crPolicy {
			case PolicyStrip:
				continue
			default:
				out = append(out, b)
			}
		case '\n':
			switch lfPolicy {
			case PolicyStrip:
				continue
			case PolicyAdd:
				out = append(out, '\r', '\n')
				continue
			default:
				out = append(out, b)
			}
		default:
			out = append(out, b)
		}
	}
	return out
}
