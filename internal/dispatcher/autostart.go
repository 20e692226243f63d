package dispatcher

import (
	"bytes"

	"qodem/internal/transfer"
	"qodem/internal/transfer/kermit"
	"qodem/internal/transfer/zmodem"
)

// AutostartConfig controls whether routeConsole watches the inbound byte
// stream for an unsolicited ZMODEM or Kermit transfer request and, if so,
// what a detected transfer hands files to. A zero AutostartConfig disables
// autostart entirely, matching a session that never calls SetAutostart.
type AutostartConfig struct {
	Zmodem    bool
	Kermit    bool
	Source    transfer.FileSource
	ZmodemCfg *zmodem.Config
	KermitCfg *kermit.Config
}

// SetAutostart arms (or disarms) console-stream autostart detection. It is a
// post-construction setter, like AttachCapture, since the config it needs
// (CLI/YAML flags, a download FileSource) isn't known until Connect has
// already built the Loop.
func (l *Loop) SetAutostart(cfg AutostartConfig) { l.autostart = cfg }

// scanAutostart looks for the earliest ZMODEM or Kermit transfer-request
// signature in data. If one is found it returns the bytes before it (still
// bound for the console emulator), the bytes from the signature onward
// (ready to feed a freshly attached Receiver's OnBytes), the Receiver
// itself, and ok=true.
func (l *Loop) scanAutostart(data []byte) (prefix, rest []byte, engine transfer.Engine, ok bool) {
	if l.autostart.Source == nil {
		return nil, nil, nil, false
	}

	bestIdx := -1
	var bestRest []byte
	var bestEngine transfer.Engine

	if l.autostart.Zmodem {
		if idx := bytes.Index(data, zmodem.AutostartSignature); idx >= 0 {
			bestIdx = idx
			bestRest = data[idx+zmodem.AutostartPrefixLen:]
			bestEngine = zmodem.NewReceiver(l.autostart.Source, l.autostart.ZmodemCfg)
		}
	}
	if l.autostart.Kermit {
		if idx, detected := kermit.DetectSendInit(data); detected && (bestIdx < 0 || idx < bestIdx) {
			bestIdx = idx
			bestRest = data[idx:]
			bestEngine = kermit.NewReceiver(l.autostart.Source, l.autostart.KermitCfg)
		}
	}

	if bestIdx < 0 {
		return nil, nil, nil, false
	}
	return data[:bestIdx], bestRest, bestEngine, true
}
