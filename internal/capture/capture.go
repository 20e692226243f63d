// Package capture implements the three capture/screen-dump/scrollback-save
// formatters: raw (bytes as received), normal (emulator text, line
// terminated), and html (an HTML document with SGR-derived <span> runs).
package capture

import (
	"fmt"
	"os"
	"time"

	"qodem/internal/cellgrid"
)

// Format selects a capture file's rendering.
type Format int

const (
	FormatRaw Format = iota
	FormatNormal
	FormatHTML
)

func FormatByName(name string) Format {
	switch name {
	case "raw":
		return FormatRaw
	case "html":
		return FormatHTML
	default:
		return FormatNormal
	}
}

// File is an open capture sink: raw bytes are written verbatim, or grid
// lines are rendered into the normal/html text, and both modes are flushed
// to disk only periodically, tracked via markDirty/FlushIfDirty so the
// dispatcher's "flush if dirty > 5s" tick has something to act on.
type File struct {
	f         *os.File
	format    Format
	dirty     bool
	lastWrite time.Time
	htmlOpen  bool
}

// Open creates (or truncates) the capture file at path in the given format.
func Open(path string, format Format) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", path, err)
	}
	cf := &File{f: f, format: format}
	if format == FormatHTML {
		if _, err := f.WriteString(htmlHeader); err != nil {
			return nil, err
		}
		cf.htmlOpen = true
	}
	return cf, nil
}

// WriteRaw writes b verbatim; valid only when Format is FormatRaw (the
// dispatcher calls this with every byte read off the wire, before emulator
// decoding, regardless of the active format — callers that want
// normal/html output use WriteLine instead).
func (c *File) WriteRaw(b []byte) error {
	if c.format != FormatRaw || len(b) == 0 {
		return nil
	}
	if _, err := c.f.Write(b); err != nil {
		return err
	}
	c.markDirty()
	return nil
}

// WriteLine renders one grid line into the capture file per the active
// format (a no-op under FormatRaw, which captures the wire bytes instead).
func (c *File) WriteLine(line *cellgrid.Line) error {
	switch c.format {
	case FormatNormal:
		if _, err := c.f.WriteString(line.Text() + "\n"); err != nil {
			return err
		}
	case FormatHTML:
		if _, err := c.f.WriteString(renderHTMLLine(line) + "\n"); err != nil {
			return err
		}
	default:
		return nil
	}
	c.markDirty()
	return nil
}

func (c *File) markDirty() {
	c.dirty = true
	c.lastWrite = time.Now()
}

// FlushIfDirty syncs the underlying file to disk if it has unflushed writes
// older than maxAge, per the dispatcher's periodic capture-flush tick.
func (c *File) FlushIfDirty(maxAge time.Duration) error {
	if !c.dirty {
		return nil
	}
	if time.Since(c.lastWrite) < maxAge {
		return nil
	}
	c.dirty = false
	return c.f.Sync()
}

// Close finalizes the capture file (closing the HTML document's tags, if
// applicable) and closes the underlying file.
func (c *File) Close() error {
	if c.htmlOpen {
		_, _ = c.f.WriteString(htmlFooter)
		c.htmlOpen = false
	}
	return c.f.Close()
}
