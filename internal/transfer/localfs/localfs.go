// Package localfs implements transfer.FileSource against a directory on the
// local filesystem: uploads are read from files named there, downloads are
// written into it. It is the FileSource a connected session falls back to
// when nothing richer (a scripted batch list, a UI file picker) supplies
// one, including for autostart-triggered transfers, which have no chance to
// ask a user anything before the first byte has to be accepted or refused.
package localfs

import (
	"os"
	"path/filepath"
	"time"

	"qodem/internal/logging"
	"qodem/internal/transfer"
)

// Dir is a transfer.FileSource rooted at one directory.
type Dir struct {
	root string
	log  *logging.Logger

	names []string
	next  int
}

// NewDir returns a Dir rooted at dir, used only for AcceptDownload until
// QueueUpload has named files to offer.
func NewDir(dir string, log *logging.Logger) *Dir {
	return &Dir{root: dir, log: log}
}

// QueueUpload adds one file's base name to the batch NextUpload offers, in
// the order added.
func (d *Dir) QueueUpload(name string) {
	d.names = append(d.names, name)
}

// NextUpload implements transfer.FileSource.
func (d *Dir) NextUpload() (string, int64, time.Time, transfer.ReadSeekCloser, bool) {
	if d.next >= len(d.names) {
		return "", 0, time.Time{}, nil, false
	}
	name := d.names[d.next]
	d.next++
	f, err := os.Open(filepath.Join(d.root, name))
	if err != nil {
		if d.log != nil {
			d.log.Warn().Err(err).Str("file", name).Msg("localfs: cannot open upload")
		}
		return d.NextUpload()
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return d.NextUpload()
	}
	return name, info.Size(), info.ModTime(), f, true
}

// AcceptDownload implements transfer.FileSource: it always accepts, writing
// into root under the sanitized base name, resuming at the existing file's
// size if it is shorter than the incoming size (per the crash-recovery rule
// that a short local file resumes rather than restarts), and truncating and
// starting fresh otherwise.
func (d *Dir) AcceptDownload(name string, size int64, modTime time.Time) (transfer.WriteCloserAt, int64, bool) {
	safe := sanitize(name)
	path := filepath.Join(d.root, safe)

	resume := int64(0)
	flags := os.O_CREATE | os.O_WRONLY
	if info, err := os.Stat(path); err == nil && info.Size() < size {
		resume = info.Size()
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if d.log != nil {
			d.log.Warn().Err(err).Str("file", safe).Msg("localfs: cannot open download destination")
		}
		return nil, 0, false
	}
	return f, resume, true
}

// Progress implements transfer.FileSource; localfs has no progress UI of
// its own to update.
func (d *Dir) Progress(name string, transferred int64) {}

// Complete implements transfer.FileSource, logging the outcome.
func (d *Dir) Complete(name string, transferred int64, err error) {
	if d.log == nil {
		return
	}
	if err != nil {
		d.log.Warn().Err(err).Str("file", name).Int64("transferred", transferred).Msg("localfs: transfer failed")
		return
	}
	d.log.Info().Str("file", name).Int64("transferred", transferred).Msg("localfs: transfer complete")
}

// sanitize strips any directory components and rejects a leading dot, so a
// maliciously or accidentally crafted filename from the wire can never
// escape root or overwrite a dotfile.
func sanitize(name string) string {
	name = filepath.Base(name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
