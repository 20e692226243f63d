package ascii

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qodem/internal/transfer"
)

type memFile struct {
	*bytes.Reader
}

func (m memFile) Close() error { return nil }

type fakeSource struct {
	uploadName string
	uploadData []byte
	uploadDone bool

	downloadBuf   bytes.Buffer
	downloadAccept bool
	completedErr  error
	completedName string
}

func (f *fakeSource) NextUpload() (string, int64, time.Time, transfer.ReadSeekCloser, bool) {
	if f.uploadDone {
		return "", 0, time.Time{}, nil, false
	}
	f.uploadDone = true
	return f.uploadName, int64(len(f.uploadData)), time.Time{}, memFile{bytes.NewReader(f.uploadData)}, true
}

func (f *fakeSource) AcceptDownload(name string, size int64, modTime time.Time) (transfer.WriteCloserAt, int64, bool) {
	return &memWriter{buf: &f.downloadBuf}, 0, f.downloadAccept
}

func (f *fakeSource) Progress(name string, transferred int64) {}

func (f *fakeSource) Complete(name string, transferred int64, err error) {
	f.completedName = name
	f.completedErr = err
}

type memWriter struct{ buf *bytes.Buffer }

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *memWriter) Close() error                { return nil }

func TestAsciiSendStreamsUploadBytes(t *testing.T) {
	src := &fakeSource{uploadName: "file.txt", uploadData: []byte("line1\nline2\n")}
	cfg := &Config{UploadLF: PolicyAdd}
	e := NewSender(src, cfg)

	var out bytes.Buffer
	for {
		_, chunk, status := e.OnBytes(nil, 0)
		out.Write(chunk)
		if status == transfer.StatusComplete {
			break
		}
	}
	require.Equal(t, "line1\r\nline2\r\n", out.String())
	require.Equal(t, "file.txt", src.completedName)
	require.NoError(t, src.completedErr)
}

func TestAsciiReceiveWritesRemappedBytes(t *testing.T) {
	src := &fakeSource{downloadAccept: true}
	cfg := &Config{DownloadCR: PolicyStrip}
	e := NewReceiver(src, cfg)

	consumed, _, status := e.OnBytes([]byte("abc\r\n"), 0)
	require.Equal(t, 5, consumed)
	require.Equal(t, transfer.StatusRunning, status)
	require.Equal(t, "abc\n", src.downloadBuf.String())
}

func TestAsciiReceiveRejectedFailsImmediately(t *testing.T) {
	src := &fakeSource{downloadAccept: false}
	e := NewReceiver(src, &Config{})

	_, _, status := e.OnBytes([]byte("x"), 0)
	require.Equal(t, transfer.StatusFailed, status)
}

func TestAsciiAbortClosesHandles(t *testing.T) {
	src := &fakeSource{uploadName: "f", uploadData: []byte("abc")}
	e := NewSender(src, &Config{})
	require.Nil(t, e.Abort())
	_, _, status := e.OnBytes(nil, 0)
	require.Equal(t, transfer.StatusComplete, status)
}
