package zmodem

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qodem/internal/transfer"
)

type memUpload struct {
	*bytes.Reader
}

func (m memUpload) Close() error { return nil }

type fakeSource struct {
	uploadName string
	uploadData []byte
	uploadDone bool

	downloaded    bytes.Buffer
	downloadedName string
	completeErr   error
}

func (f *fakeSource) NextUpload() (string, int64, time.Time, transfer.ReadSeekCloser, bool) {
	if f.uploadDone {
		return "", 0, time.Time{}, nil, false
	}
	f.uploadDone = true
	return f.uploadName, int64(len(f.uploadData)), time.Time{}, memUpload{bytes.NewReader(f.uploadData)}, true
}

func (f *fakeSource) AcceptDownload(name string, size int64, modTime time.Time) (transfer.WriteCloserAt, int64, bool) {
	f.downloadedName = name
	return &memDst{buf: &f.downloaded}, 0, true
}

func (f *fakeSource) Progress(name string, transferred int64) {}

func (f *fakeSource) Complete(name string, transferred int64, err error) {
	f.completeErr = err
}

type memDst struct{ buf *bytes.Buffer }

func (d *memDst) Write(p []byte) (int, error) { return d.buf.Write(p) }
func (d *memDst) Close() error                 { return nil }

// pumpToExchange drives sender and receiver against each other until both
// report a terminal status or the exchange stalls.
func pumpToExchange(t *testing.T, sender, receiver *Engine) {
	t.Helper()
	var toReceiver, toSender []byte
	for i := 0; i < 200; i++ {
		_, out, sStatus := sender.OnBytes(toSender, 0)
		toSender = nil
		toReceiver = append(toReceiver, out...)

		consumed, out2, rStatus := receiver.OnBytes(toReceiver, 0)
		toReceiver = toReceiver[consumed:]
		toSender = append(toSender, out2...)

		if sStatus == transfer.StatusComplete && rStatus == transfer.StatusComplete {
			return
		}
		if sStatus == transfer.StatusFailed || rStatus == transfer.StatusFailed {
			t.Fatalf("transfer failed: sender=%v receiver=%v", sStatus, rStatus)
		}
	}
	t.Fatal("exchange did not converge within iteration budget")
}

func TestZmodemFullBatchTransfer(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox "), 100)
	src := &fakeSource{uploadName: "fox.txt", uploadData: payload}
	dst := &fakeSource{}

	sender := NewSender(src, &Config{MaxBlockSize: 64})
	receiver := NewReceiver(dst, &Config{MaxBlockSize: 64})

	pumpToExchange(t, sender, receiver)

	require.Equal(t, "fox.txt", dst.downloadedName)
	require.Equal(t, payload, dst.downloaded.Bytes())
	require.NoError(t, src.completeErr)
}

func TestZmodemAbortProducesCancelSequence(t *testing.T) {
	e := NewSender(&fakeSource{}, &Config{})
	out := e.Abort()
	require.NotEmpty(t, out)
	require.Equal(t, byte(CAN), out[0])
}
