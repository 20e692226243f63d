package kermit

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qodem/internal/transfer"
)

func TestTocharUncharRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, 31, 63} {
		require.Equal(t, v, unchar(tochar(v)))
	}
}

func TestPacketRoundTrip(t *testing.T) {
	e := &Engine{cfg: Config{EOLChar: '\r'}}
	pkt := e.buildPacket(TypeData, []byte("payload bytes"))

	typ, seq, data, consumed, ok := parsePacket(pkt)
	require.True(t, ok)
	require.Equal(t, byte(TypeData), typ)
	require.Equal(t, 0, seq)
	require.Equal(t, []byte("payload bytes"), data)
	require.Equal(t, len(pkt), consumed)
}

func TestParsePacketRejectsBadChecksum(t *testing.T) {
	e := &Engine{cfg: Config{EOLChar: '\r'}}
	pkt := e.buildPacket(TypeData, []byte("hello"))
	pkt[4] ^= 0xff

	_, _, _, _, ok := parsePacket(pkt)
	require.False(t, ok)
}

func TestParsePacketIncompleteReturnsNotOK(t *testing.T) {
	e := &Engine{cfg: Config{EOLChar: '\r'}}
	pkt := e.buildPacket(TypeAck, nil)

	_, _, _, _, ok := parsePacket(pkt[:len(pkt)-3])
	require.False(t, ok)
}

func TestRobustNameNormalizes(t *testing.T) {
	require.Equal(t, "REPORT.TXT", robustName("report.txt", true))
	require.Equal(t, "AB.CDE", robustName("a b.c,d.e", true))
	require.Equal(t, "weird name!.txt", robustName("weird name!.txt", false))
}

type memUpload struct{ *bytes.Reader }

func (m memUpload) Close() error { return nil }

type fakeSource struct {
	uploadName string
	uploadData []byte
	uploadDone bool

	downloaded     bytes.Buffer
	downloadedName string
	completeErr    error
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

func TestKermitFullBatchTransfer(t *testing.T) {
	payload := bytes.Repeat([]byte("kermit packet contents "), 50)
	src := &fakeSource{uploadName: "readme.md", uploadData: payload}
	dst := &fakeSource{}

	sender := NewSender(src, &Config{RobustFilename: true})
	receiver := NewReceiver(dst, &Config{RobustFilename: true})

	pumpToExchange(t, sender, receiver)

	require.Equal(t, "README.MD", dst.downloadedName)
	require.Equal(t, payload, dst.downloaded.Bytes())
	require.NoError(t, src.completeErr)
}
