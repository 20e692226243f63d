package xymodem

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
	for i := 0; i < 500; i++ {
		n, out, sStatus := sender.OnBytes(toSender, 0)
		toSender = toSender[n:]
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

func TestXmodemCRC16FullTransfer(t *testing.T) {
	payload := bytes.Repeat([]byte("xmodem payload "), 20)
	src := &fakeSource{uploadName: "ignored-for-xmodem", uploadData: payload}
	dst := &fakeSource{}

	sender := NewSender(src, &Config{Variant: VariantCRC16})
	receiver := NewReceiver(dst, &Config{Variant: VariantCRC16})

	pumpToExchange(t, sender, receiver)

	got := bytes.TrimRight(dst.downloaded.Bytes(), "\x1a")
	require.Equal(t, payload, got)
	require.NoError(t, dst.completeErr)
}

func TestYmodemFullTransferCarriesFilename(t *testing.T) {
	payload := bytes.Repeat([]byte("ymodem 1k block data "), 80)
	src := &fakeSource{uploadName: "report.txt", uploadData: payload}
	dst := &fakeSource{}

	sender := NewSender(src, &Config{Variant: Variant1K, YModem: true})
	receiver := NewReceiver(dst, &Config{Variant: Variant1K, YModem: true})

	pumpToExchange(t, sender, receiver)

	require.Equal(t, "report.txt", dst.downloadedName)
	got := bytes.TrimRight(dst.downloaded.Bytes(), "\x1a")
	require.Equal(t, payload, got)
}

func TestParseYHeaderExtractsNameAndSize(t *testing.T) {
	data := pad(append([]byte("notes.txt\x00"), []byte("4096 0 0")...), 128)
	name, size := parseYHeader(data)
	require.Equal(t, "notes.txt", name)
	require.Equal(t, int64(4096), size)
}

func TestParseYHeaderTerminatingBlockIsEmpty(t *testing.T) {
	data := pad(nil, 128)
	name, size := parseYHeader(data)
	require.Equal(t, "", name)
	require.Equal(t, int64(0), size)
}

func TestParseYHeaderNoSizeFieldDoesNotPanic(t *testing.T) {
	data := pad(append([]byte("noSize.txt"), 0), 128)
	require.NotPanics(t, func() {
		name, size := parseYHeader(data)
		require.Equal(t, "noSize.txt", name)
		require.Equal(t, int64(0), size)
	})
}

func TestParseYHeaderBlankSizeFieldDoesNotPanic(t *testing.T) {
	data := make([]byte, 128)
	copy(data, "blank.txt\x00")
	for i := len("blank.txt\x00"); i < len(data); i++ {
		data[i] = ' '
	}
	require.NotPanics(t, func() {
		name, size := parseYHeader(data)
		require.Equal(t, "blank.txt", name)
		require.Equal(t, int64(0), size)
	})
}

func TestConsumeBlockRejectsBadChecksum(t *testing.T) {
	e := NewReceiver(&fakeSource{}, &Config{Variant: VariantChecksum})
	e.phase = phaseAwaitBlock
	block := make([]byte, 3+128+1)
	block[0] = SOH
	block[1] = 1
	block[2] = 255 - 1
	block[3+128] = 0x00 // wrong checksum: the data filled in below sums to 64 (mod 256)
	for i := 3; i < 3+128; i++ {
		block[i] = byte(i)
	}
	var out bytes.Buffer
	n := e.consumeBlock(block, &out)
	require.Equal(t, len(block), n)
	require.Equal(t, byte(NAK), out.Bytes()[0])
}
