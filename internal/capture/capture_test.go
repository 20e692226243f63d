package capture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"qodem/internal/cellgrid"
)

func TestWriteRawOnlyUnderRawFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.raw")
	f, err := Open(path, FormatRaw)
	require.NoError(t, err)

	require.NoError(t, f.WriteRaw([]byte("hello")))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestWriteRawNoopUnderNormalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.txt")
	f, err := Open(path, FormatNormal)
	require.NoError(t, err)

	require.NoError(t, f.WriteRaw([]byte("should not appear")))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestWriteLineNormalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.txt")
	f, err := Open(path, FormatNormal)
	require.NoError(t, err)

	line := cellgrid.NewLine(4)
	line.Cells[0].Ch = 'h'
	line.Cells[1].Ch = 'i'
	require.NoError(t, f.WriteLine(&line))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hi\n", string(data))
}

func TestHTMLFormatWrapsHeaderAndFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.html")
	f, err := Open(path, FormatHTML)
	require.NoError(t, err)

	line := cellgrid.NewLine(2)
	line.Cells[0].Ch = 'A'
	require.NoError(t, f.WriteLine(&line))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "<!DOCTYPE html>")
	require.Contains(t, string(data), "<span")
	require.Contains(t, string(data), "</html>")
}

func TestFlushIfDirtyRespectsMaxAge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.raw")
	f, err := Open(path, FormatRaw)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.WriteRaw([]byte("x")))
	require.NoError(t, f.FlushIfDirty(time.Hour))
	require.True(t, f.dirty, "should still be dirty: maxAge not elapsed")

	f.lastWrite = time.Now().Add(-time.Hour)
	require.NoError(t, f.FlushIfDirty(time.Minute))
	require.False(t, f.dirty)
}
