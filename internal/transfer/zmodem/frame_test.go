package zmodem

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRC16KnownVector(t *testing.T) {
	require.Equal(t, uint16(0x31c3), crc16([]byte("123456789")))
}

func TestCRC32IsComplementOfIEEE(t *testing.T) {
	data := []byte("123456789")
	require.NotEqual(t, uint32(0), crc32Of(data))
	require.Equal(t, ^crc32.ChecksumIEEE(data), crc32Of(data))
}

func TestHexHeaderRoundTrip(t *testing.T) {
	h := headerWithUint32(ZFILE, 0x01020304)
	encoded := encodeHexHeader(h)

	decoded, n, ok := decodeHexHeader(encoded)
	require.True(t, ok)
	require.Equal(t, len(encoded), n)
	require.Equal(t, h.Type, decoded.Type)
	require.Equal(t, h.Uint32(), decoded.Uint32())
}

func TestDecodeHexHeaderRejectsBadCRC(t *testing.T) {
	h := headerWithUint32(ZRPOS, 42)
	encoded := encodeHexHeader(h)
	encoded[len(encoded)-3] ^= 0xff // corrupt a CRC hex digit

	_, _, ok := decodeHexHeader(encoded)
	require.False(t, ok)
}

func TestDecodeHexHeaderNeedsFullBuffer(t *testing.T) {
	h := headerWithUint32(ZDATA, 7)
	encoded := encodeHexHeader(h)

	_, _, ok := decodeHexHeader(encoded[:len(encoded)-5])
	require.False(t, ok)
}

func TestZdleEscapeUnescapeRoundTrip(t *testing.T) {
	data := []byte{0x11, 0x13, 0x10, 0x0d, 'a', ZDLE, 'z'}
	escaped := zdleEscape(data, EscapeStandard)
	require.Contains(t, escaped, byte(ZDLE))

	unescaped, ok := zdleUnescape(escaped)
	require.True(t, ok)
	require.Equal(t, data, unescaped)
}

func TestZdleUnescapeDetectsTrailingEscape(t *testing.T) {
	_, ok := zdleUnescape([]byte{'a', ZDLE})
	require.False(t, ok)
}

func TestNeedsEscapeModes(t *testing.T) {
	require.True(t, needsEscape(ZDLE, EscapeMinimal))
	require.False(t, needsEscape(0x01, EscapeMinimal))
	require.True(t, needsEscape(0x01, EscapeAll))
	require.True(t, needsEscape(0x11, EscapeStandard))
	require.False(t, needsEscape(0x05, EscapeStandard))
}

func TestDataSubpacketRoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps, with a \x18 byte that needs escaping")
	encoded := encodeDataSubpacket(payload, ZCRCW, false, EscapeStandard)

	got, endType, consumed, ok := decodeDataSubpacket(encoded, false)
	require.True(t, ok)
	require.Equal(t, payload, got)
	require.Equal(t, byte(ZCRCW), endType)
	require.Equal(t, len(encoded), consumed)
}

func TestDataSubpacketRoundTrip32BitCRC(t *testing.T) {
	payload := []byte("0123456789")
	encoded := encodeDataSubpacket(payload, ZCRCE, true, EscapeStandard)

	got, endType, consumed, ok := decodeDataSubpacket(encoded, true)
	require.True(t, ok)
	require.Equal(t, payload, got)
	require.Equal(t, byte(ZCRCE), endType)
	require.Equal(t, len(encoded), consumed)
}

func TestDataSubpacketIncompleteReturnsNotOK(t *testing.T) {
	payload := []byte("hello")
	encoded := encodeDataSubpacket(payload, ZCRCW, false, EscapeStandard)

	_, _, _, ok := decodeDataSubpacket(encoded[:len(encoded)-2], false)
	require.False(t, ok)
}
