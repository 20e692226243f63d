package zmodem

import "encoding/binary"

// encodeDataSubpacket builds one ZDATA payload chunk: the (escaped) payload
// bytes, a ZDLE + end-type marker, and an escaped CRC trailer covering
// payload+endType.
func encodeDataSubpacket(payload []byte, endType byte, use32 bool, mode EscapeMode) []byte {
	out := zdleEscape(payload, mode)
	out = append(out, ZDLE, endType)
	covered := append(append([]byte{}, payload...), endType)
	if use32 {
		crc := crc32Of(covered)
		crcBytes := make([]byte, 4)
		binary.LittleEndian.PutUint32(crcBytes, crc)
		out = append(out, zdleEscape(crcBytes, mode)...)
	} else {
		crc := crc16(covered)
		out = append(out, zdleEscape([]byte{byte(crc >> 8), byte(crc)}, mode)...)
	}
	return out
}

// decodeDataSubpacket scans buf for one complete data subpacket starting at
// buf[0]: payload bytes up to an unescaped ZDLE+endType marker, followed by
// its escaped CRC trailer. Returns ok=false if buf doesn't yet contain a
// complete subpacket (caller should wait for more inbound bytes).
func decodeDataSubpacket(buf []byte, use32 bool) (payload []byte, endType byte, consumed int, ok bool) {
	crcLen := 2
	if use32 {
		crcLen = 4
	}
	var out []byte
	i := 0
	for i < len(buf) {
		if buf[i] == ZDLE {
			if i+1 >= len(buf) {
				return nil, 0, 0, false
			}
			switch buf[i+1] {
			case ZCRCE, ZCRCG, ZCRCQ, ZCRCW:
				et := buf[i+1]
				crcStart := i + 2
				crcRaw, n, ok2 := unescapeN(buf[crcStart:], crcLen)
				if !ok2 {
					return nil, 0, 0, false
				}
				covered := append(append([]byte{}, out...), et)
				if use32 {
					want := crc32Of(covered)
					got := binary.LittleEndian.Uint32(crcRaw)
					if want != got {
						return nil, 0, 0, false
					}
				} else {
					want := crc16(covered)
					got := uint16(crcRaw[0])<<8 | uint16(crcRaw[1])
					if want != got {
						return nil, 0, 0, false
					}
				}
				return out, et, crcStart + n, true
			default:
				if i+1 >= len(buf) {
					return nil, 0, 0, false
				}
				out = append(out, buf[i+1]^0x40)
				i += 2
				continue
			}
		}
		out = append(out, buf[i])
		i++
	}
	return nil, 0, 0, false
}

// unescapeN reads exactly n logical (post-unescape) bytes from the front of
// buf, returning the unescaped bytes and how many raw bytes were consumed.
func unescapeN(buf []byte, n int) ([]byte, int, bool) {
	out := make([]byte, 0, n)
	i := 0
	for len(out) < n {
		if i >= len(buf) {
			return nil, 0, false
		}
		if buf[i] == ZDLE {
			if i+1 >= len(buf) {
				return nil, 0, false
			}
			out = append(out, buf[i+1]^0x40)
			i += 2
			continue
		}
		out = append(out, buf[i])
		i++
	}
	return out, i, true
}
