/*
 * nosshtradamus: predictive terminal emulation for SSH
 * Copyright 2019-2023 Daniel Selifonov
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package transport

import (
	"bytes"
	"encoding/binary"
)

// ptyRequest is the SSH pty-req channel-request payload (RFC 4254 §6.2).
type ptyRequest struct {
	Term            string
	Width, Height   uint32
	PixelW, PixelH  uint32
	Modes           []byte
}

// encodePtyReq builds the payload for an outbound "pty-req" channel request,
// the client side of the decode this package's predecessor only ever did
// for a relayed server connection.
func encodePtyReq(term string, cols, rows int) []byte {
	buf := &bytes.Buffer{}
	writeSSHString(buf, term)
	_ = binary.Write(buf, binary.BigEndian, uint32(cols))
	_ = binary.Write(buf, binary.BigEndian, uint32(rows))
	_ = binary.Write(buf, binary.BigEndian, uint32(cols*8))
	_ = binary.Write(buf, binary.BigEndian, uint32(rows*8))
	writeSSHString(buf, "") // empty encoded terminal modes
	return buf.Bytes()
}

func writeSSHString(buf *bytes.Buffer, s string) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(s)))
	buf.WriteString(s)
}

// windowChange is the SSH window-change channel-request payload.
type windowChange struct {
	Width, Height uint32
}

// encodeWindowChange builds the payload for an outbound "window-change"
// channel request, with the pixel-unit fields set to eight times the
// character width and height.
func encodeWindowChange(cols, rows int) []byte {
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.BigEndian, uint32(cols))
	_ = binary.Write(buf, binary.BigEndian, uint32(rows))
	_ = binary.Write(buf, binary.BigEndian, uint32(cols*8))
	_ = binary.Write(buf, binary.BigEndian, uint32(rows*8))
	return buf.Bytes()
}
