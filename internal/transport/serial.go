package transport

import (
	"time"

	serial "github.com/daedaluz/goserial"

	"qodem/internal/ioerr"
)

// Serial is the direct-dial-into-a-modem connection method: a local serial
// device opened raw, with a caller-selected baud rate and no telnet-style
// option negotiation.
type Serial struct {
	port      *serial.Port
	connected bool
	pushback  []byte
}

// baudFlag maps a numeric baud rate to the termios CFlag constant goserial
// expects; unrecognized rates fall back to 38400, the default BBS-era speed.
func baudFlag(rate int) serial.CFlag {
	switch rate {
	case 9600:
		return serial.B9600
	case 19200:
		return serial.B19200
	case 38400:
		return serial.B38400
	case 115200:
		return serial.B115200
	default:
		return serial.B38400
	}
}

// OpenSerial opens device at the given baud rate, puts it in raw mode, and
// sets a short read timeout so Read never blocks the dispatcher.
func OpenSerial(device string, baud int) (*Serial, error) {
	opts := serial.NewOptions().SetReadTimeout(time.Millisecond)
	port, err := serial.Open(device, opts)
	if err != nil {
		return nil, err
	}
	if err := port.MakeRaw(); err != nil {
		_ = port.Close()
		return nil, err
	}
	attrs, err := port.GetAttr()
	if err == nil {
		attrs.Cflag = (attrs.Cflag &^ 0000017) | baudFlag(baud)
		_ = port.SetAttr(serial.TCSANOW, attrs)
	}
	return &Serial{port: port, connected: true}, nil
}

func (s *Serial) Read(p []byte) (int, error) {
	if len(s.pushback) > 0 {
		n := copy(p, s.pushback)
		s.pushback = s.pushback[n:]
		return n, nil
	}
	n, err := s.port.ReadTimeout(p, time.Millisecond)
	if err != nil {
		return n, ioerr.ErrWouldBlock
	}
	if n == 0 {
		return 0, ioerr.ErrWouldBlock
	}
	return n, nil
}

func (s *Serial) Write(p []byte) (int, error) {
	n, err := s.port.Write(p)
	if err != nil {
		s.connected = false
		return n, ioerr.ErrOther
	}
	return n, nil
}

func (s *Serial) PollReadable(timeout time.Duration) bool {
	if len(s.pushback) > 0 {
		return true
	}
	one := make([]byte, 1)
	n, err := s.port.ReadTimeout(one, timeout)
	if n > 0 && err == nil {
		s.pushback = append(s.pushback, one[:n]...)
		return true
	}
	return false
}

func (s *Serial) IsConnected() bool    { return s.connected }
func (s *Serial) Close() error         { s.connected = false; return s.port.Close() }
func (s *Serial) CloseGraceful() error { return s.Close() }
