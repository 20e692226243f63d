package transport

import (
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"

	"qodem/internal/ioerr"
)

// LocalProcess runs a command (the user's shell, or a configured
// co-process) attached to a pty, for the "run a local program instead of
// dialing out" connection method.
type LocalProcess struct {
	cmd      *exec.Cmd
	pty      *os.File
	pushback []byte
}

// StartLocalProcess spawns name/args attached to a new pty of the given
// geometry.
func StartLocalProcess(name string, args []string, cols, rows int) (*LocalProcess, error) {
	cmd := exec.Command(name, args...)
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return nil, err
	}
	return &LocalProcess{cmd: cmd, pty: f}, nil
}

func (l *LocalProcess) Read(p []byte) (int, error) {
	if len(l.pushback) > 0 {
		n := copy(p, l.pushback)
		l.pushback = l.pushback[n:]
		return n, nil
	}
	_ = l.pty.SetReadDeadline(time.Now().Add(time.Millisecond))
	n, err := l.pty.Read(p)
	if err != nil {
		if os.IsTimeout(err) {
			return n, ioerr.ErrWouldBlock
		}
		return n, ioerr.ErrEOF
	}
	return n, nil
}

func (l *LocalProcess) Write(p []byte) (int, error) {
	n, err := l.pty.Write(p)
	if err != nil {
		return n, ioerr.ErrOther
	}
	return n, nil
}

func (l *LocalProcess) PollReadable(timeout time.Duration) bool {
	if len(l.pushback) > 0 {
		return true
	}
	_ = l.pty.SetReadDeadline(time.Now().Add(timeout))
	one := make([]byte, 1)
	n, err := l.pty.Read(one)
	_ = l.pty.SetReadDeadline(time.Time{})
	if n > 0 {
		l.pushback = append(l.pushback, one[:n]...)
		return true
	}
	return err == nil
}

func (l *LocalProcess) IsConnected() bool {
	return l.cmd.ProcessState == nil
}

func (l *LocalProcess) Close() error {
	_ = l.pty.Close()
	if l.cmd.Process != nil {
		_ = l.cmd.Process.Kill()
	}
	return nil
}

func (l *LocalProcess) CloseGraceful() error {
	return l.pty.Close()
}

// Resize applies a new pty window size (TIOCSWINSZ).
func (l *LocalProcess) Resize(cols, rows int) error {
	return pty.Setsize(l.pty, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}
