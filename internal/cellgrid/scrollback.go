package cellgrid

// Scrollback is the append-only history of retired screen lines. Lines are
// appended oldest-to-newest; once the configured cap is exceeded the oldest
// line is retired first. A cap of 0 means unlimited.
type Scrollback struct {
	lines []Line
	cap   int
}

// NewScrollback returns a Scrollback bounded to maxLines (0 = unlimited).
func NewScrollback(maxLines int) *Scrollback {
	return &Scrollback{cap: maxLines}
}

// Append adds a retired line, evicting the oldest line(s) if the cap is exceeded.
func (s *Scrollback) Append(l Line) {
	s.lines = append(s.lines, l)
	if s.cap > 0 {
		if over := len(s.lines) - s.cap; over > 0 {
			s.lines = s.lines[over:]
		}
	}
}

// Len reports the number of retired lines currently held.
func (s *Scrollback) Len() int { return len(s.lines) }

// Line returns the line at the given index (0 = oldest).
func (s *Scrollback) Line(index int) (Line, bool) {
	if index < 0 || index >= len(s.lines) {
		return Line{}, false
	}
	return s.lines[index], true
}

// SetMaxLines changes the cap, immediately evicting the oldest lines if the
// new cap is smaller than the current length. 0 disables the cap.
func (s *Scrollback) SetMaxLines(maxLines int) {
	s.cap = maxLines
	if s.cap > 0 {
		if over := len(s.lines) - s.cap; over > 0 {
			s.lines = s.lines[over:]
		}
	}
}

// MaxLines reports the current cap (0 = unlimited).
func (s *Scrollback) MaxLines() int { return s.cap }

// Clear discards all retired lines without changing the cap.
func (s *Scrollback) Clear() { s.lines = nil }

// Lines returns all retired lines oldest-first. Callers must not mutate the
// returned slice in place; it aliases the Scrollback's internal storage.
func (s *Scrollback) Lines() []Line { return s.lines }

// SaveNormal renders every retired line as newline-terminated text, for the
// "normal" scrollback-save format. Round-tripping this output back through a
// line-splitter reproduces the same per-line text.
func (s *Scrollback) SaveNormal() string {
	out := make([]byte, 0, len(s.lines)*81)
	for i := range s.lines {
		out = append(out, s.lines[i].Text()...)
		out = append(out, '\n')
	}
	return string(out)
}
