package capture

import (
	"fmt"
	"strings"

	"qodem/internal/cellgrid"
)

const htmlHeader = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>body{background:#000;color:#aaa;font-family:monospace;white-space:pre}</style></head><body>
`

const htmlFooter = "</body></html>\n"

// palette16 maps a 0-15 cellgrid color index to its CSS color, the standard
// BBS-era 16-color VGA text-mode palette.
var palette16 = [16]string{
	"#000000", "#aa0000", "#00aa00", "#aa5500",
	"#0000aa", "#aa00aa", "#00aaaa", "#aaaaaa",
	"#555555", "#ff5555", "#55ff55", "#ffff55",
	"#5555ff", "#ff55ff", "#55ffff", "#ffffff",
}

func cssColor(idx uint8) string {
	if int(idx) < len(palette16) {
		return palette16[idx]
	}
	return palette16[7]
}

// renderHTMLLine renders one grid line as a run of <span> elements, one per
// maximal run of cells sharing the same foreground/background/attributes.
func renderHTMLLine(line *cellgrid.Line) string {
	var b strings.Builder
	cells := line.Cells
	i := 0
	for i < len(cells) {
		c := cells[i]
		j := i + 1
		for j < len(cells) && sameStyle(cells[j], c) {
			j++
		}
		writeSpan(&b, c, cells[i:j])
		i = j
	}
	return b.String()
}

func sameStyle(a, b cellgrid.Cell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Flags == b.Flags
}

func writeSpan(b *strings.Builder, style cellgrid.Cell, run []cellgrid.Cell) {
	fg, bg := style.FG, style.BG
	if style.HasFlag(cellgrid.FlagReverse) {
		fg, bg = bg, fg
	}
	var css strings.Builder
	fmt.Fprintf(&css, "color:%s;background-color:%s", cssColor(fg), cssColor(bg))
	if style.HasFlag(cellgrid.FlagBold) {
		css.WriteString(";font-weight:bold")
	}
	if style.HasFlag(cellgrid.FlagUnderline) {
		css.WriteString(";text-decoration:underline")
	}
	if style.HasFlag(cellgrid.FlagBlink) {
		css.WriteString(";text-decoration:blink")
	}
	fmt.Fprintf(b, `<span style="%s">`, css.String())
	for _, c := range run {
		if c.IsWideRight() {
			continue
		}
		ch := c.Ch
		if ch == 0 {
			ch = ' '
		}
		b.WriteString(escapeHTML(ch))
	}
	b.WriteString("</span>")
}

func escapeHTML(r rune) string {
	switch r {
	case '<':
		return "&lt;"
	case '>':
		return "&gt;"
	case '&':
		return "&amp;"
	default:
		return string(r)
	}
}
