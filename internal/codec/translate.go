package codec

// TranslateTable is one direction of an 8-bit translate table: a
// 256-to-256 byte remap, applied once per byte.
type TranslateTable [256]byte

// IdentityTable returns a translate table that passes every byte through
// unchanged — the documented default for both input and output tables.
func IdentityTable() TranslateTable {
	var t TranslateTable
	for i := range t {
		t[i] = byte(i)
	}
	return t
}

// Apply remaps a single byte through the table.
func (t *TranslateTable) Apply(b byte) byte { return t[b] }

// ApplyAll remaps every byte of p in place and returns it. Applying the
// identity table twice is the identity; for any other table, re-running
// this over bytes already translated remaps them a second time.
func (t *TranslateTable) ApplyAll(p []byte) []byte {
	for i, b := range p {
		p[i] = t[b]
	}
	return p
}

// Set installs a single byte->byte override.
func (t *TranslateTable) Set(from, to byte) { t[from] = to }

// UnicodeOverrides is a finite set of scalar->scalar overrides applied when
// rendering a decoded codepoint into the cell grid.
type UnicodeOverrides map[rune]rune

// Apply returns the overridden rune, or r unchanged if no override exists.
func (u UnicodeOverrides) Apply(r rune) rune {
	if u == nil {
		return r
	}
	if o, ok := u[r]; ok {
		return o
	}
	return r
}

// Codec bundles the input/output translate tables, a codepage, and unicode
// overrides into a single decode pipeline: the input table runs before bytes
// reach the emulator, the codepage maps the (possibly-translated) byte to a
// Unicode scalar, and the unicode overrides apply last, just before the
// scalar is written into the cell grid.
type Codec struct {
	In, Out   TranslateTable
	Page      Codepage
	Overrides UnicodeOverrides
}

// NewCodec returns a Codec with identity translate tables and the named codepage.
func NewCodec(pageName string) *Codec {
	return &Codec{
		In:   IdentityTable(),
		Out:  IdentityTable(),
		Page: ByName(pageName),
	}
}

// Decode maps one inbound byte to the Unicode scalar that should be written
// into the cell grid, applying the input translate table, then the
// codepage, then any unicode override.
func (c *Codec) Decode(b byte) rune {
	b = c.In.Apply(b)
	r := c.Page[b]
	return c.Overrides.Apply(r)
}

// EncodeOut applies the output translate table exactly once to bytes about
// to be queued for the wire.
func (c *Codec) EncodeOut(p []byte) []byte {
	return c.Out.ApplyAll(p)
}
