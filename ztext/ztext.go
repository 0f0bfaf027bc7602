// package ztext converts between Z-text, ZSCII and unicode.
package ztext

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zmem"
)

// Codec decodes and encodes Z-text for a particular story.
// It reads the alphabet, abbreviation and unicode tables once, when created.
type Codec struct {
	m       *zmem.Memory
	version uint8

	alphabets     alphabets
	abbreviations int
	extra         []rune
	fromUnicode   map[rune]uint16
}

func NewCodec(m *zmem.Memory) (*Codec, error) {
	v, err := zheader.ReadVersion(m)
	if err != nil {
		return nil, err
	}
	c := &Codec{
		m:         m,
		version:   v,
		alphabets: defaultAlphabets(v),
		extra:     defaultExtraChars,
	}
	if v >= 2 {
		abbrevs, err := zheader.ReadAbbreviationsTableAddress(m)
		if err != nil {
			return nil, err
		}
		c.abbreviations = int(abbrevs)
	}
	if v >= 5 {
		if err := c.loadAlphabetTable(); err != nil {
			return nil, err
		}
		if err := c.loadUnicodeTable(); err != nil {
			return nil, err
		}
	}
	c.fromUnicode = make(map[rune]uint16, len(c.extra))
	for i, r := range c.extra {
		c.fromUnicode[r] = uint16(ZSCIIFirstExtra + i)
	}
	return c, nil
}

func (c *Codec) loadAlphabetTable() error {
	addr, err := zheader.ReadAlphabetTableAddress(c.m)
	if err != nil || addr == 0 {
		return err
	}
	data, err := c.m.ReadBytes(int(addr), 3*26)
	if err != nil {
		return fmt.Errorf("ztext: reading alphabet table: %w", err)
	}
	for i := range c.alphabets {
		copy(c.alphabets[i][:], data[26*i:])
	}
	// A2 escape and newline cannot be redefined
	c.alphabets[2][0], c.alphabets[2][1] = ' ', '\n'
	return nil
}

func (c *Codec) loadUnicodeTable() error {
	addr, err := zheader.ReadUnicodeTranslationTableAddress(c.m)
	if err != nil || addr == 0 {
		return err
	}
	n, err := c.m.ReadU8(int(addr))
	if err != nil {
		return err
	}
	ws, err := c.m.ReadWords(int(addr)+1, int(n))
	if err != nil {
		return fmt.Errorf("ztext: reading unicode table: %w", err)
	}
	c.extra = make([]rune, len(ws))
	for i, w := range ws {
		c.extra[i] = rune(w)
	}
	return nil
}

func (c *Codec) Version() uint8 {
	return c.version
}

// ReadWords reads Z-text words at addr, up to and including the word with the top bit set.
func (c *Codec) ReadWords(addr int) ([]uint16, error) {
	r, err := c.m.NewReader(addr)
	if err != nil {
		return nil, err
	}
	var ws []uint16
	for {
		w, err := r.NextU16()
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)
		if w&0x8000 != 0 {
			return ws, nil
		}
	}
}

// DecodeAt decodes the string at addr. It also returns the length of the encoded string in bytes.
func (c *Codec) DecodeAt(addr int) (string, int, error) {
	ws, err := c.ReadWords(addr)
	if err != nil {
		return "", 0, err
	}
	s, err := c.Decode(ws)
	return s, 2 * len(ws), err
}

// Decode decodes Z-text words into a unicode string.
func (c *Codec) Decode(ws []uint16) (string, error) {
	zscii, err := c.DecodeZSCII(ws)
	if err != nil {
		return "", err
	}
	return c.ZSCIIString(zscii), nil
}

// ZSCIIString converts ZSCII codes to a string. Codes with no output are dropped.
func (c *Codec) ZSCIIString(zscii []uint16) string {
	var sb strings.Builder
	for _, z := range zscii {
		if r, ok := c.ZSCIIToRune(z); ok {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// DecodeZSCII decodes Z-text words into ZSCII codes, expanding abbreviations.
func (c *Codec) DecodeZSCII(ws []uint16) ([]uint16, error) {
	return c.decode(ws, true)
}

func (c *Codec) decode(ws []uint16, allowAbbrevs bool) ([]uint16, error) {
	zchars := make([]uint8, 0, 3*len(ws))
	for _, w := range ws {
		zchars = append(zchars, uint8(w>>10)&0x1f, uint8(w>>5)&0x1f, uint8(w)&0x1f)
	}

	var out []uint16
	var lock, current int
	for i := 0; i < len(zchars); i++ {
		z := zchars[i]
		alpha := current
		current = lock
		switch {
		case z == 0:
			out = append(out, ' ')
		case z == 1 && c.version == 1:
			out = append(out, ZSCIINewline)
		case z <= 3 && (z == 1 || c.version >= 3):
			// abbreviation
			if i+1 >= len(zchars) {
				return out, nil
			}
			i++
			if !allowAbbrevs {
				continue
			}
			expanded, err := c.abbreviation(32*(int(z)-1) + int(zchars[i]))
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		case z <= 5 && c.version >= 3:
			current = int(z) - 3
		case z <= 5:
			// versions 1 and 2 shift relative to the locked alphabet
			switch z {
			case 2:
				current = (lock + 1) % 3
			case 3:
				current = (lock + 2) % 3
			case 4:
				lock = (lock + 1) % 3
				current = lock
			case 5:
				lock = (lock + 2) % 3
				current = lock
			}
		case alpha == 2 && z == 6:
			if i+2 >= len(zchars) {
				return out, nil
			}
			out = append(out, uint16(zchars[i+1])<<5|uint16(zchars[i+2]))
			i += 2
		case alpha == 2 && z == 7 && c.version >= 2:
			out = append(out, ZSCIINewline)
		default:
			out = append(out, uint16(c.alphabets[alpha][z-6]))
		}
	}
	return out, nil
}

func (c *Codec) abbreviation(index int) ([]uint16, error) {
	if c.abbreviations == 0 {
		return nil, fmt.Errorf("ztext: abbreviation %d used but story has no abbreviation table", index)
	}
	wordAddr, err := c.m.ReadU16(c.abbreviations + 2*index)
	if err != nil {
		return nil, err
	}
	ws, err := c.ReadWords(2 * int(wordAddr))
	if err != nil {
		return nil, err
	}
	return c.decode(ws, false)
}

// ZSCIIToRune converts an output ZSCII code to unicode.
func (c *Codec) ZSCIIToRune(z uint16) (rune, bool) {
	switch {
	case z == ZSCIINewline:
		return '\n', true
	case z == ZSCIITab:
		return '\t', true
	case z == ZSCIISentenceSpace:
		return ' ', true
	case z >= 32 && z <= 126:
		return rune(z), true
	case z >= ZSCIIFirstExtra && int(z-ZSCIIFirstExtra) < len(c.extra):
		return c.extra[z-ZSCIIFirstExtra], true
	default:
		return 0, false
	}
}

// RuneToZSCII converts unicode to an input ZSCII code.
func (c *Codec) RuneToZSCII(r rune) (uint16, bool) {
	switch {
	case r == '\n' || r == '\r':
		return ZSCIINewline, true
	case r == '\b' || r == 0x7f:
		return ZSCIIDelete, true
	case r == 0x1b:
		return ZSCIIEscape, true
	case r >= 32 && r <= 126:
		return uint16(r), true
	}
	z, ok := c.fromUnicode[r]
	return z, ok
}

// ToZSCII converts s to lowercase ZSCII, the way input is stored in a text buffer.
// Characters with no ZSCII equivalent become '?'.
func (c *Codec) ToZSCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		z, ok := c.RuneToZSCII(unicode.ToLower(r))
		if !ok || z > 0xff {
			z = '?'
		}
		out = append(out, byte(z))
	}
	return out
}
