package ztext

// DictionaryResolution is the number of Z-characters stored for a dictionary word.
func DictionaryResolution(version uint8) int {
	if version <= 3 {
		return 6
	}
	return 9
}

// EncodeWord encodes ZSCII text the way dictionary words are encoded:
// truncated or padded to the dictionary resolution, with the top bit set on the last word.
func (c *Codec) EncodeWord(zscii []byte) []uint16 {
	n := DictionaryResolution(c.version)
	zchars := make([]uint8, 0, n)
	for _, z := range zscii {
		if len(zchars) >= n {
			break
		}
		zchars = append(zchars, c.encodeChar(z)...)
	}
	if len(zchars) > n {
		zchars = zchars[:n]
	}
	for len(zchars) < n {
		zchars = append(zchars, 5)
	}
	ws := make([]uint16, n/3)
	for i := range ws {
		ws[i] = uint16(zchars[3*i])<<10 | uint16(zchars[3*i+1])<<5 | uint16(zchars[3*i+2])
	}
	ws[len(ws)-1] |= 0x8000
	return ws
}

func (c *Codec) encodeChar(z byte) []uint8 {
	if z == ' ' {
		return []uint8{0}
	}
	for alpha := range c.alphabets {
		for i, x := range c.alphabets[alpha] {
			if alpha == 2 && (i == 0 || (i == 1 && c.version >= 2)) {
				// escape and newline
				continue
			}
			if x != z {
				continue
			}
			if alpha == 0 {
				return []uint8{uint8(i + 6)}
			}
			return []uint8{c.shift(alpha), uint8(i + 6)}
		}
	}
	return []uint8{c.shift(2), 6, z >> 5, z & 0x1f}
}

// shift returns the Z-character which shifts to alpha for one character.
func (c *Codec) shift(alpha int) uint8 {
	if c.version <= 2 {
		return uint8(alpha + 1)
	}
	return uint8(alpha + 3)
}
