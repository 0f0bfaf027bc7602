package zheader

import "github.com/DustinCampbell/ZDebug-sub001/zmem"

// The fields below are written by the interpreter to advertise its capabilities.

func WriteFlags1(m *zmem.Memory, x uint8) error {
	return m.WriteU8(offFlags1, x)
}

func WriteFlags2(m *zmem.Memory, x uint16) error {
	return m.WriteU16(offFlags2, x)
}

func WriteInterpreterNumber(m *zmem.Memory, x uint8) error {
	return m.WriteU8(offInterpreterNumber, x)
}

func WriteInterpreterVersion(m *zmem.Memory, x uint8) error {
	return m.WriteU8(offInterpreterVersion, x)
}

func WriteScreenHeightInLines(m *zmem.Memory, x uint8) error {
	return m.WriteU8(offScreenHeightLines, x)
}

func WriteScreenWidthInColumns(m *zmem.Memory, x uint8) error {
	return m.WriteU8(offScreenWidthColumns, x)
}

func WriteScreenWidthInUnits(m *zmem.Memory, x uint16) error {
	return m.WriteU16(offScreenWidthUnits, x)
}

func WriteScreenHeightInUnits(m *zmem.Memory, x uint16) error {
	return m.WriteU16(offScreenHeightUnits, x)
}

// WriteFontWidthInUnits writes the font width.  Versions 5 and 6 disagree on the byte used.
func WriteFontWidthInUnits(m *zmem.Memory, version uint8, x uint8) error {
	if version == 6 {
		return m.WriteU8(offFontB, x)
	}
	return m.WriteU8(offFontA, x)
}

func WriteFontHeightInUnits(m *zmem.Memory, version uint8, x uint8) error {
	if version == 6 {
		return m.WriteU8(offFontA, x)
	}
	return m.WriteU8(offFontB, x)
}

func WriteDefaultBackgroundColor(m *zmem.Memory, x uint8) error {
	return m.WriteU8(offDefaultBackground, x)
}

func WriteDefaultForegroundColor(m *zmem.Memory, x uint8) error {
	return m.WriteU8(offDefaultForeground, x)
}

func WriteStandardRevision(m *zmem.Memory, major, minor uint8) error {
	return m.WriteU16(offStandardRevision, uint16(major)<<8|uint16(minor))
}
