// package zheader reads and writes the fixed layout header at the start of a story file.
package zheader

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/zmem"
)

// Size is the size of the header in bytes.
const Size = 0x40

// Offsets of header fields.
const (
	offVersion             = 0x00
	offFlags1              = 0x01
	offReleaseNumber       = 0x02
	offHighMemoryBase      = 0x04
	offInitialPC           = 0x06
	offDictionary          = 0x08
	offObjectTable         = 0x0A
	offGlobals             = 0x0C
	offStaticMemoryBase    = 0x0E
	offFlags2              = 0x10
	offSerialNumber        = 0x12
	offAbbreviations       = 0x18
	offFileSize            = 0x1A
	offChecksum            = 0x1C
	offInterpreterNumber   = 0x1E
	offInterpreterVersion  = 0x1F
	offScreenHeightLines   = 0x20
	offScreenWidthColumns  = 0x21
	offScreenWidthUnits    = 0x22
	offScreenHeightUnits   = 0x24
	offFontA               = 0x26
	offFontB               = 0x27
	offRoutinesOffset      = 0x28
	offStringsOffset       = 0x2A
	offDefaultBackground   = 0x2C
	offDefaultForeground   = 0x2D
	offTerminatingChars    = 0x2E
	offStandardRevision    = 0x32
	offAlphabetTable       = 0x34
	offHeaderExtension     = 0x36
	offInformVersion       = 0x3C
	extUnicodeTranslation  = 3
	serialNumberLength     = 6
	informVersionLength    = 4
	checksumStart          = 0x40
	maxSupportedVersion    = 8
	minSupportedVersion    = 1
	flags2TranscriptingBit = 0x0001
	flags2FixedPitchBit    = 0x0002
)

// Flags 2 bits which an interpreter must preserve over a restart.
const Flags2RestartMask uint16 = flags2TranscriptingBit | flags2FixedPitchBit

type ErrUnsupportedVersion struct {
	Version uint8
}

func (e ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("zheader: unsupported story version %d", e.Version)
}

func ReadVersion(m *zmem.Memory) (uint8, error) {
	v, err := m.ReadU8(offVersion)
	if err != nil {
		return 0, err
	}
	if v < minSupportedVersion || v > maxSupportedVersion {
		return 0, ErrUnsupportedVersion{Version: v}
	}
	return v, nil
}

func ReadFlags1(m *zmem.Memory) (uint8, error) {
	return m.ReadU8(offFlags1)
}

func ReadReleaseNumber(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offReleaseNumber)
}

func ReadHighMemoryBase(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offHighMemoryBase)
}

// ReadInitialPC returns the initial program counter.
// For version 6 this is the packed address of the main routine.
func ReadInitialPC(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offInitialPC)
}

func ReadDictionaryAddress(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offDictionary)
}

func ReadObjectTableAddress(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offObjectTable)
}

func ReadGlobalVariableTableAddress(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offGlobals)
}

func ReadStaticMemoryBase(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offStaticMemoryBase)
}

func ReadFlags2(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offFlags2)
}

func ReadSerialNumberText(m *zmem.Memory) (string, error) {
	data, err := m.ReadBytes(offSerialNumber, serialNumberLength)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ReadAbbreviationsTableAddress(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offAbbreviations)
}

// ReadFileSize returns the length of the story file in bytes.
// The header stores the length divided by a version dependent constant.
func ReadFileSize(m *zmem.Memory) (int, error) {
	v, err := ReadVersion(m)
	if err != nil {
		return 0, err
	}
	raw, err := m.ReadU16(offFileSize)
	if err != nil {
		return 0, err
	}
	return int(raw) * fileSizeMultiplier(v), nil
}

func fileSizeMultiplier(v uint8) int {
	switch {
	case v <= 3:
		return 2
	case v <= 5:
		return 4
	default:
		return 8
	}
}

func ReadChecksum(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offChecksum)
}

func ReadInterpreterNumber(m *zmem.Memory) (uint8, error) {
	return m.ReadU8(offInterpreterNumber)
}

func ReadInterpreterVersion(m *zmem.Memory) (uint8, error) {
	return m.ReadU8(offInterpreterVersion)
}

func ReadRoutinesOffset(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offRoutinesOffset)
}

func ReadStringsOffset(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offStringsOffset)
}

func ReadTerminatingCharactersTableAddress(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offTerminatingChars)
}

func ReadStandardRevision(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offStandardRevision)
}

func ReadAlphabetTableAddress(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offAlphabetTable)
}

func ReadHeaderExtensionTableAddress(m *zmem.Memory) (uint16, error) {
	return m.ReadU16(offHeaderExtension)
}

// ReadUnicodeTranslationTableAddress returns the address of the unicode translation table,
// or 0 if the story does not provide one.
func ReadUnicodeTranslationTableAddress(m *zmem.Memory) (uint16, error) {
	ext, err := ReadHeaderExtensionTableAddress(m)
	if err != nil || ext == 0 {
		return 0, err
	}
	n, err := m.ReadU16(int(ext))
	if err != nil {
		return 0, err
	}
	if n < extUnicodeTranslation {
		return 0, nil
	}
	return m.ReadU16(int(ext) + 2*extUnicodeTranslation)
}

// ReadInformVersionText returns the compiler version stamped by Inform, e.g. "6.21".
// ok is false if the field does not look like an Inform version.
func ReadInformVersionText(m *zmem.Memory) (text string, ok bool, err error) {
	data, err := m.ReadBytes(offInformVersion, informVersionLength)
	if err != nil {
		return "", false, err
	}
	for _, b := range data {
		if b != '.' && (b < '0' || b > '9') {
			return "", false, nil
		}
	}
	return string(data), true, nil
}

// UnpackRoutineAddress converts a packed routine address into a byte address.
func UnpackRoutineAddress(m *zmem.Memory, packed uint16) (int, error) {
	return unpack(m, packed, offRoutinesOffset)
}

// UnpackStringAddress converts a packed string address into a byte address.
func UnpackStringAddress(m *zmem.Memory, packed uint16) (int, error) {
	return unpack(m, packed, offStringsOffset)
}

func unpack(m *zmem.Memory, packed uint16, offsetField int) (int, error) {
	v, err := ReadVersion(m)
	if err != nil {
		return 0, err
	}
	switch v {
	case 1, 2, 3:
		return 2 * int(packed), nil
	case 4, 5:
		return 4 * int(packed), nil
	case 6, 7:
		off, err := m.ReadU16(offsetField)
		if err != nil {
			return 0, err
		}
		return 4*int(packed) + 8*int(off), nil
	default:
		return 8 * int(packed), nil
	}
}
