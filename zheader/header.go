package zheader

import (
	"errors"

	"github.com/DustinCampbell/ZDebug-sub001/zmem"
)

// Header is a snapshot of the header fields, for display.
// The interpreter itself reads fields on demand.
type Header struct {
	Version            uint8
	Flags1             uint8
	ReleaseNumber      uint16
	SerialNumber       string
	HighMemoryBase     uint16
	InitialPC          uint16
	Dictionary         uint16
	ObjectTable        uint16
	Globals            uint16
	StaticMemoryBase   uint16
	Flags2             uint16
	Abbreviations      uint16
	FileSize           int
	Checksum           uint16
	RoutinesOffset     uint16
	StringsOffset      uint16
	TerminatingChars   uint16
	AlphabetTable      uint16
	HeaderExtension    uint16
	UnicodeTranslation uint16
	InformVersion      string
	StandardRevision   uint16
	InterpreterNumber  uint8
	InterpreterVersion uint8
}

// Read reads every header field from m.
func Read(m *zmem.Memory) (*Header, error) {
	if m.Size() < Size {
		return nil, zmem.ErrOutOfBounds{Addr: 0, Len: Size, Size: m.Size()}
	}
	var h Header
	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	var err error
	h.Version, err = ReadVersion(m)
	if err != nil {
		return nil, err
	}
	h.Flags1, err = ReadFlags1(m)
	keep(err)
	h.ReleaseNumber, err = ReadReleaseNumber(m)
	keep(err)
	h.SerialNumber, err = ReadSerialNumberText(m)
	keep(err)
	h.HighMemoryBase, err = ReadHighMemoryBase(m)
	keep(err)
	h.InitialPC, err = ReadInitialPC(m)
	keep(err)
	h.Dictionary, err = ReadDictionaryAddress(m)
	keep(err)
	h.ObjectTable, err = ReadObjectTableAddress(m)
	keep(err)
	h.Globals, err = ReadGlobalVariableTableAddress(m)
	keep(err)
	h.StaticMemoryBase, err = ReadStaticMemoryBase(m)
	keep(err)
	h.Flags2, err = ReadFlags2(m)
	keep(err)
	h.Abbreviations, err = ReadAbbreviationsTableAddress(m)
	keep(err)
	h.FileSize, err = ReadFileSize(m)
	keep(err)
	h.Checksum, err = ReadChecksum(m)
	keep(err)
	h.InterpreterNumber, err = ReadInterpreterNumber(m)
	keep(err)
	h.InterpreterVersion, err = ReadInterpreterVersion(m)
	keep(err)
	h.StandardRevision, err = ReadStandardRevision(m)
	keep(err)
	if h.Version >= 5 {
		h.TerminatingChars, err = ReadTerminatingCharactersTableAddress(m)
		keep(err)
		h.AlphabetTable, err = ReadAlphabetTableAddress(m)
		keep(err)
		h.HeaderExtension, err = ReadHeaderExtensionTableAddress(m)
		keep(err)
		h.UnicodeTranslation, err = ReadUnicodeTranslationTableAddress(m)
		keep(err)
	}
	if h.Version == 6 || h.Version == 7 {
		h.RoutinesOffset, err = ReadRoutinesOffset(m)
		keep(err)
		h.StringsOffset, err = ReadStringsOffset(m)
		keep(err)
	}
	if text, ok, err := ReadInformVersionText(m); err == nil && ok {
		h.InformVersion = text
	}
	return &h, errors.Join(errs...)
}
