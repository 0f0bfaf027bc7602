package zvm

import (
	"context"
	"io"

	"github.com/DustinCampbell/ZDebug-sub001/zinstr"
)

// TextStyle is a set of style bits, as used by set_text_style.
type TextStyle uint8

const (
	StyleRoman        TextStyle = 0
	StyleReverseVideo TextStyle = 1
	StyleBold         TextStyle = 2
	StyleItalic       TextStyle = 4
	StyleFixedPitch   TextStyle = 8
)

// Color is a Z-machine colour number.
type Color uint16

const (
	ColorCurrent Color = iota
	ColorDefault
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// Dimensions of the screen, as advertised in the header.
type Dimensions struct {
	HeightInLines  int
	WidthInColumns int
	HeightInUnits  int
	WidthInUnits   int

	FontHeightInUnits int
	FontWidthInUnits  int
}

// StatusLine is the version 1-3 status line.
type StatusLine struct {
	Location string
	// IsTime is true for games which show a clock rather than a score.
	IsTime bool
	Score  int
	Turns  int
	Hours  int
	Mins   int
}

// Screen is implemented by the host to display output.
// Input is not read through the Screen; the machine suspends in the AwaitingInput state instead.
type Screen interface {
	Print(s string)
	SetCursor(line, column int)
	GetCursor() (line, column int)
	// Clear erases a single window.
	Clear(window int)
	// ClearAll erases every window, and unsplits the screen if unsplit is set.
	ClearAll(unsplit bool)
	Split(lines int)
	Unsplit()
	SetWindow(window int)
	ShowStatus(st StatusLine)
	SetTextStyle(style TextStyle)
	// SetFont returns false if the font is not available.
	SetFont(font int) bool
	SetForegroundColor(c Color)
	SetBackgroundColor(c Color)
	EraseLine()
	SetBufferMode(on bool)
	Dimensions() Dimensions
}

type SoundEngine interface {
	HighBeep()
	LowBeep()
}

// MessageLog receives advisory diagnostics which do not stop execution.
type MessageLog interface {
	SendWarning(ins *zinstr.Instruction, text string)
	SendError(ins *zinstr.Instruction, text string)
}

// Snapshotter persists saved games for the save and restore opcodes.
type Snapshotter interface {
	SaveSnapshot(ctx context.Context, data []byte) error
	LoadSnapshot(ctx context.Context) ([]byte, error)
}

// Env is the host environment a Machine runs in.  Any nil field gets a default which discards.
type Env struct {
	Screen    Screen
	Sound     SoundEngine
	Log       MessageLog
	Snapshots Snapshotter
	// Transcript receives output stream 2.
	Transcript io.Writer

	InterpreterNumber  uint8
	InterpreterVersion uint8
	// Seed for the random number generator.  0 seeds from the clock.
	Seed int64
	// UndoDepth is the number of save_undo states kept.  0 means DefaultUndoDepth.
	UndoDepth int
}

const (
	DefaultUndoDepth         = 8
	DefaultInterpreterNumber = 6 // IBM PC
	DefaultInterpreterVer    = 'Z'
)

func (e Env) withDefaults() Env {
	if e.Screen == nil {
		e.Screen = NullScreen{}
	}
	if e.Sound == nil {
		e.Sound = nullSound{}
	}
	if e.Log == nil {
		e.Log = NopLog{}
	}
	if e.UndoDepth <= 0 {
		e.UndoDepth = DefaultUndoDepth
	}
	if e.InterpreterNumber == 0 {
		e.InterpreterNumber = DefaultInterpreterNumber
	}
	if e.InterpreterVersion == 0 {
		e.InterpreterVersion = DefaultInterpreterVer
	}
	return e
}

// NullScreen discards output and reports an 80x25 screen.
type NullScreen struct{}

func (NullScreen) Print(string)             {}
func (NullScreen) SetCursor(int, int)       {}
func (NullScreen) GetCursor() (int, int)    { return 1, 1 }
func (NullScreen) Clear(int)                {}
func (NullScreen) ClearAll(bool)            {}
func (NullScreen) Split(int)                {}
func (NullScreen) Unsplit()                 {}
func (NullScreen) SetWindow(int)            {}
func (NullScreen) ShowStatus(StatusLine)    {}
func (NullScreen) SetTextStyle(TextStyle)   {}
func (NullScreen) SetFont(font int) bool    { return font == 1 }
func (NullScreen) SetForegroundColor(Color) {}
func (NullScreen) SetBackgroundColor(Color) {}
func (NullScreen) EraseLine()               {}
func (NullScreen) SetBufferMode(bool)       {}
func (NullScreen) Dimensions() Dimensions   { return DefaultDimensions() }

func DefaultDimensions() Dimensions {
	return Dimensions{
		HeightInLines:     25,
		WidthInColumns:    80,
		HeightInUnits:     25,
		WidthInUnits:      80,
		FontHeightInUnits: 1,
		FontWidthInUnits:  1,
	}
}

type nullSound struct{}

func (nullSound) HighBeep() {}
func (nullSound) LowBeep()  {}
