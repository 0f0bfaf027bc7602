// Package zterm displays a running story on an ANSI terminal.
package zterm

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/DustinCampbell/ZDebug-sub001/zvm"
)

const csi = "\x1b["

var (
	_ zvm.Screen      = &Terminal{}
	_ zvm.SoundEngine = &Terminal{}
)

// Terminal is a zvm.Screen which writes ANSI escape sequences.
// Window 0 scrolls below the upper window, window 1 is addressed by cursor position.
type Terminal struct {
	w    io.Writer
	dims zvm.Dimensions

	window int
	upper  int
	// cursor within the upper window, 1-based
	line, col int
	style     zvm.TextStyle
	fg, bg    zvm.Color
}

// New returns a Terminal writing to w which reports dims to the story.
func New(w io.Writer, dims zvm.Dimensions) *Terminal {
	return &Terminal{w: w, dims: dims, line: 1, col: 1}
}

// Size returns the dimensions of the terminal on f, or zvm.DefaultDimensions if f is not a terminal.
func Size(f *os.File) zvm.Dimensions {
	d := zvm.DefaultDimensions()
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return d
	}
	d.WidthInColumns, d.WidthInUnits = min(w, 255), min(w, 255)
	d.HeightInLines, d.HeightInUnits = min(h, 255), min(h, 255)
	return d
}

func (t *Terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.w, format, args...)
}

func (t *Terminal) Print(s string) {
	if t.window == 0 {
		io.WriteString(t.w, s)
		return
	}
	for i, l := range strings.Split(s, "\n") {
		if i > 0 {
			t.line++
			t.col = 1
		}
		if l == "" {
			continue
		}
		t.printf(csi+"%d;%dH%s", t.line, t.col, l)
		t.col += utf8.RuneCountInString(l)
	}
}

func (t *Terminal) SetCursor(line, column int) {
	if t.window == 1 {
		t.line, t.col = max(line, 1), max(column, 1)
		return
	}
	t.printf(csi+"%d;%dH", line, column)
}

func (t *Terminal) GetCursor() (int, int) {
	return t.line, t.col
}

func (t *Terminal) Clear(window int) {
	if window == 0 {
		t.printf(csi+"%d;%dr"+csi+"%dH"+csi+"J", t.upper+1, t.dims.HeightInLines, t.upper+1)
		return
	}
	for l := 1; l <= t.upper; l++ {
		t.printf(csi+"%dH"+csi+"2K", l)
	}
	t.line, t.col = 1, 1
}

func (t *Terminal) ClearAll(unsplit bool) {
	if unsplit {
		t.Unsplit()
	}
	io.WriteString(t.w, csi+"2J"+csi+"H")
	t.line, t.col = 1, 1
}

// Split reserves the top lines of the screen for window 1 by narrowing the scroll region.
func (t *Terminal) Split(lines int) {
	t.upper = min(max(lines, 0), t.dims.HeightInLines-1)
	t.printf("\x1b7"+csi+"%d;%dr\x1b8", t.upper+1, t.dims.HeightInLines)
}

func (t *Terminal) Unsplit() {
	t.upper = 0
	io.WriteString(t.w, "\x1b7"+csi+"r\x1b8")
}

func (t *Terminal) SetWindow(window int) {
	if window == t.window {
		return
	}
	t.window = window
	if window == 1 {
		// leave the lower window's cursor where it was
		io.WriteString(t.w, "\x1b7")
		t.line, t.col = 1, 1
	} else {
		io.WriteString(t.w, "\x1b8")
	}
}

// ShowStatus draws st in reverse video on the top line.
func (t *Terminal) ShowStatus(st zvm.StatusLine) {
	t.printf("\x1b7"+csi+"1;1H"+csi+"7m%s"+csi+"0m\x1b8", FormatStatus(st, t.dims.WidthInColumns))
}

// FormatStatus lays out st across width columns.
func FormatStatus(st zvm.StatusLine, width int) string {
	var right string
	if st.IsTime {
		h, suffix := st.Hours%12, "AM"
		if st.Hours >= 12 {
			suffix = "PM"
		}
		if h == 0 {
			h = 12
		}
		right = fmt.Sprintf("Time: %d:%02d %s ", h, st.Mins, suffix)
	} else {
		right = fmt.Sprintf("Score: %d  Turns: %d ", st.Score, st.Turns)
	}
	left := " " + st.Location
	pad := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		// truncate the location, keeping the score visible
		room := max(width-utf8.RuneCountInString(right)-1, 0)
		left = string([]rune(left)[:min(room, utf8.RuneCountInString(left))])
		pad = max(width-utf8.RuneCountInString(left)-utf8.RuneCountInString(right), 0)
	}
	return left + strings.Repeat(" ", pad) + right
}

func (t *Terminal) SetTextStyle(style zvm.TextStyle) {
	t.style = style
	t.sgr()
}

// SetFont accepts the normal font and the fixed pitch font, which look the same on a terminal.
func (t *Terminal) SetFont(font int) bool {
	return font == 1 || font == 4
}

func (t *Terminal) SetForegroundColor(c zvm.Color) {
	if c != zvm.ColorCurrent {
		t.fg = c
	}
	t.sgr()
}

func (t *Terminal) SetBackgroundColor(c zvm.Color) {
	if c != zvm.ColorCurrent {
		t.bg = c
	}
	t.sgr()
}

// sgr resets the terminal's graphic rendition and applies the current style and colours.
func (t *Terminal) sgr() {
	codes := []string{"0"}
	if t.style&zvm.StyleReverseVideo != 0 {
		codes = append(codes, "7")
	}
	if t.style&zvm.StyleBold != 0 {
		codes = append(codes, "1")
	}
	if t.style&zvm.StyleItalic != 0 {
		codes = append(codes, "4")
	}
	if c, ok := ansiColor(t.fg); ok {
		codes = append(codes, fmt.Sprint(30+c))
	}
	if c, ok := ansiColor(t.bg); ok {
		codes = append(codes, fmt.Sprint(40+c))
	}
	t.printf(csi+"%sm", strings.Join(codes, ";"))
}

// ansiColor maps a Z-machine colour to an ANSI colour offset.
func ansiColor(c zvm.Color) (int, bool) {
	if c < zvm.ColorBlack || c > zvm.ColorWhite {
		return 0, false
	}
	return int(c - zvm.ColorBlack), true
}

func (t *Terminal) EraseLine() {
	io.WriteString(t.w, csi+"K")
}

func (t *Terminal) SetBufferMode(on bool) {}

func (t *Terminal) Dimensions() zvm.Dimensions {
	return t.dims
}

func (t *Terminal) HighBeep() {
	io.WriteString(t.w, "\a")
}

func (t *Terminal) LowBeep() {
	io.WriteString(t.w, "\a")
}
