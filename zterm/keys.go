package zterm

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ReadKey reads a single key press from f.
// If f is a terminal it is put in raw mode for the duration of the read.
func ReadKey(f *os.File) (rune, error) {
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return 0, err
		}
		defer term.Restore(fd, old)
	}
	return readKey(f)
}

func readKey(r io.Reader) (rune, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	switch b := buf[0]; b {
	case '\r':
		// raw mode sends CR for Enter
		return '\n', nil
	case 0x7f:
		return '\b', nil
	default:
		return rune(b), nil
	}
}
