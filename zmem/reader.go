package zmem

import (
	"encoding/binary"
	"fmt"
)

// ErrReadPastEnd is returned when a Reader is asked for more data than remains.
type ErrReadPastEnd struct {
	Pos       int
	Want      int
	Remaining int
}

func (e ErrReadPastEnd) Error() string {
	return fmt.Sprintf("zmem: read of %d bytes at %#x past end of memory (%d remaining)", e.Want, e.Pos, e.Remaining)
}

// Reader is a cursor over Memory.
type Reader struct {
	m   *Memory
	pos int
}

// NewReader returns a Reader positioned at addr.
func (m *Memory) NewReader(addr int) (*Reader, error) {
	if addr < 0 || addr > len(m.buf) {
		return nil, ErrOutOfBounds{Addr: addr, Size: len(m.buf)}
	}
	return &Reader{m: m, pos: addr}, nil
}

func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) Remaining() int {
	return len(r.m.buf) - r.pos
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrReadPastEnd{Pos: r.pos, Want: n, Remaining: r.Remaining()}
	}
	data := r.m.buf[r.pos : r.pos+n]
	r.pos += n
	return data, nil
}

func (r *Reader) NextU8() (uint8, error) {
	data, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (r *Reader) NextU16() (uint16, error) {
	data, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(data), nil
}

// NextBytes returns a copy of the next n bytes.
func (r *Reader) NextBytes(n int) ([]byte, error) {
	data, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), data...), nil
}

func (r *Reader) NextWords(n int) ([]uint16, error) {
	data, err := r.take(2 * n)
	if err != nil {
		return nil, err
	}
	ret := make([]uint16, n)
	for i := range ret {
		ret[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return ret, nil
}

func (r *Reader) Skip(n int) error {
	_, err := r.take(n)
	return err
}
