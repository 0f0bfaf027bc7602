// package zmem implements the byte-addressable memory of a Z-machine.
package zmem

import (
	"encoding/binary"
	"fmt"
)

// ErrOutOfBounds is returned when an access falls outside of memory.
type ErrOutOfBounds struct {
	Addr int
	Len  int
	Size int
}

func (e ErrOutOfBounds) Error() string {
	return fmt.Sprintf("zmem: access [%#x, %#x) out of bounds. size=%#x", e.Addr, e.Addr+e.Len, e.Size)
}

// Memory is a fixed size, big-endian byte buffer.
// It is never resized after creation.
type Memory struct {
	buf []byte
}

// New wraps buf in a Memory. buf is not copied.
func New(buf []byte) *Memory {
	return &Memory{buf: buf}
}

func (m *Memory) Size() int {
	return len(m.buf)
}

// Bytes returns the underlying buffer.  Callers must not modify it.
func (m *Memory) Bytes() []byte {
	return m.buf
}

// Clone returns a deep copy of m.
func (m *Memory) Clone() *Memory {
	return New(append([]byte(nil), m.buf...))
}

func (m *Memory) check(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > len(m.buf) {
		return ErrOutOfBounds{Addr: addr, Len: n, Size: len(m.buf)}
	}
	return nil
}

func (m *Memory) ReadU8(addr int) (uint8, error) {
	if err := m.check(addr, 1); err != nil {
		return 0, err
	}
	return m.buf[addr], nil
}

func (m *Memory) ReadU16(addr int) (uint16, error) {
	if err := m.check(addr, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(m.buf[addr:]), nil
}

func (m *Memory) ReadU32(addr int) (uint32, error) {
	if err := m.check(addr, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m.buf[addr:]), nil
}

// ReadBytes returns a copy of n bytes starting at addr.
func (m *Memory) ReadBytes(addr, n int) ([]byte, error) {
	if err := m.check(addr, n); err != nil {
		return nil, err
	}
	return append([]byte(nil), m.buf[addr:addr+n]...), nil
}

// ReadWords returns n words starting at addr.
func (m *Memory) ReadWords(addr, n int) ([]uint16, error) {
	if err := m.check(addr, 2*n); err != nil {
		return nil, err
	}
	ret := make([]uint16, n)
	for i := range ret {
		ret[i] = binary.BigEndian.Uint16(m.buf[addr+2*i:])
	}
	return ret, nil
}

func (m *Memory) WriteU8(addr int, x uint8) error {
	if err := m.check(addr, 1); err != nil {
		return err
	}
	m.buf[addr] = x
	return nil
}

func (m *Memory) WriteU16(addr int, x uint16) error {
	if err := m.check(addr, 2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(m.buf[addr:], x)
	return nil
}

func (m *Memory) WriteU32(addr int, x uint32) error {
	if err := m.check(addr, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(m.buf[addr:], x)
	return nil
}

func (m *Memory) WriteBytes(addr int, data []byte) error {
	if err := m.check(addr, len(data)); err != nil {
		return err
	}
	copy(m.buf[addr:], data)
	return nil
}

func (m *Memory) WriteWords(addr int, ws []uint16) error {
	if err := m.check(addr, 2*len(ws)); err != nil {
		return err
	}
	for i, w := range ws {
		binary.BigEndian.PutUint16(m.buf[addr+2*i:], w)
	}
	return nil
}
