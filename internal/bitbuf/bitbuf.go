// package bitbuf provides bit addressing over byte slices.
// Bit 0 is the most significant bit of the first byte.
package bitbuf

import (
	"fmt"
)

type Bit = uint8

const WordBits = 8

type Buf struct {
	// offset is the offset in bits from the start of d
	offset int
	// l is the length of the buffer.  The end is offset + l
	l int
	d []byte
}

func New(l int) Buf {
	return Buf{
		l: l,
		d: make([]byte, divCeil(l, WordBits)),
	}
}

// FromBytes returns a Buf backed by d. Writes to the Buf modify d.
func FromBytes(d []byte) Buf {
	return Buf{d: d, l: len(d) * WordBits}
}

func (b Buf) Len() int {
	return b.l
}

func (b Buf) Bytes() []byte {
	if b.offset != 0 {
		panic("Bytes can only be called on the original buffer")
	}
	return b.d
}

func (b Buf) Slice(beg, end int) Buf {
	if beg < 0 || end < beg || end > b.Len() {
		panic(fmt.Sprintf("bitbuf: out of bounds slice. beg=%v end=%v. len=%d", beg, end, b.Len()))
	}
	return Buf{
		offset: b.offset + beg,
		l:      end - beg,
		d:      b.d,
	}
}

func (b Buf) Get(i int) Bit {
	b.checkIndex(i)
	return getBit(b.d, b.offset+i)
}

func (b Buf) Put(i int, x Bit) {
	b.checkIndex(i)
	putBit(b.d, b.offset+i, x)
}

// Ones returns the indexes of the set bits, in ascending order.
func (b Buf) Ones() []int {
	var ret []int
	for i := 0; i < b.l; i++ {
		if b.Get(i) == 1 {
			ret = append(ret, i)
		}
	}
	return ret
}

func (b Buf) checkIndex(i int) {
	if i < 0 || i >= b.l {
		panic(fmt.Sprintf("bitbuf: index %d out of range. len=%d", i, b.l))
	}
}

func putBit(d []byte, i int, x Bit) {
	x &= 1 // ensure only the low bit is set.
	byteIndex := i / WordBits
	bitPos := WordBits - 1 - i%WordBits

	d[byteIndex] = (d[byteIndex] &^ (1 << bitPos)) | (x << bitPos)
}

func getBit(d []byte, i int) Bit {
	byteIndex := i / WordBits
	bitPos := WordBits - 1 - i%WordBits
	return (d[byteIndex] >> bitPos) & 1
}

func divCeil(a, b int) int {
	ret := a / b
	if a%b > 0 {
		ret++
	}
	return ret
}
