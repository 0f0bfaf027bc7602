// package zobj provides access to the object tree and property tables stored in story memory.
package zobj

import (
	"fmt"

	"github.com/DustinCampbell/ZDebug-sub001/internal/bitbuf"
	"github.com/DustinCampbell/ZDebug-sub001/zheader"
	"github.com/DustinCampbell/ZDebug-sub001/zmem"
)

// ErrInvalidObject is returned for object 0 or an object beyond the layout's maximum.
type ErrInvalidObject struct {
	Object uint16
}

func (e ErrInvalidObject) Error() string {
	return fmt.Sprintf("zobj: invalid object %d", e.Object)
}

// ErrOutOfRange is returned for attribute and property numbers outside of the layout.
type ErrOutOfRange struct {
	What  string
	Value int
	Limit int
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("zobj: %s %d out of range [0, %d)", e.What, e.Value, e.Limit)
}

// ErrNoProperty is returned when an object does not have a property.
type ErrNoProperty struct {
	Object   uint16
	Property uint8
}

func (e ErrNoProperty) Error() string {
	return fmt.Sprintf("zobj: object %d has no property %d", e.Object, e.Property)
}

// Table is a view of the object table in memory.
type Table struct {
	m       *zmem.Memory
	version uint8
	layout  Layout
	addr    int
}

// New returns the object table of the story in m.
func New(m *zmem.Memory) (*Table, error) {
	v, err := zheader.ReadVersion(m)
	if err != nil {
		return nil, err
	}
	addr, err := zheader.ReadObjectTableAddress(m)
	if err != nil {
		return nil, err
	}
	return &Table{m: m, version: v, layout: LayoutFor(v), addr: int(addr)}, nil
}

func (t *Table) Layout() Layout {
	return t.layout
}

func (t *Table) Address() int {
	return t.addr
}

// EntryAddress returns the address of obj's entry. Objects are numbered from 1.
func (t *Table) EntryAddress(obj uint16) (int, error) {
	if obj == 0 || int(obj) > t.layout.MaxObject {
		return 0, ErrInvalidObject{Object: obj}
	}
	return t.addr + t.layout.DefaultsSize() + (int(obj)-1)*t.layout.EntrySize, nil
}

// Count returns the number of objects.  The table has no stored count, so Count
// walks entries until it reaches the lowest property table seen.
// It is linear in the number of objects; callers should cache the result.
func (t *Table) Count() (int, error) {
	lowest := t.m.Size()
	n := 0
	for obj := 1; obj <= t.layout.MaxObject; obj++ {
		addr, err := t.EntryAddress(uint16(obj))
		if err != nil {
			return 0, err
		}
		if addr+t.layout.EntrySize > lowest {
			break
		}
		pta, err := t.PropertyTableAddress(uint16(obj))
		if err != nil {
			return n, err
		}
		if pta != 0 && pta < lowest {
			lowest = pta
		}
		n = obj
	}
	return n, nil
}

func (t *Table) readNumber(addr int) (uint16, error) {
	if t.layout.NumberWidth == 1 {
		b, err := t.m.ReadU8(addr)
		return uint16(b), err
	}
	return t.m.ReadU16(addr)
}

func (t *Table) writeNumber(addr int, x uint16) error {
	if t.layout.NumberWidth == 1 {
		return t.m.WriteU8(addr, uint8(x))
	}
	return t.m.WriteU16(addr, x)
}

func (t *Table) field(obj uint16, offset int) (uint16, error) {
	addr, err := t.EntryAddress(obj)
	if err != nil {
		return 0, err
	}
	return t.readNumber(addr + offset)
}

func (t *Table) setField(obj uint16, offset int, x uint16) error {
	addr, err := t.EntryAddress(obj)
	if err != nil {
		return err
	}
	return t.writeNumber(addr+offset, x)
}

func (t *Table) Parent(obj uint16) (uint16, error) {
	return t.field(obj, t.layout.parentOffset())
}

func (t *Table) Sibling(obj uint16) (uint16, error) {
	return t.field(obj, t.layout.siblingOffset())
}

func (t *Table) Child(obj uint16) (uint16, error) {
	return t.field(obj, t.layout.childOffset())
}

func (t *Table) SetParent(obj, x uint16) error {
	return t.setField(obj, t.layout.parentOffset(), x)
}

func (t *Table) SetSibling(obj, x uint16) error {
	return t.setField(obj, t.layout.siblingOffset(), x)
}

func (t *Table) SetChild(obj, x uint16) error {
	return t.setField(obj, t.layout.childOffset(), x)
}

// PropertyTableAddress returns the address of obj's property table.
func (t *Table) PropertyTableAddress(obj uint16) (int, error) {
	addr, err := t.EntryAddress(obj)
	if err != nil {
		return 0, err
	}
	pta, err := t.m.ReadU16(addr + t.layout.propertiesOffset())
	return int(pta), err
}

// ShortName returns the address and length in words of obj's encoded short name.
func (t *Table) ShortName(obj uint16) (addr, words int, err error) {
	pta, err := t.PropertyTableAddress(obj)
	if err != nil {
		return 0, 0, err
	}
	n, err := t.m.ReadU8(pta)
	if err != nil {
		return 0, 0, err
	}
	return pta + 1, int(n), nil
}

func (t *Table) attributes(obj uint16, attr int) (int, bitbuf.Buf, error) {
	if attr < 0 || attr >= t.layout.AttributeCount() {
		return 0, bitbuf.Buf{}, ErrOutOfRange{What: "attribute", Value: attr, Limit: t.layout.AttributeCount()}
	}
	addr, err := t.EntryAddress(obj)
	if err != nil {
		return 0, bitbuf.Buf{}, err
	}
	data, err := t.m.ReadBytes(addr, t.layout.AttributeBytes)
	if err != nil {
		return 0, bitbuf.Buf{}, err
	}
	return addr, bitbuf.FromBytes(data), nil
}

func (t *Table) TestAttribute(obj uint16, attr int) (bool, error) {
	_, bits, err := t.attributes(obj, attr)
	if err != nil {
		return false, err
	}
	return bits.Get(attr) == 1, nil
}

func (t *Table) SetAttribute(obj uint16, attr int) error {
	return t.putAttribute(obj, attr, 1)
}

func (t *Table) ClearAttribute(obj uint16, attr int) error {
	return t.putAttribute(obj, attr, 0)
}

func (t *Table) putAttribute(obj uint16, attr int, x bitbuf.Bit) error {
	addr, bits, err := t.attributes(obj, attr)
	if err != nil {
		return err
	}
	bits.Put(attr, x)
	return t.m.WriteBytes(addr, bits.Bytes())
}

// Attributes returns the attributes which are set on obj.
func (t *Table) Attributes(obj uint16) ([]int, error) {
	_, bits, err := t.attributes(obj, 0)
	if err != nil {
		return nil, err
	}
	return bits.Ones(), nil
}
