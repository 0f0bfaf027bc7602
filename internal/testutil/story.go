package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

// Fixed layout of stories produced by StoryBuilder.
const (
	// ScratchAddr is the start of a region of dynamic memory tests may use freely.
	ScratchAddr = 0x40
	ScratchSize = 0xC0

	ObjectTableAddr = 0x100
	GlobalsAddr     = 0x400
	StaticBase      = 0x600
	DictionaryAddr  = 0x600
	CodeAddr        = 0x800
	StorySize       = 0x1000
)

// Object describes an object for StoryBuilder.
type Object struct {
	Parent, Sibling, Child uint16
	Attrs                  []int
	// Name may contain only lowercase letters and spaces.
	Name  string
	Props []Prop
}

// Prop is a property.  Props must be listed in descending order.
type Prop struct {
	Number uint8
	Data   []byte
}

// StoryBuilder produces minimal but well formed story images for tests.
type StoryBuilder struct {
	Version  uint8
	Objects  []Object
	Defaults map[uint8]uint16
	Globals  map[int]uint16
	// Words are added to the dictionary. Words may contain only lowercase letters.
	Words      []string
	Separators []byte
	// Code is placed at CodeAddr, which is also the initial PC.
	Code []byte
	// Patch is applied last, it maps addresses to bytes.
	Patch map[int][]byte
}

func NewStory(version uint8) *StoryBuilder {
	return &StoryBuilder{
		Version:    version,
		Defaults:   map[uint8]uint16{},
		Globals:    map[int]uint16{},
		Separators: []byte{'.', ',', '"'},
		Patch:      map[int][]byte{},
	}
}

func (sb *StoryBuilder) small() bool {
	return sb.Version <= 3
}

// DictEntryLength is the length of a dictionary entry in stories built for version v.
func DictEntryLength(v uint8) int {
	if v <= 3 {
		return 7
	}
	return 9
}

// DictEntryAddr returns the address of the i-th word, in sorted order.
func (sb *StoryBuilder) DictEntryAddr(i int) int {
	return DictionaryAddr + 1 + len(sb.Separators) + 1 + 2 + i*DictEntryLength(sb.Version)
}

// SortedWords returns the dictionary words in the order they appear in the story.
func (sb *StoryBuilder) SortedWords() []string {
	ws := append([]string(nil), sb.Words...)
	sort.Slice(ws, func(i, j int) bool {
		return bytes.Compare(sb.dictKey(ws[i]), sb.dictKey(ws[j])) < 0
	})
	return ws
}

// PropTableAddr returns the address of the property table for object n (1 based).
func (sb *StoryBuilder) PropTableAddr(n int) int {
	return sb.propTableAddrs()[n-1]
}

func (sb *StoryBuilder) layout() (defaults, entry int) {
	if sb.small() {
		return 31 * 2, 9
	}
	return 63 * 2, 14
}

func (sb *StoryBuilder) propTableAddrs() []int {
	defaults, entry := sb.layout()
	addr := ObjectTableAddr + defaults + entry*len(sb.Objects)
	ret := make([]int, len(sb.Objects))
	for i, o := range sb.Objects {
		ret[i] = addr
		addr += len(sb.propTable(o))
	}
	return ret
}

func (sb *StoryBuilder) propTable(o Object) []byte {
	name := EncodeZText(o.Name, 0)
	var out []byte
	out = append(out, byte(len(name)/2))
	out = append(out, name...)
	for _, p := range o.Props {
		n := len(p.Data)
		switch {
		case sb.small():
			out = append(out, byte((n-1)*32)|p.Number)
		case n == 1:
			out = append(out, p.Number)
		case n == 2:
			out = append(out, 0x40|p.Number)
		default:
			out = append(out, 0x80|p.Number, 0x80|byte(n&0x3f))
		}
		out = append(out, p.Data...)
	}
	return append(out, 0)
}

func (sb *StoryBuilder) dictKey(w string) []byte {
	if sb.small() {
		return EncodeZText(w, 6)
	}
	return EncodeZText(w, 9)
}

// Build returns the story image.
func (sb *StoryBuilder) Build() []byte {
	v := sb.Version
	buf := make([]byte, StorySize)
	be := binary.BigEndian

	buf[0x00] = v
	be.PutUint16(buf[0x02:], 1)
	be.PutUint16(buf[0x04:], CodeAddr)
	if v == 6 {
		be.PutUint16(buf[0x06:], CodeAddr/4)
	} else {
		be.PutUint16(buf[0x06:], CodeAddr)
	}
	be.PutUint16(buf[0x08:], DictionaryAddr)
	be.PutUint16(buf[0x0A:], ObjectTableAddr)
	be.PutUint16(buf[0x0C:], GlobalsAddr)
	be.PutUint16(buf[0x0E:], StaticBase)
	copy(buf[0x12:], "260101")
	be.PutUint16(buf[0x1A:], uint16(StorySize/fileSizeMultiplier(v)))

	// objects
	defaults, entry := sb.layout()
	for n, x := range sb.Defaults {
		be.PutUint16(buf[ObjectTableAddr+2*(int(n)-1):], x)
	}
	ptas := sb.propTableAddrs()
	for i, o := range sb.Objects {
		addr := ObjectTableAddr + defaults + i*entry
		for _, a := range o.Attrs {
			buf[addr+a/8] |= 1 << (7 - a%8)
		}
		if sb.small() {
			buf[addr+4] = byte(o.Parent)
			buf[addr+5] = byte(o.Sibling)
			buf[addr+6] = byte(o.Child)
			be.PutUint16(buf[addr+7:], uint16(ptas[i]))
		} else {
			be.PutUint16(buf[addr+6:], o.Parent)
			be.PutUint16(buf[addr+8:], o.Sibling)
			be.PutUint16(buf[addr+10:], o.Child)
			be.PutUint16(buf[addr+12:], uint16(ptas[i]))
		}
		pt := sb.propTable(o)
		if ptas[i]+len(pt) > GlobalsAddr {
			panic("testutil: object table overflows into globals")
		}
		copy(buf[ptas[i]:], pt)
	}

	for i, x := range sb.Globals {
		be.PutUint16(buf[GlobalsAddr+2*i:], x)
	}

	// dictionary
	addr := DictionaryAddr
	buf[addr] = byte(len(sb.Separators))
	addr++
	addr += copy(buf[addr:], sb.Separators)
	buf[addr] = byte(DictEntryLength(v))
	be.PutUint16(buf[addr+1:], uint16(len(sb.Words)))
	addr += 3
	for _, w := range sb.SortedWords() {
		copy(buf[addr:], sb.dictKey(w))
		addr += DictEntryLength(v)
	}
	if addr > CodeAddr {
		panic("testutil: dictionary overflows into code")
	}

	copy(buf[CodeAddr:], sb.Code)
	for a, data := range sb.Patch {
		copy(buf[a:], data)
	}

	var sum uint16
	for _, b := range buf[0x40:] {
		sum += uint16(b)
	}
	be.PutUint16(buf[0x1C:], sum)
	return buf
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

// EncodeZText encodes lowercase letters and spaces as Z-characters from alphabet 0.
// If n > 0 the output is truncated or padded to n Z-characters.
// The final word has its top bit set.
func EncodeZText(s string, n int) []byte {
	var zchars []byte
	for _, r := range s {
		switch {
		case r == ' ':
			zchars = append(zchars, 0)
		case r >= 'a' && r <= 'z':
			zchars = append(zchars, byte(r-'a'+6))
		default:
			panic(fmt.Sprintf("testutil: cannot encode %q", r))
		}
	}
	if n > 0 {
		if len(zchars) > n {
			zchars = zchars[:n]
		}
		for len(zchars) < n {
			zchars = append(zchars, 5)
		}
	}
	for len(zchars)%3 != 0 {
		zchars = append(zchars, 5)
	}
	if len(zchars) == 0 {
		return nil
	}
	out := make([]byte, 0, len(zchars)/3*2)
	for i := 0; i < len(zchars); i += 3 {
		w := uint16(zchars[i])<<10 | uint16(zchars[i+1])<<5 | uint16(zchars[i+2])
		if i+3 == len(zchars) {
			w |= 0x8000
		}
		out = binary.BigEndian.AppendUint16(out, w)
	}
	return out
}
