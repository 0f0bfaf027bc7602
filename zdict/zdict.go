// package zdict implements dictionary lookup and input tokenization.
package zdict

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/DustinCampbell/ZDebug-sub001/zmem"
	"github.com/DustinCampbell/ZDebug-sub001/ztext"
)

// Dictionary is a view of a dictionary table in memory.
type Dictionary struct {
	m     *zmem.Memory
	codec *ztext.Codec
	addr  int

	separators  []byte
	entryLength int
	count       int
	sorted      bool
	first       int
	keyLength   int
}

// Load reads the dictionary header at addr.
// A negative entry count marks an unsorted dictionary, as created by games for tokenise.
func Load(m *zmem.Memory, codec *ztext.Codec, addr int) (*Dictionary, error) {
	r, err := m.NewReader(addr)
	if err != nil {
		return nil, err
	}
	n, err := r.NextU8()
	if err != nil {
		return nil, err
	}
	seps, err := r.NextBytes(int(n))
	if err != nil {
		return nil, err
	}
	entryLength, err := r.NextU8()
	if err != nil {
		return nil, err
	}
	count, err := r.NextU16()
	if err != nil {
		return nil, err
	}
	d := &Dictionary{
		m:           m,
		codec:       codec,
		addr:        addr,
		separators:  seps,
		entryLength: int(entryLength),
		count:       int(int16(count)),
		sorted:      int16(count) > 0,
		first:       r.Pos(),
		keyLength:   2 * ztext.DictionaryResolution(codec.Version()) / 3,
	}
	if d.count < 0 {
		d.count = -d.count
	}
	if d.entryLength < d.keyLength {
		return nil, fmt.Errorf("zdict: entry length %d is shorter than encoded word length %d", d.entryLength, d.keyLength)
	}
	return d, nil
}

func (d *Dictionary) Address() int {
	return d.addr
}

func (d *Dictionary) Separators() []byte {
	return d.separators
}

func (d *Dictionary) Len() int {
	return d.count
}

// EntryAddress returns the address of the i-th entry.
func (d *Dictionary) EntryAddress(i int) int {
	return d.first + i*d.entryLength
}

// TryLookupWord returns the address of the entry matching the ZSCII word, or false.
func (d *Dictionary) TryLookupWord(zscii []byte) (uint16, bool) {
	ws := d.codec.EncodeWord(zscii)
	key := make([]byte, 0, 2*len(ws))
	for _, w := range ws {
		key = append(key, byte(w>>8), byte(w))
	}
	if d.sorted {
		var cmpErr error
		i := sort.Search(d.count, func(i int) bool {
			k, err := d.m.ReadBytes(d.EntryAddress(i), d.keyLength)
			if err != nil {
				cmpErr = err
				return true
			}
			return bytes.Compare(k, key) >= 0
		})
		if cmpErr == nil && i < d.count && d.match(i, key) {
			return uint16(d.EntryAddress(i)), true
		}
		return 0, false
	}
	for i := 0; i < d.count; i++ {
		if d.match(i, key) {
			return uint16(d.EntryAddress(i)), true
		}
	}
	return 0, false
}

func (d *Dictionary) match(i int, key []byte) bool {
	k, err := d.m.ReadBytes(d.EntryAddress(i), d.keyLength)
	return err == nil && bytes.Equal(k, key)
}

// Entry is a decoded dictionary entry.
type Entry struct {
	Address int
	Text    string
	Data    []byte
}

// Entries decodes every entry.
func (d *Dictionary) Entries() ([]Entry, error) {
	ret := make([]Entry, 0, d.count)
	for i := 0; i < d.count; i++ {
		addr := d.EntryAddress(i)
		ws, err := d.m.ReadWords(addr, d.keyLength/2)
		if err != nil {
			return nil, err
		}
		text, err := d.codec.Decode(ws)
		if err != nil {
			return nil, err
		}
		data, err := d.m.ReadBytes(addr+d.keyLength, d.entryLength-d.keyLength)
		if err != nil {
			return nil, err
		}
		ret = append(ret, Entry{Address: addr, Text: text, Data: data})
	}
	return ret, nil
}
