package zop

import (
	"fmt"
	"sort"
	"sync"
)

const (
	MinVersion = 1
	MaxVersion = 8
)

type ErrUnsupportedVersion struct {
	Version uint8
}

func (e ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("zop: no opcode table for version %d", e.Version)
}

// Table maps (kind, number) to an Opcode for a single version.
// Tables are immutable after construction.
type Table struct {
	version uint8
	ops     [Ext + 1][256]*Opcode
	byName  map[string]*Opcode
}

// NewTable builds the opcode table for version.
func NewTable(version uint8) (*Table, error) {
	if version < MinVersion || version > MaxVersion {
		return nil, ErrUnsupportedVersion{Version: version}
	}
	t := &Table{version: version, byName: map[string]*Opcode{}}
	for _, e := range entries {
		if version < e.from || version > e.to {
			continue
		}
		if t.ops[e.kind][e.number] != nil {
			return nil, fmt.Errorf("zop: duplicate opcode %v:%02X in version %d", e.kind, e.number, version)
		}
		if _, exists := t.byName[e.name]; exists {
			return nil, fmt.Errorf("zop: duplicate opcode name %q in version %d", e.name, version)
		}
		op := &Opcode{
			Kind:   e.kind,
			Number: e.number,
			Name:   e.name,
			Flags:  e.flags,
		}
		t.ops[e.kind][e.number] = op
		t.byName[e.name] = op
	}
	return t, nil
}

var tables = func() (ret [MaxVersion + 1]func() (*Table, error)) {
	for v := MinVersion; v <= MaxVersion; v++ {
		ret[v] = sync.OnceValues(func() (*Table, error) {
			return NewTable(uint8(v))
		})
	}
	return ret
}()

// TableFor returns the shared table for version, building it on first use.
func TableFor(version uint8) (*Table, error) {
	if version < MinVersion || version > MaxVersion {
		return nil, ErrUnsupportedVersion{Version: version}
	}
	return tables[version]()
}

func (t *Table) Version() uint8 {
	return t.version
}

// Lookup returns the opcode registered for (kind, number), or false.
func (t *Table) Lookup(kind Kind, number uint8) (*Opcode, bool) {
	if kind > Ext {
		return nil, false
	}
	op := t.ops[kind][number]
	return op, op != nil
}

// ByName returns the opcode called name.  Names are unique within a version.
func (t *Table) ByName(name string) (*Opcode, bool) {
	op, ok := t.byName[name]
	return op, ok
}

// All returns every opcode in the table, ordered by kind then number.
func (t *Table) All() []*Opcode {
	var ret []*Opcode
	for k := range t.ops {
		for _, op := range t.ops[k] {
			if op != nil {
				ret = append(ret, op)
			}
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		if ret[i].Kind != ret[j].Kind {
			return ret[i].Kind < ret[j].Kind
		}
		return ret[i].Number < ret[j].Number
	})
	return ret
}

// Names returns the distinct opcode names across every version.
func Names() []string {
	seen := map[string]struct{}{}
	var ret []string
	for _, e := range entries {
		if _, exists := seen[e.name]; !exists {
			seen[e.name] = struct{}{}
			ret = append(ret, e.name)
		}
	}
	sort.Strings(ret)
	return ret
}
