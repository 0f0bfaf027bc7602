package zobj

// Layout describes the version dependent shape of the object table.
type Layout struct {
	EntrySize      int
	DefaultsCount  int
	AttributeBytes int
	// NumberWidth is the size of a parent, sibling or child field in bytes.
	NumberWidth int
	MaxObject   int
	MaxProperty uint8
}

var (
	smallLayout = Layout{
		EntrySize:      9,
		DefaultsCount:  31,
		AttributeBytes: 4,
		NumberWidth:    1,
		MaxObject:      255,
		MaxProperty:    31,
	}
	largeLayout = Layout{
		EntrySize:      14,
		DefaultsCount:  63,
		AttributeBytes: 6,
		NumberWidth:    2,
		MaxObject:      65535,
		MaxProperty:    63,
	}
)

// LayoutFor returns the layout for version.  Versions 4 through 8 share a layout.
func LayoutFor(version uint8) Layout {
	if version <= 3 {
		return smallLayout
	}
	return largeLayout
}

func (l Layout) DefaultsSize() int {
	return 2 * l.DefaultsCount
}

func (l Layout) AttributeCount() int {
	return 8 * l.AttributeBytes
}

func (l Layout) parentOffset() int {
	return l.AttributeBytes
}

func (l Layout) siblingOffset() int {
	return l.AttributeBytes + l.NumberWidth
}

func (l Layout) childOffset() int {
	return l.AttributeBytes + 2*l.NumberWidth
}

func (l Layout) propertiesOffset() int {
	return l.AttributeBytes + 3*l.NumberWidth
}
