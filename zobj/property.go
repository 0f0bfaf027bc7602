package zobj

// Property is an entry in a property table.
type Property struct {
	Number uint8
	// Address is the address of the size byte(s).
	Address     int
	DataAddress int
	Length      int
}

// PropertyDefault returns the default value for property num.
func (t *Table) PropertyDefault(num uint8) (uint16, error) {
	if num == 0 || num > t.layout.MaxProperty {
		return 0, ErrOutOfRange{What: "property", Value: int(num), Limit: int(t.layout.MaxProperty) + 1}
	}
	return t.m.ReadU16(t.addr + 2*(int(num)-1))
}

// Properties returns obj's properties in table order, which is descending by number.
func (t *Table) Properties(obj uint16) ([]Property, error) {
	addr, words, err := t.ShortName(obj)
	if err != nil {
		return nil, err
	}
	addr += 2 * words
	var ret []Property
	for {
		p, err := t.readProperty(addr)
		if err != nil {
			return nil, err
		}
		if p.Number == 0 {
			return ret, nil
		}
		ret = append(ret, p)
		addr = p.DataAddress + p.Length
	}
}

// readProperty decodes the size byte(s) at addr. A zero Number marks the end of the table.
func (t *Table) readProperty(addr int) (Property, error) {
	b, err := t.m.ReadU8(addr)
	if err != nil || b == 0 {
		return Property{}, err
	}
	p := Property{Address: addr}
	if t.version <= 3 {
		p.Number = b % 32
		p.Length = int(b/32) + 1
		p.DataAddress = addr + 1
		return p, nil
	}
	p.Number = b & 0x3f
	switch {
	case b&0x80 != 0:
		b2, err := t.m.ReadU8(addr + 1)
		if err != nil {
			return Property{}, err
		}
		p.Length = int(b2 & 0x3f)
		if p.Length == 0 {
			p.Length = 64
		}
		p.DataAddress = addr + 2
	case b&0x40 != 0:
		p.Length = 2
		p.DataAddress = addr + 1
	default:
		p.Length = 1
		p.DataAddress = addr + 1
	}
	return p, nil
}

// FindProperty returns obj's property num, or false if it does not have one.
func (t *Table) FindProperty(obj uint16, num uint8) (Property, bool, error) {
	props, err := t.Properties(obj)
	if err != nil {
		return Property{}, false, err
	}
	for _, p := range props {
		if p.Number == num {
			return p, true, nil
		}
	}
	return Property{}, false, nil
}

// GetProperty returns the value of property num of obj, or the default if obj doesn't have it.
// Properties longer than 2 bytes yield their first word.
func (t *Table) GetProperty(obj uint16, num uint8) (uint16, error) {
	p, ok, err := t.FindProperty(obj, num)
	if err != nil {
		return 0, err
	}
	if !ok {
		return t.PropertyDefault(num)
	}
	if p.Length == 1 {
		b, err := t.m.ReadU8(p.DataAddress)
		return uint16(b), err
	}
	return t.m.ReadU16(p.DataAddress)
}

// PutProperty sets property num of obj.  The property must exist.
func (t *Table) PutProperty(obj uint16, num uint8, x uint16) error {
	p, ok, err := t.FindProperty(obj, num)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoProperty{Object: obj, Property: num}
	}
	if p.Length == 1 {
		return t.m.WriteU8(p.DataAddress, uint8(x))
	}
	return t.m.WriteU16(p.DataAddress, x)
}

// NextProperty returns the number of the property after num, or the first property if num is 0.
// It returns 0 after the last property.
func (t *Table) NextProperty(obj uint16, num uint8) (uint8, error) {
	props, err := t.Properties(obj)
	if err != nil {
		return 0, err
	}
	if num == 0 {
		if len(props) == 0 {
			return 0, nil
		}
		return props[0].Number, nil
	}
	for i, p := range props {
		if p.Number == num {
			if i+1 < len(props) {
				return props[i+1].Number, nil
			}
			return 0, nil
		}
	}
	return 0, ErrNoProperty{Object: obj, Property: num}
}

// PropertyLengthAt returns the length of the property whose data starts at dataAddr.
// dataAddr 0 yields 0.
func (t *Table) PropertyLengthAt(dataAddr int) (int, error) {
	if dataAddr == 0 {
		return 0, nil
	}
	b, err := t.m.ReadU8(dataAddr - 1)
	if err != nil {
		return 0, err
	}
	if t.version <= 3 {
		return int(b/32) + 1, nil
	}
	switch {
	case b&0x80 != 0:
		// this is the second size byte
		if n := int(b & 0x3f); n != 0 {
			return n, nil
		}
		return 64, nil
	case b&0x40 != 0:
		return 2, nil
	default:
		return 1, nil
	}
}
