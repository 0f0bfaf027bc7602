package zobj

import "fmt"

// Insert makes obj the first child of dest, detaching it from its current parent.
func (t *Table) Insert(obj, dest uint16) error {
	if obj == dest {
		return fmt.Errorf("zobj: cannot insert object %d into itself", obj)
	}
	if err := t.Remove(obj); err != nil {
		return err
	}
	first, err := t.Child(dest)
	if err != nil {
		return err
	}
	if err := t.SetSibling(obj, first); err != nil {
		return err
	}
	if err := t.SetParent(obj, dest); err != nil {
		return err
	}
	return t.SetChild(dest, obj)
}

// Remove detaches obj from its parent. obj keeps its children.
func (t *Table) Remove(obj uint16) error {
	parent, err := t.Parent(obj)
	if err != nil || parent == 0 {
		return err
	}
	next, err := t.Sibling(obj)
	if err != nil {
		return err
	}
	x, err := t.Child(parent)
	if err != nil {
		return err
	}
	if x == obj {
		if err := t.SetChild(parent, next); err != nil {
			return err
		}
	} else {
		for steps := 0; ; steps++ {
			if x == 0 || steps > t.layout.MaxObject {
				return fmt.Errorf("zobj: object %d not found among children of %d", obj, parent)
			}
			sib, err := t.Sibling(x)
			if err != nil {
				return err
			}
			if sib == obj {
				if err := t.SetSibling(x, next); err != nil {
					return err
				}
				break
			}
			x = sib
		}
	}
	if err := t.SetParent(obj, 0); err != nil {
		return err
	}
	return t.SetSibling(obj, 0)
}

// Children returns the children of obj in sibling order.
func (t *Table) Children(obj uint16) ([]uint16, error) {
	var ret []uint16
	x, err := t.Child(obj)
	for ; err == nil && x != 0; x, err = t.Sibling(x) {
		if len(ret) > t.layout.MaxObject {
			return nil, fmt.Errorf("zobj: sibling chain under object %d does not terminate", obj)
		}
		ret = append(ret, x)
	}
	return ret, err
}
