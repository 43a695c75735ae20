package firmware

// record is one fixed-width symbol-table entry at a known image offset.
// It holds offsets and target-endian-decoded values, never owning a copy
// of the name bytes until SymbolReifier resolves them.
type record struct {
	offset       int
	namePtr      uint32
	value        uint32
	typ          byte
	nameLenHint  uint32 // next.namePtr - this.namePtr once sorted; undefined for the last record
	hasLenHint   bool
}

// codec validates and decodes fixed-width symbol records for one Version.
type codec struct {
	v      *ByteView
	lay    layout
}

func newCodec(v *ByteView, lay layout) *codec {
	return &codec{v: v, lay: lay}
}

// structurallyValid reports whether the W bytes at off form a structurally
// valid record per spec.md §4.2. The checks are endianness-agnostic: they
// only look at fixed byte positions, never interpret name_ptr/value as
// integers.
func (c *codec) structurallyValid(off int) bool {
	w := c.lay.width
	if off < 0 || off+w > c.v.Len() {
		return false
	}

	typ, err := c.v.Byte(off + c.lay.typeOff)
	if err != nil || !c.lay.admissibleType[typ] {
		return false
	}

	pad, err := c.v.Byte(off + w - 1)
	if err != nil || pad != 0 {
		return false
	}

	group, err := c.v.Slice(off+w-4, 2)
	if err != nil || group[0] != 0 || group[1] != 0 {
		return false
	}

	namePtr, err := c.v.Slice(off+4, 4)
	if err != nil || isZero(namePtr) {
		return false
	}

	if c.lay.requireValue {
		value, err := c.v.Slice(off+8, 4)
		if err != nil || isZero(value) {
			return false
		}
	}

	return true
}

// decode reads the target-endian namePtr/value and type for a record
// already known to be structurally valid.
func (c *codec) decode(off int, bigEndian bool) (record, error) {
	namePtr, err := c.v.U32(off+4, bigEndian)
	if err != nil {
		return record{}, err
	}
	value, err := c.v.U32(off+8, bigEndian)
	if err != nil {
		return record{}, err
	}
	typ, err := c.v.Byte(off + c.lay.typeOff)
	if err != nil {
		return record{}, err
	}
	return record{offset: off, namePtr: namePtr, value: value, typ: typ}, nil
}

func isZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}
