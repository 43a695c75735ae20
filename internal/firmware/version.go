package firmware

import "fmt"

// Version identifies the VxWorks major version line, which fixes the
// symbol record width, the byte offset of the type field, and the
// admissible set of type codes.
type Version int

const (
	V5 Version = 5
	V6 Version = 6
)

// layout describes the fixed-width shape of one symbol record for a
// given Version.
type layout struct {
	width          int
	typeOff        int
	requireValue   bool // V5 requires a nonzero value pointer; V6 relaxes this
	admissibleType map[byte]bool
}

var v5Types = bytesToSet([]byte{
	0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x12, 0x13, 0x40, 0x41, 0x80, 0x81,
})

var v6Types = bytesToSet([]byte{
	0x03, 0x04, 0x05, 0x08, 0x09, 0x10, 0x11, 0x20, 0x21, 0x40, 0x41,
})

func bytesToSet(bs []byte) map[byte]bool {
	m := make(map[byte]bool, len(bs))
	for _, b := range bs {
		m[b] = true
	}
	return m
}

// functionTypes are the type codes that denote executable code symbols;
// everything else admissible is data/bss/absolute.
var functionTypes = bytesToSet([]byte{0x04, 0x05})

// IsFunctionType reports whether t is a code-symbol type code (0x04 or
// 0x05). The function/data split is the same two codes for both
// versions, so no version is needed.
func IsFunctionType(t byte) bool {
	return functionTypes[t]
}

func layoutFor(v Version) (layout, error) {
	switch v {
	case V5:
		return layout{width: 16, typeOff: 14, requireValue: true, admissibleType: v5Types}, nil
	case V6:
		return layout{width: 20, typeOff: 18, requireValue: false, admissibleType: v6Types}, nil
	default:
		return layout{}, fmt.Errorf("firmware: unsupported VxWorks version %d (want 5 or 6)", v)
	}
}
