package firmware

import "testing"

func TestByteViewBounds(t *testing.T) {
	v := NewByteView([]byte{0x01, 0x02, 0x03, 0x04})

	if _, err := v.Byte(3); err != nil {
		t.Errorf("Byte(3) unexpected error: %v", err)
	}
	if _, err := v.Byte(4); err == nil {
		t.Errorf("Byte(4) expected OutOfBounds")
	} else if kind, ok := KindOf(err); !ok || kind != KindOutOfBounds {
		t.Errorf("Byte(4) kind = %v, want OutOfBounds", err)
	}

	u, err := v.U32(0, false)
	if err != nil {
		t.Fatalf("U32 little-endian: %v", err)
	}
	if u != 0x04030201 {
		t.Errorf("U32 LE = %#x, want 0x04030201", u)
	}

	u, err = v.U32(0, true)
	if err != nil {
		t.Fatalf("U32 big-endian: %v", err)
	}
	if u != 0x01020304 {
		t.Errorf("U32 BE = %#x, want 0x01020304", u)
	}

	if _, err := v.U32(1, false); err == nil {
		t.Errorf("U32(1) expected OutOfBounds (only 3 bytes remain)")
	}
}

func TestQuickTestLoadAddress(t *testing.T) {
	// Build a minimal image: a handful of names at a known base, and
	// table records pointing at them, with the base being one of the
	// canonical known addresses.
	base := knownLoadAddresses[1] // 0x10000
	var img []byte
	names := []string{"alpha", "beta", "gamma"}
	offsets := make([]int, len(names))
	for i, n := range names {
		offsets[i] = len(img)
		img = append(img, 0)
		img = append(img, []byte(n)...)
	}
	img = append(img, 0)

	v := NewByteView(img)
	table := make([]record, len(names))
	for i, off := range offsets {
		table[i] = record{namePtr: base + uint32(off) + 1} // +1 to skip the leading NUL
	}

	ok, err := checkLoadAddress(v, table, base)
	if err != nil {
		t.Fatalf("checkLoadAddress: %v", err)
	}
	if !ok {
		t.Errorf("expected base %#x to validate", base)
	}

	ok, err = checkLoadAddress(v, table, base+4)
	if err != nil {
		t.Fatalf("checkLoadAddress: %v", err)
	}
	if ok {
		t.Errorf("expected wrong base to be rejected")
	}
}
