package firmware

import "testing"

func TestIsFuncName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"plain", "usrInit", true},
		{"empty", "", false},
		{"backslash", `bad\name`, false},
		{"percent", "50%done", false},
		{"paren", "foo(bar)", false},
		{"bracket", "arr[0]", false},
		{"non-ascii", "caf\xe9", false},
		{"too-long", string(make([]byte, 513)), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := isFuncName([]byte(c.in))
			if got != c.want {
				t.Errorf("isFuncName(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestFindAnchorSeed(t *testing.T) {
	t.Run("plain bzero", func(t *testing.T) {
		img := append([]byte("junk"), append([]byte("\x00bzero\x00"), []byte("more")...)...)
		seed, err := findAnchorSeed(img)
		if err != nil {
			t.Fatalf("findAnchorSeed: %v", err)
		}
		if img[seed] != 'b' {
			t.Errorf("seed points at %q, want 'b'", img[seed])
		}
	})

	t.Run("prefixed fallback when plain bzero absent", func(t *testing.T) {
		img := append([]byte("junk"), append([]byte("\x00_bzero\x00"), []byte("more")...)...)
		seed, err := findAnchorSeed(img)
		if err != nil {
			t.Fatalf("findAnchorSeed: %v", err)
		}
		if img[seed] != '_' {
			t.Errorf("seed points at %q, want '_'", img[seed])
		}
	})

	t.Run("falls back to usrInit", func(t *testing.T) {
		img := append([]byte("junk"), []byte("\x00usrInit\x00")...)
		seed, err := findAnchorSeed(img)
		if err != nil {
			t.Fatalf("findAnchorSeed: %v", err)
		}
		if img[seed] != 'u' {
			t.Errorf("seed points at %q, want 'u'", img[seed])
		}
	})

	t.Run("missing", func(t *testing.T) {
		img := []byte("nothing interesting here")
		_, err := findAnchorSeed(img)
		kind, ok := KindOf(err)
		if !ok || kind != KindMissingAnchor {
			t.Fatalf("expected KindMissingAnchor, got %v", err)
		}
	})
}

func TestCheckFix(t *testing.T) {
	mkRecord := func(namePtr, lenHint uint32, has bool) record {
		return record{namePtr: namePtr, nameLenHint: lenHint, hasLenHint: has}
	}

	table := []record{
		mkRecord(100, 4, true),
		mkRecord(104, 4, true),
		mkRecord(108, 0, false), // last: no hint
	}
	pool := []poolEntry{
		{offset: 0, length: 4},
		{offset: 4, length: 4},
		{offset: 8, length: 1},
	}

	if !checkFix(table, pool, 0, 0) {
		t.Errorf("expected checkFix to succeed on an exact length match")
	}

	// Symbol name points into the middle of a longer pool string: tolerated
	// as a fault, not a failure.
	table2 := []record{
		mkRecord(100, 2, true), // shorter than pool[0].length: fault
		mkRecord(102, 4, true),
	}
	pool2 := []poolEntry{
		{offset: 0, length: 4},
	}
	if !checkFix(table2, pool2, 0, 0) {
		t.Errorf("expected a single fault to be tolerated")
	}

	// Table hint exceeds pool length: misalignment, must fail. Uses two
	// table records so the mismatch is evaluated on a non-final step
	// (checkFix's final step only checks the accumulated fault count,
	// mirroring the source algorithm's short-circuit on the last step).
	table3 := []record{
		mkRecord(100, 10, true),
		mkRecord(110, 4, true),
	}
	pool3 := []poolEntry{
		{offset: 0, length: 4},
		{offset: 4, length: 4},
	}
	if checkFix(table3, pool3, 0, 0) {
		t.Errorf("expected misalignment (hint > pool length) to fail")
	}
}
