package firmware

// fixupWindow bounds the CheckFix walk (spec.md §4.5, min(100, |table|)).
const fixupWindow = 100

// maxFaults is the fixup check's tolerance for symbol names that point
// into the middle of a longer pool string.
const maxFaults = 10

// knownLoadAddresses are common VxWorks link bases tried by the
// quick_test fallback before the full (i, j) scan.
var knownLoadAddresses = []uint32{
	0x80002000, 0x10000, 0x1000, 0xF2003FE4, 0x100000, 0x107FE0,
}

// checkFix walks forward from (j, i) up to min(100, |table|) steps,
// requiring the pool-entry-length sequence to align with the table's
// name-length-hint sequence, tolerating up to maxFaults cases where a
// symbol name points into the middle of a longer string. It implements
// spec.md §4.5's "fixup check" exactly.
func checkFix(table []record, pool []poolEntry, j, i int) bool {
	steps := fixupWindow
	if len(table) < steps {
		steps = len(table)
	}
	if steps == 0 {
		return false
	}

	faults := 0
	for step := 0; ; step++ {
		if j >= len(table) || i >= len(pool) {
			return false
		}
		if step == steps-1 {
			return faults < maxFaults
		}

		rec := table[j]
		if !rec.hasLenHint {
			return false
		}
		switch {
		case pool[i].length == int(rec.nameLenHint):
			j++
			i++
		case int(rec.nameLenHint) < pool[i].length:
			faults++
			j++
		default:
			return false
		}
	}
}

// solveLoadAddress implements spec.md §4.5's (i, j) matching algorithm:
// for every pair with matching lengths, run the fixup check; on success
// derive L = table[j].namePtr - pool[i].offset. opts.Parallel shards the
// outer loop by i across goroutines and returns the lexicographically
// lowest successful (i, j), preserving determinism per spec.md §5.
func solveLoadAddress(table []record, pool []poolEntry, opts Options) (uint32, bool, error) {
	if len(table) == 0 || len(pool) == 0 {
		return 0, false, nil
	}

	if opts.Parallel {
		if l, ok := solveLoadAddressParallel(table, pool); ok {
			return l, true, nil
		}
		return 0, false, nil
	}

	for i := range pool {
		for j := range table {
			if !table[j].hasLenHint || pool[i].length != int(table[j].nameLenHint) {
				continue
			}
			if checkFix(table, pool, j, i) {
				return table[j].namePtr - uint32(pool[i].offset), true, nil
			}
		}
	}
	return 0, false, nil
}

// quickTestLoadAddress tries each common link base against the first
// min(100, |table|) records: for a candidate base A, off = namePtr - A
// must be positive and must be the exact start of a NUL-terminated
// string (the byte immediately before off is 0x00, or off == 0). All
// checked records must pass for A to be accepted.
func quickTestLoadAddress(v *ByteView, table []record) (uint32, bool, error) {
	count := fixupWindow
	if len(table) < count {
		count = len(table)
	}

	for _, base := range knownLoadAddresses {
		ok, err := checkLoadAddress(v, table[:count], base)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return base, true, nil
		}
	}
	return 0, false, nil
}

func checkLoadAddress(v *ByteView, records []record, base uint32) (bool, error) {
	for _, rec := range records {
		if rec.namePtr < base {
			return false, nil
		}
		off := int(rec.namePtr - base)
		if off < 0 || off >= v.Len() {
			return false, nil
		}
		if off != 0 {
			prev, err := v.Byte(off - 1)
			if err != nil {
				return false, err
			}
			if prev != 0 {
				return false, nil
			}
		}
	}
	return true, nil
}
