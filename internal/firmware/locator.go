package firmware

import "sort"

// windowSize is the number of consecutive records a candidate start offset
// must validate before the locator accepts it as the true symbol table.
const windowSize = 100

// columnSampleSize is how many consecutive records the V5 endianness
// column test compares.
const columnSampleSize = 9

// symbolTable is the confirmed [start, end) run of valid records, sorted
// by name_ptr with each record's name-length hint filled in.
type symbolTable struct {
	start, end int // byte offsets in the image
	lay        layout
	byOffset   []record // in image order, [start, end)
	byName     []record // sorted by namePtr ascending, nameLenHint set
}

// locateSymbolTable scans the image for the unique run of structurally
// valid records and, for V5, uses the column test to provisionally decide
// endianness during window acceptance (spec.md §4.3).
func locateSymbolTable(v *ByteView, version Version) (*symbolTable, bool, error) {
	lay, err := layoutFor(version)
	if err != nil {
		return nil, false, err
	}
	c := newCodec(v, lay)

	start := -1
	provisionalBigEndian := false
	for off := 0; off+lay.width <= v.Len(); off++ {
		if !c.structurallyValid(off) {
			continue
		}
		ok, bigEndian, err := windowTest(c, v, lay, version, off)
		if err != nil {
			return nil, false, err
		}
		if ok {
			start = off
			provisionalBigEndian = bigEndian
			break
		}
	}

	if start < 0 {
		return nil, false, newAnalysisError(KindNoSymbolTable, "no offset produced a valid 100-record window")
	}

	end := start
	for off := start; off+lay.width <= v.Len(); off += lay.width {
		if !c.structurallyValid(off) {
			break
		}
		end = off + lay.width
	}

	return &symbolTable{start: start, end: end, lay: lay}, provisionalBigEndian, nil
}

// windowTest reports whether the C=100 consecutive records starting at off
// are all structurally valid, and (V5 only) whether the column test can
// distinguish endianness. For V6 the column test isn't part of window
// acceptance (EndiannessProbe handles it separately), so ok is purely the
// structural-validity check.
func windowTest(c *codec, v *ByteView, lay layout, version Version, off int) (ok bool, bigEndian bool, err error) {
	end := off + lay.width*windowSize
	if end > v.Len() {
		return false, false, nil
	}
	for i := 0; i < windowSize; i++ {
		if !c.structurallyValid(off + i*lay.width) {
			return false, false, nil
		}
	}

	if version != V5 {
		return true, false, nil
	}

	big, little, err := columnTest(v, lay.width, off)
	if err != nil {
		return false, false, err
	}
	if big == little {
		// both pass or both fail: ambiguous, reject this window
		return false, false, nil
	}
	return true, big, nil
}

// columnTest compares bytes [4,6) (candidate big-endian high bytes) and
// [6,8) (candidate little-endian high bytes) of the name pointer across
// columnSampleSize consecutive records starting at off, per spec.md
// §4.3's "Column test (V5)".
func columnTest(v *ByteView, width, off int) (bigEndian, littleEndian bool, err error) {
	bigEndian = true
	littleEndian = true

	for i := 0; i < columnSampleSize; i++ {
		a := off + i*width
		b := off + (i+1)*width

		hiA, err := v.Slice(a+4, 2)
		if err != nil {
			return false, false, err
		}
		hiB, err := v.Slice(b+4, 2)
		if err != nil {
			return false, false, err
		}
		if !bytesEqual(hiA, hiB) {
			bigEndian = false
		}

		loA, err := v.Slice(a+6, 2)
		if err != nil {
			return false, false, err
		}
		loB, err := v.Slice(b+6, 2)
		if err != nil {
			return false, false, err
		}
		if !bytesEqual(loA, loB) {
			littleEndian = false
		}
	}

	return bigEndian, littleEndian, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// decodeAndSort fills byOffset (image order) and byName (sorted by
// namePtr, with nameLenHint set) once endianness is known.
func (st *symbolTable) decodeAndSort(v *ByteView, bigEndian bool) error {
	c := newCodec(v, st.lay)

	st.byOffset = nil
	for off := st.start; off < st.end; off += st.lay.width {
		r, err := c.decode(off, bigEndian)
		if err != nil {
			return err
		}
		st.byOffset = append(st.byOffset, r)
	}

	st.byName = append([]record(nil), st.byOffset...)
	sortRecordsByName(st.byName)
	for i := 0; i+1 < len(st.byName); i++ {
		st.byName[i].nameLenHint = st.byName[i+1].namePtr - st.byName[i].namePtr
		st.byName[i].hasLenHint = true
	}
	return nil
}

func sortRecordsByName(rs []record) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].namePtr < rs[j].namePtr })
}
