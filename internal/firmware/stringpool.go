package firmware

import "bytes"

// poolMinEntries is the minimum number of function-name entries pool
// discovery must accept before a rejection can fix an edge instead of
// aborting (spec.md §4.4, C = 100).
const poolMinEntries = 100

// maxGap is the largest allowed run of NUL bytes between two accepted
// pool entries.
const maxGap = 3

// maxFuncNameLen is the longest byte run the function-name predicate
// accepts.
const maxFuncNameLen = 512

var badFuncNameBytes = map[byte]bool{
	'\\': true, '%': true, '+': true, ',': true, '&': true,
	'/': true, ')': true, '(': true, '[': true, ']': true,
}

// isPrintable reports whether b is printable ASCII.
func isPrintable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

// isFuncName reports whether b satisfies the "function-name" predicate of
// spec.md §4.4: nonempty, at most 512 bytes, none of a small punctuation
// blacklist, and entirely printable ASCII.
func isFuncName(b []byte) bool {
	if len(b) < 1 || len(b) > maxFuncNameLen {
		return false
	}
	for _, c := range b {
		if badFuncNameBytes[c] || !isPrintable(c) {
			return false
		}
	}
	return true
}

// poolEntry is one NUL-terminated string inside the discovered pool
// window, in address order.
type poolEntry struct {
	offset int
	length int // includes the terminating NUL
}

// stringRun is one NUL-terminated, non-NUL byte run found by scanning
// forward or backward from a seed.
type stringRun struct {
	start, end int // [start, end) excludes the terminator; end < Len()
}

// prevString finds the nearest NUL-terminated run ending at or before
// offset, scanning backward. It returns ok=false if it reaches the start
// of the image without finding a non-NUL byte.
func prevString(v *ByteView, offset int) (stringRun, bool, error) {
	off := offset
	for off > 0 {
		b, err := v.Byte(off)
		if err != nil {
			return stringRun{}, false, err
		}
		if b == 0 {
			off--
			continue
		}
		end := off + 1
		start := off
		for start > 0 {
			prev, err := v.Byte(start - 1)
			if err != nil {
				return stringRun{}, false, err
			}
			if prev == 0 {
				break
			}
			start--
		}
		return stringRun{start: start, end: end}, true, nil
	}
	return stringRun{}, false, nil
}

// nextString finds the nearest NUL-terminated run starting at or after
// offset, scanning forward. It returns ok=false if it reaches the end of
// the image without finding a terminator.
func nextString(v *ByteView, offset int) (stringRun, bool, error) {
	off := offset
	n := v.Len()
	for off < n {
		b, err := v.Byte(off)
		if err != nil {
			return stringRun{}, false, err
		}
		if b == 0 {
			off++
			continue
		}
		start := off
		end := off
		for end < n {
			c, err := v.Byte(end)
			if err != nil {
				return stringRun{}, false, err
			}
			if c == 0 {
				break
			}
			end++
		}
		if end >= n {
			// Ran off the end without a terminating NUL: bounded, not a
			// valid string run (spec.md §9: every access must be bounded,
			// and an unterminated tail can't be a pool entry).
			return stringRun{}, false, nil
		}
		return stringRun{start: start, end: end}, true, nil
	}
	return stringRun{}, false, nil
}

func bytesOf(v *ByteView, r stringRun) ([]byte, error) {
	return v.Slice(r.start, r.end-r.start)
}

// locateStringPool grows a window [Ps, Pe) from seed (known to point at a
// function name) outward in both directions, accepting only function-name
// runs separated by at most maxGap NUL bytes, per spec.md §4.4.
func locateStringPool(v *ByteView, seed int) (int, int, error) {
	accepted := 1
	leftEdge, err := growLeft(v, seed, &accepted)
	if err != nil {
		return 0, 0, err
	}
	rightEdge, err := growRight(v, seed, &accepted)
	if err != nil {
		return 0, 0, err
	}
	return leftEdge, rightEdge, nil
}

// growLeft walks backward from the seed's start, accepting function-name
// runs within the gap bound, and returns the lowest accepted offset.
func growLeft(v *ByteView, seed int, accepted *int) (int, error) {
	seedRun, ok, err := nextString(v, seed)
	if err != nil {
		return 0, err
	}
	if !ok {
		return seed, nil
	}
	edge := seedRun.start
	cursor := seedRun.start

	for cursor > 0 {
		run, ok, err := prevString(v, cursor-1)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		b, err := bytesOf(v, run)
		if err != nil {
			return 0, err
		}
		gap := edge - run.end
		if !isFuncName(b) || gap > maxGap {
			if *accepted < poolMinEntries {
				return 0, newAnalysisError(KindNoStringPool, "left growth rejected before reaching minimum entry count")
			}
			break
		}
		*accepted++
		edge = run.start
		cursor = run.start
	}
	return edge, nil
}

// growRight walks forward from the seed's end, accepting function-name
// runs within the gap bound, and returns one past the highest accepted
// byte. A rejection before reaching the minimum entry count resets the
// accumulator and continues scanning past the offending run, tolerating
// short stretches of unrelated strings near the pool (spec.md §7).
func growRight(v *ByteView, seed int, accepted *int) (int, error) {
	seedRun, ok, err := nextString(v, seed)
	if err != nil {
		return 0, err
	}
	if !ok {
		return seed, nil
	}
	edge := seedRun.end
	cursor := seedRun.end

	for cursor < v.Len() {
		run, ok, err := nextString(v, cursor)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		b, err := bytesOf(v, run)
		if err != nil {
			return 0, err
		}
		gap := run.start - edge
		if !isFuncName(b) || gap > maxGap {
			if *accepted < poolMinEntries {
				*accepted = 0
				edge = run.end
				cursor = run.end
				continue
			}
			break
		}
		*accepted++
		edge = run.end
		cursor = run.end
	}
	return edge, nil
}

// buildStringPool walks [start, end) splitting on NUL to produce entries
// with true offsets and lengths (including the terminator), in address
// order, per spec.md §4.4's "rebuilt cleanly" step.
func buildStringPool(v *ByteView, start, end int) ([]poolEntry, error) {
	var entries []poolEntry
	offset := start
	addr := offset
	for offset < end {
		b, err := v.Byte(offset)
		if err != nil {
			return nil, err
		}
		if b != 0 {
			offset++
			continue
		}
		next := offset + 1
		for next < end {
			c, err := v.Byte(next)
			if err != nil {
				return nil, err
			}
			if c != 0 {
				break
			}
			next++
		}
		entries = append(entries, poolEntry{offset: addr, length: next - addr})
		offset = next
		addr = next
	}
	return entries, nil
}

// findAnchorSeed scans the image for the canonical VxWorks keyword list,
// in order, and returns the byte offset just past the leading NUL of the
// first keyword actually present (checking both the plain and
// underscore-prefixed forms with a genuine bytes.Contains test — not the
// Python original's `x in self._firmware is False` precedence bug, which
// always evaluates False and so never rejects anything; spec.md §9 Open
// Question). It returns ErrMissingAnchor only if none of the keywords
// appear in either form.
func findAnchorSeed(image []byte) (int, error) {
	for _, kw := range anchorKeywords {
		plain := append([]byte{0}, append([]byte(kw), 0)...)
		if idx := bytes.Index(image, plain); idx >= 0 {
			return idx + 1, nil
		}
		prefixed := append([]byte("\x00_"), append([]byte(kw), 0)...)
		if idx := bytes.Index(image, prefixed); idx >= 0 {
			return idx + 1, nil
		}
	}
	return 0, newAnalysisError(KindMissingAnchor, "none of the canonical keywords (bzero, usrInit, bfill) appear in either form")
}

// anchorKeywords are function names known to appear in essentially all
// VxWorks images; used to seed string-pool discovery.
var anchorKeywords = []string{"bzero", "usrInit", "bfill"}
