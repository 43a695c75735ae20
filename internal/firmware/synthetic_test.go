package firmware

import (
	"encoding/binary"
	"fmt"
)

// synthBuilder assembles a byte-for-byte realistic VxWorks image for
// tests: a run of valid symbol records followed by a contiguous string
// pool, with zero padding around both so neither accidentally extends
// past its intended bounds.
type synthBuilder struct {
	version   Version
	bigEndian bool
	base      uint32 // the load address the pipeline should recover
}

// buildImage lays out numSymbols names (anchorIdx holds "bzero") into a
// string pool, a symbol table whose name pointers point at those names
// under base, and returns the assembled image plus the name list in
// table order.
func (sb synthBuilder) buildImage(numSymbols, anchorIdx int) ([]byte, []string) {
	names := make([]string, numSymbols)
	for i := range names {
		names[i] = fmt.Sprintf("sym%04d", i)
	}
	names[anchorIdx] = "bzero"
	return sb.buildImageNamed(names)
}

// buildImageNamed is like buildImage but takes the full name list
// verbatim, letting callers control exactly which (if any) anchor
// keyword appears and where.
func (sb synthBuilder) buildImageNamed(names []string) ([]byte, []string) {
	lay, err := layoutFor(sb.version)
	if err != nil {
		panic(err)
	}
	numSymbols := len(names)

	const headPad = 64
	const midPad = 32
	const tailPad = 32

	tableBytes := numSymbols * lay.width
	pad := make([]byte, headPad)

	// Build the pool region: a leading bad sentinel (so growLeft has
	// something to reject once it runs out of real entries), the
	// contiguous names, then a trailing bad sentinel.
	var pool []byte
	pool = append(pool, 0)
	pool = append(pool, []byte("bad\\name")...)
	pool = append(pool, 0)

	poolLocalOffset := make([]int, numSymbols)
	for i, n := range names {
		poolLocalOffset[i] = len(pool)
		pool = append(pool, []byte(n)...)
		pool = append(pool, 0)
	}
	pool = append(pool, []byte("bad\\tail")...)
	pool = append(pool, 0)

	poolImageOffset := headPad + tableBytes + midPad

	records := make([]byte, tableBytes)
	for i := range names {
		rec := records[i*lay.width : (i+1)*lay.width]
		namePtr := sb.base + uint32(poolImageOffset+poolLocalOffset[i])
		value := uint32(0x00020000 + i*4)
		putU32(rec[4:8], namePtr, sb.bigEndian)
		putU32(rec[8:12], value, sb.bigEndian)
		typ := byte(0x05)
		if lay.width == 16 {
			rec[12], rec[13] = 0, 0
			rec[14] = typ
			rec[15] = 0
		} else {
			rec[16], rec[17] = 0, 0
			rec[18] = typ
			rec[19] = 0
		}
	}

	img := append([]byte{}, pad...)
	img = append(img, records...)
	img = append(img, make([]byte, midPad)...)
	img = append(img, pool...)
	img = append(img, make([]byte, tailPad)...)
	return img, names
}

func putU32(b []byte, v uint32, bigEndian bool) {
	if bigEndian {
		binary.BigEndian.PutUint32(b, v)
	} else {
		binary.LittleEndian.PutUint32(b, v)
	}
}
