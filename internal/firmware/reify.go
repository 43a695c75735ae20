package firmware

// Symbol is a resolved, named entry from the recovered symbol table.
type Symbol struct {
	Name       string
	NameVAddr  uint32
	ValueVAddr uint32
	Type       byte
}

// IsFunction reports whether the symbol denotes executable code (type
// 0x04 or 0x05), as opposed to data/bss/absolute.
func (s Symbol) IsFunction() bool {
	return IsFunctionType(s.Type)
}

// reifySymbols resolves each record's name pointer into a NUL-terminated
// string in the image using the derived load address L. Records whose
// name offset is out of bounds or doesn't begin a NUL-terminated run are
// skipped, not treated as a pipeline failure (spec.md §4.6, §7). The
// returned list preserves image order, not name order.
func reifySymbols(v *ByteView, records []record, loadAddress uint32) ([]Symbol, []string) {
	var symbols []Symbol
	var warnings []string

	for _, rec := range records {
		if rec.namePtr < loadAddress {
			warnings = append(warnings, "skipped record at image offset "+hex32(uint32(rec.offset))+": name pointer below load address")
			continue
		}
		off := int(rec.namePtr - loadAddress)
		if off != 0 {
			prev, err := v.Byte(off - 1)
			if err != nil || prev != 0 {
				warnings = append(warnings, "skipped unreifiable record at image offset "+hex32(uint32(rec.offset)))
				continue
			}
		}
		run, ok, err := nextString(v, off)
		if err != nil || !ok || run.start != off {
			warnings = append(warnings, "skipped unreifiable record at image offset "+hex32(uint32(rec.offset)))
			continue
		}
		name, err := bytesOf(v, run)
		if err != nil {
			warnings = append(warnings, "skipped unreifiable record at image offset "+hex32(uint32(rec.offset)))
			continue
		}

		symbols = append(symbols, Symbol{
			Name:       string(name),
			NameVAddr:  rec.namePtr,
			ValueVAddr: rec.value,
			Type:       rec.typ,
		})
	}

	return symbols, warnings
}

func hex32(v uint32) string {
	const digits = "0123456789abcdef"
	buf := [8]byte{'0', '0', '0', '0', '0', '0', '0', '0'}
	for i := 7; i >= 0 && v > 0; i-- {
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return "0x" + string(buf[:])
}
