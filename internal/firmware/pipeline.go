package firmware

import "strings"

// Options configures a single Analyze call. The zero value is the
// default sequential, unredacted analysis.
type Options struct {
	// Parallel shards the §4.5 load-address search across CPU cores
	// (spec.md §5). Sequential execution is the default and the tested
	// path; this is opt-in.
	Parallel bool
	// RunID, if set, is stamped onto the returned FirmwareInfo for log
	// correlation. The core never generates one itself — spec.md's core
	// "performs no I/O" and has no notion of a run; callers that want
	// correlation (the CLI driver) generate and pass one in.
	RunID string
}

// FirmwareInfo is the analysis report (spec.md §3). All fields are
// populated on success. Analyze returns no report at all when any stage
// fails: the result is nil and only the error's Kind says which stage
// stopped the run.
type FirmwareInfo struct {
	RunID            string
	Version          Version
	BigEndian        bool
	LoadAddress      uint32
	SymbolTableStart int
	SymbolTableEnd   int
	Symbols          []Symbol
	Warnings         []string
}

// FindSymbol looks up the first symbol with the given name.
func (fi *FirmwareInfo) FindSymbol(name string) (Symbol, bool) {
	for _, s := range fi.Symbols {
		if s.Name == name {
			return s, true
		}
	}
	return Symbol{}, false
}

// FindSymbolsBySubstring returns every symbol whose name contains needle.
func (fi *FirmwareInfo) FindSymbolsBySubstring(needle string) []Symbol {
	var out []Symbol
	for _, s := range fi.Symbols {
		if strings.Contains(s.Name, needle) {
			out = append(out, s)
		}
	}
	return out
}

// Analyze runs the full discovery pipeline over image for the declared
// VxWorks version: Locator -> EndiannessProbe -> Codec (full parse) ->
// StringPoolLocator -> LoadAddressSolver -> Reifier (spec.md §2's control
// flow). Each stage may fail and short-circuit with a typed
// *AnalysisError; Analyze performs no I/O.
func Analyze(image []byte, version Version, opts Options) (*FirmwareInfo, error) {
	v := NewByteView(image)
	if v.Len() < 1 {
		return nil, newAnalysisError(KindNoSymbolTable, "empty image")
	}

	st, _, err := locateSymbolTable(v, version)
	if err != nil {
		return nil, err
	}

	// EndiannessProbe re-runs the column test on the confirmed table
	// (spec.md §4.4) rather than trusting the locator's provisional
	// decision from window acceptance.
	bigEndian, err := probeEndianness(v, st, version)
	if err != nil {
		return nil, err
	}

	if err := st.decodeAndSort(v, bigEndian); err != nil {
		return nil, err
	}

	seed, err := findAnchorSeed(image)
	if err != nil {
		return nil, err
	}

	poolStart, poolEnd, err := locateStringPool(v, seed)
	if err != nil {
		return nil, err
	}
	pool, err := buildStringPool(v, poolStart, poolEnd)
	if err != nil {
		return nil, err
	}

	var loadAddress uint32
	var ok bool
	if quick, found, err := quickTestLoadAddress(v, st.byName); err != nil {
		return nil, err
	} else if found {
		loadAddress, ok = quick, true
	}
	if !ok {
		loadAddress, ok, err = solveLoadAddress(st.byName, pool, opts)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, newAnalysisError(KindNoLoadAddress, "neither the length-matching scan nor the known-base probe produced a consistent load address")
	}

	symbols, warnings := reifySymbols(v, st.byOffset, loadAddress)

	return &FirmwareInfo{
		RunID:            opts.RunID,
		Version:          version,
		BigEndian:        bigEndian,
		LoadAddress:      loadAddress,
		SymbolTableStart: st.start,
		SymbolTableEnd:   st.end,
		Symbols:          symbols,
		Warnings:         warnings,
	}, nil
}
