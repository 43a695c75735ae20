package present

import "github.com/ianlancetaylor/demangle"

// Demangle attempts to demangle an Itanium-ABI (`_Z...`) C++ symbol name
// for display; older GNU v2-style names are not recognized. VxWorks images routinely link C++ object code
// alongside C, and GCC/Diab toolchains both emit Itanium-style mangled
// names into the symbol table. On failure (the name isn't mangled, or
// uses a scheme demangle doesn't recognize) name is returned unchanged;
// this never errors and never feeds back into analysis.
func Demangle(name string) string {
	out, err := demangle.ToString(name, demangle.NoParams)
	if err != nil {
		return name
	}
	return out
}

// DemangleFull is like Demangle but keeps parameter types and return
// type in the rendered signature, for verbose listings.
func DemangleFull(name string) string {
	out, err := demangle.ToString(name)
	if err != nil {
		return name
	}
	return out
}
