// Package present formats analysis results for human consumption:
// colorized symbol listings, C++ demangling, and sensitive-value
// redaction. None of it feeds back into the core analysis pipeline.
package present

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

func init() {
	_ = SymbolDark
}

// SymbolDark is a custom style for the pseudo-C symbol listing, sharing
// vxhunter's color scheme across terminal output.
var SymbolDark = styles.Register(chroma.MustNewStyle("vxhunter-dark", chroma.StyleEntries{
	chroma.Text:           "#FFFFFF",
	chroma.Background:     "bg:#000000",
	chroma.Comment:        "#FF8000",
	chroma.CommentPreproc: "#FF8000",

	chroma.Keyword:       "#87CEEB",
	chroma.KeywordType:   "#87CEEB",
	chroma.Name:          "#FFFFFF",
	chroma.NameBuiltin:   "#87CEEB",
	chroma.NameFunction:  "#FFC800",
	chroma.NameLabel:     "#FFC800",

	chroma.LiteralNumber:        "#FF80C0",
	chroma.LiteralNumberHex:     "#FF80C0",
	chroma.LiteralNumberInteger: "#FF80C0",

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFFFFF",
	chroma.String:      "#00FF00",
}))
