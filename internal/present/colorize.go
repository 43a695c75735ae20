package present

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// IsDisabled returns true if colors are disabled via environment or flag.
func IsDisabled(noColor bool) bool {
	return noColor || os.Getenv("VXHUNTER_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}

func getCLexer() chroma.Lexer {
	candidates := []string{"c", "C", "cpp"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getSymbolStyle() *chroma.Style {
	candidates := []string{"vxhunter-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Prototype renders a pseudo-C prototype line ("void bzero(void);" style,
// built by the caller from a Symbol) with syntax highlighting.
func Prototype(src string, noColor bool) string {
	if IsDisabled(noColor) {
		return src
	}

	lexer := getCLexer()
	if lexer == nil {
		return src
	}

	style := getSymbolStyle()
	formatter := getTerminalFormatter()

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// Address formats a virtual address in yellow.
func Address(addr uint32) string {
	return fmt.Sprintf("\033[38;2;255;200;0m%08X\033[0m", addr)
}

// AddressPlain formats an address without color, for --no-color mode.
func AddressPlain(addr uint32) string {
	return fmt.Sprintf("%08X", addr)
}

// FuncName formats a function symbol name in yellow.
func FuncName(name string) string {
	return fmt.Sprintf("\033[38;2;255;200;0m%s\033[0m", name)
}

// DataName formats a data symbol name in light blue.
func DataName(name string) string {
	return fmt.Sprintf("\033[38;2;135;206;235m%s\033[0m", name)
}

// Detail formats detail/metadata text in light gray.
func Detail(detail string) string {
	return fmt.Sprintf("\033[38;2;180;180;180m%s\033[0m", detail)
}

// Warning formats a pipeline warning in orange.
func Warning(s string) string {
	return fmt.Sprintf("\033[38;2;255;128;0m%s\033[0m", s)
}

// Error formats error messages in pink.
func Error(s string) string {
	return fmt.Sprintf("\033[38;2;255;128;192m%s\033[0m", s)
}

// Header formats a section header in blue.
func Header(s string) string {
	return fmt.Sprintf("\033[38;2;86;156;214m%s\033[0m", s)
}

// Border formats border/rule characters in dark gray.
func Border(s string) string {
	return fmt.Sprintf("\033[38;2;80;80;80m%s\033[0m", s)
}
