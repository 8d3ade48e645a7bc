package lr

import (
	"strings"

	"github.com/emirpasic/gods/utils"
	"github.com/lalrkit/lalrkit"
)

// SymbolKind tells terminals from non-terminals.
type SymbolKind uint8

// Kinds of grammar symbols.
const (
	TerminalKind SymbolKind = iota
	NonTerminalKind
)

func (k SymbolKind) String() string {
	if k == NonTerminalKind {
		return "NON_TERMINAL"
	}
	return "TERMINAL"
}

// Symbol is a grammar symbol. Symbols are small immutable values; two symbols
// are equal if their names and kinds are equal. Symbols may be used as map keys.
type Symbol struct {
	Name string
	Kind SymbolKind
}

// Special terminals. EOF is the end-of-input marker, used as lookahead.
// Epsilon is used within FIRST sets only and never appears as real input.
var (
	EOF     = Symbol{Name: lalrkit.EndMarker, Kind: TerminalKind}
	Epsilon = Symbol{Name: "ε", Kind: TerminalKind}
)

// T creates a terminal symbol.
func T(name string) Symbol {
	return Symbol{Name: name, Kind: TerminalKind}
}

// N creates a non-terminal symbol.
func N(name string) Symbol {
	return Symbol{Name: name, Kind: NonTerminalKind}
}

// IsTerminal returns true if A is a terminal (including EOF and Epsilon).
func (A Symbol) IsTerminal() bool {
	return A.Kind == TerminalKind
}

// IsZero is true for the zero value, which is not a valid symbol.
func (A Symbol) IsZero() bool {
	return A.Name == ""
}

func (A Symbol) String() string {
	return A.Name
}

func isReserved(name string) bool {
	return name == EOF.Name || name == Epsilon.Name
}

// compareSymbols orders terminals before non-terminals, then by name.
func compareSymbols(a, b Symbol) int {
	if a.Kind != b.Kind {
		return utils.IntComparator(int(a.Kind), int(b.Kind))
	}
	return strings.Compare(a.Name, b.Name)
}

// We need this for sets of symbols.
func symbolComparator(s1, s2 interface{}) int {
	return compareSymbols(s1.(Symbol), s2.(Symbol))
}
