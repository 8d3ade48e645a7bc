package lalrkit

import "fmt"

// EndMarker is the name of the end-of-input terminal. Parsers append a token
// of this name after the last input token; scanners return it at end of input.
const EndMarker = "$"

// --- A general purpose interface for tokens --------------------------------

// Token represents an input token. Tokens are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for an identifier:
//
//    Name    = "id"        // name of the terminal this token stands for
//    Lexeme  = "counter"   // lexeme how it appeared in the input stream
//    Span    = 67…74       // occured from position 67 in the input stream
//
// Parsers resolve the terminal a token represents by comparing Name() with
// the names of the grammar's terminals.
type Token interface {
	Name() string
	Lexeme() string
	Span() Span
}

// SimpleToken is a very unsophisticated token type. It is used by the
// scanners of this module and is handy for tests.
type SimpleToken struct {
	name   string
	lexeme string
	span   Span
}

// MakeToken creates a token for terminal name, with lexeme and span.
func MakeToken(name string, lexeme string, span Span) SimpleToken {
	return SimpleToken{name: name, lexeme: lexeme, span: span}
}

// Tokens is a helper to create a sequence of tokens from terminal names.
// Each token's lexeme equals its name; spans are consecutive.
func Tokens(names ...string) []Token {
	toks := make([]Token, len(names))
	for i, n := range names {
		toks[i] = SimpleToken{name: n, lexeme: n, span: Span{uint64(i), uint64(i + 1)}}
	}
	return toks
}

// Name is part of interface Token.
func (t SimpleToken) Name() string {
	return t.name
}

// Lexeme is part of interface Token.
func (t SimpleToken) Lexeme() string {
	return t.lexeme
}

// Span is part of interface Token.
func (t SimpleToken) Span() Span {
	return t.span
}

func (t SimpleToken) String() string {
	return fmt.Sprintf("<%s %q %s>", t.name, t.lexeme, t.span)
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. A span
// denotes a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
