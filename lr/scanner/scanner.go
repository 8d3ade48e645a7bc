/*
Package scanner defines an interface for scanners to be used with parsers of package lr.

Two default scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', and (2) an adapter for lexmachine, living in sub-package `lexmach`.

Parsers match tokens to grammar terminals by name. Scanners therefore name
their tokens after terminals; at the end of input they deliver a token named
lalrkit.EndMarker.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/lalrkit/lalrkit"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrkit.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lalrkit.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() lalrkit.Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune            // last token this scanner has produced
	Error        func(error)     // error handler
	unifyStrings bool            // convert single chars to strings
	names        map[rune]string // token class → terminal name
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// defaultNames names token classes. Single-character tokens, e.g. '+', are
// named by their character.
var defaultNames = map[rune]string{
	EOF:       lalrkit.EndMarker,
	Ident:     "ident",
	Int:       "int",
	Float:     "float",
	Char:      "char",
	String:    "string",
	RawString: "string",
	Comment:   "comment",
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.names = make(map[rune]string, len(defaultNames))
	for class, name := range defaultNames {
		t.names[class] = name
	}
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Position, msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() lalrkit.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	return lalrkit.MakeToken(
		t.name(t.lastToken),
		t.TokenText(),
		lalrkit.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	)
}

func (t *DefaultTokenizer) name(class rune) string {
	if name, ok := t.names[class]; ok {
		return name
	}
	return string(class)
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenizer.
type Option func(p *DefaultTokenizer)

const (
	optionSkipComments uint = 1 << 1 // do not pass comments
	optionUnifyStrings uint = 1 << 2 // treat raw strings and single chars as strings
)

// SkipComments set or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// Names sets the terminal names for token classes, e.g.
//
//    Names(map[rune]string{ Ident: "id", Int: "id" })
//
// lets identifiers and integers stand for terminal 'id'.
func Names(names map[rune]string) Option {
	return func(t *DefaultTokenizer) {
		for class, name := range names {
			t.names[class] = name
		}
	}
}

func (t *DefaultTokenizer) hasmode(m uint) bool {
	switch m {
	case optionUnifyStrings:
		return t.unifyStrings
	case optionSkipComments:
		return t.Mode&scanner.SkipComments > 0
	}
	return false
}
