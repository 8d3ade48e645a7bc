/*
Package lalr provides an LALR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse tables. The parser is a stack
automaton which utilizes these tables to decide whether a sequence of input
tokens is a sentence of the grammar.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step.

Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("id").End()  // Var  --> Sign id
	b.LHS("Sign").T("+").End()            // Sign --> +
	b.LHS("Sign").T("-").End()            // Sign --> -
	b.LHS("Sign").Epsilon()               // Sign -->
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	ga := lr.Analysis(g)
	lrgen := lr.NewTableGenerator(ga)
	err = lrgen.CreateTables()
	if lrgen.HasConflicts { ... }  // conflicts have been resolved by policy

Finally parse some input:

	p := lalr.NewParser(lrgen.Table())
	accepted := p.Parse(lalrkit.Tokens("+", "id"))

A parser does not hold any state between parse runs. Any number of
parse runs may use the same parser (and table) concurrently.

Parse trees and error recovery are not provided. On a syntax error the parser
rejects the input; ParseTokens reports the reason.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package lalr

import (
	"fmt"

	"github.com/lalrkit/lalrkit"
	"github.com/lalrkit/lalrkit/lr"
	"github.com/lalrkit/lalrkit/lr/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrkit.parser'.
func tracer() tracing.Trace {
	return tracing.Select("lalrkit.parser")
}

// Reason tells why a parse run rejected its input.
type Reason uint8

// Reasons for rejecting input.
const (
	NoAction       Reason = iota + 1 // no ACTION entry for state and token
	NoGoto                           // no GOTO entry after a reduce
	StackExhausted                   // a reduce popped more states than present
)

func (r Reason) String() string {
	switch r {
	case NoAction:
		return "no action"
	case NoGoto:
		return "no goto"
	case StackExhausted:
		return "stack exhausted"
	}
	return "unknown"
}

// SyntaxError is returned by parse runs rejecting their input.
type SyntaxError struct {
	Reason   Reason
	State    int           // state on top of stack
	Token    lalrkit.Token // current input token
	Position int           // index of the token in the input
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at token #%d %q in state %d: %s",
		e.Position, e.Token.Name(), e.State, e.Reason)
}

// Parser is an LALR(1)-parser type. Create and initialize one with lalr.NewParser(...)
type Parser struct {
	table *lr.Table
}

// NewParser creates an LALR(1) parser for a table.
func NewParser(table *lr.Table) *Parser {
	return &Parser{table: table}
}

// Parse decides if a sequence of tokens is accepted. An end-marker token is
// appended to the input by the parser.
func (p *Parser) Parse(tokens []lalrkit.Token) bool {
	accept, _ := p.ParseTokens(tokens)
	return accept
}

// ParseTokens decides if a sequence of tokens is accepted. For rejected input
// it returns a *SyntaxError, telling the reason of rejection.
func (p *Parser) ParseTokens(tokens []lalrkit.Token) (bool, error) {
	eof := lalrkit.MakeToken(lalrkit.EndMarker, "", endSpan(tokens))
	ip := 0
	return p.run(func() lalrkit.Token {
		if ip >= len(tokens) {
			return eof
		}
		tok := tokens[ip]
		ip++
		return tok
	})
}

// ParseInput parses the tokens produced by a tokenizer. The tokenizer has to
// deliver a token named lalrkit.EndMarker at the end of input.
func (p *Parser) ParseInput(scan scanner.Tokenizer) (bool, error) {
	return p.run(scan.NextToken)
}

// run executes the stack automaton. The stack is owned by a single run.
//
// http://www.cse.unt.edu/~sweany/CSCE3650/HANDOUTS/LRParseAlg.pdf
func (p *Parser) run(next func() lalrkit.Token) (bool, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.table == nil {
		return false, fmt.Errorf("LALR(1)-parser not initialized")
	}
	stack := make([]int, 0, 64)
	stack = append(stack, p.table.InitialState()) // push S0
	token := next()
	pos := 0
	for {
		tracer().Debugf("got token %q/%q", token.Name(), token.Lexeme())
		state := stack[len(stack)-1] // TOS
		action, ok := p.table.Action(state, token.Name())
		tracer().Debugf("action(%d,%s)=%s", state, token.Name(), action)
		if !ok {
			return false, &SyntaxError{Reason: NoAction, State: state, Token: token, Position: pos}
		}
		switch action.Type {
		case lr.ShiftAction:
			stack = append(stack, action.State)
			token = next()
			pos++
		case lr.ReduceAction:
			rule := action.Rule
			tracer().Debugf("reduce %v", rule)
			if rule.Len() >= len(stack) {
				return false, &SyntaxError{Reason: StackExhausted, State: state, Token: token, Position: pos}
			}
			stack = stack[:len(stack)-rule.Len()]
			top := stack[len(stack)-1]
			nextstate, ok := p.table.Goto(top, rule.LHS)
			if !ok {
				return false, &SyntaxError{Reason: NoGoto, State: top, Token: token, Position: pos}
			}
			tracer().Debugf("reduced to next state = %d", nextstate)
			stack = append(stack, nextstate)
		case lr.AcceptAction:
			tracer().Debugf("accept")
			return true, nil
		}
	}
}

// The end-marker is positioned just behind the last token.
func endSpan(tokens []lalrkit.Token) lalrkit.Span {
	if len(tokens) == 0 {
		return lalrkit.Span{}
	}
	end := tokens[len(tokens)-1].Span().To()
	return lalrkit.Span{end, end}
}
