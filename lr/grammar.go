package lr

import (
	"errors"
	"fmt"
	"strings"
)

// Errors reported while building grammars and automata.
var (
	ErrReservedName     = errors.New("reserved symbol name")
	ErrSymbolKind       = errors.New("symbol used as terminal and as non-terminal")
	ErrEpsilon          = errors.New("epsilon may only stand alone on a right hand side")
	ErrNoStartSymbol    = errors.New("start symbol missing")
	ErrAugmentCollision = errors.New("augmented start symbol collides with grammar symbol")
)

// === Rules =================================================================

// Rule is a production of a grammar,
//
//    LHS ➞ X1 … Xn
//
// An empty right hand side denotes an epsilon-production. Rules are immutable.
// Serial is the position of a rule within its grammar; the augmented start
// rule created during automaton construction has serial -1.
type Rule struct {
	Serial int
	LHS    Symbol
	rhs    []Symbol
}

// RHS returns a copy of the right hand side of a rule.
func (r *Rule) RHS() []Symbol {
	return append([]Symbol(nil), r.rhs...)
}

// Len is the length of the right hand side. Epsilon-productions have length 0.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEps returns true for epsilon-productions.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

// Equals compares rules structurally.
func (r *Rule) Equals(other *Rule) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil || r.LHS != other.LHS || len(r.rhs) != len(other.rhs) {
		return false
	}
	for i, A := range r.rhs {
		if A != other.rhs[i] {
			return false
		}
	}
	return true
}

func (r *Rule) String() string {
	if r.IsEps() {
		return fmt.Sprintf("%s ➞ %s", r.LHS, Epsilon)
	}
	var b strings.Builder
	b.WriteString(r.LHS.Name)
	b.WriteString(" ➞")
	for _, A := range r.rhs {
		b.WriteString(" ")
		b.WriteString(A.Name)
	}
	return b.String()
}

// === Grammars ==============================================================

// Grammar is a context-free grammar. Grammars are created by a GrammarBuilder and
// are read-only afterwards.
type Grammar struct {
	Name         string
	rules        []*Rule
	start        Symbol
	terminals    []Symbol          // in order of first appearance
	nonterminals []Symbol          // in order of first appearance
	symbols      map[string]Symbol // all symbols by name
	rulesByLHS   map[Symbol][]*Rule
}

// Rules returns all rules of the grammar, in order of definition.
func (g *Grammar) Rules() []*Rule {
	return append([]*Rule(nil), g.rules...)
}

// Rule returns rule #no, or nil.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Start returns the start symbol.
func (g *Grammar) Start() Symbol {
	return g.start
}

// Terminals returns the terminal symbols of the grammar, without EOF.
func (g *Grammar) Terminals() []Symbol {
	return append([]Symbol(nil), g.terminals...)
}

// NonTerminals returns the non-terminal symbols of the grammar.
func (g *Grammar) NonTerminals() []Symbol {
	return append([]Symbol(nil), g.nonterminals...)
}

// SymbolByName finds a grammar symbol by name.
func (g *Grammar) SymbolByName(name string) (Symbol, bool) {
	A, ok := g.symbols[name]
	return A, ok
}

// RulesFor returns all rules with left hand side A.
func (g *Grammar) RulesFor(A Symbol) []*Rule {
	return g.rulesByLHS[A]
}

// EachSymbol iterates over the alphabet of the grammar: terminals first,
// then non-terminals, each in order of first appearance.
func (g *Grammar) EachSymbol(mapper func(A Symbol)) {
	for _, A := range g.terminals {
		mapper(A)
	}
	for _, A := range g.nonterminals {
		mapper(A)
	}
}

// Size returns the number of rules.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Dump is a debugging helper.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s --------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-----------------------------------")
}

// === Grammar Builder =======================================================

// GrammarBuilder is a builder type for grammars. Create one with
// NewGrammarBuilder and add rules with LHS(...).
//
//    b := NewGrammarBuilder("G")
//    b.LHS("S").N("A").T("a").End()   // S ➞ A a
//    b.LHS("A").Epsilon()             // A ➞
//    g, err := b.Grammar()
//
// Structurally identical rules are entered only once.
type GrammarBuilder struct {
	g         *Grammar
	startName string
	err       error
}

// NewGrammarBuilder creates a builder for a grammar called gname.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{
		g: &Grammar{
			Name:       gname,
			symbols:    make(map[string]Symbol),
			rulesByLHS: make(map[Symbol][]*Rule),
		},
	}
}

// StartSymbol sets the start symbol. If not set, the LHS of the first rule
// will be the start symbol.
func (b *GrammarBuilder) StartSymbol(name string) *GrammarBuilder {
	b.startName = name
	return b
}

// LHS starts a new rule with left hand side symbol name.
func (b *GrammarBuilder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{b: b, lhs: N(name)}
}

// Grammar returns the grammar built so far, or the first error encountered.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	g := b.g
	if b.startName != "" {
		g.start = N(b.startName)
	} else if len(g.rules) > 0 {
		g.start = g.rules[0].LHS
	}
	return g, nil
}

func (b *GrammarBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
		tracer().Errorf("grammar %s: %v", b.g.Name, err)
	}
}

// register enters a symbol into the symbol table, checking for
// clashes of kinds.
func (b *GrammarBuilder) register(A Symbol) bool {
	if A.IsZero() || isReserved(A.Name) {
		b.fail(fmt.Errorf("%w: %q", ErrReservedName, A.Name))
		return false
	}
	if B, ok := b.g.symbols[A.Name]; ok {
		if B.Kind != A.Kind {
			b.fail(fmt.Errorf("%w: %q", ErrSymbolKind, A.Name))
			return false
		}
		return true
	}
	b.g.symbols[A.Name] = A
	if A.IsTerminal() {
		b.g.terminals = append(b.g.terminals, A)
	} else {
		b.g.nonterminals = append(b.g.nonterminals, A)
	}
	return true
}

func (b *GrammarBuilder) appendRule(lhs Symbol, rhs []Symbol) *Rule {
	if len(rhs) == 1 && rhs[0] == Epsilon {
		rhs = nil
	}
	for _, A := range rhs {
		if A == Epsilon {
			b.fail(fmt.Errorf("%w: %s", ErrEpsilon, lhs))
			return nil
		}
	}
	ok := b.register(lhs)
	for _, A := range rhs {
		ok = b.register(A) && ok
	}
	if !ok {
		return nil
	}
	r := &Rule{LHS: lhs, rhs: rhs}
	for _, old := range b.g.rulesByLHS[lhs] {
		if old.Equals(r) {
			tracer().Debugf("rule %s already present as #%d", r, old.Serial)
			return old
		}
	}
	r.Serial = len(b.g.rules)
	b.g.rules = append(b.g.rules, r)
	b.g.rulesByLHS[lhs] = append(b.g.rulesByLHS[lhs], r)
	return r
}

// RuleBuilder is a builder type for rules, created by GrammarBuilder.LHS.
type RuleBuilder struct {
	b   *GrammarBuilder
	lhs Symbol
	rhs []Symbol
}

// N appends a non-terminal to the right hand side.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, N(name))
	return rb
}

// T appends a terminal to the right hand side. T("ε") denotes an
// epsilon-production if it is the only symbol of the right hand side.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	if name == Epsilon.Name {
		rb.rhs = append(rb.rhs, Epsilon)
		return rb
	}
	rb.rhs = append(rb.rhs, T(name))
	return rb
}

// End completes a rule and enters it into the grammar. It returns the rule,
// or nil if the rule is erroneous (the error is reported by GrammarBuilder.Grammar).
func (rb *RuleBuilder) End() *Rule {
	return rb.b.appendRule(rb.lhs, rb.rhs)
}

// Epsilon completes an epsilon-production.
func (rb *RuleBuilder) Epsilon() *Rule {
	if len(rb.rhs) > 0 {
		rb.b.fail(fmt.Errorf("%w: %s", ErrEpsilon, rb.lhs))
		return nil
	}
	return rb.b.appendRule(rb.lhs, nil)
}
