package lr

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// FirstSets is the interface through which automaton construction consumes
// FIRST sets. First(A) returns the terminals which may begin a derivation of A,
// including Epsilon if A derives the empty string.
type FirstSets interface {
	First(A Symbol) []Symbol
}

// LRAnalysis is an object for static grammar analysis. It computes FIRST
// sets for all symbols of a grammar.
type LRAnalysis struct {
	g     *Grammar
	first map[Symbol]*treeset.Set
}

var _ FirstSets = (*LRAnalysis)(nil)

// Analysis creates an analyser for a grammar and computes FIRST sets.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:     g,
		first: make(map[Symbol]*treeset.Set, len(g.nonterminals)),
	}
	ga.computeFirstSets()
	return ga
}

// Grammar returns the grammar this analyser is for.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// First returns FIRST(A), sorted. For terminals (and EOF, Epsilon) FIRST(A) = { A }.
func (ga *LRAnalysis) First(A Symbol) []Symbol {
	if A.IsTerminal() {
		return []Symbol{A}
	}
	set, ok := ga.first[A]
	if !ok {
		return nil
	}
	return symbolsOf(set)
}

// Nullable returns true if A derives the empty string.
func (ga *LRAnalysis) Nullable(A Symbol) bool {
	if A.IsTerminal() {
		return A == Epsilon
	}
	set, ok := ga.first[A]
	return ok && set.Contains(Epsilon)
}

// Fixed-point iteration over all rules, until no FIRST set changes.
func (ga *LRAnalysis) computeFirstSets() {
	for _, A := range ga.g.nonterminals {
		ga.first[A] = treeset.NewWith(symbolComparator)
	}
	changed := true
	for changed {
		changed = false
		for _, r := range ga.g.rules {
			set := ga.first[r.LHS]
			size := set.Size()
			nullable := true
			for _, X := range r.rhs {
				if X.IsTerminal() {
					set.Add(X)
					nullable = false
					break
				}
				for _, x := range ga.first[X].Values() {
					if x.(Symbol) != Epsilon {
						set.Add(x)
					}
				}
				if !ga.first[X].Contains(Epsilon) {
					nullable = false
					break
				}
			}
			if nullable {
				set.Add(Epsilon)
			}
			if set.Size() != size {
				changed = true
			}
		}
	}
	for _, A := range ga.g.nonterminals {
		tracer().Debugf("FIRST(%s) = %v", A, symbolsOf(ga.first[A]))
	}
}

// firstOfSequence computes FIRST(X1 … Xn), consulting first for non-terminals.
// The result contains Epsilon if every Xi is nullable, including the case
// of the empty sequence.
func firstOfSequence(first FirstSets, seq []Symbol) *treeset.Set {
	result := treeset.NewWith(symbolComparator)
	for _, X := range seq {
		if X == Epsilon {
			continue
		}
		if X.IsTerminal() {
			result.Add(X)
			return result
		}
		nullable := false
		for _, x := range first.First(X) {
			if x == Epsilon {
				nullable = true
				continue
			}
			result.Add(x)
		}
		if !nullable {
			return result
		}
	}
	result.Add(Epsilon)
	return result
}

func symbolsOf(set *treeset.Set) []Symbol {
	syms := make([]Symbol, 0, set.Size())
	for _, x := range set.Values() {
		syms = append(syms, x.(Symbol))
	}
	return syms
}
