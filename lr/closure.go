package lr

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Compilers: Principles, Techniques, and Tools" by Aho, Lam, Sethi
// and Ullman, section 4.7.2: Constructing LR(1) Sets of Items.

// lr1Engine computes LR(1) closures and goto-sets for a grammar.
type lr1Engine struct {
	g     *Grammar
	first FirstSets
}

// closure computes the smallest superset of S closed under
//
//    [A ➞ α • B β, a] ∈ C  ⇒  [B ➞ • γ, b] ∈ C   for all b ∈ FIRST(β a) \ {ε}
//
// S is not modified.
func (e *lr1Engine) closure(S *treeset.Set) *treeset.Set {
	C := newItemSet()
	worklist := make([]Item, 0, S.Size())
	for _, x := range S.Values() {
		C.Add(x)
		worklist = append(worklist, x.(Item))
	}
	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]
		B, ok := item.PeekSymbol()
		if !ok || B.IsTerminal() {
			continue
		}
		beta := item.rest()
		seq := make([]Symbol, len(beta), len(beta)+1)
		copy(seq, beta)
		seq = append(seq, item.la)
		lookaheads := symbolsOf(firstOfSequence(e.first, seq))
		for _, r := range e.g.RulesFor(B) {
			for _, b := range lookaheads {
				if b == Epsilon {
					continue
				}
				derived := NewItem(r, 0, b)
				if !C.Contains(derived) { // new items are tracked by their own identity
					C.Add(derived)
					worklist = append(worklist, derived)
				}
			}
		}
	}
	return C
}

// gotoSet advances the dot over A for every item in S with A after the dot.
func (e *lr1Engine) gotoSet(S *treeset.Set, A Symbol) *treeset.Set {
	gotoset := newItemSet()
	for _, x := range S.Values() {
		i := x.(Item)
		if B, ok := i.PeekSymbol(); ok && B == A {
			gotoset.Add(i.Advance())
		}
	}
	return gotoset
}

// gotoSetClosure is GOTO(S, A), i.e. the closure of the goto-set. An empty
// result means: no transition on A.
func (e *lr1Engine) gotoSetClosure(S *treeset.Set, A Symbol) *treeset.Set {
	gotoset := e.gotoSet(S, A)
	if gotoset.Empty() {
		return gotoset
	}
	gclosure := e.closure(gotoset)
	if debugging() {
		tracer().Debugf("goto(%s) --%s--> %s", itemSetString(S), A, itemSetString(gclosure))
	}
	return gclosure
}
