package lr

import (
	"bytes"
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Item is an LR(1) item: a rule, a dot position within the rule's right hand
// side and a lookahead terminal,
//
//    [A ➞ α • β, a]
//
// Items are comparable values. Items differing in lookahead only are distinct.
type Item struct {
	rule *Rule
	dot  int
	la   Symbol
}

// NewItem creates an item. It panics if dot is out of range for rule r.
func NewItem(r *Rule, dot int, lookahead Symbol) Item {
	if r == nil || dot < 0 || dot > r.Len() {
		panic(fmt.Sprintf("lr.NewItem: dot position %d out of range for rule %v", dot, r))
	}
	return Item{rule: r, dot: dot, la: lookahead}
}

// StartItem returns [r ➞ • α, $].
func StartItem(r *Rule) Item {
	return NewItem(r, 0, EOF)
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the dot position.
func (i Item) Dot() int {
	return i.dot
}

// Lookahead returns the lookahead terminal.
func (i Item) Lookahead() Symbol {
	return i.la
}

// PeekSymbol returns the symbol after the dot, if any.
func (i Item) PeekSymbol() (Symbol, bool) {
	if i.dot >= len(i.rule.rhs) {
		return Symbol{}, false
	}
	return i.rule.rhs[i.dot], true
}

// Completed is true if the dot is behind the right hand side.
func (i Item) Completed() bool {
	return i.dot == len(i.rule.rhs)
}

// Advance moves the dot one position to the right.
func (i Item) Advance() Item {
	return NewItem(i.rule, i.dot+1, i.la)
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() []Symbol {
	return i.rule.rhs[:i.dot]
}

// rest returns β for an item [A ➞ α • B β, a].
func (i Item) rest() []Symbol {
	if i.dot+1 >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot+1:]
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ➞")
	for n, A := range i.rule.rhs {
		if n == i.dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(A.Name)
	}
	if i.Completed() {
		b.WriteString(" •")
	}
	b.WriteString(", ")
	b.WriteString(i.la.Name)
	b.WriteString("]")
	return b.String()
}

// Items are ordered by rule serial, then dot position, then lookahead.
// This order drives table construction, which must not depend on
// incidental iteration order.
func compareItems(a, b Item) int {
	if c := utils.IntComparator(a.rule.Serial, b.rule.Serial); c != 0 {
		return c
	}
	if c := utils.IntComparator(a.dot, b.dot); c != 0 {
		return c
	}
	return compareSymbols(a.la, b.la)
}

func itemComparator(i1, i2 interface{}) int {
	return compareItems(i1.(Item), i2.(Item))
}

// --- Item sets -------------------------------------------------------------

// Item sets are kept sorted. Equality of sets is order independent, and
// iteration is deterministic.
func newItemSet(items ...Item) *treeset.Set {
	S := treeset.NewWith(itemComparator)
	for _, i := range items {
		S.Add(i)
	}
	return S
}

func itemsOf(S *treeset.Set) []Item {
	items := make([]Item, 0, S.Size())
	for _, x := range S.Values() {
		items = append(items, x.(Item))
	}
	return items
}

func equalItemSets(S1, S2 *treeset.Set) bool {
	if S1.Size() != S2.Size() {
		return false
	}
	it1, it2 := S1.Iterator(), S2.Iterator()
	for it1.Next() && it2.Next() {
		if compareItems(it1.Value().(Item), it2.Value().(Item)) != 0 {
			return false
		}
	}
	return true
}

func itemSetString(S *treeset.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	for _, x := range S.Values() {
		if first {
			b.WriteString(" ")
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(x.(Item).String())
	}
	b.WriteString(" }")
	return b.String()
}

// Dump is a debugging helper for item sets.
func Dump(S *treeset.Set) {
	if !debugging() {
		return
	}
	for n, x := range S.Values() {
		tracer().Debugf("[%2d] %s", n+1, x.(Item))
	}
}

// --- Signatures ------------------------------------------------------------

// itemKey and kernelKey are the hashable forms of items and kernel items.
type itemKey struct {
	Rule      int
	Dot       int
	Lookahead string
}

type kernelKey struct {
	Rule int
	Dot  int
}

// signature is a structural hash over a sorted item set. Equal item sets have
// equal signatures; state lookup has to verify equality anyway.
func signature(S *treeset.Set) string {
	keys := struct{ Items []itemKey }{Items: make([]itemKey, 0, S.Size())}
	for _, x := range S.Values() {
		i := x.(Item)
		keys.Items = append(keys.Items, itemKey{Rule: i.rule.Serial, Dot: i.dot, Lookahead: i.la.Name})
	}
	return hashOf(keys)
}

func hashOf(v interface{}) string {
	h, err := structhash.Hash(v, 1)
	if err != nil {
		panic(fmt.Sprintf("lr: cannot hash %T: %v", v, err))
	}
	return h
}
