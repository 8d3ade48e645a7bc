package lr

import (
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar. Its items are closed
// under the closure operation.
type CFSMState struct {
	ID     int          // serial ID of this state
	items  *treeset.Set // configuration items within this state
	Accept bool         // does this state contain [S' ➞ S •, $]?
}

// Items returns the items of a state, sorted.
func (s *CFSMState) Items() []Item {
	return itemsOf(s.items)
}

// Size returns the number of items.
func (s *CFSMState) Size() int {
	return s.items.Size()
}

// Contains checks for an item.
func (s *CFSMState) Contains(i Item) bool {
	return s.items.Contains(i)
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	if !debugging() {
		return
	}
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule(aug *Rule) bool {
	return s.items.Contains(NewItem(aug, aug.Len(), EOF))
}

// CFSM edges are keyed by source state and label.
type transition struct {
	from  int
	label Symbol
}

// We need this for the map of edges. It sorts by source state, then label.
func transitionComparator(t1, t2 interface{}) int {
	e1, e2 := t1.(transition), t2.(transition)
	if c := utils.IntComparator(e1.from, e2.from); c != 0 {
		return c
	}
	return compareSymbols(e1.label, e2.label)
}

// CFSM is the characteristic finite state machine for an LR(1) grammar, i.e. the
// LR(1) state diagram. It is either the canonical collection of LR(1) item sets,
// as built by BuildCFSM, or the LALR(1) automaton resulting from Merge.
//
// A CFSM is read-only after construction.
type CFSM struct {
	g         *Grammar
	augmented *Rule            // S' ➞ S
	states    []*CFSMState     // all the states, ID = position
	edges     *treemap.Map     // transition → target state ID
	index     map[string][]int // item set signature → state IDs
	S0        *CFSMState       // start state
	merged    []int            // canonical ID → merged ID, for LALR automata
	events    []Event
	record    bool
}

// create an empty (initial) CFSM automaton.
func emptyCFSM(g *Grammar, aug *Rule, record bool) *CFSM {
	return &CFSM{
		g:         g,
		augmented: aug,
		edges:     treemap.NewWith(transitionComparator),
		index:     make(map[string][]int),
		record:    record,
	}
}

// Grammar returns the grammar this automaton is for.
func (c *CFSM) Grammar() *Grammar {
	return c.g
}

// Augmented returns the augmented start rule S' ➞ S.
func (c *CFSM) Augmented() *Rule {
	return c.augmented
}

// AugmentedName returns the name of the augmented start symbol S'.
func (c *CFSM) AugmentedName() string {
	return c.augmented.LHS.Name
}

// Size returns the number of states.
func (c *CFSM) Size() int {
	return len(c.states)
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	return append([]*CFSMState(nil), c.states...)
}

// State returns state #id, or nil.
func (c *CFSM) State(id int) *CFSMState {
	if id < 0 || id >= len(c.states) {
		return nil
	}
	return c.states[id]
}

// Transition returns the target of the edge from state 'from' labeled A.
func (c *CFSM) Transition(from int, A Symbol) (int, bool) {
	to, found := c.edges.Get(transition{from: from, label: A})
	if !found {
		return 0, false
	}
	return to.(int), true
}

// TransitionCount returns the number of edges.
func (c *CFSM) TransitionCount() int {
	return c.edges.Size()
}

// EachTransition iterates over all edges, ordered by source state and label.
func (c *CFSM) EachTransition(mapper func(from int, A Symbol, to int)) {
	it := c.edges.Iterator()
	for it.Next() {
		e := it.Key().(transition)
		mapper(e.from, e.label, it.Value().(int))
	}
}

// IsMerged is true for LALR(1) automata created by Merge.
func (c *CFSM) IsMerged() bool {
	return c.merged != nil
}

// MergedID maps the ID of a canonical state to the ID of the LALR(1) state
// it has been merged into. It is defined for merged automata only.
func (c *CFSM) MergedID(canonical int) (int, bool) {
	if canonical < 0 || canonical >= len(c.merged) {
		return 0, false
	}
	return c.merged[canonical], true
}

// Events returns the construction events, if recording had been enabled.
func (c *CFSM) Events() []Event {
	return append([]Event(nil), c.events...)
}

func (c *CFSM) emit(ev Event) {
	if c.record {
		c.events = append(c.events, ev)
	}
}

// Add a state to the CFSM. Checks first if state is present.
func (c *CFSM) addState(iset *treeset.Set) (*CFSMState, bool) {
	sig := signature(iset)
	if s := c.findStateByItems(sig, iset); s != nil {
		return s, false
	}
	s := &CFSMState{ID: len(c.states), items: iset}
	s.Accept = s.containsCompletedStartRule(c.augmented)
	c.states = append(c.states, s)
	c.index[sig] = append(c.index[sig], s.ID)
	c.emit(Event{Kind: StateAdded, State: s.ID, Size: iset.Size()})
	return s, true
}

// Find a CFSM state by the contained item set.
func (c *CFSM) findStateByItems(sig string, iset *treeset.Set) *CFSMState {
	for _, id := range c.index[sig] {
		if s := c.states[id]; equalItemSets(s.items, iset) {
			return s
		}
	}
	return nil
}

// addEdge records from --A--> to. Transitions are deterministic: a second,
// different target for the same (from, A) is an error.
func (c *CFSM) addEdge(from int, A Symbol, to int) error {
	if from < 0 || from >= len(c.states) || to < 0 || to >= len(c.states) {
		panic(fmt.Sprintf("lr: transition %d --%s--> %d refers to unknown state", from, A, to))
	}
	key := transition{from: from, label: A}
	if old, found := c.edges.Get(key); found {
		if old.(int) != to {
			return fmt.Errorf("inconsistent transition %d --%s--> %d, already have %d", from, A, to, old)
		}
		return nil
	}
	c.edges.Put(key, to)
	c.emit(Event{Kind: TransitionAdded, State: from, Symbol: A, Target: to})
	return nil
}

// augment creates the rule S' ➞ S for a grammar with start symbol S.
func augment(g *Grammar) (*Rule, error) {
	S := g.Start()
	if S.IsZero() || len(g.RulesFor(S)) == 0 {
		return nil, fmt.Errorf("%w: grammar %s has no rules for start symbol %q", ErrNoStartSymbol, g.Name, S)
	}
	name := S.Name + "'"
	if _, exists := g.SymbolByName(name); exists {
		return nil, fmt.Errorf("%w: %q", ErrAugmentCollision, name)
	}
	return &Rule{Serial: -1, LHS: N(name), rhs: []Symbol{S}}, nil
}

// BuildCFSM constructs the canonical collection of LR(1) item sets for a
// grammar, i.e. the LR(1) characteristic finite state machine. FIRST sets for
// computing lookaheads are taken from first.
//
// States are explored breadth-first, starting from closure({[S' ➞ • S, $]}).
// State IDs reflect the order of discovery.
func BuildCFSM(g *Grammar, first FirstSets, opts ...Option) (*CFSM, error) {
	tracer().Debugf("=== build CFSM ==================================================")
	cfg := newBuildConfig(opts)
	aug, err := augment(g)
	if err != nil {
		return nil, err
	}
	e := &lr1Engine{g: g, first: first}
	cfsm := emptyCFSM(g, aug, cfg.recordEvents)
	closure0 := e.closure(newItemSet(StartItem(aug)))
	cfsm.S0, _ = cfsm.addState(closure0)
	cfsm.S0.Dump()
	var alphabet []Symbol
	g.EachSymbol(func(A Symbol) {
		alphabet = append(alphabet, A)
	})
	worklist := []*CFSMState{cfsm.S0}
	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]
		for _, A := range alphabet {
			gotoset := e.gotoSetClosure(s.items, A)
			if gotoset.Empty() {
				continue
			}
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				worklist = append(worklist, snew)
				snew.Dump()
			}
			if err := cfsm.addEdge(s.ID, A, snew.ID); err != nil {
				panic(fmt.Sprintf("lr: canonical automaton: %v", err))
			}
		}
	}
	tracer().Infof("canonical LR(1) automaton for %s has %d states", g.Name, cfsm.Size())
	return cfsm, nil
}

// ToGraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) ToGraphViz(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range c.states {
		fmt.Fprintf(&b, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items))
	}
	c.EachTransition(func(from int, A Symbol, to int) {
		fmt.Fprintf(&b, "s%03d -> s%03d [label=\"%s\"]\n", from, to, escapeDot(A.Name))
	})
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(S *treeset.Set) string {
	var b strings.Builder
	for n, x := range S.Values() {
		if n > 0 {
			b.WriteString("\\l")
		}
		b.WriteString(escapeDot(x.(Item).String()))
	}
	b.WriteString("\\l")
	return b.String()
}

var dotEscaper = strings.NewReplacer(
	`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}
