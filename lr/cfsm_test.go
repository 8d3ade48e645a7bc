package lr

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestItems(t *testing.T) {
	g := exprGrammar(t)
	i := NewItem(g.Rule(0), 1, EOF)
	assert.Equal(t, "[E ➞ E • + T, $]", i.String())
	A, ok := i.PeekSymbol()
	assert.True(t, ok)
	assert.Equal(t, T("+"), A)
	assert.Equal(t, []Symbol{N("T")}, i.rest())
	assert.Equal(t, []Symbol{N("E")}, i.Prefix())
	j := i.Advance().Advance()
	assert.True(t, j.Completed())
	assert.Equal(t, "[E ➞ E + T •, $]", j.String())
	assert.Panics(t, func() { j.Advance() })
	assert.NotEqual(t, NewItem(g.Rule(0), 1, T("+")), i, "items differ by lookahead")
}

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	aug, err := augment(g)
	if err != nil {
		t.Fatal(err)
	}
	e := &lr1Engine{g: g, first: Analysis(g)}
	S := newItemSet(StartItem(aug))
	C := e.closure(S)
	Dump(C)
	// [E' ➞ • E, $] plus E-items on {$,+}, T- and F-items on {$,+,*}
	if C.Size() != 17 {
		t.Errorf("expected closure of start item to have 17 items, has %d", C.Size())
	}
	if S.Size() != 1 {
		t.Errorf("closure must not modify its argument")
	}
	if !C.Contains(NewItem(g.Rule(5), 0, T("*"))) {
		t.Errorf("expected closure to contain [F ➞ • id, *]")
	}
	if CC := e.closure(C); !equalItemSets(C, CC) {
		t.Errorf("expected closure to be idempotent")
	}
	if G := e.gotoSetClosure(C, T("+")); !G.Empty() {
		t.Errorf("expected no transition on '+' from start state")
	}
}

func TestClosureEpsilon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := signedGrammar(t)
	aug, _ := augment(g)
	e := &lr1Engine{g: g, first: Analysis(g)}
	C := e.closure(newItemSet(StartItem(aug)))
	// Sign-items carry lookahead 'id'
	sign := g.RulesFor(N("Sign"))
	for _, r := range sign {
		if !C.Contains(NewItem(r, 0, T("id"))) {
			t.Errorf("expected closure to contain start item of %s with lookahead id", r)
		}
	}
	if C.Size() != 2+len(sign) {
		t.Errorf("expected closure to have %d items, has %d", 2+len(sign), C.Size())
	}
}

func TestCFSMExpressions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	c, err := BuildCFSM(g, Analysis(g))
	if err != nil {
		t.Fatal(err)
	}
	if c.Size() != 22 {
		t.Errorf("expected canonical LR(1) automaton to have 22 states, has %d", c.Size())
	}
	if c.S0.ID != 0 || c.AugmentedName() != "E'" {
		t.Errorf("expected start state 0 for augmented rule E', have %d/%s", c.S0.ID, c.AugmentedName())
	}
	accepting := 0
	for _, s := range c.States() {
		if s.Accept {
			accepting++
		}
	}
	if accepting != 1 {
		t.Errorf("expected exactly 1 accepting state, have %d", accepting)
	}
	to, ok := c.Transition(0, N("E"))
	if !ok || !c.State(to).Accept {
		t.Errorf("expected S0 --E--> accepting state")
	}
}

func TestCFSMDragon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := dragonGrammar(t)
	c, err := BuildCFSM(g, Analysis(g))
	if err != nil {
		t.Fatal(err)
	}
	if c.Size() != 10 {
		t.Errorf("expected canonical LR(1) automaton to have 10 states, has %d", c.Size())
	}
	if c.IsMerged() {
		t.Errorf("canonical automaton must not be marked as merged")
	}
	if c.State(10) != nil || c.State(-1) != nil {
		t.Errorf("expected nil for unknown states")
	}
}

func TestCFSMDeterminism(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	tracing.Select("lalrkit.lr").SetTraceLevel(tracing.LevelInfo)
	//
	g := exprGrammar(t)
	c1, _ := BuildCFSM(g, Analysis(g))
	c2, _ := BuildCFSM(g, Analysis(g))
	if c1.Size() != c2.Size() || c1.TransitionCount() != c2.TransitionCount() {
		t.Fatalf("expected identical automata for identical grammars")
	}
	for i, s := range c1.States() {
		if !equalItemSets(s.items, c2.State(i).items) {
			t.Errorf("state %d differs between builds", i)
		}
	}
	c1.EachTransition(func(from int, A Symbol, to int) {
		if to2, ok := c2.Transition(from, A); !ok || to2 != to {
			t.Errorf("transition %d --%s--> %d differs between builds", from, A, to)
		}
	})
}

func TestCFSMEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := dragonGrammar(t)
	c, _ := BuildCFSM(g, Analysis(g), RecordEvents(true))
	events := c.Events()
	if len(events) == 0 || events[0].Kind != StateAdded || events[0].State != 0 {
		t.Fatalf("expected first event to add state 0")
	}
	added, edges := 0, 0
	for _, ev := range events {
		switch ev.Kind {
		case StateAdded:
			added++
		case TransitionAdded:
			edges++
		}
	}
	if added != c.Size() || edges != c.TransitionCount() {
		t.Errorf("expected %d/%d events, have %d/%d", c.Size(), c.TransitionCount(), added, edges)
	}
	c, _ = BuildCFSM(g, Analysis(g), RecordEvents(false))
	if len(c.Events()) != 0 {
		t.Errorf("expected no events to be recorded")
	}
}

func TestCFSMEventsConfigured(t *testing.T) {
	defer testconfig.QuickConfig(t, map[string]string{
		"lr-record-events": "true",
	})()
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := dragonGrammar(t)
	c, _ := BuildCFSM(g, Analysis(g))
	if len(c.Events()) != c.Size()+c.TransitionCount() {
		t.Errorf("expected %d events to be recorded by configuration, have %d",
			c.Size()+c.TransitionCount(), len(c.Events()))
	}
	c, _ = BuildCFSM(g, Analysis(g), RecordEvents(false))
	if len(c.Events()) != 0 {
		t.Errorf("expected option to override configuration, have %d events", len(c.Events()))
	}
}

func TestAugmentErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g, _ := NewGrammarBuilder("Empty").Grammar()
	if _, err := BuildCFSM(g, Analysis(g)); !errors.Is(err, ErrNoStartSymbol) {
		t.Errorf("expected missing start symbol error, got %v", err)
	}
	b := NewGrammarBuilder("Unknown start")
	b.LHS("S").T("a").End()
	b.StartSymbol("X")
	g, _ = b.Grammar()
	if _, err := BuildCFSM(g, Analysis(g)); !errors.Is(err, ErrNoStartSymbol) {
		t.Errorf("expected missing start symbol error, got %v", err)
	}
	b = NewGrammarBuilder("Collision")
	b.LHS("S").N("S'").End()
	b.LHS("S'").T("a").End()
	g, _ = b.Grammar()
	if _, err := BuildCFSM(g, Analysis(g)); !errors.Is(err, ErrAugmentCollision) {
		t.Errorf("expected augment collision error, got %v", err)
	}
}

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := dragonGrammar(t)
	c, _ := BuildCFSM(g, Analysis(g))
	var b strings.Builder
	if err := c.ToGraphViz(&b); err != nil {
		t.Fatal(err)
	}
	dot := b.String()
	if !strings.HasPrefix(dot, "digraph {") || !strings.Contains(dot, "s000 -> ") {
		t.Errorf("unexpected Graphviz output: %s", dot)
	}
	if strings.Count(dot, "[fillcolor=lightgray") != 1 {
		t.Errorf("expected exactly one accepting node")
	}
}

func TestItemSetTracingFollowsLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	tracer().SetTraceLevel(tracing.LevelInfo)
	if debugging() {
		t.Errorf("expected item set tracing to be off at level Info")
	}
	tracer().SetTraceLevel(tracing.LevelDebug)
	if !debugging() {
		t.Errorf("expected item set tracing to be on at level Debug")
	}
}
