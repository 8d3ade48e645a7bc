package lr

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func makeTable(t *testing.T, g *Grammar, opts ...Option) *Table {
	lrgen := NewTableGenerator(Analysis(g), opts...)
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	return lrgen.Table()
}

// S ➞ A | B,  A ➞ x,  B ➞ x
func ambiguousGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Ambiguous")
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").T("x").End()
	b.LHS("B").T("x").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// S ➞ if E then S | if E then S else S | a,  E ➞ b
func danglingElseGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Dangling Else")
	b.LHS("S").T("if").N("E").T("then").N("S").End()
	b.LHS("S").T("if").N("E").T("then").N("S").T("else").N("S").End()
	b.LHS("S").T("a").End()
	b.LHS("E").T("b").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// As danglingElseGrammar, but the rule with 'else' is defined first:
// its shift on 'else' occupies the cell before the reduce is discovered.
func elseFirstGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Else First")
	b.LHS("S").T("if").N("E").T("then").N("S").T("else").N("S").End()
	b.LHS("S").T("if").N("E").T("then").N("S").End()
	b.LHS("S").T("a").End()
	b.LHS("E").T("b").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestActions(t *testing.T) {
	g := exprGrammar(t)
	assert.Equal(t, "SHIFT(3)", Shift(3).String())
	assert.Equal(t, "ACCEPT", Accept().String())
	assert.Equal(t, "REDUCE(E ➞ T)", Reduce(g.Rule(1)).String())
	assert.Equal(t, "r1", Reduce(g.Rule(1)).cell())
	tab := newTable(&CFSM{g: g, S0: &CFSMState{}})
	for _, a := range []Action{Shift(0), Shift(11), Accept(), Reduce(g.Rule(0)), Reduce(g.Rule(5))} {
		assert.Equal(t, a, tab.decode(tab.encode(a)))
	}
	assert.Panics(t, func() {
		tab.encode(Reduce(&Rule{Serial: -1, LHS: N("E'")}))
	})
}

func TestTableExpressions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	table := makeTable(t, g)
	assert.False(t, table.HasConflicts())
	assert.Empty(t, table.Conflicts())
	assert.Equal(t, 12, table.StateCount())
	S0 := table.InitialState()
	a, ok := table.Action(S0, "id")
	assert.True(t, ok)
	assert.Equal(t, ShiftAction, a.Type)
	_, ok = table.Action(S0, "+")
	assert.False(t, ok)
	_, ok = table.Action(S0, "unknown")
	assert.False(t, ok)
	_, ok = table.Action(99, "id")
	assert.False(t, ok)
	// F ➞ id • reduces on + * ) $
	for _, la := range []string{"+", "*", ")", "$"} {
		r, ok := table.Action(a.State, la)
		assert.True(t, ok)
		assert.Equal(t, Reduce(g.Rule(5)), r, "action on %s", la)
	}
	_, ok = table.Goto(S0, N("E"))
	assert.True(t, ok)
	_, ok = table.Goto(S0, N("X"))
	assert.False(t, ok)
}

func TestTableAccept(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{exprGrammar(t), dragonGrammar(t), signedGrammar(t), ambiguousGrammar(t)} {
		table := makeTable(t, g)
		var accepting []int
		table.EachAction(func(state int, A Symbol, a Action) {
			if a.Type == AcceptAction {
				assert.Equal(t, EOF, A, "accept on non-EOF terminal in %s", g.Name)
				accepting = append(accepting, state)
			}
		})
		assert.Len(t, accepting, 1, "accepting states of %s", g.Name)
		to, ok := table.Goto(table.InitialState(), g.Start())
		assert.True(t, ok)
		assert.Equal(t, accepting, []int{to})
	}
}

func TestReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := ambiguousGrammar(t)
	table := makeTable(t, g)
	assert.True(t, table.HasConflicts())
	conflicts := table.ConflictRecords()
	if assert.Len(t, conflicts, 1) {
		c := conflicts[0]
		assert.Equal(t, "reduce/reduce", c.Kind())
		assert.Equal(t, EOF, c.Symbol)
		assert.Equal(t, Reduce(g.Rule(2)), c.Resolved)
		assert.Equal(t, Reduce(g.Rule(3)), c.Incoming)
		assert.Contains(t, table.Conflicts()[0], "reduce/reduce conflict in state")
	}
}

func TestShiftReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	table := makeTable(t, danglingElseGrammar(t))
	assert.True(t, table.HasConflicts())
	for _, c := range table.ConflictRecords() {
		assert.Equal(t, T("else"), c.Symbol)
		assert.Equal(t, ShiftAction, c.Resolved.Type, "shift is preferred in %s", c)
	}
}

func TestReduceKeepsEarlierShift(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	g := elseFirstGrammar(t)
	table := makeTable(t, g)
	conflicts := table.ConflictRecords()
	if assert.NotEmpty(t, conflicts) {
		for _, c := range conflicts {
			assert.Equal(t, "shift/reduce", c.Kind())
			assert.Equal(t, T("else"), c.Symbol)
			assert.Equal(t, ShiftAction, c.Existing.Type)
			assert.Equal(t, Reduce(g.Rule(1)), c.Incoming)
			assert.Equal(t, c.Existing, c.Resolved)
			a, ok := table.Action(c.State, "else")
			assert.True(t, ok)
			assert.Equal(t, c.Existing, a, "cell must keep the shift")
		}
	}
}

func TestConflictsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	for _, grammar := range []func(*testing.T) *Grammar{
		ambiguousGrammar, danglingElseGrammar, elseFirstGrammar,
	} {
		g := grammar(t)
		first := makeTable(t, g).Conflicts()
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, makeTable(t, g).Conflicts(), "conflicts of %s", g.Name)
		}
	}
}

func TestConflictsKeepResolvedAction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{ambiguousGrammar(t), danglingElseGrammar(t), elseFirstGrammar(t)} {
		table := makeTable(t, g)
		for _, c := range table.ConflictRecords() {
			a, ok := table.Action(c.State, c.Symbol.Name)
			assert.True(t, ok)
			assert.Equal(t, c.Resolved, a, "table entry for %s", c)
		}
	}
}

func TestTableEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	table := makeTable(t, ambiguousGrammar(t), RecordEvents(true))
	events := table.Events()
	if assert.Len(t, events, 1) {
		assert.Equal(t, ConflictRecorded, events[0].Kind)
		assert.Equal(t, EOF, events[0].Symbol)
	}
	table = makeTable(t, ambiguousGrammar(t), RecordEvents(false))
	assert.Empty(t, table.Events())
}

func TestTableDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	table := makeTable(t, ambiguousGrammar(t))
	var b strings.Builder
	if err := table.Dump(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	t.Logf("\n%s", out)
	for _, s := range []string{"state", "acc", "r2", "reduce/reduce conflict"} {
		assert.Contains(t, out, s)
	}
}

func TestTableGenerator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalrkit.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(Analysis(dragonGrammar(t)))
	assert.Nil(t, lrgen.Table())
	assert.NoError(t, lrgen.CreateTables())
	assert.Equal(t, 10, lrgen.CFSM().Size())
	assert.Equal(t, 7, lrgen.LALR().Size())
	assert.Equal(t, 7, lrgen.Table().StateCount())
	assert.False(t, lrgen.HasConflicts)
	lrgen = NewTableGenerator(Analysis(ambiguousGrammar(t)))
	assert.NoError(t, lrgen.CreateTables())
	assert.True(t, lrgen.HasConflicts)
}
