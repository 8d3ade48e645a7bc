package lr

import (
	"fmt"
	"io"

	"github.com/lalrkit/lalrkit/lr/sparse"
	"github.com/pterm/pterm"
)

// === Actions ===============================================================

// ActionType is the kind of an entry in the ACTION table.
type ActionType uint8

// Kinds of parser actions.
const (
	NoAction ActionType = iota
	ShiftAction
	ReduceAction
	AcceptAction
)

func (t ActionType) String() string {
	switch t {
	case ShiftAction:
		return "SHIFT"
	case ReduceAction:
		return "REDUCE"
	case AcceptAction:
		return "ACCEPT"
	}
	return "NONE"
}

// Action is an entry in the ACTION table: SHIFT(State), REDUCE(Rule) or ACCEPT.
type Action struct {
	Type  ActionType
	State int   // target state for shift actions
	Rule  *Rule // rule to reduce for reduce actions
}

// Shift creates a shift action.
func Shift(state int) Action {
	return Action{Type: ShiftAction, State: state}
}

// Reduce creates a reduce action.
func Reduce(r *Rule) Action {
	return Action{Type: ReduceAction, Rule: r}
}

// Accept creates an accept action.
func Accept() Action {
	return Action{Type: AcceptAction}
}

func (a Action) String() string {
	switch a.Type {
	case ShiftAction:
		return fmt.Sprintf("SHIFT(%d)", a.State)
	case ReduceAction:
		return fmt.Sprintf("REDUCE(%s)", a.Rule)
	case AcceptAction:
		return "ACCEPT"
	}
	return "<none>"
}

// short form for table dumps
func (a Action) cell() string {
	switch a.Type {
	case ShiftAction:
		return fmt.Sprintf("s%d", a.State)
	case ReduceAction:
		return fmt.Sprintf("r%d", a.Rule.Serial)
	case AcceptAction:
		return "acc"
	}
	return ""
}

// Actions are stored in a sparse int32 matrix:
//
//    shift t      →  t         (t ≥ 0)
//    accept       →  -1
//    reduce #k    →  -(k+2)
//
const acceptCode = -1

func (t *Table) encode(a Action) int32 {
	switch a.Type {
	case ShiftAction:
		return int32(a.State)
	case AcceptAction:
		return acceptCode
	case ReduceAction:
		if a.Rule.Serial < 0 {
			panic(fmt.Sprintf("lr: cannot encode reduce action for rule %s", a.Rule))
		}
		return -int32(a.Rule.Serial) - 2
	}
	panic("lr: cannot encode empty action")
}

func (t *Table) decode(v int32) Action {
	switch {
	case v == t.action.NullValue():
		return Action{}
	case v >= 0:
		return Shift(int(v))
	case v == acceptCode:
		return Accept()
	}
	r := t.g.Rule(int(-v - 2))
	if r == nil {
		panic(fmt.Sprintf("lr: ACTION table refers to unknown rule #%d", -v-2))
	}
	return Reduce(r)
}

// === Conflicts =============================================================

// Conflict records a table cell for which more than one action is eligible.
// Resolved is the action remaining in the table.
type Conflict struct {
	State    int
	Symbol   Symbol
	Existing Action // action found in the cell
	Incoming Action // action discovered later
	Resolved Action
}

// Kind returns "shift/reduce", "reduce/reduce", etc., naming the existing
// action first.
func (c Conflict) Kind() string {
	name := func(t ActionType) string {
		switch t {
		case ShiftAction:
			return "shift"
		case ReduceAction:
			return "reduce"
		case AcceptAction:
			return "accept"
		}
		return "none"
	}
	return name(c.Existing.Type) + "/" + name(c.Incoming.Type)
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict in state %d on terminal %s: between %s and %s, keeping %s",
		c.Kind(), c.State, c.Symbol, c.Existing, c.Incoming, c.Resolved)
}

// === Tables ================================================================

// Table holds the ACTION and GOTO tables of an LR parser, together with the
// initial state and the conflicts found during construction. A table is
// immutable and may be shared between any number of concurrent parsers.
type Table struct {
	g            *Grammar
	augmented    *Rule
	terminals    []Symbol       // columns of ACTION, including EOF
	termColumn   map[string]int // terminal name → column
	nonterminals []Symbol       // columns of GOTO
	ntColumn     map[Symbol]int
	states       int
	initial      int
	action       *sparse.IntMatrix
	gotoT        *sparse.IntMatrix
	conflicts    []Conflict
	events       []Event
	record       bool
}

func newTable(c *CFSM) *Table {
	t := &Table{
		g:          c.g,
		augmented:  c.augmented,
		termColumn: make(map[string]int),
		ntColumn:   make(map[Symbol]int),
		states:     c.Size(),
		initial:    c.S0.ID,
		record:     c.record,
	}
	t.terminals = append(c.g.Terminals(), EOF)
	for j, A := range t.terminals {
		t.termColumn[A.Name] = j
	}
	t.nonterminals = c.g.NonTerminals()
	for j, A := range t.nonterminals {
		t.ntColumn[A] = j
	}
	t.action = sparse.NewIntMatrix(t.states, len(t.terminals), sparse.DefaultNullValue)
	t.gotoT = sparse.NewIntMatrix(t.states, len(t.nonterminals), sparse.DefaultNullValue)
	return t
}

// Grammar returns the grammar this table is for.
func (t *Table) Grammar() *Grammar {
	return t.g
}

// InitialState returns the ID of the parser's start state.
func (t *Table) InitialState() int {
	return t.initial
}

// StateCount returns the number of rows of the table.
func (t *Table) StateCount() int {
	return t.states
}

// Action returns the entry of ACTION[state, terminal], where the terminal
// is identified by name.
func (t *Table) Action(state int, terminal string) (Action, bool) {
	j, ok := t.termColumn[terminal]
	if !ok || state < 0 || state >= t.states {
		return Action{}, false
	}
	a := t.decode(t.action.Value(state, j))
	return a, a.Type != NoAction
}

// Goto returns the entry of GOTO[state, A] for a non-terminal A.
func (t *Table) Goto(state int, A Symbol) (int, bool) {
	j, ok := t.ntColumn[A]
	if !ok || state < 0 || state >= t.states {
		return 0, false
	}
	v := t.gotoT.Value(state, j)
	if v == t.gotoT.NullValue() {
		return 0, false
	}
	return int(v), true
}

// EachAction iterates over all non-empty ACTION cells, ordered by state,
// then terminal column.
func (t *Table) EachAction(mapper func(state int, A Symbol, a Action)) {
	t.action.Each(func(i, j int, v int32) {
		mapper(i, t.terminals[j], t.decode(v))
	})
}

// HasConflicts is true if table construction found conflicts.
func (t *Table) HasConflicts() bool {
	return len(t.conflicts) > 0
}

// Conflicts returns human-readable descriptions of all conflicts, in order of detection.
func (t *Table) Conflicts() []string {
	msgs := make([]string, len(t.conflicts))
	for i, c := range t.conflicts {
		msgs[i] = c.String()
	}
	return msgs
}

// ConflictRecords returns all conflicts, in order of detection.
func (t *Table) ConflictRecords() []Conflict {
	return append([]Conflict(nil), t.conflicts...)
}

// Events returns the conflict events, if recording had been enabled for the automaton.
func (t *Table) Events() []Event {
	return append([]Event(nil), t.events...)
}

func (t *Table) get(state int, A Symbol) Action {
	return t.decode(t.action.Value(state, t.termColumn[A.Name]))
}

func (t *Table) set(state int, A Symbol, a Action) {
	t.action.Set(state, t.termColumn[A.Name], t.encode(a))
}

func (t *Table) conflict(state int, A Symbol, existing, incoming, resolved Action) {
	c := Conflict{State: state, Symbol: A, Existing: existing, Incoming: incoming, Resolved: resolved}
	tracer().Infof("%s", c)
	t.conflicts = append(t.conflicts, c)
	if t.record {
		t.events = append(t.events, Event{Kind: ConflictRecorded, State: state, Symbol: A})
	}
}

// A shift replaces an earlier reduce, but never an earlier shift or accept.
func (t *Table) addShift(state int, A Symbol, target int) {
	incoming := Shift(target)
	existing := t.get(state, A)
	switch {
	case existing.Type == NoAction:
		t.set(state, A, incoming)
	case existing == incoming: // same target from another item, not a conflict
		tracer().Debugf("relax, double shift")
	case existing.Type == ReduceAction:
		t.set(state, A, incoming)
		t.conflict(state, A, existing, incoming, incoming)
	default:
		t.conflict(state, A, existing, incoming, existing)
	}
}

// A reduce never replaces an earlier action.
func (t *Table) addReduce(state int, A Symbol, r *Rule) {
	incoming := Reduce(r)
	existing := t.get(state, A)
	if existing.Type == NoAction {
		t.set(state, A, incoming)
		return
	}
	t.conflict(state, A, existing, incoming, existing)
}

// Accept replaces an earlier reduce; it is never treated as a reduce itself.
func (t *Table) addAccept(state int) {
	incoming := Accept()
	existing := t.get(state, EOF)
	switch existing.Type {
	case NoAction:
		t.set(state, EOF, incoming)
	case AcceptAction:
	case ReduceAction:
		t.set(state, EOF, incoming)
		t.conflict(state, EOF, existing, incoming, incoming)
	default:
		t.conflict(state, EOF, existing, incoming, existing)
	}
}

// BuildTable constructs ACTION and GOTO tables from an automaton, usually the
// LALR(1) automaton returned by Merge (a canonical automaton will result in a
// canonical LR(1) table). Every call builds a new table from scratch.
//
// For every state, items are visited in a fixed order (rule, dot, lookahead):
//
// - [A ➞ α • a β, b] with a transition on terminal a to state t produces SHIFT(t)
//
// - [S' ➞ S •, $] produces ACCEPT on $
//
// - [A ➞ α •, a] produces REDUCE(A ➞ α) on a
//
// Competing actions for a cell are recorded as conflicts and resolved in
// favour of shifts over earlier reduces; earlier shifts and accepts are kept.
// Every transition on a non-terminal produces a GOTO entry.
func BuildTable(c *CFSM) *Table {
	tracer().Debugf("=== build tables ================================================")
	t := newTable(c)
	for _, s := range c.states {
		for _, item := range s.Items() {
			A, ok := item.PeekSymbol()
			if ok && A.IsTerminal() {
				target, found := c.Transition(s.ID, A)
				if !found {
					continue
				}
				t.addShift(s.ID, A, target)
			} else if !ok {
				if item.rule == c.augmented && item.la == EOF {
					t.addAccept(s.ID)
				} else {
					t.addReduce(s.ID, item.la, item.rule)
				}
			}
		}
	}
	c.EachTransition(func(from int, A Symbol, to int) {
		if !A.IsTerminal() {
			t.gotoT.Set(from, t.ntColumn[A], int32(to))
		}
	})
	tracer().Infof("ACTION table of size %d x %d with %d entries, %d conflicts",
		t.states, len(t.terminals), t.action.ValueCount(), len(t.conflicts))
	return t
}

// Dump writes the ACTION and GOTO tables in textual form, one row per state.
func (t *Table) Dump(w io.Writer) error {
	header := []string{"state"}
	for _, A := range t.terminals {
		header = append(header, A.Name)
	}
	for _, A := range t.nonterminals {
		header = append(header, A.Name)
	}
	data := pterm.TableData{header}
	for i := 0; i < t.states; i++ {
		row := []string{fmt.Sprintf("%d", i)}
		for j := range t.terminals {
			row = append(row, t.decode(t.action.Value(i, j)).cell())
		}
		for j := range t.nonterminals {
			cell := ""
			if v := t.gotoT.Value(i, j); v != t.gotoT.NullValue() {
				cell = fmt.Sprintf("%d", v)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err = io.WriteString(w, out+"\n"); err != nil {
		return err
	}
	for _, c := range t.conflicts {
		if _, err = fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

// === Table Generator =======================================================

// TableGenerator is a generator object to construct LALR(1) parser tables.
// Clients usually create a Grammar G, then an LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the automata and parser tables for an LALR(1) parser recognizing grammar G.
type TableGenerator struct {
	ga           *LRAnalysis
	opts         []Option
	canonical    *CFSM
	lalr         *CFSM
	table        *Table
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis, opts ...Option) *TableGenerator {
	return &TableGenerator{ga: ga, opts: opts}
}

// CreateTables builds the canonical LR(1) automaton, merges it into the
// LALR(1) automaton and constructs the parser tables.
func (lrgen *TableGenerator) CreateTables() error {
	cfsm, err := BuildCFSM(lrgen.ga.Grammar(), lrgen.ga, lrgen.opts...)
	if err != nil {
		return err
	}
	lrgen.canonical = cfsm
	lrgen.lalr = Merge(cfsm)
	lrgen.table = BuildTable(lrgen.lalr)
	lrgen.HasConflicts = lrgen.table.HasConflicts()
	return nil
}

// CFSM returns the canonical LR(1) automaton. Clients have to call CreateTables() first.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.canonical == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
	}
	return lrgen.canonical
}

// LALR returns the LALR(1) automaton. Clients have to call CreateTables() first.
func (lrgen *TableGenerator) LALR() *CFSM {
	if lrgen.lalr == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
	}
	return lrgen.lalr
}

// Table returns the parser tables. Clients have to call CreateTables() first.
func (lrgen *TableGenerator) Table() *Table {
	if lrgen.table == nil {
		tracer().Errorf("tables not yet generated; call CreateTables() first")
	}
	return lrgen.table
}
