/*
Package lr implements the construction of LALR(1) parser tables.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals
are identified by name; parsers match input tokens to terminals by name.
Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("E").N("E").T("+").N("T").End()  // E  ->  E + T
    b.LHS("E").N("T").End()                // E  ->  T
    b.LHS("T").T("id").End()               // T  ->  id
    b.LHS("T").Epsilon()                   // T  ->
    g, err := b.Grammar()

The LHS of the first rule is the start symbol, unless the builder is told
otherwise.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST sets for
all symbols. Table construction consumes FIRST sets through interface
FirstSets only, thus clients are free to supply their own.

    ga := lr.Analysis(g)
    fmt.Println(ga.First(lr.N("E")))   // [( id]

Parser Construction

Using grammar analysis as input, the canonical collection of LR(1) item sets
is built (a characteristic finite state machine, CFSM). States of the
canonical automaton sharing an LR(0) kernel are merged to form the LALR(1)
automaton, which in turn is transformed into an ACTION table and a GOTO table.

    cfsm, err := lr.BuildCFSM(g, ga)   // canonical LR(1) automaton
    lalr := lr.Merge(cfsm)             // LALR(1) automaton
    table := lr.BuildTable(lalr)       // ACTION and GOTO tables
    if table.HasConflicts() { ... }    // shift/reduce or reduce/reduce conflicts

Conflicts are not fatal. They are recorded and resolved by a fixed policy:
a shift replaces a reduce found earlier, whereas shifts and accepts are never
replaced. A TableGenerator wraps these steps.

The automata will not be thrown away, but are made available to the client.
This is intended for debugging purposes. They can be exported to Graphviz's
Dot-format, and tables may be dumped in textual form.

Configuration

Key 'lr-record-events' (boolean) switches on recording of construction
events for all builds. Builds may override it with option RecordEvents.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package lr

import (
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrkit.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lalrkit.lr")
}

// Option configures the construction of automata.
type Option func(*buildConfig)

type buildConfig struct {
	recordEvents bool
}

// RecordEvents sets or clears recording of construction events.
// See CFSM.Events and Table.Events.
func RecordEvents(b bool) Option {
	return func(cfg *buildConfig) {
		cfg.recordEvents = b
	}
}

func newBuildConfig(opts []Option) buildConfig {
	cfg := buildConfig{
		recordEvents: configFlag("lr-record-events"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// configFlag reads a boolean configuration value. Unset keys read as false.
func configFlag(key string) bool {
	return gconf.GetBool(key)
}

// debugging is true if tracing of item sets is worth the effort.
func debugging() bool {
	return tracer().GetTraceLevel() == tracing.LevelDebug
}
