/*
Package lalrkit is an LALR(1) parsing toolbox.

lalrkit computes deterministic shift-reduce parser tables for context-free
grammars, using the LALR(1) method, and drives token streams against these
tables. Package structure is as follows:

■ lr: Package lr implements the grammar model, construction of the canonical
LR(1) automaton, merging into an LALR(1) automaton and ACTION/GOTO tables.

■ lr/lalr: Package lalr implements a table-driven parser (a stack automaton)
deciding acceptance of token sequences.

■ lr/scanner: Package scanner provides tokenizers producing input for the parser.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package lalrkit
