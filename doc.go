/*
Package agentscript is a tokenization toolbox for the AgentScript language.

AgentScript is an indentation-structured language for defining conversational
agents. Its block structure is given by leading whitespace, Python-style, and
its instruction sections contain raw prose with embedded interpolations. Both
properties make the language impossible to tokenize with a context-free
scanner, so this module splits the work in two:

■ scan: Package scan implements the context-sensitive core. It manages the
stack of open indentation widths, recognizes line boundaries, emits INDENT and
DEDENT tokens (one per call, with multi-level closings spread over successive
calls), and recognizes raw instruction text and interpolation openers. Its
state serializes to a compact binary image so that hosts may snapshot and
resume tokenization, e.g. for incremental reparsing.

■ lexer: Package lexer implements the context-free rest: keywords, literals,
operators and punctuation, lexed by a DFA. It fuses the DFA with the scan core
into a single token stream and tracks the mode switches between code,
instruction prose and interpolated expressions.

■ cmd/astok: a command line tool for dumping token streams and inspecting
scanner state, with file and REPL mode.

The base package contains data types which are used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Composable Delivery <opensource@composable-delivery.dev>

*/
package agentscript
