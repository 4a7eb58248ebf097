/*
Package lexer tokenizes AgentScript source.

The context-free part of the language (keywords, identifiers, literals,
operators and punctuation) is lexed by a DFA, built with lexmachine. The
context-sensitive part (indentation layout, raw instruction prose,
interpolation openers) is delegated to package scan. Scanner fuses both into
a single token stream: on every call the context-sensitive core gets the
first look at the input, scoped to the token kinds the current scanning mode
permits, and only input it declines is handed to the DFA.

Scanning modes mirror the structure of the language. Code mode is the
default. An instruction marker (':|', ':->' or '->') arms instruction prose
for the block opened by the next INDENT; inside such a block, raw text and
interpolation openers are acceptable. An interpolation opener switches to
expression mode, in which tokens are ordinary again, until the brace that
opened the interpolation closes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Composable Delivery <opensource@composable-delivery.dev>

*/
package lexer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'agentscript.lexer'
func tracer() tracing.Trace {
	return tracing.Select("agentscript.lexer")
}
