/*
Package scan implements the context-sensitive core of AgentScript tokenization.

AgentScript structures blocks by leading whitespace, Python-style, and embeds
raw instruction prose with interpolated expressions. Neither property can be
tokenized by a context-free scanner: INDENT and DEDENT tokens depend on the
history of open block widths, and instruction prose is tokenized as raw text
except where an interpolation opens. Package scan owns exactly this
context-sensitive slice of the work and nothing else. Keywords, literals and
operators are context-free and are handled by package lexer.

Driving the Scanner

The scanner is an explicit-state object, driven by a host one token per call.
The host tells the scanner which token kinds it is currently willing to
accept, and the scanner either emits a single token by consuming input
through a Cursor, or declines:

    st := scan.NewState()
    cur := scan.NewStringCursor(input)
    cur.Begin()
    kind, ok := st.Scan(cur, scan.Accept(scan.Newline, scan.Indent, scan.Dedent))
    if !ok {
        cur.Rewind() // not the scanner's business, re-read with other means
    }

Five token kinds exist. NEWLINE, INDENT and DEDENT reflect the layout: a line
break followed by deeper indentation emits INDENT, shallower indentation
emits DEDENT, unchanged indentation emits NEWLINE. Indentation is measured in
columns, a space counting 1 and a tab counting 3, and lines holding only a
comment are discounted entirely. A line break that closes several blocks at
once yields one DEDENT per Scan call until all levels are closed; the
outstanding levels are remembered in the state as a pending-dedent marker.

TEXT-SEGMENT and INTERPOLATION-START serve instruction prose. A text segment
is the longest run of input containing neither a line break nor '{'.
INTERPOLATION-START covers exactly the two characters '{!'. A lone '{' that
does not open an interpolation folds into the surrounding text. The
expression inside an interpolation, including the closing '}', is ordinary
token territory and not handled here.

State Snapshots

For hosts that re-tokenize edited input incrementally, State serializes to a
compact binary image (MarshalBinary) and restores from untrusted bytes
(UnmarshalBinary) without ever producing an unusable state. Restoring
malformed input degrades gracefully instead of failing.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Composable Delivery <opensource@composable-delivery.dev>

*/
package scan

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'agentscript.scan'
func tracer() tracing.Trace {
	return tracing.Select("agentscript.scan")
}
