/*
Package astok/main provides an interactive command line tool for inspecting
AgentScript token streams. Given a file argument it tokenizes the file,
prints the token stream and renders the block structure which the layout
tokens spell out. Without an argument it starts an interactive prompt,
where the layout state is carried from line to line the way an incremental
host would carry it, using the binary state snapshots of package scan.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Composable Delivery <opensource@composable-delivery.dev>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'agentscript.astok'
func tracer() tracing.Trace {
	return tracing.Select("agentscript.astok")
}
