package lexer

import (
	"strings"
	"sync"

	lex "github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	agentscript "github.com/composable-delivery/busbar-sf-agentscript"
)

// Adapter wraps a compiled lexmachine DFA for the context-free terminals of
// AgentScript. The DFA never matches a newline, except for the internal EOL
// rule: line breaks belong to the layout core, and the driver bounces them
// back to it.
type Adapter struct {
	Lexer *lex.Lexer
}

var adapterOnce sync.Once // monitors one-time DFA compilation
var sharedAdapter *Adapter
var adapterErr error

// sharedDFA returns the process-wide adapter, compiling it on first use.
// All Scanners share one compiled DFA.
func sharedDFA() (*Adapter, error) {
	adapterOnce.Do(func() {
		sharedAdapter, adapterErr = NewAdapter()
	})
	return sharedAdapter, adapterErr
}

// NewAdapter creates a lexmachine adapter for AgentScript's token set.
// Keywords and operators are registered before the generic rules:
// lexmachine resolves equal-length matches in favor of the earlier pattern,
// which makes "config" a keyword while "configs" stays an identifier.
func NewAdapter() (*Adapter, error) {
	initTokens()
	adapter := &Adapter{Lexer: lex.NewLexer()}
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenTypes[lit]))
	}
	for _, kw := range keywords {
		adapter.Lexer.Add([]byte(kw), MakeToken(kw, tokenTypes[kw]))
	}
	adapter.Lexer.Add([]byte(`\"[^"]*\"`), MakeToken("String", String))
	adapter.Lexer.Add([]byte(`[0-9]+(\.[0-9]+)?`), MakeToken("Number", Number))
	adapter.Lexer.Add([]byte(`#[^\n]*`), MakeToken("Comment", Comment))
	adapter.Lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), MakeToken("Ident", Ident))
	adapter.Lexer.Add([]byte(`( |\t|\r)+`), Skip)
	adapter.Lexer.Add([]byte(`\n`), MakeToken("EOL", eolType))
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lex.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action constructor. It constructs an action
// which creates a lexmachine token with a given type.
func MakeToken(name string, typ agentscript.TokType) lex.Action {
	return func(s *lex.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(typ), string(m.Bytes), m), nil
	}
}
