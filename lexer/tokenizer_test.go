package lexer

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	agentscript "github.com/composable-delivery/busbar-sf-agentscript"
)

// collect drives a scanner to EOF and returns all tokens in front of it.
func collect(t *testing.T, s *Scanner) []agentscript.Token {
	toks := []agentscript.Token{}
	for i := 0; i < 4096; i++ {
		tok := s.NextToken()
		span := tok.Span()
		t.Logf(" %4d…%-4d | %-20s | %q", span.From(), span.To(),
			TokTypeString(tok.TokType()), tok.Lexeme())
		if tok.TokType() == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
	t.Fatalf("scanner did not reach EOF")
	return nil
}

// names joins the type names of tokens with single blanks.
func names(toks []agentscript.Token) string {
	s := make([]string, len(toks))
	for i, tok := range toks {
		s[i] = TokTypeString(tok.TokType())
	}
	return strings.Join(s, " ")
}

func scannerFor(t *testing.T, input string, opts ...Option) *Scanner {
	s, err := NewScanner(input, opts...)
	if err != nil {
		t.Fatalf("cannot create scanner: %v", err)
	}
	return s
}

func TestTokenizerKeywordsVsIdents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	toks := collect(t, scannerFor(t, "config configs True Truthy"))
	if s := names(toks); s != "config Ident True Ident" {
		t.Errorf("got token stream %q", s)
	}
	if lex := toks[1].Lexeme(); lex != "configs" {
		t.Errorf("expected identifier 'configs', got %q", lex)
	}
}

func TestTokenizerOperators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	inputs := []string{
		"x:|y",
		"x:->y",
		"x->y",
		"a == b != c",
		"n <= 1",
		"items...rest",
		"@variables.name",
	}
	expect := []string{
		"Ident :| Ident",
		"Ident :-> Ident",
		"Ident -> Ident",
		"Ident == Ident != Ident",
		"Ident <= Number",
		"Ident ... Ident",
		"@ variables . Ident",
	}
	for i, input := range inputs {
		toks := collect(t, scannerFor(t, input))
		if s := names(toks); s != expect[i] {
			t.Errorf("input %q: got token stream %q, expected %q", input, s, expect[i])
		}
	}
}

func TestTokenizerLiteralValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	toks := collect(t, scannerFor(t, `greeting = "hi there" + 1.5`))
	if s := names(toks); s != "Ident = String + Number" {
		t.Fatalf("got token stream %q", s)
	}
	if v := toks[2].Value(); v != "hi there" {
		t.Errorf("string token carries value %v", v)
	}
	if v := toks[4].Value(); v != 1.5 {
		t.Errorf("number token carries value %v", v)
	}
}

func TestTokenizerLayoutScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	toks := collect(t, scannerFor(t, "a\n   b\n      c\nd\n"))
	expect := "Ident NEWLINE INDENT Ident NEWLINE INDENT Ident NEWLINE DEDENT DEDENT Ident"
	if s := names(toks); s != expect {
		t.Fatalf("got token stream %q, expected %q", s, expect)
	}
	if w := toks[2].Value(); w != 3 {
		t.Errorf("first INDENT reports width %v", w)
	}
	if w := toks[5].Value(); w != 6 {
		t.Errorf("second INDENT reports width %v", w)
	}
	if w := toks[8].Value(); w != 3 {
		t.Errorf("first DEDENT reports width %v", w)
	}
	if w := toks[9].Value(); w != 0 {
		t.Errorf("second DEDENT reports width %v", w)
	}
	if toks[1].Span() != toks[2].Span() {
		t.Errorf("INDENT %v does not cover the same break as its NEWLINE %v",
			toks[2].Span(), toks[1].Span())
	}
	if toks[9].Span().Len() != 0 {
		t.Errorf("owed DEDENT is not zero-width: %v", toks[9].Span())
	}
}

func TestTokenizerConfigBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	input := "config:\n   agent_name: \"Test Agent\"\n   version: 1.5\n"
	toks := collect(t, scannerFor(t, input))
	expect := "config : NEWLINE INDENT Ident : String NEWLINE Ident : Number DEDENT"
	if s := names(toks); s != expect {
		t.Fatalf("got token stream %q, expected %q", s, expect)
	}
	if v := toks[6].Value(); v != "Test Agent" {
		t.Errorf("string token carries value %v", v)
	}
}

func TestTokenizerInstructionProse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	input := "topic greet:\n" +
		"   instructions:|\n" +
		"      Greet {!@variables.name} warmly.\n" +
		"   label: \"x\"\n"
	s := scannerFor(t, input)
	toks := collect(t, s)
	expect := "topic Ident : NEWLINE INDENT instructions :| NEWLINE INDENT " +
		"TEXT-SEGMENT INTERPOLATION-START @ variables . Ident } TEXT-SEGMENT " +
		"NEWLINE DEDENT label : String DEDENT"
	if got := names(toks); got != expect {
		t.Fatalf("got token stream %q, expected %q", got, expect)
	}
	if lex := toks[9].Lexeme(); lex != "Greet " {
		t.Errorf("first text segment is %q", lex)
	}
	if lex := toks[16].Lexeme(); lex != " warmly." {
		t.Errorf("second text segment is %q", lex)
	}
	if s.Mode() != ModeCode {
		t.Errorf("scanner ends in mode %v, expected code mode", s.Mode())
	}
}

func TestTokenizerArrowProse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	input := "instructions: ->\n   Be nice.\n"
	toks := collect(t, scannerFor(t, input))
	expect := "instructions : -> NEWLINE INDENT TEXT-SEGMENT DEDENT"
	if s := names(toks); s != expect {
		t.Fatalf("got token stream %q, expected %q", s, expect)
	}
	if lex := toks[5].Lexeme(); lex != "Be nice." {
		t.Errorf("text segment is %q", lex)
	}
}

func TestTokenizerLoneBraceInProse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	toks := collect(t, scannerFor(t, "a {b} c", InstructionMode(true)))
	if s := names(toks); s != "TEXT-SEGMENT TEXT-SEGMENT" {
		t.Fatalf("got token stream %q", s)
	}
	if lex := toks[0].Lexeme(); lex != "a " {
		t.Errorf("first text segment is %q", lex)
	}
	if lex := toks[1].Lexeme(); lex != "{b} c" {
		t.Errorf("second text segment is %q", lex)
	}
}

func TestTokenizerComments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	input := "a # note\nb # tail"
	toks := collect(t, scannerFor(t, input))
	if s := names(toks); s != "Ident NEWLINE Ident" {
		t.Errorf("got token stream %q", s)
	}
	toks = collect(t, scannerFor(t, input, EmitComments(true)))
	if s := names(toks); s != "Ident Comment NEWLINE Ident Comment" {
		t.Errorf("with comments: got token stream %q", s)
	}
}

func TestTokenizerCommentLinesAreDiscounted(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	input := "a\n   # indented comment\n   b\n"
	toks := collect(t, scannerFor(t, input))
	expect := "Ident NEWLINE INDENT Ident DEDENT"
	if s := names(toks); s != expect {
		t.Errorf("got token stream %q, expected %q", s, expect)
	}
}

func TestTokenizerUnicodeText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	errs := 0
	s := scannerFor(t, "name = Zoë 😀")
	s.SetErrorHandler(func(error) { errs++ })
	toks := collect(t, s)
	if got := names(toks); got != "Ident = Ident UnicodeText UnicodeText" {
		t.Fatalf("got token stream %q", got)
	}
	if lex := toks[3].Lexeme(); lex != "ë" {
		t.Errorf("first unicode run is %q", lex)
	}
	if lex := toks[4].Lexeme(); lex != "😀" {
		t.Errorf("second unicode run is %q", lex)
	}
	if errs != 0 {
		t.Errorf("unicode recovery reported %d errors", errs)
	}
}

func TestTokenizerIllegalInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	errs := 0
	s := scannerFor(t, "a \x01 b")
	s.SetErrorHandler(func(error) { errs++ })
	toks := collect(t, s)
	if got := names(toks); got != "Ident Ident" {
		t.Errorf("got token stream %q", got)
	}
	if errs == 0 {
		t.Errorf("expected the error handler to be called")
	}
}

func TestTokenizerSnapshotRestore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	a := scannerFor(t, "topic:\n   x: 1\n")
	for i := 0; i < 16; i++ {
		if a.NextToken().TokType() == Indent {
			break
		}
	}
	img := a.Snapshot()
	if img == nil {
		t.Fatalf("snapshot is nil")
	}
	b := scannerFor(t, "   y: 2\nz")
	if err := b.Restore(img); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if b.State().Fingerprint() != a.State().Fingerprint() {
		t.Errorf("restored state differs: %s vs %s",
			b.State().Fingerprint(), a.State().Fingerprint())
	}
	toks := collect(t, b)
	expect := "Ident : Number NEWLINE DEDENT Ident"
	if s := names(toks); s != expect {
		t.Errorf("got token stream %q, expected %q", s, expect)
	}
}

func TestTokenizerEmptyInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	if toks := collect(t, scannerFor(t, "")); len(toks) != 0 {
		t.Errorf("empty input yields %q", names(toks))
	}
	if toks := collect(t, scannerFor(t, "\n")); len(toks) != 0 {
		t.Errorf("single line break yields %q", names(toks))
	}
}

func TestTokenizerEOFClosesAllBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	toks := collect(t, scannerFor(t, "a:\n   b:\n      c"))
	expect := "Ident : NEWLINE INDENT Ident : NEWLINE INDENT Ident DEDENT DEDENT"
	if s := names(toks); s != expect {
		t.Errorf("got token stream %q, expected %q", s, expect)
	}
}
