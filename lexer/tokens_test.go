package lexer

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTokenRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	typ, ok := Token("config")
	if !ok {
		t.Fatalf("expected 'config' to be a registered keyword")
	}
	if typ < firstKeywordType || typ >= firstLiteralType {
		t.Errorf("keyword 'config' has type %d, expected a keyword type", typ)
	}
	if name := TokTypeString(typ); name != "config" {
		t.Errorf("type of 'config' prints as %q", name)
	}
	if _, ok := Token(":|"); !ok {
		t.Errorf("expected ':|' to be a registered operator")
	}
	if _, ok := Token("frobnicate"); ok {
		t.Errorf("did not expect 'frobnicate' to be registered")
	}
}

func TestTokenTypeNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	if name := TokTypeString(Indent); name != "INDENT" {
		t.Errorf("INDENT prints as %q", name)
	}
	if name := TokTypeString(EOF); name != "EOF" {
		t.Errorf("EOF prints as %q", name)
	}
	if name := TokTypeString(9999); name != "TokType(9999)" {
		t.Errorf("unknown type prints as %q", name)
	}
}

func TestTokenRegistryIsStable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "agentscript.lexer")
	defer teardown()
	t1, _ := Token("topic")
	t2, _ := Token("topic")
	if t1 != t2 {
		t.Errorf("keyword type not stable: %d vs %d", t1, t2)
	}
	a, _ := Token("and")
	b, _ := Token("boolean")
	if a == b {
		t.Errorf("distinct keywords share type %d", a)
	}
}
