package lexer

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/sets/treeset"

	agentscript "github.com/composable-delivery/busbar-sf-agentscript"
	"github.com/composable-delivery/busbar-sf-agentscript/scan"
)

// Token types for terminals which are not keywords or operators. The five
// layout types carry the same numeric order as the kinds of package scan.
const (
	EOF agentscript.TokType = iota
	Newline
	Indent
	Dedent
	InterpolationStart
	TextSegment
	Ident
	String
	Number
	Comment
	UnicodeText
)

// Keyword and operator token types are assigned during initTokens, starting
// at these offsets. eolType never surfaces in the token stream; the driver
// uses it to hand line breaks back to the context-sensitive core.
const (
	firstKeywordType agentscript.TokType = 20
	firstLiteralType agentscript.TokType = 100
	eolType          agentscript.TokType = -2
)

// Keywords of AgentScript. Some open blocks (config, topic, …), some name
// detail fields inside blocks, some are type or literal names. The lexer
// does not care: every keyword gets its own token type.
var keywords = []string{
	// block openers
	"config", "variables", "system", "start_agent", "topic", "actions",
	"inputs", "outputs", "target", "reasoning", "instructions",
	"before_reasoning", "after_reasoning", "messages",
	// detail fields
	"welcome", "error", "connection", "connections", "knowledge", "language",
	"mutable", "linked", "description", "source", "label", "is_required",
	"is_displayable", "is_used_by_planner", "complex_data_type_name",
	"filter_from_agent", "require_user_confirmation",
	"include_in_progress_indicator", "progress_indicator_message",
	// type names
	"string", "number", "boolean", "object", "list", "date", "timestamp",
	"currency", "datetime", "time", "integer", "long", "id",
	// statement words
	"if", "else", "run", "with", "set", "to", "as", "transition",
	"available", "when",
	// literals and word operators
	"True", "False", "None", "is", "not", "and", "or",
}

// Operators and punctuation, multi-character entries first. Longest match
// decides between a prefix and its extension, so relative order only breaks
// ties between equal-length patterns.
var literals = []string{
	":->", ":|", "->", "...", "==", "!=", "<=", ">=", "{!", "{{", "}}",
	"<", ">", "=", "+", "-", ":", ".", ",", "@", "|",
	"(", ")", "[", "]", "{", "}",
	"/", "?", "!", "$", "%", "*", "&", ";", "`", "~", "^", "\\", "_", "'",
}

var tokenTypes map[string]agentscript.TokType // lexeme ⇒ token type
var typeNames map[agentscript.TokType]string  // token type ⇒ printable name

// Token types the mode tracking has to recognize, resolved once the
// registry is built.
var typeArrow, typeColonArrow, typeColonPipe agentscript.TokType
var typeLBrace, typeRBrace agentscript.TokType

var initOnce sync.Once // monitors one-time initialization

// initTokens assigns token types to keywords and operators. Keywords are
// deduplicated and ordered by a treeset, so types are stable no matter how
// the keyword list above is grouped.
func initTokens() {
	initOnce.Do(func() {
		tokenTypes = make(map[string]agentscript.TokType)
		typeNames = map[agentscript.TokType]string{
			EOF:                "EOF",
			Newline:            "NEWLINE",
			Indent:             "INDENT",
			Dedent:             "DEDENT",
			InterpolationStart: "INTERPOLATION-START",
			TextSegment:        "TEXT-SEGMENT",
			Ident:              "Ident",
			String:             "String",
			Number:             "Number",
			Comment:            "Comment",
			UnicodeText:        "UnicodeText",
		}
		set := treeset.NewWithStringComparator()
		for _, kw := range keywords {
			set.Add(kw)
		}
		t := firstKeywordType
		set.Each(func(_ int, v interface{}) {
			kw := v.(string)
			tokenTypes[kw] = t
			typeNames[t] = kw
			t++
		})
		t = firstLiteralType
		for _, lit := range literals {
			tokenTypes[lit] = t
			typeNames[t] = lit
			t++
		}
		typeArrow = tokenTypes["->"]
		typeColonArrow = tokenTypes[":->"]
		typeColonPipe = tokenTypes[":|"]
		typeLBrace = tokenTypes["{"]
		typeRBrace = tokenTypes["}"]
	})
}

// Token returns the token type for a keyword or operator lexeme. It is
// intended for parsers which need to refer to terminals by name.
func Token(lexeme string) (agentscript.TokType, bool) {
	initTokens()
	t, ok := tokenTypes[lexeme]
	return t, ok
}

// TokTypeString returns a printable name for a token type. It may be wired
// into clients as an agentscript.TokTypeStringer.
func TokTypeString(t agentscript.TokType) string {
	initTokens()
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokType(%d)", int(t))
}

// typeOf maps a layout kind of package scan onto its token type.
func typeOf(kind scan.Kind) agentscript.TokType {
	return Newline + agentscript.TokType(kind)
}

// --- Tokens ----------------------------------------------------------

// DefaultToken is the token type emitted by Scanner.
type DefaultToken struct {
	kind   agentscript.TokType
	lexeme string
	span   agentscript.Span
	Val    interface{}
}

// MakeDefaultToken creates a token with a given type, lexeme and position.
func MakeDefaultToken(typ agentscript.TokType, lexeme string, span agentscript.Span) *DefaultToken {
	return &DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// TokType returns the token type.
func (t *DefaultToken) TokType() agentscript.TokType {
	return t.kind
}

// Value returns the payload of a token: the numeric value of Number tokens,
// the unquoted content of String tokens, the new indentation width of
// INDENT and DEDENT tokens. It is nil for tokens without a payload.
func (t *DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme returns the characters the token covers. Owed DEDENTs cover no
// input and return "".
func (t *DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span returns the position of the token within the input.
func (t *DefaultToken) Span() agentscript.Span {
	return t.span
}

func (t *DefaultToken) String() string {
	return fmt.Sprintf("%s(%q)%v", TokTypeString(t.kind), t.lexeme, t.span)
}

var _ agentscript.Token = &DefaultToken{}
