package scan

import (
	"unicode/utf8"

	agentscript "github.com/composable-delivery/busbar-sf-agentscript"
)

// --- Cursor interface --------------------------------------------------------

// Cursor is the scanner's window onto the input. The scanner consumes runes
// either into the current token (Advance) or past it (Skip), and freezes the
// token's end position with MarkEnd. Consumption is one-directional; undoing
// a declined call is the host's business.
type Cursor interface {
	Lookahead() rune // next rune in the input, 0 at end of input
	Eof() bool       // is the cursor at the end of the input?
	Advance()        // consume the lookahead into the current token
	Skip()           // consume the lookahead without making it part of the token
	MarkEnd()        // freeze the current position as the token's end
}

// --- String cursor -----------------------------------------------------------

// StringCursor is a Cursor over an in-memory string, tracking token positions
// as byte offsets. Hosts bracket every Scan call with Begin, and either read
// the emitted token's extent with TokenSpan or take back all consumption with
// Rewind when the scanner declined.
type StringCursor struct {
	input   string
	pos     int  // byte position of the lookahead
	start   int  // byte position where the current token starts
	end     int  // marked token end, -1 = not marked
	begin   int  // position where the current scan call started
	started bool // has the current token consumed a rune with Advance?
}

var _ Cursor = (*StringCursor)(nil)

// NewStringCursor creates a cursor positioned at the start of input.
func NewStringCursor(input string) *StringCursor {
	return &StringCursor{input: input, end: -1}
}

// Begin starts a fresh token at the current position.
func (cur *StringCursor) Begin() {
	cur.begin = cur.pos
	cur.start = cur.pos
	cur.end = -1
	cur.started = false
}

// Rewind takes back all consumption since the last Begin.
func (cur *StringCursor) Rewind() {
	cur.pos = cur.begin
	cur.start = cur.begin
	cur.end = -1
	cur.started = false
}

// Lookahead returns the rune at the cursor position, 0 at end of input.
// Invalid UTF-8 is surfaced as utf8.RuneError, never as an error.
func (cur *StringCursor) Lookahead() rune {
	if cur.pos >= len(cur.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(cur.input[cur.pos:])
	return r
}

// Eof is true when the cursor is at the end of the input.
func (cur *StringCursor) Eof() bool {
	return cur.pos >= len(cur.input)
}

// Advance consumes the lookahead into the current token.
func (cur *StringCursor) Advance() {
	if cur.pos >= len(cur.input) {
		return
	}
	_, size := utf8.DecodeRuneInString(cur.input[cur.pos:])
	cur.pos += size
	cur.started = true
}

// Skip consumes the lookahead without making it part of the token. Skipping
// before the token's first Advance moves the token start forward.
func (cur *StringCursor) Skip() {
	if cur.pos >= len(cur.input) {
		return
	}
	_, size := utf8.DecodeRuneInString(cur.input[cur.pos:])
	cur.pos += size
	if !cur.started {
		cur.start = cur.pos
	}
}

// MarkEnd freezes the current position as the token's end. Without a mark the
// token ends wherever the cursor stops.
func (cur *StringCursor) MarkEnd() {
	cur.end = cur.pos
}

// TokenSpan returns the byte extent of the token consumed since the last
// Begin. Tokens that consumed nothing yield a zero-width span at the call's
// start position.
func (cur *StringCursor) TokenSpan() agentscript.Span {
	end := cur.end
	if end < 0 {
		end = cur.pos
	}
	return agentscript.Span{uint64(cur.start), uint64(end)}
}

// Pos returns the cursor's byte position.
func (cur *StringCursor) Pos() int {
	return cur.pos
}

// SetPos repositions the cursor, clamped to the input's extent. Hosts use it
// to resync after consuming input by other means.
func (cur *StringCursor) SetPos(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(cur.input) {
		pos = len(cur.input)
	}
	cur.pos = pos
}

// Input returns the string the cursor reads from.
func (cur *StringCursor) Input() string {
	return cur.input
}
