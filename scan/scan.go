package scan

import (
	"fmt"
	"strings"
)

// --- Token kinds ------------------------------------------------------------

// Kind identifies the token kinds the context-sensitive scanner may emit.
// The constant order is the wire order shared with hosts and must not change.
type Kind int

const (
	Newline            Kind = iota // a line break at unchanged indentation
	Indent                         // a line break onto deeper indentation
	Dedent                         // one closed indentation level
	InterpolationStart             // the two characters '{!'
	TextSegment                    // raw instruction text without '{' or line break
)

// KindCount is the number of token kinds.
const KindCount = 5

var kindNames = [KindCount]string{
	"NEWLINE", "INDENT", "DEDENT", "INTERPOLATION-START", "TEXT-SEGMENT",
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// --- Acceptable-kinds sets ----------------------------------------------------

// Valid is a set of token kinds a host is willing to accept for the next token.
// Hosts construct it with Accept. The empty set declines everything.
type Valid uint8

// Accept collects token kinds into a Valid set.
func Accept(kinds ...Kind) Valid {
	var v Valid
	for _, k := range kinds {
		v |= 1 << uint(k)
	}
	return v
}

// Accepts tells whether kind k is contained in the set.
func (v Valid) Accepts(k Kind) bool {
	return v&(1<<uint(k)) != 0
}

func (v Valid) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for k := Kind(0); k < KindCount; k++ {
		if !v.Accepts(k) {
			continue
		}
		if b.Len() > 1 {
			b.WriteByte(' ')
		}
		b.WriteString(k.String())
	}
	b.WriteByte(']')
	return b.String()
}

// --- Scanner state ------------------------------------------------------------

// MaxDepth is the maximum number of open indentation levels a state tracks,
// including the base level. An INDENT decision at full capacity still emits
// its token, but the level goes untracked and later dedents are attributed to
// tracked levels only.
const MaxDepth = 100

// State is the context the scanner carries across calls: the stack of open
// indentation widths and the pending-dedent marker. A fresh state has the
// base level of width 0 open; the stack never becomes empty.
//
// The zero value is not usable, create states with NewState (or restore one
// with UnmarshalBinary).
type State struct {
	indents []uint16 // widths of open levels, bottom first, strictly increasing
	pending int16    // dedent target width still owed to the host, -1 = none
}

// NewState creates a scanner state with just the base level open.
func NewState() *State {
	return &State{
		indents: []uint16{0},
		pending: -1,
	}
}

// Depth returns the number of open indentation levels, including the base
// level. It is at least 1.
func (st *State) Depth() int {
	return len(st.indents)
}

// Width returns the indentation width of the innermost open level.
func (st *State) Width() int {
	return int(st.top())
}

// Pending returns the target width of dedents still owed to the host, if any.
func (st *State) Pending() (int, bool) {
	if st.pending < 0 {
		return 0, false
	}
	return int(st.pending), true
}

func (st *State) top() uint16 {
	return st.indents[len(st.indents)-1]
}

func (st *State) String() string {
	if st.pending < 0 {
		return fmt.Sprintf("state{depth=%d top=%d}", len(st.indents), st.top())
	}
	return fmt.Sprintf("state{depth=%d top=%d pending=%d}", len(st.indents), st.top(), st.pending)
}

// --- Scanning -------------------------------------------------------------------

// Scan produces the next context-sensitive token, if there is one. The host
// passes the set of token kinds it is willing to accept; Scan consumes input
// through cur and returns the kind of the token it emitted, or ok == false if
// the input at this point is not the scanner's business. On ok the token
// covers the cursor positions from the call's start to the marked end. On
// decline the host must rewind the cursor to the call's start position;
// state mutations performed before declining persist (a dedent observed
// while DEDENT was unacceptable stays owed).
//
// At most one token is emitted per call. A line break closing several
// indentation levels answers the first call with a DEDENT covering the line
// break and subsequent calls with zero-width DEDENTs until all owed levels
// are closed.
func (st *State) Scan(cur Cursor, valid Valid) (Kind, bool) {
	tracer().Debugf("scan: lookahead=%q, valid=%v, %v", cur.Lookahead(), valid, st)

	// Interpolation opener '{!', only relevant inside instruction prose
	if valid.Accepts(InterpolationStart) && cur.Lookahead() == '{' {
		cur.Advance()
		if cur.Lookahead() == '!' {
			cur.Advance()
			cur.MarkEnd()
			tracer().Debugf("scan: => %s", InterpolationStart)
			return InterpolationStart, true
		}
		// a lone '{': fold it into the surrounding text if the host takes text
		if valid.Accepts(TextSegment) {
			consumeText(cur)
			tracer().Debugf("scan: => %s (lone '{')", TextSegment)
			return TextSegment, true
		}
		return 0, false
	}

	// Raw instruction text up to EOF, line break or '{'
	if la := cur.Lookahead(); valid.Accepts(TextSegment) && la != 0 && la != '\n' && la != '{' {
		consumeText(cur)
		tracer().Debugf("scan: => %s", TextSegment)
		return TextSegment, true
	}

	// A line break may have closed more levels than have been delivered yet.
	// Owed dedents go out first, one zero-width DEDENT per call.
	if st.pending >= 0 && valid.Accepts(Dedent) {
		if int(st.pending) < int(st.top()) && len(st.indents) > 1 {
			st.indents = st.indents[:len(st.indents)-1]
			if int(st.top()) <= int(st.pending) {
				st.pending = -1 // target level reached
			}
			tracer().Debugf("scan: => %s (owed, back to width %d)", Dedent, st.top())
			return Dedent, true
		}
		st.pending = -1 // stale marker
	}

	// Everything below deals with line boundaries
	if la := cur.Lookahead(); la != '\n' && la != '\r' && !cur.Eof() {
		return 0, false
	}

	// Consume the line break and any following blank or comment-only lines,
	// measuring the indentation of the next material line. The first '\n' is
	// consumed into the token so that layout tokens have non-zero size.
	foundEOL := false
	width := 0
	for {
		la := cur.Lookahead()
		if la == '\n' {
			if !foundEOL {
				cur.Advance()
				cur.MarkEnd()
			} else {
				cur.Skip()
			}
			foundEOL = true
			width = 0
		} else if la == '\r' {
			cur.Skip()
		} else if la == ' ' && foundEOL {
			width++
			cur.Skip()
		} else if la == '\t' && foundEOL {
			width += 3 // a tab counts as 3 columns
			cur.Skip()
		} else if la == '#' && foundEOL {
			// comment-only line, discount it entirely
			for cur.Lookahead() != 0 && cur.Lookahead() != '\n' {
				cur.Skip()
			}
		} else if cur.Eof() {
			if !foundEOL {
				cur.MarkEnd()
			}
			width = 0 // EOF closes all open blocks
			foundEOL = true
			break
		} else {
			break // material character, measuring done
		}
	}

	if foundEOL {
		top := int(st.top())
		tracer().Debugf("scan: line boundary, width=%d, top=%d", width, top)
		if valid.Accepts(Indent) && width > top {
			if len(st.indents) < MaxDepth {
				st.indents = append(st.indents, uint16(width))
			}
			st.pending = -1
			tracer().Debugf("scan: => %s (width %d)", Indent, width)
			return Indent, true
		}
		if valid.Accepts(Dedent) && width < top {
			st.indents = st.indents[:len(st.indents)-1]
			if width < int(st.top()) {
				st.pending = int16(width) // more levels to close on later calls
			}
			tracer().Debugf("scan: => %s (back to width %d)", Dedent, st.top())
			return Dedent, true
		}
		if width < top {
			// the dedent is owed but cannot be delivered now
			st.pending = int16(width)
			tracer().Debugf("scan: dedent to width %d now owed", width)
		}
		if valid.Accepts(Newline) && !cur.Eof() {
			tracer().Debugf("scan: => %s", Newline)
			return Newline, true
		}
	}
	tracer().Debugf("scan: no token")
	return 0, false
}

// consumeText consumes the longest run of runes containing neither EOF nor a
// line break nor '{', and marks the token end behind it.
func consumeText(cur Cursor) {
	for la := cur.Lookahead(); la != 0 && la != '\n' && la != '{'; la = cur.Lookahead() {
		cur.Advance()
	}
	cur.MarkEnd()
}
