package lexer

import (
	"strconv"

	lex "github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	agentscript "github.com/composable-delivery/busbar-sf-agentscript"
	"github.com/composable-delivery/busbar-sf-agentscript/scan"
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() agentscript.Token
	SetErrorHandler(func(error))
}

// Mode identifies a scanning mode. The mode decides which token kinds the
// layout core may produce before the DFA gets to see the input.
type Mode int

const (
	ModeCode Mode = iota // keywords, identifiers, literals, operators
	ModeText             // instruction prose: raw text and interpolation openers
	ModeExpr             // interpolation expression, until its brace closes
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "prose"
	case ModeExpr:
		return "expression"
	}
	return "code"
}

// Scanner is the default Tokenizer implementation for AgentScript. It fuses
// the layout core of package scan with a lexmachine DFA into one token
// stream and tracks scanning modes over it.
//
// A Scanner works on one input. Use Snapshot and Restore to carry layout
// state from one input to the next, e.g. between the lines of a REPL.
type Scanner struct {
	Error        func(error) // error handler
	input        string
	cur          *scan.StringCursor
	st           *scan.State
	lm           *lex.Scanner
	mode         Mode
	armed        bool // an instruction marker arms prose for the next INDENT
	textDepth    int  // block nesting inside instruction prose
	braceDepth   int  // brace nesting inside an interpolation expression
	atBoundary   bool // a NEWLINE has been emitted and awaits its re-read
	boundaryPos  int  // start of the pending line break
	contPos      int  // first position after the pending line break run
	emitComments bool
}

var _ Tokenizer = (*Scanner)(nil)

// NewScanner creates a Scanner for an input text. All Scanners share a
// single compiled DFA; creating one is cheap.
func NewScanner(input string, opts ...Option) (*Scanner, error) {
	adapter, err := sharedDFA()
	if err != nil {
		return nil, err
	}
	lms, err := adapter.Lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	s := &Scanner{
		Error: logError,
		input: input,
		cur:   scan.NewStringCursor(input),
		st:    scan.NewState(),
		lm:    lms,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetErrorHandler sets an error handler for the scanner.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		s.Error = logError
		return
	}
	s.Error = h
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// State exposes the layout state of the scanner, for diagnostics and
// status displays. Clients must not modify it.
func (s *Scanner) State() *scan.State {
	return s.st
}

// Mode returns the current scanning mode.
func (s *Scanner) Mode() Mode {
	return s.mode
}

// Snapshot serializes the layout state of the scanner.
func (s *Scanner) Snapshot() []byte {
	img, err := s.st.MarshalBinary()
	if err != nil {
		return nil
	}
	return img
}

// Restore resets the layout state from a snapshot, possibly taken from a
// different Scanner. Unreadable snapshots degrade to a fresh state.
func (s *Scanner) Restore(img []byte) error {
	return s.st.UnmarshalBinary(img)
}

// NextToken returns the next token of the input. At the end of the input it
// returns EOF tokens forever, after all owed DEDENTs have been delivered.
//
// The layout core gets the first look at every position. A line break is
// reported as a NEWLINE when it is scanned, but it also marks the boundary
// of the next line: when the new line lies deeper, the following call
// re-reads the break accepting INDENT, so that the INDENT follows its
// NEWLINE as a separate token covering the same break. Closed levels ride
// the owed-dedent marker instead and are delivered as zero-width DEDENTs,
// one per call.
func (s *Scanner) NextToken() agentscript.Token {
	for {
		if s.atBoundary {
			if tok, ok := s.boundaryChange(); ok {
				return tok
			}
		}
		if _, armed := s.st.Pending(); armed {
			if tok, ok := s.owedDedent(); ok {
				return tok
			}
		}
		s.cur.Begin()
		if kind, ok := s.st.Scan(s.cur, s.ask()); ok {
			return s.scannedToken(kind)
		}
		s.cur.Rewind()
		if _, armed := s.st.Pending(); armed {
			continue // the declined scan left DEDENTs owed
		}
		if la := s.cur.Lookahead(); la == '\n' || la == '\r' {
			s.cur.SetPos(s.cur.Pos() + 1) // line break with no token due, e.g. at EOF
			s.lm.TC = s.cur.Pos()
			continue
		}
		if tok, ok := s.dfaToken(); ok {
			return tok
		}
	}
}

// ask returns the layout kinds acceptable in the current mode.
func (s *Scanner) ask() scan.Valid {
	if s.mode == ModeText {
		return scan.Accept(scan.Newline, scan.InterpolationStart, scan.TextSegment)
	}
	return scan.Accept(scan.Newline)
}

// boundaryChange re-reads a pending line break, accepting INDENT. It
// reports false when the new line does not lie deeper.
func (s *Scanner) boundaryChange() (agentscript.Token, bool) {
	s.atBoundary = false
	s.cur.SetPos(s.boundaryPos)
	s.cur.Begin()
	kind, ok := s.st.Scan(s.cur, scan.Accept(scan.Indent))
	if !ok {
		s.cur.SetPos(s.contPos)
		s.lm.TC = s.contPos
		return nil, false
	}
	return s.scannedToken(kind), true
}

// owedDedent delivers one owed DEDENT. It reports false when the marker
// turned out to be stale and was cleared without a token.
func (s *Scanner) owedDedent() (agentscript.Token, bool) {
	s.cur.Begin()
	kind, ok := s.st.Scan(s.cur, scan.Accept(scan.Dedent))
	if !ok {
		s.cur.Rewind()
		return nil, false
	}
	return s.scannedToken(kind), true
}

// scannedToken wraps a token of the layout core and keeps the cursor, the
// DFA position and the scanning mode in sync with it.
func (s *Scanner) scannedToken(kind scan.Kind) agentscript.Token {
	span := s.cur.TokenSpan()
	tok := MakeDefaultToken(typeOf(kind), s.input[span.From():span.To()], span)
	switch kind {
	case scan.Newline:
		// When the break closed levels, the scan armed the owed-dedent
		// marker; only a possible INDENT warrants re-reading the break.
		if _, armed := s.st.Pending(); !armed {
			s.atBoundary = true
			s.boundaryPos = int(span.From())
		}
		s.contPos = s.cur.Pos()
		s.lm.TC = s.contPos
	case scan.Indent, scan.Dedent:
		tok.Val = s.st.Width()
		s.lm.TC = s.cur.Pos()
		tracer().Debugf("layout %v, %v", tok, s.st)
	default:
		s.lm.TC = s.cur.Pos()
	}
	s.note(tok.TokType())
	return tok
}

// dfaToken scans one context-free token. It reports false when the DFA ran
// into a line break, which belongs to the layout core.
func (s *Scanner) dfaToken() (agentscript.Token, bool) {
	for {
		tok, err, eof := s.lm.Next()
		for err != nil {
			ui, is := err.(*machines.UnconsumedInput)
			if !is {
				s.Error(err)
				return s.eofToken(), true
			}
			if t, ok := s.unicodeText(ui); ok {
				return t, true
			}
			s.Error(err)
			if ui.FailTC > s.lm.TC {
				s.lm.TC = ui.FailTC
			} else {
				s.lm.TC++ // make progress even on a zero-width failure
			}
			tok, err, eof = s.lm.Next()
		}
		if eof {
			return s.eofToken(), true
		}
		token := tok.(*lex.Token)
		typ := agentscript.TokType(token.Type)
		if typ == eolType {
			s.lm.TC = token.TC // un-read the break and let the layout core have it
			s.cur.SetPos(token.TC)
			return nil, false
		}
		if typ == Comment && !s.emitComments {
			continue
		}
		lexeme := string(token.Lexeme)
		t := MakeDefaultToken(typ, lexeme,
			agentscript.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))})
		switch typ {
		case Number:
			if v, err := strconv.ParseFloat(lexeme, 64); err == nil {
				t.Val = v
			}
		case String:
			if len(lexeme) >= 2 {
				t.Val = lexeme[1 : len(lexeme)-1]
			}
		}
		s.cur.SetPos(s.lm.TC)
		s.note(typ)
		tracer().Debugf("token %v", t)
		return t, true
	}
}

// unicodeText recovers a run of non-ASCII input as a single token. The DFA
// works on bytes and cannot match beyond ASCII; prose and identifiers from
// other scripts surface as UnicodeText instead of scanner errors.
func (s *Scanner) unicodeText(ui *machines.UnconsumedInput) (agentscript.Token, bool) {
	start := ui.StartTC
	if start >= len(s.input) || s.input[start] < 0x80 {
		return nil, false
	}
	end := start
	for end < len(s.input) && s.input[end] >= 0x80 {
		end++
	}
	s.lm.TC = end
	s.cur.SetPos(end)
	return MakeDefaultToken(UnicodeText, s.input[start:end],
		agentscript.Span{uint64(start), uint64(end)}), true
}

func (s *Scanner) eofToken() agentscript.Token {
	pos := uint64(len(s.input))
	return MakeDefaultToken(EOF, "", agentscript.Span{pos, pos})
}

// note tracks the scanning mode over the token stream. An instruction
// marker arms prose scanning for the block the next INDENT opens; an
// interpolation opener switches to expression scanning until the brace
// which opened it closes.
func (s *Scanner) note(typ agentscript.TokType) {
	switch s.mode {
	case ModeCode:
		switch typ {
		case typeColonPipe, typeColonArrow, typeArrow:
			s.armed = true
		case Newline, Comment:
			// arming survives the line break in front of the block
		case Indent:
			if s.armed {
				s.armed = false
				s.mode = ModeText
				s.textDepth = 1
				tracer().Debugf("scanning instruction prose")
			}
		default:
			s.armed = false
		}
	case ModeText:
		switch typ {
		case Indent:
			s.textDepth++
		case Dedent:
			s.textDepth--
			if s.textDepth == 0 {
				s.mode = ModeCode
				tracer().Debugf("scanning code")
			}
		case InterpolationStart:
			s.mode = ModeExpr
			s.braceDepth = 1
		}
	case ModeExpr:
		switch typ {
		case typeLBrace:
			s.braceDepth++
		case typeRBrace:
			s.braceDepth--
			if s.braceDepth == 0 {
				s.mode = ModeText
			}
		}
	}
}

// --- Scanner options -------------------------------------------------

// Option configures a Scanner.
type Option func(s *Scanner)

// EmitComments lets the Scanner emit Comment tokens instead of dropping
// them.
func EmitComments(b bool) Option {
	return func(s *Scanner) {
		s.emitComments = b
	}
}

// InstructionMode starts the Scanner inside an instruction block, as if an
// INDENT after an instruction marker had just been scanned. Intended for
// REPLs and tests which feed prose fragments without their surrounding
// block.
func InstructionMode(b bool) Option {
	return func(s *Scanner) {
		if b {
			s.mode = ModeText
			s.textDepth = 1
		} else {
			s.mode = ModeCode
			s.textDepth = 0
		}
	}
}
