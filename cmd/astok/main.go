package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	agentscript "github.com/composable-delivery/busbar-sf-agentscript"
	"github.com/composable-delivery/busbar-sf-agentscript/lexer"
	"github.com/composable-delivery/busbar-sf-agentscript/scan"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2023–2026 Composable Delivery <opensource@composable-delivery.dev>

*/

// typeName prints token types; the lexer's registry knows all of them.
var typeName agentscript.TokTypeStringer = lexer.TokTypeString

// main() starts astok, a small inspection tool for the AgentScript
// tokenizer. With a file argument it dumps the file's token stream and
// block structure; without one it goes into interactive mode.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	text := flag.Bool("text", false, "Scan input as instruction prose")
	comments := flag.Bool("comments", false, "Emit comment tokens")
	at := flag.Int("at", -1, "Report the token covering a byte position (file mode)")
	flag.Parse()
	tracer().SetTraceLevel(traceLevel(*tlevel))
	if flag.NArg() > 0 {
		if err := tokenizeFile(flag.Arg(0), options(*text, *comments), *at); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		return
	}
	pterm.Info.Println("Welcome to astok") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	tracer().Infof("Quit with <ctrl>D")
	repl(options(*text, *comments))
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func options(text, comments bool) []lexer.Option {
	opts := []lexer.Option{lexer.EmitComments(comments)}
	if text {
		opts = append(opts, lexer.InstructionMode(true))
	}
	return opts
}

// tokenizeFile tokenizes a file, dumps the token stream and renders the
// block structure of the layout tokens.
func tokenizeFile(path string, opts []lexer.Option, at int) error {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	s, err := lexer.NewScanner(string(src), opts...)
	if err != nil {
		return err
	}
	toks := drain(s)
	dumpTokens(toks)
	pterm.Println()
	renderBlockTree(path, toks)
	if at >= 0 {
		reportTokenAt(retrieverFor(toks), at)
	}
	st := s.State()
	tracer().Infof("final state %v, fingerprint %s", st, st.Fingerprint())
	return nil
}

// drain collects all tokens in front of EOF.
func drain(s *lexer.Scanner) *arraylist.List {
	toks := arraylist.New()
	for {
		tok := s.NextToken()
		if tok.TokType() == lexer.EOF {
			return toks
		}
		toks.Add(tok)
	}
}

func dumpTokens(toks *arraylist.List) {
	pterm.Info.Println("Token stream:")
	toks.Each(func(_ int, v interface{}) {
		tok := v.(agentscript.Token)
		span := tok.Span()
		fmt.Printf(" %4d…%-4d | %-20s | %q\n", span.From(), span.To(),
			typeName(tok.TokType()), tok.Lexeme())
	})
}

// renderBlockTree prints the block structure which INDENT and DEDENT
// tokens spell out, one tree node per line of input, annotated with the
// input span the line's tokens cover.
func renderBlockTree(label string, toks *arraylist.List) {
	ll := pterm.LeveledList{}
	level := 0
	line := []string{}
	var lineSpan agentscript.Span
	flush := func() {
		if len(line) == 0 {
			return
		}
		text := fmt.Sprintf("%s  %v", strings.Join(line, " "), lineSpan)
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: text})
		line = line[:0]
		lineSpan = agentscript.Span{}
	}
	toks.Each(func(_ int, v interface{}) {
		tok := v.(agentscript.Token)
		switch tok.TokType() {
		case lexer.Newline:
			flush()
		case lexer.Indent:
			level++
		case lexer.Dedent:
			flush()
			if level > 0 {
				level--
			}
		default:
			line = append(line, tok.Lexeme())
			if lineSpan.IsNull() {
				lineSpan = tok.Span()
			} else {
				lineSpan = lineSpan.Extend(tok.Span())
			}
		}
	})
	flush()
	if len(ll) == 0 {
		return
	}
	pterm.Println(label)
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

// retrieverFor builds a position-to-token lookup over a collected stream.
func retrieverFor(toks *arraylist.List) agentscript.TokenRetriever {
	return func(pos uint64) agentscript.Token {
		var found agentscript.Token
		toks.Each(func(_ int, v interface{}) {
			tok := v.(agentscript.Token)
			if found == nil && tok.Span().Contains(pos) {
				found = tok
			}
		})
		return found
	}
}

func reportTokenAt(retr agentscript.TokenRetriever, at int) {
	tok := retr(uint64(at))
	if tok == nil {
		pterm.Info.Println(fmt.Sprintf("no token covers position %d", at))
		return
	}
	pterm.Info.Println(fmt.Sprintf("token at %d: %s %q %v", at,
		typeName(tok.TokType()), tok.Lexeme(), tok.Span()))
}

// repl reads lines and tokenizes each one against the layout state left
// behind by its predecessors. Lines starting with ':' are commands.
func repl(opts []lexer.Option) {
	rl, err := readline.New("astok> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer rl.Close()
	var carried []byte
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := command(line, &carried); quit {
				break
			}
			continue
		}
		input := line
		if carried != nil {
			// the break in front of this line is part of the input, so
			// that the line's indentation gets measured
			input = "\n" + line
		}
		s, err := lexer.NewScanner(input, opts...)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if carried != nil {
			s.Restore(carried)
		}
		carried = tokenizeLine(s, input)
		s.Restore(carried)
		pterm.Info.Println(fmt.Sprintf("%v fp=%s", s.State(), s.State().Fingerprint()))
	}
	println("Good bye!")
}

// tokenizeLine prints the tokens of one line and returns the layout state
// to carry into the next line. The state is taken before the dedent cascade
// which the end of the input would force, since in a session the blocks are
// still open.
func tokenizeLine(s *lexer.Scanner, input string) []byte {
	end := uint64(len(input))
	for {
		snap := s.Snapshot()
		tok := s.NextToken()
		if tok.TokType() == lexer.EOF {
			return snap
		}
		if tok.TokType() == lexer.Dedent && tok.Span().From() == end {
			return snap
		}
		span := tok.Span()
		fmt.Printf(" %4d…%-4d | %-20s | %q\n", span.From(), span.To(),
			typeName(tok.TokType()), tok.Lexeme())
	}
}

// command handles REPL commands.
func command(line string, carried *[]byte) bool {
	switch strings.TrimSpace(line) {
	case ":quit":
		return true
	case ":reset":
		*carried = nil
		pterm.Info.Println("layout state reset")
	case ":state":
		st := scan.NewState()
		if *carried != nil {
			_ = st.UnmarshalBinary(*carried)
		}
		pterm.Info.Println(fmt.Sprintf("%v fp=%s", st, st.Fingerprint()))
	default:
		pterm.Info.Println("commands: :state  :reset  :quit")
	}
	return false
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
