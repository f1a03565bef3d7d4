package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/tabula/error"
)

type tokenKind string

const (
	tokenKindNonTerminal = tokenKind("non-terminal")
	tokenKindTerminal    = tokenKind("terminal")
	tokenKindDerives     = tokenKind("::=")
	tokenKindOr          = tokenKind("|")
	tokenKindEpsilon     = tokenKind("#")
	tokenKindNewline     = tokenKind("newline")
	tokenKindEOF         = tokenKind("eof")
	tokenKindInvalid     = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newNonTerminalToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindNonTerminal,
		text: text,
		pos:  pos,
	}
}

func newTerminalToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindTerminal,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

// The notation is small enough that its lexical specification lives here and is compiled on first use.
//
//	<expr> ::= <expr> "+" <term> | <term>
//	<opt>  ::= "x" | #  // comment
var lexSpecEntries = []*mlspec.LexEntry{
	{Kind: "white_space", Pattern: `[\u{0009}\u{0020}]+`},
	{Kind: "newline", Pattern: `\u{000A}|\u{000D}\u{000A}|\u{000D}`},
	{Kind: "line_comment", Pattern: `//[^\u{000A}\u{000D}]*`},
	{Kind: "non_terminal", Pattern: `<[A-Za-z_][0-9A-Za-z_]*>`},
	{Kind: "terminal", Pattern: `"[^"\u{000A}\u{000D}]*"`},
	{Kind: "derives", Pattern: `::=`},
	{Kind: "or", Pattern: `\|`},
	{Kind: "epsilon", Pattern: `#`},
}

var (
	grammarLexSpecOnce sync.Once
	grammarLexSpec     *mlspec.CompiledLexSpec
	grammarLexSpecErr  error
)

func compiledGrammarLexSpec() (*mlspec.CompiledLexSpec, error) {
	grammarLexSpecOnce.Do(func() {
		grammarLexSpec, grammarLexSpecErr = CompileLexSpec("tabula_grammar", lexSpecEntries)
	})
	return grammarLexSpec, grammarLexSpecErr
}

// CompileLexSpec compiles lexical entries into a DFA-based specification maleeni's driver can run.
func CompileLexSpec(name string, entries []*mlspec.LexEntry) (*mlspec.CompiledLexSpec, error) {
	lexSpec := &mlspec.LexSpec{
		Name:    name,
		Entries: entries,
	}
	clspec, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cErr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cErr)
			}
			return nil, fmt.Errorf(b.String())
		}
		return nil, err
	}
	return clspec, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

type lexer struct {
	s   *mlspec.CompiledLexSpec
	d   *mldriver.Lexer
	buf *token
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := compiledGrammarLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

// next returns the next token. Consecutive newlines collapse into one newline token.
func (l *lexer) next() (*token, error) {
	if l.buf != nil {
		tok := l.buf
		l.buf = nil
		return tok, nil
	}

	var newline *token
	for {
		tok, err := l.lexAndSkipWSs()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenKindNewline {
			newline = tok
			continue
		}

		if newline != nil {
			l.buf = tok
			return newline, nil
		}
		return tok, nil
	}
}

func (l *lexer) lexAndSkipWSs() (*token, error) {
	var tok *mldriver.Token
	var kind mlspec.LexKindName
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		pos := newPosition(tok.Row+1, tok.Col+1)
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), pos), nil
		}
		if tok.EOF {
			return newEOFToken(pos), nil
		}
		kind = l.s.KindNames[tok.KindID]
		switch kind {
		case "white_space":
			continue
		case "line_comment":
			continue
		}

		break
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	text := string(tok.Lexeme)
	switch kind {
	case "newline":
		return newSymbolToken(tokenKindNewline, pos), nil
	case "non_terminal":
		// Remove '<' and '>' characters.
		return newNonTerminalToken(text[1:len(text)-1], pos), nil
	case "terminal":
		// Remove the double quotes.
		t := text[1 : len(text)-1]
		if t == "" {
			return nil, &verr.SpecError{
				Cause: synErrEmptyTerminal,
				Row:   pos.Row,
				Col:   pos.Col,
			}
		}
		return newTerminalToken(t, pos), nil
	case "derives":
		return newSymbolToken(tokenKindDerives, pos), nil
	case "or":
		return newSymbolToken(tokenKindOr, pos), nil
	case "epsilon":
		return newSymbolToken(tokenKindEpsilon, pos), nil
	default:
		return newInvalidToken(text, pos), nil
	}
}
