package driver

import (
	"fmt"
	"io"
	"sync"

	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/nihei9/tabula/grammar/symbol"
	"github.com/nihei9/tabula/spec"
)

type VToken interface {
	// TerminalText returns the spelling of the terminal the token stands for. An EOF token returns `$`.
	TerminalText() string

	EOF() bool

	// Position returns a 1-based row and column. A token that didn't come from a source returns its
	// index in the input as the column.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	text string
	eof  bool
	row  int
	col  int
}

func newEOFToken(row, col int) *vToken {
	return &vToken{
		text: symbol.EOFText,
		eof:  true,
		row:  row,
		col:  col,
	}
}

func (t *vToken) TerminalText() string {
	return t.text
}

func (t *vToken) EOF() bool {
	return t.eof
}

func (t *vToken) Position() (int, int) {
	return t.row, t.col
}

func (t *vToken) String() string {
	return fmt.Sprintf("%v (%v:%v)", t.text, t.row, t.col)
}

// A token file lists terminal spellings separated by white spaces or newlines. A spelling containing
// white spaces is written in double quotes.
//
//	// a s b
//	a c b
//	"a terminal with spaces"
var tokenLexSpecEntries = []*mlspec.LexEntry{
	{Kind: "white_space", Pattern: `[\u{0009}\u{0020}]+`},
	{Kind: "newline", Pattern: `\u{000A}|\u{000D}\u{000A}|\u{000D}`},
	{Kind: "line_comment", Pattern: `//[^\u{000A}\u{000D}]*`},
	{Kind: "quoted_token", Pattern: `"[^"\u{000A}\u{000D}]+"`},
	{Kind: "token", Pattern: `[^"\u{0009}\u{000A}\u{000D}\u{0020}]+`},
}

var (
	tokenLexSpecOnce sync.Once
	tokenLexSpec     *mlspec.CompiledLexSpec
	tokenLexSpecErr  error
)

func compiledTokenLexSpec() (*mlspec.CompiledLexSpec, error) {
	tokenLexSpecOnce.Do(func() {
		tokenLexSpec, tokenLexSpecErr = spec.CompileLexSpec("tabula_tokens", tokenLexSpecEntries)
	})
	return tokenLexSpec, tokenLexSpecErr
}

type tokenStream struct {
	s   *mlspec.CompiledLexSpec
	lex *mldriver.Lexer
	eof *vToken
}

// NewTokenStream returns a stream that reads terminal spellings from a token file.
func NewTokenStream(src io.Reader) (TokenStream, error) {
	s, err := compiledTokenLexSpec()
	if err != nil {
		return nil, err
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		s:   s,
		lex: lex,
	}, nil
}

func (l *tokenStream) Next() (VToken, error) {
	if l.eof != nil {
		return l.eof, nil
	}

	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}
		row, col := tok.Row+1, tok.Col+1
		if tok.EOF {
			l.eof = newEOFToken(row, col)
			return l.eof, nil
		}
		if tok.Invalid {
			return nil, fmt.Errorf("%v:%v: invalid token: %q", row, col, tok.Lexeme)
		}

		text := string(tok.Lexeme)
		switch l.s.KindNames[tok.KindID] {
		case "white_space", "newline", "line_comment":
			continue
		case "quoted_token":
			text = text[1 : len(text)-1]
		}
		if text == symbol.EOFText {
			return nil, fmt.Errorf("%v:%v: the end marker cannot appear in a token file", row, col)
		}

		return &vToken{
			text: text,
			row:  row,
			col:  col,
		}, nil
	}
}

type sliceTokenStream struct {
	texts []string
	pos   int
}

// NewSliceTokenStream returns a stream over terminal spellings held in memory. The column of a token is
// its 1-based index.
func NewSliceTokenStream(texts []string) TokenStream {
	return &sliceTokenStream{
		texts: texts,
	}
}

func (s *sliceTokenStream) Next() (VToken, error) {
	if s.pos >= len(s.texts) {
		return newEOFToken(1, len(s.texts)+1), nil
	}
	text := s.texts[s.pos]
	s.pos++
	if text == symbol.EOFText {
		return nil, fmt.Errorf("the end marker cannot appear in a token sequence; index: %v", s.pos-1)
	}
	return &vToken{
		text: text,
		row:  1,
		col:  s.pos,
	}, nil
}

// ReadTokens reads a stream to its end. The last token is the EOF token.
func ReadTokens(ts TokenStream) ([]VToken, error) {
	var toks []VToken
	for {
		tok, err := ts.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.EOF() {
			return toks, nil
		}
	}
}

type replayTokenStream struct {
	toks []VToken
	pos  int
}

// NewReplayTokenStream returns a stream over tokens read by ReadTokens, so that several parsers can run
// on the same input. The stream must end with the EOF token.
func NewReplayTokenStream(toks []VToken) (TokenStream, error) {
	if len(toks) == 0 || !toks[len(toks)-1].EOF() {
		return nil, fmt.Errorf("a token sequence must end with the EOF token")
	}
	return &replayTokenStream{
		toks: toks,
	}, nil
}

func (s *replayTokenStream) Next() (VToken, error) {
	tok := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return tok, nil
}
