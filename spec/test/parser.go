package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/nihei9/tabula/spec"
)

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

type Tree struct {
	Parent   *Tree
	Offset   int
	Kind     string
	Children []*Tree
}

func NewTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Kind)
}

func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	buf.WriteString("(")
	buf.WriteString(kindText(t.Kind))
	if len(t.Children) > 0 {
		buf.WriteString("\n")
		for i, c := range t.Children {
			c.format(buf, depth+1)
			if i < len(t.Children)-1 {
				buf.WriteString("\n")
			}
		}
	}
	buf.WriteString(")")
}

// kindText quotes a kind that cannot be written as a bare word.
func kindText(kind string) string {
	if strings.ContainsAny(kind, "() \t\"") {
		return fmt.Sprintf(`"%v"`, kind)
	}
	return kind
}

func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	// _ matches any symbols.
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

type Verdict string

const (
	VerdictAccept = Verdict("accept")
	VerdictReject = Verdict("reject")
)

// TestCase is a token sequence and what a parser must do with it. Output is set only when the expected
// part is a tree; a tree implies VerdictAccept.
type TestCase struct {
	Description string
	Source      []byte
	Verdict     Verdict
	Output      *Tree
}

// ParseTestCase reads a test case. A test case consists of three parts separated by lines of at least
// three hyphens: a description, a token sequence, and either `accept`, `reject`, or an expected tree.
//
//	nested
//	---
//	a c b
//	---
//	(s (a) (s (c)) (b))
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	tc := &TestCase{
		Description: string(parts[0].buf),
		Source:      parts[1].buf,
	}
	switch v := Verdict(strings.TrimSpace(string(parts[2].buf))); v {
	case VerdictAccept, VerdictReject:
		tc.Verdict = v
		return tc, nil
	}

	tp := &treeParser{
		lineOffset: parts[0].lineCount + parts[1].lineCount + 2,
	}
	tree, err := tp.parseTree(bytes.NewReader(parts[2].buf))
	if err != nil {
		return nil, err
	}
	tc.Verdict = VerdictAccept
	tc.Output = tree
	return tc, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	_, err := buf.Write(line)
	if err != nil {
		return nil, 0, err
	}
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		_, err := buf.Write([]byte("\n"))
		if err != nil {
			return nil, 0, err
		}
		_, err = buf.Write(line)
		if err != nil {
			return nil, 0, err
		}
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}

var treeLexSpecEntries = []*mlspec.LexEntry{
	{Kind: "white_space", Pattern: `[\u{0009}\u{0020}]+`},
	{Kind: "newline", Pattern: `\u{000A}|\u{000D}\u{000A}|\u{000D}`},
	{Kind: "l_paren", Pattern: `\(`},
	{Kind: "r_paren", Pattern: `\)`},
	{Kind: "quoted_kind", Pattern: `"[^"\u{000A}\u{000D}]+"`},
	{Kind: "kind", Pattern: `[^"()\u{0009}\u{000A}\u{000D}\u{0020}]+`},
}

var (
	treeLexSpecOnce sync.Once
	treeLexSpec     *mlspec.CompiledLexSpec
	treeLexSpecErr  error
)

func compiledTreeLexSpec() (*mlspec.CompiledLexSpec, error) {
	treeLexSpecOnce.Do(func() {
		treeLexSpec, treeLexSpecErr = spec.CompileLexSpec("tabula_tree", treeLexSpecEntries)
	})
	return treeLexSpec, treeLexSpecErr
}

type treeToken struct {
	kind string
	text string
	row  int
	col  int
}

type treeParser struct {
	lineOffset int
	s          *mlspec.CompiledLexSpec
	lex        *mldriver.Lexer
	peeked     *treeToken
}

func (tp *treeParser) parseTree(src io.Reader) (*Tree, error) {
	s, err := compiledTreeLexSpec()
	if err != nil {
		return nil, err
	}
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	tp.s = s
	tp.lex = lex

	t, err := tp.parseNode()
	if err != nil {
		return nil, err
	}
	tok, err := tp.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != "" {
		return nil, tp.errorf(tok, "unexpected token after a tree: %v", tok.text)
	}
	return t.Fill(), nil
}

func (tp *treeParser) parseNode() (*Tree, error) {
	tok, err := tp.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != "l_paren" {
		return nil, tp.errorf(tok, "a tree must start with '('")
	}

	tok, err = tp.next()
	if err != nil {
		return nil, err
	}
	var kind string
	switch tok.kind {
	case "kind":
		kind = tok.text
	case "quoted_kind":
		kind = tok.text[1 : len(tok.text)-1]
	default:
		return nil, tp.errorf(tok, "a tree needs a kind name")
	}

	var children []*Tree
	for {
		tok, err := tp.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == "r_paren" {
			tp.peeked = nil
			break
		}
		if tok.kind != "l_paren" {
			return nil, tp.errorf(tok, "unexpected token in a tree: %v", tok.text)
		}
		c, err := tp.parseNode()
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}

	return NewTree(kind, children...), nil
}

func (tp *treeParser) peek() (*treeToken, error) {
	if tp.peeked != nil {
		return tp.peeked, nil
	}
	tok, err := tp.next()
	if err != nil {
		return nil, err
	}
	tp.peeked = tok
	return tok, nil
}

// next returns the next token. The EOF token has an empty kind.
func (tp *treeParser) next() (*treeToken, error) {
	if tp.peeked != nil {
		tok := tp.peeked
		tp.peeked = nil
		return tok, nil
	}
	for {
		tok, err := tp.lex.Next()
		if err != nil {
			return nil, err
		}
		t := &treeToken{
			text: string(tok.Lexeme),
			row:  tok.Row,
			col:  tok.Col,
		}
		if tok.EOF {
			return t, nil
		}
		if tok.Invalid {
			return nil, tp.errorf(t, "invalid token: %q", t.text)
		}
		t.kind = string(tp.s.KindNames[tok.KindID])
		if t.kind == "white_space" || t.kind == "newline" {
			continue
		}
		return t, nil
	}
}

func (tp *treeParser) errorf(tok *treeToken, format string, a ...interface{}) error {
	return fmt.Errorf("%v:%v: %v", tp.lineOffset+tok.row+1, tok.col+1, fmt.Sprintf(format, a...))
}
