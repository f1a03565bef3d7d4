package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/tabula/driver"
	verr "github.com/nihei9/tabula/error"
	"github.com/nihei9/tabula/grammar"
	"github.com/nihei9/tabula/spec"
)

func readGrammar(path string) (gram *grammar.Grammar, retErr error) {
	defer func() {
		var specErrs verr.SpecErrors
		if errors.As(retErr, &specErrs) {
			specErrs.SetSource(path, path)
			return
		}
		var specErr *verr.SpecError
		if errors.As(retErr, &specErr) {
			verr.SpecErrors{specErr}.SetSource(path, path)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}

// grammarName returns the file name of a grammar without its extension.
func grammarName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readTokens reads a token file, or stdin when the path is empty.
func readTokens(path string) ([]driver.VToken, error) {
	src := os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("Cannot open the token file %s: %w", path, err)
		}
		defer f.Close()
		src = f
	}

	ts, err := driver.NewTokenStream(src)
	if err != nil {
		return nil, err
	}
	toks, err := driver.ReadTokens(ts)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("%v: %w", path, err)
		}
		return nil, err
	}
	return toks, nil
}

// runParser runs the engine an analysis calls for on a token sequence.
func runParser(a *grammar.Analysis, toks []driver.VToken, opts ...driver.ParserOption) (*driver.Result, error) {
	ts, err := driver.NewReplayTokenStream(toks)
	if err != nil {
		return nil, err
	}
	p, err := driver.NewParser(a, ts, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// conflictText renders a conflict. An LL conflict is named by its kind, like
// `First/Follow conflict on a for x: a -> x/a -> #`.
func conflictText(class grammar.Class, c *grammar.Conflict) string {
	if class != grammar.ClassLL1 {
		return c.String()
	}
	kind := "First/First"
	if grammar.ClassifyLLConflict(c) == "first/follow" {
		kind = "First/Follow"
	}
	return fmt.Sprintf("%v conflict on %v for %v: %v/%v", kind, c.Row, c.Column, c.First, c.Second)
}
