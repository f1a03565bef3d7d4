package symbol

import "testing"

func TestSymbol(t *testing.T) {
	tab := NewSymbolTable()
	w := tab.Writer()
	_, _ = w.RegisterStartSymbol("<start>'")
	_, _ = w.RegisterNonTerminalSymbol("expr")
	_, _ = w.RegisterNonTerminalSymbol("term")
	_, _ = w.RegisterNonTerminalSymbol("factor")
	_, _ = w.RegisterTerminalSymbol("id")
	_, _ = w.RegisterTerminalSymbol("+")
	_, _ = w.RegisterTerminalSymbol("*")
	_, _ = w.RegisterTerminalSymbol("(")
	_, _ = w.RegisterTerminalSymbol(")")

	tests := []struct {
		text          string
		isStart       bool
		isEOF         bool
		isNonTerminal bool
		isTerminal    bool
	}{
		{
			text:          "<start>'",
			isStart:       true,
			isNonTerminal: true,
		},
		{
			text:          "expr",
			isNonTerminal: true,
		},
		{
			text:          "factor",
			isNonTerminal: true,
		},
		{
			text:       "id",
			isTerminal: true,
		},
		{
			text:       ")",
			isTerminal: true,
		},
		{
			text:       EOFText,
			isEOF:      true,
			isTerminal: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r := tab.Reader()
			sym, ok := r.ToSymbol(tt.text)
			if !ok {
				t.Fatalf("symbol was not found")
			}
			testSymbolProperty(t, sym, tt.isStart, tt.isEOF, tt.isNonTerminal, tt.isTerminal)
			text, ok := r.ToText(sym)
			if !ok {
				t.Fatalf("text was not found")
			}
			if text != tt.text {
				t.Fatalf("unexpected text representation; want: %v, got: %v", tt.text, text)
			}
		})
	}

	t.Run("EOF", func(t *testing.T) {
		testSymbolProperty(t, SymbolEOF, false, true, false, true)
	})

	t.Run("Nil", func(t *testing.T) {
		testSymbolProperty(t, SymbolNil, false, false, false, false)
	})

	t.Run("the end marker comes last in the terminal columns", func(t *testing.T) {
		r := tab.Reader()
		texts := r.TerminalTexts()
		expected := []string{"id", "+", "*", "(", ")", EOFText}
		if len(texts) != len(expected) {
			t.Fatalf("unexpected terminal count; want: %v, got: %v", expected, texts)
		}
		for i, text := range expected {
			if texts[i] != text {
				t.Fatalf("unexpected terminal; want: %v, got: %v", text, texts[i])
			}
		}

		syms := r.TerminalSymbols()
		if len(syms) != len(expected) {
			t.Fatalf("unexpected terminal count; want: %v, got: %v", len(expected), len(syms))
		}
		if !syms[len(syms)-1].IsEOF() {
			t.Fatalf("the last terminal must be EOF; got: %v", syms[len(syms)-1])
		}
	})

	t.Run("non-terminals keep their first-appearance order", func(t *testing.T) {
		r := tab.Reader()
		texts, err := r.NonTerminalTexts()
		if err != nil {
			t.Fatal(err)
		}
		expected := []string{"<start>'", "expr", "term", "factor"}
		for i, text := range expected {
			if texts[i] != text {
				t.Fatalf("unexpected non-terminal; want: %v, got: %v", text, texts[i])
			}
		}
		syms := r.NonTerminalSymbols()
		if !syms[0].IsStart() {
			t.Fatalf("the first non-terminal must be the start symbol; got: %v", syms[0])
		}
	})
}

func TestSymbolTableWriter_reservedSpellings(t *testing.T) {
	tests := []struct {
		caption  string
		register func(w *SymbolTableWriter) error
	}{
		{
			caption: "the end marker cannot be a terminal",
			register: func(w *SymbolTableWriter) error {
				_, err := w.RegisterTerminalSymbol(EOFText)
				return err
			},
		},
		{
			caption: "the epsilon marker cannot be a terminal",
			register: func(w *SymbolTableWriter) error {
				_, err := w.RegisterTerminalSymbol(EpsilonText)
				return err
			},
		},
		{
			caption: "a non-terminal name cannot be reused as a terminal",
			register: func(w *SymbolTableWriter) error {
				_, err := w.RegisterNonTerminalSymbol("a")
				if err != nil {
					return nil
				}
				_, err = w.RegisterTerminalSymbol("a")
				return err
			},
		},
		{
			caption: "a terminal spelling cannot be reused as a non-terminal",
			register: func(w *SymbolTableWriter) error {
				_, err := w.RegisterTerminalSymbol("a")
				if err != nil {
					return nil
				}
				_, err = w.RegisterNonTerminalSymbol("a")
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			w := NewSymbolTable().Writer()
			err := tt.register(w)
			if err == nil {
				t.Fatalf("an error must occur")
			}
		})
	}
}

func testSymbolProperty(t *testing.T, sym Symbol, isStart, isEOF, isNonTerminal, isTerminal bool) {
	t.Helper()

	if v := sym.IsStart(); v != isStart {
		t.Fatalf("isStart property is mismatched; want: %v, got: %v", isStart, v)
	}
	if v := sym.IsEOF(); v != isEOF {
		t.Fatalf("isEOF property is mismatched; want: %v, got: %v", isEOF, v)
	}
	if v := sym.IsNonTerminal(); v != isNonTerminal {
		t.Fatalf("isNonTerminal property is mismatched; want: %v, got: %v", isNonTerminal, v)
	}
	if v := sym.IsTerminal(); v != isTerminal {
		t.Fatalf("isTerminal property is mismatched; want: %v, got: %v", isTerminal, v)
	}
}
