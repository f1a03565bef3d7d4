package main

import (
	"fmt"
	"os"

	"github.com/nihei9/tabula/driver"
	"github.com/nihei9/tabula/grammar"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	class  *string
	tokens *string
	trace  *bool
	cst    *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse a token sequence with one parsing method",
		Example: `  cat tokens.txt | tabula parse grammar.tabula -c lr1
  tabula parse grammar.tabula -c ll1 -t tokens.txt --trace`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.class = cmd.Flags().StringP("class", "c", grammar.ClassLR1.String(), "parsing method [ll1|lr0|slr1|lr1]")
	parseFlags.tokens = cmd.Flags().StringP("tokens", "t", "", "token file path (default stdin)")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "print the stacks on every step")
	parseFlags.cst = cmd.Flags().Bool("cst", false, "print a CST when the input is accepted")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	class, err := grammar.ParseClass(*parseFlags.class)
	if err != nil {
		return err
	}

	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	a, err := genAnalysis(gram, class)
	if err != nil {
		return err
	}
	if !a.Parsable() {
		fmt.Fprintf(os.Stderr, "The grammar is not parsable with %v\n", class.Title())
		for _, c := range a.Conflicts {
			fmt.Fprintf(os.Stderr, "%v\n", conflictText(class, c))
		}
		return fmt.Errorf("%v conflicts", len(a.Conflicts))
	}

	toks, err := readTokens(*parseFlags.tokens)
	if err != nil {
		return err
	}

	var opts []driver.ParserOption
	if *parseFlags.trace {
		opts = append(opts, driver.Trace(os.Stdout))
	}
	if *parseFlags.cst {
		opts = append(opts, driver.MakeCST())
	}
	res, err := runParser(a, toks, opts...)
	if err != nil {
		return err
	}
	if !res.Accepted {
		row, col := res.Token.Position()
		return fmt.Errorf("%v:%v: %v", row, col, res.Message)
	}

	fmt.Fprintf(os.Stdout, "accept\n")
	if res.Tree != nil {
		driver.PrintTree(os.Stdout, res.Tree)
	}

	return nil
}

// genAnalysis builds only the table a parsing method needs.
func genAnalysis(gram *grammar.Grammar, class grammar.Class) (*grammar.Analysis, error) {
	a := &grammar.Analysis{
		Class: class,
	}
	var err error
	switch class {
	case grammar.ClassLL1:
		a.LLTable, a.Conflicts, err = grammar.GenLLTable(gram)
		return a, err
	case grammar.ClassLR1:
		var automaton *grammar.Automaton
		automaton, err = grammar.GenLR1Automaton(gram)
		if err != nil {
			return nil, err
		}
		a.LRTable, a.Conflicts, err = grammar.GenLRTable(automaton, class)
		return a, err
	default:
		var automaton *grammar.Automaton
		automaton, err = grammar.GenLR0Automaton(gram)
		if err != nil {
			return nil, err
		}
		a.LRTable, a.Conflicts, err = grammar.GenLRTable(automaton, class)
		return a, err
	}
}
