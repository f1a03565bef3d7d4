package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/tabula/driver"
	"github.com/nihei9/tabula/grammar"
	spec "github.com/nihei9/tabula/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var analyzeFlags = struct {
	tokens *string
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "analyze <grammar file path>",
		Short: "Analyze a grammar with every parsing method and parse a token sequence",
		Example: `  tabula analyze grammar.tabula
  tabula analyze grammar.tabula -t tokens.txt -o report.json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}
	analyzeFlags.tokens = cmd.Flags().StringP("tokens", "t", "", "token file path; when omitted, no parse is attempted")
	analyzeFlags.output = cmd.Flags().StringP("output", "o", "", "report file path")
	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	var toks []driver.VToken
	if *analyzeFlags.tokens != "" {
		toks, err = readTokens(*analyzeFlags.tokens)
		if err != nil {
			return err
		}
	}

	as, err := grammar.GenTables(gram)
	if err != nil {
		return err
	}
	report, err := grammar.GenReport(grammarName(args[0]), as)
	if err != nil {
		return err
	}

	for i, a := range as.Analyses {
		res, err := writeAnalysis(os.Stdout, a, toks)
		if err != nil {
			return err
		}
		report.Analyses[i].Parse = res
	}

	if *analyzeFlags.output != "" {
		err := writeReportFile(*analyzeFlags.output, report)
		if err != nil {
			return fmt.Errorf("Cannot write the report: %w", err)
		}
	}

	return nil
}

// writeAnalysis prints the outcome of one parsing method. Each method is independent of the others: a
// method with conflicts reports them and never runs its parser.
func writeAnalysis(w io.Writer, a *grammar.Analysis, toks []driver.VToken) (*spec.ParseResult, error) {
	fmt.Fprintf(w, "# %v\n\n", a.Class.Title())
	defer fmt.Fprintf(w, "\n")

	if !a.Parsable() {
		fmt.Fprintf(w, "The grammar is not parsable with %v\n", a.Class.Title())
		for _, c := range a.Conflicts {
			pterm.Warning.Println(conflictText(a.Class, c))
		}
		return nil, nil
	}

	fmt.Fprintf(w, "The grammar is parsable with %v\n", a.Class.Title())
	if toks == nil {
		return nil, nil
	}

	res, err := runParser(a, toks)
	if err != nil {
		return nil, err
	}
	return writeVerdict(res), nil
}

func writeVerdict(res *driver.Result) *spec.ParseResult {
	pr := &spec.ParseResult{
		Accepted: res.Accepted,
		Steps:    res.Steps,
	}
	if res.Accepted {
		pterm.Info.Println("accept")
		return pr
	}

	pr.Token = res.Token.TerminalText()
	pr.Row, pr.Col = res.Token.Position()
	pr.Message = res.Message
	pterm.Error.Println(fmt.Sprintf("error: %v:%v: %v", pr.Row, pr.Col, pr.Message))
	return pr
}

func writeReportFile(path string, report *spec.Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0644)
}
