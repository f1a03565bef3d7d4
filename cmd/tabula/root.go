package main

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	logLevel *string
}{}

var rootCmd = &cobra.Command{
	Use:   "tabula",
	Short: "Analyze a context-free grammar with LL(1) and LR parsing methods",
	Long: `tabula provides the following features:
- Computes FIRST/FOLLOW sets, LR(0)/LR(1) automata, and LL(1), LR(0), SLR(1), and LR(1) tables
  from a grammar, and reports every conflict.
- Parses a token sequence with a predictive parser or a shift-reduce parser.
- Prints a report in a readable format.
- Tests a grammar against expected verdicts and syntax trees.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

// traceKeys are the tracers the log level applies to.
var traceKeys = []string{
	"tabula.grammar",
	"tabula.driver",
}

func init() {
	rootFlags.logLevel = rootCmd.PersistentFlags().String("log-level", "Error", "trace level [Debug|Info|Error]")
}

func setUp(cmd *cobra.Command, args []string) error {
	initDisplay()
	level := tracing.TraceLevelFromString(*rootFlags.logLevel)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "ACCEPT",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	pterm.Warning.Prefix = pterm.Prefix{
		Text:  "CONFLICT",
		Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack),
	}
}

func Execute() error {
	return rootCmd.Execute()
}
