package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/tabula/grammar"
	"github.com/nihei9/tabula/tester"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	class *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "test <grammar file path> <test file path>|<test directory path>",
		Short: "Test a grammar",
		Example: `  tabula test grammar.tabula test
  tabula test grammar.tabula test -c ll1`,
		Args: cobra.ExactArgs(2),
		RunE: runTest,
	}
	testFlags.class = cmd.Flags().StringP("class", "c", "", "parsing method [ll1|lr0|slr1|lr1] (default all methods the grammar is parsable with)")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	g, err := readGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}

	var as []*grammar.Analysis
	if *testFlags.class != "" {
		class, err := grammar.ParseClass(*testFlags.class)
		if err != nil {
			return err
		}
		a, err := genAnalysis(g, class)
		if err != nil {
			return err
		}
		as = append(as, a)
	} else {
		all, err := grammar.GenTables(g)
		if err != nil {
			return err
		}
		for _, a := range all.Analyses {
			if a.Parsable() {
				as = append(as, a)
			}
		}
		if len(as) == 0 {
			return errors.New("The grammar is not parsable with any parsing method")
		}
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Analyses: as,
		Cases:    cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
