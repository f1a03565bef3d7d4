package tester

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/tabula/driver"
	"github.com/nihei9/tabula/grammar"
	tspec "github.com/nihei9/tabula/spec/test"
)

type TestResult struct {
	TestCasePath string
	Class        grammar.Class
	Error        error
	Diffs        []*tspec.TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v (%v):\n%v%v", r.TestCasePath, r.Class.Title(), indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v (%v)", r.TestCasePath, r.Class.Title())
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

// Tester runs every test case on every analysis. An analysis with conflicts has no table to run, so its
// results report the conflicts.
type Tester struct {
	Analyses []*grammar.Analysis
	Cases    []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		for _, a := range t.Analyses {
			rs = append(rs, runTest(a, c))
		}
	}
	return rs
}

func runTest(a *grammar.Analysis, c *TestCaseWithMetadata) *TestResult {
	if !a.Parsable() {
		return &TestResult{
			TestCasePath: c.FilePath,
			Class:        a.Class,
			Error:        fmt.Errorf("the grammar is not parsable: %v conflicts found", len(a.Conflicts)),
		}
	}

	var p driver.Parser
	{
		toks, err := driver.NewTokenStream(bytes.NewReader(c.TestCase.Source))
		if err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Class:        a.Class,
				Error:        err,
			}
		}
		p, err = driver.NewParser(a, toks, driver.MakeCST())
		if err != nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Class:        a.Class,
				Error:        err,
			}
		}
	}

	res, err := p.Parse()
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Class:        a.Class,
			Error:        err,
		}
	}

	switch c.TestCase.Verdict {
	case tspec.VerdictReject:
		if res.Accepted {
			return &TestResult{
				TestCasePath: c.FilePath,
				Class:        a.Class,
				Error:        fmt.Errorf("the input was accepted, but a rejection was expected"),
			}
		}
		return &TestResult{
			TestCasePath: c.FilePath,
			Class:        a.Class,
		}
	}

	if !res.Accepted {
		row, col := res.Token.Position()
		return &TestResult{
			TestCasePath: c.FilePath,
			Class:        a.Class,
			Error:        fmt.Errorf("the input was rejected: %v:%v: %v", row, col, res.Message),
		}
	}
	if c.TestCase.Output == nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Class:        a.Class,
		}
	}

	diffs := tspec.DiffTree(c.TestCase.Output, genTree(res.Tree).Fill())
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Class:        a.Class,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
		Class:        a.Class,
	}
}

func genTree(dTree *driver.Node) *tspec.Tree {
	var children []*tspec.Tree
	if len(dTree.Children) > 0 {
		children = make([]*tspec.Tree, len(dTree.Children))
		for i, c := range dTree.Children {
			children[i] = genTree(c)
		}
	}
	return tspec.NewTree(dTree.KindName, children...)
}
