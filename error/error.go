package error

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	sorted := make([]*SpecError, len(e))
	copy(sorted, e)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Row == sorted[j].Row {
			return sorted[i].Col < sorted[j].Col
		}
		return sorted[i].Row < sorted[j].Row
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%v", sorted[0])
	for _, err := range sorted[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}

	return b.String()
}

// SetSource fills in the source information of every error that doesn't have its own.
func (e SpecErrors) SetSource(filePath, sourceName string) {
	for _, err := range e {
		if err.FilePath == "" {
			err.FilePath = filePath
		}
		if err.SourceName == "" {
			err.SourceName = sourceName
		}
	}
}

type SpecError struct {
	Cause      error
	Detail     string
	FilePath   string
	SourceName string
	Row        int
	Col        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 && e.Col != 0 {
		fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
	} else if e.Row != 0 {
		fmt.Fprintf(&b, "%v: ", e.Row)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	line := readLine(e.FilePath, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
