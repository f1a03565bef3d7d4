package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	spec "github.com/nihei9/tabula/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	sectionSets     = "sets"
	sectionAutomata = "automata"
	sectionTables   = "tables"
	sectionAll      = "all"
)

var showFlags = struct {
	section *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show <report file path>",
		Short:   "Print a report in a readable format",
		Example: `  tabula show report.json --section tables`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.section = cmd.Flags().StringP("section", "s", sectionAll, "section to print [sets|automata|tables|all]")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	switch *showFlags.section {
	case sectionSets, sectionAutomata, sectionTables, sectionAll:
	default:
		return fmt.Errorf("invalid section: %v", *showFlags.section)
	}

	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, report, *showFlags.section)
}

func readReport(path string) (*spec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

const setsTemplate = `# Productions

{{ range .Productions -}}
{{ printf "%4v" .Number }} {{ .Text }}
{{ end }}
# FIRST

{{ range .First -}}
{{ printSet . }}
{{ end }}
# FOLLOW

{{ range .Follow -}}
{{ printSet . }}
{{ end }}
`

const automataTemplate = `{{ range .Automata -}}
# {{ automatonTitle .Kind }} automaton
{{ range .States }}
State {{ printf "%03d" .Number }} {
{{ range .Items -}}
    {{ printItem . }}
{{ end -}}
{{ range .Transitions -}}
    on {{ .Symbol }} goto {{ .State }}
{{ end -}}
}
{{ end }}
{{ end -}}
`

func writeReport(w io.Writer, report *spec.Report, section string) error {
	fns := template.FuncMap{
		"printSet": func(set *spec.SymbolSet) string {
			syms := append([]string{}, set.Symbols...)
			if set.Empty {
				syms = append(syms, "#")
			}
			return fmt.Sprintf("%v: {%v}", set.Symbol, strings.Join(syms, ", "))
		},
		"printItem": func(item *spec.Item) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v", item.Text)
			if len(item.LookAhead) > 0 {
				fmt.Fprintf(&b, ", %v", strings.Join(item.LookAhead, "/"))
			}
			if item.Kernel {
				fmt.Fprintf(&b, " (kernel)")
			}
			return b.String()
		},
		"automatonTitle": func(kind string) string {
			switch kind {
			case "lr0":
				return "LR(0)"
			case "lr1":
				return "LR(1)"
			}
			return kind
		},
	}

	var tmpls []string
	if section == sectionSets || section == sectionAll {
		tmpls = append(tmpls, setsTemplate)
	}
	if section == sectionAutomata || section == sectionAll {
		tmpls = append(tmpls, automataTemplate)
	}
	for _, src := range tmpls {
		tmpl, err := template.New("").Funcs(fns).Parse(src)
		if err != nil {
			return err
		}
		err = tmpl.Execute(w, report)
		if err != nil {
			return err
		}
	}

	if section == sectionTables || section == sectionAll {
		for _, a := range report.Analyses {
			err := writeTable(w, a)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func writeTable(w io.Writer, a *spec.Analysis) error {
	fmt.Fprintf(w, "# %v table\n\n", a.Title)
	if a.Table == nil {
		fmt.Fprintf(w, "The grammar is not parsable with %v\n", a.Title)
		for _, c := range a.Conflicts {
			fmt.Fprintf(w, "%v conflict at %v on %v: %v/%v\n", c.Kind, c.Row, c.Column, c.First, c.Second)
		}
		fmt.Fprintf(w, "\n")
		return nil
	}

	header := append([]string{""}, a.Table.Columns...)
	data := pterm.TableData{header}
	for _, row := range a.Table.Rows {
		data = append(data, append([]string{row.Label}, row.Cells...))
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n\n", s)
	return nil
}
