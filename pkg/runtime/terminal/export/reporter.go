package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/services/format"
)

type TableConfig struct {
	RankWidth  int
	LabelWidth int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		RankWidth:  4,
		LabelWidth: 48,
		ValueWidth: 16,
	}
}

// Reporter renders report results and comparisons as formatted console text.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type reportView struct {
	Title  string
	Range  string
	Rows   int
	Ranked []domain.RankedList
	NoData string
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(rank, label, value string) string {
			return fmt.Sprintf("| %-*s | %-*s | %*s |",
				c.config.RankWidth, rank,
				c.config.LabelWidth, truncate(label, c.config.LabelWidth),
				c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.RankWidth+2),
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
		"itoa": func(n int) string { return fmt.Sprintf("%d", n) },
	}
}

const reportTmpl = `
{{.Title}}
{{if .Range}}Period: {{.Range}}
{{end}}{{if .NoData}}{{.NoData}}
{{else}}Rows: {{.Rows}}
{{range .Ranked}}
=== Top {{len .Entries}} by {{.Title}} ===
{{separator}}
{{formatRow "#" "Name" "Value"}}
{{separator}}
{{range .Entries}}{{formatRow (itoa .Rank) .Label .Formatted}}
{{end}}{{separator}}
{{end}}{{end}}`

// Handle renders one report run: the period, row count, and every top-N
// list the report kind defines.
func (c *Reporter) Handle(title string, res domain.ReportResult, ranked []domain.RankedList) error {
	view := reportView{
		Title:  title,
		Rows:   len(res.Rows),
		Ranked: ranked,
	}
	if !res.Range.Start.IsZero() {
		view.Range = res.Range.String()
	}
	if res.Empty() {
		view.NoData = format.NoData
	}

	t, err := template.New("report").Funcs(c.funcMap()).Parse(reportTmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, view)
}

// HandleComparison renders both sides of a comparison back to back,
// followed by the combined summary and any warnings.
func (c *Reporter) HandleComparison(cmp domain.Comparison) error {
	sides := []struct {
		name string
		side domain.ComparisonSide
	}{
		{"First period", cmp.First},
		{"Second period", cmp.Second},
	}
	for _, s := range sides {
		if s.side.Failure != "" {
			if _, err := fmt.Fprintf(c.writer, "\n%s (%s): %s\n", s.name, s.side.Range, s.side.Failure); err != nil {
				return err
			}
			continue
		}
		title := fmt.Sprintf("%s: %s", s.name, cmp.Report)
		if err := c.Handle(title, s.side.Result, s.side.Ranked); err != nil {
			return err
		}
		if s.side.Summary != "" {
			if _, err := fmt.Fprintf(c.writer, "\n%s\n", s.side.Summary); err != nil {
				return err
			}
		}
	}
	if cmp.Summary != "" {
		if _, err := fmt.Fprintf(c.writer, "\n=== Summary ===\n%s\n", cmp.Summary); err != nil {
			return err
		}
	}
	for _, w := range cmp.Warnings {
		if _, err := fmt.Fprintf(c.writer, "warning: %s\n", w); err != nil {
			return err
		}
	}
	return nil
}

// Selections renders the saved date ranges in selection order.
func (c *Reporter) Selections(sels []domain.SavedSelection) error {
	if len(sels) == 0 {
		_, err := fmt.Fprintln(c.writer, "no saved date selections")
		return err
	}
	for i, s := range sels {
		if _, err := fmt.Fprintf(c.writer, "%d. %s\n", i+1, s.Label()); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
