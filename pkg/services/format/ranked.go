// Package format holds the pure presentation formatters: ranked top-N
// lists, markdown rendering, and chart specifications. Nothing here touches
// the warehouse or any UI type.
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/floraos/retail-insights/pkg/models/domain"
)

// MaxEntries caps every ranked list at the dashboard's top-10.
const MaxEntries = 10

// NoData is the indicator rendered in place of an empty chart or list.
const NoData = "No data available for the selected date range."

// TopN ranks a result by the given column, descending, and returns at most
// min(n, MaxEntries, len(rows)) entries, 1-indexed. A result with fewer
// rows than requested is fine; a result missing the ranking or a label
// column is a ColumnNotFoundError.
func TopN(
	res domain.ReportResult,
	ranking domain.Ranking,
	labelColumns []string,
	n int,
) (domain.RankedList, error) {
	if n < 0 || n > MaxEntries {
		n = MaxEntries
	}

	list := domain.RankedList{
		Title:  ranking.Title,
		Column: ranking.Column,
	}

	if len(res.Columns) > 0 {
		for _, col := range append([]string{ranking.Column}, labelColumns...) {
			if !res.HasColumn(col) {
				return domain.RankedList{}, &domain.ColumnNotFoundError{Report: res.Report, Column: col}
			}
		}
	}

	rows := make([]domain.ReportRow, len(res.Rows))
	copy(rows, res.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return numeric(rows[i][ranking.Column]) > numeric(rows[j][ranking.Column])
	})

	for _, row := range rows {
		if len(list.Entries) == n {
			break
		}
		value := numeric(row[ranking.Column])
		if ranking.OmitZero && value <= 0 {
			// Rows are sorted descending, so the first non-positive value
			// ends the list.
			break
		}
		list.Entries = append(list.Entries, domain.RankedEntry{
			Rank:      len(list.Entries) + 1,
			Label:     label(row, labelColumns),
			Value:     value,
			Formatted: FormatValue(value, ranking.Kind),
		})
	}
	return list, nil
}

// Render produces the plain ranked list, one "{rank}. {label} - {value}"
// line per entry.
func Render(list domain.RankedList) string {
	var b strings.Builder
	for _, e := range list.Entries {
		fmt.Fprintf(&b, "%d. %s - %s\n", e.Rank, e.Label, e.Formatted)
	}
	return b.String()
}

// Markdown renders the list the way the dashboard panels show it: heading,
// bold labels, the ranking's unit suffix. An empty list renders the no-data
// indicator instead of a bare heading.
func Markdown(list domain.RankedList, ranking domain.Ranking) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Top %d by %s\n", MaxEntries, ranking.Title)
	if len(list.Entries) == 0 {
		b.WriteString(NoData + "\n")
		return b.String()
	}
	for _, e := range list.Entries {
		fmt.Fprintf(&b, "%d. **%s** - %s", e.Rank, e.Label, e.Formatted)
		if ranking.Suffix != "" {
			b.WriteString(" " + ranking.Suffix)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatValue renders a ranking value as currency ($X.XX) or a plain count.
func FormatValue(v float64, kind domain.ValueKind) string {
	switch kind {
	case domain.ValueCurrency:
		return fmt.Sprintf("$%.2f", v)
	case domain.ValueCount:
		return fmt.Sprintf("%d", int64(v))
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func label(row domain.ReportRow, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, stringify(row[c]))
	}
	return strings.Join(parts, " - ")
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(domain.DateFormat)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func numeric(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case int:
		return float64(t)
	case string:
		// Some drivers return NUMBER columns as text.
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
