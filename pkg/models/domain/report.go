package domain

// ReportRow is one warehouse record keyed by column name. Values are opaque
// beyond the handful of types database/sql hands back (string, float64,
// int64, bool, time.Time).
type ReportRow map[string]any

// ReportResult is the tabular output of executing one report kind's query
// for one date range. Rows preserve warehouse order.
type ReportResult struct {
	Report  string
	Range   DateRange
	Columns []string
	Rows    []ReportRow
}

func (r ReportResult) Empty() bool {
	return len(r.Rows) == 0
}

func (r ReportResult) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ValueKind controls how a ranking column is rendered.
type ValueKind string

const (
	ValueCurrency ValueKind = "currency" // $X.XX
	ValueCount    ValueKind = "count"    // plain integer
)

// Ranking names the numeric column a top-N list is sorted by and how its
// values are rendered.
type Ranking struct {
	Column string
	Kind   ValueKind
	Title  string // heading metric name, e.g. "Total Sales"
	Suffix string // trailing unit text, e.g. "in sales", "transactions"
	// OmitZero drops rows whose ranking value is not positive instead of
	// padding the list with them (aged-inventory counts).
	OmitZero bool
}

// RankedEntry is one line of a top-N list, 1-indexed.
type RankedEntry struct {
	Rank  int
	Label string
	Value float64
	// Formatted is Value rendered per the ranking's kind.
	Formatted string
}

// RankedList is the rendering-agnostic payload behind the dashboard's
// "Top N by X" panels.
type RankedList struct {
	Title   string
	Column  string
	Entries []RankedEntry
}

// ChartSpec describes a chart without committing to any plotting library:
// one category axis, one value axis, one series.
type ChartSpec struct {
	Title        string
	CategoryAxis string
	ValueAxis    string
	SeriesLabel  string
	Categories   []string
	Values       []float64
}

// ComparisonSide holds one half of a two-period comparison. Failure carries
// a taxonomy-classified message when this side's query failed while the
// other succeeded.
type ComparisonSide struct {
	Range   DateRange
	Result  ReportResult
	Ranked  []RankedList
	Summary string
	Failure string
}

// Comparison pairs two report runs in the order the operator selected them.
// Warnings carry soft failures (summarizer unavailable, one side failed)
// that do not prevent rendering.
type Comparison struct {
	Report   string
	First    ComparisonSide
	Second   ComparisonSide
	Summary  string
	Warnings []string
}
