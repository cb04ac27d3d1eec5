package api

import (
	"github.com/floraos/retail-insights/pkg/models/domain"
)

// DateRange mirrors domain.DateRange on the wire as YYYY-MM-DD strings.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func DateRangeFromDomain(r domain.DateRange) DateRange {
	return DateRange{
		Start: r.Start.Format(domain.DateFormat),
		End:   r.End.Format(domain.DateFormat),
	}
}

func (r DateRange) ToDomain() (domain.DateRange, error) {
	return domain.ParseDateRange(r.Start, r.End)
}

type ReportKind struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	// Dated is false for reports that ignore the date range
	// (customer geolocation, inventory aging snapshots).
	Dated bool `json:"dated"`
}

type RankedEntry struct {
	Rank      int     `json:"rank"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

type RankedList struct {
	Title   string        `json:"title"`
	Column  string        `json:"column"`
	Entries []RankedEntry `json:"entries"`
}

type ChartSpec struct {
	Title        string    `json:"title"`
	CategoryAxis string    `json:"category_axis"`
	ValueAxis    string    `json:"value_axis"`
	SeriesLabel  string    `json:"series_label"`
	Categories   []string  `json:"categories"`
	Values       []float64 `json:"values"`
}

// ReportView is everything the UI needs to render one report for one range.
// Rows pass the warehouse table through untouched; NoData is an explicit
// signal so the UI renders a "no data for this range" state instead of an
// empty chart.
type ReportView struct {
	Report   string           `json:"report"`
	Title    string           `json:"title"`
	Range    *DateRange       `json:"range,omitempty"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	Ranked   []RankedList     `json:"ranked,omitempty"`
	Chart    *ChartSpec       `json:"chart,omitempty"`
	Markdown string           `json:"markdown,omitempty"`
	NoData   bool             `json:"no_data"`
}

type Selection struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label,omitempty"`
}

func SelectionFromDomain(sel domain.SavedSelection) Selection {
	return Selection{
		Start: sel.Start.Format(domain.DateFormat),
		End:   sel.End.Format(domain.DateFormat),
		Label: sel.Label(),
	}
}

type CompareRequest struct {
	Report     string      `json:"report"`
	Selections []Selection `json:"selections"`
	Summarize  bool        `json:"summarize"`
}

type ComparisonSide struct {
	Range   DateRange    `json:"range"`
	View    ReportView   `json:"view"`
	Ranked  []RankedList `json:"ranked,omitempty"`
	Summary string       `json:"summary,omitempty"`
	Failure string       `json:"failure,omitempty"`
}

type Comparison struct {
	Report   string         `json:"report"`
	First    ComparisonSide `json:"first"`
	Second   ComparisonSide `json:"second"`
	Summary  string         `json:"summary,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Error is the only error shape the API emits. Code is one of the taxonomy
// names; Detail is optional diagnostic text, never a raw stack trace.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
