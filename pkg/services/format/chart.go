package format

import (
	"sort"

	"github.com/floraos/retail-insights/pkg/models/domain"
)

// Chart projects a result onto a single-series chart spec per the report's
// hint. Missing category or value columns are template drift and surface as
// ColumnNotFoundError.
func Chart(
	res domain.ReportResult,
	title, category, value, seriesLabel string,
	categoryOrder []string,
) (domain.ChartSpec, error) {
	if len(res.Columns) > 0 {
		for _, col := range []string{category, value} {
			if !res.HasColumn(col) {
				return domain.ChartSpec{}, &domain.ColumnNotFoundError{Report: res.Report, Column: col}
			}
		}
	}

	type point struct {
		category string
		value    float64
	}
	points := make([]point, 0, len(res.Rows))
	for _, row := range res.Rows {
		points = append(points, point{
			category: stringify(row[category]),
			value:    numeric(row[value]),
		})
	}

	if len(categoryOrder) > 0 {
		pos := make(map[string]int, len(categoryOrder))
		for i, c := range categoryOrder {
			pos[c] = i
		}
		sort.SliceStable(points, func(i, j int) bool {
			pi, iOK := pos[points[i].category]
			pj, jOK := pos[points[j].category]
			if iOK != jOK {
				return iOK // unknown categories sink to the end
			}
			return pi < pj
		})
	}

	spec := domain.ChartSpec{
		Title:        title,
		CategoryAxis: category,
		ValueAxis:    value,
		SeriesLabel:  seriesLabel,
	}
	for _, p := range points {
		spec.Categories = append(spec.Categories, p.category)
		spec.Values = append(spec.Values, p.value)
	}
	return spec, nil
}
