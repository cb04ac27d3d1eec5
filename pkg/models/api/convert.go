package api

import "github.com/floraos/retail-insights/pkg/models/domain"

func RankedListFromDomain(list domain.RankedList) RankedList {
	out := RankedList{Title: list.Title, Column: list.Column}
	for _, e := range list.Entries {
		out.Entries = append(out.Entries, RankedEntry{
			Rank:      e.Rank,
			Label:     e.Label,
			Value:     e.Value,
			Formatted: e.Formatted,
		})
	}
	return out
}

func ChartSpecFromDomain(spec domain.ChartSpec) ChartSpec {
	return ChartSpec{
		Title:        spec.Title,
		CategoryAxis: spec.CategoryAxis,
		ValueAxis:    spec.ValueAxis,
		SeriesLabel:  spec.SeriesLabel,
		Categories:   spec.Categories,
		Values:       spec.Values,
	}
}
