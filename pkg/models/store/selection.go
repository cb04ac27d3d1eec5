package store

import (
	"github.com/floraos/retail-insights/pkg/models/domain"
)

// Selection is the on-disk shape of one saved date range. Dates stay as
// strings so old files remain readable even if the domain model changes.
type Selection struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func FromDomain(sel domain.SavedSelection) Selection {
	return Selection{
		StartDate: sel.Start.Format(domain.DateFormat),
		EndDate:   sel.End.Format(domain.DateFormat),
	}
}

// ToDomain parses the stored strings back into a selection. A record whose
// dates do not parse is corruption, reported as a PersistenceError rather
// than guessed around.
func (s Selection) ToDomain() (domain.SavedSelection, error) {
	r, err := domain.ParseDateRange(s.StartDate, s.EndDate)
	if err != nil {
		return domain.SavedSelection{}, &domain.PersistenceError{Op: "load", Err: err}
	}
	return domain.SavedSelection{Start: r.Start, End: r.End}, nil
}

// Table is a raw tabular warehouse result: named columns plus rows keyed by
// column name, in warehouse order.
type Table struct {
	Columns []string
	Rows    []map[string]any
}
