package reports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraos/retail-insights/pkg/models/domain"
)

func testRange(t *testing.T) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	return r
}

func TestReportDef_Statement_BindsDatesInsteadOfInterpolating(t *testing.T) {
	def := topProductsDef("lebanon")

	query, args, err := def.Statement(testRange(t))
	require.NoError(t, err)

	assert.Contains(t, query, "t.transactiondate BETWEEN ? AND ?")
	assert.NotContains(t, query, "2024-03-01", "dates must never appear in query text")
	assert.NotContains(t, query, "lebanon", "filter values must never appear in query text")
	assert.Equal(t, []any{"2024-03-01", "2024-03-31", "lebanon"}, args)
}

func TestReportDef_Statement_ExplicitVoidExclusion(t *testing.T) {
	for _, def := range Defs() {
		query, _, err := def.Statement(testRange(t))
		require.NoError(t, err, def.Key)

		if def.ExcludeVoided {
			assert.Contains(t, query, "NOT ", "%s must exclude voided transactions", def.Key)
		} else {
			assert.NotContains(t, strings.ToLower(query), "isvoid",
				"%s must not quietly filter voids", def.Key)
		}
	}
}

func TestReportDef_Statement_ReversedRange_IsValidationError(t *testing.T) {
	def := topProductsDef("carthage")
	bad := domain.DateRange{Start: testRange(t).End, End: testRange(t).Start}

	_, _, err := def.Statement(bad)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestReportDef_Statement_UndatedReport_IgnoresRange(t *testing.T) {
	var geo ReportDef
	for _, def := range Defs() {
		if def.Key == "customer_geolocation" {
			geo = def
		}
	}
	require.NotEmpty(t, geo.Key)

	// Even a zero range works: undated reports never touch it.
	query, args, err := geo.Statement(domain.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.NotContains(t, query, "{where}")
	assert.Contains(t, query, "latitude IS NOT NULL")
}

func TestDefs_KeysAreUniqueAndChartsReferenceOwnColumns(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Defs() {
		assert.False(t, seen[def.Key], "duplicate key %s", def.Key)
		seen[def.Key] = true

		for _, ranking := range def.Rankings {
			assert.Contains(t, def.SQL, quoteAware(ranking.Column),
				"%s ranking column %s missing from SQL", def.Key, ranking.Column)
		}
		if def.Chart != nil {
			assert.Contains(t, def.SQL, quoteAware(def.Chart.Category), def.Key)
			assert.Contains(t, def.SQL, quoteAware(def.Chart.Value), def.Key)
		}
	}
}

func TestDefs_InventoryAgingRanking_DropsZeroAgedRows(t *testing.T) {
	var aging ReportDef
	for _, def := range Defs() {
		if def.Key == "inventory_aging" {
			aging = def
		}
	}
	require.NotEmpty(t, aging.Key)

	require.Len(t, aging.Rankings, 1)
	assert.Equal(t, "121+", aging.Rankings[0].Column)
	assert.True(t, aging.Rankings[0].OmitZero,
		"products with no aged stock must not pad the list")
}

// quoteAware matches both bare aliases and quoted bucket columns ("121+").
func quoteAware(column string) string {
	if strings.ContainsAny(column, "-+") {
		return `"` + column + `"`
	}
	return column
}
