package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraos/retail-insights/pkg/models/domain"
)

func salesRanking() domain.Ranking {
	return domain.Ranking{
		Column: "TOTAL_SALES",
		Kind:   domain.ValueCurrency,
		Title:  "Total Sales",
		Suffix: "in sales",
	}
}

func productResult(rows ...domain.ReportRow) domain.ReportResult {
	return domain.ReportResult{
		Report:  "top_products_lebanon",
		Columns: []string{"PRODUCTNAME", "TOTAL_SALES", "TOTAL_TRANSACTIONS"},
		Rows:    rows,
	}
}

func TestTopN_SortsDescendingAndFormatsCurrency(t *testing.T) {
	res := productResult(
		domain.ReportRow{"PRODUCTNAME": "Widget B", "TOTAL_SALES": 300.0, "TOTAL_TRANSACTIONS": int64(12)},
		domain.ReportRow{"PRODUCTNAME": "Widget A", "TOTAL_SALES": 500.0, "TOTAL_TRANSACTIONS": int64(7)},
	)

	list, err := TopN(res, salesRanking(), []string{"PRODUCTNAME"}, 10)
	require.NoError(t, err)

	require.Len(t, list.Entries, 2)
	assert.Equal(t, 1, list.Entries[0].Rank)
	assert.Equal(t, "Widget A", list.Entries[0].Label)
	assert.Equal(t, "$500.00", list.Entries[0].Formatted)
	assert.Equal(t, 2, list.Entries[1].Rank)
	assert.Equal(t, "Widget B", list.Entries[1].Label)

	assert.Equal(t, "1. Widget A - $500.00\n2. Widget B - $300.00\n", Render(list))
}

func TestTopN_StrictlyDescendingUpToTen(t *testing.T) {
	var rows []domain.ReportRow
	for i := 0; i < 25; i++ {
		rows = append(rows, domain.ReportRow{
			"PRODUCTNAME":        "P",
			"TOTAL_SALES":        float64(i),
			"TOTAL_TRANSACTIONS": int64(i),
		})
	}

	list, err := TopN(productResult(rows...), salesRanking(), []string{"PRODUCTNAME"}, 10)
	require.NoError(t, err)

	require.Len(t, list.Entries, MaxEntries)
	for i := 1; i < len(list.Entries); i++ {
		assert.Greater(t, list.Entries[i-1].Value, list.Entries[i].Value)
		assert.Equal(t, i+1, list.Entries[i].Rank)
	}
}

func TestTopN_ShortResult_RendersOnlyExistingRows(t *testing.T) {
	res := productResult(
		domain.ReportRow{"PRODUCTNAME": "Only One", "TOTAL_SALES": 9.5, "TOTAL_TRANSACTIONS": int64(1)},
	)

	list, err := TopN(res, salesRanking(), []string{"PRODUCTNAME"}, 10)
	require.NoError(t, err)
	assert.Len(t, list.Entries, 1)
}

func TestTopN_EmptyResult_NeverErrors(t *testing.T) {
	for n := 0; n <= MaxEntries; n++ {
		list, err := TopN(productResult(), salesRanking(), []string{"PRODUCTNAME"}, n)
		require.NoError(t, err, "n=%d", n)
		assert.Empty(t, list.Entries)
	}
}

func TestTopN_MissingRankingColumn_IsColumnNotFound(t *testing.T) {
	res := domain.ReportResult{
		Report:  "top_products_lebanon",
		Columns: []string{"PRODUCTNAME"},
		Rows:    []domain.ReportRow{{"PRODUCTNAME": "Widget A"}},
	}

	_, err := TopN(res, salesRanking(), []string{"PRODUCTNAME"}, 10)

	var cnf *domain.ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)
	assert.Equal(t, "TOTAL_SALES", cnf.Column)
}

func TestTopN_CountKind_RendersPlainInteger(t *testing.T) {
	ranking := domain.Ranking{Column: "TOTAL_TRANSACTIONS", Kind: domain.ValueCount, Title: "Total Transactions"}
	res := productResult(
		domain.ReportRow{"PRODUCTNAME": "Widget A", "TOTAL_SALES": 500.0, "TOTAL_TRANSACTIONS": int64(42)},
	)

	list, err := TopN(res, ranking, []string{"PRODUCTNAME"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "42", list.Entries[0].Formatted)
}

func TestTopN_StringValues_RankNumerically(t *testing.T) {
	// Snowflake can hand NUMBER columns back as text.
	res := productResult(
		domain.ReportRow{"PRODUCTNAME": "Widget B", "TOTAL_SALES": "300.50", "TOTAL_TRANSACTIONS": int64(12)},
		domain.ReportRow{"PRODUCTNAME": "Widget A", "TOTAL_SALES": "500.00", "TOTAL_TRANSACTIONS": int64(7)},
	)

	list, err := TopN(res, salesRanking(), []string{"PRODUCTNAME"}, 10)
	require.NoError(t, err)

	require.Len(t, list.Entries, 2)
	assert.Equal(t, "Widget A", list.Entries[0].Label)
	assert.Equal(t, 500.0, list.Entries[0].Value)
	assert.Equal(t, "$500.00", list.Entries[0].Formatted)
	assert.Equal(t, "Widget B", list.Entries[1].Label)
	assert.Equal(t, 300.5, list.Entries[1].Value)
}

func TestTopN_OmitZero_DropsNonPositiveRows(t *testing.T) {
	ranking := domain.Ranking{
		Column:   "TOTAL_TRANSACTIONS",
		Kind:     domain.ValueCount,
		Title:    "Total Transactions",
		OmitZero: true,
	}
	res := productResult(
		domain.ReportRow{"PRODUCTNAME": "Fresh", "TOTAL_SALES": 1.0, "TOTAL_TRANSACTIONS": int64(0)},
		domain.ReportRow{"PRODUCTNAME": "Aged A", "TOTAL_SALES": 1.0, "TOTAL_TRANSACTIONS": int64(4)},
		domain.ReportRow{"PRODUCTNAME": "Also Fresh", "TOTAL_SALES": 1.0, "TOTAL_TRANSACTIONS": int64(0)},
		domain.ReportRow{"PRODUCTNAME": "Aged B", "TOTAL_SALES": 1.0, "TOTAL_TRANSACTIONS": int64(2)},
	)

	list, err := TopN(res, ranking, []string{"PRODUCTNAME"}, 10)
	require.NoError(t, err)

	require.Len(t, list.Entries, 2)
	assert.Equal(t, "Aged A", list.Entries[0].Label)
	assert.Equal(t, 1, list.Entries[0].Rank)
	assert.Equal(t, "Aged B", list.Entries[1].Label)
	assert.Equal(t, 2, list.Entries[1].Rank)
}

func TestMarkdown_EmptyList_ShowsNoDataIndicator(t *testing.T) {
	out := Markdown(domain.RankedList{Title: "Total Sales"}, salesRanking())
	assert.Contains(t, out, NoData)
}

func TestMarkdown_IncludesHeadingAndSuffix(t *testing.T) {
	res := productResult(
		domain.ReportRow{"PRODUCTNAME": "Widget A", "TOTAL_SALES": 500.0, "TOTAL_TRANSACTIONS": int64(7)},
	)
	list, err := TopN(res, salesRanking(), []string{"PRODUCTNAME"}, 10)
	require.NoError(t, err)

	out := Markdown(list, salesRanking())
	assert.Contains(t, out, "### Top 10 by Total Sales")
	assert.Contains(t, out, "1. **Widget A** - $500.00 in sales")
}

func TestChart_AppliesWeekdayOrdering(t *testing.T) {
	res := domain.ReportResult{
		Report:  "weekly_profitability",
		Columns: []string{"DAY_OF_WEEK", "TOTAL_REVENUE"},
		Rows: []domain.ReportRow{
			{"DAY_OF_WEEK": "Wed", "TOTAL_REVENUE": 10.0},
			{"DAY_OF_WEEK": "Mon", "TOTAL_REVENUE": 30.0},
			{"DAY_OF_WEEK": "Fri", "TOTAL_REVENUE": 20.0},
		},
	}
	order := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	spec, err := Chart(res, "Revenue", "DAY_OF_WEEK", "TOTAL_REVENUE", "Total Revenue ($)", order)
	require.NoError(t, err)

	assert.Equal(t, []string{"Mon", "Wed", "Fri"}, spec.Categories)
	assert.Equal(t, []float64{30, 10, 20}, spec.Values)
}

func TestChart_MissingValueColumn_IsColumnNotFound(t *testing.T) {
	res := domain.ReportResult{
		Report:  "weekly_profitability",
		Columns: []string{"DAY_OF_WEEK"},
	}

	_, err := Chart(res, "Revenue", "DAY_OF_WEEK", "TOTAL_REVENUE", "", nil)

	var cnf *domain.ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)
}
