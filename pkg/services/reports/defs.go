package reports

import (
	"fmt"
	"strings"

	"github.com/floraos/retail-insights/pkg/models/domain"
)

// ColumnFilter is a fixed, definition-level predicate (store location and
// the like). Values are always bound, never spliced into the query text.
type ColumnFilter struct {
	Column string
	Value  any
}

// ChartHint tells the formatter which columns feed the report's chart.
// CategoryOrder, when set, pins the category axis to a fixed ordering
// (weekday charts) instead of warehouse order.
type ChartHint struct {
	Title         string
	Category      string
	Value         string
	SeriesLabel   string
	CategoryOrder []string
}

// ReportDef is one declarative report kind: a SQL template with a `{where}`
// slot, the column its date predicate binds to, and the bindings the
// formatters need. Voided-transaction exclusion is an explicit flag on
// every definition rather than an accident of which query variant survived.
type ReportDef struct {
	Key   string
	Title string

	// SQL is the query template. The {where} token marks where the combined
	// predicate goes; definitions without dynamic predicates omit it.
	SQL string

	// DateColumn is the column the date range binds to. Empty means the
	// report ignores the range (snapshots, geolocation).
	DateColumn string

	// ExcludeVoided adds a NOT <VoidColumn> predicate. VoidColumn defaults
	// to "isvoid".
	ExcludeVoided bool
	VoidColumn    string

	Filters []ColumnFilter

	// LabelColumns name the columns joined into a ranked entry's label.
	LabelColumns []string
	Rankings     []domain.Ranking
	Chart        *ChartHint
}

// Dated reports filter on a date column; undated ones run as-is.
func (d ReportDef) Dated() bool {
	return d.DateColumn != ""
}

// Statement renders the definition into an executable query plus bind
// arguments for the given range. Operator input only ever appears in the
// argument list.
func (d ReportDef) Statement(r domain.DateRange) (string, []any, error) {
	var clauses []string
	var args []any

	if d.Dated() {
		if err := r.Validate(); err != nil {
			return "", nil, err
		}
		clauses = append(clauses, fmt.Sprintf("%s BETWEEN ? AND ?", d.DateColumn))
		args = append(args, r.Start.Format(domain.DateFormat), r.End.Format(domain.DateFormat))
	}

	if d.ExcludeVoided {
		col := d.VoidColumn
		if col == "" {
			col = "isvoid"
		}
		clauses = append(clauses, "NOT "+col)
	}

	for _, f := range d.Filters {
		clauses = append(clauses, fmt.Sprintf("%s = ?", f.Column))
		args = append(args, f.Value)
	}

	if len(clauses) == 0 {
		return strings.ReplaceAll(d.SQL, "{where}", ""), nil, nil
	}
	if !strings.Contains(d.SQL, "{where}") {
		return "", nil, fmt.Errorf("report %s: template has predicates but no {where} slot", d.Key)
	}

	where := "WHERE " + strings.Join(clauses, "\n  AND ")
	return strings.ReplaceAll(d.SQL, "{where}", where), args, nil
}

const topProductsSQL = `
SELECT
  p.productname AS PRODUCTNAME,
  p.location AS LOCATION,
  SUM(i.totalprice) AS TOTAL_SALES,
  COUNT(DISTINCT i.transactionid) AS TOTAL_TRANSACTIONS
FROM blue_sage.flattened_items AS i
JOIN blue_sage.dutchie_inventory AS p ON i.productid = p.productid
JOIN blue_sage.dutchie_transactions AS t ON i.transactionid = t.transactionid
{where}
GROUP BY p.productname, p.location
ORDER BY TOTAL_SALES DESC
LIMIT 10`

// WeekdayOrder pins day-of-week charts Monday first. Warehouses disagree on
// whether DAYNAME returns full or abbreviated names, so both spellings are
// listed.
var WeekdayOrder = []string{
	"Monday", "Mon", "Tuesday", "Tue", "Wednesday", "Wed", "Thursday", "Thu",
	"Friday", "Fri", "Saturday", "Sat", "Sunday", "Sun",
}

func topProductsDef(location string) ReportDef {
	title := strings.ToUpper(location[:1]) + location[1:]
	return ReportDef{
		Key:           "top_products_" + location,
		Title:         fmt.Sprintf("Top Selling Products - %s", title),
		SQL:           topProductsSQL,
		DateColumn:    "t.transactiondate",
		ExcludeVoided: true,
		VoidColumn:    "t.isvoid",
		Filters:       []ColumnFilter{{Column: "p.location", Value: location}},
		LabelColumns:  []string{"PRODUCTNAME"},
		Rankings: []domain.Ranking{
			{Column: "TOTAL_SALES", Kind: domain.ValueCurrency, Title: "Total Sales", Suffix: "in sales"},
			{Column: "TOTAL_TRANSACTIONS", Kind: domain.ValueCount, Title: "Total Transactions", Suffix: "transactions"},
		},
		Chart: &ChartHint{
			Title:       fmt.Sprintf("Top Selling Products for %s", title),
			Category:    "PRODUCTNAME",
			Value:       "TOTAL_SALES",
			SeriesLabel: "Total Sales ($)",
		},
	}
}

// Defs returns the full report registry in presentation order.
func Defs() []ReportDef {
	return []ReportDef{
		topProductsDef("lebanon"),
		topProductsDef("carthage"),
		{
			Key:   "budtender_performance",
			Title: "Budtender Performance",
			SQL: `
SELECT
  completedbyuser AS BUDTENDER,
  AVG(total) AS AVERAGE_SALE_AMOUNT,
  COUNT(transactionid) AS TOTAL_TRANSACTIONS
FROM blue_sage.dutchie_transactions
{where}
GROUP BY completedbyuser
ORDER BY TOTAL_TRANSACTIONS DESC
LIMIT 10`,
			DateColumn:    "transactiondate",
			ExcludeVoided: true,
			LabelColumns:  []string{"BUDTENDER"},
			Rankings: []domain.Ranking{
				{Column: "AVERAGE_SALE_AMOUNT", Kind: domain.ValueCurrency, Title: "Average Sale Amount", Suffix: "average sale"},
				{Column: "TOTAL_TRANSACTIONS", Kind: domain.ValueCount, Title: "Total Transactions", Suffix: "transactions"},
			},
			Chart: &ChartHint{
				Title:       "Average Sale Amount per Budtender",
				Category:    "BUDTENDER",
				Value:       "AVERAGE_SALE_AMOUNT",
				SeriesLabel: "Average Sale Amount ($)",
			},
		},
		{
			Key:   "weekly_profitability",
			Title: "Weekly Profitability",
			SQL: `
SELECT
  DAYNAME(transactiondate) AS DAY_OF_WEEK,
  SUM(total) AS TOTAL_REVENUE,
  AVG(total) AS AVERAGE_REVENUE
FROM blue_sage.dutchie_transactions
{where}
GROUP BY DAY_OF_WEEK`,
			DateColumn:    "transactiondate",
			ExcludeVoided: true,
			LabelColumns:  []string{"DAY_OF_WEEK"},
			Chart: &ChartHint{
				Title:         "Total Revenue by Day of the Week",
				Category:      "DAY_OF_WEEK",
				Value:         "TOTAL_REVENUE",
				SeriesLabel:   "Total Revenue ($)",
				CategoryOrder: WeekdayOrder,
			},
		},
		{
			Key:   "monthly_sales_trend",
			Title: "Monthly Sales Trend",
			SQL: `
SELECT
  DATE_TRUNC('month', transactiondate) AS MONTH,
  SUM(total) AS TOTAL_SALES
FROM blue_sage.dutchie_transactions
{where}
GROUP BY MONTH
ORDER BY MONTH`,
			DateColumn:    "transactiondate",
			ExcludeVoided: true,
			LabelColumns:  []string{"MONTH"},
			Chart: &ChartHint{
				Title:       "Monthly Sales Trend",
				Category:    "MONTH",
				Value:       "TOTAL_SALES",
				SeriesLabel: "Total Sales ($)",
			},
		},
		{
			Key:   "customer_geolocation",
			Title: "Customer Geolocation",
			SQL: `
SELECT
  latitude AS LATITUDE,
  longitude AS LONGITUDE
FROM blue_sage.matched_customers_zipcodes
WHERE latitude IS NOT NULL AND longitude IS NOT NULL`,
		},
		{
			Key:   "inventory_aging",
			Title: "Inventory Aging",
			SQL: `
SELECT
  SPLIT_PART(location, ' - ', 2) AS LOCATION,
  product AS PRODUCT,
  category AS CATEGORY,
  mastercategory AS MASTERCATEGORY,
  cannabisinventory AS CANNABISINVENTORY,
  "0-30", "31-60", "61-90", "91-120", "121+"
FROM blue_sage.report_inventory_aging`,
			LabelColumns: []string{"LOCATION", "PRODUCT"},
			Rankings: []domain.Ranking{
				{Column: "121+", Kind: domain.ValueCount, Title: "Inventory Aged 121+ Days", Suffix: "units aged 121+ days", OmitZero: true},
			},
			Chart: &ChartHint{
				Title:       "Inventory Aging by Product",
				Category:    "PRODUCT",
				Value:       "121+",
				SeriesLabel: "Units Aged 121+ Days",
			},
		},
	}
}
