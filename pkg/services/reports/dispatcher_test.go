package reports

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/models/store"
)

// stubExecutor simulates the warehouse with a canned table or error and
// records the statements it receives.
type stubExecutor struct {
	mu      sync.Mutex
	queries []string
	args    [][]any
	table   store.Table
	err     error
}

func (s *stubExecutor) Query(_ context.Context, query string, args ...any) (store.Table, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.args = append(s.args, args)
	s.mu.Unlock()
	if s.err != nil {
		return store.Table{}, s.err
	}
	return s.table, nil
}

func TestDispatcher_Run_ReturnsTabularResult(t *testing.T) {
	exec := &stubExecutor{table: store.Table{
		Columns: []string{"PRODUCTNAME", "TOTAL_SALES"},
		Rows: []map[string]any{
			{"PRODUCTNAME": "Widget A", "TOTAL_SALES": 500.0},
		},
	}}
	d, err := NewDispatcher(exec, time.Second)
	require.NoError(t, err)

	res, err := d.Run(context.Background(), "top_products_lebanon", testRange(t))
	require.NoError(t, err)

	assert.Equal(t, "top_products_lebanon", res.Report)
	assert.Equal(t, testRange(t), res.Range)
	assert.Equal(t, []string{"PRODUCTNAME", "TOTAL_SALES"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.False(t, res.Empty())

	require.Len(t, exec.args, 1)
	assert.Equal(t, []any{"2024-03-01", "2024-03-31", "lebanon"}, exec.args[0])
}

func TestDispatcher_Run_UnknownReport_IsValidationError(t *testing.T) {
	d, err := NewDispatcher(&stubExecutor{}, time.Second)
	require.NoError(t, err)

	_, err = d.Run(context.Background(), "does_not_exist", testRange(t))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDispatcher_Run_ZeroRows_IsNotAnError(t *testing.T) {
	exec := &stubExecutor{table: store.Table{Columns: []string{"PRODUCTNAME", "TOTAL_SALES"}}}
	d, err := NewDispatcher(exec, time.Second)
	require.NoError(t, err)

	res, err := d.Run(context.Background(), "top_products_carthage", testRange(t))
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, []string{"PRODUCTNAME", "TOTAL_SALES"}, res.Columns)
}

func TestDispatcher_Run_TagsFailureWithReportKey(t *testing.T) {
	exec := &stubExecutor{err: &domain.QueryFailure{Kind: domain.FailureConnection, Err: errors.New("refused")}}
	d, err := NewDispatcher(exec, time.Second)
	require.NoError(t, err)

	_, err = d.Run(context.Background(), "budtender_performance", testRange(t))

	var qf *domain.QueryFailure
	require.ErrorAs(t, err, &qf)
	assert.Equal(t, "budtender_performance", qf.Report)
	assert.Equal(t, domain.FailureConnection, qf.Kind)
}

func TestDispatcher_Run_ReversedRange_ProducesNoQuery(t *testing.T) {
	exec := &stubExecutor{}
	d, err := NewDispatcher(exec, time.Second)
	require.NoError(t, err)

	r := testRange(t)
	_, err = d.Run(context.Background(), "top_products_lebanon", domain.DateRange{Start: r.End, End: r.Start})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, exec.queries, "invalid range must not reach the warehouse")
}

func TestDispatcher_Prefetch_RunsAllRequestedReports(t *testing.T) {
	exec := &stubExecutor{table: store.Table{Columns: []string{"BUDTENDER"}}}
	d, err := NewDispatcher(exec, time.Second)
	require.NoError(t, err)

	keys := []string{"top_products_lebanon", "budtender_performance", "weekly_profitability"}
	results, err := d.Prefetch(context.Background(), keys, testRange(t))
	require.NoError(t, err)

	assert.Len(t, results, 3)
	for _, key := range keys {
		assert.Contains(t, results, key)
	}
	assert.Len(t, exec.queries, 3)
}

func TestDispatcher_Prefetch_PropagatesFirstFailure(t *testing.T) {
	exec := &stubExecutor{err: &domain.QueryFailure{Kind: domain.FailureTimeout, Err: context.DeadlineExceeded}}
	d, err := NewDispatcher(exec, time.Second)
	require.NoError(t, err)

	_, err = d.Prefetch(context.Background(), []string{"top_products_lebanon", "budtender_performance"}, testRange(t))

	var qf *domain.QueryFailure
	require.ErrorAs(t, err, &qf)
	assert.Equal(t, domain.FailureTimeout, qf.Kind)
}

func TestNewDispatcher_DuplicateDefs_IsError(t *testing.T) {
	defs := []ReportDef{{Key: "dup", SQL: "SELECT 1"}, {Key: "dup", SQL: "SELECT 2"}}
	_, err := NewDispatcherWithDefs(&stubExecutor{}, defs, time.Second)
	require.Error(t, err)
}
