package reports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/store/warehouse"
)

const DefaultQueryTimeout = 30 * time.Second

// Dispatcher turns a report key plus a date range into a tabular result.
// Every call is a single read-only warehouse round trip bounded by the
// configured timeout.
type Dispatcher interface {
	Reports() []ReportDef
	Get(key string) (ReportDef, error)
	Run(ctx context.Context, key string, r domain.DateRange) (domain.ReportResult, error)
	// Prefetch runs several independent reports for one range concurrently.
	Prefetch(ctx context.Context, keys []string, r domain.DateRange) (map[string]domain.ReportResult, error)
}

type dispatcher struct {
	exec    warehouse.Executor
	defs    map[string]ReportDef
	order   []string
	timeout time.Duration
}

func NewDispatcher(exec warehouse.Executor, timeout time.Duration) (Dispatcher, error) {
	return NewDispatcherWithDefs(exec, Defs(), timeout)
}

func NewDispatcherWithDefs(exec warehouse.Executor, defs []ReportDef, timeout time.Duration) (Dispatcher, error) {
	if exec == nil {
		return nil, errors.New("warehouse executor is nil")
	}
	if len(defs) == 0 {
		return nil, errors.New("at least one report definition must be provided")
	}
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	d := &dispatcher{
		exec:    exec,
		defs:    make(map[string]ReportDef, len(defs)),
		timeout: timeout,
	}
	for _, def := range defs {
		if _, exists := d.defs[def.Key]; exists {
			return nil, fmt.Errorf("duplicate report definition: %s", def.Key)
		}
		d.defs[def.Key] = def
		d.order = append(d.order, def.Key)
	}
	return d, nil
}

func (d *dispatcher) Reports() []ReportDef {
	out := make([]ReportDef, 0, len(d.order))
	for _, key := range d.order {
		out = append(out, d.defs[key])
	}
	return out
}

func (d *dispatcher) Get(key string) (ReportDef, error) {
	def, exists := d.defs[key]
	if !exists {
		return ReportDef{}, &domain.ValidationError{Msg: fmt.Sprintf("unknown report %q", key)}
	}
	return def, nil
}

func (d *dispatcher) Run(ctx context.Context, key string, r domain.DateRange) (domain.ReportResult, error) {
	def, err := d.Get(key)
	if err != nil {
		return domain.ReportResult{}, err
	}

	query, args, err := def.Statement(r)
	if err != nil {
		return domain.ReportResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("report", key).Stringer("range", r).Msg("dispatching report query")

	table, err := d.exec.Query(ctx, query, args...)
	if err != nil {
		var qf *domain.QueryFailure
		if errors.As(err, &qf) {
			qf.Report = key
		}
		return domain.ReportResult{}, err
	}

	result := domain.ReportResult{
		Report:  key,
		Columns: table.Columns,
		Rows:    make([]domain.ReportRow, 0, len(table.Rows)),
	}
	if def.Dated() {
		result.Range = r
	}
	for _, row := range table.Rows {
		result.Rows = append(result.Rows, domain.ReportRow(row))
	}
	return result, nil
}

func (d *dispatcher) Prefetch(
	ctx context.Context,
	keys []string,
	r domain.DateRange,
) (map[string]domain.ReportResult, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[string]domain.ReportResult, len(keys))

	for _, key := range keys {
		g.Go(func() error {
			res, err := d.Run(ctx, key, r)
			if err != nil {
				return err
			}
			mu.Lock()
			results[key] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
