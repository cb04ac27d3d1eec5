package warehouse

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/models/store"
)

// Executor is the single capability the application needs from a warehouse:
// execute a read-only parameterized SQL statement and return a tabular
// result with named columns. Connection pooling and authentication live
// behind the *sql.DB handed in by the factory.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) (store.Table, error)
}

type sqlExecutor struct {
	db *sql.DB
}

func NewSQLExecutor(db *sql.DB) (Executor, error) {
	if db == nil {
		return nil, errors.New("database connection is nil")
	}
	return &sqlExecutor{db: db}, nil
}

func (e *sqlExecutor) Query(ctx context.Context, query string, args ...any) (store.Table, error) {
	logger := zerolog.Ctx(ctx)
	started := time.Now()

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return store.Table{}, &domain.QueryFailure{Kind: classify(ctx, err), Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return store.Table{}, &domain.QueryFailure{Kind: domain.FailureQuery, Err: err}
	}

	table := store.Table{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return store.Table{}, &domain.QueryFailure{Kind: domain.FailureQuery, Err: err}
		}

		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = normalize(vals[i])
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return store.Table{}, &domain.QueryFailure{Kind: classify(ctx, err), Err: err}
	}

	logger.Debug().
		Int("rows", len(table.Rows)).
		Dur("elapsed", time.Since(started)).
		Msg("warehouse query completed")
	return table, nil
}

// normalize collapses driver-specific value types into the small set the
// rest of the application handles.
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case sql.NullString:
		if t.Valid {
			return t.String
		}
		return nil
	default:
		return v
	}
}

// classify maps a driver error onto the failure taxonomy. Timeouts are
// checked first so a deadline that surfaces as a wrapped network error is
// still reported as a timeout.
func classify(ctx context.Context, err error) domain.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return domain.FailureTimeout
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return domain.FailureConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return domain.FailureTimeout
		}
		return domain.FailureConnection
	}
	return domain.FailureQuery
}
