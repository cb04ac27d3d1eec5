package domain

import "fmt"

// FailureKind distinguishes why a warehouse query did not produce a result.
// Zero rows is not a failure; callers check ReportResult.Empty for that.
type FailureKind string

const (
	// FailureConnection covers an unreachable warehouse or failed authentication.
	FailureConnection FailureKind = "connection"
	// FailureQuery covers a malformed query or warehouse-side execution error.
	FailureQuery FailureKind = "query"
	// FailureTimeout covers a query that exceeded the configured deadline.
	FailureTimeout FailureKind = "timeout"
)

// QueryFailure is a warehouse-level error already classified at the store
// boundary. Report is filled in by the dispatcher.
type QueryFailure struct {
	Kind   FailureKind
	Report string
	Err    error
}

func (e *QueryFailure) Error() string {
	if e.Report == "" {
		return fmt.Sprintf("warehouse %s failure: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("report %s: warehouse %s failure: %v", e.Report, e.Kind, e.Err)
}

func (e *QueryFailure) Unwrap() error { return e.Err }

// ValidationError reports invalid operator input: a reversed date range, a
// wrong number of selections to compare, an unknown report key. It is
// surfaced as inline guidance, never as a stack trace.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ColumnNotFoundError reports that a result schema did not include a column
// a report definition expects. This is template drift, a configuration-level
// problem, and must never be coerced into formatted output.
type ColumnNotFoundError struct {
	Report string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("report %s: column %q not found in result", e.Report, e.Column)
}

// PersistenceError reports that the selection store could not be read,
// parsed, or written. Load failures degrade to an empty sequence with a
// warning; save failures must reach the operator.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("selection store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
