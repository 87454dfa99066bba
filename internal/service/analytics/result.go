package analytics

// Result carries an analytics read that may have failed open. Degraded
// results hold a zero-value default and the cause, so callers can render a
// partial dashboard while surfacing that the number is not live.
type Result[T any] struct {
	Data     T
	Degraded bool
	Cause    error
}

// Ok wraps a successful read.
func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// DegradedResult wraps a failed read with its default value and cause.
func DegradedResult[T any](fallback T, cause error) Result[T] {
	return Result[T]{Data: fallback, Degraded: true, Cause: cause}
}
