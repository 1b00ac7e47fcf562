// Package fetcher acquires beer menu content and saved-beer lists. Every
// I/O boundary returns an explicit Result so callers decide between empty
// and failed content.
package fetcher

// Status is the outcome of a fetch.
type Status int

const (
	// StatusOK means the source returned at least one item.
	StatusOK Status = iota
	// StatusEmpty means a source answered but had nothing to return.
	StatusEmpty
	// StatusError means no source could answer.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result carries fetched items together with how they were obtained.
type Result[T any] struct {
	Status Status
	Items  []T
	// Source names the strategy that produced the result, if any.
	Source string
	// Err is set when Status is StatusError.
	Err error
}

// OK returns a successful result. An empty items slice yields StatusEmpty.
func OK[T any](source string, items []T) Result[T] {
	if len(items) == 0 {
		return Empty[T](source)
	}
	return Result[T]{Status: StatusOK, Items: items, Source: source}
}

// Empty returns a result for a source that answered with nothing.
func Empty[T any](source string) Result[T] {
	return Result[T]{Status: StatusEmpty, Source: source}
}

// Failed returns an error result.
func Failed[T any](source string, err error) Result[T] {
	return Result[T]{Status: StatusError, Source: source, Err: err}
}
