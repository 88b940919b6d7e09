package sqltemplate

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies where in a template call a failure happened.
type Kind int

const (
	KindConnectionAcquisition Kind = iota + 1
	KindStatementPreparation
	KindParameterBinding
	KindExecution
	KindMapping
	KindTooManyRows
)

func (k Kind) String() string {
	switch k {
	case KindConnectionAcquisition:
		return "connection acquisition"
	case KindStatementPreparation:
		return "statement preparation"
	case KindParameterBinding:
		return "parameter binding"
	case KindExecution:
		return "execution"
	case KindMapping:
		return "mapping"
	case KindTooManyRows:
		return "too many rows"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrConnectionAcquisition = errors.New("sqltemplate: connection acquisition failed")
	ErrStatementPreparation  = errors.New("sqltemplate: statement preparation failed")
	ErrParameterBinding      = errors.New("sqltemplate: parameter binding failed")
	ErrExecution             = errors.New("sqltemplate: execution failed")
	ErrMapping               = errors.New("sqltemplate: row mapping failed")
	ErrTooManyRows           = errors.New("sqltemplate: query returned more than one row")
)

var sentinels = map[Kind]error{
	KindConnectionAcquisition: ErrConnectionAcquisition,
	KindStatementPreparation:  ErrStatementPreparation,
	KindParameterBinding:      ErrParameterBinding,
	KindExecution:             ErrExecution,
	KindMapping:               ErrMapping,
	KindTooManyRows:           ErrTooManyRows,
}

// Error is the only error type returned by the template. The driver or
// caller failure that caused it is kept in Err and reachable via Unwrap.
type Error struct {
	Kind  Kind
	Query string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		if s, ok := sentinels[e.Kind]; ok {
			return s.Error()
		}
		return fmt.Sprintf("sqltemplate: %s failed", e.Kind)
	}
	return fmt.Sprintf("sqltemplate: %s failed: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func newError(kind Kind, query string, err error) *Error {
	return &Error{Kind: kind, Query: query, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var tErr *Error
	if errors.As(err, &tErr) {
		return tErr.Kind
	}
	return 0
}

// isBindingFailure checks if a driver error reports an argument problem
// rather than an execution problem. database/sql does not export typed
// errors for these, so the messages are matched.
func isBindingFailure(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	return strings.HasPrefix(errMsg, "sql: expected ") ||
		strings.HasPrefix(errMsg, "sql: converting argument")
}
