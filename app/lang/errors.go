package lang

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	UnknownIdentifierError
	NameConflictError
	DimensionAlreadyDefinedError
	NonDimensionlessPrefixError
	DimensionMismatchError
	DivisionByZeroError
	NonDimensionlessExponentError
	NonIntegerDimensionExponentError
)

var errorKindNames = [...]string{
	SyntaxError:                      "SyntaxError",
	UnknownIdentifierError:           "UnknownIdentifierError",
	NameConflictError:                "NameConflictError",
	DimensionAlreadyDefinedError:     "DimensionAlreadyDefinedError",
	NonDimensionlessPrefixError:      "NonDimensionlessPrefixError",
	DimensionMismatchError:           "DimensionMismatchError",
	DivisionByZeroError:              "DivisionByZeroError",
	NonDimensionlessExponentError:    "NonDimensionlessExponentError",
	NonIntegerDimensionExponentError: "NonIntegerDimensionExponentError",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// EvalError is returned for every lexing, parsing, definition and
// evaluation failure.
type EvalError struct {
	Kind ErrorKind
	Msg  string
	Pos  Position // zero when the failure has no source location
}

func (e *EvalError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Pos)
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is matches another *EvalError of the same kind, so sentinel-style checks
// like errors.Is(err, &EvalError{Kind: DivisionByZeroError}) work.
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Kind == e.Kind && t.Msg == ""
}

// KindOf extracts the ErrorKind of an engine error, looking through wrapping.
func KindOf(err error) (ErrorKind, bool) {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func syntaxError(tok Token, format string, args ...any) *EvalError {
	return &EvalError{Kind: SyntaxError, Msg: fmt.Sprintf(format, args...), Pos: tok.Position()}
}
