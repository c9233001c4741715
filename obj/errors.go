package obj

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a line was rejected.
type ErrorKind int

const (
	LineShapeMismatch = ErrorKind(iota)
	NegativeTextureCoordinate
	IndexOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case LineShapeMismatch:
		return "line shape mismatch"
	case NegativeTextureCoordinate:
		return "negative texture coordinate"
	case IndexOutOfRange:
		return "index out of range"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrLineShapeMismatch         = errors.New(LineShapeMismatch.String())
	ErrNegativeTextureCoordinate = errors.New(NegativeTextureCoordinate.String())
	ErrIndexOutOfRange           = errors.New(IndexOutOfRange.String())
)

// ParseError reports a line that produced nothing.
type ParseError struct {
	Kind   ErrorKind
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.Kind, e.Reason, e.Line)
}

// Is matches the sentinel for the error's kind.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrLineShapeMismatch:
		return e.Kind == LineShapeMismatch
	case ErrNegativeTextureCoordinate:
		return e.Kind == NegativeTextureCoordinate
	case ErrIndexOutOfRange:
		return e.Kind == IndexOutOfRange
	}
	return false
}

func shapeError(line, reason string) error {
	return &ParseError{Kind: LineShapeMismatch, Line: line, Reason: reason}
}
