package apla

import (
	"fmt"
	"strings"
)

type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	UnresolvedSymbol
	DuplicateDeclaration
	TypeMismatch
	UninferableType
	InvalidAssignmentTarget
	InvalidAccessTarget
	InvalidContext
	ArityMismatch
	UnsupportedConstruct
	TranslationError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax"
	case UnresolvedSymbol:
		return "unresolved-symbol"
	case DuplicateDeclaration:
		return "duplicate-declaration"
	case TypeMismatch:
		return "type-mismatch"
	case UninferableType:
		return "uninferable-type"
	case InvalidAssignmentTarget:
		return "invalid-assignment-target"
	case InvalidAccessTarget:
		return "invalid-access-target"
	case InvalidContext:
		return "invalid-context"
	case ArityMismatch:
		return "arity-mismatch"
	case UnsupportedConstruct:
		return "unsupported-construct"
	case TranslationError:
		return "translation"
	}
	panic("unreachable")
}

type Error struct {
	Kind ErrorKind
	Span Span
	File string
	Msg  string
}

func NewError(kind ErrorKind, span Span, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Span: span,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: error[%s]: %s", e.Span, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s:%s: error[%s]: %s", e.File, e.Span, e.Kind, e.Msg)
}

// ErrorList collects the diagnostics of one compilation unit in the order
// they were found.
type ErrorList []*Error

func (l *ErrorList) Add(errs ...*Error) {
	*l = append(*l, errs...)
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns nil for an empty list so callers can return it directly.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Format prints every diagnostic followed by its source excerpt.
func (l ErrorList) Format(src *SourceFile) string {
	var builder strings.Builder
	for i, err := range l {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(err.Error())
		if excerpt := src.Excerpt(err.Span); excerpt != "" {
			builder.WriteByte('\n')
			builder.WriteString(excerpt)
		}
	}
	return builder.String()
}

// Errors flattens err into diagnostics. Errors that carry no position are
// wrapped as translation errors with an empty span.
func Errors(err error) ErrorList {
	switch e := err.(type) {
	case nil:
		return nil
	case ErrorList:
		return e
	case *Error:
		return ErrorList{e}
	}
	return ErrorList{{Kind: TranslationError, Msg: err.Error()}}
}
