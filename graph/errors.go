package graph

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes graph construction and serialization errors.
type ErrorKind uint8

const (
	// KindTypeMismatch indicates operand types that do not combine.
	KindTypeMismatch ErrorKind = iota + 1

	// KindUnresolvedIdentifier indicates a variable used after its scope closed.
	KindUnresolvedIdentifier

	// KindLayoutMismatch indicates a function layout that disagrees with its use.
	KindLayoutMismatch

	// KindUnsupported indicates a construct the selected backend cannot render.
	KindUnsupported

	// KindRedeclared indicates a name declared twice in one scope.
	KindRedeclared

	// KindNotAssignable indicates an assignment to something that is not an lvalue.
	KindNotAssignable

	// KindMisplacedStatement indicates a statement outside the construct it needs.
	KindMisplacedStatement

	// KindInvalidName indicates a user-supplied name that is not an identifier.
	KindInvalidName
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindUnresolvedIdentifier:
		return "UnresolvedIdentifier"
	case KindLayoutMismatch:
		return "LayoutMismatch"
	case KindUnsupported:
		return "Unsupported"
	case KindRedeclared:
		return "Redeclared"
	case KindNotAssignable:
		return "NotAssignable"
	case KindMisplacedStatement:
		return "MisplacedStatement"
	case KindInvalidName:
		return "InvalidName"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrTypeMismatch         = &Error{Kind: KindTypeMismatch}
	ErrUnresolvedIdentifier = &Error{Kind: KindUnresolvedIdentifier}
	ErrLayoutMismatch       = &Error{Kind: KindLayoutMismatch}
	ErrUnsupported          = &Error{Kind: KindUnsupported}
	ErrRedeclared           = &Error{Kind: KindRedeclared}
	ErrNotAssignable        = &Error{Kind: KindNotAssignable}
	ErrMisplacedStatement   = &Error{Kind: KindMisplacedStatement}
	ErrInvalidName          = &Error{Kind: KindInvalidName}
)

// Error represents a graph error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Backend names the serializer that failed ("wgsl", "glsl 300 es").
	// Empty for construction errors.
	Backend string

	// Message provides details about the error.
	Message string

	// Node optionally identifies the offending node.
	Node *Node
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindUnsupported && e.Backend != "" {
		return fmt.Sprintf("unsupported in backend %s: %s", e.Backend, e.Message)
	}
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError creates a new error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Unsupported creates an error for a construct the backend cannot render.
func Unsupported(backend string, n *Node, format string, args ...any) *Error {
	return &Error{
		Kind:    KindUnsupported,
		Backend: backend,
		Message: fmt.Sprintf(format, args...),
		Node:    n,
	}
}

// Errors is a list of graph errors.
type Errors []*Error

// Error implements the error interface.
func (l Errors) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:", len(l))
	for _, e := range l {
		sb.WriteString("\n  ")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap returns the individual errors.
func (l Errors) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns l as an error, or nil if l is empty.
func (l Errors) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
