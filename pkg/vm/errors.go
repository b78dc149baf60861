package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// ErrorKind is the category of the execution failure.
type ErrorKind byte

// Execution failure categories.
const (
	StackUnderflow ErrorKind = iota
	TypeMismatch
	UnknownInstruction
	InvalidDeclaration
	ComparabilityViolation
	PackabilityViolation
	ExplicitFailure
	NotImplemented
	ArithmeticOverflow
	DepthExceeded
)

// Sentinel errors matching every ErrorKind, use errors.Is to check the kind
// of the error returned from Execute.
var (
	ErrStackUnderflow         = errors.New("stack underflow")
	ErrTypeMismatch           = errors.New("type mismatch")
	ErrUnknownInstruction     = errors.New("unknown instruction")
	ErrInvalidDeclaration     = errors.New("invalid declaration")
	ErrComparabilityViolation = errors.New("comparability violation")
	ErrPackabilityViolation   = errors.New("packability violation")
	ErrExplicitFailure        = errors.New("explicit failure")
	ErrNotImplemented         = errors.New("not implemented")
	ErrArithmeticOverflow     = errors.New("arithmetic overflow")
	ErrDepthExceeded          = errors.New("nesting depth exceeded")
)

var sentinels = [...]error{
	StackUnderflow:         ErrStackUnderflow,
	TypeMismatch:           ErrTypeMismatch,
	UnknownInstruction:     ErrUnknownInstruction,
	InvalidDeclaration:     ErrInvalidDeclaration,
	ComparabilityViolation: ErrComparabilityViolation,
	PackabilityViolation:   ErrPackabilityViolation,
	ExplicitFailure:        ErrExplicitFailure,
	NotImplemented:         ErrNotImplemented,
	ArithmeticOverflow:     ErrArithmeticOverflow,
	DepthExceeded:          ErrDepthExceeded,
}

// String implements the fmt.Stringer interface.
func (k ErrorKind) String() string {
	switch k {
	case StackUnderflow:
		return "StackUnderflow"
	case TypeMismatch:
		return "TypeMismatch"
	case UnknownInstruction:
		return "UnknownInstruction"
	case InvalidDeclaration:
		return "InvalidDeclaration"
	case ComparabilityViolation:
		return "ComparabilityViolation"
	case PackabilityViolation:
		return "PackabilityViolation"
	case ExplicitFailure:
		return "ExplicitFailure"
	case NotImplemented:
		return "NotImplemented"
	case ArithmeticOverflow:
		return "ArithmeticOverflow"
	case DepthExceeded:
		return "DepthExceeded"
	default:
		return fmt.Sprintf("ErrorKind(%d)", byte(k))
	}
}

// Error is the failure of instruction execution. It aborts the whole run, the
// stack is left in whatever state the failing instruction found it.
type Error struct {
	Kind ErrorKind
	// Op is the name of the failed instruction.
	Op string
	// Expected holds the candidate signatures for operand check failures.
	Expected [][]stackitem.Kind
	// Actual holds the kinds found on top of the stack.
	Actual []stackitem.Kind
	// Depth is the stack depth at the moment of failure.
	Depth int
	// Value is the FAILWITH operand.
	Value *stackitem.Item

	msg   string
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(sentinels[e.Kind].Error())
	if e.msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.msg)
	}
	if len(e.Expected) != 0 {
		sb.WriteString(": expected ")
		for i := range e.Expected {
			if i != 0 {
				sb.WriteString(" or ")
			}
			writeKinds(&sb, e.Expected[i])
		}
		sb.WriteString(", got ")
		writeKinds(&sb, e.Actual)
		fmt.Fprintf(&sb, " (depth %d)", e.Depth)
	}
	if e.Value != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Value.String())
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}
	return sb.String()
}

func writeKinds(sb *strings.Builder, kinds []stackitem.Kind) {
	sb.WriteByte('[')
	for i, k := range kinds {
		if i != 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k.String())
	}
	sb.WriteByte(']')
}

// Unwrap returns the sentinel error of the kind.
func (e *Error) Unwrap() error {
	return sentinels[e.Kind]
}

// Cause returns the underlying error that led to this one if any.
func (e *Error) Cause() error {
	return e.cause
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, cause: err}
}

func mismatch(format string, args ...any) *Error {
	return newError(TypeMismatch, format, args...)
}

func typesMismatch(expected, actual stackitem.Type) *Error {
	return mismatch("expected %s, got %s", expected, actual)
}

// declarationError converts type and value parsing failures of instruction
// arguments.
func declarationError(err error) *Error {
	switch {
	case errors.Is(err, stackitem.ErrNotComparable):
		return wrapError(ComparabilityViolation, err)
	case errors.Is(err, stackitem.ErrInvalidValue):
		return wrapError(TypeMismatch, err)
	default:
		return wrapError(InvalidDeclaration, err)
	}
}

// KindOf returns the kind of the execution error, ok is false for errors
// that don't come from the VM.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
