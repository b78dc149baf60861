package vm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_String(t *testing.T) {
	require.Equal(t, "StackUnderflow", StackUnderflow.String())
	require.Equal(t, "DepthExceeded", DepthExceeded.String())
	require.Equal(t, "ErrorKind(100)", ErrorKind(100).String())
}

func TestError_Is(t *testing.T) {
	for k := StackUnderflow; k <= DepthExceeded; k++ {
		e := &Error{Kind: k}
		require.ErrorIs(t, e, sentinels[k])
		require.ErrorIs(t, fmt.Errorf("wrapped: %w", e), sentinels[k])
		kind, ok := KindOf(fmt.Errorf("wrapped: %w", e))
		require.True(t, ok)
		require.Equal(t, k, kind)
	}
	_, ok := KindOf(errors.New("other"))
	require.False(t, ok)
}

func TestError_Error(t *testing.T) {
	e := &Error{
		Kind:     TypeMismatch,
		Op:       "ADD",
		Expected: [][]stackitem.Kind{{stackitem.NatT, stackitem.NatT}, {stackitem.AnyT}},
		Actual:   []stackitem.Kind{stackitem.StringT},
		Depth:    1,
	}
	require.Equal(t, "ADD: type mismatch: expected [nat nat] or [any], got [string] (depth 1)", e.Error())

	e = &Error{Kind: ExplicitFailure, Op: "FAILWITH", Value: stackitem.NewString("boom")}
	require.Equal(t, `FAILWITH: explicit failure: "boom"`, e.Error())

	cause := errors.New("bad")
	e = wrapError(InvalidDeclaration, cause)
	require.Equal(t, "invalid declaration: bad", e.Error())
	require.Equal(t, cause, e.Cause())

	require.Equal(t, "arithmetic overflow: mutez overflow", newError(ArithmeticOverflow, "mutez overflow").Error())
}

func TestDeclarationError(t *testing.T) {
	require.Equal(t, ComparabilityViolation, declarationError(stackitem.ErrNotComparable).Kind)
	require.Equal(t, TypeMismatch, declarationError(stackitem.ErrInvalidValue).Kind)
	require.Equal(t, InvalidDeclaration, declarationError(stackitem.ErrInvalidType).Kind)
}
