package vm

import (
	"errors"

	"github.com/nspcc-dev/michelson-go/pkg/crypto/hash"
	"github.com/nspcc-dev/michelson-go/pkg/crypto/keys"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

var (
	blake2b = hash.Blake2b256
	keccak  = hash.Keccak256
	sha256  = hash.Sha256
	sha3    = hash.Sha3
	sha512  = hash.Sha512
)

func hashWith(f func([]byte) []byte) handler {
	return func(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
		return result(stackitem.Make(f(bytesOf(ops.Items[0]))))
	}
}

func pack(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	b, err := stackitem.Serialize(ops.Items[0])
	if err != nil {
		if errors.Is(err, stackitem.ErrNotPackable) {
			return nil, wrapError(PackabilityViolation, err)
		}
		return nil, wrapError(TypeMismatch, err)
	}
	return result(stackitem.Make(b))
}

// unpack decodes packed data of the given type, malformed data gives None.
func unpack(_ *VM, instr *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	if !t.Has(stackitem.Packable) {
		return nil, newError(PackabilityViolation, "%s can't be unpacked", t)
	}
	it, err := stackitem.Deserialize(t, bytesOf(ops.Items[0]))
	if err != nil {
		return result(stackitem.NewNone(t))
	}
	return result(stackitem.NewSome(it))
}

func hashKey(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	k, err := keys.NewPublicKeyFromString(stringOf(ops.Items[0]))
	if err != nil {
		return nil, wrapError(TypeMismatch, err)
	}
	return result(stackitem.NewKeyHash(k.KeyHash()))
}
