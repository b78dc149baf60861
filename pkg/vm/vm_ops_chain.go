package vm

import (
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// Blockchain context opcodes, values come from the VM environment.

func amount(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewMutez(v.env.Amount))
}

func balance(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewMutez(v.env.Balance))
}

func now(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewTimestamp(v.env.Now))
}

func level(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewNat(v.env.Level))
}

func chainID(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewChainID(v.env.ChainID))
}

func sender(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewAddress(v.env.Sender))
}

func source(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewAddress(v.env.Source))
}

func self(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewContract(v.env.Self, v.env.SelfType))
}

func selfAddress(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewAddress(v.env.Self))
}

func totalVotingPower(v *VM, _ *micheline.Node, _ Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewNat(v.env.TotalVotingPower))
}

func votingPower(v *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewNat(v.env.VotingPower(stringOf(ops.Items[0]))))
}

func addressOf(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewAddress(stringOf(ops.Items[0])))
}

// contract returns Some contract if the address is known to take the given
// parameter type.
func contract(v *VM, instr *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, err := typeArg(instr, 0)
	if err != nil {
		return nil, err
	}
	addr := stringOf(ops.Items[0])
	if pt, ok := v.env.ContractType(addr); ok && pt.Equals(t) {
		return result(stackitem.NewSome(stackitem.NewContract(addr, t)))
	}
	return result(stackitem.NewNone(stackitem.NewType(stackitem.ContractT, t)))
}

func implicitAccount(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	return result(stackitem.NewContract(stringOf(ops.Items[0]), stackitem.Unit))
}

func transferTokens(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	param, amount, c := ops.Items[0], ops.Items[1], ops.Items[2]
	if pt := c.Type().Arg(0); !pt.Equals(param.Type()) {
		return nil, typesMismatch(pt, param.Type())
	}
	return result(stackitem.NewTransfer(param, amount, c))
}

var optionalKeyHash = stackitem.NewType(stackitem.OptionT, stackitem.KeyHash)

func setDelegate(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	d := ops.Items[0]
	if !d.Type().Equals(optionalKeyHash) {
		return nil, typesMismatch(optionalKeyHash, d.Type())
	}
	return result(stackitem.NewSetDelegate(d))
}
