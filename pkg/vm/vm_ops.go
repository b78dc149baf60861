package vm

import (
	"math/big"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/opcode"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

func newHandlers() map[opcode.Opcode]handler {
	return map[opcode.Opcode]handler{
		opcode.ABS:   abs,
		opcode.ADD:   add,
		opcode.SUB:   sub,
		opcode.MUL:   mul,
		opcode.EDIV:  ediv,
		opcode.NEG:   neg,
		opcode.INT:   toInt,
		opcode.ISNAT: isNat,

		opcode.AND: and,
		opcode.OR:  or,
		opcode.XOR: xor,
		opcode.NOT: not,
		opcode.LSL: lsl,
		opcode.LSR: lsr,

		opcode.COMPARE: compare,
		opcode.EQ:      compareWith(func(c int) bool { return c == 0 }),
		opcode.NEQ:     compareWith(func(c int) bool { return c != 0 }),
		opcode.LT:      compareWith(func(c int) bool { return c < 0 }),
		opcode.LE:      compareWith(func(c int) bool { return c <= 0 }),
		opcode.GT:      compareWith(func(c int) bool { return c > 0 }),
		opcode.GE:      compareWith(func(c int) bool { return c >= 0 }),

		opcode.DUP:  dup,
		opcode.SWAP: swap,
		opcode.DIG:  dig,
		opcode.DUG:  dug,
		opcode.DROP: drop,
		opcode.DIP:  dip,
		opcode.PUSH: push,
		opcode.UNIT: unit,

		opcode.PAIR:   pair,
		opcode.UNPAIR: unpair,
		opcode.CAR:    car,
		opcode.CDR:    cdr,

		opcode.SOME:    some,
		opcode.NONE:    none,
		opcode.LEFT:    left,
		opcode.RIGHT:   right,
		opcode.IF_NONE: ifNone,
		opcode.IF_LEFT: ifLeft,

		opcode.NIL:            nilList,
		opcode.CONS:           cons,
		opcode.IF_CONS:        ifCons,
		opcode.SIZE:           size,
		opcode.CONCAT:         concat,
		opcode.MAP:            mapOver,
		opcode.ITER:           iter,
		opcode.EMPTY_SET:      emptySet,
		opcode.EMPTY_MAP:      emptyMap(stackitem.MapT),
		opcode.EMPTY_BIG_MAP:  emptyMap(stackitem.BigMapT),
		opcode.MEM:            mem,
		opcode.GET:            get,
		opcode.UPDATE:         update,
		opcode.GET_AND_UPDATE: getAndUpdate,
		opcode.SLICE:          slice,

		opcode.IF:        ifThen,
		opcode.LOOP:      loop,
		opcode.LOOP_LEFT: loopLeft,
		opcode.FAILWITH:  failWith,
		opcode.NEVER:     never,
		opcode.LAMBDA:    lambda,
		opcode.EXEC:      exec,
		opcode.APPLY:     apply,

		opcode.PACK:            pack,
		opcode.UNPACK:          unpack,
		opcode.BLAKE2B:         hashWith(blake2b),
		opcode.KECCAK:          hashWith(keccak),
		opcode.SHA256:          hashWith(sha256),
		opcode.SHA3:            hashWith(sha3),
		opcode.SHA512:          hashWith(sha512),
		opcode.HASH_KEY:        hashKey,
		opcode.CHECK_SIGNATURE: notImplemented,
		opcode.PAIRING_CHECK:   pairingCheck,

		opcode.AMOUNT:             amount,
		opcode.BALANCE:            balance,
		opcode.NOW:                now,
		opcode.LEVEL:              level,
		opcode.CHAIN_ID:           chainID,
		opcode.SENDER:             sender,
		opcode.SOURCE:             source,
		opcode.SELF:               self,
		opcode.SELF_ADDRESS:       selfAddress,
		opcode.TOTAL_VOTING_POWER: totalVotingPower,
		opcode.VOTING_POWER:       votingPower,

		opcode.ADDRESS:          addressOf,
		opcode.CONTRACT:         contract,
		opcode.IMPLICIT_ACCOUNT: implicitAccount,
		opcode.TRANSFER_TOKENS:  transferTokens,
		opcode.SET_DELEGATE:     setDelegate,
		opcode.CREATE_CONTRACT:  notImplemented,

		opcode.TICKET:       ticket,
		opcode.READ_TICKET:  readTicket,
		opcode.SPLIT_TICKET: splitTicket,
		opcode.JOIN_TICKETS: joinTickets,

		opcode.SAPLING_EMPTY_STATE:   notImplemented,
		opcode.SAPLING_VERIFY_UPDATE: notImplemented,
	}
}

// checkVariant rejects instruction forms that are known but unsupported
// before the operands are checked.
func checkVariant(op opcode.Opcode, instr *micheline.Node) error {
	switch op {
	case opcode.GET, opcode.UPDATE:
		if len(instr.Args) != 0 {
			return newError(NotImplemented, "comb access with %s %s", op, instr.Args[0])
		}
	}
	return nil
}

func result(items ...*stackitem.Item) ([]*stackitem.Item, error) {
	return items, nil
}

// countArg returns the numeric argument of the instruction or def if it's
// not given.
func countArg(instr *micheline.Node, def int) (int, error) {
	a := instr.Arg(0)
	if a == nil {
		return def, nil
	}
	if a.Type != micheline.IntNode {
		return 0, newError(InvalidDeclaration, "count expected, got %s", a.Type)
	}
	n, ok := a.Uint()
	if !ok {
		return 0, newError(InvalidDeclaration, "bad count %s", a)
	}
	return n, nil
}

// typeArg parses the i-th instruction argument as a type.
func typeArg(instr *micheline.Node, i int) (stackitem.Type, error) {
	a := instr.Arg(i)
	if a == nil {
		return stackitem.Type{}, newError(InvalidDeclaration, "missing type argument %d", i)
	}
	t, err := stackitem.TypeFromNode(a)
	if err != nil {
		return stackitem.Type{}, declarationError(err)
	}
	return t, nil
}

// The accessors below are only used for operands already checked by their
// kinds.

func integer(it *stackitem.Item) *big.Int {
	v, err := it.TryInteger()
	if err != nil {
		panic(err)
	}
	return v
}

func boolean(it *stackitem.Item) bool {
	v, err := it.TryBool()
	if err != nil {
		panic(err)
	}
	return v
}

func bytesOf(it *stackitem.Item) []byte {
	v, err := it.TryBytes()
	if err != nil {
		panic(err)
	}
	return v
}

func stringOf(it *stackitem.Item) string {
	v, err := it.TryString()
	if err != nil {
		panic(err)
	}
	return v
}
