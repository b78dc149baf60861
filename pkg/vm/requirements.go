package vm

import (
	"github.com/nspcc-dev/michelson-go/pkg/vm/opcode"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// requirement describes the operands an instruction takes from the top of the
// stack. Kinds are listed top first, stackitem.AnyT matches anything.
type requirement struct {
	defined    bool
	none       bool
	overloaded bool
	candidates [][]stackitem.Kind
}

func noOperands() requirement {
	return requirement{defined: true, none: true}
}

func fixed(kinds ...stackitem.Kind) requirement {
	return requirement{defined: true, candidates: [][]stackitem.Kind{kinds}}
}

// overloaded candidates are tried in order, the first one matching wins.
func overloaded(candidates ...[]stackitem.Kind) requirement {
	return requirement{defined: true, overloaded: true, candidates: candidates}
}

func sig(kinds ...stackitem.Kind) []stackitem.Kind {
	return kinds
}

// arity is the number of elements that must be present on the stack.
func (r requirement) arity() int {
	var n int
	for _, c := range r.candidates {
		if len(c) > n {
			n = len(c)
		}
	}
	return n
}

const (
	anyT       = stackitem.AnyT
	intT       = stackitem.IntT
	natT       = stackitem.NatT
	mutezT     = stackitem.MutezT
	timestampT = stackitem.TimestampT
	boolT      = stackitem.BoolT
	stringT    = stackitem.StringT
	bytesT     = stackitem.BytesT
	listT      = stackitem.ListT
	setT       = stackitem.SetT
	mapT       = stackitem.MapT
	bigMapT    = stackitem.BigMapT
	optionT    = stackitem.OptionT
	orT        = stackitem.OrT
	pairT      = stackitem.PairT
	lambdaT    = stackitem.LambdaT
	contractT  = stackitem.ContractT
	addressT   = stackitem.AddressT
	keyT       = stackitem.KeyT
	keyHashT   = stackitem.KeyHashT
	signatureT = stackitem.SignatureT
	ticketT    = stackitem.TicketT
	g1T        = stackitem.BLS12381G1T
	g2T        = stackitem.BLS12381G2T
	frT        = stackitem.BLS12381FrT
)

// requirements is indexed by opcode, undefined entries belong to unknown
// instructions.
var requirements = [256]requirement{
	opcode.ABS:   fixed(intT),
	opcode.EQ:    fixed(intT),
	opcode.GE:    fixed(intT),
	opcode.GT:    fixed(intT),
	opcode.ISNAT: fixed(intT),
	opcode.LE:    fixed(intT),
	opcode.LT:    fixed(intT),
	opcode.NEQ:   fixed(intT),
	opcode.ADD: overloaded(
		sig(natT, natT), sig(natT, intT), sig(intT, natT), sig(intT, intT),
		sig(timestampT, intT), sig(intT, timestampT), sig(mutezT, mutezT),
		sig(g1T, g1T), sig(g2T, g2T), sig(frT, frT),
	),
	opcode.ADDRESS: fixed(contractT),

	opcode.AMOUNT:              noOperands(),
	opcode.BALANCE:             noOperands(),
	opcode.CHAIN_ID:            noOperands(),
	opcode.CREATE_CONTRACT:     noOperands(),
	opcode.DIG:                 noOperands(),
	opcode.DIP:                 noOperands(),
	opcode.DROP:                noOperands(),
	opcode.DUG:                 noOperands(),
	opcode.DUP:                 noOperands(),
	opcode.EMPTY_BIG_MAP:       noOperands(),
	opcode.EMPTY_MAP:           noOperands(),
	opcode.EMPTY_SET:           noOperands(),
	opcode.LAMBDA:              noOperands(),
	opcode.LEVEL:               noOperands(),
	opcode.NIL:                 noOperands(),
	opcode.NONE:                noOperands(),
	opcode.NOW:                 noOperands(),
	opcode.PUSH:                noOperands(),
	opcode.SAPLING_EMPTY_STATE: noOperands(),
	opcode.SELF:                noOperands(),
	opcode.SELF_ADDRESS:        noOperands(),
	opcode.SENDER:              noOperands(),
	opcode.SOURCE:              noOperands(),
	opcode.TOTAL_VOTING_POWER:  noOperands(),
	opcode.UNIT:                noOperands(),

	opcode.APPLY: fixed(anyT, lambdaT),
	opcode.AND:   overloaded(sig(boolT, boolT), sig(natT, natT), sig(intT, natT)),

	opcode.BLAKE2B: fixed(bytesT),
	opcode.KECCAK:  fixed(bytesT),
	opcode.SHA256:  fixed(bytesT),
	opcode.SHA3:    fixed(bytesT),
	opcode.SHA512:  fixed(bytesT),

	opcode.CAR:          fixed(pairT),
	opcode.CDR:          fixed(pairT),
	opcode.JOIN_TICKETS: fixed(pairT),

	opcode.CHECK_SIGNATURE: fixed(keyT, signatureT, bytesT),
	opcode.COMPARE:         fixed(anyT, anyT),
	opcode.CONCAT:          overloaded(sig(stringT, stringT), sig(bytesT, bytesT), sig(listT)),
	opcode.CONS:            fixed(anyT, listT),
	opcode.CONTRACT:        fixed(addressT),
	opcode.EDIV: overloaded(
		sig(natT, natT), sig(natT, intT), sig(intT, natT), sig(intT, intT),
		sig(mutezT, natT), sig(mutezT, mutezT),
	),
	opcode.EXEC:           fixed(anyT, lambdaT),
	opcode.FAILWITH:       fixed(anyT),
	opcode.GET:            overloaded(sig(anyT, mapT), sig(anyT, bigMapT)),
	opcode.GET_AND_UPDATE: overloaded(sig(anyT, optionT, mapT), sig(anyT, optionT, bigMapT)),
	opcode.HASH_KEY:       fixed(keyT),

	opcode.IF:            fixed(boolT),
	opcode.LOOP:          fixed(boolT),
	opcode.IF_CONS:       fixed(listT),
	opcode.PAIRING_CHECK: fixed(listT),
	opcode.IF_LEFT:       fixed(orT),
	opcode.LOOP_LEFT:     fixed(orT),
	opcode.IF_NONE:       fixed(optionT),
	opcode.SET_DELEGATE:  fixed(optionT),

	opcode.IMPLICIT_ACCOUNT: fixed(keyHashT),
	opcode.VOTING_POWER:     fixed(keyHashT),

	opcode.INT:  overloaded(sig(natT), sig(frT)),
	opcode.ITER: overloaded(sig(listT), sig(setT), sig(mapT)),
	opcode.LSL:  fixed(natT, natT),
	opcode.LSR:  fixed(natT, natT),
	opcode.MAP:  overloaded(sig(listT), sig(mapT)),
	opcode.MEM:  overloaded(sig(anyT, setT), sig(anyT, mapT), sig(anyT, bigMapT)),
	opcode.MUL: overloaded(
		sig(natT, natT), sig(natT, intT), sig(intT, natT), sig(intT, intT),
		sig(mutezT, natT), sig(natT, mutezT),
		sig(g1T, frT), sig(g2T, frT), sig(frT, frT),
		sig(natT, frT), sig(intT, frT), sig(frT, natT), sig(frT, intT),
	),
	opcode.NEG:   overloaded(sig(natT), sig(intT), sig(g1T), sig(g2T), sig(frT)),
	opcode.NEVER: fixed(stackitem.NeverT),
	opcode.NOT:   overloaded(sig(boolT), sig(natT), sig(intT)),
	opcode.OR:    overloaded(sig(boolT, boolT), sig(natT, natT)),
	opcode.XOR:   overloaded(sig(boolT, boolT), sig(natT, natT)),

	opcode.PACK:  fixed(anyT),
	opcode.LEFT:  fixed(anyT),
	opcode.RIGHT: fixed(anyT),
	opcode.SOME:  fixed(anyT),

	opcode.PAIR:   fixed(anyT, anyT),
	opcode.SWAP:   fixed(anyT, anyT),
	opcode.UNPAIR: fixed(pairT),

	opcode.READ_TICKET:           fixed(ticketT),
	opcode.SAPLING_VERIFY_UPDATE: fixed(stackitem.SaplingTransactionT, stackitem.SaplingStateT),
	opcode.SIZE:                  overloaded(sig(setT), sig(mapT), sig(listT), sig(stringT), sig(bytesT)),
	opcode.SLICE:                 overloaded(sig(natT, natT, stringT), sig(natT, natT, bytesT)),
	opcode.SPLIT_TICKET:          fixed(ticketT, pairT),
	opcode.SUB: overloaded(
		sig(natT, natT), sig(natT, intT), sig(intT, natT), sig(intT, intT),
		sig(timestampT, intT), sig(timestampT, timestampT), sig(mutezT, mutezT),
	),
	opcode.TICKET:          fixed(anyT, natT),
	opcode.TRANSFER_TOKENS: fixed(anyT, mutezT, contractT),
	opcode.UNPACK:          fixed(bytesT),
	opcode.UPDATE: overloaded(
		sig(anyT, boolT, setT), sig(anyT, optionT, mapT), sig(anyT, optionT, bigMapT),
	),
}
