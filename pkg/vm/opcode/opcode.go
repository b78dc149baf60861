package opcode

import (
	"fmt"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
)

// Opcode represents a single instruction of the virtual machine. Its value is
// the binary primitive code of the instruction.
type Opcode byte

// Viable list of supported instruction constants.
const (
	// Arithmetic
	ABS   Opcode = 0x11
	ADD   Opcode = 0x12
	SUB   Opcode = 0x4B
	MUL   Opcode = 0x3A
	EDIV  Opcode = 0x22
	NEG   Opcode = 0x3B
	INT   Opcode = 0x30
	ISNAT Opcode = 0x56

	// Bitwise and boolean logic
	AND Opcode = 0x14
	OR  Opcode = 0x41
	XOR Opcode = 0x51
	NOT Opcode = 0x3F
	LSL Opcode = 0x35
	LSR Opcode = 0x36

	// Comparison
	COMPARE Opcode = 0x19
	EQ      Opcode = 0x25
	NEQ     Opcode = 0x3C
	LT      Opcode = 0x37
	LE      Opcode = 0x32
	GT      Opcode = 0x2A
	GE      Opcode = 0x28

	// Stack manipulation
	DUP  Opcode = 0x21
	SWAP Opcode = 0x4C
	DIG  Opcode = 0x70
	DUG  Opcode = 0x71
	DROP Opcode = 0x20
	DIP  Opcode = 0x1F
	PUSH Opcode = 0x43
	UNIT Opcode = 0x4F

	// Pairs
	PAIR   Opcode = 0x42
	UNPAIR Opcode = 0x7A
	CAR    Opcode = 0x16
	CDR    Opcode = 0x17

	// Options and unions
	SOME    Opcode = 0x46
	NONE    Opcode = 0x3E
	LEFT    Opcode = 0x33
	RIGHT   Opcode = 0x44
	IF_NONE Opcode = 0x2F
	IF_LEFT Opcode = 0x2E

	// Containers
	NIL            Opcode = 0x3D
	CONS           Opcode = 0x1B
	IF_CONS        Opcode = 0x2D
	SIZE           Opcode = 0x45
	CONCAT         Opcode = 0x1A
	MAP            Opcode = 0x38
	ITER           Opcode = 0x52
	EMPTY_SET      Opcode = 0x24
	EMPTY_MAP      Opcode = 0x23
	EMPTY_BIG_MAP  Opcode = 0x72
	MEM            Opcode = 0x39
	GET            Opcode = 0x29
	UPDATE         Opcode = 0x50
	GET_AND_UPDATE Opcode = 0x8C
	SLICE          Opcode = 0x6F

	// Control flow
	IF        Opcode = 0x2C
	LOOP      Opcode = 0x34
	LOOP_LEFT Opcode = 0x53
	FAILWITH  Opcode = 0x27
	NEVER     Opcode = 0x79
	LAMBDA    Opcode = 0x31
	EXEC      Opcode = 0x26
	APPLY     Opcode = 0x73

	// Serialization and cryptography
	PACK            Opcode = 0x0C
	UNPACK          Opcode = 0x0D
	BLAKE2B         Opcode = 0x0E
	KECCAK          Opcode = 0x7D
	SHA256          Opcode = 0x0F
	SHA3            Opcode = 0x7E
	SHA512          Opcode = 0x10
	HASH_KEY        Opcode = 0x2B
	CHECK_SIGNATURE Opcode = 0x18
	PAIRING_CHECK   Opcode = 0x7F

	// Blockchain context
	AMOUNT             Opcode = 0x13
	BALANCE            Opcode = 0x15
	NOW                Opcode = 0x40
	LEVEL              Opcode = 0x76
	CHAIN_ID           Opcode = 0x75
	SENDER             Opcode = 0x48
	SOURCE             Opcode = 0x47
	SELF               Opcode = 0x49
	SELF_ADDRESS       Opcode = 0x77
	TOTAL_VOTING_POWER Opcode = 0x7C
	VOTING_POWER       Opcode = 0x7B

	// Contracts and operations
	ADDRESS          Opcode = 0x54
	CONTRACT         Opcode = 0x55
	IMPLICIT_ACCOUNT Opcode = 0x1E
	TRANSFER_TOKENS  Opcode = 0x4D
	SET_DELEGATE     Opcode = 0x4E
	CREATE_CONTRACT  Opcode = 0x1D

	// Tickets
	TICKET       Opcode = 0x88
	READ_TICKET  Opcode = 0x89
	SPLIT_TICKET Opcode = 0x8A
	JOIN_TICKETS Opcode = 0x8B

	// Sapling
	SAPLING_EMPTY_STATE   Opcode = 0x85
	SAPLING_VERIFY_UPDATE Opcode = 0x86
)

var opcodes = map[Opcode]bool{
	ABS: true, ADD: true, SUB: true, MUL: true, EDIV: true, NEG: true, INT: true,
	ISNAT: true, AND: true, OR: true, XOR: true, NOT: true, LSL: true, LSR: true,
	COMPARE: true, EQ: true, NEQ: true, LT: true, LE: true, GT: true, GE: true,
	DUP: true, SWAP: true, DIG: true, DUG: true, DROP: true, DIP: true,
	PUSH: true, UNIT: true, PAIR: true, UNPAIR: true, CAR: true, CDR: true,
	SOME: true, NONE: true, LEFT: true, RIGHT: true, IF_NONE: true, IF_LEFT: true,
	NIL: true, CONS: true, IF_CONS: true, SIZE: true, CONCAT: true, MAP: true,
	ITER: true, EMPTY_SET: true, EMPTY_MAP: true, EMPTY_BIG_MAP: true, MEM: true,
	GET: true, UPDATE: true, GET_AND_UPDATE: true, SLICE: true, IF: true,
	LOOP: true, LOOP_LEFT: true, FAILWITH: true, NEVER: true, LAMBDA: true,
	EXEC: true, APPLY: true, PACK: true, UNPACK: true, BLAKE2B: true,
	KECCAK: true, SHA256: true, SHA3: true, SHA512: true, HASH_KEY: true,
	CHECK_SIGNATURE: true, PAIRING_CHECK: true, AMOUNT: true, BALANCE: true,
	NOW: true, LEVEL: true, CHAIN_ID: true, SENDER: true, SOURCE: true,
	SELF: true, SELF_ADDRESS: true, TOTAL_VOTING_POWER: true, VOTING_POWER: true,
	ADDRESS: true, CONTRACT: true, IMPLICIT_ACCOUNT: true, TRANSFER_TOKENS: true,
	SET_DELEGATE: true, CREATE_CONTRACT: true, TICKET: true, READ_TICKET: true,
	SPLIT_TICKET: true, JOIN_TICKETS: true, SAPLING_EMPTY_STATE: true,
	SAPLING_VERIFY_UPDATE: true,
}

// String implements the fmt.Stringer interface.
func (o Opcode) String() string {
	if !IsValid(o) {
		return fmt.Sprintf("Opcode(%d)", byte(o))
	}
	return micheline.Prim(o).String()
}

// FromString converts string representation to an opcode itself.
func FromString(s string) (Opcode, error) {
	p, ok := micheline.PrimFromString(s)
	if !ok || !IsValid(Opcode(p)) {
		return 0, fmt.Errorf("unknown opcode: %s", s)
	}
	return Opcode(p), nil
}

// IsValid returns true if the opcode passed is valid (defined in the VM).
func IsValid(op Opcode) bool {
	return opcodes[op]
}
