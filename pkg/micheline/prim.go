package micheline

// Prim is a primitive code as used by the binary encoding of Micheline
// expressions. Instructions, type keywords and data constructors all share
// this single numbering.
type Prim byte

// Data constructors and script sections. Instruction and type codes are
// defined in the opcode and stackitem packages respectively, they reuse the
// same numbering.
const (
	PrimParameter Prim = 0x00
	PrimStorage   Prim = 0x01
	PrimCode      Prim = 0x02
	PrimFalse     Prim = 0x03
	PrimElt       Prim = 0x04
	PrimLeft      Prim = 0x05
	PrimNone      Prim = 0x06
	PrimPair      Prim = 0x07
	PrimRight     Prim = 0x08
	PrimSome      Prim = 0x09
	PrimTrue      Prim = 0x0A
	PrimUnit      Prim = 0x0B
)

// primNames is indexed by primitive code.
var primNames = [...]string{
	"parameter", "storage", "code", "False", "Elt", "Left", "None", "Pair",
	"Right", "Some", "True", "Unit", "PACK", "UNPACK", "BLAKE2B", "SHA256",
	"SHA512", "ABS", "ADD", "AMOUNT", "AND", "BALANCE", "CAR", "CDR",
	"CHECK_SIGNATURE", "COMPARE", "CONCAT", "CONS", "CREATE_ACCOUNT", "CREATE_CONTRACT", "IMPLICIT_ACCOUNT", "DIP",
	"DROP", "DUP", "EDIV", "EMPTY_MAP", "EMPTY_SET", "EQ", "EXEC", "FAILWITH",
	"GE", "GET", "GT", "HASH_KEY", "IF", "IF_CONS", "IF_LEFT", "IF_NONE",
	"INT", "LAMBDA", "LE", "LEFT", "LOOP", "LSL", "LSR", "LT",
	"MAP", "MEM", "MUL", "NEG", "NEQ", "NIL", "NONE", "NOT",
	"NOW", "OR", "PAIR", "PUSH", "RIGHT", "SIZE", "SOME", "SOURCE",
	"SENDER", "SELF", "STEPS_TO_QUOTA", "SUB", "SWAP", "TRANSFER_TOKENS", "SET_DELEGATE", "UNIT",
	"UPDATE", "XOR", "ITER", "LOOP_LEFT", "ADDRESS", "CONTRACT", "ISNAT", "CAST",
	"RENAME", "bool", "contract", "int", "key", "key_hash", "lambda", "list",
	"map", "big_map", "nat", "option", "or", "pair", "set", "signature",
	"string", "bytes", "mutez", "timestamp", "unit", "operation", "address", "SLICE",
	"DIG", "DUG", "EMPTY_BIG_MAP", "APPLY", "chain_id", "CHAIN_ID", "LEVEL", "SELF_ADDRESS",
	"never", "NEVER", "UNPAIR", "VOTING_POWER", "TOTAL_VOTING_POWER", "KECCAK", "SHA3", "PAIRING_CHECK",
	"bls12_381_g1", "bls12_381_g2", "bls12_381_fr", "sapling_state", "sapling_transaction", "SAPLING_EMPTY_STATE", "SAPLING_VERIFY_UPDATE", "ticket",
	"TICKET", "READ_TICKET", "SPLIT_TICKET", "JOIN_TICKETS", "GET_AND_UPDATE",
}

var primCodes = func() map[string]Prim {
	m := make(map[string]Prim, len(primNames))
	for i, n := range primNames {
		m[n] = Prim(i)
	}
	return m
}()

// String implements the fmt.Stringer interface.
func (p Prim) String() string {
	if int(p) < len(primNames) {
		return primNames[p]
	}
	return "UNKNOWN"
}

// IsValid checks whether p is a known primitive.
func (p Prim) IsValid() bool {
	return int(p) < len(primNames)
}

// PrimFromString returns the primitive with the given name.
func PrimFromString(s string) (Prim, bool) {
	p, ok := primCodes[s]
	return p, ok
}
