package vm

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/nspcc-dev/michelson-go/pkg/config"
	"github.com/nspcc-dev/michelson-go/pkg/encoding/address"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// Environment is the execution context of the contract.
type Environment struct {
	Amount  *big.Int
	Balance *big.Int
	// Now is the Unix timestamp returned by NOW.
	Now     *big.Int
	Level   *big.Int
	ChainID []byte
	// Self is the address of the running contract, it's also the ticketer of
	// tickets created by TICKET.
	Self string
	// SelfType is the parameter type of the running contract.
	SelfType         stackitem.Type
	Sender           string
	Source           string
	TotalVotingPower *big.Int
	// VotingPowers maps key hashes to their voting power.
	VotingPowers map[string]*big.Int
	// Contracts maps originated contract addresses to their parameter types.
	Contracts map[string]stackitem.Type
}

// DefaultEnvironment returns the environment of the default configuration.
func DefaultEnvironment() *Environment {
	env, err := NewEnvironment(config.DefaultEnvironment())
	if err != nil {
		panic(err)
	}
	return env
}

// NewEnvironment converts the configured environment.
func NewEnvironment(cfg config.Environment) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	chainID, _ := address.DecodeChainID(cfg.ChainID)
	now := cfg.Now
	if now == 0 {
		now = time.Now().Unix()
	}
	env := &Environment{
		Amount:           big.NewInt(cfg.Amount),
		Balance:          big.NewInt(cfg.Balance),
		Now:              big.NewInt(now),
		Level:            big.NewInt(cfg.Level),
		ChainID:          chainID,
		Self:             cfg.Self,
		SelfType:         stackitem.Unit,
		Sender:           cfg.Sender,
		Source:           cfg.Source,
		TotalVotingPower: big.NewInt(cfg.TotalVotingPower),
		VotingPowers:     make(map[string]*big.Int, len(cfg.VotingPowers)),
		Contracts:        make(map[string]stackitem.Type, len(cfg.Contracts)),
	}
	for kh, p := range cfg.VotingPowers {
		env.VotingPowers[kh] = big.NewInt(p)
	}
	for a, n := range cfg.Contracts {
		t, err := stackitem.TypeFromNode(n)
		if err != nil {
			return nil, fmt.Errorf("bad parameter type of %s: %w", a, err)
		}
		env.Contracts[a] = t
	}
	return env, nil
}

// VotingPower returns the voting power of the key hash, zero for unknown
// ones.
func (e *Environment) VotingPower(keyHash string) *big.Int {
	if p, ok := e.VotingPowers[keyHash]; ok {
		return new(big.Int).Set(p)
	}
	return new(big.Int)
}

// ContractType returns the parameter type of the contract at the address.
// Implicit accounts take unit, the running contract takes its own parameter.
func (e *Environment) ContractType(addr string) (stackitem.Type, bool) {
	if i := strings.IndexByte(addr, '%'); i >= 0 {
		if addr[i+1:] != "default" {
			t, ok := e.Contracts[addr]
			return t, ok
		}
		addr = addr[:i]
	}
	switch {
	case address.IsImplicit(addr):
		return stackitem.Unit, true
	case addr == e.Self:
		return e.SelfType, true
	default:
		t, ok := e.Contracts[addr]
		return t, ok
	}
}
