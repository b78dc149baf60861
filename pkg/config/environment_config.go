package config

import (
	"fmt"

	"github.com/nspcc-dev/michelson-go/pkg/encoding/address"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
)

// Default environment values.
const (
	DefaultChainID = "NetXdQprcVkpaWU"
	DefaultSelf    = "KT18amZmM5W7qDWVt2pH6uj7sCEd3kbzLrHT"
	DefaultSender  = "tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx"
)

// Environment holds the values returned by the context instructions (AMOUNT,
// NOW, SENDER and others) as well as the known contracts.
type Environment struct {
	Amount  int64 `yaml:"Amount"`
	Balance int64 `yaml:"Balance"`
	// Now is the Unix timestamp, zero means the time of VM creation.
	Now              int64            `yaml:"Now"`
	Level            int64            `yaml:"Level"`
	ChainID          string           `yaml:"ChainID"`
	Self             string           `yaml:"Self"`
	Sender           string           `yaml:"Sender"`
	Source           string           `yaml:"Source"`
	TotalVotingPower int64            `yaml:"TotalVotingPower"`
	VotingPowers     map[string]int64 `yaml:"VotingPowers"`
	// Contracts maps originated contract addresses to their parameter types.
	Contracts map[string]*micheline.Node `yaml:"Contracts"`
}

// DefaultEnvironment returns the environment used when nothing is configured.
func DefaultEnvironment() Environment {
	return Environment{
		Level:   1,
		ChainID: DefaultChainID,
		Self:    DefaultSelf,
		Sender:  DefaultSender,
		Source:  DefaultSender,
	}
}

// Validate checks identifiers and amounts of the environment.
func (e Environment) Validate() error {
	for name, v := range map[string]int64{
		"Amount":           e.Amount,
		"Balance":          e.Balance,
		"Level":            e.Level,
		"TotalVotingPower": e.TotalVotingPower,
	} {
		if v < 0 {
			return fmt.Errorf("negative %s", name)
		}
	}
	if _, err := address.DecodeChainID(e.ChainID); err != nil {
		return fmt.Errorf("bad ChainID: %w", err)
	}
	if _, _, err := address.Decode(e.Self, address.KT1); err != nil {
		return fmt.Errorf("bad Self: %w", err)
	}
	for name, a := range map[string]string{"Sender": e.Sender, "Source": e.Source} {
		if _, err := address.DecodeAddress(a); err != nil {
			return fmt.Errorf("bad %s: %w", name, err)
		}
	}
	if !address.IsImplicit(e.Source) {
		return fmt.Errorf("bad Source: %s is not an implicit account", e.Source)
	}
	for kh, p := range e.VotingPowers {
		if _, err := address.DecodeKeyHash(kh); err != nil {
			return fmt.Errorf("bad VotingPowers key %q: %w", kh, err)
		}
		if p < 0 {
			return fmt.Errorf("negative voting power of %s", kh)
		}
	}
	for a, t := range e.Contracts {
		if _, _, err := address.Decode(a, address.KT1); err != nil {
			return fmt.Errorf("bad contract address %q: %w", a, err)
		}
		if t == nil {
			return fmt.Errorf("no parameter type for %s", a)
		}
	}
	return nil
}
