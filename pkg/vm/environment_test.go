package vm

import (
	"math/big"
	"testing"
	"time"

	"github.com/nspcc-dev/michelson-go/pkg/config"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestNewEnvironment(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		before := time.Now().Unix()
		env := DefaultEnvironment()
		require.Equal(t, config.DefaultSelf, env.Self)
		require.Equal(t, config.DefaultSender, env.Sender)
		require.Equal(t, config.DefaultSender, env.Source)
		require.Equal(t, []byte{0x7a, 0x06, 0xa7, 0x70}, env.ChainID)
		require.Equal(t, int64(1), env.Level.Int64())
		require.GreaterOrEqual(t, env.Now.Int64(), before)
		require.True(t, env.SelfType.Equals(stackitem.Unit))
	})
	t.Run("configured", func(t *testing.T) {
		env := testEnvironment(t)
		require.Equal(t, int64(10), env.Amount.Int64())
		require.Equal(t, int64(1600000000), env.Now.Int64())
		require.True(t, env.Contracts[testKT1].Equals(stackitem.Nat))
	})
	t.Run("invalid", func(t *testing.T) {
		cfg := config.DefaultEnvironment()
		cfg.Amount = -1
		_, err := NewEnvironment(cfg)
		require.Error(t, err)

		cfg = config.DefaultEnvironment()
		cfg.Contracts = map[string]*micheline.Node{testKT1: prim("foo")}
		_, err = NewEnvironment(cfg)
		require.Error(t, err)
	})
}

func TestEnvironment_VotingPower(t *testing.T) {
	env := testEnvironment(t)
	p := env.VotingPower(testKeyHash)
	require.Equal(t, int64(100), p.Int64())
	p.Add(p, big.NewInt(1))
	require.Equal(t, int64(100), env.VotingPower(testKeyHash).Int64())
	require.Equal(t, 0, env.VotingPower("tz1Ke2h7sDdakHJQh8WX4Z372du1KChsksyU").Sign())
}

func TestEnvironment_ContractType(t *testing.T) {
	env := testEnvironment(t)
	env.SelfType = stackitem.Int
	env.Contracts[testKT1+"%deposit"] = stackitem.Mutez

	for _, tc := range []struct {
		addr string
		typ  stackitem.Type
		ok   bool
	}{
		{testKeyHash, stackitem.Unit, true},
		{testKeyHash + "%default", stackitem.Unit, true},
		{config.DefaultSelf, stackitem.Int, true},
		{testKT1, stackitem.Nat, true},
		{testKT1 + "%deposit", stackitem.Mutez, true},
		{testKT1 + "%withdraw", stackitem.Type{}, false},
		{unknownKT1, stackitem.Type{}, false},
	} {
		t.Run(tc.addr, func(t *testing.T) {
			typ, ok := env.ContractType(tc.addr)
			require.Equal(t, tc.ok, ok)
			if ok {
				require.True(t, tc.typ.Equals(typ), "got %s", typ)
			}
		})
	}
}
