package config

import (
	"testing"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := LoadFile("./testdata/missing.yml")
		require.Error(t, err)
	})
	t.Run("good", func(t *testing.T) {
		cfg, err := LoadFile("./testdata/michelson.good.yml")
		require.NoError(t, err)

		require.Equal(t, "debug", cfg.ApplicationConfiguration.LogLevel)
		require.True(t, cfg.ApplicationConfiguration.Prometheus.Enabled)
		require.Equal(t, []string{":2112", "localhost:2113"}, cfg.ApplicationConfiguration.Prometheus.GetAddresses())

		require.Equal(t, 100, cfg.VM.MaxNestingDepth)
		require.Equal(t, DefaultScriptCacheSize, cfg.VM.ScriptCacheSize)

		env := cfg.Environment
		require.Equal(t, int64(1000), env.Amount)
		require.Equal(t, int64(1600000000), env.Now)
		require.Equal(t, int64(42), env.Level)
		require.Equal(t, "KT18anmnvhqTsgqTwasxpLKYWcLJnGRX3m2D", env.Self)
		require.Equal(t, int64(10), env.VotingPowers["tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx"])
		require.Len(t, env.Contracts, 2)
		require.Equal(t, "nat", env.Contracts["KT18amZmM5W7qDWVt2pH6uj7sCEd3kbzLrHT"].Prim)
		require.Equal(t, "pair int string", env.Contracts["KT18g5SiBpZEhMtyW11tE35UN9EJy2vSb8rC"].String())
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadFile("./testdata/michelson.unknown.yml")
		require.Error(t, err)
	})
	t.Run("bad environment", func(t *testing.T) {
		_, err := LoadFile("./testdata/michelson.badenv.yml")
		require.ErrorContains(t, err, "Source")
	})
	t.Run("shipped", func(t *testing.T) {
		cfg, err := LoadFile("../../config/michelson.yml")
		require.NoError(t, err)
		require.Equal(t, Default().VM, cfg.VM)
		require.Equal(t, DefaultSelf, cfg.Environment.Self)
		require.Equal(t, DefaultSender, cfg.Environment.Source)
		require.False(t, cfg.ApplicationConfiguration.Pprof.Enabled)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, DefaultMaxNestingDepth, cfg.VM.MaxNestingDepth)
	require.Equal(t, "info", cfg.ApplicationConfiguration.LogLevel)
	require.False(t, cfg.ApplicationConfiguration.Prometheus.Enabled)
	require.Equal(t, DefaultChainID, cfg.Environment.ChainID)
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*Config){
		"log level":        func(c *Config) { c.ApplicationConfiguration.LogLevel = "loud" },
		"prometheus":       func(c *Config) { c.ApplicationConfiguration.Prometheus = BasicService{Enabled: true} },
		"pprof":            func(c *Config) { c.ApplicationConfiguration.Pprof = BasicService{Enabled: true} },
		"nesting depth":    func(c *Config) { c.VM.MaxNestingDepth = 0 },
		"cache size":       func(c *Config) { c.VM.ScriptCacheSize = -1 },
		"amount":           func(c *Config) { c.Environment.Amount = -1 },
		"chain id":         func(c *Config) { c.Environment.ChainID = "Net" },
		"self":             func(c *Config) { c.Environment.Self = DefaultSender },
		"sender":           func(c *Config) { c.Environment.Sender = "tz1" },
		"voting power key": func(c *Config) { c.Environment.VotingPowers = map[string]int64{"KT1": 1} },
		"voting power":     func(c *Config) { c.Environment.VotingPowers = map[string]int64{DefaultSender: -1} },
		"contract":         func(c *Config) { c.Environment.Contracts = map[string]*micheline.Node{DefaultSelf: nil} },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mod(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
