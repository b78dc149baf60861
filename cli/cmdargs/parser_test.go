package cmdargs

import (
	"flag"
	"math/big"
	"testing"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func TestParseNode(t *testing.T) {
	loader := micheline.NewLoader(4)
	testCases := []struct {
		in  string
		out *micheline.Node
	}{
		{"42", micheline.NewInt64(42)},
		{" -7 ", micheline.NewInt64(-7)},
		{"0x0102", micheline.NewBytes([]byte{1, 2})},
		{"0x", micheline.NewBytes([]byte{})},
		{`"a b"`, micheline.NewString("a b")},
		{"nat", micheline.NewPrim("nat")},
		{`{"prim":"Some","args":[{"int":"1"}]}`, micheline.NewPrim("Some", micheline.NewInt(big.NewInt(1)))},
		{"prim: pair\nargs: [int, string]", micheline.NewPrim("pair", micheline.NewPrim("int"), micheline.NewPrim("string"))},
		{`[{"prim":"UNIT"},{"prim":"DROP"}]`, micheline.NewSeq(micheline.NewPrim("UNIT"), micheline.NewPrim("DROP"))},
	}
	for _, tc := range testCases {
		actual, err := ParseNode(loader, tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.out.String(), actual.String(), tc.in)
	}
	errorCases := []string{
		"",
		"0xzz",
		`"unterminated`,
		"{prim: [}",
	}
	for _, s := range errorCases {
		_, err := ParseNode(loader, s)
		require.Error(t, err, s)
	}
}

func TestEnsureNone(t *testing.T) {
	set := flag.NewFlagSet("flagSet", flag.ContinueOnError)
	ctx := cli.NewContext(cli.NewApp(), set, nil)
	require.Nil(t, EnsureNone(ctx))

	set = flag.NewFlagSet("flagSet", flag.ContinueOnError)
	require.NoError(t, set.Parse([]string{"something"}))
	ctx = cli.NewContext(cli.NewApp(), set, nil)
	require.NotNil(t, EnsureNone(ctx))
}
