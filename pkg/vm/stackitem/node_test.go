package stackitem

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/stretchr/testify/require"
)

func fromJSON(t *testing.T, typ, value string) (*Item, error) {
	tn, err := micheline.ParseJSON([]byte(typ))
	require.NoError(t, err)
	ty, err := TypeFromNode(tn)
	require.NoError(t, err)
	vn, err := micheline.ParseJSON([]byte(value))
	require.NoError(t, err)
	return FromNode(ty, vn)
}

func TestFromNode(t *testing.T) {
	testCases := []struct {
		typ, value, expected string
	}{
		{`{"prim":"int"}`, `{"int":"-5"}`, `-5`},
		{`{"prim":"nat"}`, `{"int":"5"}`, `5`},
		{`{"prim":"mutez"}`, `{"int":"9223372036854775807"}`, `9223372036854775807`},
		{`{"prim":"string"}`, `{"string":"abc"}`, `"abc"`},
		{`{"prim":"bytes"}`, `{"bytes":"cafe"}`, `0xcafe`},
		{`{"prim":"bool"}`, `{"prim":"True"}`, `True`},
		{`{"prim":"unit"}`, `{"prim":"Unit"}`, `Unit`},
		{`{"prim":"timestamp"}`, `{"string":"1970-01-01T00:01:40Z"}`, `"1970-01-01T00:01:40Z"`},
		{`{"prim":"timestamp"}`, `{"int":"100"}`, `"1970-01-01T00:01:40Z"`},
		{`{"prim":"pair","args":[{"prim":"nat"},{"prim":"int"},{"prim":"string"}]}`,
			`{"prim":"Pair","args":[{"int":"1"},{"int":"2"},{"string":"x"}]}`, `Pair 1 (Pair 2 "x")`},
		{`{"prim":"pair","args":[{"prim":"nat"},{"prim":"int"}]}`, `[{"int":"1"},{"int":"2"}]`, `Pair 1 2`},
		{`{"prim":"option","args":[{"prim":"nat"}]}`, `{"prim":"Some","args":[{"int":"1"}]}`, `Some 1`},
		{`{"prim":"option","args":[{"prim":"nat"}]}`, `{"prim":"None"}`, `None`},
		{`{"prim":"or","args":[{"prim":"nat"},{"prim":"string"}]}`, `{"prim":"Right","args":[{"string":"a"}]}`, `Right "a"`},
		{`{"prim":"list","args":[{"prim":"nat"}]}`, `[{"int":"3"},{"int":"1"}]`, `{ 3 ; 1 }`},
		{`{"prim":"set","args":[{"prim":"nat"}]}`, `[{"int":"3"},{"int":"1"}]`, `{ 1 ; 3 }`},
		{`{"prim":"map","args":[{"prim":"nat"},{"prim":"bool"}]}`,
			`[{"prim":"Elt","args":[{"int":"2"},{"prim":"True"}]},{"prim":"Elt","args":[{"int":"1"},{"prim":"False"}]}]`,
			`{ Elt 1 False ; Elt 2 True }`},
		{`{"prim":"lambda","args":[{"prim":"nat"},{"prim":"nat"}]}`, `[{"prim":"DUP"},{"prim":"ADD"}]`, `{ DUP ; ADD }`},
		{`{"prim":"address"}`, `{"string":"KT18anmnvhqTsgqTwasxpLKYWcLJnGRX3m2D%default"}`, `"KT18anmnvhqTsgqTwasxpLKYWcLJnGRX3m2D%default"`},
		{`{"prim":"address"}`, `{"bytes":"000002298c03ed7d454a101eb7022bc95f7e5f41ac78"}`, `"tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx"`},
		{`{"prim":"key_hash"}`, `{"string":"tz2BCeQSi5ETyKJsob61pWCoQvoGtsrJBEt2"}`, `"tz2BCeQSi5ETyKJsob61pWCoQvoGtsrJBEt2"`},
		{`{"prim":"key"}`, `{"string":"edpkuBknW28nW72KG6RoHtYW7p12T6GKc7nAbwYX5m8Wd9sDVC9yav"}`, `"edpkuBknW28nW72KG6RoHtYW7p12T6GKc7nAbwYX5m8Wd9sDVC9yav"`},
		{`{"prim":"chain_id"}`, `{"bytes":"7a06a770"}`, `"NetXdQprcVkpaWU"`},
		{`{"prim":"contract","args":[{"prim":"unit"}]}`, `{"string":"tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx"}`, `"tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx"`},
		{`{"prim":"bls12_381_fr"}`, `{"int":"1"}`, `0x0100000000000000000000000000000000000000000000000000000000000000`},
	}
	for _, tc := range testCases {
		t.Run(tc.typ+" "+tc.value, func(t *testing.T) {
			it, err := fromJSON(t, tc.typ, tc.value)
			require.NoError(t, err)
			require.Equal(t, tc.expected, it.String())
		})
	}
}

func TestFromNodeErrors(t *testing.T) {
	testCases := []struct {
		typ, value string
	}{
		{`{"prim":"nat"}`, `{"int":"-1"}`},
		{`{"prim":"nat"}`, `{"string":"1"}`},
		{`{"prim":"mutez"}`, `{"int":"9223372036854775808"}`},
		{`{"prim":"bool"}`, `{"prim":"Unit"}`},
		{`{"prim":"timestamp"}`, `{"string":"yesterday"}`},
		{`{"prim":"pair","args":[{"prim":"nat"},{"prim":"int"}]}`, `{"prim":"Pair","args":[{"int":"1"}]}`},
		{`{"prim":"option","args":[{"prim":"nat"}]}`, `{"prim":"Some"}`},
		{`{"prim":"set","args":[{"prim":"nat"}]}`, `[{"int":"1"},{"int":"1"}]`},
		{`{"prim":"map","args":[{"prim":"nat"},{"prim":"nat"}]}`, `[{"int":"1"}]`},
		{`{"prim":"map","args":[{"prim":"nat"},{"prim":"nat"}]}`,
			`[{"prim":"Elt","args":[{"int":"1"},{"int":"1"}]},{"prim":"Elt","args":[{"int":"1"},{"int":"2"}]}]`},
		{`{"prim":"address"}`, `{"string":"tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSy"}`},
		{`{"prim":"key"}`, `{"string":"sppk7bFP2oW86SDDFzqiDCMtbm8j4obhJ9AVYkG1XFzwz4ik6kGmM5V"}`},
		{`{"prim":"chain_id"}`, `{"bytes":"7a06"}`},
		{`{"prim":"operation"}`, `{"prim":"Unit"}`},
		{`{"prim":"never"}`, `{"prim":"Unit"}`},
		{`{"prim":"bls12_381_g1"}`, `{"bytes":"00"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.typ+" "+tc.value, func(t *testing.T) {
			_, err := fromJSON(t, tc.typ, tc.value)
			require.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestFromTypedNode(t *testing.T) {
	n, err := micheline.ParseJSON([]byte(`{"prim":"pair","args":[
		{"prim":"nat","args":[{"int":"5"}]},
		{"prim":"list","args":[{"prim":"string"},[{"string":"a"}]]}]}`))
	require.NoError(t, err)
	it, err := FromTypedNode(n)
	require.NoError(t, err)
	require.Equal(t, "pair nat (list string)", it.Type().String())
	require.Equal(t, `Pair 5 { "a" }`, it.String())

	it, err = FromTypedNode(micheline.NewPrim("unit"))
	require.NoError(t, err)
	require.Equal(t, UnitT, it.Kind())

	_, err = FromTypedNode(micheline.NewPrim("nat"))
	require.ErrorIs(t, err, ErrInvalidValue)
	_, err = FromTypedNode(micheline.NewPrim("pair", micheline.NewPrim("unit")))
	require.ErrorIs(t, err, ErrInvalidValue)
	_, err = FromTypedNode(micheline.NewPrim("DUP"))
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestOptimizedNode(t *testing.T) {
	ts := NewTimestamp(big.NewInt(100))
	require.Equal(t, micheline.IntNode, ts.ToOptimizedNode().Type)
	require.Equal(t, micheline.StringNode, ts.ToNode().Type)

	addr := NewAddress("tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx")
	require.Equal(t, micheline.BytesNode, addr.ToOptimizedNode().Type)
	require.Len(t, addr.ToOptimizedNode().Bytes, 22)
}
