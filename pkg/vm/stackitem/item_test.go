package stackitem

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	require.Equal(t, IntT, Make(1).Kind())
	require.Equal(t, NatT, Make(uint64(1)).Kind())
	require.Equal(t, StringT, Make("a").Kind())
	require.Equal(t, BytesT, Make([]byte{1}).Kind())
	require.Equal(t, BoolT, Make(true).Kind())
	require.Equal(t, UnitT, Make(nil).Kind())
	require.Panics(t, func() { Make(1.5) })
	require.Panics(t, func() { NewNat(big.NewInt(-1)) })
}

func TestAccessors(t *testing.T) {
	i, err := Make(-5).TryInteger()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(-5), i)

	_, err = Make("a").TryInteger()
	require.ErrorIs(t, err, ErrInvalidConversion)

	b, err := Make(true).TryBool()
	require.NoError(t, err)
	require.True(t, b)

	bs, err := Make([]byte{0xca, 0xfe}).TryBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0xca, 0xfe}, bs)

	s, err := NewAddress("tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx").TryString()
	require.NoError(t, err)
	require.Equal(t, "tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx", s)

	some := NewSome(Make(3))
	require.Equal(t, TagSome, some.Tag())
	require.True(t, some.Unwrap().Equals(Make(3)))
	require.Nil(t, NewNone(Int).Unwrap())

	pair := NewPair(Make(1), Make("a"))
	require.Equal(t, "pair int string", pair.Type().String())
	require.Equal(t, `Pair 1 "a"`, pair.String())

	_, err = pair.Code()
	require.ErrorIs(t, err, ErrInvalidConversion)
}

func TestSetAndMap(t *testing.T) {
	set := NewSet(Int, []*Item{Make(3), Make(1), Make(3), Make(2)})
	require.Equal(t, "{ 1 ; 2 ; 3 }", set.String())
	require.Equal(t, 3, set.Len())

	m := NewMap(String, Int, []MapElement{
		{Key: Make("b"), Value: Make(1)},
		{Key: Make("a"), Value: Make(2)},
		{Key: Make("b"), Value: Make(3)},
	})
	require.Equal(t, `{ Elt "a" 2 ; Elt "b" 3 }`, m.String())
	entries := m.MapEntries()
	require.Len(t, entries, 2)
	require.True(t, entries[1].Value.Equals(Make(3)))
	require.Equal(t, "map string int", m.Type().String())
}

func TestDupAndEquals(t *testing.T) {
	code := []*micheline.Node{micheline.NewPrim("PUSH", micheline.NewPrim("nat"), micheline.NewInt64(1))}
	items := []*Item{
		Make(1),
		NewPair(Make("a"), NewSome(Make(true))),
		NewList(Int, []*Item{Make(1), Make(2)}),
		NewLambda(Nat, Nat, code),
		NewLeft(Make(1), String),
	}
	for _, it := range items {
		d := it.Dup()
		require.True(t, it.Equals(d))
		require.NotSame(t, it, d)
	}

	l := items[3].Dup()
	c, err := l.Code()
	require.NoError(t, err)
	c[0].Args[1].Int.SetInt64(2)
	require.False(t, items[3].Equals(l))

	require.False(t, Make(1).Equals(NewNat(big.NewInt(1))))
	require.False(t, NewLeft(Make(1), String).Equals(NewLeft(Make(1), Int)))
	require.False(t, Make(1).Equals(nil))
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewPair(Make(1), Make("a")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pair int string","value":{"prim":"Pair","args":[{"int":"1"},{"string":"a"}]}}`, string(data))
}
