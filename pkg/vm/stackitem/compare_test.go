package stackitem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	testCases := map[string]struct {
		a, b     *Item
		expected int
	}{
		"int less":        {Make(-1), Make(2), -1},
		"int equal":       {Make(2), Make(2), 0},
		"string":          {Make("abc"), Make("abd"), -1},
		"string prefix":   {Make("ab"), Make("a"), 1},
		"bytes":           {Make([]byte{0x01}), Make([]byte{0x00, 0xff}), 1},
		"bool":            {Make(false), Make(true), -1},
		"unit":            {NewUnit(), NewUnit(), 0},
		"none some":       {NewNone(Int), NewSome(Make(0)), -1},
		"some some":       {NewSome(Make(5)), NewSome(Make(4)), 1},
		"none none":       {NewNone(Int), NewNone(Int), 0},
		"left right":      {NewLeft(Make(10), Int), NewRight(Int, Make(0)), -1},
		"right right":     {NewRight(Int, Make(1)), NewRight(Int, Make(0)), 1},
		"pair first":      {NewPair(Make(1), Make("z")), NewPair(Make(2), Make("a")), -1},
		"pair second":     {NewPair(Make(1), Make("b")), NewPair(Make(1), Make("a")), 1},
		"implicit first":  {NewAddress("KT18anmnvhqTsgqTwasxpLKYWcLJnGRX3m2D"), NewAddress("tz3bqAfFRnSA6dfPRG8XR6MBMmo6HZTTG44V"), 1},
		"tz1 before tz2":  {NewKeyHash("tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx"), NewKeyHash("tz2BCeQSi5ETyKJsob61pWCoQvoGtsrJBEt2"), -1},
		"same addresses":  {NewAddress("tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx"), NewAddress("tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx"), 0},
		"chain ids":       {NewChainID([]byte{1, 2, 3, 4}), NewChainID([]byte{1, 2, 3, 5}), -1},
		"big numbers":     {Make(1000), Make(999), 1},
		"negative number": {Make(-1000), Make(-999), -1},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.expected, Compare(tc.a, tc.b))
			require.Equal(t, -tc.expected, Compare(tc.b, tc.a))
		})
	}
}
