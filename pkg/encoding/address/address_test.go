package address

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressDecodeEncode(t *testing.T) {
	addrs := []string{
		"tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx",
		"tz2BCeQSi5ETyKJsob61pWCoQvoGtsrJBEt2",
		"tz3bqAfFRnSA6dfPRG8XR6MBMmo6HZTTG44V",
		"KT18anmnvhqTsgqTwasxpLKYWcLJnGRX3m2D",
		"KT18anmnvhqTsgqTwasxpLKYWcLJnGRX3m2D%transfer",
	}
	for _, addr := range addrs {
		b, err := DecodeAddress(addr)
		require.NoError(t, err)
		actual, err := EncodeAddress(b)
		require.NoError(t, err)
		assert.Equal(t, addr, actual)
	}
}

func TestDecodeKnownAddress(t *testing.T) {
	b, err := DecodeAddress("tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx")
	require.NoError(t, err)
	require.Equal(t, "000002298c03ed7d454a101eb7022bc95f7e5f41ac78", hex.EncodeToString(b))

	b, err = DecodeAddress("KT18anmnvhqTsgqTwasxpLKYWcLJnGRX3m2D")
	require.NoError(t, err)
	require.Equal(t, "01000102030405060708090a0b0c0d0e0f1011121300", hex.EncodeToString(b))
	require.False(t, IsImplicit("KT18anmnvhqTsgqTwasxpLKYWcLJnGRX3m2D"))
	require.True(t, IsImplicit("tz3bqAfFRnSA6dfPRG8XR6MBMmo6HZTTG44V"))
}

func TestDecodeBadAddress(t *testing.T) {
	_, err := DecodeAddress("NetXdQprcVkpaWU")
	require.ErrorIs(t, err, ErrInvalidPrefix)

	_, err = DecodeAddress("tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSy")
	require.Error(t, err)

	_, err = EncodeAddress([]byte{0x02})
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestKeysAndHashes(t *testing.T) {
	kh, err := DecodeKeyHash("tz2BCeQSi5ETyKJsob61pWCoQvoGtsrJBEt2")
	require.NoError(t, err)
	require.Equal(t, byte(1), kh[0])
	s, err := EncodeKeyHash(kh)
	require.NoError(t, err)
	require.Equal(t, "tz2BCeQSi5ETyKJsob61pWCoQvoGtsrJBEt2", s)

	k, err := DecodeKey("edpkuBknW28nW72KG6RoHtYW7p12T6GKc7nAbwYX5m8Wd9sDVC9yav")
	require.NoError(t, err)
	require.Len(t, k, 33)
	require.Equal(t, byte(0), k[0])
	s, err = EncodeKey(k)
	require.NoError(t, err)
	require.Equal(t, "edpkuBknW28nW72KG6RoHtYW7p12T6GKc7nAbwYX5m8Wd9sDVC9yav", s)

	p, err := KeyHashPrefix(2)
	require.NoError(t, err)
	require.Equal(t, TZ3.Name, p.Name)
	_, err = KeyHashPrefix(3)
	require.Error(t, err)
}

func TestChainID(t *testing.T) {
	b, err := DecodeChainID("NetXdQprcVkpaWU")
	require.NoError(t, err)
	require.Equal(t, "7a06a770", hex.EncodeToString(b))
	s, err := EncodeChainID(b)
	require.NoError(t, err)
	require.Equal(t, "NetXdQprcVkpaWU", s)
}

func TestSignature(t *testing.T) {
	b, err := DecodeSignature("edsigtXomBKi5CTRf5cjATJWSyaRvhfYNHqSUGrn4SdbYRcGwQrUGjzEfQDTuqHhuA8b2d8NarZjz8TRf65WkpQmo423BtomS8Q")
	require.NoError(t, err)
	require.Equal(t, make([]byte, 64), b)

	s, err := EncodeSignature(b)
	require.NoError(t, err)
	require.Equal(t, "sigMzJ4GVAvXEd2RjsKGfG2H9QvqTSKCZsuB2KiHbZRGFz72XgF6KaKADznh674fQgBatxw3xdHqTtMHUZAGRprxy64wg1aq", s)

	_, err = EncodeSignature([]byte{1})
	require.ErrorIs(t, err, ErrInvalidLength)
}
