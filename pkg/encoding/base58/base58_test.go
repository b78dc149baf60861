package base58

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEncodeDecode(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02}
	s := CheckEncode(data)
	require.Equal(t, "1W8eAT7x", s)

	actual, err := CheckDecode(s)
	require.NoError(t, err)
	require.Equal(t, data, actual)
}

func TestCheckDecodeFailures(t *testing.T) {
	badbase58 := "BASE%*"
	_, err := CheckDecode(badbase58)
	require.Error(t, err)

	shortbase58 := "THqY"
	_, err = CheckDecode(shortbase58)
	require.Error(t, err)

	badcsum := "1W8eAT7y"
	_, err = CheckDecode(badcsum)
	require.ErrorIs(t, err, ErrInvalidChecksum)
}
