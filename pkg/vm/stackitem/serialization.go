package stackitem

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
)

// PackPrefix is the first byte of serialized data.
const PackPrefix = 0x05

// ErrNotPackable is returned on attempt to serialize a value whose type
// isn't packable.
var ErrNotPackable = errors.New("type is not packable")

// Serialize encodes given Item into the byte slice: the prefix byte followed
// by the binary form of its optimized data node.
func Serialize(item *Item) ([]byte, error) {
	if !item.typ.Has(Packable) {
		return nil, fmt.Errorf("%w: %s", ErrNotPackable, item.typ)
	}
	b, err := micheline.EncodeBinary(item.ToOptimizedNode())
	if err != nil {
		return nil, err
	}
	return append([]byte{PackPrefix}, b...), nil
}

// Deserialize decodes an item of the given type from the data produced by
// Serialize.
func Deserialize(t Type, data []byte) (*Item, error) {
	if len(data) == 0 || data[0] != PackPrefix {
		return nil, fmt.Errorf("%w: missing prefix", micheline.ErrInvalidBinary)
	}
	n, err := micheline.DecodeBinary(data[1:])
	if err != nil {
		return nil, err
	}
	return FromNode(t, n)
}
