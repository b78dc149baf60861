/*
Package cmdargs contains helpers to parse positional arguments and
expressions given on the command line.
*/
package cmdargs

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/urfave/cli"
)

// EnsureNone returns an error if there are any positional arguments present.
// It can be used to check for them in commands that don't accept arguments.
func EnsureNone(ctx *cli.Context) *cli.ExitError {
	if ctx.Args().Present() {
		return cli.NewExitError("additional arguments given while this command expects none", 1)
	}
	return nil
}

// ParseNode parses an expression given on the command line. Besides
// Micheline JSON and YAML handled by the loader, a few shorthands are
// accepted for literals:
//
//	42        integer
//	0x0102    bytes
//	"text"    string (quotes are required)
func ParseNode(loader *micheline.Loader, s string) (*micheline.Node, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	if i, ok := new(big.Int).SetString(s, 10); ok {
		return micheline.NewInt(i), nil
	}
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, fmt.Errorf("bad bytes literal: %w", err)
		}
		return micheline.NewBytes(b), nil
	}
	if s[0] == '"' {
		str, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("bad string literal: %w", err)
		}
		return micheline.NewString(str), nil
	}
	return loader.Parse([]byte(s))
}
