package main

import (
	"testing"

	"github.com/nspcc-dev/michelson-go/pkg/config"
)

func TestCLIVersion(t *testing.T) {
	config.Version = "0.1.0-test"
	e := newExecutor(t)
	e.Run(t, "michelson-go", "--version")
	e.checkNextLine(t, "^michelson-go$")
	e.checkNextLine(t, "^Version:")
	e.checkNextLine(t, "^GoVersion:")
	e.checkEOF(t)
}
