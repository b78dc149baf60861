package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/michelson-go/cli/contract"
	"github.com/nspcc-dev/michelson-go/cli/vm"
	"github.com/nspcc-dev/michelson-go/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "michelson-go\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates an instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "michelson-go"
	ctl.Version = config.Version
	ctl.Usage = "Typed stack VM for Michelson contracts"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, contract.NewCommands()...)
	ctl.Commands = append(ctl.Commands, vm.NewCommands()...)
	return ctl
}
