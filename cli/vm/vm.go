/*
Package vm implements the interactive VM shell command.
*/
package vm

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/nspcc-dev/michelson-go/cli/cmdargs"
	"github.com/nspcc-dev/michelson-go/cli/options"
	"github.com/urfave/cli"
)

// NewCommands returns 'vm' command.
func NewCommands() []cli.Command {
	cfgFlags := []cli.Flag{options.ConfigFile}
	return []cli.Command{{
		Name:   "vm",
		Usage:  "start the virtual machine",
		Action: startVMPrompt,
		Flags:  cfgFlags,
	}}
}

func startVMPrompt(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}

	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	p, err := NewWithConfig(true, os.Exit, &readline.Config{}, cfg)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to create VM CLI: %w", err), 1)
	}
	return p.Run()
}
