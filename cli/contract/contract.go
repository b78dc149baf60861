/*
Package contract implements the CLI commands running contract scripts and
converting values to and from their packed form.
*/
package contract

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/michelson-go/cli/cmdargs"
	"github.com/nspcc-dev/michelson-go/cli/options"
	"github.com/nspcc-dev/michelson-go/pkg/config"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/services/metrics"
	"github.com/nspcc-dev/michelson-go/pkg/vm"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	errNoScript = errors.New("no script specified, use option '--script' or '-s'")
	errNoType   = errors.New("no type specified, use option '--type' or '-t'")
	errNoValue  = errors.New("no value specified")
)

var typeFlag = cli.StringFlag{
	Name:  "type, t",
	Usage: "type of the value as Micheline JSON or YAML, e.g. '{\"prim\":\"nat\"}' or 'nat'",
}

// NewCommands returns 'contract' command.
func NewCommands() []cli.Command {
	runFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "script, s",
			Usage: "path to the script file (JSON or YAML) with parameter, storage and code sections",
		},
		cli.StringFlag{
			Name:  "parameter, p",
			Usage: "parameter value as Micheline JSON, YAML or a literal like 42, 0x00 or \"text\"",
		},
		cli.StringFlag{
			Name:  "storage",
			Usage: "storage value in the same format as the parameter",
		},
		cli.StringFlag{
			Name:  "prometheus",
			Usage: "expose execution metrics on the given address (overrides configuration)",
		},
		options.ConfigFile,
		options.Debug,
	}
	return []cli.Command{{
		Name:  "contract",
		Usage: "run contract scripts and pack values",
		Subcommands: []cli.Command{
			{
				Name:      "run",
				Usage:     "run the script on the given parameter and storage",
				UsageText: "michelson-go contract run -s script.json -p 1 --storage 2 [--config-file file] [--debug] [--prometheus addr]",
				Description: `Runs the code of the script on the pair of the parameter and the storage
   and prints the resulting storage followed by the list of emitted operations.
   Context values like AMOUNT or NOW are taken from the Environment section of
   the configuration.`,
				Action: runScript,
				Flags:  runFlags,
			},
			{
				Name:      "pack",
				Usage:     "serialize the value of the given type",
				UsageText: "michelson-go contract pack -t <type> <value>",
				Description: `Prints the hex-encoded result of PACK applied to the value,
   for example:

   michelson-go contract pack -t '{"prim":"pair","args":[{"prim":"int"},{"prim":"int"}]}' '{"prim":"Pair","args":[{"int":"1"},{"int":"2"}]}'`,
				Action: pack,
				Flags:  []cli.Flag{typeFlag},
			},
			{
				Name:      "unpack",
				Usage:     "deserialize the value of the given type",
				UsageText: "michelson-go contract unpack -t <type> <hex>",
				Description: `Decodes hex-encoded packed data (with or without 0x prefix)
   as a value of the given type and prints it.`,
				Action: unpack,
				Flags:  []cli.Flag{typeFlag},
			},
		},
	}}
}

func runScript(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	scriptPath := ctx.String("script")
	if len(scriptPath) == 0 {
		return cli.NewExitError(errNoScript, 1)
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, _, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	loader := micheline.NewLoader(cfg.VM.ScriptCacheSize)
	script, err := loader.LoadFile(scriptPath)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	param, err := parseNode(loader, ctx.String("parameter"), "parameter")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	storage, err := parseNode(loader, ctx.String("storage"), "storage")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	env, err := vm.NewEnvironment(cfg.Environment)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	opts := []vm.Option{
		vm.WithLogger(log),
		vm.WithEnvironment(env),
		vm.WithMaxNestingDepth(cfg.VM.MaxNestingDepth),
	}
	promCfg := cfg.ApplicationConfiguration.Prometheus
	if addr := ctx.String("prometheus"); addr != "" {
		promCfg = config.BasicService{Enabled: true, Addresses: []string{addr}}
	}
	if promCfg.Enabled {
		reg := prometheus.NewRegistry()
		collector, err := metrics.NewCollector(reg)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		opts = append(opts, vm.WithObserver(collector))
		prom := metrics.NewPrometheusService(promCfg, reg, log)
		prom.Start()
		defer prom.ShutDown()
	}
	pprof := metrics.NewPprofService(cfg.ApplicationConfiguration.Pprof, log)
	pprof.Start()
	defer pprof.ShutDown()

	v := vm.New(opts...)
	log.Debug("running script", zap.String("script", scriptPath))
	res, err := v.RunContract(script, param, storage)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("execution failed: %w", err), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "storage: %s\n", res.Child(1))
	ops := res.Child(0).Items()
	fmt.Fprintf(ctx.App.Writer, "operations: %d\n", len(ops))
	for _, op := range ops {
		fmt.Fprintf(ctx.App.Writer, "  %s\n", op)
	}
	return nil
}

func pack(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return cli.NewExitError(errNoValue, 1)
	}
	loader := micheline.NewLoader(0)
	t, err := parseType(loader, ctx.String("type"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	n, err := parseNode(loader, ctx.Args().First(), "value")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	item, err := stackitem.FromNode(t, n)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("bad value: %w", err), 1)
	}
	data, err := stackitem.Serialize(item)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, hex.EncodeToString(data))
	return nil
}

func unpack(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return cli.NewExitError(errNoValue, 1)
	}
	t, err := parseType(micheline.NewLoader(0), ctx.String("type"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	data, err := hex.DecodeString(strings.TrimPrefix(ctx.Args().First(), "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Errorf("bad hex: %w", err), 1)
	}
	item, err := stackitem.Deserialize(t, data)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, item)
	return nil
}

func parseType(loader *micheline.Loader, s string) (stackitem.Type, error) {
	if len(s) == 0 {
		return stackitem.Type{}, errNoType
	}
	n, err := parseNode(loader, s, "type")
	if err != nil {
		return stackitem.Type{}, err
	}
	t, err := stackitem.TypeFromNode(n)
	if err != nil {
		return stackitem.Type{}, fmt.Errorf("bad type: %w", err)
	}
	return t, nil
}

func parseNode(loader *micheline.Loader, s string, what string) (*micheline.Node, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("no %s specified", what)
	}
	n, err := cmdargs.ParseNode(loader, s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return n, nil
}
