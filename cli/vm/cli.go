package vm

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"
	"github.com/davecgh/go-spew/spew"
	"github.com/kballard/go-shellquote"
	"github.com/nspcc-dev/michelson-go/cli/cmdargs"
	"github.com/nspcc-dev/michelson-go/pkg/config"
	"github.com/nspcc-dev/michelson-go/pkg/encoding/address"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	vmKey               = "vm"
	stackKey            = "stack"
	programKey          = "program"
	scriptKey           = "script"
	loaderKey           = "loader"
	exitFuncKey         = "exitFunc"
	readlineInstanceKey = "readlineKey"
	printLogoKey        = "printLogoKey"
)

var commands = []cli.Command{
	{
		Name:        "exit",
		Usage:       "Exit the VM prompt",
		Description: "Exit the VM prompt",
		Action:      handleExit,
	},
	{
		Name:      "load",
		Usage:     "Load a program or a contract script into the VM",
		UsageText: `load <file>`,
		Description: `load <file>

<file> is mandatory parameter, it contains either a sequence of instructions
or a script with parameter, storage and code sections in Micheline JSON or
YAML, example:
> load /path/to/script.json`,
		Action: handleLoad,
	},
	{
		Name:      "push",
		Usage:     "Push a value onto the stack",
		UsageText: `push <type> <value>`,
		Description: `push <type> <value>

Both parameters are expressions in Micheline JSON, YAML or literal shorthand
form (42, 0x00ff, "text"), example:
> push nat 5
> push string '"hello"'
> push '{"prim":"option","args":[{"prim":"int"}]}' '{"prim":"Some","args":[{"int":"1"}]}'`,
		Action: handlePush,
	},
	{
		Name:      "exec",
		Usage:     "Execute instructions on the current stack",
		UsageText: `exec <instruction>...`,
		Description: `exec <instruction>...

Instructions are executed one by one until the first failure, example:
> exec UNIT DROP
> exec '{"prim":"PUSH","args":[{"prim":"int"},{"int":"5"}]}'`,
		Action: handleExec,
	},
	{
		Name:      "run",
		Usage:     "Execute the loaded program",
		UsageText: `run [<parameter> <storage>]`,
		Description: `run [<parameter> <storage>]

Without parameters the loaded code is executed on the current stack. If a
contract script is loaded, parameter and storage values can be given to run
it as a contract call, the resulting storage and operations are printed.

Example:
> run 5 0`,
		Action: handleRun,
	},
	{
		Name:      "estack",
		Usage:     "Show evaluation stack contents",
		UsageText: `estack [--verbose]`,
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:  "verbose, v",
				Usage: "dump internal representation of the items",
			},
		},
		Action: handleEStack,
	},
	{
		Name:   "reset",
		Usage:  "Clear the stack and unload the program",
		Action: handleReset,
	},
	{
		Name:      "parse",
		Usage:     "Parse provided argument and convert it into other possible formats",
		UsageText: `parse <arg>`,
		Description: `parse <arg>

<arg> is an expression in Micheline JSON, YAML or literal shorthand form,
it's printed in Michelson notation, JSON and binary forms. Strings and bytes
holding addresses or keys are also converted.`,
		Action: handleParse,
	},
}

var completer *readline.PrefixCompleter

func init() {
	var pcItems []readline.PrefixCompleterInterface
	for _, c := range commands {
		if !c.Hidden {
			var flagsItems []readline.PrefixCompleterInterface
			for _, f := range c.Flags {
				names := strings.SplitN(f.GetName(), ", ", 2) // only long name will be offered
				flagsItems = append(flagsItems, readline.PcItem("--"+names[0]))
			}
			pcItems = append(pcItems, readline.PcItem(c.Name, flagsItems...))
		}
	}
	completer = readline.NewPrefixCompleter(pcItems...)
}

// Various errors.
var (
	ErrMissingParameter = errors.New("missing argument")
	ErrInvalidParameter = errors.New("can't parse argument")
	ErrNoProgram        = errors.New("no program loaded")
)

// VMCLI object for interacting with the VM.
type VMCLI struct {
	shell *cli.App
}

// NewWithConfig returns new VMCLI instance using provided config.
func NewWithConfig(printLogotype bool, onExit func(int), c *readline.Config, cfg config.Config) (*VMCLI, error) {
	if c.AutoComplete == nil {
		// Autocomplete commands/flags on TAB.
		c.AutoComplete = completer
	}
	env, err := vm.NewEnvironment(cfg.Environment)
	if err != nil {
		return nil, cli.NewExitError(fmt.Errorf("invalid environment: %w", err), 1)
	}
	l, err := readline.NewEx(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	ctl := cli.NewApp()
	ctl.Name = "VM CLI"

	// Note: need to set empty `ctl.HelpName` and `ctl.UsageText`, otherwise
	// `filepath.Base(os.Args[0])` will be used.
	ctl.HelpName = ""
	ctl.UsageText = ""

	ctl.Writer = l.Stdout()
	ctl.ErrWriter = l.Stderr()
	ctl.Version = config.Version
	ctl.Usage = "Interactive shell of the Michelson VM"

	// Override default error handler in order not to exit on error.
	ctl.ExitErrHandler = func(context *cli.Context, err error) {}

	ctl.Commands = commands

	v := vm.New(
		vm.WithEnvironment(env),
		vm.WithMaxNestingDepth(cfg.VM.MaxNestingDepth),
		vm.WithLogger(zap.NewNop()),
	)
	vmcli := VMCLI{
		shell: ctl,
	}
	vmcli.shell.Metadata = map[string]any{
		vmKey:               v,
		stackKey:            vm.NewStack("estack"),
		programKey:          []*micheline.Node(nil),
		scriptKey:           (*micheline.Node)(nil),
		loaderKey:           micheline.NewLoader(cfg.VM.ScriptCacheSize),
		exitFuncKey:         onExit,
		readlineInstanceKey: l,
		printLogoKey:        printLogotype,
	}
	changePrompt(vmcli.shell)
	return &vmcli, nil
}

func getExitFuncFromContext(app *cli.App) func(int) {
	return app.Metadata[exitFuncKey].(func(int))
}

func getReadlineInstanceFromContext(app *cli.App) *readline.Instance {
	return app.Metadata[readlineInstanceKey].(*readline.Instance)
}

func getVMFromContext(app *cli.App) *vm.VM {
	return app.Metadata[vmKey].(*vm.VM)
}

func getStackFromContext(app *cli.App) *vm.Stack {
	return app.Metadata[stackKey].(*vm.Stack)
}

func getProgramFromContext(app *cli.App) []*micheline.Node {
	return app.Metadata[programKey].([]*micheline.Node)
}

func getScriptFromContext(app *cli.App) *micheline.Node {
	return app.Metadata[scriptKey].(*micheline.Node)
}

func getLoaderFromContext(app *cli.App) *micheline.Loader {
	return app.Metadata[loaderKey].(*micheline.Loader)
}

func getPrintLogoFromContext(app *cli.App) bool {
	return app.Metadata[printLogoKey].(bool)
}

func setProgramInContext(app *cli.App, code []*micheline.Node, script *micheline.Node) {
	app.Metadata[programKey] = code
	app.Metadata[scriptKey] = script
}

func handleExit(c *cli.Context) error {
	l := getReadlineInstanceFromContext(c.App)
	_ = l.Close()
	exit := getExitFuncFromContext(c.App)
	fmt.Fprintln(c.App.Writer, "Bye!")
	exit(0)
	return nil
}

func handleLoad(c *cli.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return fmt.Errorf("%w: <file>", ErrMissingParameter)
	}
	n, err := getLoaderFromContext(c.App).LoadFile(args[0])
	if err != nil {
		return err
	}
	var (
		code   = n.Block()
		script *micheline.Node
	)
	if s, err := vm.ParseScript(n); err == nil {
		code, script = s.Code, n
	}
	resetState(c.App)
	setProgramInContext(c.App, code, script)
	fmt.Fprintf(c.App.Writer, "READY: loaded %d instructions\n", len(code))
	changePrompt(c.App)
	return nil
}

func handlePush(c *cli.Context) error {
	args := c.Args()
	if len(args) < 2 {
		return fmt.Errorf("%w: <type> <value>", ErrMissingParameter)
	}
	loader := getLoaderFromContext(c.App)
	tn, err := cmdargs.ParseNode(loader, args[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	t, err := stackitem.TypeFromNode(tn)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	vn, err := cmdargs.ParseNode(loader, args[1])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	item, err := stackitem.FromNode(t, vn)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	getStackFromContext(c.App).Push(item)
	return nil
}

func handleExec(c *cli.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return fmt.Errorf("%w: <instruction>", ErrMissingParameter)
	}
	var (
		loader = getLoaderFromContext(c.App)
		v      = getVMFromContext(c.App)
		s      = getStackFromContext(c.App)
	)
	for _, arg := range args {
		instr, err := cmdargs.ParseNode(loader, arg)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
		}
		if err := v.Execute(instr, s); err != nil {
			writeErr(c.App.ErrWriter, err)
			return nil
		}
	}
	return nil
}

func handleRun(c *cli.Context) error {
	code := getProgramFromContext(c.App)
	if code == nil {
		return ErrNoProgram
	}
	var (
		args = c.Args()
		v    = getVMFromContext(c.App)
	)
	switch len(args) {
	case 0:
		s := getStackFromContext(c.App)
		if err := v.Run(code, s); err != nil {
			writeErr(c.App.ErrWriter, err)
			return nil
		}
		return dumpStack(c.App.Writer, s)
	case 2:
		script := getScriptFromContext(c.App)
		if script == nil {
			return errors.New("loaded program is not a contract script")
		}
		loader := getLoaderFromContext(c.App)
		param, err := cmdargs.ParseNode(loader, args[0])
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
		}
		storage, err := cmdargs.ParseNode(loader, args[1])
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidParameter, err)
		}
		res, err := v.RunContract(script, param, storage)
		if err != nil {
			writeErr(c.App.ErrWriter, err)
			return nil
		}
		fmt.Fprintf(c.App.Writer, "storage: %s\n", res.Child(1))
		for _, op := range res.Child(0).Items() {
			fmt.Fprintf(c.App.Writer, "operation: %s\n", op)
		}
		return nil
	default:
		return fmt.Errorf("%w: <parameter> <storage>", ErrMissingParameter)
	}
}

func handleEStack(c *cli.Context) error {
	s := getStackFromContext(c.App)
	if c.Bool("verbose") {
		fmt.Fprint(c.App.Writer, spew.Sdump(s.ToArray()))
		return nil
	}
	return dumpStack(c.App.Writer, s)
}

func dumpStack(w io.Writer, s *vm.Stack) error {
	b, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal stack: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func handleReset(c *cli.Context) error {
	resetState(c.App)
	changePrompt(c.App)
	return nil
}

func resetState(app *cli.App) {
	getStackFromContext(app).Clear()
	setProgramInContext(app, nil, nil)
}

func changePrompt(app *cli.App) {
	l := getReadlineInstanceFromContext(app)
	if getProgramFromContext(app) != nil {
		l.SetPrompt("\033[32mMICHELSON-VM >\033[0m ")
	} else {
		l.SetPrompt("\033[32mMICHELSON-VM (not loaded) >\033[0m ")
	}
}

// Run waits for user input from Stdin and executes the passed command.
func (c *VMCLI) Run() error {
	if getPrintLogoFromContext(c.shell) {
		printLogo(c.shell.Writer)
	}
	l := getReadlineInstanceFromContext(c.shell)
	for {
		line, err := l.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil // OK, stop execution.
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err) // Critical error, stop execution.
		}

		args, err := shellquote.Split(line)
		if err != nil {
			writeErr(c.shell.ErrWriter, fmt.Errorf("failed to parse arguments: %w", err))
			continue // Not a critical error, continue execution.
		}
		if len(args) == 0 {
			continue
		}

		err = c.shell.Run(append([]string{"vm"}, args...))
		if err != nil {
			writeErr(c.shell.ErrWriter, err) // Various command/flags parsing errors and execution errors.
		}
	}
}

func handleParse(c *cli.Context) error {
	res, err := Parse(getLoaderFromContext(c.App), c.Args())
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, res)
	return nil
}

// Parse converts its argument to other formats.
func Parse(loader *micheline.Loader, args []string) (string, error) {
	if len(args) < 1 {
		return "", ErrMissingParameter
	}
	n, err := cmdargs.ParseNode(loader, args[0])
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidParameter, err)
	}
	buf := bytes.NewBuffer(nil)
	buf.WriteString(fmt.Sprintf("Michelson\t%s\n", n))
	if js, err := json.Marshal(n); err == nil {
		buf.WriteString(fmt.Sprintf("JSON\t%s\n", js))
	}
	if bin, err := micheline.EncodeBinary(n); err == nil {
		buf.WriteString(fmt.Sprintf("Binary\t%s\n", hex.EncodeToString(bin)))
	}
	switch n.Type {
	case micheline.StringNode:
		if b, err := address.DecodeAddress(n.Str); err == nil {
			buf.WriteString(fmt.Sprintf("Address to Bytes\t%s\n", hex.EncodeToString(b)))
		}
		if b, err := address.DecodeKeyHash(n.Str); err == nil {
			buf.WriteString(fmt.Sprintf("Key hash to Bytes\t%s\n", hex.EncodeToString(b)))
		}
		if b, err := address.DecodeKey(n.Str); err == nil {
			buf.WriteString(fmt.Sprintf("Key to Bytes\t%s\n", hex.EncodeToString(b)))
		}
		if b, err := address.DecodeChainID(n.Str); err == nil {
			buf.WriteString(fmt.Sprintf("Chain ID to Bytes\t%s\n", hex.EncodeToString(b)))
		}
		buf.WriteString(fmt.Sprintf("String to Hex\t%s\n", hex.EncodeToString([]byte(n.Str))))
	case micheline.BytesNode:
		if s, err := address.EncodeAddress(n.Bytes); err == nil {
			buf.WriteString(fmt.Sprintf("Bytes to Address\t%s\n", s))
		}
		if s, err := address.EncodeKeyHash(n.Bytes); err == nil {
			buf.WriteString(fmt.Sprintf("Bytes to Key hash\t%s\n", s))
		}
		if s, err := address.EncodeChainID(n.Bytes); err == nil {
			buf.WriteString(fmt.Sprintf("Bytes to Chain ID\t%s\n", s))
		}
		buf.WriteString(fmt.Sprintf("Bytes to String\t%q\n", string(n.Bytes)))
	}

	out := buf.Bytes()
	buf = bytes.NewBuffer(nil)
	w := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	if _, err := w.Write(out); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const logo = `
           _      _          _
 _ __ ___ (_) ___| |__   ___| |___  ___  _ __
| '_ ` + "`" + ` _ \| |/ __| '_ \ / _ \ / __|/ _ \| '_ \
| | | | | | | (__| | | |  __/ \__ \ (_) | | | |
|_| |_| |_|_|\___|_| |_|\___|_|___/\___/|_| |_|
`

func printLogo(w io.Writer) {
	fmt.Fprint(w, logo)
	fmt.Fprintln(w)
	fmt.Fprintln(w)
}

func writeErr(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}
