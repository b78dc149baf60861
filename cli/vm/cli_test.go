package vm

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/nspcc-dev/michelson-go/pkg/config"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/stretchr/testify/require"
)

type readCloser struct {
	sync.Mutex
	bytes.Buffer
}

func (r *readCloser) Close() error {
	return nil
}

func (r *readCloser) Read(p []byte) (int, error) {
	r.Lock()
	defer r.Unlock()
	return r.Buffer.Read(p)
}

func (r *readCloser) WriteString(s string) {
	r.Lock()
	defer r.Unlock()
	r.Buffer.WriteString(s)
}

type executor struct {
	in  *readCloser
	out *bytes.Buffer
	cli *VMCLI
	ch  chan struct{}
}

func newTestVMCLI(t *testing.T) *executor {
	e := &executor{
		in:  &readCloser{Buffer: *bytes.NewBuffer(nil)},
		out: bytes.NewBuffer(nil),
		ch:  make(chan struct{}),
	}
	var err error
	e.cli, err = NewWithConfig(false,
		func(int) {},
		&readline.Config{
			Prompt: "",
			Stdin:  e.in,
			Stderr: e.out,
			Stdout: e.out,
			FuncIsTerminal: func() bool {
				return false
			},
		}, config.Default())
	require.NoError(t, err)
	return e
}

func (e *executor) runProg(t *testing.T, commands ...string) {
	cmd := strings.Join(commands, "\n") + "\n"
	e.in.WriteString(cmd + "\n")
	go func() {
		require.NoError(t, e.cli.Run())
		close(e.ch)
	}()
	select {
	case <-e.ch:
	case <-time.After(4 * time.Second):
		require.Fail(t, "command took too long time")
	}
}

func (e *executor) checkNextLine(t *testing.T, expected string) {
	line, err := e.out.ReadString('\n')
	require.NoError(t, err)
	require.Regexp(t, expected, strings.TrimSuffix(line, "\n"))
}

func (e *executor) checkError(t *testing.T, expected string) {
	e.checkNextLine(t, "^Error: "+expected)
}

// checkStack reads the JSON stack dump and compares items with the expected
// ones given in Michelson notation, top first.
func (e *executor) checkStack(t *testing.T, expected ...string) {
	var lines []string
	for {
		line, err := e.out.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		lines = append(lines, line)
		if line == "]" || line == "[]" {
			break
		}
	}
	var items []struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.Join(lines, "\n")), &items))
	require.Equal(t, len(expected), len(items))
	for i := range items {
		n, err := micheline.ParseJSON(items[i].Value)
		require.NoError(t, err)
		require.Equal(t, expected[i], items[i].Type+" "+n.String())
	}
}

func (e *executor) checkEOF(t *testing.T) {
	require.Equal(t, 0, e.out.Len(), e.out.String())
}

func TestLoad(t *testing.T) {
	e := newTestVMCLI(t)
	e.runProg(t,
		"load",
		"load testdata/nothing.yml",
		"load testdata/prog.yml",
		"run",
		"load testdata/sum.json",
		"run 2 3")

	e.checkError(t, "missing argument: <file>")
	e.checkError(t, "failed to read testdata/nothing.yml")
	e.checkNextLine(t, "READY: loaded 3 instructions")
	e.checkStack(t, "int 8")
	e.checkNextLine(t, "READY: loaded 4 instructions")
	e.checkNextLine(t, "^storage: 5$")
	e.checkEOF(t)
}

func TestRun(t *testing.T) {
	e := newTestVMCLI(t)
	e.runProg(t,
		"run",
		"load testdata/prog.yml",
		"run 1 2",
		"run 1",
		"load testdata/sum.json",
		"run 1 '\"a\"'",
		"run",
		"estack")

	e.checkError(t, "no program loaded")
	e.checkNextLine(t, "READY: loaded 3 instructions")
	e.checkError(t, "loaded program is not a contract script")
	e.checkError(t, "missing argument: <parameter> <storage>")
	e.checkNextLine(t, "READY: loaded 4 instructions")
	e.checkError(t, "bad storage")
	e.checkError(t, "UNPAIR: stack underflow")
	e.checkStack(t)
	e.checkEOF(t)
}

func TestPushExec(t *testing.T) {
	e := newTestVMCLI(t)
	e.runProg(t,
		"push int 5",
		"push int 3",
		"estack",
		"exec ADD",
		"estack",
		"exec ADD",
		"push string '\"abc\"'",
		`push '{"prim":"option","args":[{"prim":"nat"}]}' '{"prim":"Some","args":[{"int":"1"}]}'`,
		"exec '{\"prim\":\"IF_NONE\",\"args\":[[{\"prim\":\"UNIT\"}],[{\"prim\":\"DROP\"},{\"prim\":\"UNIT\"}]]}' SWAP",
		"estack",
		"push",
		"push nat '\"x\"'",
		"exec",
		"exec FOO",
		"reset",
		"estack")

	e.checkStack(t, "int 3", "int 5")
	e.checkStack(t, "int 8")
	e.checkError(t, "ADD: stack underflow")
	e.checkStack(t, "string \"abc\"", "unit Unit", "int 8")
	e.checkError(t, "missing argument: <type> <value>")
	e.checkError(t, "can't parse argument")
	e.checkError(t, "missing argument: <instruction>")
	e.checkError(t, "FOO: unknown instruction")
	e.checkStack(t)
	e.checkEOF(t)
}

func TestEStackVerbose(t *testing.T) {
	e := newTestVMCLI(t)
	e.runProg(t,
		"push nat 7",
		"estack --verbose")

	e.checkNextLine(t, `^\(\[\]\*stackitem\.Item\) \(len=1 cap=1\)`)
	require.Contains(t, e.out.String(), "stackitem.Item")
}

func TestParse(t *testing.T) {
	loader := micheline.NewLoader(0)
	t.Run("missing", func(t *testing.T) {
		_, err := Parse(loader, nil)
		require.ErrorIs(t, err, ErrMissingParameter)
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := Parse(loader, []string{"0xzz"})
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
	t.Run("address", func(t *testing.T) {
		res, err := Parse(loader, []string{`"KT18amZmM5W7qDWVt2pH6uj7sCEd3kbzLrHT"`})
		require.NoError(t, err)
		require.Regexp(t, `Michelson\s+"KT18amZmM5W7qDWVt2pH6uj7sCEd3kbzLrHT"`, res)
		require.Regexp(t, `JSON\s+\{"string":"KT18amZmM5W7qDWVt2pH6uj7sCEd3kbzLrHT"\}`, res)
		require.Regexp(t, `Address to Bytes\s+01`+strings.Repeat("00", 21)+`\n`, res)
		require.NotContains(t, res, "Key hash to Bytes")
	})
	t.Run("chain id bytes", func(t *testing.T) {
		res, err := Parse(loader, []string{"0x7a06a770"})
		require.NoError(t, err)
		require.Regexp(t, `Binary\s+0a000000047a06a770\n`, res)
		require.Regexp(t, `Bytes to Chain ID\s+NetXdQprcVkpaWU\n`, res)
		require.NotContains(t, res, "Bytes to Address")
	})
	t.Run("int", func(t *testing.T) {
		res, err := Parse(loader, []string{"1"})
		require.NoError(t, err)
		require.Regexp(t, `Michelson\s+1\n`, res)
		require.Regexp(t, `Binary\s+0001\n`, res)
	})
}

func TestParseCommand(t *testing.T) {
	e := newTestVMCLI(t)
	e.runProg(t,
		"parse",
		"parse 42")

	e.checkError(t, "missing argument")
	e.checkNextLine(t, `^Michelson\s+42`)
	e.checkNextLine(t, `^JSON\s+\{"int":"42"\}`)
	e.checkNextLine(t, `^Binary\s+002a`)
	e.checkEOF(t)
}
