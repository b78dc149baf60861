/*
Package vm implements the typed stack machine executing contract code. Every
instruction declares the kinds of operands it takes from the stack, the VM
checks them before running the instruction and pushes its results back.
*/
package vm

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/opcode"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// DefaultMaxNestingDepth is the default limit of nested instructions.
const DefaultMaxNestingDepth = 1024

// handler executes an instruction with its operands already taken from the
// stack. The results are pushed so that the first one ends up on top.
type handler func(v *VM, instr *micheline.Node, ops Operands, s *Stack) ([]*stackitem.Item, error)

// Observer is notified of every executed instruction.
type Observer interface {
	Executed(op opcode.Opcode, d time.Duration, err error)
}

// VM represents an instance of the virtual machine. It's not safe for
// concurrent use.
type VM struct {
	handlers map[opcode.Opcode]handler
	env      *Environment
	log      *zap.Logger
	observer Observer
	maxDepth int
	depth    int
	session  uuid.UUID
}

// Option is a VM creation option.
type Option func(*VM)

// WithLogger sets the logger, instructions are logged at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(v *VM) {
		v.log = log
	}
}

// WithEnvironment sets the values of the context instructions like AMOUNT or
// NOW.
func WithEnvironment(env *Environment) Option {
	return func(v *VM) {
		v.env = env
	}
}

// WithMaxNestingDepth limits the depth of nested instructions.
func WithMaxNestingDepth(depth int) Option {
	return func(v *VM) {
		v.maxDepth = depth
	}
}

// WithObserver sets the observer of executed instructions.
func WithObserver(o Observer) Option {
	return func(v *VM) {
		v.observer = o
	}
}

// New returns a new VM.
func New(opts ...Option) *VM {
	v := &VM{
		handlers: newHandlers(),
		log:      zap.NewNop(),
		maxDepth: DefaultMaxNestingDepth,
		session:  uuid.New(),
	}
	for _, o := range opts {
		o(v)
	}
	if v.env == nil {
		v.env = DefaultEnvironment()
	}
	if v.maxDepth <= 0 {
		v.maxDepth = DefaultMaxNestingDepth
	}
	v.log = v.log.With(zap.String("session", v.session.String()))
	return v
}

// Session returns the identifier of the VM used in its log records.
func (v *VM) Session() uuid.UUID {
	return v.session
}

// Environment returns the VM environment.
func (v *VM) Environment() *Environment {
	return v.env
}

// Execute executes a single instruction or a sequence of instructions on
// the stack.
func (v *VM) Execute(instr *micheline.Node, s *Stack) error {
	if instr == nil {
		return newError(UnknownInstruction, "empty instruction")
	}
	if instr.Type == micheline.SeqNode {
		return v.Run(instr.Seq, s)
	}
	if instr.Type != micheline.PrimNode {
		return newError(UnknownInstruction, "%s is not an instruction", instr)
	}
	op, err := opcode.FromString(instr.Prim)
	if err != nil {
		return &Error{Kind: UnknownInstruction, Op: instr.Prim, Depth: s.Len()}
	}
	h, ok := v.handlers[op]
	if !ok || !requirements[op].defined {
		return &Error{Kind: UnknownInstruction, Op: instr.Prim, Depth: s.Len()}
	}

	v.depth++
	defer func() { v.depth-- }()
	if v.depth > v.maxDepth {
		return &Error{Kind: DepthExceeded, Op: instr.Prim, Depth: s.Len(), msg: fmt.Sprintf("limit is %d", v.maxDepth)}
	}

	start := time.Now()
	err = v.execute(op, h, instr, s)
	if v.observer != nil {
		v.observer.Executed(op, time.Since(start), err)
	}
	return err
}

func (v *VM) execute(op opcode.Opcode, h handler, instr *micheline.Node, s *Stack) error {
	if err := checkVariant(op, instr); err != nil {
		return v.fail(op, err, s)
	}
	ops, err := matchOperands(requirements[op], s)
	if err != nil {
		return v.fail(op, err, s)
	}
	v.log.Debug("executing instruction",
		zap.Stringer("op", op),
		zap.Int("depth", v.depth),
		zap.Int("items", s.Len()))
	for range ops.Items {
		s.Pop()
	}
	res, err := call(h, v, instr, ops, s)
	if err != nil {
		return v.fail(op, err, s)
	}
	for i := len(res) - 1; i >= 0; i-- {
		s.Push(res[i])
	}
	return nil
}

// call runs the handler turning accessor panics into errors.
func call(h handler, v *VM, instr *micheline.Node, ops Operands, s *Stack) (res []*stackitem.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = mismatch("%v", r)
		}
	}()
	return h(v, instr, ops, s)
}

// fail fills in the instruction context of the error. Errors coming from the
// nested instructions are returned as is.
func (v *VM) fail(op opcode.Opcode, err error, s *Stack) error {
	var e *Error
	if !errors.As(err, &e) {
		e = wrapError(TypeMismatch, err)
	}
	if e.Op == "" {
		e.Op = op.String()
		if len(e.Expected) == 0 {
			e.Depth = s.Len()
		}
		v.log.Debug("instruction failed",
			zap.Stringer("op", op),
			zap.Int("depth", v.depth),
			zap.String("stack", s.Name()),
			zap.Error(e))
	}
	return e
}

// Run executes the sequence of instructions on the stack.
func (v *VM) Run(code []*micheline.Node, s *Stack) error {
	for _, instr := range code {
		if err := v.Execute(instr, s); err != nil {
			return err
		}
	}
	return nil
}

// runBlock runs the block given as the i-th instruction argument.
func (v *VM) runBlock(instr *micheline.Node, i int, s *Stack) error {
	b := instr.Arg(i)
	if b == nil {
		return newError(InvalidDeclaration, "missing block argument %d", i)
	}
	return v.Run(b.Block(), s)
}

// RunContract runs the contract script on the given parameter and storage
// values. The script must have parameter, storage and code sections, the
// result is the pair of the list of operations and the new storage.
func (v *VM) RunContract(script, parameter, storage *micheline.Node) (*stackitem.Item, error) {
	c, err := ParseScript(script)
	if err != nil {
		return nil, err
	}
	p, err := stackitem.FromNode(c.Parameter, parameter)
	if err != nil {
		return nil, fmt.Errorf("bad parameter: %w", err)
	}
	st, err := stackitem.FromNode(c.Storage, storage)
	if err != nil {
		return nil, fmt.Errorf("bad storage: %w", err)
	}

	selfType := v.env.SelfType
	v.env.SelfType = c.Parameter
	defer func() { v.env.SelfType = selfType }()

	s := NewStack("estack")
	s.Push(stackitem.NewPair(p, st))
	v.log.Debug("running contract", zap.Stringer("parameter", p), zap.Stringer("storage", st))
	if err := v.Run(c.Code, s); err != nil {
		return nil, err
	}
	expected := stackitem.NewType(stackitem.PairT, stackitem.NewType(stackitem.ListT, stackitem.Operation), c.Storage)
	if s.Len() != 1 {
		return nil, mismatch("contract left %d elements on the stack", s.Len())
	}
	if res := s.Top(); !res.Type().Equals(expected) {
		return nil, typesMismatch(expected, res.Type())
	}
	return s.Pop(), nil
}

// Script is a parsed contract script.
type Script struct {
	Parameter stackitem.Type
	Storage   stackitem.Type
	Code      []*micheline.Node
}

// ParseScript parses the sequence of parameter, storage and code sections.
func ParseScript(n *micheline.Node) (*Script, error) {
	if n == nil || n.Type != micheline.SeqNode {
		return nil, newError(InvalidDeclaration, "script must be a sequence")
	}
	var (
		res         Script
		param, stor bool
		code        bool
	)
	for _, sec := range n.Seq {
		if sec.Type != micheline.PrimNode || len(sec.Args) != 1 {
			return nil, newError(InvalidDeclaration, "bad script section %s", sec)
		}
		switch sec.Prim {
		case "parameter", "storage":
			t, err := stackitem.TypeFromNode(sec.Args[0])
			if err != nil {
				return nil, declarationError(err)
			}
			if sec.Prim == "parameter" {
				res.Parameter, param = t, true
			} else {
				res.Storage, stor = t, true
			}
		case "code":
			res.Code, code = sec.Args[0].Block(), true
		default:
			return nil, newError(InvalidDeclaration, "unknown script section %q", sec.Prim)
		}
	}
	if !param || !stor || !code {
		return nil, newError(InvalidDeclaration, "script must have parameter, storage and code")
	}
	return &res, nil
}

// Initialize builds the initial pair of the parameter and the storage given
// as typed value nodes like `nat 5` or `pair (int 1) (string "a")`. A scalar
// kind without arguments (`nat`) gets its zero value. Malformed nodes are
// reported as InvalidDeclaration.
func Initialize(parameter, storage *micheline.Node) (*stackitem.Item, error) {
	p, err := stackitem.FromTypedNode(parameter)
	if err != nil {
		return nil, wrapError(InvalidDeclaration, fmt.Errorf("bad parameter: %w", err))
	}
	st, err := stackitem.FromTypedNode(storage)
	if err != nil {
		return nil, wrapError(InvalidDeclaration, fmt.Errorf("bad storage: %w", err))
	}
	return stackitem.NewPair(p, st), nil
}
