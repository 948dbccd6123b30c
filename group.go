package lazylink

import (
	"fmt"
	"log"
	"reflect"
	"sync"
	"sync/atomic"
)

// State of a group cell.
type State uint32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Policy decides what a forwarding func does when its group failed to initialize.
type Policy uint8

const (
	// PolicyPanic panics with the cached *BindError inside the calling goroutine, see Try.
	PolicyPanic Policy = iota
	// PolicyFatal logs the *BindError and terminates the process.
	PolicyFatal
)

type (
	// Group is a set of functions sharing one library identity and one open/resolve lifecycle.
	//
	// Functions are declared until the group is sealed by its first use (a forwarding call, Init).
	// After that the group is immutable and the cell is written exactly once.
	Group struct {
		key       uint64
		identity  Identity
		namespace string
		seq       int
		loader    Loader
		policy    Policy
		debug     bool

		mu     sync.Mutex
		sealed bool
		funcs  []Function
		index  map[string]int

		cell cell
	}
	// cell owns the opened library and the callables resolved from it.
	cell struct {
		once  sync.Once
		state atomic.Uint32
		lib   Library
		syms  []reflect.Value
		err   *BindError
	}
	// Option configure a Group.
	Option func(g *Group)
)

// WithLoader use l to open the library, default is System.
func WithLoader(l Loader) Option {
	return func(g *Group) {
		g.loader = l
	}
}

// WithPolicy set the failure policy, default is PolicyPanic.
func WithPolicy(p Policy) Option {
	return func(g *Group) {
		g.policy = p
	}
}

// WithNamespace set the namespace part of the group key, usually the declaring package path.
func WithNamespace(ns string) Option {
	return func(g *Group) {
		g.namespace = ns
	}
}

// WithSequence set the sequence part of the group key.
func WithSequence(seq int) Option {
	return func(g *Group) {
		g.seq = seq
	}
}

// WithDebug enable or disable debug logging of the group, default is Debug.
func WithDebug(debug bool) Option {
	return func(g *Group) {
		g.debug = debug
	}
}

// NewGroup create a group for the library identity. An unresolved identity is rejected.
func NewGroup(id Identity, opts ...Option) (*Group, error) {
	if !id.IsResolved() {
		return nil, ErrUnresolved
	}
	g := &Group{
		identity: id,
		loader:   System,
		debug:    Debug,
		index:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.loader == nil {
		g.loader = System
	}
	g.key = GroupKey(g.namespace, g.seq, id)
	return g, nil
}

// MustGroup create a group or panic.
func MustGroup(id Identity, opts ...Option) *Group {
	g, err := NewGroup(id, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Group) Key() uint64        { return g.key }
func (g *Group) Identity() Identity { return g.identity }
func (g *Group) Namespace() string  { return g.namespace }
func (g *Group) State() State       { return State(g.cell.state.Load()) }

// Functions dump the declared functions in declaration order.
func (g *Group) Functions() []Function {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Function(nil), g.funcs...)
}

// Library is the opened library, nil before the group is ready.
func (g *Group) Library() Library {
	if g.State() != StateReady {
		return nil
	}
	return g.cell.lib
}

// Err is the cached initialization failure, nil unless the group failed.
func (g *Group) Err() error {
	if g.State() != StateFailed {
		return nil
	}
	return g.cell.err
}

// Declare a function of typ resolved by symbol, an empty symbol means name.
// It returns the forwarding func, a reflect.Value of typ.
func (g *Group) Declare(name, symbol string, typ reflect.Type) (reflect.Value, error) {
	f := Function{Name: name, Symbol: symbol, Type: typ}
	if err := f.validate(); err != nil {
		return reflect.Value{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if i, ok := g.index[name]; ok {
		// same declaration again, e.g. binding a second value of one struct type
		if x := g.funcs[i]; x.SymbolName() == f.SymbolName() && x.Type == typ {
			return g.forwarder(i, typ), nil
		}
		return reflect.Value{}, fmt.Errorf("declare %s in %s: %w", name, g.identity, ErrAlreadyExists)
	}
	if g.sealed {
		return reflect.Value{}, fmt.Errorf("declare %s in %s: %w", name, g.identity, ErrSealed)
	}
	i := len(g.funcs)
	g.funcs = append(g.funcs, f)
	g.index[name] = i
	return g.forwarder(i, typ), nil
}

// Func fetch the forwarding func of a declared function.
func (g *Group) Func(name string) (reflect.Value, bool) {
	g.mu.Lock()
	i, ok := g.index[name]
	var typ reflect.Type
	if ok {
		typ = g.funcs[i].Type
	}
	g.mu.Unlock()
	if !ok {
		return reflect.Value{}, false
	}
	return g.forwarder(i, typ), true
}

func (g *Group) forwarder(i int, typ reflect.Type) reflect.Value {
	return reflect.MakeFunc(typ, func(args []reflect.Value) []reflect.Value {
		return g.ensure()[i].Call(args)
	})
}

// Init seal the group, open the library and resolve every symbol if not done yet.
// All callers observe the same result, a failed group is never retried.
func (g *Group) Init() error {
	g.cell.once.Do(g.initialize)
	if e := g.cell.err; e != nil {
		return e
	}
	return nil
}

// ensure the group is ready and return the resolved callables, failures follow the Policy.
func (g *Group) ensure() []reflect.Value {
	if State(g.cell.state.Load()) == StateReady {
		return g.cell.syms
	}
	g.cell.once.Do(g.initialize)
	if e := g.cell.err; e != nil {
		if g.policy == PolicyFatal {
			log.Fatalf("%v", e)
		}
		panic(e)
	}
	return g.cell.syms
}

func (g *Group) seal() []Function {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sealed = true
	return g.funcs
}

func (g *Group) initialize() {
	c := &g.cell
	c.state.Store(uint32(StateInitializing))
	var name string
	defer func() {
		if r := recover(); r != nil {
			c.fail(g, &BindError{Kind: KindLoad, Group: g.identity, Library: name, Err: fmt.Errorf("%v", r)})
		}
	}()
	funcs := g.seal()
	name, err := g.identity.Resolve()
	if err != nil {
		c.fail(g, &BindError{Kind: KindConfig, Group: g.identity, Err: err})
		return
	}
	if g.debug {
		log.Printf("lazylink: open %s for %s with %d functions", name, g.identity, len(funcs))
	}
	lib, err := g.loader.Open(name)
	if err != nil {
		c.fail(g, &BindError{Kind: KindLoad, Group: g.identity, Library: name, Err: err})
		return
	}
	syms := make([]reflect.Value, len(funcs))
	for i, f := range funcs {
		if syms[i], err = resolve(lib, f.SymbolName(), f.Type); err != nil {
			c.fail(g, &BindError{Kind: KindSymbol, Group: g.identity, Library: name, Symbol: f.SymbolName(), Err: err})
			return
		}
		if g.debug {
			log.Printf("lazylink: resolved %s in %s", f.SymbolName(), name)
		}
	}
	c.lib, c.syms = lib, syms
	c.state.Store(uint32(StateReady))
}

func (c *cell) fail(g *Group, err *BindError) {
	if g.debug {
		log.Printf("lazylink: %v", err)
	}
	c.err = err
	c.state.Store(uint32(StateFailed))
}

// Declare a function of type T in g, the returned T forwards to the lazily resolved symbol.
// An optional symbol overrides the name resolved in the library.
func Declare[T any](g *Group, name string, symbol ...string) (x T, err error) {
	var s string
	if len(symbol) > 0 {
		s = symbol[0]
	}
	var v reflect.Value
	if v, err = g.Declare(name, s, reflect.TypeOf((*T)(nil)).Elem()); err != nil {
		return
	}
	x = v.Interface().(T)
	return
}

// MustDeclare is Declare which panics on configuration error, for package level variables.
func MustDeclare[T any](g *Group, name string, symbol ...string) T {
	x, err := Declare[T](g, name, symbol...)
	if err != nil {
		panic(err)
	}
	return x
}

// Try run f and recover a group failure raised by a forwarding func into err.
// Other panics are not recovered.
func Try(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*BindError); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	f()
	return
}
