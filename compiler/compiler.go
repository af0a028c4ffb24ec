// Package compiler turns a program tree into the flat, dependency-ordered
// definitions the runtime executes.
//
// Every call compiles the whole tree from scratch. A Compiler keeps no state
// between calls besides its metrics and may be shared between goroutines.
package compiler

import (
	"github.com/benbjohnson/clock"
	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/native"
	"github.com/influxdata/flowgraph/scope"
	"github.com/influxdata/flowgraph/tree"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type (
	// streamEnv maps a stream id to the node defining it, or to nil for a
	// stream parameter.
	streamEnv = scope.Env[flowgraph.ID, tree.StreamExpr]
	// funcEnv maps a function id to its definition, or to nil for a
	// function parameter.
	funcEnv = scope.Env[flowgraph.ID, tree.FuncDef]
)

// Compiler compiles program trees against a registry of native functions.
type Compiler struct {
	natives *native.Registry
	alloc   Allocator
	clock   clock.Clock
	log     *zap.Logger
	metrics *compilerMetrics
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// WithAllocator sets the allocator of synthetic application ids.
// The default is HashAllocator.
func WithAllocator(a Allocator) Option {
	return func(c *Compiler) {
		c.alloc = a
	}
}

// WithClock sets the clock used to time compilations.
func WithClock(clk clock.Clock) Option {
	return func(c *Compiler) {
		c.clock = clk
	}
}

// New returns a Compiler resolving global functions in natives. A nil
// registry holds only the builtin operators.
func New(natives *native.Registry, opts ...Option) *Compiler {
	if natives == nil {
		natives = native.MustNew()
	}
	c := &Compiler{
		natives: natives,
		alloc:   HashAllocator{},
		clock:   clock.New(),
		log:     zap.NewNop(),
		metrics: newCompilerMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles main with a compiler using natives and default options.
func Compile(main *tree.TreeFunction, natives *native.Registry) (*flowgraph.Definition, error) {
	return New(natives).Compile(main)
}

// PrometheusCollectors returns the compiler's metrics.
func (c *Compiler) PrometheusCollectors() []prometheus.Collector {
	return c.metrics.PrometheusCollectors()
}

// Compile compiles the main definition of a program. It returns either a
// complete definition or an error classified by its flowgraph code, never
// both.
func (c *Compiler) Compile(main *tree.TreeFunction) (*flowgraph.Definition, error) {
	start := c.clock.Now()
	def, err := c.compile(main)
	took := c.clock.Now().Sub(start)

	code := flowgraph.ErrorCode(err)
	c.metrics.compiles.WithLabelValues(codeLabel(err)).Inc()
	c.metrics.duration.Observe(took.Seconds())

	switch {
	case err == nil:
		c.log.Debug("Compiled definition",
			zap.Stringer("main", main.ID),
			zap.Int("constants", len(def.Consts)),
			zap.Int("applications", len(def.Apps)),
			zap.Int("locals", len(def.Locals)),
			zap.Duration("took", took),
		)
	case flowgraph.IsInvariantViolation(err):
		c.log.Error("Program tree violates compiler invariant",
			zap.String("code", code),
			zap.Stringer("id", flowgraph.ErrorID(err)),
			zap.Error(err),
		)
		return nil, err
	default:
		c.log.Debug("Compilation failed",
			zap.String("code", code),
			zap.Stringer("id", flowgraph.ErrorID(err)),
			zap.Error(err),
		)
		return nil, err
	}
	return def, nil
}

// CompileOrEmpty is like Compile, but on failure it returns an empty
// definition along with the error, so the runtime always has something
// well-formed to run while the editor shows the error.
func (c *Compiler) CompileOrEmpty(main *tree.TreeFunction) (*flowgraph.Definition, error) {
	def, err := c.Compile(main)
	if err != nil {
		return flowgraph.Empty(), err
	}
	return def, nil
}

func (c *Compiler) compile(main *tree.TreeFunction) (*flowgraph.Definition, error) {
	const op = "compiler.Compile"

	if main == nil {
		return nil, &flowgraph.Error{
			Code: flowgraph.EInternal,
			Op:   op,
			Msg:  "no main definition",
		}
	}

	streams := scope.New[flowgraph.ID, tree.StreamExpr]()
	funcs := scope.New[flowgraph.ID, tree.FuncDef]()
	for _, d := range c.natives.Defs() {
		if err := funcs.Set(d.ID, d.Node()); err != nil {
			return nil, &flowgraph.Error{
				Code: flowgraph.EDuplicate,
				Op:   op,
				ID:   d.ID,
				Msg:  "native function defined twice",
				Err:  err,
			}
		}
	}

	def, err := compileFunction(c.alloc, main, streams, funcs)
	if err != nil {
		return nil, err
	}
	if len(def.Captures) > 0 {
		return nil, &flowgraph.Error{
			Code: flowgraph.EUnclosed,
			Op:   op,
			ID:   def.Captures[0],
			Msg:  "main definition references streams outside the program",
		}
	}
	return def, nil
}
