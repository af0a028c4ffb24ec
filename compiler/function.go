package compiler

import (
	"fmt"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/tree"
)

// function compiles the body of one tree function: one scope.
type function struct {
	alloc Allocator
	fn    *tree.TreeFunction

	// streams and funcs are the frames of this scope, chained onto the
	// frames of the enclosing scope.
	streams *streamEnv
	funcs   *funcEnv

	// locals are the tree functions defined directly in this scope, in the
	// order the collector found them.
	locals []*tree.TreeFunction

	// temp holds the expressions on the current resolution path, stack keeps
	// the same expressions in order. perm holds the expressions whose
	// dependencies are fully emitted.
	temp  map[tree.StreamExpr]struct{}
	stack []tree.StreamExpr
	perm  map[tree.StreamExpr]struct{}

	captured map[flowgraph.ID]struct{}
	def      *flowgraph.Definition
}

// compileFunction compiles fn in a new scope whose parents are streams and
// funcs, then compiles every tree function defined in it.
func compileFunction(alloc Allocator, fn *tree.TreeFunction, streams *streamEnv, funcs *funcEnv) (*flowgraph.Definition, error) {
	f := &function{
		alloc:    alloc,
		fn:       fn,
		streams:  streams.Extend(),
		funcs:    funcs.Extend(),
		temp:     make(map[tree.StreamExpr]struct{}),
		perm:     make(map[tree.StreamExpr]struct{}),
		captured: make(map[flowgraph.ID]struct{}),
		def: &flowgraph.Definition{
			StreamParams: append([]flowgraph.ID{}, fn.StreamParams...),
			FuncParams:   append([]flowgraph.ID{}, fn.FuncParams...),
			Consts:       []flowgraph.ConstStream{},
			Apps:         []flowgraph.Application{},
			Locals:       []flowgraph.Local{},
			Captures:     []flowgraph.ID{},
		},
	}

	if err := f.collect(); err != nil {
		return nil, err
	}
	if err := f.compileBody(); err != nil {
		return nil, err
	}
	if err := f.compileLocals(); err != nil {
		return nil, err
	}
	return f.def, nil
}

// compileBody resolves every body entry in declaration order and records the
// yielded streams.
func (f *function) compileBody() error {
	const op = "compiler.compileBody"

	if f.fn.Yields < 0 {
		return &flowgraph.Error{
			Code: flowgraph.EYield,
			Op:   op,
			ID:   f.fn.ID,
			Msg:  fmt.Sprintf("function declares %d outputs", f.fn.Yields),
		}
	}
	yields := make([]flowgraph.ID, f.fn.Yields)

	for _, entry := range f.fn.Body {
		switch e := entry.(type) {
		case *tree.Yield:
			if e.Index < 0 || e.Index >= len(yields) {
				return &flowgraph.Error{
					Code: flowgraph.EYield,
					Op:   op,
					ID:   f.fn.ID,
					Msg:  fmt.Sprintf("yield to output %d of a function with %d outputs", e.Index, len(yields)),
				}
			}
			if yields[e.Index].Valid() {
				return &flowgraph.Error{
					Code: flowgraph.EYield,
					Op:   op,
					ID:   f.fn.ID,
					Msg:  fmt.Sprintf("output %d is yielded twice", e.Index),
				}
			}
			id, err := f.value(e.Expr)
			if err != nil {
				return err
			}
			yields[e.Index] = id
		case tree.StreamExpr:
			if err := f.resolve(e); err != nil {
				return err
			}
		case tree.FuncDef:
			// Compiled by compileLocals whether it is applied or not.
		default:
			return &flowgraph.Error{
				Code: flowgraph.EInternal,
				Op:   op,
				ID:   f.fn.ID,
				Msg:  fmt.Sprintf("unexpected body entry %T", entry),
			}
		}
	}

	for i, id := range yields {
		if !id.Valid() {
			return &flowgraph.Error{
				Code: flowgraph.EYield,
				Op:   op,
				ID:   f.fn.ID,
				Msg:  fmt.Sprintf("output %d is never yielded", i),
			}
		}
	}
	f.def.Yields = yields
	return nil
}

// compileLocals compiles every tree function defined in this scope with this
// scope as the enclosing one. Streams they capture from further out are
// captured by this scope too.
func (f *function) compileLocals() error {
	for _, fn := range f.locals {
		def, err := compileFunction(f.alloc, fn, f.streams, f.funcs)
		if err != nil {
			return err
		}
		f.def.Locals = append(f.def.Locals, flowgraph.Local{Func: fn.ID, Def: def})
		for _, id := range def.Captures {
			if !f.streams.HasLocal(id) {
				f.capture(id)
			}
		}
	}
	return nil
}

func (f *function) capture(id flowgraph.ID) {
	if _, ok := f.captured[id]; ok {
		return
	}
	f.captured[id] = struct{}{}
	f.def.Captures = append(f.def.Captures, id)
}
