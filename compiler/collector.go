package compiler

import (
	"errors"
	"fmt"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/scope"
	"github.com/influxdata/flowgraph/tree"
)

// collect binds every stream and function defined in the scope of f.fn to
// the local frames: parameters first, then whatever the body defines. It
// does not enter the bodies of nested function definitions; those belong to
// their own scopes.
func (f *function) collect() error {
	c := &collector{f: f}
	for _, id := range f.fn.StreamParams {
		c.defineStream(id, nil)
	}
	for _, id := range f.fn.FuncParams {
		c.defineFunc(id, nil)
	}
	for _, e := range f.fn.Body {
		if c.err != nil {
			break
		}
		tree.Walk(c, e)
	}
	return c.err
}

type collector struct {
	f   *function
	err error
}

func (c *collector) Visit(n tree.Node) tree.Visitor {
	if c.err != nil {
		return nil
	}
	switch n := n.(type) {
	case tree.FuncDef:
		c.defineFunc(n.FuncID(), n)
		if fn, ok := n.(*tree.TreeFunction); ok && c.err == nil {
			c.f.locals = append(c.f.locals, fn)
		}
		return nil
	case tree.StreamExpr:
		for _, id := range n.Defines() {
			c.defineStream(id, n)
		}
	}
	return c
}

func (c *collector) defineStream(id flowgraph.ID, n tree.StreamExpr) {
	if c.err != nil {
		return
	}
	c.err = define(c.f.streams, id, n, "stream")
}

func (c *collector) defineFunc(id flowgraph.ID, n tree.FuncDef) {
	if c.err != nil {
		return
	}
	c.err = define(c.f.funcs, id, n, "function")
}

func define[V any](env *scope.Env[flowgraph.ID, V], id flowgraph.ID, v V, kind string) error {
	const op = "compiler.collect"

	if !id.Valid() {
		return &flowgraph.Error{
			Code: flowgraph.EInternal,
			Op:   op,
			Msg:  fmt.Sprintf("%s defined with an invalid id", kind),
		}
	}
	if err := env.Set(id, v); err != nil {
		code := flowgraph.EInternal
		if errors.Is(err, scope.ErrKeyExists) {
			code = flowgraph.EDuplicate
		}
		return &flowgraph.Error{
			Code: code,
			Op:   op,
			ID:   id,
			Msg:  fmt.Sprintf("%s %s is defined twice in the same scope", kind, id),
			Err:  err,
		}
	}
	return nil
}
