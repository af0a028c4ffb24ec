package compiler

import (
	"fmt"
	"strings"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/native"
	"github.com/influxdata/flowgraph/tree"
)

// The graph compiler is a depth-first topological sort over the stream
// expressions of one scope. An expression is emitted after everything it
// depends on, so the emitted applications are in a valid evaluation order.
// Expressions are temp-marked while their dependencies are being resolved
// and perm-marked once emitted; reaching a temp-marked expression again
// means the dependencies form a cycle.

var _ tree.ExprVisitor = (*function)(nil)

// resolve emits e and everything it depends on, unless already emitted.
func (f *function) resolve(e tree.StreamExpr) error {
	if e == nil {
		return &flowgraph.Error{
			Code: flowgraph.EInternal,
			Op:   "compiler.resolve",
			ID:   f.fn.ID,
			Msg:  "missing stream expression",
		}
	}
	if _, ok := f.perm[e]; ok {
		return nil
	}
	if _, ok := f.temp[e]; ok {
		return f.cycle(e)
	}
	return e.Accept(f)
}

// value resolves e and returns the id of the stream holding its value.
func (f *function) value(e tree.StreamExpr) (flowgraph.ID, error) {
	if err := f.resolve(e); err != nil {
		return flowgraph.InvalidID(), err
	}
	id, ok := e.ValueID()
	if !ok {
		var blame flowgraph.ID
		if app, ok := e.(*tree.Application); ok {
			blame = app.ID
		}
		return flowgraph.InvalidID(), &flowgraph.Error{
			Code: flowgraph.ENoValue,
			Op:   "compiler.value",
			ID:   blame,
			Msg:  "application has no output to use as a value",
		}
	}
	return id, nil
}

func (f *function) values(exprs []tree.StreamExpr) ([]flowgraph.ID, error) {
	ids := make([]flowgraph.ID, len(exprs))
	for i, e := range exprs {
		id, err := f.value(e)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (f *function) enter(e tree.StreamExpr) {
	f.temp[e] = struct{}{}
	f.stack = append(f.stack, e)
}

func (f *function) leave(e tree.StreamExpr) {
	delete(f.temp, e)
	f.stack = f.stack[:len(f.stack)-1]
}

func (f *function) done(e tree.StreamExpr) {
	f.perm[e] = struct{}{}
}

// cycle reports the path from e back to itself.
func (f *function) cycle(e tree.StreamExpr) error {
	i := len(f.stack) - 1
	for ; i > 0 && f.stack[i] != e; i-- {
	}
	path := make([]string, 0, len(f.stack)-i+1)
	for _, s := range f.stack[i:] {
		id, _ := s.ValueID()
		path = append(path, id.String())
	}
	id, _ := e.ValueID()
	path = append(path, id.String())
	return &flowgraph.Error{
		Code: flowgraph.ECycle,
		Op:   "compiler.resolve",
		ID:   id,
		Msg:  "dependency cycle: " + strings.Join(path, " -> "),
	}
}

func (f *function) emit(app flowgraph.Application) {
	f.def.Apps = append(f.def.Apps, app)
}

func (f *function) constant(id flowgraph.ID, v flowgraph.Value, e tree.StreamExpr) error {
	f.def.Consts = append(f.def.Consts, flowgraph.ConstStream{ID: id, Value: v})
	f.done(e)
	return nil
}

func (f *function) VisitUndefined(n *tree.UndefinedLiteral) error {
	return f.constant(n.ID, flowgraph.Undefined, n)
}

func (f *function) VisitNumber(n *tree.NumberLiteral) error {
	return f.constant(n.ID, flowgraph.NumberValue(n.Value), n)
}

func (f *function) VisitText(n *tree.TextLiteral) error {
	return f.constant(n.ID, flowgraph.TextValue(n.Value), n)
}

func (f *function) VisitBoolean(n *tree.BooleanLiteral) error {
	return f.constant(n.ID, flowgraph.BooleanValue(n.Value), n)
}

// VisitArray lowers the array to an application of the array builtin.
func (f *function) VisitArray(n *tree.ArrayLiteral) error {
	f.enter(n)
	args, err := f.values(n.Elements)
	if err != nil {
		return err
	}
	f.leave(n)

	f.emit(flowgraph.Application{
		ID:         f.alloc.ApplicationID(n.ID),
		Func:       native.ConstructArrayID,
		Outputs:    []flowgraph.ID{n.ID},
		StreamArgs: args,
		FuncArgs:   []flowgraph.ID{},
	})
	f.done(n)
	return nil
}

// VisitIndirection lowers the indirection to an application of the identity
// builtin.
func (f *function) VisitIndirection(n *tree.Indirection) error {
	f.enter(n)
	arg, err := f.value(n.Expr)
	if err != nil {
		return err
	}
	f.leave(n)

	f.emit(flowgraph.Application{
		ID:         f.alloc.ApplicationID(n.ID),
		Func:       native.IdentityID,
		Outputs:    []flowgraph.ID{n.ID},
		StreamArgs: []flowgraph.ID{arg},
		FuncArgs:   []flowgraph.ID{},
	})
	f.done(n)
	return nil
}

// VisitReference resolves the expression defining the target when it lives
// in this scope. A target defined by an enclosing scope is captured instead;
// its definition is emitted there.
func (f *function) VisitReference(n *tree.Reference) error {
	def, ok := f.streams.Lookup(n.Target)
	switch {
	case !ok:
		return &flowgraph.Error{
			Code: flowgraph.EUnresolved,
			Op:   "compiler.resolve",
			ID:   n.Target,
			Msg:  fmt.Sprintf("stream %s is not defined", n.Target),
		}
	case !f.streams.HasLocal(n.Target):
		f.capture(n.Target)
		return nil
	case def == nil:
		// Parameters are inputs of the scope.
		return nil
	}
	return f.resolve(def)
}

// VisitApplication emits the application after every stream it consumes.
// Function arguments are only checked to be in scope; their bodies are
// compiled once per scope by compileLocals.
func (f *function) VisitApplication(n *tree.Application) error {
	if err := f.lookupFunc(n.Func); err != nil {
		return err
	}

	f.enter(n)
	args, err := f.values(n.StreamArgs)
	if err != nil {
		return err
	}
	funcArgs := make([]flowgraph.ID, len(n.FuncArgs))
	for i, a := range n.FuncArgs {
		if a == nil {
			return &flowgraph.Error{
				Code: flowgraph.EInternal,
				Op:   "compiler.resolve",
				ID:   n.ID,
				Msg:  fmt.Sprintf("missing function argument %d", i),
			}
		}
		if err := f.lookupFunc(a.Target()); err != nil {
			return err
		}
		funcArgs[i] = a.Target()
	}
	f.leave(n)

	f.emit(flowgraph.Application{
		ID:         n.ID,
		Func:       n.Func,
		Outputs:    n.Defines(),
		StreamArgs: args,
		FuncArgs:   funcArgs,
	})
	f.done(n)
	return nil
}

func (f *function) lookupFunc(id flowgraph.ID) error {
	if f.funcs.Has(id) {
		return nil
	}
	return &flowgraph.Error{
		Code: flowgraph.EUnresolved,
		Op:   "compiler.resolve",
		ID:   id,
		Msg:  fmt.Sprintf("function %s is not defined", id),
	}
}
