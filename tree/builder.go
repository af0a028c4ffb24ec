package tree

import (
	"github.com/influxdata/flowgraph"
)

// Builder constructs nodes, drawing the ids they define from an IDGenerator.
// Ids are assigned here, once; nothing downstream recomputes them.
type Builder struct {
	IDGenerator flowgraph.IDGenerator
}

// NewBuilder returns a Builder using gen.
func NewBuilder(gen flowgraph.IDGenerator) *Builder {
	return &Builder{IDGenerator: gen}
}

func (b *Builder) Undefined() *UndefinedLiteral {
	return &UndefinedLiteral{ID: b.IDGenerator.ID()}
}

func (b *Builder) Number(v float64) *NumberLiteral {
	return &NumberLiteral{ID: b.IDGenerator.ID(), Value: v}
}

func (b *Builder) Text(v string) *TextLiteral {
	return &TextLiteral{ID: b.IDGenerator.ID(), Value: v}
}

func (b *Builder) Boolean(v bool) *BooleanLiteral {
	return &BooleanLiteral{ID: b.IDGenerator.ID(), Value: v}
}

func (b *Builder) Array(elements ...StreamExpr) *ArrayLiteral {
	return &ArrayLiteral{ID: b.IDGenerator.ID(), Elements: elements}
}

func (b *Builder) Indirect(name string, e StreamExpr) *Indirection {
	return &Indirection{ID: b.IDGenerator.ID(), Name: name, Expr: e}
}

// Ref returns a reference to the value of e.
func (b *Builder) Ref(e StreamExpr) *Reference {
	id, _ := e.ValueID()
	return &Reference{Target: id}
}

// Apply returns an application of fn with a single unnamed output.
func (b *Builder) Apply(fn flowgraph.ID, args ...StreamExpr) *Application {
	return b.ApplyNamed(fn, []string{""}, args...)
}

// ApplyNamed returns an application of fn with one output per name. An empty
// name marks the primary output.
func (b *Builder) ApplyNamed(fn flowgraph.ID, outputs []string, args ...StreamExpr) *Application {
	app := &Application{
		ID:         b.IDGenerator.ID(),
		Func:       fn,
		StreamArgs: args,
		Outputs:    make([]Output, len(outputs)),
	}
	for i, name := range outputs {
		app.Outputs[i] = Output{ID: b.IDGenerator.ID(), Name: name}
	}
	return app
}

// With appends function arguments to app and returns it.
func (b *Builder) With(app *Application, fns ...FuncArg) *Application {
	app.FuncArgs = append(app.FuncArgs, fns...)
	return app
}

// Function returns a tree function with fresh parameter ids.
func (b *Builder) Function(name string, streamParams, funcParams, yields int, body ...BodyEntry) *TreeFunction {
	fn := &TreeFunction{
		ID:           b.IDGenerator.ID(),
		Name:         name,
		StreamParams: make([]flowgraph.ID, streamParams),
		FuncParams:   make([]flowgraph.ID, funcParams),
		Yields:       yields,
		Body:         body,
	}
	for i := range fn.StreamParams {
		fn.StreamParams[i] = b.IDGenerator.ID()
	}
	for i := range fn.FuncParams {
		fn.FuncParams[i] = b.IDGenerator.ID()
	}
	return fn
}

func (b *Builder) Native(name string) *NativeFunction {
	return &NativeFunction{ID: b.IDGenerator.ID(), Name: name}
}

func Yields(index int, e StreamExpr) *Yield {
	return &Yield{Index: index, Expr: e}
}

func RefID(id flowgraph.ID) *Reference {
	return &Reference{Target: id}
}

func FuncRefID(id flowgraph.ID) *FuncRef {
	return &FuncRef{Func: id}
}
