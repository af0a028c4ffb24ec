// Package tree defines the program tree the editor manipulates and the
// compiler reads. Trees are treated as immutable once handed over.
package tree

import (
	"github.com/influxdata/flowgraph"
)

// Node is any node of a program tree.
type Node interface {
	NodeType() string
	node()
}

// StreamExpr is a node evaluating to a stream. Any stream expression may
// stand alone in a body.
type StreamExpr interface {
	BodyEntry
	// Accept calls the ExprVisitor method matching the node's variant.
	Accept(v ExprVisitor) error
	// Defines returns the stream ids the node itself introduces.
	Defines() []flowgraph.ID
	// ValueID returns the id of the stream that represents the value of the
	// expression. It is false for an application without outputs.
	ValueID() (flowgraph.ID, bool)
	expr()
}

// BodyEntry is an entry of a function body: a stream expression, a yield or
// a nested function definition.
type BodyEntry interface {
	Node
	bodyEntry()
}

// FuncArg is a function passed to an application: a reference to a
// function in scope or a definition written in place.
type FuncArg interface {
	Node
	// Target returns the id of the passed function.
	Target() flowgraph.ID
	funcArg()
}

// FuncDef is a function definition.
type FuncDef interface {
	BodyEntry
	FuncArg
	FuncID() flowgraph.ID
}

// ExprVisitor has one method per StreamExpr variant. Adding a variant adds a
// method here, so every visitor stops compiling until it handles it.
type ExprVisitor interface {
	VisitUndefined(*UndefinedLiteral) error
	VisitNumber(*NumberLiteral) error
	VisitText(*TextLiteral) error
	VisitBoolean(*BooleanLiteral) error
	VisitArray(*ArrayLiteral) error
	VisitIndirection(*Indirection) error
	VisitReference(*Reference) error
	VisitApplication(*Application) error
}

// UndefinedLiteral is a literal with no value yet.
type UndefinedLiteral struct {
	ID flowgraph.ID `json:"id"`
}

// NumberLiteral is a numeric literal.
type NumberLiteral struct {
	ID    flowgraph.ID `json:"id"`
	Value float64      `json:"value"`
}

// TextLiteral is a text literal.
type TextLiteral struct {
	ID    flowgraph.ID `json:"id"`
	Value string       `json:"value"`
}

// BooleanLiteral is a boolean literal.
type BooleanLiteral struct {
	ID    flowgraph.ID `json:"id"`
	Value bool         `json:"value"`
}

// ArrayLiteral builds an array stream out of its element streams.
type ArrayLiteral struct {
	ID       flowgraph.ID `json:"id"`
	Elements []StreamExpr `json:"elements"`
}

// Indirection gives the stream of Expr a name of its own.
type Indirection struct {
	ID   flowgraph.ID `json:"id"`
	Name string       `json:"name,omitempty"`
	Expr StreamExpr   `json:"expr"`
}

// Reference consumes a stream defined elsewhere.
type Reference struct {
	Target flowgraph.ID `json:"target"`
}

// Output is one declared output of an application.
type Output struct {
	ID   flowgraph.ID `json:"id"`
	Name string       `json:"name,omitempty"`
}

// Application invokes the function Func.
type Application struct {
	ID         flowgraph.ID `json:"id"`
	Func       flowgraph.ID `json:"func"`
	StreamArgs []StreamExpr `json:"streamArgs"`
	FuncArgs   []FuncArg    `json:"funcArgs"`
	Outputs    []Output     `json:"outputs"`
}

// Yield makes the stream of Expr the output at Index of the enclosing function.
type Yield struct {
	Index int        `json:"index"`
	Expr  StreamExpr `json:"expr"`
}

// TreeFunction is a function whose body is a program tree. Yields is the
// number of outputs the function declares.
type TreeFunction struct {
	ID           flowgraph.ID   `json:"id"`
	Name         string         `json:"name,omitempty"`
	StreamParams []flowgraph.ID `json:"streamParams"`
	FuncParams   []flowgraph.ID `json:"funcParams"`
	Yields       int            `json:"yields"`
	Body         []BodyEntry    `json:"body"`
}

// NativeFunction is a function implemented by the runtime. Its interface
// lives in the native registry under the same id.
type NativeFunction struct {
	ID   flowgraph.ID `json:"id"`
	Name string       `json:"name,omitempty"`
}

// FuncRef passes a function that is in scope by id.
type FuncRef struct {
	Func flowgraph.ID `json:"func"`
}

func (*UndefinedLiteral) NodeType() string { return "UndefinedLiteral" }
func (*NumberLiteral) NodeType() string    { return "NumberLiteral" }
func (*TextLiteral) NodeType() string      { return "TextLiteral" }
func (*BooleanLiteral) NodeType() string   { return "BooleanLiteral" }
func (*ArrayLiteral) NodeType() string     { return "ArrayLiteral" }
func (*Indirection) NodeType() string      { return "Indirection" }
func (*Reference) NodeType() string        { return "Reference" }
func (*Application) NodeType() string      { return "Application" }
func (*Yield) NodeType() string            { return "Yield" }
func (*TreeFunction) NodeType() string     { return "TreeFunction" }
func (*NativeFunction) NodeType() string   { return "NativeFunction" }
func (*FuncRef) NodeType() string          { return "FuncRef" }

func (*UndefinedLiteral) node() {}
func (*NumberLiteral) node()    {}
func (*TextLiteral) node()      {}
func (*BooleanLiteral) node()   {}
func (*ArrayLiteral) node()     {}
func (*Indirection) node()      {}
func (*Reference) node()        {}
func (*Application) node()      {}
func (*Yield) node()            {}
func (*TreeFunction) node()     {}
func (*NativeFunction) node()   {}
func (*FuncRef) node()          {}

func (*UndefinedLiteral) expr() {}
func (*NumberLiteral) expr()    {}
func (*TextLiteral) expr()      {}
func (*BooleanLiteral) expr()   {}
func (*ArrayLiteral) expr()     {}
func (*Indirection) expr()      {}
func (*Reference) expr()        {}
func (*Application) expr()      {}

func (*UndefinedLiteral) bodyEntry() {}
func (*NumberLiteral) bodyEntry()    {}
func (*TextLiteral) bodyEntry()      {}
func (*BooleanLiteral) bodyEntry()   {}
func (*ArrayLiteral) bodyEntry()     {}
func (*Indirection) bodyEntry()      {}
func (*Reference) bodyEntry()        {}
func (*Application) bodyEntry()      {}
func (*Yield) bodyEntry()            {}
func (*TreeFunction) bodyEntry()     {}
func (*NativeFunction) bodyEntry()   {}

func (*TreeFunction) funcArg()   {}
func (*NativeFunction) funcArg() {}
func (*FuncRef) funcArg()        {}

func (n *UndefinedLiteral) Accept(v ExprVisitor) error { return v.VisitUndefined(n) }
func (n *NumberLiteral) Accept(v ExprVisitor) error    { return v.VisitNumber(n) }
func (n *TextLiteral) Accept(v ExprVisitor) error      { return v.VisitText(n) }
func (n *BooleanLiteral) Accept(v ExprVisitor) error   { return v.VisitBoolean(n) }
func (n *ArrayLiteral) Accept(v ExprVisitor) error     { return v.VisitArray(n) }
func (n *Indirection) Accept(v ExprVisitor) error      { return v.VisitIndirection(n) }
func (n *Reference) Accept(v ExprVisitor) error        { return v.VisitReference(n) }
func (n *Application) Accept(v ExprVisitor) error      { return v.VisitApplication(n) }

func (n *UndefinedLiteral) Defines() []flowgraph.ID { return []flowgraph.ID{n.ID} }
func (n *NumberLiteral) Defines() []flowgraph.ID    { return []flowgraph.ID{n.ID} }
func (n *TextLiteral) Defines() []flowgraph.ID      { return []flowgraph.ID{n.ID} }
func (n *BooleanLiteral) Defines() []flowgraph.ID   { return []flowgraph.ID{n.ID} }
func (n *ArrayLiteral) Defines() []flowgraph.ID     { return []flowgraph.ID{n.ID} }
func (n *Indirection) Defines() []flowgraph.ID      { return []flowgraph.ID{n.ID} }
func (n *Reference) Defines() []flowgraph.ID        { return nil }

// Defines returns the ids of all declared outputs.
func (n *Application) Defines() []flowgraph.ID {
	ids := make([]flowgraph.ID, len(n.Outputs))
	for i, o := range n.Outputs {
		ids[i] = o.ID
	}
	return ids
}

func (n *UndefinedLiteral) ValueID() (flowgraph.ID, bool) { return n.ID, true }
func (n *NumberLiteral) ValueID() (flowgraph.ID, bool)    { return n.ID, true }
func (n *TextLiteral) ValueID() (flowgraph.ID, bool)      { return n.ID, true }
func (n *BooleanLiteral) ValueID() (flowgraph.ID, bool)   { return n.ID, true }
func (n *ArrayLiteral) ValueID() (flowgraph.ID, bool)     { return n.ID, true }
func (n *Indirection) ValueID() (flowgraph.ID, bool)      { return n.ID, true }
func (n *Reference) ValueID() (flowgraph.ID, bool)        { return n.Target, true }

// ValueID returns the primary output: the first unnamed output, or the first
// output if every output is named.
func (n *Application) ValueID() (flowgraph.ID, bool) {
	if len(n.Outputs) == 0 {
		return flowgraph.InvalidID(), false
	}
	for _, o := range n.Outputs {
		if o.Name == "" {
			return o.ID, true
		}
	}
	return n.Outputs[0].ID, true
}

func (n *TreeFunction) FuncID() flowgraph.ID   { return n.ID }
func (n *NativeFunction) FuncID() flowgraph.ID { return n.ID }

func (n *TreeFunction) Target() flowgraph.ID   { return n.ID }
func (n *NativeFunction) Target() flowgraph.ID { return n.ID }
func (n *FuncRef) Target() flowgraph.ID        { return n.Func }
