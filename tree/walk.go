package tree

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result of Visit is not nil, Walk visits each of the children.
type Visitor interface {
	Visit(Node) Visitor
}

// Walk traverses a tree in pre-order, calling v.Visit for each node until
// completion or v.Visit returns nil. Children are visited in declaration
// order; an application visits its stream arguments before its function
// arguments.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
}

// WalkFunc traverses like Walk, calling fn for each node. Returning false
// skips the children of the node.
func WalkFunc(node Node, fn func(Node) bool) {
	Walk(funcVisitor(fn), node)
}

type funcVisitor func(Node) bool

func (fn funcVisitor) Visit(n Node) Visitor {
	if fn(n) {
		return fn
	}
	return nil
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case StreamExpr:
		var c children
		if err := n.Accept(&c); err != nil {
			panic(err)
		}
		return c
	case *Yield:
		return []Node{n.Expr}
	case *TreeFunction:
		nodes := make([]Node, len(n.Body))
		for i, e := range n.Body {
			nodes[i] = e
		}
		return nodes
	case *NativeFunction, *FuncRef:
		return nil
	}
	panic(fmt.Sprintf("unexpected node type %T", n))
}

// children collects the child nodes of a stream expression.
type children []Node

func (c *children) VisitUndefined(*UndefinedLiteral) error { return nil }
func (c *children) VisitNumber(*NumberLiteral) error       { return nil }
func (c *children) VisitText(*TextLiteral) error           { return nil }
func (c *children) VisitBoolean(*BooleanLiteral) error     { return nil }
func (c *children) VisitReference(*Reference) error        { return nil }

func (c *children) VisitArray(n *ArrayLiteral) error {
	for _, e := range n.Elements {
		*c = append(*c, e)
	}
	return nil
}

func (c *children) VisitIndirection(n *Indirection) error {
	*c = append(*c, n.Expr)
	return nil
}

func (c *children) VisitApplication(n *Application) error {
	for _, a := range n.StreamArgs {
		*c = append(*c, a)
	}
	for _, a := range n.FuncArgs {
		*c = append(*c, a)
	}
	return nil
}
