package tree

import (
	"encoding/json"
	"fmt"

	"github.com/influxdata/flowgraph"
)

// UnmarshalFunction decodes a JSON encoded tree function, typically the main
// definition of a program.
func UnmarshalFunction(data []byte) (*TreeFunction, error) {
	n, err := UnmarshalNode(data)
	if err != nil {
		return nil, err
	}
	fn, ok := n.(*TreeFunction)
	if !ok {
		return nil, &flowgraph.Error{
			Code: flowgraph.EInvalid,
			Msg:  fmt.Sprintf("expected TreeFunction, got %s", n.NodeType()),
		}
	}
	return fn, nil
}

// UnmarshalNode decodes any JSON encoded node using its "type" field.
func UnmarshalNode(data []byte) (Node, error) {
	n, err := unmarshalNode(data)
	if err != nil {
		return nil, &flowgraph.Error{
			Code: flowgraph.EInvalid,
			Msg:  "malformed program tree",
			Err:  err,
		}
	}
	return n, nil
}

func unmarshalNode(data []byte) (Node, error) {
	if checkNullMsg(data) {
		return nil, nil
	}
	t := struct {
		Type string `json:"type"`
	}{}
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	var n Node
	switch t.Type {
	case "UndefinedLiteral":
		n = new(UndefinedLiteral)
	case "NumberLiteral":
		n = new(NumberLiteral)
	case "TextLiteral":
		n = new(TextLiteral)
	case "BooleanLiteral":
		n = new(BooleanLiteral)
	case "ArrayLiteral":
		n = new(ArrayLiteral)
	case "Indirection":
		n = new(Indirection)
	case "Reference":
		n = new(Reference)
	case "Application":
		n = new(Application)
	case "Yield":
		n = new(Yield)
	case "TreeFunction":
		n = new(TreeFunction)
	case "NativeFunction":
		n = new(NativeFunction)
	case "FuncRef":
		n = new(FuncRef)
	default:
		return nil, fmt.Errorf("unknown node type %q", t.Type)
	}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, err
	}
	return n, nil
}

func checkNullMsg(msg json.RawMessage) bool {
	switch len(msg) {
	case 0:
		return true
	case 4:
		return string(msg) == "null"
	default:
		return false
	}
}

func unmarshalStreamExpr(msg json.RawMessage) (StreamExpr, error) {
	n, err := unmarshalNode(msg)
	if err != nil || n == nil {
		return nil, err
	}
	e, ok := n.(StreamExpr)
	if !ok {
		return nil, fmt.Errorf("node %s is not a stream expression", n.NodeType())
	}
	return e, nil
}

func unmarshalStreamExprs(msgs []json.RawMessage) ([]StreamExpr, error) {
	exprs := make([]StreamExpr, len(msgs))
	for i, m := range msgs {
		e, err := unmarshalStreamExpr(m)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	return exprs, nil
}

func unmarshalBodyEntry(msg json.RawMessage) (BodyEntry, error) {
	n, err := unmarshalNode(msg)
	if err != nil || n == nil {
		return nil, err
	}
	e, ok := n.(BodyEntry)
	if !ok {
		return nil, fmt.Errorf("node %s is not a body entry", n.NodeType())
	}
	return e, nil
}

func unmarshalFuncArg(msg json.RawMessage) (FuncArg, error) {
	n, err := unmarshalNode(msg)
	if err != nil || n == nil {
		return nil, err
	}
	a, ok := n.(FuncArg)
	if !ok {
		return nil, fmt.Errorf("node %s is not a function argument", n.NodeType())
	}
	return a, nil
}

func (n *UndefinedLiteral) MarshalJSON() ([]byte, error) {
	type Alias UndefinedLiteral
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *NumberLiteral) MarshalJSON() ([]byte, error) {
	type Alias NumberLiteral
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *TextLiteral) MarshalJSON() ([]byte, error) {
	type Alias TextLiteral
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *BooleanLiteral) MarshalJSON() ([]byte, error) {
	type Alias BooleanLiteral
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *ArrayLiteral) MarshalJSON() ([]byte, error) {
	type Alias ArrayLiteral
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *ArrayLiteral) UnmarshalJSON(data []byte) error {
	type Alias ArrayLiteral
	raw := struct {
		*Alias
		Elements []json.RawMessage `json:"elements"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Alias != nil {
		*n = *(*ArrayLiteral)(raw.Alias)
	}

	elements, err := unmarshalStreamExprs(raw.Elements)
	if err != nil {
		return err
	}
	n.Elements = elements
	return nil
}

func (n *Indirection) MarshalJSON() ([]byte, error) {
	type Alias Indirection
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *Indirection) UnmarshalJSON(data []byte) error {
	type Alias Indirection
	raw := struct {
		*Alias
		Expr json.RawMessage `json:"expr"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Alias != nil {
		*n = *(*Indirection)(raw.Alias)
	}

	e, err := unmarshalStreamExpr(raw.Expr)
	if err != nil {
		return err
	}
	n.Expr = e
	return nil
}

func (n *Reference) MarshalJSON() ([]byte, error) {
	type Alias Reference
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *Application) MarshalJSON() ([]byte, error) {
	type Alias Application
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *Application) UnmarshalJSON(data []byte) error {
	type Alias Application
	raw := struct {
		*Alias
		StreamArgs []json.RawMessage `json:"streamArgs"`
		FuncArgs   []json.RawMessage `json:"funcArgs"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Alias != nil {
		*n = *(*Application)(raw.Alias)
	}

	args, err := unmarshalStreamExprs(raw.StreamArgs)
	if err != nil {
		return err
	}
	n.StreamArgs = args

	n.FuncArgs = make([]FuncArg, len(raw.FuncArgs))
	for i, m := range raw.FuncArgs {
		a, err := unmarshalFuncArg(m)
		if err != nil {
			return err
		}
		n.FuncArgs[i] = a
	}
	return nil
}

func (n *Yield) MarshalJSON() ([]byte, error) {
	type Alias Yield
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *Yield) UnmarshalJSON(data []byte) error {
	type Alias Yield
	raw := struct {
		*Alias
		Expr json.RawMessage `json:"expr"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Alias != nil {
		*n = *(*Yield)(raw.Alias)
	}

	e, err := unmarshalStreamExpr(raw.Expr)
	if err != nil {
		return err
	}
	n.Expr = e
	return nil
}

func (n *TreeFunction) MarshalJSON() ([]byte, error) {
	type Alias TreeFunction
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *TreeFunction) UnmarshalJSON(data []byte) error {
	type Alias TreeFunction
	raw := struct {
		*Alias
		Body []json.RawMessage `json:"body"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Alias != nil {
		*n = *(*TreeFunction)(raw.Alias)
	}

	n.Body = make([]BodyEntry, len(raw.Body))
	for i, m := range raw.Body {
		e, err := unmarshalBodyEntry(m)
		if err != nil {
			return err
		}
		n.Body[i] = e
	}
	return nil
}

func (n *NativeFunction) MarshalJSON() ([]byte, error) {
	type Alias NativeFunction
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}

func (n *FuncRef) MarshalJSON() ([]byte, error) {
	type Alias FuncRef
	raw := struct {
		Type string `json:"type"`
		*Alias
	}{
		Type:  n.NodeType(),
		Alias: (*Alias)(n),
	}
	return json.Marshal(raw)
}
