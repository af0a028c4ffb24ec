package flowgraph

import "fmt"

// ConstStream is a stream holding a literal value.
type ConstStream struct {
	ID    ID    `json:"id"`
	Value Value `json:"value"`
}

// Application is one function invocation of a compiled definition.
type Application struct {
	ID         ID   `json:"id"`
	Func       ID   `json:"func"`
	Outputs    []ID `json:"outputs"`
	StreamArgs []ID `json:"streamArgs"`
	FuncArgs   []ID `json:"funcArgs"`
}

// Local is a definition compiled for a function defined inside another one.
type Local struct {
	Func ID          `json:"func"`
	Def  *Definition `json:"def"`
}

// Definition is the compiled, dependency-ordered form of one function
// definition. It is what the runtime executes.
//
// Apps is ordered so that every application comes after the applications
// producing the streams it consumes. Yields holds one stream id per declared
// output. Captures lists the streams the definition reads from its enclosing
// definitions, in the order they were first referenced.
type Definition struct {
	StreamParams []ID          `json:"streamParams"`
	FuncParams   []ID          `json:"funcParams"`
	Consts       []ConstStream `json:"consts"`
	Apps         []Application `json:"apps"`
	Locals       []Local       `json:"locals"`
	Yields       []ID          `json:"yields"`
	Captures     []ID          `json:"captures"`
}

// Empty returns the definition handed to the runtime in place of one that
// failed to compile.
func Empty() *Definition {
	return &Definition{
		StreamParams: []ID{},
		FuncParams:   []ID{},
		Consts:       []ConstStream{},
		Apps:         []Application{},
		Locals:       []Local{},
		Yields:       []ID{},
		Captures:     []ID{},
	}
}

// Local returns the compiled definition of the local function fn.
func (d *Definition) Local(fn ID) (*Definition, bool) {
	for _, l := range d.Locals {
		if l.Func == fn {
			return l.Def, true
		}
	}
	return nil, false
}

// Streams returns every stream id defined by d, parameters first, then
// constants, then application outputs in order.
func (d *Definition) Streams() []ID {
	ids := make([]ID, 0, len(d.StreamParams)+len(d.Consts)+len(d.Apps))
	ids = append(ids, d.StreamParams...)
	for _, c := range d.Consts {
		ids = append(ids, c.ID)
	}
	for _, a := range d.Apps {
		ids = append(ids, a.Outputs...)
	}
	return ids
}

// Validate checks that d is safe to hand to the runtime: applications are in
// dependency order, no stream is defined twice, every yield is populated and
// local definitions only capture streams visible to them.
func (d *Definition) Validate() error {
	return d.validate(nil)
}

func (d *Definition) validate(outer map[ID]struct{}) error {
	const op = "flowgraph.Definition.Validate"

	invalid := func(id ID, format string, args ...interface{}) error {
		return &Error{
			Code: EInternal,
			Op:   op,
			ID:   id,
			Msg:  fmt.Sprintf(format, args...),
		}
	}

	visible := make(map[ID]struct{}, len(d.StreamParams)+len(d.Consts)+len(d.Apps))
	define := func(id ID) error {
		if !id.Valid() {
			return invalid(id, "invalid stream id")
		}
		if _, ok := visible[id]; ok {
			return invalid(id, "stream %s defined twice", id)
		}
		visible[id] = struct{}{}
		return nil
	}

	for _, id := range d.Captures {
		if outer != nil {
			if _, ok := outer[id]; !ok {
				return invalid(id, "captured stream %s is not visible", id)
			}
		}
		if err := define(id); err != nil {
			return err
		}
	}
	for _, id := range d.StreamParams {
		if err := define(id); err != nil {
			return err
		}
	}
	for _, c := range d.Consts {
		if err := define(c.ID); err != nil {
			return err
		}
	}
	for i, a := range d.Apps {
		for _, arg := range a.StreamArgs {
			if _, ok := visible[arg]; !ok {
				return invalid(a.ID, "application %d consumes stream %s before it is defined", i, arg)
			}
		}
		for _, id := range a.Outputs {
			if err := define(id); err != nil {
				return err
			}
		}
	}
	for i, id := range d.Yields {
		if _, ok := visible[id]; !ok {
			return invalid(id, "yield %d refers to undefined stream %s", i, id)
		}
	}

	// Locals may capture anything their parent can see, including what the
	// parent itself captured.
	for id := range outer {
		visible[id] = struct{}{}
	}
	for _, l := range d.Locals {
		if l.Def == nil {
			return invalid(l.Func, "local function %s has no definition", l.Func)
		}
		if err := l.Def.validate(visible); err != nil {
			return err
		}
	}
	return nil
}
