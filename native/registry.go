// Package native holds the interfaces of functions the runtime implements
// natively. The compiler treats them as leaves: it checks that applications
// name a known function and never looks inside one.
package native

import (
	"fmt"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/tree"
)

// Builtin operators the compiler targets when it lowers sugar nodes.
const (
	// ConstructArrayID builds an array stream from its stream arguments.
	ConstructArrayID flowgraph.ID = 0x01
	// IdentityID passes its only stream argument through.
	IdentityID flowgraph.ID = 0x02
)

// Def is the interface of a native function.
type Def struct {
	ID           flowgraph.ID `toml:"id" json:"id"`
	Name         string       `toml:"name" json:"name"`
	StreamParams int          `toml:"stream-params" json:"streamParams"`
	FuncParams   int          `toml:"function-params" json:"funcParams"`
	// Outputs names each output; an empty name is the primary output.
	Outputs []string `toml:"outputs" json:"outputs"`
	// Variadic accepts any number of stream arguments.
	Variadic bool `toml:"variadic" json:"variadic"`
}

// Node returns the tree node standing for d in a function environment.
func (d Def) Node() *tree.NativeFunction {
	return &tree.NativeFunction{ID: d.ID, Name: d.Name}
}

// Builtins returns the definitions every registry contains.
func Builtins() []Def {
	return []Def{
		{ID: ConstructArrayID, Name: "array", Outputs: []string{""}, Variadic: true},
		{ID: IdentityID, Name: "identity", StreamParams: 1, Outputs: []string{""}},
	}
}

// Registry is an immutable table of native definitions keyed by id.
type Registry struct {
	defs  []Def
	index map[flowgraph.ID]int
}

// New returns a registry holding the builtins followed by defs.
// It fails if an id is invalid, reserved or used twice.
func New(defs ...Def) (*Registry, error) {
	r := &Registry{index: make(map[flowgraph.ID]int)}
	for _, d := range Builtins() {
		r.add(d)
	}
	for _, d := range defs {
		if !d.ID.Valid() {
			return nil, &flowgraph.Error{
				Code: flowgraph.EInvalid,
				Op:   "native.New",
				Msg:  fmt.Sprintf("native function %q has an invalid id", d.Name),
			}
		}
		if d.ID.Reserved() {
			return nil, &flowgraph.Error{
				Code: flowgraph.EInvalid,
				Op:   "native.New",
				ID:   d.ID,
				Msg:  fmt.Sprintf("native function %q uses a reserved id", d.Name),
			}
		}
		if _, ok := r.index[d.ID]; ok {
			return nil, &flowgraph.Error{
				Code: flowgraph.EDuplicate,
				Op:   "native.New",
				ID:   d.ID,
				Msg:  fmt.Sprintf("native function %q is defined twice", d.Name),
			}
		}
		r.add(d)
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(defs ...Def) *Registry {
	r, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(d Def) {
	r.index[d.ID] = len(r.defs)
	r.defs = append(r.defs, d)
}

// Lookup returns the definition with the given id.
func (r *Registry) Lookup(id flowgraph.ID) (Def, bool) {
	i, ok := r.index[id]
	if !ok {
		return Def{}, false
	}
	return r.defs[i], true
}

// Defs returns every definition, builtins first, in registration order.
func (r *Registry) Defs() []Def {
	defs := make([]Def, len(r.defs))
	copy(defs, r.defs)
	return defs
}

// Len returns the number of definitions, builtins included.
func (r *Registry) Len() int {
	return len(r.defs)
}
