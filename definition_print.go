package flowgraph

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// String renders d as an indented tree.
func (d *Definition) String() string {
	if d == nil {
		return ""
	}
	t := treeprint.New()
	d.print(t)
	return t.String()
}

func (d *Definition) print(t treeprint.Tree) {
	if len(d.StreamParams) > 0 || len(d.FuncParams) > 0 {
		p := t.AddBranch("params")
		for _, id := range d.StreamParams {
			p.AddMetaNode("stream", id.String())
		}
		for _, id := range d.FuncParams {
			p.AddMetaNode("func", id.String())
		}
	}
	if len(d.Captures) > 0 {
		t.AddMetaNode("captures", joinIDs(d.Captures))
	}
	if len(d.Consts) > 0 {
		c := t.AddBranch("consts")
		for _, cs := range d.Consts {
			c.AddMetaNode(cs.ID.String(), cs.Value.String())
		}
	}
	if len(d.Apps) > 0 {
		a := t.AddBranch("apps")
		for _, app := range d.Apps {
			label := fmt.Sprintf("[%s] = %s(%s)", joinIDs(app.Outputs), app.Func, joinIDs(app.StreamArgs))
			if len(app.FuncArgs) > 0 {
				label += fmt.Sprintf(" with [%s]", joinIDs(app.FuncArgs))
			}
			a.AddMetaNode(app.ID.String(), label)
		}
	}
	if len(d.Yields) > 0 {
		y := t.AddBranch("yields")
		for i, id := range d.Yields {
			y.AddMetaNode(i, id.String())
		}
	}
	for _, l := range d.Locals {
		l.Def.print(t.AddMetaBranch("local", l.Func.String()))
	}
}

func joinIDs(ids []ID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	return strings.Join(s, ", ")
}
