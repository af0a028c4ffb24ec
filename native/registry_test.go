package native_test

import (
	"strings"
	"testing"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r, err := native.New(native.Def{ID: 0xa001, Name: "add", StreamParams: 2, Outputs: []string{""}})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	d, ok := r.Lookup(0xa001)
	require.True(t, ok)
	assert.Equal(t, "add", d.Name)

	d, ok = r.Lookup(native.ConstructArrayID)
	require.True(t, ok)
	assert.True(t, d.Variadic)

	_, ok = r.Lookup(0xa002)
	assert.False(t, ok)

	defs := r.Defs()
	assert.Equal(t, native.ConstructArrayID, defs[0].ID)
	assert.Equal(t, native.IdentityID, defs[1].ID)
	assert.Equal(t, flowgraph.ID(0xa001), defs[2].ID)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		defs []native.Def
		code string
	}{
		{
			name: "invalid id",
			defs: []native.Def{{Name: "zero"}},
			code: flowgraph.EInvalid,
		},
		{
			name: "reserved id",
			defs: []native.Def{{ID: 0x10, Name: "low"}},
			code: flowgraph.EInvalid,
		},
		{
			name: "duplicate id",
			defs: []native.Def{{ID: 0xa001, Name: "a"}, {ID: 0xa001, Name: "b"}},
			code: flowgraph.EDuplicate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := native.New(tt.defs...)
			require.Error(t, err)
			assert.Equal(t, tt.code, flowgraph.ErrorCode(err))
			assert.Equal(t, "native.New", flowgraph.ErrorOp(err))
		})
	}
	assert.Panics(t, func() { native.MustNew(native.Def{Name: "zero"}) })
}

func TestDef_Node(t *testing.T) {
	n := native.Def{ID: 0xa001, Name: "add"}.Node()
	assert.Equal(t, flowgraph.ID(0xa001), n.FuncID())
	assert.Equal(t, "add", n.Name)
}

func TestLoadFile(t *testing.T) {
	r, err := native.LoadFile("testdata/core.toml")
	require.NoError(t, err)
	assert.Equal(t, 6, r.Len())

	split, ok := r.Lookup(0xa003)
	require.True(t, ok)
	assert.Equal(t, native.Def{
		ID:           0xa003,
		Name:         "split",
		StreamParams: 1,
		Outputs:      []string{"", "rest"},
	}, split)

	m, ok := r.Lookup(0xa005)
	require.True(t, ok)
	assert.Equal(t, 1, m.FuncParams)

	concat, ok := r.Lookup(0xa006)
	require.True(t, ok)
	assert.True(t, concat.Variadic)
}

func TestLoad_Errors(t *testing.T) {
	_, err := native.Load(strings.NewReader("[[function]\nid = 1"))
	require.Error(t, err)
	assert.Equal(t, flowgraph.EInvalid, flowgraph.ErrorCode(err))

	_, err = native.Load(strings.NewReader("[[function]]\nid = \"not an id\"\n"))
	require.Error(t, err)
	assert.Equal(t, flowgraph.EInvalid, flowgraph.ErrorCode(err))

	_, err = native.Load(strings.NewReader("[[function]]\nid = \"0000000000000001\"\nname = \"shadow\"\n"))
	require.Error(t, err)
	assert.Equal(t, flowgraph.EInvalid, flowgraph.ErrorCode(err))

	_, err = native.LoadFile("testdata/missing.toml")
	assert.Error(t, err)
}
