package flowgraph_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/influxdata/flowgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"
)

// sample is the definition of
//
//	main(p) { x := 3; inc := fn() { yield add(x, p) }; yield inc() }
func sample() *flowgraph.Definition {
	return &flowgraph.Definition{
		StreamParams: []flowgraph.ID{0x1001},
		FuncParams:   []flowgraph.ID{},
		Consts: []flowgraph.ConstStream{
			{ID: 0x1002, Value: flowgraph.NumberValue(3)},
			{ID: 0x1003, Value: flowgraph.TextValue("label")},
		},
		Apps: []flowgraph.Application{{
			ID:         0x2001,
			Func:       0x3001,
			Outputs:    []flowgraph.ID{0x2002},
			StreamArgs: []flowgraph.ID{},
			FuncArgs:   []flowgraph.ID{},
		}},
		Locals: []flowgraph.Local{{
			Func: 0x3001,
			Def: &flowgraph.Definition{
				StreamParams: []flowgraph.ID{},
				FuncParams:   []flowgraph.ID{},
				Consts:       []flowgraph.ConstStream{},
				Apps: []flowgraph.Application{{
					ID:         0x2003,
					Func:       0xa001,
					Outputs:    []flowgraph.ID{0x2004},
					StreamArgs: []flowgraph.ID{0x1002, 0x1001},
					FuncArgs:   []flowgraph.ID{},
				}},
				Locals:   []flowgraph.Local{},
				Yields:   []flowgraph.ID{0x2004},
				Captures: []flowgraph.ID{0x1002, 0x1001},
			},
		}},
		Yields:   []flowgraph.ID{0x2002},
		Captures: []flowgraph.ID{},
	}
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *flowgraph.Definition)
		blame  flowgraph.ID
	}{
		{
			name:   "valid",
			modify: func(*flowgraph.Definition) {},
		},
		{
			name: "application before its argument",
			modify: func(d *flowgraph.Definition) {
				d.Apps = append(d.Apps, flowgraph.Application{ID: 0x2005, Func: 0xa001, Outputs: []flowgraph.ID{0x2006}})
				d.Apps[0].StreamArgs = []flowgraph.ID{0x2006}
			},
			blame: 0x2001,
		},
		{
			name: "stream defined twice",
			modify: func(d *flowgraph.Definition) {
				d.Consts[1].ID = d.Consts[0].ID
			},
			blame: 0x1002,
		},
		{
			name: "yield of an undefined stream",
			modify: func(d *flowgraph.Definition) {
				d.Yields[0] = 0x9999
			},
			blame: 0x9999,
		},
		{
			name: "local captures a stream its parent cannot see",
			modify: func(d *flowgraph.Definition) {
				d.Locals[0].Def.Captures = append(d.Locals[0].Def.Captures, 0x9999)
			},
			blame: 0x9999,
		},
		{
			name: "local without definition",
			modify: func(d *flowgraph.Definition) {
				d.Locals[0].Def = nil
			},
			blame: 0x3001,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sample()
			tt.modify(d)
			err := d.Validate()
			if !tt.blame.Valid() {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, flowgraph.EInternal, flowgraph.ErrorCode(err))
			assert.Equal(t, tt.blame, flowgraph.ErrorID(err))
		})
	}
}

func TestDefinition_LocalAndStreams(t *testing.T) {
	d := sample()
	local, ok := d.Local(0x3001)
	require.True(t, ok)
	assert.Equal(t, []flowgraph.ID{0x2004}, local.Yields)

	_, ok = d.Local(0x3002)
	assert.False(t, ok)

	assert.Equal(t, []flowgraph.ID{0x1001, 0x1002, 0x1003, 0x2002}, d.Streams())
}

func TestEmpty(t *testing.T) {
	d := flowgraph.Empty()
	require.NoError(t, d.Validate())
	assert.Empty(t, d.Apps)
	assert.Empty(t, d.Yields)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"streamParams": [], "funcParams": [], "consts": [], "apps": [],
		"locals": [], "yields": [], "captures": []
	}`, string(b))
}

func TestDefinition_JSON(t *testing.T) {
	b, err := json.Marshal(sample())
	require.NoError(t, err)

	var got flowgraph.Definition
	require.NoError(t, json.Unmarshal(b, &got))
	if diff := cmp.Diff(sample(), &got); diff != "" {
		t.Fatalf("unexpected definition -want/+got:\n%s", diff)
	}
	assert.Contains(t, string(b), `"consts":[{"id":"0000000000001002","value":3}`)
}

func TestDefinition_Msgpack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample().WriteMsgpack(&buf))

	got, err := flowgraph.ReadMsgpack(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Fatalf("unexpected definition -want/+got:\n%s", diff)
	}
}

func TestDefinition_MsgpackSkipsUnknownFields(t *testing.T) {
	var buf bytes.Buffer
	w := msgp.NewWriter(&buf)
	require.NoError(t, w.WriteMapHeader(2))
	require.NoError(t, w.WriteString("future"))
	require.NoError(t, w.WriteArrayHeader(1))
	require.NoError(t, w.WriteString("ignored"))
	require.NoError(t, w.WriteString("y"))
	require.NoError(t, w.WriteArrayHeader(1))
	require.NoError(t, w.WriteUint64(0x42))
	require.NoError(t, w.Flush())

	got, err := flowgraph.ReadMsgpack(&buf)
	require.NoError(t, err)
	assert.Equal(t, []flowgraph.ID{0x42}, got.Yields)
	assert.Empty(t, got.Apps)
}

func TestReadMsgpack_Malformed(t *testing.T) {
	_, err := flowgraph.ReadMsgpack(strings.NewReader("\xc1"))
	require.Error(t, err)
	assert.Equal(t, flowgraph.EInvalid, flowgraph.ErrorCode(err))
}

func TestDefinition_String(t *testing.T) {
	s := sample().String()
	for _, want := range []string{
		"[0000000000002002] = 0000000000003001()",
		"[0000000000002004] = 000000000000a001(0000000000001002, 0000000000001001)",
		"[captures]  0000000000001002, 0000000000001001",
		`[0000000000001003]  "label"`,
		"[local]",
	} {
		assert.Contains(t, s, want)
	}
	assert.Equal(t, "", (*flowgraph.Definition)(nil).String())
}
