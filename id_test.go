package flowgraph_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/influxdata/flowgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want flowgraph.ID
		err  string
	}{
		{in: "ffffffffffffffff", want: 0xffffffffffffffff},
		{in: "000000000000a001", want: 0xa001},
		{in: "0000000000000000", err: flowgraph.ErrInvalidID.Error()},
		{in: "zzzzzzzzzzzzzzzz", err: `provided ID is not hexadecimal: strconv.ParseUint: parsing "zzzzzzzzzzzzzzzz": invalid syntax`},
		{in: "", err: flowgraph.ErrInvalidIDLength.Error()},
		{in: "a001", err: flowgraph.ErrInvalidIDLength.Error()},
		{in: "000000000000a0011", err: flowgraph.ErrInvalidIDLength.Error()},
	} {
		t.Run(fmt.Sprintf("%q", tc.in), func(t *testing.T) {
			got, err := flowgraph.IDFromString(tc.in)
			if tc.err != "" {
				require.EqualError(t, err, tc.err)
				assert.Equal(t, flowgraph.EInvalid, flowgraph.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
			assert.Equal(t, tc.in, got.String())
		})
	}
}

func TestID_Invalid(t *testing.T) {
	var id flowgraph.ID
	assert.False(t, id.Valid())
	assert.Equal(t, id, flowgraph.InvalidID())
	assert.Empty(t, id.String())

	_, err := id.Encode()
	assert.Equal(t, flowgraph.ErrInvalidID, err)
	_, err = json.Marshal(id)
	assert.Error(t, err)

	require.Error(t, id.Decode(make([]byte, flowgraph.IDLength)))
	require.Error(t, id.DecodeFromString("a0"))
	assert.False(t, id.Valid(), "a failed decode left a value behind")
}

func TestID_Encode(t *testing.T) {
	id := flowgraph.ID(0x5ca1ab1eba5eba11)
	enc, err := id.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte("5ca1ab1eba5eba11"), enc)

	var back flowgraph.ID
	require.NoError(t, back.Decode(enc))
	assert.Equal(t, id, back)
}

func TestID_JSON(t *testing.T) {
	type app struct {
		ID   flowgraph.ID            `json:"id"`
		Args map[flowgraph.ID]string `json:"args"`
	}
	in := app{ID: 0xa001, Args: map[flowgraph.ID]string{0x1000: "x"}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"000000000000a001","args":{"0000000000001000":"x"}}`, string(data))

	var out app
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	assert.Error(t, json.Unmarshal([]byte(`{"id":"a001"}`), &out))
}

func TestID_GoString(t *testing.T) {
	v := struct{ Func flowgraph.ID }{Func: 0xa001}
	assert.Equal(t, `struct { Func flowgraph.ID }{Func:"000000000000a001"}`, fmt.Sprintf("%#v", v))
}

func TestID_Reserved(t *testing.T) {
	for id, want := range map[flowgraph.ID]bool{
		0:                          false,
		0x01:                       true,
		flowgraph.ReservedIDs - 1:  true,
		flowgraph.ReservedIDs:      false,
		0x020f755c3c082000:         false,
	} {
		assert.Equal(t, want, id.Reserved(), "%s", fmt.Sprintf("%#x", uint64(id)))
	}
}

func BenchmarkID_Encode(b *testing.B) {
	id := flowgraph.ID(0x5ca1ab1eba5eba11)
	for i := 0; i < b.N; i++ {
		_, _ = id.Encode()
	}
}

func BenchmarkID_Decode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var id flowgraph.ID
		_ = id.DecodeFromString("5ca1ab1eba5eba11")
	}
}
