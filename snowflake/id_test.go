package snowflake_test

import (
	"testing"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ flowgraph.IDGenerator = (*snowflake.IDGenerator)(nil)

func TestIDGenerator_ID(t *testing.T) {
	gen := snowflake.NewIDGenerator(snowflake.WithMachineID(7))
	require.Equal(t, 7, gen.Generator.MachineID())

	seen := make(map[flowgraph.ID]struct{})
	var last flowgraph.ID
	for i := 0; i < 1000; i++ {
		id := gen.ID()
		assert.True(t, id.Valid())
		assert.False(t, id.Reserved())
		assert.Greater(t, id, last)
		last = id
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestNewIDGenerator_Default(t *testing.T) {
	gen := snowflake.NewIDGenerator()
	require.NotNil(t, gen.Generator)
	assert.True(t, gen.ID().Valid())
}
