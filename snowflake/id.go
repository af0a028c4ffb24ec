// Package snowflake provides the IDGenerator the editor uses to give every
// new tree node its ids.
package snowflake

import (
	"math/rand"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/pkg/snowflake"
)

// IDGenerator holds the ID generator.
type IDGenerator struct {
	Generator *snowflake.Generator
}

// IDGeneratorOp is an option for an IDGenerator.
type IDGeneratorOp func(*IDGenerator)

// WithMachineID uses the low 10 bits of machineID to set the machine ID for the snowflake ID.
func WithMachineID(machineID int) IDGeneratorOp {
	return func(g *IDGenerator) {
		g.Generator = snowflake.New(machineID & 1023)
	}
}

// NewIDGenerator returns a new IDGenerator. Without options the machine id
// is random.
func NewIDGenerator(opts ...IDGeneratorOp) *IDGenerator {
	gen := &IDGenerator{}
	for _, f := range opts {
		f(gen)
	}
	if gen.Generator == nil {
		gen.Generator = snowflake.New(rand.Intn(1023))
	}
	return gen
}

// ID returns the next flowgraph.ID from an IDGenerator. It never returns an
// invalid or reserved id.
func (g *IDGenerator) ID() flowgraph.ID {
	var id flowgraph.ID
	for !id.Valid() || id.Reserved() {
		id = flowgraph.ID(g.Generator.Next())
	}
	return id
}
