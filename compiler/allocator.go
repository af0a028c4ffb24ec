package compiler

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/influxdata/flowgraph"
)

// Allocator hands out ids for the applications the compiler synthesizes
// when it lowers array literals and indirections.
type Allocator interface {
	// ApplicationID returns the application id for the synthetic
	// application producing the stream source.
	ApplicationID(source flowgraph.ID) flowgraph.ID
}

// applicationNamespace separates derived application ids from any other use
// of the same hash.
const applicationNamespace uint64 = 0x666c6f7761707073 // "flowapps"

// HashAllocator derives application ids from the id of the stream they
// produce. The same tree always compiles to the same ids.
type HashAllocator struct{}

// ApplicationID implements Allocator.
func (HashAllocator) ApplicationID(source flowgraph.ID) flowgraph.ID {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], applicationNamespace)
	binary.BigEndian.PutUint64(b[8:], uint64(source))

	id := flowgraph.ID(xxhash.Sum64(b[:]))
	for id < flowgraph.ReservedIDs {
		binary.BigEndian.PutUint64(b[:8], uint64(id))
		id = flowgraph.ID(xxhash.Sum64(b[:]))
	}
	return id
}
