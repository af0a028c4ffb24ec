package mock

import (
	"sync"
	"testing"

	"github.com/influxdata/flowgraph"
)

// IDGenerator is mock implementation of flowgraph.IDGenerator.
type IDGenerator struct {
	IDFn func() flowgraph.ID
}

// ID generates a new flowgraph.ID from a mock function.
func (g IDGenerator) ID() flowgraph.ID {
	return g.IDFn()
}

// NewIDGenerator is a simple way to create immutable id generator
func NewIDGenerator(s string, t *testing.T) IDGenerator {
	return IDGenerator{
		IDFn: func() flowgraph.ID {
			id, err := flowgraph.IDFromString(s)
			if err != nil {
				t.Fatal(err)
			}
			return *id
		},
	}
}

// NewSequentialIDGenerator returns a generator counting up from start.
// Trees built with it get the same ids on every run.
func NewSequentialIDGenerator(start flowgraph.ID) IDGenerator {
	var (
		mu   sync.Mutex
		next = start
	)
	return IDGenerator{
		IDFn: func() flowgraph.ID {
			mu.Lock()
			defer mu.Unlock()
			id := next
			next++
			return id
		},
	}
}

// Allocator is a mock implementation of compiler.Allocator.
type Allocator struct {
	ApplicationIDFn func(source flowgraph.ID) flowgraph.ID
}

// ApplicationID returns an application id from a mock function.
func (a Allocator) ApplicationID(source flowgraph.ID) flowgraph.ID {
	return a.ApplicationIDFn(source)
}
