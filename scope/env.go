// Package scope provides chained environments mapping identifiers to their
// definitions, one frame per lexical scope.
package scope

import (
	"errors"
)

var (
	// ErrKeyExists is returned by Set when the key is already bound in the local frame.
	ErrKeyExists = errors.New("key already defined in this scope")

	// ErrKeyNotFound is returned by Get when no frame in the chain binds the key.
	ErrKeyNotFound = errors.New("key not found in any scope")
)

// Env is one frame of a chain of environments. Lookups check the frame first
// and then its parents. Bindings are never removed; a frame is discarded with
// the scope it belongs to.
//
// Binding a key already bound by a parent shadows it and is not an error.
type Env[K comparable, V any] struct {
	parent *Env[K, V]
	vars   map[K]V
	keys   []K
}

// New returns an empty root frame.
func New[K comparable, V any]() *Env[K, V] {
	return &Env[K, V]{vars: make(map[K]V)}
}

// Extend returns a new empty frame whose parent is e.
func (e *Env[K, V]) Extend() *Env[K, V] {
	child := New[K, V]()
	child.parent = e
	return child
}

// Parent returns the enclosing frame, or nil for a root frame.
func (e *Env[K, V]) Parent() *Env[K, V] {
	return e.parent
}

// Has reports whether k is bound in this frame or any parent.
func (e *Env[K, V]) Has(k K) bool {
	_, ok := e.Lookup(k)
	return ok
}

// HasLocal reports whether k is bound in this frame.
func (e *Env[K, V]) HasLocal(k K) bool {
	_, ok := e.vars[k]
	return ok
}

// Lookup returns the value bound to k by the innermost frame binding it.
func (e *Env[K, V]) Lookup(k K) (V, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.vars[k]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Get is like Lookup but fails with ErrKeyNotFound.
func (e *Env[K, V]) Get(k K) (V, error) {
	v, ok := e.Lookup(k)
	if !ok {
		return v, ErrKeyNotFound
	}
	return v, nil
}

// Set binds k to v in this frame. It fails with ErrKeyExists if this frame
// already binds k.
func (e *Env[K, V]) Set(k K, v V) error {
	if _, ok := e.vars[k]; ok {
		return ErrKeyExists
	}
	e.vars[k] = v
	e.keys = append(e.keys, k)
	return nil
}

// Keys returns the keys bound in this frame in the order they were set.
func (e *Env[K, V]) Keys() []K {
	keys := make([]K, len(e.keys))
	copy(keys, e.keys)
	return keys
}

// Len returns the number of keys bound in this frame.
func (e *Env[K, V]) Len() int {
	return len(e.vars)
}
