// Package cache provides an append-only name to index arena. Scenes own their
// textures, geometries and materials through caches and everything else refers
// to entries by index, so no string lookup happens while rendering.
package cache

import (
	"errors"
	"fmt"
)

// ErrDuplicateName is returned when a name is added to a cache twice
var ErrDuplicateName = errors.New("duplicate name")

// Cache maps unique names to stable, zero-based indices in insertion order
type Cache[T any] struct {
	indices map[string]int
	names   []string
	items   []T
}

// New creates an empty cache
func New[T any]() *Cache[T] {
	return &Cache[T]{indices: make(map[string]int)}
}

// Add stores item under name and returns its index
func (c *Cache[T]) Add(name string, item T) (int, error) {
	if c.indices == nil {
		c.indices = make(map[string]int)
	}
	if _, exists := c.indices[name]; exists {
		return 0, fmt.Errorf("item %q: %w", name, ErrDuplicateName)
	}

	idx := len(c.items)
	c.indices[name] = idx
	c.names = append(c.names, name)
	c.items = append(c.items, item)
	return idx, nil
}

// MustAdd is like Add but panics on a duplicate name.
// Intended for scenes assembled in code, where a duplicate is a programming error.
func (c *Cache[T]) MustAdd(name string, item T) int {
	idx, err := c.Add(name, item)
	if err != nil {
		panic(err)
	}
	return idx
}

// IndexFor returns the index stored for name
func (c *Cache[T]) IndexFor(name string) (int, bool) {
	idx, ok := c.indices[name]
	return idx, ok
}

// Get returns the item at idx. It panics if idx is out of range;
// scenes validate every stored index before rendering.
func (c *Cache[T]) Get(idx int) T {
	return c.items[idx]
}

// Name returns the name the item at idx was added under
func (c *Cache[T]) Name(idx int) string {
	return c.names[idx]
}

// Contains reports whether idx addresses an item
func (c *Cache[T]) Contains(idx int) bool {
	return idx >= 0 && idx < len(c.items)
}

// Len returns the number of items
func (c *Cache[T]) Len() int {
	return len(c.items)
}
