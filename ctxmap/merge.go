package ctxmap

import "maps"

// PutAll returns a Context holding the union of the receiver's and other's
// entries, with other winning on conflicting keys.
//
// When both sides are fixed-arity and the union still fits the fixed
// representation, the merge folds other's entries onto the receiver with
// ordinary Put calls, preserving the receiver's insertion order. Otherwise
// both sides transfer their raw entries directly into one freshly sized map,
// avoiding intermediate entry allocations, and the result collapses back to
// the fixed representation when the union holds five entries or fewer.
func (c *Context) PutAll(other *Context) *Context {
	if other == nil || other.IsEmpty() {
		return c
	}
	if c.IsEmpty() {
		return other
	}

	if c.m == nil && other.m == nil && c.n+other.n <= fixedCap {
		next := c
		for i := range other.n {
			next = next.Put(other.pairs[i].key, other.pairs[i].value)
		}

		return next
	}

	m := make(map[any]any, c.Size()+other.Size())
	c.transferInto(m)
	other.transferInto(m)

	return compact(m)
}

// PutAllMap returns a Context holding the union of the receiver's entries and
// the given plain map's, with the map winning on conflicting keys.
//
// Panics with types.ErrNilKeyOrValue if the map contains a nil key or value.
func (c *Context) PutAllMap(other map[any]any) *Context {
	if len(other) == 0 {
		return c
	}
	for key, value := range other {
		checkKeyValue(key, value)
	}
	if c.IsEmpty() {
		return compact(maps.Clone(other))
	}

	m := make(map[any]any, c.Size()+len(other))
	c.transferInto(m)
	for key, value := range other {
		m[key] = value
	}

	return compact(m)
}
