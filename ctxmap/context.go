package ctxmap

import (
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/dquaner/my-flux/types"
)

// fixedCap is the largest entry count held in flat fields before the store
// promotes to a map-backed representation.
const fixedCap = 5

// pair is one key/value entry of a fixed-arity context.
type pair struct {
	key   any
	value any
}

// Context is an immutable key/value propagation store.
//
// The zero entry count context is the shared Empty() instance. All mutative
// methods return a new instance; the receiver is never modified in place.
//
// Internally a Context is either fixed-arity (entry count <= 5, entries held
// in an inline array in insertion order) or map-backed (entry count > 5,
// iteration order unspecified). The representation is an allocation economy,
// not a semantic: equality of two contexts is equality of their entry sets.
type Context struct {
	n     int
	pairs [fixedCap]pair
	m     map[any]any // non-nil iff n > fixedCap
}

var empty = &Context{}

// Empty returns the shared empty Context.
func Empty() *Context { return empty }

// Of creates a Context pre-initialized with up to five key-value pairs,
// given as alternating key, value arguments.
//
// Panics with types.ErrNilKeyOrValue on any nil key or value, and with
// types.ErrDuplicateKey on colliding keys. For more than five pairs, or when
// key distinctness cannot be guaranteed, use FromMap.
//
// Example:
//
//	sctx := ctxmap.Of("traceId", "abc-123", "tenant", 42)
func Of(keysAndValues ...any) *Context {
	if len(keysAndValues)%2 != 0 {
		panic(fmt.Errorf("ctxmap: Of requires an even number of arguments, got %d", len(keysAndValues)))
	}
	n := len(keysAndValues) / 2
	if n == 0 {
		return empty
	}
	if n > fixedCap {
		panic(fmt.Errorf("ctxmap: Of supports at most %d pairs, got %d (use FromMap)", fixedCap, n))
	}

	c := &Context{n: n}
	for i := range n {
		key, value := keysAndValues[2*i], keysAndValues[2*i+1]
		checkKeyValue(key, value)
		for j := range i {
			if c.pairs[j].key == key {
				panic(fmt.Errorf("ctxmap: %w: %v", types.ErrDuplicateKey, key))
			}
		}
		c.pairs[i] = pair{key: key, value: value}
	}

	return c
}

// FromMap creates a Context out of a plain map. Maps of five or fewer
// entries compact into the fixed-arity representation.
//
// Panics with types.ErrNilKeyOrValue if the map contains a nil key or value.
func FromMap(m map[any]any) *Context {
	for key, value := range m {
		checkKeyValue(key, value)
	}

	return compact(maps.Clone(m))
}

// Get returns the value bound to key.
//
// Returns:
//   - any: The bound value, or nil when absent
//   - error: types.ErrKeyNotFound (wrapped) when the key is absent
func (c *Context) Get(key any) (any, error) {
	if value, ok := c.Lookup(key); ok {
		return value, nil
	}

	return nil, fmt.Errorf("ctxmap: %w: %v", types.ErrKeyNotFound, key)
}

// GetOr returns the value bound to key, or def when the key is absent.
func (c *Context) GetOr(key, def any) any {
	if value, ok := c.Lookup(key); ok {
		return value
	}

	return def
}

// Lookup returns the value bound to key and whether the key is present.
func (c *Context) Lookup(key any) (any, bool) {
	if key == nil {
		return nil, false
	}
	if c.m != nil {
		value, ok := c.m[key]
		return value, ok
	}
	for i := range c.n {
		if c.pairs[i].key == key {
			return c.pairs[i].value, true
		}
	}

	return nil, false
}

// HasKey reports whether key is bound in this Context.
func (c *Context) HasKey(key any) bool {
	_, ok := c.Lookup(key)
	return ok
}

// Size returns the number of entries.
func (c *Context) Size() int {
	if c.m != nil {
		return len(c.m)
	}

	return c.n
}

// IsEmpty reports whether the Context holds no entries.
func (c *Context) IsEmpty() bool { return c.Size() == 0 }

// Put returns a new Context with key bound to value. An existing binding for
// key is replaced in place, keeping its position in the fixed representation.
//
// Panics with types.ErrNilKeyOrValue when key or value is nil.
func (c *Context) Put(key, value any) *Context {
	checkKeyValue(key, value)

	if c.m != nil {
		m := make(map[any]any, len(c.m)+1)
		maps.Copy(m, c.m)
		m[key] = value

		return &Context{n: len(m), m: m}
	}

	next := &Context{n: c.n, pairs: c.pairs}
	for i := range c.n {
		if next.pairs[i].key == key {
			next.pairs[i].value = value
			return next
		}
	}
	if c.n < fixedCap {
		next.pairs[c.n] = pair{key: key, value: value}
		next.n = c.n + 1

		return next
	}

	// Sixth distinct key promotes to the map-backed representation.
	m := make(map[any]any, c.n+1)
	c.transferInto(m)
	m[key] = value

	return &Context{n: len(m), m: m}
}

// PutIfNonNil returns a new Context with key bound to value when value is
// non-nil, or the receiver unchanged when it is nil.
func (c *Context) PutIfNonNil(key, value any) *Context {
	if value != nil {
		return c.Put(key, value)
	}

	return c
}

// Delete returns a Context without a binding for key. Deleting an absent key
// returns the receiver itself, an identity callers may rely on.
func (c *Context) Delete(key any) *Context {
	if key == nil {
		return c
	}

	if c.m != nil {
		if _, ok := c.m[key]; !ok {
			return c
		}
		// Dropping to five entries demotes back to the fixed representation.
		if len(c.m) == fixedCap+1 {
			next := &Context{}
			for k, v := range c.m {
				if k == key {
					continue
				}
				next.pairs[next.n] = pair{key: k, value: v}
				next.n++
			}

			return next
		}
		m := make(map[any]any, len(c.m)-1)
		for k, v := range c.m {
			if k != key {
				m[k] = v
			}
		}

		return &Context{n: len(m), m: m}
	}

	for i := range c.n {
		if c.pairs[i].key != key {
			continue
		}
		if c.n == 1 {
			return empty
		}
		next := &Context{n: c.n - 1}
		copy(next.pairs[:i], c.pairs[:i])
		copy(next.pairs[i:], c.pairs[i+1:c.n])

		return next
	}

	return c
}

// Pairs iterates the entries as an ordered sequence of (key, value) pairs.
// The order is insertion order for fixed-arity contexts and unspecified for
// map-backed ones.
func (c *Context) Pairs() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		if c.m != nil {
			for key, value := range c.m {
				if !yield(key, value) {
					return
				}
			}

			return
		}
		for i := range c.n {
			if !yield(c.pairs[i].key, c.pairs[i].value) {
				return
			}
		}
	}
}

// ToMap returns the entries as a freshly allocated plain map.
func (c *Context) ToMap() map[any]any {
	m := make(map[any]any, c.Size())
	for key, value := range c.Pairs() {
		m[key] = value
	}

	return m
}

// String renders the entries for diagnostics, e.g. Context{k=v, k2=v2}.
func (c *Context) String() string {
	var b strings.Builder
	b.WriteString("Context{")
	first := true
	for key, value := range c.Pairs() {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v=%v", key, value)
	}
	b.WriteByte('}')

	return b.String()
}

// transferInto writes the entries into dst without building intermediate
// entry holders.
func (c *Context) transferInto(dst map[any]any) {
	if c.m != nil {
		maps.Copy(dst, c.m)
		return
	}
	for i := range c.n {
		dst[c.pairs[i].key] = c.pairs[i].value
	}
}

// compact wraps m in the representation fitting its size. The map is owned by
// the returned Context and must not be mutated by the caller afterwards.
func compact(m map[any]any) *Context {
	switch {
	case len(m) == 0:
		return empty
	case len(m) <= fixedCap:
		c := &Context{}
		for key, value := range m {
			c.pairs[c.n] = pair{key: key, value: value}
			c.n++
		}

		return c
	default:
		return &Context{n: len(m), m: m}
	}
}

func checkKeyValue(key, value any) {
	if key == nil || value == nil {
		panic(fmt.Errorf("ctxmap: %w", types.ErrNilKeyOrValue))
	}
}
