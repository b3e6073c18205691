package ctxmap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutAll(t *testing.T) {
	t.Run("empty operands short-circuit to identity", func(t *testing.T) {
		c := Of("a", 1)
		require.Same(t, c, c.PutAll(Empty()))
		require.Same(t, c, c.PutAll(nil))
		require.Same(t, c, Empty().PutAll(c))
	})

	t.Run("small fixed merge preserves receiver order", func(t *testing.T) {
		merged := Of("a", 1, "b", 2).PutAll(Of("c", 3, "a", 10))
		require.Equal(t, 3, merged.Size())

		var keys []any
		for k := range merged.Pairs() {
			keys = append(keys, k)
		}
		require.Equal(t, []any{"a", "b", "c"}, keys)
		require.Equal(t, 10, merged.GetOr("a", nil), "other side wins on conflict")
	})

	t.Run("union past five entries promotes", func(t *testing.T) {
		left := Of("a", 1, "b", 2, "c", 3)
		right := Of("d", 4, "e", 5, "f", 6)
		merged := left.PutAll(right)
		require.Equal(t, 6, merged.Size())
		for _, k := range []string{"a", "b", "c", "d", "e", "f"} {
			require.True(t, merged.HasKey(k))
		}
	})

	t.Run("overlapping large merge collapses back when small enough", func(t *testing.T) {
		left := buildBySequentialPut(t, 6)
		merged := left.PutAll(left)
		require.Equal(t, 6, merged.Size())
		require.Equal(t, left.ToMap(), merged.ToMap())

		shrunk := merged.Delete("key-0")
		require.Equal(t, 5, shrunk.Size())
	})

	t.Run("merged result equals folding with put", func(t *testing.T) {
		left := buildBySequentialPut(t, 4)
		right := Of("x", "x", "key-1", "replaced")

		folded := left
		for k, v := range right.Pairs() {
			folded = folded.Put(k, v)
		}
		require.Equal(t, folded.ToMap(), left.PutAll(right).ToMap())
	})
}

func TestPutAllMap(t *testing.T) {
	t.Run("empty map returns receiver", func(t *testing.T) {
		c := Of("a", 1)
		require.Same(t, c, c.PutAllMap(nil))
		require.Same(t, c, c.PutAllMap(map[any]any{}))
	})

	t.Run("map side wins on conflicts", func(t *testing.T) {
		merged := Of("a", 1, "b", 2).PutAllMap(map[any]any{"b": 20, "c": 30})
		require.Equal(t, 3, merged.Size())
		require.Equal(t, 20, merged.GetOr("b", nil))
	})

	t.Run("merge onto empty compacts the map", func(t *testing.T) {
		m := make(map[any]any, 7)
		for i := range 7 {
			m[fmt.Sprintf("key-%d", i)] = i
		}
		merged := Empty().PutAllMap(m)
		require.Equal(t, 7, merged.Size())
	})

	t.Run("nil entries panic", func(t *testing.T) {
		require.Panics(t, func() { Of("a", 1).PutAllMap(map[any]any{"b": nil}) })
	})
}
