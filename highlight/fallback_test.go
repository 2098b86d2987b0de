package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackRanges(t *testing.T) {
	t.Run("case-insensitive match preserves original casing", func(t *testing.T) {
		text := "The Cat sat. A CAT and a cat."
		ranges := Merge(FallbackRanges(text, "cat"))
		require.Len(t, ranges, 3)
		for _, r := range ranges {
			assert.Equal(t, 3, r.Len())
		}
		assert.Equal(t, "Cat", text[ranges[0].Start:ranges[0].End])
		assert.Equal(t, "CAT", text[ranges[1].Start:ranges[1].End])
		assert.Equal(t, "cat", text[ranges[2].Start:ranges[2].End])
	})

	t.Run("multiple terms", func(t *testing.T) {
		ranges := FallbackRanges("red fish blue fish", "fish red")
		assert.Len(t, ranges, 3)
	})

	t.Run("duplicate terms applied once", func(t *testing.T) {
		ranges := FallbackRanges("echo echo", "echo ECHO Echo")
		assert.Len(t, ranges, 2)
	})

	t.Run("regex metacharacters are literal", func(t *testing.T) {
		ranges := FallbackRanges("cost is $5.00 (approx)", "$5.00 (approx)")
		require.NotEmpty(t, ranges)
		for _, r := range ranges {
			assert.GreaterOrEqual(t, r.Start, 0)
		}
		// ".00" must not match "x00"
		assert.Empty(t, FallbackRanges("x00", ".00"))
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Empty(t, FallbackRanges("some text", ""))
		assert.Empty(t, FallbackRanges("some text", "   \t "))
	})

	t.Run("overlapping terms fuse through merge", func(t *testing.T) {
		merged := Merge(FallbackRanges("abcd", "abc bcd"))
		require.Len(t, merged, 1)
		assert.Equal(t, 0, merged[0].Start)
		assert.Equal(t, 4, merged[0].End)
	})
}
