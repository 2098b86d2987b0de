package highlight

import (
	"testing"

	"github.com/docsift/docsift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRanges(t *testing.T) {
	text := "The cat sat on the mat." // length 23

	t.Run("simple positions", func(t *testing.T) {
		ranges := BuildRanges(text, []core.Match{
			{Term: "cat", Positions: []int{4}},
			{Term: "mat", Positions: []int{19}},
		})
		require.Len(t, ranges, 2)
		assert.Equal(t, Range{Start: 4, End: 7, Term: "cat"}, ranges[0])
		assert.Equal(t, Range{Start: 19, End: 22, Term: "mat"}, ranges[1])
	})

	t.Run("negative position clamps to start", func(t *testing.T) {
		ranges := BuildRanges("aaaabbbbccccddddeeee", []core.Match{
			{Term: "aaaa", Positions: []int{-3}},
		})
		require.Len(t, ranges, 1)
		assert.Equal(t, Range{Start: 0, End: 4, Term: "aaaa"}, ranges[0])
	})

	t.Run("position past end drops range", func(t *testing.T) {
		ranges := BuildRanges("aaaabbbbccccddddeeee", []core.Match{
			{Term: "aaaa", Positions: []int{25}},
		})
		assert.Empty(t, ranges)
	})

	t.Run("term overhanging end is truncated", func(t *testing.T) {
		ranges := BuildRanges(text, []core.Match{
			{Term: "mat.x", Positions: []int{19}},
		})
		require.Len(t, ranges, 1)
		assert.Equal(t, 19, ranges[0].Start)
		assert.Equal(t, 23, ranges[0].End)
	})

	t.Run("malformed entries skipped", func(t *testing.T) {
		ranges := BuildRanges(text, []core.Match{
			{Term: "", Positions: []int{0}},
			{Term: "cat"},
			{Term: "sat", Positions: []int{8}},
		})
		require.Len(t, ranges, 1)
		assert.Equal(t, "sat", ranges[0].Term)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, BuildRanges(text, nil))
		assert.Empty(t, BuildRanges("", []core.Match{{Term: "cat", Positions: []int{0}}}))
	})
}
