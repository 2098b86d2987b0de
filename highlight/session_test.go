package highlight

import (
	"testing"

	"github.com/docsift/docsift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateNoDocument, s.State())

	s.Reset("The cat sat")
	assert.Equal(t, StateDocumentLoaded, s.State())
	assert.Equal(t, "The cat sat", s.Text())
	assert.Empty(t, s.Ranges())

	token := s.Begin()
	markup, ok := s.Update(token, "cat", []core.Match{{Term: "cat", Positions: []int{4}}})
	require.True(t, ok)
	assert.Equal(t, StateHighlighted, s.State())
	assert.Equal(t, `The <mark class="match">cat</mark> sat`, markup)
	require.Len(t, s.Ranges(), 1)

	// New upload clears ranges.
	s.Reset("fresh text")
	assert.Equal(t, StateDocumentLoaded, s.State())
	assert.Empty(t, s.Ranges())

	s.Clear()
	assert.Equal(t, StateNoDocument, s.State())
	assert.Empty(t, s.Text())
}

func TestSessionZeroMatchesRevertsToPlain(t *testing.T) {
	s := NewSession()
	s.Reset("The cat sat")

	token := s.Begin()
	_, ok := s.Update(token, "cat", []core.Match{{Term: "cat", Positions: []int{4}}})
	require.True(t, ok)
	assert.Equal(t, StateHighlighted, s.State())

	token = s.Begin()
	markup, ok := s.Update(token, "zebra", nil)
	require.True(t, ok)
	assert.Equal(t, StateDocumentLoaded, s.State())
	assert.Equal(t, "The cat sat", markup)
	assert.Empty(t, s.Ranges())
}

func TestSessionFallbackTrigger(t *testing.T) {
	s := NewSession()
	s.Reset("The cat sat")

	// Matches present but no usable offsets: fall back to substring search.
	token := s.Begin()
	markup, ok := s.Update(token, "cat", []core.Match{{Term: "cat", Positions: []int{}}})
	require.True(t, ok)
	assert.Equal(t, StateHighlightedFallback, s.State())
	assert.Equal(t, `The <mark class="match">cat</mark> sat`, markup)
	require.Len(t, s.Ranges(), 1)
	assert.Equal(t, 4, s.Ranges()[0].Start)
}

func TestSessionFallbackMiss(t *testing.T) {
	s := NewSession()
	s.Reset("The cat sat")

	token := s.Begin()
	markup, ok := s.Update(token, "zebra", []core.Match{{Term: "zebra", Positions: []int{}}})
	require.True(t, ok)
	assert.Equal(t, StateDocumentLoaded, s.State())
	assert.Equal(t, "The cat sat", markup)
}

func TestSessionStaleResponseDiscarded(t *testing.T) {
	s := NewSession()
	s.Reset("The cat sat")

	stale := s.Begin()
	fresh := s.Begin()

	// The slow first response arrives after the second request was issued.
	_, ok := s.Update(stale, "sat", []core.Match{{Term: "sat", Positions: []int{8}}})
	assert.False(t, ok)
	assert.Equal(t, StateDocumentLoaded, s.State())

	markup, ok := s.Update(fresh, "cat", []core.Match{{Term: "cat", Positions: []int{4}}})
	require.True(t, ok)
	assert.Contains(t, markup, "cat</mark>")
}

func TestSessionResetInvalidatesInFlightToken(t *testing.T) {
	s := NewSession()
	s.Reset("old text with cat")
	token := s.Begin()

	s.Reset("new text")
	_, ok := s.Update(token, "cat", []core.Match{{Term: "cat", Positions: []int{14}}})
	assert.False(t, ok)
	assert.Equal(t, "new text", s.Text())
	assert.Equal(t, StateDocumentLoaded, s.State())
}

func TestSessionUpdateWithoutDocument(t *testing.T) {
	s := NewSession()
	token := s.Begin()
	_, ok := s.Update(token, "cat", []core.Match{{Term: "cat", Positions: []int{0}}})
	assert.False(t, ok)
	assert.Equal(t, "", s.Render())
}
