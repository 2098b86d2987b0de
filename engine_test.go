package docsift

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	t.Run("create new engine", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		e, err := NewEngine(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, e)
		defer e.Close()

		assert.NotNil(t, e.DocumentRepository())
		assert.NotNil(t, e.Index())
		assert.NotNil(t, e.SearchService())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		e, err := NewEngine(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, e)
	})
}

func TestEngine_Close(t *testing.T) {
	e, err := NewEngine("", WithInMemory())
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.NoError(t, e.Close())
}

func TestEngine_FactoryMethods(t *testing.T) {
	e, err := NewEngine("", WithInMemory())
	require.NoError(t, err)
	defer e.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := e.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create reindexer", func(t *testing.T) {
		reindexer, err := e.NewReindexer(nil, os.Stderr)
		require.NoError(t, err)
		require.NotNil(t, reindexer)
	})
}

func TestEngine_IndexRebuiltOnStartup(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "db")

	e, err := NewEngine(tmpDir)
	require.NoError(t, err)

	pipeline, err := e.NewIngestionPipeline()
	require.NoError(t, err)

	_, err = pipeline.Ingest(context.Background(), "facts.txt", []byte("badgers dig deep burrows"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return e.Index().Size() == 1
	}, 2*time.Second, 10*time.Millisecond)

	pipeline.Release()
	require.NoError(t, e.Close())

	// Reopen and confirm the corpus index is repopulated from storage.
	e, err = NewEngine(tmpDir)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 1, e.Index().Size())
	ranked := e.Index().Search("badgers")
	assert.Len(t, ranked, 1)
}
