package reindex

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsift/docsift/core"
	"github.com/docsift/docsift/index"
	"github.com/docsift/docsift/storage/badger"
)

func TestReindexerRebuildsIndexAndStats(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	added, err := repo.AddDocuments(ctx,
		&core.Document{Name: "a.txt", ContentType: "txt", Text: "alpha beta gamma"},
		&core.Document{Name: "b.txt", ContentType: "txt", Text: "beta delta"},
	)
	require.NoError(t, err)
	require.Len(t, added, 2)

	// Corrupt the derived stats to simulate a stale database.
	stale := *added[0]
	stale.UniqueTerms = 999
	_, err = repo.UpdateDocuments(ctx, &stale)
	require.NoError(t, err)

	idx := index.New()
	var out bytes.Buffer
	reindexer, err := NewReindexer(repo, idx, DefaultConfig(), &out)
	require.NoError(t, err)

	require.NoError(t, reindexer.Run(ctx))

	assert.Equal(t, 2, idx.Size())
	ranked := idx.Search("beta")
	assert.Len(t, ranked, 2)

	fixed, err := repo.GetDocument(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, index.UniqueTerms("alpha beta gamma"), fixed.UniqueTerms)
	assert.Equal(t, len("alpha beta gamma"), fixed.DocLength)

	assert.Contains(t, out.String(), "Reindexing complete")
}

func TestReindexerEmptyDatabase(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	var out bytes.Buffer
	reindexer, err := NewReindexer(repo, index.New(), nil, &out)
	require.NoError(t, err)

	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, out.String(), "No documents found")
}

func TestNewReindexerRequiresRepository(t *testing.T) {
	_, err := NewReindexer(nil, index.New(), nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}

func TestBatchProcessorSkipsUnchangedDocuments(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	added, err := repo.AddDocuments(ctx, &core.Document{
		Name: "c.txt", ContentType: "txt", Text: "already consistent",
	})
	require.NoError(t, err)
	doc := added[0]
	doc.UniqueTerms = index.UniqueTerms(doc.Text)
	_, err = repo.UpdateDocuments(ctx, doc)
	require.NoError(t, err)
	before, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)

	idx := index.New()
	processor := NewBatchProcessor(repo, idx, 1, 0)
	require.NoError(t, processor.Process(ctx, []*core.Document{before}))

	after, err := repo.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, 1, idx.Size())
}
