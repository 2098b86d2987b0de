package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docsift/docsift/core"
	"github.com/docsift/docsift/storage"
)

func TestDocumentBasics(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	doc := &core.Document{
		Name:        "report.txt",
		ContentType: "txt",
		Text:        "quarterly results look promising",
	}

	added, err := repo.AddDocuments(ctx, doc)
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if added[0].Id != core.IDFromContent(doc.Text) {
		t.Fatal("Expected content-derived ID")
	}
	if added[0].DocLength != len(doc.Text) {
		t.Fatalf("Expected DocLength %d, got %d", len(doc.Text), added[0].DocLength)
	}
	if added[0].InsertedAt.IsZero() {
		t.Fatal("Expected InsertedAt to be set")
	}

	got, err := repo.GetDocument(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if got.Text != doc.Text {
		t.Fatalf("Expected %q, got %q", doc.Text, got.Text)
	}

	found, err := repo.FindDocumentByName(ctx, "report.txt")
	if err != nil {
		t.Fatalf("Failed to find document by name: %v", err)
	}
	if found.Id != added[0].Id {
		t.Fatalf("Expected ID %d, got %d", added[0].Id, found.Id)
	}
}

func TestAddIdenticalContentDeduplicates(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	first, err := repo.AddDocuments(ctx, &core.Document{
		Name: "a.txt", ContentType: "txt", Text: "same contents",
	})
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	second, err := repo.AddDocuments(ctx, &core.Document{
		Name: "b.txt", ContentType: "txt", Text: "same contents",
	})
	if err != nil {
		t.Fatalf("Failed to re-add document: %v", err)
	}

	if first[0].Id != second[0].Id {
		t.Fatalf("Expected same ID for same content, got %d and %d", first[0].Id, second[0].Id)
	}

	all, err := repo.GetAllDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 stored document, got %d", len(all))
	}
	if all[0].Name != "b.txt" {
		t.Fatalf("Expected latest name to win, got %q", all[0].Name)
	}
}

func TestUpdateDocuments(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := repo.AddDocuments(ctx, &core.Document{
		Name: "doc.txt", ContentType: "txt", Text: "alpha beta gamma",
	})
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	added[0].UniqueTerms = 3
	updated, err := repo.UpdateDocuments(ctx, added[0])
	if err != nil {
		t.Fatalf("Failed to update document: %v", err)
	}
	if updated[0].UniqueTerms != 3 {
		t.Fatalf("Expected UniqueTerms 3, got %d", updated[0].UniqueTerms)
	}

	got, err := repo.GetDocument(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if got.UniqueTerms != 3 {
		t.Fatalf("Expected persisted UniqueTerms 3, got %d", got.UniqueTerms)
	}

	missing := &core.Document{Id: 12345, Name: "x", ContentType: "txt", Text: "y"}
	if _, err := repo.UpdateDocuments(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDocuments(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := repo.AddDocuments(ctx, &core.Document{
		Name: "doc.txt", ContentType: "txt", Text: "to be removed",
	})
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	if err := repo.DeleteDocuments(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	if _, err := repo.GetDocument(ctx, added[0].Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindDocumentByName(ctx, "doc.txt"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected name index cleaned up, got %v", err)
	}
	if err := repo.DeleteDocuments(ctx, added[0].Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestGetDocumentsByDateRange(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, text := range []string{"first text", "second text", "third text"} {
		_, err := repo.AddDocuments(ctx, &core.Document{
			Name:        "doc.txt",
			ContentType: "txt",
			Text:        text,
			InsertedAt:  base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Failed to add document %d: %v", i, err)
		}
	}

	docs, err := repo.GetDocumentsByDateRange(ctx, base, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("Failed to query date range: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents in range, got %d", len(docs))
	}
	if !docs[0].InsertedAt.Before(docs[1].InsertedAt) {
		t.Fatal("Expected ascending timestamp order")
	}

	all, err := repo.GetAllDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list all documents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(all))
	}
}

func TestGetDocumentsSkipsMissing(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	added, err := repo.AddDocuments(ctx, &core.Document{
		Name: "doc.txt", ContentType: "txt", Text: "present",
	})
	if err != nil {
		t.Fatalf("Failed to add document: %v", err)
	}

	docs, err := repo.GetDocuments(ctx, added[0].Id, core.ID(999))
	if err != nil {
		t.Fatalf("Failed to get documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}
}
