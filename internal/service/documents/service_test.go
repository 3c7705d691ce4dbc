package documents

import (
	"context"
	"testing"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/document"
)

func TestUploadRequiresName(t *testing.T) {
	svc := NewService()
	if _, err := svc.Upload(context.Background(), document.UploadRequest{Content: "text"}); err != ErrNameRequired {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestUploadDefaultsMimeTypeAndComputesSize(t *testing.T) {
	svc := NewService()

	doc, err := svc.Upload(context.Background(), document.UploadRequest{Name: "nda.txt", Content: "12345"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if doc.MimeType != "application/octet-stream" {
		t.Fatalf("expected default mime type, got %q", doc.MimeType)
	}
	if doc.Size != 5 {
		t.Fatalf("expected size 5, got %d", doc.Size)
	}
}

func TestListStripsContent(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	svc.Upload(ctx, document.UploadRequest{Name: "a.txt", Content: "secret body"})

	docs := svc.List(ctx)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Content != "" {
		t.Fatal("expected content stripped from listings")
	}
	if docs[0].Size != int64(len("secret body")) {
		t.Fatalf("expected size preserved, got %d", docs[0].Size)
	}
}

func TestGetReturnsContent(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	uploaded, _ := svc.Upload(ctx, document.UploadRequest{Name: "a.txt", Content: "body"})

	doc, err := svc.Get(ctx, uploaded.ID)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if doc.Content != "body" {
		t.Fatalf("expected content on get, got %q", doc.Content)
	}

	if _, err := svc.Get(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesDocument(t *testing.T) {
	svc := NewService()
	ctx := context.Background()
	uploaded, _ := svc.Upload(ctx, document.UploadRequest{Name: "a.txt", Content: "body"})

	if err := svc.Delete(ctx, uploaded.ID); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := svc.Delete(ctx, uploaded.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
	if _, err := svc.Get(ctx, uploaded.ID); err != ErrNotFound {
		t.Fatalf("expected the document gone, got %v", err)
	}
}
