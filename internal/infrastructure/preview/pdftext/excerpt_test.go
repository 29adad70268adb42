package pdftext

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"github.com/matterdesk/bundler/internal/infrastructure/storage/memblob"
)

func pdfWithText(t *testing.T, text string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Text(20, 30, text)
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build fixture pdf: %v", err)
	}
	return buf.Bytes()
}

func TestExcerptExtractsLeadingText(t *testing.T) {
	ctx := context.Background()
	blobs := memblob.New()
	if err := blobs.Save(ctx, "k1", bytes.NewReader(pdfWithText(t, "WITNESS STATEMENT OF SARAH JENKINS"))); err != nil {
		t.Fatalf("stage fixture: %v", err)
	}

	text, err := New(blobs).Excerpt(ctx, "k1", 0)
	if err != nil {
		t.Fatalf("Excerpt() error = %v", err)
	}
	if !strings.Contains(text, "WITNESS STATEMENT") {
		t.Fatalf("extracted text = %q", text)
	}
}

func TestExcerptTruncates(t *testing.T) {
	ctx := context.Background()
	blobs := memblob.New()
	if err := blobs.Save(ctx, "k1", bytes.NewReader(pdfWithText(t, "ABCDEFGHIJKLMNOP"))); err != nil {
		t.Fatalf("stage fixture: %v", err)
	}

	text, err := New(blobs).Excerpt(ctx, "k1", 4)
	if err != nil {
		t.Fatalf("Excerpt() error = %v", err)
	}
	if len([]rune(text)) > 4 {
		t.Fatalf("excerpt not truncated: %q", text)
	}
}

func TestExcerptMalformedContent(t *testing.T) {
	ctx := context.Background()
	blobs := memblob.New()
	if err := blobs.Save(ctx, "bad", strings.NewReader("not a pdf at all")); err != nil {
		t.Fatalf("stage fixture: %v", err)
	}
	if _, err := New(blobs).Excerpt(ctx, "bad", 0); err == nil {
		t.Fatalf("expected error for malformed content")
	}
}

func TestExcerptMissingBlob(t *testing.T) {
	if _, err := New(memblob.New()).Excerpt(context.Background(), "none", 0); err == nil {
		t.Fatalf("expected error for missing blob")
	}
}
