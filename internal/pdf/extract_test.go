package pdf

import (
	"context"
	"errors"
	"testing"
)

func TestExtractText_Empty(t *testing.T) {
	_, err := NewTextExtractor().ExtractText(context.Background(), nil)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("want ErrEmptyDocument, got %v", err)
	}
}

func TestExtractText_NotAPDF(t *testing.T) {
	_, err := NewTextExtractor().ExtractText(context.Background(), []byte("this is plain text, not a pdf"))
	if err == nil {
		t.Fatal("expected error for non-PDF input")
	}
}

func TestExtractText_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x := &TextExtractor{}
	// either the parser fails fast or the canceled context wins; both are errors
	if _, err := x.ExtractText(ctx, []byte("%PDF-1.4 truncated")); err == nil {
		t.Fatal("expected error")
	}
}
