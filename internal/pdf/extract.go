package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	lpdf "github.com/ledongthuc/pdf"
)

var ErrEmptyDocument = errors.New("empty document")

// Extractor pulls plain text out of a PDF document.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

type TextExtractor struct {
	Timeout time.Duration
}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{Timeout: 20 * time.Second}
}

func (t *TextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := plainText(data)
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

// plainText recovers from parser panics on malformed input.
func plainText(data []byte) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pdf: malformed document: %v", p)
		}
	}()
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: open: %w", err)
	}
	rd, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf: text: %w", err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, rd); err != nil {
		return "", fmt.Errorf("pdf: read: %w", err)
	}
	return b.String(), nil
}
