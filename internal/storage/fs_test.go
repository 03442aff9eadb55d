package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSStore_PutGet(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFSStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	key, err := s.Put("transcripts/q1.txt", strings.NewReader("raw output"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "transcripts/q1.txt" {
		t.Fatalf("key=%q", key)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "raw output" {
		t.Fatalf("content=%q", b)
	}
}

func TestFSStore_KeysStayInsideBase(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFSStore(filepath.Join(dir, "blobs"))
	key, err := s.Put("../../escape.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "escape.txt" {
		t.Fatalf("key=%q", key)
	}
	if _, err := os.Stat(filepath.Join(dir, "blobs", "escape.txt")); err != nil {
		t.Fatalf("expected file inside base: %v", err)
	}
	if _, err := s.Put("  ", strings.NewReader("x")); !errors.Is(err, ErrBadKey) {
		t.Fatalf("want ErrBadKey, got %v", err)
	}
}
