package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFSStore(dir, "/api/uploads/")
	if err != nil {
		t.Fatal(err)
	}
	key, err := s.Put("books/u1/notes.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "books/u1/notes.pdf" {
		t.Fatalf("key = %s", key)
	}
	rc, err := s.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "%PDF-1.4" {
		t.Fatalf("content = %q", b)
	}
	if got := s.URL(key); got != "/api/uploads/books/u1/notes.pdf" {
		t.Fatalf("url = %s", got)
	}
}

func TestFSStoreStaysInBase(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFSStore(filepath.Join(dir, "blobs"), "")
	if err != nil {
		t.Fatal(err)
	}
	key, err := s.Put("../../escape.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if key != "escape.txt" {
		t.Fatalf("key = %s", key)
	}
	if _, err := os.Stat(filepath.Join(dir, "blobs", "escape.txt")); err != nil {
		t.Fatalf("file not under base: %v", err)
	}
	if _, err := s.Put("..", strings.NewReader("x")); !errors.Is(err, ErrBadKey) {
		t.Fatalf("err = %v", err)
	}
}

func TestFSStoreGetRejectsDirectories(t *testing.T) {
	s, err := NewFSStore(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("uploads/u1/a.txt", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"uploads", "uploads/u1"} {
		if _, err := s.Get(key); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("Get(%q) err = %v", key, err)
		}
	}
}
