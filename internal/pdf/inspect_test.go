package pdf

import (
	"strings"
	"testing"
)

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.7\n...")) {
		t.Fatal("pdf header not detected")
	}
	if IsPDF([]byte("PK\x03\x04")) {
		t.Fatal("zip detected as pdf")
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect([]byte("%PDF-1.4 but not really")); err == nil {
		t.Fatal("expected error")
	}
}

func TestExcerpt(t *testing.T) {
	if got := excerpt("  Newton's\n\tlaws   of motion ", 100); got != "Newton's laws of motion" {
		t.Fatalf("got %q", got)
	}
	long := strings.Repeat("ä", 20)
	if got := excerpt(long, 5); got != "äääää" {
		t.Fatalf("got %q", got)
	}
}
