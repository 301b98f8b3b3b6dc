package model

import (
	"errors"
	"testing"
)

func TestResolveQuerySourcePrefersSavedQuery(t *testing.T) {
	src, err := ResolveQuerySource("12345", "SELECT 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, ok := src.SavedQueryID()
	if !ok || id != 12345 {
		t.Fatalf("expected saved query 12345, got %d (ok=%v)", id, ok)
	}
	if _, ok := src.SQL(); ok {
		t.Fatalf("saved-query source should not expose SQL")
	}
}

func TestResolveQuerySourceFallsBackToSQL(t *testing.T) {
	src, err := ResolveQuerySource("", "SELECT 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sql, ok := src.SQL()
	if !ok || sql != "SELECT 1" {
		t.Fatalf("expected raw SQL source, got %q (ok=%v)", sql, ok)
	}
	if _, ok := src.SavedQueryID(); ok {
		t.Fatalf("raw-SQL source should not expose a query ID")
	}
}

func TestResolveQuerySourceNeither(t *testing.T) {
	_, err := ResolveQuerySource("", "")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestResolveQuerySourceInvalidID(t *testing.T) {
	_, err := ResolveQuerySource("not-a-number", "SELECT 1")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestQuerySourceCacheKeyStable(t *testing.T) {
	if got := SavedQuery(42).CacheKey(); got != "query:42" {
		t.Fatalf("unexpected cache key: %q", got)
	}

	a := RawSQL("SELECT 1").CacheKey()
	b := RawSQL("SELECT 1").CacheKey()
	c := RawSQL("SELECT 2").CacheKey()
	if a != b {
		t.Fatalf("same SQL should produce the same key: %q != %q", a, b)
	}
	if a == c {
		t.Fatalf("different SQL should produce different keys")
	}
}
