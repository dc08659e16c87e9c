package store

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("empty store should list no ids, got %v", ids)
	}

	s.Put("b.txt", []byte("second"))
	s.Put("a.txt", []byte("first"))

	ids, err = s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "a.txt" || ids[1] != "b.txt" {
		t.Errorf("List should be sorted, got %v", ids)
	}

	data, err := s.Get(ctx, "a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("Get = %q", data)
	}

	if _, err := s.Get(ctx, "missing"); err == nil {
		t.Error("missing document should error")
	}

	s.Delete("a.txt")
	if _, err := s.Get(ctx, "a.txt"); err == nil {
		t.Error("deleted document should error")
	}
}
