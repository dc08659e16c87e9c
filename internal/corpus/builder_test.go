package corpus

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/hyperjump/tazune/internal/embedding"
	"github.com/hyperjump/tazune/internal/extract"
	"github.com/hyperjump/tazune/internal/store"
)

func newTestBuilder(t *testing.T, st store.Store) *Builder {
	t.Helper()
	ch, err := NewChunker(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	return NewBuilder(st, extract.NewExtractor(), embedding.NewMockEmbedder(16), ch)
}

func TestBuilder_AlignedArrays(t *testing.T) {
	st := store.NewMemoryStore()
	st.Put("a.txt", []byte("A B C D E F G H"))
	st.Put("b.txt", []byte("one two three"))

	snap, err := newTestBuilder(t, st).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 4 {
		t.Fatalf("chunks = %d, want 4 (%v)", snap.Len(), snap.Texts)
	}
	if len(snap.Texts) != len(snap.Vectors) || len(snap.Texts) != len(snap.Meta) {
		t.Fatalf("arrays not aligned: %d texts, %d vectors, %d meta",
			len(snap.Texts), len(snap.Vectors), len(snap.Meta))
	}
	if snap.ModelID != "mock" {
		t.Errorf("ModelID = %s", snap.ModelID)
	}
	// a.txt chunks come first (store listing order), with per-document indices.
	wantMeta := []struct {
		source string
		index  int
	}{
		{"a.txt", 0}, {"a.txt", 1}, {"a.txt", 2}, {"b.txt", 0},
	}
	for i, want := range wantMeta {
		if snap.Meta[i].Source != want.source || snap.Meta[i].ChunkIndex != want.index {
			t.Errorf("meta[%d] = %+v, want %+v", i, snap.Meta[i], want)
		}
	}
}

func TestBuilder_SkipsFailingDocuments(t *testing.T) {
	st := store.NewMemoryStore()
	st.Put("good.txt", []byte("usable text here"))
	st.Put("bad.pdf", []byte("not actually a pdf"))
	st.Put("image.png", []byte{0x89, 0x50})
	st.Put("empty.txt", []byte("   "))

	snap, err := newTestBuilder(t, st).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 1 {
		t.Fatalf("chunks = %d, want 1 from the one good document", snap.Len())
	}
	if snap.Meta[0].Source != "good.txt" {
		t.Errorf("source = %s", snap.Meta[0].Source)
	}
}

// failGetStore fails Get for one id to exercise fetch isolation.
type failGetStore struct {
	*store.MemoryStore
	failID string
}

func (s *failGetStore) Get(ctx context.Context, id string) ([]byte, error) {
	if id == s.failID {
		return nil, fmt.Errorf("transient store failure")
	}
	return s.MemoryStore.Get(ctx, id)
}

func TestBuilder_FetchFailureIsPerDocument(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Put("a.txt", []byte("first doc"))
	mem.Put("b.txt", []byte("second doc"))
	st := &failGetStore{MemoryStore: mem, failID: "a.txt"}

	snap, err := newTestBuilder(t, st).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 1 || snap.Meta[0].Source != "b.txt" {
		t.Errorf("expected only b.txt indexed, got %+v", snap.Meta)
	}
}

func TestBuilder_EmptyStore(t *testing.T) {
	snap, err := newTestBuilder(t, store.NewMemoryStore()).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 0 {
		t.Errorf("chunks = %d", snap.Len())
	}
	if len(snap.Texts) != 0 || len(snap.Vectors) != 0 || len(snap.Meta) != 0 {
		t.Error("empty store should yield three empty aligned sequences")
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	st := store.NewMemoryStore()
	st.Put("a.txt", []byte("stable content for rebuild"))

	b := newTestBuilder(t, st)
	first, err := b.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.Len() != second.Len() {
		t.Fatalf("lengths differ: %d vs %d", first.Len(), second.Len())
	}
	for i := range first.Texts {
		if first.Texts[i] != second.Texts[i] {
			t.Errorf("texts[%d] differ", i)
		}
		if first.Meta[i] != second.Meta[i] {
			t.Errorf("meta[%d] differ", i)
		}
	}
}

// countingListStore counts List calls for cache tests.
type countingListStore struct {
	*store.MemoryStore
	lists atomic.Int64
}

func (s *countingListStore) List(ctx context.Context) ([]string, error) {
	s.lists.Add(1)
	return s.MemoryStore.List(ctx)
}

func TestSnapshot_Stats(t *testing.T) {
	st := store.NewMemoryStore()
	st.Put("a.txt", []byte("A B C D E F G H"))
	st.Put("b.txt", []byte("short"))
	snap, err := newTestBuilder(t, st).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	stats := snap.Stats()
	if stats.Documents != 2 {
		t.Errorf("documents = %d", stats.Documents)
	}
	if stats.Chunks != snap.Len() {
		t.Errorf("chunks = %d, want %d", stats.Chunks, snap.Len())
	}
	if stats.ModelID != "mock" {
		t.Errorf("model = %s", stats.ModelID)
	}
}
