package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/tazune/internal/answer"
	"github.com/hyperjump/tazune/internal/corpus"
	"github.com/hyperjump/tazune/internal/embedding"
	"github.com/hyperjump/tazune/internal/extract"
	"github.com/hyperjump/tazune/internal/guard"
	"github.com/hyperjump/tazune/internal/models"
	"github.com/hyperjump/tazune/internal/search"
	"github.com/hyperjump/tazune/internal/store"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, query, contextBlock string) (string, error) {
	return "answer for: " + query, nil
}

func (echoGenerator) Name() string { return "echo" }

func newTestService(t *testing.T, docs map[string]string) *AskService {
	t.Helper()

	st := store.NewMemoryStore()
	for id, content := range docs {
		st.Put(id, []byte(content))
	}

	chunker, err := corpus.NewChunker(10, 2)
	if err != nil {
		t.Fatalf("NewChunker: %v", err)
	}
	emb := embedding.NewMockEmbedder(64)
	builder := corpus.NewBuilder(st, extract.NewExtractor(), emb, chunker)
	cache := corpus.NewCache(builder, time.Minute, nil)

	searcher := search.NewSearcher(emb, nil)
	assembler := answer.NewAssembler(echoGenerator{}, answer.AssemblerConfig{
		Threshold: -1, // never gate in tests that expect an answer
	}, nil)

	return New(cache, searcher, assembler,
		guard.NewFilter([]string{"forbidden phrase"}, 100),
		guard.NewRateLimiter(0),
		3)
}

func TestAskService_Ask(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"policy.txt": "employees receive twenty days of paid vacation each year",
	})

	ans, err := svc.Ask(context.Background(), models.AskQuery{
		Query:     "how many vacation days do employees get",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.HasPrefix(ans.Answer, "answer for:") {
		t.Errorf("unexpected answer %q", ans.Answer)
	}
	if len(ans.Sources) == 0 {
		t.Error("answer should cite at least one source")
	}
	if ans.Sources[0].Document != "policy.txt" {
		t.Errorf("source = %q, want policy.txt", ans.Sources[0].Document)
	}
}

func TestAskService_EmptyQueryRejected(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Ask(context.Background(), models.AskQuery{}); err == nil {
		t.Error("empty query should be rejected")
	}
}

func TestAskService_BlockedQueryRejected(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Ask(context.Background(), models.AskQuery{Query: "this has a forbidden phrase in it"})
	if !errors.Is(err, guard.ErrUnsafeQuery) {
		t.Errorf("err = %v, want ErrUnsafeQuery", err)
	}
}

func TestAskService_SearchBlockedQueryRejected(t *testing.T) {
	svc := newTestService(t, map[string]string{"doc.txt": "some content here"})
	_, err := svc.Search(context.Background(), models.AskQuery{Query: "a forbidden phrase slipped in"})
	if !errors.Is(err, guard.ErrUnsafeQuery) {
		t.Errorf("err = %v, want ErrUnsafeQuery", err)
	}
}

func TestAskService_RateLimited(t *testing.T) {
	svc := newTestService(t, map[string]string{"doc.txt": "some content here"})
	svc.limiter = guard.NewRateLimiter(1)

	if _, err := svc.Ask(context.Background(), models.AskQuery{Query: "first", SessionID: "s1"}); err != nil {
		t.Fatalf("first query: %v", err)
	}
	_, err := svc.Ask(context.Background(), models.AskQuery{Query: "second", SessionID: "s1"})
	if !errors.Is(err, guard.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestAskService_Search(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"a.txt": "alpha document content words here",
		"b.txt": "beta document content words here",
	})

	results, err := svc.Search(context.Background(), models.AskQuery{Query: "alpha", TopK: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestAskService_Stats(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"a.txt": "alpha words",
		"b.txt": "beta words",
	})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Documents != 2 {
		t.Errorf("Documents = %d, want 2", stats.Documents)
	}
	if stats.Chunks == 0 {
		t.Error("Chunks should be non-zero")
	}
}

func TestAskService_RefreshPicksUpNewDocuments(t *testing.T) {
	st := store.NewMemoryStore()
	st.Put("a.txt", []byte("first document words"))

	chunker, _ := corpus.NewChunker(10, 2)
	emb := embedding.NewMockEmbedder(64)
	builder := corpus.NewBuilder(st, extract.NewExtractor(), emb, chunker)
	cache := corpus.NewCache(builder, time.Hour, nil)
	svc := New(cache, search.NewSearcher(emb, nil),
		answer.NewAssembler(echoGenerator{}, answer.AssemblerConfig{Threshold: -1}, nil),
		guard.NewFilter(nil, 0), guard.NewRateLimiter(0), 3)

	if _, err := svc.Stats(context.Background()); err != nil {
		t.Fatalf("Stats: %v", err)
	}

	st.Put("b.txt", []byte("second document words"))
	stats, _ := svc.Stats(context.Background())
	if stats.Documents != 1 {
		t.Fatalf("cached stats should still see 1 document, got %d", stats.Documents)
	}

	svc.Refresh()
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats after refresh: %v", err)
	}
	if stats.Documents != 2 {
		t.Errorf("Documents = %d after refresh, want 2", stats.Documents)
	}
}
