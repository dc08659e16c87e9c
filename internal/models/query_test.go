package models

import "testing"

func TestAskQuery_Validate(t *testing.T) {
	q := &AskQuery{Query: "what is machine learning", TopK: 5}
	if err := q.Validate(); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
	if q.TopK != 5 {
		t.Errorf("TopK changed: %d", q.TopK)
	}

	empty := &AskQuery{}
	if err := empty.Validate(); err == nil {
		t.Error("empty query should be rejected")
	}

	huge := &AskQuery{Query: "q", TopK: 1000}
	if err := huge.Validate(); err != nil {
		t.Fatal(err)
	}
	if huge.TopK != 100 {
		t.Errorf("TopK should be capped at 100, got %d", huge.TopK)
	}

	neg := &AskQuery{Query: "q", TopK: -3}
	if err := neg.Validate(); err != nil {
		t.Fatal(err)
	}
	if neg.TopK != 0 {
		t.Errorf("negative TopK should normalize to 0, got %d", neg.TopK)
	}
}
