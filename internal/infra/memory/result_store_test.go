package memory

import (
	"context"
	"testing"

	"quizshow/internal/app"
)

func TestResultStoreKeepsNewestFirst(t *testing.T) {
	store := NewResultStore(2)
	ctx := context.Background()

	for i, score := range []int{100, 200, 300} {
		if err := store.SaveResult(ctx, app.Result{GameID: string(rune('a' + i)), Bank: "pme", Score: score}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	_ = store.SaveResult(ctx, app.Result{GameID: "x", Bank: "other", Score: 1})

	got, err := store.RecentResults(ctx, "pme", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].Score != 300 || got[1].Score != 200 {
		t.Fatalf("expected [300 200], got %+v", got)
	}

	got, _ = store.RecentResults(ctx, "pme", 1)
	if len(got) != 1 || got[0].GameID != "c" {
		t.Fatalf("expected newest only, got %+v", got)
	}
	if got, _ := store.RecentResults(ctx, "none", 5); len(got) != 0 {
		t.Fatalf("expected no results, got %+v", got)
	}
}
