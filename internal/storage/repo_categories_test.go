package storage

import (
	"context"
	"testing"

	"github.com/denis-severinov/expenso-go/internal/domain"
)

func TestCategoriesRepoRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCategoriesRepo(ctx, openTestDB(t))
	if err != nil {
		t.Fatalf("NewCategoriesRepo() unexpected error: %v", err)
	}

	var latest []domain.Category
	sub := repo.AllCategories().Subscribe(func(cs []domain.Category) { latest = cs })
	defer sub.Cancel()

	if len(latest) != 0 {
		t.Fatalf("initial snapshot holds %d categories, want 0", len(latest))
	}

	food, err := repo.Add(ctx, domain.Category{Name: "Food"})
	if err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if food.ID == "" {
		t.Fatal("Add() returned record without an id")
	}
	if len(latest) != 1 || latest[0].Name != "Food" {
		t.Fatalf("snapshot after add = %v, want [Food]", latest)
	}

	food.Name = "Groceries"
	if err := repo.Update(ctx, food); err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if latest[0].Name != "Groceries" {
		t.Fatalf("snapshot after rename = %v, want [Groceries]", latest)
	}

	if err := repo.Delete(ctx, food); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if len(latest) != 0 {
		t.Fatalf("snapshot after delete = %v, want empty", latest)
	}

	// Already gone: second delete is a no-op, not an error.
	if err := repo.Delete(ctx, food); err != nil {
		t.Fatalf("Delete() of absent row: %v", err)
	}
}

func TestCategoriesRepoRejectsEmptyName(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCategoriesRepo(ctx, openTestDB(t))
	if err != nil {
		t.Fatalf("NewCategoriesRepo() unexpected error: %v", err)
	}

	if _, err := repo.Add(ctx, domain.Category{Name: "   "}); err == nil {
		t.Fatal("Add() accepted a blank name")
	}
}

func TestCategoriesRepoPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo, err := NewCategoriesRepo(ctx, openTestDB(t))
	if err != nil {
		t.Fatalf("NewCategoriesRepo() unexpected error: %v", err)
	}

	for _, name := range []string{"Food", "Transport", "Rent"} {
		if _, err := repo.Add(ctx, domain.Category{Name: name}); err != nil {
			t.Fatalf("Add(%q) unexpected error: %v", name, err)
		}
	}

	snapshot, ok := repo.AllCategories().Latest()
	if !ok {
		t.Fatal("stream has no snapshot after three inserts")
	}
	got := make([]string, len(snapshot))
	for i, c := range snapshot {
		got[i] = c.Name
	}
	want := []string{"Food", "Transport", "Rent"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
