package store

import (
	"context"
	"errors"
	"testing"
)

func TestCategorySeedData(t *testing.T) {
	cs := NewCategoryStore(setupTestDB(t))

	categories, err := cs.List(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	expected := []string{
		"Cuidado del Hogar", "Cuidado Personal", "Despensa", "Bebidas",
		"Panadería y Pastelería", "Frescos", "Otros", "Congelados y Refrigerados",
	}
	if len(categories) != len(expected) {
		t.Fatalf("expected %d seed categories, got %d", len(expected), len(categories))
	}
	for i, name := range expected {
		if categories[i].Name != name {
			t.Errorf("category[%d].Name = %q, want %q", i, categories[i].Name, name)
		}
		if categories[i].Rank != nil {
			t.Errorf("category[%d] has rank without preferences", i)
		}
	}
}

func TestCategoryCreateDuplicate(t *testing.T) {
	cs := NewCategoryStore(setupTestDB(t))
	ctx := context.Background()

	c, err := cs.Create(ctx, "Mascotas", 70)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if c.Name != "Mascotas" || c.DisplayOrder != 70 {
		t.Errorf("got %+v", c)
	}
	if _, err := cs.Create(ctx, "Mascotas", 71); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCategoryUpsertResetsOrder(t *testing.T) {
	cs := NewCategoryStore(setupTestDB(t))
	ctx := context.Background()

	if err := cs.Upsert(ctx, "Despensa", 5); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	categories, err := cs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if categories[0].Name != "Despensa" {
		t.Errorf("first category = %q, want Despensa", categories[0].Name)
	}
}

func TestSetUserOrder(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCategoryStore(db)
	ctx := context.Background()
	u := createTestUser(t, db, "alice@example.com")

	if err := cs.SetUserOrder(ctx, u.ID, []int64{3, 1, 2}); err != nil {
		t.Fatalf("set order: %v", err)
	}

	order, err := cs.UserOrder(ctx, u.ID)
	if err != nil {
		t.Fatalf("user order: %v", err)
	}
	want := map[int64]int{3: 0, 1: 1, 2: 2}
	for id, o := range want {
		if order[id] != o {
			t.Errorf("order[%d] = %d, want %d", id, order[id], o)
		}
	}

	// Re-ranking overwrites existing rows.
	if err := cs.SetUserOrder(ctx, u.ID, []int64{1}); err != nil {
		t.Fatalf("set order: %v", err)
	}
	order, _ = cs.UserOrder(ctx, u.ID)
	if order[1] != 0 || order[3] != 0 || order[2] != 2 {
		t.Errorf("after re-rank got %v", order)
	}
}

func TestSetUserOrderRollsBackOnUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCategoryStore(db)
	ctx := context.Background()
	u := createTestUser(t, db, "alice@example.com")

	if err := cs.SetUserOrder(ctx, u.ID, []int64{2, 1}); err != nil {
		t.Fatalf("set order: %v", err)
	}

	err := cs.SetUserOrder(ctx, u.ID, []int64{1, 2, 9999})
	if !errors.Is(err, ErrReference) {
		t.Fatalf("expected ErrReference, got %v", err)
	}

	order, err := cs.UserOrder(ctx, u.ID)
	if err != nil {
		t.Fatalf("user order: %v", err)
	}
	if len(order) != 2 || order[2] != 0 || order[1] != 1 {
		t.Errorf("preferences changed after failed reorder: %v", order)
	}
}

func TestListForUserOrdering(t *testing.T) {
	db := setupTestDB(t)
	cs := NewCategoryStore(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	all, _ := cs.List(ctx)
	last := all[len(all)-1]
	if err := cs.SetUserOrder(ctx, alice.ID, []int64{last.ID}); err != nil {
		t.Fatalf("set order: %v", err)
	}

	got, err := cs.ListForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(got) != len(all) {
		t.Fatalf("expected %d categories, got %d", len(all), len(got))
	}
	if got[0].ID != last.ID {
		t.Errorf("first category = %q, want %q", got[0].Name, last.Name)
	}
	if got[0].Rank == nil || *got[0].Rank != 0 {
		t.Errorf("rank = %v, want 0", got[0].Rank)
	}
	for i := 1; i < len(got); i++ {
		if got[i].ID != all[i-1].ID {
			t.Errorf("category[%d] = %q, want %q", i, got[i].Name, all[i-1].Name)
		}
	}

	// Bob's view is unaffected by Alice's preferences.
	bobs, _ := cs.ListForUser(ctx, bob.ID)
	if bobs[0].ID != all[0].ID {
		t.Errorf("bob first category = %q, want %q", bobs[0].Name, all[0].Name)
	}
}
