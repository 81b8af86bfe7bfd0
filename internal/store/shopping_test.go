package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func setupShoppingTestDB(t *testing.T) (*ShoppingStore, string) {
	t.Helper()
	db := setupTestDB(t)
	u := createTestUser(t, db, "alice@example.com")
	return NewShoppingStore(db), u.ID
}

func TestListCRUD(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)
	ctx := context.Background()

	budget := decimal.NewNullDecimal(decimal.RequireFromString("50.00"))
	l, err := ss.CreateList(ctx, userID, "Groceries", budget)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if l.Name != "Groceries" || l.UserID != userID {
		t.Errorf("got %+v", l)
	}
	if !l.Budget.Valid || !l.Budget.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Errorf("budget = %v, want 50", l.Budget)
	}

	l.Name = "Weekly"
	l.Budget = decimal.NullDecimal{}
	l.IsArchived = true
	updated, err := ss.UpdateList(ctx, l)
	if err != nil {
		t.Fatalf("update list: %v", err)
	}
	if updated.Name != "Weekly" || updated.Budget.Valid || !updated.IsArchived {
		t.Errorf("update not applied: %+v", updated)
	}

	lists, err := ss.ListsByUser(ctx, userID)
	if err != nil {
		t.Fatalf("lists by user: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}

	if err := ss.DeleteList(ctx, l.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	got, err := ss.GetList(ctx, l.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestFindProductByNameIgnoresCase(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)
	ctx := context.Background()

	created, err := ss.CreateProduct(ctx, "Milk", &userID)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.CategoryID != nil {
		t.Error("new product should have no category")
	}

	found, err := ss.FindProductByName(ctx, "  mILK ")
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("got %+v, want product %d", found, created.ID)
	}

	missing, err := ss.FindProductByName(ctx, "Bread")
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown product")
	}
}

func TestItemCRUD(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)
	ctx := context.Background()

	l, _ := ss.CreateList(ctx, userID, "Groceries", decimal.NullDecimal{})
	p, _ := ss.CreateProduct(ctx, "Milk", &userID)
	despensa := int64(3)
	if err := ss.SetProductCategory(ctx, p.ID, &despensa); err != nil {
		t.Fatalf("set category: %v", err)
	}

	price := decimal.NewNullDecimal(decimal.RequireFromString("1.50"))
	item, err := ss.CreateItem(ctx, l.ID, p.ID, 2, price)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Quantity != 2 || item.IsChecked {
		t.Errorf("got %+v", item)
	}
	if item.Product == nil || item.Product.Name != "Milk" {
		t.Fatalf("product not joined: %+v", item.Product)
	}
	if item.Product.Category == nil || item.Product.Category.Name != "Despensa" {
		t.Errorf("category not joined: %+v", item.Product.Category)
	}
	if !item.LineTotal().Equal(decimal.RequireFromString("3.00")) {
		t.Errorf("line total = %s, want 3.00", item.LineTotal())
	}

	item.IsChecked = true
	item.Quantity = 3
	updated, err := ss.UpdateItem(ctx, item)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if !updated.IsChecked || updated.Quantity != 3 {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := ss.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	got, _ := ss.GetItem(ctx, item.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestCreateItemRejectsZeroQuantity(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)
	ctx := context.Background()

	l, _ := ss.CreateList(ctx, userID, "Groceries", decimal.NullDecimal{})
	p, _ := ss.CreateProduct(ctx, "Milk", &userID)

	_, err := ss.CreateItem(ctx, l.ID, p.ID, 0, decimal.NullDecimal{})
	if !errors.Is(err, ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}
}

func TestGetItemInListChecksMembership(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)
	ctx := context.Background()

	a, _ := ss.CreateList(ctx, userID, "A", decimal.NullDecimal{})
	b, _ := ss.CreateList(ctx, userID, "B", decimal.NullDecimal{})
	p, _ := ss.CreateProduct(ctx, "Milk", &userID)
	item, _ := ss.CreateItem(ctx, a.ID, p.ID, 1, decimal.NullDecimal{})

	got, err := ss.GetItemInList(ctx, a.ID, item.ID)
	if err != nil || got == nil {
		t.Fatalf("expected item in list A, got %v, %v", got, err)
	}
	got, err = ss.GetItemInList(ctx, b.ID, item.ID)
	if err != nil {
		t.Fatalf("get item in list: %v", err)
	}
	if got != nil {
		t.Error("item must not be found through list B")
	}
}

func TestListItemsOrderAndCascade(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)
	ctx := context.Background()

	l, _ := ss.CreateList(ctx, userID, "Groceries", decimal.NullDecimal{})
	for _, name := range []string{"Milk", "Bread", "Eggs"} {
		p, _ := ss.CreateProduct(ctx, name, &userID)
		if _, err := ss.CreateItem(ctx, l.ID, p.ID, 1, decimal.NullDecimal{}); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}

	items, err := ss.ListItems(ctx, l.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []string{"Milk", "Bread", "Eggs"} {
		if items[i].Product.Name != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Product.Name, want)
		}
		if items[i].Product.Category != nil {
			t.Errorf("items[%d] should be uncategorized", i)
		}
	}

	if err := ss.DeleteList(ctx, l.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	got, _ := ss.GetItem(ctx, items[0].ID)
	if got != nil {
		t.Error("items should be deleted with their list")
	}
}

func TestClearChecked(t *testing.T) {
	ss, userID := setupShoppingTestDB(t)
	ctx := context.Background()

	l, _ := ss.CreateList(ctx, userID, "Groceries", decimal.NullDecimal{})
	p, _ := ss.CreateProduct(ctx, "Milk", &userID)
	a, _ := ss.CreateItem(ctx, l.ID, p.ID, 1, decimal.NullDecimal{})
	ss.CreateItem(ctx, l.ID, p.ID, 1, decimal.NullDecimal{})
	a.IsChecked = true
	if _, err := ss.UpdateItem(ctx, a); err != nil {
		t.Fatalf("update item: %v", err)
	}

	n, err := ss.ClearChecked(ctx, l.ID)
	if err != nil {
		t.Fatalf("clear checked: %v", err)
	}
	if n != 1 {
		t.Errorf("cleared %d, want 1", n)
	}
	items, _ := ss.ListItems(ctx, l.ID)
	if len(items) != 1 || items[0].IsChecked {
		t.Errorf("remaining items = %+v", items)
	}
}
