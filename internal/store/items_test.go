package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/db"
	"github.com/jkovac/artshow/internal/model"
)

func newItem(code string, owner int, author, title string, state model.State) *model.Item {
	return &model.Item{
		Code:   code,
		Owner:  owner,
		Author: author,
		Title:  title,
		State:  state,
	}
}

func TestInsertAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	amount := decimal.RequireFromString("12.50")
	charity := 50
	item := newItem("1", 7, "Wood", "Zebra", model.StateOnSale)
	item.InitialAmount = &amount
	item.Charity = &charity
	if err := InsertItem(ctx, database, item); err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	got, err := GetItem(ctx, database, "1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.Owner != 7 || got.Author != "Wood" || got.Title != "Zebra" {
		t.Errorf("unexpected item: %+v", got)
	}
	if got.InitialAmount == nil || !got.InitialAmount.Equal(amount) {
		t.Errorf("expected initial amount 12.50, got %v", got.InitialAmount)
	}
	if got.Charity == nil || *got.Charity != 50 {
		t.Errorf("expected charity 50, got %v", got.Charity)
	}
	if got.Amount != nil || got.Buyer != nil {
		t.Errorf("expected no sale fields, got amount=%v buyer=%v", got.Amount, got.Buyer)
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetItem(context.Background(), database, "77")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing item, got %+v", got)
	}
}

func TestListItemsFilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	InsertItem(ctx, database, newItem("1", 1, "Wood", "Zebra", model.StateOnShow))
	InsertItem(ctx, database, newItem("2", 1, "Wood", "Lion", model.StateOnSale))
	InsertItem(ctx, database, newItem("3", 2, "Stone", "River", model.StateOnSale))

	owner := 1
	items, err := ListItems(ctx, database, ItemFilter{Owner: &owner})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items for owner 1, got %d", len(items))
	}

	items, _ = ListItems(ctx, database, ItemFilter{States: []model.State{model.StateOnSale}})
	if len(items) != 2 {
		t.Errorf("expected 2 items on sale, got %d", len(items))
	}

	// Author matching is case-insensitive.
	author := "wood"
	title := "LION"
	items, _ = ListItems(ctx, database, ItemFilter{Author: &author, Title: &title})
	if len(items) != 1 || items[0].Code != "2" {
		t.Errorf("expected item 2 for author/title match, got %+v", items)
	}
}

func TestListItemsBlankAuthorTitle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	InsertItem(ctx, database, newItem("1", 1, "Wood", "Zebra", model.StateOnShow))
	InsertItem(ctx, database, newItem("2", 1, "", "", model.StateOnShow))

	// An empty filter value is a real value and matches only blank
	// fields, never the owner's whole inventory.
	blank := ""
	items, err := ListItems(ctx, database, ItemFilter{Author: &blank, Title: &blank})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].Code != "2" {
		t.Errorf("expected only the blank item, got %+v", items)
	}
}

func TestListItemsDisplayOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	InsertItem(ctx, database, newItem("10", 1, "Wood", "Zebra", model.StateOnShow))
	InsertItem(ctx, database, newItem("2", 1, "Wood", "Lion", model.StateOnShow))
	InsertItem(ctx, database, newItem("A3", 1, "Wood", "River", model.StateOnShow))

	items, err := ListItems(ctx, database, ItemFilter{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	// Numeric codes sort by value, lettered codes after them.
	if items[0].Code != "2" || items[1].Code != "10" || items[2].Code != "A3" {
		t.Errorf("unexpected order: %s, %s, %s", items[0].Code, items[1].Code, items[2].Code)
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("1", 1, "Wood", "Zebra", model.StateOnShow)
	InsertItem(ctx, database, item)

	item.Title = "Zebra II"
	item.State = model.StateOnSale
	amount := decimal.RequireFromString("30")
	charity := 10
	item.InitialAmount = &amount
	item.Charity = &charity

	n, err := UpdateItem(ctx, database, item)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row updated, got %d", n)
	}

	got, _ := GetItem(ctx, database, "1")
	if got.Title != "Zebra II" || got.State != model.StateOnSale {
		t.Errorf("update not applied: %+v", got)
	}

	missing := newItem("99", 1, "X", "Y", model.StateOpen)
	if n, _ := UpdateItem(ctx, database, missing); n != 0 {
		t.Errorf("expected 0 rows for missing item, got %d", n)
	}
}

func TestBulkSetState(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	InsertItem(ctx, database, newItem("1", 1, "Wood", "Zebra", model.StateOnShow))
	InsertItem(ctx, database, newItem("2", 1, "Wood", "Lion", model.StateNotSold))
	InsertItem(ctx, database, newItem("3", 2, "Stone", "River", model.StateOnShow))

	owner := 1
	n, err := BulkSetState(ctx, database,
		ItemFilter{Owner: &owner, States: []model.State{model.StateOnShow, model.StateNotSold}},
		model.StateFinished)
	if err != nil {
		t.Fatalf("BulkSetState: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 items changed, got %d", n)
	}

	got, _ := GetItem(ctx, database, "3")
	if got.State != model.StateOnShow {
		t.Errorf("item of other owner should be untouched, got %q", got.State)
	}
}

func TestNextItemCode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	code, err := NextItemCode(ctx, database, nil, false)
	if err != nil {
		t.Fatalf("NextItemCode: %v", err)
	}
	if code != "1" {
		t.Errorf("expected first code 1, got %q", code)
	}

	InsertItem(ctx, database, newItem("1", 1, "Wood", "Zebra", model.StateOpen))
	InsertItem(ctx, database, newItem("5", 1, "Wood", "Lion", model.StateOpen))

	code, _ = NextItemCode(ctx, database, nil, false)
	if code != "6" {
		t.Errorf("expected next code 6, got %q", code)
	}

	// A free hint is used verbatim.
	hint := 3
	code, _ = NextItemCode(ctx, database, &hint, false)
	if code != "3" {
		t.Errorf("expected hinted code 3, got %q", code)
	}

	// A taken hint falls back to sequential, or fails when a match is
	// required.
	taken := 5
	code, _ = NextItemCode(ctx, database, &taken, false)
	if code != "6" {
		t.Errorf("expected fallback code 6, got %q", code)
	}
	code, _ = NextItemCode(ctx, database, &taken, true)
	if code != "" {
		t.Errorf("expected empty code for required match, got %q", code)
	}
}

func TestDeleteItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	InsertItem(ctx, database, newItem("1", 1, "Wood", "Zebra", model.StateOpen))
	InsertItem(ctx, database, newItem("2", 1, "Wood", "Lion", model.StateOpen))

	n, err := DeleteItems(ctx, database, ItemFilter{Codes: []string{"1"}})
	if err != nil {
		t.Fatalf("DeleteItems: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 item deleted, got %d", n)
	}

	items, _ := ListItems(ctx, database, ItemFilter{})
	if len(items) != 1 || items[0].Code != "2" {
		t.Errorf("unexpected items after delete: %+v", items)
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	InsertItem(ctx, database, newItem("1", 1, "Wood", "Zebra", model.StateOpen))

	data, mime, err := GetItemImage(ctx, database, "1")
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if data != nil || mime != "" {
		t.Errorf("expected no image, got %d bytes %q", len(data), mime)
	}

	if err := SetItemImage(ctx, database, "1", []byte{1, 2, 3}, "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}
	data, mime, _ = GetItemImage(ctx, database, "1")
	if len(data) != 3 || mime != "image/jpeg" {
		t.Errorf("unexpected image: %d bytes %q", len(data), mime)
	}
}

func TestImportNumberUniquePerOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	n := 4
	first := newItem("1", 1, "Wood", "Zebra", model.StateOpen)
	first.ImportNumber = &n
	if err := InsertItem(ctx, database, first); err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	dup := newItem("2", 1, "Wood", "Lion", model.StateOpen)
	dup.ImportNumber = &n
	if err := InsertItem(ctx, database, dup); err == nil {
		t.Error("expected unique constraint violation for duplicate import number")
	}

	// Same number under another owner is fine.
	other := newItem("3", 2, "Stone", "River", model.StateOpen)
	other.ImportNumber = &n
	if err := InsertItem(ctx, database, other); err != nil {
		t.Errorf("InsertItem for other owner: %v", err)
	}
}
