package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/currency"
	"github.com/jkovac/artshow/internal/db"
	"github.com/jkovac/artshow/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	database := db.NewTestDB(t)
	conv := currency.New(currency.Currency{
		Code:            "EUR",
		DecimalPlaces:   2,
		AmountInPrimary: decimal.NewFromInt(1),
	})
	return New(database, conv)
}

func mustAdd(t *testing.T, s *Service, n NewItem) string {
	t.Helper()
	code, res, err := s.AddItem(context.Background(), n)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if !res.OK() {
		t.Fatalf("AddItem result: %s", res)
	}
	return code
}

func TestAddItem(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code, res, err := s.AddItem(ctx, NewItem{
		Owner: "7", Author: "Wood", Title: "Zebra",
		InitialAmount: "12.50", Charity: "50",
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if res != model.ResultSuccess {
		t.Fatalf("expected SUCCESS, got %s", res)
	}
	if code != "1" {
		t.Errorf("expected code 1, got %q", code)
	}

	item, _ := s.Item(ctx, code)
	if item.State != model.StateOnSale {
		t.Errorf("expected ON_SALE, got %q", item.State)
	}
	if item.InitialAmount == nil || item.InitialAmount.String() != "12.5" {
		t.Errorf("unexpected initial amount: %v", item.InitialAmount)
	}
}

func TestAddItemDisplayOnly(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{Owner: "7", Author: "Wood", Title: "Zebra"})
	item, _ := s.Item(ctx, code)
	if item.State != model.StateOnShow {
		t.Errorf("item without sale terms should be ON_SHOW, got %q", item.State)
	}
}

func TestAddItemInputErrors(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	bad := []NewItem{
		{Owner: "", Author: "Wood", Title: "Zebra"},
		{Owner: "x", Author: "Wood", Title: "Zebra"},
		{Owner: "0", Author: "Wood", Title: "Zebra"},
		{Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "-5", Charity: "50"},
		{Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "10", Charity: "150"},
		{Owner: "7", Author: "Wood", Title: "Zebra", ImportNumber: "abc"},
	}
	for i, n := range bad {
		if _, res, _ := s.AddItem(ctx, n); res != model.ResultInputError {
			t.Errorf("case %d: expected INPUT_ERROR, got %s", i, res)
		}
	}
}

func TestAddItemDuplicates(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustAdd(t, s, NewItem{Owner: "7", Author: "Wood", Title: "Zebra", ImportNumber: "4"})

	// The same author and title under the same owner is a duplicate,
	// case-insensitively.
	_, res, _ := s.AddItem(ctx, NewItem{Owner: "7", Author: "WOOD", Title: "zebra"})
	if res != model.ResultDuplicateItem {
		t.Errorf("expected DUPLICATE_ITEM, got %s", res)
	}

	// The same import number under the same owner is a duplicate.
	_, res, _ = s.AddItem(ctx, NewItem{Owner: "7", Author: "Wood", Title: "Lion", ImportNumber: "4"})
	if res != model.ResultDuplicateImportNumber {
		t.Errorf("expected DUPLICATE_IMPORT_NUMBER, got %s", res)
	}

	// A different owner may reuse both.
	_, res, _ = s.AddItem(ctx, NewItem{Owner: "8", Author: "Wood", Title: "Zebra", ImportNumber: "4"})
	if !res.OK() {
		t.Errorf("different owner should not collide, got %s", res)
	}
}

func TestAddItemBlankAuthorTitle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mustAdd(t, s, NewItem{Owner: "7", Author: "Wood", Title: "Zebra"})

	// An untitled, authorless item is not a duplicate of the owner's
	// named items.
	_, res, _ := s.AddItem(ctx, NewItem{Owner: "7"})
	if !res.OK() {
		t.Fatalf("blank item rejected: %s", res)
	}

	// A second blank item for the same owner is.
	_, res, _ = s.AddItem(ctx, NewItem{Owner: "7"})
	if res != model.ResultDuplicateItem {
		t.Errorf("expected DUPLICATE_ITEM for a second blank item, got %s", res)
	}
}

func TestAddItemRenumbered(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{Owner: "7", Author: "Wood", Title: "Zebra", ImportNumber: "4"})
	if code != "4" {
		t.Fatalf("expected hinted code 4, got %q", code)
	}

	// Code 4 is taken, so the next import number 4 gets renumbered.
	code, res, _ := s.AddItem(ctx, NewItem{Owner: "8", Author: "Stone", Title: "River", ImportNumber: "4"})
	if res != model.ResultSuccessRenumbered {
		t.Errorf("expected SUCCESS_BUT_IMPORT_RENUMBERED, got %s", res)
	}
	if code == "4" || code == "" {
		t.Errorf("expected a fresh code, got %q", code)
	}

	// With an exact match requested, the collision is an error instead.
	_, res, _ = s.AddItem(ctx, NewItem{
		Owner: "9", Author: "Clay", Title: "Hill", ImportNumber: "4", RequestNumberMatch: true,
	})
	if res != model.ResultError {
		t.Errorf("expected ERROR for required match on taken code, got %s", res)
	}
}

func TestUpdateItem(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{Owner: "7", Author: "Wood", Title: "Zebra"})

	res, err := s.UpdateItem(ctx, code, ItemUpdate{
		Owner: "7", Title: "Zebra II", Author: "Wood", State: string(model.StateOnShow),
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if res != model.ResultSuccess {
		t.Fatalf("expected SUCCESS, got %s", res)
	}

	item, _ := s.Item(ctx, code)
	if item.Title != "Zebra II" {
		t.Errorf("title not updated: %q", item.Title)
	}

	// The identical update changes nothing.
	res, _ = s.UpdateItem(ctx, code, ItemUpdate{
		Owner: "7", Title: "Zebra II", Author: "Wood", State: string(model.StateOnShow),
	})
	if res != model.ResultNothingToUpdate {
		t.Errorf("expected NOTHING_TO_UPDATE, got %s", res)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	s := newTestService(t)

	res, _ := s.UpdateItem(context.Background(), "77", ItemUpdate{
		Owner: "1", State: string(model.StateOnShow),
	})
	if res != model.ResultItemNotFound {
		t.Errorf("expected ITEM_NOT_FOUND, got %s", res)
	}
}

func TestUpdateItemConsistency(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{
		Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "10", Charity: "50",
	})

	// Display states must not carry sale terms.
	res, _ := s.UpdateItem(ctx, code, ItemUpdate{
		Owner: "7", Author: "Wood", Title: "Zebra",
		State: string(model.StateOnShow), InitialAmount: "10", Charity: "50",
	})
	if res != model.ResultInvalidValue {
		t.Errorf("expected INVALID_VALUE for ON_SHOW with sale terms, got %s", res)
	}

	// Sold states need amount and buyer.
	res, _ = s.UpdateItem(ctx, code, ItemUpdate{
		Owner: "7", Author: "Wood", Title: "Zebra",
		State: string(model.StateSold), InitialAmount: "10", Charity: "50",
	})
	if res != model.ResultAmountNotDefined {
		t.Errorf("expected AMOUNT_NOT_DEFINED, got %s", res)
	}

	res, _ = s.UpdateItem(ctx, code, ItemUpdate{
		Owner: "7", Author: "Wood", Title: "Zebra",
		State: string(model.StateSold), InitialAmount: "10", Charity: "50", Amount: "15",
	})
	if res != model.ResultBuyerNotDefined {
		t.Errorf("expected BUYER_NOT_DEFINED, got %s", res)
	}

	// A sale below the initial amount is rejected.
	res, _ = s.UpdateItem(ctx, code, ItemUpdate{
		Owner: "7", Author: "Wood", Title: "Zebra",
		State: string(model.StateSold), InitialAmount: "10", Charity: "50",
		Amount: "5", Buyer: "22",
	})
	if res != model.ResultAmountTooLow {
		t.Errorf("expected AMOUNT_TOO_LOW, got %s", res)
	}

	// Nothing was committed along the way.
	item, _ := s.Item(ctx, code)
	if item.State != model.StateOnSale || item.Amount != nil || item.Buyer != nil {
		t.Errorf("failed updates must not change the item: %+v", item)
	}
}

func TestUpdateItemInvalidValues(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{Owner: "7", Author: "Wood", Title: "Zebra"})

	bad := []ItemUpdate{
		{Owner: "", State: string(model.StateOnShow)},
		{Owner: "7", State: "BROKEN"},
		{Owner: "7", State: string(model.StateOnSale), InitialAmount: "x", Charity: "50"},
		{Owner: "7", State: string(model.StateOnSale), InitialAmount: "10", Charity: "200"},
	}
	for i, u := range bad {
		u.Author = "Wood"
		u.Title = "Zebra"
		if res, _ := s.UpdateItem(ctx, code, u); res != model.ResultInvalidValue {
			t.Errorf("case %d: expected INVALID_VALUE, got %s", i, res)
		}
	}
}

func TestCloseItemAsSold(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{
		Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "12.50", Charity: "50",
	})

	res, err := s.CloseItemAsSold(ctx, code, "30", "22")
	if err != nil {
		t.Fatalf("CloseItemAsSold: %v", err)
	}
	if res != model.ResultSuccess {
		t.Fatalf("expected SUCCESS, got %s", res)
	}

	item, _ := s.Item(ctx, code)
	if item.State != model.StateSold {
		t.Errorf("expected SOLD, got %q", item.State)
	}
	if item.Amount == nil || item.Amount.String() != "30" {
		t.Errorf("unexpected amount: %v", item.Amount)
	}
	if item.Buyer == nil || *item.Buyer != 22 {
		t.Errorf("unexpected buyer: %v", item.Buyer)
	}

	// Closing twice fails.
	if res, _ := s.CloseItemAsSold(ctx, code, "40", "23"); res != model.ResultItemNotClosable {
		t.Errorf("expected ITEM_NOT_CLOSABLE, got %s", res)
	}
}

func TestCloseItemValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{
		Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "12.50", Charity: "50",
	})

	if res, _ := s.CloseItemAsSold(ctx, "77", "30", "22"); res != model.ResultItemNotFound {
		t.Errorf("expected ITEM_NOT_FOUND, got %s", res)
	}
	if res, _ := s.CloseItemAsSold(ctx, code, "30", ""); res != model.ResultInvalidBuyer {
		t.Errorf("expected INVALID_BUYER, got %s", res)
	}
	if res, _ := s.CloseItemAsSold(ctx, code, "", "22"); res != model.ResultInvalidAmount {
		t.Errorf("expected INVALID_AMOUNT, got %s", res)
	}
	if res, _ := s.CloseItemAsSold(ctx, code, "10", "22"); res != model.ResultAmountTooLow {
		t.Errorf("expected AMOUNT_TOO_LOW, got %s", res)
	}

	// Nothing was committed.
	item, _ := s.Item(ctx, code)
	if item.State != model.StateOnSale {
		t.Errorf("failed closes must not change state, got %q", item.State)
	}
}

func TestCloseItemAsNotSold(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{
		Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "12.50", Charity: "50",
	})

	res, _ := s.CloseItemAsNotSold(ctx, code)
	if res != model.ResultSuccess {
		t.Fatalf("expected SUCCESS, got %s", res)
	}

	item, _ := s.Item(ctx, code)
	if item.State != model.StateNotSold {
		t.Errorf("expected NOT_SOLD, got %q", item.State)
	}
	if item.Amount != nil || item.Buyer != nil {
		t.Errorf("unsold close must clear sale fields: %+v", item)
	}
}

func TestAuctionFlow(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{
		Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "10", Charity: "50",
	})

	res, err := s.CloseItemIntoAuction(ctx, code, "20", "22", nil)
	if err != nil {
		t.Fatalf("CloseItemIntoAuction: %v", err)
	}
	if res != model.ResultSuccess {
		t.Fatalf("expected SUCCESS, got %s", res)
	}

	item, _ := s.Item(ctx, code)
	if item.State != model.StateInAuction {
		t.Fatalf("expected IN_AUCTION, got %q", item.State)
	}

	// Nothing is on the block yet.
	if cur, _ := s.ItemInAuction(ctx); cur != nil {
		t.Errorf("expected no item on the block, got %+v", cur)
	}
	if res, _ := s.UpdateItemInAuction(ctx, "25"); res != model.ResultNoItemToAuction {
		t.Errorf("expected NO_ITEM_TO_AUCTION, got %s", res)
	}

	if res, _ := s.SendItemToAuction(ctx, code); res != model.ResultSuccess {
		t.Fatalf("SendItemToAuction: %s", res)
	}
	cur, _ := s.ItemInAuction(ctx)
	if cur == nil || cur.Code != code {
		t.Fatalf("expected item %s on the block, got %+v", code, cur)
	}
	if cur.AmountInAuction == nil || cur.AmountInAuction.String() != "20" {
		t.Errorf("running bid should start at the closing amount, got %v", cur.AmountInAuction)
	}

	// Record a bid, then hammer down to a new buyer.
	if res, _ := s.UpdateItemInAuction(ctx, "35"); res != model.ResultSuccess {
		t.Fatalf("UpdateItemInAuction: %s", res)
	}
	if res, _ := s.SellItemInAuction(ctx, "41"); res != model.ResultSuccess {
		t.Fatalf("SellItemInAuction: %s", res)
	}

	item, _ = s.Item(ctx, code)
	if item.State != model.StateSold {
		t.Errorf("expected SOLD, got %q", item.State)
	}
	if item.Amount == nil || item.Amount.String() != "35" {
		t.Errorf("sale amount should be the running bid, got %v", item.Amount)
	}
	if item.Buyer == nil || *item.Buyer != 41 {
		t.Errorf("unexpected buyer: %v", item.Buyer)
	}
	if item.AmountInAuction != nil {
		t.Errorf("running bid should be cleared, got %v", item.AmountInAuction)
	}
	if cur, _ := s.ItemInAuction(ctx); cur != nil {
		t.Errorf("block should be empty after the sale, got %+v", cur)
	}
}

func TestSellItemInAuctionNoChange(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{
		Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "10", Charity: "50",
	})
	s.CloseItemIntoAuction(ctx, code, "20", "22", nil)
	s.SendItemToAuction(ctx, code)
	s.UpdateItemInAuction(ctx, "50")

	if res, _ := s.SellItemInAuctionNoChange(ctx); res != model.ResultSuccess {
		t.Fatalf("SellItemInAuctionNoChange: %s", res)
	}

	item, _ := s.Item(ctx, code)
	if item.Buyer == nil || *item.Buyer != 22 {
		t.Errorf("buyer should be unchanged, got %v", item.Buyer)
	}
	if item.Amount == nil || item.Amount.String() != "50" {
		t.Errorf("sale amount should be the running bid, got %v", item.Amount)
	}
}

func TestSendItemToAuctionInvalid(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{Owner: "7", Author: "Wood", Title: "Zebra"})

	res, _ := s.SendItemToAuction(ctx, code)
	if res != model.ResultInvalidAuctionItem {
		t.Errorf("expected INVALID_AUCTION_ITEM, got %s", res)
	}
	if cur, _ := s.ItemInAuction(ctx); cur != nil {
		t.Errorf("block should stay empty, got %+v", cur)
	}
}

func TestClearAuction(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	code := mustAdd(t, s, NewItem{
		Owner: "7", Author: "Wood", Title: "Zebra", InitialAmount: "10", Charity: "50",
	})
	s.CloseItemIntoAuction(ctx, code, "20", "22", nil)
	s.SendItemToAuction(ctx, code)
	s.UpdateItemInAuction(ctx, "60")

	if err := s.ClearAuction(ctx); err != nil {
		t.Fatalf("ClearAuction: %v", err)
	}
	if cur, _ := s.ItemInAuction(ctx); cur != nil {
		t.Errorf("block should be empty after clear, got %+v", cur)
	}

	// The abandoned bid is discarded with the block, so potential
	// amounts fall back to the closing amount.
	item, _ := s.Item(ctx, code)
	if item.AmountInAuction != nil {
		t.Errorf("running bid survived the clear: %v", item.AmountInAuction)
	}
	_, charity := s.ItemPotentialNetAmount(item)
	if charity.String() != "10" {
		t.Errorf("potential charity after clear: %s, want 10", charity)
	}
}

func TestAuctionItemsAssignsSortCodes(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	var codes []string
	for _, title := range []string{"Zebra", "Lion", "Gazelle"} {
		code := mustAdd(t, s, NewItem{
			Owner: "7", Author: "Wood", Title: title, InitialAmount: "10", Charity: "50",
		})
		if res, _ := s.CloseItemIntoAuction(ctx, code, "20", "22", nil); res != model.ResultSuccess {
			t.Fatalf("CloseItemIntoAuction(%s): %s", code, res)
		}
		codes = append(codes, code)
	}

	items, err := s.AuctionItems(ctx)
	if err != nil {
		t.Fatalf("AuctionItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, it := range items {
		if it.AuctionSortCode != i+1 {
			t.Errorf("position %d holds sort code %d", i, it.AuctionSortCode)
		}
	}

	// The assigned codes are persisted on the items.
	for _, code := range codes {
		item, _ := s.Item(ctx, code)
		if item.AuctionSortCode < 1 || item.AuctionSortCode > 3 {
			t.Errorf("item %s: sort code %d not persisted", code, item.AuctionSortCode)
		}
	}
}

func TestNetAmount(t *testing.T) {
	s := newTestService(t)

	net, charity := s.NetAmount(decimal.NewFromInt(100), 30)
	if net.String() != "70" || charity.String() != "30" {
		t.Errorf("NetAmount(100, 30) = %s, %s", net, charity)
	}

	// The charity part is rounded at the minor unit first, so the parts
	// always recombine to the gross amount.
	gross := decimal.RequireFromString("33.33")
	net, charity = s.NetAmount(gross, 10)
	if charity.String() != "3.33" {
		t.Errorf("expected charity 3.33, got %s", charity)
	}
	if !net.Add(charity).Equal(gross) {
		t.Errorf("net %s + charity %s != gross %s", net, charity, gross)
	}

	net, charity = s.NetAmount(decimal.NewFromInt(100), 0)
	if !charity.IsZero() || net.String() != "100" {
		t.Errorf("NetAmount(100, 0) = %s, %s", net, charity)
	}
}
