package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/auction"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

var hundred = decimal.NewFromInt(100)

// NetAmount splits a gross sale amount into the owner's net share and
// the charity deduction. The deduction is rounded to the primary
// currency before the subtraction so the two parts always sum to the
// gross amount exactly.
func (s *Service) NetAmount(gross decimal.Decimal, charityPercent int) (net, charity decimal.Decimal) {
	charity = s.conv.RoundInPrimary(gross.Mul(decimal.NewFromInt(int64(charityPercent))).Div(hundred))
	net = gross.Sub(charity)
	return net, charity
}

func saleBearing(state model.State) bool {
	switch state {
	case model.StateInAuction, model.StateSold, model.StateDelivered, model.StateFinished:
		return true
	}
	return false
}

// ItemNetAmount returns the owner's net share and the charity
// deduction of an item's sale, or zeros when the item has not been
// sold.
func (s *Service) ItemNetAmount(item *model.Item) (net, charity decimal.Decimal) {
	if item == nil || !saleBearing(item.State) || item.Amount == nil || item.Charity == nil {
		return decimal.Zero, decimal.Zero
	}
	return s.NetAmount(*item.Amount, *item.Charity)
}

// ItemPotentialNetAmount is like ItemNetAmount but values an item on
// the auction block at its running bid.
func (s *Service) ItemPotentialNetAmount(item *model.Item) (net, charity decimal.Decimal) {
	if item == nil || !saleBearing(item.State) || item.Charity == nil {
		return decimal.Zero, decimal.Zero
	}
	amount := item.Amount
	if item.State == model.StateInAuction && item.AmountInAuction != nil {
		amount = item.AmountInAuction
	}
	if amount == nil {
		return decimal.Zero, decimal.Zero
	}
	return s.NetAmount(*amount, *item.Charity)
}

// PotentiallySoldItems lists items that are sold or expected to sell,
// i.e. those carrying a positive sale amount in a sale-bearing state.
func (s *Service) PotentiallySoldItems(ctx context.Context) ([]model.Item, error) {
	items, err := store.ListItems(ctx, s.db, store.ItemFilter{States: []model.State{
		model.StateInAuction, model.StateSold, model.StateDelivered, model.StateFinished,
	}})
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		if item.Amount != nil && item.Amount.Sign() > 0 {
			out = append(out, item)
		}
	}
	return out, nil
}

// AuctionItems lists the items queued for the live auction in calling
// order and persists that order so reprints stay stable.
func (s *Service) AuctionItems(ctx context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := store.ListItems(ctx, s.db, store.ItemFilter{States: []model.State{model.StateInAuction}})
	if err != nil {
		return nil, err
	}
	ordered := auction.Order(items)
	codes := make(map[string]int, len(ordered))
	for _, item := range ordered {
		codes[item.Code] = item.AuctionSortCode
	}
	if err := store.SetAuctionSortCodes(ctx, s.db, codes); err != nil {
		return nil, err
	}
	return ordered, nil
}
