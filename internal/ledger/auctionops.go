package ledger

import (
	"context"
	"log/slog"

	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

// ItemInAuction returns the item currently on the auction block, or nil
// when no item is up. A stale pointer to an item that left the
// IN_AUCTION state is treated as no item.
func (s *Service) ItemInAuction(ctx context.Context) (*model.Item, error) {
	code, err := store.GetItemInAuction(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, nil
	}
	item, err := store.GetItem(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if item == nil || item.State != model.StateInAuction {
		return nil, nil
	}
	return item, nil
}

// SendItemToAuction puts an item on the auction block. The running bid
// starts at the item's closing amount.
func (s *Service) SendItemToAuction(ctx context.Context, code string) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := store.GetItem(ctx, s.db, code)
	if err != nil {
		return model.ResultError, err
	}
	if item == nil || item.State != model.StateInAuction {
		slog.Error("sendItemToAuction: item not auctionable", "code", code)
		if err := store.SetItemInAuction(ctx, s.db, ""); err != nil {
			return model.ResultError, err
		}
		return model.ResultInvalidAuctionItem, nil
	}

	item.AmountInAuction = item.Amount
	if n, err := store.UpdateItem(ctx, s.db, item); err != nil {
		return model.ResultError, err
	} else if n != 1 {
		return model.ResultError, nil
	}
	if err := store.SetItemInAuction(ctx, s.db, code); err != nil {
		return model.ResultError, err
	}
	slog.Info("sendItemToAuction: item on the block", "code", code, "amount", item.AmountInAuction)
	return model.ResultSuccess, nil
}

// UpdateItemInAuction records a new running bid for the item on the
// block.
func (s *Service) UpdateItemInAuction(ctx context.Context, amountRaw string) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ItemInAuction(ctx)
	if err != nil {
		return model.ResultError, err
	}
	if item == nil {
		slog.Error("updateItemInAuction: no item on the block")
		return model.ResultNoItemToAuction, nil
	}

	amount, ok := model.ParseDecimal(amountRaw)
	if !ok || amount.Sign() < 0 {
		slog.Error("updateItemInAuction: invalid amount", "code", item.Code, "amount", amountRaw)
		return model.ResultInvalidAmount, nil
	}

	item.AmountInAuction = &amount
	if n, err := store.UpdateItem(ctx, s.db, item); err != nil {
		return model.ResultError, err
	} else if n != 1 {
		return model.ResultError, nil
	}
	slog.Info("updateItemInAuction: bid recorded", "code", item.Code, "amount", amount)
	return model.ResultSuccess, nil
}

// SellItemInAuction hammers the item on the block down to a new buyer
// at the running bid and takes it off the block.
func (s *Service) SellItemInAuction(ctx context.Context, buyerRaw string) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ItemInAuction(ctx)
	if err != nil {
		return model.ResultError, err
	}
	if item == nil {
		slog.Error("sellItemInAuction: no item on the block")
		return model.ResultNoItemToAuction, nil
	}

	buyer, ok := model.ParseInt(buyerRaw)
	if !ok || buyer <= 0 {
		slog.Error("sellItemInAuction: invalid buyer", "code", item.Code, "buyer", buyerRaw)
		return model.ResultInvalidBuyer, nil
	}
	if item.AmountInAuction == nil {
		slog.Error("sellItemInAuction: no running bid", "code", item.Code)
		return model.ResultInvalidAmount, nil
	}

	item.State = model.StateSold
	item.Buyer = &buyer
	item.Amount = item.AmountInAuction
	item.AmountInAuction = nil
	if n, err := store.UpdateItem(ctx, s.db, item); err != nil {
		return model.ResultError, err
	} else if n != 1 {
		return model.ResultError, nil
	}
	if err := store.SetItemInAuction(ctx, s.db, ""); err != nil {
		return model.ResultError, err
	}
	slog.Info("sellItemInAuction: hammered down", "code", item.Code, "buyer", buyer, "amount", item.Amount)
	return model.ResultSuccess, nil
}

// SellItemInAuctionNoChange hammers the item on the block down to its
// original buyer at the running bid.
func (s *Service) SellItemInAuctionNoChange(ctx context.Context) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ItemInAuction(ctx)
	if err != nil {
		return model.ResultError, err
	}
	if item == nil {
		slog.Error("sellItemInAuctionNoChange: no item on the block")
		return model.ResultNoItemToAuction, nil
	}
	if item.Buyer == nil {
		slog.Error("sellItemInAuctionNoChange: no buyer on record", "code", item.Code)
		return model.ResultBuyerNotDefined, nil
	}
	if item.AmountInAuction == nil {
		slog.Error("sellItemInAuctionNoChange: no running bid", "code", item.Code)
		return model.ResultInvalidAmount, nil
	}

	item.State = model.StateSold
	item.Amount = item.AmountInAuction
	item.AmountInAuction = nil
	if n, err := store.UpdateItem(ctx, s.db, item); err != nil {
		return model.ResultError, err
	} else if n != 1 {
		return model.ResultError, nil
	}
	if err := store.SetItemInAuction(ctx, s.db, ""); err != nil {
		return model.ResultError, err
	}
	slog.Info("sellItemInAuctionNoChange: hammered down", "code", item.Code, "amount", item.Amount)
	return model.ResultSuccess, nil
}

// ClearAuction takes any current item off the block without selling it.
// The running bid is discarded with the pointer, so the item falls back
// to its closing amount.
func (s *Service) ClearAuction(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := store.GetItemInAuction(ctx, s.db)
	if err != nil {
		return err
	}
	if code != "" {
		item, err := store.GetItem(ctx, s.db, code)
		if err != nil {
			return err
		}
		if item != nil && item.AmountInAuction != nil {
			item.AmountInAuction = nil
			if _, err := store.UpdateItem(ctx, s.db, item); err != nil {
				return err
			}
		}
	}
	return store.SetItemInAuction(ctx, s.db, "")
}
