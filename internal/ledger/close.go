package ledger

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/imaging"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

// validateSaleInput checks a closing request against the current item.
func validateSaleInput(code string, item *model.Item, amountRaw, buyerRaw string) (decimal.Decimal, int, model.Result) {
	var zero decimal.Decimal

	if code == "" {
		slog.Error("validateSaleInput: invalid item code")
		return zero, 0, model.ResultInvalidItemCode
	}
	if item == nil {
		slog.Error("validateSaleInput: item not found", "code", code)
		return zero, 0, model.ResultItemNotFound
	}
	if !item.Closable() {
		slog.Error("validateSaleInput: item is not closable", "code", code, "state", item.State)
		return zero, 0, model.ResultItemNotClosable
	}
	buyer, ok := model.ParseInt(buyerRaw)
	if !ok || buyer <= 0 {
		slog.Error("validateSaleInput: buyer missing or invalid", "code", code, "buyer", buyerRaw)
		return zero, 0, model.ResultInvalidBuyer
	}
	amount, ok := model.ParseDecimal(amountRaw)
	if !ok {
		slog.Error("validateSaleInput: amount missing or invalid", "code", code, "amount", amountRaw)
		return zero, 0, model.ResultInvalidAmount
	}
	if item.InitialAmount != nil && amount.LessThan(*item.InitialAmount) {
		slog.Error("validateSaleInput: amount below initial amount",
			"code", code, "amount", amountRaw, "initial", item.InitialAmount)
		return zero, 0, model.ResultAmountTooLow
	}
	return amount, buyer, model.ResultSuccess
}

// CloseItemAsNotSold closes an offered item without a sale, clearing any
// amount and buyer.
func (s *Service) CloseItemAsNotSold(ctx context.Context, code string) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := store.GetItem(ctx, s.db, code)
	if err != nil {
		return model.ResultError, err
	}
	if item == nil {
		slog.Error("closeItemAsNotSold: item not found", "code", code)
		return model.ResultItemNotFound, nil
	}
	if !item.Closable() {
		slog.Error("closeItemAsNotSold: item is not closable", "code", code, "state", item.State)
		return model.ResultItemNotClosable, nil
	}

	item.State = model.StateNotSold
	item.Amount = nil
	item.Buyer = nil
	n, err := store.UpdateItem(ctx, s.db, item)
	if err != nil {
		return model.ResultError, err
	}
	if n != 1 {
		slog.Error("closeItemAsNotSold: item did not update", "code", code)
		return model.ResultError, nil
	}
	slog.Info("closeItemAsNotSold: item closed unsold", "code", code)
	return model.ResultSuccess, nil
}

// CloseItemAsSold fixes the price and buyer of an offered item.
func (s *Service) CloseItemAsSold(ctx context.Context, code, amountRaw, buyerRaw string) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := store.GetItem(ctx, s.db, code)
	if err != nil {
		return model.ResultError, err
	}

	amount, buyer, res := validateSaleInput(code, item, amountRaw, buyerRaw)
	if res != model.ResultSuccess {
		return res, nil
	}

	item.State = model.StateSold
	item.Amount = &amount
	item.Buyer = &buyer
	n, err := store.UpdateItem(ctx, s.db, item)
	if err != nil {
		return model.ResultError, err
	}
	if n != 1 {
		slog.Error("closeItemAsSold: item did not update", "code", code)
		return model.ResultError, nil
	}
	slog.Info("closeItemAsSold: item sold", "code", code, "buyer", buyer, "amount", amount)
	return model.ResultSuccess, nil
}

// CloseItemIntoAuction closes an offered item into the live auction
// queue, optionally attaching a display photo. The photo is validated
// and stored before the state changes; a bad photo aborts the whole
// operation.
func (s *Service) CloseItemIntoAuction(ctx context.Context, code, amountRaw, buyerRaw string, photo []byte) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var processed *imaging.Result
	if photo != nil {
		var err error
		processed, err = imaging.Process(bytes.NewReader(photo))
		if err != nil {
			slog.Error("closeItemIntoAuction: unsupported photo", "code", code, "error", err)
			return model.ResultUnsupportedImageFormat, nil
		}
	}

	item, err := store.GetItem(ctx, s.db, code)
	if err != nil {
		return model.ResultError, err
	}

	amount, buyer, res := validateSaleInput(code, item, amountRaw, buyerRaw)
	if res != model.ResultSuccess {
		return res, nil
	}

	if processed != nil {
		if err := store.SetItemImage(ctx, s.db, code, processed.Data, processed.MIME); err != nil {
			slog.Error("closeItemIntoAuction: storing photo failed", "code", code, "error", err)
			return model.ResultError, err
		}
	}

	item.State = model.StateInAuction
	item.Amount = &amount
	item.Buyer = &buyer
	n, err := store.UpdateItem(ctx, s.db, item)
	if err != nil {
		return model.ResultError, err
	}
	if n != 1 {
		slog.Error("closeItemIntoAuction: item did not update", "code", code)
		return model.ResultError, nil
	}
	slog.Info("closeItemIntoAuction: item queued for auction",
		"code", code, "buyer", buyer, "amount", amount)
	return model.ResultSuccess, nil
}
