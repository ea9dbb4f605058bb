package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

// ItemUpdate carries the raw field values of an item update request.
// Empty strings clear optional fields and are rejected for required
// ones; values that fail to parse or fall outside their range abort the
// whole update before anything is written.
type ItemUpdate struct {
	Owner         string
	Title         string
	Author        string
	Medium        string
	State         string
	InitialAmount string
	Charity       string
	Amount        string
	Buyer         string
	Note          string
}

// UpdateItem validates an update against the current item, re-checks the
// resulting item as a whole, and applies it in a single write. A diff
// that changes nothing returns NOTHING_TO_UPDATE.
func (s *Service) UpdateItem(ctx context.Context, code string, u ItemUpdate) (model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := store.GetItem(ctx, s.db, code)
	if err != nil {
		return model.ResultError, err
	}
	if item == nil {
		slog.Error("updateItem: item not found", "code", code)
		return model.ResultItemNotFound, nil
	}

	// Build the field-level diff, checking ranges as we go. The first
	// failing field aborts the update.
	changed := 0
	err = firstErr(
		diffOwner(&changed, item, u.Owner),
		diffString(&changed, "title", &item.Title, u.Title, false),
		diffString(&changed, "author", &item.Author, u.Author, false),
		diffString(&changed, "medium", &item.Medium, u.Medium, false),
		diffState(&changed, item, u.State),
		diffDecimal(&changed, "initialAmount", &item.InitialAmount, u.InitialAmount, decimal.NewFromInt(1)),
		diffCharity(&changed, item, u.Charity),
		diffDecimal(&changed, "amount", &item.Amount, u.Amount, decimal.NewFromInt(1)),
		diffBuyer(&changed, item, u.Buyer),
		diffString(&changed, "note", &item.Note, u.Note, false),
	)
	if err != nil {
		var fieldErr *model.FieldError
		if errors.As(err, &fieldErr) {
			slog.Error("updateItem: invalid field value",
				"code", code, "field", fieldErr.Field, "value", fieldErr.Raw)
			return model.ResultInvalidValue, nil
		}
		return model.ResultError, err
	}

	if res := checkConsistency(item); res != model.ResultSuccess {
		slog.Info("updateItem: item not updated because it is not consistent",
			"code", code, "result", res)
		return res, nil
	}

	if changed == 0 {
		slog.Info("updateItem: nothing to update", "code", code)
		return model.ResultNothingToUpdate, nil
	}

	n, err := store.UpdateItem(ctx, s.db, item)
	if err != nil {
		return model.ResultError, err
	}
	if n != 1 {
		slog.Error("updateItem: item did not update", "code", code)
		return model.ResultError, nil
	}
	slog.Info("updateItem: item updated", "code", code, "fields", changed)
	return model.ResultSuccess, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// checkConsistency validates the cross-field invariants of a resulting
// item before it is committed.
func checkConsistency(item *model.Item) model.Result {
	switch item.State {
	case model.StateOpen, model.StateOnShow:
		// Bare registrations never carry sale terms.
		if item.InitialAmount != nil || item.Charity != nil || item.Amount != nil || item.Buyer != nil {
			return model.ResultInvalidValue
		}
		return model.ResultSuccess
	}
	if item.State == model.StateFinished && item.InitialAmount == nil && item.Charity == nil {
		// Finished unsold or display-only item.
		return model.ResultSuccess
	}

	// Item offered for sale at some point.
	if item.InitialAmount == nil {
		return model.ResultInitialAmountNotDefined
	}
	if item.Charity == nil {
		return model.ResultCharityNotDefined
	}
	if item.State == model.StateOnSale || item.State == model.StateNotSold {
		return model.ResultSuccess
	}

	// Item sold at some point.
	if item.Amount == nil {
		return model.ResultAmountNotDefined
	}
	if item.Buyer == nil {
		return model.ResultBuyerNotDefined
	}
	if item.Amount.LessThan(*item.InitialAmount) {
		return model.ResultAmountTooLow
	}
	return model.ResultSuccess
}

func diffString(changed *int, field string, cur *string, raw string, required bool) error {
	if raw != "" {
		if *cur != raw {
			*cur = raw
			*changed++
		}
		return nil
	}
	if required {
		return &model.FieldError{Field: field, Raw: raw}
	}
	if *cur != "" {
		*cur = ""
		*changed++
	}
	return nil
}

func diffOwner(changed *int, item *model.Item, raw string) error {
	owner, ok := model.ParseInt(raw)
	if !ok || owner < 1 {
		return &model.FieldError{Field: "owner", Raw: raw}
	}
	if item.Owner != owner {
		item.Owner = owner
		*changed++
	}
	return nil
}

func diffState(changed *int, item *model.Item, raw string) error {
	state := model.State(raw)
	if raw == "" || !state.Valid() {
		return &model.FieldError{Field: "state", Raw: raw}
	}
	if item.State != state {
		item.State = state
		*changed++
	}
	return nil
}

func diffDecimal(changed *int, field string, cur **decimal.Decimal, raw string, min decimal.Decimal) error {
	if raw == "" {
		if *cur != nil {
			*cur = nil
			*changed++
		}
		return nil
	}
	value, ok := model.ParseDecimal(raw)
	if !ok || value.LessThan(min) {
		return &model.FieldError{Field: field, Raw: raw}
	}
	if *cur == nil || !(*cur).Equal(value) {
		*cur = &value
		*changed++
	}
	return nil
}

func diffCharity(changed *int, item *model.Item, raw string) error {
	if raw == "" {
		if item.Charity != nil {
			item.Charity = nil
			*changed++
		}
		return nil
	}
	charity, ok := model.ParseInt(raw)
	if !ok || charity < 0 || charity > 100 {
		return &model.FieldError{Field: "charity", Raw: raw}
	}
	if item.Charity == nil || *item.Charity != charity {
		item.Charity = &charity
		*changed++
	}
	return nil
}

func diffBuyer(changed *int, item *model.Item, raw string) error {
	if raw == "" {
		if item.Buyer != nil {
			item.Buyer = nil
			*changed++
		}
		return nil
	}
	buyer, ok := model.ParseInt(raw)
	if !ok || buyer < 1 {
		return &model.FieldError{Field: "buyer", Raw: raw}
	}
	if item.Buyer == nil || *item.Buyer != buyer {
		item.Buyer = &buyer
		*changed++
	}
	return nil
}
