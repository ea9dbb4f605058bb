// Package ledger owns the item lifecycle: registration, field updates,
// sale closing, live-auction bookkeeping, and the predicate queries the
// rest of the system is built on. All mutations go through here so the
// cross-field invariants hold no matter which caller writes.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/currency"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

// Service is the item ledger. Mutating operations are serialized by a
// single writer lock; reads go straight to the database.
type Service struct {
	db   *sql.DB
	conv *currency.Converter

	mu sync.Mutex
}

// New creates a ledger service.
func New(db *sql.DB, conv *currency.Converter) *Service {
	return &Service{db: db, conv: conv}
}

// NewItem carries the raw field values for item registration. Empty
// strings mean the field was not supplied.
type NewItem struct {
	Owner         string
	Title         string
	Author        string
	Medium        string
	Note          string
	InitialAmount string
	Charity       string
	ImportNumber  string
	// RequestNumberMatch asks for the item code to equal ImportNumber;
	// registration fails instead of renumbering when the code is taken.
	RequestNumberMatch bool
}

// EvaluateState derives the initial state from the presence of sale
// terms: both initial amount and charity present means ON_SALE,
// otherwise the item is display-only.
func EvaluateState(hasInitialAmount, hasCharity bool) model.State {
	if hasInitialAmount && hasCharity {
		return model.StateOnSale
	}
	return model.StateOnShow
}

// AddItem registers a new item and returns its assigned code. When an
// import number is supplied and the matching code is taken, the result
// is SUCCESS_BUT_IMPORT_RENUMBERED (or ERROR if an exact match was
// requested).
func (s *Service) AddItem(ctx context.Context, n NewItem) (string, model.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := EvaluateState(n.InitialAmount != "", n.Charity != "")

	owner, ok := model.ParseInt(n.Owner)
	if !ok || owner < 1 {
		slog.Error("addItem: owner is not a positive integer", "owner", n.Owner)
		return "", model.ResultInputError, nil
	}

	var importNumber *int
	if n.ImportNumber != "" {
		num, ok := model.ParseInt(n.ImportNumber)
		if !ok {
			slog.Error("addItem: import number is not an integer", "number", n.ImportNumber)
			return "", model.ResultInputError, nil
		}
		importNumber = &num
	}

	var initialAmount *decimal.Decimal
	var charityPct *int
	if state == model.StateOnSale {
		amount, ok := model.ParseDecimal(n.InitialAmount)
		if !ok || amount.IsNegative() {
			slog.Error("addItem: initial amount is not a non-negative number", "amount", n.InitialAmount)
			return "", model.ResultInputError, nil
		}
		initialAmount = &amount

		charity, ok := model.ParseInt(n.Charity)
		if !ok || charity < 0 || charity > 100 {
			slog.Error("addItem: charity is not an integer in [0, 100]", "charity", n.Charity)
			return "", model.ResultInputError, nil
		}
		charityPct = &charity
	}

	// Duplicate detection: the (owner, import number) pair and the
	// (owner, author, title) triple must both be free.
	if importNumber != nil {
		existing, err := s.findByOwnerAndNumber(ctx, owner, *importNumber)
		if err != nil {
			return "", model.ResultError, err
		}
		if existing != nil {
			slog.Error("addItem: import number already used for owner",
				"owner", owner, "number", *importNumber)
			return "", model.ResultDuplicateImportNumber, nil
		}
	}
	similar, err := s.findSimilar(ctx, owner, n.Author, n.Title)
	if err != nil {
		return "", model.ResultError, err
	}
	if similar != nil {
		slog.Error("addItem: a similar item already exists",
			"owner", owner, "author", n.Author, "title", n.Title)
		return "", model.ResultDuplicateItem, nil
	}

	code, err := store.NextItemCode(ctx, s.db, importNumber, importNumber != nil && n.RequestNumberMatch)
	if err != nil {
		return "", model.ResultError, err
	}
	if code == "" {
		slog.Error("addItem: import number cannot be used as code as requested",
			"number", *importNumber)
		return "", model.ResultError, nil
	}

	item := &model.Item{
		Code:          code,
		Owner:         owner,
		Author:        n.Author,
		Title:         n.Title,
		Medium:        n.Medium,
		Note:          n.Note,
		State:         state,
		InitialAmount: initialAmount,
		Charity:       charityPct,
		ImportNumber:  importNumber,
	}
	if err := store.InsertItem(ctx, s.db, item); err != nil {
		return "", model.ResultError, err
	}

	slog.Info("addItem: item registered", "code", code, "owner", owner, "state", state)

	if importNumber != nil && code != fmt.Sprintf("%d", *importNumber) {
		return code, model.ResultSuccessRenumbered, nil
	}
	return code, model.ResultSuccess, nil
}

// findByOwnerAndNumber returns the item holding (owner, importNumber),
// or nil.
func (s *Service) findByOwnerAndNumber(ctx context.Context, owner, importNumber int) (*model.Item, error) {
	items, err := store.ListItems(ctx, s.db, store.ItemFilter{
		Owner:        &owner,
		ImportNumber: &importNumber,
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// findSimilar returns an item of the same owner with matching author and
// title, or nil. Used to block accidental duplicates during manual entry
// and import. Blank author and title only match other blank items, never
// the owner's whole inventory.
func (s *Service) findSimilar(ctx context.Context, owner int, author, title string) (*model.Item, error) {
	items, err := store.ListItems(ctx, s.db, store.ItemFilter{
		Owner:  &owner,
		Author: &author,
		Title:  &title,
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// FindByOwnerAndNumber exposes the (owner, import number) lookup for the
// import pipeline's update-instead-of-create fallback.
func (s *Service) FindByOwnerAndNumber(ctx context.Context, owner, importNumber int) (*model.Item, error) {
	return s.findByOwnerAndNumber(ctx, owner, importNumber)
}

// Item returns one item by code, or nil if it does not exist.
func (s *Service) Item(ctx context.Context, code string) (*model.Item, error) {
	if code == "" {
		return nil, nil
	}
	return store.GetItem(ctx, s.db, code)
}

// Items returns the items with the given codes, ordered by code.
func (s *Service) Items(ctx context.Context, codes []string) ([]model.Item, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	return store.ListItems(ctx, s.db, store.ItemFilter{Codes: codes})
}

// AllItems returns every item on the ledger.
func (s *Service) AllItems(ctx context.Context) ([]model.Item, error) {
	return store.ListItems(ctx, s.db, store.ItemFilter{})
}

// ClosableItems returns all items currently accepting a closing price.
func (s *Service) ClosableItems(ctx context.Context) ([]model.Item, error) {
	return store.ListItems(ctx, s.db, store.ItemFilter{
		States: []model.State{model.StateOnSale},
	})
}

// DeliverableItems returns all items ready for the hand-off desk.
func (s *Service) DeliverableItems(ctx context.Context) ([]model.Item, error) {
	items, err := store.ListItems(ctx, s.db, store.ItemFilter{})
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, it := range items {
		if it.Deliverable() {
			out = append(out, it)
		}
	}
	return out, nil
}

// Query returns the items matching a typed filter.
func (s *Service) Query(ctx context.Context, f store.ItemFilter) ([]model.Item, error) {
	return store.ListItems(ctx, s.db, f)
}

// BulkSetState moves all matching items to the given state and returns
// the number of items changed.
func (s *Service) BulkSetState(ctx context.Context, f store.ItemFilter, state model.State) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.BulkSetState(ctx, s.db, f, state)
}

// DeleteItems removes the items with the given codes and returns the
// number of deleted items.
func (s *Service) DeleteItems(ctx context.Context, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.DeleteItems(ctx, s.db, store.ItemFilter{Codes: codes})
}

// ItemImage returns an item's display photo.
func (s *Service) ItemImage(ctx context.Context, code string) ([]byte, string, error) {
	return store.GetItemImage(ctx, s.db, code)
}
