// Package settle implements show settlement: badge reconciliation and
// the cash-drawer accounting views behind it.
package settle

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/ledger"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/store"
)

// Service computes settlement summaries and settles badges against the
// ledger.
type Service struct {
	ledger *ledger.Service
}

func New(l *ledger.Service) *Service {
	return &Service{ledger: l}
}

// ReconciliateBadge settles every open obligation of one badge. The
// order matters: the badge's delivered items finish first, then the
// items the badge bought are handed over, then the badge's unsold
// items are returned. Running it again for a settled badge is a no-op.
func (s *Service) ReconciliateBadge(ctx context.Context, badgeRaw string) (model.Result, error) {
	badge, ok := model.ParseInt(badgeRaw)
	if !ok {
		slog.Error("reconciliateBadge: invalid badge", "badge", badgeRaw)
		return model.ResultInvalidBadge, nil
	}

	if _, err := s.ledger.BulkSetState(ctx,
		store.ItemFilter{Owner: &badge, States: []model.State{model.StateDelivered}},
		model.StateFinished); err != nil {
		return model.ResultError, err
	}
	if _, err := s.ledger.BulkSetState(ctx,
		store.ItemFilter{Buyer: &badge, States: []model.State{model.StateSold}},
		model.StateDelivered); err != nil {
		return model.ResultError, err
	}
	if _, err := s.ledger.BulkSetState(ctx,
		store.ItemFilter{Owner: &badge, States: []model.State{model.StateOnShow, model.StateNotSold}},
		model.StateFinished); err != nil {
		return model.ResultError, err
	}

	slog.Info("reconciliateBadge: badge settled", "badge", badge)
	return model.ResultSuccess, nil
}

// BadgeSummary builds the pre-settlement view for one badge.
func (s *Service) BadgeSummary(ctx context.Context, badgeRaw string) (*model.BadgeSummary, model.Result, error) {
	badge, ok := model.ParseInt(badgeRaw)
	if !ok {
		slog.Error("badgeSummary: invalid badge", "badge", badgeRaw)
		return nil, model.ResultInvalidBadge, nil
	}

	unsold, err := s.ledger.Query(ctx, store.ItemFilter{
		Owner: &badge, States: []model.State{model.StateOnShow, model.StateNotSold}})
	if err != nil {
		return nil, model.ResultError, err
	}

	bought, err := s.ledger.Query(ctx, store.ItemFilter{
		Buyer: &badge, States: []model.State{model.StateSold}})
	if err != nil {
		return nil, model.ResultError, err
	}
	boughtAmount := decimal.Zero
	for _, item := range bought {
		if item.Amount != nil {
			boughtAmount = boughtAmount.Add(*item.Amount)
		}
	}

	delivered, err := s.ledger.Query(ctx, store.ItemFilter{
		Owner: &badge, States: []model.State{model.StateDelivered}})
	if err != nil {
		return nil, model.ResultError, err
	}
	netSale := decimal.Zero
	charity := decimal.Zero
	for i := range delivered {
		net, ch := s.ledger.ItemNetAmount(&delivered[i])
		netSale = netSale.Add(net)
		charity = charity.Add(ch)
	}

	pending, err := s.ledger.Query(ctx, store.ItemFilter{
		Owner: &badge, States: []model.State{model.StateSold}})
	if err != nil {
		return nil, model.ResultError, err
	}

	return &model.BadgeSummary{
		UnsoldItems:        unsold,
		BoughtItems:        bought,
		DeliveredSoldItems: delivered,
		PendingSoldItems:   pending,
		GrossSaleAmount:    netSale.Add(charity),
		CharityDeduction:   charity,
		BoughtItemsAmount:  boughtAmount,
		TotalDueAmount:     boughtAmount.Sub(netSale),
	}, model.ResultSuccess, nil
}

func actorFor(badge int, actors map[int]*model.ActorSummary) *model.ActorSummary {
	a, ok := actors[badge]
	if !ok {
		a = &model.ActorSummary{Badge: badge}
		actors[badge] = a
	}
	return a
}

func sortedActors(actors map[int]*model.ActorSummary) []model.ActorSummary {
	out := make([]model.ActorSummary, 0, len(actors))
	for _, a := range actors {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Badge < out[j].Badge })
	return out
}

// DrawerSummary walks the whole ledger and accounts every item to the
// drawer: finished items contribute their charity cut, delivered items
// their full price, sold items show up as amounts due from buyers, and
// anything not yet settleable is listed as pending.
func (s *Service) DrawerSummary(ctx context.Context) (*model.DrawerSummary, error) {
	items, err := s.ledger.AllItems(ctx)
	if err != nil {
		return nil, err
	}

	gross := decimal.Zero
	netCharity := decimal.Zero
	buyers := make(map[int]*model.ActorSummary)
	owners := make(map[int]*model.ActorSummary)
	var pending []model.Item

	for i := range items {
		item := &items[i]
		switch item.State {
		case model.StateFinished:
			_, charity := s.ledger.ItemNetAmount(item)
			netCharity = netCharity.Add(charity)
			gross = gross.Add(charity)

		case model.StateDelivered:
			net, charity := s.ledger.ItemNetAmount(item)
			netCharity = netCharity.Add(charity)
			gross = gross.Add(net).Add(charity)
			actorFor(item.Owner, owners).AddPayout(net)

		case model.StateSold:
			if item.Buyer != nil && item.Amount != nil {
				actorFor(*item.Buyer, buyers).AddDue(*item.Amount)
			}

		case model.StateOnShow, model.StateNotSold:
			actorFor(item.Owner, owners).AddPayout(decimal.Zero)

		default:
			pending = append(pending, *item)
		}
	}

	return &model.DrawerSummary{
		TotalGrossAmount:      gross,
		TotalNetCharityAmount: netCharity,
		TotalNetAvailable:     gross.Sub(netCharity),
		Buyers:                sortedActors(buyers),
		Owners:                sortedActors(owners),
		Pending:               pending,
	}, nil
}

// PotentialCharityAmount totals the charity cut over every item that is
// sold or expected to sell, valuing auctioned items at their running
// bid.
func (s *Service) PotentialCharityAmount(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.ledger.PotentiallySoldItems(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range items {
		_, charity := s.ledger.ItemPotentialNetAmount(&items[i])
		total = total.Add(charity)
	}
	return total, nil
}
