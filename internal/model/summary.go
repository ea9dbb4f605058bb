package model

import "github.com/shopspring/decimal"

// ActorSummary accumulates the amounts owed to and from the show for one
// actor (owner or buyer). Summaries are recomputed on every settlement
// query and never persisted.
type ActorSummary struct {
	Badge int `json:"badge"`
	// PendingPayout is the net sale amount the show still owes the actor
	// for their delivered items.
	PendingPayout decimal.Decimal `json:"pending_payout"`
	// AmountDue is the gross amount the actor still owes the show for
	// items they bought.
	AmountDue decimal.Decimal `json:"amount_due"`
	ItemCount int             `json:"item_count"`
}

// AddPayout registers an owner's item awaiting payout.
func (a *ActorSummary) AddPayout(netSale decimal.Decimal) {
	a.PendingPayout = a.PendingPayout.Add(netSale)
	a.ItemCount++
}

// AddDue registers a buyer's item awaiting payment.
func (a *ActorSummary) AddDue(amount decimal.Decimal) {
	a.AmountDue = a.AmountDue.Add(amount)
	a.ItemCount++
}

// DrawerSummary is the cash-drawer view over the whole ledger.
type DrawerSummary struct {
	TotalGrossAmount      decimal.Decimal `json:"total_gross_amount"`
	TotalNetCharityAmount decimal.Decimal `json:"total_net_charity_amount"`
	TotalNetAvailable     decimal.Decimal `json:"total_net_available"`
	Buyers                []ActorSummary  `json:"buyers_to_be_cleared"`
	Owners                []ActorSummary  `json:"owners_to_be_cleared"`
	// Pending holds items in states not yet ready to settle.
	Pending []Item `json:"pending_items"`
}

// BadgeSummary is the pre-settlement view for one badge: what the actor
// gets back, what they bought, and the resulting balance.
type BadgeSummary struct {
	UnsoldItems        []Item          `json:"unsold_items"`
	BoughtItems        []Item          `json:"bought_items"`
	DeliveredSoldItems []Item          `json:"delivered_sold_items"`
	PendingSoldItems   []Item          `json:"pending_sold_items"`
	GrossSaleAmount    decimal.Decimal `json:"gross_sale_amount"`
	CharityDeduction   decimal.Decimal `json:"charity_deduction"`
	BoughtItemsAmount  decimal.Decimal `json:"bought_items_amount"`
	TotalDueAmount     decimal.Decimal `json:"total_due_amount"`
}
