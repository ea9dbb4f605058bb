package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the monetary lifecycle state of a consigned item.
type State string

// Item states, in rough lifecycle order.
const (
	StateOpen      State = "OPEN"       // registered, no sale terms yet
	StateOnShow    State = "ON_SHOW"    // display only, not for sale
	StateOnSale    State = "ON_SALE"    // offered, accepting a closing price
	StateNotSold   State = "NOT_SOLD"   // closed without a sale
	StateInAuction State = "IN_AUCTION" // queued or active in the live auction
	StateSold      State = "SOLD"       // price and buyer fixed, pending hand-off
	StateDelivered State = "DELIVERED"  // handed to the buyer, pending owner payout
	StateFinished  State = "FINISHED"   // fully settled, terminal
)

// AmountSensitive reports whether monetary fields of this state have
// already been committed and must not be overwritten by a re-import.
func (s State) AmountSensitive() bool {
	switch s {
	case StateOnSale, StateNotSold, StateInAuction, StateSold, StateDelivered, StateFinished:
		return true
	}
	return false
}

// Valid reports whether s is a known item state.
func (s State) Valid() bool {
	switch s {
	case StateOpen, StateOnShow, StateOnSale, StateNotSold,
		StateInAuction, StateSold, StateDelivered, StateFinished:
		return true
	}
	return false
}

// Item is a consignment unit tracked from registration through sale or
// auction to settlement. Owner and Buyer are attendee badge numbers.
type Item struct {
	Code            string           `json:"code"`
	Owner           int              `json:"owner"`
	Author          string           `json:"author,omitempty"`
	Title           string           `json:"title,omitempty"`
	Medium          string           `json:"medium,omitempty"`
	Note            string           `json:"note,omitempty"`
	State           State            `json:"state"`
	InitialAmount   *decimal.Decimal `json:"initial_amount,omitempty"`
	Charity         *int             `json:"charity,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Buyer           *int             `json:"buyer,omitempty"`
	AmountInAuction *decimal.Decimal `json:"amount_in_auction,omitempty"`
	ImportNumber    *int             `json:"import_number,omitempty"`
	AuctionSortCode int              `json:"auction_sort_code,omitempty"`
	ImageMime       string           `json:"image_mime,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// SortKey derives the display ordering key from the item code. Codes that
// start with a letter sort by (letter, numeric suffix); purely numeric
// codes sort by value. The key is always recomputed, never stored.
func (it Item) SortKey() int {
	code := it.Code
	if code == "" {
		return 0
	}
	c := code[0]
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return int(c)*10000 + atoiOrZero(code[1:])
	}
	return atoiOrZero(code)
}

func atoiOrZero(s string) int {
	n, ok := ParseInt(s)
	if !ok {
		return 0
	}
	return n
}

// Closable reports whether the item can accept a closing price.
func (it Item) Closable() bool {
	return it.State == StateOnSale
}

// Deliverable reports whether the item can be handed over at the hand-off
// desk (bought items and unsold inventory going back to the owner).
func (it Item) Deliverable() bool {
	switch it.State {
	case StateSold, StateNotSold, StateOnShow:
		return true
	}
	return false
}
