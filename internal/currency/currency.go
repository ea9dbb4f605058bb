// Package currency supplies minor-unit rounding in the show's primary
// currency and display-only conversion into the other configured
// currencies. Amounts on the ledger are always stored in the primary
// currency; conversions are attached views, never written back.
package currency

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/store"
)

// Currency describes one configured currency. AmountInPrimary is the
// value of one unit of this currency expressed in the primary currency.
type Currency struct {
	Code            string          `json:"code"`
	DecimalPlaces   int             `json:"decimal_places"`
	AmountInPrimary decimal.Decimal `json:"amount_in_primary"`
}

// Amount is a converted amount in one currency.
type Amount struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// Converter converts and rounds amounts. The primary currency is always
// at index 0 of the configured list.
type Converter struct {
	currencies []Currency
}

// Load reads the currency configuration from the database.
func Load(ctx context.Context, db *sql.DB) (*Converter, error) {
	rows, err := store.ListCurrencies(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no currencies configured")
	}

	c := &Converter{}
	for _, r := range rows {
		c.currencies = append(c.currencies, Currency{
			Code:            r.Code,
			DecimalPlaces:   r.DecimalPlaces,
			AmountInPrimary: r.AmountInPrimary,
		})
	}
	return c, nil
}

// New creates a converter from an explicit currency list (primary first).
// Used by tests and callers that do not load from the database.
func New(currencies ...Currency) *Converter {
	return &Converter{currencies: currencies}
}

// Primary returns the primary currency.
func (c *Converter) Primary() Currency {
	return c.currencies[0]
}

// RoundInPrimary rounds half-up at the primary currency's minor-unit
// resolution. shopspring's Round is half-away-from-zero, which equals
// half-up for the non-negative amounts the ledger carries.
func (c *Converter) RoundInPrimary(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(int32(c.Primary().DecimalPlaces))
}

// Convert returns the amount expressed in every configured currency,
// primary first, each rounded at that currency's minor unit.
func (c *Converter) Convert(amount decimal.Decimal) []Amount {
	out := make([]Amount, 0, len(c.currencies))
	for _, cur := range c.currencies {
		if cur.AmountInPrimary.IsZero() {
			out = append(out, Amount{Currency: cur.Code, Amount: decimal.Zero})
			continue
		}
		converted := amount.Div(cur.AmountInPrimary).Round(int32(cur.DecimalPlaces))
		out = append(out, Amount{Currency: cur.Code, Amount: converted})
	}
	return out
}
