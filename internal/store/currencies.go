package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyRow is a configured currency. sort_order 0 is the primary
// currency; the rest are display-only conversions.
type CurrencyRow struct {
	Code            string
	DecimalPlaces   int
	AmountInPrimary decimal.Decimal
	SortOrder       int
}

// ListCurrencies returns all configured currencies, primary first.
func ListCurrencies(ctx context.Context, db *sql.DB) ([]CurrencyRow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT code, decimal_places, amount_in_primary, sort_order
		 FROM currencies ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("listing currencies: %w", err)
	}
	defer rows.Close()

	var currencies []CurrencyRow
	for rows.Next() {
		var c CurrencyRow
		var amount string
		if err := rows.Scan(&c.Code, &c.DecimalPlaces, &amount, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning currency: %w", err)
		}
		if c.AmountInPrimary, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("currency %s: amount_in_primary: %w", c.Code, err)
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

// UpsertCurrency adds or replaces a currency definition.
func UpsertCurrency(ctx context.Context, db *sql.DB, c CurrencyRow) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO currencies (code, decimal_places, amount_in_primary, sort_order)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (code) DO UPDATE SET
		     decimal_places = excluded.decimal_places,
		     amount_in_primary = excluded.amount_in_primary,
		     sort_order = excluded.sort_order`,
		c.Code, c.DecimalPlaces, c.AmountInPrimary.String(), c.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("upserting currency %s: %w", c.Code, err)
	}
	return nil
}
