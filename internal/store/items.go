package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jkovac/artshow/internal/model"
)

// ItemFilter is a typed predicate over items. Zero-value fields are not
// part of the filter. Building filters as values instead of query strings
// keeps escaping concerns out of the callers.
type ItemFilter struct {
	Codes        []string
	Owner        *int
	Buyer        *int
	States       []model.State
	ImportNumber *int
	// Author and Title match case-insensitively when set. An empty
	// string is a real value here and matches only blank fields.
	Author *string
	Title  *string
}

func (f ItemFilter) where() (string, []any) {
	var conds []string
	var args []any

	if len(f.Codes) > 0 {
		ph := strings.Repeat("?,", len(f.Codes))
		conds = append(conds, fmt.Sprintf("code IN (%s)", ph[:len(ph)-1]))
		for _, c := range f.Codes {
			args = append(args, c)
		}
	}
	if f.Owner != nil {
		conds = append(conds, "owner = ?")
		args = append(args, *f.Owner)
	}
	if f.Buyer != nil {
		conds = append(conds, "buyer = ?")
		args = append(args, *f.Buyer)
	}
	if len(f.States) > 0 {
		ph := strings.Repeat("?,", len(f.States))
		conds = append(conds, fmt.Sprintf("state IN (%s)", ph[:len(ph)-1]))
		for _, s := range f.States {
			args = append(args, string(s))
		}
	}
	if f.ImportNumber != nil {
		conds = append(conds, "import_number = ?")
		args = append(args, *f.ImportNumber)
	}
	if f.Author != nil {
		conds = append(conds, "lower(author) = lower(?)")
		args = append(args, *f.Author)
	}
	if f.Title != nil {
		conds = append(conds, "lower(title) = lower(?)")
		args = append(args, *f.Title)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const itemColumns = `code, owner, author, title, medium, note, state,
	initial_amount, charity, amount, buyer, amount_in_auction,
	import_number, auction_sort_code, image_mime, created_at, updated_at`

// ListItems returns all items matching the filter in display order.
// Codes sort by their derived sort key, not lexicographically, so "2"
// comes before "10".
func ListItems(ctx context.Context, db *sql.DB, f ItemFilter) ([]model.Item, error) {
	where, args := f.where()
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortKey() < items[j].SortKey()
	})
	return items, nil
}

// GetItem returns an item by code, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, code string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE code = ?`, code)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var author, title, medium, note, initialAmount, amount, amountInAuction, imageMime sql.NullString
	var charity, buyer, importNumber sql.NullInt64
	var state string

	err := row.Scan(&item.Code, &item.Owner, &author, &title, &medium, &note, &state,
		&initialAmount, &charity, &amount, &buyer, &amountInAuction,
		&importNumber, &item.AuctionSortCode, &imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	item.Author = author.String
	item.Title = title.String
	item.Medium = medium.String
	item.Note = note.String
	item.State = model.State(state)
	item.ImageMime = imageMime.String

	if item.InitialAmount, err = nullDecimal(initialAmount); err != nil {
		return nil, fmt.Errorf("item %s: initial_amount: %w", item.Code, err)
	}
	if item.Amount, err = nullDecimal(amount); err != nil {
		return nil, fmt.Errorf("item %s: amount: %w", item.Code, err)
	}
	if item.AmountInAuction, err = nullDecimal(amountInAuction); err != nil {
		return nil, fmt.Errorf("item %s: amount_in_auction: %w", item.Code, err)
	}
	item.Charity = nullInt(charity)
	item.Buyer = nullInt(buyer)
	item.ImportNumber = nullInt(importNumber)

	return item, nil
}

func nullDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func intArg(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func stringArg(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertItem inserts a new item row.
func InsertItem(ctx context.Context, db *sql.DB, item *model.Item) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO items (code, owner, author, title, medium, note, state,
		                    initial_amount, charity, amount, buyer, amount_in_auction,
		                    import_number, auction_sort_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Code, item.Owner,
		stringArg(item.Author), stringArg(item.Title), stringArg(item.Medium), stringArg(item.Note),
		string(item.State),
		decimalArg(item.InitialAmount), intArg(item.Charity),
		decimalArg(item.Amount), intArg(item.Buyer), decimalArg(item.AmountInAuction),
		intArg(item.ImportNumber), item.AuctionSortCode,
	)
	if err != nil {
		return fmt.Errorf("inserting item %s: %w", item.Code, err)
	}
	return nil
}

// UpdateItem writes all mutable fields of a validated item. The caller is
// responsible for having validated the resulting item as a whole; the
// write itself is a single statement, so readers never observe a
// partially applied diff.
func UpdateItem(ctx context.Context, db *sql.DB, item *model.Item) (int64, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE items SET owner = ?, author = ?, title = ?, medium = ?, note = ?,
		        state = ?, initial_amount = ?, charity = ?, amount = ?, buyer = ?,
		        amount_in_auction = ?, import_number = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE code = ?`,
		item.Owner,
		stringArg(item.Author), stringArg(item.Title), stringArg(item.Medium), stringArg(item.Note),
		string(item.State),
		decimalArg(item.InitialAmount), intArg(item.Charity),
		decimalArg(item.Amount), intArg(item.Buyer), decimalArg(item.AmountInAuction),
		intArg(item.ImportNumber),
		item.Code,
	)
	if err != nil {
		return 0, fmt.Errorf("updating item %s: %w", item.Code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("updating item %s: %w", item.Code, err)
	}
	return n, nil
}

// BulkSetState moves all items matching the filter to the given state.
// Returns the number of affected items.
func BulkSetState(ctx context.Context, db *sql.DB, f ItemFilter, state model.State) (int64, error) {
	where, args := f.where()
	args = append([]any{string(state)}, args...)
	res, err := db.ExecContext(ctx,
		`UPDATE items SET state = ?, updated_at = CURRENT_TIMESTAMP`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk updating items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk updating items: %w", err)
	}
	return n, nil
}

// DeleteItems removes items matching the filter. Returns the number of
// deleted items.
func DeleteItems(ctx context.Context, db *sql.DB, f ItemFilter) (int64, error) {
	where, args := f.where()
	res, err := db.ExecContext(ctx, `DELETE FROM items`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting items: %w", err)
	}
	return n, nil
}

// NextItemCode picks the code for a new item. If hint is set and free it
// is used directly. If hint is taken and requireMatch is set, the empty
// string is returned so the caller can report the collision; otherwise a
// fresh sequential numeric code is minted.
func NextItemCode(ctx context.Context, db *sql.DB, hint *int, requireMatch bool) (string, error) {
	if hint != nil {
		code := fmt.Sprintf("%d", *hint)
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM items WHERE code = ?)`, code).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("checking code %s: %w", code, err)
		}
		if !exists {
			return code, nil
		}
		if requireMatch {
			return "", nil
		}
	}

	// Mint the next sequential numeric code. Codes with a letter prefix
	// are reserved for manual assignment and do not participate.
	var maxCode int
	err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(code AS INTEGER)), 0) FROM items
		 WHERE code NOT GLOB '*[^0-9]*'`).Scan(&maxCode)
	if err != nil {
		return "", fmt.Errorf("finding max item code: %w", err)
	}
	return fmt.Sprintf("%d", maxCode+1), nil
}

// SetAuctionSortCodes persists presentation-order codes in one transaction.
func SetAuctionSortCodes(ctx context.Context, db *sql.DB, codes map[string]int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for code, sortCode := range codes {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET auction_sort_code = ? WHERE code = ?`, sortCode, code); err != nil {
			return fmt.Errorf("setting auction sort code for %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing auction sort codes: %w", err)
	}
	return nil
}

// SetItemImage stores the display photo for an item.
func SetItemImage(ctx context.Context, db *sql.DB, code string, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE code = ?`,
		image, mime, code,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's photo and MIME type, or nil if absent.
func GetItemImage(ctx context.Context, db *sql.DB, code string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE code = ?`, code,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
