package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Setting keys.
const (
	keyJWTSecret     = "jwt_secret"
	keyItemInAuction = "item_in_auction"
)

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		keyJWTSecret, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}

	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, keyJWTSecret,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt secret: %w", err)
	}

	return secret, nil
}

// GetItemInAuction returns the code of the item currently presented in
// the live auction, or "" if none.
func GetItemInAuction(ctx context.Context, db *sql.DB) (string, error) {
	var code string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, keyItemInAuction,
	).Scan(&code)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying item in auction: %w", err)
	}
	return code, nil
}

// SetItemInAuction records which item is currently presented in the live
// auction. An empty code clears the pointer.
func SetItemInAuction(ctx context.Context, db *sql.DB, code string) error {
	if code == "" {
		_, err := db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, keyItemInAuction)
		if err != nil {
			return fmt.Errorf("clearing item in auction: %w", err)
		}
		return nil
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		keyItemInAuction, code,
	)
	if err != nil {
		return fmt.Errorf("setting item in auction: %w", err)
	}
	return nil
}
