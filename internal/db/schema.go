package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Amounts are stored as decimal
// strings to avoid float drift; attendee badge numbers are plain
// integers supplied by the registration system.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    user_group    TEXT NOT NULL DEFAULT 'operator' CHECK (user_group IN ('admin', 'operator')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS attendees (
    reg_id INTEGER PRIMARY KEY,
    name   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    code              TEXT PRIMARY KEY,
    owner             INTEGER NOT NULL,
    author            TEXT,
    title             TEXT,
    medium            TEXT,
    note              TEXT,
    state             TEXT NOT NULL CHECK (state IN (
                          'OPEN', 'ON_SHOW', 'ON_SALE', 'NOT_SOLD',
                          'IN_AUCTION', 'SOLD', 'DELIVERED', 'FINISHED')),
    initial_amount    TEXT,
    charity           INTEGER CHECK (charity IS NULL OR (charity >= 0 AND charity <= 100)),
    amount            TEXT,
    buyer             INTEGER,
    amount_in_auction TEXT,
    import_number     INTEGER,
    auction_sort_code INTEGER NOT NULL DEFAULT 0,
    image             BLOB,
    image_mime        TEXT,
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner);
CREATE INDEX IF NOT EXISTS idx_items_state ON items(state);
CREATE UNIQUE INDEX IF NOT EXISTS idx_items_owner_import_number
    ON items(owner, import_number) WHERE import_number IS NOT NULL;

CREATE TABLE IF NOT EXISTS currencies (
    code              TEXT PRIMARY KEY,
    decimal_places    INTEGER NOT NULL,
    amount_in_primary TEXT NOT NULL,
    sort_order        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
