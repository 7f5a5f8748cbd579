package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    item_id     TEXT PRIMARY KEY,
    item_name   TEXT NOT NULL CHECK (item_name <> ''),
    description TEXT NOT NULL DEFAULT '',
    price       REAL NOT NULL CHECK (price >= 0),
    quantity    INTEGER NOT NULL CHECK (quantity >= 0),
    category    TEXT NOT NULL CHECK (category IN ('ELECTRONICS', 'BOOKS', 'CLOTHING', 'HOME', 'SPORTS',
                                                  'TOYS', 'BEAUTY', 'AUTOMOTIVE', 'COLLECTIBLES', 'OTHER')),
    condition   TEXT NOT NULL CHECK (condition IN ('NEW', 'LIKE_NEW', 'USED', 'REFURBISHED')),
    image       TEXT NOT NULL DEFAULT '',
    available   INTEGER NOT NULL CHECK (available = (quantity >= 1)),
    date_listed TEXT NOT NULL,
    featured    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);
CREATE INDEX IF NOT EXISTS idx_items_featured ON items(featured) WHERE featured = 1;

CREATE TABLE IF NOT EXISTS item_tags (
    item_id  TEXT NOT NULL REFERENCES items(item_id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    tag      TEXT NOT NULL,
    PRIMARY KEY (item_id, position)
);

CREATE TABLE IF NOT EXISTS item_images (
    item_id TEXT PRIMARY KEY REFERENCES items(item_id) ON DELETE CASCADE,
    data    BLOB NOT NULL,
    mime    TEXT NOT NULL,
    width   INTEGER NOT NULL,
    height  INTEGER NOT NULL
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
