package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/oglasnik/internal/model"
)

// Photo is a stored listing photo.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// SetPhoto stores the photo of an item and points the item's image
// reference at ref, in one transaction.
func (c *Catalog) SetPhoto(ctx context.Context, id string, photo Photo, ref string) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE items SET image = ? WHERE item_id = ?`, ref, id)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO item_images (item_id, data, mime, width, height) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (item_id) DO UPDATE SET
		     data = excluded.data, mime = excluded.mime, width = excluded.width, height = excluded.height`,
		id, photo.Data, photo.MIME, photo.Width, photo.Height,
	)
	if err != nil {
		return fmt.Errorf("storing item photo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item photo: %w", err)
	}
	return nil
}

// GetPhoto returns the stored photo of an item, or nil if there is none.
func (c *Catalog) GetPhoto(ctx context.Context, id string) (*Photo, error) {
	photo := &Photo{}
	err := c.DB.QueryRowContext(ctx,
		`SELECT data, mime, width, height FROM item_images WHERE item_id = ?`, id,
	).Scan(&photo.Data, &photo.MIME, &photo.Width, &photo.Height)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item photo: %w", err)
	}
	return photo, nil
}
