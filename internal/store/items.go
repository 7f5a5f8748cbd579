package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/oglasnik/internal/model"
)

// builder renders SQLite-style "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var itemColumns = []string{
	"item_id", "item_name", "description", "price", "quantity", "category",
	"condition", "image", "available", "date_listed", "featured",
}

// Catalog is the SQLite-backed item catalog.
type Catalog struct {
	DB *sql.DB
}

// NewCatalog returns a catalog over db. The schema must already exist.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{DB: db}
}

// FindByID returns an item by ID, or nil if it does not exist.
func (c *Catalog) FindByID(ctx context.Context, id string) (*model.Item, error) {
	items, err := c.query(ctx, "item", selectItems().Where(sq.Eq{"item_id": id}))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// FindAll returns every item.
func (c *Catalog) FindAll(ctx context.Context) ([]model.Item, error) {
	return c.query(ctx, "all items", selectItems())
}

// FindByCategory returns all items in category.
func (c *Catalog) FindByCategory(ctx context.Context, category model.Category) ([]model.Item, error) {
	return c.query(ctx, "items by category", selectItems().Where(sq.Eq{"category": string(category)}))
}

// FindFeatured returns all featured items.
func (c *Catalog) FindFeatured(ctx context.Context) ([]model.Item, error) {
	return c.query(ctx, "featured items", selectItems().Where(sq.Eq{"featured": true}))
}

// FindRelated returns the items in category other than excludeID.
func (c *Catalog) FindRelated(ctx context.Context, excludeID string, category model.Category) ([]model.Item, error) {
	return c.query(ctx, "related items", selectItems().Where(sq.And{
		sq.Eq{"category": string(category)},
		sq.NotEq{"item_id": excludeID},
	}))
}

// FindByNameContaining returns items whose name contains text, ignoring case.
func (c *Catalog) FindByNameContaining(ctx context.Context, text string) ([]model.Item, error) {
	return c.query(ctx, "items by name", selectItems().Where(nameContains(text)))
}

// Find returns the items matching every bound set in q.
func (c *Catalog) Find(ctx context.Context, q Query) ([]model.Item, error) {
	b := selectItems()
	if where := q.predicate(); len(where) > 0 {
		b = b.Where(where)
	}
	return c.query(ctx, "filtered items", b)
}

// Save inserts item or replaces every mutable column of an existing row.
// The listing date of an existing row is never overwritten, and the
// availability column is always derived from quantity.
func (c *Catalog) Save(ctx context.Context, item *model.Item) error {
	if err := checkEnums(item); err != nil {
		return err
	}

	upsert, args, err := builder.Insert("items").
		Columns(itemColumns...).
		Values(
			item.ID, item.Name, item.Description, item.Price, item.Quantity,
			string(item.Category), string(item.Condition), item.Image,
			item.Quantity >= 1, item.DateListed.Format(model.DateLayout), item.Featured,
		).
		Suffix(`ON CONFLICT (item_id) DO UPDATE SET
			item_name = excluded.item_name,
			description = excluded.description,
			price = excluded.price,
			quantity = excluded.quantity,
			category = excluded.category,
			condition = excluded.condition,
			image = excluded.image,
			available = excluded.available,
			featured = excluded.featured`).
		ToSql()
	if err != nil {
		return fmt.Errorf("building item upsert: %w", err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsert, args...); err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	if err := replaceTags(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item: %w", err)
	}
	return nil
}

// Update replaces every mutable column of an existing item. Unlike Save it
// never inserts, so an item deleted concurrently stays deleted and the
// call fails with model.ErrNotFound.
func (c *Catalog) Update(ctx context.Context, item *model.Item) error {
	if err := checkEnums(item); err != nil {
		return err
	}

	query, args, err := builder.Update("items").
		SetMap(map[string]any{
			"item_name":   item.Name,
			"description": item.Description,
			"price":       item.Price,
			"quantity":    item.Quantity,
			"category":    string(item.Category),
			"condition":   string(item.Condition),
			"image":       item.Image,
			"available":   item.Quantity >= 1,
			"featured":    item.Featured,
		}).
		Where(sq.Eq{"item_id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building item update: %w", err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, item.ID)
	}

	if err := replaceTags(ctx, tx, item); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item: %w", err)
	}
	return nil
}

func checkEnums(item *model.Item) error {
	if !item.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", model.ErrInvalidArgument, item.Category)
	}
	if !item.Condition.Valid() {
		return fmt.Errorf("%w: unknown condition %q", model.ErrInvalidArgument, item.Condition)
	}
	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, item *model.Item) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, item.ID); err != nil {
		return fmt.Errorf("clearing item tags: %w", err)
	}
	if len(item.Tags) == 0 {
		return nil
	}

	ins := builder.Insert("item_tags").Columns("item_id", "position", "tag")
	for i, tag := range item.Tags {
		ins = ins.Values(item.ID, i, tag)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("building tag insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("saving item tags: %w", err)
	}
	return nil
}

// Delete permanently removes an item together with its tags and photo.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	result, err := c.DB.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return nil
}

func selectItems() sq.SelectBuilder {
	return builder.Select(itemColumns...).From("items").OrderBy("item_name", "item_id")
}

// query runs b and attaches tags. Rows are fully drained before the tag
// lookup so a single-connection pool never deadlocks.
func (c *Catalog) query(ctx context.Context, what string, b sq.SelectBuilder) ([]model.Item, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", what, err)
	}

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing %s: %w", what, err)
	}
	rows.Close()

	if err := c.loadTags(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func scanItem(rows *sql.Rows) (model.Item, error) {
	var item model.Item
	var category, condition, listed string
	err := rows.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.Quantity, &category,
		&condition, &item.Image, &item.Available, &listed, &item.Featured,
	)
	if err != nil {
		return item, err
	}
	item.Category = model.Category(category)
	item.Condition = model.Condition(condition)
	item.DateListed, err = time.Parse(model.DateLayout, listed)
	if err != nil {
		return item, fmt.Errorf("parsing listing date %q: %w", listed, err)
	}
	item.Tags = []string{}
	return item, nil
}

// tagBatchSize bounds the IN list of one tag query, keeping it well under
// SQLite's bound variable limit.
var tagBatchSize = 500

func (c *Catalog) loadTags(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	index := make(map[string]int, len(items))
	ids := make([]string, 0, len(items))
	for i, item := range items {
		index[item.ID] = i
		ids = append(ids, item.ID)
	}

	for batch := range slices.Chunk(ids, tagBatchSize) {
		if err := c.loadTagBatch(ctx, batch, items, index); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) loadTagBatch(ctx context.Context, ids []string, items []model.Item, index map[string]int) error {
	query, args, err := builder.Select("item_id", "tag").
		From("item_tags").
		Where(sq.Eq{"item_id": ids}).
		OrderBy("item_id", "position").
		ToSql()
	if err != nil {
		return fmt.Errorf("building tag query: %w", err)
	}

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}
		if i, ok := index[id]; ok {
			items[i].Tags = append(items[i].Tags, tag)
		}
	}
	return rows.Err()
}
