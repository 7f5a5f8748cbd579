package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/oglasnik/internal/model"
)

// Query is a conjunction of optional bounds over the catalog. Zero values
// and nil pointers leave a dimension unrestricted.
type Query struct {
	NameContains string
	Category     model.Category
	Condition    model.Condition
	MinQuantity  *int
	MaxQuantity  *int
	MinPrice     *float64
	MaxPrice     *float64
	FeaturedOnly bool
}

func (q Query) predicate() sq.And {
	var where sq.And
	if q.NameContains != "" {
		where = append(where, nameContains(q.NameContains))
	}
	if q.Category != "" {
		where = append(where, sq.Eq{"category": string(q.Category)})
	}
	if q.Condition != "" {
		where = append(where, sq.Eq{"condition": string(q.Condition)})
	}
	if q.MinQuantity != nil {
		where = append(where, sq.GtOrEq{"quantity": *q.MinQuantity})
	}
	if q.MaxQuantity != nil {
		where = append(where, sq.LtOrEq{"quantity": *q.MaxQuantity})
	}
	if q.MinPrice != nil {
		where = append(where, sq.GtOrEq{"price": *q.MinPrice})
	}
	if q.MaxPrice != nil {
		where = append(where, sq.LtOrEq{"price": *q.MaxPrice})
	}
	if q.FeaturedOnly {
		where = append(where, sq.Eq{"featured": true})
	}
	return where
}

// nameContains matches item names containing text in any letter case.
// casefold is registered by the db package.
func nameContains(text string) sq.Sqlizer {
	return sq.Expr("instr(casefold(item_name), ?) > 0", strings.ToLower(text))
}
