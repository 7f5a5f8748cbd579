package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/oglasnik/internal/model"
	"github.com/erazemk/oglasnik/internal/store"
)

// Neutral filter values. A parameter left at its neutral value does not
// narrow the result, except MinQuantity: its default of 1 hides
// listings that are out of stock.
const (
	DefaultMinQuantity = 1
	DefaultMaxQuantity = 9999999
	DefaultMinPrice    = 0.0
	DefaultMaxPrice    = 99999.99
)

// FilterParams holds the eight dimensions of a composite filter. Empty
// strings and zero-valued flags leave their dimension unconstrained.
type FilterParams struct {
	ItemName    string
	Category    string
	Condition   string
	MinQuantity int
	MaxQuantity int
	MinPrice    float64
	MaxPrice    float64
	Featured    bool
}

// DefaultFilterParams returns the parameters used when a caller supplies
// none.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		MinQuantity: DefaultMinQuantity,
		MaxQuantity: DefaultMaxQuantity,
		MinPrice:    DefaultMinPrice,
		MaxPrice:    DefaultMaxPrice,
	}
}

// Query translates p into a store query. Category and condition are parsed
// case-insensitively; unknown values wrap model.ErrInvalidArgument.
func (p FilterParams) Query() (store.Query, error) {
	q := store.Query{FeaturedOnly: p.Featured}

	// Blank names are neutral; anything else is matched verbatim.
	if strings.TrimSpace(p.ItemName) != "" {
		q.NameContains = p.ItemName
	}

	if strings.TrimSpace(p.Category) != "" {
		c, err := model.ParseCategory(p.Category)
		if err != nil {
			return store.Query{}, err
		}
		q.Category = c
	}
	if strings.TrimSpace(p.Condition) != "" {
		c, err := model.ParseCondition(p.Condition)
		if err != nil {
			return store.Query{}, err
		}
		q.Condition = c
	}

	minQty := p.MinQuantity
	q.MinQuantity = &minQty
	if p.MaxQuantity != DefaultMaxQuantity {
		maxQty := p.MaxQuantity
		q.MaxQuantity = &maxQty
	}
	if p.MinPrice > DefaultMinPrice {
		minPrice := p.MinPrice
		q.MinPrice = &minPrice
	}
	if p.MaxPrice != DefaultMaxPrice {
		maxPrice := p.MaxPrice
		q.MaxPrice = &maxPrice
	}

	return q, nil
}

// empty reports whether the bounds in p cannot be met by any listing.
func (p FilterParams) empty() bool {
	return p.MinQuantity > p.MaxQuantity || p.MinPrice > p.MaxPrice
}

// Filter returns the listings that satisfy every active constraint in p.
func (s *Service) Filter(ctx context.Context, p FilterParams) ([]model.Item, error) {
	q, err := p.Query()
	if err != nil {
		return nil, err
	}
	if p.empty() {
		return []model.Item{}, nil
	}

	items, err := s.catalog.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("filtering items: %w", err)
	}
	return orEmpty(items), nil
}
