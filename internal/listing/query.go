package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/oglasnik/internal/model"
	"github.com/erazemk/oglasnik/internal/store"
)

// Get returns the listing id or an error wrapping model.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return item, nil
}

// List returns every listing.
func (s *Service) List(ctx context.Context) ([]model.Item, error) {
	items, err := s.catalog.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return orEmpty(items), nil
}

// ListByCategory returns the listings of one category. The name is parsed
// without regard to case; unknown names wrap model.ErrInvalidArgument.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]model.Item, error) {
	c, err := model.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.FindByCategory(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("listing category %s: %w", c, err)
	}
	return orEmpty(items), nil
}

// Featured returns the listings flagged as featured.
func (s *Service) Featured(ctx context.Context) ([]model.Item, error) {
	items, err := s.catalog.FindFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing featured items: %w", err)
	}
	return orEmpty(items), nil
}

// Related returns the other listings in the same category as id.
func (s *Service) Related(ctx context.Context, id string) ([]model.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.FindRelated(ctx, item.ID, item.Category)
	if err != nil {
		return nil, fmt.Errorf("listing related items: %w", err)
	}
	return orEmpty(items), nil
}

// Search returns listings whose name contains text, ignoring case. Blank
// text matches nothing.
func (s *Service) Search(ctx context.Context, text string) ([]model.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	items, err := s.catalog.FindByNameContaining(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	return orEmpty(items), nil
}

// ListByPriceRange returns listings priced within [min, max]. An inverted
// range matches nothing.
func (s *Service) ListByPriceRange(ctx context.Context, min, max float64) ([]model.Item, error) {
	if min > max {
		return []model.Item{}, nil
	}
	items, err := s.catalog.Find(ctx, store.Query{MinPrice: &min, MaxPrice: &max})
	if err != nil {
		return nil, fmt.Errorf("listing items by price: %w", err)
	}
	return orEmpty(items), nil
}
