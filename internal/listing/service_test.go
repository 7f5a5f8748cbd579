package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/oglasnik/internal/db"
	"github.com/erazemk/oglasnik/internal/events"
	"github.com/erazemk/oglasnik/internal/model"
	"github.com/erazemk/oglasnik/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evs ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Type
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type countingRecorder map[string]int

func (r countingRecorder) Mutation(op string) { r[op]++ }

var listedAt = time.Date(2026, 10, 16, 14, 5, 0, 0, time.UTC)

func setupService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	n := 0
	defaults := []Option{
		WithClock(func() time.Time { return listedAt }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("item-%03d", n)
		}),
	}
	return NewService(store.NewCatalog(db.NewTestDB(t)), append(defaults, opts...)...)
}

func phone() NewItem {
	return NewItem{
		Name:        "iPhone Case",
		Description: "Silicone case",
		Price:       19.99,
		Quantity:    5,
		Category:    "electronics",
		Condition:   "NEW",
		Tags:        []string{"phone", "case"},
	}
}

func mustCreate(t *testing.T, s *Service, in NewItem) *model.Item {
	t.Helper()
	item, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	return item
}

func TestCreateAssignsSystemFields(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	a := mustCreate(t, s, phone())
	b := mustCreate(t, s, phone())

	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.Available)
	assert.False(t, a.Featured)
	assert.Equal(t, model.CategoryElectronics, a.Category)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), a.DateListed)

	got, err := s.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestCreateOutOfStock(t *testing.T) {
	s := setupService(t)
	in := phone()
	in.Quantity = 0

	item := mustCreate(t, s, in)
	assert.False(t, item.Available)
}

func TestCreateDefaultIDsAreUnique(t *testing.T) {
	s := NewService(store.NewCatalog(db.NewTestDB(t)))

	seen := map[string]bool{}
	for range 20 {
		item := mustCreate(t, s, phone())
		require.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*NewItem)
		field string
	}{
		{"missing name", func(in *NewItem) { in.Name = "   " }, "item_name"},
		{"negative price", func(in *NewItem) { in.Price = -1 }, "price"},
		{"negative quantity", func(in *NewItem) { in.Quantity = -3 }, "quantity"},
		{"missing category", func(in *NewItem) { in.Category = "" }, "category"},
		{"blank tag", func(in *NewItem) { in.Tags = []string{"ok", " "} }, "tags[1]"},
	}

	s := setupService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := phone()
			tt.edit(&in)

			_, err := s.Create(context.Background(), in)
			require.ErrorIs(t, err, model.ErrValidation)

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}

	items, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateUnknownEnums(t *testing.T) {
	s := setupService(t)

	in := phone()
	in.Category = "WEAPONS"
	_, err := s.Create(context.Background(), in)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	in = phone()
	in.Condition = "BROKEN"
	_, err = s.Create(context.Background(), in)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestUpdateReplacesFields(t *testing.T) {
	later := listedAt.Add(72 * time.Hour)
	clock := listedAt
	s := setupService(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	created := mustCreate(t, s, phone())
	clock = later

	updated, err := s.Update(ctx, created.ID, ItemUpdate{
		NewItem: NewItem{
			Name:      "Phone Case XL",
			Price:     24.5,
			Quantity:  2,
			Category:  "ELECTRONICS",
			Condition: "like_new",
		},
		Featured: true,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.DateListed, updated.DateListed)
	assert.Equal(t, "Phone Case XL", updated.Name)
	assert.Empty(t, updated.Description)
	assert.Empty(t, updated.Tags)
	assert.Equal(t, model.ConditionLikeNew, updated.Condition)
	assert.True(t, updated.Featured)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdateAvailabilityFollowsQuantity(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	item := mustCreate(t, s, phone())

	for _, tt := range []struct {
		quantity  int
		available bool
	}{{0, false}, {3, true}} {
		in := ItemUpdate{NewItem: phone()}
		in.Quantity = tt.quantity

		updated, err := s.Update(ctx, item.ID, in)
		require.NoError(t, err)
		assert.Equal(t, tt.available, updated.Available, "quantity %d", tt.quantity)

		got, err := s.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.available, got.Available)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := setupService(t)
	_, err := s.Update(context.Background(), "nope", ItemUpdate{NewItem: phone()})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// deletingCatalog removes an item right after it has been looked up, as
// a concurrent Delete would.
type deletingCatalog struct {
	*store.Catalog
}

func (c deletingCatalog) FindByID(ctx context.Context, id string) (*model.Item, error) {
	item, err := c.Catalog.FindByID(ctx, id)
	if item != nil {
		if err := c.Catalog.Delete(ctx, id); err != nil {
			return nil, err
		}
	}
	return item, err
}

func TestUpdateAfterConcurrentDelete(t *testing.T) {
	catalog := store.NewCatalog(db.NewTestDB(t))
	pub := &recordingPublisher{}
	ctx := context.Background()

	item, err := NewService(catalog).Create(ctx, phone())
	require.NoError(t, err)

	s := NewService(deletingCatalog{catalog}, WithPublisher(pub))
	_, err = s.Update(ctx, item.ID, ItemUpdate{NewItem: phone()})
	require.ErrorIs(t, err, model.ErrNotFound)

	got, err := catalog.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "deleted item must not be recreated")
	assert.Empty(t, pub.types())
}

func TestUpdateInvalidLeavesItemUntouched(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	item := mustCreate(t, s, phone())

	in := ItemUpdate{NewItem: phone()}
	in.Price = -5
	_, err := s.Update(ctx, item.ID, in)
	require.ErrorIs(t, err, model.ErrValidation)

	got, err := s.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 19.99, got.Price)
}

func TestDelete(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	item := mustCreate(t, s, phone())

	require.NoError(t, s.Delete(ctx, item.ID))

	_, err := s.Get(ctx, item.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, item.ID), model.ErrNotFound)
}

func TestMutationsAnnounced(t *testing.T) {
	pub := &recordingPublisher{}
	rec := countingRecorder{}
	s := setupService(t, WithPublisher(pub), WithRecorder(rec))
	ctx := WithActor(context.Background(), "ana")

	item := mustCreate(t, s, phone())
	_, err := s.Update(ctx, item.ID, ItemUpdate{NewItem: phone()})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, item.ID))

	assert.Equal(t, []events.Type{events.ItemCreated, events.ItemUpdated, events.ItemDeleted}, pub.types())
	assert.Equal(t, "ana", pub.events[1].Actor)
	assert.Nil(t, pub.events[2].Item)
	assert.Equal(t, item.ID, pub.events[2].ItemID)
	assert.Equal(t, map[string]int{"create": 1, "update": 1, "delete": 1}, map[string]int(rec))
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := setupService(t, WithPublisher(pub))

	item, err := s.Create(context.Background(), phone())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), item.ID)
	assert.NoError(t, err)
}

func TestFailedMutationNotAnnounced(t *testing.T) {
	pub := &recordingPublisher{}
	s := setupService(t, WithPublisher(pub))

	assert.Error(t, s.Delete(context.Background(), "missing"))
	in := phone()
	in.Name = ""
	_, err := s.Create(context.Background(), in)
	assert.Error(t, err)

	assert.Empty(t, pub.types())
}
