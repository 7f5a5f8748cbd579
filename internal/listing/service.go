// Package listing is the single entry point for catalog operations: the
// lifecycle of listings (create, full-replace update, delete) and every
// read query, including the composite filter.
package listing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/oglasnik/internal/events"
	"github.com/erazemk/oglasnik/internal/model"
	"github.com/erazemk/oglasnik/internal/store"
)

// Catalog is the persistent store the service runs against.
type Catalog interface {
	FindByID(ctx context.Context, id string) (*model.Item, error)
	FindAll(ctx context.Context) ([]model.Item, error)
	FindByCategory(ctx context.Context, category model.Category) ([]model.Item, error)
	FindFeatured(ctx context.Context) ([]model.Item, error)
	FindRelated(ctx context.Context, excludeID string, category model.Category) ([]model.Item, error)
	FindByNameContaining(ctx context.Context, text string) ([]model.Item, error)
	Find(ctx context.Context, q store.Query) ([]model.Item, error)
	Save(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
	SetPhoto(ctx context.Context, id string, photo store.Photo, ref string) error
	GetPhoto(ctx context.Context, id string) (*store.Photo, error)
}

var _ Catalog = (*store.Catalog)(nil)

// Recorder counts completed mutations.
type Recorder interface {
	Mutation(op string)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string) {}

// Service implements the listing operations on top of a Catalog.
type Service struct {
	catalog   Catalog
	publisher events.Publisher
	recorder  Recorder
	now       func() time.Time
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher announces lifecycle changes through p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRecorder counts mutations with r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides the time source used for listing dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides item ID allocation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService returns a service over catalog. By default IDs are random
// UUIDs, dates come from the wall clock and events are discarded.
func NewService(catalog Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		publisher: events.Nop{},
		recorder:  nopRecorder{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type actorKey struct{}

// WithActor attaches the identity of the caller to ctx for logs and events.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

var mutationOps = map[events.Type]string{
	events.ItemCreated: "create",
	events.ItemUpdated: "update",
	events.ItemDeleted: "delete",
}

// announce publishes a committed change. The mutation has already
// succeeded, so a failed publish is only logged.
func (s *Service) announce(ctx context.Context, typ events.Type, id string, item *model.Item) {
	actor := actorFrom(ctx)
	s.recorder.Mutation(mutationOps[typ])
	slog.Info("listing changed", "event", typ, "item", id, "actor", actor)

	err := s.publisher.Publish(ctx, events.Event{
		Type:       typ,
		ItemID:     id,
		Item:       item,
		OccurredAt: s.now().UTC(),
		Actor:      actor,
	})
	if err != nil {
		slog.Warn("failed to publish listing event", "event", typ, "item", id, "error", err)
	}
}

func orEmpty(items []model.Item) []model.Item {
	if items == nil {
		return []model.Item{}
	}
	return items
}
