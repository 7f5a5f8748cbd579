// Package events announces listing lifecycle changes to downstream
// consumers such as search indexers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erazemk/oglasnik/internal/model"
)

// Type names a lifecycle change.
type Type string

// Event types.
const (
	ItemCreated Type = "item.created"
	ItemUpdated Type = "item.updated"
	ItemDeleted Type = "item.deleted"
)

// Event is one lifecycle change. Item is nil for deletions.
type Event struct {
	Type       Type        `json:"type"`
	ItemID     string      `json:"item_id"`
	Item       *model.Item `json:"item,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
	Actor      string      `json:"actor,omitempty"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, ...Event) error { return nil }
func (Nop) Close() error                            { return nil }

func encode(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", e.Type, err)
	}
	return data, nil
}
