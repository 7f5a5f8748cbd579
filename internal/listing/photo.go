package listing

import (
	"context"
	"fmt"
	"io"

	"github.com/erazemk/oglasnik/internal/events"
	"github.com/erazemk/oglasnik/internal/imaging"
	"github.com/erazemk/oglasnik/internal/model"
	"github.com/erazemk/oglasnik/internal/store"
)

// PhotoRef is the image reference stored on a listing that has an
// uploaded photo.
func PhotoRef(id string) string {
	return "/api/items/" + id + "/image"
}

// SetPhoto normalises the uploaded photo, stores it and points the
// listing's image at it. Unreadable or unsupported images wrap
// model.ErrInvalidArgument.
func (s *Service) SetPhoto(ctx context.Context, id string, r io.Reader) (*model.Item, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	photo, err := imaging.Process(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
	}

	err = s.catalog.SetPhoto(ctx, id, store.Photo{
		Data:   photo.Data,
		MIME:   photo.MIME,
		Width:  photo.Width,
		Height: photo.Height,
	}, PhotoRef(id))
	if err != nil {
		return nil, fmt.Errorf("storing photo: %w", err)
	}

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, events.ItemUpdated, id, item)
	return item, nil
}

// Photo returns the stored photo of the listing id. A listing without a
// photo is reported as model.ErrNotFound.
func (s *Service) Photo(ctx context.Context, id string) (*store.Photo, error) {
	photo, err := s.catalog.GetPhoto(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading photo: %w", err)
	}
	if photo == nil {
		return nil, fmt.Errorf("%w: no photo for %s", model.ErrNotFound, id)
	}
	return photo, nil
}
