package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/erazemk/oglasnik/internal/db"
	"github.com/erazemk/oglasnik/internal/model"
)

func TestItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	catalog := NewCatalog(database)
	ctx := context.Background()

	item := newItem("Photo Item", model.CategoryCollectibles, 1, 5)
	mustSave(t, catalog, item)

	photo := Photo{Data: []byte("fake image data"), MIME: "image/jpeg", Width: 640, Height: 480}
	if err := catalog.SetPhoto(ctx, item.ID, photo, "/api/items/"+item.ID+"/image"); err != nil {
		t.Fatalf("SetPhoto: %v", err)
	}

	got, err := catalog.GetPhoto(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetPhoto: %v", err)
	}
	if string(got.Data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(got.Data))
	}
	if got.MIME != "image/jpeg" || got.Width != 640 || got.Height != 480 {
		t.Errorf("unexpected photo metadata: %+v", got)
	}

	saved, _ := catalog.FindByID(ctx, item.ID)
	if saved.Image != "/api/items/"+item.ID+"/image" {
		t.Errorf("expected image reference to be set, got %q", saved.Image)
	}

	// Deleting the item removes the photo as well.
	catalog.Delete(ctx, item.ID)
	got, err = catalog.GetPhoto(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetPhoto after delete: %v", err)
	}
	if got != nil {
		t.Error("expected photo to be removed with the item")
	}
}

func TestSetPhotoMissingItem(t *testing.T) {
	catalog := NewCatalog(db.NewTestDB(t))

	err := catalog.SetPhoto(context.Background(), uuid.NewString(), Photo{Data: []byte{1}, MIME: "image/jpeg"}, "ref")
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
