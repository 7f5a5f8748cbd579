package listing

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/oglasnik/internal/model"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSetPhoto(t *testing.T) {
	pub := &recordingPublisher{}
	s := setupService(t, WithPublisher(pub))
	ctx := context.Background()
	item := mustCreate(t, s, phone())

	updated, err := s.SetPhoto(ctx, item.ID, bytes.NewReader(pngBytes(t, 40, 20)))
	require.NoError(t, err)
	assert.Equal(t, PhotoRef(item.ID), updated.Image)
	assert.Equal(t, item.DateListed, updated.DateListed)

	photo, err := s.Photo(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", photo.MIME)
	assert.Equal(t, 40, photo.Width)
	assert.Equal(t, 20, photo.Height)

	require.NoError(t, s.Delete(ctx, item.ID))
	_, err = s.Photo(ctx, item.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSetPhotoRejectsNonImage(t *testing.T) {
	s := setupService(t)
	item := mustCreate(t, s, phone())

	_, err := s.SetPhoto(context.Background(), item.ID, strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestSetPhotoMissingItem(t *testing.T) {
	s := setupService(t)
	_, err := s.SetPhoto(context.Background(), "missing", bytes.NewReader(pngBytes(t, 4, 4)))
	assert.ErrorIs(t, err, model.ErrNotFound)
}
