package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxUploadSize is the largest photo accepted from a seller.
const MaxUploadSize = 5 << 20

// Defaults for listing photos.
const (
	DefaultMaxDimension = 1024
	DefaultQuality      = 85
)

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ErrUnsupportedFormat is returned when the sniffed content type is not an
// accepted image format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options control how a photo is normalised.
type Options struct {
	MaxDimension int
	Quality      int
}

// Photo is a normalised listing photo.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process normalises a listing photo with the default options.
func Process(r io.Reader) (*Photo, error) {
	return ProcessWith(r, Options{MaxDimension: DefaultMaxDimension, Quality: DefaultQuality})
}

// ProcessWith sniffs the format from the bytes (client headers are not
// trusted), downscales so neither side exceeds opts.MaxDimension, and
// re-encodes as JPEG.
func ProcessWith(r io.Reader, opts Options) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxUploadSize)
	}

	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := img.Bounds()
	w, h := fit(b.Dx(), b.Dy(), opts.MaxDimension)
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg", Width: w, Height: h}, nil
}

// fit scales w×h down, preserving aspect ratio, so neither side exceeds
// maxDim. A non-positive maxDim disables scaling.
func fit(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	return max(newW, 1), max(newH, 1)
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
