package inference

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxImageDimension bounds both sides of an image sent to the model.
const MaxImageDimension = 1024

// MaxImagePixels bounds the decoded size of an upload. Compressed formats
// can declare dimensions far beyond what their byte size suggests.
const MaxImagePixels = 50_000_000

var ErrInvalidImage = errors.New("invalid image")

// FitWithin scales (w, h) down to fit a limit×limit box, preserving the
// aspect ratio. Sizes already inside the box are returned unchanged.
func FitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	ratio := math.Min(float64(limit)/float64(w), float64(limit)/float64(h))
	nw := max(1, int(math.Round(float64(w)*ratio)))
	nh := max(1, int(math.Round(float64(h)*ratio)))
	return min(nw, limit), min(nh, limit)
}

// PrepareImage decodes an uploaded photo, downscales it to fit within
// MaxImageDimension and re-encodes it as JPEG.
func PrepareImage(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, MaxImagePixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	b := src.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), MaxImageDimension)
	img := src
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
