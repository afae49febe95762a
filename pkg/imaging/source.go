package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxDimension bounds each side of a drawn canvas or uploaded image.
const MaxDimension = 8192

var (
	ErrInvalidCanvas = errors.New("invalid canvas buffer")
	ErrInvalidImage  = errors.New("invalid image")
	ErrImageTooLarge = errors.New("image too large")
)

// Source is where a sketch comes from: a drawn canvas or an uploaded file.
type Source interface {
	Bitmap() image.Image

	source()
}

// Drawn is a raw canvas buffer of non-premultiplied RGBA pixels, row by row.
type Drawn struct {
	Width  int
	Height int

	Pix []byte
}

func (d Drawn) source() {}

func (d Drawn) Bitmap() image.Image {
	return &image.NRGBA{
		Pix:    d.Pix,
		Stride: 4 * d.Width,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}
}

func (d Drawn) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvas, d.Width, d.Height)
	}

	if d.Width > MaxDimension || d.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrImageTooLarge, d.Width, d.Height, MaxDimension)
	}

	// both sides are bounded, so the product cannot overflow
	size := 4 * d.Width * d.Height

	if len(d.Pix) != size {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidCanvas, size, len(d.Pix))
	}

	return nil
}

// Uploaded is a decoded image file.
type Uploaded struct {
	Image image.Image

	Format string
}

func (u Uploaded) source() {}

func (u Uploaded) Bitmap() image.Image {
	return u.Image
}

// NewDrawn validates a canvas buffer.
func NewDrawn(width, height int, pix []byte) (*Drawn, error) {
	d := Drawn{
		Width:  width,
		Height: height,

		Pix: pix,
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Decode reads a PNG, JPEG, GIF or WebP upload. The header is checked
// against MaxDimension before any pixel data is allocated.
func Decode(r io.Reader) (*Uploaded, error) {
	data, err := io.ReadAll(r)

	if err != nil {
		return nil, err
	}

	config, _, err := image.DecodeConfig(bytes.NewReader(data))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImage, config.Width, config.Height)
	}

	if config.Width > MaxDimension || config.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrImageTooLarge, config.Width, config.Height, MaxDimension)
	}

	img, format, err := image.Decode(bytes.NewReader(data))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	return &Uploaded{
		Image:  img,
		Format: format,
	}, nil
}
