package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// DefaultMaxSize is the default cap for the longer image side.
const DefaultMaxSize = 1024

type Normalizer struct {
	maxSize int
}

func NewNormalizer(maxSize int) *Normalizer {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &Normalizer{
		maxSize: maxSize,
	}
}

func (n *Normalizer) MaxSize() int {
	return n.maxSize
}

// Normalize returns an opaque RGB copy of img whose longer side does not
// exceed the configured cap. Transparent pixels are composited onto white.
// Images within the cap keep their dimensions.
func (n *Normalizer) Normalize(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	width, height := Fit(bounds.Dx(), bounds.Dy(), n.maxSize)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	}

	// resampling can leave partial alpha at the edges
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}

	return dst
}

// Fit scales width and height so that the longer side equals maxSize while
// keeping the aspect ratio. Dimensions already within maxSize are returned
// unchanged.
func Fit(width, height, maxSize int) (int, int) {
	if width <= maxSize && height <= maxSize {
		return width, height
	}

	if width >= height {
		return maxSize, scaleSide(height, maxSize, width)
	}

	return scaleSide(width, maxSize, height), maxSize
}

func scaleSide(side, target, long int) int {
	result := int(math.Round(float64(side) * float64(target) / float64(long)))

	return max(result, 1)
}
