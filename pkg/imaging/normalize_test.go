package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRGBA(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	return img
}

func requireOpaque(t *testing.T, img *image.RGBA) {
	t.Helper()

	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			t.Fatalf("pixel %d is not opaque: alpha %d", i/4, img.Pix[i])
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		width, height int

		expectedWidth, expectedHeight int
	}{
		{2000, 1500, 1024, 768},
		{1500, 2000, 768, 1024},
		{800, 600, 800, 600},
		{1024, 1024, 1024, 1024},
		{1025, 1, 1024, 1},
		{5000, 1, 1024, 1},
		{3000, 1000, 1024, 341},
	}

	for _, tt := range tests {
		width, height := Fit(tt.width, tt.height, 1024)

		require.Equal(t, tt.expectedWidth, width, "%dx%d", tt.width, tt.height)
		require.Equal(t, tt.expectedHeight, height, "%dx%d", tt.width, tt.height)
	}
}

func TestNormalizeDownscales(t *testing.T) {
	n := NewNormalizer(0)

	src := newRGBA(2000, 1500, color.RGBA{10, 20, 30, 128})
	result := n.Normalize(src)

	require.Equal(t, 1024, result.Bounds().Dx())
	require.Equal(t, 768, result.Bounds().Dy())

	requireOpaque(t, result)
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	n := NewNormalizer(1024)

	src := newRGBA(800, 600, color.RGBA{200, 100, 50, 255})
	result := n.Normalize(src)

	require.Equal(t, image.Rect(0, 0, 800, 600), result.Bounds())
	require.Equal(t, color.RGBA{200, 100, 50, 255}, result.RGBAAt(400, 300))
}

func TestNormalizeFlattensTransparency(t *testing.T) {
	n := NewNormalizer(1024)

	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	result := n.Normalize(src)

	require.Equal(t, color.RGBA{255, 255, 255, 255}, result.RGBAAt(0, 0))
	requireOpaque(t, result)
}

func TestNormalizeGray(t *testing.T) {
	n := NewNormalizer(1024)

	src := image.NewGray(image.Rect(0, 0, 10, 10))
	src.SetGray(5, 5, color.Gray{Y: 100})

	result := n.Normalize(src)

	require.Equal(t, color.RGBA{100, 100, 100, 255}, result.RGBAAt(5, 5))
}

func TestNormalizeOffsetBounds(t *testing.T) {
	n := NewNormalizer(1024)

	src := newRGBA(20, 20, color.RGBA{0, 0, 255, 255}).SubImage(image.Rect(10, 10, 20, 20))
	result := n.Normalize(src)

	require.Equal(t, image.Rect(0, 0, 10, 10), result.Bounds())
	require.Equal(t, color.RGBA{0, 0, 255, 255}, result.RGBAAt(0, 0))
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(1024)

	src := newRGBA(1800, 1200, color.RGBA{50, 150, 250, 200})

	once := n.Normalize(src)
	twice := n.Normalize(once)

	require.Equal(t, once.Bounds(), twice.Bounds())
	require.Equal(t, once.Pix, twice.Pix)
}
