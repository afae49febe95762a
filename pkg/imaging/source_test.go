package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image/color"
	"image/jpeg"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDrawn(t *testing.T) {
	pix := make([]byte, 4*3*2)
	pix[0], pix[1], pix[2], pix[3] = 255, 0, 0, 255

	d, err := NewDrawn(3, 2, pix)
	require.NoError(t, err)

	img := d.Bitmap()

	require.Equal(t, 3, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())
	require.Equal(t, color.NRGBA{255, 0, 0, 255}, img.At(0, 0))
}

func TestNewDrawnRejectsInvalidBuffer(t *testing.T) {
	_, err := NewDrawn(3, 2, make([]byte, 10))
	require.True(t, errors.Is(err, ErrInvalidCanvas))

	_, err = NewDrawn(0, 2, nil)
	require.True(t, errors.Is(err, ErrInvalidCanvas))
}

func TestNewDrawnRejectsOversizedCanvas(t *testing.T) {
	tests := []struct {
		name string

		width  int
		height int
	}{
		{"max int", math.MaxInt, math.MaxInt},
		{"product overflows", math.MaxInt / 2, 3},
		{"wide", MaxDimension + 1, 1},
		{"tall", 1, MaxDimension + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDrawn(tt.width, tt.height, nil)

			require.Nil(t, d)
			require.ErrorIs(t, err, ErrImageTooLarge)
		})
	}
}

func TestNewDrawnAcceptsMaxDimension(t *testing.T) {
	_, err := NewDrawn(MaxDimension, 1, make([]byte, 4*MaxDimension))
	require.NoError(t, err)
}

// withDimensions rewrites the IHDR chunk of a PNG so that its header declares
// the given size while the pixel data stays tiny.
func withDimensions(t *testing.T, data []byte, width, height uint32) []byte {
	t.Helper()

	result := bytes.Clone(data)
	require.Equal(t, "IHDR", string(result[12:16]))

	binary.BigEndian.PutUint32(result[16:20], width)
	binary.BigEndian.PutUint32(result[20:24], height)
	binary.BigEndian.PutUint32(result[29:33], crc32.ChecksumIEEE(result[12:29]))

	return result
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	data, err := EncodePNG(newRGBA(2, 2, color.RGBA{1, 2, 3, 255}))
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(withDimensions(t, data, 60000, 60000)))
	require.ErrorIs(t, err, ErrImageTooLarge)

	_, err = Decode(bytes.NewReader(withDimensions(t, data, MaxDimension+1, 2)))
	require.ErrorIs(t, err, ErrImageTooLarge)
}

func TestDecode(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		data, err := EncodePNG(newRGBA(5, 4, color.RGBA{1, 2, 3, 255}))
		require.NoError(t, err)

		u, err := Decode(bytes.NewReader(data))
		require.NoError(t, err)

		require.Equal(t, "png", u.Format)
		require.Equal(t, 5, u.Bitmap().Bounds().Dx())
	})

	t.Run("jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, newRGBA(8, 8, color.RGBA{9, 9, 9, 255}), nil))

		u, err := Decode(&buf)
		require.NoError(t, err)

		require.Equal(t, "jpeg", u.Format)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Decode(bytes.NewReader([]byte("not an image")))
		require.True(t, errors.Is(err, ErrInvalidImage))
	})
}
