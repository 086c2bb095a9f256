// Package imageutil provides a minimal uint8 pixel array type and the channel
// normalization rules used by the unit validation layer.
package imageutil

import (
	"errors"
	"fmt"
	"image"
)

// Channel-normalization errors.
var (
	ErrBadShape    = errors.New("imageutil: unsupported array shape")
	ErrBadPixelLen = errors.New("imageutil: pixel buffer length does not match shape")
)

// Array is a height x width x channels pixel array in row-major HWC layout.
// Channels is 1 (grayscale or mask), 3 (RGB), or 4 (RGBA).
//
// This is the Go representation of the [H, W, C] uint8 arrays the host's
// image pipeline exchanges with the validator.
type Array struct {
	Height   int
	Width    int
	Channels int
	Pix      []uint8 // len == Height * Width * Channels
}

// New allocates a zero-filled Array with the given shape.
func New(height, width, channels int) *Array {
	return &Array{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]uint8, height*width*channels),
	}
}

// Validate checks that the array shape is well formed and the pixel buffer
// matches it. This is a pure function with no side effects.
func (a *Array) Validate() error {
	if a.Height <= 0 || a.Width <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadShape, a.Height, a.Width)
	}
	switch a.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("%w: %d channels", ErrBadShape, a.Channels)
	}
	if len(a.Pix) != a.Height*a.Width*a.Channels {
		return fmt.Errorf("%w: want %d bytes, have %d",
			ErrBadPixelLen, a.Height*a.Width*a.Channels, len(a.Pix))
	}
	return nil
}

// Clone returns a deep copy sharing no backing storage with the receiver.
func (a *Array) Clone() *Array {
	if a == nil {
		return nil
	}
	out := &Array{Height: a.Height, Width: a.Width, Channels: a.Channels}
	out.Pix = make([]uint8, len(a.Pix))
	copy(out.Pix, a.Pix)
	return out
}

// At returns the value of channel c at row y, column x.
func (a *Array) At(y, x, c int) uint8 {
	return a.Pix[(y*a.Width+x)*a.Channels+c]
}

// Set stores v into channel c at row y, column x.
func (a *Array) Set(y, x, c int, v uint8) {
	a.Pix[(y*a.Width+x)*a.Channels+c] = v
}

// ShapeString formats the spatial shape as "(H, W)" for error messages.
func (a *Array) ShapeString() string {
	return fmt.Sprintf("(%d, %d)", a.Height, a.Width)
}

// SameSpatial reports whether two arrays have identical spatial dimensions.
func SameSpatial(a, b *Array) bool {
	return a.Height == b.Height && a.Width == b.Width
}

// HWC3 normalizes an array to exactly 3 color channels:
//
//   - 1 channel: the value is replicated across R, G and B
//   - 3 channels: returned as-is
//   - 4 channels: alpha is composed over a white background
//
// Any other channel count fails with ErrBadShape. A 3-channel input is
// returned without copying; callers that need an independent buffer should
// Clone first.
func HWC3(a *Array) (*Array, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	switch a.Channels {
	case 3:
		return a, nil
	case 1:
		out := New(a.Height, a.Width, 3)
		for i, v := range a.Pix {
			out.Pix[3*i] = v
			out.Pix[3*i+1] = v
			out.Pix[3*i+2] = v
		}
		return out, nil
	case 4:
		out := New(a.Height, a.Width, 3)
		n := a.Height * a.Width
		for i := 0; i < n; i++ {
			alpha := float64(a.Pix[4*i+3]) / 255.0
			for c := 0; c < 3; c++ {
				v := float64(a.Pix[4*i+c])*alpha + 255.0*(1.0-alpha)
				if v > 255 {
					v = 255
				}
				out.Pix[3*i+c] = uint8(v + 0.5)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrBadShape, a.Channels)
	}
}

// FromImage converts a decoded image.Image into an Array.
// Grayscale images produce 1 channel, images with an alpha channel produce 4,
// everything else produces 3.
func FromImage(img image.Image) *Array {
	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()

	switch src := img.(type) {
	case *image.Gray:
		out := New(h, w, 1)
		for y := 0; y < h; y++ {
			copy(out.Pix[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
		}
		return out
	case *image.NRGBA:
		out := New(h, w, 4)
		for y := 0; y < h; y++ {
			copy(out.Pix[y*w*4:(y+1)*w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
		}
		return out
	}

	if hasAlpha(img) {
		out := New(h, w, 4)
		i := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, a := unmultiply(img.At(x, y).RGBA())
				out.Pix[i] = r
				out.Pix[i+1] = g
				out.Pix[i+2] = b
				out.Pix[i+3] = a
				i += 4
			}
		}
		return out
	}

	out := New(h, w, 3)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out.Pix[i] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	return out
}

// hasAlpha reports whether the image's color model can carry transparency.
func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.RGBA64, *image.NRGBA, *image.NRGBA64:
		return true
	}
	return false
}

// unmultiply converts premultiplied 16-bit RGBA to straight 8-bit channels.
func unmultiply(r, g, b, a uint32) (uint8, uint8, uint8, uint8) {
	if a == 0 {
		return 0, 0, 0, 0
	}
	return uint8((r * 0xffff / a) >> 8),
		uint8((g * 0xffff / a) >> 8),
		uint8((b * 0xffff / a) >> 8),
		uint8(a >> 8)
}
