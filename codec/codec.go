// Package codec provides the default host codecs for the unit validation
// layer: base64-encoded images decoded into pixel arrays, and base64-encoded
// tensor blobs for pre-embedded IP-Adapter input.
//
// PNG and JPEG decoding come from the standard library; BMP, TIFF and WebP
// support is registered via golang.org/x/image.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"cnunits/imageutil"
)

// Codec errors.
var (
	ErrNotBase64    = errors.New("codec: input is not valid base64")
	ErrBadImageData = errors.New("codec: failed to decode image data")
	ErrBadTensor    = errors.New("codec: invalid tensor input")
	ErrEmptyTensor  = errors.New("codec: tensor blob is empty")
)

// Tensor is an opaque pre-embedded tensor blob. The validation layer never
// inspects the contents; downstream conditioning components deserialize it.
type Tensor struct {
	Data []byte
}

// DecodeBase64Image decodes a base64-encoded image string into a pixel array.
// A data-URI prefix ("data:image/png;base64,") is tolerated and stripped.
func DecodeBase64Image(encoded string) (*imageutil.Array, error) {
	raw, err := decodeBase64(encoded)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImageData, err)
	}
	return imageutil.FromImage(img), nil
}

// DecodeTensor decodes a raw tensor input into an opaque Tensor blob.
// Accepted inputs: a base64 string, or an already-decoded []byte.
func DecodeTensor(value any) (*Tensor, error) {
	switch v := value.(type) {
	case string:
		raw, err := decodeBase64(v)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, ErrEmptyTensor
		}
		return &Tensor{Data: raw}, nil
	case []byte:
		if len(v) == 0 {
			return nil, ErrEmptyTensor
		}
		out := make([]byte, len(v))
		copy(out, v)
		return &Tensor{Data: out}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrBadTensor, value)
	}
}

// EncodeBase64PNG encodes a pixel array as a base64 PNG string.
// This is the inverse of DecodeBase64Image for PNG payloads.
func EncodeBase64PNG(arr *imageutil.Array) (string, error) {
	if err := arr.Validate(); err != nil {
		return "", err
	}

	img := image.NewNRGBA(image.Rect(0, 0, arr.Width, arr.Height))
	for y := 0; y < arr.Height; y++ {
		for x := 0; x < arr.Width; x++ {
			i := img.PixOffset(x, y)
			switch arr.Channels {
			case 1:
				v := arr.At(y, x, 0)
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
			case 3:
				img.Pix[i] = arr.At(y, x, 0)
				img.Pix[i+1] = arr.At(y, x, 1)
				img.Pix[i+2] = arr.At(y, x, 2)
				img.Pix[i+3] = 255
			case 4:
				img.Pix[i] = arr.At(y, x, 0)
				img.Pix[i+1] = arr.At(y, x, 1)
				img.Pix[i+2] = arr.At(y, x, 2)
				img.Pix[i+3] = arr.At(y, x, 3)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadImageData, err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// decodeBase64 decodes standard or raw (unpadded) base64, with an optional
// data-URI prefix.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return raw, nil
	}
	raw, rawErr := base64.RawStdEncoding.DecodeString(s)
	if rawErr == nil {
		return raw, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNotBase64, err)
}
