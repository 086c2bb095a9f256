package unit

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"cnunits/imageutil"
)

// ImageSource is one raw image reference: either an already-decoded pixel
// array, or a string holding a local file path or encoded image data.
// Which of the two a string is gets decided at decode time; a path wins when
// the file exists.
type ImageSource struct {
	Array *imageutil.Array
	Data  string
}

func (s *ImageSource) clone() *ImageSource {
	if s == nil {
		return nil
	}
	return &ImageSource{Array: s.Array.Clone(), Data: s.Data}
}

// ImageMask pairs an image reference with an optional mask reference.
type ImageMask struct {
	Image *ImageSource
	Mask  *ImageSource
}

// ImageField is the tagged union over the accepted shapes of the 'image'
// field: a single array or string (simple form), or one-or-more image/mask
// pairs (structured form: a 2-element pairing, an image/mask map, or a list
// of such maps for multi-image units).
type ImageField struct {
	// Source is set for the simple form; the unit-level Mask applies.
	Source *ImageSource

	// Pairs is set for structured forms and carries its own masks.
	// It may be empty when the input was an empty list; GetInputImagesRGBA
	// rejects that.
	Pairs []ImageMask
}

func (f *ImageField) clone() *ImageField {
	if f == nil {
		return nil
	}
	out := &ImageField{Source: f.Source.clone()}
	if f.Pairs != nil {
		out.Pairs = make([]ImageMask, len(f.Pairs))
		for i, p := range f.Pairs {
			out.Pairs[i] = ImageMask{Image: p.Image.clone(), Mask: p.Mask.clone()}
		}
	}
	return out
}

// parseImageSource admits a single image reference: a pixel array or a
// string. Anything else is outside the enumerated tags.
func parseImageSource(field string, value any) (*ImageSource, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *imageutil.Array:
		return &ImageSource{Array: v}, nil
	case imageutil.Array:
		return &ImageSource{Array: &v}, nil
	case string:
		return &ImageSource{Data: v}, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized %s format %T", ErrMalformedInput, field, value)
	}
}

// parseImageField admits every accepted shape of the 'image' field and
// normalizes it into the tagged union. Shape errors are rejected here, at
// the construction boundary; emptiness and missing sub-values surface from
// GetInputImagesRGBA.
func parseImageField(value any) (*ImageField, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case *imageutil.Array, imageutil.Array, string:
		src, err := parseImageSource("image", v)
		if err != nil {
			return nil, err
		}
		return &ImageField{Source: src}, nil
	case map[string]any:
		pair, err := parseImageMaskDict(v)
		if err != nil {
			return nil, err
		}
		return &ImageField{Pairs: []ImageMask{pair}}, nil
	case []any:
		return parseImageList(v)
	default:
		return nil, fmt.Errorf("%w: unrecognized image field %T", ErrMalformedInput, value)
	}
}

// parseImageList handles the sequence forms: a list of image/mask maps, or
// a 2-element [image, mask] pairing.
func parseImageList(items []any) (*ImageField, error) {
	if len(items) == 0 {
		return &ImageField{}, nil
	}

	if _, ok := items[0].(map[string]any); ok {
		pairs := make([]ImageMask, 0, len(items))
		for _, item := range items {
			dict, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: mixed image list entry %T", ErrMalformedInput, item)
			}
			pair, err := parseImageMaskDict(dict)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, pair)
		}
		return &ImageField{Pairs: pairs}, nil
	}

	if len(items) != 2 {
		return nil, fmt.Errorf("%w: image list must be [image, mask], got %d elements",
			ErrMalformedInput, len(items))
	}
	img, err := parseImageSource("image", items[0])
	if err != nil {
		return nil, err
	}
	mask, err := parseImageSource("mask", items[1])
	if err != nil {
		return nil, err
	}
	return &ImageField{Pairs: []ImageMask{{Image: img, Mask: mask}}}, nil
}

// parseImageMaskDict handles the {"image": ..., "mask": ...} form. A missing
// image sub-value is recorded and rejected later by GetInputImagesRGBA.
func parseImageMaskDict(dict map[string]any) (ImageMask, error) {
	img, err := parseImageSource("image", dict["image"])
	if err != nil {
		return ImageMask{}, err
	}
	mask, err := parseImageSource("mask", dict["mask"])
	if err != nil {
		return ImageMask{}, err
	}
	return ImageMask{Image: img, Mask: mask}, nil
}

// GetInputImagesRGBA normalizes the unit's image/mask fields into a uniform
// sequence of 4-channel (RGB + mask) arrays. It returns (nil, nil) when no
// image was supplied. A mask without an image, an empty image list, or an
// entry missing its image sub-value fail with ErrMalformedInput.
func (u *Unit) GetInputImagesRGBA() ([]*imageutil.Array, error) {
	if u.Image == nil {
		if u.Mask != nil {
			return nil, fmt.Errorf("%w: mask supplied without an image", ErrMalformedInput)
		}
		return nil, nil
	}

	var pairs []ImageMask
	if u.Image.Source != nil {
		pairs = []ImageMask{{Image: u.Image.Source, Mask: u.Mask}}
	} else {
		if len(u.Image.Pairs) == 0 {
			return nil, fmt.Errorf("%w: empty image list", ErrMalformedInput)
		}
		pairs = u.Image.Pairs
	}

	out := make([]*imageutil.Array, 0, len(pairs))
	for _, pair := range pairs {
		if pair.Image == nil {
			return nil, fmt.Errorf("%w: image entry missing 'image' value", ErrMalformedInput)
		}
		img, err := u.decodeSource(pair.Image)
		if err != nil {
			return nil, err
		}
		var mask *imageutil.Array
		if pair.Mask != nil {
			mask, err = u.decodeSource(pair.Mask)
			if err != nil {
				return nil, err
			}
		}
		rgba, err := CombineImageAndMask(img, mask)
		if err != nil {
			return nil, err
		}
		out = append(out, rgba)
	}
	return out, nil
}

// decodeSource resolves one image reference to a 3-channel array. Arrays
// pass through channel normalization; path strings are read from local
// storage; other strings go through the host's image-decode hook.
func (u *Unit) decodeSource(src *ImageSource) (*imageutil.Array, error) {
	if src.Array != nil {
		return imageutil.HWC3(src.Array)
	}

	if info, err := os.Stat(src.Data); err == nil && !info.IsDir() {
		arr, err := readImageFile(src.Data)
		if err != nil {
			return nil, err
		}
		return imageutil.HWC3(arr)
	}

	arr, err := u.hooks.decodeImage(src.Data)
	if err != nil {
		return nil, err
	}
	return imageutil.HWC3(arr)
}

// readImageFile decodes a local image file into a pixel array.
func readImageFile(path string) (*imageutil.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrMalformedInput, path, err)
	}
	return imageutil.FromImage(img), nil
}

// CombineImageAndMask builds the 4-channel conditioning input: 3 color
// channels plus one mask channel. With no mask, the mask channel is all
// zero, which consumers treat as inert (no exclusion). Mask spatial
// dimensions must match the image's.
func CombineImageAndMask(img, mask *imageutil.Array) (*imageutil.Array, error) {
	if img.Channels != 3 {
		return nil, fmt.Errorf("%w: expected 3-channel image, got %d channels",
			ErrShapeMismatch, img.Channels)
	}
	if mask != nil && !imageutil.SameSpatial(img, mask) {
		return nil, fmt.Errorf("%w: image shape %s not aligned with mask shape %s",
			ErrShapeMismatch, img.ShapeString(), mask.ShapeString())
	}

	out := imageutil.New(img.Height, img.Width, 4)
	n := img.Height * img.Width
	for i := 0; i < n; i++ {
		out.Pix[4*i] = img.Pix[3*i]
		out.Pix[4*i+1] = img.Pix[3*i+1]
		out.Pix[4*i+2] = img.Pix[3*i+2]
		if mask != nil {
			out.Pix[4*i+3] = mask.Pix[i*mask.Channels]
		}
	}
	return out, nil
}
