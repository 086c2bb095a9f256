package imageutil

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		arr     *Array
		wantErr error
	}{
		{"valid gray", New(4, 4, 1), nil},
		{"valid rgb", New(2, 3, 3), nil},
		{"valid rgba", New(2, 2, 4), nil},
		{"zero height", &Array{Height: 0, Width: 4, Channels: 3}, ErrBadShape},
		{"two channels", &Array{Height: 2, Width: 2, Channels: 2, Pix: make([]uint8, 8)}, ErrBadShape},
		{"short buffer", &Array{Height: 2, Width: 2, Channels: 3, Pix: make([]uint8, 5)}, ErrBadPixelLen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.arr.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHWC3_Gray(t *testing.T) {
	arr := New(2, 2, 1)
	for i := range arr.Pix {
		arr.Pix[i] = uint8(10 * (i + 1))
	}

	out, err := HWC3(arr)
	if err != nil {
		t.Fatalf("HWC3: %v", err)
	}
	if out.Channels != 3 {
		t.Fatalf("Channels = %d, want 3", out.Channels)
	}
	for i, v := range arr.Pix {
		for c := 0; c < 3; c++ {
			if out.Pix[3*i+c] != v {
				t.Errorf("pixel %d channel %d = %d, want %d", i, c, out.Pix[3*i+c], v)
			}
		}
	}
}

func TestHWC3_RGBPassthrough(t *testing.T) {
	arr := New(4, 4, 3)
	out, err := HWC3(arr)
	if err != nil {
		t.Fatalf("HWC3: %v", err)
	}
	if out != arr {
		t.Error("3-channel input should pass through without copying")
	}
}

func TestHWC3_AlphaOverWhite(t *testing.T) {
	arr := New(1, 2, 4)
	// Fully opaque black pixel.
	arr.Pix[0], arr.Pix[1], arr.Pix[2], arr.Pix[3] = 0, 0, 0, 255
	// Fully transparent black pixel becomes white.
	arr.Pix[4], arr.Pix[5], arr.Pix[6], arr.Pix[7] = 0, 0, 0, 0

	out, err := HWC3(arr)
	if err != nil {
		t.Fatalf("HWC3: %v", err)
	}
	if out.At(0, 0, 0) != 0 {
		t.Errorf("opaque pixel = %d, want 0", out.At(0, 0, 0))
	}
	if out.At(0, 1, 0) != 255 {
		t.Errorf("transparent pixel = %d, want 255", out.At(0, 1, 0))
	}
}

func TestHWC3_RejectsBadChannels(t *testing.T) {
	arr := &Array{Height: 2, Width: 2, Channels: 2, Pix: make([]uint8, 8)}
	if _, err := HWC3(arr); !errors.Is(err, ErrBadShape) {
		t.Fatalf("HWC3 = %v, want ErrBadShape", err)
	}
}

func TestClone_Independent(t *testing.T) {
	arr := New(2, 2, 3)
	arr.Pix[0] = 42

	dup := arr.Clone()
	dup.Pix[0] = 7

	if arr.Pix[0] != 42 {
		t.Errorf("original mutated by clone edit: %d", arr.Pix[0])
	}
}

func TestFromImage_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.SetGray(1, 1, color.Gray{Y: 128})

	arr := FromImage(img)
	if arr.Channels != 1 {
		t.Fatalf("Channels = %d, want 1", arr.Channels)
	}
	if arr.At(1, 1, 0) != 128 {
		t.Errorf("At(1,1) = %d, want 128", arr.At(1, 1, 0))
	}
}

func TestFromImage_NRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 200})

	arr := FromImage(img)
	if arr.Channels != 4 {
		t.Fatalf("Channels = %d, want 4", arr.Channels)
	}
	if arr.At(0, 0, 0) != 10 || arr.At(0, 0, 3) != 200 {
		t.Errorf("pixel = [%d %d %d %d], want [10 20 30 200]",
			arr.At(0, 0, 0), arr.At(0, 0, 1), arr.At(0, 0, 2), arr.At(0, 0, 3))
	}
}

func TestFromImage_YCbCrIsRGB(t *testing.T) {
	img := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio420)
	arr := FromImage(img)
	if arr.Channels != 3 {
		t.Fatalf("Channels = %d, want 3", arr.Channels)
	}
}
