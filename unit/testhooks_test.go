package unit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cnunits/imageutil"
)

// testPreprocessors is a small registry stand-in with a canny whose
// threshold_a range is [0,100] with default 50, an embedding-style family,
// and a module with declared dependencies.
func testPreprocessors() map[string]*Preprocessor {
	preps := map[string]*Preprocessor{
		"none": {Name: "none"},
		"canny": {
			Name:       "canny",
			Resolution: Slider{Min: 64, Max: 2048, Default: 512},
			SliderA:    Slider{Min: 0, Max: 100, Default: 50},
			SliderB:    Slider{Min: 0, Max: 255, Default: 200},
		},
		"inpaint_only": {
			Name:       "inpaint_only",
			Resolution: Slider{Min: 64, Max: 2048, Default: 512},
			Tags:       []string{"Inpaint"},
		},
		"clip_vision": {
			Name:       "clip_vision",
			Resolution: Slider{Min: 64, Max: 2048, Default: 512},
			Tags:       []string{"Revision"},
		},
		"tile_colorfix": {
			Name:       "tile_colorfix",
			Resolution: Slider{Min: 64, Max: 2048, Default: 512},
			Deps:       []string{"tile_resample"},
		},
		"tile_resample": {
			Name:       "tile_resample",
			Resolution: Slider{Min: 64, Max: 2048, Default: 512},
			SliderA:    Slider{Min: 1, Max: 8, Default: 1},
		},
		"ip-adapter_clip_sd15": {
			Name: "ip-adapter_clip_sd15",
			Tags: []string{TagIPAdapter},
		},
		"ip-adapter_clip_sdxl": {
			Name: "ip-adapter_clip_sdxl",
			Tags: []string{TagIPAdapter},
		},
		"ip-adapter_face_id_plus": {
			Name: "ip-adapter_face_id_plus",
			Tags: []string{TagIPAdapter},
		},
	}
	preps[AutoEmbeddingModule] = &Preprocessor{
		Name: AutoEmbeddingModule,
		Tags: []string{TagIPAdapter},
		ResolveForModel: func(model string) string {
			if strings.Contains(model, "xl") {
				return "ip-adapter_clip_sdxl"
			}
			return "ip-adapter_clip_sd15"
		},
	}
	return preps
}

var testModels = map[string]bool{
	"control_v11p_sd15_canny":  true,
	"control_v11p_sd15_seg":    true,
	"ip-adapter_sd15":          true,
	"ip-adapter_xl":            true,
	"controlnet-union-sdxl-10": true,
}

// testDecodedImage is what the stub image-decode hook returns for any
// non-path string.
func testDecodedImage() *imageutil.Array {
	arr := imageutil.New(4, 4, 3)
	for i := range arr.Pix {
		arr.Pix[i] = uint8(i)
	}
	return arr
}

// newTestHooks builds hooks over the test registry with stub codecs.
// Decoding the string "bad" fails, everything else decodes deterministically.
func newTestHooks(logger *zap.Logger) Hooks {
	preps := testPreprocessors()
	return Hooks{
		MatchModule: func(name string) bool {
			_, ok := preps[name]
			return ok
		},
		MatchModel: func(name string) bool {
			return name == DefaultModel || testModels[name]
		},
		DecodeImage: func(encoded string) (*imageutil.Array, error) {
			if encoded == "bad" {
				return nil, fmt.Errorf("%w: undecodable test payload", ErrMalformedInput)
			}
			return testDecodedImage(), nil
		},
		LoadTensor: func(value any) (Tensor, error) {
			if value == "bad" {
				return nil, fmt.Errorf("%w: undecodable test tensor", ErrMalformedInput)
			}
			return value, nil
		},
		GetPreprocessor: func(name string) (*Preprocessor, bool) {
			p, ok := preps[name]
			return p, ok
		},
		Logger: logger,
	}
}

func newTestValidator() *Validator {
	return NewValidator(newTestHooks(nil))
}

// enabledCanny returns a minimal valid mapping for an enabled canny unit.
// Tests copy and override it.
func enabledCanny(overrides map[string]any) map[string]any {
	values := map[string]any{
		"enabled": true,
		"module":  "canny",
		"model":   "control_v11p_sd15_canny",
	}
	for k, v := range overrides {
		values[k] = v
	}
	return values
}
