package unit

import (
	"errors"
	"testing"
)

func TestSerialize_FixedProjection(t *testing.T) {
	u, err := newTestValidator().FromMap(enabledCanny(map[string]any{
		"weight":         0.5,
		"resize_mode":    "Just Resize",
		"processor_res":  512.0,
		"threshold_a":    25.0,
		"threshold_b":    200.0,
		"guidance_start": 0.0,
		"guidance_end":   0.75,
		"pixel_perfect":  true,
		"control_mode":   "Balanced",
	}))
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	want := "module: canny, model: control_v11p_sd15_canny, weight: 0.5, " +
		"resize_mode: Just Resize, processor_res: 512, threshold_a: 25, " +
		"threshold_b: 200, guidance_start: 0, guidance_end: 0.75, " +
		"pixel_perfect: True, control_mode: Balanced"
	if got := u.Serialize(); got != want {
		t.Errorf("Serialize() =\n%q\nwant\n%q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	v := newTestValidator()
	u, err := v.FromMap(enabledCanny(map[string]any{
		"weight":         1.5,
		"resize_mode":    "Resize and Fill",
		"processor_res":  768.0,
		"threshold_a":    12.5,
		"threshold_b":    99.0,
		"guidance_start": 0.25,
		"guidance_end":   0.8,
		"pixel_perfect":  true,
		"control_mode":   "ControlNet is more important",
	}))
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	parsed, err := v.Parse(u.Serialize())
	if err != nil {
		t.Fatalf("Parse(Serialize()): %v", err)
	}

	if parsed.Module != u.Module || parsed.Model != u.Model {
		t.Errorf("module/model = %q/%q, want %q/%q", parsed.Module, parsed.Model, u.Module, u.Model)
	}
	if parsed.Weight != u.Weight {
		t.Errorf("Weight = %v, want %v", parsed.Weight, u.Weight)
	}
	if parsed.ResizeMode != u.ResizeMode {
		t.Errorf("ResizeMode = %q, want %q", parsed.ResizeMode, u.ResizeMode)
	}
	if parsed.ProcessorRes != u.ProcessorRes || parsed.ThresholdA != u.ThresholdA || parsed.ThresholdB != u.ThresholdB {
		t.Errorf("sliders = %v/%v/%v, want %v/%v/%v",
			parsed.ProcessorRes, parsed.ThresholdA, parsed.ThresholdB,
			u.ProcessorRes, u.ThresholdA, u.ThresholdB)
	}
	if parsed.GuidanceStart != u.GuidanceStart || parsed.GuidanceEnd != u.GuidanceEnd {
		t.Errorf("guidance = [%v, %v], want [%v, %v]",
			parsed.GuidanceStart, parsed.GuidanceEnd, u.GuidanceStart, u.GuidanceEnd)
	}
	if parsed.PixelPerfect != u.PixelPerfect {
		t.Errorf("PixelPerfect = %v, want %v", parsed.PixelPerfect, u.PixelPerfect)
	}
	if parsed.ControlMode != u.ControlMode {
		t.Errorf("ControlMode = %q, want %q", parsed.ControlMode, u.ControlMode)
	}
}

func TestRoundTrip_DefaultUnit(t *testing.T) {
	v := newTestValidator()
	u, err := v.FromMap(map[string]any{})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	parsed, err := v.Parse(u.Serialize())
	if err != nil {
		t.Fatalf("Parse(Serialize()): %v", err)
	}
	if parsed.ProcessorRes != SliderUnset || parsed.ThresholdA != SliderUnset || parsed.ThresholdB != SliderUnset {
		t.Errorf("slider sentinels = %v/%v/%v, want unset",
			parsed.ProcessorRes, parsed.ThresholdA, parsed.ThresholdB)
	}
	if parsed.Module != DefaultModule || parsed.Model != DefaultModel {
		t.Errorf("module/model = %q/%q, want defaults", parsed.Module, parsed.Model)
	}
	if parsed.Enabled {
		t.Error("parsed units keep enabled at its default false")
	}
}

func TestRoundTrip_DisabledUnitUnknownModule(t *testing.T) {
	// A disabled unit may carry a module the host does not recognize; its
	// serialization must still parse, with every field surviving verbatim.
	v := newTestValidator()
	u, err := v.FromMap(map[string]any{
		"enabled": false,
		"module":  "experimental_edge",
		"weight":  0.5,
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	parsed, err := v.Parse(u.Serialize())
	if err != nil {
		t.Fatalf("Parse(Serialize()): %v", err)
	}
	if parsed.Module != "experimental_edge" {
		t.Errorf("Module = %q, want experimental_edge", parsed.Module)
	}
	if parsed.Weight != 0.5 {
		t.Errorf("Weight = %v, want 0.5", parsed.Weight)
	}
	if parsed.ProcessorRes != SliderUnset {
		t.Errorf("ProcessorRes = %v, want unset sentinel", parsed.ProcessorRes)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"segment without separator", "module: canny, garbage", ErrMalformedInput},
		{"empty segment", "module: canny, , model: control_v11p_sd15_canny", ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestValidator().Parse(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_LenientLikeDisabledConstruct(t *testing.T) {
	// Parse leaves enabled false, so recognition and window checks are
	// deferred exactly as in disabled FromMap construction.
	u, err := newTestValidator().Parse(
		"module: sobel, model: no_such_model, guidance_start: 0.9, guidance_end: 0.1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if u.Module != "sobel" || u.Model != "no_such_model" {
		t.Errorf("module/model = %q/%q, want values kept verbatim", u.Module, u.Model)
	}
	if u.GuidanceStart != 0.9 || u.GuidanceEnd != 0.1 {
		t.Errorf("guidance window = [%v, %v], want [0.9, 0.1] kept", u.GuidanceStart, u.GuidanceEnd)
	}
}

func TestFromInfotext(t *testing.T) {
	t.Run("positional values in field order", func(t *testing.T) {
		u, err := newTestValidator().FromInfotext(
			"canny", "control_v11p_sd15_canny", 1.0, "Crop and Resize",
			512, 100, 200, 0.0, 1.0, false, "Balanced",
		)
		if err != nil {
			t.Fatalf("FromInfotext: %v", err)
		}
		if u.Module != "canny" || u.ThresholdB != 200 {
			t.Errorf("fields not bound positionally: %+v", u)
		}
	})

	t.Run("wrong arity fails", func(t *testing.T) {
		_, err := newTestValidator().FromInfotext("canny", "control_v11p_sd15_canny")
		if !errors.Is(err, ErrMalformedInput) {
			t.Fatalf("FromInfotext = %v, want ErrMalformedInput", err)
		}
	})
}
