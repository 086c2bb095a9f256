package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cnunits/unit"
)

func TestNew_Builtins(t *testing.T) {
	r := New()

	p, ok := r.Preprocessor("canny")
	if !ok {
		t.Fatal("builtin canny preprocessor missing")
	}
	if p.SliderA.Default != 100 || p.SliderB.Default != 200 {
		t.Errorf("canny slider defaults = %v/%v, want 100/200", p.SliderA.Default, p.SliderB.Default)
	}
	if p.Resolution.Min != 64 || p.Resolution.Max != 2048 {
		t.Errorf("canny resolution range = [%v, %v], want [64, 2048]", p.Resolution.Min, p.Resolution.Max)
	}

	if !r.HasModule("none") || !r.HasModule(unit.AutoEmbeddingModule) {
		t.Error("expected builtin modules none and ip-adapter-auto")
	}
	if r.HasModule("does_not_exist") {
		t.Error("unknown module should not be reported present")
	}
}

func TestHasModel(t *testing.T) {
	r := New()
	tests := []struct {
		name string
		want bool
	}{
		{"control_v11p_sd15_canny", true},
		{"control_v11p_sd15_canny [a3cd7cd6]", true},
		{unit.DefaultModel, true},
		{"totally_unknown", false},
		{"totally_unknown [a3cd7cd6]", false},
	}
	for _, tt := range tests {
		if got := r.HasModel(tt.name); got != tt.want {
			t.Errorf("HasModel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAutoEmbeddingResolution(t *testing.T) {
	r := New()
	p, ok := r.Preprocessor(unit.AutoEmbeddingModule)
	if !ok || p.ResolveForModel == nil {
		t.Fatal("ip-adapter-auto must carry a model resolver")
	}
	tests := []struct {
		model string
		want  string
	}{
		{"ip-adapter-faceid-plusv2_sd15", "ip-adapter_face_id_plus"},
		{"ip-adapter_xl", "ip-adapter_clip_sdxl"},
		{"ip-adapter_sd15", "ip-adapter_clip_sd15"},
	}
	for _, tt := range tests {
		if got := p.ResolveForModel(tt.model); got != tt.want {
			t.Errorf("ResolveForModel(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	const doc = `
preprocessors:
  - name: depth_anything
    resolution: {min: 64, max: 2048, default: 512}
  - name: canny
    resolution: {min: 64, max: 1024, default: 256}
    slider_a: {min: 1, max: 99, default: 42}
models:
  - custom_union_model
`
	path := filepath.Join(t.TempDir(), "extensions.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing extension file: %v", err)
	}

	r := New()
	if err := r.LoadYAML(path); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	if !r.HasModule("depth_anything") {
		t.Error("extension preprocessor not registered")
	}
	if !r.HasModel("custom_union_model") {
		t.Error("extension model not registered")
	}

	// Same-named declarations replace builtins.
	p, _ := r.Preprocessor("canny")
	if p.SliderA.Default != 42 || p.Resolution.Max != 1024 {
		t.Errorf("canny override not applied: slider_a default %v, resolution max %v",
			p.SliderA.Default, p.Resolution.Max)
	}
}

func TestLoadYAML_Errors(t *testing.T) {
	r := New()
	if err := r.LoadYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("preprocessors:\n  - resolution: {min: 1}\n"), 0o644)
	if err := r.LoadYAML(bad); err == nil {
		t.Error("declaration without a name should fail")
	}
}

func TestHooksBridge(t *testing.T) {
	r := New()
	hooks := r.Hooks(nil)
	v := unit.NewValidator(hooks)

	u, err := v.FromMap(map[string]any{
		"enabled": true,
		"module":  "canny",
		"model":   "control_v11p_sd15_canny",
	})
	if err != nil {
		t.Fatalf("FromMap over registry hooks: %v", err)
	}
	// Sentinel slider values pick up the builtin defaults.
	if u.ProcessorRes != 512 || u.ThresholdA != 100 || u.ThresholdB != 200 {
		t.Errorf("slider defaults = %v/%v/%v, want 512/100/200",
			u.ProcessorRes, u.ThresholdA, u.ThresholdB)
	}

	_, err = v.FromMap(map[string]any{
		"enabled":               true,
		"module":                "canny",
		"model":                 "control_v11p_sd15_canny",
		"effective_region_mask": "not-an-image",
	})
	if !errors.Is(err, unit.ErrMalformedInput) {
		t.Fatalf("undecodable mask = %v, want ErrMalformedInput", err)
	}
}
