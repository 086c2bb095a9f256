package registry

import (
	"strings"

	"cnunits/unit"
)

// defaultResolution is the slider most preprocessors declare for
// processor_res.
var defaultResolution = unit.Slider{Min: 64, Max: 2048, Default: 512}

// builtinModels are the conditioning-model names recognized out of the box.
// Hosts extend this via AddModels or a YAML extension file.
var builtinModels = []string{
	"control_v11p_sd15_canny",
	"control_v11f1p_sd15_depth",
	"control_v11p_sd15_openpose",
	"control_v11p_sd15_scribble",
	"control_v11p_sd15_softedge",
	"control_v11p_sd15_seg",
	"control_v11p_sd15_normalbae",
	"control_v11p_sd15_lineart",
	"control_v11p_sd15s2_lineart_anime",
	"control_v11p_sd15_mlsd",
	"control_v11f1e_sd15_tile",
	"control_v11p_sd15_inpaint",
	"control_v11e_sd15_ip2p",
	"control_v11e_sd15_shuffle",
	"ip-adapter_sd15",
	"ip-adapter-plus_sd15",
	"ip-adapter-plus-face_sd15",
	"ip-adapter-faceid-plusv2_sd15",
	"ip-adapter_xl",
	"controlnet-union-sdxl-1.0",
}

// builtinPreprocessors returns the built-in preprocessor descriptor table.
// Slider ranges and defaults follow the host UI's declared values; a
// zero-valued slider means the preprocessor does not use that parameter.
func builtinPreprocessors() []*unit.Preprocessor {
	return []*unit.Preprocessor{
		{Name: "none"},
		{
			Name:       "canny",
			Resolution: defaultResolution,
			SliderA:    unit.Slider{Min: 1, Max: 255, Default: 100},
			SliderB:    unit.Slider{Min: 1, Max: 255, Default: 200},
		},
		{
			Name:       "depth_midas",
			Resolution: defaultResolution,
		},
		{
			Name:       "depth_leres",
			Resolution: defaultResolution,
			SliderA:    unit.Slider{Min: 0, Max: 100, Default: 0},
			SliderB:    unit.Slider{Min: 0, Max: 100, Default: 0},
		},
		{
			Name:       "openpose",
			Resolution: defaultResolution,
		},
		{
			Name:       "openpose_full",
			Resolution: defaultResolution,
		},
		{
			Name:       "dw_openpose_full",
			Resolution: defaultResolution,
		},
		{
			Name:       "scribble_xdog",
			Resolution: defaultResolution,
			SliderA:    unit.Slider{Min: 1, Max: 64, Default: 32},
		},
		{
			Name:       "softedge_hed",
			Resolution: defaultResolution,
		},
		{
			Name:       "lineart",
			Resolution: defaultResolution,
		},
		{
			Name:       "lineart_anime",
			Resolution: defaultResolution,
		},
		{
			Name:       "mlsd",
			Resolution: defaultResolution,
			SliderA:    unit.Slider{Min: 0.01, Max: 2, Default: 0.1},
			SliderB:    unit.Slider{Min: 0.01, Max: 20, Default: 0.1},
		},
		{
			Name:       "normal_bae",
			Resolution: defaultResolution,
		},
		{
			Name:       "seg_ofade20k",
			Resolution: defaultResolution,
		},
		{
			Name:       "shuffle",
			Resolution: defaultResolution,
		},
		{
			Name:       "tile_resample",
			Resolution: defaultResolution,
			SliderA:    unit.Slider{Min: 1, Max: 8, Default: 1},
		},
		{
			Name:       "inpaint_only",
			Resolution: defaultResolution,
			Tags:       []string{"Inpaint"},
		},
		{
			Name:       "inpaint_only+lama",
			Resolution: defaultResolution,
			Tags:       []string{"Inpaint"},
		},
		{
			Name:       "inpaint_global_harmonious",
			Resolution: defaultResolution,
			Tags:       []string{"Inpaint"},
		},
		{
			Name:       "reference_only",
			Resolution: defaultResolution,
			SliderA:    unit.Slider{Min: 0, Max: 1, Default: 0.5},
			Tags:       []string{"Reference"},
		},
		{
			Name:       "clip_vision",
			Resolution: defaultResolution,
			Tags:       []string{"Revision"},
		},
		{
			Name:       "revision_clipvision",
			Resolution: defaultResolution,
			Tags:       []string{"Revision"},
		},
		{
			Name:       "ip-adapter_clip_sd15",
			Resolution: defaultResolution,
			Tags:       []string{unit.TagIPAdapter},
		},
		{
			Name:       "ip-adapter_clip_sdxl",
			Resolution: defaultResolution,
			Tags:       []string{unit.TagIPAdapter},
		},
		{
			Name:       "ip-adapter_face_id_plus",
			Resolution: defaultResolution,
			Tags:       []string{unit.TagIPAdapter},
		},
		{
			Name:            unit.AutoEmbeddingModule,
			Resolution:      defaultResolution,
			Tags:            []string{unit.TagIPAdapter},
			ResolveForModel: resolveAutoEmbedding,
		},
	}
}

// resolveAutoEmbedding maps a conditioning model to the concrete
// embedding-style preprocessor "ip-adapter-auto" stands for.
func resolveAutoEmbedding(model string) string {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "faceid"):
		return "ip-adapter_face_id_plus"
	case strings.Contains(lower, "xl"):
		return "ip-adapter_clip_sdxl"
	default:
		return "ip-adapter_clip_sd15"
	}
}
