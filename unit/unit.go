package unit

import "cnunits/imageutil"

// Default field values, mirroring the host UI's defaults.
const (
	DefaultModule = "none"
	DefaultModel  = "None"

	// SliderUnset is the sentinel for processor_res/threshold_a/threshold_b
	// meaning "use the preprocessor's declared default". Clamping replaces
	// it silently, without an advisory.
	SliderUnset = -1

	MinWeight = 0.0
	MaxWeight = 2.0
)

// Unit is one validated conditioning-pass configuration record.
//
// A Unit is constructed once through a Validator and treated as immutable
// afterwards; any "modification" goes through reconstruction from a map
// snapshot. Duplicate produces an independent copy for batched reuse.
type Unit struct {
	// UI-only flags with no effect on computation.
	IsUI      bool
	InputMode InputMode
	Loopback  bool

	Enabled bool
	Module  string
	Model   string
	Weight  float64

	// Image is the raw input bundle; nil when no image was supplied.
	// GetInputImagesRGBA normalizes it into 4-channel arrays.
	Image *ImageField

	// Mask is the top-level mask applied to simple-form images.
	Mask *ImageSource

	ResizeMode   ResizeMode
	LowVRAM      bool
	ProcessorRes float64
	ThresholdA   float64
	ThresholdB   float64

	// Guidance window: the fraction of the denoising schedule during which
	// this unit is active. GuidanceStart <= GuidanceEnd always holds.
	GuidanceStart float64
	GuidanceEnd   float64

	PixelPerfect bool
	ControlMode  ControlMode

	// InpaintCropInputImage crops the input to the img2img mask when the
	// host's inpaint area is set to "Only masked".
	InpaintCropInputImage bool

	HiResOption     HiResFixOption
	SaveDetectedMap bool

	// AdvancedWeighting holds per-layer weight overrides. When set it
	// supersedes Weight in most weight-computation paths; see LayerWeight.
	AdvancedWeighting []float64

	// EffectiveRegionMask spatially restricts the unit's effect.
	EffectiveRegionMask *imageutil.Array

	PuLIDMode        PuLIDMode
	UnionControlType UnionControlType

	// IPAdapterInput is pre-embedded preprocessor output supplied through
	// the API, bypassing the image pipeline. Non-empty when set.
	IPAdapterInput []Tensor

	// Batch/automation metadata. Recorded but not validated beyond presence.
	BatchImages      any
	OutputDir        string
	BatchMaskDir     string
	AnimateDiffBatch bool
	BatchModifiers   []any
	BatchImageFiles  []string
	BatchKeyframeIdx any

	hooks *Hooks
}

// newDefault returns a Unit with all fields at their defaults, bound to the
// given hooks.
func newDefault(h *Hooks) *Unit {
	return &Unit{
		InputMode:             InputModeSimple,
		Module:                DefaultModule,
		Model:                 DefaultModel,
		Weight:                1.0,
		ResizeMode:            ResizeModeInnerFit,
		ProcessorRes:          SliderUnset,
		ThresholdA:            SliderUnset,
		ThresholdB:            SliderUnset,
		GuidanceStart:         0.0,
		GuidanceEnd:           1.0,
		ControlMode:           ControlModeBalanced,
		InpaintCropInputImage: true,
		HiResOption:           HiResFixBoth,
		SaveDetectedMap:       true,
		PuLIDMode:             PuLIDModeFidelity,
		UnionControlType:      UnionControlUnknown,
		hooks:                 h,
	}
}

// LayerWeight returns the weight for one conditioning layer: the per-layer
// override when AdvancedWeighting covers the index, the scalar Weight
// otherwise. Special-cased preprocessors (e.g. reference-only) consult the
// scalar Weight directly even when overrides are present; that decision
// belongs to the conditioning-application component.
func (u *Unit) LayerWeight(layer int) float64 {
	if layer >= 0 && layer < len(u.AdvancedWeighting) {
		return u.AdvancedWeighting[layer]
	}
	return u.Weight
}

// Duplicate returns an independent copy sharing no mutable backing storage
// with the original. Array-valued fields are deep-copied; opaque tensor
// blobs are shared, as the validation layer never mutates them.
func (u *Unit) Duplicate() *Unit {
	out := *u

	out.Image = u.Image.clone()
	out.Mask = u.Mask.clone()
	out.EffectiveRegionMask = u.EffectiveRegionMask.Clone()

	if u.AdvancedWeighting != nil {
		out.AdvancedWeighting = append([]float64(nil), u.AdvancedWeighting...)
	}
	if u.IPAdapterInput != nil {
		out.IPAdapterInput = append([]Tensor(nil), u.IPAdapterInput...)
	}
	if u.BatchModifiers != nil {
		out.BatchModifiers = append([]any(nil), u.BatchModifiers...)
	}
	if u.BatchImageFiles != nil {
		out.BatchImageFiles = append([]string(nil), u.BatchImageFiles...)
	}
	return &out
}
