package unit

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cnunits/imageutil"
)

// legacyAliases maps field names accepted for external compatibility to
// their canonical spellings, in fixed resolution order.
var legacyAliases = []struct {
	alias     string
	canonical string
}{
	{"guessmode", "guess_mode"},
	{"guidance", "guidance_end"},
	{"lowvram", "low_vram"},
}

// errShortCircuit stops the pipeline after coercion when the unit is
// disabled. Internal; never returned to callers.
var errShortCircuit = errors.New("unit: disabled, validation short-circuited")

// Validator turns untyped field mappings into validated Units. It holds the
// host's dependency-injection context and is safe for concurrent use once
// constructed.
type Validator struct {
	hooks Hooks
}

// NewValidator returns a Validator bound to the given host hooks.
func NewValidator(hooks Hooks) *Validator {
	return &Validator{hooks: hooks}
}

// staging is the intermediate mutable record the pipeline steps transform.
// Earlier steps normalize the key space; later steps assume it.
type staging struct {
	values map[string]any
	unit   *Unit
}

// FromMap constructs a validated Unit from an untyped field mapping, as
// supplied by an API payload, UI state snapshot, or saved-generation
// metadata. Keys may include legacy aliases; unknown keys are ignored.
//
// The first violation encountered wins; on error no Unit is returned.
// When the mapping disables the unit, validation short-circuits: remaining
// fields are coerced leniently and never fail construction.
func (v *Validator) FromMap(values map[string]any) (*Unit, error) {
	st := &staging{
		values: make(map[string]any, len(values)),
		unit:   newDefault(&v.hooks),
	}
	for k, raw := range values {
		st.values[k] = raw
	}

	steps := []func(*staging) error{
		v.resolveLegacyAliases,
		v.resolveMaskAlias,
		v.coerceFields,
		v.clampSliderParams,
		v.checkGuidanceWindow,
		v.decodeRegionMask,
		v.decodeIPAdapterInput,
	}
	for _, step := range steps {
		if err := step(st); err != nil {
			if errors.Is(err, errShortCircuit) {
				break
			}
			return nil, err
		}
	}
	return st.unit, nil
}

// FromJSON constructs a validated Unit from a JSON object.
func (v *Validator) FromJSON(data []byte) (*Unit, error) {
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return v.FromMap(values)
}

// resolveLegacyAliases moves legacy alias keys onto their canonical keys.
// An alias supplied together with its canonical field is a conflict; alias
// use alone emits an informational notice.
func (v *Validator) resolveLegacyAliases(st *staging) error {
	for _, pair := range legacyAliases {
		raw, ok := st.values[pair.alias]
		if !ok {
			continue
		}
		if _, exists := st.values[pair.canonical]; exists {
			return fmt.Errorf("%w: '%s' and '%s'", ErrFieldConflict, pair.alias, pair.canonical)
		}
		st.values[pair.canonical] = raw
		delete(st.values, pair.alias)
		v.hooks.logger().Info("deprecated field alias detected",
			zap.String("alias", pair.alias),
			zap.String("field", pair.canonical))
	}
	return nil
}

// resolveMaskAlias adopts the legacy 'mask_image' key onto 'mask'. Both
// present at once is a conflict.
func (v *Validator) resolveMaskAlias(st *staging) error {
	maskImage, ok := st.values["mask_image"]
	if !ok || maskImage == nil {
		return nil
	}
	if mask, exists := st.values["mask"]; exists && mask != nil {
		return fmt.Errorf("%w: cannot specify both 'mask' and 'mask_image'", ErrFieldConflict)
	}
	st.values["mask"] = maskImage
	delete(st.values, "mask_image")
	return nil
}

// coerceFields coerces every known field into its canonical typed form and
// checks module/model against the host registries. When the unit is
// disabled, coercion is lenient - unparseable values keep their defaults -
// and the pipeline short-circuits.
func (v *Validator) coerceFields(st *staging) error {
	u := st.unit

	if raw, ok := st.values["enabled"]; ok && raw != nil {
		b, err := toBool("enabled", raw)
		if err != nil {
			return err
		}
		u.Enabled = b
	}
	strict := u.Enabled

	type fieldOp struct {
		key string
		set func(raw any) error
	}
	ops := []fieldOp{
		{"is_ui", func(raw any) error {
			b, err := toBool("is_ui", raw)
			if err == nil {
				u.IsUI = b
			}
			return err
		}},
		{"input_mode", func(raw any) error {
			m, err := ParseInputMode(raw)
			if err == nil {
				u.InputMode = m
			}
			return err
		}},
		{"loopback", func(raw any) error {
			b, err := toBool("loopback", raw)
			if err == nil {
				u.Loopback = b
			}
			return err
		}},
		{"module", func(raw any) error {
			s, err := toString("module", raw)
			if err == nil {
				u.Module = s
			}
			return err
		}},
		{"model", func(raw any) error {
			s, err := toString("model", raw)
			if err == nil {
				u.Model = s
			}
			return err
		}},
		{"weight", func(raw any) error {
			f, err := toFloat("weight", raw)
			if err != nil {
				return err
			}
			if f < MinWeight || f > MaxWeight {
				return fmt.Errorf("%w: weight(%v) must be within [%v, %v]",
					ErrRangeViolation, f, MinWeight, MaxWeight)
			}
			u.Weight = f
			return nil
		}},
		{"image", func(raw any) error {
			field, err := parseImageField(raw)
			if err == nil {
				u.Image = field
			}
			return err
		}},
		{"mask", func(raw any) error {
			src, err := parseImageSource("mask", raw)
			if err == nil {
				u.Mask = src
			}
			return err
		}},
		{"resize_mode", func(raw any) error {
			m, err := ParseResizeMode(raw)
			if err == nil {
				u.ResizeMode = m
			}
			return err
		}},
		{"low_vram", func(raw any) error {
			b, err := toBool("low_vram", raw)
			if err == nil {
				u.LowVRAM = b
			}
			return err
		}},
		{"processor_res", func(raw any) error {
			f, err := toFloat("processor_res", raw)
			if err == nil {
				u.ProcessorRes = f
			}
			return err
		}},
		{"threshold_a", func(raw any) error {
			f, err := toFloat("threshold_a", raw)
			if err == nil {
				u.ThresholdA = f
			}
			return err
		}},
		{"threshold_b", func(raw any) error {
			f, err := toFloat("threshold_b", raw)
			if err == nil {
				u.ThresholdB = f
			}
			return err
		}},
		{"guidance_start", func(raw any) error {
			f, err := toFloat("guidance_start", raw)
			if err != nil {
				return err
			}
			if f < 0 || f > 1 {
				return fmt.Errorf("%w: guidance_start(%v) must be within [0, 1]", ErrRangeViolation, f)
			}
			u.GuidanceStart = f
			return nil
		}},
		{"guidance_end", func(raw any) error {
			f, err := toFloat("guidance_end", raw)
			if err != nil {
				return err
			}
			if f < 0 || f > 1 {
				return fmt.Errorf("%w: guidance_end(%v) must be within [0, 1]", ErrRangeViolation, f)
			}
			u.GuidanceEnd = f
			return nil
		}},
		{"pixel_perfect", func(raw any) error {
			b, err := toBool("pixel_perfect", raw)
			if err == nil {
				u.PixelPerfect = b
			}
			return err
		}},
		{"control_mode", func(raw any) error {
			m, err := ParseControlMode(raw)
			if err == nil {
				u.ControlMode = m
			}
			return err
		}},
		{"inpaint_crop_input_image", func(raw any) error {
			b, err := toBool("inpaint_crop_input_image", raw)
			if err == nil {
				u.InpaintCropInputImage = b
			}
			return err
		}},
		{"hr_option", func(raw any) error {
			o, err := ParseHiResFixOption(raw)
			if err == nil {
				u.HiResOption = o
			}
			return err
		}},
		{"save_detected_map", func(raw any) error {
			b, err := toBool("save_detected_map", raw)
			if err == nil {
				u.SaveDetectedMap = b
			}
			return err
		}},
		{"advanced_weighting", func(raw any) error {
			w, err := toFloatSlice("advanced_weighting", raw)
			if err == nil {
				u.AdvancedWeighting = w
			}
			return err
		}},
		{"pulid_mode", func(raw any) error {
			m, err := ParsePuLIDMode(raw)
			if err == nil {
				u.PuLIDMode = m
			}
			return err
		}},
		{"union_control_type", func(raw any) error {
			t, err := ParseUnionControlType(raw)
			if err == nil {
				u.UnionControlType = t
			}
			return err
		}},
		{"batch_images", func(raw any) error {
			u.BatchImages = raw
			return nil
		}},
		{"output_dir", func(raw any) error {
			s, err := toString("output_dir", raw)
			if err == nil {
				u.OutputDir = s
			}
			return err
		}},
		{"batch_mask_dir", func(raw any) error {
			s, err := toString("batch_mask_dir", raw)
			if err == nil {
				u.BatchMaskDir = s
			}
			return err
		}},
		{"animatediff_batch", func(raw any) error {
			b, err := toBool("animatediff_batch", raw)
			if err == nil {
				u.AnimateDiffBatch = b
			}
			return err
		}},
		{"batch_modifiers", func(raw any) error {
			items, ok := raw.([]any)
			if !ok {
				return fmt.Errorf("%w: batch_modifiers(%v) is not a sequence", ErrMalformedInput, raw)
			}
			u.BatchModifiers = append([]any(nil), items...)
			return nil
		}},
		{"batch_image_files", func(raw any) error {
			files, err := toStringSlice("batch_image_files", raw)
			if err == nil {
				u.BatchImageFiles = files
			}
			return err
		}},
		{"batch_keyframe_idx", func(raw any) error {
			switch raw.(type) {
			case string, []any:
				u.BatchKeyframeIdx = raw
				return nil
			}
			return fmt.Errorf("%w: batch_keyframe_idx(%v) must be a string or sequence",
				ErrMalformedInput, raw)
		}},
	}

	for _, op := range ops {
		raw, ok := st.values[op.key]
		if !ok || raw == nil {
			continue
		}
		if err := op.set(raw); err != nil && strict {
			return err
		}
	}

	if !strict {
		return errShortCircuit
	}

	ok, err := v.hooks.matchModule(u.Module)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: module(%s) not found in supported modules", ErrUnknownValue, u.Module)
	}
	ok, err = v.hooks.matchModel(u.Model)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: model(%s) not found in supported models", ErrUnknownValue, u.Model)
	}
	return nil
}

// clampSliderParams replaces out-of-range preprocessor parameters with the
// registry-declared defaults. This is silent correction, not an error; a
// non-sentinel rejected value additionally produces an advisory log entry.
func (v *Validator) clampSliderParams(st *staging) error {
	u := st.unit
	p, ok := v.hooks.preprocessor(u.Module)
	if !ok {
		return nil
	}

	params := []struct {
		name   string
		value  *float64
		slider Slider
	}{
		{"processor_res", &u.ProcessorRes, p.Resolution},
		{"threshold_a", &u.ThresholdA, p.SliderA},
		{"threshold_b", &u.ThresholdB, p.SliderB},
	}
	for _, param := range params {
		rejected := *param.value
		if param.slider.Contains(rejected) {
			continue
		}
		*param.value = param.slider.Default
		if rejected != SliderUnset {
			v.hooks.logger().Info("invalid preprocessor parameter, using declared default",
				zap.String("module", u.Module),
				zap.String("param", param.name),
				zap.Float64("value", rejected),
				zap.Float64("default", param.slider.Default))
		}
	}
	return nil
}

// checkGuidanceWindow enforces guidance_start <= guidance_end.
func (v *Validator) checkGuidanceWindow(st *staging) error {
	u := st.unit
	if u.GuidanceStart > u.GuidanceEnd {
		return fmt.Errorf("%w: guidance_start(%v) > guidance_end(%v)",
			ErrRangeViolation, u.GuidanceStart, u.GuidanceEnd)
	}
	return nil
}

// decodeRegionMask decodes a string-encoded effective region mask through
// the host's image-decode hook. Already-decoded arrays pass through.
func (v *Validator) decodeRegionMask(st *staging) error {
	raw, ok := st.values["effective_region_mask"]
	if !ok || raw == nil {
		return nil
	}
	switch mask := raw.(type) {
	case string:
		arr, err := v.hooks.decodeImage(mask)
		if err != nil {
			return err
		}
		st.unit.EffectiveRegionMask = arr
	case *imageutil.Array:
		st.unit.EffectiveRegionMask = mask
	case imageutil.Array:
		st.unit.EffectiveRegionMask = &mask
	default:
		return fmt.Errorf("%w: effective_region_mask(%T) must be a string or array",
			ErrMalformedInput, raw)
	}
	return nil
}

// decodeIPAdapterInput decodes pre-embedded IP-Adapter input through the
// host's tensor hook. A single string is wrapped into a one-element
// sequence; the result must be non-empty.
func (v *Validator) decodeIPAdapterInput(st *staging) error {
	raw, ok := st.values["ipadapter_input"]
	if !ok || raw == nil {
		return nil
	}

	var items []any
	switch value := raw.(type) {
	case string:
		items = []any{value}
	case []any:
		items = value
	default:
		return fmt.Errorf("%w: ipadapter_input(%T) must be a string or sequence",
			ErrMalformedInput, raw)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: ipadapter_input cannot be empty", ErrMalformedInput)
	}

	tensors := make([]Tensor, 0, len(items))
	for _, item := range items {
		tensor, err := v.hooks.loadTensor(item)
		if err != nil {
			return err
		}
		tensors = append(tensors, tensor)
	}
	st.unit.IPAdapterInput = tensors
	return nil
}
