package unit

import (
	"fmt"
	"strconv"
	"strings"
)

// infotextFields is the fixed projection order of the textual serialization
// subset.
var infotextFields = []string{
	"module",
	"model",
	"weight",
	"resize_mode",
	"processor_res",
	"threshold_a",
	"threshold_b",
	"guidance_start",
	"guidance_end",
	"pixel_perfect",
	"control_mode",
}

// Serialize projects the infotext subset of fields into the textual
// "key: value, key: value" form used in generation metadata. Only the fixed
// 11-field subset participates; everything else takes defaults on Parse.
func (u *Unit) Serialize() string {
	parts := make([]string, 0, len(infotextFields))
	for _, field := range infotextFields {
		parts = append(parts, field+": "+u.infotextValue(field))
	}
	return strings.Join(parts, ", ")
}

// infotextValue stringifies one infotext field: enums by canonical label,
// booleans in the host's "True"/"False" wire form, numbers in minimal form.
func (u *Unit) infotextValue(field string) string {
	switch field {
	case "module":
		return u.Module
	case "model":
		return u.Model
	case "weight":
		return formatNumber(u.Weight)
	case "resize_mode":
		return string(u.ResizeMode)
	case "processor_res":
		return formatNumber(u.ProcessorRes)
	case "threshold_a":
		return formatNumber(u.ThresholdA)
	case "threshold_b":
		return formatNumber(u.ThresholdB)
	case "guidance_start":
		return formatNumber(u.GuidanceStart)
	case "guidance_end":
		return formatNumber(u.GuidanceEnd)
	case "pixel_perfect":
		return formatBool(u.PixelPerfect)
	case "control_mode":
		return string(u.ControlMode)
	}
	return ""
}

// Parse reconstructs a Unit from its infotext form. Each comma-separated
// segment must split on the first ": " into a key/value pair; values are
// interpreted as the most specific scalar and fed through the same
// validation pipeline as FromMap. The parsed unit keeps enabled at its
// default false, so coercion is lenient and serialized values survive
// verbatim; recognition and clamping apply once the host enables the unit
// through reconstruction.
func (v *Validator) Parse(text string) (*Unit, error) {
	values := map[string]any{}
	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		key, value, found := strings.Cut(item, ": ")
		if !found {
			return nil, fmt.Errorf("%w: infotext segment %q", ErrMalformedInput, item)
		}
		values[strings.TrimSpace(key)] = parseScalar(strings.TrimSpace(value))
	}
	return v.FromMap(values)
}

// FromInfotext constructs a Unit from positional values in the fixed
// serialization order, as the host passes them when restoring UI state.
// Like Parse, it leaves enabled at its default false.
func (v *Validator) FromInfotext(args ...any) (*Unit, error) {
	if len(args) != len(infotextFields) {
		return nil, fmt.Errorf("%w: expected %d infotext values, got %d",
			ErrMalformedInput, len(infotextFields), len(args))
	}
	values := map[string]any{}
	for i, field := range infotextFields {
		values[field] = args[i]
	}
	return v.FromMap(values)
}

// formatNumber renders a float in its minimal decimal form.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatBool renders a boolean in the host's wire form.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
