package unit

import "fmt"

// ResizeMode controls how the conditioning input is fitted to the
// generation resolution.
type ResizeMode string

const (
	ResizeModeJustResize ResizeMode = "Just Resize"
	ResizeModeInnerFit   ResizeMode = "Crop and Resize"
	ResizeModeOuterFit   ResizeMode = "Resize and Fill"
)

// resizeModeAliases maps legacy human-readable resize-mode labels to the
// canonical labels. Consulted before enum parsing.
var resizeModeAliases = map[string]string{
	"Inner Fit (Scale to Fit)":  string(ResizeModeInnerFit),
	"Outer Fit (Shrink to Fit)": string(ResizeModeOuterFit),
	"Scale to Fit (Inner Fit)":  string(ResizeModeInnerFit),
	"Envelope (Outer Fit)":      string(ResizeModeOuterFit),
}

// resizeModeByIndex supports the integer encoding used by older API clients.
var resizeModeByIndex = []ResizeMode{
	ResizeModeJustResize,
	ResizeModeInnerFit,
	ResizeModeOuterFit,
}

// ParseResizeMode parses a raw resize-mode value. Accepted forms: canonical
// label, legacy display alias, or integer index.
func ParseResizeMode(value any) (ResizeMode, error) {
	if idx, ok := intIndex(value); ok {
		if idx >= 0 && idx < len(resizeModeByIndex) {
			return resizeModeByIndex[idx], nil
		}
		return "", fmt.Errorf("%w: resize_mode(%d)", ErrUnknownValue, idx)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: resize_mode(%v)", ErrUnknownValue, value)
	}
	if canonical, ok := resizeModeAliases[s]; ok {
		s = canonical
	}
	switch ResizeMode(s) {
	case ResizeModeJustResize, ResizeModeInnerFit, ResizeModeOuterFit:
		return ResizeMode(s), nil
	}
	return "", fmt.Errorf("%w: resize_mode(%q)", ErrUnknownValue, s)
}

// ControlMode balances the conditioning signal against the text prompt.
type ControlMode string

const (
	ControlModeBalanced   ControlMode = "Balanced"
	ControlModePrompt     ControlMode = "My prompt is more important"
	ControlModeControlNet ControlMode = "ControlNet is more important"
)

var controlModeByIndex = []ControlMode{
	ControlModeBalanced,
	ControlModePrompt,
	ControlModeControlNet,
}

// ParseControlMode parses a raw control-mode value: canonical label or
// integer index.
func ParseControlMode(value any) (ControlMode, error) {
	if idx, ok := intIndex(value); ok {
		if idx >= 0 && idx < len(controlModeByIndex) {
			return controlModeByIndex[idx], nil
		}
		return "", fmt.Errorf("%w: control_mode(%d)", ErrUnknownValue, idx)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: control_mode(%v)", ErrUnknownValue, value)
	}
	switch ControlMode(s) {
	case ControlModeBalanced, ControlModePrompt, ControlModeControlNet:
		return ControlMode(s), nil
	}
	return "", fmt.Errorf("%w: control_mode(%q)", ErrUnknownValue, s)
}

// HiResFixOption selects which generation passes a unit applies to when
// hires fix is enabled. Ignored otherwise.
type HiResFixOption string

const (
	HiResFixBoth        HiResFixOption = "Both"
	HiResFixLowResOnly  HiResFixOption = "Low res only"
	HiResFixHighResOnly HiResFixOption = "High res only"
)

// ParseHiResFixOption parses a raw hires-fix option label.
func ParseHiResFixOption(value any) (HiResFixOption, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: hr_option(%v)", ErrUnknownValue, value)
	}
	switch HiResFixOption(s) {
	case HiResFixBoth, HiResFixLowResOnly, HiResFixHighResOnly:
		return HiResFixOption(s), nil
	}
	return "", fmt.Errorf("%w: hr_option(%q)", ErrUnknownValue, s)
}

// PuLIDMode is the weight mode for PuLID face-identity conditioning.
type PuLIDMode string

const (
	PuLIDModeFidelity PuLIDMode = "Fidelity"
	PuLIDModeStyle    PuLIDMode = "Style"
)

// ParsePuLIDMode parses a raw PuLID mode label.
func ParsePuLIDMode(value any) (PuLIDMode, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: pulid_mode(%v)", ErrUnknownValue, value)
	}
	switch PuLIDMode(s) {
	case PuLIDModeFidelity, PuLIDModeStyle:
		return PuLIDMode(s), nil
	}
	return "", fmt.Errorf("%w: pulid_mode(%q)", ErrUnknownValue, s)
}

// UnionControlType is the control type hint for union-type conditioning
// models. Only consulted when the selected model is a union model.
type UnionControlType string

const (
	UnionControlUnknown      UnionControlType = "Unknown"
	UnionControlOpenPose     UnionControlType = "OpenPose"
	UnionControlDepth        UnionControlType = "Depth"
	UnionControlSoftEdge     UnionControlType = "HED/PIDI/Scribble/Ted"
	UnionControlHardEdge     UnionControlType = "Canny/Lineart/AnimeLineart/MLSD"
	UnionControlNormalMap    UnionControlType = "NormalMap"
	UnionControlSegmentation UnionControlType = "Segmentation"
	UnionControlTile         UnionControlType = "Tile"
	UnionControlRepaint      UnionControlType = "Repaint"
)

// ParseUnionControlType parses a raw union control-type label.
func ParseUnionControlType(value any) (UnionControlType, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: union_control_type(%v)", ErrUnknownValue, value)
	}
	switch UnionControlType(s) {
	case UnionControlUnknown, UnionControlOpenPose, UnionControlDepth,
		UnionControlSoftEdge, UnionControlHardEdge, UnionControlNormalMap,
		UnionControlSegmentation, UnionControlTile, UnionControlRepaint:
		return UnionControlType(s), nil
	}
	return "", fmt.Errorf("%w: union_control_type(%q)", ErrUnknownValue, s)
}

// InputMode records how the UI supplied the unit's input. It has no effect
// on computation.
type InputMode string

const (
	InputModeSimple InputMode = "simple"
	InputModeBatch  InputMode = "batch"
	InputModeMerge  InputMode = "merge"
)

// ParseInputMode parses a raw input-mode label.
func ParseInputMode(value any) (InputMode, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: input_mode(%v)", ErrUnknownValue, value)
	}
	switch InputMode(s) {
	case InputModeSimple, InputModeBatch, InputModeMerge:
		return InputMode(s), nil
	}
	return "", fmt.Errorf("%w: input_mode(%q)", ErrUnknownValue, s)
}

// intIndex extracts an integer index from the numeric encodings JSON and
// API clients produce. Floats qualify only when integral.
func intIndex(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
