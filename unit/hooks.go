package unit

import (
	"fmt"

	"go.uber.org/zap"

	"cnunits/imageutil"
)

// Tensor is an opaque decoded tensor produced by the host's tensor codec.
// The validation layer stores it without inspecting it.
type Tensor any

// TagIPAdapter marks embedding-style ("IP-Adapter"-like) preprocessors in a
// preprocessor's capability tags.
const TagIPAdapter = "IP-Adapter"

// Slider is a preprocessor-declared valid range and default for one numeric
// parameter.
type Slider struct {
	Min     float64
	Max     float64
	Default float64
}

// Contains reports whether v lies within the slider's declared range.
func (s Slider) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Preprocessor is the descriptor the host's registry exposes for one
// preprocessor: parameter ranges, capability tags, and dependencies.
type Preprocessor struct {
	Name string

	// Resolution, SliderA and SliderB declare the valid range and default
	// for processor_res, threshold_a and threshold_b respectively.
	Resolution Slider
	SliderA    Slider
	SliderB    Slider

	// Tags are capability markers, e.g. "IP-Adapter" for embedding-style
	// preprocessors.
	Tags []string

	// Deps names preprocessors this one depends on, in dependency order.
	Deps []string

	// ResolveForModel maps a conditioning model to a concrete preprocessor
	// name. Only set for dispatching modules such as "ip-adapter-auto".
	ResolveForModel func(model string) string
}

// HasTag reports whether the descriptor carries the given capability tag.
func (p *Preprocessor) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Hooks is the dependency-injection context supplied by the host at process
// start. All callbacks are read-only after initialization and must be safe
// to invoke from concurrent validation calls.
type Hooks struct {
	// MatchModule reports whether a module name is a known preprocessor.
	MatchModule func(name string) bool

	// MatchModel reports whether a model name is a known conditioning model.
	MatchModel func(name string) bool

	// DecodeImage decodes an encoded image string into a pixel array.
	DecodeImage func(encoded string) (*imageutil.Array, error)

	// LoadTensor decodes a raw encoded value into an opaque tensor.
	LoadTensor func(value any) (Tensor, error)

	// GetPreprocessor returns the registry descriptor for a module name.
	GetPreprocessor func(name string) (*Preprocessor, bool)

	// Logger receives informational alias notices and parameter-clamp
	// advisories. Optional; a nop logger is used when nil.
	Logger *zap.Logger
}

// logger returns the configured logger or a nop fallback.
func (h *Hooks) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Hooks) matchModule(name string) (bool, error) {
	if h.MatchModule == nil {
		return false, fmt.Errorf("%w: MatchModule", ErrHookNotConfigured)
	}
	return h.MatchModule(name), nil
}

func (h *Hooks) matchModel(name string) (bool, error) {
	if h.MatchModel == nil {
		return false, fmt.Errorf("%w: MatchModel", ErrHookNotConfigured)
	}
	return h.MatchModel(name), nil
}

func (h *Hooks) decodeImage(encoded string) (*imageutil.Array, error) {
	if h.DecodeImage == nil {
		return nil, fmt.Errorf("%w: DecodeImage", ErrHookNotConfigured)
	}
	return h.DecodeImage(encoded)
}

func (h *Hooks) loadTensor(value any) (Tensor, error) {
	if h.LoadTensor == nil {
		return nil, fmt.Errorf("%w: LoadTensor", ErrHookNotConfigured)
	}
	return h.LoadTensor(value)
}

func (h *Hooks) preprocessor(name string) (*Preprocessor, bool) {
	if h.GetPreprocessor == nil {
		return nil, false
	}
	return h.GetPreprocessor(name)
}
