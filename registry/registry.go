// Package registry provides the default host-side preprocessor and
// conditioning-model registry backing the unit validation hooks.
//
// The registry ships with a built-in table of common preprocessors and can
// be extended from a YAML file at startup. After initialization it is
// read-only from the validator's perspective; lookups are safe for
// concurrent use.
package registry

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"cnunits/codec"
	"cnunits/imageutil"
	"cnunits/unit"
)

// Registry holds preprocessor descriptors and recognized conditioning-model
// names.
type Registry struct {
	mu            sync.RWMutex
	preprocessors map[string]*unit.Preprocessor
	models        map[string]bool
}

// New returns a Registry seeded with the built-in preprocessor table and
// model list.
func New() *Registry {
	r := &Registry{
		preprocessors: make(map[string]*unit.Preprocessor),
		models:        make(map[string]bool),
	}
	for _, p := range builtinPreprocessors() {
		r.preprocessors[p.Name] = p
	}
	for _, m := range builtinModels {
		r.models[m] = true
	}
	return r
}

// AddPreprocessor registers or replaces a preprocessor descriptor.
func (r *Registry) AddPreprocessor(p *unit.Preprocessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preprocessors[p.Name] = p
}

// AddModels registers conditioning-model names.
func (r *Registry) AddModels(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.models[name] = true
	}
}

// Preprocessor returns the descriptor for a module name.
func (r *Registry) Preprocessor(name string) (*unit.Preprocessor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.preprocessors[name]
	return p, ok
}

// HasModule reports whether a module name is a known preprocessor.
func (r *Registry) HasModule(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.preprocessors[name]
	return ok
}

// HasModel reports whether a model name is recognized. The "None"
// placeholder is always recognized, and a trailing " [hash]" suffix as
// emitted by the host UI is ignored.
func (r *Registry) HasModel(name string) bool {
	if name == unit.DefaultModel {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.models[name] {
		return true
	}
	return r.models[stripHashSuffix(name)]
}

// Modules returns the registered module names, unordered.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.preprocessors))
	for name := range r.preprocessors {
		out = append(out, name)
	}
	return out
}

// Hooks returns the unit validation hooks backed by this registry and the
// default codecs. Build the hooks once at host startup and share them
// across validation calls.
func (r *Registry) Hooks(logger *zap.Logger) unit.Hooks {
	return unit.Hooks{
		MatchModule: r.HasModule,
		MatchModel:  r.HasModel,
		DecodeImage: func(encoded string) (*imageutil.Array, error) {
			arr, err := codec.DecodeBase64Image(encoded)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", unit.ErrMalformedInput, err)
			}
			return arr, nil
		},
		LoadTensor: func(value any) (unit.Tensor, error) {
			tensor, err := codec.DecodeTensor(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", unit.ErrMalformedInput, err)
			}
			return tensor, nil
		},
		GetPreprocessor: r.Preprocessor,
		Logger:          logger,
	}
}

// stripHashSuffix removes the " [abcd1234]" suffix the host UI appends to
// model names.
func stripHashSuffix(name string) string {
	if i := strings.LastIndex(name, " ["); i > 0 && strings.HasSuffix(name, "]") {
		return name[:i]
	}
	return name
}

// sliderSpec is the YAML form of a slider declaration.
type sliderSpec struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Default float64 `yaml:"default"`
}

// preprocessorSpec is the YAML form of a preprocessor declaration.
type preprocessorSpec struct {
	Name       string     `yaml:"name"`
	Tags       []string   `yaml:"tags"`
	Deps       []string   `yaml:"deps"`
	Resolution sliderSpec `yaml:"resolution"`
	SliderA    sliderSpec `yaml:"slider_a"`
	SliderB    sliderSpec `yaml:"slider_b"`
}

// extensionFile is the YAML schema for registry extensions.
type extensionFile struct {
	Preprocessors []preprocessorSpec `yaml:"preprocessors"`
	Models        []string           `yaml:"models"`
}

// LoadYAML extends the registry from a YAML file declaring additional
// preprocessors and models. Declarations replace same-named builtins.
func (r *Registry) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("registry: reading %s: %w", path, err)
	}

	var ext extensionFile
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return fmt.Errorf("registry: parsing %s: %w", path, err)
	}

	for _, spec := range ext.Preprocessors {
		if spec.Name == "" {
			return fmt.Errorf("registry: %s: preprocessor declaration missing name", path)
		}
		r.AddPreprocessor(&unit.Preprocessor{
			Name:       spec.Name,
			Tags:       spec.Tags,
			Deps:       spec.Deps,
			Resolution: unit.Slider(spec.Resolution),
			SliderA:    unit.Slider(spec.SliderA),
			SliderB:    unit.Slider(spec.SliderB),
		})
	}
	r.AddModels(ext.Models...)
	return nil
}
