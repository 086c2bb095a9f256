package unit

import (
	"fmt"
	"strings"
)

// AutoEmbeddingModule is the generic embedding-style module name that
// resolves to a concrete preprocessor based on the selected model.
const AutoEmbeddingModule = "ip-adapter-auto"

// visionEncoderModules are preprocessors that feed a vision encoder directly.
var visionEncoderModules = map[string]bool{
	"clip_vision":            true,
	"revision_clipvision":    true,
	"revision_ignore_prompt": true,
}

// IsEmbeddingStyle reports whether the resolved preprocessor's capability
// tags carry the embedding-style marker.
func (u *Unit) IsEmbeddingStyle() bool {
	p, ok := u.hooks.preprocessor(u.Module)
	return ok && p.HasTag(TagIPAdapter)
}

// AcceptsMultipleInputs reports whether this unit can accept multiple input
// images. Only embedding-style preprocessors do.
func (u *Unit) AcceptsMultipleInputs() bool {
	return u.IsEmbeddingStyle()
}

// UsesVisionEncoder reports whether this unit's preprocessor runs a vision
// encoder: embedding-style modules except face-identity variants, plus a
// fixed set of vision-encoder preprocessors.
func (u *Unit) UsesVisionEncoder() bool {
	if strings.Contains(u.Module, "ip-adapter") && !strings.Contains(u.Module, "face_id") {
		return true
	}
	return visionEncoderModules[u.Module]
}

// IsInpaint reports whether this unit runs an inpainting preprocessor.
func (u *Unit) IsInpaint() bool {
	return strings.Contains(u.Module, "inpaint")
}

// IsAnimateDiffBatch reports whether this unit carries AnimateDiff batch
// metadata.
func (u *Unit) IsAnimateDiffBatch() bool {
	return u.AnimateDiffBatch
}

// ResolvedPreprocessorChain returns the primary preprocessor plus all of
// its declared dependencies, in dependency order. The generic
// "ip-adapter-auto" module is first resolved to a concrete preprocessor
// based on the selected model.
func (u *Unit) ResolvedPreprocessorChain() ([]*Preprocessor, error) {
	p, ok := u.hooks.preprocessor(u.Module)
	if !ok {
		return nil, fmt.Errorf("%w: module(%s) not found in supported modules",
			ErrUnknownValue, u.Module)
	}

	if u.Module == AutoEmbeddingModule && p.ResolveForModel != nil {
		resolved := p.ResolveForModel(u.Model)
		p, ok = u.hooks.preprocessor(resolved)
		if !ok {
			return nil, fmt.Errorf("%w: module(%s) resolved for model(%s) not found in supported modules",
				ErrUnknownValue, resolved, u.Model)
		}
	}

	chain := []*Preprocessor{p}
	for _, dep := range p.Deps {
		d, ok := u.hooks.preprocessor(dep)
		if !ok {
			return nil, fmt.Errorf("%w: dependency(%s) of module(%s) not found in supported modules",
				ErrUnknownValue, dep, p.Name)
		}
		chain = append(chain, d)
	}
	return chain, nil
}
