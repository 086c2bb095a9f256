// Package unit implements the validated conditioning-unit record for an
// image-generation pipeline.
//
// A Unit describes one conditioning pass: which preprocessor to run, which
// conditioning model to apply, how strongly, over what portion of the
// denoising schedule, and on what input image/mask. The package is a
// data-validation and normalization layer - it has no scheduler, storage, or
// transport of its own. The surrounding host (preprocessor registry, model
// registry, image/tensor codecs, logger) is reached only through the narrow
// Hooks callbacks.
//
// # Construction
//
// Units are built through a Validator configured once at host startup:
//
//	v := unit.NewValidator(hooks)
//	u, err := v.FromMap(map[string]any{
//	    "enabled":     true,
//	    "module":      "canny",
//	    "model":       "control_v11p_sd15_canny",
//	    "resize_mode": "Crop and Resize",
//	})
//
// Construction runs an ordered pipeline: legacy-alias resolution, mask-alias
// resolution, per-field coercion (including module/model recognition),
// preprocessor parameter clamping, guidance-window consistency, region-mask
// decoding, and IP-Adapter tensor decoding. The first violation wins; no
// partial Unit is ever returned.
//
// A validated Unit is treated as immutable. Reuse across a batch goes through
// Duplicate, which shares no mutable backing storage with the original.
//
// # Error Handling
//
// Failures wrap one of the package sentinels; use errors.Is:
//
//	_, err := v.FromMap(values)
//	if errors.Is(err, unit.ErrRangeViolation) {
//	    // guidance window or numeric bound violated
//	}
package unit
