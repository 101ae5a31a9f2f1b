package pagescmd

import "errors"

// ErrImportDisabled is returned when the import feature gate is closed.
var ErrImportDisabled = errors.New("pagescmd: markdown import is disabled")

// FeatureGates exposes runtime feature toggles required by page command handlers.
// Callers inject closures wired to docs.Config.Features.
type FeatureGates struct {
	// ImportEnabled should return true when markdown directory imports are allowed.
	ImportEnabled func() bool
}

func (g FeatureGates) importEnabled() bool {
	if g.ImportEnabled == nil {
		return true
	}
	return g.ImportEnabled()
}
