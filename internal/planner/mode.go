package planner

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/danieljhkim/prod2lab/internal/config"
	"github.com/danieljhkim/prod2lab/internal/document"
)

var logger = loggo.GetLogger("prod2lab.planner")

// ErrInvalidMode is returned when the requested rule set cannot run
// against the master document's mode.
const ErrInvalidMode = errors.ConstError("invalid mode")

// Mode is the operating mode detected from a master document.
type Mode struct {
	// BundleBuilder is set when the layer builds its bundle from the
	// master and placement documents.
	BundleBuilder bool

	// AutomaticPlacement is set when the layer computes placement itself.
	// It implies BundleBuilder.
	AutomaticPlacement bool

	// Kubernetes selects the Kubernetes rule subset.
	Kubernetes bool
}

// String returns a human-readable description of the mode.
func (m Mode) String() string {
	var s string
	switch {
	case m.AutomaticPlacement:
		s = "bundle builder with automatic placement"
	case m.BundleBuilder:
		s = "bundle builder with placement"
	default:
		s = "flat bundle"
	}
	if m.Kubernetes {
		return "kubernetes, " + s
	}
	return s
}

// Layer returns the master layer whose flags select the mode.
func (m Mode) Layer(cfg *config.Config) string {
	if m.Kubernetes {
		return cfg.Kubernetes.Layer
	}
	return cfg.OpenStack.Layer
}

// DetectMode reads the mode flags from the layer that the requested rule
// set works on. Kubernetes mode is only valid with bundle-builder and
// automatic placement both enabled.
func DetectMode(master *document.Master, cfg *config.Config, kubernetes bool) (Mode, error) {
	mode := Mode{Kubernetes: kubernetes}
	layer := mode.Layer(cfg)
	mode.BundleBuilder = document.UsesBundleBuilder(master, layer)
	mode.AutomaticPlacement = document.UsesAutomaticPlacement(master, layer)
	logger.Debugf("layer %s: bundle builder %v, automatic placement %v",
		layer, mode.BundleBuilder, mode.AutomaticPlacement)

	if kubernetes && !(mode.BundleBuilder && mode.AutomaticPlacement) {
		return mode, errors.Annotatef(ErrInvalidMode,
			"kubernetes mode needs bundle builder and automatic placement on layer %s", layer)
	}
	return mode, nil
}
