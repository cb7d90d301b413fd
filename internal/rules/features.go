package rules

import (
	"github.com/juju/collections/set"

	"github.com/danieljhkim/prod2lab/internal/document"
)

// RemoveFeatures returns a Rule deleting every feature of layer whose name
// is in names. Only bundle-builder shapes carry features; anything else
// passes through.
func RemoveFeatures(layer string, names []string) Rule {
	drop := set.NewStrings(names...)
	return func(s Shape) (Shape, error) {
		mp, ok := s.(MasterPlacement)
		if !ok {
			return s, nil
		}
		t := mp.Clone().(MasterPlacement)
		l, ok := document.FindLayer(t.Master, layer)
		if !ok || l.Features == nil {
			return t, nil
		}
		kept := make([]document.Feature, 0, len(l.Features))
		for _, f := range l.Features {
			if drop.Contains(f.Name) {
				logger.Debugf("removing feature %s from %s", f.Name, layer)
				continue
			}
			kept = append(kept, f)
		}
		l.Features = kept
		return t, nil
	}
}

// AppendBundleFile returns a Rule adding file to the config.bundles list of
// layer unless it is already there.
func AppendBundleFile(layer, file string) Rule {
	return func(s Shape) (Shape, error) {
		mp, ok := s.(MasterPlacement)
		if !ok {
			return s, nil
		}
		t := mp.Clone().(MasterPlacement)
		l, ok := document.FindLayer(t.Master, layer)
		if !ok {
			return t, nil
		}
		cfg := l.EnsureConfig()
		bundles, _ := cfg["bundles"].([]interface{})
		for _, b := range bundles {
			if b == file {
				return t, nil
			}
		}
		logger.Debugf("adding %s to %s bundles", file, layer)
		cfg["bundles"] = append(bundles, file)
		return t, nil
	}
}
