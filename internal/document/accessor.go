package document

// AutomaticPlacementFeature is the feature name that switches a
// bundle-builder layer to automatic placement.
const AutomaticPlacementFeature = "automatic-placement"

// FindLayerIndex returns the index of the first layer called name.
// The boolean is false when no layer matches; index 0 is a valid hit.
func FindLayerIndex(m *Master, name string) (int, bool) {
	if m == nil {
		return 0, false
	}
	for i := range m.Layers {
		if m.Layers[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// FindLayer returns the first layer called name.
func FindLayer(m *Master, name string) (*Layer, bool) {
	i, ok := FindLayerIndex(m, name)
	if !ok {
		return nil, false
	}
	return &m.Layers[i], true
}

// FindFeature returns the first feature of layerName whose name matches a
// candidate. Candidates are tried in order, so an earlier candidate wins
// even when a later one appears first in the feature list.
func FindFeature(m *Master, candidates []string, layerName string) (*Feature, bool) {
	layer, ok := FindLayer(m, layerName)
	if !ok {
		return nil, false
	}
	for _, name := range candidates {
		for i := range layer.Features {
			if layer.Features[i].Name == name {
				return &layer.Features[i], true
			}
		}
	}
	return nil, false
}

// UsesBundleBuilder reports whether layerName has a truthy config.build_bundle.
func UsesBundleBuilder(m *Master, layerName string) bool {
	layer, ok := FindLayer(m, layerName)
	if !ok {
		return false
	}
	return truthy(layer.Config["build_bundle"])
}

// UsesAutomaticPlacement reports whether layerName is a bundle-builder
// layer carrying the automatic-placement feature.
func UsesAutomaticPlacement(m *Master, layerName string) bool {
	if !UsesBundleBuilder(m, layerName) {
		return false
	}
	_, ok := FindFeature(m, []string{AutomaticPlacementFeature}, layerName)
	return ok
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != ""
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		return true
	}
}
