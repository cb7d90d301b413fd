// Package document models the deployment documents prod2lab rewrites.
//
// A Master document is an ordered list of configuration layers, each with an
// optional config mapping and a list of named features. Bundle documents
// (flat bundles, bundle-builder placement files and the generated overlay)
// share one shape: machines, applications and relations.
//
// Only the fields the rewrite rules touch are typed. Everything else is kept
// in inline Extra maps so a load/dump cycle does not lose data.
package document

import "github.com/juju/errors"

// ErrMalformedDocument marks input whose shape the rules cannot work with.
const ErrMalformedDocument = errors.ConstError("malformed document")

// Master is the layered master descriptor.
type Master struct {
	Layers []Layer                 `yaml:"layers"`
	Extra  map[string]interface{} `yaml:",inline"`
}

// Layer is one named unit of composable configuration.
type Layer struct {
	Name     string                 `yaml:"name"`
	Type     string                 `yaml:"type,omitempty"`
	Parent   string                 `yaml:"parent,omitempty"`
	Features []Feature              `yaml:"features,omitempty"`
	Config   map[string]interface{} `yaml:"config,omitempty"`
	Extra    map[string]interface{} `yaml:",inline"`
}

// Feature is a named, toggleable fragment of a layer.
type Feature struct {
	Name    string                 `yaml:"name"`
	Options map[string]interface{} `yaml:"options,omitempty"`
	Extra   map[string]interface{} `yaml:",inline"`
}

// EnsureOptions allocates the option mapping if the feature has none.
func (f *Feature) EnsureOptions() map[string]interface{} {
	if f.Options == nil {
		f.Options = make(map[string]interface{})
	}
	return f.Options
}

// EnsureConfig allocates the config mapping if the layer has none.
func (l *Layer) EnsureConfig() map[string]interface{} {
	if l.Config == nil {
		l.Config = make(map[string]interface{})
	}
	return l.Config
}

// Clone returns a deep copy of the master document.
func (m *Master) Clone() *Master {
	if m == nil {
		return nil
	}
	out := &Master{Extra: copyMap(m.Extra)}
	if m.Layers != nil {
		out.Layers = make([]Layer, len(m.Layers))
		for i := range m.Layers {
			out.Layers[i] = m.Layers[i].clone()
		}
	}
	return out
}

func (l Layer) clone() Layer {
	out := Layer{
		Name:   l.Name,
		Type:   l.Type,
		Parent: l.Parent,
		Config: copyMap(l.Config),
		Extra:  copyMap(l.Extra),
	}
	if l.Features != nil {
		out.Features = make([]Feature, len(l.Features))
		for i, f := range l.Features {
			out.Features[i] = Feature{
				Name:    f.Name,
				Options: copyMap(f.Options),
				Extra:   copyMap(f.Extra),
			}
		}
	}
	return out
}
