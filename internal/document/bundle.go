package document

import (
	"strings"
)

// Bundle is the machines/applications/relations shape shared by flat
// bundles, bundle-builder placement documents and generated overlays.
type Bundle struct {
	Machines     *OrderedMap[*Machine]     `yaml:"machines,omitempty"`
	Applications *OrderedMap[*Application] `yaml:"applications,omitempty"`
	Relations    []Relation                `yaml:"relations,omitempty"`
	Extra        map[string]interface{}    `yaml:",inline"`
}

// bundleDoc is the encoded form of a Bundle. Relations is a pointer so
// that an emptied relation list is written as "relations: []" while a
// document that never had one stays without the key.
type bundleDoc struct {
	Machines     *OrderedMap[*Machine]     `yaml:"machines,omitempty"`
	Applications *OrderedMap[*Application] `yaml:"applications,omitempty"`
	Relations    *[]Relation               `yaml:"relations,omitempty"`
	Extra        map[string]interface{}    `yaml:",inline"`
}

// MarshalYAML implements yaml.Marshaler.
func (b Bundle) MarshalYAML() (interface{}, error) {
	out := &bundleDoc{
		Machines:     b.Machines,
		Applications: b.Applications,
		Extra:        b.Extra,
	}
	if b.Relations != nil {
		out.Relations = &b.Relations
	}
	return out, nil
}

// Machine is a machine definition.
type Machine struct {
	Constraints string                 `yaml:"constraints,omitempty"`
	Extra       map[string]interface{} `yaml:",inline"`
}

// Occupies reports whether app appears in the machine constraints.
// The test is a plain substring search, so "vault" also matches a
// machine tagged "barbican-vault".
func (m *Machine) Occupies(app string) bool {
	if m == nil {
		return false
	}
	return strings.Contains(m.Constraints, app)
}

// Application is an application definition.
type Application struct {
	NumUnits *int                   `yaml:"num_units,omitempty"`
	To       []interface{}          `yaml:"to,omitempty"`
	Options  map[string]interface{} `yaml:"options,omitempty"`
	Extra    map[string]interface{} `yaml:",inline"`
}

// Units returns num_units, or 0 when it is not set.
func (a *Application) Units() int {
	if a == nil || a.NumUnits == nil {
		return 0
	}
	return *a.NumUnits
}

// SetUnits sets num_units.
func (a *Application) SetUnits(n int) {
	a.NumUnits = &n
}

// EnsureOptions allocates the option mapping if the application has none.
func (a *Application) EnsureOptions() map[string]interface{} {
	if a.Options == nil {
		a.Options = make(map[string]interface{})
	}
	return a.Options
}

// Relation is a list of endpoints, normally two.
type Relation []string

// NewBundle returns a bundle with empty machine and application maps.
func NewBundle() *Bundle {
	return &Bundle{
		Machines:     NewOrderedMap[*Machine](),
		Applications: NewOrderedMap[*Application](),
	}
}

// Application looks up an application by name.
func (b *Bundle) Application(name string) (*Application, bool) {
	if b == nil {
		return nil, false
	}
	app, ok := b.Applications.Get(name)
	if !ok || app == nil {
		return nil, false
	}
	return app, true
}

// SetApplication stores app under name, allocating the map if needed.
func (b *Bundle) SetApplication(name string, app *Application) {
	if b.Applications == nil {
		b.Applications = NewOrderedMap[*Application]()
	}
	b.Applications.Set(name, app)
}

// Clone returns a deep copy of the bundle.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}
	out := &Bundle{
		Machines:     b.Machines.Clone((*Machine).Clone),
		Applications: b.Applications.Clone((*Application).Clone),
		Extra:        copyMap(b.Extra),
	}
	if b.Relations != nil {
		out.Relations = make([]Relation, len(b.Relations))
		for i, r := range b.Relations {
			out.Relations[i] = append(Relation(nil), r...)
		}
	}
	return out
}

// Clone returns a deep copy of the machine.
func (m *Machine) Clone() *Machine {
	if m == nil {
		return nil
	}
	return &Machine{Constraints: m.Constraints, Extra: copyMap(m.Extra)}
}

// Clone returns a deep copy of the application.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	out := &Application{
		To:      copySlice(a.To),
		Options: copyMap(a.Options),
		Extra:   copyMap(a.Extra),
	}
	if a.NumUnits != nil {
		out.SetUnits(*a.NumUnits)
	}
	return out
}
