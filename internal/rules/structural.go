package rules

import (
	"regexp"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/danieljhkim/prod2lab/internal/chooser"
	"github.com/danieljhkim/prod2lab/internal/document"
)

// RemoveApplication drops app from b: every machine whose constraints
// mention it, the application entry, and every relation with an endpoint
// matching app as a regular expression. Matching is deliberately loose;
// removing "apache" also removes relations of "apache2".
func RemoveApplication(b *document.Bundle, app string) (*document.Bundle, error) {
	re, err := regexp.Compile(app)
	if err != nil {
		return nil, errors.Annotatef(document.ErrMalformedDocument, "application name %q: %v", app, err)
	}

	if b == nil {
		return nil, nil
	}
	out := b.Clone()
	for _, id := range out.Machines.Keys() {
		m, _ := out.Machines.Get(id)
		if m.Occupies(app) {
			logger.Debugf("removing %s from machine %s", app, id)
			out.Machines.Delete(id)
		}
	}

	if out.Applications.Has(app) {
		logger.Debugf("removing application %s from the bundle", app)
		out.Applications.Delete(app)
	}

	if out.Relations != nil {
		kept := out.Relations[:0]
		for _, rel := range out.Relations {
			if relationMatches(re, rel) {
				logger.Debugf("removing relation %v", []string(rel))
				continue
			}
			kept = append(kept, rel)
		}
		out.Relations = kept
	}
	return out, nil
}

func relationMatches(re *regexp.Regexp, rel document.Relation) bool {
	for _, endpoint := range rel {
		if re.MatchString(endpoint) {
			return true
		}
	}
	return false
}

// CapMachines keeps the first keep machines occupied by app, in document
// order, and deletes the rest.
func CapMachines(b *document.Bundle, app string, keep int) *document.Bundle {
	if b == nil {
		return nil
	}
	out := b.Clone()
	var occupied []string
	for _, id := range out.Machines.Keys() {
		m, _ := out.Machines.Get(id)
		if m.Occupies(app) {
			occupied = append(occupied, id)
		}
	}
	if keep < 0 {
		keep = 0
	}
	if len(occupied) <= keep {
		return out
	}
	for _, id := range occupied[keep:] {
		logger.Debugf("removing %s from machine %s", app, id)
		out.Machines.Delete(id)
	}
	return out
}

// UnitCap configures how applications are reduced to a single unit.
type UnitCap struct {
	// Keep lists applications whose unit count is never reduced.
	Keep set.Strings

	// FirstTarget lists applications that always keep their first placement
	// target instead of a chosen one.
	FirstTarget set.Strings

	// Chooser picks the surviving target for everything else.
	Chooser chooser.Chooser
}

// CapUnitCount reduces app to one unit and one placement target. Denied
// applications are returned unchanged. A min-cluster-size option, when
// present, is lowered to 1 as well.
func CapUnitCount(name string, app *document.Application, p UnitCap) (*document.Application, error) {
	if p.Keep.Contains(name) {
		return app, nil
	}
	capped := app.Clone()
	if capped == nil {
		return nil, errors.Annotatef(document.ErrMalformedDocument, "application %q has no definition", name)
	}
	if len(capped.To) == 0 {
		return nil, errors.Annotatef(document.ErrMalformedDocument, "application %q has no placement targets", name)
	}

	logger.Debugf("reducing number of units in %s to 1", name)
	capped.SetUnits(1)
	idx := 0
	if !p.FirstTarget.Contains(name) {
		idx = pick(p.Chooser, len(capped.To))
	}
	capped.To = []interface{}{capped.To[idx]}

	if _, ok := capped.Options["min-cluster-size"]; ok {
		logger.Debugf("setting min-cluster-size to 1 for %s", name)
		capped.Options["min-cluster-size"] = 1
	}
	return capped, nil
}

func pick(c chooser.Chooser, n int) int {
	if c == nil || n == 1 {
		return 0
	}
	return c.Intn(n)
}

// CapUnitCounts applies CapUnitCount across b in document order. With
// everyApp unset only applications running more than one unit are capped;
// bundle-builder placement documents set it since their num_units is
// usually implicit.
func CapUnitCounts(b *document.Bundle, everyApp bool, p UnitCap) (*document.Bundle, error) {
	if b == nil {
		return nil, nil
	}
	out := b.Clone()
	for _, name := range out.Applications.Keys() {
		app, _ := out.Applications.Get(name)
		if p.Keep.Contains(name) {
			continue
		}
		if !everyApp && app.Units() <= 1 {
			continue
		}
		capped, err := CapUnitCount(name, app, p)
		if err != nil {
			return nil, errors.Trace(err)
		}
		out.Applications.Set(name, capped)
	}
	return out, nil
}

// RemoveLayer drops the first layer called name. A missing layer leaves
// the master unchanged.
func RemoveLayer(m *document.Master, name string) *document.Master {
	out := m.Clone()
	i, ok := document.FindLayerIndex(out, name)
	if !ok {
		return out
	}
	logger.Debugf("removing layer %s", name)
	out.Layers = append(out.Layers[:i:i], out.Layers[i+1:]...)
	return out
}

// RemoveConsumingReferences drops every config.consume_layers entry that
// contains substr, across all layers.
func RemoveConsumingReferences(m *document.Master, substr string) *document.Master {
	out := m.Clone()
	for i := range out.Layers {
		layer := &out.Layers[i]
		consumed, ok := layer.Config["consume_layers"].([]interface{})
		if !ok {
			continue
		}
		kept := make([]interface{}, 0, len(consumed))
		for _, ref := range consumed {
			if s, ok := ref.(string); ok && strings.Contains(s, substr) {
				logger.Debugf("removing %s from consume_layers of %s", s, layer.Name)
				continue
			}
			kept = append(kept, ref)
		}
		layer.Config["consume_layers"] = kept
	}
	return out
}

// RemoveApplications returns a Rule removing each app from a flat bundle.
// Bundle-builder shapes have nothing to remove and pass through.
func RemoveApplications(apps []string) Rule {
	return func(s Shape) (Shape, error) {
		flat, ok := s.(FlatBundle)
		if !ok {
			return s, nil
		}
		b := flat.Bundle
		for _, app := range apps {
			var err error
			if b, err = RemoveApplication(b, app); err != nil {
				return nil, errors.Trace(err)
			}
		}
		return FlatBundle{Bundle: b}, nil
	}
}

// CapApplicationMachines returns a Rule keeping at most keep machines for
// each app, in the flat bundle or the placement document.
func CapApplicationMachines(apps []string, keep int) Rule {
	return func(s Shape) (Shape, error) {
		b := placementBundle(s)
		if b == nil {
			return s, nil
		}
		for _, app := range apps {
			b = CapMachines(b, app, keep)
		}
		return withPlacementBundle(s, b), nil
	}
}

// CapUnits returns a Rule reducing applications to one unit. Flat bundles
// only cap applications with more than one unit; placement documents cap
// every application not in p.Keep.
func CapUnits(p UnitCap) Rule {
	return func(s Shape) (Shape, error) {
		b := placementBundle(s)
		if b == nil {
			return s, nil
		}
		_, everyApp := s.(MasterPlacement)
		capped, err := CapUnitCounts(b, everyApp, p)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return withPlacementBundle(s, capped), nil
	}
}
