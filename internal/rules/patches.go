package rules

import (
	"regexp"

	"github.com/juju/errors"

	"github.com/danieljhkim/prod2lab/internal/document"
)

// HAParams locates the high-availability settings.
type HAParams struct {
	// Pattern matches hacluster sidecar application names in a flat bundle.
	Pattern string

	// Layer and Feature locate the bundle-builder "ha" feature.
	Layer   string
	Feature string
}

// CapHACount returns a Rule setting every hacluster sidecar's cluster_count
// to 1 (flat bundle) or the layer's ha feature ha_count to 1 (bundle builder).
func CapHACount(p HAParams) Rule {
	return func(s Shape) (Shape, error) {
		switch t := s.Clone().(type) {
		case FlatBundle:
			re, err := regexp.Compile(p.Pattern)
			if err != nil {
				return nil, errors.Annotatef(err, "hacluster pattern %q", p.Pattern)
			}
			if t.Bundle == nil {
				return t, nil
			}
			for _, name := range t.Bundle.Applications.Keys() {
				app, ok := t.Bundle.Application(name)
				if !ok || !re.MatchString(name) {
					continue
				}
				logger.Debugf("modify cluster_count to 1 in %s", name)
				app.EnsureOptions()["cluster_count"] = 1
			}
			return t, nil
		case MasterPlacement:
			if f, ok := document.FindFeature(t.Master, []string{p.Feature}, p.Layer); ok {
				logger.Debugf("modify ha_count to 1 in %s feature of %s", p.Feature, p.Layer)
				f.EnsureOptions()["ha_count"] = 1
			}
			return t, nil
		}
		return s, nil
	}
}

// ComputeParams locates the compute application and its layer feature.
type ComputeParams struct {
	// FlatApp is the compute application name in a flat bundle.
	FlatApp string

	// PlacementApp is the compute application name in a placement document.
	PlacementApp string

	// Layer and Feature locate the bundle-builder feature holding compute options.
	Layer   string
	Feature string
}

// TuneCompute returns a Rule clearing host-specific compute options. In a
// flat bundle reserved-host-memory, cpu-model and cpu-mode are deleted. In
// bundle-builder mode reserved-host-memory and cpu-model are deleted from
// the layer feature, and, when a placement document exists, the placement
// compute application is pinned to cpu-mode "none" with no reserved memory.
func TuneCompute(p ComputeParams) Rule {
	return func(s Shape) (Shape, error) {
		switch t := s.Clone().(type) {
		case FlatBundle:
			logger.Debugf("fixing %s", p.FlatApp)
			if app, ok := t.Bundle.Application(p.FlatApp); ok {
				deleteOptions(app.Options, "reserved-host-memory", "cpu-model", "cpu-mode")
			}
			return t, nil
		case MasterPlacement:
			logger.Debugf("fixing %s", p.PlacementApp)
			if f, ok := document.FindFeature(t.Master, []string{p.Feature}, p.Layer); ok {
				deleteOptions(f.Options, "reserved-host-memory", "cpu-model")
			}
			if t.AutomaticPlacement {
				return t, nil
			}
			if app, ok := t.Placement.Application(p.PlacementApp); ok {
				opts := app.EnsureOptions()
				opts["cpu-mode"] = "none"
				opts["reserved-host-memory"] = 0
			}
			return t, nil
		}
		return s, nil
	}
}

// NetworkParams locates the data-port options.
type NetworkParams struct {
	// GatewayApp carries a data-port option in a flat bundle.
	GatewayApp string

	// ChassisApps carry a bridge-interface-mappings option in a flat bundle.
	ChassisApps []string

	// Layer and Features locate the bundle-builder network feature; the
	// first feature name found wins.
	Layer    string
	Features []string

	// Binding is the bridge:interface value written.
	Binding string
}

// FixDataPort returns a Rule pointing the data network at p.Binding. Flat
// bundle options are only rewritten when already present; the bundle-builder
// network feature always gets a data-port.
func FixDataPort(p NetworkParams) Rule {
	return func(s Shape) (Shape, error) {
		switch t := s.Clone().(type) {
		case FlatBundle:
			logger.Debugf("fixing %s", p.GatewayApp)
			replaceOption(t.Bundle, p.GatewayApp, "data-port", p.Binding)
			for _, chassis := range p.ChassisApps {
				logger.Debugf("fixing %s", chassis)
				replaceOption(t.Bundle, chassis, "bridge-interface-mappings", p.Binding)
			}
			return t, nil
		case MasterPlacement:
			logger.Debugf("fixing network interface for %v", p.Features)
			if f, ok := document.FindFeature(t.Master, p.Features, p.Layer); ok {
				f.EnsureOptions()["data-port"] = p.Binding
			}
			return t, nil
		}
		return s, nil
	}
}

// DNSParams locates the DNS forwarder options.
type DNSParams struct {
	// App is the DNS application in a flat bundle; its forwarders option is rewritten.
	App string

	// Layer, Feature and Option locate the bundle-builder equivalent.
	Layer   string
	Feature string
	Option  string

	// Forwarders is the resolver address written.
	Forwarders string
}

// FixDNSForwarders returns a Rule pointing the DNS application at p.Forwarders.
func FixDNSForwarders(p DNSParams) Rule {
	return func(s Shape) (Shape, error) {
		logger.Debugf("fixing %s", p.App)
		switch t := s.Clone().(type) {
		case FlatBundle:
			replaceOption(t.Bundle, p.App, "forwarders", p.Forwarders)
			return t, nil
		case MasterPlacement:
			if f, ok := document.FindFeature(t.Master, []string{p.Feature}, p.Layer); ok {
				f.EnsureOptions()[p.Option] = p.Forwarders
			}
			return t, nil
		}
		return s, nil
	}
}

// FixClusterSize returns a Rule forcing min-cluster-size to 1 on each app
// of a placement document. Flat bundles and automatic placement pass through.
func FixClusterSize(apps []string) Rule {
	return func(s Shape) (Shape, error) {
		mp, ok := s.(MasterPlacement)
		if !ok || mp.AutomaticPlacement || mp.Placement == nil {
			return s, nil
		}
		t := mp.Clone().(MasterPlacement)
		for _, name := range apps {
			logger.Debugf("fixing %s", name)
			if app, ok := t.Placement.Application(name); ok {
				app.EnsureOptions()["min-cluster-size"] = 1
			}
		}
		return t, nil
	}
}

// replaceOption sets key on the named application only if it already exists.
func replaceOption(b *document.Bundle, name, key string, value interface{}) {
	app, ok := b.Application(name)
	if !ok {
		return
	}
	if _, ok := app.Options[key]; ok {
		app.Options[key] = value
	}
}

func deleteOptions(opts map[string]interface{}, keys ...string) {
	for _, k := range keys {
		delete(opts, k)
	}
}
