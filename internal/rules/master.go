package rules

import (
	"github.com/juju/collections/set"

	"github.com/danieljhkim/prod2lab/internal/document"
)

// MasterRule rewrites a master document on its own.
type MasterRule func(*document.Master) *document.Master

// ExtendTweaks appends tweaks missing from the layer's config.tweaks list.
func ExtendTweaks(layer string, tweaks []string) MasterRule {
	return func(m *document.Master) *document.Master {
		out := m.Clone()
		l, ok := document.FindLayer(out, layer)
		if !ok {
			return out
		}
		cfg := l.EnsureConfig()
		existing, _ := cfg["tweaks"].([]interface{})
		have := set.NewStrings()
		for _, t := range existing {
			if s, ok := t.(string); ok {
				have.Add(s)
			}
		}
		for _, t := range tweaks {
			if have.Contains(t) {
				continue
			}
			logger.Debugf("adding tweak %s to %s", t, layer)
			existing = append(existing, t)
			have.Add(t)
		}
		cfg["tweaks"] = existing
		return out
	}
}

// DropConfigKeys deletes keys from the layer's config mapping.
func DropConfigKeys(layer string, keys []string) MasterRule {
	return func(m *document.Master) *document.Master {
		out := m.Clone()
		l, ok := document.FindLayer(out, layer)
		if !ok {
			return out
		}
		for _, k := range keys {
			if _, ok := l.Config[k]; ok {
				logger.Debugf("removing %s from %s config", k, layer)
				delete(l.Config, k)
			}
		}
		return out
	}
}

// SetUpstreamDNS sets config.maas_config.upstream_dns on the layer.
func SetUpstreamDNS(layer, dns string) MasterRule {
	return func(m *document.Master) *document.Master {
		out := m.Clone()
		l, ok := document.FindLayer(out, layer)
		if !ok {
			return out
		}
		cfg := l.EnsureConfig()
		maas, ok := cfg["maas_config"].(map[string]interface{})
		if !ok {
			maas = make(map[string]interface{})
			cfg["maas_config"] = maas
		}
		logger.Debugf("setting upstream_dns of %s to %s", layer, dns)
		maas["upstream_dns"] = dns
		return out
	}
}

// DropLayer removes the layer and every consume_layers reference to it.
func DropLayer(layer string) MasterRule {
	return func(m *document.Master) *document.Master {
		return RemoveConsumingReferences(RemoveLayer(m, layer), layer)
	}
}
