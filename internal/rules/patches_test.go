package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/prod2lab/internal/document"
)

var (
	haParams = HAParams{Pattern: "hacluster-", Layer: "openstack", Feature: "ha"}

	computeParams = ComputeParams{
		FlatApp:      "nova-compute-kvm",
		PlacementApp: "nova-compute",
		Layer:        "openstack",
		Feature:      "openstack",
	}

	networkParams = NetworkParams{
		GatewayApp:  "neutron-gateway",
		ChassisApps: []string{"ovn-chassis", "octavia-ovn-chassis"},
		Layer:       "openstack",
		Features:    []string{"ovs", "ovn"},
		Binding:     "br-data:ens4",
	}

	dnsParams = DNSParams{
		App:        "designate-bind",
		Layer:      "openstack",
		Feature:    "openstack",
		Option:     "designate-bind_forwarders",
		Forwarders: "10.244.40.30",
	}
)

func flatShape(t *testing.T) FlatBundle {
	return FlatBundle{Bundle: mustBundle(t, bundleYAML)}
}

func placementShape(t *testing.T) MasterPlacement {
	return MasterPlacement{Master: mustMaster(t, masterBBYAML), Placement: mustBundle(t, placementBBYAML)}
}

func automaticShape(t *testing.T) MasterPlacement {
	return MasterPlacement{Master: masterWithAutomaticPlacement(t), AutomaticPlacement: true}
}

func apply(t *testing.T, r Rule, s Shape) Shape {
	t.Helper()
	out, err := r(s)
	require.NoError(t, err)
	return out
}

func TestCapHACount(t *testing.T) {
	t.Run("flat bundle sets cluster_count on sidecars", func(t *testing.T) {
		s := flatShape(t)
		out := apply(t, CapHACount(haParams), s).(FlatBundle)

		assert.Equal(t, 1, application(t, out.Bundle, "hacluster-keystone").Options["cluster_count"])
		vault := application(t, out.Bundle, "hacluster-vault")
		assert.Equal(t, 1, vault.Options["cluster_count"])
		assert.Equal(t, "unicast", vault.Options["corosync_transport"])
		assert.NotContains(t, application(t, out.Bundle, "keystone").Options, "cluster_count")
		assert.Nil(t, application(t, s.Bundle, "hacluster-keystone").Options)
	})

	t.Run("bundle builder sets ha_count on the ha feature", func(t *testing.T) {
		s := placementShape(t)
		out := apply(t, CapHACount(haParams), s).(MasterPlacement)

		assert.Equal(t, map[string]interface{}{"ha_count": 1}, feature(t, out.Master, "openstack", "ha").Options)
		assert.Equal(t, 3, feature(t, s.Master, "openstack", "ha").Options["ha_count"])
		assert.Equal(t, 3, feature(t, out.Master, "kubernetes", "ha").Options["ha_count"])
	})

	t.Run("missing ha feature is a no-op", func(t *testing.T) {
		s := placementShape(t)
		p := haParams
		p.Feature = "nothing"
		out := apply(t, CapHACount(p), s)
		assert.Equal(t, s, out)
	})
}

func TestTuneCompute(t *testing.T) {
	t.Run("flat bundle drops host options", func(t *testing.T) {
		out := apply(t, TuneCompute(computeParams), flatShape(t)).(FlatBundle)
		assert.Equal(t, map[string]interface{}{"openstack-origin": "cloud:bionic-stein"},
			application(t, out.Bundle, "nova-compute-kvm").Options)
	})

	t.Run("bundle builder with placement", func(t *testing.T) {
		out := apply(t, TuneCompute(computeParams), placementShape(t)).(MasterPlacement)

		opts := feature(t, out.Master, "openstack", "openstack").Options
		assert.NotContains(t, opts, "reserved-host-memory")
		assert.NotContains(t, opts, "cpu-model")
		assert.Equal(t, "1.2.3.7", opts["designate-bind_forwarders"])

		nova := application(t, out.Placement, "nova-compute")
		assert.Equal(t, "none", nova.Options["cpu-mode"])
		assert.Equal(t, 0, nova.Options["reserved-host-memory"])
	})

	t.Run("automatic placement skips the placement half", func(t *testing.T) {
		out := apply(t, TuneCompute(computeParams), automaticShape(t)).(MasterPlacement)
		assert.Nil(t, out.Placement)
		assert.NotContains(t, feature(t, out.Master, "openstack", "openstack").Options, "cpu-model")
	})

	t.Run("missing compute application is a no-op", func(t *testing.T) {
		s := placementShape(t)
		s.Placement.Applications.Delete("nova-compute")
		out := apply(t, TuneCompute(computeParams), s).(MasterPlacement)
		assert.False(t, out.Placement.Applications.Has("nova-compute"))
	})
}

func TestFixDataPort(t *testing.T) {
	t.Run("flat bundle rewrites existing options", func(t *testing.T) {
		out := apply(t, FixDataPort(networkParams), flatShape(t)).(FlatBundle)
		assert.Equal(t, "br-data:ens4", application(t, out.Bundle, "neutron-gateway").Options["data-port"])
		assert.Equal(t, "br-data:ens4", application(t, out.Bundle, "ovn-chassis").Options["bridge-interface-mappings"])
		assert.False(t, out.Bundle.Applications.Has("octavia-ovn-chassis"))
	})

	t.Run("flat bundle without the option is untouched", func(t *testing.T) {
		s := flatShape(t)
		application(t, s.Bundle, "neutron-gateway").Options = map[string]interface{}{"bridge-mappings": "physnet1:br-ex"}
		out := apply(t, FixDataPort(networkParams), s).(FlatBundle)
		assert.Equal(t, map[string]interface{}{"bridge-mappings": "physnet1:br-ex"},
			application(t, out.Bundle, "neutron-gateway").Options)
	})

	t.Run("bundle builder fixes the ovn feature", func(t *testing.T) {
		out := apply(t, FixDataPort(networkParams), placementShape(t)).(MasterPlacement)
		assert.Equal(t, map[string]interface{}{"data-port": "br-data:ens4"}, feature(t, out.Master, "openstack", "ovn").Options)
	})
}

func TestFixDNSForwarders(t *testing.T) {
	t.Run("flat bundle", func(t *testing.T) {
		out := apply(t, FixDNSForwarders(dnsParams), flatShape(t)).(FlatBundle)
		opts := application(t, out.Bundle, "designate-bind").Options
		assert.Equal(t, "10.244.40.30", opts["forwarders"])
		assert.Equal(t, true, opts["recursion"])
	})

	t.Run("bundle builder", func(t *testing.T) {
		out := apply(t, FixDNSForwarders(dnsParams), placementShape(t)).(MasterPlacement)
		assert.Equal(t, "10.244.40.30", feature(t, out.Master, "openstack", "openstack").Options["designate-bind_forwarders"])
	})

	t.Run("automatic placement", func(t *testing.T) {
		out := apply(t, FixDNSForwarders(dnsParams), automaticShape(t)).(MasterPlacement)
		assert.Equal(t, "10.244.40.30", feature(t, out.Master, "openstack", "openstack").Options["designate-bind_forwarders"])
	})

	t.Run("missing dns application", func(t *testing.T) {
		s := flatShape(t)
		s.Bundle.Applications.Delete("designate-bind")
		out := apply(t, FixDNSForwarders(dnsParams), s)
		assert.Equal(t, s, out)
	})
}

func TestFixClusterSize(t *testing.T) {
	t.Run("placement applications", func(t *testing.T) {
		s := placementShape(t)
		out := apply(t, FixClusterSize([]string{"mysql", "rabbitmq-server", "absent"}), s).(MasterPlacement)

		assert.Equal(t, 1, application(t, out.Placement, "mysql").Options["min-cluster-size"])
		assert.Equal(t, 1, application(t, out.Placement, "rabbitmq-server").Options["min-cluster-size"])
		assert.False(t, out.Placement.Applications.Has("absent"))
		assert.Nil(t, application(t, s.Placement, "mysql").Options)
	})

	t.Run("flat bundle passes through", func(t *testing.T) {
		s := flatShape(t)
		out := apply(t, FixClusterSize([]string{"rabbitmq-server"}), s)
		assert.Equal(t, s, out)
	})
}

func TestRemoveFeatures(t *testing.T) {
	s := MasterPlacement{Master: mustMaster(t, masterBBYAML), AutomaticPlacement: true}
	out := apply(t, RemoveFeatures("kubernetes", []string{"monitoring", "livepatch"}), s).(MasterPlacement)

	l, ok := document.FindLayer(out.Master, "kubernetes")
	require.True(t, ok)
	var names []string
	for _, f := range l.Features {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"ha", "automatic-placement"}, names)

	orig, _ := document.FindLayer(s.Master, "kubernetes")
	assert.Len(t, orig.Features, 4)
}

func TestPatchRules_Idempotent(t *testing.T) {
	rules := map[string]Rule{
		"ha":           CapHACount(haParams),
		"compute":      TuneCompute(computeParams),
		"data-port":    FixDataPort(networkParams),
		"dns":          FixDNSForwarders(dnsParams),
		"cluster-size": FixClusterSize([]string{"mysql", "rabbitmq-server"}),
		"features":     RemoveFeatures("kubernetes", []string{"monitoring"}),
	}

	emptyPlacement := func(t *testing.T) Shape {
		return MasterPlacement{Master: &document.Master{}, Placement: document.NewBundle()}
	}
	shapes := map[string]func(t *testing.T) Shape{
		"flat":            func(t *testing.T) Shape { return flatShape(t) },
		"placement":       func(t *testing.T) Shape { return placementShape(t) },
		"automatic":       func(t *testing.T) Shape { return automaticShape(t) },
		"empty flat":      func(t *testing.T) Shape { return FlatBundle{Bundle: document.NewBundle()} },
		"empty placement": emptyPlacement,
	}

	for ruleName, rule := range rules {
		for shapeName, build := range shapes {
			t.Run(ruleName+"/"+shapeName, func(t *testing.T) {
				once := apply(t, rule, build(t))
				twice := apply(t, rule, once)
				assert.Equal(t, once, twice)
			})
		}
	}
}
