package planner

import (
	"fmt"

	"github.com/juju/collections/set"

	"github.com/danieljhkim/prod2lab/internal/chooser"
	"github.com/danieljhkim/prod2lab/internal/config"
	"github.com/danieljhkim/prod2lab/internal/rules"
)

// Build generates the plan for mode from the decision table:
//
//	bundle builder | automatic placement | reads              | writes
//	false          | n/a                 | bundle             | bundle
//	true           | false               | master + placement | master + placement
//	true           | true                | master             | master + overlay
//
// Kubernetes mode always reads and writes the master alone.
func Build(mode Mode, cfg *config.Config, pick chooser.Chooser) *Plan {
	if mode.Kubernetes {
		return buildKubernetes(mode, cfg)
	}

	oc := cfg.OpenStack
	plan := NewPlan(mode, oc.Layer)

	switch {
	case mode.AutomaticPlacement:
		plan.Reads = []Slot{SlotMaster}
		plan.Writes = []Slot{SlotMaster}
		plan.Overlay = oc.Overlay
		plan.AddStep("add overlay "+oc.Overlay+" to bundles", rules.AppendBundleFile(oc.Layer, oc.Overlay))
	case mode.BundleBuilder:
		plan.Reads = []Slot{SlotMaster, SlotPlacement}
		plan.Writes = []Slot{SlotMaster, SlotPlacement}
	default:
		plan.Reads = []Slot{SlotBundle}
		plan.Writes = []Slot{SlotBundle}
		plan.AddStep("remove applications", rules.RemoveApplications(oc.RemoveApplications))
	}

	if !mode.AutomaticPlacement {
		for _, app := range oc.CapMachines {
			plan.AddStep(fmt.Sprintf("cap machines of %s to %d", app, oc.MachinesToKeep),
				rules.CapApplicationMachines([]string{app}, oc.MachinesToKeep))
		}
		plan.AddStep("cap unit counts", rules.CapUnits(rules.UnitCap{
			Keep:        set.NewStrings(oc.KeepUnits...),
			FirstTarget: set.NewStrings(oc.FirstTarget...),
			Chooser:     pick,
		}))
		if mode.BundleBuilder {
			plan.AddStep("set min-cluster-size", rules.FixClusterSize(oc.ClusterSizeApps))
		}
	}

	plan.AddStep("cap ha cluster count", rules.CapHACount(rules.HAParams{
		Pattern: oc.HAClusterPattern,
		Layer:   oc.Layer,
		Feature: oc.HAFeature,
	}))
	plan.AddStep("tune compute options", rules.TuneCompute(rules.ComputeParams{
		FlatApp:      oc.ComputeApp,
		PlacementApp: oc.PlacementCompute,
		Layer:        oc.Layer,
		Feature:      oc.OpenStackFeature,
	}))
	plan.AddStep("fix data port", rules.FixDataPort(rules.NetworkParams{
		GatewayApp:  oc.GatewayApp,
		ChassisApps: oc.ChassisApps,
		Layer:       oc.Layer,
		Features:    oc.NetworkFeatures,
		Binding:     oc.DataPort,
	}))
	plan.AddStep("fix dns forwarders", rules.FixDNSForwarders(rules.DNSParams{
		App:        oc.DNSApp,
		Layer:      oc.Layer,
		Feature:    oc.OpenStackFeature,
		Option:     oc.DNSOption,
		Forwarders: oc.DNSForwarders,
	}))

	logger.Debugf("planned %d steps for %s", len(plan.Steps), mode)
	return plan
}

func buildKubernetes(mode Mode, cfg *config.Config) *Plan {
	k := cfg.Kubernetes
	plan := NewPlan(mode, k.Layer)
	plan.Reads = []Slot{SlotMaster}
	plan.Writes = []Slot{SlotMaster}

	plan.AddStep("remove monitoring features", rules.RemoveFeatures(k.Layer, k.MonitoringFeatures))
	plan.AddStep("remove patching features", rules.RemoveFeatures(k.Layer, k.PatchingFeatures))
	plan.AddStep("cap ha cluster count", rules.CapHACount(rules.HAParams{
		Layer:   k.Layer,
		Feature: k.HAFeature,
	}))
	return plan
}

// BuildMaster generates the master-only rewrite plan.
func BuildMaster(cfg *config.Config) *MasterPlan {
	m := cfg.Master
	plan := &MasterPlan{}
	add := func(name string, rule rules.MasterRule) {
		plan.Steps = append(plan.Steps, MasterStep{Name: name, Rule: rule})
	}

	if len(m.Tweaks) > 0 {
		add("extend "+m.MAASLayer+" tweaks", rules.ExtendTweaks(m.MAASLayer, m.Tweaks))
	}
	// map order is random; sort layers so the plan is stable
	layers := set.NewStrings()
	for layer := range m.DropConfig {
		layers.Add(layer)
	}
	for _, layer := range layers.SortedValues() {
		add("drop "+layer+" config keys", rules.DropConfigKeys(layer, m.DropConfig[layer]))
	}
	if m.UpstreamDNS != "" {
		add("set "+m.MAASLayer+" upstream dns", rules.SetUpstreamDNS(m.MAASLayer, m.UpstreamDNS))
	}
	for _, layer := range m.RemoveLayers {
		add("remove layer "+layer, rules.DropLayer(layer))
	}
	return plan
}
