package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/prod2lab/internal/document"
)

const masterBBYAML = `project: {}
layers:
  - name: baremetal
  - name: maas
    type: maas
    parent: baremetal
    config:
      tweaks: [nobond, nobridge]
      maas_vip: 1.2.3.4
      postgresql_vip: 1.2.3.5
      maas_config:
        dnssec_validation: "no"
        upstream_dns: 1.2.3.6
  - name: juju_maas_controller
    config:
      ha: true
      ha_timeout: 30m
  - name: openstack
    type: openstack
    parent: juju_maas_controller
    features:
      - name: openstack
        options:
          designate-bind_forwarders: 1.2.3.7
          reserved-host-memory: 16384
          cpu-model: Haswell-noTSX-IBRS
      - name: ha
        options:
          ha_count: 3
      - name: ovn
        options:
          data-port: br-data:eth1
    config:
      build_bundle: true
      bundles: [bundle.yaml]
      consume_layers: [lma, juju_maas_controller]
  - name: lma
  - name: lmacmr
    config:
      consume_layers: [lma-main]
  - name: juju_openstack_controller
  - name: kubernetes
    features:
      - name: ha
        options:
          ha_count: 3
      - name: monitoring
      - name: livepatch
      - name: automatic-placement
    config:
      build_bundle: true
`

const placementBBYAML = `machines:
  "15": {constraints: tags=vault zones=zone1}
  "16": {constraints: tags=vault zones=zone2}
  "17": {constraints: tags=vault zones=zone3}
  "1000": {constraints: tags=fn zones=zone1}
  "1001": {constraints: tags=fn zones=zone2}
  "1002": {constraints: tags=fn zones=zone3}
  "1003": {constraints: tags=fn zones=zone1}
  "1004": {constraints: tags=fn zones=zone2}
  "1005": {constraints: tags=fn zones=zone3}
applications:
  ceph-mon: {to: ["lxd:1000", "lxd:1001", "lxd:1002"]}
  ceph-osd: {num_units: 6, to: ["1000", "1001", "1002", "1003", "1004", "1005"]}
  keystone: {to: ["lxd:1000", "lxd:1001", "lxd:1002"]}
  mysql: {to: ["lxd:1000", "lxd:1001", "lxd:1002"]}
  ovn-central: {num_units: 3, to: ["lxd:1000", "lxd:1001", "lxd:1002"]}
  nova-compute: {num_units: 6, to: [1000, 1001, 1002, 1003, 1004, 1005]}
  rabbitmq-server: {to: ["lxd:1001", "lxd:1003", "lxd:1005"]}
  designate-bind: {num_units: 2, to: ["lxd:1001", "lxd:1002"]}
  memcached: {to: ["designate-bind/0", "designate-bind/1"]}
  glance-simplestreams-sync: {to: ["lxd:1005"]}
  vault: {to: [15, 16, 17]}
`

const bundleYAML = `series: bionic
machines:
  "0": {constraints: tags=nagios, series: bionic}
  "1": {constraints: tags=grafana, series: bionic}
  "5": {constraints: tags=elastic zones=zone1}
  "9": {constraints: tags=prometheus, series: bionic}
  "10": {constraints: tags=graylog zones=zone1, series: bionic}
  "13": {constraints: tags=elastic zones=zone2}
  "15": {constraints: tags=vault zones=zone1}
  "16": {constraints: tags=vault zones=zone2}
  "17": {constraints: tags=vault zones=zone3}
  "1000": {constraints: tags=foundation-nodes zones=zone1}
  "1001": {constraints: tags=foundation-nodes zones=zone2}
  "1002": {constraints: tags=foundation-nodes zones=zone3}
  "1003": {constraints: tags=foundation-nodes zones=zone1}
  "1004": {constraints: tags=foundation-nodes zones=zone2}
  "1005": {constraints: tags=foundation-nodes zones=zone3}
applications:
  hacluster-keystone: {charm: "cs:hacluster"}
  hacluster-vault: {charm: "cs:hacluster", options: {corosync_transport: unicast}}
  ceph-mon: {charm: "cs:ceph-mon", num_units: 3, to: ["lxd:1000", "lxd:1001", "lxd:1002"]}
  cinder-ceph: {charm: "cs:cinder-ceph", num_units: 0}
  keystone: {charm: "cs:keystone", num_units: 3, to: ["lxd:1000", "lxd:1001", "lxd:1002"]}
  logrotate: {charm: "cs:logrotate", num_units: 0, options: {logrotate-retention: 60}}
  neutron-gateway:
    charm: cs:neutron-gateway
    num_units: 2
    options: {data-port: "br-ex:eth1"}
    to: [1004, 1005]
  ovn-chassis: {charm: "cs:ovn-chassis", options: {bridge-interface-mappings: "br-ex:eth2"}}
  nova-compute-kvm:
    charm: cs:nova-compute
    num_units: 4
    options:
      openstack-origin: cloud:bionic-stein
      reserved-host-memory: 16384
      cpu-mode: custom
      cpu-model: Haswell-noTSX-IBRS
    to: [1000, 1001, 1002, 1003]
  rabbitmq-server:
    charm: cs:rabbitmq-server
    num_units: 3
    options: {source: "cloud:bionic-stein", min-cluster-size: 3}
    to: ["lxd:1001", "lxd:1003", "lxd:1005"]
  designate-bind:
    charm: cs:designate-bind
    num_units: 2
    options: {forwarders: 10.245.208.49, recursion: true}
    to: ["lxd:1001", "lxd:1002"]
  graylog: {}
  nagios: {}
  grafana: {}
  telegraf: {charm: "cs:telegraf"}
  vault:
    charm: cs:vault
    num_units: 3
    options: {vip: 192.168.33.15}
    to: [15, 16, 17]
relations:
  - [ceph-osd, ceph-mon]
  - [ceph-mon, landscape-client]
  - [ceph-mon, filebeat]
  - [ceph-mon, logrotate]
  - ["graylog:beats", "filebeat:logstash"]
  - [graylog, ntp]
  - ["nagios:juju-info", canonical-livepatch]
  - [prometheus, filebeat]
  - [grafana, filebeat]
  - [nagios, nrpe-container]
  - [nagios, nrpe-host]
  - [graylog, elasticsearch]
  - ["prometheus:nrpe-external-master", "nrpe-host:nrpe-external-master"]
`

var removeApplications = []string{
	"apache2", "apache", "mongodb", "grafana", "nagios", "elastic", "prometheus",
	"graylog", "logrotate", "graylog-mongodb", "elasticsearch", "filebeat",
	"openstack-service-checks", "nrpe-host", "nrpe-container", "landscape-client",
	"prometheus-openstack-exporter", "telegraf", "telegraf-prometheus", "lldpd",
	"canonical-livepatch", "thruk-agent", "prometheus-ceph-exporter",
}

var keepUnits = []string{
	"ceph-mon", "ceph-osd", "neutron-gateway", "nova-compute", "nova-compute-kvm",
	"mysql-innodb-cluster", "ovn-central",
}

func mustMaster(t *testing.T, data string) *document.Master {
	t.Helper()
	m, err := document.ParseMaster([]byte(data))
	require.NoError(t, err)
	return m
}

func mustBundle(t *testing.T, data string) *document.Bundle {
	t.Helper()
	b, err := document.ParseBundle([]byte(data))
	require.NoError(t, err)
	return b
}

// masterWithoutBundleBuilder returns the bundle-builder master with build_bundle unset.
func masterWithoutBundleBuilder(t *testing.T) *document.Master {
	m := mustMaster(t, masterBBYAML)
	l, ok := document.FindLayer(m, "openstack")
	require.True(t, ok)
	delete(l.Config, "build_bundle")
	return m
}

// masterWithAutomaticPlacement returns the bundle-builder master with the
// automatic-placement feature enabled on the openstack layer.
func masterWithAutomaticPlacement(t *testing.T) *document.Master {
	m := mustMaster(t, masterBBYAML)
	l, ok := document.FindLayer(m, "openstack")
	require.True(t, ok)
	l.Features = append(l.Features, document.Feature{Name: document.AutomaticPlacementFeature})
	return m
}

func feature(t *testing.T, m *document.Master, layer, name string) *document.Feature {
	t.Helper()
	f, ok := document.FindFeature(m, []string{name}, layer)
	require.True(t, ok, "feature %s/%s", layer, name)
	return f
}

func application(t *testing.T, b *document.Bundle, name string) *document.Application {
	t.Helper()
	app, ok := b.Application(name)
	require.True(t, ok, "application %s", name)
	return app
}
