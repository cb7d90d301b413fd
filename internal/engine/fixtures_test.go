package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/prod2lab/internal/chooser"
	"github.com/danieljhkim/prod2lab/internal/config"
	"github.com/danieljhkim/prod2lab/internal/document"
	"github.com/danieljhkim/prod2lab/internal/fsops"
	"github.com/danieljhkim/prod2lab/internal/hash"
)

const flatMasterYAML = `layers:
  - name: maas
  - name: openstack
    config:
      bundles: [bundle.yaml]
`

const bundleBuilderMasterYAML = `layers:
  - name: maas
  - name: openstack
    features:
      - name: openstack
        options:
          designate-bind_forwarders: 1.2.3.7
          reserved-host-memory: 16384
      - name: ha
        options:
          ha_count: 3
      - name: ovs
        options:
          data-port: br-data:eth1
    config:
      build_bundle: true
      bundles: [bundle.yaml]
`

const automaticMasterYAML = `layers:
  - name: maas
  - name: openstack
    features:
      - name: openstack
        options:
          cpu-model: Haswell
      - name: ha
        options:
          ha_count: 3
      - name: automatic-placement
    config:
      build_bundle: true
      bundles: [bundle.yaml]
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

const standaloneMasterYAML = `layers:
  - name: baremetal
  - name: maas
    config:
      tweaks: [nobond]
      postgresql_vip: 1.2.3.5
  - name: juju_maas_controller
    config:
      ha: true
      ha_timeout: 30m
  - name: openstack
    config:
      consume_layers: [lma, juju_maas_controller]
  - name: lma
  - name: lmacmr
`

const flatBundleYAML = `machines:
  "0": {constraints: tags=nagios}
  "15": {constraints: tags=vault zones=zone1}
  "16": {constraints: tags=vault zones=zone2}
  "1000": {constraints: tags=foundation-nodes}
applications:
  nagios: {charm: "cs:nagios", num_units: 1, to: ["0"]}
  hacluster-vault: {charm: "cs:hacluster"}
  vault: {charm: "cs:vault", num_units: 2, to: [15, 16]}
  keystone: {charm: "cs:keystone", num_units: 3, to: ["lxd:1000", "lxd:1001", "lxd:1002"]}
  neutron-gateway: {charm: "cs:neutron-gateway", num_units: 1, options: {data-port: "br-ex:eth1"}, to: [1000]}
  designate-bind: {charm: "cs:designate-bind", options: {forwarders: 10.0.0.1}}
relations:
  - [nagios, nrpe-host]
  - [keystone, vault]
`

const placementYAML = `machines:
  "15": {constraints: tags=vault}
  "16": {constraints: tags=vault}
  "17": {constraints: tags=vault}
applications:
  vault: {to: [15, 16, 17]}
  mysql: {to: ["lxd:1000", "lxd:1001", "lxd:1002"]}
  nova-compute: {num_units: 3, to: [1000, 1001, 1002]}
  ceph-osd: {num_units: 3, to: [1000, 1001, 1002]}
`

// writeInputs writes name->content files into a fresh directory.
func writeInputs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func newTestEngine(fs fsops.FS) *Engine {
	return New(fs, chooser.First{}, &hash.FakeHasher{}, config.Default())
}

func readMasterFile(t *testing.T, path string) *document.Master {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	m, err := document.ParseMaster(data)
	require.NoError(t, err)
	return m
}

func readBundleFile(t *testing.T, path string) *document.Bundle {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	b, err := document.ParseBundle(data)
	require.NoError(t, err)
	return b
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "%s should not exist", path)
}

// failingFS fails AtomicWrite for paths containing failOn.
type failingFS struct {
	*fsops.RealFS
	failOn string
}

func (f *failingFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if strings.Contains(path, f.failOn) {
		return os.ErrPermission
	}
	return f.RealFS.AtomicWrite(path, data, perm)
}
