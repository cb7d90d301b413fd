// Package config holds prod2lab configuration.
//
// Every list the rewrite rules consult (applications to drop, applications
// whose unit count must be kept, special cases) and every fixed value they
// write is configuration, not code. Defaults reproduce the production to lab
// conversion; a config file or PROD2LAB_* environment variables override
// them per environment. The default config file lives at
// ~/.prod2lab/config.yaml and can be moved with PROD2LAB_CONFIG.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all prod2lab configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Placement  PlacementConfig  `mapstructure:"placement"`
	OpenStack  OpenStackConfig  `mapstructure:"openstack"`
	Kubernetes KubernetesConfig `mapstructure:"kubernetes"`
	Master     MasterConfig     `mapstructure:"master"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// PlacementConfig controls which placement target survives a unit cap.
type PlacementConfig struct {
	// Policy is "random" or "first".
	Policy string `mapstructure:"policy"`

	// Seed fixes the random sequence; zero seeds from the clock.
	Seed int64 `mapstructure:"seed"`
}

// OpenStackConfig drives the OpenStack bundle rules.
type OpenStackConfig struct {
	Layer            string `mapstructure:"layer"`
	OpenStackFeature string `mapstructure:"openstack_feature"`
	HAFeature        string `mapstructure:"ha_feature"`

	// NetworkFeatures are tried in order; the first present is patched.
	NetworkFeatures []string `mapstructure:"network_features"`

	RemoveApplications []string `mapstructure:"remove_applications"`
	CapMachines        []string `mapstructure:"cap_machines"`
	MachinesToKeep     int      `mapstructure:"machines_to_keep"`

	// KeepUnits lists applications whose unit count is never reduced.
	KeepUnits []string `mapstructure:"keep_units"`

	// FirstTarget lists applications that always keep their first placement target.
	FirstTarget []string `mapstructure:"first_target"`

	ClusterSizeApps []string `mapstructure:"cluster_size_apps"`

	HAClusterPattern string   `mapstructure:"hacluster_pattern"`
	ComputeApp       string   `mapstructure:"compute_app"`
	PlacementCompute string   `mapstructure:"placement_compute_app"`
	GatewayApp       string   `mapstructure:"gateway_app"`
	ChassisApps      []string `mapstructure:"chassis_apps"`
	DataPort         string   `mapstructure:"data_port"`
	DNSApp           string   `mapstructure:"dns_app"`
	DNSOption        string   `mapstructure:"dns_option"`
	DNSForwarders    string   `mapstructure:"dns_forwarders"`

	// Overlay is the file name of the side-file written beside the master
	// in automatic placement mode.
	Overlay string `mapstructure:"overlay"`
}

// KubernetesConfig drives the Kubernetes rule subset.
type KubernetesConfig struct {
	Layer              string   `mapstructure:"layer"`
	HAFeature          string   `mapstructure:"ha_feature"`
	MonitoringFeatures []string `mapstructure:"monitoring_features"`
	PatchingFeatures   []string `mapstructure:"patching_features"`
}

// MasterConfig drives the stand-alone master rewrite.
type MasterConfig struct {
	MAASLayer string   `mapstructure:"maas_layer"`
	Tweaks    []string `mapstructure:"tweaks"`

	// DropConfig maps a layer name to config keys deleted from it.
	DropConfig map[string][]string `mapstructure:"drop_config"`

	// UpstreamDNS is written to the maas layer when set.
	UpstreamDNS string `mapstructure:"upstream_dns"`

	RemoveLayers []string `mapstructure:"remove_layers"`
}

// DefaultConfigFile returns the config file consulted when none is given.
// PROD2LAB_CONFIG overrides the ~/.prod2lab/config.yaml default.
func DefaultConfigFile() (string, error) {
	if p := os.Getenv("PROD2LAB_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Annotate(err, "failed to get user home directory")
	}
	return filepath.Join(home, ".prod2lab", "config.yaml"), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "INFO")

	v.SetDefault("placement.policy", "random")
	v.SetDefault("placement.seed", 0)

	v.SetDefault("openstack.layer", "openstack")
	v.SetDefault("openstack.openstack_feature", "openstack")
	v.SetDefault("openstack.ha_feature", "ha")
	v.SetDefault("openstack.network_features", []string{"ovs", "ovn"})
	v.SetDefault("openstack.remove_applications", []string{
		"apache2",
		"apache",
		"mongodb",
		"grafana",
		"nagios",
		"elastic",
		"prometheus",
		"graylog",
		"logrotate",
		"graylog-mongodb",
		"elasticsearch",
		"filebeat",
		"openstack-service-checks",
		"nrpe-host",
		"nrpe-container",
		"landscape-client",
		"prometheus-openstack-exporter",
		"telegraf",
		"telegraf-prometheus",
		"lldpd",
		"canonical-livepatch",
		"thruk-agent",
		"prometheus-ceph-exporter",
	})
	v.SetDefault("openstack.cap_machines", []string{"vault"})
	v.SetDefault("openstack.machines_to_keep", 1)
	v.SetDefault("openstack.keep_units", []string{
		"ceph-mon",
		"ceph-osd",
		"neutron-gateway",
		"nova-compute",
		"nova-compute-kvm",
		"mysql-innodb-cluster",
		"ovn-central",
	})
	v.SetDefault("openstack.first_target", []string{"memcached", "vault"})
	v.SetDefault("openstack.cluster_size_apps", []string{"mysql", "rabbitmq-server"})
	v.SetDefault("openstack.hacluster_pattern", "hacluster-")
	v.SetDefault("openstack.compute_app", "nova-compute-kvm")
	v.SetDefault("openstack.placement_compute_app", "nova-compute")
	v.SetDefault("openstack.gateway_app", "neutron-gateway")
	v.SetDefault("openstack.chassis_apps", []string{"ovn-chassis", "octavia-ovn-chassis"})
	v.SetDefault("openstack.data_port", "br-data:ens4")
	v.SetDefault("openstack.dns_app", "designate-bind")
	v.SetDefault("openstack.dns_option", "designate-bind_forwarders")
	v.SetDefault("openstack.dns_forwarders", "10.244.40.30")
	v.SetDefault("openstack.overlay", "overlay-openstack-prod2lab.yaml")

	v.SetDefault("kubernetes.layer", "kubernetes")
	v.SetDefault("kubernetes.ha_feature", "ha")
	v.SetDefault("kubernetes.monitoring_features", []string{"monitoring", "lma"})
	v.SetDefault("kubernetes.patching_features", []string{"livepatch", "landscape", "ids"})

	v.SetDefault("master.maas_layer", "maas")
	v.SetDefault("master.tweaks", []string{"nomaasha", "nopgha", "nojujuha"})
	v.SetDefault("master.drop_config", map[string][]string{
		"maas":                 {"postgresql_vip"},
		"juju_maas_controller": {"ha", "ha_timeout"},
	})
	v.SetDefault("master.upstream_dns", "")
	v.SetDefault("master.remove_layers", []string{
		"juju_maas_controller_bundle",
		"juju_openstack_controller_bundle",
		"lma",
		"lmacmr",
	})
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// defaults are static; failing to decode them is a programming error
		panic(err)
	}
	return &cfg
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":        "log.level",
	"placement-policy": "placement.policy",
	"seed":             "placement.seed",
}

// Load reads configuration from defaults, the config file at path (or the
// default file when path is empty), PROD2LAB_* environment variables and
// any changed flags, in increasing order of precedence. A missing config
// file is not an error; an unparsable one is.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultConfigFile(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, errors.Annotate(err, "failed to parse config file")
			}
			if explicit && !os.IsNotExist(errors.Cause(err)) {
				return nil, errors.Annotatef(err, "failed to read config file %s", path)
			}
		}
	}

	v.SetEnvPrefix("PROD2LAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Annotatef(err, "binding flag %s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Annotate(err, "failed to unmarshal config")
	}
	return &cfg, nil
}
