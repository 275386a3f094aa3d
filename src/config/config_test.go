package config

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// TestLayeredMerge checks the last-wins, right-biased merge: command-line
// values override the config file, which overrides the built-in defaults.
func TestLayeredMerge(t *testing.T) {
	v := viper.New()

	def := NewDefaultConfig()
	v.SetDefault("log", def.LogLevel)
	v.SetDefault("protocol", def.Protocol)
	v.SetDefault("snapshot-interval", def.SnapshotInterval)

	file := []byte("log = \"info\"\nprotocol = \"cascade\"\n")
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewBuffer(file)); err != nil {
		t.Fatalf("err: %v", err)
	}

	// command-line override
	v.Set("protocol", "boreal")

	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		t.Fatalf("err: %v", err)
	}

	// untouched field keeps the default
	if cfg.SnapshotInterval != DefaultSnapshotInterval {
		t.Fatalf("SnapshotInterval should be %d, not %d", DefaultSnapshotInterval, cfg.SnapshotInterval)
	}

	// file overrides default
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel should be info, not %s", cfg.LogLevel)
	}

	// command line overrides file
	if cfg.Protocol != "boreal" {
		t.Fatalf("Protocol should be boreal, not %s", cfg.Protocol)
	}
}

func TestSetDataDir(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SetDataDir("/tmp/solas-node")

	if cfg.TopologyFile != filepath.Join("/tmp/solas-node", DefaultTopologyFile) {
		t.Fatalf("TopologyFile should move with datadir, got %s", cfg.TopologyFile)
	}
	if cfg.DatabaseDir != filepath.Join("/tmp/solas-node", DefaultDatabaseFile) {
		t.Fatalf("DatabaseDir should move with datadir, got %s", cfg.DatabaseDir)
	}

	// explicitly chosen locations stay put
	cfg2 := NewDefaultConfig()
	cfg2.TopologyFile = "/etc/solas/topology.json"
	cfg2.SetDataDir("/tmp/solas-node")

	if cfg2.TopologyFile != "/etc/solas/topology.json" {
		t.Fatalf("explicit TopologyFile should not move, got %s", cfg2.TopologyFile)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := NewDefaultConfig()
		cfg.SetDataDir("/tmp/solas-node")
		cfg.BorealGenesisFile = "boreal-genesis.json"
		cfg.CascadeGenesisFile = "cascade-genesis.json"
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("default config with genesis files should validate: %v", err)
	}

	for _, c := range []struct {
		field  string
		mutate func(*Config)
	}{
		{"topology", func(c *Config) { c.TopologyFile = "" }},
		{"protocol", func(c *Config) { c.Protocol = "raft" }},
		{"boreal-genesis", func(c *Config) { c.BorealGenesisFile = "" }},
		{"vrf-key", func(c *Config) { c.BlockProducer = true; c.VRFKeyFile = "" }},
		{"listen", func(c *Config) { c.BindAddrIPv4 = "" }},
		{"snapshot-interval", func(c *Config) { c.SnapshotInterval = 0 }},
		{"service-listen", func(c *Config) { c.ServiceAddr = "" }},
	} {
		cfg := base()
		c.mutate(cfg)

		err := cfg.Validate()
		if err == nil {
			t.Fatalf("mutating %s should fail validation", c.field)
		}

		ferr, ok := err.(*FieldError)
		if !ok {
			t.Fatalf("expected FieldError, got %T: %v", err, err)
		}
		if ferr.Field != c.field {
			t.Fatalf("expected error on field %s, got %s", c.field, ferr.Field)
		}
	}
}
